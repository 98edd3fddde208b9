package model

import "math"

// Quat is a unit quaternion representing an orientation. The identity
// orientation faces forward along +X with +Z up.
type Quat struct {
	W float64
	X float64
	Y float64
	Z float64
}

// IdentityQuat is the no-rotation orientation.
var IdentityQuat = Quat{W: 1}

// AxisAngle builds the rotation of angle radians around axis.
// A zero axis yields the identity rotation.
func AxisAngle(axis Vec3, angle float64) Quat {
	n := axis.Normalized()
	if n.IsZero() {
		return IdentityQuat
	}
	half := angle / 2
	s := math.Sin(half)
	return Quat{
		W: math.Cos(half),
		X: n.X * s,
		Y: n.Y * s,
		Z: n.Z * s,
	}
}

// YawToward returns the rotation about Up that points the forward axis
// along the horizontal component of dir. A direction with no horizontal
// component yields the identity rotation.
func YawToward(dir Vec3) Quat {
	h := dir.Horizontal()
	if h.IsZero() {
		return IdentityQuat
	}
	return AxisAngle(Up, math.Atan2(h.Y, h.X))
}

// Mul composes rotations: q.Mul(o) applies o first, then q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Dot returns the four-component dot product of q and o.
func (q Quat) Dot(o Quat) float64 {
	return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
}

// Normalized returns q scaled to unit length. A degenerate all-zero
// quaternion normalizes to identity.
func (q Quat) Normalized() Quat {
	l := math.Sqrt(q.Dot(q))
	if l == 0 {
		return IdentityQuat
	}
	return Quat{q.W / l, q.X / l, q.Y / l, q.Z / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2w(u × v) + 2(u × (u × v)) with u = (X, Y, Z)
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Forward returns the rotated forward axis (+X at identity).
func (q Quat) Forward() Vec3 {
	return q.Rotate(UnitX)
}

// Right returns the rotated right axis (-Y at identity, Z-up right-handed).
func (q Quat) Right() Vec3 {
	return q.Rotate(Vec3{Y: -1})
}

// Slerp spherically interpolates from a to b by t in [0, 1], taking the
// shorter arc.
func Slerp(a, b Quat, t float64) Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}

	dot := a.Dot(b)
	if dot < 0 {
		b = Quat{-b.W, -b.X, -b.Y, -b.Z}
		dot = -dot
	}

	if dot > 0.9995 {
		// Nearly parallel: linear blend avoids dividing by a tiny sine.
		return Quat{
			a.W + t*(b.W-a.W),
			a.X + t*(b.X-a.X),
			a.Y + t*(b.Y-a.Y),
			a.Z + t*(b.Z-a.Z),
		}.Normalized()
	}

	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return Quat{
		wa*a.W + wb*b.W,
		wa*a.X + wb*b.X,
		wa*a.Y + wb*b.Y,
		wa*a.Z + wb*b.Z,
	}
}
