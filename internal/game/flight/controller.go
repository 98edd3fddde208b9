package flight

import (
	"math"

	"github.com/feralworks/mobcore/internal/data"
	"github.com/feralworks/mobcore/internal/event"
	"github.com/feralworks/mobcore/internal/model"
)

// RaycastFunc queries static world geometry. It returns the distance
// to the first hit within maxDist.
type RaycastFunc func(origin, dir model.Vec3, maxDist float64) (float64, bool)

const (
	// radialRays spread every 360/radialRays degrees around the
	// horizontal plane for obstacle probing.
	radialRays = 8

	// arriveRadius is the distance to the hover target below which
	// the actor counts as arrived.
	arriveRadius = 0.5
)

// Controller moves one airborne actor: steering toward a hover point
// above the destination, sine-bob idle motion, proximity-weighted
// obstacle avoidance and banked turning. Tick-driven and single
// threaded like the rest of the actor state.
type Controller struct {
	actorID uint32
	emit    event.EmitFunc
	raycast RaycastFunc

	moveSpeed      float64
	turnSpeed      float64
	hoverHeight    float64
	hoverSpeed     float64
	hoverVariation float64
	avoidDist      float64
	bankAngle      float64

	position    model.Vec3
	orientation model.Quat
	velocity    model.Vec3

	destination model.Vec3
	arrived     bool
	stopped     bool

	hoverPhase float64
	speedScale float64
}

// NewController places the actor at start with the start point as its
// initial destination, so it climbs to hover height on its own. A nil
// raycast disables avoidance; a nil emit drops events.
func NewController(actorID uint32, arch *data.ArchetypeDefinition, start model.Vec3, raycast RaycastFunc, emit event.EmitFunc) *Controller {
	if emit == nil {
		emit = func(event.Event) {}
	}
	return &Controller{
		actorID:        actorID,
		emit:           emit,
		raycast:        raycast,
		moveSpeed:      arch.MoveSpeed,
		turnSpeed:      arch.TurnSpeed,
		hoverHeight:    arch.FlyingHeight,
		hoverSpeed:     arch.HoverSpeed,
		hoverVariation: arch.HoverVariation,
		avoidDist:      arch.AvoidanceDistance,
		bankAngle:      arch.BankAngle,
		position:       start,
		orientation:    model.IdentityQuat,
		destination:    start,
		speedScale:     1,
	}
}

// Update advances the controller by dt seconds. Movement and rotation
// are skipped entirely while stopped.
func (c *Controller) Update(dt float64) {
	if c.stopped {
		return
	}

	c.hoverPhase += c.hoverSpeed * dt
	target := c.hoverTarget()

	steer := target.Sub(c.position)
	if steer.Length() < arriveRadius {
		if !c.arrived {
			c.arrived = true
			c.emit(event.Event{
				Kind:     event.KindDestinationReached,
				ActorID:  c.actorID,
				Position: c.position,
			})
		}
		c.velocity = model.Vec3{}
		return
	}

	dir := steer.Normalized().Add(c.avoidance()).Normalized()
	if dir.IsZero() {
		// Steering and avoidance cancelled out: hold position.
		c.velocity = model.Vec3{}
		return
	}

	c.velocity = dir.Scale(c.moveSpeed * c.speedScale)
	c.position = c.position.Add(c.velocity.Scale(dt))
	c.face(dt)
}

// hoverTarget is the live steering target: the destination raised by
// hover height plus the sine bob.
func (c *Controller) hoverTarget() model.Vec3 {
	offset := math.Sin(c.hoverPhase) * c.hoverVariation
	return c.destination.Add(model.Up.Scale(c.hoverHeight + offset))
}

// avoidance probes 8 horizontal rays plus one downward ray and sums
// their repulsions: closer obstacles push harder, the down ray
// restores ground clearance. Returns a unit correction or zero.
func (c *Controller) avoidance() model.Vec3 {
	if c.raycast == nil {
		return model.Vec3{}
	}

	var sum model.Vec3
	for i := range radialRays {
		angle := float64(i) * (2 * math.Pi / radialRays)
		ray := model.Vec3{X: math.Cos(angle), Y: math.Sin(angle)}
		if dist, hit := c.raycast(c.position, ray, c.avoidDist); hit {
			sum = sum.Add(ray.Scale(-(1 - dist/c.avoidDist)))
		}
	}

	if dist, hit := c.raycast(c.position, model.Down, c.hoverHeight+1); hit && dist < c.hoverHeight {
		sum = sum.Add(model.Up.Scale(c.hoverHeight - dist))
	}

	return sum.Normalized()
}

// face turns toward the destination with a bank proportional to
// lateral speed. Rotation is slerped at turnSpeed per second.
func (c *Controller) face(dt float64) {
	look := c.destination.Sub(c.position).Horizontal()
	if look.IsZero() {
		return
	}

	yaw := model.YawToward(look)
	lateral := c.velocity.Normalized().Dot(c.orientation.Right())
	target := yaw.Mul(model.AxisAngle(model.UnitX, -lateral*c.bankAngle))

	c.orientation = model.Slerp(c.orientation, target, math.Min(1, c.turnSpeed*dt))
}

// SetDestination re-arms the arrived flag and steers toward a hover
// point above the new destination.
func (c *Controller) SetDestination(dest model.Vec3) {
	c.destination = dest
	c.arrived = false
}

// Stop freezes the actor at its current position and marks it
// arrived.
func (c *Controller) Stop() {
	c.stopped = true
	c.arrived = true
	c.velocity = model.Vec3{}
}

// Resume lifts a Stop. The arrived flag stays until SetDestination.
func (c *Controller) Resume() {
	c.stopped = false
}

// RemainingDistance is the distance to the current hover target.
func (c *Controller) RemainingDistance() float64 {
	return c.position.Distance(c.hoverTarget())
}

func (c *Controller) HasReachedDestination() bool { return c.arrived }
func (c *Controller) IsStopped() bool             { return c.stopped }

// SetSpeedScale scales move speed against the archetype base. Boss
// phases set this.
func (c *Controller) SetSpeedScale(scale float64) {
	c.speedScale = scale
}

func (c *Controller) Position() model.Vec3    { return c.position }
func (c *Controller) Velocity() model.Vec3    { return c.velocity }
func (c *Controller) Orientation() model.Quat { return c.orientation }

// SetPosition teleports the actor without touching its destination.
func (c *Controller) SetPosition(p model.Vec3) {
	c.position = p
}
