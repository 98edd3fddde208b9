package world

import (
	"math/rand"
	"testing"

	"github.com/feralworks/mobcore/internal/model"
)

func benchWorld() *World {
	rng := rand.New(rand.NewSource(7))
	boxes := make([]Box, 0, 200)
	for range 200 {
		x := rng.Float64()*400 - 200
		y := rng.Float64()*400 - 200
		boxes = append(boxes, Box{
			Min: model.Vec3{X: x, Y: y, Z: 0},
			Max: model.Vec3{X: x + 4, Y: y + 4, Z: 12},
		})
	}
	return NewWorld(0, boxes)
}

// BenchmarkRaycast_Horizontal measures the grid walk over a box field.
func BenchmarkRaycast_Horizontal(b *testing.B) {
	w := benchWorld()
	origin := model.Vec3{X: -150, Y: 3, Z: 6}

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		_, _ = w.Raycast(origin, model.UnitX, 50)
	}
}

// BenchmarkRaycast_Down measures the single-cell vertical path used by
// every flying actor for ground clearance each tick.
func BenchmarkRaycast_Down(b *testing.B) {
	w := benchWorld()
	origin := model.Vec3{X: 10, Y: 10, Z: 20}

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		_, _ = w.Raycast(origin, model.Down, 8)
	}
}

// BenchmarkRaycast_EmptyWorld is the floor: ground-plane check only.
func BenchmarkRaycast_EmptyWorld(b *testing.B) {
	w := NewWorld(0, nil)
	origin := model.Vec3{X: 0, Y: 0, Z: 10}

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		_, _ = w.Raycast(origin, model.Down, 15)
	}
}
