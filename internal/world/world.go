package world

import (
	"math"

	"github.com/feralworks/mobcore/internal/model"
)

const (
	// cellShift - shift by N bits for 2^N units per cell (2^4 = 16)
	cellShift = 4
	cellSize  = 1 << cellShift
)

type cellKey struct {
	cx, cy int32
}

// cellOf converts a world position to its cell key.
// Formula: floor(coord) >> cellShift (arithmetic shift handles negatives)
func cellOf(x, y float64) cellKey {
	return cellKey{
		cx: int32(math.Floor(x)) >> cellShift,
		cy: int32(math.Floor(y)) >> cellShift,
	}
}

// World holds static collision geometry: a flat ground plane and a
// set of axis-aligned boxes indexed by a sparse XY cell grid. All
// methods are safe for concurrent use because the world is immutable
// after construction.
type World struct {
	groundZ float64
	boxes   []Box
	cells   map[cellKey][]int
}

func NewWorld(groundZ float64, boxes []Box) *World {
	w := &World{
		groundZ: groundZ,
		boxes:   boxes,
		cells:   make(map[cellKey][]int),
	}

	for i, b := range boxes {
		lo := cellOf(b.Min.X, b.Min.Y)
		hi := cellOf(b.Max.X, b.Max.Y)
		for cx := lo.cx; cx <= hi.cx; cx++ {
			for cy := lo.cy; cy <= hi.cy; cy++ {
				key := cellKey{cx, cy}
				w.cells[key] = append(w.cells[key], i)
			}
		}
	}
	return w
}

func (w *World) GroundZ() float64 { return w.groundZ }
func (w *World) BoxCount() int    { return len(w.boxes) }

// Raycast traces a ray from origin along dir for at most maxDist and
// returns the distance to the first obstacle or the ground plane.
// dir does not need to be normalized; a zero dir never hits.
func (w *World) Raycast(origin, dir model.Vec3, maxDist float64) (float64, bool) {
	d := dir.Normalized()
	if d.IsZero() || maxDist <= 0 {
		return 0, false
	}

	best := math.Inf(1)

	// Ground plane at groundZ.
	if d.Z != 0 {
		if t := (w.groundZ - origin.Z) / d.Z; t >= 0 && t < best {
			best = t
		}
	}

	if len(w.boxes) > 0 {
		w.walkCells(origin, d, maxDist, &best)
	}

	if best <= maxDist {
		return best, true
	}
	return 0, false
}

// walkCells steps the ray through grid cells in XY order (Amanatides &
// Woo) and tests the boxes indexed in each visited cell. Boxes that
// span several cells are tested once.
func (w *World) walkCells(origin, d model.Vec3, maxDist float64, best *float64) {
	seen := make(map[int]bool)
	key := cellOf(origin.X, origin.Y)

	// Pure vertical ray stays in one cell.
	if d.X == 0 && d.Y == 0 {
		w.checkCell(key, origin, d, seen, best)
		return
	}

	stepX, tMaxX, tDeltaX := axisWalk(origin.X, d.X, key.cx)
	stepY, tMaxY, tDeltaY := axisWalk(origin.Y, d.Y, key.cy)

	// Worst case visits every cell along both axes plus slack for
	// boundary-exact origins.
	maxSteps := 2*(int(maxDist)/cellSize+2) + 2

	for range maxSteps {
		w.checkCell(key, origin, d, seen, best)

		if math.Min(tMaxX, tMaxY) > maxDist {
			return
		}
		if tMaxX < tMaxY {
			key.cx += stepX
			tMaxX += tDeltaX
		} else {
			key.cy += stepY
			tMaxY += tDeltaY
		}
	}
}

// axisWalk returns the step direction, the ray time of the first cell
// boundary crossing and the time between crossings for one axis.
func axisWalk(o, d float64, cell int32) (step int32, tMax, tDelta float64) {
	if d == 0 {
		return 0, math.Inf(1), math.Inf(1)
	}
	if d > 0 {
		bound := float64((cell + 1) << cellShift)
		return 1, (bound - o) / d, cellSize / d
	}
	bound := float64(cell << cellShift)
	return -1, (bound - o) / d, cellSize / -d
}

func (w *World) checkCell(key cellKey, origin, d model.Vec3, seen map[int]bool, best *float64) {
	for _, idx := range w.cells[key] {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		if t, ok := rayBox(w.boxes[idx], origin, d); ok && t < *best {
			*best = t
		}
	}
}

// rayBox is the slab intersection test. An origin inside the box
// reports distance 0.
func rayBox(b Box, origin, d model.Vec3) (float64, bool) {
	tNear := math.Inf(-1)
	tFar := math.Inf(1)

	axes := [3][4]float64{
		{origin.X, d.X, b.Min.X, b.Max.X},
		{origin.Y, d.Y, b.Min.Y, b.Max.Y},
		{origin.Z, d.Z, b.Min.Z, b.Max.Z},
	}

	for _, ax := range axes {
		o, dd, lo, hi := ax[0], ax[1], ax[2], ax[3]
		if dd == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / dd
		t2 := (hi - o) / dd
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return 0, false
		}
	}

	if tFar < 0 {
		return 0, false
	}
	if tNear < 0 {
		return 0, true
	}
	return tNear, true
}
