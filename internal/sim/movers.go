package sim

import (
	"github.com/feralworks/mobcore/internal/data"
	"github.com/feralworks/mobcore/internal/event"
	"github.com/feralworks/mobcore/internal/game/flight"
	"github.com/feralworks/mobcore/internal/model"
)

const arriveRadius = 0.5

// kinematicMover is straight-line ground locomotion: no hover, no
// avoidance, just a constant-speed run at the destination. Ground and
// burrowing archetypes use it.
type kinematicMover struct {
	actorID uint32
	emit    event.EmitFunc

	moveSpeed  float64
	speedScale float64

	position    model.Vec3
	destination model.Vec3
	arrived     bool
	stopped     bool
}

func newKinematicMover(actorID uint32, arch *data.ArchetypeDefinition, start model.Vec3, _ flight.RaycastFunc, emit event.EmitFunc) Locomotion {
	if emit == nil {
		emit = func(event.Event) {}
	}
	return &kinematicMover{
		actorID:     actorID,
		emit:        emit,
		moveSpeed:   arch.MoveSpeed,
		speedScale:  1,
		position:    start,
		destination: start,
		arrived:     true,
	}
}

func (m *kinematicMover) Update(dt float64) {
	if m.stopped {
		return
	}

	steer := m.destination.Sub(m.position)
	dist := steer.Length()
	if dist < arriveRadius {
		if !m.arrived {
			m.arrived = true
			m.emit(event.Event{
				Kind:     event.KindDestinationReached,
				ActorID:  m.actorID,
				Position: m.position,
			})
		}
		return
	}

	step := m.moveSpeed * m.speedScale * dt
	if step > dist {
		step = dist
	}
	m.position = m.position.Add(steer.Normalized().Scale(step))
}

func (m *kinematicMover) SetDestination(dest model.Vec3) {
	m.destination = dest
	m.arrived = false
}

func (m *kinematicMover) Stop() {
	m.stopped = true
	m.arrived = true
}

func (m *kinematicMover) Resume() {
	m.stopped = false
}

func (m *kinematicMover) RemainingDistance() float64 {
	return m.position.Distance(m.destination)
}

func (m *kinematicMover) HasReachedDestination() bool { return m.arrived }
func (m *kinematicMover) IsStopped() bool             { return m.stopped }
func (m *kinematicMover) SetSpeedScale(scale float64) { m.speedScale = scale }
func (m *kinematicMover) Position() model.Vec3        { return m.position }

// stationaryMover pins turret-style archetypes in place. Every
// movement request is acknowledged and ignored.
type stationaryMover struct {
	position model.Vec3
	stopped  bool
}

func newStationaryMover(_ uint32, _ *data.ArchetypeDefinition, start model.Vec3, _ flight.RaycastFunc, _ event.EmitFunc) Locomotion {
	return &stationaryMover{position: start}
}

func (m *stationaryMover) Update(float64)              {}
func (m *stationaryMover) SetDestination(model.Vec3)   {}
func (m *stationaryMover) Stop()                       { m.stopped = true }
func (m *stationaryMover) Resume()                     { m.stopped = false }
func (m *stationaryMover) RemainingDistance() float64  { return 0 }
func (m *stationaryMover) HasReachedDestination() bool { return true }
func (m *stationaryMover) IsStopped() bool             { return m.stopped }
func (m *stationaryMover) SetSpeedScale(float64)       {}
func (m *stationaryMover) Position() model.Vec3        { return m.position }
