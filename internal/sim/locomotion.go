package sim

import (
	"github.com/feralworks/mobcore/internal/data"
	"github.com/feralworks/mobcore/internal/event"
	"github.com/feralworks/mobcore/internal/game/flight"
	"github.com/feralworks/mobcore/internal/model"
)

// Locomotion is the per-tick movement contract every movement type
// satisfies. The flight controller is the richest implementation;
// ground and stationary movers share the interface so the actor
// update never branches on movement type.
type Locomotion interface {
	Update(dt float64)
	SetDestination(dest model.Vec3)
	Stop()
	Resume()
	RemainingDistance() float64
	HasReachedDestination() bool
	IsStopped() bool
	SetSpeedScale(scale float64)
	Position() model.Vec3
}

// locomotionFactory builds a controller for one movement type.
type locomotionFactory func(actorID uint32, arch *data.ArchetypeDefinition, start model.Vec3, raycast flight.RaycastFunc, emit event.EmitFunc) Locomotion

// locomotionFactories dispatches movement type to controller through
// a lookup table instead of per-type subclasses.
var locomotionFactories = map[data.MovementType]locomotionFactory{
	data.MoveFlying: func(actorID uint32, arch *data.ArchetypeDefinition, start model.Vec3, raycast flight.RaycastFunc, emit event.EmitFunc) Locomotion {
		return flight.NewController(actorID, arch, start, raycast, emit)
	},
	data.MoveGround:     newKinematicMover,
	data.MoveBurrowing:  newKinematicMover,
	data.MoveStationary: newStationaryMover,
}

func newLocomotion(actorID uint32, arch *data.ArchetypeDefinition, start model.Vec3, raycast flight.RaycastFunc, emit event.EmitFunc) Locomotion {
	factory, ok := locomotionFactories[arch.MovementType]
	if !ok {
		factory = newKinematicMover
	}
	return factory(actorID, arch, start, raycast, emit)
}
