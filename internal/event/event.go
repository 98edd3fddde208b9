package event

import (
	"github.com/feralworks/mobcore/internal/data"
	"github.com/feralworks/mobcore/internal/model"
)

// Kind discriminates simulation events.
type Kind uint8

const (
	KindActorSpawned Kind = iota
	KindActorDied
	KindWindupStarted
	KindAbilityExecuted
	KindAbilityInterrupted
	KindRecoveryEnded
	KindPhaseEntered
	KindDestinationReached
)

func (k Kind) String() string {
	switch k {
	case KindActorSpawned:
		return "actor_spawned"
	case KindActorDied:
		return "actor_died"
	case KindWindupStarted:
		return "windup_started"
	case KindAbilityExecuted:
		return "ability_executed"
	case KindAbilityInterrupted:
		return "ability_interrupted"
	case KindRecoveryEnded:
		return "recovery_ended"
	case KindPhaseEntered:
		return "phase_entered"
	case KindDestinationReached:
		return "destination_reached"
	default:
		return "unknown"
	}
}

// Event is a single simulation occurrence. Only the fields relevant
// to the Kind are set.
type Event struct {
	Kind    Kind
	ActorID uint32

	AbilityID  string
	Damage     float64
	DamageType data.DamageType

	PhaseIndex   int32
	PhaseName    string
	PhaseTrigger string

	Position model.Vec3
}

// EmitFunc receives events as they happen.
type EmitFunc func(Event)
