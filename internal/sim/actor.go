package sim

import (
	"math/rand/v2"

	"github.com/feralworks/mobcore/internal/data"
	"github.com/feralworks/mobcore/internal/event"
	"github.com/feralworks/mobcore/internal/game/ability"
	"github.com/feralworks/mobcore/internal/game/boss"
	"github.com/feralworks/mobcore/internal/game/flight"
	"github.com/feralworks/mobcore/internal/model"
)

// Actor is one live enemy: an ability executor, an optional phase
// manager and a locomotion controller over a shared immutable
// archetype. All state is owned by the simulation goroutine; nothing
// here locks.
type Actor struct {
	id   uint32
	arch *data.ArchetypeDefinition
	emit event.EmitFunc

	executor *ability.Executor
	phases   *boss.PhaseManager
	loco     Locomotion

	health    float64
	maxHealth float64
	alive     bool

	rng *rand.Rand

	// healthChanged fires after damage that does not kill. The
	// spawner uses it to record boss encounter progress.
	healthChanged func(a *Actor)
}

// NewActor spawns an actor at start and emits ActorSpawned. rng
// drives stagger rolls; pass a seeded source for reproducible runs.
func NewActor(id uint32, arch *data.ArchetypeDefinition, start model.Vec3, raycast flight.RaycastFunc, emit event.EmitFunc, rng *rand.Rand) *Actor {
	if emit == nil {
		emit = func(event.Event) {}
	}

	a := &Actor{
		id:        id,
		arch:      arch,
		emit:      emit,
		executor:  ability.NewExecutor(id, arch, emit),
		loco:      newLocomotion(id, arch, start, raycast, emit),
		health:    arch.MaxHealth,
		maxHealth: arch.MaxHealth,
		alive:     true,
		rng:       rng,
	}
	if arch.IsBoss {
		a.phases = boss.NewPhaseManager(id, arch.Phases, a.applyPhase, emit)
	}

	emit(event.Event{
		Kind:     event.KindActorSpawned,
		ActorID:  id,
		Position: start,
	})
	return a
}

// applyPhase wires a phase's consequences into the executor and the
// locomotion. Multipliers are set against archetype base values, not
// stacked, so re-applying after a restore is safe.
func (a *Actor) applyPhase(p *data.BossPhase, _ int) {
	if len(p.Pool) > 0 {
		a.executor.SetPool(p.Pool, 0)
	}
	a.executor.SetDamageScale(p.DamageMultiplier)
	a.loco.SetSpeedScale(p.SpeedMultiplier)
}

// Update advances one simulation tick. Cooldowns go first so an
// ability coming off cooldown this tick is usable this tick; phases
// re-evaluate once per tick as health may have changed since the
// last one.
func (a *Actor) Update(dt float64) {
	if !a.alive {
		return
	}

	a.executor.TickCooldowns(dt)
	a.executor.Tick(dt)
	if a.phases != nil {
		a.phases.Evaluate(a.HealthFraction())
	}
	a.loco.Update(dt)
}

// TryAttack selects and begins an ability for the given target
// distance. Errors mirror the executor's: nothing usable, busy, or
// on cooldown.
func (a *Actor) TryAttack(distance float64) error {
	sel := a.executor.SelectAbility(distance)
	if sel == nil {
		return ability.ErrNoAbility
	}
	return a.executor.BeginAbility(sel)
}

// ApplyDamage resolves an incoming hit: resist scaling, death, and a
// stagger roll that may interrupt the current windup.
func (a *Actor) ApplyDamage(amount float64, _ data.DamageType) {
	if !a.alive || amount <= 0 {
		return
	}

	effective := amount * (1 - a.arch.DamageResist)
	if effective <= 0 {
		return
	}

	a.health -= effective
	if a.health <= 0 {
		a.health = 0
		a.die()
		return
	}

	if a.arch.StaggerChance > 0 && a.rng != nil && a.rng.Float64() < a.arch.StaggerChance {
		a.executor.Interrupt()
	}
	if a.healthChanged != nil {
		a.healthChanged(a)
	}
}

func (a *Actor) die() {
	a.alive = false
	a.loco.Stop()
	a.emit(event.Event{
		Kind:     event.KindActorDied,
		ActorID:  a.id,
		Position: a.loco.Position(),
	})
}

// MoveTo orders locomotion toward dest.
func (a *Actor) MoveTo(dest model.Vec3) {
	a.loco.SetDestination(dest)
}

// RestoreEncounter resumes a persisted boss fight: health fraction
// and phase index, with the phase's stat effects re-applied.
func (a *Actor) RestoreEncounter(row boss.EncounterRow) {
	if row.HealthFraction > 0 && row.HealthFraction <= 1 {
		a.health = row.HealthFraction * a.maxHealth
	}
	if a.phases != nil {
		a.phases.Restore(int(row.PhaseIndex))
	}
}

// SetHealthChangedFunc registers the post-damage hook.
func (a *Actor) SetHealthChangedFunc(fn func(a *Actor)) {
	a.healthChanged = fn
}

func (a *Actor) HealthFraction() float64 {
	if a.maxHealth <= 0 {
		return 0
	}
	return a.health / a.maxHealth
}

// PhaseIndex returns the active phase index, -1 for non-bosses or
// before the first phase.
func (a *Actor) PhaseIndex() int {
	if a.phases == nil {
		return -1
	}
	return a.phases.Index()
}

func (a *Actor) ID() uint32                           { return a.id }
func (a *Actor) Archetype() *data.ArchetypeDefinition { return a.arch }
func (a *Actor) Alive() bool                          { return a.alive }
func (a *Actor) Health() float64                      { return a.health }
func (a *Actor) Position() model.Vec3                 { return a.loco.Position() }
func (a *Actor) Executor() *ability.Executor          { return a.executor }
func (a *Actor) Locomotion() Locomotion               { return a.loco }
