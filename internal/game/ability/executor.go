package ability

import (
	"errors"
	"math"

	"github.com/feralworks/mobcore/internal/data"
	"github.com/feralworks/mobcore/internal/event"
)

// State is the executor's position in the ability lifecycle.
type State uint8

const (
	StateIdle State = iota
	StateWindup
	StateExecuting
	StateRecovery
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWindup:
		return "windup"
	case StateExecuting:
		return "executing"
	case StateRecovery:
		return "recovery"
	default:
		return "unknown"
	}
}

var (
	ErrBusy       = errors.New("ability already in progress")
	ErrOnCooldown = errors.New("ability on cooldown")
	ErrNoAbility  = errors.New("no ability")
)

// timeEpsilon absorbs float64 accumulation noise so a boundary that
// falls exactly on a tick is crossed on that tick.
const timeEpsilon = 1e-9

// Executor runs one actor's ability lifecycle: idle, windup, the
// execution instant, recovery, back to idle. It is tick-driven and
// deterministic: all timing advances through Tick and TickCooldowns,
// never wall-clock. Not safe for concurrent use; each actor owns one.
//
// Events go through the injected emit callback to avoid coupling to
// the simulation loop.
type Executor struct {
	actorID uint32
	emit    event.EmitFunc

	pool    []*data.AbilityDefinition
	primary int

	state   State
	current *data.AbilityDefinition
	elapsed float64

	// cooldowns maps ability ID to remaining seconds. Keyed by ID so
	// a phase pool swap keeps hot abilities hot.
	cooldowns map[string]float64

	damageScale float64
}

// NewExecutor creates an executor over the archetype's ability pool.
// A nil emit drops events.
func NewExecutor(actorID uint32, arch *data.ArchetypeDefinition, emit event.EmitFunc) *Executor {
	if emit == nil {
		emit = func(event.Event) {}
	}
	ex := &Executor{
		actorID:     actorID,
		emit:        emit,
		cooldowns:   make(map[string]float64),
		damageScale: 1,
	}
	if arch != nil {
		ex.SetPool(arch.Catalog, arch.PrimaryAbilityIndex)
	}
	return ex
}

// SetPool replaces the ability pool. Running cooldowns are kept: a
// boss phase swapping pools does not reset them. An ability mid-windup
// keeps running from the old pool.
func (ex *Executor) SetPool(pool []*data.AbilityDefinition, primary int) {
	ex.pool = pool
	if primary < 0 || primary >= len(pool) {
		primary = 0
	}
	ex.primary = primary
}

// SetDamageScale sets the multiplier applied to base damage at the
// execution instant. Phases set this against the archetype's base.
func (ex *Executor) SetDamageScale(scale float64) {
	ex.damageScale = scale
}

// SelectAbility picks an ability usable at the given target distance:
// off cooldown and with distance inside [MinRange, MaxRange]. The
// primary ability wins when it qualifies, otherwise the first usable
// one in pool order. Returns nil when nothing fits.
func (ex *Executor) SelectAbility(distance float64) *data.AbilityDefinition {
	if len(ex.pool) == 0 {
		return nil
	}

	if p := ex.pool[ex.primary]; ex.usable(p, distance) {
		return p
	}
	for _, a := range ex.pool {
		if ex.usable(a, distance) {
			return a
		}
	}
	return nil
}

func (ex *Executor) usable(a *data.AbilityDefinition, distance float64) bool {
	if distance < a.MinRange || distance > a.MaxRange {
		return false
	}
	return ex.cooldowns[a.ID] == 0
}

// BeginAbility starts the windup for a. The execution instant fires
// on a later Tick, even for a zero-duration windup.
func (ex *Executor) BeginAbility(a *data.AbilityDefinition) error {
	if a == nil {
		return ErrNoAbility
	}
	if ex.state != StateIdle {
		return ErrBusy
	}
	if ex.cooldowns[a.ID] > 0 {
		return ErrOnCooldown
	}

	ex.state = StateWindup
	ex.current = a
	ex.elapsed = 0

	ex.emit(event.Event{
		Kind:      event.KindWindupStarted,
		ActorID:   ex.actorID,
		AbilityID: a.ID,
	})
	return nil
}

// Tick advances the lifecycle by dt seconds. Time left over after a
// boundary crossing carries into the next stage, so timing does not
// drift with the tick rate.
func (ex *Executor) Tick(dt float64) {
	switch ex.state {
	case StateWindup:
		ex.elapsed += dt
		if ex.elapsed+timeEpsilon >= ex.current.WindupTime {
			ex.execute(math.Max(0, ex.elapsed-ex.current.WindupTime))
		}

	case StateRecovery:
		ex.elapsed += dt
		if ex.elapsed+timeEpsilon >= ex.current.RecoveryTime {
			ex.finishRecovery()
		}
	}
}

// execute fires the execution instant and rolls straight into
// recovery. carry is tick time left over past the windup boundary; it
// back-dates both the cooldown and the recovery clock.
func (ex *Executor) execute(carry float64) {
	a := ex.current
	ex.state = StateExecuting

	ex.emit(event.Event{
		Kind:       event.KindAbilityExecuted,
		ActorID:    ex.actorID,
		AbilityID:  a.ID,
		Damage:     a.BaseDamage * ex.damageScale,
		DamageType: a.DamageType,
	})

	if cd := a.Cooldown - carry; cd > 0 {
		ex.cooldowns[a.ID] = cd
	}

	ex.state = StateRecovery
	ex.elapsed = carry
	if ex.elapsed+timeEpsilon >= a.RecoveryTime {
		ex.finishRecovery()
	}
}

func (ex *Executor) finishRecovery() {
	ex.emit(event.Event{
		Kind:      event.KindRecoveryEnded,
		ActorID:   ex.actorID,
		AbilityID: ex.current.ID,
	})
	ex.state = StateIdle
	ex.current = nil
	ex.elapsed = 0
}

// Interrupt cancels a windup in progress. It only works before the
// execution instant and only on abilities flagged interruptible. The
// actor pays the full recovery time; no cooldown starts and no
// execution event fires. Reports whether the windup was cancelled.
func (ex *Executor) Interrupt() bool {
	if ex.state != StateWindup {
		return false
	}
	if !ex.current.CanBeInterrupted {
		return false
	}

	ex.emit(event.Event{
		Kind:      event.KindAbilityInterrupted,
		ActorID:   ex.actorID,
		AbilityID: ex.current.ID,
	})

	ex.state = StateRecovery
	ex.elapsed = 0
	return true
}

// TickCooldowns advances cooldown clocks by dt. The actor update runs
// this before Tick so an ability whose cooldown lapses this tick can
// fire this tick.
func (ex *Executor) TickCooldowns(dt float64) {
	for id, left := range ex.cooldowns {
		left -= dt
		if left <= timeEpsilon {
			delete(ex.cooldowns, id)
		} else {
			ex.cooldowns[id] = left
		}
	}
}

// CooldownRemaining returns seconds left on an ability's cooldown, 0
// when ready.
func (ex *Executor) CooldownRemaining(id string) float64 {
	return ex.cooldowns[id]
}

func (ex *Executor) State() State { return ex.state }

// Current returns the ability in windup or recovery, nil when idle.
func (ex *Executor) Current() *data.AbilityDefinition { return ex.current }
