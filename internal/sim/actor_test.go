package sim

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/feralworks/mobcore/internal/data"
	"github.com/feralworks/mobcore/internal/event"
	"github.com/feralworks/mobcore/internal/game/ability"
	"github.com/feralworks/mobcore/internal/game/boss"
	"github.com/feralworks/mobcore/internal/model"
)

func simAbility(id string, windup, recovery, cooldown float64) *data.AbilityDefinition {
	return &data.AbilityDefinition{
		ID:               id,
		Name:             id,
		Cooldown:         cooldown,
		WindupTime:       windup,
		RecoveryTime:     recovery,
		MaxRange:         2,
		BaseDamage:       10,
		DamageType:       data.DamagePhysical,
		CanBeInterrupted: true,
	}
}

// grunt is a plain ground melee archetype: 100 health, half physical
// resist, never staggers.
func grunt() *data.ArchetypeDefinition {
	return &data.ArchetypeDefinition{
		ID:            "grunt",
		Name:          "Grunt",
		MaxHealth:     100,
		DamageResist:  0.5,
		MovementType:  data.MoveGround,
		MoveSpeed:     4,
		TurnSpeed:     2,
		CombatStyle:   data.StyleMelee,
		AttackRange:   2,
		StaggerChance: 0,
		Catalog:       []*data.AbilityDefinition{simAbility("claw", 0.5, 0.3, 3)},
	}
}

// matriarch is a one-phase boss: at half health it swaps to a slam
// pool with doubled damage and 1.5x speed.
func matriarch() *data.ArchetypeDefinition {
	return &data.ArchetypeDefinition{
		ID:           "matriarch",
		Name:         "Matriarch",
		MaxHealth:    200,
		MovementType: data.MoveGround,
		MoveSpeed:    4,
		TurnSpeed:    2,
		CombatStyle:  data.StyleMelee,
		AttackRange:  2,
		IsBoss:       true,
		Catalog:      []*data.AbilityDefinition{simAbility("bite", 0.5, 0.3, 3)},
		Phases: []data.BossPhase{
			{
				Name:             "enraged",
				HealthThreshold:  0.5,
				SpeedMultiplier:  1.5,
				DamageMultiplier: 2,
				EnterTrigger:     "roar",
				Pool:             []*data.AbilityDefinition{simAbility("slam", 0.5, 0.3, 3)},
			},
		},
	}
}

type simLog struct {
	events []event.Event
}

func (l *simLog) emit(ev event.Event) { l.events = append(l.events, ev) }

func (l *simLog) count(kind event.Kind) int {
	n := 0
	for _, ev := range l.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (l *simLog) last(kind event.Kind) (event.Event, bool) {
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Kind == kind {
			return l.events[i], true
		}
	}
	return event.Event{}, false
}

func newTestActor(arch *data.ArchetypeDefinition) (*Actor, *simLog) {
	log := &simLog{}
	rng := rand.New(rand.NewPCG(1, 2))
	return NewActor(7, arch, model.Vec3{X: 1, Y: 2}, nil, log.emit, rng), log
}

func TestActor_SpawnEmitsEvent(t *testing.T) {
	a, log := newTestActor(grunt())

	if got := log.count(event.KindActorSpawned); got != 1 {
		t.Fatalf("spawn events = %d, want 1", got)
	}
	ev := log.events[0]
	if ev.ActorID != 7 {
		t.Errorf("ActorID = %d, want 7", ev.ActorID)
	}
	if ev.Position != (model.Vec3{X: 1, Y: 2}) {
		t.Errorf("Position = %+v, want spawn point", ev.Position)
	}
	if !a.Alive() || a.Health() != 100 {
		t.Errorf("Alive = %v, Health = %v, want alive at 100", a.Alive(), a.Health())
	}
}

func TestActor_DamageAppliesResist(t *testing.T) {
	a, _ := newTestActor(grunt())

	// 20 raw at 0.5 resist lands as 10.
	a.ApplyDamage(20, data.DamagePhysical)

	if got := a.Health(); math.Abs(got-90) > 1e-9 {
		t.Errorf("Health = %v, want 90", got)
	}
	if math.Abs(a.HealthFraction()-0.9) > 1e-9 {
		t.Errorf("HealthFraction = %v, want 0.9", a.HealthFraction())
	}
}

func TestActor_FullResistShrugsOffHits(t *testing.T) {
	arch := grunt()
	arch.DamageResist = 1
	a, log := newTestActor(arch)

	a.ApplyDamage(50, data.DamageFire)

	if a.Health() != 100 {
		t.Errorf("Health = %v, want 100", a.Health())
	}
	if got := log.count(event.KindActorDied); got != 0 {
		t.Errorf("died events = %d, want 0", got)
	}
}

func TestActor_NonPositiveDamageIgnored(t *testing.T) {
	a, _ := newTestActor(grunt())

	a.ApplyDamage(0, data.DamagePhysical)
	a.ApplyDamage(-5, data.DamagePhysical)

	if a.Health() != 100 {
		t.Errorf("Health = %v, want 100", a.Health())
	}
}

func TestActor_LethalDamageKills(t *testing.T) {
	a, log := newTestActor(grunt())

	// 300 raw at 0.5 resist lands as 150, past 100 health.
	a.ApplyDamage(300, data.DamagePhysical)

	if a.Alive() {
		t.Fatal("actor still alive after lethal damage")
	}
	if a.Health() != 0 {
		t.Errorf("Health = %v, want 0", a.Health())
	}
	if got := log.count(event.KindActorDied); got != 1 {
		t.Fatalf("died events = %d, want 1", got)
	}
	ev, _ := log.last(event.KindActorDied)
	if ev.ActorID != 7 {
		t.Errorf("died ActorID = %d, want 7", ev.ActorID)
	}

	// Dead actors ignore everything.
	a.ApplyDamage(50, data.DamagePhysical)
	a.Update(0.1)
	if a.Health() != 0 || log.count(event.KindActorDied) != 1 {
		t.Error("dead actor reacted to damage or update")
	}
	if !a.Locomotion().IsStopped() {
		t.Error("locomotion still running after death")
	}
}

func TestActor_StaggerInterruptsWindup(t *testing.T) {
	arch := grunt()
	arch.DamageResist = 0
	arch.StaggerChance = 1
	a, log := newTestActor(arch)

	if err := a.TryAttack(1); err != nil {
		t.Fatalf("TryAttack: %v", err)
	}
	if a.Executor().State() != ability.StateWindup {
		t.Fatalf("state = %v, want windup", a.Executor().State())
	}

	a.ApplyDamage(10, data.DamagePhysical)

	if got := log.count(event.KindAbilityInterrupted); got != 1 {
		t.Errorf("interrupted events = %d, want 1", got)
	}
	if a.Executor().State() != ability.StateRecovery {
		t.Errorf("state = %v, want recovery after stagger", a.Executor().State())
	}
}

func TestActor_NoStaggerWhenChanceZero(t *testing.T) {
	arch := grunt()
	arch.DamageResist = 0
	a, log := newTestActor(arch)

	if err := a.TryAttack(1); err != nil {
		t.Fatalf("TryAttack: %v", err)
	}
	a.ApplyDamage(10, data.DamagePhysical)

	if got := log.count(event.KindAbilityInterrupted); got != 0 {
		t.Errorf("interrupted events = %d, want 0", got)
	}
	if a.Executor().State() != ability.StateWindup {
		t.Errorf("state = %v, want windup to continue", a.Executor().State())
	}
}

func TestActor_TryAttack(t *testing.T) {
	a, log := newTestActor(grunt())

	if err := a.TryAttack(10); err != ability.ErrNoAbility {
		t.Errorf("out-of-range TryAttack = %v, want ErrNoAbility", err)
	}
	if err := a.TryAttack(1); err != nil {
		t.Errorf("in-range TryAttack = %v, want nil", err)
	}
	if got := log.count(event.KindWindupStarted); got != 1 {
		t.Errorf("windup events = %d, want 1", got)
	}
	if err := a.TryAttack(1); err != ability.ErrBusy {
		t.Errorf("TryAttack during windup = %v, want ErrBusy", err)
	}
}

func TestActor_PhaseSwapAndScaling(t *testing.T) {
	a, log := newTestActor(matriarch())

	a.Update(0.1)
	if a.PhaseIndex() != -1 {
		t.Fatalf("PhaseIndex = %d at full health, want -1", a.PhaseIndex())
	}

	// Down to exactly half: threshold 0.5 is inclusive.
	a.ApplyDamage(100, data.DamagePhysical)
	a.Update(0.1)

	if a.PhaseIndex() != 0 {
		t.Fatalf("PhaseIndex = %d, want 0", a.PhaseIndex())
	}
	ev, ok := log.last(event.KindPhaseEntered)
	if !ok {
		t.Fatal("no phase entered event")
	}
	if ev.PhaseName != "enraged" || ev.PhaseTrigger != "roar" {
		t.Errorf("phase event = %q/%q, want enraged/roar", ev.PhaseName, ev.PhaseTrigger)
	}

	// The pool swapped to the phase abilities.
	sel := a.Executor().SelectAbility(1)
	if sel == nil || sel.ID != "slam" {
		t.Fatalf("SelectAbility = %+v, want slam", sel)
	}

	// Damage multiplier doubles the executed hit.
	if err := a.TryAttack(1); err != nil {
		t.Fatalf("TryAttack: %v", err)
	}
	for range 5 {
		a.Update(0.1)
	}
	hit, ok := log.last(event.KindAbilityExecuted)
	if !ok {
		t.Fatal("ability never executed")
	}
	if math.Abs(hit.Damage-20) > 1e-9 {
		t.Errorf("executed damage = %v, want 20", hit.Damage)
	}

	// Speed multiplier reaches locomotion: 4 * 1.5 * 0.1 per tick.
	start := a.Position()
	a.MoveTo(model.Vec3{X: start.X + 10, Y: start.Y})
	a.Update(0.1)
	if got := a.Position().X - start.X; math.Abs(got-0.6) > 1e-9 {
		t.Errorf("moved %v in one tick, want 0.6", got)
	}
}

func TestActor_RestoreEncounter(t *testing.T) {
	a, log := newTestActor(matriarch())

	a.RestoreEncounter(boss.EncounterRow{
		ArchetypeID:    "matriarch",
		PhaseIndex:     0,
		HealthFraction: 0.4,
	})

	if math.Abs(a.Health()-80) > 1e-9 {
		t.Errorf("Health = %v, want 80", a.Health())
	}
	if a.PhaseIndex() != 0 {
		t.Errorf("PhaseIndex = %d, want 0", a.PhaseIndex())
	}
	// Restore re-applies silently.
	if got := log.count(event.KindPhaseEntered); got != 0 {
		t.Errorf("phase events = %d, want 0 on restore", got)
	}
	// Phase stat effects are live again.
	sel := a.Executor().SelectAbility(1)
	if sel == nil || sel.ID != "slam" {
		t.Fatalf("SelectAbility = %+v, want slam after restore", sel)
	}

	// Ticking at restored health does not re-fire the same phase.
	a.Update(0.1)
	if got := log.count(event.KindPhaseEntered); got != 0 {
		t.Errorf("phase events = %d after update, want 0", got)
	}
}

func TestActor_HealthChangedHook(t *testing.T) {
	a, _ := newTestActor(grunt())

	var seen []float64
	a.SetHealthChangedFunc(func(a *Actor) {
		seen = append(seen, a.Health())
	})

	a.ApplyDamage(20, data.DamagePhysical)
	if len(seen) != 1 || math.Abs(seen[0]-90) > 1e-9 {
		t.Fatalf("hook calls = %v, want [90]", seen)
	}

	// Death takes the die path, not the hook.
	a.ApplyDamage(300, data.DamagePhysical)
	if len(seen) != 1 {
		t.Errorf("hook calls after death = %d, want 1", len(seen))
	}
}
