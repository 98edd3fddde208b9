package sim

import (
	"context"
	"math"
	"testing"

	"github.com/feralworks/mobcore/internal/data"
)

func TestDamageScript_FiresOnSchedule(t *testing.T) {
	entries := []SpawnEntry{{ArchetypeID: "scavenger", Count: 2}}
	s, runner := newTestSpawner(t, entries, nil)
	s.SpawnAll(context.Background())

	script := NewDamageScript(runner, []DamageEvent{
		{At: 0.25, ArchetypeID: "scavenger", Amount: 10, Type: data.DamagePhysical},
	})

	runner.Step(0.1)
	runner.Step(0.1) // elapsed 0.2: not yet
	if got := runner.Actor(1).Health(); got != 50 {
		t.Fatalf("health before the cue: got %v, want 50", got)
	}
	if script.Remaining() != 1 {
		t.Fatalf("Remaining = %d before the cue, want 1", script.Remaining())
	}

	runner.Step(0.1) // elapsed 0.3: fires
	for id := uint32(1); id <= 2; id++ {
		if got := runner.Actor(id).Health(); math.Abs(got-40) > 1e-9 {
			t.Errorf("actor %d health: got %v, want 40", id, got)
		}
	}
	if script.Remaining() != 0 {
		t.Errorf("Remaining = %d after the cue, want 0", script.Remaining())
	}
}

func TestDamageScript_OrdersAuthoredEvents(t *testing.T) {
	entries := []SpawnEntry{{ArchetypeID: "scavenger", Count: 1}}
	s, runner := newTestSpawner(t, entries, nil)
	s.SpawnAll(context.Background())

	// Authored out of order; the later event must not fire first.
	NewDamageScript(runner, []DamageEvent{
		{At: 0.35, ArchetypeID: "scavenger", Amount: 5, Type: data.DamagePhysical},
		{At: 0.15, ArchetypeID: "scavenger", Amount: 10, Type: data.DamagePhysical},
	})

	runner.Step(0.1)
	runner.Step(0.1) // elapsed 0.2: only the 0.15 cue fired
	if got := runner.Actor(1).Health(); math.Abs(got-40) > 1e-9 {
		t.Fatalf("health after first cue: got %v, want 40", got)
	}

	runner.Step(0.1)
	runner.Step(0.1) // elapsed 0.4: second cue fired
	if got := runner.Actor(1).Health(); math.Abs(got-35) > 1e-9 {
		t.Errorf("health after second cue: got %v, want 35", got)
	}
}

func TestDamageScript_IgnoresOtherArchetypes(t *testing.T) {
	entries := []SpawnEntry{
		{ArchetypeID: "scavenger", Count: 1},
		{ArchetypeID: "broodmother", Count: 1},
	}
	s, runner := newTestSpawner(t, entries, nil)
	s.SpawnAll(context.Background())

	NewDamageScript(runner, []DamageEvent{
		{At: 0.05, ArchetypeID: "broodmother", Amount: 100, Type: data.DamageFire},
	})
	runner.Step(0.1)

	if got := runner.Actor(1).Health(); got != 50 {
		t.Errorf("scavenger health: got %v, want untouched 50", got)
	}
	if got := runner.Actor(2).Health(); math.Abs(got-400) > 1e-9 {
		t.Errorf("broodmother health: got %v, want 400", got)
	}
}

func TestDamageScript_LethalCueFeedsRespawn(t *testing.T) {
	entries := []SpawnEntry{{ArchetypeID: "scavenger", Count: 1, RespawnDelay: 0.45}}
	s, runner := newTestSpawner(t, entries, nil)
	s.SpawnAll(context.Background())

	NewDamageScript(runner, []DamageEvent{
		{At: 0.05, ArchetypeID: "scavenger", Amount: 1000, Type: data.DamagePhysical},
	})

	// The cue fires in the step-1 hook; the death event drains on step
	// 2, which removes the corpse and schedules the respawn.
	runner.Step(0.1)
	if a := runner.Actor(1); a == nil || a.Alive() {
		t.Fatal("actor should be dead but still registered")
	}
	runner.Step(0.1)
	if runner.Count() != 0 {
		t.Fatalf("Count = %d after death drain, want 0", runner.Count())
	}
	if s.PendingRespawns() != 1 {
		t.Fatalf("PendingRespawns = %d, want 1", s.PendingRespawns())
	}

	steps := 0
	for runner.Count() == 0 && steps < 20 {
		runner.Step(0.1)
		steps++
	}
	if runner.Count() != 1 {
		t.Fatalf("actor never respawned after %d steps", steps)
	}
	if a := runner.Actor(2); a == nil || a.Health() != 50 {
		t.Error("respawned actor should be fresh under a new ID")
	}
}
