package sim

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/feralworks/mobcore/internal/data"
	"github.com/feralworks/mobcore/internal/event"
	"github.com/feralworks/mobcore/internal/game/boss"
	"github.com/feralworks/mobcore/internal/game/flight"
	"github.com/feralworks/mobcore/internal/model"
)

// SpawnEntry places Count actors of one archetype at a position.
// RespawnDelay of zero means dead actors stay dead.
type SpawnEntry struct {
	ArchetypeID  string
	Position     model.Vec3
	Count        int
	RespawnDelay float64 // seconds
}

type pendingRespawn struct {
	entry     int
	remaining float64
}

// Spawner populates the runner from spawn entries and keeps it
// populated: it consumes death events, schedules respawns in sim
// time, and resumes persisted boss encounters through the tracker.
type Spawner struct {
	reg     *data.Registry
	runner  *Runner
	raycast flight.RaycastFunc
	tracker *boss.Tracker
	rng     *rand.Rand

	entries []SpawnEntry
	errored map[string]bool

	nextID atomic.Uint32
	ctx    context.Context

	spawnedBy map[uint32]int
	pending   []pendingRespawn
}

// NewSpawner wires itself into the runner as a consumer and a step
// hook. tracker may be nil when persistence is disabled.
func NewSpawner(reg *data.Registry, runner *Runner, raycast flight.RaycastFunc, tracker *boss.Tracker, entries []SpawnEntry, rng *rand.Rand) *Spawner {
	s := &Spawner{
		reg:       reg,
		runner:    runner,
		raycast:   raycast,
		tracker:   tracker,
		rng:       rng,
		entries:   entries,
		errored:   make(map[string]bool),
		ctx:       context.Background(),
		spawnedBy: make(map[uint32]int, 64),
	}
	runner.AddConsumer(s.onEvent)
	runner.AddHook(s.checkRespawns)
	return s
}

// SetErrored marks archetype IDs the validator rejected; their spawn
// entries are skipped instead of simulating broken data.
func (s *Spawner) SetErrored(ids map[string]bool) {
	s.errored = ids
}

// SpawnAll places every entry's actors. Unknown and rejected
// archetypes are skipped with a log line, never fatal.
func (s *Spawner) SpawnAll(ctx context.Context) {
	s.ctx = ctx

	spawned := 0
	for i, entry := range s.entries {
		for range max(entry.Count, 1) {
			if s.spawnOne(i) {
				spawned++
			}
		}
	}
	slog.Info("initial spawn complete", "actors", spawned, "entries", len(s.entries))
}

func (s *Spawner) spawnOne(entryIdx int) bool {
	entry := s.entries[entryIdx]

	// Look up at spawn time: after a hot reload, respawns pick up the
	// new definitions.
	arch := s.reg.Archetype(entry.ArchetypeID)
	if arch == nil {
		slog.Error("spawn entry references unknown archetype", "archetype", entry.ArchetypeID)
		return false
	}
	if s.errored[arch.ID] {
		slog.Warn("skipping archetype rejected by validation", "archetype", arch.ID)
		return false
	}

	id := s.nextID.Add(1)
	actor := NewActor(id, arch, entry.Position, s.raycast, s.runner.Emit(), s.rng)

	if arch.IsBoss && s.tracker != nil {
		if row, ok := s.tracker.Resume(arch.ID); ok {
			actor.RestoreEncounter(row)
			slog.Info("boss encounter resumed",
				"archetype", arch.ID,
				"phase", row.PhaseIndex,
				"healthFraction", row.HealthFraction)
		}
		archID := arch.ID
		actor.SetHealthChangedFunc(func(a *Actor) {
			s.tracker.Record(archID, int32(a.PhaseIndex()), a.HealthFraction())
		})
	}

	s.spawnedBy[id] = entryIdx
	s.runner.Add(actor)
	return true
}

// onEvent watches for deaths: the dead actor leaves the runner, its
// boss encounter is cleared, and a respawn is scheduled.
func (s *Spawner) onEvent(ev event.Event) {
	if ev.Kind != event.KindActorDied {
		return
	}
	entryIdx, ok := s.spawnedBy[ev.ActorID]
	if !ok {
		return
	}
	delete(s.spawnedBy, ev.ActorID)

	if actor := s.runner.Actor(ev.ActorID); actor != nil {
		if actor.Archetype().IsBoss && s.tracker != nil {
			if err := s.tracker.Forget(s.ctx, actor.Archetype().ID); err != nil {
				slog.Error("clear boss encounter", "archetype", actor.Archetype().ID, "error", err)
			}
		}
		s.runner.Remove(ev.ActorID)
	}

	entry := s.entries[entryIdx]
	if entry.RespawnDelay > 0 {
		s.pending = append(s.pending, pendingRespawn{
			entry:     entryIdx,
			remaining: entry.RespawnDelay,
		})
		slog.Debug("respawn scheduled",
			"archetype", entry.ArchetypeID,
			"delay", entry.RespawnDelay)
	}
}

// checkRespawns burns down respawn timers in sim time and spawns
// replacements as they expire.
func (s *Spawner) checkRespawns(dt float64) {
	for i := len(s.pending) - 1; i >= 0; i-- {
		s.pending[i].remaining -= dt
		if s.pending[i].remaining > 0 {
			continue
		}
		entryIdx := s.pending[i].entry
		s.pending = append(s.pending[:i], s.pending[i+1:]...)
		if s.spawnOne(entryIdx) {
			slog.Debug("actor respawned", "archetype", s.entries[entryIdx].ArchetypeID)
		}
	}
}

// PendingRespawns returns the number of scheduled respawns.
func (s *Spawner) PendingRespawns() int {
	return len(s.pending)
}
