package boss

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// encounterEntry tracks one boss encounter's state in memory.
type encounterEntry struct {
	ArchetypeID    string
	PhaseIndex     int32
	HealthFraction float64
	dirty          bool
}

// Tracker keeps boss encounter progress across server restarts.
//
// On startup:
//  1. Load persisted encounter rows from DB
//  2. The spawner resumes each boss at its saved phase and health
//
// During a fight:
//  1. The simulation records phase and health changes in memory
//  2. A background loop flushes dirty entries on an interval
//
// On boss death the encounter is forgotten: the next spawn starts a
// fresh fight.
type Tracker struct {
	store StateStore

	mu      sync.RWMutex
	entries map[string]*encounterEntry // archetypeID -> entry
}

func NewTracker(store StateStore) *Tracker {
	return &Tracker{
		store:   store,
		entries: make(map[string]*encounterEntry, 16),
	}
}

// Init loads persisted encounter state from DB.
func (t *Tracker) Init(ctx context.Context) error {
	rows, err := t.store.LoadAllEncounters(ctx)
	if err != nil {
		return fmt.Errorf("load boss encounters: %w", err)
	}

	t.mu.Lock()
	for _, row := range rows {
		t.entries[row.ArchetypeID] = &encounterEntry{
			ArchetypeID:    row.ArchetypeID,
			PhaseIndex:     row.PhaseIndex,
			HealthFraction: row.HealthFraction,
		}
	}
	t.mu.Unlock()

	slog.Info("boss encounter tracker initialized", "loaded", len(rows))
	return nil
}

// Resume returns the persisted state for a boss archetype, if any.
func (t *Tracker) Resume(archetypeID string) (EncounterRow, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.entries[archetypeID]
	if !ok {
		return EncounterRow{}, false
	}
	return EncounterRow{
		ArchetypeID:    entry.ArchetypeID,
		PhaseIndex:     entry.PhaseIndex,
		HealthFraction: entry.HealthFraction,
	}, true
}

// Record updates the in-memory encounter state. The save loop flushes
// it to the store later; a fight in progress never blocks on the DB.
func (t *Tracker) Record(archetypeID string, phaseIndex int32, healthFraction float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[archetypeID]
	if !ok {
		entry = &encounterEntry{ArchetypeID: archetypeID}
		t.entries[archetypeID] = entry
	}
	entry.PhaseIndex = phaseIndex
	entry.HealthFraction = healthFraction
	entry.dirty = true
}

// Forget drops an encounter from memory and the store. Called when a
// boss dies so its next spawn starts fresh.
func (t *Tracker) Forget(ctx context.Context, archetypeID string) error {
	t.mu.Lock()
	delete(t.entries, archetypeID)
	t.mu.Unlock()

	if err := t.store.DeleteEncounter(ctx, archetypeID); err != nil {
		return fmt.Errorf("delete boss encounter %s: %w", archetypeID, err)
	}

	slog.Info("boss encounter cleared", "archetype", archetypeID)
	return nil
}

// RunSaveLoop periodically flushes dirty encounter state to the
// store. Blocks until context is canceled.
func (t *Tracker) RunSaveLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("boss encounter save loop started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			// Final flush so a clean shutdown loses nothing.
			t.flush(context.WithoutCancel(ctx))
			slog.Info("boss encounter save loop stopping")
			return ctx.Err()
		case <-ticker.C:
			t.flush(ctx)
		}
	}
}

// flush saves dirty entries. The store calls run outside the lock.
func (t *Tracker) flush(ctx context.Context) {
	now := time.Now().Unix()

	t.mu.Lock()
	var rows []EncounterRow
	for _, entry := range t.entries {
		if !entry.dirty {
			continue
		}
		entry.dirty = false
		rows = append(rows, EncounterRow{
			ArchetypeID:    entry.ArchetypeID,
			PhaseIndex:     entry.PhaseIndex,
			HealthFraction: entry.HealthFraction,
			UpdatedAt:      now,
		})
	}
	t.mu.Unlock()

	for _, row := range rows {
		if err := t.store.SaveEncounter(ctx, row); err != nil {
			slog.Error("save boss encounter",
				"archetype", row.ArchetypeID, "error", err)
		}
	}
}

// EntryCount returns the number of tracked encounters.
func (t *Tracker) EntryCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
