package boss

import "context"

// StateStore provides DB persistence for boss encounter state.
type StateStore interface {
	LoadAllEncounters(ctx context.Context) ([]EncounterRow, error)
	SaveEncounter(ctx context.Context, row EncounterRow) error
	DeleteEncounter(ctx context.Context, archetypeID string) error
}

// EncounterRow mirrors db.BossEncounterRow for decoupling.
type EncounterRow struct {
	ArchetypeID    string
	PhaseIndex     int32
	HealthFraction float64
	UpdatedAt      int64 // Unix seconds
}
