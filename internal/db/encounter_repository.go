package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BossEncounterRow represents a row from boss_encounters.
type BossEncounterRow struct {
	ArchetypeID    string
	PhaseIndex     int32
	HealthFraction float64
	UpdatedAt      int64 // Unix seconds
}

// EncounterRepository provides CRUD for persisted boss encounters.
type EncounterRepository struct {
	pool *pgxpool.Pool
}

// NewEncounterRepository creates a new EncounterRepository.
func NewEncounterRepository(pool *pgxpool.Pool) *EncounterRepository {
	return &EncounterRepository{pool: pool}
}

// LoadAllEncounters loads every persisted boss encounter.
func (r *EncounterRepository) LoadAllEncounters(ctx context.Context) ([]BossEncounterRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT archetype_id, phase_index, health_fraction, updated_at FROM boss_encounters`)
	if err != nil {
		return nil, fmt.Errorf("query boss_encounters: %w", err)
	}
	defer rows.Close()

	var result []BossEncounterRow
	for rows.Next() {
		var row BossEncounterRow
		if err := rows.Scan(&row.ArchetypeID, &row.PhaseIndex, &row.HealthFraction, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan boss_encounters: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// GetEncounter loads a single encounter by archetype ID.
// Returns nil, nil when no encounter is persisted.
func (r *EncounterRepository) GetEncounter(ctx context.Context, archetypeID string) (*BossEncounterRow, error) {
	var row BossEncounterRow
	err := r.pool.QueryRow(ctx,
		`SELECT archetype_id, phase_index, health_fraction, updated_at
		 FROM boss_encounters WHERE archetype_id = $1`, archetypeID,
	).Scan(&row.ArchetypeID, &row.PhaseIndex, &row.HealthFraction, &row.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get boss_encounters %q: %w", archetypeID, err)
	}
	return &row, nil
}

// SaveEncounter inserts or updates a boss encounter record.
func (r *EncounterRepository) SaveEncounter(ctx context.Context, row BossEncounterRow) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO boss_encounters (archetype_id, phase_index, health_fraction, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (archetype_id) DO UPDATE SET
		   phase_index     = EXCLUDED.phase_index,
		   health_fraction = EXCLUDED.health_fraction,
		   updated_at      = EXCLUDED.updated_at`,
		row.ArchetypeID, row.PhaseIndex, row.HealthFraction, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert boss_encounters %q: %w", row.ArchetypeID, err)
	}
	return nil
}

// DeleteEncounter removes a boss encounter record.
func (r *EncounterRepository) DeleteEncounter(ctx context.Context, archetypeID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM boss_encounters WHERE archetype_id = $1`, archetypeID)
	if err != nil {
		return fmt.Errorf("delete boss_encounters %q: %w", archetypeID, err)
	}
	return nil
}
