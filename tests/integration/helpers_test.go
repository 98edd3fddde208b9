package integration

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/feralworks/mobcore/internal/db"
	"github.com/feralworks/mobcore/internal/game/boss"
)

// schemaCounter provides unique schema names for parallel suites.
var schemaCounter atomic.Uint32

// acquireSchema creates an isolated PostgreSQL schema and returns a DSN
// with search_path. The schema is dropped via t.Cleanup.
func acquireSchema(t testing.TB) string {
	t.Helper()
	ctx := context.Background()

	schemaName := fmt.Sprintf("test_%d", schemaCounter.Add(1))

	conn, err := pgx.Connect(ctx, sharedPGBaseDSN)
	if err != nil {
		t.Fatalf("connect to shared postgres: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "CREATE SCHEMA "+schemaName); err != nil {
		t.Fatalf("create schema %s: %v", schemaName, err)
	}

	t.Cleanup(func() {
		cleanCtx := context.Background()
		cleanConn, err := pgx.Connect(cleanCtx, sharedPGBaseDSN)
		if err != nil {
			t.Logf("cleanup: connect failed: %v", err)
			return
		}
		defer cleanConn.Close(cleanCtx)
		if _, err := cleanConn.Exec(cleanCtx, "DROP SCHEMA "+schemaName+" CASCADE"); err != nil {
			t.Logf("cleanup: drop schema %s: %v", schemaName, err)
		}
	})

	// Append search_path to DSN
	sep := "&"
	if !strings.Contains(sharedPGBaseDSN, "?") {
		sep = "?"
	}
	return sharedPGBaseDSN + sep + "search_path=" + schemaName
}

// encounterStore adapts db.EncounterRepository to boss.StateStore,
// mirroring the wiring in cmd/simserver.
type encounterStore struct {
	repo *db.EncounterRepository
}

func (a *encounterStore) LoadAllEncounters(ctx context.Context) ([]boss.EncounterRow, error) {
	dbRows, err := a.repo.LoadAllEncounters(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]boss.EncounterRow, 0, len(dbRows))
	for _, r := range dbRows {
		rows = append(rows, boss.EncounterRow{
			ArchetypeID:    r.ArchetypeID,
			PhaseIndex:     r.PhaseIndex,
			HealthFraction: r.HealthFraction,
			UpdatedAt:      r.UpdatedAt,
		})
	}
	return rows, nil
}

func (a *encounterStore) SaveEncounter(ctx context.Context, row boss.EncounterRow) error {
	return a.repo.SaveEncounter(ctx, db.BossEncounterRow{
		ArchetypeID:    row.ArchetypeID,
		PhaseIndex:     row.PhaseIndex,
		HealthFraction: row.HealthFraction,
		UpdatedAt:      row.UpdatedAt,
	})
}

func (a *encounterStore) DeleteEncounter(ctx context.Context, archetypeID string) error {
	return a.repo.DeleteEncounter(ctx, archetypeID)
}
