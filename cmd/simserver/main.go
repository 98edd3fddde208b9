package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/feralworks/mobcore/internal/config"
	"github.com/feralworks/mobcore/internal/data"
	"github.com/feralworks/mobcore/internal/db"
	"github.com/feralworks/mobcore/internal/game/boss"
	"github.com/feralworks/mobcore/internal/model"
	"github.com/feralworks/mobcore/internal/sim"
	"github.com/feralworks/mobcore/internal/world"
)

const ConfigPath = "config/simserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("MOBCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("mobcore simulation server starting", "log_level", cfg.LogLevel)

	// Load ability and archetype definitions
	reg, err := data.LoadDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("loading definitions: %w", err)
	}

	// Validate: errored archetypes are excluded from spawning but the
	// server still comes up with everything else.
	findings := data.Validate(reg)
	for _, f := range findings {
		if f.Severity == data.SeverityError {
			slog.Error("definition check failed", "kind", f.Kind, "id", f.ID, "issue", f.Message)
		} else {
			slog.Warn("definition check", "kind", f.Kind, "id", f.ID, "issue", f.Message)
		}
	}
	errored := data.ErroredArchetypeIDs(findings)
	if len(errored) > 0 {
		slog.Warn("archetypes excluded from spawning", "count", len(errored))
	}

	// World geometry for raycasts
	w, err := world.Load(cfg.WorldFile)
	if err != nil {
		return fmt.Errorf("loading world geometry: %w", err)
	}
	slog.Info("world loaded", "groundZ", w.GroundZ(), "boxes", w.BoxCount())

	runner := sim.NewRunner(cfg.TickRate)

	g, gctx := errgroup.WithContext(ctx)

	// Optional boss encounter persistence
	var tracker *boss.Tracker
	if cfg.PersistEncounters {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		repo := db.NewEncounterRepository(database.Pool())
		tracker = boss.NewTracker(&encounterStoreAdapter{repo: repo})
		if err := tracker.Init(ctx); err != nil {
			return fmt.Errorf("loading boss encounters: %w", err)
		}

		g.Go(func() error {
			slog.Info("starting encounter save loop", "interval", cfg.SaveInterval)
			if err := tracker.RunSaveLoop(gctx, cfg.SaveInterval); err != nil {
				return fmt.Errorf("encounter save loop: %w", err)
			}
			return nil
		})
	}

	// Populate the world
	entries := make([]sim.SpawnEntry, 0, len(cfg.Spawns))
	for _, sc := range cfg.Spawns {
		entries = append(entries, sim.SpawnEntry{
			ArchetypeID:  sc.Archetype,
			Position:     model.Vec3{X: sc.X, Y: sc.Y, Z: sc.Z},
			Count:        sc.Count,
			RespawnDelay: sc.RespawnDelay,
		})
	}
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	spawner := sim.NewSpawner(reg, runner, w.Raycast, tracker, entries, rng)
	spawner.SetErrored(errored)
	spawner.SpawnAll(ctx)

	// Scripted damage stands in for the combat-decision layer
	if len(cfg.DamageScript) > 0 {
		cues := make([]sim.DamageEvent, 0, len(cfg.DamageScript))
		for _, dc := range cfg.DamageScript {
			dtype, err := data.ParseDamageType(dc.Type)
			if err != nil && dc.Type != "" {
				slog.Warn("damage cue has unknown type, using physical", "type", dc.Type)
			}
			cues = append(cues, sim.DamageEvent{
				At:          dc.At,
				ArchetypeID: dc.Archetype,
				Amount:      dc.Amount,
				Type:        dtype,
			})
		}
		sim.NewDamageScript(runner, cues)
		slog.Info("damage script armed", "cues", len(cues))
	}

	// Hot reload of definition files
	if cfg.WatchData {
		watcher, err := data.NewWatcher(cfg.DataDir, reg)
		if err != nil {
			slog.Warn("definition watcher unavailable", "error", err)
		} else {
			g.Go(func() error {
				if err := watcher.Start(gctx); err != nil {
					return fmt.Errorf("definition watcher: %w", err)
				}
				return nil
			})
		}
	}

	g.Go(func() error {
		slog.Info("starting simulation", "tickRate", cfg.TickRate, "actors", runner.Count())
		if err := runner.Start(gctx); err != nil {
			return fmt.Errorf("simulation runner: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// encounterStoreAdapter adapts db.EncounterRepository to boss.StateStore.
type encounterStoreAdapter struct {
	repo *db.EncounterRepository
}

func (a *encounterStoreAdapter) LoadAllEncounters(ctx context.Context) ([]boss.EncounterRow, error) {
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

func (a *encounterStoreAdapter) SaveEncounter(ctx context.Context, row boss.EncounterRow) error {
	return a.repo.SaveEncounter(ctx, db.BossEncounterRow{
		ArchetypeID:    row.ArchetypeID,
		PhaseIndex:     row.PhaseIndex,
		HealthFraction: row.HealthFraction,
		UpdatedAt:      row.UpdatedAt,
	})
}

func (a *encounterStoreAdapter) DeleteEncounter(ctx context.Context, archetypeID string) error {
	return a.repo.DeleteEncounter(ctx, archetypeID)
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
