package data

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Flight tuning defaults, applied when the archetype leaves the
// field at zero.
const (
	DefaultHoverSpeed        = 2.0
	DefaultHoverVariation    = 0.5
	DefaultAvoidanceDistance = 3.0
	DefaultBankAngle         = 0.35
)

type abilityFile struct {
	Abilities []*AbilityDefinition `yaml:"abilities"`
}

// LoadDir reads every definition under dir: abilities.yaml plus one
// archetype per file in archetypes/. Ability references are resolved
// into pointers; unknown references are skipped with a warning so one
// typo does not take the whole catalog down.
func LoadDir(dir string) (*Registry, error) {
	reg := NewRegistry()

	if err := loadAbilities(reg, filepath.Join(dir, "abilities.yaml")); err != nil {
		return nil, err
	}
	if err := loadArchetypes(reg, filepath.Join(dir, "archetypes")); err != nil {
		return nil, err
	}

	for _, arch := range reg.Archetypes() {
		resolveRefs(reg, arch)
		applyFlightDefaults(arch)
	}

	slog.Info("loaded definitions",
		"dir", dir,
		"abilities", reg.AbilityCount(),
		"archetypes", reg.ArchetypeCount())
	return reg, nil
}

func loadAbilities(reg *Registry, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read abilities: %w", err)
	}

	var file abilityFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse abilities: %w", err)
	}

	for _, a := range file.Abilities {
		if a.ID == "" {
			return fmt.Errorf("ability without id in %s", path)
		}
		if prev := reg.Ability(a.ID); prev != nil {
			return fmt.Errorf("duplicate ability id %q", a.ID)
		}
		reg.putAbility(a)
	}
	return nil
}

func loadArchetypes(reg *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read archetypes dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read archetype: %w", err)
		}

		arch := &ArchetypeDefinition{}
		if err := yaml.Unmarshal(raw, arch); err != nil {
			return fmt.Errorf("parse archetype %s: %w", entry.Name(), err)
		}
		if arch.ID == "" {
			return fmt.Errorf("archetype without id in %s", path)
		}
		if prev := reg.Archetype(arch.ID); prev != nil {
			return fmt.Errorf("duplicate archetype id %q", arch.ID)
		}
		reg.putArchetype(arch)
	}
	return nil
}

func resolveRefs(reg *Registry, arch *ArchetypeDefinition) {
	arch.Catalog = resolvePool(reg, arch.ID, arch.AbilityRefs)
	for i := range arch.Phases {
		arch.Phases[i].Pool = resolvePool(reg, arch.ID, arch.Phases[i].AbilityRefs)
	}
}

func resolvePool(reg *Registry, archID string, refs []string) []*AbilityDefinition {
	pool := make([]*AbilityDefinition, 0, len(refs))
	for _, ref := range refs {
		a := reg.Ability(ref)
		if a == nil {
			slog.Warn("unknown ability reference", "archetype", archID, "ability", ref)
			continue
		}
		pool = append(pool, a)
	}
	return pool
}

func applyFlightDefaults(arch *ArchetypeDefinition) {
	if arch.MovementType != MoveFlying {
		return
	}
	if arch.HoverSpeed == 0 {
		arch.HoverSpeed = DefaultHoverSpeed
	}
	if arch.HoverVariation == 0 {
		arch.HoverVariation = DefaultHoverVariation
	}
	if arch.AvoidanceDistance == 0 {
		arch.AvoidanceDistance = DefaultAvoidanceDistance
	}
	if arch.BankAngle == 0 {
		arch.BankAngle = DefaultBankAngle
	}
}
