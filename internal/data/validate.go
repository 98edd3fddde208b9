package data

import "fmt"

type Severity uint8

const (
	SeverityWarn Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "ERROR"
	}
	return "WARN"
}

// Finding is one validation result for a definition.
type Finding struct {
	Severity Severity
	Kind     string // "ability" or "archetype"
	ID       string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s %s %s: %s", f.Severity, f.Kind, f.ID, f.Message)
}

// Validate checks every loaded definition for authoring mistakes.
// Errors mean the definition cannot be simulated safely; warnings
// flag suspicious but workable data.
func Validate(reg *Registry) []Finding {
	var out []Finding

	for _, a := range reg.Abilities() {
		out = append(out, validateAbility(a)...)
	}
	for _, arch := range reg.Archetypes() {
		out = append(out, validateArchetype(arch)...)
	}
	return out
}

func validateAbility(a *AbilityDefinition) []Finding {
	var out []Finding
	bad := func(msg string, args ...any) {
		out = append(out, Finding{SeverityError, "ability", a.ID, fmt.Sprintf(msg, args...)})
	}

	if a.Cooldown < 0 {
		bad("cooldown %v is negative", a.Cooldown)
	}
	if a.WindupTime < 0 {
		bad("windup_time %v is negative", a.WindupTime)
	}
	if a.RecoveryTime < 0 {
		bad("recovery_time %v is negative", a.RecoveryTime)
	}
	if a.MinRange < 0 {
		bad("min_range %v is negative", a.MinRange)
	}
	if a.MaxRange < a.MinRange {
		bad("max_range %v is below min_range %v", a.MaxRange, a.MinRange)
	}
	if a.BaseDamage < 0 {
		bad("base_damage %v is negative", a.BaseDamage)
	}
	return out
}

func validateArchetype(arch *ArchetypeDefinition) []Finding {
	var out []Finding
	bad := func(msg string, args ...any) {
		out = append(out, Finding{SeverityError, "archetype", arch.ID, fmt.Sprintf(msg, args...)})
	}
	warn := func(msg string, args ...any) {
		out = append(out, Finding{SeverityWarn, "archetype", arch.ID, fmt.Sprintf(msg, args...)})
	}

	if arch.MaxHealth < 1 {
		bad("max_health %v is below 1", arch.MaxHealth)
	}
	if arch.DamageResist < 0 || arch.DamageResist > 2 {
		bad("damage_resist %v is outside [0, 2]", arch.DamageResist)
	}
	if arch.StaggerChance < 0 || arch.StaggerChance > 1 {
		bad("stagger_chance %v is outside [0, 1]", arch.StaggerChance)
	}
	if len(arch.Catalog) < len(arch.AbilityRefs) {
		bad("%d of %d ability references did not resolve",
			len(arch.AbilityRefs)-len(arch.Catalog), len(arch.AbilityRefs))
	}
	if len(arch.Catalog) > 0 {
		if arch.PrimaryAbilityIndex < 0 || arch.PrimaryAbilityIndex >= len(arch.Catalog) {
			bad("primary_ability_index %d is outside the %d-ability pool",
				arch.PrimaryAbilityIndex, len(arch.Catalog))
		}
	}
	if arch.Prefab == "" {
		warn("prefab is empty")
	}
	if arch.MovementType == MoveFlying && arch.FlyingHeight <= 0 {
		warn("flying archetype has flying_height %v", arch.FlyingHeight)
	}

	validatePhases(arch, bad, warn)
	return out
}

func validatePhases(arch *ArchetypeDefinition, bad, warn func(string, ...any)) {
	if arch.IsBoss && len(arch.Phases) == 0 {
		bad("is_boss is set but no phases are defined")
		return
	}
	if !arch.IsBoss && len(arch.Phases) > 0 {
		warn("%d phases defined but is_boss is not set", len(arch.Phases))
	}

	prev := 2.0
	for i, p := range arch.Phases {
		if p.HealthThreshold < 0 || p.HealthThreshold > 1 {
			bad("phase %d threshold %v is outside [0, 1]", i, p.HealthThreshold)
		}
		if p.HealthThreshold >= prev {
			bad("phase %d threshold %v does not descend", i, p.HealthThreshold)
		}
		prev = p.HealthThreshold

		if p.SpeedMultiplier <= 0 {
			bad("phase %d speed_multiplier %v is not positive", i, p.SpeedMultiplier)
		}
		if p.DamageMultiplier <= 0 {
			bad("phase %d damage_multiplier %v is not positive", i, p.DamageMultiplier)
		}
		if len(p.Pool) < len(p.AbilityRefs) {
			bad("phase %d: %d of %d ability references did not resolve",
				i, len(p.AbilityRefs)-len(p.Pool), len(p.AbilityRefs))
		}
	}
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErroredArchetypeIDs returns the IDs of archetypes with at least one
// error finding, so the spawner can skip them.
func ErroredArchetypeIDs(findings []Finding) map[string]bool {
	out := make(map[string]bool)
	for _, f := range findings {
		if f.Severity == SeverityError && f.Kind == "archetype" {
			out[f.ID] = true
		}
	}
	return out
}
