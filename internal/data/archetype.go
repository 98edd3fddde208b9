package data

// BossPhase is one stage of a boss fight. Phases are authored with
// descending health thresholds; a phase is entered when the boss's
// health fraction drops to or below its threshold.
type BossPhase struct {
	Name            string  `yaml:"name"`
	HealthThreshold float64 `yaml:"health_threshold"`

	// Stat multipliers applied against the archetype's base values.
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`
	DamageMultiplier float64 `yaml:"damage_multiplier"`

	// Replacement ability pool. Empty keeps the current pool.
	AbilityRefs []string `yaml:"ability_refs"`

	// Presentation hook fired on entry.
	EnterTrigger string `yaml:"enter_trigger"`

	// Resolved from AbilityRefs after loading.
	Pool []*AbilityDefinition `yaml:"-"`
}

// ArchetypeDefinition is a complete enemy template: stats, movement,
// combat behaviour and the ability pool, as authored in one
// archetypes/*.yaml file.
type ArchetypeDefinition struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Prefab string `yaml:"prefab"`

	MaxHealth    float64 `yaml:"max_health"`
	DamageResist float64 `yaml:"damage_resist"`

	MovementType MovementType `yaml:"movement_type"`
	MoveSpeed    float64      `yaml:"move_speed"`
	TurnSpeed    float64      `yaml:"turn_speed"`
	FlyingHeight float64      `yaml:"flying_height"`

	// Flight tuning. Zero values take defaults at load time.
	HoverSpeed        float64 `yaml:"hover_speed"`
	HoverVariation    float64 `yaml:"hover_variation"`
	AvoidanceDistance float64 `yaml:"avoidance_distance"`
	BankAngle         float64 `yaml:"bank_angle"`

	CombatStyle    CombatStyle `yaml:"combat_style"`
	PreferredRange float64     `yaml:"preferred_range"`
	AttackRange    float64     `yaml:"attack_range"`
	StaggerChance  float64     `yaml:"stagger_chance"`

	AggroRadius float64 `yaml:"aggro_radius"`
	ChaseRadius float64 `yaml:"chase_radius"`

	AbilityRefs         []string `yaml:"ability_refs"`
	PrimaryAbilityIndex int      `yaml:"primary_ability_index"`

	IsBoss bool        `yaml:"is_boss"`
	Phases []BossPhase `yaml:"phases"`

	// Resolved from AbilityRefs after loading, same order.
	Catalog []*AbilityDefinition `yaml:"-"`
}

// Primary returns the preferred ability, or nil when the pool is
// empty or the index is out of range.
func (a *ArchetypeDefinition) Primary() *AbilityDefinition {
	if a.PrimaryAbilityIndex < 0 || a.PrimaryAbilityIndex >= len(a.Catalog) {
		return nil
	}
	return a.Catalog[a.PrimaryAbilityIndex]
}
