package data

// AbilityDefinition is a single attack or spell as authored in
// abilities.yaml. Definitions are immutable after loading; actors
// share pointers into the registry.
type AbilityDefinition struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// Timing, in seconds.
	Cooldown     float64 `yaml:"cooldown"`
	WindupTime   float64 `yaml:"windup_time"`
	RecoveryTime float64 `yaml:"recovery_time"`

	// Usable distance band to the target.
	MinRange float64 `yaml:"min_range"`
	MaxRange float64 `yaml:"max_range"`

	BaseDamage float64    `yaml:"base_damage"`
	DamageType DamageType `yaml:"damage_type"`

	CanBeInterrupted        bool `yaml:"can_be_interrupted"`
	TrackTargetDuringWindup bool `yaml:"track_target_during_windup"`

	// Presentation hooks, opaque to the simulation.
	AnimationTrigger string `yaml:"animation_trigger"`
	EffectHandle     string `yaml:"effect_handle"`
}
