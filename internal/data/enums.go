package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MovementType selects the locomotion controller for an archetype.
type MovementType uint8

const (
	MoveGround MovementType = iota
	MoveFlying
	MoveStationary
	MoveBurrowing
)

func ParseMovementType(s string) (MovementType, error) {
	switch s {
	case "ground":
		return MoveGround, nil
	case "flying":
		return MoveFlying, nil
	case "stationary":
		return MoveStationary, nil
	case "burrowing":
		return MoveBurrowing, nil
	default:
		return MoveGround, fmt.Errorf("unknown movement type %q", s)
	}
}

func (m MovementType) String() string {
	switch m {
	case MoveGround:
		return "ground"
	case MoveFlying:
		return "flying"
	case MoveStationary:
		return "stationary"
	case MoveBurrowing:
		return "burrowing"
	default:
		return "unknown"
	}
}

func (m *MovementType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := ParseMovementType(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// CombatStyle describes how an archetype prefers to fight. It steers
// default range checks and target selection, not hard rules.
type CombatStyle uint8

const (
	StyleMelee CombatStyle = iota
	StyleRanged
	StyleHybrid
	StyleSupport
	StyleKamikaze
)

func ParseCombatStyle(s string) (CombatStyle, error) {
	switch s {
	case "melee":
		return StyleMelee, nil
	case "ranged":
		return StyleRanged, nil
	case "hybrid":
		return StyleHybrid, nil
	case "support":
		return StyleSupport, nil
	case "kamikaze":
		return StyleKamikaze, nil
	default:
		return StyleMelee, fmt.Errorf("unknown combat style %q", s)
	}
}

func (c CombatStyle) String() string {
	switch c {
	case StyleMelee:
		return "melee"
	case StyleRanged:
		return "ranged"
	case StyleHybrid:
		return "hybrid"
	case StyleSupport:
		return "support"
	case StyleKamikaze:
		return "kamikaze"
	default:
		return "unknown"
	}
}

func (c *CombatStyle) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := ParseCombatStyle(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// DamageType tags the damage an ability deals.
type DamageType uint8

const (
	DamagePhysical DamageType = iota
	DamageMagical
	DamageFire
	DamageIce
	DamageLightning
	DamagePoison
)

func ParseDamageType(s string) (DamageType, error) {
	switch s {
	case "physical":
		return DamagePhysical, nil
	case "magical":
		return DamageMagical, nil
	case "fire":
		return DamageFire, nil
	case "ice":
		return DamageIce, nil
	case "lightning":
		return DamageLightning, nil
	case "poison":
		return DamagePoison, nil
	default:
		return DamagePhysical, fmt.Errorf("unknown damage type %q", s)
	}
}

func (d DamageType) String() string {
	switch d {
	case DamagePhysical:
		return "physical"
	case DamageMagical:
		return "magical"
	case DamageFire:
		return "fire"
	case DamageIce:
		return "ice"
	case DamageLightning:
		return "lightning"
	case DamagePoison:
		return "poison"
	default:
		return "unknown"
	}
}

func (d *DamageType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := ParseDamageType(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
