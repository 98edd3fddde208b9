package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SpawnConfig places a group of one archetype in the world.
type SpawnConfig struct {
	Archetype    string  `yaml:"archetype"`
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Z            float64 `yaml:"z"`
	Count        int     `yaml:"count"`
	RespawnDelay float64 `yaml:"respawn_delay"` // seconds, 0 = no respawn
}

// DamageCueConfig is one scripted hit for headless runs: at a sim
// time, every live actor of the archetype takes the amount.
type DamageCueConfig struct {
	At        float64 `yaml:"at"` // seconds from the start of the run
	Archetype string  `yaml:"archetype"`
	Amount    float64 `yaml:"amount"`
	Type      string  `yaml:"type"`
}

// SimServer holds all configuration for the simulation server.
type SimServer struct {
	// Logging
	LogLevel string `yaml:"log_level"`

	// Simulation
	TickRate  int    `yaml:"tick_rate"` // ticks per second
	DataDir   string `yaml:"data_dir"`
	WorldFile string `yaml:"world_file"`
	WatchData bool   `yaml:"watch_data"`

	// Boss encounter persistence
	PersistEncounters bool          `yaml:"persist_encounters"`
	SaveInterval      time.Duration `yaml:"save_interval"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Initial population
	Spawns []SpawnConfig `yaml:"spawns"`

	// Scripted damage standing in for the combat-decision layer
	DamageScript []DamageCueConfig `yaml:"damage_script"`
}

// DefaultSimServer returns SimServer config with sensible defaults.
func DefaultSimServer() SimServer {
	return SimServer{
		LogLevel:          "info",
		TickRate:          20,
		DataDir:           "data",
		WorldFile:         "data/world.yaml",
		WatchData:         true,
		PersistEncounters: false,
		SaveInterval:      30 * time.Second,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "mobcore",
			Password: "mobcore",
			DBName:   "mobcore",
			SSLMode:  "disable",
		},
	}
}

// LoadSimServer loads simulation server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimServer(path string) (SimServer, error) {
	cfg := DefaultSimServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
