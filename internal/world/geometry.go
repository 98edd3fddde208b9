package world

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/feralworks/mobcore/internal/model"
)

// Box is an axis-aligned obstacle.
type Box struct {
	Min model.Vec3 `yaml:"min"`
	Max model.Vec3 `yaml:"max"`
}

// Geometry is the on-disk world description.
type Geometry struct {
	GroundZ float64 `yaml:"ground_z"`
	Boxes   []Box   `yaml:"boxes"`
}

// Load reads world geometry from path. A missing file yields an
// empty world: actors then fly over flat ground with no obstacles.
func Load(path string) (*World, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("world geometry not found, simulating empty world", "path", path)
			return NewWorld(0, nil), nil
		}
		return nil, fmt.Errorf("read geometry: %w", err)
	}

	var geo Geometry
	if err := yaml.Unmarshal(raw, &geo); err != nil {
		return nil, fmt.Errorf("parse geometry: %w", err)
	}

	for i := range geo.Boxes {
		normalizeBox(&geo.Boxes[i])
	}

	w := NewWorld(geo.GroundZ, geo.Boxes)
	slog.Info("loaded world geometry", "path", path, "boxes", len(geo.Boxes))
	return w, nil
}

// normalizeBox swaps per-axis bounds so Min <= Max always holds.
func normalizeBox(b *Box) {
	b.Min.X, b.Max.X = math.Min(b.Min.X, b.Max.X), math.Max(b.Min.X, b.Max.X)
	b.Min.Y, b.Max.Y = math.Min(b.Min.Y, b.Max.Y), math.Max(b.Min.Y, b.Max.Y)
	b.Min.Z, b.Max.Z = math.Min(b.Min.Z, b.Max.Z), math.Max(b.Min.Z, b.Max.Z)
}
