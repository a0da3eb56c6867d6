// Package formats provides pluggable level file format parsers.
package formats

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure of a parsed level.
var ErrInvalid = errors.New("invalid level")

// Level is the format-neutral result of parsing a level file.
type Level struct {
	ID        string
	Name      string
	Width     float64
	Height    float64
	FallLimit float64
	Spawn     Box
	Oracle    *Box
	Platforms []Platform
	Metadata  map[string]string
}

// Box is a rectangle in pixels.
type Box struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Platform is one platform entry.
type Platform struct {
	Box    `yaml:",inline"`
	Hidden bool   `yaml:"hidden,omitempty"`
	Type   string `yaml:"type,omitempty"`
}

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Size      YAMLSize          `yaml:"size"`
	FallLimit float64           `yaml:"fall_limit,omitempty"`
	Spawn     Box               `yaml:"spawn"`
	Oracle    *Box              `yaml:"oracle,omitempty"`
	Platforms []Platform        `yaml:"platforms"`
	Metadata  map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents world dimensions.
type YAMLSize struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// FormatExtensions lists the file extensions the loader understands.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".toml"}
}

// ParseYAML parses and validates a YAML level.
// A missing fall_limit defaults to the world height.
func ParseYAML(data []byte) (Level, error) {
	var y YAMLLevel
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Level{}, fmt.Errorf("yaml: %w", err)
	}

	lvl := Level{
		ID:        y.ID,
		Name:      y.Name,
		Width:     y.Size.W,
		Height:    y.Size.H,
		FallLimit: y.FallLimit,
		Spawn:     y.Spawn,
		Oracle:    y.Oracle,
		Platforms: y.Platforms,
		Metadata:  y.Metadata,
	}
	return finish(lvl)
}

// finish fills in defaults and validates a parsed level.
func finish(lvl Level) (Level, error) {
	if lvl.FallLimit == 0 {
		lvl.FallLimit = lvl.Height
	}
	if lvl.Name == "" {
		lvl.Name = lvl.ID
	}

	if err := validate(lvl); err != nil {
		return Level{}, err
	}
	return lvl, nil
}

func validate(l Level) error {
	if l.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: %s: size must be positive", ErrInvalid, l.ID)
	}
	if l.Spawn.W <= 0 || l.Spawn.H <= 0 {
		return fmt.Errorf("%w: %s: spawn size must be positive", ErrInvalid, l.ID)
	}
	if l.Spawn.W > l.Width {
		return fmt.Errorf("%w: %s: spawn is wider than the world", ErrInvalid, l.ID)
	}
	if l.Oracle != nil && (l.Oracle.W <= 0 || l.Oracle.H <= 0) {
		return fmt.Errorf("%w: %s: oracle size must be positive", ErrInvalid, l.ID)
	}
	for i, p := range l.Platforms {
		if p.W <= 0 || p.H <= 0 {
			return fmt.Errorf("%w: %s: platform %d size must be positive", ErrInvalid, l.ID, i)
		}
		switch p.Type {
		case "", "normal", "ice", "magic", "bouncy":
		default:
			return fmt.Errorf("%w: %s: platform %d has unknown type %q", ErrInvalid, l.ID, i, p.Type)
		}
	}
	return nil
}
