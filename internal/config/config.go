// Package config provides YAML-based game configuration loading and
// difficulty management for Kahina.
package config

import "github.com/vovakirdan/kahina/internal/physics"

// Config contains all tunable settings of both game modes.
type Config struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Endless    EndlessConfig    `yaml:"endless"`
	Vision     VisionConfig     `yaml:"vision"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	ParFrames  int              `yaml:"par_frames"` // Frames on the fixed-level timer
}

// PhysicsConfig mirrors physics.Params.
type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity"`
	JumpPower      float64 `yaml:"jump_power"`
	MoveSpeed      float64 `yaml:"move_speed"`
	Friction       float64 `yaml:"friction"`
	LandingDepth   float64 `yaml:"landing_depth"`
	SideCollisions bool    `yaml:"side_collisions"`
	OneWay         bool    `yaml:"one_way"`
	IceFactor      float64 `yaml:"ice_factor"`
	BounceVelocity float64 `yaml:"bounce_velocity"`
}

// Params converts the section into step constants.
func (p PhysicsConfig) Params() physics.Params {
	return physics.Params{
		Gravity:        p.Gravity,
		JumpPower:      p.JumpPower,
		MoveSpeed:      p.MoveSpeed,
		Friction:       p.Friction,
		LandingDepth:   p.LandingDepth,
		SideCollisions: p.SideCollisions,
		OneWay:         p.OneWay,
		IceFactor:      p.IceFactor,
		BounceVelocity: p.BounceVelocity,
	}
}

// EndlessConfig defines the endless climbing mode.
type EndlessConfig struct {
	Physics    PhysicsConfig  `yaml:"physics"`
	World      WorldSize      `yaml:"world"`
	Player     PlayerSize     `yaml:"player"`
	Platforms  PlatformConfig `yaml:"platforms"`
	Types      TypeWeights    `yaml:"types"`
	ScrollLine float64        `yaml:"scroll_line"` // Camera follows above this fraction of the height
}

// WorldSize is the logical world in pixels.
type WorldSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerSize is the player box in pixels.
type PlayerSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlatformConfig controls endless platform generation.
type PlatformConfig struct {
	Count      int     `yaml:"count"`       // Platforms kept alive
	Gap        float64 `yaml:"gap"`         // Vertical distance between platforms
	MinWidth   float64 `yaml:"min_width"`   // Narrowest platform
	MaxWidth   float64 `yaml:"max_width"`   // Widest platform
	Height     float64 `yaml:"height"`      // Platform thickness
	Margin     float64 `yaml:"margin"`      // Horizontal margin from world edges
	CullMargin float64 `yaml:"cull_margin"` // Distance below the world before removal
}

// TypeWeights are the probabilities of each platform type.
type TypeWeights struct {
	Normal float64 `yaml:"normal"`
	Ice    float64 `yaml:"ice"`
	Magic  float64 `yaml:"magic"`
	Bouncy float64 `yaml:"bouncy"`
}

// VisionConfig limits the vision toggle. Zero values mean unlimited.
type VisionConfig struct {
	MaxDuration int `yaml:"max_duration"`
	Cooldown    int `yaml:"cooldown"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	GapIncrease    float64 `yaml:"gap_increase"`    // Extra platform gap at max difficulty
	WidthReduction float64 `yaml:"width_reduction"` // Narrower platforms at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value into a preset. Unknown values map to ""
// which keeps the loaded config untouched.
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
