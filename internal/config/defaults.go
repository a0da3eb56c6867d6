package config

import (
	_ "embed"
)

//go:embed defaults/kahina.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration. It matches
// defaults/kahina.yaml and is the fallback when no YAML can be parsed.
func DefaultConfig() Config {
	return Config{
		Physics: PhysicsConfig{
			Gravity:        0.8,
			JumpPower:      -15,
			MoveSpeed:      5,
			IceFactor:      1.2,
			BounceVelocity: -22,
		},
		ParFrames: 3600, // one minute at 60fps
		Endless: EndlessConfig{
			Physics: PhysicsConfig{
				Gravity:        0.8,
				JumpPower:      -18,
				MoveSpeed:      8,
				Friction:       0.8,
				LandingDepth:   20,
				OneWay:         true,
				IceFactor:      1.2,
				BounceVelocity: -22,
			},
			World:  WorldSize{Width: 800, Height: 600},
			Player: PlayerSize{Width: 50, Height: 70},
			Platforms: PlatformConfig{
				Count:      15,
				Gap:        120,
				MinWidth:   60,
				MaxWidth:   120,
				Height:     20,
				Margin:     20,
				CullMargin: 100,
			},
			Types:      TypeWeights{Normal: 0.60, Ice: 0.20, Magic: 0.15, Bouncy: 0.05},
			ScrollLine: 0.3,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 1000,
			},
			Scaling: ScalingConfig{
				GapIncrease:    40,
				WidthReduction: 20,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
