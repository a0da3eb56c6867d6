package config

import "math"

// minPlatformWidth keeps generated platforms landable at max difficulty.
const minPlatformWidth = 30

// DifficultyManager calculates dynamic game parameters based on score/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/ticks.
func (d *DifficultyManager) Level(score int, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Gap returns the vertical platform spacing at the current difficulty.
// It never exceeds maxGap, the highest the player can jump.
func (d *DifficultyManager) Gap(baseGap, maxGap float64, score int, ticks int) float64 {
	gap := baseGap + d.Level(score, ticks)*d.cfg.Scaling.GapIncrease
	if maxGap > 0 && gap > maxGap {
		gap = maxGap
	}
	return gap
}

// Width returns a platform width shrunk for the current difficulty.
func (d *DifficultyManager) Width(baseWidth float64, score int, ticks int) float64 {
	w := baseWidth - d.Level(score, ticks)*d.cfg.Scaling.WidthReduction
	if w < minPlatformWidth {
		w = minPlatformWidth
	}
	return w
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
