package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the search path.
const FileName = "kahina.yaml"

// Load loads the game configuration.
// Search order: customPath -> ~/.kahina/configs/kahina.yaml ->
// ./configs/kahina.yaml -> embedded default.
//
// Files are decoded over DefaultConfig, so a file only needs the keys it
// changes. A custom path that cannot be read or parsed is an error; the
// other locations are skipped silently.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range searchPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultYAML)
	if err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the built-in defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c Config) Validate() error {
	e := c.Endless
	switch {
	case e.World.Width <= 0 || e.World.Height <= 0:
		return fmt.Errorf("endless world size must be positive")
	case e.Player.Width <= 0 || e.Player.Height <= 0:
		return fmt.Errorf("endless player size must be positive")
	case e.Player.Width >= e.World.Width:
		return fmt.Errorf("endless player is wider than the world")
	case e.Platforms.Count < 1:
		return fmt.Errorf("endless platform count must be at least 1")
	case e.Platforms.MinWidth <= 0 || e.Platforms.MaxWidth < e.Platforms.MinWidth:
		return fmt.Errorf("endless platform widths must satisfy 0 < min_width <= max_width")
	case e.Platforms.Gap <= 0:
		return fmt.Errorf("endless platform gap must be positive")
	case e.Types.Normal+e.Types.Ice+e.Types.Magic+e.Types.Bouncy <= 0:
		return fmt.Errorf("endless platform type weights must not all be zero")
	case c.Vision.MaxDuration < 0 || c.Vision.Cooldown < 0:
		return fmt.Errorf("vision limits must not be negative")
	}
	return nil
}

// searchPaths lists the implicit config locations in priority order.
func searchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".kahina", "configs", FileName))
	}
	return append(paths, filepath.Join("configs", FileName))
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.ParFrames = cfg.ParFrames * 2
	case DifficultyHard:
		// Timed vision: two seconds on, three seconds of cooldown.
		cfg.Vision.MaxDuration = 120
		cfg.Vision.Cooldown = 180
	}
}
