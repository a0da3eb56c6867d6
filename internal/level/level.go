// Package level defines playable levels: the fixed levels shipped with the
// game, level files loaded from disk, and the endless platform generator.
package level

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"

	"github.com/vovakirdan/kahina/internal/level/formats"
	"github.com/vovakirdan/kahina/internal/physics"
)

// DefaultID is the level played when none is chosen.
const DefaultID = "oracle"

// ErrNotFound is returned when no level has the requested ID.
var ErrNotFound = errors.New("level not found")

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Level is a complete fixed level.
type Level struct {
	ID        string
	Name      string
	Width     float64
	Height    float64
	FallLimit float64
	Spawn     physics.Rect
	Platforms []physics.Platform
	Oracle    physics.Rect
	HasOracle bool
	Metadata  map[string]string
	FilePath  string // Empty for built-in levels
}

// World returns the static world for the physics step.
// The platform slice is a copy; callers may modify it freely.
func (l Level) World() physics.World {
	platforms := make([]physics.Platform, len(l.Platforms))
	copy(platforms, l.Platforms)
	return physics.World{
		Width:     l.Width,
		FallLimit: l.FallLimit,
		Platforms: platforms,
		Oracle:    l.Oracle,
		HasOracle: l.HasOracle,
	}
}

// SpawnPlayer returns the initial physics state: the player at rest on the
// spawn point.
func (l Level) SpawnPlayer() physics.State {
	return physics.NewState(l.Spawn)
}

// HiddenCount returns how many platforms need vision to be seen.
func (l Level) HiddenCount() int {
	n := 0
	for _, p := range l.Platforms {
		if !p.Visible {
			n++
		}
	}
	return n
}

// fromFormat converts a parsed file into a Level.
func fromFormat(f formats.Level, filePath string) (Level, error) {
	lvl := Level{
		ID:        f.ID,
		Name:      f.Name,
		Width:     f.Width,
		Height:    f.Height,
		FallLimit: f.FallLimit,
		Spawn:     box(f.Spawn),
		Metadata:  f.Metadata,
		FilePath:  filePath,
	}
	if f.Oracle != nil {
		lvl.Oracle = box(*f.Oracle)
		lvl.HasOracle = true
	}

	lvl.Platforms = make([]physics.Platform, 0, len(f.Platforms))
	for _, p := range f.Platforms {
		typ, err := physics.ParsePlatformType(p.Type)
		if err != nil {
			return Level{}, err
		}
		lvl.Platforms = append(lvl.Platforms, physics.Platform{
			Rect:    box(p.Box),
			Visible: !p.Hidden,
			Type:    typ,
		})
	}
	return lvl, nil
}

func box(b formats.Box) physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

// Builtin returns the levels embedded in the binary, sorted by ID.
func Builtin() ([]Level, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, fmt.Errorf("level: reading built-in levels: %w", err)
	}

	levels := make([]Level, 0, len(entries))
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("builtin", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("level: reading %s: %w", e.Name(), err)
		}
		parsed, err := formats.ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("level: parsing built-in %s: %w", e.Name(), err)
		}
		lvl, err := fromFormat(parsed, "")
		if err != nil {
			return nil, fmt.Errorf("level: built-in %s: %w", e.Name(), err)
		}
		levels = append(levels, lvl)
	}

	sortByID(levels)
	return levels, nil
}

// All returns the built-in levels merged with the levels found under dir.
// A level file with the same ID as a built-in one replaces it.
// An empty dir returns only the built-in levels.
func All(dir string) ([]Level, error) {
	levels, err := Builtin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return levels, nil
	}

	custom, err := NewLoader(dir).LoadAll()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(levels))
	for i, l := range levels {
		byID[l.ID] = i
	}
	for _, l := range custom {
		if i, ok := byID[l.ID]; ok {
			levels[i] = l
			continue
		}
		byID[l.ID] = len(levels)
		levels = append(levels, l)
	}

	sortByID(levels)
	return levels, nil
}

// Find returns the level with the given ID from All(dir).
func Find(id, dir string) (Level, error) {
	levels, err := All(dir)
	if err != nil {
		return Level{}, err
	}
	for _, l := range levels {
		if l.ID == id {
			return l, nil
		}
	}
	return Level{}, fmt.Errorf("level: %w: %s", ErrNotFound, id)
}

func sortByID(levels []Level) {
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
}
