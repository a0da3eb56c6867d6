package formats

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// TOMLLevel represents the TOML structure for a level file. Platforms are
// an array of tables:
//
//	id = "cave"
//	size = { w = 800, h = 600 }
//	spawn = { x = 50, y = 400, w = 30, h = 50 }
//
//	[[platforms]]
//	x = 0
//	y = 550
//	w = 800
//	h = 50
type TOMLLevel struct {
	ID        string            `toml:"id"`
	Name      string            `toml:"name"`
	Size      tomlSize          `toml:"size"`
	FallLimit float64           `toml:"fall_limit"`
	Spawn     tomlBox           `toml:"spawn"`
	Oracle    *tomlBox          `toml:"oracle"`
	Platforms []tomlPlatform    `toml:"platforms"`
	Metadata  map[string]string `toml:"metadata"`
}

type tomlSize struct {
	W float64 `toml:"w"`
	H float64 `toml:"h"`
}

type tomlBox struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
	W float64 `toml:"w"`
	H float64 `toml:"h"`
}

func (b tomlBox) box() Box {
	return Box{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

type tomlPlatform struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	W      float64 `toml:"w"`
	H      float64 `toml:"h"`
	Hidden bool    `toml:"hidden"`
	Type   string  `toml:"type"`
}

// ParseTOML parses and validates a TOML level. Defaults match ParseYAML.
func ParseTOML(data []byte) (Level, error) {
	var t TOMLLevel
	if err := toml.Unmarshal(data, &t); err != nil {
		return Level{}, fmt.Errorf("toml: %w", err)
	}

	lvl := Level{
		ID:        t.ID,
		Name:      t.Name,
		Width:     t.Size.W,
		Height:    t.Size.H,
		FallLimit: t.FallLimit,
		Spawn:     t.Spawn.box(),
		Metadata:  t.Metadata,
	}
	if t.Oracle != nil {
		o := t.Oracle.box()
		lvl.Oracle = &o
	}
	for _, p := range t.Platforms {
		lvl.Platforms = append(lvl.Platforms, Platform{Box: Box{X: p.X, Y: p.Y, W: p.W, H: p.H}, Hidden: p.Hidden, Type: p.Type})
	}
	return finish(lvl)
}
