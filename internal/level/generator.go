package level

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/kahina/internal/config"
	"github.com/vovakirdan/kahina/internal/physics"
)

// Start platform dimensions of the endless mode.
const (
	startWidth  = 150
	startOffset = 100 // Distance of the start platform from the world bottom
)

// Generator produces the endless climb: platforms stacked above each other
// at a difficulty-scaled gap, scrolled down by the camera and culled once
// they leave the world.
type Generator struct {
	world      config.WorldSize
	cfg        config.PlatformConfig
	weights    config.TypeWeights
	difficulty *config.DifficultyManager
	maxGap     float64
	rng        *rand.Rand
	platforms  []physics.Platform
}

// NewGenerator creates a generator for the endless section of cfg.
// Platforms are spaced at most as far apart as a jump with p can reach.
func NewGenerator(cfg config.EndlessConfig, dm *config.DifficultyManager, seed int64) *Generator {
	g := &Generator{
		world:      cfg.World,
		cfg:        cfg.Platforms,
		weights:    cfg.Types,
		difficulty: dm,
		maxGap:     JumpHeight(cfg.Physics.Params()) * 0.9,
	}
	g.Reset(seed)
	return g
}

// JumpHeight is the highest rise of a jump under p, in pixels.
func JumpHeight(p physics.Params) float64 {
	if p.Gravity <= 0 {
		return 0
	}
	return p.JumpPower * p.JumpPower / (2 * p.Gravity)
}

// Reset reseeds the generator and lays out the start platform plus a full
// column of platforms above it.
func (g *Generator) Reset(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
	g.platforms = g.platforms[:0]
	g.platforms = append(g.platforms, physics.Platform{
		Rect: physics.Rect{
			X: g.world.Width/2 - startWidth/2,
			Y: g.world.Height - startOffset,
			W: startWidth,
			H: g.cfg.Height,
		},
		Visible: true,
		Type:    physics.Normal,
	})
	g.Fill(0)
}

// Platforms returns the live platforms, bottom first. The slice is shared;
// copy it before mutating.
func (g *Generator) Platforms() []physics.Platform {
	return g.platforms
}

// Start returns the start platform's box, or the zero Rect after it has been
// culled.
func (g *Generator) Start() physics.Rect {
	if len(g.platforms) == 0 {
		return physics.Rect{}
	}
	return g.platforms[0].Rect
}

// Fill tops up the column to the configured count. score drives difficulty.
func (g *Generator) Fill(score int) {
	for len(g.platforms) < g.cfg.Count {
		g.platforms = append(g.platforms, g.next(score))
	}
}

// Scroll moves every platform down by dy pixels.
func (g *Generator) Scroll(dy float64) {
	for i := range g.platforms {
		g.platforms[i].Y += dy
	}
}

// Cull removes platforms whose top is at or below limit and returns how many
// were removed.
func (g *Generator) Cull(limit float64) int {
	kept := g.platforms[:0]
	for _, p := range g.platforms {
		if p.Y < limit {
			kept = append(kept, p)
		}
	}
	removed := len(g.platforms) - len(kept)
	g.platforms = kept
	return removed
}

// Gap returns the spacing of the next platform at the given score.
func (g *Generator) Gap(score int) float64 {
	return g.difficulty.Gap(g.cfg.Gap, g.maxGap, score, 0)
}

func (g *Generator) next(score int) physics.Platform {
	top := g.world.Height - startOffset
	if n := len(g.platforms); n > 0 {
		top = g.platforms[n-1].Y
	}

	gap := g.Gap(score)

	width := g.cfg.MinWidth + g.rng.Float64()*(g.cfg.MaxWidth-g.cfg.MinWidth)
	width = math.Floor(g.difficulty.Width(width, score, 0))

	span := g.world.Width - width - 2*g.cfg.Margin
	x := g.cfg.Margin
	if span > 0 {
		x += math.Floor(g.rng.Float64() * span)
	}

	return physics.Platform{
		Rect: physics.Rect{
			X: x,
			Y: top - gap,
			W: width,
			H: g.cfg.Height,
		},
		Visible: true,
		Type:    g.pickType(),
	}
}

func (g *Generator) pickType() physics.PlatformType {
	w := g.weights
	total := w.Normal + w.Ice + w.Magic + w.Bouncy
	if total <= 0 {
		return physics.Normal
	}

	r := g.rng.Float64() * total
	switch {
	case r < w.Normal:
		return physics.Normal
	case r < w.Normal+w.Ice:
		return physics.Ice
	case r < w.Normal+w.Ice+w.Magic:
		return physics.Magic
	default:
		return physics.Bouncy
	}
}
