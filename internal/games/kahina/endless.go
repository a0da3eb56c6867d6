package kahina

import (
	"fmt"
	"math"

	"github.com/vovakirdan/kahina/internal/config"
	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/level"
	"github.com/vovakirdan/kahina/internal/physics"
)

// pixelsPerPoint converts climbed height into score.
const pixelsPerPoint = 10

// pointsPerLevel is how many points make one displayed level.
const pointsPerLevel = 100

// Endless is the endless climbing mode. The camera follows the player up and
// the score is the height climbed.
type Endless struct {
	cfg        config.EndlessConfig
	params     physics.Params
	difficulty *config.DifficultyManager
	gen        *level.Generator
	state      physics.State
	events     []physics.Event
	ctl        controls
	climbed    float64 // Pixels scrolled by the camera
	baseY      float64 // Player Y at the spawn
	frames     int
	score      int
	loadErr    error
}

// NewEndless creates a new endless game instance.
func NewEndless() *Endless {
	return &Endless{}
}

// ID returns the unique identifier for this game.
func (g *Endless) ID() string {
	return EndlessGameID
}

// Title returns the display name for this game.
func (g *Endless) Title() string {
	return "Kahina: Endless Ascent"
}

// LevelID returns the level label stored with runs.
func (g *Endless) LevelID() string {
	return "endless"
}

// LoadError returns the last config problem; defaults are used instead.
func (g *Endless) LoadError() error {
	return g.loadErr
}

// Reset regenerates the platforms from the seed and puts the player on the
// start platform.
func (g *Endless) Reset(runtime core.RuntimeConfig) {
	cfg, err := loadConfig(runtime.Difficulty)
	g.loadErr = err
	g.cfg = cfg.Endless
	g.params = cfg.Endless.Physics.Params()
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	if g.gen == nil {
		g.gen = level.NewGenerator(g.cfg, g.difficulty, runtime.Seed)
	} else {
		g.gen.Reset(runtime.Seed)
	}

	start := g.gen.Start()
	g.state = physics.NewState(physics.Rect{
		X: g.cfg.World.Width/2 - g.cfg.Player.Width/2,
		Y: start.Y - g.cfg.Player.Height,
		W: g.cfg.Player.Width,
		H: g.cfg.Player.Height,
	})
	g.baseY = g.state.Player.Y
	g.events = nil
	g.ctl.reset(cfg.Vision)
	g.climbed = 0
	g.frames = 0
	g.score = 0
}

func (g *Endless) world() physics.World {
	return physics.World{
		Width:     g.cfg.World.Width,
		FallLimit: g.cfg.World.Height + g.cfg.Platforms.CullMargin,
		Platforms: g.gen.Platforms(),
	}
}

// Step advances the game by one tick.
func (g *Endless) Step(in core.InputFrame) core.StepResult {
	if !g.ctl.apply(in, g.over()) {
		return core.StepResult{State: g.State()}
	}

	res := physics.Step(g.state, g.world(), g.ctl.input(in), g.params)
	g.state = res.State
	g.events = res.Events
	g.ctl.vision.Tick()
	g.frames++

	if g.state.Status == physics.Playing {
		g.scroll()
	}

	height := g.climbed + g.baseY - g.state.Player.Y
	if pts := int(math.Floor(height / pixelsPerPoint)); pts > g.score {
		g.score = pts
	}

	g.gen.Cull(g.cfg.World.Height + g.cfg.Platforms.CullMargin)
	g.gen.Fill(g.score)

	return core.StepResult{State: g.State()}
}

// scroll moves the camera when the player rises above the scroll line.
func (g *Endless) scroll() {
	line := g.cfg.World.Height * g.cfg.ScrollLine
	if g.state.Player.Y >= line {
		return
	}
	dy := line - g.state.Player.Y
	g.state.Player.Y = line
	g.gen.Scroll(dy)
	g.climbed += dy
}

func (g *Endless) over() bool {
	return g.state.Status != physics.Playing
}

// Level returns the displayed level, one per hundred points.
func (g *Endless) Level() int {
	return g.score/pointsPerLevel + 1
}

// Render draws the current game state to the screen.
func (g *Endless) Render(dst *core.Screen) {
	dst.Clear()
	vp := viewport(dst, g.cfg.World.Width, g.cfg.World.Height)
	vision := g.ctl.vision.Active()

	drawPlatforms(dst, vp, g.gen.Platforms(), vision)
	drawPlayer(dst, vp, g.state.Player, vision)

	// HUD
	dst.DrawTextColor(2, 0, fmt.Sprintf(" Score: %d ", g.score), core.ColorYellow)
	lvl := fmt.Sprintf(" Level: %d ", g.Level())
	dst.DrawText(dst.Width()/2-len(lvl)/2, 0, lvl)
	if g.difficulty.IsEnabled() {
		drawRight(dst, 0, fmt.Sprintf(" Gap: %.0f ", g.gen.Gap(g.score)), core.ColorGray)
	}

	switch {
	case g.ctl.paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume", core.ColorDefault)
	case g.over():
		drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  |  R restart  B menu", g.score), core.ColorRed)
	}
}

// State returns the current game state.
func (g *Endless) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.over(),
		Paused:   g.ctl.paused,
		Frames:   g.frames,
	}
}

// Physics returns the current physics state.
func (g *Endless) Physics() physics.State {
	return g.state
}

// Events returns what happened during the last simulated frame.
func (g *Endless) Events() []physics.Event {
	return g.events
}
