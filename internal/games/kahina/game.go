// Package kahina implements Kahina et l'Oracle Oublié: a platformer where
// the player reaches the oracle by revealing hidden platforms with vision,
// plus an endless climbing mode on generated platforms.
package kahina

import (
	"fmt"

	"github.com/vovakirdan/kahina/internal/config"
	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/level"
	"github.com/vovakirdan/kahina/internal/physics"
	"github.com/vovakirdan/kahina/internal/registry"
)

// hintFrames is how long the level hint stays on screen.
const hintFrames = 180

// Game IDs.
const (
	GameID        = "kahina"
	EndlessGameID = "kahina_endless"
)

var (
	configPath string
	levelDir   string
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetLevelDir adds a directory of level files to the built-in levels.
func SetLevelDir(dir string) {
	levelDir = dir
}

// loadConfig loads the game config and applies the named preset.
// A broken config file falls back to the defaults.
func loadConfig(preset string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	config.ApplyPreset(&cfg, config.ParsePreset(preset))
	return cfg, err
}

// Game is the fixed-level mode: reach the oracle before falling.
type Game struct {
	levelID string // Set by SelectLevel; empty plays the default level
	cfg     config.Config
	params  physics.Params
	lvl     level.Level
	world   physics.World
	state   physics.State
	events  []physics.Event
	ctl     controls
	frames  int
	score   int
	loadErr error
}

// New creates a new game instance for the selected level.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Kahina et l'Oracle Oublié"
}

// SelectLevel picks the level played from the next Reset on.
func (g *Game) SelectLevel(id string) {
	g.levelID = id
}

// LevelID returns the ID of the loaded level.
func (g *Game) LevelID() string {
	return g.lvl.ID
}

// LoadError returns the last problem met while loading the config or level.
// The game is still playable: it falls back to the defaults.
func (g *Game) LoadError() error {
	return g.loadErr
}

// Reset loads the config and level and puts the player back at the spawn.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	cfg, cfgErr := loadConfig(runtime.Difficulty)
	g.cfg = cfg
	g.params = cfg.Physics.Params()
	g.loadErr = cfgErr

	id := g.levelID
	if id == "" {
		id = level.DefaultID
	}
	lvl, err := level.Find(id, levelDir)
	if err != nil {
		g.loadErr = err
		lvl, err = level.Find(level.DefaultID, "")
		if err != nil {
			panic(fmt.Sprintf("kahina: built-in level missing: %v", err))
		}
	}
	g.lvl = lvl
	g.world = lvl.World()

	g.state = lvl.SpawnPlayer()
	g.events = nil
	g.ctl.reset(cfg.Vision)
	g.frames = 0
	g.score = 0
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if !g.ctl.apply(in, g.over()) {
		return core.StepResult{State: g.State()}
	}

	res := physics.Step(g.state, g.world, g.ctl.input(in), g.params)
	g.state = res.State
	g.events = res.Events
	g.ctl.vision.Tick()
	g.frames++

	if g.state.Status == physics.Win {
		g.score = core.Max(0, g.cfg.ParFrames-g.frames)
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) over() bool {
	return g.state.Status != physics.Playing
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	vp := viewport(dst, g.lvl.Width, g.lvl.Height)
	vision := g.ctl.vision.Active()

	drawPlatforms(dst, vp, g.world.Platforms, vision)
	if g.world.HasOracle {
		o := g.world.Oracle
		dst.DrawRect(vp.Project(o.X, o.Y, o.W, o.H), OracleChar, core.ColorBrightYellow)
	}
	drawPlayer(dst, vp, g.state.Player, vision)

	// HUD
	dst.DrawTextColor(2, 0, " "+g.lvl.Name+" ", core.ColorYellow)
	left := core.Max(0, g.cfg.ParFrames-g.frames)
	timer := fmt.Sprintf(" Time: %.1fs ", float64(left)/60)
	dst.DrawText(dst.Width()/2-len(timer)/2, 0, timer)
	label, c := visionLabel(g.ctl.vision)
	drawRight(dst, 0, label, c)

	switch {
	case g.ctl.paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume", core.ColorDefault)
	case g.state.Status == physics.Win:
		drawCenteredMessage(dst, "L'ORACLE EST TROUVÉ",
			fmt.Sprintf("Score: %d  |  R restart  B menu", g.score), core.ColorBrightYellow)
	case g.state.Status == physics.Lose:
		drawCenteredMessage(dst, "KAHINA EST TOMBÉE",
			"R restart  |  B menu", core.ColorRed)
	case g.frames < hintFrames:
		if hint := g.lvl.Metadata["hint"]; hint != "" {
			dst.DrawTextCentered(dst.Height()-1, hint, core.ColorGray)
		}
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.over(),
		Won:      g.state.Status == physics.Win,
		Paused:   g.ctl.paused,
		Frames:   g.frames,
	}
}

// Physics returns the current physics state.
func (g *Game) Physics() physics.State {
	return g.state
}

// Events returns what happened during the last simulated frame.
func (g *Game) Events() []physics.Event {
	return g.events
}

// Register the games with the registry
func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
	registry.Register(EndlessGameID, func() registry.Game {
		return NewEndless()
	})
}
