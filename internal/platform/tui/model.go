package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/registry"
	"github.com/vovakirdan/kahina/internal/replay"
	"github.com/vovakirdan/kahina/internal/storage"
)

// DefaultHoldTicks is how long a key press keeps a movement action held.
// Terminals send no release events, and auto-repeat usually fires faster
// than this.
const DefaultHoldTicks = 8

// GameOptions configures a game session.
type GameOptions struct {
	Store     *storage.Store
	Logger    *log.Logger // Optional; save failures are logged here
	Player    string      // Stored with each run
	HoldTicks int         // 0 means DefaultHoldTicks
}

// GameModel runs one game: it turns key presses into input frames, steps
// the game on every tick, records the input and saves the run once it ends.
//
// Key handlers only touch the held-key set and the pending one-shot actions.
// The tick handler is the single writer of game state.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	opts       GameOptions
	config     core.RuntimeConfig
	held       *core.HeldKeys
	pending    core.InputFrame // One-shot actions for the next tick
	recorder   *replay.Recorder
	gameState  core.GameState
	keyMapper  *KeyMapper
	lastRunID  string
	loop       uint64
	quitting   bool
	backToMenu bool
	runSaved   bool
}

// NewGameModel creates a game model. A zero seed is replaced by the time.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.HoldTicks <= 0 {
		opts.HoldTicks = DefaultHoldTicks
	}

	return GameModel{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:      opts,
		config:    cfg,
		held:      core.NewHeldKeys(opts.HoldTicks),
		pending:   core.NewInputFrame(),
		recorder:  replay.NewRecorder(),
		keyMapper: NewKeyMapper(),
		loop:      newLoop(),
	}
}

// Init initializes the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.warnLoadError()
	return tickCmd(m.config.TickRate, m.loop)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The world is scaled to the screen, so a resize keeps the run going.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit

	case action == core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			return m, tea.Quit
		}

	case action == core.ActionRestart:
		if m.gameState.GameOver {
			m.pending.Set(core.ActionRestart)
		}

	case IsHeld(action):
		m.held.Release(opposite(action))
		m.held.Press(action)

	case action != core.ActionNone:
		m.pending.Set(action)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	if m.pending.Has(core.ActionRestart) && m.gameState.GameOver {
		m.restart()
		return m, tickCmd(m.config.TickRate, m.loop)
	}

	frame := m.pending.Clone()
	m.held.Fill(&frame)

	if !m.gameState.GameOver {
		m.recorder.Record(frame)
	}
	m.gameState = m.game.Step(frame).State

	if m.gameState.GameOver && !m.runSaved {
		m.saveRun()
		m.runSaved = true
	}

	m.held.Advance()
	m.pending.Clear()
	return m, tickCmd(m.config.TickRate, m.loop)
}

// restart starts a new run with a fresh seed.
func (m *GameModel) restart() {
	m.config.Seed = time.Now().UnixNano()
	m.game.Reset(m.config)
	m.warnLoadError()
	m.gameState = m.game.State()
	m.recorder.Reset()
	m.held.Reset()
	m.pending.Clear()
	m.runSaved = false
	m.lastRunID = ""
}

// saveRun stores the finished run with its input. Best-effort: a failed
// save is logged and the game continues.
func (m *GameModel) saveRun() {
	if m.opts.Store == nil {
		return
	}

	outcome := storage.OutcomeOf(m.gameState)

	id, err := m.opts.Store.SaveRun(storage.Run{
		GameID:     m.game.ID(),
		LevelID:    registry.LevelOf(m.game),
		Difficulty: m.config.Difficulty,
		Outcome:    outcome,
		Score:      m.gameState.Score,
		Frames:     m.gameState.Frames,
		Seed:       m.config.Seed,
		Inputs:     replay.Encode(m.recorder.Frames()),
		Player:     m.opts.Player,
	})
	if err != nil {
		if m.opts.Logger != nil {
			m.opts.Logger.Warn("could not save run", "game", m.game.ID(), "error", err)
		}
		return
	}
	m.lastRunID = id
	if m.opts.Logger != nil {
		m.opts.Logger.Debug("run saved", "id", id, "game", m.game.ID(),
			"outcome", outcome, "score", m.gameState.Score)
	}
}

func (m GameModel) warnLoadError() {
	if err := registry.LoadErrorOf(m.game); err != nil && m.opts.Logger != nil {
		m.opts.Logger.Warn("using defaults", "game", m.game.ID(), "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".kahina", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.lastRunID != "" && m.screen.Height() > 0 {
		m.screen.DrawTextColor(1, m.screen.Height()-1, "run "+m.lastRunID, core.ColorGray)
	}
	return RenderScreen(m.screen)
}

// State returns the game state after the last tick.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// LastRunID returns the ID of the saved run, or "" while none is saved.
func (m GameModel) LastRunID() string {
	return m.lastRunID
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for a single game. It returns true if
// the player asked to go back to a menu.
func Run(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) (backToMenu bool, err error) {
	p := tea.NewProgram(
		NewGameModel(game, cfg, opts),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(GameModel)
	return ok && m.BackToMenu(), nil
}
