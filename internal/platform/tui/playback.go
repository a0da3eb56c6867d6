package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/registry"
	"github.com/vovakirdan/kahina/internal/replay"
)

// PlaybackModel replays recorded input frames through a game.
type PlaybackModel struct {
	game     registry.Game
	screen   *core.Screen
	config   core.RuntimeConfig
	frames   []uint8
	next     int
	paused   bool
	loop     uint64
	quitting bool
}

// NewPlaybackModel creates a playback of frames. cfg.Seed and
// cfg.Difficulty must be the ones the run was recorded with.
func NewPlaybackModel(game registry.Game, cfg core.RuntimeConfig, frames []uint8) PlaybackModel {
	return PlaybackModel{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config: cfg,
		frames: frames,
		loop:   newLoop(),
	}
}

// Init resets the game and starts playback.
func (m PlaybackModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate, m.loop)
}

// Update handles messages.
func (m PlaybackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc", "b":
			m.quitting = true
			return m, tea.Quit
		case "p", " ":
			m.paused = !m.paused
		}

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		if !m.paused && m.next < len(m.frames) {
			m.game.Step(replay.Frame(m.frames[m.next]))
			m.next++
		}
		return m, tickCmd(m.config.TickRate, m.loop)
	}
	return m, nil
}

// Done reports whether every frame has been played.
func (m PlaybackModel) Done() bool {
	return m.next >= len(m.frames)
}

// View renders the game with a playback status line.
func (m PlaybackModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	status := fmt.Sprintf(" REPLAY %d/%d ", m.next, len(m.frames))
	switch {
	case m.Done():
		status += "finished  Q: quit "
	case m.paused:
		status += "paused  P: resume "
	}
	m.screen.DrawTextColor(1, m.screen.Height()-1, status, core.ColorBrightMagenta)
	return RenderScreen(m.screen)
}

// RunPlayback shows a replay in the terminal.
func RunPlayback(game registry.Game, cfg core.RuntimeConfig, frames []uint8) error {
	p := tea.NewProgram(NewPlaybackModel(game, cfg, frames), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
