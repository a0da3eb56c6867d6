package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/level"
	"github.com/vovakirdan/kahina/internal/registry"
	"github.com/vovakirdan/kahina/internal/storage"
)

// Game IDs shown in the menu. Kept here so the platform does not import the
// game package.
const (
	fixedGameID   = "kahina"
	endlessGameID = "kahina_endless"
)

// MenuItem represents a selectable entry: a fixed level or the endless mode.
type MenuItem struct {
	GameID  string
	LevelID string // Empty for games without levels
	Title   string
	Detail  string
}

// MenuItems lists every fixed level, built-in and from levelDir, followed
// by the endless mode.
func MenuItems(levelDir string) ([]MenuItem, error) {
	levels, err := level.All(levelDir)
	if err != nil {
		return nil, err
	}

	items := make([]MenuItem, 0, len(levels)+1)
	for _, l := range levels {
		detail := fmt.Sprintf("%d platforms", len(l.Platforms))
		if n := l.HiddenCount(); n > 0 {
			detail += fmt.Sprintf(", %d hidden", n)
		}
		items = append(items, MenuItem{
			GameID:  fixedGameID,
			LevelID: l.ID,
			Title:   l.Name,
			Detail:  detail,
		})
	}

	if registry.Exists(endlessGameID) {
		title := endlessGameID
		for _, g := range registry.List() {
			if g.ID == endlessGameID {
				title = g.Title
			}
		}
		items = append(items, MenuItem{
			GameID: endlessGameID,
			Title:  title,
			Detail: "generated platforms",
		})
	}
	return items, nil
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	store     *storage.Store
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	summary   string
	selected  *MenuItem // Set when user selects an entry
	openRuns  bool      // True if user pressed Tab for run history
}

// NewMenuModel creates a new menu model.
func NewMenuModel(items []MenuItem, store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		summary:   runSummary(store),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionRuns:
		m.openRuns = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("K A H I N A", m.width)))
	b.WriteString("\n")
	b.WriteString(centerText("et l'Oracle Oublié", m.width))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(centerText("Choose a level", m.width)))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := fmt.Sprintf("  %s  (%s)", item.Title, item.Detail)
		if i == m.cursor {
			line = fmt.Sprintf("> %s  (%s)", item.Title, item.Detail)
			b.WriteString(cursorStyle.Render(centerText(line, m.width)))
		} else {
			b.WriteString(centerText(line, m.width))
		}
		b.WriteString("\n")
	}

	if m.summary != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(centerText(m.summary, m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Runs  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// runSummary describes the stored run history, or "" without storage.
func runSummary(store *storage.Store) string {
	if store == nil {
		return ""
	}
	stats, err := store.GetAllGamesStats()
	if err != nil || len(stats) == 0 {
		return ""
	}

	var runs, wins int
	for _, s := range stats {
		runs += s.Runs
		wins += s.Wins
	}
	return fmt.Sprintf("%d runs played, %d oracles found", runs, wins)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRuns returns true if user requested the run history.
func (m MenuModel) WantsRuns() bool {
	return m.openRuns
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Item      *MenuItem
	Config    core.RuntimeConfig
	WantsRuns bool
	Quit      bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(items []MenuItem, store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(items, store, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsRuns():
		result.WantsRuns = true
	case m.Selected() != nil:
		result.Item = m.Selected()
	default:
		result.Quit = true
	}
	return result, nil
}

// CreateGame instantiates the game of a menu item with its level selected.
func CreateGame(item MenuItem) (registry.Game, error) {
	return registry.CreateWithLevel(item.GameID, item.LevelID)
}
