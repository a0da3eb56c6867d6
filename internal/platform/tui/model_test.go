package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/replay"
	"github.com/vovakirdan/kahina/internal/storage"
)

// scriptedGame records the frames it is stepped with and ends after endAt
// frames.
type scriptedGame struct {
	endAt  int
	resets int
	frames []core.InputFrame
}

func (g *scriptedGame) ID() string               { return "scripted" }
func (g *scriptedGame) Title() string            { return "Scripted" }
func (g *scriptedGame) Reset(core.RuntimeConfig) { g.resets++; g.frames = nil }
func (g *scriptedGame) Render(dst *core.Screen)  { dst.Clear() }

func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	if len(g.frames) < g.endAt {
		g.frames = append(g.frames, in.Clone())
	}
	return core.StepResult{State: g.State()}
}

func (g *scriptedGame) State() core.GameState {
	n := len(g.frames)
	return core.GameState{Score: n * 10, GameOver: n >= g.endAt, Frames: n}
}

func newTestModel(t *testing.T, g *scriptedGame, store *storage.Store) GameModel {
	t.Helper()
	m := NewGameModel(g, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 7, Difficulty: "easy"},
		GameOptions{Store: store, Player: "tester", HoldTicks: 3})
	m.Init()
	return m
}

func press(m GameModel, msg tea.KeyMsg) GameModel {
	next, _ := m.Update(msg)
	return next.(GameModel)
}

func tick(m GameModel, n int) GameModel {
	for range n {
		next, _ := m.Update(TickMsg{Loop: m.loop})
		m = next.(GameModel)
	}
	return m
}

func TestHeldKeyLastsHoldWindow(t *testing.T) {
	g := &scriptedGame{endAt: 100}
	m := newTestModel(t, g, nil)

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m = tick(m, 5)

	for i, f := range g.frames {
		want := i < 3
		if f.Has(core.ActionRight) != want {
			t.Errorf("frame %d: Right = %v, want %v", i, f.Has(core.ActionRight), want)
		}
	}
}

func TestOppositeDirectionReleases(t *testing.T) {
	g := &scriptedGame{endAt: 100}
	m := newTestModel(t, g, nil)

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m = tick(m, 1)

	f := g.frames[0]
	if !f.Has(core.ActionLeft) || f.Has(core.ActionRight) {
		t.Errorf("expected only Left held, got %v", f.Actions)
	}
}

func TestToggleFiresOnce(t *testing.T) {
	g := &scriptedGame{endAt: 100}
	m := newTestModel(t, g, nil)

	m = press(m, runeKey("v"))
	m = tick(m, 2)

	if !g.frames[0].Has(core.ActionVision) {
		t.Error("vision should be set on the first frame")
	}
	if g.frames[1].Has(core.ActionVision) {
		t.Error("vision should not repeat on the next frame")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	g := &scriptedGame{endAt: 100}
	m := newTestModel(t, g, nil)

	_, cmd := m.Update(TickMsg{Loop: m.loop + 1})
	if cmd != nil || len(g.frames) != 0 {
		t.Errorf("tick from another loop stepped the game (%d frames)", len(g.frames))
	}
}

func TestBackOnlyWhenOverOrPaused(t *testing.T) {
	g := &scriptedGame{endAt: 2}
	m := newTestModel(t, g, nil)

	m = press(m, runeKey("b"))
	if m.BackToMenu() {
		t.Fatal("back should be ignored while playing")
	}

	m = tick(m, 2)
	m = press(m, runeKey("b"))
	if !m.BackToMenu() {
		t.Error("back should work after the run ended")
	}
}

func TestRunSavedOnceWithReplay(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	g := &scriptedGame{endAt: 4}
	m := newTestModel(t, g, store)

	m = press(m, runeKey("d"))
	m = tick(m, 10)

	if m.LastRunID() == "" {
		t.Fatal("expected the finished run to be saved")
	}
	runs, err := store.RecentRuns("scripted", 0)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	run, err := store.GetRun(m.LastRunID())
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.Outcome != storage.OutcomeLose || run.Score != 40 || run.Frames != 4 ||
		run.Seed != 7 || run.Difficulty != "easy" || run.Player != "tester" {
		t.Errorf("unexpected run %+v", run)
	}

	frames, err := replay.Decode(run.Inputs)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("expected 4 recorded frames, got %d", len(frames))
	}
	if frames[0] != replay.BitRight || frames[3] != 0 {
		t.Errorf("unexpected recorded frames %v", frames)
	}
}

func TestRestartStartsNewRun(t *testing.T) {
	g := &scriptedGame{endAt: 2}
	m := newTestModel(t, g, nil)

	m = tick(m, 3)
	if !m.State().GameOver {
		t.Fatal("expected game over")
	}

	m = press(m, runeKey("r"))
	m = tick(m, 1)
	if g.resets != 2 {
		t.Errorf("expected a second reset, got %d", g.resets)
	}
	if m.State().GameOver {
		t.Error("restart should clear game over")
	}
}

func TestMenuSelection(t *testing.T) {
	items := []MenuItem{
		{GameID: "kahina", LevelID: "oracle", Title: "Oracle"},
		{GameID: "kahina", LevelID: "sanctuary", Title: "Sanctuary"},
	}
	m := NewMenuModel(items, nil, core.DefaultConfig())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.(MenuModel).Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.(MenuModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	if m.Selected() == nil || m.Selected().LevelID != "sanctuary" {
		t.Errorf("expected sanctuary selected, got %+v", m.Selected())
	}

	m = NewMenuModel(items, nil, core.DefaultConfig())
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !next.(MenuModel).WantsRuns() {
		t.Error("tab should open the run history")
	}
}

func TestMenuItemsListsBuiltinLevels(t *testing.T) {
	items, err := MenuItems("")
	if err != nil {
		t.Fatalf("MenuItems failed: %v", err)
	}
	if len(items) < 2 || items[0].LevelID != "oracle" || items[1].LevelID != "sanctuary" {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].GameID != fixedGameID {
		t.Errorf("level items should start %s, got %s", fixedGameID, items[0].GameID)
	}
}
