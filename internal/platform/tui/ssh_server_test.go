package tui

import (
	"io"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/registry"
	"github.com/vovakirdan/kahina/internal/storage"
)

func init() {
	registry.Register("scripted", func() registry.Game { return &scriptedGame{endAt: 2} })
}

func sessionUpdate(m SessionModel, msg tea.Msg) SessionModel {
	next, _ := m.Update(msg)
	return next.(SessionModel)
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	items := []MenuItem{{GameID: "scripted", Title: "Scripted"}}
	m := NewSessionModel(items, nil, core.DefaultConfig(), "guest", log.New(io.Discard))

	m = sessionUpdate(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.current != screenGame {
		t.Fatalf("expected the game screen, got %v", m.current)
	}

	for range 3 {
		m = sessionUpdate(m, TickMsg{Loop: m.game.loop})
	}
	if !m.game.State().GameOver {
		t.Fatal("expected the scripted run to end")
	}

	m = sessionUpdate(m, runeKey("b"))
	if m.current != screenMenu {
		t.Errorf("back should return to the menu, got %v", m.current)
	}
	if m.quitting {
		t.Error("going back must not end the session")
	}
}

func TestSessionRunsWithoutStoreReturnsToMenu(t *testing.T) {
	m := NewSessionModel(nil, nil, core.DefaultConfig(), "guest", log.New(io.Discard))

	m = sessionUpdate(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.current != screenRuns {
		t.Fatalf("expected the runs screen, got %v", m.current)
	}

	m = sessionUpdate(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.current != screenMenu {
		t.Errorf("esc should return to the menu, got %v", m.current)
	}
}

func TestSessionQuit(t *testing.T) {
	m := NewSessionModel(nil, nil, core.DefaultConfig(), "guest", log.New(io.Discard))
	m = sessionUpdate(m, runeKey("q"))
	if !m.quitting || m.View() != "" {
		t.Error("q in the menu should end the session")
	}
}

func TestSessionPlaybackUsesStoredRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	id, err := store.SaveRun(storage.Run{
		GameID:     "scripted",
		Difficulty: "easy",
		Outcome:    storage.OutcomeLose,
		Seed:       99,
		Inputs:     "3*0",
	})
	if err != nil {
		t.Fatal(err)
	}

	m := NewSessionModel(nil, store, core.DefaultConfig(), "guest", log.New(io.Discard))
	pb, err := m.loadPlayback(id)
	if err != nil {
		t.Fatalf("loadPlayback failed: %v", err)
	}
	if pb.config.Seed != 99 || pb.config.Difficulty != "easy" {
		t.Errorf("playback should use the stored seed and preset, got %+v", pb.config)
	}
	if len(pb.frames) != 3 {
		t.Errorf("expected 3 frames, got %d", len(pb.frames))
	}
}
