package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/vovakirdan/kahina/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndGetRun(t *testing.T) {
	store := openTestStore(t)

	in := Run{
		GameID:     "kahina",
		LevelID:    "oracle",
		Difficulty: "easy",
		Outcome:    OutcomeWin,
		Score:      6000,
		Frames:     1200,
		Seed:       42,
		Inputs:     "30*2,10*6,1160*0",
		Player:     "kahina",
	}
	id, err := store.SaveRun(in)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("SaveRun() returned non-UUID id %q", id)
	}

	got, err := store.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun() failed: %v", err)
	}
	in.ID = id
	in.CreatedAt = got.CreatedAt
	if got != in {
		t.Errorf("GetRun() = %+v, expected %+v", got, in)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the database")
	}
}

func TestStoreAddsDifficultyColumn(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(`CREATE TABLE runs (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		level_id TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		frames INTEGER NOT NULL DEFAULT 0,
		seed INTEGER NOT NULL DEFAULT 0,
		inputs TEXT NOT NULL DEFAULT '',
		player TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	INSERT INTO runs (id, game_id, outcome) VALUES ('5f1e2c1a-0000-4000-8000-000000000001', 'kahina', 'lose');`)
	db.Close()
	if err != nil {
		t.Fatal(err)
	}

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() on an old database failed: %v", err)
	}
	defer store.Close()

	old, err := store.GetRun("5f1e2c1a-0000-4000-8000-000000000001")
	if err != nil || old.Difficulty != "" {
		t.Errorf("old run = %+v, %v; expected an empty difficulty", old, err)
	}

	id, err := store.SaveRun(Run{GameID: "kahina", Difficulty: "hard", Outcome: OutcomeLose})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	got, err := store.GetRun(id)
	if err != nil || got.Difficulty != "hard" {
		t.Errorf("GetRun() = %+v, %v; expected difficulty hard", got, err)
	}

	// A second open finds the column and leaves it alone.
	again, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopening failed: %v", err)
	}
	again.Close()
}

func TestStoreSaveRunWithID(t *testing.T) {
	store := openTestStore(t)

	id := uuid.NewString()
	got, err := store.SaveRun(Run{ID: id, GameID: "kahina", Outcome: OutcomeLose})
	if err != nil || got != id {
		t.Fatalf("SaveRun() = %q, %v; expected %q", got, err, id)
	}

	if _, err := store.SaveRun(Run{ID: id, GameID: "kahina", Outcome: OutcomeLose}); err == nil {
		t.Error("duplicate ID should fail")
	}
	if _, err := store.SaveRun(Run{ID: "not-a-uuid", GameID: "kahina"}); err == nil {
		t.Error("invalid ID should fail")
	}
}

func TestStoreGetRunNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetRun(uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	var ids []string
	for i := 0; i < 25; i++ {
		id, err := store.SaveRun(Run{GameID: "kahina_endless", Outcome: OutcomeLose, Score: i, Inputs: "5*0"})
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
		ids = append(ids, id)
	}
	if _, err := store.SaveRun(Run{GameID: "kahina", Outcome: OutcomeWin}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	runs, err := store.RecentRuns("kahina_endless", 0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 20 {
		t.Fatalf("Expected default limit of 20, got %d", len(runs))
	}
	if runs[0].ID != ids[len(ids)-1] {
		t.Errorf("newest run should come first, got score %d", runs[0].Score)
	}
	for _, r := range runs {
		if r.GameID != "kahina_endless" {
			t.Errorf("unexpected game %q", r.GameID)
		}
		if r.Inputs != "" {
			t.Error("RecentRuns should not load inputs")
		}
	}

	all, err := store.RecentRuns("", 100)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 26 {
		t.Errorf("Expected 26 runs across games, got %d", len(all))
	}
}

func TestStoreCountAndDeleteRuns(t *testing.T) {
	store := openTestStore(t)

	outcomes := []string{OutcomeWin, OutcomeLose, OutcomeLose, OutcomeWin, OutcomeLose}
	for _, o := range outcomes {
		if _, err := store.SaveRun(Run{GameID: "kahina", Outcome: o, Frames: 100}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	if _, err := store.SaveRun(Run{GameID: "kahina_endless", Outcome: OutcomeLose}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	tests := []struct {
		outcome string
		want    int
	}{
		{"", 5},
		{OutcomeWin, 2},
		{OutcomeLose, 3},
	}
	for _, tt := range tests {
		n, err := store.CountRuns("kahina", tt.outcome)
		if err != nil {
			t.Fatalf("CountRuns() failed: %v", err)
		}
		if n != tt.want {
			t.Errorf("CountRuns(kahina, %q) = %d, expected %d", tt.outcome, n, tt.want)
		}
	}

	stats, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if s := stats["kahina"]; s == nil || s.Runs != 5 || s.Wins != 2 || s.TotalFrames != 500 {
		t.Errorf("kahina stats = %+v", s)
	}

	deleted, err := store.DeleteRuns("kahina")
	if err != nil {
		t.Fatalf("DeleteRuns() failed: %v", err)
	}
	if deleted != 5 {
		t.Errorf("DeleteRuns() removed %d, expected 5", deleted)
	}
	if n, _ := store.CountRuns("kahina", ""); n != 0 {
		t.Errorf("Expected 0 runs after delete, got %d", n)
	}
	if n, _ := store.CountRuns("kahina_endless", ""); n != 1 {
		t.Error("DeleteRuns should not affect other games")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		state core.GameState
		want  string
	}{
		{core.GameState{}, OutcomeUnfinished},
		{core.GameState{GameOver: true}, OutcomeLose},
		{core.GameState{GameOver: true, Won: true}, OutcomeWin},
	}
	for _, tt := range tests {
		if got := OutcomeOf(tt.state); got != tt.want {
			t.Errorf("OutcomeOf(%+v) = %q, want %q", tt.state, got, tt.want)
		}
	}
}
