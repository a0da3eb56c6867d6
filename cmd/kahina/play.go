package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/games/kahina"
	"github.com/vovakirdan/kahina/internal/level"
	"github.com/vovakirdan/kahina/internal/platform/tui"
	"github.com/vovakirdan/kahina/internal/registry"
	"github.com/vovakirdan/kahina/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [level|endless]",
	Short: "Play a level",
	Long: `Start playing a level. Without an argument the oracle level is played;
"endless" starts the endless ascent.

Controls:
  Left/A, Right/D  - Move
  Space/W/Up       - Jump
  V                - Toggle vision (reveals hidden platforms)
  P                - Pause
  R                - Restart (after the run ends)
  B/Esc            - Back (when paused or after the run ends)
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Double time on the level timer, gentle endless progression
  normal - Endless mode starts at 30% difficulty
  hard   - Timed vision, endless mode starts at 70% difficulty
  fixed  - No progression, stays at config's initial level

Examples:
  kahina play
  kahina play sanctuary
  kahina play endless --difficulty hard
  kahina play tower --levels ./levels`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	item := tui.MenuItem{GameID: kahina.GameID, LevelID: level.DefaultID}
	if len(args) == 1 {
		switch args[0] {
		case "endless":
			item = tui.MenuItem{GameID: kahina.EndlessGameID}
		default:
			if _, err := level.Find(args[0], flagLevels); err != nil {
				if errors.Is(err, level.ErrNotFound) {
					return fmt.Errorf("unknown level %q (run 'kahina levels' to list them)", args[0])
				}
				return err
			}
			item.LevelID = args[0]
		}
	}

	game, err := tui.CreateGame(item)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	_, err = tui.Run(game, terminalConfig(), tui.GameOptions{
		Store:  store,
		Logger: logger,
		Player: currentUser(),
	})
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	if err := registry.LoadErrorOf(game); err != nil {
		logger.Warn("level fell back to defaults", "error", err)
	}
	return nil
}

// openStore opens the runs database. The game still works without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// terminalConfig sizes the runtime config to the current terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return runtimeConfig(width, height)
}
