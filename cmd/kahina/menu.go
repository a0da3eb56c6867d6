package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kahina/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a level picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a level.
After a run ends, press B to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select level
  Tab          - Run history (Enter on a run watches its replay)
  Q            - Quit

Examples:
  kahina menu
  kahina menu --fps 30
  kahina menu --levels ./levels`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	items, err := tui.MenuItems(flagLevels)
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := terminalConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(items, store, cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsRuns {
			runsResult, err := tui.RunRuns(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				logger.Error("run history failed", "error", err)
				continue
			}
			if runsResult.Replay != "" {
				watchRun(store, runsResult.Replay, cfg)
				continue
			}
			if runsResult.Back {
				continue
			}
			return nil // Quit from the run history
		}

		if menuResult.Item == nil {
			return nil
		}

		game, err := tui.CreateGame(*menuResult.Item)
		if err != nil {
			logger.Error("cannot create game", "game", menuResult.Item.GameID, "error", err)
			continue
		}

		// Fresh seed for each run unless one was forced
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		back, err := tui.Run(game, cfg, tui.GameOptions{
			Store:  store,
			Logger: logger,
			Player: currentUser(),
		})
		if err != nil {
			return err
		}
		if !back {
			return nil
		}
	}
}
