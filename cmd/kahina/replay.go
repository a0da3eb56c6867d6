package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/platform/tui"
	"github.com/vovakirdan/kahina/internal/replay"
	"github.com/vovakirdan/kahina/internal/storage"
)

var flagWatch bool

var replayCmd = &cobra.Command{
	Use:   "replay <run-id>",
	Short: "Re-simulate a recorded run",
	Long: `Replay the recorded input of a run through the game without a screen and
check that it ends the same way. With --watch the replay is shown in the
terminal instead.

The run's seed and difficulty preset are stored with it and applied
before the replay; a custom --config must match the one it was played with.
Input left after the run ended counts as a divergence.

Examples:
  kahina replay 0b6f3c1e-6d8a-4c57-9a0e-3f1f2d8c7b11
  kahina replay 0b6f3c1e-6d8a-4c57-9a0e-3f1f2d8c7b11 --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagWatch, "watch", false, "Show the replay in the terminal")
}

func runReplay(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagWatch {
		return playRun(store, args[0], terminalConfig())
	}

	run, frames, err := loadRun(store, args[0])
	if err != nil {
		return err
	}

	game, err := tui.CreateGame(tui.MenuItem{GameID: run.GameID, LevelID: run.LevelID})
	if err != nil {
		return err
	}

	cfg := runtimeConfig(80, 24)
	cfg.Seed = run.Seed
	cfg.Difficulty = run.Difficulty
	out, err := replay.Verify(game, cfg, frames)
	if err != nil {
		return err
	}

	outcome := storage.OutcomeOf(out.State)

	fmt.Printf("Run %s (%s, level %q, difficulty %q)\n", run.ID, run.GameID, out.Level, run.Difficulty)
	fmt.Printf("  recorded: %-10s score %-8d frames %d\n", run.Outcome, run.Score, run.Frames)
	fmt.Printf("  replayed: %-10s score %-8d frames %d\n", outcome, out.State.Score, out.State.Frames)

	if !out.EndedOnLast(len(frames)) {
		return fmt.Errorf("replay ended at input %d of %d", out.EndedAt, len(frames))
	}
	if outcome != run.Outcome || out.State.Score != run.Score {
		return fmt.Errorf("replay diverged from the recorded run")
	}
	fmt.Println("Replay matches.")
	return nil
}

// loadRun fetches a run and decodes its input.
func loadRun(store *storage.Store, id string) (storage.Run, []uint8, error) {
	run, err := store.GetRun(id)
	if err != nil {
		return storage.Run{}, nil, err
	}
	frames, err := replay.Decode(run.Inputs)
	if err != nil {
		return storage.Run{}, nil, fmt.Errorf("run %s: %w", id, err)
	}
	return run, frames, nil
}

// playRun shows a stored run in the terminal.
func playRun(store *storage.Store, id string, cfg core.RuntimeConfig) error {
	run, frames, err := loadRun(store, id)
	if err != nil {
		return err
	}
	game, err := tui.CreateGame(tui.MenuItem{GameID: run.GameID, LevelID: run.LevelID})
	if err != nil {
		return err
	}
	cfg.Seed = run.Seed
	cfg.Difficulty = run.Difficulty
	return tui.RunPlayback(game, cfg, frames)
}

// watchRun is playRun for the menu loop, where errors are only logged.
func watchRun(store *storage.Store, id string, cfg core.RuntimeConfig) {
	if store == nil {
		return
	}
	if err := playRun(store, id, cfg); err != nil {
		logger.Warn("cannot replay run", "run", id, "error", err)
	}
}
