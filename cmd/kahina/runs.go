package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kahina/internal/registry"
	"github.com/vovakirdan/kahina/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [game]",
	Short: "Show recent runs",
	Long: `Display the latest recorded runs, newest first. Without a game every
game is listed. Use the run ID with 'kahina replay'.

Examples:
  kahina runs
  kahina runs kahina_endless --limit 5
  kahina runs kahina --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete every run of the given game")
}

func runRuns(_ *cobra.Command, args []string) error {
	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			return fmt.Errorf("%w: %q", registry.ErrUnknownGame, gameID)
		}
	}
	if flagRunsClear && gameID == "" {
		return fmt.Errorf("--clear needs a game")
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagRunsClear {
		n, err := store.DeleteRuns(gameID)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d runs of %s.\n", n, gameID)
		return nil
	}

	runs, err := store.RecentRuns(gameID, flagRunsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-36s  %-16s  %-14s  %-10s  %-7s  %-8s  %s\n",
		"ID", "Date", "Game", "Level", "Outcome", "Score", "Time")
	fmt.Printf("  %-36s  %-16s  %-14s  %-10s  %-7s  %-8s  %s\n",
		"--", "----", "----", "-----", "-------", "-----", "----")

	for _, r := range runs {
		fmt.Printf("  %-36s  %-16s  %-14s  %-10s  %-7s  %-8d  %.1fs\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.GameID, r.LevelID,
			r.Outcome, r.Score, float64(r.Frames)/60)
	}

	if gameID != "" {
		wins, err := store.CountRuns(gameID, storage.OutcomeWin)
		if err == nil {
			total, _ := store.CountRuns(gameID, "")
			fmt.Println()
			fmt.Printf("Wins: %d of %d runs\n", wins, total)
		}
	}
	return nil
}
