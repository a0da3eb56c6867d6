// kahina is a terminal platformer: guide Kahina to the forgotten oracle, or
// climb as high as you can in the endless ascent.
//
// Usage:
//
//	kahina play [level|endless]  - Play a level (default: oracle)
//	kahina menu                  - Pick levels interactively
//	kahina levels                - List available levels
//	kahina runs [game]           - Show recent runs
//	kahina replay <run-id>       - Re-simulate a recorded run
//	kahina serve                 - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible endless runs
//	--db <path>           - Set database path (default: ~/.kahina/runs.db)
//	--config <path>       - Custom game config YAML
//	--levels <dir>        - Directory of extra level files
//	--difficulty <preset> - easy, normal, hard, fixed
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/kahina/internal/config"
	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/games/kahina"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagLevels     string
	flagDifficulty string
	flagLogLevel   string

	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "kahina"})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kahina",
	Short: "Kahina et l'Oracle Oublié - a platformer in your terminal",
	Long: `Kahina et l'Oracle Oublié is a small platformer played in the terminal.
Jump across the platforms, switch on your vision to reveal hidden ones,
and reach the oracle without falling.

Available commands:
  play     - Play a level directly
  menu     - Interactive level picker
  levels   - Show all available levels
  runs     - View recent runs
  replay   - Re-simulate a recorded run
  serve    - Start SSH server for remote play

Examples:
  kahina play
  kahina play sanctuary --difficulty hard
  kahina play endless --seed 42
  kahina menu --levels ./levels
  kahina serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		lvl, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		logger.SetLevel(lvl)

		if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
			return fmt.Errorf("invalid --difficulty %q: want easy, normal, hard or fixed", flagDifficulty)
		}

		kahina.SetConfigPath(flagConfig)
		kahina.SetLevelDir(flagLevels)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.kahina/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Directory of extra level files")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
}

// runtimeConfig builds the runtime config for a terminal of the given size.
func runtimeConfig(width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:    width,
		ScreenH:    height,
		TickRate:   flagFPS,
		Seed:       flagSeed,
		Difficulty: flagDifficulty,
	}
}

// currentUser names the local player stored with each run.
func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
