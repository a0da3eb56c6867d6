package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kahina/internal/level"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all available levels",
	Long: `Shows the built-in levels and those found in the --levels directory.
A level file with the same ID as a built-in level replaces it.`,
	RunE: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) error {
	levels, err := level.All(flagLevels)
	if err != nil {
		return err
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, l := range levels {
		if len(l.ID) > maxIDLen {
			maxIDLen = len(l.ID)
		}
	}

	fmt.Printf("  %-*s  %-9s  %-6s  %s\n", maxIDLen, "ID", "Platforms", "Hidden", "Name")
	fmt.Printf("  %-*s  %-9s  %-6s  %s\n", maxIDLen, "--", "---------", "------", "----")

	for _, l := range levels {
		name := l.Name
		if l.FilePath != "" {
			name += fmt.Sprintf(" (%s)", l.FilePath)
		}
		fmt.Printf("  %-*s  %-9d  %-6d  %s\n", maxIDLen, l.ID, len(l.Platforms), l.HiddenCount(), name)
	}

	fmt.Println()
	fmt.Println("Run 'kahina play <id>' to play a level, or 'kahina play endless'.")
	return nil
}
