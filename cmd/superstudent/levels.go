package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/superstudent/internal/registry"
)

var levelsCmd = &cobra.Command{
	Use:     "levels",
	Aliases: []string{"list"},
	Short:   "List all available levels",
	Long:    `Shows a list of all levels registered in SuperStudent.`,
	Run:     runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	levels := registry.List()

	if len(levels) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Available levels:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, l := range levels {
		if len(l.ID) > maxIDLen {
			maxIDLen = len(l.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, l := range levels {
		fmt.Printf("  %-*s  %s\n", maxIDLen, l.ID, l.Title)
	}

	fmt.Println()
	fmt.Println("Run 'superstudent play <id>' to play a level.")
}
