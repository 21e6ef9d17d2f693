package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/superstudent/internal/platform/tui"
	"github.com/vovakirdan/superstudent/internal/registry"
	"github.com/vovakirdan/superstudent/internal/storage"
)

var (
	flagBrowse bool
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show high scores for a level",
	Long: `Display the top 10 runs for the specified level (colors by default).

Examples:
  superstudent scores
  superstudent scores colors --browse
  superstudent scores colors --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores and the checkpoint of the level")
}

func runScores(_ *cobra.Command, args []string) error {
	levelID, err := levelArg(args)
	if err != nil {
		return err
	}

	level, err := registry.Create(levelID, registry.Options{})
	if err != nil {
		return fmt.Errorf("creating level: %w", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(levelID); err != nil {
			return err
		}
		if err := store.ClearCheckpoint(levelID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores and checkpoint for %s.\n", level.Title())
		return nil
	}

	if flagBrowse {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, levelID, width, height)
	}

	scores, err := store.TopScores(levelID, 10)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", level.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'superstudent play %s' to set the first high score!\n", levelID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-10s  %s\n", "Rank", "Score", "Destroyed", "Date")
	fmt.Printf("  %-4s  %-10s  %-10s  %s\n", "----", "-----", "---------", "----")
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-10d  %s\n", i+1, entry.Score, entry.Destroyed, dateStr)
	}

	fmt.Println()
	if stats, err := store.GetLevelStats(levelID); err == nil {
		fmt.Printf("Best: %d  Runs: %d  Average: %.0f  Dots destroyed: %d\n",
			stats.HighScore, stats.RunsCount, stats.AvgScore, stats.TotalDestroyed)
	}

	cp, found, err := store.LoadCheckpoint(levelID)
	if err == nil && found {
		fmt.Printf("Checkpoint: score %d, %d destroyed (saved %s) - resume with 'superstudent play %s --resume'\n",
			cp.Progress.Score, cp.Progress.TotalDestroyed, cp.UpdatedAt.Format("2006-01-02 15:04"), levelID)
	}
	return nil
}
