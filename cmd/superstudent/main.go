// superstudent runs the SuperStudent learning levels in the terminal.
//
// Usage:
//
//	superstudent levels            - List available levels
//	superstudent play [level]      - Play a level (default: colors)
//	superstudent simulate          - Run a level headless and log its events
//	superstudent scores [level]    - Show high scores for a level
//	superstudent config            - Show where the level config is loaded from
//	superstudent serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.superstudent/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import levels to register them
	_ "github.com/vovakirdan/superstudent/internal/levels/colors"
	"github.com/vovakirdan/superstudent/internal/registry"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

// defaultLevel is played when no level is named.
const defaultLevel = "colors"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "superstudent",
	Short: "SuperStudent - learning games in your terminal",
	Long: `SuperStudent is a collection of small learning games for children.

In the Colors level a large dot shakes in the middle of the screen and
bursts into a swarm of colored dots. Click every dot of the announced
color; after a few hits the target color changes.

Available commands:
  levels    - Show all available levels
  play      - Play a level
  simulate  - Run a level without a terminal and log what happens
  scores    - View high scores
  config    - Show or dump the level configuration
  serve     - Start SSH server for remote play

Examples:
  superstudent play
  superstudent play colors --difficulty easy
  superstudent play --resume
  superstudent simulate --frames 3600 --clicks-every 20
  superstudent serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.superstudent/scores.db", "Path to scores database")

	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// levelArg returns the level named on the command line, or the default.
func levelArg(args []string) (string, error) {
	id := defaultLevel
	if len(args) > 0 {
		id = args[0]
	}
	if !registry.Exists(id) {
		return "", fmt.Errorf("unknown level %q; run 'superstudent levels' to see available levels", id)
	}
	return id, nil
}
