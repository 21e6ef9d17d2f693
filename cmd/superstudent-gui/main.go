// superstudent-gui plays the Colors level in a desktop window.
//
// Usage:
//
//	superstudent-gui [--config file] [--difficulty preset] [--resume] [--seed n] [--db path]
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/superstudent/internal/config"
	"github.com/vovakirdan/superstudent/internal/core"
	"github.com/vovakirdan/superstudent/internal/levels/colors"
	"github.com/vovakirdan/superstudent/internal/platform/gui"
	"github.com/vovakirdan/superstudent/internal/platform/session"
	"github.com/vovakirdan/superstudent/internal/registry"
	"github.com/vovakirdan/superstudent/internal/storage"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagResume     bool
	flagVerbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "superstudent-gui",
	Short: "Play the SuperStudent Colors level in a window",
	Long: `Open a window with the Colors level.

Controls:
  Mouse/touch  - Release the dots / destroy a dot
  Enter/Space  - Continue after a checkpoint
  P            - Pause
  R            - Restart
  Esc/Q        - Quit`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	rootCmd.Flags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.Flags().StringVar(&flagDBPath, "db", "~/.superstudent/scores.db", "Path to scores database")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom level config YAML")
	rootCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue from the last saved checkpoint")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log level events to stderr")
}

func run(_ *cobra.Command, _ []string) error {
	if _, ok := config.ParsePreset(flagDifficulty); !ok {
		return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "superstudent-gui",
		Level:           log.WarnLevel,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg := core.RuntimeConfig{TickRate: flagFPS, Seed: seed}

	level := colors.New(registry.Options{ConfigPath: flagConfig, Difficulty: flagDifficulty})
	return gui.Run(level, session.New(level, store, logger), cfg, flagResume)
}
