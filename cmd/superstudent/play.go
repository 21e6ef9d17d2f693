package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/superstudent/internal/config"
	"github.com/vovakirdan/superstudent/internal/core"
	"github.com/vovakirdan/superstudent/internal/platform/tui"
	"github.com/vovakirdan/superstudent/internal/registry"
	"github.com/vovakirdan/superstudent/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagResume     bool
	flagLogPath    string
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing the specified level (colors by default).

Controls:
  Mouse click  - Release the dots / destroy a dot
  Enter/Space  - Continue after a checkpoint
  P            - Pause
  R            - Restart
  Esc/B        - Leave the level
  Q/Ctrl+C     - Quit
  Ctrl+S       - Save a text screenshot

Progress is saved at every checkpoint; --resume continues from the last one.

Difficulty options:
  easy   - Slower dots, speed grows slowly with the score
  normal - Default speed, grows with the score
  hard   - Faster dots from the start
  fixed  - No progression, stays at the config's speed

Examples:
  superstudent play
  superstudent play colors --difficulty easy
  superstudent play --resume
  superstudent play --config ./my-colors.yaml --log ./colors.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom level config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue from the last saved checkpoint")
	playCmd.Flags().StringVar(&flagLogPath, "log", "", "Write level events to this file")
}

// levelOptions validates --difficulty and collects the level flags.
func levelOptions() (registry.Options, error) {
	if _, ok := config.ParsePreset(flagDifficulty); !ok {
		return registry.Options{}, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}
	return registry.Options{ConfigPath: flagConfig, Difficulty: flagDifficulty}, nil
}

// openLog returns a logger writing to path and a function closing it.
// An empty path yields a nil logger.
func openLog(path string) (*log.Logger, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "superstudent",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}

func runPlay(_ *cobra.Command, args []string) error {
	levelID, err := levelArg(args)
	if err != nil {
		return err
	}
	opts, err := levelOptions()
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	level, err := registry.Create(levelID, opts)
	if err != nil {
		return fmt.Errorf("creating level: %w", err)
	}

	logger, closeLog, err := openLog(flagLogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - the level still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(level, cfg, tui.Options{Store: store, Logger: logger, Resume: flagResume}); err != nil {
		return fmt.Errorf("running level: %w", err)
	}
	return nil
}
