package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/superstudent/internal/core"
	"github.com/vovakirdan/superstudent/internal/levels/colors"
	"github.com/vovakirdan/superstudent/internal/levels/colors/sim"
	"github.com/vovakirdan/superstudent/internal/platform/session"
	"github.com/vovakirdan/superstudent/internal/storage"
)

var (
	flagFrames      int
	flagClicksEvery int
	flagSaveRun     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the Colors level headless and log its events",
	Long: `Run the Colors level without a terminal at a fixed frame rate.

A scripted player releases the dots and then clicks the nearest target
dot every --clicks-every frames. Every level event is logged to stderr;
the final line reports the simulation statistics and the state hash,
which is identical for identical --seed values.

Examples:
  superstudent simulate --seed 42
  superstudent simulate --frames 36000 --clicks-every 10 --difficulty hard`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagFrames, "frames", 3600, "Number of frames to simulate")
	simulateCmd.Flags().IntVar(&flagClicksEvery, "clicks-every", 30, "Frames between scripted clicks (0 = never click)")
	simulateCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom level config YAML")
	simulateCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	simulateCmd.Flags().BoolVar(&flagSaveRun, "save", false, "Record the score and checkpoints in the database")
}

func runSimulate(_ *cobra.Command, _ []string) error {
	if flagFrames <= 0 {
		return fmt.Errorf("--frames must be positive, got %d", flagFrames)
	}
	opts, err := levelOptions()
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	fps := flagFPS
	if fps <= 0 {
		fps = 60
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "simulate",
	})

	var store *storage.Store
	if flagSaveRun {
		if store, err = storage.Open(flagDBPath); err != nil {
			return err
		}
		defer store.Close()
	}

	level := colors.New(opts)
	sess := session.New(level, store, logger)
	sess.Start(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: fps, Seed: seed})

	player := scriptedPlayer{every: flagClicksEvery}
	in := core.NewInputFrame()
	start := time.Now()

	for f := 0; f < flagFrames; f++ {
		in.Clear()
		in.DT = 1 / float64(fps)
		in.World = true
		player.act(f, level, &in)
		sess.Step(in)
	}
	sess.Finish()

	s := level.Sim()
	p := s.Progress()
	st := s.Stats()
	snap := s.Snapshot()
	logger.Info("simulation finished",
		"frames", flagFrames,
		"sim_seconds", fmt.Sprintf("%.1f", s.Elapsed()),
		"wall", time.Since(start).Round(time.Millisecond),
		"seed", seed,
		"score", p.Score,
		"destroyed", p.TotalDestroyed,
		"target", p.TargetColor.Name,
		"collisions", st.Collisions,
		"dispersals", st.ClusterDispersals,
		"regenerations", st.Regenerations,
		"dropped_particles", st.DroppedParticles,
		"hash", fmt.Sprintf("%016x", snap.Hash()),
	)
	return nil
}

// scriptedPlayer clicks the center while the mother dot waits, confirms
// checkpoints and otherwise clicks the target dot closest to the center.
type scriptedPlayer struct {
	every int
}

func (p scriptedPlayer) act(frame int, level *colors.Level, in *core.InputFrame) {
	if p.every <= 0 || frame%p.every != 0 {
		return
	}
	if level.State().Checkpoint {
		in.Set(core.ActionConfirm)
		return
	}

	s := level.Sim()
	cfg := s.Config()
	center := core.V(cfg.Width/2, cfg.Height/2)

	switch s.Phase() {
	case sim.PhaseWaitingForClick:
		in.AddPointer(core.InputEvent{Pos: center, Kind: core.PointerDown})
	case sim.PhaseGameplay:
		best, found := core.Vec2{}, false
		s.EachDot(func(d sim.Dot) {
			if d.Target && (!found || d.Pos.Dist(center) < best.Dist(center)) {
				best, found = d.Pos, true
			}
		})
		if found {
			in.AddPointer(core.InputEvent{Pos: best, Kind: core.PointerDown})
		}
	}
}
