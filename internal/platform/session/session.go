// Package session holds the platform-independent bookkeeping of a running
// level: event logging, checkpoint persistence and score recording. Both the
// terminal and the desktop frontends drive a level through it.
package session

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/superstudent/internal/core"
	"github.com/vovakirdan/superstudent/internal/registry"
	"github.com/vovakirdan/superstudent/internal/storage"
)

// Session tracks one run of a level.
type Session struct {
	level  registry.Level
	store  *storage.Store
	logger *log.Logger

	state      core.GameState
	scoreSaved bool
	cpSaved    bool
}

// New creates a session. A nil store disables persistence and a nil logger
// discards events.
func New(level registry.Level, store *storage.Store, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{level: level, store: store, logger: logger}
}

// Level returns the level being played.
func (s *Session) Level() registry.Level {
	return s.level
}

// Logger returns the session logger.
func (s *Session) Logger() *log.Logger {
	return s.logger
}

// State returns the state reported by the last step.
func (s *Session) State() core.GameState {
	return s.state
}

// Start resets the level for a new run.
func (s *Session) Start(cfg core.RuntimeConfig) {
	s.level.Reset(cfg)
	s.state = s.level.State()
	s.scoreSaved = false
	s.cpSaved = false
	s.logger.Info("level started", "level", s.level.ID(), "seed", cfg.Seed)
}

// Resume restores the last saved checkpoint into the level.
// Returns false when there was nothing to restore.
func (s *Session) Resume() bool {
	cp, ok := s.level.(registry.Checkpointer)
	if !ok || s.store == nil {
		return false
	}
	saved, found, err := s.store.LoadCheckpoint(s.level.ID())
	if err != nil {
		s.logger.Warn("cannot load checkpoint", "err", err)
		return false
	}
	if !found {
		s.logger.Info("no checkpoint to resume", "level", s.level.ID())
		return false
	}
	if err := cp.RestoreProgress(saved.Progress); err != nil {
		s.logger.Warn("cannot restore checkpoint", "err", err)
		return false
	}
	s.logger.Info("checkpoint restored",
		"level", s.level.ID(),
		"score", saved.Progress.Score,
		"saved_at", saved.UpdatedAt,
	)
	return true
}

// Step advances the level, logs its events and persists a checkpoint the
// first frame one is reported.
func (s *Session) Step(in core.InputFrame) core.StepResult {
	result := s.level.Step(in)
	s.state = result.State

	for _, ev := range result.Events {
		s.logger.Info(ev.Name, ev.Args...)
	}

	switch {
	case s.state.Checkpoint && !s.cpSaved:
		s.saveCheckpoint()
		s.cpSaved = true
	case !s.state.Checkpoint:
		s.cpSaved = false
	}
	return result
}

func (s *Session) saveCheckpoint() {
	cp, ok := s.level.(registry.Checkpointer)
	if !ok || s.store == nil {
		return
	}
	p := cp.SaveProgress()
	if err := s.store.SaveCheckpoint(s.level.ID(), p); err != nil {
		s.logger.Warn("cannot save checkpoint", "err", err)
		return
	}
	s.logger.Info("checkpoint saved", "level", s.level.ID(), "score", p.Score, "destroyed", p.TotalDestroyed)
}

// Finish records the score of the current run. Repeated calls are no-ops
// until the next Start.
func (s *Session) Finish() {
	if s.scoreSaved || s.state.Score <= 0 {
		return
	}
	s.scoreSaved = true

	destroyed := 0
	if cp, ok := s.level.(registry.Checkpointer); ok {
		destroyed = cp.SaveProgress().TotalDestroyed
	}
	s.logger.Info("run finished", "level", s.level.ID(), "score", s.state.Score, "destroyed", destroyed)
	if s.store == nil {
		return
	}
	if _, err := s.store.SaveScore(s.level.ID(), s.state.Score, destroyed); err != nil {
		s.logger.Warn("cannot save score", "err", err)
	}
}
