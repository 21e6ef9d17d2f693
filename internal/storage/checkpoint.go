package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/superstudent/internal/core"
)

// Checkpoint is a saved level progress record.
type Checkpoint struct {
	LevelID   string
	Progress  core.SavedProgress
	UpdatedAt time.Time
}

// SaveCheckpoint stores progress for the level, replacing any previous one.
func (s *Store) SaveCheckpoint(levelID string, p core.SavedProgress) error {
	blob, err := msgpack.Marshal(&p)
	if err != nil {
		return fmt.Errorf("storage: cannot encode checkpoint: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO checkpoints (level_id, state, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(level_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		levelID, blob,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint returns the saved progress for the level.
// The boolean is false when no checkpoint exists.
func (s *Store) LoadCheckpoint(levelID string) (Checkpoint, bool, error) {
	cp := Checkpoint{LevelID: levelID}
	var blob []byte
	var updatedAt any

	err := s.db.QueryRow(
		"SELECT state, updated_at FROM checkpoints WHERE level_id = ?",
		levelID,
	).Scan(&blob, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return cp, false, nil
	}
	if err != nil {
		return cp, false, fmt.Errorf("storage: cannot query checkpoint: %w", err)
	}

	if err := msgpack.Unmarshal(blob, &cp.Progress); err != nil {
		return cp, false, fmt.Errorf("storage: cannot decode checkpoint: %w", err)
	}
	cp.UpdatedAt = parseTime(updatedAt)
	return cp, true, nil
}

// ClearCheckpoint removes the saved progress for the level.
func (s *Store) ClearCheckpoint(levelID string) error {
	_, err := s.db.Exec("DELETE FROM checkpoints WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear checkpoint: %w", err)
	}
	return nil
}
