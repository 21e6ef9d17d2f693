package sim

import (
	"fmt"

	"github.com/vovakirdan/superstudent/internal/core"
)

// Progress is the player-facing summary of a run.
type Progress struct {
	Phase             Phase
	Target            ColorID
	TargetColor       core.NamedColor
	HitsOnTarget      int
	HitQuota          int
	TotalDestroyed    int
	Score             int
	TargetsLeft       int
	AliveDots         int
	CollisionsEnabled bool
}

// Progress returns the current summary.
func (s *Simulation) Progress() Progress {
	return Progress{
		Phase:             s.phase,
		Target:            s.cycle.Current(),
		TargetColor:       s.TargetColor(),
		HitsOnTarget:      s.cycle.Hits(),
		HitQuota:          s.cycle.Quota(),
		TotalDestroyed:    s.totalDestroyed,
		Score:             s.score,
		TargetsLeft:       s.targetsLeft,
		AliveDots:         s.store.Alive(),
		CollisionsEnabled: s.collisionsEnabled,
	}
}

// SaveProgress captures what a checkpoint needs to continue later.
func (s *Simulation) SaveProgress() core.SavedProgress {
	used := s.cycle.Used()
	ids := make([]int, len(used))
	for i, id := range used {
		ids[i] = int(id)
	}
	return core.SavedProgress{
		Target:            int(s.cycle.Current()),
		UsedColors:        ids,
		HitsOnTarget:      s.cycle.Hits(),
		TotalDestroyed:    s.totalDestroyed,
		Score:             s.score,
		CollisionsEnabled: s.collisionsEnabled,
	}
}

// RestoreProgress loads saved counters and the color sweep. The field itself
// is not saved; a restored level still starts from the mother dot but keeps
// the saved target, score and collision state.
func (s *Simulation) RestoreProgress(p core.SavedProgress) error {
	eligible := false
	for _, id := range s.cfg.EligibleColors() {
		if int(id) == p.Target {
			eligible = true
			break
		}
	}
	if !eligible {
		return fmt.Errorf("sim: saved target %d is not an eligible color", p.Target)
	}
	if p.TotalDestroyed < 0 || p.Score < 0 {
		return fmt.Errorf("sim: saved counters are negative (%d destroyed, score %d)", p.TotalDestroyed, p.Score)
	}

	used := make([]ColorID, len(p.UsedColors))
	for i, id := range p.UsedColors {
		used[i] = ColorID(id)
	}
	s.cycle.Restore(ColorID(p.Target), used, p.HitsOnTarget)
	s.totalDestroyed = p.TotalDestroyed
	s.score = p.Score
	s.collisionsEnabled = p.CollisionsEnabled
	s.checkpoint = false
	if s.phase == PhaseGameplay {
		s.retarget()
	}
	s.emit("progress restored",
		"target", s.TargetColor().Name,
		"total", s.totalDestroyed,
		"score", s.score,
	)
	return nil
}
