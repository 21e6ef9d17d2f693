package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/superstudent/internal/core"
)

const frame = 1.0 / 60

func newTestSim(t *testing.T, mutate func(*Config)) *Simulation {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func press(s *Simulation, p core.Vec2) {
	s.HandleInput(core.InputEvent{Pos: p, Kind: core.PointerDown})
}

// startGameplay drives s from the mother dot to free roam.
func startGameplay(t *testing.T, s *Simulation) {
	t.Helper()
	for i := 0; i < 120 && s.Phase() == PhaseMotherVibration; i++ {
		s.Update(frame)
	}
	if s.Phase() != PhaseWaitingForClick {
		t.Fatalf("Expected waiting_for_click, got %v", s.Phase())
	}
	press(s, s.center)
	for i := 0; i < 120 && s.Phase() == PhaseDispersion; i++ {
		s.Update(frame)
	}
	if s.Phase() != PhaseGameplay {
		t.Fatalf("Expected gameplay, got %v", s.Phase())
	}
}

// hitTarget presses on the first target dot. Returns false if none is left.
func hitTarget(s *Simulation) bool {
	var pos core.Vec2
	found := false
	s.EachDot(func(d Dot) {
		if !found && d.Target {
			pos, found = d.Pos, true
		}
	})
	if found {
		press(s, pos)
	}
	return found
}

func TestPhaseTransitions(t *testing.T) {
	s := newTestSim(t, nil)

	if s.Phase() != PhaseMotherVibration {
		t.Fatalf("Expected initial phase mother_vibration, got %v", s.Phase())
	}
	if _, _, shown := s.Mother(); !shown {
		t.Error("Mother dot should be visible during vibration")
	}

	for i := 0; i < 120 && s.Phase() == PhaseMotherVibration; i++ {
		s.Update(frame)
	}
	if s.Phase() != PhaseWaitingForClick {
		t.Fatalf("Expected waiting_for_click, got %v", s.Phase())
	}

	// Moves and releases do not start the dispersal.
	s.HandleInput(core.InputEvent{Pos: s.center, Kind: core.PointerMove})
	s.HandleInput(core.InputEvent{Pos: s.center, Kind: core.PointerUp})
	s.Update(frame)
	if s.Phase() != PhaseWaitingForClick {
		t.Fatalf("Expected to keep waiting, got %v", s.Phase())
	}

	press(s, core.V(10, 10))
	if s.Phase() != PhaseDispersion {
		t.Fatalf("Expected dispersion after press, got %v", s.Phase())
	}
	want := s.cfg.TargetCount + s.cfg.DistractorCount
	if got := s.Progress().AliveDots; got != want {
		t.Errorf("Expected %d dots after press, got %d", want, got)
	}

	for i := 0; i < 120 && s.Phase() == PhaseDispersion; i++ {
		s.Update(frame)
	}
	if s.Phase() != PhaseGameplay {
		t.Fatalf("Expected gameplay, got %v", s.Phase())
	}
	if _, _, shown := s.Mother(); shown {
		t.Error("Mother dot should be hidden during gameplay")
	}

	s.EachDot(func(d Dot) {
		if d.Pos.X < d.Radius || d.Pos.X > s.cfg.Width-d.Radius ||
			d.Pos.Y < d.Radius || d.Pos.Y > s.cfg.Height-d.Radius {
			t.Errorf("Dot %d outside field at %v", d.ID, d.Pos)
		}
	})
}

func TestQuotaAdvancesTarget(t *testing.T) {
	s := newTestSim(t, nil)
	startGameplay(t, s)

	first := s.Progress().Target
	if s.CollisionsEnabled() {
		t.Fatal("Collisions should start disabled")
	}

	for i := 0; i < s.cfg.HitQuota; i++ {
		if !hitTarget(s) {
			t.Fatalf("No target left at hit %d", i)
		}
	}

	p := s.Progress()
	if p.Target == first {
		t.Errorf("Target should change after %d hits", s.cfg.HitQuota)
	}
	if p.HitsOnTarget != 0 {
		t.Errorf("Expected hit counter reset to 0, got %d", p.HitsOnTarget)
	}
	if picks := s.cycle.Picks(); picks[p.Target] != 1 {
		t.Errorf("New target %d should be unused in this sweep, picked %d times", p.Target, picks[p.Target])
	}
	if !s.CollisionsEnabled() {
		t.Error("First target change should enable collisions")
	}
	if !s.Notification().Active() || s.Notification().Color != p.Target {
		t.Error("Target change should show a notification for the new color")
	}

	want := 0
	s.EachDot(func(d Dot) {
		if d.Color == p.Target {
			want++
			if !d.Target {
				t.Errorf("Dot %d has the target color but is not flagged", d.ID)
			}
		} else if d.Target {
			t.Errorf("Dot %d is flagged but has color %d", d.ID, d.Color)
		}
	})
	if p.TargetsLeft != want {
		t.Errorf("Expected %d targets left, got %d", want, p.TargetsLeft)
	}
	if p.Score != s.cfg.HitQuota*s.cfg.ScorePerHit {
		t.Errorf("Expected score %d, got %d", s.cfg.HitQuota*s.cfg.ScorePerHit, p.Score)
	}
}

func TestDispersalColorCounts(t *testing.T) {
	s := newTestSim(t, nil)
	for s.Phase() != PhaseWaitingForClick {
		s.Update(frame)
	}
	press(s, s.center)

	target := s.Progress().Target
	counts := make(map[ColorID]int)
	s.EachDot(func(d Dot) { counts[d.Color]++ })

	if counts[target] != s.cfg.TargetCount {
		t.Errorf("Expected %d target dots, got %d", s.cfg.TargetCount, counts[target])
	}
	sum := 0
	for id, n := range counts {
		if id == target {
			continue
		}
		sum += n
		if n != 18 && n != 19 {
			t.Errorf("Distractor color %d has %d dots, want 18 or 19", id, n)
		}
	}
	if sum != s.cfg.DistractorCount {
		t.Errorf("Expected %d distractors, got %d", s.cfg.DistractorCount, sum)
	}
	if len(counts) != 5 {
		t.Errorf("Expected all 5 colors on the field, got %d", len(counts))
	}
}

func TestDistractorSplit(t *testing.T) {
	tests := []struct {
		total, k int
		want     []int
	}{
		{75, 4, []int{19, 19, 19, 18}},
		{8, 4, []int{2, 2, 2, 2}},
		{3, 4, []int{1, 1, 1, 0}},
		{0, 2, []int{0, 0}},
		{5, 0, nil},
	}
	for _, tt := range tests {
		got := DistractorSplit(tt.total, tt.k)
		if len(got) != len(tt.want) {
			t.Errorf("DistractorSplit(%d, %d) = %v, want %v", tt.total, tt.k, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("DistractorSplit(%d, %d) = %v, want %v", tt.total, tt.k, got, tt.want)
				break
			}
		}
	}
}

func TestCheckpointOnTenthHit(t *testing.T) {
	s := newTestSim(t, nil)
	startGameplay(t, s)

	for i := 1; i <= 10; i++ {
		if !hitTarget(s) {
			t.Fatalf("No target left at hit %d", i)
		}
		pending := s.CheckpointPending()
		if i < 10 && pending {
			t.Fatalf("Checkpoint requested early at hit %d", i)
		}
		if i == 10 && !pending {
			t.Fatal("Expected checkpoint at hit 10")
		}
	}

	if !s.ConsumeCheckpoint() {
		t.Fatal("ConsumeCheckpoint should report the pending checkpoint")
	}
	if s.ConsumeCheckpoint() {
		t.Error("Checkpoint should be reported only once")
	}

	collisions := s.CollisionsEnabled()
	s.ResumeFromCheckpoint()
	if !s.Notification().Active() {
		t.Error("Resume should show the target notification")
	}
	if s.CollisionsEnabled() != collisions {
		t.Error("Resume should keep collision state")
	}
}

func TestCheckpointDisabled(t *testing.T) {
	s := newTestSim(t, func(c *Config) { c.CheckpointEvery = 0 })
	startGameplay(t, s)

	for i := 0; i < 12; i++ {
		hitTarget(s)
	}
	if s.ConsumeCheckpoint() {
		t.Error("No checkpoint expected when the interval is 0")
	}
}

func TestHitTest(t *testing.T) {
	s := newTestSim(t, nil)
	startGameplay(t, s)

	target := s.cycle.Current()
	other := s.cycle.Distractors()[0]
	s.store.Clear()
	s.store.Spawn(Dot{Pos: core.V(200, 200), Radius: 24, ClickRadius: 48, Color: target})
	s.store.Spawn(Dot{Pos: core.V(600, 400), Radius: 24, ClickRadius: 48, Color: other})
	s.retarget()

	tests := []struct {
		name     string
		at       core.Vec2
		hit      bool
		wantLeft int
	}{
		{"distractor is ignored", core.V(600, 400), false, 1},
		{"empty space misses", core.V(1000, 100), false, 1},
		{"outside click radius", core.V(249, 200), false, 1},
		{"inside click radius", core.V(240, 200), true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.hitTest(tt.at); got != tt.hit {
				t.Errorf("hitTest(%v) = %v, want %v", tt.at, got, tt.hit)
			}
			if s.targetsLeft != tt.wantLeft {
				t.Errorf("Expected %d targets left, got %d", tt.wantLeft, s.targetsLeft)
			}
		})
	}

	if s.Progress().Score != s.cfg.ScorePerHit {
		t.Errorf("Expected score %d, got %d", s.cfg.ScorePerHit, s.Progress().Score)
	}
	if s.explosions.Len() != 1 {
		t.Errorf("Expected one explosion, got %d", s.explosions.Len())
	}
	if s.particles.Active() != s.cfg.Particles.BurstCount {
		t.Errorf("Expected %d burst particles, got %d", s.cfg.Particles.BurstCount, s.particles.Active())
	}
}

func TestRegenerationKeepsTargetWithoutHits(t *testing.T) {
	s := newTestSim(t, nil)
	startGameplay(t, s)

	target := s.cycle.Current()
	s.store.Each(func(d *Dot) {
		if d.Color == target {
			s.store.Kill(d.ID)
		}
	})
	s.retarget()
	s.Update(frame)

	p := s.Progress()
	if p.Target != target {
		t.Errorf("Target should stay %d without hits, got %d", target, p.Target)
	}
	if p.TargetsLeft < s.cfg.RegenTargets {
		t.Errorf("Expected at least %d targets after regeneration, got %d", s.cfg.RegenTargets, p.TargetsLeft)
	}
	if p.AliveDots > s.cfg.Capacity {
		t.Errorf("Alive dots %d exceed capacity %d", p.AliveDots, s.cfg.Capacity)
	}
	if s.Stats().Regenerations != 1 {
		t.Errorf("Expected 1 regeneration, got %d", s.Stats().Regenerations)
	}
}

func TestRegenerationAdvancesAfterHits(t *testing.T) {
	s := newTestSim(t, nil)
	startGameplay(t, s)

	target := s.cycle.Current()
	hitTarget(s)
	s.store.Each(func(d *Dot) {
		if d.Color == target {
			s.store.Kill(d.ID)
		}
	})
	s.retarget()
	s.Update(frame)

	p := s.Progress()
	if p.Target == target {
		t.Error("Target should advance when its dots ran out after a hit")
	}
	if p.TargetsLeft < s.cfg.RegenTargets {
		t.Errorf("Expected at least %d targets, got %d", s.cfg.RegenTargets, p.TargetsLeft)
	}
}

func TestRegenerationFullStoreRecolors(t *testing.T) {
	s := newTestSim(t, func(c *Config) {
		c.RegenTotal = 100
		c.RegenTargets = 10
	})
	startGameplay(t, s)

	// Fill every slot with distractors.
	target := s.cycle.Current()
	other := s.cycle.Distractors()[0]
	s.store.Each(func(d *Dot) { d.Color = other })
	s.retarget()
	if s.store.Alive() != s.store.Cap() {
		t.Fatalf("Expected a full store, got %d/%d", s.store.Alive(), s.store.Cap())
	}
	s.Update(frame)

	if s.cycle.Current() != target {
		t.Fatalf("Target should not change without hits")
	}
	if got := s.Progress().TargetsLeft; got != s.cfg.RegenTargets {
		t.Errorf("Expected %d recolored targets, got %d", s.cfg.RegenTargets, got)
	}
}

func TestDeltaClamping(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
		want float64
	}{
		{"negative", -1, 0},
		{"nan", math.NaN(), 0},
		{"normal", 0.02, 0.02},
		{"huge", 5, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, nil)
			s.Update(tt.dt)
			if math.Abs(s.Elapsed()-tt.want) > 1e-12 {
				t.Errorf("Update(%v) advanced %v, want %v", tt.dt, s.Elapsed(), tt.want)
			}
		})
	}
}

func TestLongRunStaysFinite(t *testing.T) {
	s := newTestSim(t, nil)
	startGameplay(t, s)

	for i := 0; i < 3000; i++ {
		if i%15 == 0 {
			hitTarget(s)
		}
		s.Update(frame)

		if s.particles.Size() > s.cfg.Particles.Max {
			t.Fatalf("Particle pool grew to %d, max %d", s.particles.Size(), s.cfg.Particles.Max)
		}
		if s.explosions.Len() > s.cfg.MaxExplosions {
			t.Fatalf("Explosions grew to %d", s.explosions.Len())
		}
	}

	s.EachDot(func(d Dot) {
		if !d.Pos.IsFinite() || !d.Vel.IsFinite() {
			t.Errorf("Dot %d is not finite: pos %v vel %v", d.ID, d.Pos, d.Vel)
		}
	})
	if s.Progress().TargetsLeft == 0 && s.Phase() == PhaseGameplay {
		// Regeneration runs at the start of the next frame.
		s.Update(frame)
	}
	if s.Progress().TargetsLeft == 0 {
		t.Error("Field should always be refilled with targets")
	}
}

func TestDeterminism(t *testing.T) {
	run := func(seed int64) uint64 {
		s := newTestSim(t, func(c *Config) { c.Seed = seed })
		startGameplay(t, s)
		for i := 0; i < 600; i++ {
			if i%20 == 0 {
				hitTarget(s)
			}
			s.Update(frame)
		}
		snap := s.Snapshot()
		return snap.Hash()
	}

	if a, b := run(7), run(7); a != b {
		t.Errorf("Same seed produced different hashes: %d vs %d", a, b)
	}
	if a, b := run(7), run(8); a == b {
		t.Error("Different seeds produced the same hash")
	}
}

func TestEventsDrain(t *testing.T) {
	s := newTestSim(t, nil)
	startGameplay(t, s)

	events := s.DrainEvents()
	phases := 0
	for _, ev := range events {
		if ev.Name == "phase changed" {
			phases++
		}
	}
	if phases != 3 {
		t.Errorf("Expected 3 phase changes, got %d (%v)", phases, events)
	}
	if again := s.DrainEvents(); again != nil {
		t.Errorf("Second drain should be empty, got %v", again)
	}
}

func TestSaveRestoreProgress(t *testing.T) {
	s := newTestSim(t, nil)
	startGameplay(t, s)
	for i := 0; i < 7; i++ {
		hitTarget(s)
	}
	saved := s.SaveProgress()

	r := newTestSim(t, func(c *Config) { c.Seed = 99 })
	if err := r.RestoreProgress(saved); err != nil {
		t.Fatalf("RestoreProgress: %v", err)
	}

	got, want := r.Progress(), s.Progress()
	if got.Target != want.Target {
		t.Errorf("Target mismatch: %d vs %d", got.Target, want.Target)
	}
	if got.Score != want.Score || got.TotalDestroyed != want.TotalDestroyed {
		t.Errorf("Counters mismatch: %+v vs %+v", got, want)
	}
	if got.HitsOnTarget != want.HitsOnTarget {
		t.Errorf("Hits mismatch: %d vs %d", got.HitsOnTarget, want.HitsOnTarget)
	}
	if got.CollisionsEnabled != want.CollisionsEnabled {
		t.Error("Collision state mismatch")
	}

	bad := saved
	bad.Target = 42
	if err := r.RestoreProgress(bad); err == nil {
		t.Error("Expected error for unknown target color")
	}
}

func TestSpeedScale(t *testing.T) {
	s := newTestSim(t, nil)
	s.SetSpeedScale(2)
	s.SetSpeedScale(-1)
	s.SetSpeedScale(math.Inf(1))
	if s.speedScale != 2 {
		t.Errorf("Expected speed scale 2, got %v", s.speedScale)
	}

	startGameplay(t, s)
	s.EachDot(func(d Dot) {
		if math.Abs(d.Vel.X) < 2*s.cfg.SpeedMin || math.Abs(d.Vel.X) > 2*s.cfg.SpeedMax {
			t.Errorf("Dot %d x speed %v outside scaled range", d.ID, d.Vel.X)
		}
	})
}

// worstOverlap returns the number of overlapping pairs and the deepest
// penetration among them.
func worstOverlap(s *Simulation) (int, float64) {
	pairs := BruteForcePairs(s.store)
	worst := 0.0
	for _, p := range pairs {
		a, b := s.store.Get(p.A), s.store.Get(p.B)
		worst = max(worst, a.Radius+b.Radius-a.Pos.Dist(b.Pos))
	}
	return len(pairs), worst
}

func TestOverlapResolvesOverFrames(t *testing.T) {
	s := newTestSim(t, nil)
	startGameplay(t, s)

	// Pile every dot into a box around the center.
	rng := NewRNG(99)
	box := core.V(370, 270)
	origin := s.center.Sub(box.Scale(0.5))
	s.store.Each(func(d *Dot) {
		d.Pos = origin.Add(core.V(rng.Range(0, box.X), rng.Range(0, box.Y)))
	})
	s.collisionsEnabled = true

	count, depth := worstOverlap(s)
	if count == 0 {
		t.Fatal("Piled dots should start out overlapping")
	}

	const (
		sampleEvery = 60
		samples     = 6
		settleBy    = 4 // samples allowed before the field must be clear
	)
	cleared := false
	for i := 1; i <= samples; i++ {
		for f := 0; f < sampleEvery; f++ {
			s.Update(frame)
		}
		n, d := worstOverlap(s)
		t.Logf("frame %d: %d overlapping pairs, worst depth %.2f", i*sampleEvery, n, d)

		if !cleared && d > depth {
			t.Errorf("Worst overlap grew from %.2f to %.2f at frame %d", depth, d, i*sampleEvery)
		}
		if cleared && d > s.cfg.Epsilon {
			t.Errorf("Overlap came back with depth %.2f at frame %d", d, i*sampleEvery)
		}
		if n == 0 {
			cleared = true
		}
		if !cleared && i >= settleBy {
			t.Fatalf("Still %d overlapping pairs after %d frames", n, i*sampleEvery)
		}
		depth = d
	}
}
