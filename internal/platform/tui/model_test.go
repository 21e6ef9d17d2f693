package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/superstudent/internal/core"
	"github.com/vovakirdan/superstudent/internal/storage"
)

// fakeLevel records what the platform feeds it.
type fakeLevel struct {
	resets   int
	frames   []core.InputFrame
	state    core.GameState
	progress core.SavedProgress
	restored *core.SavedProgress
	resumed  int
	w, h     int
}

func (f *fakeLevel) ID() string { return "fake" }
func (f *fakeLevel) Title() string { return "Fake" }

func (f *fakeLevel) Reset(cfg core.RuntimeConfig) {
	f.resets++
	f.w, f.h = cfg.ScreenW, cfg.ScreenH
}

func (f *fakeLevel) Step(in core.InputFrame) core.StepResult {
	in.Pointer = append([]core.InputEvent(nil), in.Pointer...)
	f.frames = append(f.frames, in)
	return core.StepResult{State: f.state}
}

func (f *fakeLevel) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "fake level")
}

func (f *fakeLevel) State() core.GameState { return f.state }
func (f *fakeLevel) ResumeFromCheckpoint() { f.resumed++ }
func (f *fakeLevel) SaveProgress() core.SavedProgress { return f.progress }

func (f *fakeLevel) RestoreProgress(p core.SavedProgress) error {
	f.restored = &p
	return nil
}

func (f *fakeLevel) Resize(w, h int) { f.w, f.h = w, h }

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func newTestModel(lvl *fakeLevel, store *storage.Store) Model {
	return NewModel(lvl, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 1}, Options{Store: store})
}

func TestModelReservesHelpRow(t *testing.T) {
	lvl := &fakeLevel{}
	m := newTestModel(lvl, nil)
	m.Init()

	if lvl.h != 11 {
		t.Errorf("Expected level height 11, got %d", lvl.h)
	}
	view := m.View()
	if !strings.Contains(view, "fake level") {
		t.Error("View should contain the level render")
	}
	if got := strings.Count(view, "\n"); got != 11 {
		t.Errorf("Expected 12 lines, got %d", got+1)
	}
}

func TestModelForwardsMouseAndDelta(t *testing.T) {
	lvl := &fakeLevel{}
	m := newTestModel(lvl, nil)
	m.Init()

	m = update(t, m, tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	start := time.Now()
	m = update(t, m, TickMsg(start))
	m = update(t, m, TickMsg(start.Add(50*time.Millisecond)))

	if len(lvl.frames) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(lvl.frames))
	}
	first := lvl.frames[0]
	if len(first.Pointer) != 1 || first.Pointer[0].Pos != core.V(5, 3) || first.Pointer[0].Kind != core.PointerDown {
		t.Errorf("Unexpected pointer events %+v", first.Pointer)
	}
	if first.World {
		t.Error("Terminal pointer events are in cells")
	}
	if first.DT <= 0 {
		t.Errorf("First frame should use a nominal delta, got %v", first.DT)
	}
	if d := lvl.frames[1].DT; d < 0.049 || d > 0.051 {
		t.Errorf("Expected measured delta 0.05, got %v", d)
	}
	if len(lvl.frames[1].Pointer) != 0 {
		t.Error("Pointer events should be cleared after a step")
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	lvl := &fakeLevel{}
	m := newTestModel(lvl, nil)
	m.Init()

	update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if lvl.resets != 1 {
		t.Errorf("Resize should not reset the level, got %d resets", lvl.resets)
	}
	if lvl.w != 100 || lvl.h != 29 {
		t.Errorf("Expected level size 100x29, got %dx%d", lvl.w, lvl.h)
	}
}

func TestModelSavesCheckpointOnce(t *testing.T) {
	store := openStore(t)
	lvl := &fakeLevel{progress: core.SavedProgress{Target: 2, Score: 100, TotalDestroyed: 10}}
	m := newTestModel(lvl, store)
	m.Init()

	lvl.state = core.GameState{Score: 100, Checkpoint: true}
	now := time.Now()
	for i := 0; i < 3; i++ {
		m = update(t, m, TickMsg(now.Add(time.Duration(i)*time.Millisecond)))
	}

	cp, found, err := store.LoadCheckpoint("fake")
	if err != nil || !found {
		t.Fatalf("LoadCheckpoint: found=%v err=%v", found, err)
	}
	if cp.Progress.Score != 100 || cp.Progress.Target != 2 {
		t.Errorf("Unexpected checkpoint %+v", cp.Progress)
	}
}

func TestModelResume(t *testing.T) {
	store := openStore(t)
	if err := store.SaveCheckpoint("fake", core.SavedProgress{Target: 3, Score: 40}); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	lvl := &fakeLevel{}
	m := NewModel(lvl, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60}, Options{Store: store, Resume: true})
	m.Init()

	if lvl.restored == nil || lvl.restored.Score != 40 || lvl.restored.Target != 3 {
		t.Errorf("Expected restored progress, got %+v", lvl.restored)
	}
}

func TestModelQuitSavesScore(t *testing.T) {
	store := openStore(t)
	lvl := &fakeLevel{progress: core.SavedProgress{TotalDestroyed: 7}}
	m := newTestModel(lvl, store)
	m.Init()

	lvl.state = core.GameState{Score: 70}
	m = update(t, m, TickMsg(time.Now()))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if next.(Model).View() != "" {
		t.Error("View should be empty after quitting")
	}

	scores, err := store.TopScores("fake", 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 70 || scores[0].Destroyed != 7 {
		t.Errorf("Unexpected scores %+v", scores)
	}
}

func TestModelRestart(t *testing.T) {
	lvl := &fakeLevel{}
	m := newTestModel(lvl, nil)
	m.Init()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	update(t, m, TickMsg(time.Now()))
	if lvl.resets != 2 {
		t.Errorf("Expected a reset on restart, got %d resets", lvl.resets)
	}
	if len(lvl.frames) != 0 {
		t.Error("Restart tick should not step the level")
	}
}
