package config

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/superstudent/internal/core"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddedMatchesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadColors("")
	if err != nil {
		t.Fatalf("LoadColors: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultColorsConfig()) {
		t.Errorf("Embedded YAML differs from DefaultColorsConfig:\n%+v\n%+v", cfg, DefaultColorsConfig())
	}
	if src := ColorsSource(""); src != "embedded" {
		t.Errorf("Expected embedded source, got %q", src)
	}
}

func TestLoadColorsCustomOverlay(t *testing.T) {
	path := writeFile(t, t.TempDir(), "custom.yaml", `
rules:
  hit_quota: 3
dots:
  radius: 20
`)

	cfg, err := LoadColors(path)
	if err != nil {
		t.Fatalf("LoadColors: %v", err)
	}
	if cfg.Rules.HitQuota != 3 || cfg.Dots.Radius != 20 {
		t.Errorf("Overrides not applied: %+v %+v", cfg.Rules, cfg.Dots)
	}
	if cfg.Rules.CheckpointEvery != 10 || cfg.Dots.ClickRadius != 48 {
		t.Errorf("Unset keys should keep defaults: %+v %+v", cfg.Rules, cfg.Dots)
	}
	if len(cfg.Palette) != 5 {
		t.Errorf("Expected default palette, got %v", cfg.Palette)
	}
	if src := ColorsSource(path); src != path {
		t.Errorf("Expected source %q, got %q", path, src)
	}
}

func TestLoadColorsUserDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, home, filepath.Join(".superstudent", "configs", "colors.yaml"), "rules:\n  score_per_hit: 25\n")

	cfg, err := LoadColors("")
	if err != nil {
		t.Fatalf("LoadColors: %v", err)
	}
	if cfg.Rules.ScorePerHit != 25 {
		t.Errorf("Expected user config score 25, got %d", cfg.Rules.ScorePerHit)
	}
}

func TestLoadColorsErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadColors(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for a missing custom file")
	}
	bad := writeFile(t, dir, "bad.yaml", "rules: [unclosed")
	if _, err := LoadColors(bad); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestResolvePalette(t *testing.T) {
	cfg := DefaultColorsConfig()
	palette, bg, err := cfg.ResolvePalette()
	if err != nil {
		t.Fatalf("ResolvePalette: %v", err)
	}
	if bg != core.ColorBlack {
		t.Errorf("Expected black background, got %+v", bg)
	}
	want := []core.NamedColor{
		{Name: "BLUE", Color: core.ColorBlue},
		{Name: "RED", Color: core.ColorRed},
		{Name: "GREEN", Color: core.ColorGreen},
		{Name: "YELLOW", Color: core.ColorYellow},
		{Name: "PURPLE", Color: core.ColorPurple},
	}
	if !reflect.DeepEqual(palette, want) {
		t.Errorf("Palette = %v, want %v", palette, want)
	}

	cfg.Palette = append(cfg.Palette, PaletteEntry{Name: "ORANGE", Hex: "orange"})
	if _, _, err := cfg.ResolvePalette(); err == nil {
		t.Error("Expected error for a non-hex color")
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		ok      bool
		enabled bool
		level   float64
	}{
		{"", DifficultyNormal, true, true, 0.3},
		{"easy", DifficultyEasy, true, true, 0.0},
		{"hard", DifficultyHard, true, true, 0.7},
		{"fixed", DifficultyFixed, true, false, 0.0},
		{"insane", "", false, false, 0},
	}
	for _, tt := range tests {
		p, ok := ParsePreset(tt.in)
		if ok != tt.ok || p != tt.want {
			t.Errorf("ParsePreset(%q) = %q, %v", tt.in, p, ok)
			continue
		}
		if !ok {
			continue
		}
		cfg := DefaultColorsConfig()
		ApplyColorsPreset(&cfg, p)
		if cfg.Difficulty.Enabled != tt.enabled {
			t.Errorf("%s: enabled = %v", tt.in, cfg.Difficulty.Enabled)
		}
		if tt.enabled && cfg.Difficulty.InitialLevel != tt.level {
			t.Errorf("%s: initial level = %v, want %v", tt.in, cfg.Difficulty.InitialLevel, tt.level)
		}
	}
}

func TestDifficultyManager(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{SpeedMultiplier: 1.0},
	}
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		score int
		level float64
		speed float64
	}{
		{0, 0.2, 1.2},
		{50, 0.6, 1.6},
		{100, 1.0, 2.0},
		{500, 1.0, 2.0},
	}
	for _, tt := range tests {
		if got := dm.Level(tt.score, 0); math.Abs(got-tt.level) > 1e-9 {
			t.Errorf("Level(%d) = %v, want %v", tt.score, got, tt.level)
		}
		if got := dm.Speed(1, tt.score, 0); math.Abs(got-tt.speed) > 1e-9 {
			t.Errorf("Speed(%d) = %v, want %v", tt.score, got, tt.speed)
		}
	}

	dm.SetEnabled(false)
	if dm.IsEnabled() {
		t.Error("Expected progression disabled")
	}
	if got := dm.Level(100, 0); got != 0.2 {
		t.Errorf("Disabled level should stay initial, got %v", got)
	}

	dm.SetInitialLevel(3)
	if got := dm.Level(0, 0); got != 1 {
		t.Errorf("Initial level should clamp to 1, got %v", got)
	}

	timed := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 0},
	})
	if got := timed.Level(0, 10); got != 1 {
		t.Errorf("Zero max_at should saturate, got %v", got)
	}
}
