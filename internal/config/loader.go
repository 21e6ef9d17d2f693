package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/superstudent/internal/core"
)

const colorsFile = "colors.yaml"

// LoadColors loads the colors level configuration.
// Search order: customPath -> ~/.superstudent/configs/colors.yaml -> ./configs/colors.yaml -> embedded default.
// Files are read over the defaults, so a file only needs the keys it changes.
func LoadColors(customPath string) (ColorsConfig, error) {
	cfg := DefaultColorsConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath(colorsFile), filepath.Join("configs", colorsFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := DefaultColorsConfig()
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			return candidate, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultColorsYAML, &cfg); err != nil {
		return DefaultColorsConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ColorsSource reports which file LoadColors would read, or "embedded".
func ColorsSource(customPath string) string {
	if customPath != "" {
		return customPath
	}
	for _, path := range []string{userConfigPath(colorsFile), filepath.Join("configs", colorsFile)} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return "embedded"
}

// DefaultColorsYAML returns the embedded default file, for `config init` style dumps.
func DefaultColorsYAML() []byte {
	return append([]byte(nil), defaultColorsYAML...)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".superstudent", "configs", filename)
}

// ApplyColorsPreset modifies the config based on a difficulty preset.
func ApplyColorsPreset(cfg *ColorsConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}

// ResolvePalette parses the palette and the background color.
func (c ColorsConfig) ResolvePalette() ([]core.NamedColor, core.Color, error) {
	bg, err := core.ParseHex(c.Background)
	if err != nil {
		return nil, bg, fmt.Errorf("background: %w", err)
	}
	palette := make([]core.NamedColor, 0, len(c.Palette))
	for i, e := range c.Palette {
		col, err := core.ParseHex(e.Hex)
		if err != nil {
			return nil, bg, fmt.Errorf("palette[%d]: %w", i, err)
		}
		name := strings.ToUpper(strings.TrimSpace(e.Name))
		if name == "" {
			return nil, bg, fmt.Errorf("palette[%d]: empty name", i)
		}
		palette = append(palette, core.NamedColor{Name: name, Color: col})
	}
	return palette, bg, nil
}
