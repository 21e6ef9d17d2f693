package core

import (
	"fmt"
	"strings"
)

// Color is a 24-bit RGB color. The zero value means "terminal default"
// for text cells and black for filled shapes.
type Color struct {
	R, G, B uint8
}

// RGB builds a Color from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex returns the color as "#rrggbb", the form lipgloss accepts.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (Color, error) {
	var c Color
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return c, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("color %q: %w", s, err)
	}
	return c, nil
}

// Scale returns the color multiplied by f in [0, 1].
// Used to fade effects toward black.
func (c Color) Scale(f float64) Color {
	f = ClampF(f, 0, 1)
	return Color{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
	}
}

// Predefined colors used by the game palette and HUD.
var (
	ColorDefault = Color{}
	ColorBlack   = Color{0, 0, 0}
	ColorWhite   = Color{255, 255, 255}
	ColorGray    = Color{128, 128, 128}
	ColorBlue    = Color{0, 0, 255}
	ColorRed     = Color{255, 0, 0}
	ColorGreen   = Color{0, 200, 0}
	ColorYellow  = Color{255, 255, 0}
	ColorPurple  = Color{128, 0, 255}
)

// NamedColor pairs a palette color with the name shown to the player.
type NamedColor struct {
	Name  string
	Color Color
}
