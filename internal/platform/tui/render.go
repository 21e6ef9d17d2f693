package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/superstudent/internal/core"
)

// styleCache maps core.Color to lipgloss styles. Palettes are small but
// effects fade through many shades, so styles are created on demand.
var styleCache sync.Map

func styleFor(c core.Color) lipgloss.Style {
	if c == core.ColorDefault {
		return lipgloss.NewStyle()
	}
	if s, ok := styleCache.Load(c); ok {
		return s.(lipgloss.Style)
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	styleCache.Store(c, s)
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}
