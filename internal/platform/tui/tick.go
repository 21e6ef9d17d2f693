// Package tui provides the Bubble Tea integration for SuperStudent.
// It handles the terminal UI loop, mouse and key mapping, checkpoint
// persistence and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a level simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// frameClock measures wall time between ticks.
type frameClock struct {
	last time.Time
}

// Delta returns the seconds since the previous call. The first call
// reports one nominal frame at the given rate.
func (c *frameClock) Delta(now time.Time, tickRate int) float64 {
	if c.last.IsZero() {
		c.last = now
		if tickRate <= 0 {
			tickRate = 60
		}
		return 1 / float64(tickRate)
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt < 0 {
		return 0
	}
	return dt
}

// Reset forgets the previous tick so the next delta is nominal.
func (c *frameClock) Reset() {
	c.last = time.Time{}
}
