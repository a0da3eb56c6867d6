// Package tui provides the Bubble Tea integration for Kahina.
// It handles the terminal UI loop, input mapping, run recording and the
// SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
// Loop identifies the tick loop that scheduled it, so a loop left behind by
// a closed game cannot drive the next one.
type TickMsg struct {
	Time time.Time
	Loop uint64
}

var loopCounter atomic.Uint64

// newLoop returns a fresh tick loop ID.
func newLoop() uint64 {
	return loopCounter.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, loop uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Loop: loop}
	})
}
