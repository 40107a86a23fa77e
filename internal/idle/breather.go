// Package idle watches controller activity and runs the breathing behavior
// once the robot has been still long enough.
package idle

import (
	"time"

	"github.com/rs/zerolog/log"
)

// State of the activity machine.
type State int

const (
	StateActive State = iota
	StateIdle
)

// Defaults for the activity threshold and breathing wave.
const (
	DefaultThreshold = 10 * time.Second
	DefaultPeriod    = 3600 * time.Millisecond
)

// Monitor tracks the time since the last command or animation work and flips
// between Active and Idle. While idle it produces the eye breathing wave.
type Monitor struct {
	threshold time.Duration
	period    time.Duration

	state        State
	lastActivity time.Time
	idleSince    time.Time
}

// NewMonitor creates a monitor. Zero values fall back to the defaults.
func NewMonitor(threshold, period time.Duration) *Monitor {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Monitor{threshold: threshold, period: period}
}

// State returns the current state.
func (m *Monitor) State() State { return m.state }

// Touch records activity. Returns true when this touch wakes the monitor out
// of idle, so the caller can restore the eyes before the command runs.
func (m *Monitor) Touch(now time.Time) bool {
	m.lastActivity = now
	if m.state != StateIdle {
		return false
	}
	m.state = StateActive
	log.Debug().Msg("Activity resumed, breathing stopped")
	return true
}

// Update advances the state machine and returns the state for this tick.
// The countdown starts at the first update, so boot counts as activity.
func (m *Monitor) Update(now time.Time) State {
	if m.lastActivity.IsZero() {
		m.lastActivity = now
	}
	if m.state == StateActive && now.Sub(m.lastActivity) >= m.threshold {
		m.state = StateIdle
		m.idleSince = now
		log.Debug().Dur("threshold", m.threshold).Msg("Controller idle, breathing")
	}
	return m.state
}

// Breathe returns the eye level for this moment of the idle phase: a
// triangle wave that fades from full down to dark and back, continuous at
// the turnaround and at wraparound.
func (m *Monitor) Breathe(now time.Time) float64 {
	phase := now.Sub(m.idleSince) % m.period
	half := m.period / 2
	if phase < half {
		return 1 - float64(phase)/float64(half)
	}
	return -1 + float64(phase)/float64(half)
}
