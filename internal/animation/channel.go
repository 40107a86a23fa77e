package animation

import (
	"time"

	"github.com/rs/zerolog/log"
)

// minDelta is the smallest LinearBy move worth queueing. Relative moves that
// clamp down to this or less are dropped without touching the queue.
const minDelta = 0.05

// move is a resolved segment: an absolute target with a duration. Hold moves
// pin the value they start at instead of interpolating toward a target.
type move struct {
	target   float64
	duration time.Duration
	hold     bool
}

// Channel owns one actuator's normalized value and its pending moves.
// A channel is not safe for concurrent use; all access must come from the
// goroutine that ticks it.
type Channel struct {
	name  string
	lo    float64
	hi    float64
	value float64

	queue []move

	// Baseline for the move in progress. Captured when a move begins and
	// refreshed on pop so the next move interpolates from where this one ended.
	startTime  time.Time
	startValue float64
}

// New creates a channel over the default [0,1] range, resting at 0.
func New(name string) *Channel {
	return NewWithRange(name, 0, 1)
}

// NewWithRange creates a channel over [lo,hi], resting at the low bound.
func NewWithRange(name string, lo, hi float64) *Channel {
	return &Channel{name: name, lo: lo, hi: hi, value: lo}
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// Value returns the current value.
func (c *Channel) Value() float64 { return c.value }

// Busy reports whether any moves are queued or in progress.
func (c *Channel) Busy() bool { return len(c.queue) > 0 }

// Pending returns the number of queued moves, including the one in progress.
func (c *Channel) Pending() int { return len(c.queue) }

// Set writes the value directly, bypassing the queue. The queue and any
// in-progress baseline are left untouched; mixing Set with queued moves on
// the same channel is the caller's responsibility.
func (c *Channel) Set(v float64) {
	c.value = c.clamp(v)
}

// Enqueue resolves a segment against the current value and appends it.
// LinearToAt derives its duration here; LinearBy resolves and clamps its
// target here and may drop the move entirely. Resolution always uses the
// value at enqueue time, which may be mid-animation.
func (c *Channel) Enqueue(now time.Time, seg Segment) {
	var m move
	switch seg.kind {
	case kindLinearToOver:
		m = move{target: c.clamp(seg.target), duration: seg.duration}
	case kindLinearToAt:
		target := c.clamp(seg.target)
		m = move{target: target, duration: speedDuration(target-c.value, seg.speed)}
	case kindLinearBy:
		target := c.clamp(c.value + seg.delta)
		// The tolerance keeps borderline float math on the drop side.
		if abs(target-c.value) <= minDelta+1e-9 {
			log.Debug().Str("channel", c.name).Float64("delta", seg.delta).Msg("Relative move too small, dropped")
			return
		}
		m = move{target: target, duration: seg.duration}
	case kindHold:
		m = move{target: c.value, duration: seg.duration, hold: true}
	}

	if len(c.queue) == 0 {
		c.startTime = now
		c.startValue = c.value
	}
	c.queue = append(c.queue, m)
}

// EnqueueAll appends a batch of segments back to back.
func (c *Channel) EnqueueAll(now time.Time, segs ...Segment) {
	for _, seg := range segs {
		c.Enqueue(now, seg)
	}
}

// Clear drops all queued moves, leaving the value where it is.
func (c *Channel) Clear() {
	c.queue = nil
}

// Tick advances the move in progress. Returns true if the channel performed
// any work. Completed moves snap exactly to their target before being popped;
// the follow-up move re-baselines at (now, value) so back-to-back segments
// chain without drift. A zero-duration move completes on its first tick.
func (c *Channel) Tick(now time.Time) bool {
	if len(c.queue) == 0 {
		return false
	}

	m := c.queue[0]
	elapsed := now.Sub(c.startTime)

	if m.hold {
		if elapsed >= m.duration {
			c.pop(now)
		}
		return true
	}

	if m.duration <= 0 || elapsed >= m.duration {
		c.value = m.target
		c.pop(now)
		return true
	}

	frac := float64(elapsed) / float64(m.duration)
	if frac < 0 {
		frac = 0
	}
	c.value = c.startValue + (m.target-c.startValue)*frac
	return true
}

// pop removes the finished move and re-baselines for the next one.
func (c *Channel) pop(now time.Time) {
	c.queue = c.queue[1:]
	if len(c.queue) > 0 {
		c.startTime = now
		c.startValue = c.value
	}
}

func (c *Channel) clamp(v float64) float64 {
	if v < c.lo {
		return c.lo
	}
	if v > c.hi {
		return c.hi
	}
	return v
}

// speedDuration converts a distance and speed (units/ms) into a duration.
// Non-positive speeds complete immediately instead of dividing by zero.
func speedDuration(distance, speedPerMs float64) time.Duration {
	if speedPerMs <= 0 {
		return 0
	}
	ms := abs(distance) / speedPerMs
	return time.Duration(ms * float64(time.Millisecond))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
