// Package animation provides the cooperative animation engine: per-actuator
// channels with FIFO segment queues, ticked by a single scheduler owner.
package animation

import "time"

// segmentKind selects which fields of a Segment are meaningful.
type segmentKind int

const (
	kindLinearToOver segmentKind = iota
	kindLinearToAt
	kindLinearBy
	kindHold
)

// Segment describes one queued move on a channel. Segments are plain values;
// targets and durations are resolved against the channel's current value at
// enqueue time, not at construction time.
type Segment struct {
	kind     segmentKind
	target   float64
	delta    float64
	speed    float64 // units per millisecond, LinearToAt only
	duration time.Duration
}

// LinearToOver ramps to an absolute target over a fixed duration.
func LinearToOver(target float64, duration time.Duration) Segment {
	return Segment{kind: kindLinearToOver, target: target, duration: duration}
}

// LinearToAt ramps to an absolute target at a fixed speed (units per
// millisecond). The duration is derived from the distance left to cover when
// the segment is enqueued.
func LinearToAt(target float64, speedPerMs float64) Segment {
	return Segment{kind: kindLinearToAt, target: target, speed: speedPerMs}
}

// LinearBy ramps by a relative delta over a fixed duration. The target is
// clamped to the channel range at enqueue time; if the clamped move is too
// small to matter it is dropped entirely.
func LinearBy(delta float64, duration time.Duration) Segment {
	return Segment{kind: kindLinearBy, delta: delta, duration: duration}
}

// Hold keeps the current value for the duration.
func Hold(duration time.Duration) Segment {
	return Segment{kind: kindHold, duration: duration}
}
