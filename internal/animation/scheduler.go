package animation

import "time"

// Scheduler owns a fixed set of channels and ticks them together. It is the
// single owner of all animation state; nothing else may tick the channels.
type Scheduler struct {
	channels []*Channel
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add registers a channel with the scheduler and returns it for wiring.
func (s *Scheduler) Add(c *Channel) *Channel {
	s.channels = append(s.channels, c)
	return c
}

// Channels returns the registered channels in registration order.
func (s *Scheduler) Channels() []*Channel {
	return s.channels
}

// Tick advances every channel and reports whether any of them performed work,
// so the caller can feed its activity tracking.
func (s *Scheduler) Tick(now time.Time) bool {
	worked := false
	for _, c := range s.channels {
		if c.Tick(now) {
			worked = true
		}
	}
	return worked
}

// Busy reports whether any channel has moves queued.
func (s *Scheduler) Busy() bool {
	for _, c := range s.channels {
		if c.Busy() {
			return true
		}
	}
	return false
}
