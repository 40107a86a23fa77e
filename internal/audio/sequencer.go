package audio

import "time"

// Entry is one step in a playback sequence: either a pause or a track start.
type Entry struct {
	play     bool
	track    int
	duration time.Duration
}

// Delay pauses the sequence for the duration.
func Delay(d time.Duration) Entry {
	return Entry{duration: d}
}

// Play starts a track. Playback is fire-and-forget: the entry completes as
// soon as the play command is issued.
func Play(track int) Entry {
	return Entry{play: true, track: track}
}

// Sequencer runs a FIFO of playback entries against the player. Like the
// animation channels it is ticked by the control loop and owned by it alone.
type Sequencer struct {
	player Player

	queue     []Entry
	waiting   bool
	waitStart time.Time
}

// NewSequencer creates a sequencer over the player.
func NewSequencer(player Player) *Sequencer {
	return &Sequencer{player: player}
}

// Enqueue appends entries to the sequence.
func (s *Sequencer) Enqueue(entries ...Entry) {
	s.queue = append(s.queue, entries...)
}

// Busy reports whether any entries remain.
func (s *Sequencer) Busy() bool { return len(s.queue) > 0 }

// Clear drops all pending entries.
func (s *Sequencer) Clear() {
	s.queue = nil
	s.waiting = false
}

// Tick processes the head of the queue. Play entries are issued and popped
// immediately, so consecutive plays all fire on the same tick; a delay entry
// gates the queue until its time has elapsed. Returns true while the
// sequencer has work in flight.
func (s *Sequencer) Tick(now time.Time) bool {
	worked := false

	for len(s.queue) > 0 {
		head := s.queue[0]

		if head.play {
			s.player.PlayTrack(head.track)
			s.queue = s.queue[1:]
			s.waiting = false
			worked = true
			continue
		}

		if !s.waiting {
			s.waiting = true
			s.waitStart = now
		}
		if now.Sub(s.waitStart) < head.duration {
			return true
		}
		s.queue = s.queue[1:]
		s.waiting = false
		worked = true
	}

	return worked
}
