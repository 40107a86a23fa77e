package animation

import (
	"testing"
	"time"
)

func TestSchedulerTickReportsWork(t *testing.T) {
	s := NewScheduler()
	head := s.Add(New("head_pan"))
	s.Add(New("eye_tilt"))

	if s.Tick(at(0)) {
		t.Error("empty scheduler reported work")
	}

	head.Enqueue(at(0), LinearToOver(1, 100*time.Millisecond))
	if !s.Tick(at(50)) {
		t.Error("scheduler with an active move reported no work")
	}
	if !s.Busy() {
		t.Error("scheduler not busy mid-move")
	}

	s.Tick(at(100))
	if s.Tick(at(150)) {
		t.Error("scheduler reported work after all moves completed")
	}
	if s.Busy() {
		t.Error("scheduler busy after all moves completed")
	}
}

func TestSchedulerTicksAllChannels(t *testing.T) {
	s := NewScheduler()
	a := s.Add(New("left_arm"))
	b := s.Add(New("right_arm"))

	a.Enqueue(at(0), LinearToOver(1, 100*time.Millisecond))
	b.Enqueue(at(0), LinearToOver(0.5, 100*time.Millisecond))

	s.Tick(at(50))
	if !almostEqual(a.Value(), 0.5) {
		t.Errorf("first channel midpoint: got %v, want 0.5", a.Value())
	}
	if !almostEqual(b.Value(), 0.25) {
		t.Errorf("second channel midpoint: got %v, want 0.25", b.Value())
	}
}
