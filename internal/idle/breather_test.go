package idle

import (
	"math"
	"testing"
	"time"
)

var base = time.Unix(0, 0)

func at(ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

func TestMonitorIdleThreshold(t *testing.T) {
	m := NewMonitor(10*time.Second, 3600*time.Millisecond)
	m.Touch(at(0))

	if got := m.Update(at(9999)); got != StateActive {
		t.Errorf("just under threshold: got %v, want active", got)
	}
	if got := m.Update(at(10000)); got != StateIdle {
		t.Errorf("at threshold: got %v, want idle", got)
	}
}

func TestMonitorTouchResetsCountdown(t *testing.T) {
	m := NewMonitor(10*time.Second, 3600*time.Millisecond)
	m.Touch(at(0))
	m.Update(at(6000))
	m.Touch(at(6000))

	if got := m.Update(at(12000)); got != StateActive {
		t.Errorf("6s after second touch: got %v, want active", got)
	}
	if got := m.Update(at(16000)); got != StateIdle {
		t.Errorf("10s after second touch: got %v, want idle", got)
	}
}

func TestMonitorWakeReportedOnce(t *testing.T) {
	m := NewMonitor(10*time.Second, 3600*time.Millisecond)
	m.Touch(at(0))
	m.Update(at(10000))

	if !m.Touch(at(11000)) {
		t.Error("touch out of idle did not report a wake")
	}
	if m.Touch(at(11100)) {
		t.Error("second touch reported another wake")
	}
	if got := m.State(); got != StateActive {
		t.Errorf("state after wake: got %v, want active", got)
	}
}

func TestBreatheWaveShape(t *testing.T) {
	m := NewMonitor(10*time.Second, 3600*time.Millisecond)
	m.Touch(at(0))
	m.Update(at(10000)) // idle begins here

	idleAt := func(ms int) float64 { return m.Breathe(at(10000 + ms)) }

	if got := idleAt(0); got != 1 {
		t.Errorf("phase 0: got %v, want 1", got)
	}
	if got := idleAt(900); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("quarter period: got %v, want 0.5", got)
	}
	if got := idleAt(1800); got != 0 {
		t.Errorf("half period: got %v, want 0", got)
	}
	if got := idleAt(2700); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("three quarters: got %v, want 0.5", got)
	}
	if got := idleAt(3600); got != 1 {
		t.Errorf("wraparound: got %v, want 1", got)
	}

	// Continuity across the turnaround and the wrap.
	if delta := math.Abs(idleAt(1799) - idleAt(1801)); delta > 0.01 {
		t.Errorf("discontinuity at turnaround: %v", delta)
	}
	if delta := math.Abs(idleAt(3599) - idleAt(3601)); delta > 0.01 {
		t.Errorf("discontinuity at wraparound: %v", delta)
	}
}

func TestMonitorBootCountsAsActivity(t *testing.T) {
	m := NewMonitor(10*time.Second, 3600*time.Millisecond)

	if got := m.Update(at(5000)); got != StateActive {
		t.Errorf("before first threshold: got %v, want active", got)
	}
	if got := m.Update(at(14999)); got != StateActive {
		t.Errorf("just under threshold from first update: got %v, want active", got)
	}
	if got := m.Update(at(15000)); got != StateIdle {
		t.Errorf("threshold after first update: got %v, want idle", got)
	}
}
