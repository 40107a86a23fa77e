// Package input turns raw button hardware into clean single press events.
package input

import "time"

// Button is the polled hardware line. Pressed returns the raw level; the
// debouncer turns it into events.
type Button interface {
	Pressed() bool
}

// Default debouncer timings.
const (
	DefaultScanInterval = 20 * time.Millisecond
	DefaultDebounce     = 100 * time.Millisecond
)

// Debouncer samples a button level at a fixed scan interval and reports each
// physical press exactly once. Presses closer together than the debounce
// window collapse into one event; a held button never repeats.
type Debouncer struct {
	scanInterval time.Duration
	debounce     time.Duration

	lastScan    time.Time
	pressed     bool
	released    bool
	lastTrigger time.Time
}

// NewDebouncer creates a debouncer with the given scan interval and debounce
// window. Zero values fall back to the defaults.
func NewDebouncer(scanInterval, debounce time.Duration) *Debouncer {
	if scanInterval <= 0 {
		scanInterval = DefaultScanInterval
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Debouncer{
		scanInterval: scanInterval,
		debounce:     debounce,
		released:     true,
	}
}

// Poll feeds one raw sample. Returns true exactly when a debounced press
// should fire. Samples arriving faster than the scan interval are ignored.
func (d *Debouncer) Poll(now time.Time, level bool) bool {
	if !d.lastScan.IsZero() && now.Sub(d.lastScan) < d.scanInterval {
		return false
	}
	d.lastScan = now

	if !level {
		d.pressed = false
		d.released = true
		return false
	}

	if d.pressed {
		return false
	}
	d.pressed = true

	if !d.released {
		return false
	}
	d.released = false

	if !d.lastTrigger.IsZero() && now.Sub(d.lastTrigger) < d.debounce {
		return false
	}
	d.lastTrigger = now
	return true
}
