// Package hw provides hardware driver backends for the controller's
// actuator outputs. The sim backend traces writes through the logger so
// the full control path can run on a development machine with no rig
// attached.
package hw

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// SimDriver implements both the pulse and PWM driver interfaces by
// logging every write. Attached pins and last written values are kept
// so diagnostics can inspect the state of the simulated rig.
type SimDriver struct {
	mu      sync.Mutex
	pulses  map[int]int
	duties  map[int]uint8
	bounds  map[int][2]int
	attachs int
}

// NewSimDriver creates a simulated driver backend
func NewSimDriver() *SimDriver {
	return &SimDriver{
		pulses: make(map[int]int),
		duties: make(map[int]uint8),
		bounds: make(map[int][2]int),
	}
}

// Attach records the pulse range for a servo pin
func (d *SimDriver) Attach(pin, minPulse, maxPulse int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.bounds[pin] = [2]int{minPulse, maxPulse}
	d.attachs++

	log.Debug().
		Int("pin", pin).
		Int("min_pulse", minPulse).
		Int("max_pulse", maxPulse).
		Msg("Sim servo attached")
}

// SetPulseWidth records a servo pulse write
func (d *SimDriver) SetPulseWidth(pin, micros int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pulses[pin] = micros

	log.Trace().
		Int("pin", pin).
		Int("micros", micros).
		Msg("Sim pulse write")
}

// SetDutyCycle records a PWM duty write
func (d *SimDriver) SetDutyCycle(pin int, duty uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.duties[pin] = duty

	log.Trace().
		Int("pin", pin).
		Uint8("duty", duty).
		Msg("Sim duty write")
}

// PulseWidth returns the last pulse width written to a pin
func (d *SimDriver) PulseWidth(pin int) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	us, ok := d.pulses[pin]
	return us, ok
}

// DutyCycle returns the last duty cycle written to a pin
func (d *SimDriver) DutyCycle(pin int) (uint8, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	duty, ok := d.duties[pin]
	return duty, ok
}

// Attached reports whether a servo pin has been attached and its bounds
func (d *SimDriver) Attached(pin int) (minPulse, maxPulse int, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.bounds[pin]
	return b[0], b[1], ok
}
