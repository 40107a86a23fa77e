package actuator

import "math"

// Servo maps [0,1] onto a pulse-width range in microseconds. An inverted
// mounting is expressed by minPulse > maxPulse: input 0 still maps to
// minPulse and 1 to maxPulse, but the driver is attached with the bounds
// swapped into increasing order.
type Servo struct {
	driver PulseDriver
	pin    int
	minUS  int
	maxUS  int
}

// NewServo creates a servo adapter and attaches its pin.
func NewServo(driver PulseDriver, pin, minPulse, maxPulse int) *Servo {
	lo, hi := minPulse, maxPulse
	if lo > hi {
		lo, hi = hi, lo
	}
	driver.Attach(pin, lo, hi)

	return &Servo{
		driver: driver,
		pin:    pin,
		minUS:  minPulse,
		maxUS:  maxPulse,
	}
}

// Apply positions the servo at the normalized value.
func (s *Servo) Apply(v float64) {
	v = clamp(v, 0, 1)
	us := float64(s.minUS) + (float64(s.maxUS)-float64(s.minUS))*v
	s.driver.SetPulseWidth(s.pin, int(math.Round(us)))
}
