// Package actuator maps normalized channel values onto the hardware lines
// that move the robot: servo pulse widths, LED duty cycles, and dual-line
// motor drivers.
package actuator

// PulseDriver generates servo control pulses. Attach must be called once per
// pin before SetPulseWidth, with the pulse bounds in increasing order.
type PulseDriver interface {
	Attach(pin, minPulse, maxPulse int)
	SetPulseWidth(pin, micros int)
}

// PWMDriver generates plain PWM duty cycles.
type PWMDriver interface {
	SetDutyCycle(pin int, duty uint8)
}

// Output applies one normalized value to the hardware. Adapters swallow
// out-of-range input by clamping; they never report errors upward.
type Output interface {
	Apply(v float64)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
