package actuator

import "math"

// motorDeadZone is the throttle magnitude below which the motor rests.
const motorDeadZone = 0.1

// Motor maps [-1,1] onto a dual-line PWM motor driver. Positive values drive
// the forward line, negative values the reverse line; the opposite line is
// always zeroed first so both are never driven at once.
type Motor struct {
	driver     PWMDriver
	forwardPin int
	reversePin int
}

// NewMotor creates a motor adapter.
func NewMotor(driver PWMDriver, forwardPin, reversePin int) *Motor {
	return &Motor{driver: driver, forwardPin: forwardPin, reversePin: reversePin}
}

// Apply sets the motor throttle.
func (m *Motor) Apply(v float64) {
	v = clamp(v, -1, 1)

	if math.Abs(v) < motorDeadZone {
		m.driver.SetDutyCycle(m.forwardPin, 0)
		m.driver.SetDutyCycle(m.reversePin, 0)
		return
	}

	duty := uint8(math.Round(math.Abs(v) * 255))
	if v > 0 {
		m.driver.SetDutyCycle(m.reversePin, 0)
		m.driver.SetDutyCycle(m.forwardPin, duty)
	} else {
		m.driver.SetDutyCycle(m.forwardPin, 0)
		m.driver.SetDutyCycle(m.reversePin, duty)
	}
}
