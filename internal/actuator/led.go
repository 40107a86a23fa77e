package actuator

import "math"

// LED maps [0,1] onto an 8-bit PWM duty cycle.
type LED struct {
	driver PWMDriver
	pin    int
}

// NewLED creates an LED adapter.
func NewLED(driver PWMDriver, pin int) *LED {
	return &LED{driver: driver, pin: pin}
}

// Apply sets the LED brightness.
func (l *LED) Apply(v float64) {
	v = clamp(v, 0, 1)
	l.driver.SetDutyCycle(l.pin, uint8(math.Round(v*255)))
}
