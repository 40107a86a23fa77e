package drive

import (
	"math"
	"time"
)

// Arm stepping tiers: a hard deflection takes the big step, a moderate one
// the small step, and the slack around center does nothing. The x threshold
// is where one arm drops out of the move.
const (
	armStepBig      = 0.2
	armStepSmall    = 0.1
	armHardPull     = 0.95
	armSlack        = 0.1
	armSelect       = 0.5
	ArmStepDuration = 100 * time.Millisecond
)

// ArmStep is a resolved arm command: which arms move and the signed step.
type ArmStep struct {
	Left  bool
	Right bool
	Delta float64
}

// StepArms maps a joystick vector onto an arm step. The x axis selects arms
// with deliberate overlap: anywhere near center moves both, and only a hard
// push to one side isolates the other arm. The y axis sets step size and
// direction. Returns false when the deflection is inside the slack band.
func StepArms(x, y float64) (ArmStep, bool) {
	step := ArmStep{
		Left:  x <= armSelect,
		Right: x >= -armSelect,
	}

	ay := math.Abs(y)
	switch {
	case ay > armHardPull:
		step.Delta = armStepBig
	case ay > armSlack:
		step.Delta = armStepSmall
	default:
		return ArmStep{}, false
	}

	if y < 0 {
		step.Delta = -step.Delta
	}
	return step, true
}
