// Package drive maps joystick vectors onto tread throttles and arm moves.
// Everything here is pure arithmetic; the dispatcher owns the state.
package drive

import "math"

// Mix converts a joystick vector into per-tread throttles for differential
// steering. The dominant axis sets the outer tread's magnitude and the
// difference of magnitudes sets the inner tread, so a full-left deflection
// spins in place and a diagonal carves an arc. Zero deflection counts as
// positive, which keeps the mapping total.
func Mix(x, y float64) (left, right float64) {
	sx, sy := sign(x), sign(y)
	ax, ay := math.Abs(x), math.Abs(y)

	if sx == sy {
		left = sy * math.Max(ax, ay)
		right = sy * (ay - ax)
	} else {
		left = sy * (ay - ax)
		right = sy * math.Max(ax, ay)
	}
	return left, right
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
