package drive

import (
	"math"
	"testing"
)

func TestMixCardinals(t *testing.T) {
	tests := []struct {
		name      string
		x, y      float64
		wantLeft  float64
		wantRight float64
	}{
		{"neutral", 0, 0, 0, 0},
		{"full forward", 0, 1, 1, 1},
		{"full backward", 0, -1, -1, -1},
		{"spin right", 1, 0, 1, -1},
		{"spin left", -1, 0, -1, 1},
		{"half forward", 0, 0.5, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := Mix(tt.x, tt.y)
			if math.Abs(left-tt.wantLeft) > 1e-9 || math.Abs(right-tt.wantRight) > 1e-9 {
				t.Errorf("Mix(%v,%v): got (%v,%v), want (%v,%v)",
					tt.x, tt.y, left, right, tt.wantLeft, tt.wantRight)
			}
		})
	}
}

func TestMixDiagonals(t *testing.T) {
	// Forward-right: the left tread leads, the right tread trails.
	left, right := Mix(0.5, 1)
	if math.Abs(left-1) > 1e-9 || math.Abs(right-0.5) > 1e-9 {
		t.Errorf("Mix(0.5,1): got (%v,%v), want (1,0.5)", left, right)
	}

	// Forward-left mirrors it.
	left, right = Mix(-0.5, 1)
	if math.Abs(left-0.5) > 1e-9 || math.Abs(right-1) > 1e-9 {
		t.Errorf("Mix(-0.5,1): got (%v,%v), want (0.5,1)", left, right)
	}

	// Backward-right: both treads reverse, the right one harder.
	left, right = Mix(0.5, -1)
	if math.Abs(left-(-0.5)) > 1e-9 || math.Abs(right-(-1)) > 1e-9 {
		t.Errorf("Mix(0.5,-1): got (%v,%v), want (-0.5,-1)", left, right)
	}
}

func TestMixMagnitudeBound(t *testing.T) {
	// The dominant deflection bounds both throttles.
	points := []struct{ x, y float64 }{
		{0.3, 0.8}, {-0.9, 0.2}, {0.7, -0.7}, {-0.4, -1}, {1, 1}, {-1, 1},
	}
	for _, p := range points {
		left, right := Mix(p.x, p.y)
		limit := math.Max(math.Abs(p.x), math.Abs(p.y))
		if math.Abs(left) > limit+1e-9 || math.Abs(right) > limit+1e-9 {
			t.Errorf("Mix(%v,%v) exceeded deflection: (%v,%v) limit %v",
				p.x, p.y, left, right, limit)
		}
	}
}

func TestMixZeroCountsPositive(t *testing.T) {
	// sign(0) is +1 on both axes, so the degenerate frames stay consistent
	// with their neighbors instead of flipping treads.
	left, right := Mix(0, 0)
	if left != 0 || right != 0 {
		t.Errorf("Mix(0,0): got (%v,%v), want (0,0)", left, right)
	}
}
