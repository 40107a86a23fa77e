package drive

import (
	"math"
	"testing"
)

func TestStepArms(t *testing.T) {
	tests := []struct {
		name      string
		x, y      float64
		wantOK    bool
		wantLeft  bool
		wantRight bool
		wantDelta float64
	}{
		{"centered full up", 0, 1, true, true, true, 0.2},
		{"centered full down", 0, -1, true, true, true, -0.2},
		{"centered moderate up", 0, 0.5, true, true, true, 0.1},
		{"centered moderate down", 0, -0.5, true, true, true, -0.1},
		{"slack band", 0, 0.1, false, false, false, 0},
		{"slack band negative", 0, -0.05, false, false, false, 0},
		{"hard pull boundary stays moderate", 0, 0.95, true, true, true, 0.1},
		{"just past hard pull", 0, 0.951, true, true, true, 0.2},
		{"full right isolates right arm", 1, 1, true, false, true, 0.2},
		{"full left isolates left arm", -1, 1, true, true, false, 0.2},
		{"overlap zone moves both", 0.5, 0.5, true, true, true, 0.1},
		{"overlap zone negative x", -0.5, -1, true, true, true, -0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, ok := StepArms(tt.x, tt.y)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if step.Left != tt.wantLeft || step.Right != tt.wantRight {
				t.Errorf("arms: got (left=%v,right=%v), want (left=%v,right=%v)",
					step.Left, step.Right, tt.wantLeft, tt.wantRight)
			}
			if math.Abs(step.Delta-tt.wantDelta) > 1e-9 {
				t.Errorf("delta: got %v, want %v", step.Delta, tt.wantDelta)
			}
		})
	}
}
