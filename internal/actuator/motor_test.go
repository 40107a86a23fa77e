package actuator

import "testing"

type dutyCall struct {
	pin  int
	duty uint8
}

type pwmRecorder struct {
	duties map[int]uint8
	calls  []dutyCall
}

func newPWMRecorder() *pwmRecorder {
	return &pwmRecorder{duties: make(map[int]uint8)}
}

func (r *pwmRecorder) SetDutyCycle(pin int, duty uint8) {
	r.duties[pin] = duty
	r.calls = append(r.calls, dutyCall{pin, duty})
}

func TestMotorDirections(t *testing.T) {
	const fwd, rev = 5, 6

	tests := []struct {
		name    string
		v       float64
		wantFwd uint8
		wantRev uint8
	}{
		{"full forward", 1, 255, 0},
		{"full reverse", -1, 0, 255},
		{"half forward", 0.5, 128, 0},
		{"dead zone positive", 0.09, 0, 0},
		{"dead zone negative", -0.09, 0, 0},
		{"zero", 0, 0, 0},
		{"clamped forward", 2, 255, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newPWMRecorder()
			m := NewMotor(rec, fwd, rev)
			m.Apply(tt.v)
			if got := rec.duties[fwd]; got != tt.wantFwd {
				t.Errorf("forward duty: got %d, want %d", got, tt.wantFwd)
			}
			if got := rec.duties[rev]; got != tt.wantRev {
				t.Errorf("reverse duty: got %d, want %d", got, tt.wantRev)
			}
		})
	}
}

func TestMotorNeverDrivesBothLines(t *testing.T) {
	const fwd, rev = 5, 6
	rec := newPWMRecorder()
	m := NewMotor(rec, fwd, rev)

	// Slam between directions and verify no intermediate state ever had
	// both lines high at once.
	for _, v := range []float64{1, -1, 0.7, -0.7, 0.05, 1, -1} {
		m.Apply(v)
		if rec.duties[fwd] != 0 && rec.duties[rev] != 0 {
			t.Fatalf("both lines driven after Apply(%v): fwd=%d rev=%d", v, rec.duties[fwd], rec.duties[rev])
		}
	}

	// Replay the call stream to make sure the opposite line is zeroed
	// before the active line is raised on every reversal.
	duties := map[int]uint8{}
	for i, c := range rec.calls {
		duties[c.pin] = c.duty
		if duties[fwd] != 0 && duties[rev] != 0 {
			t.Fatalf("call %d left both lines driven", i)
		}
	}
}

func TestLEDDuty(t *testing.T) {
	rec := newPWMRecorder()
	l := NewLED(rec, 3)

	tests := []struct {
		v    float64
		want uint8
	}{
		{0, 0},
		{1, 255},
		{0.5, 128},
		{-1, 0},
		{2, 255},
	}

	for _, tt := range tests {
		l.Apply(tt.v)
		if got := rec.duties[3]; got != tt.want {
			t.Errorf("Apply(%v): got duty %d, want %d", tt.v, got, tt.want)
		}
	}
}
