package robot

import (
	"math"
	"testing"
	"time"

	"github.com/delingren/walle-2/internal/animation"
	"github.com/delingren/walle-2/internal/drive"
)

var rigBase = time.Unix(0, 0)

func rigAt(ms int) time.Time {
	return rigBase.Add(time.Duration(ms) * time.Millisecond)
}

// newTestRig pins the rig clock to the test epoch so enqueue-time resolution
// is deterministic.
func newTestRig() *Rig {
	r := New()
	r.clock = func() time.Time { return rigBase }
	return r
}

type recordingOutput struct {
	values []float64
}

func (o *recordingOutput) Apply(v float64) {
	o.values = append(o.values, v)
}

func (o *recordingOutput) last(t *testing.T) float64 {
	t.Helper()
	if len(o.values) == 0 {
		t.Fatal("no writes recorded")
	}
	return o.values[len(o.values)-1]
}

func almost(t *testing.T, got, want float64, what string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: got %v, want %v", what, got, want)
	}
}

func TestRigStartupPose(t *testing.T) {
	r := newTestRig()

	for name, want := range map[string]float64{
		ChanLeftTread:  0,
		ChanRightTread: 0,
		ChanLeftArm:    0.5,
		ChanRightArm:   0.5,
		ChanHeadPan:    0.5,
		ChanEyeTilt:    0.5,
		ChanLeftEye:    1,
		ChanRightEye:   1,
	} {
		almost(t, r.Value(name), want, name)
	}
	if r.Busy() {
		t.Error("fresh rig reports queued work")
	}
}

func TestBindWritesStartupPose(t *testing.T) {
	r := newTestRig()
	out := &recordingOutput{}

	if err := r.Bind(ChanHeadPan, out); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	almost(t, out.last(t), 0.5, "pose written on bind")

	if err := r.Bind("third_arm", &recordingOutput{}); err == nil {
		t.Error("binding an unknown channel did not fail")
	}
}

func TestTickFlushesOnlyChangedValues(t *testing.T) {
	r := newTestRig()
	out := &recordingOutput{}
	if err := r.Bind(ChanHeadPan, out); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	r.Enqueue(ChanHeadPan, animation.LinearToOver(1.0, 100*time.Millisecond))

	if !r.Tick(rigAt(50)) {
		t.Error("tick with queued work reported none")
	}
	almost(t, out.last(t), 0.75, "midpoint")

	r.Tick(rigAt(100))
	almost(t, out.last(t), 1.0, "target")

	writes := len(out.values)
	if r.Tick(rigAt(150)) {
		t.Error("tick with empty queue reported work")
	}
	if len(out.values) != writes {
		t.Errorf("idle tick wrote to output: %d writes, want %d", len(out.values), writes)
	}
}

func TestSetDriveIsDirect(t *testing.T) {
	r := newTestRig()
	left := &recordingOutput{}
	right := &recordingOutput{}
	if err := r.Bind(ChanLeftTread, left); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := r.Bind(ChanRightTread, right); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	r.SetDrive(0.6, -0.4)

	almost(t, left.last(t), 0.6, "left tread")
	almost(t, right.last(t), -0.4, "right tread")
	if r.Busy() {
		t.Error("direct drive touched the queues")
	}
}

func TestDriveMapsThroughMixer(t *testing.T) {
	r := newTestRig()

	r.Drive(0, 1)
	almost(t, r.Value(ChanLeftTread), 1, "forward left")
	almost(t, r.Value(ChanRightTread), 1, "forward right")

	r.Drive(1, 1)
	almost(t, r.Value(ChanLeftTread), 1, "pivot left")
	almost(t, r.Value(ChanRightTread), 0, "pivot right")

	r.Halt()
	almost(t, r.Value(ChanLeftTread), 0, "halt left")
	almost(t, r.Value(ChanRightTread), 0, "halt right")
}

func TestStepArmsEnqueues(t *testing.T) {
	r := newTestRig()

	r.StepArms(drive.ArmStep{Left: true, Right: true, Delta: 0.2})

	if !r.Busy() {
		t.Fatal("arm step queued no work")
	}
	r.Tick(rigAt(int(drive.ArmStepDuration / time.Millisecond)))
	almost(t, r.Value(ChanLeftArm), 0.7, "left arm")
	almost(t, r.Value(ChanRightArm), 0.7, "right arm")
}

func TestStepArmsSelectsOneArm(t *testing.T) {
	r := newTestRig()

	r.StepArms(drive.ArmStep{Left: true, Delta: -0.1})
	r.Tick(rigAt(100))

	almost(t, r.Value(ChanLeftArm), 0.4, "left arm moved")
	almost(t, r.Value(ChanRightArm), 0.5, "right arm untouched")
}

func TestNeutralDropsQueuesAndPoses(t *testing.T) {
	r := newTestRig()
	r.Enqueue(ChanLeftArm, animation.LinearToOver(1, time.Second))
	r.SetDrive(0.5, -0.5)
	r.BreatheEyes(0.3)

	r.Neutral()

	if r.Busy() {
		t.Error("queues survived neutralization")
	}
	almost(t, r.Value(ChanLeftTread), 0, "left tread")
	almost(t, r.Value(ChanRightTread), 0, "right tread")
	almost(t, r.Value(ChanLeftEye), 1, "left eye")
	almost(t, r.Value(ChanRightEye), 1, "right eye")
}

func TestWakeEyesRestoresFull(t *testing.T) {
	r := newTestRig()
	r.BreatheEyes(0.2)
	almost(t, r.Value(ChanLeftEye), 0.2, "breathing level")

	r.WakeEyes()
	almost(t, r.Value(ChanLeftEye), 1, "left eye awake")
	almost(t, r.Value(ChanRightEye), 1, "right eye awake")
}
