package robot

import (
	"context"
	"math"
	"testing"

	"github.com/delingren/walle-2/internal/actions"
	"github.com/delingren/walle-2/internal/audio"
	"github.com/delingren/walle-2/internal/eventbus"
	"github.com/delingren/walle-2/internal/idle"
	"github.com/delingren/walle-2/internal/remote"
)

type dispatchHarness struct {
	rig     *Rig
	monitor *idle.Monitor
	seq     *audio.Sequencer
	disp    *Dispatcher
}

func newDispatchHarness(t *testing.T) *dispatchHarness {
	t.Helper()

	h := &dispatchHarness{
		rig:     newTestRig(),
		monitor: idle.NewMonitor(0, 0),
	}
	h.seq = audio.NewSequencer(audio.NewNullPlayer())

	reg := actions.NewRegistry()
	if err := RegisterBuiltins(reg, h.rig, h.seq); err != nil {
		t.Fatalf("RegisterBuiltins failed: %v", err)
	}
	inv := actions.NewInvoker(reg, func(ctx context.Context) *actions.Context {
		return actions.NewContext(ctx, nil)
	})

	h.disp = NewDispatcher(inv, h.rig, h.monitor, nil)
	return h
}

func (h *dispatchHarness) nec(t *testing.T, code uint32, ms int) {
	t.Helper()
	h.disp.HandleMessage(context.Background(), rigAt(ms), remote.Message{
		Protocol: remote.ProtocolNEC,
		Code:     code,
	})
}

func (h *dispatchHarness) packet(t *testing.T, typ int, x, y float64, ms int) {
	t.Helper()
	h.disp.HandleMessage(context.Background(), rigAt(ms), remote.Message{
		Protocol: remote.ProtocolPulseDistance,
		Code:     remote.EncodePacket(typ, x, y),
	})
}

func TestDiscreteCodeDrivesPad(t *testing.T) {
	h := newDispatchHarness(t)

	h.nec(t, 0xFF18E7, 0) // 2 on the digit grid
	almost(t, h.rig.Value(ChanLeftTread), padCruise, "forward left")
	almost(t, h.rig.Value(ChanRightTread), padCruise, "forward right")

	h.nec(t, 0xFF38C7, 10) // 5 stops
	almost(t, h.rig.Value(ChanLeftTread), 0, "halt left")
	almost(t, h.rig.Value(ChanRightTread), 0, "halt right")
}

func TestUnknownCodeIsNoOp(t *testing.T) {
	h := newDispatchHarness(t)
	h.rig.SetDrive(0.5, 0.5)

	h.nec(t, 0xDEADBEEF, 0)

	almost(t, h.rig.Value(ChanLeftTread), 0.5, "left tread untouched")
	almost(t, h.rig.Value(ChanRightTread), 0.5, "right tread untouched")
	if h.rig.Busy() {
		t.Error("unknown code queued work")
	}
}

func TestJoystickStreamsTreads(t *testing.T) {
	h := newDispatchHarness(t)

	h.packet(t, remote.PacketJoystick1, 0, 1, 0)

	if got := h.rig.Value(ChanLeftTread); math.Abs(got-1) > 0.01 {
		t.Errorf("left tread: got %v, want about 1", got)
	}
	if got := h.rig.Value(ChanRightTread); math.Abs(got-1) > 0.01 {
		t.Errorf("right tread: got %v, want about 1", got)
	}
	if h.rig.Busy() {
		t.Error("joystick drive queued segments instead of a direct set")
	}
}

func TestButtonPacketAlwaysRunsDemo(t *testing.T) {
	h := newDispatchHarness(t)

	h.packet(t, remote.PacketButton, 0.7, -0.3, 0)

	head, _ := h.rig.Channel(ChanHeadPan)
	if head.Pending() == 0 {
		t.Error("button packet did not start the demo")
	}
	if !h.seq.Busy() {
		t.Error("demo queued no audio")
	}
}

func TestArmRateLimit(t *testing.T) {
	h := newDispatchHarness(t)
	left, _ := h.rig.Channel(ChanLeftArm)

	h.packet(t, remote.PacketJoystick2, 0, 1, 0)
	if left.Pending() != 1 {
		t.Fatalf("first frame: %d queued moves, want 1", left.Pending())
	}

	// 100 ms later: inside the gate, dropped.
	h.packet(t, remote.PacketJoystick2, 0, 1, 100)
	if left.Pending() != 1 {
		t.Errorf("gated frame queued a move: %d pending", left.Pending())
	}

	// 600 ms later: gate reopened.
	h.packet(t, remote.PacketJoystick2, 0, 1, 600)
	if left.Pending() != 2 {
		t.Errorf("after gate: %d queued moves, want 2", left.Pending())
	}
}

func TestSlackFrameDoesNotConsumeGate(t *testing.T) {
	h := newDispatchHarness(t)
	left, _ := h.rig.Channel(ChanLeftArm)

	h.packet(t, remote.PacketJoystick2, 0, 0.05, 0)
	if left.Pending() != 0 {
		t.Fatal("slack frame queued a move")
	}

	h.packet(t, remote.PacketJoystick2, 0, 1, 100)
	if left.Pending() != 1 {
		t.Error("slack frame consumed the rate gate")
	}
}

func TestDispatchWakesFromIdle(t *testing.T) {
	h := newDispatchHarness(t)

	h.monitor.Touch(rigAt(0))
	if h.monitor.Update(rigAt(20000)) != idle.StateIdle {
		t.Fatal("monitor did not go idle")
	}
	h.rig.BreatheEyes(0.3)

	h.nec(t, 0xFF38C7, 20500) // halt

	if h.monitor.State() != idle.StateActive {
		t.Error("dispatch did not wake the monitor")
	}
	almost(t, h.rig.Value(ChanLeftEye), 1, "left eye restored")
	almost(t, h.rig.Value(ChanRightEye), 1, "right eye restored")
}

func TestBindOverridesCode(t *testing.T) {
	h := newDispatchHarness(t)
	h.disp.Bind(0x12345678, remote.ActionHalt)

	h.rig.SetDrive(0.5, 0.5)
	h.nec(t, 0x12345678, 0)

	almost(t, h.rig.Value(ChanLeftTread), 0, "bound halt left")
	almost(t, h.rig.Value(ChanRightTread), 0, "bound halt right")
}

func TestRemoteEventRoundTrip(t *testing.T) {
	h := newDispatchHarness(t)

	ev := eventbus.RemoteEvent(remote.ProtocolNEC.String(), 0xFF18E7)
	h.disp.HandleEvent(context.Background(), rigAt(0), ev)

	almost(t, h.rig.Value(ChanLeftTread), padCruise, "left tread")
	almost(t, h.rig.Value(ChanRightTread), padCruise, "right tread")
}

func TestActionEventRunsAction(t *testing.T) {
	h := newDispatchHarness(t)

	ev := eventbus.ActionEvent(remote.ActionBlink, nil)
	h.disp.HandleEvent(context.Background(), rigAt(0), ev)

	eye, _ := h.rig.Channel(ChanLeftEye)
	if eye.Pending() == 0 {
		t.Error("blink event queued nothing")
	}
}

func TestPulseWidthDecodesLikePulseDistance(t *testing.T) {
	h := newDispatchHarness(t)

	h.disp.HandleMessage(context.Background(), rigAt(0), remote.Message{
		Protocol: remote.ProtocolPulseWidth,
		Code:     remote.EncodePacket(remote.PacketJoystick1, 0, -1),
	})

	if got := h.rig.Value(ChanLeftTread); math.Abs(got-(-1)) > 0.01 {
		t.Errorf("left tread: got %v, want about -1", got)
	}
	if got := h.rig.Value(ChanRightTread); math.Abs(got-(-1)) > 0.01 {
		t.Errorf("right tread: got %v, want about -1", got)
	}
}

func TestArmStepDuration(t *testing.T) {
	h := newDispatchHarness(t)

	h.packet(t, remote.PacketJoystick2, 0, 1, 0)
	h.rig.Tick(rigAt(100))

	almost(t, h.rig.Value(ChanLeftArm), 0.7, "left arm stepped")
	almost(t, h.rig.Value(ChanRightArm), 0.7, "right arm stepped")
}
