package robot

import (
	"time"

	"github.com/delingren/walle-2/internal/actions"
	"github.com/delingren/walle-2/internal/animation"
	"github.com/delingren/walle-2/internal/audio"
	"github.com/delingren/walle-2/internal/drive"
	"github.com/delingren/walle-2/internal/idle"
	"github.com/delingren/walle-2/internal/remote"
)

// Pad motion constants: the drive keys command a fixed cruise vector through
// the mixer, the arm keys a small bounded nudge.
const (
	padCruise  = 0.75
	padVeer    = padCruise / 2
	armKeyStep = 0.1
	headSpeed  = 0.0008 // units per millisecond for look moves
)

// RegisterBuiltins registers the stock actions the handset keys and the
// push-button trigger. Actions registered later from scripts land in the
// same registry and are indistinguishable at dispatch time.
func RegisterBuiltins(reg *actions.Registry, rig *Rig, seq *audio.Sequencer) error {
	builtins := []struct {
		name string
		fn   func()
	}{
		{remote.ActionDemo, func() { demo(rig, seq) }},
		{remote.ActionLookAround, func() { lookAround(rig) }},
		{remote.ActionRecenter, func() { recenter(rig) }},
		{remote.ActionLookLeft, func() { look(rig, 0.15) }},
		{remote.ActionLookRight, func() { look(rig, 0.85) }},
		{remote.ActionBlink, func() { blink(rig) }},
		{remote.ActionTiltEyes, func() { tiltEyes(rig) }},
		{remote.ActionBreathe, func() { breatheOnce(rig) }},
		{remote.ActionDriveForward, func() { rig.Drive(0, padCruise) }},
		{remote.ActionDriveBackward, func() { rig.Drive(0, -padCruise) }},
		{remote.ActionSpinLeft, func() { rig.Drive(-padCruise, 0) }},
		{remote.ActionSpinRight, func() { rig.Drive(padCruise, 0) }},
		{remote.ActionHalt, func() { rig.Halt() }},
		{remote.ActionVeerForwardLeft, func() { rig.Drive(-padVeer, padCruise) }},
		{remote.ActionVeerForwardRight, func() { rig.Drive(padVeer, padCruise) }},
		{remote.ActionVeerBackLeft, func() { rig.Drive(-padVeer, -padCruise) }},
		{remote.ActionVeerBackRight, func() { rig.Drive(padVeer, -padCruise) }},
		{remote.ActionArmLeftUp, func() { armKey(rig, ChanLeftArm, armKeyStep) }},
		{remote.ActionArmLeftDown, func() { armKey(rig, ChanLeftArm, -armKeyStep) }},
		{remote.ActionArmRightUp, func() { armKey(rig, ChanRightArm, armKeyStep) }},
		{remote.ActionArmRightDown, func() { armKey(rig, ChanRightArm, -armKeyStep) }},
		{remote.ActionPlayTrack1, func() { seq.Enqueue(audio.Play(1)) }},
		{remote.ActionPlayTrack2, func() { seq.Enqueue(audio.Play(2)) }},
		{remote.ActionPlayTrack3, func() { seq.Enqueue(audio.Play(3)) }},
	}

	for _, b := range builtins {
		fn := b.fn
		err := reg.Register(b.name, func(*actions.Context, map[string]any) error {
			fn()
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// demo is the full show: a warble, a head sweep, an offset arm wave and a
// double blink, all animating concurrently.
func demo(rig *Rig, seq *audio.Sequencer) {
	seq.Enqueue(audio.Play(1))

	rig.Enqueue(ChanHeadPan,
		animation.LinearToOver(0.2, 400*time.Millisecond),
		animation.Hold(200*time.Millisecond),
		animation.LinearToOver(0.8, 700*time.Millisecond),
		animation.Hold(200*time.Millisecond),
		animation.LinearToOver(poseCenter, 400*time.Millisecond),
	)
	rig.Enqueue(ChanEyeTilt,
		animation.LinearToOver(0.8, 300*time.Millisecond),
		animation.LinearToOver(0.2, 600*time.Millisecond),
		animation.LinearToOver(poseCenter, 300*time.Millisecond),
	)
	rig.Enqueue(ChanLeftArm,
		animation.LinearToOver(0.9, 400*time.Millisecond),
		animation.LinearToOver(0.1, 500*time.Millisecond),
		animation.LinearToOver(poseCenter, 300*time.Millisecond),
	)
	rig.Enqueue(ChanRightArm,
		animation.Hold(200*time.Millisecond),
		animation.LinearToOver(0.9, 400*time.Millisecond),
		animation.LinearToOver(0.1, 500*time.Millisecond),
		animation.LinearToOver(poseCenter, 300*time.Millisecond),
	)

	doubleBlink := []animation.Segment{
		animation.LinearToOver(0, 100*time.Millisecond),
		animation.LinearToOver(poseBright, 120*time.Millisecond),
		animation.Hold(150*time.Millisecond),
		animation.LinearToOver(0, 100*time.Millisecond),
		animation.LinearToOver(poseBright, 120*time.Millisecond),
	}
	rig.Enqueue(ChanLeftEye, doubleBlink...)
	rig.Enqueue(ChanRightEye, doubleBlink...)
}

// lookAround sweeps the head from side to side while the eyes wander.
func lookAround(rig *Rig) {
	rig.Enqueue(ChanHeadPan,
		animation.LinearToAt(0.1, headSpeed),
		animation.Hold(250*time.Millisecond),
		animation.LinearToOver(0.9, 900*time.Millisecond),
		animation.Hold(250*time.Millisecond),
		animation.LinearToOver(poseCenter, 500*time.Millisecond),
	)
	rig.Enqueue(ChanEyeTilt,
		animation.LinearToOver(0.35, 500*time.Millisecond),
		animation.Hold(400*time.Millisecond),
		animation.LinearToOver(0.65, 700*time.Millisecond),
		animation.Hold(400*time.Millisecond),
		animation.LinearToOver(poseCenter, 400*time.Millisecond),
	)
}

// look pans the head to a target at the standard look speed.
func look(rig *Rig, target float64) {
	rig.Enqueue(ChanHeadPan, animation.LinearToAt(target, headSpeed))
}

// recenter returns head and eye tilt to center.
func recenter(rig *Rig) {
	rig.Enqueue(ChanHeadPan, animation.LinearToOver(poseCenter, 300*time.Millisecond))
	rig.Enqueue(ChanEyeTilt, animation.LinearToOver(poseCenter, 300*time.Millisecond))
}

// blink closes and reopens both eyes.
func blink(rig *Rig) {
	segs := []animation.Segment{
		animation.LinearToOver(0, 100*time.Millisecond),
		animation.Hold(80*time.Millisecond),
		animation.LinearToOver(poseBright, 120*time.Millisecond),
	}
	rig.Enqueue(ChanLeftEye, segs...)
	rig.Enqueue(ChanRightEye, segs...)
}

// tiltEyes wobbles the eye tilt once.
func tiltEyes(rig *Rig) {
	rig.Enqueue(ChanEyeTilt,
		animation.LinearToOver(0.2, 250*time.Millisecond),
		animation.LinearToOver(0.8, 500*time.Millisecond),
		animation.LinearToOver(poseCenter, 250*time.Millisecond),
	)
}

// breatheOnce queues a single cycle of the idle wave on the eyes.
func breatheOnce(rig *Rig) {
	half := idle.DefaultPeriod / 2
	segs := []animation.Segment{
		animation.LinearToOver(0, half),
		animation.LinearToOver(poseBright, half),
	}
	rig.Enqueue(ChanLeftEye, segs...)
	rig.Enqueue(ChanRightEye, segs...)
}

// armKey nudges one arm by a bounded step.
func armKey(rig *Rig, channel string, delta float64) {
	rig.Enqueue(channel, animation.LinearBy(delta, drive.ArmStepDuration))
}
