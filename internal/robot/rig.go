// Package robot assembles the controller: the rig binds animation channels
// to actuator outputs, the dispatcher turns decoded input into motion, and
// the control loop ticks everything from a single goroutine.
package robot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/delingren/walle-2/internal/actuator"
	"github.com/delingren/walle-2/internal/animation"
	"github.com/delingren/walle-2/internal/drive"
)

// Channel names for the rig's eight actuators.
const (
	ChanLeftTread  = "left_tread"
	ChanRightTread = "right_tread"
	ChanLeftArm    = "left_arm"
	ChanRightArm   = "right_arm"
	ChanHeadPan    = "head_pan"
	ChanEyeTilt    = "eye_tilt"
	ChanLeftEye    = "left_eye"
	ChanRightEye   = "right_eye"
)

// Startup pose: treads stopped, head and arms centered, eyes at full
// brightness.
const (
	poseCenter = 0.5
	poseBright = 1.0
)

type output struct {
	sink    actuator.Output
	last    float64
	written bool
}

// Rig owns every animation channel and the actuator output bound to it.
// All mutation happens through rig methods and stays on the control loop
// goroutine; an output receives a write only when its channel's value
// actually changes.
type Rig struct {
	sched   *animation.Scheduler
	byName  map[string]*animation.Channel
	outputs map[string]*output

	clock func() time.Time
}

// New creates the rig with all channels at the startup pose.
func New() *Rig {
	r := &Rig{
		sched:   animation.NewScheduler(),
		byName:  make(map[string]*animation.Channel),
		outputs: make(map[string]*output),
		clock:   time.Now,
	}

	r.add(animation.NewWithRange(ChanLeftTread, -1, 1), 0)
	r.add(animation.NewWithRange(ChanRightTread, -1, 1), 0)
	r.add(animation.New(ChanLeftArm), poseCenter)
	r.add(animation.New(ChanRightArm), poseCenter)
	r.add(animation.New(ChanHeadPan), poseCenter)
	r.add(animation.New(ChanEyeTilt), poseCenter)
	r.add(animation.New(ChanLeftEye), poseBright)
	r.add(animation.New(ChanRightEye), poseBright)

	return r
}

func (r *Rig) add(c *animation.Channel, initial float64) {
	c.Set(initial)
	r.sched.Add(c)
	r.byName[c.Name()] = c
}

// Bind attaches an actuator output to a named channel. The channel's current
// value is written out immediately so the hardware assumes the startup pose.
func (r *Rig) Bind(name string, sink actuator.Output) error {
	c, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("unknown channel %q", name)
	}

	out := &output{sink: sink, last: c.Value(), written: true}
	r.outputs[name] = out
	sink.Apply(c.Value())

	log.Debug().Str("channel", name).Msg("Actuator bound")
	return nil
}

// Channel returns a named channel, for inspection.
func (r *Rig) Channel(name string) (*animation.Channel, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Value returns a named channel's current value, or 0 for unknown names.
func (r *Rig) Value(name string) float64 {
	if c, ok := r.byName[name]; ok {
		return c.Value()
	}
	return 0
}

// Busy reports whether any channel has queued segments.
func (r *Rig) Busy() bool { return r.sched.Busy() }

// Enqueue appends animation segments to a named channel, resolving them
// against the channel's value at this moment.
func (r *Rig) Enqueue(name string, segs ...animation.Segment) {
	c, ok := r.byName[name]
	if !ok {
		log.Warn().Str("channel", name).Msg("Enqueue on unknown channel")
		return
	}
	c.EnqueueAll(r.clock(), segs...)
}

// Set writes a channel value directly, bypassing its queue.
func (r *Rig) Set(name string, v float64) {
	c, ok := r.byName[name]
	if !ok {
		log.Warn().Str("channel", name).Msg("Set on unknown channel")
		return
	}
	c.Set(v)
	r.flush()
}

// SetDrive writes both tread channels directly. Joystick steering and the
// idle controller use this path; it does not cancel queued segments.
func (r *Rig) SetDrive(left, right float64) {
	r.byName[ChanLeftTread].Set(left)
	r.byName[ChanRightTread].Set(right)
	r.flush()
}

// Drive maps a stick vector through the differential mixer onto the treads.
func (r *Rig) Drive(x, y float64) {
	left, right := drive.Mix(x, y)
	r.SetDrive(left, right)
}

// Halt stops both treads.
func (r *Rig) Halt() {
	r.SetDrive(0, 0)
}

// StepArms enqueues a resolved arm step on the selected arm channels.
func (r *Rig) StepArms(step drive.ArmStep) {
	now := r.clock()
	if step.Left {
		r.byName[ChanLeftArm].Enqueue(now, animation.LinearBy(step.Delta, drive.ArmStepDuration))
	}
	if step.Right {
		r.byName[ChanRightArm].Enqueue(now, animation.LinearBy(step.Delta, drive.ArmStepDuration))
	}
}

// WakeEyes restores both eyes to full brightness, directly.
func (r *Rig) WakeEyes() {
	r.byName[ChanLeftEye].Set(poseBright)
	r.byName[ChanRightEye].Set(poseBright)
	r.flush()
}

// BreatheEyes drives both eyes from the breathing wave, directly.
func (r *Rig) BreatheEyes(v float64) {
	r.byName[ChanLeftEye].Set(v)
	r.byName[ChanRightEye].Set(v)
	r.flush()
}

// Neutral drops every queued segment, stops the treads and restores the eyes.
// Called once on shutdown before the drivers close.
func (r *Rig) Neutral() {
	for _, c := range r.byName {
		c.Clear()
	}
	r.byName[ChanLeftTread].Set(0)
	r.byName[ChanRightTread].Set(0)
	r.byName[ChanLeftEye].Set(poseBright)
	r.byName[ChanRightEye].Set(poseBright)
	r.flush()

	log.Info().Msg("Rig neutralized")
}

// Tick advances every channel one step and flushes changed values to the
// bound outputs. Returns true if any channel performed queued work.
func (r *Rig) Tick(now time.Time) bool {
	worked := r.sched.Tick(now)
	r.flush()
	return worked
}

// flush writes each bound channel's value to its output if it changed since
// the last write.
func (r *Rig) flush() {
	for name, out := range r.outputs {
		v := r.byName[name].Value()
		if out.written && v == out.last {
			continue
		}
		out.sink.Apply(v)
		out.last = v
		out.written = true
	}
}
