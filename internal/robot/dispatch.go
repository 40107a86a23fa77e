package robot

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/delingren/walle-2/internal/actions"
	"github.com/delingren/walle-2/internal/drive"
	"github.com/delingren/walle-2/internal/eventbus"
	"github.com/delingren/walle-2/internal/idle"
	"github.com/delingren/walle-2/internal/remote"
)

// DefaultArmGate is the minimum spacing between two joystick arm commands.
const DefaultArmGate = 500 * time.Millisecond

// Dispatcher routes decoded input onto the rig: discrete codes through the
// action registry, packed joystick frames through the drive and arm mappers.
// Dispatch happens on the control loop goroutine; only the code bindings may
// be remapped from outside and carry a lock.
type Dispatcher struct {
	invoker *actions.Invoker
	rig     *Rig
	monitor *idle.Monitor

	mu       sync.RWMutex
	bindings map[uint32]string

	armGate time.Duration
	lastArm time.Time
}

// NewDispatcher creates a dispatcher. A nil bindings map selects the stock
// code table.
func NewDispatcher(invoker *actions.Invoker, rig *Rig, monitor *idle.Monitor, bindings map[uint32]string) *Dispatcher {
	if bindings == nil {
		bindings = remote.DefaultBindings()
	}
	return &Dispatcher{
		invoker:  invoker,
		rig:      rig,
		monitor:  monitor,
		bindings: bindings,
		armGate:  DefaultArmGate,
	}
}

// Bind maps a remote code to an action name, replacing any existing mapping.
// Binding to a name that is not registered yet is allowed with a warning, so
// scripts may bind before they define.
func (d *Dispatcher) Bind(code uint32, action string) {
	if !d.invoker.HasAction(action) {
		log.Warn().
			Uint32("code", code).
			Str("action", action).
			Msg("Binding remote code to unregistered action")
	}

	d.mu.Lock()
	d.bindings[code] = action
	d.mu.Unlock()

	log.Debug().Uint32("code", code).Str("action", action).Msg("Remote code bound")
}

func (d *Dispatcher) binding(code uint32) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.bindings[code]
	return name, ok
}

// HandleButton dispatches the push-button press.
func (d *Dispatcher) HandleButton(ctx context.Context, now time.Time) {
	d.wake(now)
	d.run(ctx, remote.ActionDemo, nil)
}

// HandleMessage dispatches one decoded remote frame. Unmapped codes and
// unparseable packets are ignored.
func (d *Dispatcher) HandleMessage(ctx context.Context, now time.Time, msg remote.Message) {
	if msg.Protocol.Custom() {
		d.handlePacket(ctx, now, msg.Code)
		return
	}

	name, ok := d.binding(msg.Code)
	if !ok {
		log.Debug().
			Uint32("code", msg.Code).
			Str("protocol", msg.Protocol.String()).
			Msg("Unmapped remote code")
		return
	}

	d.wake(now)
	d.run(ctx, name, nil)
}

func (d *Dispatcher) handlePacket(ctx context.Context, now time.Time, code uint32) {
	pkt, ok := remote.DecodePacket(code)
	if !ok {
		log.Debug().Uint32("code", code).Msg("Unparseable packet, ignored")
		return
	}

	switch pkt.Type {
	case remote.PacketButton:
		// The payload does not identify the key yet, so every key runs
		// the demo.
		d.wake(now)
		d.run(ctx, remote.ActionDemo, nil)

	case remote.PacketJoystick1:
		d.wake(now)
		d.rig.Drive(pkt.X, pkt.Y)

	case remote.PacketJoystick2:
		d.wake(now)
		if now.Sub(d.lastArm) < d.armGate {
			return
		}
		step, ok := drive.StepArms(pkt.X, pkt.Y)
		if !ok {
			return
		}
		d.rig.StepArms(step)
		d.lastArm = now
	}
}

// HandleEvent dispatches one bus event: evdev button presses, injected
// remote frames and scripted action requests all arrive here.
func (d *Dispatcher) HandleEvent(ctx context.Context, now time.Time, ev eventbus.Event) {
	switch ev.Type {
	case eventbus.EventTypeButton:
		d.HandleButton(ctx, now)

	case eventbus.EventTypeRemote:
		name, _ := ev.Data["protocol"].(string)
		proto, ok := remote.ParseProtocol(name)
		if !ok {
			log.Warn().Str("protocol", name).Msg("Remote event with unknown protocol")
			return
		}
		code, ok := ev.Data["code"].(float64)
		if !ok {
			log.Warn().Str("event", ev.ID).Msg("Remote event without code")
			return
		}
		d.HandleMessage(ctx, now, remote.Message{Protocol: proto, Code: uint32(code)})

	case eventbus.EventTypeAction:
		name, _ := ev.Data["action"].(string)
		if name == "" {
			log.Warn().Str("event", ev.ID).Msg("Action event without name")
			return
		}
		args, _ := ev.Data["args"].(map[string]interface{})
		d.wake(now)
		d.run(ctx, name, args)

	default:
		log.Warn().Str("type", string(ev.Type)).Msg("Unhandled event type")
	}
}

// wake marks activity and restores the eyes if the rig was breathing.
func (d *Dispatcher) wake(now time.Time) {
	if d.monitor.Touch(now) {
		d.rig.WakeEyes()
	}
}

// run executes a registered action. Dispatch failures are logged, never
// fatal.
func (d *Dispatcher) run(ctx context.Context, name string, args map[string]any) {
	if err := d.invoker.Invoke(ctx, name, args); err != nil {
		log.Warn().Err(err).Str("action", name).Msg("Action dispatch failed")
	}
}
