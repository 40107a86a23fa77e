package modules

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/delingren/walle-2/internal/actions"
	"github.com/delingren/walle-2/internal/animation"
	"github.com/delingren/walle-2/internal/audio"
	"github.com/delingren/walle-2/internal/eventbus"
	"github.com/delingren/walle-2/internal/remote"
	"github.com/delingren/walle-2/internal/robot"
)

// Binder maps remote codes onto registered actions.
type Binder interface {
	Bind(code uint32, action string)
}

// Schedule queues work onto the Lua worker goroutine without blocking.
// Returns false when the work was dropped.
type Schedule func(ctx context.Context, work func(context.Context)) bool

// BotModule provides the bot table to Lua: declarative sequence definition,
// scripted handlers, remote code binding and event injection. Sequences are
// converted to Go steps at definition time, so invoking them later never
// touches the Lua VM.
type BotModule struct {
	registry *actions.Registry
	rig      *robot.Rig
	seq      *audio.Sequencer
	bus      *eventbus.Bus
	binder   Binder
	schedule Schedule
}

// NewBotModule creates the bot module over the controller's parts.
func NewBotModule(
	registry *actions.Registry,
	rig *robot.Rig,
	seq *audio.Sequencer,
	bus *eventbus.Bus,
	binder Binder,
	schedule Schedule,
) *BotModule {
	return &BotModule{
		registry: registry,
		rig:      rig,
		seq:      seq,
		bus:      bus,
		binder:   binder,
		schedule: schedule,
	}
}

// Loader is the module loader for Lua
func (m *BotModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "define", L.NewFunction(m.define))
	L.SetField(mod, "handler", L.NewFunction(m.handler))
	L.SetField(mod, "bind", L.NewFunction(m.bind))
	L.SetField(mod, "run", L.NewFunction(m.run))
	L.SetField(mod, "press", L.NewFunction(m.press))
	L.SetField(mod, "packet", L.NewFunction(m.packet))

	L.Push(mod)
	return 1
}

// scriptStep is one resolved step of a defined sequence: an animation
// segment on a channel, or an audio entry when channel is empty.
type scriptStep struct {
	channel string
	seg     animation.Segment
	entry   audio.Entry
}

// define(name, steps) - register a declarative sequence as an action.
// Steps are parsed immediately; the resulting action enqueues plain Go
// segments and runs on the control loop like any built-in.
func (m *BotModule) define(L *lua.LState) int {
	name := L.CheckString(1)
	tbl := L.CheckTable(2)

	steps, err := m.parseSteps(tbl)
	if err != nil {
		L.RaiseError("bot.define %q: %s", name, err.Error())
		return 0
	}

	err = m.registry.Register(name, func(*actions.Context, map[string]any) error {
		for _, s := range steps {
			if s.channel != "" {
				m.rig.Enqueue(s.channel, s.seg)
			} else {
				m.seq.Enqueue(s.entry)
			}
		}
		return nil
	})
	if err != nil {
		L.RaiseError("failed to register action: %s", err.Error())
		return 0
	}

	log.Debug().Str("action", name).Int("steps", len(steps)).Msg("Scripted sequence defined")
	return 0
}

// handler(name, fn) - register a Lua function as an action.
//
// The LState is captured at registration time. That is safe because the fn
// is only ever called from work scheduled onto the single Lua worker
// goroutine; invoking the action from the control loop merely queues that
// work and returns.
func (m *BotModule) handler(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	err := m.registry.Register(name, func(actx *actions.Context, args map[string]any) error {
		queued := m.schedule(actx.Ctx(), func(context.Context) {
			L.Push(fn)
			L.Push(MapToLuaTable(L, args))
			if err := L.PCall(1, 0, nil); err != nil {
				log.Error().Err(err).Str("action", name).Msg("Scripted handler failed")
			}
		})
		if !queued {
			return fmt.Errorf("handler %q dropped, lua worker unavailable", name)
		}
		return nil
	})
	if err != nil {
		L.RaiseError("failed to register action: %s", err.Error())
		return 0
	}

	log.Debug().Str("action", name).Msg("Scripted handler defined")
	return 0
}

// bind(code, action) - map a remote code to an action name. The code may be
// a number or a string like "0xFF30CF".
func (m *BotModule) bind(L *lua.LState) int {
	code, err := codeArg(L, 1)
	if err != nil {
		L.RaiseError("bot.bind: %s", err.Error())
		return 0
	}
	action := L.CheckString(2)

	m.binder.Bind(code, action)
	return 0
}

// run(name, args) - request an action run by publishing to the event bus.
// The control loop picks it up on its next iteration, so channel state is
// only ever touched from one goroutine.
func (m *BotModule) run(L *lua.LState) int {
	name := L.CheckString(1)

	var args map[string]any
	if tbl, ok := L.Get(2).(*lua.LTable); ok {
		args = LuaTableToMap(tbl)
	}

	if _, ok := m.registry.Get(name); !ok {
		log.Warn().Str("action", name).Msg("bot.run on unregistered action")
	}

	m.bus.Publish(eventbus.ActionEvent(name, args))
	return 0
}

// press() - inject a push-button press.
func (m *BotModule) press(L *lua.LState) int {
	m.bus.Publish(eventbus.ButtonEvent())
	return 0
}

// packet(type, x, y) - inject a packed joystick frame, as if the custom
// remote had transmitted it.
func (m *BotModule) packet(L *lua.LState) int {
	typ := L.CheckInt(1)
	x := float64(L.CheckNumber(2))
	y := float64(L.CheckNumber(3))

	code := remote.EncodePacket(typ, x, y)
	m.bus.Publish(eventbus.RemoteEvent(remote.ProtocolPulseDistance.String(), code))
	return 0
}

func (m *BotModule) parseSteps(tbl *lua.LTable) ([]scriptStep, error) {
	n := tbl.Len()
	if n == 0 {
		return nil, fmt.Errorf("empty step list")
	}

	steps := make([]scriptStep, 0, n)
	for i := 1; i <= n; i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("step %d is not a table", i)
		}
		step, err := m.parseStep(entry)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (m *BotModule) parseStep(tbl *lua.LTable) (scriptStep, error) {
	if track, ok := numField(tbl, "play"); ok {
		return scriptStep{entry: audio.Play(int(track))}, nil
	}
	if ms, ok := numField(tbl, "delay"); ok {
		return scriptStep{entry: audio.Delay(millis(ms))}, nil
	}

	channel := stringField(tbl, "channel")
	if channel == "" {
		return scriptStep{}, fmt.Errorf("missing channel")
	}
	if _, ok := m.rig.Channel(channel); !ok {
		return scriptStep{}, fmt.Errorf("unknown channel %q", channel)
	}

	if ms, ok := numField(tbl, "hold"); ok {
		return scriptStep{channel: channel, seg: animation.Hold(millis(ms))}, nil
	}
	if delta, ok := numField(tbl, "by"); ok {
		ms, ok := numField(tbl, "over")
		if !ok {
			return scriptStep{}, fmt.Errorf("'by' needs 'over'")
		}
		return scriptStep{channel: channel, seg: animation.LinearBy(delta, millis(ms))}, nil
	}

	target, ok := numField(tbl, "to")
	if !ok {
		return scriptStep{}, fmt.Errorf("need one of 'to', 'by', 'hold', 'play' or 'delay'")
	}
	if speed, ok := numField(tbl, "at"); ok {
		return scriptStep{channel: channel, seg: animation.LinearToAt(target, speed)}, nil
	}
	ms, ok := numField(tbl, "over")
	if !ok {
		return scriptStep{}, fmt.Errorf("'to' needs 'over' or 'at'")
	}
	return scriptStep{channel: channel, seg: animation.LinearToOver(target, millis(ms))}, nil
}

func codeArg(L *lua.LState, idx int) (uint32, error) {
	switch v := L.Get(idx).(type) {
	case lua.LNumber:
		if v < 0 || float64(v) > float64(^uint32(0)) {
			return 0, fmt.Errorf("code %v out of range", v)
		}
		return uint32(v), nil
	case lua.LString:
		code, err := strconv.ParseUint(string(v), 0, 32)
		if err != nil {
			return 0, fmt.Errorf("bad code %q: %w", string(v), err)
		}
		return uint32(code), nil
	default:
		return 0, fmt.Errorf("code must be a number or string, got %s", v.Type())
	}
}

func numField(tbl *lua.LTable, name string) (float64, bool) {
	if v, ok := tbl.RawGetString(name).(lua.LNumber); ok {
		return float64(v), true
	}
	return 0, false
}

func stringField(tbl *lua.LTable, name string) string {
	if v, ok := tbl.RawGetString(name).(lua.LString); ok {
		return string(v)
	}
	return ""
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
