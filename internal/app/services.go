package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/delingren/walle-2/internal/actions"
	"github.com/delingren/walle-2/internal/actuator"
	"github.com/delingren/walle-2/internal/audio"
	"github.com/delingren/walle-2/internal/config"
	"github.com/delingren/walle-2/internal/eventbus"
	"github.com/delingren/walle-2/internal/hw"
	"github.com/delingren/walle-2/internal/idle"
	"github.com/delingren/walle-2/internal/input"
	"github.com/delingren/walle-2/internal/remote"
	"github.com/delingren/walle-2/internal/robot"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure
	Bus    *eventbus.Bus
	Driver *hw.SimDriver

	// Robot body
	Rig       *robot.Rig
	Player    audio.Player
	Sequencer *audio.Sequencer
	Monitor   *idle.Monitor

	// Action system
	Registry *actions.Registry
	Invoker  *actions.Invoker

	// Control plane
	Dispatcher *robot.Dispatcher
	Loop       *robot.Loop

	// Optional peripherals
	Evdev *input.EvdevReader
	Lua   *LuaService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	// Initialize the event bus
	s.Bus = eventbus.NewWithSize(cfg.EventBus.GetQueueSize())

	// Initialize the hardware driver
	switch cfg.Hardware.Driver {
	case "", "sim":
		s.Driver = hw.NewSimDriver()
	default:
		return nil, fmt.Errorf("unknown hardware driver %q", cfg.Hardware.Driver)
	}

	// Build the rig and bind its channels to hardware lines
	s.Rig = robot.New()
	if err := bindOutputs(&cfg.Hardware, s.Rig, s.Driver); err != nil {
		return nil, err
	}

	// Initialize the audio backend
	switch cfg.Audio.Backend {
	case "", "log":
		s.Player = audio.NewNullPlayer()
	case "beep":
		s.Player = audio.NewBeepPlayer(cfg.Audio.Dir)
	default:
		return nil, fmt.Errorf("unknown audio backend %q", cfg.Audio.Backend)
	}
	s.Sequencer = audio.NewSequencer(s.Player)

	// Initialize idle detection
	s.Monitor = idle.NewMonitor(cfg.Idle.Threshold.Duration(), cfg.Idle.Period.Duration())

	// Initialize action registry
	s.Registry = actions.NewRegistry()

	// Create invoker context factory. The run callback routes nested action
	// calls back through the invoker.
	ctxFactory := func(ctx context.Context) *actions.Context {
		return actions.NewContext(ctx, func(name string, args map[string]any) error {
			return s.Invoker.Invoke(ctx, name, args)
		})
	}
	s.Invoker = actions.NewInvoker(s.Registry, ctxFactory)

	// Merge configured remote bindings over the stock table
	bindings := remote.DefaultBindings()
	custom, err := cfg.Remote.ParsedBindings()
	if err != nil {
		return nil, err
	}
	for code, action := range custom {
		bindings[code] = action
	}

	s.Dispatcher = robot.NewDispatcher(s.Invoker, s.Rig, s.Monitor, bindings)

	// Register the built-in action set
	if err := robot.RegisterBuiltins(s.Registry, s.Rig, s.Sequencer); err != nil {
		return nil, err
	}

	// Initialize the control loop
	s.Loop = robot.NewLoop(cfg.Loop.Interval.Duration(), s.Rig, s.Sequencer, s.Monitor, s.Dispatcher, s.Bus)
	s.Loop.SetHeartbeat(cfg.Loop.Heartbeat.Duration())

	// Initialize the button reader when a device is configured
	if cfg.Input.Device != "" {
		s.Evdev = input.NewEvdevReader(cfg.Input.Device, cfg.Input.KeyCode, s.Bus)
	}

	// Initialize the scripting runtime when a script is configured
	if cfg.Script != "" {
		s.Lua = NewLuaService(cfg, s.Registry, s.Rig, s.Sequencer, s.Bus, s.Dispatcher)
	}

	return s, nil
}

// bindOutputs attaches one actuator adapter per configured hardware line.
func bindOutputs(cfg *config.HardwareConfig, rig *robot.Rig, driver *hw.SimDriver) error {
	for name, servo := range cfg.Servos {
		if err := rig.Bind(name, actuator.NewServo(driver, servo.Pin, servo.MinPulse, servo.MaxPulse)); err != nil {
			return err
		}
	}
	for name, motor := range cfg.Motors {
		if err := rig.Bind(name, actuator.NewMotor(driver, motor.ForwardPin, motor.ReversePin)); err != nil {
			return err
		}
	}
	for name, led := range cfg.LEDs {
		if err := rig.Bind(name, actuator.NewLED(driver, led.Pin)); err != nil {
			return err
		}
	}
	return nil
}

// Start starts all services in the correct order.
// The onFatalError callback is called when the control loop dies unexpectedly.
func (s *Services) Start(ctx context.Context, onFatalError func(error)) error {
	// Bring up the sound board. A missing speaker must not keep the robot
	// from starting, so failures degrade to silence.
	if err := s.Player.Begin(); err != nil {
		log.Warn().Err(err).Msg("Audio unavailable, continuing without sound")
	} else {
		// The board needs a moment after power-up before it takes commands.
		time.Sleep(s.cfg.Audio.Settle.Duration())
		s.Player.SetVolume(s.cfg.Audio.Volume)
		if s.cfg.Audio.StartupTrack >= 0 {
			s.Player.PlayTrack(s.cfg.Audio.StartupTrack)
		}
	}

	// Load the Lua script before starting the worker
	if s.Lua != nil {
		if err := s.Lua.LoadScript(); err != nil {
			return err
		}
		s.Lua.Start(ctx)
	}

	// The button reader is a convenience input; losing the device is not fatal.
	if s.Evdev != nil {
		go func() {
			if err := s.Evdev.Run(ctx); err != nil {
				log.Warn().Err(err).Msg("Button reader stopped")
			}
		}()
	}

	go func() {
		if err := s.Loop.Run(ctx); err != nil {
			onFatalError(err)
		}
	}()

	return nil
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	// Let the loop neutralize the rig before tearing anything down.
	select {
	case <-s.Loop.Done():
	case <-time.After(s.cfg.ShutdownTimeout.Duration()):
		log.Warn().Msg("Control loop did not stop in time")
	}

	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Bus != nil {
		s.Bus.Close()
	}
	if s.Lua != nil {
		s.Lua.Close()
	}
	if s.Player != nil {
		if err := s.Player.Close(); err != nil {
			log.Warn().Err(err).Msg("Audio close failed")
		}
	}
}
