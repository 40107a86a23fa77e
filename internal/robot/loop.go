package robot

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/delingren/walle-2/internal/audio"
	"github.com/delingren/walle-2/internal/eventbus"
	"github.com/delingren/walle-2/internal/idle"
	"github.com/delingren/walle-2/internal/input"
	"github.com/delingren/walle-2/internal/remote"
)

// Loop cadence and heartbeat defaults.
const (
	DefaultInterval  = 10 * time.Millisecond
	DefaultHeartbeat = 10 * time.Second
)

// Loop is the single-threaded control loop. Each iteration advances the
// animations and the audio sequence, polls the button and the receiver,
// drains the event bus and lets the idle controller take over when nothing
// has happened for a while. Nothing else touches channel or queue state
// while the loop runs.
type Loop struct {
	interval  time.Duration
	heartbeat time.Duration

	rig        *Rig
	seq        *audio.Sequencer
	monitor    *idle.Monitor
	dispatcher *Dispatcher
	bus        *eventbus.Bus

	button    input.Button
	debouncer *input.Debouncer
	receiver  remote.Receiver

	clock func() time.Time
	done  chan struct{}

	ticks     uint64
	busyTicks uint64
	lastBeat  time.Time
}

// NewLoop wires the control loop over the rig and its collaborators.
func NewLoop(interval time.Duration, rig *Rig, seq *audio.Sequencer, monitor *idle.Monitor, dispatcher *Dispatcher, bus *eventbus.Bus) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval:   interval,
		heartbeat:  DefaultHeartbeat,
		rig:        rig,
		seq:        seq,
		monitor:    monitor,
		dispatcher: dispatcher,
		bus:        bus,
		debouncer:  input.NewDebouncer(0, 0),
		clock:      time.Now,
		done:       make(chan struct{}),
	}
}

// AttachButton adds a polled push-button. A nil debouncer keeps the default.
func (l *Loop) AttachButton(b input.Button, d *input.Debouncer) {
	l.button = b
	if d != nil {
		l.debouncer = d
	}
}

// AttachReceiver adds a polled remote receiver.
func (l *Loop) AttachReceiver(r remote.Receiver) {
	l.receiver = r
}

// SetHeartbeat changes the diagnostic heartbeat interval; zero disables it.
func (l *Loop) SetHeartbeat(d time.Duration) {
	l.heartbeat = d
}

// Run drives the loop until the context is cancelled, then neutralizes the
// rig so the hardware is left in a safe pose.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	log.Info().Dur("interval", l.interval).Msg("Control loop started")

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.lastBeat = l.clock()

	for {
		select {
		case <-ctx.Done():
			log.Info().Uint64("ticks", l.ticks).Msg("Control loop stopping")
			l.seq.Clear()
			l.rig.Neutral()
			return nil

		case <-ticker.C:
			l.step(ctx, l.clock())
		}
	}
}

// Done closes once the loop has exited and the rig is neutralized.
func (l *Loop) Done() <-chan struct{} { return l.done }

// step runs one loop iteration at the given instant.
func (l *Loop) step(ctx context.Context, now time.Time) {
	worked := l.rig.Tick(now)
	if l.seq.Tick(now) {
		worked = true
	}
	if worked {
		l.busyTicks++
		if l.monitor.Touch(now) {
			l.rig.WakeEyes()
		}
	}

	if l.button != nil && l.debouncer.Poll(now, l.button.Pressed()) {
		log.Debug().Msg("Button press")
		l.dispatcher.HandleButton(ctx, now)
	}

	if l.receiver != nil {
		if msg, ok := l.receiver.Poll(); ok {
			l.dispatcher.HandleMessage(ctx, now, msg)
		}
	}

	l.bus.Drain(func(ev eventbus.Event) {
		l.dispatcher.HandleEvent(ctx, now, ev)
	})

	if l.monitor.Update(now) == idle.StateIdle {
		l.rig.SetDrive(0, 0)
		l.rig.BreatheEyes(l.monitor.Breathe(now))
	}

	l.ticks++
	if l.heartbeat > 0 && now.Sub(l.lastBeat) >= l.heartbeat {
		log.Debug().
			Uint64("ticks", l.ticks).
			Uint64("busy_ticks", l.busyTicks).
			Bool("animating", l.rig.Busy()).
			Int("pending_events", l.bus.Pending()).
			Msg("Loop heartbeat")
		l.lastBeat = now
	}
}
