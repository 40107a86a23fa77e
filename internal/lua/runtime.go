package lua

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/delingren/walle-2/internal/actions"
	"github.com/delingren/walle-2/internal/audio"
	"github.com/delingren/walle-2/internal/eventbus"
	"github.com/delingren/walle-2/internal/lua/modules"
	"github.com/delingren/walle-2/internal/robot"
)

// ErrRuntimeClosed is returned when the Lua runtime is closed
var ErrRuntimeClosed = fmt.Errorf("lua runtime closed")

// LuaWork represents work to be executed on the Lua VM.
// All Lua execution MUST go through this to ensure thread safety.
type LuaWork func(ctx context.Context)

// Runtime manages the Lua VM with single-threaded execution. The script is
// loaded once at startup; afterwards only scripted handlers run here, fed
// through the work queue. The control loop never touches the VM.
type Runtime struct {
	L        *lua.LState
	registry *actions.Registry

	bot *modules.BotModule

	// Work queue for thread-safe Lua execution
	workQueue chan LuaWork

	// Shutdown signaling - closing this channel signals senders to stop
	// Using a channel in select is race-free (unlike mutex + bool)
	closing   chan struct{}
	closeOnce sync.Once

	// Worker handshake: running is set when Run takes ownership of the
	// state, done closes when it gives it back. Close only tears the state
	// down once the worker is out.
	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewRuntime creates a new Lua runtime over the controller's parts.
func NewRuntime(
	registry *actions.Registry,
	rig *robot.Rig,
	seq *audio.Sequencer,
	bus *eventbus.Bus,
	binder modules.Binder,
) *Runtime {
	r := &Runtime{
		L:         lua.NewState(),
		registry:  registry,
		workQueue: make(chan LuaWork, 100),
		closing:   make(chan struct{}),
		done:      make(chan struct{}),
	}

	schedule := func(ctx context.Context, work func(context.Context)) bool {
		return r.Do(ctx, work)
	}

	// Log module
	logModule := modules.NewLogModule()
	r.L.PreloadModule("log", logModule.Loader)

	// Bot module
	r.bot = modules.NewBotModule(registry, rig, seq, bus, binder, schedule)
	r.L.PreloadModule("bot", r.bot.Loader)

	return r
}

// Close signals the runtime to stop accepting new work, waits for the
// worker to drain and exit, then closes the Lua state. The state is never
// closed while the worker is mid-execution. Safe to call concurrently with
// Do/DoSync - they will see the closing signal.
func (r *Runtime) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		close(r.closing)
		running := r.running
		r.mu.Unlock()

		if running {
			<-r.done
		}
		// workQueue stays open to avoid send-on-closed-channel panics;
		// undelivered work is garbage collected with the runtime.
		r.L.Close()
	})
}

// Do queues work to be executed on the Lua VM (thread-safe, non-blocking)
// Returns false if the runtime is closing, queue is full, or context is cancelled.
func (r *Runtime) Do(ctx context.Context, work LuaWork) bool {
	select {
	case <-r.closing:
		log.Warn().Msg("Lua runtime closing, dropping work")
		return false
	case <-ctx.Done():
		log.Warn().Msg("Context cancelled, dropping Lua work")
		return false
	case r.workQueue <- work:
		return true
	default:
		log.Warn().Msg("Lua work queue full, dropping work")
		return false
	}
}

// DoSync queues work and blocks until there's space (thread-safe, blocking)
// Returns error if the runtime is closing or context is cancelled.
func (r *Runtime) DoSync(ctx context.Context, work LuaWork) error {
	select {
	case <-r.closing:
		return ErrRuntimeClosed
	case <-ctx.Done():
		return ctx.Err()
	case r.workQueue <- work:
		return nil
	}
}

// Run starts the Lua worker goroutine - this is the ONLY goroutine that
// touches Lua after the script loads. It includes panic recovery to prevent
// crashes from killing the worker. Exits when the context is cancelled or
// the runtime is closed. Run may be called at most once.
func (r *Runtime) Run(ctx context.Context) {
	r.mu.Lock()
	select {
	case <-r.closing:
		// Close won the race: the state is gone or about to be, so the
		// worker never takes ownership.
		r.mu.Unlock()
		close(r.done)
		return
	default:
	}
	r.running = true
	r.mu.Unlock()
	defer close(r.done)

	for {
		select {
		case <-ctx.Done():
			r.drainQueue(ctx)
			return
		case <-r.closing:
			r.drainQueue(ctx)
			return
		case work := <-r.workQueue:
			r.executeWork(ctx, work)
		}
	}
}

// drainQueue processes any remaining work in the queue before exiting
func (r *Runtime) drainQueue(ctx context.Context) {
	for {
		select {
		case work := <-r.workQueue:
			r.executeWork(ctx, work)
		default:
			return
		}
	}
}

// executeWork runs a single work item with panic recovery
func (r *Runtime) executeWork(ctx context.Context, work LuaWork) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Interface("panic", rec).
				Msg("Lua work panicked - worker continuing")
		}
	}()
	// Set context on LState so modules can access it via L.Context()
	r.L.SetContext(ctx)
	work(ctx)
}

// LoadScript loads and executes a Lua script (must be called before Run)
func (r *Runtime) LoadScript(path string) error {
	log.Info().Str("path", path).Msg("Loading Lua script")

	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("failed to execute Lua script: %w", err)
	}

	log.Info().Msg("Lua script loaded successfully")
	return nil
}
