package app

import (
	"context"

	"github.com/delingren/walle-2/internal/actions"
	"github.com/delingren/walle-2/internal/audio"
	"github.com/delingren/walle-2/internal/config"
	"github.com/delingren/walle-2/internal/eventbus"
	luart "github.com/delingren/walle-2/internal/lua"
	"github.com/delingren/walle-2/internal/lua/modules"
	"github.com/delingren/walle-2/internal/robot"
)

// LuaService wraps the Lua runtime and provides thread-safe execution.
type LuaService struct {
	cfg     *config.Config
	Runtime *luart.Runtime
}

// NewLuaService creates a new LuaService.
func NewLuaService(
	cfg *config.Config,
	registry *actions.Registry,
	rig *robot.Rig,
	seq *audio.Sequencer,
	bus *eventbus.Bus,
	binder modules.Binder,
) *LuaService {
	return &LuaService{
		cfg:     cfg,
		Runtime: luart.NewRuntime(registry, rig, seq, bus, binder),
	}
}

// LoadScript loads and executes the Lua script.
// Must be called before Start().
func (s *LuaService) LoadScript() error {
	return s.Runtime.LoadScript(s.cfg.Script)
}

// Start begins the Lua worker goroutine.
func (s *LuaService) Start(ctx context.Context) {
	// This is the ONLY goroutine that touches the Lua state after load.
	go s.Runtime.Run(ctx)
}

// Do queues work to be executed on the Lua VM.
func (s *LuaService) Do(ctx context.Context, work luart.LuaWork) bool {
	return s.Runtime.Do(ctx, work)
}

// Close closes the Lua runtime.
func (s *LuaService) Close() {
	if s.Runtime != nil {
		s.Runtime.Close()
	}
}
