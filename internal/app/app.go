package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/delingren/walle-2/internal/config"
)

// App ties the service container to a cancellable lifecycle: build the
// graph, start it, wait for a shutdown signal, stop.
type App struct {
	cfg      *config.Config
	services *Services
	ctx      context.Context
	cancel   context.CancelFunc
}

// New builds the service graph from the configuration. Nothing starts yet;
// wiring errors (bad pins, unknown driver, bad bindings) surface here.
func New(cfg *config.Config) (*App, error) {
	services, err := NewServices(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		services: services,
	}, nil
}

// Start brings the services up. A fatal service error afterwards cancels
// the run context, which Wait observes.
func (a *App) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)

	onFatalError := func(err error) {
		log.Error().Err(err).Msg("Fatal error, initiating shutdown")
		a.cancel()
	}

	if err := a.services.Start(a.ctx, onFatalError); err != nil {
		return err
	}

	log.Info().
		Str("driver", a.cfg.Hardware.Driver).
		Dur("loop_interval", a.cfg.Loop.Interval.Duration()).
		Bool("scripted", a.cfg.Script != "").
		Msg("Robot controller started")
	return nil
}

// Stop cancels the run context and shuts the services down. The control
// loop neutralizes the rig on its way out, so the hardware is left parked.
func (a *App) Stop() error {
	log.Info().Msg("Stopping robot controller")

	if a.cancel != nil {
		a.cancel()
	}

	if a.services != nil {
		return a.services.Stop()
	}

	return nil
}

// Wait blocks until the run context is cancelled, by signal or fatal error.
func (a *App) Wait() {
	if a.ctx != nil {
		<-a.ctx.Done()
	}
}

// SignalContext creates a context that is cancelled on SIGINT or SIGTERM.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
