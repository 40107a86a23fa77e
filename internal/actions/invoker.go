package actions

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Invoker executes registered actions by name
type Invoker struct {
	registry   *Registry
	ctxFactory func(ctx context.Context) *Context
}

// NewInvoker creates an action invoker
func NewInvoker(registry *Registry, ctxFactory func(ctx context.Context) *Context) *Invoker {
	return &Invoker{
		registry:   registry,
		ctxFactory: ctxFactory,
	}
}

// Invoke looks up and executes an action
func (i *Invoker) Invoke(ctx context.Context, actionName string, args map[string]any) error {
	fn, exists := i.registry.Get(actionName)
	if !exists {
		return fmt.Errorf("action %q not found", actionName)
	}

	actionCtx := i.ctxFactory(ctx)

	log.Debug().
		Str("action", actionName).
		Interface("args", args).
		Msg("Executing action")

	return fn(actionCtx, args)
}

// HasAction checks whether an action is registered
func (i *Invoker) HasAction(name string) bool {
	return i.registry.Has(name)
}
