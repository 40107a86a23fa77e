package actions

import (
	"context"
)

// Context carries the capabilities an action may use during execution.
// Actions receive it instead of reaching into the rest of the controller,
// which keeps them testable with a bare context.
type Context struct {
	ctx       context.Context
	runAction func(name string, args map[string]any) error
}

// NewContext creates an action execution context
func NewContext(ctx context.Context, runAction func(name string, args map[string]any) error) *Context {
	return &Context{
		ctx:       ctx,
		runAction: runAction,
	}
}

// Ctx returns the underlying context.Context
func (c *Context) Ctx() context.Context {
	return c.ctx
}

// RunAction invokes another registered action by name. Actions use this
// to compose: a composite gesture can chain the primitives it is built from.
func (c *Context) RunAction(name string, args map[string]any) error {
	if c.runAction == nil {
		return nil
	}
	return c.runAction(name, args)
}
