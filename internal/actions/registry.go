// Package actions holds the controller's named behaviors. Built-in
// sequences register at startup, Lua scripts add theirs at load time, and
// the dispatcher runs both through the same registry, so a remote key
// cannot tell a scripted gesture from a stock one.
package actions

import (
	"fmt"
	"sort"
	"sync"
)

// Func is one runnable behavior. Args carry caller-supplied parameters;
// scripted invocations pass Lua tables through as plain maps.
type Func func(ctx *Context, args map[string]any) error

// Registry maps action names to behaviors. Registration happens during
// startup and script load, lookups come from the control loop afterwards,
// hence the lock.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]Func),
	}
}

// Register adds a behavior under a unique name. Registering a taken name
// fails, so a script cannot silently shadow a built-in.
func (r *Registry) Register(name string, fn Func) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.actions[name]; taken {
		return fmt.Errorf("action %q already registered", name)
	}
	r.actions[name] = fn
	return nil
}

// Get returns the behavior registered under name.
func (r *Registry) Get(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.actions[name]
	return fn, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the registered names, sorted so diagnostics are stable.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
