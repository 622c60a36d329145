package sim

// A HookPos names a place where hooks are invoked.
type HookPos struct {
	Name string
}

// HookCtx is what a hook receives. Item is the main object of the position
// (an event, a transaction, a debug bundle). Detail is optional extra data.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable is implemented by everything that invokes hooks.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	InvokeHook(ctx HookCtx)
}

// A Hook observes a Hookable. It must not change simulation state.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase keeps a list of hooks and invokes them in registration
// order. The zero value has no hooks.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns the number of registered hooks. Components check it to
// skip building hook items nobody reads.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook calls every hook with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
