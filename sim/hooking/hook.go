// Package hooking lets observers attach to the simulation core without the
// core knowing who they are.
package hooking

// HookPos names a site in the simulation where hooks are invoked.
type HookPos struct {
	Name string
}

// HookCtx describes one invocation site.
type HookCtx struct {
	// Domain is the object that invoked the hook.
	Domain Hookable

	// Pos is where the hook was invoked.
	Pos *HookPos

	// Item is the subject of the invocation, such as a component or a change
	// entry. Its type depends on Pos.
	Item any

	// Detail carries extra position-specific information, may be nil.
	Detail any
}

// Hookable is an object that accepts hooks.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	Hooks() []Hook
}

// Hook is invoked by a Hookable at its hook positions.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface. A HookFunc is not
// comparable, so it can only be registered, never removed.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase implements Hookable for embedding.
type HookableBase struct {
	hookList []Hook
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns the registered hooks in registration order.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

// RemoveHook unregisters a hook. It returns false if the hook was not
// registered.
func (h *HookableBase) RemoveHook(hook Hook) bool {
	for i, registered := range h.hookList {
		if sameHook(registered, hook) {
			h.hookList = append(h.hookList[:i], h.hookList[i+1:]...)
			return true
		}
	}

	return false
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	for _, registered := range h.hookList {
		if sameHook(registered, hook) {
			panic("duplicated hook")
		}
	}
}

// InvokeHook calls every registered hook with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}

func sameHook(a, b Hook) bool {
	if _, isFunc := a.(HookFunc); isFunc {
		return false
	}

	if _, isFunc := b.(HookFunc); isFunc {
		return false
	}

	return a == b
}
