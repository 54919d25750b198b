// Package idgen provides generational handles and the dense arenas that issue
// them.
//
// A Handle names one slot of an Arena together with the generation of that
// slot at the time the handle was issued. Freeing a slot bumps its generation,
// so handles that outlive the value they referred to are detected on lookup
// instead of silently resolving to whatever reused the slot.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Handle is a generational index into an Arena. The zero Handle is never
// issued.
type Handle struct {
	index uint32
	gen   uint32
}

// Index returns the arena slot that the handle refers to.
func (h Handle) Index() uint32 {
	return h.index
}

// Generation returns the generation of the slot when the handle was issued.
func (h Handle) Generation() uint32 {
	return h.gen
}

// IsZero tells if the handle is the zero value.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// String formats the handle as "index.generation".
func (h Handle) String() string {
	return strconv.FormatUint(uint64(h.index), 10) + "." +
		strconv.FormatUint(uint64(h.gen), 10)
}

// Parse reverses Handle.String.
func Parse(s string) (Handle, error) {
	idx, gen, found := strings.Cut(s, ".")
	if !found {
		return Handle{}, fmt.Errorf("idgen: malformed handle %q", s)
	}

	i, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return Handle{}, fmt.Errorf("idgen: malformed handle %q: %w", s, err)
	}

	g, err := strconv.ParseUint(gen, 10, 32)
	if err != nil {
		return Handle{}, fmt.Errorf("idgen: malformed handle %q: %w", s, err)
	}

	if g == 0 {
		return Handle{}, fmt.Errorf("idgen: handle %q has zero generation", s)
	}

	return Handle{index: uint32(i), gen: uint32(g)}, nil
}

type entry[T any] struct {
	gen  uint32
	live bool
	val  T
}

// Arena stores values in a dense slice and hands out generational handles.
// Freed slots are reused in LIFO order.
type Arena[T any] struct {
	entries []entry[T]
	free    []uint32
	live    int
}

// NewArena creates an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	a.live++

	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]

		e := &a.entries[idx]
		e.live = true
		e.val = v

		return Handle{index: idx, gen: e.gen}
	}

	a.entries = append(a.entries, entry[T]{gen: 1, live: true, val: v})

	return Handle{index: uint32(len(a.entries) - 1), gen: 1}
}

// Get returns the value behind h. The second return value is false if h was
// never issued by this arena or its slot has been freed since.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	var zero T

	if !a.Contains(h) {
		return zero, false
	}

	return a.entries[h.index].val, true
}

// Contains tells if h refers to a live value.
func (a *Arena[T]) Contains(h Handle) bool {
	if h.IsZero() || int(h.index) >= len(a.entries) {
		return false
	}

	e := a.entries[h.index]

	return e.live && e.gen == h.gen
}

// Remove frees the slot behind h. It returns false if h is not live, which
// makes double removal harmless.
func (a *Arena[T]) Remove(h Handle) bool {
	if !a.Contains(h) {
		return false
	}

	var zero T

	e := &a.entries[h.index]
	e.live = false
	e.val = zero
	e.gen++

	if e.gen == 0 {
		// Wrapped around; retire the slot rather than reissue generation 0.
		a.live--
		return true
	}

	a.free = append(a.free, h.index)
	a.live--

	return true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.live
}

// Each calls fn on every live value in slot order. fn must not insert into or
// remove from the arena.
func (a *Arena[T]) Each(fn func(h Handle, v T)) {
	for i := range a.entries {
		e := a.entries[i]
		if !e.live {
			continue
		}

		fn(Handle{index: uint32(i), gen: e.gen}, e.val)
	}
}

// Clear drops every value. Generations keep increasing so that handles issued
// before Clear stay invalid.
func (a *Arena[T]) Clear() {
	var zero T

	a.free = a.free[:0]

	for i := len(a.entries) - 1; i >= 0; i-- {
		e := &a.entries[i]
		if e.live {
			e.live = false
			e.val = zero
			e.gen++
		}

		if e.gen != 0 {
			a.free = append(a.free, uint32(i))
		}
	}

	a.live = 0
}
