package tracing

import (
	"sync"

	"github.com/sarchlab/digisim/sim"
	"github.com/sarchlab/digisim/sim/hooking"
)

// EvaluationCounter counts simulations per component kind and slot changes.
// It may be read from another goroutine while the simulation runs.
type EvaluationCounter struct {
	lock        sync.Mutex
	evaluations map[sim.Kind]uint64
	changes     uint64
}

// NewEvaluationCounter creates a counter with every count at zero.
func NewEvaluationCounter() *EvaluationCounter {
	return &EvaluationCounter{
		evaluations: make(map[sim.Kind]uint64),
	}
}

// Func updates the counts.
func (c *EvaluationCounter) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosBeforeSimulate:
		kind := ctx.Item.(sim.Component).Kind()

		c.lock.Lock()
		c.evaluations[kind]++
		c.lock.Unlock()
	case sim.HookPosSlotStateChange:
		c.lock.Lock()
		c.changes++
		c.lock.Unlock()
	}
}

// Evaluations returns how many times components of the kind were simulated.
func (c *EvaluationCounter) Evaluations(kind sim.Kind) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evaluations[kind]
}

// TotalEvaluations returns the number of simulations of every kind.
func (c *EvaluationCounter) TotalEvaluations() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	var total uint64
	for _, n := range c.evaluations {
		total += n
	}

	return total
}

// Changes returns the number of slot changes.
func (c *EvaluationCounter) Changes() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.changes
}

// Snapshot returns the evaluation count of every kind that was simulated,
// keyed by kind name.
func (c *EvaluationCounter) Snapshot() map[string]uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	snap := make(map[string]uint64, len(c.evaluations))
	for kind, n := range c.evaluations {
		snap[kind.String()] = n
	}

	return snap
}

// Reset sets every count back to zero.
func (c *EvaluationCounter) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	clear(c.evaluations)
	c.changes = 0
}
