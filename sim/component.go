package sim

import (
	"fmt"

	"github.com/sarchlab/digisim/sim/timing"
)

// A Component is a unit of logic that owns slots and re-derives its outputs
// from its inputs when simulated.
type Component interface {
	ID() ComponentID
	Name() string
	Kind() Kind

	Inputs() []*Slot
	Outputs() []*Slot
	Input(i int) *Slot
	Output(i int) *Slot

	// NextSimTime is the time of the pending re-evaluation, or timing.Never.
	NextSimTime() timing.VTimeInNs
	Delay() timing.VTimeInNs
	SetDelay(d timing.VTimeInNs)

	// Simulate reads the inputs and drives the outputs.
	Simulate()

	// ScheduleSim asks the scheduler to simulate the component at the current
	// time plus its delay.
	ScheduleSim()

	// Remove detaches every connection of the component and unregisters it.
	// Removing twice is harmless.
	Remove()
	Removed() bool

	// GetState returns the input and output levels as 0/1 integers.
	GetState() (inputs, outputs []int)

	base() *ComponentBase
}

// ComponentBase carries what every component has in common. Concrete
// components embed it and implement Simulate.
type ComponentBase struct {
	sim         *Simulation
	self        Component
	id          ComponentID
	name        string
	kind        Kind
	inputs      []*Slot
	outputs     []*Slot
	delay       timing.VTimeInNs
	nextSimTime timing.VTimeInNs
	passive     bool
	removed     bool
}

func newComponentBase(kind Kind, cfg ComponentConfig, passive bool) *ComponentBase {
	return &ComponentBase{
		name:        cfg.Name,
		kind:        kind,
		delay:       cfg.Delay,
		nextSimTime: timing.Never,
		passive:     passive,
	}
}

func (c *ComponentBase) base() *ComponentBase {
	return c
}

// ID returns the component's identifier.
func (c *ComponentBase) ID() ComponentID {
	return c.id
}

// Name returns the diagnostic label.
func (c *ComponentBase) Name() string {
	return c.name
}

// Kind returns what the component is.
func (c *ComponentBase) Kind() Kind {
	return c.kind
}

// Inputs returns the input slots in index order.
func (c *ComponentBase) Inputs() []*Slot {
	return c.inputs
}

// Outputs returns the output slots in index order.
func (c *ComponentBase) Outputs() []*Slot {
	return c.outputs
}

// Input returns the i-th input slot. It panics if i is out of range.
func (c *ComponentBase) Input(i int) *Slot {
	slotIndexMustBeInRange(c, Input, i, len(c.inputs))
	return c.inputs[i]
}

// Output returns the i-th output slot. It panics if i is out of range.
func (c *ComponentBase) Output(i int) *Slot {
	slotIndexMustBeInRange(c, Output, i, len(c.outputs))
	return c.outputs[i]
}

// Slot returns the i-th slot of the given direction.
func (c *ComponentBase) Slot(dir Direction, i int) *Slot {
	if dir == Input {
		return c.Input(i)
	}

	return c.Output(i)
}

// NextSimTime returns the time of the pending re-evaluation.
func (c *ComponentBase) NextSimTime() timing.VTimeInNs {
	return c.nextSimTime
}

// IsScheduled tells if a re-evaluation is pending.
func (c *ComponentBase) IsScheduled() bool {
	return c.nextSimTime != timing.Never
}

// Delay returns the propagation delay.
func (c *ComponentBase) Delay() timing.VTimeInNs {
	return c.delay
}

// SetDelay changes the propagation delay used by later schedules.
func (c *ComponentBase) SetDelay(d timing.VTimeInNs) {
	c.delay = d
}

// ScheduleSim schedules a re-evaluation at now plus the delay. The newest
// schedule supersedes pending ones.
func (c *ComponentBase) ScheduleSim() {
	c.scheduleAfter(c.delay)
}

func (c *ComponentBase) scheduleAfter(d timing.VTimeInNs) {
	if c.removed {
		return
	}

	c.nextSimTime = c.sim.now.Add(d)
	c.sim.scheduler.Push(c.self, c.nextSimTime)
}

// Remove detaches and unregisters the component.
func (c *ComponentBase) Remove() {
	if c.removed {
		return
	}

	c.sim.RemoveComponent(c.id)
}

// Removed tells if the component has been removed from its simulation.
func (c *ComponentBase) Removed() bool {
	return c.removed
}

// GetState returns the input and output levels as integers.
func (c *ComponentBase) GetState() (inputs, outputs []int) {
	inputs = make([]int, len(c.inputs))
	for i, s := range c.inputs {
		inputs[i] = s.state.Int()
	}

	outputs = make([]int, len(c.outputs))
	for i, s := range c.outputs {
		outputs[i] = s.state.Int()
	}

	return inputs, outputs
}

// drive sets the i-th output, skipping the call when the level would not
// change.
func (c *ComponentBase) drive(i int, state State) {
	out := c.Output(i)
	if out.state == state {
		return
	}

	out.SetState(state)
}

func (c *ComponentBase) inputStates() []State {
	states := make([]State, len(c.inputs))
	for i, s := range c.inputs {
		states[i] = s.state
	}

	return states
}

func slotIndexMustBeInRange(c *ComponentBase, dir Direction, i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf(
			"%s %s (%s) has %d %s slots, index %d is out of range",
			c.kind, c.name, c.id, n, dir, i,
		))
	}
}
