package sim

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/sarchlab/digisim/sim/hooking"
	"github.com/sarchlab/digisim/sim/idgen"
	"github.com/sarchlab/digisim/sim/timing"
)

// DefaultMaxEvaluationsPerDrain is the evaluation budget of a drain when no
// option overrides it.
const DefaultMaxEvaluationsPerDrain = 100000

// A Simulation owns a graph of components, the scheduler that re-evaluates
// them and the change log that reports what happened.
//
// A Simulation is not safe for concurrent use. Callers that touch it from more
// than one goroutine must serialize access, as engine.Engine does.
type Simulation struct {
	hooking.HookableBase

	components *idgen.Arena[Component]
	slots      *idgen.Arena[*Slot]
	order      []ComponentID
	scheduler  *Scheduler
	changes    *ChangeLog
	now        timing.VTimeInNs

	maxEvaluations int
	logger         *slog.Logger

	nets      [][]ComponentID
	netsValid bool
}

// An Option customizes a Simulation.
type Option func(s *Simulation)

// WithMaxEvaluationsPerDrain sets how many components a single Drain or
// Settle may simulate.
func WithMaxEvaluationsPerDrain(n int) Option {
	if n <= 0 {
		panic("evaluation budget must be positive")
	}

	return func(s *Simulation) {
		s.maxEvaluations = n
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = l
	}
}

// NewSimulation creates an empty simulation at time 0.
func NewSimulation(opts ...Option) *Simulation {
	s := &Simulation{
		components:     idgen.NewArena[Component](),
		slots:          idgen.NewArena[*Slot](),
		scheduler:      NewScheduler(),
		changes:        NewChangeLog(),
		maxEvaluations: DefaultMaxEvaluationsPerDrain,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Now returns the current simulated time.
func (s *Simulation) Now() timing.VTimeInNs {
	return s.now
}

// Scheduler exposes the queue of pending simulations.
func (s *Simulation) Scheduler() *Scheduler {
	return s.scheduler
}

// ChangeLog exposes the change log.
func (s *Simulation) ChangeLog() *ChangeLog {
	return s.changes
}

// CreateComponent builds a component of the given kind, registers it with
// its slots and, unless the kind is passive, schedules its first simulation.
func (s *Simulation) CreateComponent(kind Kind, cfg ComponentConfig) ComponentID {
	kindMustBeKnown(kind)

	var (
		comp          Component
		numIn, numOut int
	)

	switch {
	case kind.IsGate():
		g, n := newGate(kind, cfg)
		comp, numIn, numOut = g, n, 1
	case kind == DigitalInputKind:
		comp = &DigitalInput{
			ComponentBase: newComponentBase(kind, cfg, false),
			state:         cfg.Initial,
		}
		numIn, numOut = 0, 1
	case kind == DigitalOutputKind:
		comp = &DigitalOutput{ComponentBase: newComponentBase(kind, cfg, true)}
		numIn, numOut = 1, 0
	case kind == ClockKind:
		comp = newClock(cfg)
		numIn, numOut = 0, 1
	case kind == ProbeKind:
		comp = &Probe{ComponentBase: newComponentBase(kind, cfg, true)}
		numIn, numOut = 1, 0
	}

	s.register(comp, numIn, numOut)

	return comp.ID()
}

func (s *Simulation) register(comp Component, numIn, numOut int) {
	b := comp.base()
	b.sim = s
	b.self = comp
	b.id = ComponentID{s.components.Insert(comp)}

	if b.name == "" {
		b.name = b.kind.String() + strconv.FormatUint(uint64(b.id.Index()), 10)
	}

	b.inputs = s.newSlots(comp, Input, numIn)
	b.outputs = s.newSlots(comp, Output, numOut)

	s.order = append(s.order, b.id)
	s.netsValid = false

	if s.NumHooks() > 0 {
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosComponentCreated,
			Item:   comp,
		})
	}

	if !b.passive {
		comp.ScheduleSim()
	}
}

func (s *Simulation) newSlots(owner Component, dir Direction, n int) []*Slot {
	slots := make([]*Slot, n)
	for i := range slots {
		slot := &Slot{sim: s, owner: owner, index: i, dir: dir}
		slot.id = SlotID{s.slots.Insert(slot)}
		slots[i] = slot
	}

	return slots
}

// RemoveComponent detaches every connection of the component, drops its
// pending simulations and unregisters it with its slots. Unknown or already
// removed ids are ignored.
func (s *Simulation) RemoveComponent(id ComponentID) {
	comp, found := s.components.Get(id.Handle)
	if !found {
		return
	}

	b := comp.base()
	b.removed = true
	b.nextSimTime = timing.Never

	for _, slot := range slices.Concat(b.inputs, b.outputs) {
		for _, peer := range slices.Clone(slot.conns) {
			s.detach(slot, s.mustSlot(peer))
		}
	}

	s.scheduler.Remove(id)

	for _, slot := range slices.Concat(b.inputs, b.outputs) {
		slot.removed = true
		s.slots.Remove(slot.id.Handle)
	}

	s.components.Remove(id.Handle)
	s.order = slices.DeleteFunc(s.order, func(c ComponentID) bool {
		return c == id
	})
	s.netsValid = false

	if s.NumHooks() > 0 {
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosComponentRemoved,
			Item:   comp,
		})
	}
}

// Component returns the component with the given id. It panics if the id is
// unknown or refers to a removed component.
func (s *Simulation) Component(id ComponentID) Component {
	return s.mustComponent(id)
}

// LookupComponent is the non-panicking form of Component, for ids that come
// from outside the process.
func (s *Simulation) LookupComponent(id ComponentID) (Component, bool) {
	return s.components.Get(id.Handle)
}

// Slot returns the slot with the given id. It panics if the id is unknown or
// refers to a removed slot.
func (s *Simulation) Slot(id SlotID) *Slot {
	return s.mustSlot(id)
}

// LookupSlot is the non-panicking form of Slot.
func (s *Simulation) LookupSlot(id SlotID) (*Slot, bool) {
	return s.slots.Get(id.Handle)
}

// MustComponentAs returns the component with the given id as a T. It panics
// if the id is unknown or the component is not a T.
func MustComponentAs[T Component](s *Simulation, id ComponentID) T {
	comp := s.mustComponent(id)

	typed, ok := comp.(T)
	if !ok {
		var want T
		panic(fmt.Sprintf(
			"component %s is a %s, not a %T", id, comp.Kind(), want,
		))
	}

	return typed
}

func (s *Simulation) mustComponent(id ComponentID) Component {
	comp, found := s.components.Get(id.Handle)
	componentMustExist(id, found)

	return comp
}

func (s *Simulation) mustSlot(id SlotID) *Slot {
	slot, found := s.slots.Get(id.Handle)
	slotMustExist(id, found)

	return slot
}

// Components returns the live components in creation order.
func (s *Simulation) Components() []Component {
	comps := make([]Component, len(s.order))
	for i, id := range s.order {
		comps[i] = s.mustComponent(id)
	}

	return comps
}

// NumComponents returns the number of live components.
func (s *Simulation) NumComponents() int {
	return s.components.Len()
}

// SetInputValue sets the level of a DigitalInput. It panics if the component
// is of any other kind.
func (s *Simulation) SetInputValue(id ComponentID, high bool) {
	MustComponentAs[*DigitalInput](s, id).SetValue(high)
}

// ToggleInput inverts the level of a DigitalInput.
func (s *Simulation) ToggleInput(id ComponentID) {
	MustComponentAs[*DigitalInput](s, id).Toggle()
}

// GetState returns the input and output levels of a component.
func (s *Simulation) GetState(id ComponentID) (inputs, outputs []int) {
	return s.mustComponent(id).GetState()
}

// ProbeHistory returns the samples recorded by a Probe.
func (s *Simulation) ProbeHistory(id ComponentID) []Sample {
	return MustComponentAs[*Probe](s, id).History()
}

// DrainChangeEntries returns and clears the change log.
func (s *Simulation) DrainChangeEntries() []ChangeEntry {
	return s.changes.DrainAll()
}

// Drain simulates, in time order, every queued component that is due at or
// before until, then advances the current time to until. Components that
// become due while draining, including zero-delay reactions, are simulated in
// the same call.
//
// If the evaluation budget runs out, Drain stops at the time of the last
// simulated component and returns ErrEvaluationBudgetExceeded.
func (s *Simulation) Drain(until timing.VTimeInNs) error {
	budget := s.maxEvaluations
	return s.drain(until, &budget)
}

// Settle drains until no simulation is pending, advancing time to each
// pending entry in turn. Networks with free-running clocks never settle and
// end with ErrEvaluationBudgetExceeded.
func (s *Simulation) Settle() error {
	budget := s.maxEvaluations

	for {
		t, ok := s.scheduler.Peek()
		if !ok {
			return nil
		}

		if t < s.now {
			t = s.now
		}

		if err := s.drain(t, &budget); err != nil {
			return err
		}
	}
}

func (s *Simulation) drain(until timing.VTimeInNs, budget *int) error {
	timeMustNotGoBack(s.now, until)

	for {
		comp, t, ok := s.scheduler.front()
		if !ok || t > until {
			break
		}

		b := comp.base()
		if b.removed || b.nextSimTime != t {
			s.scheduler.Pop()
			continue
		}

		if *budget <= 0 {
			return fmt.Errorf("%w at %s", ErrEvaluationBudgetExceeded, s.now)
		}

		s.scheduler.Pop()
		*budget--

		if t > s.now {
			s.now = t
		}

		s.simulate(comp)
	}

	s.now = until

	return nil
}

func (s *Simulation) simulate(comp Component) {
	comp.base().nextSimTime = timing.Never

	if s.NumHooks() == 0 {
		comp.Simulate()
		return
	}

	ctx := hooking.HookCtx{
		Domain: s,
		Pos:    HookPosBeforeSimulate,
		Item:   comp,
		Detail: s.now,
	}
	s.InvokeHook(ctx)

	comp.Simulate()

	ctx.Pos = HookPosAfterSimulate
	s.InvokeHook(ctx)
}

func (s *Simulation) recordChange(slot *Slot) {
	e := ChangeEntry{
		ComponentID: slot.owner.ID(),
		SlotIndex:   slot.index,
		State:       slot.state.Int(),
		IsInput:     slot.dir == Input,
		Time:        s.now,
	}
	s.changes.Append(e)

	if s.NumHooks() > 0 {
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosSlotStateChange,
			Item:   e,
			Detail: slot,
		})
	}
}

// Reset removes every component and slot, empties the scheduler and the
// change log and rewinds time to 0. Hooks stay registered. Ids issued before
// the reset never resolve again.
func (s *Simulation) Reset() {
	s.components.Each(func(_ idgen.Handle, c Component) {
		b := c.base()
		b.removed = true
		b.nextSimTime = timing.Never

		for _, slot := range slices.Concat(b.inputs, b.outputs) {
			slot.removed = true
		}
	})

	s.components.Clear()
	s.slots.Clear()
	s.order = nil
	s.scheduler.Clear()
	s.changes.Clear()
	s.now = 0
	s.nets = nil
	s.netsValid = false
}
