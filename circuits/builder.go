// Package circuits builds small reusable networks of gates.
package circuits

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sarchlab/digisim/sim"
	"github.com/sarchlab/digisim/sim/timing"
)

// ErrUnknownCircuit is returned by BuildNamed for names not in Names.
var ErrUnknownCircuit = errors.New("unknown circuit")

// A Circuit lists the external terminals of a built network.
type Circuit struct {
	Name    string
	Inputs  []sim.ComponentID
	Outputs []sim.ComponentID
	Probes  []sim.ComponentID
}

// Builder creates circuits in a simulation.
type Builder struct {
	sim   *sim.Simulation
	delay timing.VTimeInNs
	size  int
}

// MakeBuilder creates a builder with zero gate delay and size 3.
func MakeBuilder() *Builder {
	return &Builder{size: 3}
}

// WithSimulation sets the simulation that receives the components.
func (b *Builder) WithSimulation(s *sim.Simulation) *Builder {
	b.sim = s
	return b
}

// WithDelay sets the delay of every gate.
func (b *Builder) WithDelay(d timing.VTimeInNs) *Builder {
	b.delay = d
	return b
}

// WithSize sets the number of stages of ring oscillators and NOT chains.
func (b *Builder) WithSize(n int) *Builder {
	b.size = n
	return b
}

var catalog = map[string]func(b *Builder, name string) Circuit{
	"half-adder":      (*Builder).BuildHalfAdder,
	"full-adder":      (*Builder).BuildFullAdder,
	"sr-latch":        (*Builder).BuildSRLatch,
	"ring-oscillator": (*Builder).BuildRingOscillator,
	"not-chain":       (*Builder).BuildNotChain,
}

// Names lists the circuits BuildNamed knows, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}

	slices.Sort(names)

	return names
}

// BuildNamed builds one of the circuits listed by Names.
func (b *Builder) BuildNamed(kind, name string) (Circuit, error) {
	build, ok := catalog[kind]
	if !ok {
		return Circuit{}, fmt.Errorf("%w %q", ErrUnknownCircuit, kind)
	}

	return build(b, name), nil
}

func (b *Builder) mustHaveSimulation() {
	if b.sim == nil {
		panic("circuit builder has no simulation")
	}
}

func (b *Builder) input(name string) sim.ComponentID {
	return b.sim.CreateComponent(sim.DigitalInputKind,
		sim.ComponentConfig{Name: name})
}

func (b *Builder) output(name string) sim.ComponentID {
	return b.sim.CreateComponent(sim.DigitalOutputKind,
		sim.ComponentConfig{Name: name})
}

func (b *Builder) gate(kind sim.Kind, name string) sim.ComponentID {
	return b.sim.CreateComponent(kind,
		sim.ComponentConfig{Name: name, Delay: b.delay})
}

// wire connects output 0 of from to input i of to.
func (b *Builder) wire(from sim.ComponentID, to sim.ComponentID, i int) {
	b.sim.ConnectByComponentSlot(from, 0, to, i, false)
}

// BuildHalfAdder adds a and b into sum and carry.
func (b *Builder) BuildHalfAdder(name string) Circuit {
	b.mustHaveSimulation()

	inA := b.input(name + ".a")
	inB := b.input(name + ".b")
	xor := b.gate(sim.XorGate, name+".xor")
	and := b.gate(sim.AndGate, name+".and")
	sum := b.output(name + ".sum")
	carry := b.output(name + ".carry")

	b.wire(inA, xor, 0)
	b.wire(inA, and, 0)
	b.wire(inB, xor, 1)
	b.wire(inB, and, 1)
	b.wire(xor, sum, 0)
	b.wire(and, carry, 0)

	return Circuit{
		Name:    name,
		Inputs:  []sim.ComponentID{inA, inB},
		Outputs: []sim.ComponentID{sum, carry},
	}
}

// BuildFullAdder adds a, b and cin into sum and cout.
func (b *Builder) BuildFullAdder(name string) Circuit {
	b.mustHaveSimulation()

	inA := b.input(name + ".a")
	inB := b.input(name + ".b")
	cin := b.input(name + ".cin")

	xor1 := b.gate(sim.XorGate, name+".xor1")
	xor2 := b.gate(sim.XorGate, name+".xor2")
	and1 := b.gate(sim.AndGate, name+".and1")
	and2 := b.gate(sim.AndGate, name+".and2")
	or := b.gate(sim.OrGate, name+".or")

	sum := b.output(name + ".sum")
	cout := b.output(name + ".cout")

	b.wire(inA, xor1, 0)
	b.wire(inB, xor1, 1)
	b.wire(inA, and1, 0)
	b.wire(inB, and1, 1)
	b.wire(xor1, xor2, 0)
	b.wire(cin, xor2, 1)
	b.wire(xor1, and2, 0)
	b.wire(cin, and2, 1)
	b.wire(and1, or, 0)
	b.wire(and2, or, 1)
	b.wire(xor2, sum, 0)
	b.wire(or, cout, 0)

	return Circuit{
		Name:    name,
		Inputs:  []sim.ComponentID{inA, inB, cin},
		Outputs: []sim.ComponentID{sum, cout},
	}
}

// BuildSRLatch builds a latch from two cross-coupled NOR gates. It comes up
// with q set.
func (b *Builder) BuildSRLatch(name string) Circuit {
	b.mustHaveSimulation()

	set := b.input(name + ".s")
	reset := b.input(name + ".r")
	norQ := b.gate(sim.NorGate, name+".nor_q")
	norQBar := b.gate(sim.NorGate, name+".nor_qbar")
	q := b.output(name + ".q")
	qBar := b.output(name + ".qbar")

	b.wire(reset, norQ, 0)
	b.wire(set, norQBar, 0)
	b.wire(norQ, norQBar, 1)
	b.wire(norQBar, norQ, 1)
	b.wire(norQ, q, 0)
	b.wire(norQBar, qBar, 0)

	return Circuit{
		Name:    name,
		Inputs:  []sim.ComponentID{set, reset},
		Outputs: []sim.ComponentID{q, qBar},
	}
}

// BuildRingOscillator closes an odd number of NOT gates into a loop and
// probes the last one. The gate delay must be positive.
func (b *Builder) BuildRingOscillator(name string) Circuit {
	b.mustHaveSimulation()

	if b.size < 3 || b.size%2 == 0 {
		panic(fmt.Sprintf("ring oscillator needs an odd size of at least 3, got %d",
			b.size))
	}

	if b.delay == 0 {
		panic("ring oscillator needs a positive gate delay")
	}

	gates := make([]sim.ComponentID, b.size)
	for i := range gates {
		gates[i] = b.gate(sim.NotGate, fmt.Sprintf("%s.not%d", name, i))
	}

	for i := range gates {
		b.wire(gates[i], gates[(i+1)%len(gates)], 0)
	}

	probe := b.sim.CreateComponent(sim.ProbeKind,
		sim.ComponentConfig{Name: name + ".probe"})
	b.wire(gates[len(gates)-1], probe, 0)

	return Circuit{
		Name:   name,
		Probes: []sim.ComponentID{probe},
	}
}

// BuildNotChain connects an input to an output through a line of NOT gates.
func (b *Builder) BuildNotChain(name string) Circuit {
	b.mustHaveSimulation()

	if b.size < 1 {
		panic(fmt.Sprintf("not chain needs at least one gate, got %d", b.size))
	}

	in := b.input(name + ".in")
	prev := in

	for i := 0; i < b.size; i++ {
		g := b.gate(sim.NotGate, fmt.Sprintf("%s.not%d", name, i))
		b.wire(prev, g, 0)
		prev = g
	}

	out := b.output(name + ".out")
	b.wire(prev, out, 0)

	return Circuit{
		Name:    name,
		Inputs:  []sim.ComponentID{in},
		Outputs: []sim.ComponentID{out},
	}
}
