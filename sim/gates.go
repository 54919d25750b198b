package sim

// A gateFunc is the boolean function of a gate over its input levels.
type gateFunc func(in []State) State

func notFunc(in []State) State {
	return in[0].Not()
}

func andFunc(in []State) State {
	for _, s := range in {
		if s == Low {
			return Low
		}
	}

	return High
}

func orFunc(in []State) State {
	for _, s := range in {
		if s == High {
			return High
		}
	}

	return Low
}

func nandFunc(in []State) State {
	return andFunc(in).Not()
}

func norFunc(in []State) State {
	return orFunc(in).Not()
}

// xorFunc is odd parity, which is a ⊕ b for two inputs.
func xorFunc(in []State) State {
	high := 0
	for _, s := range in {
		if s == High {
			high++
		}
	}

	return StateOf(high%2 == 1)
}

func xnorFunc(in []State) State {
	return xorFunc(in).Not()
}

var gateFuncs = map[Kind]gateFunc{
	NotGate:  notFunc,
	AndGate:  andFunc,
	OrGate:   orFunc,
	NandGate: nandFunc,
	NorGate:  norFunc,
	XorGate:  xorFunc,
	XnorGate: xnorFunc,
}

// Gate is a combinational gate with one output.
type Gate struct {
	*ComponentBase

	fn gateFunc
}

// Simulate drives the output with the gate function of the inputs.
func (g *Gate) Simulate() {
	if g.removed {
		return
	}

	g.drive(0, g.fn(g.inputStates()))
}

// Eval applies the gate's boolean function to the given levels without
// touching the gate's slots.
func (g *Gate) Eval(in ...State) State {
	inputCountMustMatch(g.ComponentBase, len(in))
	return g.fn(in)
}

func newGate(kind Kind, cfg ComponentConfig) (*Gate, int) {
	n := 1
	if kind != NotGate {
		n = cfg.InputCount
		if n == 0 {
			n = 2
		}

		gateInputCountMustBeValid(kind, n)
	}

	g := &Gate{
		ComponentBase: newComponentBase(kind, cfg, false),
		fn:            gateFuncs[kind],
	}

	return g, n
}
