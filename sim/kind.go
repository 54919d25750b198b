package sim

import (
	"fmt"

	"github.com/sarchlab/digisim/sim/timing"
)

// Kind enumerates the components a Simulation can create.
type Kind int

// The component kinds.
const (
	NotGate Kind = iota
	AndGate
	OrGate
	NandGate
	NorGate
	XorGate
	XnorGate
	DigitalInputKind
	DigitalOutputKind
	ClockKind
	ProbeKind
)

var kindNames = [...]string{
	NotGate:           "NotGate",
	AndGate:           "AndGate",
	OrGate:            "OrGate",
	NandGate:          "NandGate",
	NorGate:           "NorGate",
	XorGate:           "XorGate",
	XnorGate:          "XnorGate",
	DigitalInputKind:  "DigitalInput",
	DigitalOutputKind: "DigitalOutput",
	ClockKind:         "Clock",
	ProbeKind:         "Probe",
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}

	return kinds
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// ParseKind looks a kind up by its String form.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}

	return 0, fmt.Errorf("sim: unknown component kind %q", name)
}

// IsGate tells if the kind is one of the boolean gates.
func (k Kind) IsGate() bool {
	return k >= NotGate && k <= XnorGate
}

// ComponentConfig carries the optional construction parameters of a
// component. The zero value is valid for every kind.
type ComponentConfig struct {
	// Name is a diagnostic label. Defaults to the kind name followed by the
	// component index.
	Name string

	// Delay is added to the current time whenever the component schedules
	// itself for re-evaluation.
	Delay timing.VTimeInNs

	// InputCount is the number of inputs of AND, OR, NAND, NOR, XOR and XNOR
	// gates. Defaults to 2; values below 2 panic. Ignored by other kinds.
	InputCount int

	// Freq is the toggle frequency of a Clock. Defaults to 1 Hz.
	Freq timing.Freq

	// Initial is the starting value of a DigitalInput.
	Initial State
}

func kindMustBeKnown(k Kind) {
	if k < 0 || int(k) >= len(kindNames) {
		panic(fmt.Sprintf("unknown component kind %d", int(k)))
	}
}
