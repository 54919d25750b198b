package sim

import (
	"errors"
	"fmt"

	"github.com/sarchlab/digisim/sim/timing"
)

// ErrEvaluationBudgetExceeded is returned by Drain and Settle when more
// components were simulated in one call than the simulation allows. This is
// the symptom of a zero-delay oscillation such as a ring of inverters. The
// entries that were not processed stay queued.
var ErrEvaluationBudgetExceeded = errors.New("sim: evaluation budget exceeded")

func gateInputCountMustBeValid(kind Kind, n int) {
	if n < 2 {
		panic(fmt.Sprintf("%s needs at least 2 inputs, got %d", kind, n))
	}
}

func inputCountMustMatch(c *ComponentBase, n int) {
	if n != len(c.inputs) {
		panic(fmt.Sprintf(
			"%s %s has %d inputs, got %d levels", c.kind, c.name, len(c.inputs), n,
		))
	}
}

func timeMustNotGoBack(now, t timing.VTimeInNs) {
	if t < now {
		panic(fmt.Sprintf("cannot drain to %s, now is %s", t, now))
	}
}

func componentMustExist(id ComponentID, found bool) {
	if !found {
		panic(fmt.Sprintf("component %s not found", id))
	}
}

func slotMustExist(id SlotID, found bool) {
	if !found {
		panic(fmt.Sprintf("slot %s not found", id))
	}
}
