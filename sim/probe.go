package sim

import (
	"slices"

	"github.com/sarchlab/digisim/sim/timing"
)

// Sample is a level observed by a probe at a simulated time.
type Sample struct {
	Time  timing.VTimeInNs `json:"time"`
	State State            `json:"state"`
}

// Probe is a passive sink that keeps the history of the level on its input.
// Only transitions are kept; the first sample is taken on the first
// simulation.
type Probe struct {
	*ComponentBase

	history []Sample
}

// History returns a copy of the recorded samples.
func (p *Probe) History() []Sample {
	return slices.Clone(p.history)
}

// Simulate records the input level if it differs from the last sample.
func (p *Probe) Simulate() {
	if p.removed {
		return
	}

	s := p.inputs[0].state
	if n := len(p.history); n > 0 && p.history[n-1].State == s {
		return
	}

	p.history = append(p.history, Sample{Time: p.sim.now, State: s})
}
