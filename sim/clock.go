package sim

import (
	"github.com/sarchlab/digisim/sim/timing"
)

// Clock is a free-running square-wave source. Every simulation inverts its
// output and schedules the next edge half a period later.
type Clock struct {
	*ComponentBase

	freq  timing.Freq
	state State
}

// Freq returns the toggle frequency.
func (c *Clock) Freq() timing.Freq {
	return c.freq
}

// SetFreq changes the frequency. The edge that is already scheduled keeps its
// time.
func (c *Clock) SetFreq(f timing.Freq) {
	f.MustBeValid()
	c.freq = f
}

// State returns the current output level.
func (c *Clock) State() State {
	return c.state
}

// Simulate produces an edge and schedules the next one.
func (c *Clock) Simulate() {
	if c.removed {
		return
	}

	c.state = c.state.Not()
	c.drive(0, c.state)
	c.scheduleAfter(c.freq.HalfPeriod())
}

func newClock(cfg ComponentConfig) *Clock {
	f := cfg.Freq
	if f == 0 {
		f = 1 * timing.Hz
	}

	f.MustBeValid()

	return &Clock{
		ComponentBase: newComponentBase(ClockKind, cfg, false),
		freq:          f,
	}
}
