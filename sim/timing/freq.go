package timing

import (
	"log"
	"math"
)

// Freq defines the type of frequency, in Hz.
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two consecutive ticks, rounded to the
// nearest nanosecond and never shorter than one nanosecond.
func (f Freq) Period() VTimeInNs {
	f.MustBeValid()

	p := math.Round(1e9 / float64(f))
	if p < 1 {
		return 1
	}

	return VTimeInNs(p)
}

// HalfPeriod returns the time between a rising and the next falling edge of a
// square wave at this frequency.
func (f Freq) HalfPeriod() VTimeInNs {
	f.MustBeValid()

	p := math.Round(1e9 / float64(f) / 2)
	if p < 1 {
		return 1
	}

	return VTimeInNs(p)
}

// Cycle converts a time to the number of whole cycles passed since time 0.
func (f Freq) Cycle(t VTimeInNs) uint64 {
	return uint64(t / f.Period())
}

// ThisTick returns the current tick time
//
//	               Input
//	               (          ]
//	    |----------|----------|----------|----->
//	                          |
//	                          Output
func (f Freq) ThisTick(now VTimeInNs) VTimeInNs {
	p := f.Period()
	count := (now + p - 1) / p

	return count * p
}

// NextTick returns the next tick time.
//
//	               Input
//	               [          )
//	    |----------|----------|----------|----->
//	                          |
//	                          Output
func (f Freq) NextTick(now VTimeInNs) VTimeInNs {
	p := f.Period()

	return (now/p + 1) * p
}

// NCyclesLater returns the time after N cycles, aligned to a tick.
func (f Freq) NCyclesLater(n int, now VTimeInNs) VTimeInNs {
	return f.ThisTick(now).Add(VTimeInNs(n) * f.Period())
}

// MustBeValid panics unless f is a positive, finite frequency.
func (f Freq) MustBeValid() {
	if f <= 0 || math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		log.Panicf("invalid frequency %v", float64(f))
	}
}
