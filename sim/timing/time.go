// Package timing defines simulated time and frequencies.
package timing

import (
	"math"
	"strconv"
	"time"
)

// VTimeInNs is a point or a span of simulated time, in nanoseconds.
type VTimeInNs uint64

// Never is the time of something that is not going to happen.
const Never VTimeInNs = math.MaxUint64

// FromDuration converts a wall-clock duration to simulated time. Negative
// durations become zero.
func FromDuration(d time.Duration) VTimeInNs {
	if d < 0 {
		return 0
	}

	return VTimeInNs(d)
}

// Duration converts simulated time to a time.Duration, saturating at the
// largest representable duration.
func (t VTimeInNs) Duration() time.Duration {
	if t > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}

	return time.Duration(t)
}

// Add returns t+d, saturating at Never.
func (t VTimeInNs) Add(d VTimeInNs) VTimeInNs {
	if t == Never || d >= Never-t {
		return Never
	}

	return t + d
}

// String formats the time as a duration, or "never".
func (t VTimeInNs) String() string {
	if t == Never {
		return "never"
	}

	if t > math.MaxInt64 {
		return strconv.FormatUint(uint64(t), 10) + "ns"
	}

	return time.Duration(t).String()
}
