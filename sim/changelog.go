package sim

import (
	"github.com/sarchlab/digisim/sim/timing"
)

// ChangeEntry records one call to Slot.SetState.
type ChangeEntry struct {
	ComponentID ComponentID      `json:"component_id"`
	SlotIndex   int              `json:"slot_index"`
	State       int              `json:"state"`
	IsInput     bool             `json:"is_input"`
	Time        timing.VTimeInNs `json:"time"`
}

// ChangeLog accumulates change entries in the order they happen until they
// are drained. It never merges entries; a slot that flips twice produces two
// entries.
type ChangeLog struct {
	entries []ChangeEntry
}

// NewChangeLog creates an empty change log.
func NewChangeLog() *ChangeLog {
	return &ChangeLog{}
}

// Append adds an entry at the end of the log.
func (l *ChangeLog) Append(e ChangeEntry) {
	l.entries = append(l.entries, e)
}

// DrainAll returns every entry since the last drain, oldest first, and
// empties the log.
func (l *ChangeLog) DrainAll() []ChangeEntry {
	drained := l.entries
	l.entries = nil

	if drained == nil {
		return []ChangeEntry{}
	}

	return drained
}

// Len returns the number of entries waiting to be drained.
func (l *ChangeLog) Len() int {
	return len(l.entries)
}

// Clear drops every entry.
func (l *ChangeLog) Clear() {
	l.entries = nil
}
