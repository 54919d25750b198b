package sim

import (
	"slices"
)

// A Slot is an input or output terminal of exactly one component.
type Slot struct {
	sim     *Simulation
	owner   Component
	id      SlotID
	index   int
	dir     Direction
	state   State
	conns   []SlotID
	removed bool
}

// ID returns the slot's identifier.
func (s *Slot) ID() SlotID {
	return s.id
}

// Parent returns the identifier of the owning component.
func (s *Slot) Parent() ComponentID {
	return s.owner.ID()
}

// Owner returns the owning component.
func (s *Slot) Owner() Component {
	return s.owner
}

// Index returns the position of the slot among the owner's slots of the same
// direction.
func (s *Slot) Index() int {
	return s.index
}

// Direction returns whether the slot is an input or an output.
func (s *Slot) Direction() Direction {
	return s.dir
}

// IsInput tells if the slot is an input.
func (s *Slot) IsInput() bool {
	return s.dir == Input
}

// State returns the current level.
func (s *Slot) State() State {
	return s.state
}

// IsHigh tells if the current level is High.
func (s *Slot) IsHigh() bool {
	return s.state == High
}

// StateInt returns the current level as 0 or 1.
func (s *Slot) StateInt() int {
	return s.state.Int()
}

// Connections returns the peers of the slot in the order they were connected.
// The returned slice must not be modified.
func (s *Slot) Connections() []SlotID {
	return s.conns
}

// IsConnectedTo tells if there is an edge between s and peer.
func (s *Slot) IsConnectedTo(peer SlotID) bool {
	return slices.Contains(s.conns, peer)
}

// SetState assigns the level and records the transition in the change log.
// An input then schedules its owner for re-evaluation. An output pushes the
// level to every connected input before returning.
//
// Setting the state of a removed slot does nothing.
func (s *Slot) SetState(state State) {
	if s.removed {
		return
	}

	s.state = state
	s.sim.recordChange(s)

	if s.dir == Input {
		s.owner.ScheduleSim()
		return
	}

	for _, peerID := range s.conns {
		s.sim.mustSlot(peerID).SetState(state)
	}
}

// addConnection and removeConnection only touch this side of the edge. The
// Simulation keeps both sides in sync.
func (s *Slot) addConnection(peer SlotID) {
	s.conns = append(s.conns, peer)
}

func (s *Slot) removeConnection(peer SlotID) bool {
	i := slices.Index(s.conns, peer)
	if i < 0 {
		return false
	}

	s.conns = slices.Delete(s.conns, i, i+1)

	return true
}

// resolvedInput is the level an input sees from its current drivers: High if
// any driver is High, Low otherwise or when nothing drives it.
func (s *Slot) resolvedInput() State {
	for _, peerID := range s.conns {
		if s.sim.mustSlot(peerID).state == High {
			return High
		}
	}

	return Low
}
