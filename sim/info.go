package sim

import "github.com/sarchlab/digisim/sim/timing"

// SlotInfo is a snapshot of a slot.
type SlotInfo struct {
	ID          SlotID   `json:"id"`
	Index       int      `json:"index"`
	IsInput     bool     `json:"is_input"`
	State       int      `json:"state"`
	Connections []SlotID `json:"connections"`
}

// ComponentInfo is a snapshot of a component and its slots, safe to hand to
// another goroutine.
type ComponentInfo struct {
	ID          ComponentID      `json:"id"`
	Name        string           `json:"name"`
	Kind        string           `json:"kind"`
	Delay       timing.VTimeInNs `json:"delay_ns"`
	NextSimTime timing.VTimeInNs `json:"next_sim_time_ns"`
	Inputs      []SlotInfo       `json:"inputs"`
	Outputs     []SlotInfo       `json:"outputs"`
}

// InfoOf takes a snapshot of a component.
func InfoOf(c Component) ComponentInfo {
	return ComponentInfo{
		ID:          c.ID(),
		Name:        c.Name(),
		Kind:        c.Kind().String(),
		Delay:       c.Delay(),
		NextSimTime: c.NextSimTime(),
		Inputs:      slotInfos(c.Inputs()),
		Outputs:     slotInfos(c.Outputs()),
	}
}

func slotInfos(slots []*Slot) []SlotInfo {
	infos := make([]SlotInfo, len(slots))
	for i, s := range slots {
		infos[i] = SlotInfo{
			ID:          s.id,
			Index:       s.index,
			IsInput:     s.dir == Input,
			State:       s.state.Int(),
			Connections: append([]SlotID{}, s.conns...),
		}
	}

	return infos
}

// ComponentInfos snapshots every live component in creation order.
func (s *Simulation) ComponentInfos() []ComponentInfo {
	infos := make([]ComponentInfo, 0, len(s.order))
	for _, c := range s.Components() {
		infos = append(infos, InfoOf(c))
	}

	return infos
}
