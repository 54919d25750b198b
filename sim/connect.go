package sim

import (
	"github.com/sarchlab/digisim/sim/hooking"
)

// Connect wires an output slot to an input slot, in either argument order,
// and pushes the output's current level into the input. It returns false and
// changes nothing if both slots have the same direction, share a parent, or
// are already connected.
func (s *Simulation) Connect(a, b SlotID) bool {
	sa, sb := s.mustSlot(a), s.mustSlot(b)

	if reason := connectRejection(sa, sb); reason != "" {
		s.logger.Debug("connect rejected",
			"from", a, "to", b, "reason", reason)
		return false
	}

	out, in := sa, sb
	if out.dir == Input {
		out, in = sb, sa
	}

	out.addConnection(in.id)
	in.addConnection(out.id)
	s.netsValid = false

	if s.NumHooks() > 0 {
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosConnect,
			Item:   Edge{From: out.id, To: in.id},
		})
	}

	in.SetState(out.state)

	return true
}

func connectRejection(a, b *Slot) string {
	switch {
	case a.dir == b.dir:
		return "same direction"
	case a.owner.ID() == b.owner.ID():
		return "same component"
	case a.IsConnectedTo(b.id):
		return "already connected"
	}

	return ""
}

// ConnectByComponentSlot wires the startIdx-th slot of startComp to the
// endIdx-th slot of endComp. isStartInput picks the direction of the start
// slot; the end slot always has the opposite direction.
func (s *Simulation) ConnectByComponentSlot(
	startComp ComponentID, startIdx int,
	endComp ComponentID, endIdx int,
	isStartInput bool,
) bool {
	start, end := s.slotPair(startComp, startIdx, endComp, endIdx, isStartInput)
	return s.Connect(start, end)
}

// Disconnect removes the edge between two slots. The input side falls back to
// the level of its remaining drivers, High if any of them is High and Low
// otherwise, and its owner is scheduled. It returns false if the slots are
// not connected.
func (s *Simulation) Disconnect(a, b SlotID) bool {
	sa, sb := s.mustSlot(a), s.mustSlot(b)

	if !sa.IsConnectedTo(b) {
		s.logger.Debug("disconnect rejected",
			"from", a, "to", b, "reason", "not connected")
		return false
	}

	s.detach(sa, sb)

	return true
}

// DisconnectByComponentSlot is the component/index form of Disconnect.
func (s *Simulation) DisconnectByComponentSlot(
	startComp ComponentID, startIdx int,
	endComp ComponentID, endIdx int,
	isStartInput bool,
) bool {
	start, end := s.slotPair(startComp, startIdx, endComp, endIdx, isStartInput)
	return s.Disconnect(start, end)
}

func (s *Simulation) slotPair(
	startComp ComponentID, startIdx int,
	endComp ComponentID, endIdx int,
	isStartInput bool,
) (SlotID, SlotID) {
	startDir, endDir := Output, Input
	if isStartInput {
		startDir, endDir = Input, Output
	}

	start := s.mustComponent(startComp).base().Slot(startDir, startIdx)
	end := s.mustComponent(endComp).base().Slot(endDir, endIdx)

	return start.id, end.id
}

// detach drops the edge from both sides and re-resolves the input end unless
// it belongs to a component that is being removed.
func (s *Simulation) detach(a, b *Slot) {
	a.removeConnection(b.id)
	b.removeConnection(a.id)
	s.netsValid = false

	out, in := a, b
	if out.dir == Input {
		out, in = b, a
	}

	if s.NumHooks() > 0 {
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosDisconnect,
			Item:   Edge{From: out.id, To: in.id},
		})
	}

	if in.owner.Removed() {
		return
	}

	if level := in.resolvedInput(); level != in.state {
		in.SetState(level)
		return
	}

	in.owner.ScheduleSim()
}
