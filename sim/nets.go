package sim

// Nets groups the live components by connectivity. Two components share a
// net when a chain of edges joins them. A component with no edges is a net on
// its own. Nets are ordered by their earliest created member and members are
// in creation order.
func (s *Simulation) Nets() [][]ComponentID {
	s.buildNets()

	nets := make([][]ComponentID, len(s.nets))
	for i, n := range s.nets {
		nets[i] = append([]ComponentID(nil), n...)
	}

	return nets
}

// NetOf returns the net that contains the component.
func (s *Simulation) NetOf(id ComponentID) []ComponentID {
	s.mustComponent(id)
	s.buildNets()

	for _, n := range s.nets {
		for _, member := range n {
			if member == id {
				return append([]ComponentID(nil), n...)
			}
		}
	}

	return nil
}

func (s *Simulation) buildNets() {
	if s.netsValid {
		return
	}

	netOf := make(map[ComponentID]int, len(s.order))
	s.nets = s.nets[:0]

	for _, id := range s.order {
		if _, seen := netOf[id]; seen {
			continue
		}

		net := len(s.nets)
		members := s.collectNet(id, net, netOf)
		s.nets = append(s.nets, members)
	}

	for i, n := range s.nets {
		s.nets[i] = s.inCreationOrder(n)
	}

	s.netsValid = true
}

func (s *Simulation) collectNet(
	start ComponentID,
	net int,
	netOf map[ComponentID]int,
) []ComponentID {
	members := []ComponentID{start}
	netOf[start] = net

	for next := 0; next < len(members); next++ {
		b := s.mustComponent(members[next]).base()

		for _, slot := range b.inputs {
			members = s.visitPeers(slot, net, netOf, members)
		}

		for _, slot := range b.outputs {
			members = s.visitPeers(slot, net, netOf, members)
		}
	}

	return members
}

func (s *Simulation) visitPeers(
	slot *Slot,
	net int,
	netOf map[ComponentID]int,
	members []ComponentID,
) []ComponentID {
	for _, peerID := range slot.conns {
		owner := s.mustSlot(peerID).owner.ID()
		if _, seen := netOf[owner]; seen {
			continue
		}

		netOf[owner] = net
		members = append(members, owner)
	}

	return members
}

func (s *Simulation) inCreationOrder(members []ComponentID) []ComponentID {
	if len(members) < 2 {
		return members
	}

	in := make(map[ComponentID]bool, len(members))
	for _, m := range members {
		in[m] = true
	}

	sorted := make([]ComponentID, 0, len(members))
	for _, id := range s.order {
		if in[id] {
			sorted = append(sorted, id)
		}
	}

	return sorted
}
