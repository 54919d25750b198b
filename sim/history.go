package sim

// A Command is an undoable edit of a Simulation. Execute reports whether the
// edit changed anything; commands that change nothing are not recorded.
type Command interface {
	Execute(h *History) bool
	Undo(h *History)
}

// History executes commands on a Simulation and keeps undo and redo stacks.
//
// Undoing a removal or redoing a creation builds a new component, which gets
// a new id. History remembers the replacement, and commands look their ids up
// through Resolve, so later commands in the history keep working. Callers
// holding an old id can use Resolve the same way.
type History struct {
	sim      *Simulation
	undo     []Command
	redo     []Command
	replaced map[ComponentID]ComponentID
}

// NewHistory creates an empty history of s.
func NewHistory(s *Simulation) *History {
	return &History{
		sim:      s,
		replaced: make(map[ComponentID]ComponentID),
	}
}

// Simulation returns the simulation the commands edit.
func (h *History) Simulation() *Simulation {
	return h.sim
}

// Do executes cmd. If it changed the simulation it becomes undoable and the
// redo stack is dropped.
func (h *History) Do(cmd Command) bool {
	if !cmd.Execute(h) {
		return false
	}

	h.undo = append(h.undo, cmd)
	h.redo = nil

	return true
}

// Undo reverts the last command. It returns false if there is none.
func (h *History) Undo() bool {
	n := len(h.undo)
	if n == 0 {
		return false
	}

	cmd := h.undo[n-1]
	h.undo = h.undo[:n-1]
	cmd.Undo(h)
	h.redo = append(h.redo, cmd)

	return true
}

// Redo executes the last undone command again. It returns false if there is
// none.
func (h *History) Redo() bool {
	n := len(h.redo)
	if n == 0 {
		return false
	}

	cmd := h.redo[n-1]
	h.redo = h.redo[:n-1]
	cmd.Execute(h)
	h.undo = append(h.undo, cmd)

	return true
}

// CanUndo tells if Undo has a command to revert.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo tells if Redo has a command to execute.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// Clear forgets every command and replacement.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
	clear(h.replaced)
}

// Resolve follows the replacements of id to the component that currently
// stands for it.
func (h *History) Resolve(id ComponentID) ComponentID {
	for {
		next, ok := h.replaced[id]
		if !ok {
			return id
		}

		id = next
	}
}

func (h *History) lookup(id ComponentID) (Component, bool) {
	return h.sim.LookupComponent(h.Resolve(id))
}

// snapshot is enough to rebuild a removed component and its edges.
type snapshot struct {
	id     ComponentID
	kind   Kind
	config ComponentConfig

	// peers[dir][i] lists the far ends of the edges of slot i.
	inputPeers  [][]slotRef
	outputPeers [][]slotRef
}

type slotRef struct {
	comp  ComponentID
	index int
}

func (h *History) snapshotOf(c Component) *snapshot {
	snap := &snapshot{
		id:   c.ID(),
		kind: c.Kind(),
		config: ComponentConfig{
			Name:  c.Name(),
			Delay: c.Delay(),
		},
	}

	switch t := c.(type) {
	case *Gate:
		snap.config.InputCount = len(t.Inputs())
	case *DigitalInput:
		snap.config.Initial = t.State()
	case *Clock:
		snap.config.Freq = t.Freq()
	}

	snap.inputPeers = h.peersOf(c.Inputs())
	snap.outputPeers = h.peersOf(c.Outputs())

	return snap
}

func (h *History) peersOf(slots []*Slot) [][]slotRef {
	peers := make([][]slotRef, len(slots))

	for i, slot := range slots {
		for _, peerID := range slot.Connections() {
			peer := h.sim.Slot(peerID)
			peers[i] = append(peers[i],
				slotRef{comp: peer.Parent(), index: peer.Index()})
		}
	}

	return peers
}

// restore rebuilds the component of snap, reconnects the edges whose far end
// still exists and records the new id as the replacement of the old one.
func (h *History) restore(snap *snapshot) ComponentID {
	id := h.sim.CreateComponent(snap.kind, snap.config)
	h.replaced[snap.id] = id

	for i, peers := range snap.inputPeers {
		for _, p := range peers {
			if peer, ok := h.lookup(p.comp); ok {
				h.sim.ConnectByComponentSlot(id, i, peer.ID(), p.index, true)
			}
		}
	}

	for i, peers := range snap.outputPeers {
		for _, p := range peers {
			if peer, ok := h.lookup(p.comp); ok {
				h.sim.ConnectByComponentSlot(id, i, peer.ID(), p.index, false)
			}
		}
	}

	return id
}

// remove snapshots and removes the component standing for id.
func (h *History) remove(id ComponentID) (*snapshot, bool) {
	c, ok := h.lookup(id)
	if !ok {
		return nil, false
	}

	snap := h.snapshotOf(c)
	h.sim.RemoveComponent(c.ID())

	return snap, true
}

// CreateCommand creates a component.
type CreateCommand struct {
	Kind   Kind
	Config ComponentConfig

	id   ComponentID
	snap *snapshot
}

// NewCreateCommand creates a command that creates a component of kind.
func NewCreateCommand(kind Kind, cfg ComponentConfig) *CreateCommand {
	return &CreateCommand{Kind: kind, Config: cfg}
}

// ID returns the id given to the component by the first execution. Pass it
// through History.Resolve after an undo and redo.
func (c *CreateCommand) ID() ComponentID {
	return c.id
}

// Execute creates the component, or rebuilds it with its edges on redo.
func (c *CreateCommand) Execute(h *History) bool {
	if c.snap != nil {
		h.restore(c.snap)
		c.snap = nil

		return true
	}

	c.id = h.sim.CreateComponent(c.Kind, c.Config)

	return true
}

// Undo removes the component.
func (c *CreateCommand) Undo(h *History) {
	c.snap, _ = h.remove(c.id)
}

// RemoveCommand removes a component and its edges.
type RemoveCommand struct {
	ID ComponentID

	snap *snapshot
}

// NewRemoveCommand creates a command that removes id.
func NewRemoveCommand(id ComponentID) *RemoveCommand {
	return &RemoveCommand{ID: id}
}

// Execute removes the component. It returns false for unknown ids.
func (c *RemoveCommand) Execute(h *History) bool {
	snap, ok := h.remove(c.ID)
	c.snap = snap

	return ok
}

// Undo rebuilds the component with its name, delay, input level and edges.
// Probe history is not restored.
func (c *RemoveCommand) Undo(h *History) {
	if c.snap != nil {
		h.restore(c.snap)
		c.snap = nil
	}
}

// An Endpoint names a slot by component and index.
type Endpoint struct {
	Comp    ComponentID
	Index   int
	IsInput bool
}

// ConnectCommand wires two slots.
type ConnectCommand struct {
	Start Endpoint
	End   Endpoint
}

// NewConnectCommand creates a command with the arguments of
// Simulation.ConnectByComponentSlot.
func NewConnectCommand(
	startComp ComponentID, startIdx int,
	endComp ComponentID, endIdx int,
	isStartInput bool,
) *ConnectCommand {
	return &ConnectCommand{
		Start: Endpoint{Comp: startComp, Index: startIdx, IsInput: isStartInput},
		End:   Endpoint{Comp: endComp, Index: endIdx, IsInput: !isStartInput},
	}
}

// Execute connects the slots. It returns false if either component is gone
// or the connection is rejected.
func (c *ConnectCommand) Execute(h *History) bool {
	return h.link(c.Start, c.End, true)
}

// Undo disconnects the slots.
func (c *ConnectCommand) Undo(h *History) {
	h.link(c.Start, c.End, false)
}

// DisconnectCommand removes the edge between two slots.
type DisconnectCommand struct {
	Start Endpoint
	End   Endpoint
}

// NewDisconnectCommand creates a command with the arguments of
// Simulation.DisconnectByComponentSlot.
func NewDisconnectCommand(
	startComp ComponentID, startIdx int,
	endComp ComponentID, endIdx int,
	isStartInput bool,
) *DisconnectCommand {
	return &DisconnectCommand{
		Start: Endpoint{Comp: startComp, Index: startIdx, IsInput: isStartInput},
		End:   Endpoint{Comp: endComp, Index: endIdx, IsInput: !isStartInput},
	}
}

// Execute disconnects the slots. It returns false if they were not connected.
func (c *DisconnectCommand) Execute(h *History) bool {
	return h.link(c.Start, c.End, false)
}

// Undo connects the slots again.
func (c *DisconnectCommand) Undo(h *History) {
	h.link(c.Start, c.End, true)
}

func (h *History) link(a, b Endpoint, connect bool) bool {
	ca, okA := h.lookup(a.Comp)
	cb, okB := h.lookup(b.Comp)

	if !okA || !okB {
		return false
	}

	if connect {
		return h.sim.ConnectByComponentSlot(
			ca.ID(), a.Index, cb.ID(), b.Index, a.IsInput)
	}

	return h.sim.DisconnectByComponentSlot(
		ca.ID(), a.Index, cb.ID(), b.Index, a.IsInput)
}

// SetInputCommand sets the level of a DigitalInput.
type SetInputCommand struct {
	ID   ComponentID
	High bool

	old State
}

// NewSetInputCommand creates a command that sets id to high.
func NewSetInputCommand(id ComponentID, high bool) *SetInputCommand {
	return &SetInputCommand{ID: id, High: high}
}

// Execute sets the level. It returns false if id is not a DigitalInput or
// already has the level.
func (c *SetInputCommand) Execute(h *History) bool {
	comp, ok := h.lookup(c.ID)
	if !ok {
		return false
	}

	in, ok := comp.(*DigitalInput)
	if !ok || in.State() == StateOf(c.High) {
		return false
	}

	c.old = in.State()
	in.SetValue(c.High)

	return true
}

// Undo restores the previous level.
func (c *SetInputCommand) Undo(h *History) {
	if comp, ok := h.lookup(c.ID); ok {
		if in, ok := comp.(*DigitalInput); ok {
			in.SetValue(c.old.IsHigh())
		}
	}
}
