package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("History", func() {
	var (
		s *Simulation
		h *History
	)

	BeforeEach(func() {
		s = NewSimulation()
		h = NewHistory(s)
	})

	create := func(kind Kind, cfg ComponentConfig) ComponentID {
		cmd := NewCreateCommand(kind, cfg)
		Expect(h.Do(cmd)).To(BeTrue())

		return cmd.ID()
	}

	connected := func(out, in ComponentID) bool {
		outComp, okOut := s.LookupComponent(h.Resolve(out))
		inComp, okIn := s.LookupComponent(h.Resolve(in))

		return okOut && okIn &&
			outComp.Outputs()[0].IsConnectedTo(inComp.Inputs()[0].ID())
	}

	It("should undo and redo a creation", func() {
		id := create(NotGate, ComponentConfig{Name: "inv", Delay: 4})

		Expect(h.Undo()).To(BeTrue())
		_, found := s.LookupComponent(id)
		Expect(found).To(BeFalse())
		Expect(s.NumComponents()).To(Equal(0))

		Expect(h.Redo()).To(BeTrue())
		Expect(h.Resolve(id)).NotTo(Equal(id))

		c := s.Component(h.Resolve(id))
		Expect(c.Name()).To(Equal("inv"))
		Expect(c.Delay()).To(BeNumerically("==", 4))
		Expect(h.CanRedo()).To(BeFalse())
	})

	It("should report empty stacks", func() {
		Expect(h.CanUndo()).To(BeFalse())
		Expect(h.Undo()).To(BeFalse())
		Expect(h.Redo()).To(BeFalse())
	})

	It("should undo and redo a connection", func() {
		in := create(DigitalInputKind, ComponentConfig{Initial: High})
		inv := create(NotGate, ComponentConfig{})
		Expect(h.Do(NewConnectCommand(in, 0, inv, 0, false))).To(BeTrue())
		Expect(s.Settle()).To(Succeed())

		Expect(h.Undo()).To(BeTrue())
		Expect(connected(in, inv)).To(BeFalse())
		Expect(s.Settle()).To(Succeed())
		_, outputs := s.GetState(inv)
		Expect(outputs).To(Equal([]int{1}))

		Expect(h.Redo()).To(BeTrue())
		Expect(connected(in, inv)).To(BeTrue())
		Expect(s.Settle()).To(Succeed())
		_, outputs = s.GetState(inv)
		Expect(outputs).To(Equal([]int{0}))
	})

	It("should not record a command that changes nothing", func() {
		in := create(DigitalInputKind, ComponentConfig{})
		inv := create(NotGate, ComponentConfig{})
		other := create(NotGate, ComponentConfig{})
		Expect(h.Do(NewConnectCommand(in, 0, inv, 0, false))).To(BeTrue())

		Expect(h.Do(NewConnectCommand(inv, 0, in, 0, true))).To(BeFalse())
		Expect(h.Do(NewDisconnectCommand(in, 0, other, 0, false))).To(BeFalse())

		Expect(h.Undo()).To(BeTrue())
		Expect(connected(in, inv)).To(BeFalse())
	})

	It("should drop the redo stack on a new command", func() {
		create(NotGate, ComponentConfig{})
		Expect(h.Undo()).To(BeTrue())
		Expect(h.CanRedo()).To(BeTrue())

		create(AndGate, ComponentConfig{})

		Expect(h.CanRedo()).To(BeFalse())
	})

	It("should restore a removed component with its edges and level", func() {
		in := create(DigitalInputKind, ComponentConfig{Name: "in", Initial: High})
		inv := create(NotGate, ComponentConfig{})
		out := create(DigitalOutputKind, ComponentConfig{})
		Expect(h.Do(NewConnectCommand(in, 0, inv, 0, false))).To(BeTrue())
		Expect(h.Do(NewConnectCommand(inv, 0, out, 0, false))).To(BeTrue())
		Expect(s.Settle()).To(Succeed())

		Expect(h.Do(NewRemoveCommand(in))).To(BeTrue())
		Expect(s.Settle()).To(Succeed())
		inputs, _ := s.GetState(out)
		Expect(inputs).To(Equal([]int{1}))

		Expect(h.Undo()).To(BeTrue())
		Expect(s.Settle()).To(Succeed())

		restored := MustComponentAs[*DigitalInput](s, h.Resolve(in))
		Expect(restored.Name()).To(Equal("in"))
		Expect(restored.State()).To(Equal(High))
		Expect(connected(in, inv)).To(BeTrue())
		inputs, _ = s.GetState(out)
		Expect(inputs).To(Equal([]int{0}))

		Expect(h.Redo()).To(BeTrue())
		_, found := s.LookupComponent(h.Resolve(in))
		Expect(found).To(BeFalse())
	})

	It("should skip edges whose far end is gone", func() {
		in := create(DigitalInputKind, ComponentConfig{})
		inv := create(NotGate, ComponentConfig{})
		out := create(DigitalOutputKind, ComponentConfig{})
		Expect(h.Do(NewConnectCommand(in, 0, inv, 0, false))).To(BeTrue())
		Expect(h.Do(NewConnectCommand(inv, 0, out, 0, false))).To(BeTrue())

		Expect(h.Do(NewRemoveCommand(inv))).To(BeTrue())
		s.RemoveComponent(out)
		Expect(h.Undo()).To(BeTrue())

		restored := s.Component(h.Resolve(inv))
		Expect(connected(in, inv)).To(BeTrue())
		Expect(restored.Outputs()[0].Connections()).To(BeEmpty())
	})

	It("should keep later commands working after a replacement", func() {
		in := create(DigitalInputKind, ComponentConfig{})
		inv := create(NotGate, ComponentConfig{})
		Expect(h.Do(NewConnectCommand(in, 0, inv, 0, false))).To(BeTrue())

		for range 3 {
			Expect(h.Undo()).To(BeTrue())
		}

		Expect(s.NumComponents()).To(Equal(0))

		for range 3 {
			Expect(h.Redo()).To(BeTrue())
		}

		Expect(s.NumComponents()).To(Equal(2))
		Expect(connected(in, inv)).To(BeTrue())
	})

	It("should undo a disconnection", func() {
		in := create(DigitalInputKind, ComponentConfig{})
		inv := create(NotGate, ComponentConfig{})
		Expect(h.Do(NewConnectCommand(in, 0, inv, 0, false))).To(BeTrue())

		Expect(h.Do(NewDisconnectCommand(in, 0, inv, 0, false))).To(BeTrue())
		Expect(connected(in, inv)).To(BeFalse())

		Expect(h.Undo()).To(BeTrue())
		Expect(connected(in, inv)).To(BeTrue())
	})

	It("should undo an input change", func() {
		in := create(DigitalInputKind, ComponentConfig{})
		inv := create(NotGate, ComponentConfig{})

		Expect(h.Do(NewSetInputCommand(in, false))).To(BeFalse())
		Expect(h.Do(NewSetInputCommand(inv, true))).To(BeFalse())
		Expect(h.Do(NewSetInputCommand(in, true))).To(BeTrue())
		Expect(MustComponentAs[*DigitalInput](s, in).State()).To(Equal(High))

		Expect(h.Undo()).To(BeTrue())
		Expect(MustComponentAs[*DigitalInput](s, in).State()).To(Equal(Low))
	})

	It("should forget everything on Clear", func() {
		create(NotGate, ComponentConfig{})

		h.Clear()

		Expect(h.CanUndo()).To(BeFalse())
		Expect(h.Simulation()).To(BeIdenticalTo(s))
	})
})
