package sim

import (
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gmeasure"

	"github.com/sarchlab/digisim/sim/hooking"
	"github.com/sarchlab/digisim/sim/timing"
)

var _ = Describe("Scheduler", func() {
	var (
		s     *Simulation
		sched *Scheduler
		comps []Component
	)

	BeforeEach(func() {
		s = NewSimulation()
		sched = NewScheduler()

		comps = nil
		for range 4 {
			id := s.CreateComponent(NotGate, ComponentConfig{})
			comps = append(comps, s.Component(id))
		}
	})

	It("should pop in time order", func() {
		for i := 0; i < 100; i++ {
			sched.Push(comps[i%4], timing.VTimeInNs(rand.Intn(1000)))
		}

		now := timing.VTimeInNs(0)
		for sched.Len() > 0 {
			_, t := sched.Pop()
			Expect(t).To(BeNumerically(">=", now))
			now = t
		}
	})

	It("should pop same-time entries in push order", func() {
		sched.Push(comps[2], 5)
		sched.Push(comps[0], 5)
		sched.Push(comps[1], 3)
		sched.Push(comps[3], 5)

		order := []Component{}
		for sched.Len() > 0 {
			c, _ := sched.Pop()
			order = append(order, c)
		}

		Expect(order).To(Equal(
			[]Component{comps[1], comps[2], comps[0], comps[3]}))
	})

	It("should peek without removing", func() {
		_, ok := sched.Peek()
		Expect(ok).To(BeFalse())

		sched.Push(comps[0], 9)
		sched.Push(comps[1], 4)

		t, ok := sched.Peek()
		Expect(ok).To(BeTrue())
		Expect(t).To(Equal(timing.VTimeInNs(4)))
		Expect(sched.Len()).To(Equal(2))
	})

	It("should remove every entry of a component", func() {
		sched.Push(comps[0], 1)
		sched.Push(comps[1], 2)
		sched.Push(comps[0], 3)
		sched.Push(comps[2], 0)

		Expect(sched.Remove(comps[0].ID())).To(Equal(2))
		Expect(sched.Len()).To(Equal(2))

		c, t := sched.Pop()
		Expect(c).To(Equal(comps[2]))
		Expect(t).To(Equal(timing.VTimeInNs(0)))
		c, _ = sched.Pop()
		Expect(c).To(Equal(comps[1]))
	})

	It("should clear", func() {
		sched.Push(comps[0], 1)
		sched.Clear()

		Expect(sched.Len()).To(Equal(0))
	})
})

var _ = Describe("Drain", func() {
	It("should skip stale entries", func() {
		s := NewSimulation()
		id := s.CreateComponent(NotGate, ComponentConfig{Delay: 4})
		c := s.Component(id)

		c.ScheduleSim()
		c.ScheduleSim()
		Expect(s.Scheduler().Len()).To(Equal(3))

		evaluations := 0
		s.AcceptHook(hookCounter(&evaluations))

		Expect(s.Drain(4)).To(Succeed())
		Expect(evaluations).To(Equal(1))
		Expect(s.Scheduler().Len()).To(Equal(0))
	})

	It("should leave future entries queued", func() {
		s := NewSimulation()
		s.CreateComponent(NotGate, ComponentConfig{Delay: 4})
		s.CreateComponent(NotGate, ComponentConfig{Delay: 8})

		Expect(s.Drain(6)).To(Succeed())

		t, ok := s.Scheduler().Peek()
		Expect(ok).To(BeTrue())
		Expect(t).To(Equal(timing.VTimeInNs(8)))
		Expect(s.Now()).To(Equal(timing.VTimeInNs(6)))
	})

	It("should run zero-delay reactions in the same drain", func() {
		s := NewSimulation()
		ids := make([]ComponentID, 10)
		for i := range ids {
			ids[i] = s.CreateComponent(NotGate, ComponentConfig{})
			if i > 0 {
				s.ConnectByComponentSlot(ids[i-1], 0, ids[i], 0, false)
			}
		}

		Expect(s.Drain(0)).To(Succeed())

		Expect(s.Scheduler().Len()).To(Equal(0))
		Expect(s.Component(ids[9]).Output(0).State()).To(Equal(Low))
	})

	It("should add up the delays along a chain", func() {
		s := NewSimulation()
		in := s.CreateComponent(DigitalInputKind, ComponentConfig{})
		prev := in
		for range 5 {
			id := s.CreateComponent(NotGate, ComponentConfig{Delay: 3})
			s.ConnectByComponentSlot(prev, 0, id, 0, false)
			prev = id
		}

		Expect(s.Settle()).To(Succeed())
		start := s.Now()
		Expect(s.Component(prev).Output(0).State()).To(Equal(High))

		s.ToggleInput(in)
		Expect(s.Settle()).To(Succeed())

		Expect(s.Now()).To(Equal(start + 15))
		Expect(s.Component(prev).Output(0).State()).To(Equal(Low))
	})
})

func hookCounter(n *int) hooking.HookFunc {
	return func(ctx hooking.HookCtx) {
		if ctx.Pos == HookPosBeforeSimulate {
			*n++
		}
	}
}

var _ = Describe("Scheduler throughput", Label("measurement"), func() {
	It("should drain a long inverter chain", func() {
		experiment := gmeasure.NewExperiment("inverter chain")
		AddReportEntry(experiment.Name, experiment)

		experiment.Sample(func(idx int) {
			s := NewSimulation()
			in := s.CreateComponent(DigitalInputKind, ComponentConfig{})
			prev := in
			for range 1000 {
				id := s.CreateComponent(NotGate, ComponentConfig{Delay: 1})
				s.ConnectByComponentSlot(prev, 0, id, 0, false)
				prev = id
			}
			Expect(s.Settle()).To(Succeed())

			experiment.MeasureDuration("toggle", func() {
				s.ToggleInput(in)
				Expect(s.Settle()).To(Succeed())
			})
		}, gmeasure.SamplingConfig{N: 5, Duration: 10 * time.Second})

		stats := experiment.GetStats("toggle")
		Expect(stats.DurationFor(gmeasure.StatMedian)).
			To(BeNumerically("<", 2*time.Second))
	})
})
