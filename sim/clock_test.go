package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/digisim/sim/timing"
)

var _ = Describe("Clock", func() {
	var (
		s            *Simulation
		clock, probe ComponentID
	)

	BeforeEach(func() {
		s = NewSimulation()
		clock = s.CreateComponent(ClockKind,
			ComponentConfig{Freq: 1 * timing.MHz})
		probe = s.CreateComponent(ProbeKind, ComponentConfig{})
		s.ConnectByComponentSlot(clock, 0, probe, 0, false)
	})

	It("should toggle every half period", func() {
		Expect(s.Drain(0)).To(Succeed())
		Expect(MustComponentAs[*Clock](s, clock).State()).To(Equal(High))

		Expect(s.Drain(499)).To(Succeed())
		Expect(MustComponentAs[*Clock](s, clock).State()).To(Equal(High))

		Expect(s.Drain(500)).To(Succeed())
		Expect(MustComponentAs[*Clock](s, clock).State()).To(Equal(Low))
		Expect(s.Component(clock).NextSimTime()).
			To(Equal(timing.VTimeInNs(1000)))
	})

	It("should be sampled by the probe", func() {
		Expect(s.Drain(1200)).To(Succeed())

		Expect(s.ProbeHistory(probe)).To(Equal([]Sample{
			{Time: 0, State: High},
			{Time: 500, State: Low},
			{Time: 1000, State: High},
		}))
	})

	It("should use the new frequency after the pending edge", func() {
		Expect(s.Drain(0)).To(Succeed())
		MustComponentAs[*Clock](s, clock).SetFreq(500 * timing.KHz)

		Expect(s.Drain(500)).To(Succeed())
		Expect(s.Component(clock).NextSimTime()).
			To(Equal(timing.VTimeInNs(1500)))
	})

	It("should stop when removed", func() {
		Expect(s.Drain(0)).To(Succeed())
		s.RemoveComponent(clock)

		Expect(s.Drain(10000)).To(Succeed())

		Expect(s.Scheduler().Len()).To(Equal(0))
		Expect(s.ProbeHistory(probe)).To(Equal([]Sample{
			{Time: 0, State: High},
			{Time: 0, State: Low},
		}))
	})

	It("should reject a non-positive frequency", func() {
		Expect(func() {
			MustComponentAs[*Clock](s, clock).SetFreq(0)
		}).To(Panic())
	})
})

var _ = Describe("Probe", func() {
	It("should keep only transitions", func() {
		s := NewSimulation()
		in := s.CreateComponent(DigitalInputKind, ComponentConfig{})
		probe := s.CreateComponent(ProbeKind, ComponentConfig{})
		s.ConnectByComponentSlot(in, 0, probe, 0, false)

		Expect(s.Drain(10)).To(Succeed())
		s.SetInputValue(in, true)
		Expect(s.Drain(20)).To(Succeed())
		s.SetInputValue(in, true)
		Expect(s.Drain(30)).To(Succeed())
		s.SetInputValue(in, false)
		Expect(s.Drain(40)).To(Succeed())

		Expect(s.ProbeHistory(probe)).To(Equal([]Sample{
			{Time: 0, State: Low},
			{Time: 10, State: High},
			{Time: 30, State: Low},
		}))
	})
})
