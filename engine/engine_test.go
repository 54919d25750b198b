package engine

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/digisim/sim"
	"github.com/sarchlab/digisim/sim/timing"
)

type fakeWallClock struct {
	sync.Mutex
	now time.Time
}

func (c *fakeWallClock) Now() time.Time {
	c.Lock()
	defer c.Unlock()

	return c.now
}

func (c *fakeWallClock) Advance(d time.Duration) {
	c.Lock()
	defer c.Unlock()

	c.now = c.now.Add(d)
}

var _ = Describe("Engine", func() {
	var (
		wall *fakeWallClock
		e    *Engine
		ctx  context.Context
		stop context.CancelFunc
	)

	BeforeEach(func() {
		wall = &fakeWallClock{now: time.Unix(1000, 0)}
		ctx, stop = context.WithCancel(context.Background())

		// The driver period is long enough that only explicit ticks run.
		e = New(
			WithWallClock(wall.Now),
			WithTickRate(0.001*timing.Hz),
			WithLogger(slog.New(slog.NewTextHandler(GinkgoWriter, nil))),
		)
	})

	AfterEach(func() {
		e.Stop()
		stop()
	})

	It("should start stopped", func() {
		Expect(e.State()).To(Equal(Stopped))
		Expect(e.Now()).To(BeZero())
	})

	It("should refuse to start twice", func() {
		Expect(e.Start(ctx)).To(Succeed())
		Expect(e.Start(ctx)).To(MatchError(ErrAlreadyRunning))
		Expect(e.State()).To(Equal(Running))
	})

	It("should turn elapsed wall time into simulated time", func() {
		not := e.CreateComponent(sim.NotGate, sim.ComponentConfig{Delay: 1500})
		Expect(e.Start(ctx)).To(Succeed())

		wall.Advance(time.Microsecond)
		e.Tick()
		Expect(e.Now()).To(Equal(timing.VTimeInNs(1000)))
		_, out := e.GetState(not)
		Expect(out).To(Equal([]int{0}))

		wall.Advance(time.Microsecond)
		e.Tick()
		Expect(e.Now()).To(Equal(timing.VTimeInNs(2000)))
		_, out = e.GetState(not)
		Expect(out).To(Equal([]int{1}))
		Expect(e.Ticks()).To(Equal(uint64(2)))
	})

	It("should apply the time scale", func() {
		e = New(WithWallClock(wall.Now), WithTickRate(0.001*timing.Hz),
			WithTimeScale(0.5))
		Expect(e.Start(ctx)).To(Succeed())

		wall.Advance(time.Millisecond)
		e.Tick()

		Expect(e.Now()).To(Equal(timing.VTimeInNs(500_000)))
	})

	It("should not count paused wall time", func() {
		Expect(e.Start(ctx)).To(Succeed())
		wall.Advance(time.Microsecond)
		e.Tick()

		e.Pause()
		Expect(e.State()).To(Equal(Paused))
		wall.Advance(time.Hour)
		e.Tick()
		Expect(e.Now()).To(Equal(timing.VTimeInNs(1000)))

		e.Resume()
		wall.Advance(time.Microsecond)
		e.Tick()
		Expect(e.Now()).To(Equal(timing.VTimeInNs(2000)))
	})

	It("should step while paused", func() {
		in := e.CreateComponent(sim.DigitalInputKind, sim.ComponentConfig{})
		not := e.CreateComponent(sim.NotGate, sim.ComponentConfig{Delay: 50})
		Expect(e.Connect(in, 0, not, 0, false)).To(BeTrue())

		Expect(e.Step()).To(Succeed())
		Expect(e.Now()).To(BeZero())

		Expect(e.Step()).To(Succeed())
		Expect(e.Now()).To(Equal(timing.VTimeInNs(50)))
		_, out := e.GetState(not)
		Expect(out).To(Equal([]int{1}))

		Expect(e.Step()).To(Succeed())
		Expect(e.Now()).To(Equal(timing.VTimeInNs(50)))
	})

	It("should not step while running", func() {
		Expect(e.Start(ctx)).To(Succeed())

		Expect(e.Step()).To(MatchError(ErrNotPaused))
	})

	It("should stop when the context is cancelled", func() {
		Expect(e.Start(ctx)).To(Succeed())

		stop()

		Eventually(e.State).Should(Equal(Stopped))
		Expect(e.Start(context.Background())).To(Succeed())
	})

	It("should tick on its own", func() {
		e = New(WithWallClock(wall.Now), WithTickRate(1*timing.KHz))
		Expect(e.Start(ctx)).To(Succeed())

		Eventually(e.Ticks).Should(BeNumerically(">", 2))
	})

	It("should reset to an empty stopped simulation", func() {
		id := e.CreateComponent(sim.NotGate, sim.ComponentConfig{})
		Expect(e.Start(ctx)).To(Succeed())
		wall.Advance(time.Microsecond)
		e.Tick()

		e.Reset()

		Expect(e.State()).To(Equal(Stopped))
		Expect(e.Now()).To(BeZero())
		Expect(e.Components()).To(BeEmpty())
		Expect(e.DrainChangeEntries()).To(BeEmpty())
		_, found := e.Component(id)
		Expect(found).To(BeFalse())
	})

	It("should keep ticking after a budget overrun", func() {
		s := sim.NewSimulation(sim.WithMaxEvaluationsPerDrain(50))
		e = New(WithWallClock(wall.Now), WithTickRate(0.001*timing.Hz),
			WithSimulation(s))

		e.Do(func(s *sim.Simulation) {
			ids := make([]sim.ComponentID, 3)
			for i := range ids {
				ids[i] = s.CreateComponent(sim.NotGate, sim.ComponentConfig{})
			}

			for i := range ids {
				s.ConnectByComponentSlot(ids[i], 0, ids[(i+1)%3], 0, false)
			}
		})

		Expect(e.Start(ctx)).To(Succeed())
		wall.Advance(time.Microsecond)
		e.Tick()
		e.Tick()

		Expect(e.Now()).To(BeZero())
		Expect(e.Ticks()).To(Equal(uint64(2)))
		e.Do(func(s *sim.Simulation) {
			err := s.Drain(s.Now())
			Expect(errors.Is(err, sim.ErrEvaluationBudgetExceeded)).To(BeTrue())
		})
	})

	It("should expose the component API", func() {
		in := e.CreateComponent(sim.DigitalInputKind, sim.ComponentConfig{})
		out := e.CreateComponent(sim.DigitalOutputKind, sim.ComponentConfig{})
		probe := e.CreateComponent(sim.ProbeKind, sim.ComponentConfig{})
		Expect(e.Connect(out, 0, in, 0, true)).To(BeTrue())
		Expect(e.Connect(in, 0, probe, 0, false)).To(BeTrue())

		e.SetInputValue(in, true)
		Expect(e.Step()).To(Succeed())

		inputs, _ := e.GetState(out)
		Expect(inputs).To(Equal([]int{1}))
		Expect(e.ProbeHistory(probe)).To(HaveLen(1))
		Expect(e.Nets()).To(HaveLen(1))

		info, found := e.Component(out)
		Expect(found).To(BeTrue())
		Expect(info.Kind).To(Equal("DigitalOutput"))

		e.ToggleInput(in)
		Expect(e.Step()).To(Succeed())
		inputs, _ = e.GetState(out)
		Expect(inputs).To(Equal([]int{0}))

		Expect(e.Disconnect(in, 0, out, 0, false)).To(BeTrue())
		e.RemoveComponent(probe)
		Expect(e.Components()).To(HaveLen(2))
		Expect(e.Nets()).To(HaveLen(2))
	})
})

var _ = Describe("Engine input checks", func() {
	It("should refuse to set anything but a live DigitalInput", func() {
		e := New()
		in := e.CreateComponent(sim.DigitalInputKind, sim.ComponentConfig{})
		not := e.CreateComponent(sim.NotGate, sim.ComponentConfig{})

		Expect(e.TrySetInputValue(not, true)).To(BeFalse())
		Expect(e.TrySetInputValue(in, true)).To(BeTrue())

		e.RemoveComponent(in)
		Expect(e.TrySetInputValue(in, true)).To(BeFalse())
	})
})

var _ = Describe("Engine history", func() {
	It("should undo and redo commands", func() {
		e := New()
		create := sim.NewCreateCommand(sim.DigitalInputKind,
			sim.ComponentConfig{Name: "in"})

		Expect(e.Execute(create)).To(BeTrue())
		Expect(e.Components()).To(HaveLen(1))

		Expect(e.Undo()).To(BeTrue())
		Expect(e.Components()).To(BeEmpty())

		Expect(e.Redo()).To(BeTrue())
		info, found := e.Component(e.Resolve(create.ID()))
		Expect(found).To(BeTrue())
		Expect(info.Name).To(Equal("in"))
	})

	It("should forget the history on reset", func() {
		e := New()
		Expect(e.Execute(sim.NewCreateCommand(sim.NotGate,
			sim.ComponentConfig{}))).To(BeTrue())

		e.Reset()

		Expect(e.Undo()).To(BeFalse())
	})
})

var _ = Describe("Engine options", func() {
	It("should reject unusable time scales", func() {
		Expect(func() { WithTimeScale(0) }).To(Panic())
		Expect(func() { WithTimeScale(math.NaN()) }).To(Panic())
		Expect(func() { WithTimeScale(math.Inf(1)) }).To(Panic())
	})
})
