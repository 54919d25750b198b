// Package engine drives a Simulation in wall-clock time.
//
// An Engine owns one sim.Simulation. A driver goroutine ticks at a fixed
// rate; every tick converts the wall time elapsed since the previous tick,
// scaled by the time scale, into simulated time and drains the simulation up
// to it. Every method takes the same lock, so ticks never overlap with each
// other or with mutations from callers.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sarchlab/digisim/sim"
	"github.com/sarchlab/digisim/sim/hooking"
	"github.com/sarchlab/digisim/sim/timing"
)

// ErrAlreadyRunning is returned by Start when the driver is already running.
var ErrAlreadyRunning = errors.New("engine: already running")

// ErrNotPaused is returned by Step while the driver is advancing time on its
// own.
var ErrNotPaused = errors.New("engine: step requires a paused engine")

// RunState is the lifecycle state of an Engine.
type RunState int

// The lifecycle states.
const (
	Stopped RunState = iota
	Running
	Paused
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// DefaultTickRate is the driver frequency when no option overrides it.
const DefaultTickRate = 120 * timing.Hz

// An Option customizes an Engine.
type Option func(e *Engine)

// WithTickRate sets how often the driver ticks.
func WithTickRate(f timing.Freq) Option {
	f.MustBeValid()

	return func(e *Engine) {
		e.tickRate = f
	}
}

// WithTimeScale sets how many simulated nanoseconds pass per wall-clock
// nanosecond.
func WithTimeScale(scale float64) Option {
	if !(scale > 0) || math.IsInf(scale, 1) {
		panic("time scale must be positive and finite")
	}

	return func(e *Engine) {
		e.timeScale = scale
	}
}

// WithWallClock replaces time.Now as the source of wall-clock time.
func WithWallClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.wallNow = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithSimulation makes the engine drive an existing simulation.
func WithSimulation(s *sim.Simulation) Option {
	return func(e *Engine) {
		e.sim = s
	}
}

type driver struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Engine serializes access to a Simulation and advances it in wall-clock
// time.
type Engine struct {
	mu sync.Mutex

	sim       *sim.Simulation
	history   *sim.History
	runID     xid.ID
	logger    *slog.Logger
	tickRate  timing.Freq
	timeScale float64
	wallNow   func() time.Time

	state    RunState
	lastWall time.Time
	driver   *driver
	ticks    uint64
}

// New creates a stopped engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		runID:     xid.New(),
		logger:    slog.Default(),
		tickRate:  DefaultTickRate,
		timeScale: 1,
		wallNow:   time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.sim == nil {
		e.sim = sim.NewSimulation(sim.WithLogger(e.logger))
	}

	e.history = sim.NewHistory(e.sim)

	e.logger = e.logger.With("run", e.runID.String())

	return e
}

// RunID identifies the engine in logs and recordings.
func (e *Engine) RunID() xid.ID {
	return e.runID
}

// State returns the lifecycle state.
func (e *Engine) State() RunState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Start launches the driver goroutine. The driver stops when ctx is done or
// Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.driver != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	d := &driver{cancel: cancel, done: make(chan struct{})}
	e.driver = d
	e.state = Running
	e.lastWall = e.wallNow()

	e.logger.Info("engine started",
		"tick_rate", float64(e.tickRate), "time_scale", e.timeScale)

	go e.drive(ctx, d)

	return nil
}

func (e *Engine) drive(ctx context.Context, d *driver) {
	defer close(d.done)

	ticker := time.NewTicker(e.tickRate.Period().Duration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.driverExited(d)
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

func (e *Engine) driverExited(d *driver) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.driver != d {
		return
	}

	e.driver = nil
	e.state = Stopped
	e.logger.Info("engine stopped", "now", e.sim.Now().String())
}

// Tick advances the simulation by the scaled wall time elapsed since the
// previous tick. It does nothing unless the engine is running. The driver
// calls Tick on every period; tests may call it directly.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Running {
		return
	}

	wall := e.wallNow()
	elapsed := wall.Sub(e.lastWall)
	e.lastWall = wall
	e.ticks++

	advance := timing.FromDuration(
		time.Duration(float64(elapsed) * e.timeScale))
	target := e.sim.Now().Add(advance)

	if err := e.sim.Drain(target); err != nil {
		e.logger.Warn("drain incomplete",
			"error", err, "target", target.String())
	}
}

// Ticks returns how many ticks did work.
func (e *Engine) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ticks
}

// Pause makes the driver skip its ticks until Resume. Wall time that passes
// while paused is not turned into simulated time.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Running {
		return
	}

	e.state = Paused
	e.logger.Debug("engine paused", "now", e.sim.Now().String())
}

// Resume undoes Pause.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Paused {
		return
	}

	e.state = Running
	e.lastWall = e.wallNow()
	e.logger.Debug("engine resumed", "now", e.sim.Now().String())
}

// Step advances the simulation to the next pending simulation time and
// drains it. It works on a paused or stopped engine and returns ErrNotPaused
// on a running one.
func (e *Engine) Step() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Running {
		return ErrNotPaused
	}

	t, ok := e.sim.Scheduler().Peek()
	if !ok {
		return nil
	}

	if now := e.sim.Now(); t < now {
		t = now
	}

	return e.sim.Drain(t)
}

// Stop tears the driver goroutine down and waits for it to exit.
func (e *Engine) Stop() {
	e.mu.Lock()
	d := e.driver
	e.mu.Unlock()

	if d == nil {
		return
	}

	d.cancel()
	<-d.done
}

// Reset stops the driver and empties the simulation.
func (e *Engine) Reset() {
	e.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.sim.Reset()
	e.history.Clear()
	e.state = Stopped
	e.ticks = 0
	e.logger.Info("engine reset")
}

// Do runs fn with exclusive access to the simulation.
func (e *Engine) Do(fn func(s *sim.Simulation)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn(e.sim)
}

// Execute runs an undoable command. See sim.History.Do.
func (e *Engine) Execute(cmd sim.Command) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.history.Do(cmd)
}

// Undo reverts the last command run by Execute.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.history.Undo()
}

// Redo runs the last undone command again.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.history.Redo()
}

// Resolve maps an id that undo or redo replaced to the current one.
func (e *Engine) Resolve(id sim.ComponentID) sim.ComponentID {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.history.Resolve(id)
}

// AcceptHook registers a hook on the simulation.
func (e *Engine) AcceptHook(h hooking.Hook) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sim.AcceptHook(h)
}

// CreateComponent creates a component. See sim.Simulation.CreateComponent.
func (e *Engine) CreateComponent(
	kind sim.Kind,
	cfg sim.ComponentConfig,
) sim.ComponentID {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sim.CreateComponent(kind, cfg)
}

// RemoveComponent removes a component and its connections.
func (e *Engine) RemoveComponent(id sim.ComponentID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sim.RemoveComponent(id)
}

// Connect wires the startIdx-th slot of startComp to the endIdx-th slot of
// endComp.
func (e *Engine) Connect(
	startComp sim.ComponentID, startIdx int,
	endComp sim.ComponentID, endIdx int,
	isStartInput bool,
) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sim.ConnectByComponentSlot(
		startComp, startIdx, endComp, endIdx, isStartInput)
}

// Disconnect removes the edge that Connect would have created.
func (e *Engine) Disconnect(
	startComp sim.ComponentID, startIdx int,
	endComp sim.ComponentID, endIdx int,
	isStartInput bool,
) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sim.DisconnectByComponentSlot(
		startComp, startIdx, endComp, endIdx, isStartInput)
}

// SetInputValue sets the level of a DigitalInput.
func (e *Engine) SetInputValue(id sim.ComponentID, high bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sim.SetInputValue(id, high)
}

// TrySetInputValue is SetInputValue for ids that may be stale or may not name
// a DigitalInput. It returns false instead of panicking in those cases.
func (e *Engine) TrySetInputValue(id sim.ComponentID, high bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, found := e.sim.LookupComponent(id)
	if !found {
		return false
	}

	in, ok := c.(*sim.DigitalInput)
	if !ok {
		return false
	}

	in.SetValue(high)

	return true
}

// ToggleInput inverts the level of a DigitalInput.
func (e *Engine) ToggleInput(id sim.ComponentID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sim.ToggleInput(id)
}

// DrainChangeEntries returns and clears the change log.
func (e *Engine) DrainChangeEntries() []sim.ChangeEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sim.DrainChangeEntries()
}

// GetState returns the input and output levels of a component.
func (e *Engine) GetState(id sim.ComponentID) (inputs, outputs []int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sim.GetState(id)
}

// LookupState is GetState for ids that may be stale.
func (e *Engine) LookupState(id sim.ComponentID) (inputs, outputs []int, found bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, found := e.sim.LookupComponent(id)
	if !found {
		return nil, nil, false
	}

	inputs, outputs = c.GetState()

	return inputs, outputs, true
}

// Now returns the simulated time.
func (e *Engine) Now() timing.VTimeInNs {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sim.Now()
}

// Nets returns the groups of connected components.
func (e *Engine) Nets() [][]sim.ComponentID {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sim.Nets()
}

// ProbeHistory returns the samples recorded by a Probe.
func (e *Engine) ProbeHistory(id sim.ComponentID) []sim.Sample {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sim.ProbeHistory(id)
}

// Components snapshots every component.
func (e *Engine) Components() []sim.ComponentInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sim.ComponentInfos()
}

// Component snapshots one component. The bool is false for unknown or stale
// ids.
func (e *Engine) Component(id sim.ComponentID) (sim.ComponentInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, found := e.sim.LookupComponent(id)
	if !found {
		return sim.ComponentInfo{}, false
	}

	return sim.InfoOf(c), true
}
