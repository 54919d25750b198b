// Package monitoring serves an HTTP API that inspects and controls a running
// simulation.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/digisim/engine"
	"github.com/sarchlab/digisim/sim"
	"github.com/sarchlab/digisim/sim/timing"
)

// Target is the simulation that a Monitor controls. *engine.Engine satisfies
// it.
type Target interface {
	State() engine.RunState
	Now() timing.VTimeInNs
	Pause()
	Resume()
	Step() error
	Reset()

	Components() []sim.ComponentInfo
	Component(id sim.ComponentID) (sim.ComponentInfo, bool)
	LookupState(id sim.ComponentID) (inputs, outputs []int, found bool)
	TrySetInputValue(id sim.ComponentID, high bool) bool
	Nets() [][]sim.ComponentID
}

var _ Target = (*engine.Engine)(nil)

// EvaluationCounts reports how many times each kind of component was
// simulated. *tracing.EvaluationCounter satisfies it.
type EvaluationCounts interface {
	Snapshot() map[string]uint64
	Changes() uint64
}

// Monitor turns a simulation into an HTTP server.
type Monitor struct {
	target     Target
	counts     EvaluationCounts
	logger     *slog.Logger
	portNumber int

	profileDuration time.Duration
	server          *http.Server
	progress        progressBars
}

// NewMonitor creates a Monitor of target.
func NewMonitor(target Target, logger *slog.Logger) *Monitor {
	return &Monitor{
		target:          target,
		logger:          logger,
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// replaced by a random free port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		m.logger.Warn("monitor port not allowed, using a random port",
			"port", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithEvaluationCounts makes /api/evaluations report counts.
func (m *Monitor) WithEvaluationCounts(c EvaluationCounts) *Monitor {
	m.counts = c
	return m
}

// WithProfileDuration sets how long /api/profile samples the CPU.
func (m *Monitor) WithProfileDuration(d time.Duration) *Monitor {
	m.profileDuration = d
	return m
}

// Handler returns the router with every API route.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/now", m.now).Methods(http.MethodGet)
	api.HandleFunc("/pause", m.pause).Methods(http.MethodPost)
	api.HandleFunc("/resume", m.resume).Methods(http.MethodPost)
	api.HandleFunc("/step", m.step).Methods(http.MethodPost)
	api.HandleFunc("/reset", m.reset).Methods(http.MethodPost)
	api.HandleFunc("/components", m.listComponents).Methods(http.MethodGet)
	api.HandleFunc("/component/{id}", m.componentDetails).
		Methods(http.MethodGet)
	api.HandleFunc("/state/{id}", m.componentState).Methods(http.MethodGet)
	api.HandleFunc("/input/{id}/{value:[01]}", m.setInput).
		Methods(http.MethodPost)
	api.HandleFunc("/nets", m.listNets).Methods(http.MethodGet)
	api.HandleFunc("/evaluations", m.listEvaluations).Methods(http.MethodGet)
	api.HandleFunc("/progress", m.listProgressBars).Methods(http.MethodGet)
	api.HandleFunc("/resource", m.listResources).Methods(http.MethodGet)
	api.HandleFunc("/profile", m.collectProfile).Methods(http.MethodGet)

	return r
}

// StartServer listens on the configured port and serves in the background.
// It returns the URL of the server.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", fmt.Errorf("monitor listen: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	m.logger.Info("monitoring simulation", "url", url)

	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("monitor stopped", "error", err)
		}
	}()

	return url, nil
}

// OpenInBrowser opens url with the system browser.
func (m *Monitor) OpenInBrowser(url string) {
	browser.Stdout = os.Stderr
	if err := browser.OpenURL(url); err != nil {
		m.logger.Warn("cannot open browser", "url", url, "error", err)
	}
}

// Shutdown stops the server started by StartServer.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		m.logger.Warn("write response", "error", err)
	}
}

type nowRsp struct {
	Now   uint64 `json:"now"`
	Human string `json:"human"`
	State string `json:"state"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.target.Now()

	m.writeJSON(w, nowRsp{
		Now:   uint64(now),
		Human: now.String(),
		State: m.target.State().String(),
	})
}

func (m *Monitor) pause(w http.ResponseWriter, r *http.Request) {
	m.target.Pause()
	m.now(w, r)
}

func (m *Monitor) resume(w http.ResponseWriter, r *http.Request) {
	m.target.Resume()
	m.now(w, r)
}

func (m *Monitor) step(w http.ResponseWriter, r *http.Request) {
	err := m.target.Step()

	switch {
	case errors.Is(err, engine.ErrNotPaused):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		m.logger.Warn("step incomplete", "error", err)
	}

	m.now(w, r)
}

func (m *Monitor) reset(w http.ResponseWriter, r *http.Request) {
	m.target.Reset()
	m.now(w, r)
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, m.target.Components())
}

func (m *Monitor) componentID(w http.ResponseWriter, r *http.Request) (sim.ComponentID, bool) {
	id, err := sim.ParseComponentID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return sim.ComponentID{}, false
	}

	return id, true
}

func (m *Monitor) componentDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := m.componentID(w, r)
	if !ok {
		return
	}

	info, found := m.target.Component(id)
	if !found {
		http.Error(w, "Component not found", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&info)
	serializer.SetMaxDepth(3)

	w.Header().Set("Content-Type", "application/json")

	if err := serializer.Serialize(w); err != nil {
		m.logger.Warn("serialize component", "id", id.String(), "error", err)
	}
}

type stateRsp struct {
	Inputs  []int `json:"inputs"`
	Outputs []int `json:"outputs"`
}

func (m *Monitor) componentState(w http.ResponseWriter, r *http.Request) {
	id, ok := m.componentID(w, r)
	if !ok {
		return
	}

	inputs, outputs, found := m.target.LookupState(id)
	if !found {
		http.Error(w, "Component not found", http.StatusNotFound)
		return
	}

	m.writeJSON(w, stateRsp{Inputs: inputs, Outputs: outputs})
}

func (m *Monitor) setInput(w http.ResponseWriter, r *http.Request) {
	id, ok := m.componentID(w, r)
	if !ok {
		return
	}

	high := mux.Vars(r)["value"] == "1"
	if !m.target.TrySetInputValue(id, high) {
		http.Error(w, "Not a digital input", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (m *Monitor) listNets(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, m.target.Nets())
}

type evaluationsRsp struct {
	Evaluations map[string]uint64 `json:"evaluations"`
	Changes     uint64            `json:"changes"`
}

func (m *Monitor) listEvaluations(w http.ResponseWriter, _ *http.Request) {
	if m.counts == nil {
		http.Error(w, "Evaluation counting is off", http.StatusNotFound)
		return
	}

	m.writeJSON(w, evaluationsRsp{
		Evaluations: m.counts.Snapshot(),
		Changes:     m.counts.Changes(),
	})
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.writeJSON(w, prof)
}
