package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/digisim/circuits"
	"github.com/sarchlab/digisim/config"
	"github.com/sarchlab/digisim/datarecording"
	"github.com/sarchlab/digisim/engine"
	"github.com/sarchlab/digisim/monitoring"
	"github.com/sarchlab/digisim/sim"
	"github.com/sarchlab/digisim/sim/timing"
	"github.com/sarchlab/digisim/tracing"
)

// runOptions holds the flags of the run command.
type runOptions struct {
	configPath string
	envFile    string

	circuit  string
	size     int
	delay    time.Duration
	duration time.Duration

	cfg config.Config
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a demo circuit in real time.",
		Long: `Run a demo circuit in real time until the simulated duration ` +
			`has passed or the process is interrupted.

Settings come from the defaults, the --config YAML file, the --env-file ` +
			`dotenv file, DIGISIM_* environment variables and the flags below, ` +
			`in increasing priority.

Example:
  digisim run --circuit ring-oscillator --delay 1ms --duration 1s
  digisim run --circuit sr-latch --monitor --monitor-port 3001`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath, opts.envFile)
			if err != nil {
				return err
			}

			applyFlags(cmd, &cfg, &opts.cfg)

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runCircuit(cmd.Context(), opts, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	f.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with DIGISIM_* variables")
	f.StringVar(&opts.circuit, "circuit", "ring-oscillator", "demo circuit to run")
	f.IntVar(&opts.size, "size", 3, "stages of ring oscillators and NOT chains")
	f.DurationVar(&opts.delay, "delay", time.Millisecond, "delay of every gate")
	f.DurationVar(&opts.duration, "duration", time.Second,
		"simulated time to run for, 0 runs until interrupted")

	f.Float64Var(&opts.cfg.TickRate, "tick-rate", 0, "driver ticks per second")
	f.Float64Var(&opts.cfg.TimeScale, "time-scale", 0, "simulated seconds per wall second")
	f.IntVar(&opts.cfg.MaxEvaluationsPerDrain, "max-evaluations", 0,
		"evaluation budget of one drain")
	f.StringVar(&opts.cfg.LogLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&opts.cfg.Recording.Path, "record", "", "record changes into this SQLite database")
	f.StringVar(&opts.cfg.CSVTrace.Path, "csv-trace", "", "trace changes into this CSV file")
	f.BoolVar(&opts.cfg.Monitor.Enabled, "monitor", false, "serve the monitoring API")
	f.IntVar(&opts.cfg.Monitor.Port, "monitor-port", 0, "port of the monitoring API")
	f.BoolVar(&opts.cfg.Monitor.OpenBrowser, "open-browser", false,
		"open the monitoring API in a browser")

	return cmd
}

// applyFlags copies the flags that were set on the command line into cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags *config.Config) {
	changed := cmd.Flags().Changed

	if changed("tick-rate") {
		cfg.TickRate = flags.TickRate
	}

	if changed("time-scale") {
		cfg.TimeScale = flags.TimeScale
	}

	if changed("max-evaluations") {
		cfg.MaxEvaluationsPerDrain = flags.MaxEvaluationsPerDrain
	}

	if changed("log-level") {
		cfg.LogLevel = flags.LogLevel
	}

	if changed("record") {
		cfg.Recording.Enabled = true
		cfg.Recording.Path = flags.Recording.Path
	}

	if changed("csv-trace") {
		cfg.CSVTrace.Enabled = true
		cfg.CSVTrace.Path = flags.CSVTrace.Path
	}

	if changed("monitor") {
		cfg.Monitor.Enabled = flags.Monitor.Enabled
	}

	if changed("monitor-port") {
		cfg.Monitor.Enabled = true
		cfg.Monitor.Port = flags.Monitor.Port
	}

	if changed("open-browser") {
		cfg.Monitor.OpenBrowser = flags.Monitor.OpenBrowser
	}
}

func runCircuit(ctx context.Context, opts *runOptions, cfg config.Config) error {
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level}))

	s := sim.NewSimulation(
		sim.WithMaxEvaluationsPerDrain(cfg.MaxEvaluationsPerDrain),
		sim.WithLogger(logger),
	)

	e := engine.New(
		engine.WithSimulation(s),
		engine.WithTickRate(timing.Freq(cfg.TickRate)),
		engine.WithTimeScale(cfg.TimeScale),
		engine.WithLogger(logger),
	)

	counter := tracing.NewEvaluationCounter()
	e.AcceptHook(counter)

	if level <= slog.LevelDebug {
		e.AcceptHook(tracing.NewEventLogger(logger))
	}

	if err := attachOutputs(e, cfg, logger); err != nil {
		return err
	}

	var (
		c        circuits.Circuit
		buildErr error
	)

	e.Do(func(s *sim.Simulation) {
		c, buildErr = circuits.MakeBuilder().
			WithSimulation(s).
			WithSize(opts.size).
			WithDelay(timing.FromDuration(opts.delay)).
			BuildNamed(opts.circuit, opts.circuit)
	})

	if buildErr != nil {
		return buildErr
	}

	var bar *monitoring.ProgressBar

	if cfg.Monitor.Enabled {
		m, err := startMonitor(e, counter, cfg, logger)
		if err != nil {
			return err
		}

		defer func() { _ = m.Shutdown(context.Background()) }()

		if opts.duration > 0 {
			bar = m.CreateProgressBar(opts.circuit, uint64(opts.duration))
			defer m.CompleteProgressBar(bar)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if err := e.Start(ctx); err != nil {
		return err
	}

	logger.Info("simulation started",
		"circuit", opts.circuit, "components", len(e.Components()))

	waitForDuration(ctx, e, timing.FromDuration(opts.duration), bar)
	e.Stop()

	report(os.Stdout, e, c, counter, logger)

	return nil
}

func attachOutputs(e *engine.Engine, cfg config.Config, logger *slog.Logger) error {
	if cfg.CSVTrace.Enabled {
		t, err := tracing.OpenCSVChangeTracer(cfg.CSVTrace.Path)
		if err != nil {
			return err
		}

		e.AcceptHook(t)
	}

	if cfg.Recording.Enabled {
		w, err := datarecording.New(cfg.Recording.Path, logger)
		if err != nil {
			return err
		}

		r, err := datarecording.NewChangeRecorder(w, e.RunID().String(), logger)
		if err != nil {
			return err
		}

		e.AcceptHook(r)
	}

	return nil
}

func startMonitor(
	e *engine.Engine,
	counter *tracing.EvaluationCounter,
	cfg config.Config,
	logger *slog.Logger,
) (*monitoring.Monitor, error) {
	m := monitoring.NewMonitor(e, logger).
		WithPortNumber(cfg.Monitor.Port).
		WithEvaluationCounts(counter)

	url, err := m.StartServer()
	if err != nil {
		return nil, err
	}

	if cfg.Monitor.OpenBrowser {
		m.OpenInBrowser(url + "/api/components")
	}

	return m, nil
}

// waitForDuration returns once the engine has simulated d, when ctx is done,
// or when the engine stops, for example after a reset through the monitor.
// A zero d waits for ctx or a stop only. Change entries are drained while
// waiting so that the log does not grow without bound.
func waitForDuration(
	ctx context.Context,
	e *engine.Engine,
	d timing.VTimeInNs,
	bar *monitoring.ProgressBar,
) {
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
		}

		if e.State() == engine.Stopped {
			return
		}

		e.DrainChangeEntries()

		now := e.Now()
		if bar != nil {
			bar.SetFinished(uint64(now))
		}

		if d > 0 && now >= d {
			return
		}
	}
}

func report(
	w io.Writer,
	e *engine.Engine,
	c circuits.Circuit,
	counter *tracing.EvaluationCounter,
	logger *slog.Logger,
) {
	logger.Info("simulation finished",
		"now", e.Now().String(),
		"ticks", e.Ticks(),
		"evaluations", counter.TotalEvaluations(),
		"changes", counter.Changes(),
	)

	for _, id := range c.Outputs {
		info, found := e.Component(id)
		inputs, _, stillFound := e.LookupState(id)

		if !found || !stillFound {
			logger.Warn("output removed before the report", "id", id.String())
			continue
		}

		fmt.Fprintf(w, "%s = %d\n", info.Name, inputs[0])
	}

	for _, id := range c.Probes {
		info, found := e.Component(id)
		if !found {
			logger.Warn("probe removed before the report", "id", id.String())
			continue
		}

		fmt.Fprintf(w, "%s saw %d transitions\n", info.Name, len(e.ProbeHistory(id)))
	}
}

func init() {
	rootCmd.AddCommand(newRunCommand())
}
