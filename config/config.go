// Package config loads the settings of a digisim run.
package config

import (
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment variable that overrides a setting.
const EnvPrefix = "DIGISIM_"

// Config holds the settings of a run.
type Config struct {
	TickRate               float64 `yaml:"tick_rate"`
	TimeScale              float64 `yaml:"time_scale"`
	MaxEvaluationsPerDrain int     `yaml:"max_evaluations_per_drain"`
	LogLevel               string  `yaml:"log_level"`

	Recording RecordingConfig `yaml:"recording"`
	CSVTrace  CSVTraceConfig  `yaml:"csv_trace"`
	Monitor   MonitorConfig   `yaml:"monitor"`
}

// RecordingConfig controls the SQLite recorder.
type RecordingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Path of the database. Empty picks a fresh name.
	Path string `yaml:"path"`
}

// CSVTraceConfig controls the CSV change tracer.
type CSVTraceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MonitorConfig controls the HTTP monitor.
type MonitorConfig struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port"`
	OpenBrowser bool `yaml:"open_browser"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		TickRate:               120,
		TimeScale:              1,
		MaxEvaluationsPerDrain: 100000,
		LogLevel:               "info",
	}
}

// Load builds a Config from the defaults, the YAML file at path, the dotenv
// file at envFile and the process environment, in increasing priority. Empty
// paths are skipped. A missing envFile is not an error.
//
// Load does not validate. Apply command-line overrides first, then call
// Validate.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "read config")
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}

	env := map[string]string{}

	if envFile != "" {
		fileEnv, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			env = fileEnv
		case !os.IsNotExist(err):
			return cfg, errors.Wrapf(err, "read env file %s", envFile)
		}
	}

	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}

	if err := cfg.applyEnv(env); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	for key, value := range env {
		name, ok := strings.CutPrefix(key, EnvPrefix)
		if !ok {
			continue
		}

		var err error

		switch name {
		case "TICK_RATE":
			c.TickRate, err = strconv.ParseFloat(value, 64)
		case "TIME_SCALE":
			c.TimeScale, err = strconv.ParseFloat(value, 64)
		case "MAX_EVALUATIONS":
			c.MaxEvaluationsPerDrain, err = strconv.Atoi(value)
		case "LOG_LEVEL":
			c.LogLevel = value
		case "RECORDING_PATH":
			c.Recording.Enabled = true
			c.Recording.Path = value
		case "CSV_TRACE_PATH":
			c.CSVTrace.Enabled = true
			c.CSVTrace.Path = value
		case "MONITOR_PORT":
			c.Monitor.Enabled = true
			c.Monitor.Port, err = strconv.Atoi(value)
		}

		if err != nil {
			return errors.Wrapf(err, "environment variable %s", key)
		}
	}

	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if !positiveFinite(c.TickRate) {
		return errors.Errorf("tick_rate must be positive and finite, got %g",
			c.TickRate)
	}

	if !positiveFinite(c.TimeScale) {
		return errors.Errorf("time_scale must be positive and finite, got %g",
			c.TimeScale)
	}

	if c.MaxEvaluationsPerDrain <= 0 {
		return errors.Errorf("max_evaluations_per_drain must be positive, got %d",
			c.MaxEvaluationsPerDrain)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.Monitor.Port < 0 || c.Monitor.Port > 65535 {
		return errors.Errorf("monitor port %d out of range", c.Monitor.Port)
	}

	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Level converts LogLevel to a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}

	return level, nil
}
