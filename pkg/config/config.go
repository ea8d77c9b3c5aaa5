// Package config loads the run configuration from defaults, an optional
// file, ROADSTER_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/golangdaddy/roadster-dynamics/pkg/models"
	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
	"github.com/golangdaddy/roadster-dynamics/pkg/road"
	"github.com/golangdaddy/roadster-dynamics/pkg/sim"
)

// EnvPrefix namespaces environment overrides, e.g. ROADSTER_SIM_SCENARIO.
const EnvPrefix = "ROADSTER"

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// SimConfig holds the fixed-step loop settings
type SimConfig struct {
	TickRate float64       `json:"tickRate" mapstructure:"tickRate"` // ticks per second
	Duration time.Duration `json:"duration" mapstructure:"duration"` // headless run length
	Scenario string        `json:"scenario" mapstructure:"scenario"`
	Course   string        `json:"course" mapstructure:"course"` // cone course, empty for an open skid pad
}

// CarConfig names the preset; overrides are decoded separately onto it.
type CarConfig struct {
	Preset string `json:"preset" mapstructure:"preset"`
}

// TelemetryConfig holds the observer settings
type TelemetryConfig struct {
	Every   int    `json:"every" mapstructure:"every"` // log every n-th tick
	PlotDir string `json:"plotDir" mapstructure:"plotDir"`
	Metrics bool   `json:"metrics" mapstructure:"metrics"`
}

// Config is the resolved configuration of one run.
type Config struct {
	Log       LogConfig       `json:"log" mapstructure:"log"`
	Sim       SimConfig       `json:"sim" mapstructure:"sim"`
	Car       CarConfig       `json:"car" mapstructure:"car"`
	Telemetry TelemetryConfig `json:"telemetry" mapstructure:"telemetry"`

	// Spec is the preset with any car.overrides applied.
	Spec *car.Car `json:"-" mapstructure:"-"`
}

// TickDuration is the length of one fixed step in seconds.
func (c *Config) TickDuration() float64 {
	return 1 / c.Sim.TickRate
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetDefault("sim.tickRate", 60)
	v.SetDefault("sim.duration", "10s")
	v.SetDefault("sim.scenario", "launch")
	v.SetDefault("sim.course", "")

	v.SetDefault("car.preset", models.DefaultPreset)

	v.SetDefault("telemetry.every", 30)
	v.SetDefault("telemetry.plotDir", "")
	v.SetDefault("telemetry.metrics", false)
}

// RegisterFlags adds the flags Load knows how to bind. Flag names are the
// configuration keys.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "configuration file (json, yaml or toml)")
	fs.String("log.level", "info", "log level: trace, debug, info, warn, error")
	fs.Bool("log.pretty", true, "human-readable console logs")
	fs.Float64("sim.tickRate", 60, "simulation ticks per second")
	fs.Duration("sim.duration", 10*time.Second, "length of a headless run")
	fs.String("sim.scenario", "launch", "scripted scenario for headless runs: "+strings.Join(sim.Scenarios(), ", "))
	fs.String("sim.course", "", "cone course: "+strings.Join(road.Courses(), ", "))
	fs.String("car.preset", models.DefaultPreset, "car preset: "+strings.Join(models.CarInventory.Keys(), ", "))
	fs.Int("telemetry.every", 30, "log every n-th tick")
	fs.String("telemetry.plotDir", "", "write PNG graphs of the run to this directory")
	fs.Bool("telemetry.metrics", false, "publish OpenTelemetry metrics")
}

// Load resolves the configuration. path may be empty; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	spec, ok := models.CarInventory.Find(cfg.Car.Preset)
	if !ok {
		return nil, fmt.Errorf("unknown car preset %q, have %s", cfg.Car.Preset, strings.Join(models.CarInventory.Keys(), ", "))
	}
	if v.IsSet("car.overrides") {
		if err := v.UnmarshalKey("car.overrides", spec); err != nil {
			return nil, fmt.Errorf("decoding car.overrides: %w", err)
		}
	}
	cfg.Spec = spec

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings a run cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Sim.TickRate > 0) {
		errs = append(errs, fmt.Errorf("sim.tickRate must be positive, got %v", c.Sim.TickRate))
	}
	if c.Sim.Duration < 0 {
		errs = append(errs, fmt.Errorf("sim.duration must not be negative, got %v", c.Sim.Duration))
	}
	if _, err := sim.Scenario(c.Sim.Scenario); err != nil {
		errs = append(errs, fmt.Errorf("sim.scenario: %w", err))
	}
	if c.Sim.Course != "" {
		if _, err := road.Lookup(c.Sim.Course); err != nil {
			errs = append(errs, fmt.Errorf("sim.course: %w", err))
		}
	}
	if c.Telemetry.Every < 1 {
		errs = append(errs, fmt.Errorf("telemetry.every must be at least 1, got %d", c.Telemetry.Every))
	}
	if c.Spec == nil {
		errs = append(errs, errors.New("no car resolved"))
	} else if err := c.Spec.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("car %s: %w", c.Car.Preset, err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
