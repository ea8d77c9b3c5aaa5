package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, 60.0, cfg.Sim.TickRate)
	assert.Equal(t, 10*time.Second, cfg.Sim.Duration)
	assert.Equal(t, "launch", cfg.Sim.Scenario)
	assert.Empty(t, cfg.Sim.Course)
	assert.Equal(t, "hatchback", cfg.Car.Preset)
	assert.Equal(t, 30, cfg.Telemetry.Every)
	assert.Empty(t, cfg.Telemetry.PlotDir)
	assert.False(t, cfg.Telemetry.Metrics)

	require.NotNil(t, cfg.Spec)
	assert.Equal(t, "Corolla", cfg.Spec.Model)
	assert.InDelta(t, 1.0/60, cfg.TickDuration(), 1e-12)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	path := writeConfig(t, "roadster.json", `{
		"log": { "level": "debug", "pretty": false },
		"sim": { "tickRate": 120, "duration": "3s", "scenario": "brake" },
		"car": {
			"preset": "muscle",
			"overrides": {
				"weight": 1700,
				"engine": { "redline": 6900 },
				"gearbox": { "finalDrive": 3.9 }
			}
		},
		"telemetry": { "every": 5, "plotDir": "plots" }
	}`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, 120.0, cfg.Sim.TickRate)
	assert.Equal(t, 3*time.Second, cfg.Sim.Duration)
	assert.Equal(t, "brake", cfg.Sim.Scenario)
	assert.Equal(t, 5, cfg.Telemetry.Every)
	assert.Equal(t, "plots", cfg.Telemetry.PlotDir)

	assert.Equal(t, "Mustang", cfg.Spec.Model)
	assert.Equal(t, 1700.0, cfg.Spec.Weight)
	assert.Equal(t, 6900.0, cfg.Spec.Engine.Redline)
	assert.Equal(t, 3.9, cfg.Spec.Gearbox.FinalDrive)
	// untouched preset values survive the overrides
	assert.Equal(t, 6600.0, cfg.Spec.Engine.LimiterRPM)
	assert.Len(t, cfg.Spec.Gearbox.Ratios, 6)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "roadster.yaml", "car:\n  preset: coupe\nsim:\n  scenario: slalom\n")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Civic", cfg.Spec.Model)
	assert.Equal(t, "slalom", cfg.Sim.Scenario)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/roadster.json", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_UnknownPreset(t *testing.T) {
	path := writeConfig(t, "roadster.json", `{"car": {"preset": "hovercraft"}}`)
	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown car preset "hovercraft"`)
}

func TestLoad_InvalidOverrides(t *testing.T) {
	path := writeConfig(t, "roadster.json", `{"car": {"overrides": {"weight": -5}}}`)
	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "weight must be positive")
}

func TestLoad_InvalidSim(t *testing.T) {
	path := writeConfig(t, "roadster.json", `{"sim": {"tickRate": 0}, "telemetry": {"every": 0}}`)
	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sim.tickRate")
	assert.Contains(t, err.Error(), "telemetry.every")
}

func TestLoad_UnknownScenarioAndCourse(t *testing.T) {
	path := writeConfig(t, "roadster.json", `{"sim": {"scenario": "drift", "course": "oval"}}`)
	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scenario "drift"`)
	assert.Contains(t, err.Error(), `unknown course "oval"`)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ROADSTER_SIM_SCENARIO", "idle")
	t.Setenv("ROADSTER_CAR_PRESET", "saloon")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "idle", cfg.Sim.Scenario)
	assert.Equal(t, "3 Series", cfg.Spec.Model)
}

func TestLoad_FlagsWinOverFile(t *testing.T) {
	path := writeConfig(t, "roadster.json", `{"sim": {"scenario": "brake", "duration": "4s"}}`)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--sim.scenario=slalom", "--sim.course=slalom", "--log.level=warn"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "slalom", cfg.Sim.Scenario)
	assert.Equal(t, "slalom", cfg.Sim.Course)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 4*time.Second, cfg.Sim.Duration)
}
