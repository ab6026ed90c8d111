// Package config loads ls-timing settings from a config file, the
// environment and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/litescript/ls-timing/internal/geometry"
)

// Name is the config file base name searched for (ls-timing.toml, .yaml, ...).
const Name = "ls-timing"

// EnvPrefix prefixes environment overrides, e.g. LSTIMING_PLATFORM_HEIGHT.
const EnvPrefix = "LSTIMING"

// Config is the complete tool configuration.
type Config struct {
	Platform PlatformConfig `mapstructure:"platform"`
	Sweep    SweepConfig    `mapstructure:"sweep"`
	Radar    RadarConfig    `mapstructure:"radar"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
}

// PlatformConfig describes the spacecraft and earth model, in SI units.
type PlatformConfig struct {
	Height       float64 `mapstructure:"height"`
	EarthRadius  float64 `mapstructure:"earth_radius"`
	SpeedOfLight float64 `mapstructure:"speed_of_light"`
}

// SweepConfig is the PRF axis, inclusive of Start and Stop.
type SweepConfig struct {
	Start float64 `mapstructure:"start"`
	Stop  float64 `mapstructure:"stop"`
	Step  float64 `mapstructure:"step"`
}

// RadarConfig holds the transmit parameters.
type RadarConfig struct {
	DutyCycle float64 `mapstructure:"duty_cycle"`
}

// OutputConfig controls headless outputs.
type OutputConfig struct {
	Image  string `mapstructure:"image"`
	Export string `mapstructure:"export"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Default returns the configuration used when nothing else is set: the
// 500 km platform swept from 3 kHz to 20 kHz in 1 kHz steps at 10% duty.
func Default() Config {
	return Config{
		Platform: PlatformConfig{
			Height:       geometry.DefaultHeight,
			EarthRadius:  geometry.DefaultEarthRadius,
			SpeedOfLight: geometry.DefaultSpeedOfLight,
		},
		Sweep: SweepConfig{Start: 3000, Stop: 20000, Step: 1000},
		Radar: RadarConfig{DutyCycle: 0.1},
		Output: OutputConfig{
			Width:  1024,
			Height: 768,
		},
		Log: LogConfig{Level: "info"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("platform.height", d.Platform.Height)
	v.SetDefault("platform.earth_radius", d.Platform.EarthRadius)
	v.SetDefault("platform.speed_of_light", d.Platform.SpeedOfLight)
	v.SetDefault("sweep.start", d.Sweep.Start)
	v.SetDefault("sweep.stop", d.Sweep.Stop)
	v.SetDefault("sweep.step", d.Sweep.Step)
	v.SetDefault("radar.duty_cycle", d.Radar.DutyCycle)
	v.SetDefault("output.image", d.Output.Image)
	v.SetDefault("output.export", d.Output.Export)
	v.SetDefault("output.width", d.Output.Width)
	v.SetDefault("output.height", d.Output.Height)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// Load reads the configuration. If path is empty, ls-timing.* is searched for
// in the working directory and the user config directory; a missing file is
// not an error. Environment variables override file values.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, Name))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// PlatformGeometry returns the configured geometry.
func (c Config) PlatformGeometry() geometry.Platform {
	return geometry.Platform{
		Height:       c.Platform.Height,
		EarthRadius:  c.Platform.EarthRadius,
		SpeedOfLight: c.Platform.SpeedOfLight,
	}
}

// PRFAxis builds the sweep axis.
func (c Config) PRFAxis() ([]float64, error) {
	return geometry.PRFAxis(c.Sweep.Start, c.Sweep.Stop, c.Sweep.Step)
}

// Validate checks every section and reports the first problem found.
func (c Config) Validate() error {
	if err := c.PlatformGeometry().Validate(); err != nil {
		return fmt.Errorf("platform: %w", err)
	}
	if _, err := c.PRFAxis(); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	if err := geometry.RequireNonNegative("duty_cycle", c.Radar.DutyCycle); err != nil {
		return fmt.Errorf("radar: %w", err)
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return fmt.Errorf("output: image size %dx%d must be positive", c.Output.Width, c.Output.Height)
	}
	return nil
}
