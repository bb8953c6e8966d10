// Package config loads runtime settings from defaults, an optional config
// file, and LSLUNAR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/litescript/ls-lunar/internal/orbit"
	"github.com/litescript/ls-lunar/internal/state"
)

// EnvPrefix is prepended to environment overrides, e.g. LSLUNAR_ZOOM.
const EnvPrefix = "LSLUNAR"

// Config holds every tunable the command reads at startup.
type Config struct {
	Speed    float64 `mapstructure:"speed"`
	Zoom     float64 `mapstructure:"zoom"`
	Trails   bool    `mapstructure:"trails"`
	TrailCap int     `mapstructure:"trailCap"`
	FPS      int     `mapstructure:"fps"`
	LogLevel string  `mapstructure:"logLevel"`
	Log      LogConfig
	Serve    ServeConfig
}

// LogConfig controls where log lines go.
type LogConfig struct {
	File string `mapstructure:"file"`
}

// ServeConfig controls the frame stream server.
type ServeConfig struct {
	Addr            string `mapstructure:"addr"`
	MaxClientsPerIP int    `mapstructure:"maxClientsPerIP"`
	MaxFPS          int    `mapstructure:"maxFPS"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("speed", orbit.BaseSpeed)
	v.SetDefault("zoom", 1.0)
	v.SetDefault("trails", true)
	v.SetDefault("trailCap", orbit.DefaultTrailCap)
	v.SetDefault("fps", 30)
	v.SetDefault("logLevel", "info")

	v.SetDefault("log.file", "")

	v.SetDefault("serve.addr", "")
	v.SetDefault("serve.maxClientsPerIP", 4)
	v.SetDefault("serve.maxFPS", 30)
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks numeric settings for values the simulation cannot use.
func (c *Config) Validate() error {
	var errs []error
	if !finite(c.Speed) {
		errs = append(errs, fmt.Errorf("speed must be a finite number, got %v", c.Speed))
	}
	if !finite(c.Zoom) || c.Zoom <= 0 {
		errs = append(errs, fmt.Errorf("zoom must be a positive finite number, got %v", c.Zoom))
	}
	if c.FPS < 1 || c.FPS > 120 {
		errs = append(errs, fmt.Errorf("fps must be between 1 and 120, got %d", c.FPS))
	}
	if c.TrailCap < 1 {
		errs = append(errs, fmt.Errorf("trailCap must be at least 1, got %d", c.TrailCap))
	}
	if c.Serve.MaxFPS < 1 {
		errs = append(errs, fmt.Errorf("serve.maxFPS must be at least 1, got %d", c.Serve.MaxFPS))
	}
	return errors.Join(errs...)
}

// TickInterval is the wall time between animation ticks.
func (c *Config) TickInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.FPS)
}

// StateConfig builds the state manager configuration.
func (c *Config) StateConfig() state.Config {
	sc := state.DefaultConfig()
	sc.Speed = c.Speed
	sc.Zoom = c.Zoom
	sc.TrailsEnabled = c.Trails
	sc.TrailCap = c.TrailCap
	return sc
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
