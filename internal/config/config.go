package config

import (
	"os"
	"strings"

	"codeberg.org/mutker/handheldctl/internal/curve"
	"codeberg.org/mutker/handheldctl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval    = 2
	DefaultThreshold   = 1.0
	DefaultPreset      = curve.PresetCruise
	DefaultLogLevel    = "info"
	DefaultTelemetryDB = "handheldctl.db"

	envPrefix = "HANDHELDCTL"
	envConfig = "HANDHELDCTL_CONFIG"
)

// Config carries the engine settings loaded from file, environment and flags.
type Config struct {
	Interval    int           `mapstructure:"interval"`
	Threshold   float64       `mapstructure:"threshold"`
	FanControl  bool          `mapstructure:"fan_control"`
	Preset      string        `mapstructure:"preset"`
	Curve       []curve.Point `mapstructure:"curve"`
	FullSpeed   bool          `mapstructure:"full_speed"`
	Monitor     bool          `mapstructure:"monitor"`
	Telemetry   bool          `mapstructure:"telemetry"`
	TelemetryDB string        `mapstructure:"database"`
	LogLevel    string        `mapstructure:"log_level"`
}

// Load reads configuration from handheldctl.toml, environment variables and
// command line flags, in ascending order of precedence.
func Load() (*Config, error) {
	errFactory := errors.New()

	flags := pflag.NewFlagSet("handheldctl", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Int("interval", DefaultInterval, "Temperature polling interval in seconds")
	flags.Float64("threshold", DefaultThreshold, "Temperature change needed to trigger a fan update")
	flags.Bool("fan-control", false, "Enable software fan control at startup")
	flags.String("preset", DefaultPreset, "Fan curve preset to apply")
	flags.Bool("full-speed", false, "Force full fan speed on supported devices")
	flags.Bool("monitor", false, "Only monitor temperature and fan status")
	flags.Bool("telemetry", false, "Record control ticks to the telemetry database")
	flags.String("database", DefaultTelemetryDB, "Path to the telemetry database")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.String("config", "", "Path to configuration file")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("threshold", DefaultThreshold)
	v.SetDefault("preset", DefaultPreset)
	v.SetDefault("database", DefaultTelemetryDB)
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configPath, _ := flags.GetString("config")
	if configPath == "" {
		configPath = os.Getenv(envConfig)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName("handheldctl")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	// Flags the user set explicitly override file and environment values.
	flags.Visit(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		v.Set(key, f.Value.String())
	})

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and cross-field consistency.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	if c.Threshold < 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, c.Threshold)
	}

	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if _, err := c.FanCurve(); err != nil {
		return err
	}

	return nil
}

// FanCurve resolves the configured preset or custom points into a validated
// curve. Custom points are only consulted when the preset is "Custom".
func (c *Config) FanCurve() (curve.FanCurve, error) {
	errFactory := errors.New()

	if c.Preset != curve.PresetCustom {
		fc, err := curve.Preset(c.Preset)
		if err != nil {
			return curve.FanCurve{}, err
		}
		fc.Enabled = c.FanControl

		return fc, nil
	}

	if len(c.Curve) != curve.NumPoints {
		return curve.FanCurve{}, errFactory.WithData(errors.ErrInvalidConfig, len(c.Curve))
	}

	var points [curve.NumPoints]curve.Point
	copy(points[:], c.Curve)

	return curve.New(points, c.FanControl, curve.PresetCustom)
}
