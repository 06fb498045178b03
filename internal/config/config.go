package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/nhl-dashboard/internal/source"
)

// Config holds runtime configuration for the dashboard.
type Config struct {
	Port    string        `yaml:"port"`
	Source  SourceConfig  `yaml:"source"`
	Render  RenderConfig  `yaml:"render"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SourceConfig selects where the season table is loaded from.
type SourceConfig struct {
	Kind           string   `yaml:"kind"`
	Path           string   `yaml:"path"`
	Driver         string   `yaml:"driver"`
	DSN            string   `yaml:"dsn"`
	ConnectRetries int      `yaml:"connectRetries"`
	ConnectTimeout Duration `yaml:"connectTimeout"`
}

// RenderConfig sizes rendered charts in pixels.
type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Port: defaultPort,
		Source: SourceConfig{
			Kind:           defaultSource,
			Path:           defaultDataPath,
			Driver:         defaultSQLDriver,
			ConnectRetries: defaultSQLRetries,
			ConnectTimeout: defaultSQLTimeout,
		},
		Render: RenderConfig{Width: defaultChartWidth, Height: defaultChartHeight},
		Log:    LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
		Metrics: MetricsConfig{
			Enabled:      true,
			Port:         defaultMetricsPort,
			ServiceName:  defaultServiceName,
			OtlpInsecure: true,
		},
	}
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return applyEnv(Defaults())
}

// LoadFile layers a YAML file over the defaults, then environment variables over the file.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Load(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return applyEnv(cfg), nil
}

// Validate checks that the configuration can be used to start the dashboard.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceCSV:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for the csv source")
		}
	case SourceSQL:
		if c.Source.Driver != source.DriverSQLite && c.Source.Driver != source.DriverPostgres {
			return fmt.Errorf("source.driver must be %q or %q, got %q", source.DriverSQLite, source.DriverPostgres, c.Source.Driver)
		}
		if c.Source.DSN == "" {
			return fmt.Errorf("source.dsn is required for the sql source")
		}
	default:
		return fmt.Errorf("source.kind must be %q or %q, got %q", SourceCSV, SourceSQL, c.Source.Kind)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	return nil
}

func applyEnv(cfg Config) Config {
	cfg.Port = envOrDefault(envPort, cfg.Port)
	cfg.Source = loadSource(cfg.Source)
	cfg.Render.Width = intEnvOrDefault(envChartWidth, cfg.Render.Width)
	cfg.Render.Height = intEnvOrDefault(envChartHeight, cfg.Render.Height)
	cfg.Log.Level = envOrDefault(envLogLevel, cfg.Log.Level)
	cfg.Log.Format = envOrDefault(envLogFormat, cfg.Log.Format)
	cfg.Metrics = loadMetrics(cfg.Metrics)
	return cfg
}

func loadSource(base SourceConfig) SourceConfig {
	return SourceConfig{
		Kind:           envOrDefault(envDataSource, base.Kind),
		Path:           envOrDefault(envDataPath, base.Path),
		Driver:         envOrDefault(envSQLDriver, base.Driver),
		DSN:            envOrDefault(envSQLDSN, base.DSN),
		ConnectRetries: intEnvOrDefault(envSQLRetries, base.ConnectRetries),
		ConnectTimeout: durationEnvOrDefault(envSQLTimeout, base.ConnectTimeout),
	}
}
