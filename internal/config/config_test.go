package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/preston-bernstein/nhl-dashboard/internal/source"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Source.Kind != SourceCSV {
		t.Fatalf("expected csv source by default, got %s", cfg.Source.Kind)
	}
	if cfg.Source.Path != defaultDataPath {
		t.Fatalf("expected default data path %s, got %s", defaultDataPath, cfg.Source.Path)
	}
	if cfg.Source.Driver != source.DriverSQLite {
		t.Fatalf("expected default driver %s, got %s", source.DriverSQLite, cfg.Source.Driver)
	}
	if cfg.Source.ConnectTimeout != defaultSQLTimeout {
		t.Fatalf("expected default connect timeout %s, got %s", defaultSQLTimeout, cfg.Source.ConnectTimeout)
	}
	if cfg.Render.Width != defaultChartWidth || cfg.Render.Height != defaultChartHeight {
		t.Fatalf("unexpected default render size %+v", cfg.Render)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.ServiceName != defaultServiceName {
		t.Fatalf("unexpected default metrics config %+v", cfg.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envDataSource, SourceSQL)
	t.Setenv(envSQLDriver, source.DriverPostgres)
	t.Setenv(envSQLDSN, "postgres://localhost/nhl")
	t.Setenv(envSQLTimeout, "2s")
	t.Setenv(envChartWidth, "1024")
	t.Setenv(envMetricsOn, "false")

	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.Source.Kind != SourceSQL || cfg.Source.Driver != source.DriverPostgres {
		t.Fatalf("expected sql/postgres source, got %+v", cfg.Source)
	}
	if cfg.Source.DSN != "postgres://localhost/nhl" {
		t.Fatalf("expected dsn override, got %s", cfg.Source.DSN)
	}
	if cfg.Source.ConnectTimeout != 2*time.Second {
		t.Fatalf("expected connect timeout 2s, got %s", cfg.Source.ConnectTimeout)
	}
	if cfg.Render.Width != 1024 {
		t.Fatalf("expected width 1024, got %d", cfg.Render.Width)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("expected metrics disabled")
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv(envChartHeight, "tall")
	t.Setenv(envSQLTimeout, "-1s")

	cfg := Load()

	if cfg.Render.Height != defaultChartHeight {
		t.Fatalf("expected default height on invalid value, got %d", cfg.Render.Height)
	}
	if cfg.Source.ConnectTimeout != defaultSQLTimeout {
		t.Fatalf("expected default timeout on non-positive value, got %s", cfg.Source.ConnectTimeout)
	}
}

func TestLoadFileLayersEnvOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	body := []byte("port: \"7000\"\nsource:\n  path: data/teams.csv\n  connectTimeout: 3s\nrender:\n  width: 640\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envPort, "7100")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7100" {
		t.Fatalf("expected env to win over file, got %s", cfg.Port)
	}
	if cfg.Source.Path != "data/teams.csv" {
		t.Fatalf("expected path from file, got %s", cfg.Source.Path)
	}
	if cfg.Source.ConnectTimeout != 3*time.Second {
		t.Fatalf("expected timeout from file, got %s", cfg.Source.ConnectTimeout)
	}
	if cfg.Render.Width != 640 || cfg.Render.Height != defaultChartHeight {
		t.Fatalf("expected width from file and default height, got %+v", cfg.Render)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadFileEmptyPathUsesEnv(t *testing.T) {
	t.Setenv(envPort, "6000")
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "6000" {
		t.Fatalf("expected env port, got %s", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown source", func(c *Config) { c.Source.Kind = "s3" }, true},
		{"csv without path", func(c *Config) { c.Source.Path = "" }, true},
		{"sql without dsn", func(c *Config) { c.Source.Kind = SourceSQL }, true},
		{"sql bad driver", func(c *Config) { c.Source.Kind = SourceSQL; c.Source.DSN = "x"; c.Source.Driver = "mysql" }, true},
		{"sql ok", func(c *Config) { c.Source.Kind = SourceSQL; c.Source.DSN = "file:nhl.db" }, false},
		{"sql postgres", func(c *Config) {
			c.Source.Kind = SourceSQL
			c.Source.DSN = "postgres://localhost/nhl"
			c.Source.Driver = source.DriverPostgres
		}, false},
		{"zero width", func(c *Config) { c.Render.Width = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
