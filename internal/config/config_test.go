package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.URI != "bolt://localhost:7687" {
		t.Errorf("expected default URI bolt://localhost:7687, got %s", cfg.URI)
	}
	if cfg.Database != "neo4j" {
		t.Errorf("expected default database neo4j, got %s", cfg.Database)
	}
	if cfg.Transport != TransportStdio {
		t.Errorf("expected default transport stdio, got %s", cfg.Transport)
	}
	if cfg.ReadOnly {
		t.Error("expected read-only mode disabled by default")
	}
}

func TestLoadDetectionDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	d := cfg.Detection
	if d.CollusionClaims != 10 {
		t.Errorf("expected collusion threshold 10, got %d", d.CollusionClaims)
	}
	if d.AssetMedium != 2 || d.AssetHigh != 4 {
		t.Errorf("expected asset thresholds 2/4, got %d/%d", d.AssetMedium, d.AssetHigh)
	}
	if d.VelocityMedium != 4 || d.VelocityHigh != 6 {
		t.Errorf("expected velocity thresholds 4/6, got %d/%d", d.VelocityMedium, d.VelocityHigh)
	}
	if d.SharedSSNHigh != 3 {
		t.Errorf("expected shared-ssn HIGH threshold 3, got %d", d.SharedSSNHigh)
	}
	if d.HighValueAmount != 50000.0 {
		t.Errorf("expected high-value amount 50000, got %f", d.HighValueAmount)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NEO4J_URI", "neo4j://db.internal:7687")
	t.Setenv("NEO4J_READ_ONLY", "true")
	t.Setenv("DETECT_COLLUSION_CLAIMS", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.URI != "neo4j://db.internal:7687" {
		t.Errorf("expected URI from environment, got %s", cfg.URI)
	}
	if !cfg.ReadOnly {
		t.Error("expected read-only mode enabled via NEO4J_READ_ONLY")
	}
	if cfg.Detection.CollusionClaims != 25 {
		t.Errorf("expected collusion threshold 25 from environment, got %d", cfg.Detection.CollusionClaims)
	}
}

func TestLoadScoreWeightsFromEnvironment(t *testing.T) {
	t.Setenv("SCORE_WEIGHT_SHARED_SSN", "0.5")
	t.Setenv("SCORE_WEIGHT_HIGH_VALUE", "0.1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if got := cfg.Detection.Weights["shared_ssn"]; got != 0.5 {
		t.Errorf("expected shared_ssn weight 0.5 from environment, got %f", got)
	}
	if got := cfg.Detection.Weights["high_value"]; got != 0.1 {
		t.Errorf("expected high_value weight 0.1 from environment, got %f", got)
	}
	if _, ok := cfg.Detection.Weights["velocity"]; ok {
		t.Error("expected unset pattern weights to stay absent from the map")
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "empty URI",
			mutate: func(c *Config) { c.URI = "" },
		},
		{
			name:   "unknown transport",
			mutate: func(c *Config) { c.Transport = "carrier-pigeon" },
		},
		{
			name:   "zero collusion threshold",
			mutate: func(c *Config) { c.Detection.CollusionClaims = 0 },
		},
		{
			name:   "asset high below medium",
			mutate: func(c *Config) { c.Detection.AssetHigh = 1 },
		},
		{
			name:   "velocity high below medium",
			mutate: func(c *Config) { c.Detection.VelocityHigh = 2 },
		},
		{
			name:   "score weight out of range",
			mutate: func(c *Config) { c.Detection.Weights = map[string]float64{"shared_ssn": 1.5} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned error: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestRedactedOmitsPassword(t *testing.T) {
	cfg := &Config{URI: "bolt://x:7687", Username: "neo4j", Password: "hunter2", Database: "neo4j", Transport: TransportStdio}
	out := cfg.Redacted()
	if strings.Contains(out, "hunter2") {
		t.Errorf("redacted config leaked password: %s", out)
	}
}

func TestParseTransport(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", TransportStdio, false},
		{"stdio", TransportStdio, false},
		{"http", TransportHTTP, false},
		{"streamable-http", TransportHTTP, false},
		{"HTTP", TransportHTTP, false},
		{"quic", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTransport(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTransport(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTransport(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTransport(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
