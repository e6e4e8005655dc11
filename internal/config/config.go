package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Transport selects how the MCP server is exposed.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the full server configuration. Values are resolved from
// environment variables (NEO4J_URI, NEO4J_USERNAME, ...) with documented
// defaults, so the server can start against a local Neo4j with no setup.
type Config struct {
	// Neo4j connection settings.
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`

	// ReadOnly hides every tool that mutates the graph (ingest-claim,
	// write-cypher) from the MCP tool listing.
	ReadOnly bool `mapstructure:"read_only"`

	// Transport is "stdio" or "http"; ListenAddr applies to http only.
	Transport  string `mapstructure:"transport"`
	ListenAddr string `mapstructure:"listen_addr"`

	// SchemaSampleSize bounds how many nodes per label the get-schema tool
	// inspects when sampling properties.
	SchemaSampleSize int `mapstructure:"schema_sample_size"`

	// AnalyticsDisabled turns off anonymous usage telemetry.
	AnalyticsDisabled bool `mapstructure:"analytics_disabled"`

	// Detection carries the detector thresholds and score weights.
	Detection Detection `mapstructure:"detection"`
}

// Detection is the operator-tunable surface of the fraud engine: every
// detector threshold plus the per-pattern score weights.
type Detection struct {
	// CollusionClaims is the number of distinct claims an agent-vendor pair
	// must exceed (strictly) before the pair is flagged as a ring.
	CollusionClaims int `mapstructure:"collusion_claims"`

	// AssetMedium / AssetHigh are the claim counts (including the current
	// claim) at which asset reuse becomes a MEDIUM / HIGH finding.
	AssetMedium int `mapstructure:"asset_medium"`
	AssetHigh   int `mapstructure:"asset_high"`

	// VelocityMedium / VelocityHigh are the total filed-claim counts at which
	// claim velocity becomes a MEDIUM / HIGH finding.
	VelocityMedium int `mapstructure:"velocity_medium"`
	VelocityHigh   int `mapstructure:"velocity_high"`

	// SharedSSNHigh is the distinct-person count at which a shared SSN
	// escalates from MEDIUM to HIGH. Two sharers always produce a finding.
	SharedSSNHigh int `mapstructure:"shared_ssn_high"`

	// HighValueAmount is the claim amount above which the high-value
	// detector fires.
	HighValueAmount float64 `mapstructure:"high_value_amount"`

	// SampleNames bounds how many sharer names an SSN finding cites.
	SampleNames int `mapstructure:"sample_names"`

	// Weights maps pattern type to its score contribution. Patterns absent
	// from the map fall back to the default weight of 0.3.
	Weights map[string]float64 `mapstructure:"weights"`
}

// envBindings maps viper keys to the environment variables that feed them.
// The NEO4J_* names match the official Neo4j tooling conventions.
var envBindings = map[string]string{
	"uri":                         "NEO4J_URI",
	"username":                    "NEO4J_USERNAME",
	"password":                    "NEO4J_PASSWORD",
	"database":                    "NEO4J_DATABASE",
	"read_only":                   "NEO4J_READ_ONLY",
	"transport":                   "MCP_TRANSPORT",
	"listen_addr":                 "MCP_LISTEN_ADDR",
	"schema_sample_size":          "SCHEMA_SAMPLE_SIZE",
	"analytics_disabled":          "ANALYTICS_DISABLED",
	"detection.collusion_claims":  "DETECT_COLLUSION_CLAIMS",
	"detection.asset_medium":      "DETECT_ASSET_MEDIUM",
	"detection.asset_high":        "DETECT_ASSET_HIGH",
	"detection.velocity_medium":   "DETECT_VELOCITY_MEDIUM",
	"detection.velocity_high":     "DETECT_VELOCITY_HIGH",
	"detection.shared_ssn_high":   "DETECT_SSN_HIGH",
	"detection.high_value_amount": "DETECT_HIGH_VALUE_AMOUNT",
	"detection.sample_names":      "DETECT_SAMPLE_NAMES",

	"detection.weights.shared_ssn":      "SCORE_WEIGHT_SHARED_SSN",
	"detection.weights.collusive_ring":  "SCORE_WEIGHT_COLLUSIVE_RING",
	"detection.weights.asset_recycling": "SCORE_WEIGHT_ASSET_RECYCLING",
	"detection.weights.velocity":        "SCORE_WEIGHT_VELOCITY",
	"detection.weights.double_dipping":  "SCORE_WEIGHT_DOUBLE_DIPPING",
	"detection.weights.high_value":      "SCORE_WEIGHT_HIGH_VALUE",
}

// Load resolves the configuration from the environment with defaults applied.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("uri", "bolt://localhost:7687")
	v.SetDefault("username", "neo4j")
	v.SetDefault("password", "password")
	v.SetDefault("database", "neo4j")
	v.SetDefault("read_only", false)
	v.SetDefault("transport", TransportStdio)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("schema_sample_size", 100)
	v.SetDefault("analytics_disabled", false)

	v.SetDefault("detection.collusion_claims", 10)
	v.SetDefault("detection.asset_medium", 2)
	v.SetDefault("detection.asset_high", 4)
	v.SetDefault("detection.velocity_medium", 4)
	v.SetDefault("detection.velocity_high", 6)
	v.SetDefault("detection.shared_ssn_high", 3)
	v.SetDefault("detection.high_value_amount", 50000.0)
	v.SetDefault("detection.sample_names", 5)
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("neo4j URI must not be empty")
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unsupported transport %q (expected %q or %q)", c.Transport, TransportStdio, TransportHTTP)
	}
	if c.SchemaSampleSize <= 0 {
		return fmt.Errorf("schema sample size must be positive, got %d", c.SchemaSampleSize)
	}
	d := c.Detection
	for name, val := range map[string]int{
		"collusion_claims": d.CollusionClaims,
		"asset_medium":     d.AssetMedium,
		"asset_high":       d.AssetHigh,
		"velocity_medium":  d.VelocityMedium,
		"velocity_high":    d.VelocityHigh,
		"shared_ssn_high":  d.SharedSSNHigh,
	} {
		if val <= 0 {
			return fmt.Errorf("detection threshold %s must be positive, got %d", name, val)
		}
	}
	if d.AssetHigh < d.AssetMedium {
		return fmt.Errorf("detection threshold asset_high (%d) must not be below asset_medium (%d)", d.AssetHigh, d.AssetMedium)
	}
	if d.VelocityHigh < d.VelocityMedium {
		return fmt.Errorf("detection threshold velocity_high (%d) must not be below velocity_medium (%d)", d.VelocityHigh, d.VelocityMedium)
	}
	for pattern, w := range d.Weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("score weight for %s must be between 0 and 1, got %f", pattern, w)
		}
	}
	return nil
}

// Redacted returns a loggable one-line summary without the password.
func (c *Config) Redacted() string {
	return fmt.Sprintf("uri=%s database=%s user=%s read_only=%t transport=%s",
		c.URI, c.Database, c.Username, c.ReadOnly, c.Transport)
}

// ParseTransport normalizes a transport flag value.
func ParseTransport(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", TransportStdio:
		return TransportStdio, nil
	case TransportHTTP, "streamable-http", "sse":
		return TransportHTTP, nil
	default:
		return "", fmt.Errorf("unknown transport %q", s)
	}
}
