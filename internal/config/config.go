package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type ScenarioConfig struct {
	NumScientists  int     `toml:"num_scientists" json:"num_scientists"`
	NumPoliticians int     `toml:"num_politicians" json:"num_politicians"`
	NumSpinDoctors int     `toml:"num_spindoctors" json:"num_spindoctors"`
	ScienceEdgeP   float64 `toml:"science_edge_p" json:"science_edge_p"`
	SpinReadP      float64 `toml:"spin_read_p" json:"spin_read_p"`
	SpinWriteP     float64 `toml:"spin_write_p" json:"spin_write_p"`
	PolSciP        float64 `toml:"pol_sci_p" json:"pol_sci_p"`
}

// StudyConfig parameterises the two competing distributions and the
// thresholds at which a scientist stops experimenting.
type StudyConfig struct {
	Mu                float64 `toml:"mu"`
	Sigma             float64 `toml:"sigma"`
	Epsilon           float64 `toml:"epsilon"`
	SamplesPerStudy   int     `toml:"samples_per_study"`
	LowConfThreshold  float64 `toml:"low_conf_threshold"`
	HighConfThreshold float64 `toml:"high_conf_threshold"`
	Apparatus         string  `toml:"apparatus"` // "b" under test, "a" for the null-effect control
}

type SimulationConfig struct {
	Seed uint64 `toml:"seed"` // 0 derives a seed from the clock
}

type MemgraphConfig struct {
	Enabled  bool   `toml:"enabled"`
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type Config struct {
	Scenario   ScenarioConfig   `toml:"scenario"`
	Study      StudyConfig      `toml:"study"`
	Simulation SimulationConfig `toml:"simulation"`
	Memgraph   MemgraphConfig   `toml:"memgraph"`
	Server     ServerConfig     `toml:"server"`
}

func DefaultScenario() ScenarioConfig {
	return ScenarioConfig{
		NumScientists:  10,
		NumPoliticians: 1,
		NumSpinDoctors: 3,
		ScienceEdgeP:   0.5,
		SpinReadP:      0.7,
		SpinWriteP:     1.0,
		PolSciP:        0.7,
	}
}

func DefaultStudy() StudyConfig {
	return StudyConfig{
		Mu:                32,
		Sigma:             8,
		Epsilon:           0.005,
		SamplesPerStudy:   10,
		LowConfThreshold:  0.48,
		HighConfThreshold: 0.99,
		Apparatus:         "b",
	}
}

func Default() *Config {
	return &Config{
		Scenario: DefaultScenario(),
		Study:    DefaultStudy(),
		Memgraph: MemgraphConfig{
			URI: "bolt://localhost:7687",
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// Load reads a TOML file on top of Default, so a file only needs to name
// the values it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides individual fields from environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
		c.Memgraph.Enabled = true
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("SIM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SIM_SEED: %v", ErrInvalidConfig, err)
		}
		c.Simulation.Seed = seed
	}
	if v := os.Getenv("STUDY_APPARATUS"); v != "" {
		c.Study.Apparatus = v
	}

	counts := []struct {
		env string
		dst *int
	}{
		{"NUM_SCIENTISTS", &c.Scenario.NumScientists},
		{"NUM_POLITICIANS", &c.Scenario.NumPoliticians},
		{"NUM_SPINDOCTORS", &c.Scenario.NumSpinDoctors},
	}
	for _, o := range counts {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, o.env, err)
		}
		*o.dst = n
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Scenario.Validate(); err != nil {
		return err
	}
	return c.Study.Validate()
}

// Validate checks that counts are non-negative and every edge probability
// lies in [0,1].
func (s ScenarioConfig) Validate() error {
	counts := []struct {
		name string
		n    int
	}{
		{"num_scientists", s.NumScientists},
		{"num_politicians", s.NumPoliticians},
		{"num_spindoctors", s.NumSpinDoctors},
	}
	for _, c := range counts {
		if c.n < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %d", ErrInvalidConfig, c.name, c.n)
		}
	}

	probs := []struct {
		name string
		p    float64
	}{
		{"science_edge_p", s.ScienceEdgeP},
		{"spin_read_p", s.SpinReadP},
		{"spin_write_p", s.SpinWriteP},
		{"pol_sci_p", s.PolSciP},
	}
	for _, pr := range probs {
		// written as a negation so NaN is rejected too
		if !(pr.p >= 0 && pr.p <= 1) {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidConfig, pr.name, pr.p)
		}
	}
	return nil
}

func (s StudyConfig) Validate() error {
	if !(s.Sigma > 0) {
		return fmt.Errorf("%w: sigma must be > 0, got %v", ErrInvalidConfig, s.Sigma)
	}
	if s.SamplesPerStudy <= 0 {
		return fmt.Errorf("%w: samples_per_study must be > 0, got %d", ErrInvalidConfig, s.SamplesPerStudy)
	}
	if s.LowConfThreshold > s.HighConfThreshold {
		return fmt.Errorf("%w: low_conf_threshold %v exceeds high_conf_threshold %v",
			ErrInvalidConfig, s.LowConfThreshold, s.HighConfThreshold)
	}
	if s.Apparatus != "a" && s.Apparatus != "b" {
		return fmt.Errorf("%w: apparatus must be \"a\" or \"b\", got %q", ErrInvalidConfig, s.Apparatus)
	}
	return nil
}
