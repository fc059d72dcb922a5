package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[scenario]
num_scientists = 4
science_edge_p = 1.0

[study]
samples_per_study = 20
apparatus = "a"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Scenario.NumScientists)
	assert.Equal(t, 1.0, cfg.Scenario.ScienceEdgeP)
	assert.Equal(t, 20, cfg.Study.SamplesPerStudy)
	assert.Equal(t, "a", cfg.Study.Apparatus)

	// Untouched values keep their defaults
	assert.Equal(t, 3, cfg.Scenario.NumSpinDoctors)
	assert.Equal(t, 0.7, cfg.Scenario.PolSciP)
	assert.Equal(t, 0.48, cfg.Study.LowConfThreshold)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scenario\nnum = "), 0644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse TOML")
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScenarioConfig)
	}{
		{"negative scientists", func(s *ScenarioConfig) { s.NumScientists = -1 }},
		{"negative politicians", func(s *ScenarioConfig) { s.NumPoliticians = -2 }},
		{"negative spin doctors", func(s *ScenarioConfig) { s.NumSpinDoctors = -1 }},
		{"science p above one", func(s *ScenarioConfig) { s.ScienceEdgeP = 1.01 }},
		{"spin read p negative", func(s *ScenarioConfig) { s.SpinReadP = -0.1 }},
		{"spin write p above one", func(s *ScenarioConfig) { s.SpinWriteP = 2 }},
		{"pol sci p negative", func(s *ScenarioConfig) { s.PolSciP = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScenario()
			tt.mutate(&s)
			err := s.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	edges := ScenarioConfig{ScienceEdgeP: 0, SpinReadP: 1, SpinWriteP: 0, PolSciP: 1}
	assert.NoError(t, edges.Validate())
}

func TestScenarioValidate_ReportsFirstNegativeCount(t *testing.T) {
	s := DefaultScenario()
	s.NumSpinDoctors = -1
	s.NumPoliticians = -1
	s.NumScientists = -1

	for i := 0; i < 20; i++ {
		assert.EqualError(t, s.Validate(), "invalid configuration: num_scientists must be >= 0, got -1")
	}
}

func TestStudyValidate(t *testing.T) {
	s := DefaultStudy()
	s.Sigma = 0
	assert.ErrorIs(t, s.Validate(), ErrInvalidConfig)

	s = DefaultStudy()
	s.SamplesPerStudy = 0
	assert.ErrorIs(t, s.Validate(), ErrInvalidConfig)

	s = DefaultStudy()
	s.LowConfThreshold = 0.995
	assert.ErrorIs(t, s.Validate(), ErrInvalidConfig)

	for _, apparatus := range []string{"", "c", "B"} {
		s = DefaultStudy()
		s.Apparatus = apparatus
		assert.ErrorIs(t, s.Validate(), ErrInvalidConfig, "apparatus %q", apparatus)
	}

	s = DefaultStudy()
	s.Apparatus = "a"
	assert.NoError(t, s.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MEMGRAPH_URI", "bolt://memgraph:7687")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("NUM_SCIENTISTS", "7")
	t.Setenv("STUDY_APPARATUS", "a")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "bolt://memgraph:7687", cfg.Memgraph.URI)
	assert.True(t, cfg.Memgraph.Enabled)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, 7, cfg.Scenario.NumScientists)
	assert.Equal(t, "a", cfg.Study.Apparatus)
}

func TestApplyEnv_BadNumber(t *testing.T) {
	t.Setenv("NUM_POLITICIANS", "many")

	err := Default().ApplyEnv()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "NUM_POLITICIANS")
}
