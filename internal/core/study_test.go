package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowboat1/epistemic-networks/internal/config"
	"github.com/rowboat1/epistemic-networks/internal/core/stats"
)

// pairScenario builds two scientists joined by one science edge, plus a spin
// doctor and a politician reading them, all sampling from sampler.
func pairScenario(t *testing.T, sampler stats.Sampler) *Scenario {
	t.Helper()
	cfg := config.ScenarioConfig{
		NumScientists: 2, NumPoliticians: 1, NumSpinDoctors: 1,
		ScienceEdgeP: 1, SpinReadP: 1, SpinWriteP: 1, PolSciP: 1,
	}
	return newTestScenario(t, cfg, 1, WithSampler(sampler))
}

func TestNotTesting(t *testing.T) {
	tests := []struct {
		name string
		self float64
		peer float64
		want bool
	}{
		{"both low", 0.3, 0.48, true},
		{"both high", 0.99, 1.0, true},
		{"self low peer middle", 0.2, 0.6, false},
		{"self high peer middle", 1.0, 0.9, false},
		{"split low and high", 0.1, 0.995, false},
		{"both middle", 0.5, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := pairScenario(t, &MockSampler{})
			a, b := s.scientists[0], s.scientists[1]
			s.entities[a].Confidence = tt.self
			s.entities[b].Confidence = tt.peer

			assert.Equal(t, tt.want, s.NotTesting(a))
		})
	}
}

func TestNotTesting_IgnoresReaders(t *testing.T) {
	s := pairScenario(t, &MockSampler{})
	a, b := s.scientists[0], s.scientists[1]
	s.entities[a].Confidence = 0.1
	s.entities[b].Confidence = 0.1

	// The politician reading a sits at 0.5 but is not a science peer
	require.Equal(t, 0.5, s.entities[s.politicians[0]].Confidence)
	assert.True(t, s.NotTesting(a))

	assert.False(t, s.NotTesting(s.politicians[0]))
	assert.False(t, s.NotTesting(-1))
}

func TestNotTesting_Isolated(t *testing.T) {
	s := newTestScenario(t, config.ScenarioConfig{NumScientists: 1}, 1)
	id := s.scientists[0]

	s.entities[id].Confidence = 0.48
	assert.True(t, s.NotTesting(id))
	s.entities[id].Confidence = 0.481
	assert.False(t, s.NotTesting(id))
}

func TestPerformStudy_NotTestingSkipsSampling(t *testing.T) {
	tests := []struct {
		name string
		self float64
		peer float64
	}{
		{"abandoned", 0.4, 0.45},
		{"convinced", 0.995, 0.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler := &MockSampler{Value: 33}
			s := pairScenario(t, sampler)
			a, b := s.scientists[0], s.scientists[1]
			s.entities[a].Confidence = tt.self
			s.entities[b].Confidence = tt.peer

			s.performStudy(&s.entities[a])

			assert.Equal(t, 0.0, s.entities[a].Score)
			assert.Equal(t, 0, sampler.Calls)
		})
	}
}

func TestPerformStudy_Score(t *testing.T) {
	sampler := &MockSampler{Value: 33}
	s := pairScenario(t, sampler)
	a := s.scientists[0]
	s.entities[a].Confidence = 0.7

	s.performStudy(&s.entities[a])

	samples := make([]float64, 10)
	for i := range samples {
		samples[i] = 33
	}
	want := stats.NewProvider(config.DefaultStudy()).Score(samples)

	assert.Equal(t, 10, sampler.Calls)
	assert.InDelta(t, want, s.entities[a].Score, 1e-15)
	// 33 lies above MU, closer to A's mean
	assert.Greater(t, s.entities[a].Score, 0.0)
}

func TestPerformStudy_DegenerateMeanDrawsAgain(t *testing.T) {
	sampler := &MockSampler{Value: 0.5}
	s := pairScenario(t, sampler)
	a := s.scientists[0]
	s.entities[a].Confidence = 0.7

	s.performStudy(&s.entities[a])

	assert.Equal(t, 20, sampler.Calls)
}

func TestPerformStudy_SeededSequence(t *testing.T) {
	run := func() []float64 {
		s := newTestScenario(t, config.ScenarioConfig{NumScientists: 1}, 77)
		id := s.scientists[0]
		var scores []float64
		for i := 0; i < 10; i++ {
			s.entities[id].Confidence = 0.7
			s.performStudy(&s.entities[id])
			scores = append(scores, s.entities[id].Score)
		}
		return scores
	}

	assert.Equal(t, run(), run())
}

// meanStudyScore runs n studies for one undecided scientist and averages the
// scores.
func meanStudyScore(t *testing.T, apparatus string, n int) float64 {
	t.Helper()
	study := config.DefaultStudy()
	study.Apparatus = apparatus
	s, err := NewScenario(config.ScenarioConfig{NumScientists: 1}, study, stats.NewRand(17))
	require.NoError(t, err)

	sci := &s.entities[s.scientists[0]]
	total := 0.0
	for i := 0; i < n; i++ {
		sci.Confidence = 0.7
		s.performStudy(sci)
		total += sci.Score
	}
	return total / float64(n)
}

func TestPerformStudy_ApparatusA_CentredOnZero(t *testing.T) {
	control := meanStudyScore(t, "a", 20000)
	tested := meanStudyScore(t, "b", 20000)

	// Button B sits one unit above MU, which favours distribution A
	require.Greater(t, tested, 0.0)
	assert.Less(t, math.Abs(control), tested/4)
}
