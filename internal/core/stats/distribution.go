// Package stats supplies the two competing distributions a study compares and
// the samplers that stand in for the experimental apparatus.
package stats

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rowboat1/epistemic-networks/internal/config"
)

// Provider holds the "true effect" distribution A and the "null"
// distribution B. It is a pure function of the study configuration.
type Provider struct {
	DistA distuv.Normal
	DistB distuv.Normal
}

func NewProvider(cfg config.StudyConfig) Provider {
	return Provider{
		DistA: distuv.Normal{Mu: cfg.Mu + cfg.Epsilon, Sigma: cfg.Sigma},
		DistB: distuv.Normal{Mu: cfg.Mu - cfg.Epsilon, Sigma: cfg.Sigma},
	}
}

// MeanPDF averages the density of dist over samples.
func MeanPDF(dist distuv.Normal, samples []float64) float64 {
	densities := make([]float64, len(samples))
	for i, x := range samples {
		densities[i] = dist.Prob(x)
	}
	return stat.Mean(densities, nil)
}

// Score is mean(pdf_A(samples)) - mean(pdf_B(samples)). Positive values
// favour the true-effect regime.
func (p Provider) Score(samples []float64) float64 {
	return MeanPDF(p.DistA, samples) - MeanPDF(p.DistB, samples)
}

// Sampler produces one experimental observation per call.
type Sampler interface {
	Sample() float64
}

// NormalSampler draws from Normal(Mu, Sigma) using an injected source.
type NormalSampler struct {
	Mu    float64
	Sigma float64
	Rand  *rand.Rand
}

func (s *NormalSampler) Sample() float64 {
	return s.Mu + s.Sigma*s.Rand.NormFloat64()
}

// ButtonA is the control apparatus: Normal(MU, SIGMA).
func ButtonA(cfg config.StudyConfig, rng *rand.Rand) *NormalSampler {
	return &NormalSampler{Mu: cfg.Mu, Sigma: cfg.Sigma, Rand: rng}
}

// ButtonB is the apparatus scientists actually test: Normal(MU+1, SIGMA).
func ButtonB(cfg config.StudyConfig, rng *rand.Rand) *NormalSampler {
	return &NormalSampler{Mu: cfg.Mu + 1, Sigma: cfg.Sigma, Rand: rng}
}

// Apparatus picks the button named by cfg.Apparatus. Anything other than
// "a" falls back to ButtonB; StudyConfig.Validate rejects unknown names.
func Apparatus(cfg config.StudyConfig, rng *rand.Rand) *NormalSampler {
	if cfg.Apparatus == "a" {
		return ButtonA(cfg, rng)
	}
	return ButtonB(cfg, rng)
}

// NewRand returns a PCG-backed generator seeded from seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
