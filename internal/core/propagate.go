package core

import (
	"math"

	"github.com/rowboat1/epistemic-networks/internal/core/model"
)

// UpdateConfidence applies one evidence term. The result is capped at 1 but
// has no floor: a score below -0.2 drives confidence negative.
func UpdateConfidence(confidence, score float64) float64 {
	return math.Min(confidence*(score*5+1), 1)
}

func (s *Scenario) propagate(e *model.Entity) {
	switch e.Kind {
	case model.SpinDoctor:
		e.Score = s.weakestSource(e)
	case model.Scientist, model.Politician:
		e.Confidence = UpdateConfidence(e.Confidence, e.Score)
		for _, l := range e.Edges {
			e.Confidence = UpdateConfidence(e.Confidence, s.entities[l.Peer].Score)
		}
	}
}

// weakestSource is the minimum score over a spin doctor's read edges. With
// nothing to read the doctor carries no information and scores 0.
func (s *Scenario) weakestSource(e *model.Entity) float64 {
	if len(e.ReadEdges) == 0 {
		return 0
	}
	lowest := math.Inf(1)
	for _, l := range e.ReadEdges {
		lowest = math.Min(lowest, s.entities[l.Peer].Score)
	}
	return lowest
}
