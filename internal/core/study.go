package core

import (
	"gonum.org/v1/gonum/stat"

	"github.com/rowboat1/epistemic-networks/internal/core/model"
)

// NotTesting reports whether scientist id has stopped experimenting: it and
// all of its science-edge peers are at or below the low threshold, or all
// at or above the high threshold. Readers (spin doctors, politicians) are
// not peers for this purpose. Non-scientists always report false.
func (s *Scenario) NotTesting(id int) bool {
	if id < 0 || id >= len(s.entities) || s.entities[id].Kind != model.Scientist {
		return false
	}
	e := &s.entities[id]
	return s.allPeers(e, func(c float64) bool { return c <= s.study.LowConfThreshold }) ||
		s.allPeers(e, func(c float64) bool { return c >= s.study.HighConfThreshold })
}

func (s *Scenario) allPeers(e *model.Entity, ok func(float64) bool) bool {
	if !ok(e.Confidence) {
		return false
	}
	for _, l := range e.Edges {
		if !ok(s.entities[l.Peer].Confidence) {
			return false
		}
	}
	return true
}

// performStudy sets the scientist's score for this tick. A scientist that
// is not testing reports 0 without sampling.
func (s *Scenario) performStudy(e *model.Entity) {
	if s.NotTesting(e.ID) {
		e.Score = 0
		return
	}

	samples := s.draw(nil)
	if stat.Mean(samples, nil) == 0.5 {
		samples = s.draw(samples)
	}
	e.Score = s.provider.Score(samples)
}

func (s *Scenario) draw(samples []float64) []float64 {
	for i := 0; i < s.study.SamplesPerStudy; i++ {
		samples = append(samples, s.sampler.Sample())
	}
	return samples
}
