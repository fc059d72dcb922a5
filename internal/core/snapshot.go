package core

import (
	"github.com/rowboat1/epistemic-networks/internal/config"
	"github.com/rowboat1/epistemic-networks/internal/core/community"
	"github.com/rowboat1/epistemic-networks/internal/core/model"
)

// Snapshot is a read-only copy of a scenario's state after some tick, shaped
// for renderers and the graph publisher.
type Snapshot struct {
	ID          string                `json:"id"`
	Tick        int                   `json:"tick"`
	Settled     bool                  `json:"settled"`
	Config      config.ScenarioConfig `json:"config"`
	Scientists  []model.Entity        `json:"scientists"`
	Politicians []model.Entity        `json:"politicians"`
	SpinDoctors []model.Entity        `json:"spindoctors"`
	Edges       []model.Edge          `json:"edges"`
}

func (s *Scenario) Snapshot() Snapshot {
	return Snapshot{
		ID:          s.id,
		Tick:        s.tick,
		Settled:     s.Settled(),
		Config:      s.cfg,
		Scientists:  s.Scientists(),
		Politicians: s.Politicians(),
		SpinDoctors: s.SpinDoctors(),
		Edges:       s.Edges(),
	}
}

// Entities returns every entity in arena order.
func (snap Snapshot) Entities() []model.Entity {
	out := make([]model.Entity, 0, len(snap.Scientists)+len(snap.Politicians)+len(snap.SpinDoctors))
	out = append(out, snap.Scientists...)
	out = append(out, snap.Politicians...)
	out = append(out, snap.SpinDoctors...)
	return out
}

// Communities groups scientists linked by science edges using d.
func (s *Scenario) Communities(d community.Detector) ([][]model.Entity, error) {
	return d.Detect(s.Scientists(), s.Edges())
}
