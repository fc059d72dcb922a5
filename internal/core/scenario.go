package core

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/rowboat1/epistemic-networks/internal/config"
	"github.com/rowboat1/epistemic-networks/internal/core/model"
	"github.com/rowboat1/epistemic-networks/internal/core/stats"
)

// Scenario owns every entity and edge of one simulation run. The graph is
// fixed at construction; only confidence and score change afterwards.
//
// A Scenario is not safe for concurrent use.
type Scenario struct {
	id    string
	cfg   config.ScenarioConfig
	study config.StudyConfig

	rng      *rand.Rand
	provider stats.Provider
	sampler  stats.Sampler

	entities    []model.Entity
	edges       []model.Edge
	scientists  []int
	politicians []int
	spinDoctors []int

	tick int
}

type Option func(*Scenario)

// WithSampler replaces the apparatus named by the study configuration.
func WithSampler(s stats.Sampler) Option {
	return func(sc *Scenario) {
		sc.sampler = s
	}
}

// NewScenario validates the configuration and builds the random graph. A nil
// rng is replaced by a clock-seeded one.
func NewScenario(cfg config.ScenarioConfig, study config.StudyConfig, rng *rand.Rand, opts ...Option) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := study.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = stats.NewRand(uint64(time.Now().UnixNano()))
	}

	s := &Scenario{
		id:       uuid.New().String(),
		cfg:      cfg,
		study:    study,
		rng:      rng,
		provider: stats.NewProvider(study),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sampler == nil {
		s.sampler = stats.Apparatus(study, rng)
	}

	for i := 0; i < cfg.NumScientists; i++ {
		s.scientists = append(s.scientists, s.addEntity(model.Scientist, i, rng.Float64(), 1))
	}
	for i := 0; i < cfg.NumPoliticians; i++ {
		s.politicians = append(s.politicians, s.addEntity(model.Politician, i, 0.5, 0))
	}
	for i := 0; i < cfg.NumSpinDoctors; i++ {
		s.spinDoctors = append(s.spinDoctors, s.addEntity(model.SpinDoctor, i, 0, 0))
	}

	if err := s.buildEdges(); err != nil {
		return nil, fmt.Errorf("failed to build scenario graph: %w", err)
	}

	return s, nil
}

func (s *Scenario) addEntity(kind model.EntityKind, index int, confidence, score float64) int {
	id := len(s.entities)
	s.entities = append(s.entities, model.Entity{
		ID:         id,
		UUID:       uuid.New().String(),
		Kind:       kind,
		Index:      index,
		Confidence: confidence,
		Score:      score,
	})
	return id
}

// buildEdges samples every eligible pair once, in a fixed order so a seeded
// rng always yields the same graph: unordered scientist pairs, then
// (spin doctor, scientist), (spin doctor, politician), (politician, scientist).
func (s *Scenario) buildEdges() error {
	for i := 0; i < len(s.scientists); i++ {
		for j := i + 1; j < len(s.scientists); j++ {
			if err := s.maybeConnect(model.ScienceEdge, s.scientists[i], s.scientists[j], s.cfg.ScienceEdgeP); err != nil {
				return err
			}
		}
	}

	pairs := []struct {
		kind model.EdgeKind
		from []int
		to   []int
		p    float64
	}{
		{model.SpinReadEdge, s.spinDoctors, s.scientists, s.cfg.SpinReadP},
		{model.SpinWriteEdge, s.spinDoctors, s.politicians, s.cfg.SpinWriteP},
		{model.PolScienceEdge, s.politicians, s.scientists, s.cfg.PolSciP},
	}
	for _, pr := range pairs {
		for _, a := range pr.from {
			for _, b := range pr.to {
				if err := s.maybeConnect(pr.kind, a, b, pr.p); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Scenario) maybeConnect(kind model.EdgeKind, source, target int, p float64) error {
	if s.rng.Float64() >= p {
		return nil
	}
	edge := model.Edge{
		ID:     len(s.edges),
		UUID:   uuid.New().String(),
		Kind:   kind,
		Source: source,
		Target: target,
	}
	if err := edge.Attach(s.entities); err != nil {
		return err
	}
	s.edges = append(s.edges, edge)
	return nil
}

// Update advances exactly one tick: every scientist studies, then every
// entity propagates using the scores produced this tick.
func (s *Scenario) Update() {
	for _, id := range s.scientists {
		s.performStudy(&s.entities[id])
	}

	// Spin doctors go before politicians so a politician never folds in a
	// spin doctor score left over from the previous tick.
	for _, group := range [][]int{s.scientists, s.spinDoctors, s.politicians} {
		for _, id := range group {
			s.propagate(&s.entities[id])
		}
	}

	s.tick++
}

// Settled reports whether every scientist has stopped testing. A scenario
// without scientists is settled from the start.
func (s *Scenario) Settled() bool {
	for _, id := range s.scientists {
		if !s.NotTesting(id) {
			return false
		}
	}
	return true
}

func (s *Scenario) ID() string                    { return s.id }
func (s *Scenario) Tick() int                     { return s.tick }
func (s *Scenario) Config() config.ScenarioConfig { return s.cfg }
func (s *Scenario) Study() config.StudyConfig     { return s.study }

func (s *Scenario) Scientists() []model.Entity  { return s.collect(s.scientists) }
func (s *Scenario) Politicians() []model.Entity { return s.collect(s.politicians) }
func (s *Scenario) SpinDoctors() []model.Entity { return s.collect(s.spinDoctors) }

func (s *Scenario) Edges() []model.Edge {
	return append([]model.Edge(nil), s.edges...)
}

// Entity returns a copy of the entity with arena id id.
func (s *Scenario) Entity(id int) (model.Entity, bool) {
	if id < 0 || id >= len(s.entities) {
		return model.Entity{}, false
	}
	return s.entities[id].Clone(), true
}

func (s *Scenario) collect(ids []int) []model.Entity {
	out := make([]model.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.entities[id].Clone())
	}
	return out
}
