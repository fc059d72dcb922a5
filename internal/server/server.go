package server

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rowboat1/epistemic-networks/internal/config"
	"github.com/rowboat1/epistemic-networks/internal/core"
	"github.com/rowboat1/epistemic-networks/internal/core/community"
	"github.com/rowboat1/epistemic-networks/internal/core/stats"
	"github.com/rowboat1/epistemic-networks/internal/driver"
)

const maxTicksPerRequest = 10000

// Server exposes one scenario at a time to rendering clients. The scenario
// itself is single-threaded, so every handler holds mu while touching it.
type Server struct {
	mu        sync.Mutex
	cfg       *config.Config
	rng       *rand.Rand
	scenario  *core.Scenario
	publisher *core.Publisher
	settled   bool
}

// NewServer builds the first scenario from cfg. publisher may be nil, in
// which case nothing is mirrored to a graph database.
func NewServer(cfg *config.Config, publisher *core.Publisher) (*Server, error) {
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &Server{
		cfg:       cfg,
		rng:       stats.NewRand(seed),
		publisher: publisher,
	}

	scenario, err := s.newScenario(cfg.Scenario, s.rng)
	if err != nil {
		return nil, err
	}
	s.install(context.Background(), scenario)
	log.Printf("Scenario %s ready: %d scientists, %d politicians, %d spin doctors, %d edges (seed %d)",
		scenario.ID(), cfg.Scenario.NumScientists, cfg.Scenario.NumPoliticians, cfg.Scenario.NumSpinDoctors,
		len(scenario.Edges()), seed)

	return s, nil
}

// NewServerFromConfig connects to Memgraph when enabled and builds the server.
func NewServerFromConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var publisher *core.Publisher
	if cfg.Memgraph.Enabled {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			return nil, err
		}
		if err := d.BuildIndices(ctx); err != nil {
			return nil, err
		}
		publisher = core.NewPublisher(d)
	}

	return NewServer(cfg, publisher)
}

// newScenario builds a scenario whose scientists sample from the apparatus
// named in the study configuration, drawing from rng.
func (s *Server) newScenario(cfg config.ScenarioConfig, rng *rand.Rand) (*core.Scenario, error) {
	return core.NewScenario(cfg, s.cfg.Study, rng, core.WithSampler(stats.Apparatus(s.cfg.Study, rng)))
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/scenario", s.GetScenario)
	r.POST("/tick", s.Tick)
	r.POST("/reset", s.Reset)
	r.GET("/settled", s.Settled)
	r.GET("/communities", s.Communities)

	return r
}

// install swaps in a new scenario and mirrors it. Callers hold mu, except
// during construction.
func (s *Server) install(ctx context.Context, scenario *core.Scenario) {
	if s.publisher != nil && s.scenario != nil {
		if err := s.publisher.Discard(ctx, s.scenario.ID()); err != nil {
			log.Printf("Failed to discard published scenario %s: %v", s.scenario.ID(), err)
		}
	}
	s.scenario = scenario
	s.settled = scenario.Settled()
	s.publish(ctx)
}

func (s *Server) publish(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, s.scenario.Snapshot()); err != nil {
		log.Printf("Failed to publish scenario %s: %v", s.scenario.ID(), err)
	}
}

func (s *Server) GetScenario(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, s.scenario.Snapshot())
}

type TickRequest struct {
	Ticks int `json:"ticks"`
}

func (s *Server) Tick(c *gin.Context) {
	var req TickRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Ticks == 0 {
		req.Ticks = 1
	}
	if req.Ticks < 0 || req.Ticks > maxTicksPerRequest {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticks must be between 1 and 10000"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < req.Ticks; i++ {
		s.scenario.Update()
	}
	if settled := s.scenario.Settled(); settled != s.settled {
		log.Printf("Scenario %s settled=%t at tick %d", s.scenario.ID(), settled, s.scenario.Tick())
		s.settled = settled
	}
	s.publish(c.Request.Context())

	c.JSON(http.StatusOK, s.scenario.Snapshot())
}

type ResetRequest struct {
	Scenario *config.ScenarioConfig `json:"scenario"`
	Seed     *uint64                `json:"seed"`
}

// Reset discards the current scenario and builds a fresh one, optionally
// with a different configuration or seed. Fields of "scenario" that the
// body leaves out keep the current scenario's values.
func (s *Server) Reset(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The body decodes straight into cfg, so it overlays the current values
	cfg := s.scenario.Config()
	req := ResetRequest{Scenario: &cfg}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	rng := stats.NewRand(s.rng.Uint64())
	if req.Seed != nil {
		rng = stats.NewRand(*req.Seed)
	}

	scenario, err := s.newScenario(cfg, rng)
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to reset scenario: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset scenario"})
		return
	}

	log.Printf("Scenario %s replaced by %s", s.scenario.ID(), scenario.ID())
	s.install(c.Request.Context(), scenario)

	c.JSON(http.StatusOK, s.scenario.Snapshot())
}

func (s *Server) Settled(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"id":      s.scenario.ID(),
		"tick":    s.scenario.Tick(),
		"settled": s.scenario.Settled(),
	})
}

// Communities reports research clusters among scientists. method is
// "components" (default) or "lpa".
func (s *Server) Communities(c *gin.Context) {
	var detector community.Detector
	switch method := c.DefaultQuery("method", "components"); method {
	case "components":
		detector = community.NewComponentDetector()
	case "lpa":
		detector = community.NewLabelPropagationDetector()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown method " + method})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	communities, err := s.scenario.Communities(detector)
	if err != nil {
		log.Printf("Failed to detect communities: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detect communities"})
		return
	}

	ids := make([][]int, 0, len(communities))
	for _, members := range communities {
		group := make([]int, 0, len(members))
		for _, m := range members {
			group = append(group, m.ID)
		}
		ids = append(ids, group)
	}

	c.JSON(http.StatusOK, gin.H{"id": s.scenario.ID(), "communities": ids})
}
