package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rowboat1/epistemic-networks/internal/core/model"
	"github.com/rowboat1/epistemic-networks/internal/driver"
)

// Publisher mirrors the current state of a run into a graph database so
// external tools can inspect it. Each publish overwrites the run's previous
// values; no history is kept.
type Publisher struct {
	Driver driver.GraphDriver

	// runs whose topology has already been written
	linked map[string]bool
}

func NewPublisher(d driver.GraphDriver) *Publisher {
	return &Publisher{
		Driver: d,
		linked: make(map[string]bool),
	}
}

// Publish writes the run node and every agent's confidence and score. Edges
// never change during a run, so they are written only the first time a run
// is published.
func (p *Publisher) Publish(ctx context.Context, snap Snapshot) error {
	runParams := map[string]interface{}{
		"uuid":            snap.ID,
		"tick":            snap.Tick,
		"settled":         snap.Settled,
		"num_scientists":  snap.Config.NumScientists,
		"num_politicians": snap.Config.NumPoliticians,
		"num_spindoctors": snap.Config.NumSpinDoctors,
		"updated_at":      time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := p.Driver.ExecuteQuery(ctx, driver.SaveRunQuery, runParams); err != nil {
		return fmt.Errorf("failed to save run %s: %w", snap.ID, err)
	}

	entities := snap.Entities()
	agents := make([]map[string]interface{}, 0, len(entities))
	for _, e := range entities {
		agents = append(agents, map[string]interface{}{
			"uuid":       e.UUID,
			"kind":       e.Kind.String(),
			"index":      e.Index,
			"confidence": e.Confidence,
			"score":      e.Score,
		})
	}
	agentParams := map[string]interface{}{
		"run_uuid": snap.ID,
		"tick":     snap.Tick,
		"agents":   agents,
	}
	if _, err := p.Driver.ExecuteQuery(ctx, driver.SaveAgentsQuery, agentParams); err != nil {
		return fmt.Errorf("failed to save agents for run %s: %w", snap.ID, err)
	}

	if p.linked[snap.ID] || len(snap.Edges) == 0 {
		return nil
	}

	uuids := make(map[int]string, len(entities))
	for _, e := range entities {
		uuids[e.ID] = e.UUID
	}
	if _, err := p.Driver.ExecuteQuery(ctx, driver.SaveLinksQuery, map[string]interface{}{
		"run_uuid": snap.ID,
		"links":    linkParams(snap.Edges, uuids),
	}); err != nil {
		return fmt.Errorf("failed to save links for run %s: %w", snap.ID, err)
	}
	p.linked[snap.ID] = true
	return nil
}

// Discard removes everything published for a run.
func (p *Publisher) Discard(ctx context.Context, runID string) error {
	if _, err := p.Driver.ExecuteQuery(ctx, driver.DeleteRunQuery, map[string]interface{}{"run_uuid": runID}); err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	delete(p.linked, runID)
	return nil
}

func linkParams(edges []model.Edge, uuids map[int]string) []map[string]interface{} {
	links := make([]map[string]interface{}, 0, len(edges))
	for _, e := range edges {
		links = append(links, map[string]interface{}{
			"uuid":        e.UUID,
			"kind":        e.Kind.String(),
			"source_uuid": uuids[e.Source],
			"target_uuid": uuids[e.Target],
		})
	}
	return links
}
