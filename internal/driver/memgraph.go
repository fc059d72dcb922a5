package driver

import (
	"context"
	"fmt"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type MemgraphDriver struct {
	Driver neo4j.DriverWithContext
}

func NewMemgraphDriver(ctx context.Context, uri, username, password string) (*MemgraphDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create driver for %s: %w", uri, err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach %s: %w", uri, err)
	}

	log.Printf("Connected to Memgraph at %s", uri)
	return &MemgraphDriver{Driver: driver}, nil
}

func (d *MemgraphDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *MemgraphDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

func (d *MemgraphDriver) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX ON :Run(uuid);",
		"CREATE INDEX ON :Agent(uuid);",
		"CREATE INDEX ON :Agent(run_uuid);",
	}

	for _, q := range queries {
		_, err := d.ExecuteQuery(ctx, q, nil)
		if err != nil {
			// Memgraph errors when the index already exists
			log.Printf("Warning: failed to create index '%s': %v", q, err)
		}
	}

	return nil
}
