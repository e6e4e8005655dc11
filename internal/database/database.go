package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/claimsight/neo4j-mcp-claims/internal/config"
)

// neo4jService implements Service on top of the official Neo4j Go driver.
type neo4jService struct {
	driver       neo4j.DriverWithContext
	databaseName string
}

// NewService connects to Neo4j with the configured credentials and verifies
// connectivity before returning. The caller owns the returned service and
// must Close it.
func NewService(ctx context.Context, cfg *config.Config) (Service, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	svc := &neo4jService{
		driver:       driver,
		databaseName: cfg.Database,
	}

	if err := svc.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify neo4j connectivity: %w", err)
	}

	slog.Info("connected to neo4j", "uri", cfg.URI, "database", cfg.Database)
	return svc, nil
}

// NewServiceWithDriver wraps an existing driver. Used by the integration
// test harness, which manages the container-backed driver itself.
func NewServiceWithDriver(driver neo4j.DriverWithContext, databaseName string) Service {
	return &neo4jService{driver: driver, databaseName: databaseName}
}

func (s *neo4jService) ExecuteReadQuery(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(s.databaseName),
		neo4j.ExecuteQueryWithReadersRouting(),
	)
	if err != nil {
		return nil, fmt.Errorf("read query failed: %w", err)
	}
	return result.Records, nil
}

func (s *neo4jService) ExecuteWriteQuery(ctx context.Context, query string, params map[string]any) (*WriteResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(s.databaseName),
		neo4j.ExecuteQueryWithWritersRouting(),
	)
	if err != nil {
		return nil, fmt.Errorf("write query failed: %w", err)
	}

	counters := result.Summary.Counters()
	return &WriteResult{
		Records: result.Records,
		Summary: WriteSummary{
			NodesCreated:         counters.NodesCreated(),
			NodesDeleted:         counters.NodesDeleted(),
			RelationshipsCreated: counters.RelationshipsCreated(),
			RelationshipsDeleted: counters.RelationshipsDeleted(),
			PropertiesSet:        counters.PropertiesSet(),
			LabelsAdded:          counters.LabelsAdded(),
			ConstraintsAdded:     counters.ConstraintsAdded(),
			IndexesAdded:         counters.IndexesAdded(),
		},
	}, nil
}

func (s *neo4jService) GetDatabaseName() string {
	return s.databaseName
}

func (s *neo4jService) VerifyConnectivity(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

func (s *neo4jService) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
