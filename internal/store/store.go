// Package store persists graph view snapshots to Memgraph so external
// tooling can query the relationship graph with Cypher. The view service
// itself never reads them back; export is write-only.
package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/inkstone-labs/storygraph/internal/logger"
	"github.com/inkstone-labs/storygraph/internal/model"
)

// SnapshotStore is what the export handler depends on. *MemgraphStore
// satisfies it; tests substitute fakes.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, projectID string, nodes []model.GraphNode, edges []model.GraphEdge) error
	Close(ctx context.Context) error
}

type MemgraphStore struct {
	driver neo4j.DriverWithContext
	log    *logger.Logger
}

func NewMemgraphStore(ctx context.Context, uri, username, password string, log *logger.Logger) (*MemgraphStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create memgraph driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to memgraph: %w", err)
	}

	s := &MemgraphStore{driver: driver, log: log}
	s.buildIndices(ctx)
	return s, nil
}

func (s *MemgraphStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *MemgraphStore) execute(ctx context.Context, query string, params map[string]interface{}) error {
	_, err := neo4j.ExecuteQuery(ctx, s.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (s *MemgraphStore) buildIndices(ctx context.Context) {
	queries := []string{
		"CREATE INDEX ON :StoryNode(project_id);",
		"CREATE INDEX ON :StoryNode(name);",
	}
	for _, q := range queries {
		if err := s.execute(ctx, q, nil); err != nil {
			// Index may already exist; export still works without it.
			s.log.Warn("failed to create index", "query", q, "error", err)
		}
	}
}

// SaveSnapshot replaces the project's stored snapshot with the given
// nodes and edges. The previous snapshot is deleted first so removed
// nodes do not linger.
func (s *MemgraphStore) SaveSnapshot(ctx context.Context, projectID string, nodes []model.GraphNode, edges []model.GraphEdge) error {
	if err := s.execute(ctx, queryDeleteSnapshot, map[string]interface{}{
		"project_id": projectID,
	}); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	for _, n := range nodes {
		if err := s.execute(ctx, queryCreateNode, map[string]interface{}{
			"project_id": projectID,
			"name":       n.ID,
			"label":      n.Label,
			"node_type":  n.Type,
			"cluster":    n.Cluster,
			"degree":     n.Degree,
			"x":          n.X,
			"y":          n.Y,
		}); err != nil {
			return fmt.Errorf("failed to store node %s: %w", n.ID, err)
		}
	}

	for _, e := range edges {
		if err := s.execute(ctx, queryCreateEdge, map[string]interface{}{
			"project_id": projectID,
			"source":     e.Source,
			"target":     e.Target,
			"relation":   e.Relation,
			"count":      e.Count,
			"chapter":    e.LatestChapter,
		}); err != nil {
			return fmt.Errorf("failed to store edge %s: %w", e.ID, err)
		}
	}

	s.log.Info("snapshot saved", "project_id", projectID, "nodes", len(nodes), "edges", len(edges))
	return nil
}
