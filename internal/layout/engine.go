package layout

import (
	"context"

	"github.com/inkstone-labs/storygraph/internal/graph"
	"github.com/inkstone-labs/storygraph/internal/logger"
	"github.com/inkstone-labs/storygraph/internal/model"
)

// Engine wraps a Provider with degree computation, optional caching, and
// the grid fallback. Nodes coming out of Apply always have a position; a
// provider failure degrades layout quality, never correctness.
type Engine struct {
	strategy string
	provider Provider
	cache    *Cache
	log      *logger.Logger
}

func NewEngine(strategy string, provider Provider, cache *Cache, log *logger.Logger) *Engine {
	return &Engine{strategy: strategy, provider: provider, cache: cache, log: log}
}

// Apply computes degrees, positions every node, and returns the updated
// slice. The input slice is mutated in place and returned for chaining.
func (e *Engine) Apply(ctx context.Context, nodes []model.GraphNode, edges []model.GraphEdge) []model.GraphNode {
	if len(nodes) == 0 {
		return nodes
	}

	degrees := Degrees(nodes, edges)
	for i := range nodes {
		nodes[i].Degree = degrees[nodes[i].ID]
	}

	key := CacheKey(e.strategy, nodes, edges)
	if positions, ok := e.cache.Get(ctx, key); ok && e.applyPositions(nodes, positions) {
		return nodes
	}

	positions, err := e.provider.Layout(ctx, nodes, edges)
	if err != nil || !e.applyPositions(nodes, positions) {
		// Degraded but functional: keep the deterministic grid.
		e.log.Warn("layout failed, using grid fallback", "strategy", e.strategy, "nodes", len(nodes), "error", err)
		grid := graph.GridPositions(len(nodes))
		for i := range nodes {
			nodes[i].X = grid[i].X
			nodes[i].Y = grid[i].Y
		}
		return nodes
	}

	e.cache.Set(ctx, key, positions)
	return nodes
}

// applyPositions copies positions onto nodes; false when any node is
// missing so callers can treat partial layouts as failure.
func (e *Engine) applyPositions(nodes []model.GraphNode, positions map[string]model.Position) bool {
	for _, n := range nodes {
		if _, ok := positions[n.ID]; !ok {
			return false
		}
	}
	for i := range nodes {
		pos := positions[nodes[i].ID]
		nodes[i].X = pos.X
		nodes[i].Y = pos.Y
	}
	return true
}
