// Package layout computes 2D positions for graph nodes. Two strategies
// implement the same Provider interface: a self-contained force
// simulation and a layered strategy that delegates to the graphviz
// engine. Both are deterministic for identical input ordering; the engine
// wrapping them guarantees nodes are never left unpositioned by falling
// back to the builder's grid.
package layout

import (
	"context"

	"github.com/inkstone-labs/storygraph/internal/model"
)

// Provider computes a position for every node id. Implementations must
// return a position for each input node or an error; partial results are
// treated as failure by the engine.
type Provider interface {
	Layout(ctx context.Context, nodes []model.GraphNode, edges []model.GraphEdge) (map[string]model.Position, error)
}

// Degrees computes per-node degree from edges, excluding self-loops and
// edges whose endpoints are not in the node set.
func Degrees(nodes []model.GraphNode, edges []model.GraphEdge) map[string]int {
	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
	}

	degrees := make(map[string]int, len(nodes))
	for _, n := range nodes {
		degrees[n.ID] = 0
	}
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		if _, ok := known[e.Source]; !ok {
			continue
		}
		if _, ok := known[e.Target]; !ok {
			continue
		}
		degrees[e.Source]++
		degrees[e.Target]++
	}
	return degrees
}
