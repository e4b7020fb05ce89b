package graph

import (
	"sort"

	"github.com/inkstone-labs/storygraph/internal/model"
)

// Highlight computes the adjacency highlight sets for a clicked node: the
// clicked node itself, every edge incident to it, and both endpoints of
// each such edge. Pure function; the result does not depend on edge
// order. An empty clickedNodeID clears the highlight.
func Highlight(clickedNodeID string, edges []model.GraphEdge) model.HighlightState {
	if clickedNodeID == "" {
		return model.HighlightState{}
	}

	nodeSet := map[string]struct{}{clickedNodeID: {}}
	edgeSet := make(map[string]struct{})

	for _, edge := range edges {
		if edge.Source != clickedNodeID && edge.Target != clickedNodeID {
			continue
		}
		edgeSet[edge.ID] = struct{}{}
		nodeSet[edge.Source] = struct{}{}
		nodeSet[edge.Target] = struct{}{}
	}

	return model.HighlightState{
		NodeIDs: sortedKeys(nodeSet),
		EdgeIDs: sortedKeys(edgeSet),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
