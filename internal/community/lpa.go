// Package community groups graph nodes into clusters with label
// propagation. Cluster ids feed the view layer so tightly-connected
// character groups can share a visual treatment.
package community

import (
	"sort"

	"github.com/inkstone-labs/storygraph/internal/model"
)

// Detector runs label propagation over an undirected weighted view of
// the graph. Edge aggregation counts feed the weights, so a pair with
// many underlying events pulls harder than a single mention.
type Detector struct {
	MaxIterations int
}

func NewDetector() *Detector {
	return &Detector{MaxIterations: 20}
}

// Assign computes a cluster id for every node and writes it onto the
// slice in place. Cluster ids are dense, start at 0, and are assigned in
// node order so identical input yields identical ids. Singleton nodes get
// their own cluster.
func (d *Detector) Assign(nodes []model.GraphNode, edges []model.GraphEdge) {
	if len(nodes) == 0 {
		return
	}

	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
	}

	adj := make(map[string]map[string]int, len(nodes))
	for _, n := range nodes {
		adj[n.ID] = make(map[string]int)
	}
	for _, e := range edges {
		if _, ok := known[e.Source]; !ok {
			continue
		}
		if _, ok := known[e.Target]; !ok {
			continue
		}
		if e.Source == e.Target {
			continue
		}
		weight := e.Count
		if weight < 1 {
			weight = 1
		}
		adj[e.Source][e.Target] += weight
		adj[e.Target][e.Source] += weight
	}

	labels := make(map[string]string, len(nodes))
	order := make([]string, len(nodes))
	for i, n := range nodes {
		labels[n.ID] = n.ID
		order[i] = n.ID
	}
	// Fixed processing order keeps the result deterministic.
	sort.Strings(order)

	for iter := 0; iter < d.MaxIterations; iter++ {
		changed := 0

		for _, u := range order {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			counts := make(map[string]int, len(neighbors))
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				counts[label] += weight
				if counts[label] > maxCount {
					maxCount = counts[label]
				}
			}

			var candidates []string
			for label, count := range counts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}
			sort.Strings(candidates)
			best := candidates[len(candidates)-1]

			if labels[u] != best {
				labels[u] = best
				changed++
			}
		}

		if changed == 0 {
			break
		}
	}

	// Densify labels into small ints in node order.
	clusterIDs := make(map[string]int)
	next := 0
	for i := range nodes {
		label := labels[nodes[i].ID]
		id, ok := clusterIDs[label]
		if !ok {
			id = next
			clusterIDs[label] = id
			next++
		}
		nodes[i].Cluster = id
	}
}
