package graph

import (
	"fmt"
	"sort"

	"github.com/inkstone-labs/storygraph/internal/model"
)

// Options controls edge aggregation.
type Options struct {
	// IncludeProgress keeps progress-marker events in the edge set.
	IncludeProgress bool
	// LatestPerPair collapses each undirected node pair down to a single
	// winning edge. When false every distinct directed relation is kept.
	LatestPerPair bool
}

// DefaultOptions matches what the graph view renders.
func DefaultOptions() Options {
	return Options{IncludeProgress: false, LatestPerPair: true}
}

// edgeAggregate accumulates occurrences of one (source, target, relation).
type edgeAggregate struct {
	source        string
	target        string
	relation      string
	count         int
	latestChapter int
	latestEventID string
}

// BuildEdges resolves events against the canonical entity set and
// collapses them into renderable edges. Events referring to names that do
// not resolve are dropped silently; that is expected loss from noisy
// extraction, not an error.
func BuildEdges(events []model.EventEdge, entities []model.EntityNode, opts Options) []model.GraphEdge {
	lookup := make(map[string]string, len(entities))
	for _, entity := range entities {
		// Names are unique after the sanitize merge; id == normalized name.
		lookup[entity.NormalizedName] = entity.NormalizedName
	}

	aggregates := make(map[string]*edgeAggregate)
	var order []string

	for _, event := range events {
		if !opts.IncludeProgress && IsProgressRelation(event.Relation) {
			continue
		}
		sourceID, ok := lookup[event.Subject]
		if !ok {
			continue
		}
		targetID, ok := lookup[event.Object]
		if !ok {
			continue
		}

		key := event.Subject + "::" + event.Object + "::" + event.Relation
		agg, ok := aggregates[key]
		if !ok {
			agg = &edgeAggregate{
				source:        sourceID,
				target:        targetID,
				relation:      event.Relation,
				latestChapter: event.Chapter,
				latestEventID: event.ID,
			}
			aggregates[key] = agg
			order = append(order, key)
		}
		agg.count++
		// Later occurrences win only on a strictly higher chapter, or on
		// the higher event id at the same chapter. Deterministic for any
		// input order.
		if event.Chapter > agg.latestChapter ||
			(event.Chapter == agg.latestChapter && event.ID > agg.latestEventID) {
			agg.latestChapter = event.Chapter
			agg.latestEventID = event.ID
		}
	}

	if opts.LatestPerPair {
		return winnerPerPair(aggregates, order)
	}
	return allPerDirectedPair(aggregates, order)
}

// beats reports whether a should win over b for the same node pair:
// highest chapter, then relation priority, then relation string ascending.
func beats(a, b *edgeAggregate) bool {
	if a.latestChapter != b.latestChapter {
		return a.latestChapter > b.latestChapter
	}
	if pa, pb := RelationPriority(a.relation), RelationPriority(b.relation); pa != pb {
		return pa > pb
	}
	return a.relation < b.relation
}

func undirectedKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "::" + b
}

func winnerPerPair(aggregates map[string]*edgeAggregate, order []string) []model.GraphEdge {
	winners := make(map[string]*edgeAggregate)
	var pairOrder []string
	for _, key := range order {
		agg := aggregates[key]
		pair := undirectedKey(agg.source, agg.target)
		current, ok := winners[pair]
		if !ok {
			winners[pair] = agg
			pairOrder = append(pairOrder, pair)
			continue
		}
		if beats(agg, current) {
			winners[pair] = agg
		}
	}

	sort.Strings(pairOrder)
	edges := make([]model.GraphEdge, 0, len(pairOrder))
	for _, pair := range pairOrder {
		edges = append(edges, renderEdge(winners[pair]))
	}
	return edges
}

func allPerDirectedPair(aggregates map[string]*edgeAggregate, order []string) []model.GraphEdge {
	grouped := make(map[string][]*edgeAggregate)
	var pairOrder []string
	for _, key := range order {
		agg := aggregates[key]
		pair := agg.source + "::" + agg.target
		if _, ok := grouped[pair]; !ok {
			pairOrder = append(pairOrder, pair)
		}
		grouped[pair] = append(grouped[pair], agg)
	}

	sort.Strings(pairOrder)
	var edges []model.GraphEdge
	for _, pair := range pairOrder {
		group := grouped[pair]
		sort.SliceStable(group, func(i, j int) bool {
			return beats(group[i], group[j])
		})
		for _, agg := range group {
			edges = append(edges, renderEdge(agg))
		}
	}
	return edges
}

func renderEdge(agg *edgeAggregate) model.GraphEdge {
	label := agg.relation
	if agg.count > 1 {
		label = fmt.Sprintf("%s ×%d", agg.relation, agg.count)
	}
	return model.GraphEdge{
		ID:            agg.source + "::" + agg.target + "::" + agg.relation,
		Source:        agg.source,
		Target:        agg.target,
		Relation:      agg.relation,
		Label:         label,
		Count:         agg.count,
		LatestChapter: agg.latestChapter,
		LatestEventID: agg.latestEventID,
		Color:         EdgeColor(agg.relation),
	}
}
