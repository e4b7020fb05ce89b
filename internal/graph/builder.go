// Package graph turns sanitized entities and events into the render-ready
// node/edge model. Everything here is a pure in-memory transform; the
// inputs come from the story backend and the outputs go to the layout
// engine and then to clients.
package graph

import (
	"sort"

	"github.com/inkstone-labs/storygraph/internal/model"
	"github.com/inkstone-labs/storygraph/internal/normalize"
)

// Fallback grid geometry used before (or instead of) a computed layout.
const (
	gridColumns = 4
	gridOriginX = 120.0
	gridOriginY = 120.0
	gridGapX    = 180.0
	gridGapY    = 140.0
)

// SanitizeEntities normalizes entity names, drops entities whose name does
// not survive the cascade, and merges entities sharing (type, normalized
// name). Attribute maps are unioned with later entries winning on key
// collision; chapter ranges widen to min(first)/max(last). The result is
// ordered by descending last-seen chapter, then ascending name.
func SanitizeEntities(entities []model.EntityNode, n *normalize.Normalizer) []model.EntityNode {
	type key struct {
		entityType string
		name       string
	}

	merged := make(map[key]*model.EntityNode)
	var order []key

	for _, entity := range entities {
		name := n.Clean(entity.Name)
		if name == "" {
			continue
		}
		k := key{entityType: entity.Type, name: name}
		existing, ok := merged[k]
		if !ok {
			copied := entity
			copied.NormalizedName = name
			if entity.Attrs != nil {
				copied.Attrs = make(map[string]interface{}, len(entity.Attrs))
				for ak, av := range entity.Attrs {
					copied.Attrs[ak] = av
				}
			}
			merged[k] = &copied
			order = append(order, k)
			continue
		}

		if entity.FirstSeenChapter < existing.FirstSeenChapter {
			existing.FirstSeenChapter = entity.FirstSeenChapter
		}
		if entity.LastSeenChapter > existing.LastSeenChapter {
			existing.LastSeenChapter = entity.LastSeenChapter
		}
		if len(entity.Attrs) > 0 {
			if existing.Attrs == nil {
				existing.Attrs = make(map[string]interface{}, len(entity.Attrs))
			}
			for ak, av := range entity.Attrs {
				existing.Attrs[ak] = av
			}
		}
	}

	out := make([]model.EntityNode, 0, len(order))
	for _, k := range order {
		out = append(out, *merged[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastSeenChapter != out[j].LastSeenChapter {
			return out[i].LastSeenChapter > out[j].LastSeenChapter
		}
		return out[i].NormalizedName < out[j].NormalizedName
	})
	return out
}

// SanitizeEvents normalizes subject and object names. Events whose subject
// does not survive normalization are dropped; an object that fails, or
// that equals the subject after normalization, becomes absent so the edge
// set never contains self-loops. Events with an empty relation get one
// inferred from the description text.
func SanitizeEvents(events []model.EventEdge, n *normalize.Normalizer) []model.EventEdge {
	out := make([]model.EventEdge, 0, len(events))
	for _, event := range events {
		subject := n.Clean(event.Subject)
		if subject == "" {
			continue
		}
		object := ""
		if event.Object != "" {
			object = n.Clean(event.Object)
		}
		if object == subject {
			object = ""
		}
		copied := event
		copied.Subject = subject
		copied.Object = object
		if copied.Relation == "" {
			copied.Relation = InferRelation(copied.Description)
		}
		out = append(out, copied)
	}
	return out
}

// SanitizeGraphData runs both sanitizers; the canonical entity set and the
// event set are independent until the aggregator resolves names to ids.
func SanitizeGraphData(entities []model.EntityNode, events []model.EventEdge, n *normalize.Normalizer) ([]model.EntityNode, []model.EventEdge) {
	return SanitizeEntities(entities, n), SanitizeEvents(events, n)
}

// SortEventsByChapter returns a copy of events in non-decreasing chapter
// order. The sort is stable and the input slice is not mutated.
func SortEventsByChapter(events []model.EventEdge) []model.EventEdge {
	out := make([]model.EventEdge, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Chapter < out[j].Chapter
	})
	return out
}

// GridPositions returns deterministic fallback positions for count nodes
// laid out on a fixed-column grid.
func GridPositions(count int) []model.Position {
	positions := make([]model.Position, count)
	for i := range positions {
		positions[i] = model.Position{
			X: gridOriginX + float64(i%gridColumns)*gridGapX,
			Y: gridOriginY + float64(i/gridColumns)*gridGapY,
		}
	}
	return positions
}

// BuildNodes projects canonical entities onto render-ready nodes with
// grid fallback positions and per-type styles. Node ids are the
// normalized names, which are unique per project after the merge.
func BuildNodes(entities []model.EntityNode) []model.GraphNode {
	positions := GridPositions(len(entities))
	nodes := make([]model.GraphNode, len(entities))
	for i, entity := range entities {
		nodes[i] = model.GraphNode{
			ID:    entity.NormalizedName,
			Label: entity.NormalizedName,
			Type:  entity.Type,
			X:     positions[i].X,
			Y:     positions[i].Y,
			Style: StyleFor(entity.Type),
		}
	}
	return nodes
}
