package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkstone-labs/storygraph/internal/model"
	"github.com/inkstone-labs/storygraph/internal/normalize"
)

func canonical(names ...string) []model.EntityNode {
	entities := make([]model.EntityNode, len(names))
	for i, name := range names {
		entities[i] = model.EntityNode{
			Type:           model.EntityCharacter,
			Name:           name,
			NormalizedName: name,
		}
	}
	return entities
}

func TestBuildEdges_UnresolvedReferenceDropped(t *testing.T) {
	n := normalize.New()
	entities := SanitizeEntities([]model.EntityNode{
		{Type: model.EntityCharacter, Name: "林七", FirstSeenChapter: 1, LastSeenChapter: 3},
	}, n)
	events := SanitizeEvents([]model.EventEdge{
		{ID: "ev1", Subject: "林七", Relation: "背叛", Object: "赵老板", Chapter: 5},
	}, n)

	edges := BuildEdges(events, entities, DefaultOptions())
	assert.Empty(t, edges)
}

func TestBuildEdges_CountsAndLabel(t *testing.T) {
	entities := canonical("林七", "王五")
	events := []model.EventEdge{
		{ID: "ev1", Subject: "林七", Relation: "合作", Object: "王五", Chapter: 1},
		{ID: "ev2", Subject: "林七", Relation: "合作", Object: "王五", Chapter: 4},
	}

	edges := BuildEdges(events, entities, DefaultOptions())
	assert.Len(t, edges, 1)
	assert.Equal(t, 2, edges[0].Count)
	assert.Equal(t, "合作 ×2", edges[0].Label)
	assert.Equal(t, 4, edges[0].LatestChapter)
	assert.Equal(t, "ev2", edges[0].LatestEventID)
}

func TestBuildEdges_SingleOccurrenceLabelIsRelation(t *testing.T) {
	entities := canonical("林七", "王五")
	events := []model.EventEdge{
		{ID: "ev1", Subject: "林七", Relation: "调查", Object: "王五", Chapter: 2},
	}

	edges := BuildEdges(events, entities, DefaultOptions())
	assert.Len(t, edges, 1)
	assert.Equal(t, "调查", edges[0].Label)
}

func TestBuildEdges_ChapterBeatsRelationPriority(t *testing.T) {
	entities := canonical("林七", "王五")
	events := []model.EventEdge{
		{ID: "a", Subject: "林七", Relation: "冲突", Object: "王五", Chapter: 3},
		{ID: "b", Subject: "王五", Relation: "保护", Object: "林七", Chapter: 5},
	}

	edges := BuildEdges(events, entities, Options{LatestPerPair: true})
	assert.Len(t, edges, 1)
	assert.Equal(t, "保护", edges[0].Relation)
	assert.Equal(t, 5, edges[0].LatestChapter)
}

func TestBuildEdges_PriorityBreaksEqualChapter(t *testing.T) {
	entities := canonical("林七", "王五")
	events := []model.EventEdge{
		{ID: "a", Subject: "林七", Relation: "保护", Object: "王五", Chapter: 3},
		{ID: "b", Subject: "林七", Relation: "背叛", Object: "王五", Chapter: 3},
	}

	edges := BuildEdges(events, entities, Options{LatestPerPair: true})
	assert.Len(t, edges, 1)
	assert.Equal(t, "背叛", edges[0].Relation)
}

func TestBuildEdges_EqualChapterLatestPinnedToEventID(t *testing.T) {
	entities := canonical("林七", "王五")
	forward := []model.EventEdge{
		{ID: "ev1", Subject: "林七", Relation: "合作", Object: "王五", Chapter: 3},
		{ID: "ev2", Subject: "林七", Relation: "合作", Object: "王五", Chapter: 3},
	}
	reversed := []model.EventEdge{forward[1], forward[0]}

	a := BuildEdges(forward, entities, DefaultOptions())
	b := BuildEdges(reversed, entities, DefaultOptions())
	assert.Equal(t, a, b)
	assert.Equal(t, "ev2", a[0].LatestEventID)
}

func TestBuildEdges_ProgressFiltered(t *testing.T) {
	entities := canonical("林七", "王五")
	events := []model.EventEdge{
		{ID: "ev1", Subject: "林七", Relation: RelationProgress, Object: "王五", Chapter: 1},
	}

	assert.Empty(t, BuildEdges(events, entities, Options{LatestPerPair: true}))
	assert.Len(t, BuildEdges(events, entities, Options{IncludeProgress: true, LatestPerPair: true}), 1)
}

func TestBuildEdges_DirectedModeKeepsDistinctRelations(t *testing.T) {
	entities := canonical("林七", "王五")
	events := []model.EventEdge{
		{ID: "a", Subject: "林七", Relation: "合作", Object: "王五", Chapter: 1},
		{ID: "b", Subject: "林七", Relation: "冲突", Object: "王五", Chapter: 1},
		{ID: "c", Subject: "王五", Relation: "调查", Object: "林七", Chapter: 2},
	}

	edges := BuildEdges(events, entities, Options{LatestPerPair: false})
	assert.Len(t, edges, 3)
	// Within the 林七→王五 pair the higher-priority relation sorts first.
	assert.Equal(t, "冲突", edges[0].Relation)
	assert.Equal(t, "合作", edges[1].Relation)
	assert.Equal(t, "调查", edges[2].Relation)
}

func TestBuildEdges_NoLegacyPaletteColors(t *testing.T) {
	entities := canonical("林七", "王五", "张三")
	events := []model.EventEdge{
		{ID: "a", Subject: "林七", Relation: "背叛", Object: "王五", Chapter: 1},
		{ID: "b", Subject: "林七", Relation: "神秘关系", Object: "张三", Chapter: 2},
		{ID: "c", Subject: "王五", Relation: "保护", Object: "张三", Chapter: 3},
	}

	edges := BuildEdges(events, entities, Options{LatestPerPair: false})
	assert.NotEmpty(t, edges)
	for _, edge := range edges {
		assert.NotEmpty(t, edge.Color)
		for _, banned := range legacyEdgePalette {
			assert.NotEqual(t, banned, edge.Color, "edge %s uses retired theme color", edge.ID)
		}
	}
}
