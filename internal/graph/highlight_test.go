package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkstone-labs/storygraph/internal/model"
)

func TestHighlight_NoEdges(t *testing.T) {
	state := Highlight("林七", nil)
	assert.Equal(t, []string{"林七"}, state.NodeIDs)
	assert.Empty(t, state.EdgeIDs)
}

func TestHighlight_IncidentEdgesOnly(t *testing.T) {
	edges := []model.GraphEdge{
		{ID: "e1", Source: "林七", Target: "王五"},
		{ID: "e2", Source: "张三", Target: "林七"},
		{ID: "e3", Source: "张三", Target: "王五"},
	}

	state := Highlight("林七", edges)
	assert.ElementsMatch(t, []string{"e1", "e2"}, state.EdgeIDs)
	assert.ElementsMatch(t, []string{"林七", "王五", "张三"}, state.NodeIDs)
}

func TestHighlight_OrderIndependent(t *testing.T) {
	edges := []model.GraphEdge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "b", Target: "a"},
		{ID: "e3", Source: "c", Target: "d"},
	}
	reversed := []model.GraphEdge{edges[2], edges[1], edges[0]}

	assert.Equal(t, Highlight("a", edges), Highlight("a", reversed))
}

func TestHighlight_ClickedIDAlwaysPresent(t *testing.T) {
	edges := []model.GraphEdge{{ID: "e1", Source: "x", Target: "y"}}
	state := Highlight("unrelated", edges)
	assert.Equal(t, []string{"unrelated"}, state.NodeIDs)
	assert.Empty(t, state.EdgeIDs)
}

func TestHighlight_EmptyIDClears(t *testing.T) {
	edges := []model.GraphEdge{{ID: "e1", Source: "x", Target: "y"}}
	state := Highlight("", edges)
	assert.True(t, state.Empty())
}
