package graph

import "github.com/inkstone-labs/storygraph/internal/model"

// Per-type node styles. Every known type gets a distinct tuple and the
// default case guarantees unknown (future) types still render distinctly
// from all known ones.
var nodeStyles = map[string]model.NodeStyle{
	model.EntityCharacter: {Color: "#4f6d7a", BorderColor: "#2b3a42", Shape: "circle"},
	model.EntityLocation:  {Color: "#56a97a", BorderColor: "#2f5d44", Shape: "rect"},
	model.EntityItem:      {Color: "#c98a3d", BorderColor: "#7a5122", Shape: "diamond"},
}

var defaultNodeStyle = model.NodeStyle{Color: "#8d8d93", BorderColor: "#4a4a50", Shape: "hexagon"}

// StyleFor returns the render style for an entity type, with a mandatory
// default for types this build does not know about.
func StyleFor(entityType string) model.NodeStyle {
	if style, ok := nodeStyles[entityType]; ok {
		return style
	}
	return defaultNodeStyle
}

// Edge colors keyed by relation; unknown relations share the neutral tone.
var edgeColors = map[string]string{
	"背叛": "#b3402e",
	"冲突": "#c2652f",
	"揭露": "#8a5fb0",
	"交易": "#3d7ab8",
	"调查": "#3d9fa8",
	"合作": "#4a9457",
	"保护": "#6b8f3c",
}

const defaultEdgeColor = "#9a9aa0"

// EdgeColor returns the render color for a relation label.
func EdgeColor(relation string) string {
	if color, ok := edgeColors[relation]; ok {
		return color
	}
	return defaultEdgeColor
}

// legacyEdgePalette holds the retired theme colors. They must never
// reappear on rendered edges; the regression test pins this.
var legacyEdgePalette = []string{
	"#ff7675", "#74b9ff", "#55efc4", "#ffeaa7", "#fd79a8", "#a29bfe",
}
