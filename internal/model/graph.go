package model

// Position is a 2D layout coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeStyle is the render style tuple for an entity type. Distinct types
// must differ in at least one field.
type NodeStyle struct {
	Color       string `json:"color"`
	BorderColor string `json:"border_color"`
	Shape       string `json:"shape"`
}

// GraphNode is a render-ready node with computed position and degree.
// BackendID is set when the node is backed by a story-backend graph node
// and is the id mutations (rename/delete/merge) must target.
type GraphNode struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Type      string    `json:"type"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Degree    int       `json:"degree"`
	Cluster   int       `json:"cluster"`
	Style     NodeStyle `json:"style"`
	BackendID string    `json:"backend_id,omitempty"`
}

// GraphEdge is a render-ready aggregated edge between two resolved nodes.
type GraphEdge struct {
	ID            string `json:"id"`
	Source        string `json:"source"`
	Target        string `json:"target"`
	Relation      string `json:"relation"`
	Label         string `json:"label"`
	Count         int    `json:"count"`
	LatestChapter int    `json:"latest_chapter"`
	LatestEventID string `json:"latest_event_id,omitempty"`
	Color         string `json:"color,omitempty"`
}

// HighlightState holds the ephemeral highlight sets for a clicked node.
// It is recomputed per click and never persisted. Ids are sorted so the
// result is independent of edge iteration order.
type HighlightState struct {
	NodeIDs []string `json:"node_ids"`
	EdgeIDs []string `json:"edge_ids"`
}

// Empty reports whether nothing is highlighted.
func (h HighlightState) Empty() bool {
	return len(h.NodeIDs) == 0 && len(h.EdgeIDs) == 0
}

// GraphView is the full render-ready projection served to clients.
type GraphView struct {
	ProjectID  string         `json:"project_id"`
	Nodes      []GraphNode    `json:"nodes"`
	Edges      []GraphEdge    `json:"edges"`
	State      string         `json:"state"`
	Generation uint64         `json:"generation"`
	Highlight  HighlightState `json:"highlight"`
	Selected   []string       `json:"selected,omitempty"`
}

// MergeSuggestion is one LLM-proposed near-duplicate node pair.
type MergeSuggestion struct {
	KeepNodeID  string  `json:"keep_node_id"`
	MergeNodeID string  `json:"merge_node_id"`
	Confidence  float64 `json:"confidence"`
}
