package model

// Entity types tracked across chapters.
const (
	EntityCharacter = "character"
	EntityLocation  = "location"
	EntityItem      = "item"
)

// EntityNode is one extracted narrative entity as served by the story
// backend. Name holds the raw extracted string; NormalizedName is filled
// in by the builder and is empty until then.
type EntityNode struct {
	ID               string                 `json:"entity_id"`
	Type             string                 `json:"entity_type"`
	Name             string                 `json:"name"`
	NormalizedName   string                 `json:"normalized_name,omitempty"`
	Attrs            map[string]interface{} `json:"attrs,omitempty"`
	FirstSeenChapter int                    `json:"first_seen_chapter"`
	LastSeenChapter  int                    `json:"last_seen_chapter"`
}

// EventEdge is one extracted subject-relation-object occurrence. It refers
// to entities by name, not by node id; resolution happens in the
// aggregator and failures there drop the event silently.
type EventEdge struct {
	ID          string  `json:"event_id"`
	Subject     string  `json:"subject"`
	Relation    string  `json:"relation"`
	Object      string  `json:"object,omitempty"`
	Chapter     int     `json:"chapter"`
	Confidence  float64 `json:"confidence,omitempty"`
	Description string  `json:"description,omitempty"`
}
