// Package dedupe suggests node merges for the editor. It asks an LLM to
// compare display labels plus backend overviews and returns candidate
// pairs with confidences; the user confirms before anything is merged.
package dedupe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/inkstone-labs/storygraph/internal/llm"
	"github.com/inkstone-labs/storygraph/internal/model"
	"github.com/inkstone-labs/storygraph/internal/storyapi"
)

type suggestionsResult struct {
	Suggestions []model.MergeSuggestion `json:"suggestions"`
}

type Suggestor struct {
	LLM llm.Client
}

func NewSuggestor(client llm.Client) *Suggestor {
	return &Suggestor{LLM: client}
}

// SuggestMerges returns likely-duplicate node pairs, highest confidence
// first. With no LLM configured it returns an empty list rather than an
// error so the endpoint stays usable.
func (s *Suggestor) SuggestMerges(ctx context.Context, nodes []storyapi.BackendGraphNode) ([]model.MergeSuggestion, error) {
	if s.LLM == nil || len(nodes) < 2 {
		return nil, nil
	}

	prompt := fmt.Sprintf(`
<NODES>
%s
</NODES>

Instructions:
The nodes above are characters, locations and items from a novel's relationship graph.
Identify pairs that refer to the same entity under different names (aliases, titles, partial names).
Return a JSON object with key "suggestions" which is a list of objects.
Each object should have "keep_node_id" (the canonical node), "merge_node_id" (the duplicate), and "confidence" (float 0-1).
Only include pairs you are reasonably confident about.

Example JSON:
{
  "suggestions": [
    {"keep_node_id": "n1", "merge_node_id": "n4", "confidence": 0.85}
  ]
}
`, serializeNodes(nodes))

	response, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate merge suggestions: %w", err)
	}

	result, err := llm.ParseJSON[suggestionsResult](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse merge suggestions: %w", err)
	}

	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
	}

	suggestions := make([]model.MergeSuggestion, 0, len(result.Suggestions))
	for _, sg := range result.Suggestions {
		if sg.KeepNodeID == sg.MergeNodeID {
			continue
		}
		if _, ok := known[sg.KeepNodeID]; !ok {
			continue
		}
		if _, ok := known[sg.MergeNodeID]; !ok {
			continue
		}
		suggestions = append(suggestions, sg)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions, nil
}

func serializeNodes(nodes []storyapi.BackendGraphNode) string {
	var b strings.Builder
	for _, n := range nodes {
		fmt.Fprintf(&b, "- ID: %s, Label: %s", n.ID, n.Label)
		if n.Overview != "" {
			fmt.Fprintf(&b, ", Overview: %s", n.Overview)
		}
		b.WriteString("\n")
	}
	return b.String()
}
