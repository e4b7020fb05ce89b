package graph

import "strings"

// RelationProgress marks chapter-progress events. They carry no
// inter-character meaning and are filtered out of the rendered edge set
// unless explicitly requested.
const (
	RelationProgress      = "进展"
	RelationProgressASCII = "progress"
	RelationDefault       = "关联"
)

// relationPriority ranks relations for the winner-per-pair tie-break.
// Higher wins when chapters are equal. Unknown relations rank 0.
var relationPriority = map[string]int{
	"背叛": 7,
	"冲突": 6,
	"揭露": 5,
	"交易": 4,
	"调查": 3,
	"合作": 2,
	"保护": 1,
	"关联": 1,
}

// RelationPriority returns the tie-break rank for a relation label.
func RelationPriority(relation string) int {
	return relationPriority[relation]
}

// IsProgressRelation reports whether the relation is a progress marker.
func IsProgressRelation(relation string) bool {
	return relation == RelationProgress || strings.EqualFold(relation, RelationProgressASCII)
}

// relationMarkers maps context-text markers onto relations, checked in
// order. Mirrors how the story backend labels events it cannot classify.
var relationMarkers = []struct {
	relation string
	markers  []string
}{
	{"背叛", []string{"背叛", "出卖", "反叛"}},
	{"冲突", []string{"冲突", "对抗", "追击", "威胁", "围攻", "交锋"}},
	{"合作", []string{"合作", "联手", "同盟", "并肩", "协作", "结盟"}},
	{"调查", []string{"调查", "追查", "寻找", "线索", "潜入", "侦查"}},
	{"保护", []string{"保护", "营救", "救下", "掩护", "守住"}},
	{"交易", []string{"交易", "委托", "订单", "买卖", "交换"}},
	{"揭露", []string{"揭露", "曝光", "真相", "证据"}},
}

// InferRelation scans text for relation markers and returns the first
// match, falling back to the generic association relation.
func InferRelation(text string) string {
	for _, rm := range relationMarkers {
		for _, marker := range rm.markers {
			if strings.Contains(text, marker) {
				return rm.relation
			}
		}
	}
	return RelationDefault
}
