package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkstone-labs/storygraph/internal/model"
)

func TestStyleFor_AllTypesDistinct(t *testing.T) {
	types := []string{model.EntityCharacter, model.EntityLocation, model.EntityItem, "spirit"}

	for i := 0; i < len(types); i++ {
		for j := i + 1; j < len(types); j++ {
			a, b := StyleFor(types[i]), StyleFor(types[j])
			assert.NotEqual(t, a, b, "types %s and %s share a style tuple", types[i], types[j])
		}
	}
}

func TestStyleFor_UnknownTypeGetsDefault(t *testing.T) {
	assert.Equal(t, StyleFor("ghost"), StyleFor("spirit"))
	assert.NotEqual(t, StyleFor("ghost"), StyleFor(model.EntityCharacter))
}

func TestEdgeColor_NeverLegacyPalette(t *testing.T) {
	relations := []string{"背叛", "冲突", "揭露", "交易", "调查", "合作", "保护", "关联", "未知关系"}
	for _, relation := range relations {
		color := EdgeColor(relation)
		assert.NotEmpty(t, color)
		for _, banned := range legacyEdgePalette {
			assert.NotEqual(t, banned, color)
		}
	}
}

func TestInferRelation(t *testing.T) {
	assert.Equal(t, "背叛", InferRelation("他在关键时刻出卖了同伴"))
	assert.Equal(t, "调查", InferRelation("两人潜入仓库寻找线索"))
	assert.Equal(t, RelationDefault, InferRelation("寻常的一次会面"))
}

func TestRelationPriority(t *testing.T) {
	assert.Greater(t, RelationPriority("背叛"), RelationPriority("冲突"))
	assert.Greater(t, RelationPriority("冲突"), RelationPriority("保护"))
	assert.Equal(t, 0, RelationPriority(RelationProgress))
	assert.Equal(t, 0, RelationPriority("没见过的关系"))
}
