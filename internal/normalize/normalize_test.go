package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_BlankAndIgnored(t *testing.T) {
	n := New()
	for _, raw := range []string{"", "   ", "hidden", "UNKNOWN", "none", "null", "source_chapter"} {
		assert.Equal(t, "", n.Clean(raw), "raw=%q", raw)
	}
}

func TestClean_AliasMapsToPlaceholder(t *testing.T) {
	n := New()
	assert.Equal(t, "主角", n.Clean("protagonist"))
	assert.Equal(t, "主角", n.Clean("Primary"))
	assert.Equal(t, "关键配角", n.Clean("supporting"))
	assert.Equal(t, "反派", n.Clean("antagonist"))
	// Placeholder names pass through even though 主角 is also a stopword.
	assert.Equal(t, "主角", n.Clean("主角"))
}

func TestClean_AcceptsPlainNames(t *testing.T) {
	n := New()
	assert.Equal(t, "林七", n.Clean("林七"))
	assert.Equal(t, "王五", n.Clean(" 王五 "))
	assert.Equal(t, "司马长风", n.Clean("司马长风"))
}

func TestClean_StripsConnectiveAndVerbOnce(t *testing.T) {
	n := New()
	// One leading connective and one trailing verb go, the rest stays.
	assert.Equal(t, "林七", n.Clean("连林七"))
	assert.Equal(t, "林七", n.Clean("林七说"))
	assert.Equal(t, "林七", n.Clean("把林七喊"))
	// Single pass only: a second connective is part of the name attempt
	// and then fails the surname rule.
	assert.Equal(t, "", n.Clean("把对林七"))
}

func TestClean_ShapeRules(t *testing.T) {
	n := New()
	assert.Equal(t, "", n.Clean("林"), "one rune")
	assert.Equal(t, "", n.Clean("林七是一个很长的名字啊"), "over eight runes")
	assert.Equal(t, "", n.Clean("Lin7"), "non-CJK")
	assert.Equal(t, "", n.Clean("林七2号"), "digits")
	assert.Equal(t, "", n.Clean("第三章"), "chapter marker")
}

func TestClean_StopwordsAndPrefixes(t *testing.T) {
	n := New()
	assert.Equal(t, "", n.Clean("章节"))
	assert.Equal(t, "", n.Clean("伏笔"))
	assert.Equal(t, "", n.Clean("后者林七"))
	assert.Equal(t, "", n.Clean("据说林七"))
}

func TestClean_InvalidTrailingAndInternal(t *testing.T) {
	n := New()
	// len==2 with an invalid second rune.
	assert.Equal(t, "", n.Clean("谁都"))
	// len>=3 with an invalid internal rune after the first position.
	assert.Equal(t, "", n.Clean("林说七"))
	// len>=3 ending on an invalid rune.
	assert.Equal(t, "", n.Clean("林七了"))
}

func TestClean_BlockedTrailingSuffix(t *testing.T) {
	n := New()
	// Commercial titles ending in 板 never pass as role names.
	assert.Equal(t, "", n.Clean("赵老板"))
	assert.Equal(t, "", n.Clean("老板"))
}

func TestClean_TitleSuffixes(t *testing.T) {
	n := New()
	assert.Equal(t, "王教授", n.Clean("王教授"))
	assert.Equal(t, "林小医生", n.Clean("林小医生"))
	// Stem longer than two runes is rejected.
	assert.Equal(t, "", n.Clean("林小小小教授"))
	// Stem must start with a common surname.
	assert.Equal(t, "", n.Clean("阿花教授"))
}

func TestClean_SurnameAndLengthCap(t *testing.T) {
	n := New()
	// First rune must be a common surname for non-placeholder names.
	assert.Equal(t, "", n.Clean("阿七"))
	// More than four runes without a title suffix is rejected.
	assert.Equal(t, "", n.Clean("林七风云榜"))
	assert.Equal(t, "林七风云", n.Clean("林七风云"))
}

func TestClean_ConfigurableTables(t *testing.T) {
	n := New(
		WithAliases(map[string]string{"boss": "反派"}),
		WithStopwords([]string{"林七"}),
	)
	assert.Equal(t, "反派", n.Clean("Boss"))
	assert.Equal(t, "", n.Clean("林七"))
}

func TestClean_Deterministic(t *testing.T) {
	n := New()
	inputs := []string{"林七", "连王五说", "赵老板", "protagonist", "章节"}
	for _, raw := range inputs {
		assert.Equal(t, n.Clean(raw), n.Clean(raw))
	}
}
