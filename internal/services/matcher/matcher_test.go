package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/vendo/internal/models"
)

var defaultKeywords = []string{"设计", "创意"}

func makeCategories(names ...string) []*models.Category {
	categories := make([]*models.Category, len(names))
	for i, name := range names {
		categories[i] = &models.Category{ID: name, Name: name}
	}
	return categories
}

func TestMatchExact(t *testing.T) {
	categories := makeCategories("开发", "设计", "商业")
	result := Match("设计", categories, defaultKeywords)
	assert.Equal(t, "设计", result.Name)
}

func TestMatchExactIsCaseAndSpaceInsensitive(t *testing.T) {
	categories := makeCategories("Web Development", "Design")
	result := Match("web development", categories, nil)
	assert.Equal(t, "Web Development", result.Name)
}

func TestMatchCompoundResolvesBeforeFuzzy(t *testing.T) {
	categories := makeCategories("设计", "平面设计与插画", "商业")
	result := Match("设计-平面设计与插画", categories, defaultKeywords)
	assert.Equal(t, "设计", result.Name)
}

func TestMatchCompoundWithoutHyphen(t *testing.T) {
	categories := makeCategories("音乐制作混音")
	result := Match("音乐制作-混音", categories, nil)
	assert.Equal(t, "音乐制作混音", result.Name)
}

func TestMatchSecondSegment(t *testing.T) {
	categories := makeCategories("商业营销")
	result := Match("职场-营销", categories, nil)
	assert.Equal(t, "商业营销", result.Name)
}

func TestMatchFuzzyPicksLongestContainment(t *testing.T) {
	categories := makeCategories("摄影", "摄影后期")
	result := Match("人像摄影后期教程", categories, nil)
	assert.Equal(t, "摄影后期", result.Name)
}

func TestMatchSingleSegmentRanksByScoreNotListOrder(t *testing.T) {
	// A single-segment title has the same containment candidates as a
	// first-segment scan would; the score rule picks among them, so the
	// result is independent of category list order.
	for _, categories := range [][]*models.Category{
		makeCategories("摄影", "摄影后期"),
		makeCategories("摄影后期", "摄影"),
	} {
		result := Match("人像摄影后期教程", categories, nil)
		assert.Equal(t, "摄影后期", result.Name)
	}
}

func TestMatchKeywordFallback(t *testing.T) {
	categories := makeCategories("编程", "创意工坊", "商业")
	result := Match("完全不相关的标题", categories, defaultKeywords)
	assert.Equal(t, "创意工坊", result.Name)
}

func TestMatchFallsBackToFirstCategory(t *testing.T) {
	categories := makeCategories("编程", "商业")
	result := Match("完全不相关的标题", categories, defaultKeywords)
	assert.Equal(t, "编程", result.Name)
}

func TestMatchEmptyCategories(t *testing.T) {
	assert.Nil(t, Match("任何标题", nil, defaultKeywords))
}

func TestMatchIsDeterministic(t *testing.T) {
	categories := makeCategories("摄影", "摄影教程")
	first := Match("摄影课", categories, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Match("摄影课", categories, nil))
	}
}
