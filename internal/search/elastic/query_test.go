package elastic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-catalog-service/internal/domain"
)

func TestBuildSearchBody_EmptyFiltersMatchAll(t *testing.T) {
	body := BuildSearchBody(domain.SearchFilters{Limit: 20})

	query, ok := body["query"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, query, "match_all")
	assert.Equal(t, 0, body["from"])
	assert.Equal(t, 20, body["size"])
}

func TestBuildSearchBody_FreeTextBuildsShouldGroup(t *testing.T) {
	body := BuildSearchBody(domain.SearchFilters{Query: "widget", Limit: 20})

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})

	should, ok := boolQuery["should"].([]interface{})
	require.True(t, ok)
	assert.Len(t, should, 4)
	assert.Equal(t, 1, boolQuery["minimum_should_match"])

	nameMatch := should[0].(map[string]interface{})["match"].(map[string]interface{})["name"].(map[string]interface{})
	assert.Equal(t, "widget", nameMatch["query"])
	assert.Equal(t, "AUTO", nameMatch["fuzziness"])
}

func TestBuildSearchBody_StructuredFiltersAreMustTerms(t *testing.T) {
	categoryID := uint(5)
	body := BuildSearchBody(domain.SearchFilters{
		CategoryID: &categoryID,
		INN:        "1234567890",
		Barcode:    "1234567890123",
		Limit:      20,
	})

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.NotContains(t, boolQuery, "should")

	must, ok := boolQuery["must"].([]interface{})
	require.True(t, ok)
	require.Len(t, must, 3)

	categoryTerm := must[0].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, uint(5), categoryTerm["categories.id"])

	innTerm := must[1].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "1234567890", innTerm["inn.keyword"])
}

func TestBuildSearchBody_CombinesTextAndFilters(t *testing.T) {
	categoryID := uint(2)
	body := BuildSearchBody(domain.SearchFilters{
		Query:      "drill",
		CategoryID: &categoryID,
		Limit:      10,
		Offset:     30,
	})

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Len(t, boolQuery["should"], 4)
	assert.Len(t, boolQuery["must"], 1)
	assert.Equal(t, 30, body["from"])
	assert.Equal(t, 10, body["size"])
}
