package elastic

import "product-catalog-service/internal/domain"

// BuildSearchBody translates normalized filters into the query DSL.
//
// Free text goes into a should group matching name and description with
// fuzziness plus exact-ish matches on the identifier fields, at least
// one of which must hit. Structured filters become must term clauses so
// they constrain the result set without affecting relevance.
func BuildSearchBody(filters domain.SearchFilters) map[string]interface{} {
	var should []interface{}
	if filters.Query != "" {
		should = []interface{}{
			map[string]interface{}{
				"match": map[string]interface{}{
					"name": map[string]interface{}{
						"query":     filters.Query,
						"fuzziness": "AUTO",
					},
				},
			},
			map[string]interface{}{
				"match": map[string]interface{}{
					"description": map[string]interface{}{
						"query":     filters.Query,
						"fuzziness": "AUTO",
					},
				},
			},
			map[string]interface{}{
				"match": map[string]interface{}{"inn": filters.Query},
			},
			map[string]interface{}{
				"match": map[string]interface{}{"barcode": filters.Query},
			},
		}
	}

	var must []interface{}
	if filters.CategoryID != nil {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"categories.id": *filters.CategoryID},
		})
	}
	if filters.INN != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"inn.keyword": filters.INN},
		})
	}
	if filters.Barcode != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"barcode.keyword": filters.Barcode},
		})
	}

	var query map[string]interface{}
	switch {
	case len(should) == 0 && len(must) == 0:
		query = map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	default:
		boolQuery := map[string]interface{}{}
		if len(should) > 0 {
			boolQuery["should"] = should
			boolQuery["minimum_should_match"] = 1
		}
		if len(must) > 0 {
			boolQuery["must"] = must
		}
		query = map[string]interface{}{"bool": boolQuery}
	}

	return map[string]interface{}{
		"query": query,
		"from":  filters.Offset,
		"size":  filters.Limit,
	}
}
