package dto

import (
	"time"

	"product-catalog-service/internal/domain"
)

// timeLayout is the timestamp format used by the public API.
const timeLayout = "2006-01-02 15:04:05"

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// FromDomainCategory converts domain.Category to CategoryResponse.
func FromDomainCategory(c *domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

// FromDomainCategories converts a category slice for list responses.
func FromDomainCategories(categories []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = FromDomainCategory(c)
	}

	return out
}

// ProductResponse represents a full product projection.
type ProductResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	INN         string             `json:"inn"`
	Barcode     string             `json:"barcode"`
	Description string             `json:"description,omitempty"`
	Categories  []CategoryResponse `json:"categories"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
}

// FromDomainProduct converts domain.Product to ProductResponse.
func FromDomainProduct(p *domain.Product) ProductResponse {
	categories := make([]CategoryResponse, len(p.Categories))
	for i, c := range p.Categories {
		categories[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}

	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		INN:         p.INN,
		Barcode:     p.Barcode,
		Description: p.Description,
		Categories:  categories,
		CreatedAt:   p.CreatedAt.Format(timeLayout),
		UpdatedAt:   p.UpdatedAt.Format(timeLayout),
	}
}

// FromDomainProducts converts a product slice for list responses.
func FromDomainProducts(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = FromDomainProduct(p)
	}

	return out
}

// SearchResultResponse represents a single search hit. Score is present
// only when the search engine produced it.
type SearchResultResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	INN         string             `json:"inn"`
	Barcode     string             `json:"barcode"`
	Description string             `json:"description,omitempty"`
	Categories  []CategoryResponse `json:"categories"`
	Score       *float64           `json:"score,omitempty"`
}

// FromSearchResult converts domain.SearchResult to SearchResultResponse.
func FromSearchResult(r domain.SearchResult) SearchResultResponse {
	categories := make([]CategoryResponse, len(r.Categories))
	for i, c := range r.Categories {
		categories[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}

	return SearchResultResponse{
		ID:          r.ID,
		Name:        r.Name,
		INN:         r.INN,
		Barcode:     r.Barcode,
		Description: r.Description,
		Categories:  categories,
		Score:       r.Score,
	}
}

// SearchResponse represents the search results response.
type SearchResponse struct {
	Results []SearchResultResponse `json:"results"`
	Count   int                    `json:"count"`
}

// FromSearchResults converts search hits to SearchResponse.
func FromSearchResults(results []domain.SearchResult) SearchResponse {
	out := make([]SearchResultResponse, len(results))
	for i, r := range results {
		out[i] = FromSearchResult(r)
	}

	return SearchResponse{Results: out, Count: len(out)}
}

// ReindexResponse represents the result of a full reindex.
type ReindexResponse struct {
	Indexed  int    `json:"indexed"`
	Duration string `json:"duration"`
}

// StatsResponse represents dashboard stats.
type StatsResponse struct {
	TotalProducts   int64  `json:"total_products"`
	TotalCategories int64  `json:"total_categories"`
	SearchAvailable bool   `json:"search_available"`
	Timestamp       string `json:"timestamp"`
}

// NewStatsResponse builds a StatsResponse stamped with the current time.
func NewStatsResponse(products, categories int64, searchAvailable bool) StatsResponse {
	return StatsResponse{
		TotalProducts:   products,
		TotalCategories: categories,
		SearchAvailable: searchAvailable,
		Timestamp:       time.Now().UTC().Format(timeLayout),
	}
}

// HealthResponse represents health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
