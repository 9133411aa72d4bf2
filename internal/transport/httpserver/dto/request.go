// Package dto defines request and response shapes for the HTTP API.
package dto

import (
	"product-catalog-service/internal/app/service"
	"product-catalog-service/internal/domain"
)

// CreateProductRequest is the body of POST /api/v1/products. Field-level
// rules live in the domain; the handler only parses.
type CreateProductRequest struct {
	Name        string `json:"name"`
	INN         string `json:"inn"`
	Barcode     string `json:"barcode"`
	Description string `json:"description"`
	CategoryIDs []uint `json:"category_ids"`
}

// ToInput converts the request to a service input.
func (r *CreateProductRequest) ToInput() service.CreateProductInput {
	return service.CreateProductInput{
		Name:        r.Name,
		INN:         r.INN,
		Barcode:     r.Barcode,
		Description: r.Description,
		CategoryIDs: r.CategoryIDs,
	}
}

// UpdateProductRequest is the body of PUT /api/v1/products/:id. Absent
// fields stay untouched; a present category_ids replaces the set exactly.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	INN         *string `json:"inn"`
	Barcode     *string `json:"barcode"`
	Description *string `json:"description"`
	CategoryIDs *[]uint `json:"category_ids"`
}

// ToInput converts the request to a service input.
func (r *UpdateProductRequest) ToInput() service.UpdateProductInput {
	return service.UpdateProductInput{
		Name:        r.Name,
		INN:         r.INN,
		Barcode:     r.Barcode,
		Description: r.Description,
		CategoryIDs: r.CategoryIDs,
	}
}

// CategoryRequest is the body of category create and update calls.
type CategoryRequest struct {
	Name string `json:"name"`
}

// SearchRequest holds the query parameters of GET /api/v1/search.
type SearchRequest struct {
	Query      string `query:"q"           json:"q"           validate:"omitempty,max=255"`
	CategoryID *uint  `query:"category_id" json:"category_id" validate:"omitempty,min=1"`
	INN        string `query:"inn"         json:"inn"         validate:"omitempty,numeric,max=12"`
	Barcode    string `query:"barcode"     json:"barcode"     validate:"omitempty,numeric,len=13"`
	Limit      int    `query:"limit"       json:"limit"       validate:"omitempty,min=1,max=100"`
	Offset     int    `query:"offset"      json:"offset"      validate:"omitempty,min=0"`
}

// ToFilters converts the request to domain search filters.
func (r *SearchRequest) ToFilters() domain.SearchFilters {
	return domain.SearchFilters{
		Query:      r.Query,
		CategoryID: r.CategoryID,
		INN:        r.INN,
		Barcode:    r.Barcode,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}
