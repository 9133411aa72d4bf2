// Package database is the relational fallback search path. It serves
// reads straight from the product repository and treats index writes as
// no-ops, the store IS the source of truth the repository writes to.
package database

import (
	"context"

	"go.uber.org/zap"

	"product-catalog-service/internal/domain"
)

// Backend implements SearchBackend over the product repository.
type Backend struct {
	products domain.ProductRepository
	logger   *zap.Logger
}

// NewBackend creates the repository-backed fallback.
func NewBackend(products domain.ProductRepository, logger *zap.Logger) *Backend {
	return &Backend{products: products, logger: logger}
}

// Search runs the filters through the repository. No relevance scoring,
// results carry a nil score.
func (b *Backend) Search(ctx context.Context, filters domain.SearchFilters) ([]domain.SearchResult, error) {
	filters.Normalize()

	products, err := b.products.FindAllWithFilters(ctx, filters)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(products))
	for _, p := range products {
		results = append(results, productToResult(p))
	}

	return results, nil
}

// GetByID looks the product up directly. Absent products yield nil, nil.
func (b *Backend) GetByID(ctx context.Context, id uint) (*domain.SearchResult, error) {
	product, err := b.products.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	result := productToResult(product)

	return &result, nil
}

// Index is a no-op: the relational store is written by the repository as
// part of the product's own persistence.
func (b *Backend) Index(_ context.Context, _ domain.ProductDocument) error {
	return nil
}

// Update is a no-op for the same reason as Index.
func (b *Backend) Update(_ context.Context, _ domain.ProductDocument) error {
	return nil
}

// Remove is a no-op for the same reason as Index.
func (b *Backend) Remove(_ context.Context, _ uint) error {
	return nil
}

// IsAvailable reports whether the store answers a ping.
func (b *Backend) IsAvailable(ctx context.Context) bool {
	if err := b.products.Ping(ctx); err != nil {
		b.logger.Warn("fallback search store unreachable", zap.Error(err))
		return false
	}

	return true
}

func productToResult(p *domain.Product) domain.SearchResult {
	categories := make([]domain.CategoryRef, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, domain.CategoryRef{ID: c.ID, Name: c.Name})
	}

	return domain.SearchResult{
		ID:          p.ID,
		Name:        p.Name,
		INN:         p.INN,
		Barcode:     p.Barcode,
		Description: p.Description,
		Categories:  categories,
	}
}
