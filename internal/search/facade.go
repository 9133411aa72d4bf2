// Package search composes the primary engine adapter and the relational
// fallback under one SearchBackend contract with transparent failover.
package search

import (
	"context"

	"go.uber.org/zap"

	"product-catalog-service/internal/domain"
)

// Facade prefers the primary backend and falls back to the relational
// path when the primary is unavailable or fails. Within one call the
// primary is always attempted (or explicitly skipped as unavailable)
// before the fallback.
type Facade struct {
	primary  domain.SearchBackend
	fallback domain.SearchBackend
	logger   *zap.Logger
}

// NewFacade creates a Facade over the given backends.
func NewFacade(primary, fallback domain.SearchBackend, logger *zap.Logger) *Facade {
	return &Facade{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Search runs the query against the primary when available, falling back
// on failure. A fallback failure is surfaced as an external-service error.
func (f *Facade) Search(ctx context.Context, filters domain.SearchFilters) ([]domain.SearchResult, error) {
	if f.primary.IsAvailable(ctx) {
		results, err := f.primary.Search(ctx, filters)
		if err == nil {
			return results, nil
		}
		f.logger.Warn("primary search backend failed, falling back",
			zap.String("query", filters.Query),
			zap.Error(err),
		)
	} else {
		f.logger.Info("primary search backend unavailable, using fallback")
	}

	results, err := f.fallback.Search(ctx, filters)
	if err != nil {
		f.logger.Error("both search backends failed", zap.Error(err))

		return nil, &domain.ExternalServiceError{
			Kind:    domain.ExternalKindSearch,
			Message: "search failed",
			Err:     err,
		}
	}

	return results, nil
}

// GetByID returns the primary's hit when it is available and has one;
// otherwise the fallback's result, which may itself be absent.
func (f *Facade) GetByID(ctx context.Context, id uint) (*domain.SearchResult, error) {
	if f.primary.IsAvailable(ctx) {
		result, err := f.primary.GetByID(ctx, id)
		if err == nil && result != nil {
			return result, nil
		}
		if err != nil {
			f.logger.Warn("primary search backend failed for get, falling back",
				zap.Uint("id", id),
				zap.Error(err),
			)
		}
	}

	result, err := f.fallback.GetByID(ctx, id)
	if err != nil {
		f.logger.Error("both search backends failed for get",
			zap.Uint("id", id),
			zap.Error(err),
		)

		return nil, nil
	}

	return result, nil
}

// Index writes the document best-effort to BOTH backends: the primary is
// attempted when reachable and its failure swallowed, then the fallback
// is always attempted independently. Neither failure reaches the caller.
func (f *Facade) Index(ctx context.Context, doc domain.ProductDocument) error {
	if f.primary.IsAvailable(ctx) {
		if err := f.primary.Index(ctx, doc); err != nil {
			f.logger.Warn("failed to index in primary backend",
				zap.Uint("id", doc.ID),
				zap.Error(err),
			)
		}
	}

	if err := f.fallback.Index(ctx, doc); err != nil {
		f.logger.Error("failed to index in fallback backend",
			zap.Uint("id", doc.ID),
			zap.Error(err),
		)
	}

	return nil
}

// Update follows the same unconditional best-effort policy as Index.
func (f *Facade) Update(ctx context.Context, doc domain.ProductDocument) error {
	if f.primary.IsAvailable(ctx) {
		if err := f.primary.Update(ctx, doc); err != nil {
			f.logger.Warn("failed to update in primary backend",
				zap.Uint("id", doc.ID),
				zap.Error(err),
			)
		}
	}

	if err := f.fallback.Update(ctx, doc); err != nil {
		f.logger.Error("failed to update in fallback backend",
			zap.Uint("id", doc.ID),
			zap.Error(err),
		)
	}

	return nil
}

// Remove follows the same unconditional best-effort policy as Index.
func (f *Facade) Remove(ctx context.Context, id uint) error {
	if f.primary.IsAvailable(ctx) {
		if err := f.primary.Remove(ctx, id); err != nil {
			f.logger.Warn("failed to remove from primary backend",
				zap.Uint("id", id),
				zap.Error(err),
			)
		}
	}

	if err := f.fallback.Remove(ctx, id); err != nil {
		f.logger.Error("failed to remove from fallback backend",
			zap.Uint("id", id),
			zap.Error(err),
		)
	}

	return nil
}

// IsAvailable reports true when at least one backend can serve reads.
func (f *Facade) IsAvailable(ctx context.Context) bool {
	return f.primary.IsAvailable(ctx) || f.fallback.IsAvailable(ctx)
}
