// Package service contains the application services orchestrating the
// catalog's domain rules over the repositories, the verification
// provider and the search façade.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"product-catalog-service/internal/domain"
)

// innCacheKeyPrefix namespaces the verification verdict keys.
const innCacheKeyPrefix = "inn_validation_"

// Cached verdict values. Anything that is not an accept is a reject.
const (
	innVerdictAccepted = "1"
	innVerdictRejected = "0"
)

// CreateProductInput carries the fields of a create request.
type CreateProductInput struct {
	Name        string
	INN         string
	Barcode     string
	Description string
	CategoryIDs []uint
}

// UpdateProductInput carries a partial update. Nil fields are left
// untouched; a non-nil CategoryIDs replaces the membership set exactly.
type UpdateProductInput struct {
	Name        *string
	INN         *string
	Barcode     *string
	Description *string
	CategoryIDs *[]uint
}

// ProductService implements the catalog's product operations.
type ProductService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	search     domain.SearchBackend
	validator  domain.InnValidator
	cache      domain.Cache
	innTTL     time.Duration
	logger     *zap.Logger
}

// NewProductService creates the product service. search is expected to
// be the resilience façade, not a bare backend.
func NewProductService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	search domain.SearchBackend,
	validator domain.InnValidator,
	cache domain.Cache,
	innTTL time.Duration,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		search:     search,
		validator:  validator,
		cache:      cache,
		innTTL:     innTTL,
		logger:     logger,
	}
}

// GetAll returns every product with categories loaded.
func (s *ProductService) GetAll(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, &domain.DomainError{Op: "list products", Err: err}
	}

	return products, nil
}

// GetFiltered returns products matching store-level filters: substring
// match for the query, equality for the rest, paginated.
func (s *ProductService) GetFiltered(ctx context.Context, filters domain.SearchFilters) ([]*domain.Product, error) {
	products, err := s.products.FindAllWithFilters(ctx, filters)
	if err != nil {
		return nil, &domain.DomainError{Op: "list products", Err: err}
	}

	return products, nil
}

// GetByID returns the product, or nil when it does not exist. Absence is
// not an error.
func (s *ProductService) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := s.products.Find(ctx, id)
	if err != nil {
		return nil, &domain.DomainError{Op: "get product", Err: err}
	}

	return product, nil
}

// Search delegates to the façade. Failures come back as a single
// search-failure kind without naming which backend broke.
func (s *ProductService) Search(ctx context.Context, filters domain.SearchFilters) ([]domain.SearchResult, error) {
	return s.search.Search(ctx, filters)
}

// SearchByID resolves a single product through the façade's
// primary-then-fallback read path.
func (s *ProductService) SearchByID(ctx context.Context, id uint) (*domain.SearchResult, error) {
	return s.search.GetByID(ctx, id)
}

// Create validates, persists and indexes a new product.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	product := domain.NewProduct(input.Name, input.INN, input.Barcode, input.Description)

	if violations := product.Validate(); len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	if err := s.validateINN(ctx, product.INN); err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(ctx, product.INN, product.Barcode, 0); err != nil {
		return nil, err
	}

	// Entity rules are re-checked right before the write
	if violations := product.Validate(); len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, s.persistError("create product", err)
	}

	if len(input.CategoryIDs) > 0 {
		categories, err := s.resolveCategories(ctx, input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := s.products.AddCategories(ctx, product, categories); err != nil {
			return nil, &domain.DomainError{Op: "create product", Err: err}
		}
		product.Categories = categories
	}

	s.indexBestEffort(ctx, product, "create")

	return product, nil
}

// Update applies a partial update. The tax ID is re-verified only when
// its value actually changes; the barcode only re-checks shape and
// uniqueness.
func (s *ProductService) Update(ctx context.Context, id uint, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.Find(ctx, id)
	if err != nil {
		return nil, &domain.DomainError{Op: "update product", Err: err}
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "product", ID: id}
	}

	innChanged := input.INN != nil && *input.INN != product.INN
	barcodeChanged := input.Barcode != nil && *input.Barcode != product.Barcode

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.INN != nil {
		product.INN = *input.INN
	}
	if input.Barcode != nil {
		product.Barcode = *input.Barcode
	}
	if input.Description != nil {
		product.Description = *input.Description
	}

	if violations := product.Validate(); len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	if innChanged {
		if err := s.validateINN(ctx, product.INN); err != nil {
			return nil, err
		}
		exists, err := s.products.ExistsByINN(ctx, product.INN, product.ID)
		if err != nil {
			return nil, &domain.DomainError{Op: "update product", Err: err}
		}
		if exists {
			return nil, &domain.DuplicateResourceError{Field: "inn", Value: product.INN}
		}
	}

	if barcodeChanged {
		exists, err := s.products.ExistsByBarcode(ctx, product.Barcode, product.ID)
		if err != nil {
			return nil, &domain.DomainError{Op: "update product", Err: err}
		}
		if exists {
			return nil, &domain.DuplicateResourceError{Field: "barcode", Value: product.Barcode}
		}
	}

	product.UpdatedAt = time.Now().UTC()
	if err := s.products.Save(ctx, product); err != nil {
		return nil, s.persistError("update product", err)
	}

	if input.CategoryIDs != nil {
		if err := s.syncCategories(ctx, product, *input.CategoryIDs); err != nil {
			return nil, err
		}
	}

	s.indexBestEffort(ctx, product, "update")

	return product, nil
}

// Delete removes the product from the index (best-effort) and the store.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.products.Find(ctx, id)
	if err != nil {
		return &domain.DomainError{Op: "delete product", Err: err}
	}
	if product == nil {
		return &domain.NotFoundError{Resource: "product", ID: id}
	}

	if err := s.search.Remove(ctx, product.ID); err != nil {
		s.logger.Warn("failed to remove product from search index",
			zap.Uint("id", product.ID),
			zap.Error(err),
		)
	}

	if err := s.products.Delete(ctx, product); err != nil {
		return &domain.DomainError{Op: "delete product", Err: err}
	}

	return nil
}

// ReindexAll pushes every product into the search index and returns how
// many documents were submitted. It refuses outright when no search
// path can serve writes.
func (s *ProductService) ReindexAll(ctx context.Context) (int, error) {
	if !s.search.IsAvailable(ctx) {
		return 0, &domain.ExternalServiceError{
			Kind:    domain.ExternalKindSearch,
			Message: "search service is unavailable, reindex aborted",
		}
	}

	products, err := s.products.FindAll(ctx)
	if err != nil {
		return 0, &domain.DomainError{Op: "reindex products", Err: err}
	}

	for _, product := range products {
		if err := s.search.Index(ctx, product.Document()); err != nil {
			s.logger.Warn("failed to index product during reindex",
				zap.Uint("id", product.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("reindex completed", zap.Int("count", len(products)))

	return len(products), nil
}

// validateINN settles the tax ID's legitimacy. A cached verdict is
// authoritative for the TTL window; both the provider saying no and the
// provider failing reject the call, cached as negative, but with
// distinguishable kinds.
func (s *ProductService) validateINN(ctx context.Context, inn string) error {
	key := innCacheKeyPrefix + inn

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		// Cache trouble degrades to a provider call
		s.logger.Warn("verification cache read failed", zap.Error(err))
	}
	if cached != nil {
		if string(cached) == innVerdictAccepted {
			return nil
		}

		return &domain.ExternalServiceError{
			Kind:    domain.ExternalKindRejected,
			Message: fmt.Sprintf("INN '%s' was rejected by the verification provider", inn),
		}
	}

	result := s.validator.Validate(ctx, inn, domain.PartyLegal)

	switch result.Status {
	case domain.InnValid:
		s.cacheVerdict(ctx, key, innVerdictAccepted)

		return nil

	case domain.InnInvalid:
		s.cacheVerdict(ctx, key, innVerdictRejected)

		return &domain.ExternalServiceError{
			Kind:    domain.ExternalKindRejected,
			Message: result.Reason,
		}

	default: // domain.InnFailed
		s.cacheVerdict(ctx, key, innVerdictRejected)

		return &domain.ExternalServiceError{
			Kind:    domain.ExternalKindUnreachable,
			Message: result.Reason,
		}
	}
}

func (s *ProductService) cacheVerdict(ctx context.Context, key, verdict string) {
	if err := s.cache.Set(ctx, key, []byte(verdict), s.innTTL); err != nil {
		s.logger.Warn("verification cache write failed", zap.Error(err))
	}
}

// checkUniqueness pre-checks both identifier fields independently. The
// store's constraints remain the final arbiter under races.
func (s *ProductService) checkUniqueness(ctx context.Context, inn, barcode string, excludeID uint) error {
	exists, err := s.products.ExistsByINN(ctx, inn, excludeID)
	if err != nil {
		return &domain.DomainError{Op: "check inn uniqueness", Err: err}
	}
	if exists {
		return &domain.DuplicateResourceError{Field: "inn", Value: inn}
	}

	exists, err = s.products.ExistsByBarcode(ctx, barcode, excludeID)
	if err != nil {
		return &domain.DomainError{Op: "check barcode uniqueness", Err: err}
	}
	if exists {
		return &domain.DuplicateResourceError{Field: "barcode", Value: barcode}
	}

	return nil
}

// persistError keeps store-level duplicate reports intact and wraps the
// rest with operation context.
func (s *ProductService) persistError(op string, err error) error {
	if dup, ok := err.(*domain.DuplicateResourceError); ok {
		return dup
	}

	return &domain.DomainError{Op: op, Err: err}
}

// resolveCategories loads the given ids, deduplicated, silently skipping
// ids that do not resolve to a category.
func (s *ProductService) resolveCategories(ctx context.Context, ids []uint) ([]domain.Category, error) {
	seen := make(map[uint]bool, len(ids))
	categories := make([]domain.Category, 0, len(ids))

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		category, err := s.categories.Find(ctx, id)
		if err != nil {
			return nil, &domain.DomainError{Op: "resolve categories", Err: err}
		}
		if category == nil {
			s.logger.Debug("skipping unknown category", zap.Uint("id", id))
			continue
		}

		categories = append(categories, *category)
	}

	return categories, nil
}

// syncCategories replaces the product's membership set with exactly the
// desired ids: removals are current minus desired, additions desired
// minus current.
func (s *ProductService) syncCategories(ctx context.Context, product *domain.Product, ids []uint) error {
	desired, err := s.resolveCategories(ctx, ids)
	if err != nil {
		return err
	}

	desiredSet := make(map[uint]bool, len(desired))
	for _, c := range desired {
		desiredSet[c.ID] = true
	}
	currentSet := make(map[uint]bool, len(product.Categories))
	for _, c := range product.Categories {
		currentSet[c.ID] = true
	}

	var toRemove []domain.Category
	for _, c := range product.Categories {
		if !desiredSet[c.ID] {
			toRemove = append(toRemove, c)
		}
	}
	var toAdd []domain.Category
	for _, c := range desired {
		if !currentSet[c.ID] {
			toAdd = append(toAdd, c)
		}
	}

	if err := s.products.RemoveCategories(ctx, product, toRemove); err != nil {
		return &domain.DomainError{Op: "sync categories", Err: err}
	}
	if err := s.products.AddCategories(ctx, product, toAdd); err != nil {
		return &domain.DomainError{Op: "sync categories", Err: err}
	}

	product.Categories = desired

	return nil
}

// indexBestEffort pushes the product's document to the façade. Index
// trouble never fails the calling operation.
func (s *ProductService) indexBestEffort(ctx context.Context, product *domain.Product, op string) {
	write := s.search.Index
	if op == "update" {
		write = s.search.Update
	}

	if err := write(ctx, product.Document()); err != nil {
		s.logger.Warn("failed to propagate product to search index",
			zap.String("operation", op),
			zap.Uint("id", product.ID),
			zap.Error(err),
		)
	}
}
