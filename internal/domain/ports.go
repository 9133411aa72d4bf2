package domain

import (
	"context"
	"time"
)

// ProductRepository defines the interface for product persistence.
// Implementations: internal/infra/postgres/repository.go
type ProductRepository interface {
	// Find retrieves a product with its categories, or nil when absent.
	Find(ctx context.Context, id uint) (*Product, error)

	// FindAll returns every product with categories loaded.
	FindAll(ctx context.Context) ([]*Product, error)

	// FindAllWithFilters returns products matching the filters: substring
	// match for Query over name/description, equality for the rest,
	// LIMIT/OFFSET pagination.
	FindAllWithFilters(ctx context.Context, filters SearchFilters) ([]*Product, error)

	// ExistsByINN reports whether another product carries the tax ID.
	// excludeID == 0 means no exclusion.
	ExistsByINN(ctx context.Context, inn string, excludeID uint) (bool, error)

	// ExistsByBarcode reports whether another product carries the barcode.
	ExistsByBarcode(ctx context.Context, barcode string, excludeID uint) (bool, error)

	// Save inserts or updates the product and refreshes its timestamps.
	// A store-level unique violation is returned as *DuplicateResourceError.
	Save(ctx context.Context, product *Product) error

	// Delete removes the product and its category memberships.
	Delete(ctx context.Context, product *Product) error

	// AddCategories attaches the given categories to the product.
	AddCategories(ctx context.Context, product *Product, categories []Category) error

	// RemoveCategories detaches the given categories from the product.
	RemoveCategories(ctx context.Context, product *Product, categories []Category) error

	// Count returns the number of products in the catalog.
	Count(ctx context.Context) (int64, error)

	// Ping verifies the underlying store is reachable.
	Ping(ctx context.Context) error
}

// CategoryRepository defines the interface for category persistence.
type CategoryRepository interface {
	Find(ctx context.Context, id uint) (*Category, error)
	FindAll(ctx context.Context) ([]*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	FindByProductID(ctx context.Context, productID uint) ([]*Category, error)

	// Save inserts or updates the category. A unique-name violation is
	// returned as *DuplicateResourceError.
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, category *Category) error
	Count(ctx context.Context) (int64, error)
}

// SearchBackend is the uniform contract shared by the primary engine
// adapter, the relational fallback, and the façade composing them.
// Implementations: internal/search/elastic, internal/search/database,
// internal/search (façade).
type SearchBackend interface {
	// Search returns results matching the filters.
	Search(ctx context.Context, filters SearchFilters) ([]SearchResult, error)

	// GetByID returns a single result, or nil when absent.
	GetByID(ctx context.Context, id uint) (*SearchResult, error)

	// Index writes the document to the backend's index.
	Index(ctx context.Context, doc ProductDocument) error

	// Update rewrites the document in the backend's index.
	Update(ctx context.Context, doc ProductDocument) error

	// Remove deletes the document from the backend's index.
	Remove(ctx context.Context, id uint) error

	// IsAvailable probes whether the backend can serve reads.
	IsAvailable(ctx context.Context) bool
}

// InnValidator checks the legitimacy of a tax ID. Two strategies exist:
// a format-only check and a provider-backed lookup; the choice is made at
// composition time and fixed for the process lifetime.
type InnValidator interface {
	Validate(ctx context.Context, inn string, partyType PartyType) InnValidationResult
}

// CompanyDataProvider looks up a party by tax ID with an external
// provider. A nil CompanyData with nil error means "not found"; errors
// mean the provider itself failed.
type CompanyDataProvider interface {
	FindByINN(ctx context.Context, inn string, partyType PartyType) (*CompanyData, error)
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
