package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"product-catalog-service/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// Repository implements domain.ProductRepository using PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL product repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find retrieves a product with its categories by ID.
func (r *Repository) Find(ctx context.Context, id uint) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting product by id: %w", err)
	}

	return model.ToDomain(), nil
}

// FindAll returns every product with categories loaded, oldest first.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	var models []ProductModel
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	products := make([]*domain.Product, len(models))
	for i := range models {
		products[i] = models[i].ToDomain()
	}

	return products, nil
}

// FindAllWithFilters returns products matching the filters. Free text is
// a case-insensitive substring match over name and description, the
// identifier filters are exact.
func (r *Repository) FindAllWithFilters(ctx context.Context, filters domain.SearchFilters) ([]*domain.Product, error) {
	filters.Normalize()

	query := r.db.WithContext(ctx).Model(&ProductModel{}).Preload("Categories")

	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("products.name ILIKE ? OR products.description ILIKE ?", pattern, pattern)
	}
	if filters.CategoryID != nil {
		query = query.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", *filters.CategoryID)
	}
	if filters.INN != "" {
		query = query.Where("products.inn = ?", filters.INN)
	}
	if filters.Barcode != "" {
		query = query.Where("products.barcode = ?", filters.Barcode)
	}

	var models []ProductModel
	err := query.
		Order("products.id").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}

	products := make([]*domain.Product, len(models))
	for i := range models {
		products[i] = models[i].ToDomain()
	}

	return products, nil
}

// ExistsByINN reports whether a product other than excludeID carries the
// tax ID.
func (r *Repository) ExistsByINN(ctx context.Context, inn string, excludeID uint) (bool, error) {
	return r.exists(ctx, "inn = ?", inn, excludeID)
}

// ExistsByBarcode reports whether a product other than excludeID carries
// the barcode.
func (r *Repository) ExistsByBarcode(ctx context.Context, barcode string, excludeID uint) (bool, error) {
	return r.exists(ctx, "barcode = ?", barcode, excludeID)
}

func (r *Repository) exists(ctx context.Context, cond, value string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&ProductModel{}).Where(cond, value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking product existence: %w", err)
	}

	return count > 0, nil
}

// Save inserts or updates the product. Category memberships go through
// AddCategories and RemoveCategories, not through Save.
func (r *Repository) Save(ctx context.Context, product *domain.Product) error {
	model := FromDomain(product)

	err := r.db.WithContext(ctx).
		Omit("Categories").
		Save(model).Error
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			switch dup.Field {
			case "inn":
				dup.Value = product.INN
			case "barcode":
				dup.Value = product.Barcode
			}

			return dup
		}

		return fmt.Errorf("saving product: %w", err)
	}

	// Update the domain object with database-generated fields
	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt

	return nil
}

// Delete removes the product. Join rows go with it via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, product *domain.Product) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", product.ID).
		Delete(&ProductModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting product: %w", result.Error)
	}

	return nil
}

// AddCategories attaches the given categories to the product.
func (r *Repository) AddCategories(ctx context.Context, product *domain.Product, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}

	models := make([]CategoryModel, len(categories))
	for i, c := range categories {
		models[i] = CategoryModel{ID: c.ID}
	}

	err := r.db.WithContext(ctx).
		Model(&ProductModel{ID: product.ID}).
		Association("Categories").
		Append(&models)
	if err != nil {
		return fmt.Errorf("attaching categories: %w", err)
	}

	return nil
}

// RemoveCategories detaches the given categories from the product.
func (r *Repository) RemoveCategories(ctx context.Context, product *domain.Product, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}

	models := make([]CategoryModel, len(categories))
	for i, c := range categories {
		models[i] = CategoryModel{ID: c.ID}
	}

	err := r.db.WithContext(ctx).
		Model(&ProductModel{ID: product.ID}).
		Association("Categories").
		Delete(&models)
	if err != nil {
		return fmt.Errorf("detaching categories: %w", err)
	}

	return nil
}

// Count returns the total number of products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProductModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}

	return count, nil
}

// Ping verifies the database connection is alive.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// duplicateError maps a unique violation to the domain error naming the
// offending field, or nil when the error is something else.
func duplicateError(err error) *domain.DuplicateResourceError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}

	switch pgErr.ConstraintName {
	case "uq_products_inn":
		return &domain.DuplicateResourceError{Field: "inn"}
	case "uq_products_barcode":
		return &domain.DuplicateResourceError{Field: "barcode"}
	case "uq_categories_name":
		return &domain.DuplicateResourceError{Resource: "category", Field: "name"}
	default:
		return &domain.DuplicateResourceError{Field: pgErr.ConstraintName}
	}
}
