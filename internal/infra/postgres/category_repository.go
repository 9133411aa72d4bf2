package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"product-catalog-service/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new PostgreSQL category repository.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Find retrieves a category by ID, or nil when absent.
func (r *CategoryRepository) Find(ctx context.Context, id uint) (*domain.Category, error) {
	var model CategoryModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting category by id: %w", err)
	}

	return model.ToDomain(), nil
}

// FindAll returns every category ordered by name.
func (r *CategoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	var models []CategoryModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	categories := make([]*domain.Category, len(models))
	for i := range models {
		categories[i] = models[i].ToDomain()
	}

	return categories, nil
}

// FindByName retrieves a category by its exact name, or nil when absent.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	var model CategoryModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting category by name: %w", err)
	}

	return model.ToDomain(), nil
}

// FindByProductID returns the categories attached to a product.
func (r *CategoryRepository) FindByProductID(ctx context.Context, productID uint) ([]*domain.Category, error) {
	var models []CategoryModel
	err := r.db.WithContext(ctx).
		Joins("JOIN product_categories pc ON pc.category_id = categories.id").
		Where("pc.product_id = ?", productID).
		Order("categories.name").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing product categories: %w", err)
	}

	categories := make([]*domain.Category, len(models))
	for i := range models {
		categories[i] = models[i].ToDomain()
	}

	return categories, nil
}

// Save inserts or updates the category.
func (r *CategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	model := CategoryFromDomain(category)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if dup := duplicateError(err); dup != nil {
			dup.Value = category.Name

			return dup
		}

		return fmt.Errorf("saving category: %w", err)
	}

	category.ID = model.ID
	category.CreatedAt = model.CreatedAt
	category.UpdatedAt = model.UpdatedAt

	return nil
}

// Delete removes the category and its product memberships.
func (r *CategoryRepository) Delete(ctx context.Context, category *domain.Category) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", category.ID).
		Delete(&CategoryModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting category: %w", result.Error)
	}

	return nil
}

// Count returns the total number of categories.
func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&CategoryModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting categories: %w", err)
	}

	return count, nil
}
