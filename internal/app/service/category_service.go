package service

import (
	"context"

	"go.uber.org/zap"

	"product-catalog-service/internal/domain"
)

// CreateCategoryInput carries the fields of a category create request.
type CreateCategoryInput struct {
	Name string
}

// CategoryService implements category CRUD.
type CategoryService struct {
	categories domain.CategoryRepository
	logger     *zap.Logger
}

// NewCategoryService creates the category service.
func NewCategoryService(categories domain.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

// GetAll returns every category.
func (s *CategoryService) GetAll(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, &domain.DomainError{Op: "list categories", Err: err}
	}

	return categories, nil
}

// GetByID returns the category, or nil when it does not exist.
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	category, err := s.categories.Find(ctx, id)
	if err != nil {
		return nil, &domain.DomainError{Op: "get category", Err: err}
	}

	return category, nil
}

// GetByProduct returns the categories a product belongs to. An unknown
// product simply has none.
func (s *CategoryService) GetByProduct(ctx context.Context, productID uint) ([]*domain.Category, error) {
	categories, err := s.categories.FindByProductID(ctx, productID)
	if err != nil {
		return nil, &domain.DomainError{Op: "list product categories", Err: err}
	}

	return categories, nil
}

// Create persists a new category with a unique name.
func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if input.Name == "" {
		return nil, domain.NewValidationError("Name is required")
	}

	existing, err := s.categories.FindByName(ctx, input.Name)
	if err != nil {
		return nil, &domain.DomainError{Op: "create category", Err: err}
	}
	if existing != nil {
		return nil, &domain.DuplicateResourceError{Resource: "category", Field: "name", Value: input.Name}
	}

	category := domain.NewCategory(input.Name)
	if err := s.categories.Save(ctx, category); err != nil {
		if dup, ok := err.(*domain.DuplicateResourceError); ok {
			return nil, dup
		}

		return nil, &domain.DomainError{Op: "create category", Err: err}
	}

	return category, nil
}

// Update renames a category.
func (s *CategoryService) Update(ctx context.Context, id uint, name string) (*domain.Category, error) {
	if name == "" {
		return nil, domain.NewValidationError("Name is required")
	}

	category, err := s.categories.Find(ctx, id)
	if err != nil {
		return nil, &domain.DomainError{Op: "update category", Err: err}
	}
	if category == nil {
		return nil, &domain.NotFoundError{Resource: "category", ID: id}
	}

	if name != category.Name {
		existing, err := s.categories.FindByName(ctx, name)
		if err != nil {
			return nil, &domain.DomainError{Op: "update category", Err: err}
		}
		if existing != nil {
			return nil, &domain.DuplicateResourceError{Resource: "category", Field: "name", Value: name}
		}
	}

	category.Name = name
	if err := s.categories.Save(ctx, category); err != nil {
		if dup, ok := err.(*domain.DuplicateResourceError); ok {
			return nil, dup
		}

		return nil, &domain.DomainError{Op: "update category", Err: err}
	}

	return category, nil
}

// Delete removes a category. Product memberships go with it; products
// themselves are untouched.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	category, err := s.categories.Find(ctx, id)
	if err != nil {
		return &domain.DomainError{Op: "delete category", Err: err}
	}
	if category == nil {
		return &domain.NotFoundError{Resource: "category", ID: id}
	}

	if err := s.categories.Delete(ctx, category); err != nil {
		return &domain.DomainError{Op: "delete category", Err: err}
	}

	return nil
}
