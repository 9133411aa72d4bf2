package postgres

import (
	"time"

	"product-catalog-service/internal/domain"
)

// ProductModel is the GORM model for the products table.
type ProductModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(255);not null;index:idx_products_name"`
	INN         string `gorm:"column:inn;type:varchar(12);not null;uniqueIndex:uq_products_inn"`
	Barcode     string `gorm:"type:varchar(13);not null;uniqueIndex:uq_products_barcode"`
	Description string `gorm:"type:text"`

	Categories []CategoryModel `gorm:"many2many:product_categories;joinForeignKey:product_id;joinReferences:category_id"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for ProductModel.
func (ProductModel) TableName() string {
	return "products"
}

// CategoryModel is the GORM model for the categories table.
type CategoryModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex:uq_categories_name"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts ProductModel to domain.Product.
func (m *ProductModel) ToDomain() *domain.Product {
	categories := make([]domain.Category, len(m.Categories))
	for i, c := range m.Categories {
		categories[i] = *c.ToDomain()
	}

	return &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		INN:         m.INN,
		Barcode:     m.Barcode,
		Description: m.Description,
		Categories:  categories,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain creates a ProductModel from domain.Product. Category
// memberships are managed separately through the join table.
func FromDomain(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		INN:         p.INN,
		Barcode:     p.Barcode,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToDomain converts CategoryModel to domain.Category.
func (m *CategoryModel) ToDomain() *domain.Category {
	return &domain.Category{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CategoryFromDomain creates a CategoryModel from domain.Category.
func CategoryFromDomain(c *domain.Category) *CategoryModel {
	return &CategoryModel{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
