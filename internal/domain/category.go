package domain

import "time"

// Category groups products. The name is unique across the catalog.
// Membership is owned by Product; a category only derives it.
type Category struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategory creates a Category with timestamps set.
func NewCategory(name string) *Category {
	now := time.Now().UTC()
	return &Category{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
