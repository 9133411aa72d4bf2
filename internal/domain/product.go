// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"regexp"
	"time"
)

var (
	innPattern     = regexp.MustCompile(`^\d{10}$|^\d{12}$`)
	barcodePattern = regexp.MustCompile(`^\d{13}$`)
)

// IsValidINN reports whether the value has the shape of a tax ID:
// exactly 10 or 12 decimal digits.
func IsValidINN(inn string) bool {
	return innPattern.MatchString(inn)
}

// IsValidBarcode reports whether the value has the shape of an EAN-13
// barcode: exactly 13 decimal digits.
func IsValidBarcode(barcode string) bool {
	return barcodePattern.MatchString(barcode)
}

// Product is a catalog entry identified by a tax ID (INN) and an EAN-13
// barcode, both globally unique.
type Product struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	INN         string `json:"inn"`
	Barcode     string `json:"barcode"`
	Description string `json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Many-to-many membership; the product owns the set.
	Categories []Category `json:"categories"`
}

// NewProduct creates a Product with timestamps set.
func NewProduct(name, inn, barcode, description string) *Product {
	now := time.Now().UTC()
	return &Product{
		Name:        name,
		INN:         inn,
		Barcode:     barcode,
		Description: description,
		Categories:  []Category{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks the entity-level invariants and returns every violation
// found, never stopping at the first one.
func (p *Product) Validate() []string {
	var errs []string

	if p.Name == "" {
		errs = append(errs, "Name is required")
	}

	if p.INN == "" {
		errs = append(errs, "INN is required")
	} else if !IsValidINN(p.INN) {
		errs = append(errs, "Invalid INN format")
	}

	if p.Barcode == "" {
		errs = append(errs, "Barcode is required")
	} else if !IsValidBarcode(p.Barcode) {
		errs = append(errs, "Invalid barcode format")
	}

	return errs
}

// CategoryIDs returns the ids of the product's current category set.
func (p *Product) CategoryIDs() []uint {
	ids := make([]uint, len(p.Categories))
	for i, c := range p.Categories {
		ids[i] = c.ID
	}
	return ids
}

// Document builds the search-index projection of the product.
func (p *Product) Document() ProductDocument {
	refs := make([]CategoryRef, len(p.Categories))
	for i, c := range p.Categories {
		refs[i] = CategoryRef{ID: c.ID, Name: c.Name}
	}

	return ProductDocument{
		ID:          p.ID,
		Name:        p.Name,
		INN:         p.INN,
		Barcode:     p.Barcode,
		Description: p.Description,
		Categories:  refs,
	}
}
