package domain

const (
	// DefaultSearchLimit is applied when no limit is requested.
	DefaultSearchLimit = 20
	// MaxSearchLimit caps the page size.
	MaxSearchLimit = 100
)

// SearchFilters is a read-only query descriptor shared by both search
// backends. It is never persisted.
type SearchFilters struct {
	// Free-text query over name, description, inn and barcode.
	Query string

	// Exact-match filters.
	CategoryID *uint
	INN        string
	Barcode    string

	// Pagination.
	Limit  int
	Offset int
}

// Normalize applies pagination defaults and bounds. This is bound
// correction, not validation.
func (f *SearchFilters) Normalize() {
	if f.Limit < 1 {
		f.Limit = DefaultSearchLimit
	}
	if f.Limit > MaxSearchLimit {
		f.Limit = MaxSearchLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// CategoryRef is the id/name pair carried by search documents and results.
type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// SearchResult is the uniform result contract honored by every backend.
// Score is set only when the primary engine produced the hit.
type SearchResult struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	INN         string        `json:"inn"`
	Barcode     string        `json:"barcode"`
	Description string        `json:"description,omitempty"`
	Categories  []CategoryRef `json:"categories"`
	Score       *float64      `json:"score,omitempty"`
}

// ProductDocument is the projection written to the search index.
type ProductDocument struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	INN         string        `json:"inn"`
	Barcode     string        `json:"barcode"`
	Description string        `json:"description,omitempty"`
	Categories  []CategoryRef `json:"categories"`
}
