// Package elastic adapts the engine client to the SearchBackend
// contract used by the façade.
package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"product-catalog-service/internal/domain"
)

// EngineClient is the slice of the document store the backend uses.
type EngineClient interface {
	Search(ctx context.Context, body []byte) ([]byte, error)
	Get(ctx context.Context, id string) ([]byte, bool, error)
	Index(ctx context.Context, id string, doc []byte) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) bool
}

// searchResponse decodes the hits we care about.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  *float64               `json:"_score"`
			Source domain.ProductDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// getResponse decodes a single-document lookup.
type getResponse struct {
	Source domain.ProductDocument `json:"_source"`
}

// Backend is the engine-backed search path.
type Backend struct {
	client EngineClient
	logger *zap.Logger
}

// NewBackend creates the engine-backed search backend.
func NewBackend(client EngineClient, logger *zap.Logger) *Backend {
	return &Backend{client: client, logger: logger}
}

// Search executes the query DSL built from the filters and maps hits to
// results, score included.
func (b *Backend) Search(ctx context.Context, filters domain.SearchFilters) ([]domain.SearchResult, error) {
	filters.Normalize()

	body, err := json.Marshal(BuildSearchBody(filters))
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	raw, err := b.client.Search(ctx, body)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		results = append(results, documentToResult(hit.Source, hit.Score))
	}

	return results, nil
}

// GetByID fetches a single document. Absent documents yield nil, nil.
func (b *Backend) GetByID(ctx context.Context, id uint) (*domain.SearchResult, error) {
	raw, found, err := b.client.Get(ctx, docID(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var resp getResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode get response: %w", err)
	}

	result := documentToResult(resp.Source, nil)

	return &result, nil
}

// Index stores the document under its product id.
func (b *Backend) Index(ctx context.Context, doc domain.ProductDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	return b.client.Index(ctx, docID(doc.ID), body)
}

// Update is a full reindex of the document. The engine replaces the
// stored version wholesale, which matches how products are persisted.
func (b *Backend) Update(ctx context.Context, doc domain.ProductDocument) error {
	return b.Index(ctx, doc)
}

// Remove deletes the document.
func (b *Backend) Remove(ctx context.Context, id uint) error {
	return b.client.Delete(ctx, docID(id))
}

// IsAvailable reports cluster reachability.
func (b *Backend) IsAvailable(ctx context.Context) bool {
	return b.client.Ping(ctx)
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func documentToResult(doc domain.ProductDocument, score *float64) domain.SearchResult {
	return domain.SearchResult{
		ID:          doc.ID,
		Name:        doc.Name,
		INN:         doc.INN,
		Barcode:     doc.Barcode,
		Description: doc.Description,
		Categories:  doc.Categories,
		Score:       score,
	}
}
