package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"product-catalog-service/internal/domain"
)

// fakeRepo scripts the repository calls the backend makes.
type fakeRepo struct {
	domain.ProductRepository

	products    []*domain.Product
	findErr     error
	lastFilters domain.SearchFilters

	found   *domain.Product
	pingErr error
}

func (r *fakeRepo) FindAllWithFilters(_ context.Context, filters domain.SearchFilters) ([]*domain.Product, error) {
	r.lastFilters = filters
	return r.products, r.findErr
}

func (r *fakeRepo) Find(_ context.Context, _ uint) (*domain.Product, error) {
	return r.found, r.findErr
}

func (r *fakeRepo) Ping(_ context.Context) error {
	return r.pingErr
}

func TestBackend_Search_MapsProducts(t *testing.T) {
	repo := &fakeRepo{products: []*domain.Product{
		{
			ID:         1,
			Name:       "Widget",
			INN:        "1234567890",
			Barcode:    "1234567890123",
			Categories: []domain.Category{{ID: 2, Name: "Tools"}},
		},
	}}
	b := NewBackend(repo, zap.NewNop())

	results, err := b.Search(context.Background(), domain.SearchFilters{Query: "wid"})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Widget", results[0].Name)
	assert.Equal(t, []domain.CategoryRef{{ID: 2, Name: "Tools"}}, results[0].Categories)
	assert.Nil(t, results[0].Score)
}

func TestBackend_Search_NormalizesFilters(t *testing.T) {
	repo := &fakeRepo{}
	b := NewBackend(repo, zap.NewNop())

	_, err := b.Search(context.Background(), domain.SearchFilters{Limit: 500, Offset: -1})

	require.NoError(t, err)
	assert.Equal(t, domain.MaxSearchLimit, repo.lastFilters.Limit)
	assert.Equal(t, 0, repo.lastFilters.Offset)
}

func TestBackend_GetByID_Absent(t *testing.T) {
	b := NewBackend(&fakeRepo{}, zap.NewNop())

	result, err := b.GetByID(context.Background(), 5)

	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestBackend_WritesAreNoOps(t *testing.T) {
	b := NewBackend(&fakeRepo{}, zap.NewNop())

	assert.NoError(t, b.Index(context.Background(), domain.ProductDocument{ID: 1}))
	assert.NoError(t, b.Update(context.Background(), domain.ProductDocument{ID: 1}))
	assert.NoError(t, b.Remove(context.Background(), 1))
}

func TestBackend_IsAvailable(t *testing.T) {
	assert.True(t, NewBackend(&fakeRepo{}, zap.NewNop()).IsAvailable(context.Background()))
	assert.False(t, NewBackend(&fakeRepo{pingErr: errors.New("down")}, zap.NewNop()).IsAvailable(context.Background()))
}
