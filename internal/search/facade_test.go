package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"product-catalog-service/internal/domain"
)

// fakeBackend scripts availability and per-operation outcomes, recording
// every call in order.
type fakeBackend struct {
	available bool

	searchResults []domain.SearchResult
	searchErr     error

	getResult *domain.SearchResult
	getErr    error

	indexErr  error
	updateErr error
	removeErr error

	calls []string
}

func (b *fakeBackend) Search(_ context.Context, _ domain.SearchFilters) ([]domain.SearchResult, error) {
	b.calls = append(b.calls, "search")
	return b.searchResults, b.searchErr
}

func (b *fakeBackend) GetByID(_ context.Context, _ uint) (*domain.SearchResult, error) {
	b.calls = append(b.calls, "get")
	return b.getResult, b.getErr
}

func (b *fakeBackend) Index(_ context.Context, _ domain.ProductDocument) error {
	b.calls = append(b.calls, "index")
	return b.indexErr
}

func (b *fakeBackend) Update(_ context.Context, _ domain.ProductDocument) error {
	b.calls = append(b.calls, "update")
	return b.updateErr
}

func (b *fakeBackend) Remove(_ context.Context, _ uint) error {
	b.calls = append(b.calls, "remove")
	return b.removeErr
}

func (b *fakeBackend) IsAvailable(_ context.Context) bool {
	return b.available
}

func newTestFacade(primary, fallback *fakeBackend) *Facade {
	return NewFacade(primary, fallback, zap.NewNop())
}

func TestFacade_Search_PrefersPrimary(t *testing.T) {
	primary := &fakeBackend{
		available:     true,
		searchResults: []domain.SearchResult{{ID: 1, Name: "Widget"}},
	}
	fallback := &fakeBackend{available: true}

	results, err := newTestFacade(primary, fallback).Search(context.Background(), domain.SearchFilters{Query: "widget"})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Empty(t, fallback.calls)
}

func TestFacade_Search_FallsBackOnPrimaryError(t *testing.T) {
	primary := &fakeBackend{available: true, searchErr: errors.New("timeout")}
	fallback := &fakeBackend{
		available:     true,
		searchResults: []domain.SearchResult{{ID: 2, Name: "Gadget"}},
	}

	results, err := newTestFacade(primary, fallback).Search(context.Background(), domain.SearchFilters{})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, []string{"search"}, primary.calls)
	assert.Equal(t, []string{"search"}, fallback.calls)
}

func TestFacade_Search_SkipsUnavailablePrimary(t *testing.T) {
	primary := &fakeBackend{available: false}
	fallback := &fakeBackend{available: true}

	_, err := newTestFacade(primary, fallback).Search(context.Background(), domain.SearchFilters{})

	assert.NoError(t, err)
	assert.Empty(t, primary.calls)
	assert.Equal(t, []string{"search"}, fallback.calls)
}

func TestFacade_Search_BothFail(t *testing.T) {
	primary := &fakeBackend{available: true, searchErr: errors.New("timeout")}
	fallback := &fakeBackend{available: true, searchErr: errors.New("db down")}

	_, err := newTestFacade(primary, fallback).Search(context.Background(), domain.SearchFilters{})

	var ese *domain.ExternalServiceError
	assert.ErrorAs(t, err, &ese)
	assert.Equal(t, domain.ExternalKindSearch, ese.Kind)
}

func TestFacade_GetByID_FallsBackWhenPrimaryMisses(t *testing.T) {
	primary := &fakeBackend{available: true}
	fallback := &fakeBackend{
		available: true,
		getResult: &domain.SearchResult{ID: 7, Name: "Widget"},
	}

	result, err := newTestFacade(primary, fallback).GetByID(context.Background(), 7)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, uint(7), result.ID)
}

func TestFacade_GetByID_AbsentEverywhere(t *testing.T) {
	primary := &fakeBackend{available: true}
	fallback := &fakeBackend{available: true}

	result, err := newTestFacade(primary, fallback).GetByID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestFacade_Index_WritesBothAndSwallowsFailures(t *testing.T) {
	primary := &fakeBackend{available: true, indexErr: errors.New("index closed")}
	fallback := &fakeBackend{available: true, indexErr: errors.New("db down")}

	err := newTestFacade(primary, fallback).Index(context.Background(), domain.ProductDocument{ID: 1})

	assert.NoError(t, err)
	assert.Equal(t, []string{"index"}, primary.calls)
	assert.Equal(t, []string{"index"}, fallback.calls)
}

func TestFacade_Index_SkipsUnavailablePrimaryStillWritesFallback(t *testing.T) {
	primary := &fakeBackend{available: false}
	fallback := &fakeBackend{available: true}

	err := newTestFacade(primary, fallback).Index(context.Background(), domain.ProductDocument{ID: 1})

	assert.NoError(t, err)
	assert.Empty(t, primary.calls)
	assert.Equal(t, []string{"index"}, fallback.calls)
}

func TestFacade_Remove_BestEffortOnBoth(t *testing.T) {
	primary := &fakeBackend{available: true, removeErr: errors.New("gone")}
	fallback := &fakeBackend{available: true}

	err := newTestFacade(primary, fallback).Remove(context.Background(), 3)

	assert.NoError(t, err)
	assert.Equal(t, []string{"remove"}, primary.calls)
	assert.Equal(t, []string{"remove"}, fallback.calls)
}

func TestFacade_IsAvailable_OrSemantics(t *testing.T) {
	tests := []struct {
		name     string
		primary  bool
		fallback bool
		want     bool
	}{
		{"both up", true, true, true},
		{"primary only", true, false, true},
		{"fallback only", false, true, true},
		{"both down", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFacade(&fakeBackend{available: tt.primary}, &fakeBackend{available: tt.fallback})
			assert.Equal(t, tt.want, f.IsAvailable(context.Background()))
		})
	}
}
