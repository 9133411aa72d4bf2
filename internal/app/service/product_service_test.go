package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"product-catalog-service/internal/domain"
)

// fakeProducts is an in-memory ProductRepository.
type fakeProducts struct {
	byID    map[uint]*domain.Product
	nextID  uint
	saveErr error

	added   [][]uint
	removed [][]uint
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{byID: map[uint]*domain.Product{}, nextID: 1}
}

func (r *fakeProducts) Find(_ context.Context, id uint) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	clone.Categories = append([]domain.Category{}, p.Categories...)

	return &clone, nil
}

func (r *fakeProducts) FindAll(_ context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.byID))
	for id := uint(1); id < r.nextID; id++ {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *fakeProducts) FindAllWithFilters(ctx context.Context, filters domain.SearchFilters) ([]*domain.Product, error) {
	all, _ := r.FindAll(ctx)
	out := make([]*domain.Product, 0, len(all))
	for _, p := range all {
		if filters.INN != "" && p.INN != filters.INN {
			continue
		}
		if filters.Barcode != "" && p.Barcode != filters.Barcode {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *fakeProducts) ExistsByINN(_ context.Context, inn string, excludeID uint) (bool, error) {
	for _, p := range r.byID {
		if p.INN == inn && p.ID != excludeID {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeProducts) ExistsByBarcode(_ context.Context, barcode string, excludeID uint) (bool, error) {
	for _, p := range r.byID {
		if p.Barcode == barcode && p.ID != excludeID {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeProducts) Save(_ context.Context, product *domain.Product) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	}
	clone := *product
	clone.Categories = append([]domain.Category{}, product.Categories...)
	r.byID[product.ID] = &clone

	return nil
}

func (r *fakeProducts) Delete(_ context.Context, product *domain.Product) error {
	delete(r.byID, product.ID)

	return nil
}

func (r *fakeProducts) AddCategories(_ context.Context, product *domain.Product, categories []domain.Category) error {
	ids := categoryIDs(categories)
	r.added = append(r.added, ids)
	stored := r.byID[product.ID]
	stored.Categories = append(stored.Categories, categories...)

	return nil
}

func (r *fakeProducts) RemoveCategories(_ context.Context, product *domain.Product, categories []domain.Category) error {
	ids := categoryIDs(categories)
	r.removed = append(r.removed, ids)
	drop := make(map[uint]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	stored := r.byID[product.ID]
	kept := stored.Categories[:0]
	for _, c := range stored.Categories {
		if !drop[c.ID] {
			kept = append(kept, c)
		}
	}
	stored.Categories = kept

	return nil
}

func (r *fakeProducts) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *fakeProducts) Ping(_ context.Context) error {
	return nil
}

func categoryIDs(categories []domain.Category) []uint {
	ids := make([]uint, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}

	return ids
}

// fakeCategories is an in-memory CategoryRepository.
type fakeCategories struct {
	byID      map[uint]*domain.Category
	byProduct map[uint][]uint
}

func newFakeCategories(names ...string) *fakeCategories {
	r := &fakeCategories{byID: map[uint]*domain.Category{}}
	for i, name := range names {
		id := uint(i + 1)
		r.byID[id] = &domain.Category{ID: id, Name: name}
	}

	return r
}

func (r *fakeCategories) Find(_ context.Context, id uint) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}

	return c, nil
}

func (r *fakeCategories) FindAll(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}

	return out, nil
}

func (r *fakeCategories) FindByName(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range r.byID {
		if c.Name == name {
			return c, nil
		}
	}

	return nil, nil
}

func (r *fakeCategories) FindByProductID(_ context.Context, productID uint) ([]*domain.Category, error) {
	out := []*domain.Category{}
	for _, id := range r.byProduct[productID] {
		if c, ok := r.byID[id]; ok {
			out = append(out, c)
		}
	}

	return out, nil
}

func (r *fakeCategories) Save(_ context.Context, category *domain.Category) error {
	if category.ID == 0 {
		category.ID = uint(len(r.byID) + 1)
	}
	r.byID[category.ID] = category

	return nil
}

func (r *fakeCategories) Delete(_ context.Context, category *domain.Category) error {
	delete(r.byID, category.ID)

	return nil
}

func (r *fakeCategories) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

// fakeSearch records façade calls.
type fakeSearch struct {
	indexErr    error
	removeErr   error
	unavailable bool

	indexed []uint
	updated []uint
	removed []uint

	results   []domain.SearchResult
	searchErr error
}

func (f *fakeSearch) Search(_ context.Context, _ domain.SearchFilters) ([]domain.SearchResult, error) {
	return f.results, f.searchErr
}

func (f *fakeSearch) GetByID(_ context.Context, _ uint) (*domain.SearchResult, error) {
	return nil, nil
}

func (f *fakeSearch) Index(_ context.Context, doc domain.ProductDocument) error {
	f.indexed = append(f.indexed, doc.ID)

	return f.indexErr
}

func (f *fakeSearch) Update(_ context.Context, doc domain.ProductDocument) error {
	f.updated = append(f.updated, doc.ID)

	return f.indexErr
}

func (f *fakeSearch) Remove(_ context.Context, id uint) error {
	f.removed = append(f.removed, id)

	return f.removeErr
}

func (f *fakeSearch) IsAvailable(_ context.Context) bool {
	return !f.unavailable
}

// fakeValidator scripts one validation outcome and counts calls.
type fakeValidator struct {
	result domain.InnValidationResult
	calls  int
}

func (v *fakeValidator) Validate(_ context.Context, _ string, _ domain.PartyType) domain.InnValidationResult {
	v.calls++

	return v.result
}

// memCache is an in-memory domain.Cache, TTL ignored.
type memCache struct {
	values map[string][]byte
	getErr error
}

func newMemCache() *memCache {
	return &memCache{values: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}

	return c.values[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.values[key] = value

	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)

	return nil
}

func (c *memCache) Clear(_ context.Context) error {
	c.values = map[string][]byte{}

	return nil
}

type serviceFixture struct {
	svc        *ProductService
	products   *fakeProducts
	categories *fakeCategories
	search     *fakeSearch
	validator  *fakeValidator
	cache      *memCache
}

func newFixture(categoryNames ...string) *serviceFixture {
	f := &serviceFixture{
		products:   newFakeProducts(),
		categories: newFakeCategories(categoryNames...),
		search:     &fakeSearch{},
		validator:  &fakeValidator{result: domain.InnResultValid("Acme LLC")},
		cache:      newMemCache(),
	}
	f.svc = NewProductService(f.products, f.categories, f.search, f.validator, f.cache, time.Hour, zap.NewNop())

	return f
}

func validInput() CreateProductInput {
	return CreateProductInput{
		Name:        "Widget",
		INN:         "1234567890",
		Barcode:     "1234567890123",
		Description: "A widget",
	}
}

func TestCreate_Success(t *testing.T) {
	f := newFixture()

	product, err := f.svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Empty(t, product.Categories)
	assert.Equal(t, []uint{product.ID}, f.search.indexed)
	assert.Equal(t, []byte("1"), f.cache.values["inn_validation_1234567890"])
}

func TestCreate_AggregatesValidationErrors(t *testing.T) {
	f := newFixture()

	input := validInput()
	input.INN = "123"
	input.Barcode = ""

	_, err := f.svc.Create(context.Background(), input)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "Invalid INN format")
	assert.Contains(t, verr.Violations, "Barcode is required")

	// Nothing was persisted or verified
	assert.Empty(t, f.products.byID)
	assert.Zero(t, f.validator.calls)
}

func TestCreate_DuplicateINN(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)

	second := validInput()
	second.Barcode = "9999999999999"
	_, err = f.svc.Create(ctx, second)

	var dup *domain.DuplicateResourceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "inn", dup.Field)
	assert.Equal(t, "1234567890", dup.Value)
}

func TestCreate_DuplicateBarcode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)

	second := validInput()
	second.INN = "9999999999"
	_, err = f.svc.Create(ctx, second)

	var dup *domain.DuplicateResourceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "barcode", dup.Field)
}

func TestCreate_VerdictIsCached(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)

	// A second create with the same INN hits the cached verdict and fails
	// on uniqueness, not on verification.
	second := validInput()
	second.Barcode = "9999999999999"
	_, err = f.svc.Create(ctx, second)

	var dup *domain.DuplicateResourceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 1, f.validator.calls, "provider should be consulted once per INN within the TTL")
}

func TestCreate_InvalidINNIsRejectedAndCachedNegative(t *testing.T) {
	f := newFixture()
	f.validator.result = domain.InnResultInvalid("company with INN '1234567890' not found")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validInput())

	var ese *domain.ExternalServiceError
	require.ErrorAs(t, err, &ese)
	assert.Equal(t, domain.ExternalKindRejected, ese.Kind)
	assert.Empty(t, f.products.byID)
	assert.Equal(t, []byte("0"), f.cache.values["inn_validation_1234567890"])

	// The negative verdict short-circuits the next attempt
	_, err = f.svc.Create(ctx, validInput())
	require.ErrorAs(t, err, &ese)
	assert.Equal(t, 1, f.validator.calls)
}

func TestCreate_ProviderFailureIsUnreachable(t *testing.T) {
	f := newFixture()
	f.validator.result = domain.InnResultFailed("connection refused")

	_, err := f.svc.Create(context.Background(), validInput())

	var ese *domain.ExternalServiceError
	require.ErrorAs(t, err, &ese)
	assert.Equal(t, domain.ExternalKindUnreachable, ese.Kind)
	assert.Contains(t, ese.Message, "connection refused")
	assert.Equal(t, []byte("0"), f.cache.values["inn_validation_1234567890"])
}

func TestCreate_CacheReadFailureDegradesToProvider(t *testing.T) {
	f := newFixture()
	f.cache.getErr = errors.New("redis down")

	product, err := f.svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, 1, f.validator.calls)
}

func TestCreate_IndexFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	f.search.indexErr = errors.New("index closed")

	product, err := f.svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotZero(t, product.ID)
}

func TestCreate_AttachesCategoriesSkippingUnknown(t *testing.T) {
	f := newFixture("Tools", "Home")

	input := validInput()
	input.CategoryIDs = []uint{1, 1, 2, 99}

	product, err := f.svc.Create(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, product.Categories, 2)
	assert.Equal(t, []uint{1, 2}, categoryIDs(product.Categories))
}

func TestCreate_StoreLevelDuplicateIsMapped(t *testing.T) {
	f := newFixture()
	f.products.saveErr = &domain.DuplicateResourceError{Field: "inn", Value: "1234567890"}

	_, err := f.svc.Create(context.Background(), validInput())

	var dup *domain.DuplicateResourceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "inn", dup.Field)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Update(context.Background(), 42, UpdateProductInput{})

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Resource)
	assert.Equal(t, uint(42), nf.ID)
}

func TestUpdate_PartialLeavesOtherFieldsAlone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)
	verifierCalls := f.validator.calls

	name := "Renamed"
	updated, err := f.svc.Update(ctx, created.ID, UpdateProductInput{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, created.INN, updated.INN)
	assert.Equal(t, created.Barcode, updated.Barcode)
	assert.Equal(t, verifierCalls, f.validator.calls, "unchanged INN must not be re-verified")
	assert.Equal(t, []uint{created.ID}, f.search.updated)
}

func TestUpdate_SameINNValueSkipsVerification(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)
	verifierCalls := f.validator.calls

	inn := created.INN
	_, err = f.svc.Update(ctx, created.ID, UpdateProductInput{INN: &inn})

	require.NoError(t, err)
	assert.Equal(t, verifierCalls, f.validator.calls)
}

func TestUpdate_ChangedINNIsVerifiedAndCheckedForDuplicates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)

	other := validInput()
	other.INN = "9999999999"
	other.Barcode = "9999999999999"
	_, err = f.svc.Create(ctx, other)
	require.NoError(t, err)

	verifierCalls := f.validator.calls

	// Changing to a free INN verifies again
	free := "123456789012"
	_, err = f.svc.Update(ctx, created.ID, UpdateProductInput{INN: &free})
	require.NoError(t, err)
	assert.Equal(t, verifierCalls+1, f.validator.calls)

	// Changing to a taken INN collides
	taken := "9999999999"
	_, err = f.svc.Update(ctx, created.ID, UpdateProductInput{INN: &taken})

	var dup *domain.DuplicateResourceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "inn", dup.Field)
}

func TestUpdate_ChangedBarcodeSkipsVerification(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)
	verifierCalls := f.validator.calls

	barcode := "9999999999999"
	updated, err := f.svc.Update(ctx, created.ID, UpdateProductInput{Barcode: &barcode})

	require.NoError(t, err)
	assert.Equal(t, "9999999999999", updated.Barcode)
	assert.Equal(t, verifierCalls, f.validator.calls, "barcode change never consults the provider")
}

func TestUpdate_CategorySyncIsSymmetricDifference(t *testing.T) {
	f := newFixture("Tools", "Home", "Garden")
	ctx := context.Background()

	input := validInput()
	input.CategoryIDs = []uint{1, 2}
	created, err := f.svc.Create(ctx, input)
	require.NoError(t, err)

	desired := []uint{2, 3}
	updated, err := f.svc.Update(ctx, created.ID, UpdateProductInput{CategoryIDs: &desired})

	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, categoryIDs(updated.Categories))

	// Only the difference moved: 1 removed, 3 added
	require.Len(t, f.products.removed, 1)
	assert.Equal(t, []uint{1}, f.products.removed[0])
	assert.Equal(t, []uint{3}, f.products.added[len(f.products.added)-1])
}

func TestUpdate_CategorySyncIsIdempotent(t *testing.T) {
	f := newFixture("Tools", "Home")
	ctx := context.Background()

	input := validInput()
	input.CategoryIDs = []uint{1, 2}
	created, err := f.svc.Create(ctx, input)
	require.NoError(t, err)

	same := []uint{1, 2}
	updated, err := f.svc.Update(ctx, created.ID, UpdateProductInput{CategoryIDs: &same})

	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, categoryIDs(updated.Categories))

	// No memberships moved
	require.Len(t, f.products.removed, 1)
	assert.Empty(t, f.products.removed[0])
	assert.Empty(t, f.products.added[len(f.products.added)-1])
}

func TestDelete_RemovesFromIndexAndStore(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	assert.Equal(t, []uint{created.ID}, f.search.removed)
	assert.Empty(t, f.products.byID)
}

func TestDelete_IndexFailureDoesNotBlock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)

	f.search.removeErr = errors.New("index down")

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	assert.Empty(t, f.products.byID)
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture()

	err := f.svc.Delete(context.Background(), 42)

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestReindexAll(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)

	second := validInput()
	second.INN = "9999999999"
	second.Barcode = "9999999999999"
	_, err = f.svc.Create(ctx, second)
	require.NoError(t, err)

	f.search.indexed = nil
	count, err := f.svc.ReindexAll(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, f.search.indexed, 2)
	assert.Contains(t, f.search.indexed, first.ID)
}

func TestReindexAll_RefusesWhenSearchUnavailable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)

	f.search.unavailable = true
	f.search.indexed = nil

	count, err := f.svc.ReindexAll(ctx)

	var ext *domain.ExternalServiceError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, domain.ExternalKindSearch, ext.Kind)
	assert.Zero(t, count)
	assert.Empty(t, f.search.indexed)
}

func TestGetByID_AbsentIsNotAnError(t *testing.T) {
	f := newFixture()

	product, err := f.svc.GetByID(context.Background(), 42)

	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestGetFiltered_ExactINN(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, validInput())
	require.NoError(t, err)

	second := validInput()
	second.INN = "9999999999"
	second.Barcode = "9999999999999"
	_, err = f.svc.Create(ctx, second)
	require.NoError(t, err)

	products, err := f.svc.GetFiltered(ctx, domain.SearchFilters{INN: first.INN})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, first.ID, products[0].ID)
}
