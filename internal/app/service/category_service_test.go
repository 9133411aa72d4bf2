package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"product-catalog-service/internal/domain"
)

func newCategoryService(names ...string) (*CategoryService, *fakeCategories) {
	repo := newFakeCategories(names...)

	return NewCategoryService(repo, zap.NewNop()), repo
}

func TestCategoryCreate_Success(t *testing.T) {
	svc, repo := newCategoryService()

	category, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Tools"})

	require.NoError(t, err)
	assert.NotZero(t, category.ID)
	assert.Len(t, repo.byID, 1)
}

func TestCategoryCreate_EmptyName(t *testing.T) {
	svc, _ := newCategoryService()

	_, err := svc.Create(context.Background(), CreateCategoryInput{})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "Name is required")
}

func TestCategoryCreate_DuplicateName(t *testing.T) {
	svc, _ := newCategoryService("Tools")

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Tools"})

	var dup *domain.DuplicateResourceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "name", dup.Field)
	assert.Equal(t, "category", dup.Resource)
}

func TestCategoryUpdate_Rename(t *testing.T) {
	svc, _ := newCategoryService("Tools")

	category, err := svc.Update(context.Background(), 1, "Hand Tools")

	require.NoError(t, err)
	assert.Equal(t, "Hand Tools", category.Name)
}

func TestCategoryUpdate_TakenName(t *testing.T) {
	svc, _ := newCategoryService("Tools", "Home")

	_, err := svc.Update(context.Background(), 1, "Home")

	var dup *domain.DuplicateResourceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "name", dup.Field)
}

func TestCategoryUpdate_NotFound(t *testing.T) {
	svc, _ := newCategoryService()

	_, err := svc.Update(context.Background(), 42, "Tools")

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "category", nf.Resource)
}

func TestCategoryDelete(t *testing.T) {
	svc, repo := newCategoryService("Tools")

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Empty(t, repo.byID)

	err := svc.Delete(context.Background(), 1)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCategoryGetByProduct(t *testing.T) {
	svc, repo := newCategoryService("Tools", "Home")
	repo.byProduct = map[uint][]uint{7: {2}}

	categories, err := svc.GetByProduct(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Home", categories[0].Name)

	none, err := svc.GetByProduct(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}
