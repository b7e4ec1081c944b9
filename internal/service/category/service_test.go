package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	"github.com/jwalitptl/legal-services-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
	"github.com/jwalitptl/legal-services-api/pkg/validator"
)

var staff = &model.Actor{UserID: 1, Username: "admin", IsStaff: true}

func newService(t *testing.T) (*Service, *repository.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewService(store.Categories, validator.New(), nil), store
}

func TestCreateCategoryRequiresAuthentication(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateCategory(context.Background(), nil, model.CategoryInput{Name: model.StringPtr("Tax")})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestCreateCategoryValidates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, staff, model.CategoryInput{})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "This field is required.", appErr.Fields["name"])

	_, err = svc.CreateCategory(ctx, staff, model.CategoryInput{Name: model.StringPtr("Tax")})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, staff, model.CategoryInput{Name: model.StringPtr("Tax")})
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Contains(t, appErr.Fields["name"], "already exists")
}

func TestServicesCountOnlyCountsActive(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	view, err := svc.CreateCategory(ctx, staff, model.CategoryInput{Name: model.StringPtr("Corporate")})
	require.NoError(t, err)
	assert.Equal(t, 0, view.ServicesCount)

	for i, status := range []model.ServiceStatus{model.ServiceStatusActive, model.ServiceStatusActive, model.ServiceStatusFeatured, model.ServiceStatusInactive} {
		s := model.NewService()
		s.Title = "S"
		s.Slug = string(rune('a' + i))
		s.CategoryID = view.ID
		s.ShortDescription = "short"
		s.FullDescription = "full"
		s.Status = status
		require.NoError(t, store.Services.Create(ctx, s))
	}

	got, err := svc.GetCategory(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ServicesCount)
}

func TestUpdateCategoryPutVersusPatch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	view, err := svc.CreateCategory(ctx, staff, model.CategoryInput{
		Name:        model.StringPtr("Family"),
		Description: model.StringPtr("family law"),
		Order:       model.IntPtr(3),
	})
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, staff, view.ID, model.CategoryInput{Order: model.IntPtr(1)}, false)
	assert.True(t, apperrors.IsValidation(err))

	got, err := svc.UpdateCategory(ctx, staff, view.ID, model.CategoryInput{Order: model.IntPtr(1)}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Order)
	assert.Equal(t, "Family", got.Name)
	assert.Equal(t, "family law", got.Description)
}

func TestListCategoriesOrdering(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, in := range []model.CategoryInput{
		{Name: model.StringPtr("B"), Order: model.IntPtr(1)},
		{Name: model.StringPtr("A"), Order: model.IntPtr(2)},
		{Name: model.StringPtr("C"), Order: model.IntPtr(1)},
	} {
		_, err := svc.CreateCategory(ctx, staff, in)
		require.NoError(t, err)
	}

	list, err := svc.ListCategories(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, names(list))

	list, err = svc.ListCategories(ctx, repository.Ordering{"-name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, names(list))
}

func TestLookupHelpersReturnNilWhenMissing(t *testing.T) {
	svc, _ := newService(t)

	c, err := svc.GetByName(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = svc.Lookup(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestDeleteCategory(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	view, err := svc.CreateCategory(ctx, staff, model.CategoryInput{Name: model.StringPtr("Gone")})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, staff, view.ID))
	_, err = svc.GetCategory(ctx, view.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func names(views []*model.CategoryView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Name
	}
	return out
}
