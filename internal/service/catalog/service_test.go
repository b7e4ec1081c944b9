package catalog

import (
	"context"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	"github.com/jwalitptl/legal-services-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
	"github.com/jwalitptl/legal-services-api/pkg/validator"
)

type fixture struct {
	svc      *Service
	store    *repository.Store
	staff    *model.Actor
	user     *model.Actor
	category *model.ServiceCategory
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	admin := &model.User{Username: "admin", Email: "admin@example.com", IsStaff: true}
	require.NoError(t, store.Users.Create(ctx, admin))
	client := &model.User{Username: "client", Email: "client@example.com"}
	require.NoError(t, store.Users.Create(ctx, client))

	category := &model.ServiceCategory{Name: "Corporate Law"}
	require.NoError(t, store.Categories.Create(ctx, category))

	return &fixture{
		svc:      NewService(store, validator.New(), gocache.New(time.Minute, time.Minute)),
		store:    store,
		staff:    admin.Actor(),
		user:     client.Actor(),
		category: category,
	}
}

func (f *fixture) input(title string) model.ServiceInput {
	return model.ServiceInput{
		Title:            model.StringPtr(title),
		CategoryID:       model.Int64Ptr(f.category.ID),
		ShortDescription: model.StringPtr("short"),
		FullDescription:  model.StringPtr("full"),
	}
}

func (f *fixture) create(t *testing.T, title string, status model.ServiceStatus) *model.ServiceDetail {
	t.Helper()
	in := f.input(title)
	st := string(status)
	in.Status = &st
	d, err := f.svc.CreateService(context.Background(), f.staff, in)
	require.NoError(t, err)
	return d
}

func TestCreateServiceDefaults(t *testing.T) {
	f := setup(t)

	d := f.create(t, "Contract Review, Drafting!", model.ServiceStatusActive)
	assert.Equal(t, "contract-review-drafting", d.Slug)
	assert.Equal(t, model.DefaultPriceUnit, d.PriceUnit)
	assert.Equal(t, model.ServiceStatusActive, d.Status)
	require.NotNil(t, d.CreatedByID)
	assert.Equal(t, f.staff.UserID, *d.CreatedByID)
	require.NotNil(t, d.CreatedByName)
	assert.Equal(t, "admin", *d.CreatedByName)
	assert.Equal(t, "Corporate Law", d.Category.Name)
	assert.Equal(t, 1, d.Category.ServicesCount)
}

func TestCreateServiceRequiresAuthentication(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CreateService(context.Background(), nil, f.input("X"))
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestSlugIsNotRecomputedOnTitleChange(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	d := f.create(t, "Original Title", model.ServiceStatusActive)
	updated, err := f.svc.UpdateService(ctx, f.staff, d.Slug, model.ServiceInput{Title: model.StringPtr("New Title")}, true)
	require.NoError(t, err)
	assert.Equal(t, "original-title", updated.Slug)
	assert.Equal(t, "New Title", updated.Title)
}

func TestDuplicateSlugIsValidationError(t *testing.T) {
	f := setup(t)

	f.create(t, "Same", model.ServiceStatusActive)
	_, err := f.svc.CreateService(context.Background(), f.staff, f.input("Same"))
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "slug")
}

func TestSaveValidatesPriceAndCategory(t *testing.T) {
	f := setup(t)

	svc := model.NewService()
	svc.Title = "Priced"
	svc.CategoryID = 999
	svc.ShortDescription = "s"
	svc.FullDescription = "f"
	svc.Price = decimal.NewNullDecimal(decimal.RequireFromString("12.345"))

	err := f.svc.Save(context.Background(), svc)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields["price"], "2 decimal places")
	assert.Contains(t, appErr.Fields["category_id"], "does not exist")

	svc.CategoryID = f.category.ID
	svc.Price = decimal.NewNullDecimal(decimal.RequireFromString("123456789"))
	err = f.svc.Save(context.Background(), svc)
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields["price"], "8 digits")
}

func TestVisibilityByRole(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.create(t, "Active", model.ServiceStatusActive)
	f.create(t, "Featured", model.ServiceStatusFeatured)
	hidden := f.create(t, "Hidden", model.ServiceStatusInactive)

	for _, actor := range []*model.Actor{nil, f.user} {
		items, err := f.svc.ListServices(ctx, actor, Query{})
		require.NoError(t, err)
		assert.Len(t, items, 2)

		items, err = f.svc.ListServices(ctx, actor, Query{Status: "inactive"})
		require.NoError(t, err)
		assert.Empty(t, items)

		_, err = f.svc.GetService(ctx, actor, hidden.Slug)
		assert.True(t, apperrors.IsNotFound(err))
	}

	items, err := f.svc.ListServices(ctx, f.staff, Query{})
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, err = f.svc.ListServices(ctx, f.staff, Query{Status: "inactive"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Hidden", items[0].Title)
	assert.Equal(t, "Corporate Law", items[0].CategoryName)

	_, err = f.svc.ListServices(ctx, f.staff, Query{Status: "archived"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestSearchAndOrdering(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.create(t, "Beta Trademark", model.ServiceStatusActive)
	f.create(t, "Alpha Patent", model.ServiceStatusActive)
	f.create(t, "Gamma Trademark Renewal", model.ServiceStatusActive)

	items, err := f.svc.ListServices(ctx, nil, Query{Search: "TRADEMARK", Ordering: repository.Ordering{"-title"}})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Gamma Trademark Renewal", items[0].Title)
	assert.Equal(t, "Beta Trademark", items[1].Title)
}

func TestFeaturedIsCachedUntilWrite(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.create(t, "Star", model.ServiceStatusFeatured)
	items, err := f.svc.FeaturedServices(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Bypass the service so the cache is not flushed.
	s := model.NewService()
	s.Title, s.Slug, s.CategoryID = "Sneaky", "sneaky", f.category.ID
	s.ShortDescription, s.FullDescription = "s", "f"
	s.Status = model.ServiceStatusFeatured
	require.NoError(t, f.store.Services.Create(ctx, s))

	items, err = f.svc.FeaturedServices(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	f.create(t, "Another Star", model.ServiceStatusFeatured)
	items, err = f.svc.FeaturedServices(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestServicesByCategory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	other := &model.ServiceCategory{Name: "Tax"}
	require.NoError(t, f.store.Categories.Create(ctx, other))

	f.create(t, "In Corporate", model.ServiceStatusActive)
	f.create(t, "Hidden Corporate", model.ServiceStatusInactive)
	in := f.input("In Tax")
	in.CategoryID = model.Int64Ptr(other.ID)
	_, err := f.svc.CreateService(ctx, f.staff, in)
	require.NoError(t, err)

	items, err := f.svc.ServicesByCategory(ctx, nil, f.category.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "In Corporate", items[0].Title)
}

func TestDetailIncludesThreeActiveTestimonials(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	d := f.create(t, "Reviewed", model.ServiceStatusActive)
	for i := 0; i < 5; i++ {
		tm := model.NewTestimonial()
		tm.ServiceID = model.Int64Ptr(d.ID)
		tm.ClientName = "Client"
		tm.Content = "Great"
		tm.IsActive = i != 4
		require.NoError(t, f.store.Testimonials.Create(ctx, tm))
	}

	detail, err := f.svc.GetService(ctx, nil, d.Slug)
	require.NoError(t, err)
	require.Len(t, detail.Testimonials, 3)
	for _, tv := range detail.Testimonials {
		assert.True(t, tv.IsActive)
		assert.Equal(t, "Reviewed", *tv.ServiceTitle)
	}
}

func TestUpdateServicePutRequiresAllFields(t *testing.T) {
	f := setup(t)

	d := f.create(t, "Full", model.ServiceStatusActive)
	_, err := f.svc.UpdateService(context.Background(), f.staff, d.Slug, model.ServiceInput{Title: model.StringPtr("x")}, false)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "short_description")
}

func TestDeleteService(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	d := f.create(t, "Temp", model.ServiceStatusActive)
	require.NoError(t, f.svc.DeleteService(ctx, f.staff, d.Slug))

	_, err := f.svc.GetService(ctx, f.staff, d.Slug)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "family-law-consultation", Slugify("Family Law Consultation"))

	long := Slugify("a very long title that keeps on going well beyond the fifty character slug limit")
	assert.LessOrEqual(t, len(long), model.SlugMaxLength)
	assert.NotEqual(t, byte('-'), long[len(long)-1])
}
