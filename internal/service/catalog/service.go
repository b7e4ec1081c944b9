package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
	"github.com/jwalitptl/legal-services-api/pkg/validator"
)

const (
	featuredKey          = "services:featured"
	detailTestimonialCap = 3
)

var maxWholePrice = decimal.New(1, 8)

type CatalogServicer interface {
	ListServices(ctx context.Context, actor *model.Actor, q Query) ([]*model.ServiceListItem, error)
	FeaturedServices(ctx context.Context, actor *model.Actor) ([]*model.ServiceListItem, error)
	ServicesByCategory(ctx context.Context, actor *model.Actor, categoryID int64) ([]*model.ServiceListItem, error)
	GetService(ctx context.Context, actor *model.Actor, serviceSlug string) (*model.ServiceDetail, error)
	CreateService(ctx context.Context, actor *model.Actor, in model.ServiceInput) (*model.ServiceDetail, error)
	UpdateService(ctx context.Context, actor *model.Actor, serviceSlug string, in model.ServiceInput, partial bool) (*model.ServiceDetail, error)
	DeleteService(ctx context.Context, actor *model.Actor, serviceSlug string) error
}

// Query holds the list filters accepted from callers.
type Query struct {
	CategoryID int64
	Status     string
	Search     string
	Ordering   repository.Ordering
}

type Service struct {
	services     repository.ServiceRepository
	categories   repository.CategoryRepository
	testimonials repository.TestimonialRepository
	users        repository.UserRepository
	validator    *validator.Validator
	cache        *gocache.Cache
}

func NewService(store *repository.Store, v *validator.Validator, cache *gocache.Cache) *Service {
	return &Service{
		services:     store.Services,
		categories:   store.Categories,
		testimonials: store.Testimonials,
		users:        store.Users,
		validator:    v,
		cache:        cache,
	}
}

// visibleStatuses narrows the requested status to what the actor may read.
// A nil result means no restriction.
func visibleStatuses(actor *model.Actor, status string) ([]model.ServiceStatus, error) {
	if status != "" {
		st := model.ServiceStatus(status)
		switch st {
		case model.ServiceStatusActive, model.ServiceStatusInactive, model.ServiceStatusFeatured:
		default:
			return nil, apperrors.Validation(map[string]string{
				"status": fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", status),
			})
		}
		if actor.Staff() || st != model.ServiceStatusInactive {
			return []model.ServiceStatus{st}, nil
		}
		return []model.ServiceStatus{}, nil
	}
	if actor.Staff() {
		return nil, nil
	}
	return model.PublicServiceStatuses, nil
}

func (s *Service) ListServices(ctx context.Context, actor *model.Actor, q Query) ([]*model.ServiceListItem, error) {
	statuses, err := visibleStatuses(actor, q.Status)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ServiceFilter{
		CategoryID: q.CategoryID,
		Statuses:   statuses,
		Search:     strings.TrimSpace(q.Search),
		Ordering:   q.Ordering,
	})
}

// FeaturedServices returns featured services. The result is the same for
// every caller, so it is served from the cache when present.
func (s *Service) FeaturedServices(ctx context.Context, actor *model.Actor) ([]*model.ServiceListItem, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(featuredKey); ok {
			return cached.([]*model.ServiceListItem), nil
		}
	}

	items, err := s.list(ctx, repository.ServiceFilter{
		Statuses: []model.ServiceStatus{model.ServiceStatusFeatured},
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetDefault(featuredKey, items)
	}
	return items, nil
}

func (s *Service) ServicesByCategory(ctx context.Context, actor *model.Actor, categoryID int64) ([]*model.ServiceListItem, error) {
	statuses, err := visibleStatuses(actor, "")
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ServiceFilter{CategoryID: categoryID, Statuses: statuses})
}

func (s *Service) list(ctx context.Context, filter repository.ServiceFilter) ([]*model.ServiceListItem, error) {
	services, err := s.services.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	names, err := s.categoryNames(ctx, services)
	if err != nil {
		return nil, err
	}

	items := make([]*model.ServiceListItem, len(services))
	for i, svc := range services {
		items[i] = model.NewServiceListItem(svc, names[svc.CategoryID])
	}
	return items, nil
}

// Find loads raw services by id, or every service when ids is empty.
func (s *Service) Find(ctx context.Context, ids []int64) ([]*model.Service, error) {
	services, err := s.services.List(ctx, repository.ServiceFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// Lookup returns the service with id, or nil when there is none.
func (s *Service) Lookup(ctx context.Context, id int64) (*model.Service, error) {
	svc, err := s.services.Get(ctx, id)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return svc, nil
}

// CategoryNames maps category ids of the given services to category names.
func (s *Service) CategoryNames(ctx context.Context, services []*model.Service) (map[int64]string, error) {
	return s.categoryNames(ctx, services)
}

// CreatorNames maps creator ids of the given services to usernames.
func (s *Service) CreatorNames(ctx context.Context, services []*model.Service) (map[int64]string, error) {
	var ids []int64
	for _, svc := range services {
		if svc.CreatedByID != nil {
			ids = append(ids, *svc.CreatedByID)
		}
	}
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for id, u := range users {
		names[id] = u.Username
	}
	return names, nil
}

func (s *Service) categoryNames(ctx context.Context, services []*model.Service) (map[int64]string, error) {
	names := make(map[int64]string)
	if len(services) == 0 {
		return names, nil
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, svc := range services {
		if !seen[svc.CategoryID] {
			seen[svc.CategoryID] = true
			ids = append(ids, svc.CategoryID)
		}
	}

	categories, err := s.categories.List(ctx, repository.CategoryFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *Service) GetService(ctx context.Context, actor *model.Actor, serviceSlug string) (*model.ServiceDetail, error) {
	svc, err := s.visible(ctx, actor, serviceSlug)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, svc)
}

// visible loads a service by slug and hides statuses the actor may not read.
func (s *Service) visible(ctx context.Context, actor *model.Actor, serviceSlug string) (*model.Service, error) {
	svc, err := s.services.GetBySlug(ctx, serviceSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if !actor.Staff() && svc.Status == model.ServiceStatusInactive {
		return nil, apperrors.NotFound("service", nil)
	}
	return svc, nil
}

func (s *Service) detail(ctx context.Context, svc *model.Service) (*model.ServiceDetail, error) {
	category, err := s.categories.Get(ctx, svc.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	counts, err := s.categories.CountActiveServices(ctx, []int64{category.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to count services: %w", err)
	}

	active := true
	testimonials, err := s.testimonials.List(ctx, repository.TestimonialFilter{
		ServiceID: svc.ID,
		IsActive:  &active,
		Limit:     detailTestimonialCap,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}

	detail := &model.ServiceDetail{
		Service:      svc,
		Category:     &model.CategoryView{ServiceCategory: *category, ServicesCount: counts[category.ID]},
		Testimonials: make([]*model.TestimonialView, len(testimonials)),
	}
	title := svc.Title
	for i, t := range testimonials {
		detail.Testimonials[i] = &model.TestimonialView{Testimonial: t, ServiceTitle: &title}
	}

	if svc.CreatedByID != nil {
		names, err := s.CreatorNames(ctx, []*model.Service{svc})
		if err != nil {
			return nil, err
		}
		if name, ok := names[*svc.CreatedByID]; ok {
			detail.CreatedByName = &name
		}
	}
	return detail, nil
}

func (s *Service) CreateService(ctx context.Context, actor *model.Actor, in model.ServiceInput) (*model.ServiceDetail, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthorized(nil)
	}
	if missing := in.Missing(); len(missing) > 0 {
		return nil, apperrors.Validation(missing)
	}

	svc := model.NewService()
	in.Apply(svc)
	svc.CreatedByID = actor.ID()
	if err := s.Save(ctx, svc); err != nil {
		return nil, err
	}
	return s.detail(ctx, svc)
}

func (s *Service) UpdateService(ctx context.Context, actor *model.Actor, serviceSlug string, in model.ServiceInput, partial bool) (*model.ServiceDetail, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthorized(nil)
	}

	svc, err := s.visible(ctx, actor, serviceSlug)
	if err != nil {
		return nil, err
	}
	if !partial {
		if missing := in.Missing(); len(missing) > 0 {
			return nil, apperrors.Validation(missing)
		}
	}

	in.Apply(svc)
	if err := s.Save(ctx, svc); err != nil {
		return nil, err
	}
	return s.detail(ctx, svc)
}

func (s *Service) DeleteService(ctx context.Context, actor *model.Actor, serviceSlug string) error {
	if !actor.IsAuthenticated() {
		return apperrors.Unauthorized(nil)
	}

	svc, err := s.visible(ctx, actor, serviceSlug)
	if err != nil {
		return err
	}
	if err := s.services.Delete(ctx, svc.ID); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	s.flush()
	return nil
}

// Save derives a missing slug, validates the service and creates or updates
// it depending on its id.
func (s *Service) Save(ctx context.Context, svc *model.Service) error {
	if svc.Slug == "" {
		svc.Slug = Slugify(svc.Title)
	}
	if err := s.validate(ctx, svc); err != nil {
		return err
	}

	if svc.ID == 0 {
		if err := s.services.Create(ctx, svc); err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}
	} else if err := s.services.Update(ctx, svc); err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	s.flush()
	return nil
}

func (s *Service) validate(ctx context.Context, svc *model.Service) error {
	if err := s.validator.Validate(svc); err != nil {
		return err
	}

	fields := map[string]string{}
	if svc.Price.Valid {
		if msg := checkPrice(svc.Price.Decimal); msg != "" {
			fields["price"] = msg
		}
	}

	if _, err := s.categories.Get(ctx, svc.CategoryID); err != nil {
		if !apperrors.IsNotFound(err) {
			return fmt.Errorf("failed to get category: %w", err)
		}
		fields["category_id"] = fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", svc.CategoryID)
	}

	taken, err := s.services.SlugExists(ctx, svc.Slug, svc.ID)
	if err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		fields["slug"] = "service with this slug already exists."
	}

	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}

// checkPrice enforces numeric(10,2).
func checkPrice(d decimal.Decimal) string {
	if !d.Equal(d.Round(2)) {
		return "Ensure that there are no more than 2 decimal places."
	}
	if d.Abs().GreaterThanOrEqual(maxWholePrice) {
		return "Ensure that there are no more than 8 digits before the decimal point."
	}
	return ""
}

// flush drops cached reads. Category names are part of cached items, so the
// whole cache goes.
func (s *Service) flush() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

// Slugify derives a URL slug from a title, trimmed to the slug column size.
func Slugify(title string) string {
	out := slug.Make(title)
	if len(out) > model.SlugMaxLength {
		out = strings.TrimRight(out[:model.SlugMaxLength], "-")
	}
	return out
}
