package testimonial

import (
	"context"
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
	"github.com/jwalitptl/legal-services-api/pkg/validator"
)

const featuredKey = "testimonials:featured"

type TestimonialServicer interface {
	ListTestimonials(ctx context.Context, actor *model.Actor, q Query) ([]*model.TestimonialView, error)
	FeaturedTestimonials(ctx context.Context, actor *model.Actor) ([]*model.TestimonialView, error)
	GetTestimonial(ctx context.Context, actor *model.Actor, id int64) (*model.TestimonialView, error)
	CreateTestimonial(ctx context.Context, actor *model.Actor, in model.TestimonialInput) (*model.TestimonialView, error)
	UpdateTestimonial(ctx context.Context, actor *model.Actor, id int64, in model.TestimonialInput, partial bool) (*model.TestimonialView, error)
	DeleteTestimonial(ctx context.Context, actor *model.Actor, id int64) error
}

type Query struct {
	ServiceID  int64
	IsFeatured *bool
	IsActive   *bool
	Rating     int
	Ordering   repository.Ordering
}

type Service struct {
	repo      repository.TestimonialRepository
	services  repository.ServiceRepository
	validator *validator.Validator
	cache     *gocache.Cache
}

func NewService(repo repository.TestimonialRepository, services repository.ServiceRepository, v *validator.Validator, cache *gocache.Cache) *Service {
	return &Service{
		repo:      repo,
		services:  services,
		validator: v,
		cache:     cache,
	}
}

func (s *Service) ListTestimonials(ctx context.Context, actor *model.Actor, q Query) ([]*model.TestimonialView, error) {
	filter := repository.TestimonialFilter{
		ServiceID:  q.ServiceID,
		IsFeatured: q.IsFeatured,
		IsActive:   q.IsActive,
		Rating:     q.Rating,
		Ordering:   q.Ordering,
	}
	if !actor.Staff() {
		if q.IsActive != nil && !*q.IsActive {
			return []*model.TestimonialView{}, nil
		}
		active := true
		filter.IsActive = &active
	}
	return s.list(ctx, filter)
}

// FeaturedTestimonials returns featured testimonials visible to the actor.
// Non-staff results are cached.
func (s *Service) FeaturedTestimonials(ctx context.Context, actor *model.Actor) ([]*model.TestimonialView, error) {
	featured := true
	filter := repository.TestimonialFilter{IsFeatured: &featured}
	if actor.Staff() {
		return s.list(ctx, filter)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(featuredKey); ok {
			return cached.([]*model.TestimonialView), nil
		}
	}

	active := true
	filter.IsActive = &active
	views, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetDefault(featuredKey, views)
	}
	return views, nil
}

func (s *Service) GetTestimonial(ctx context.Context, actor *model.Actor, id int64) (*model.TestimonialView, error) {
	t, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, t)
}

func (s *Service) visible(ctx context.Context, actor *model.Actor, id int64) (*model.Testimonial, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get testimonial: %w", err)
	}
	if !actor.Staff() && !t.IsActive {
		return nil, apperrors.NotFound("testimonial", nil)
	}
	return t, nil
}

func (s *Service) CreateTestimonial(ctx context.Context, actor *model.Actor, in model.TestimonialInput) (*model.TestimonialView, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthorized(nil)
	}
	if missing := in.Missing(); len(missing) > 0 {
		return nil, apperrors.Validation(missing)
	}

	t := model.NewTestimonial()
	in.Apply(t)
	if err := s.validate(ctx, t); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create testimonial: %w", err)
	}
	s.flush()
	return s.view(ctx, t)
}

func (s *Service) UpdateTestimonial(ctx context.Context, actor *model.Actor, id int64, in model.TestimonialInput, partial bool) (*model.TestimonialView, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthorized(nil)
	}

	t, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !partial {
		if missing := in.Missing(); len(missing) > 0 {
			return nil, apperrors.Validation(missing)
		}
	}

	in.Apply(t)
	if err := s.validate(ctx, t); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update testimonial: %w", err)
	}
	s.flush()
	return s.view(ctx, t)
}

func (s *Service) DeleteTestimonial(ctx context.Context, actor *model.Actor, id int64) error {
	if !actor.IsAuthenticated() {
		return apperrors.Unauthorized(nil)
	}

	t, err := s.visible(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	s.flush()
	return nil
}

func (s *Service) validate(ctx context.Context, t *model.Testimonial) error {
	if err := s.validator.Validate(t); err != nil {
		return err
	}
	if t.ServiceID == nil {
		return nil
	}

	if _, err := s.services.Get(ctx, *t.ServiceID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.Validation(map[string]string{
				"service": fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *t.ServiceID),
			})
		}
		return fmt.Errorf("failed to get service: %w", err)
	}
	return nil
}

func (s *Service) list(ctx context.Context, filter repository.TestimonialFilter) ([]*model.TestimonialView, error) {
	testimonials, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return s.views(ctx, testimonials)
}

func (s *Service) view(ctx context.Context, t *model.Testimonial) (*model.TestimonialView, error) {
	views, err := s.views(ctx, []*model.Testimonial{t})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Service) views(ctx context.Context, testimonials []*model.Testimonial) ([]*model.TestimonialView, error) {
	var ids []int64
	for _, t := range testimonials {
		if t.ServiceID != nil {
			ids = append(ids, *t.ServiceID)
		}
	}

	titles := map[int64]*model.Service{}
	if len(ids) > 0 {
		var err error
		titles, err = s.services.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load services: %w", err)
		}
	}

	views := make([]*model.TestimonialView, len(testimonials))
	for i, t := range testimonials {
		views[i] = &model.TestimonialView{Testimonial: t}
		if t.ServiceID != nil {
			if svc, ok := titles[*t.ServiceID]; ok {
				title := svc.Title
				views[i].ServiceTitle = &title
			}
		}
	}
	return views, nil
}

func (s *Service) flush() {
	if s.cache != nil {
		s.cache.Delete(featuredKey)
	}
}
