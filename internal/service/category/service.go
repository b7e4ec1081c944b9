package category

import (
	"context"
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
	"github.com/jwalitptl/legal-services-api/pkg/validator"
)

type CategoryServicer interface {
	ListCategories(ctx context.Context, ordering repository.Ordering) ([]*model.CategoryView, error)
	GetCategory(ctx context.Context, id int64) (*model.CategoryView, error)
	CreateCategory(ctx context.Context, actor *model.Actor, in model.CategoryInput) (*model.CategoryView, error)
	UpdateCategory(ctx context.Context, actor *model.Actor, id int64, in model.CategoryInput, partial bool) (*model.CategoryView, error)
	DeleteCategory(ctx context.Context, actor *model.Actor, id int64) error
}

type Service struct {
	repo      repository.CategoryRepository
	validator *validator.Validator
	cache     *gocache.Cache
}

// NewService builds the category service. cache is the read cache shared with
// the catalog service; it is flushed on every write and may be nil.
func NewService(repo repository.CategoryRepository, v *validator.Validator, cache *gocache.Cache) *Service {
	return &Service{
		repo:      repo,
		validator: v,
		cache:     cache,
	}
}

func (s *Service) ListCategories(ctx context.Context, ordering repository.Ordering) ([]*model.CategoryView, error) {
	categories, err := s.repo.List(ctx, repository.CategoryFilter{Ordering: ordering})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return s.views(ctx, categories)
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*model.CategoryView, error) {
	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return s.view(ctx, category)
}

// Find loads raw categories by id, or every category when ids is empty.
func (s *Service) Find(ctx context.Context, ids []int64) ([]*model.ServiceCategory, error) {
	categories, err := s.repo.List(ctx, repository.CategoryFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Lookup returns the category with id, or nil when there is none.
func (s *Service) Lookup(ctx context.Context, id int64) (*model.ServiceCategory, error) {
	category, err := s.repo.Get(ctx, id)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// GetByName returns the category with the exact name, or nil when there is none.
func (s *Service) GetByName(ctx context.Context, name string) (*model.ServiceCategory, error) {
	category, err := s.repo.GetByName(ctx, name)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return category, nil
}

func (s *Service) CreateCategory(ctx context.Context, actor *model.Actor, in model.CategoryInput) (*model.CategoryView, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthorized(nil)
	}
	if missing := in.Missing(); len(missing) > 0 {
		return nil, apperrors.Validation(missing)
	}

	category := &model.ServiceCategory{}
	in.Apply(category)
	if err := s.Save(ctx, category); err != nil {
		return nil, err
	}
	return s.view(ctx, category)
}

func (s *Service) UpdateCategory(ctx context.Context, actor *model.Actor, id int64, in model.CategoryInput, partial bool) (*model.CategoryView, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthorized(nil)
	}

	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if !partial {
		if missing := in.Missing(); len(missing) > 0 {
			return nil, apperrors.Validation(missing)
		}
	}

	in.Apply(category)
	if err := s.Save(ctx, category); err != nil {
		return nil, err
	}
	return s.view(ctx, category)
}

func (s *Service) DeleteCategory(ctx context.Context, actor *model.Actor, id int64) error {
	if !actor.IsAuthenticated() {
		return apperrors.Unauthorized(nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.flush()
	return nil
}

// Save validates the category and creates or updates it depending on its id.
func (s *Service) Save(ctx context.Context, category *model.ServiceCategory) error {
	if err := s.validate(ctx, category); err != nil {
		return err
	}

	if category.ID == 0 {
		if err := s.repo.Create(ctx, category); err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
	} else if err := s.repo.Update(ctx, category); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	s.flush()
	return nil
}

func (s *Service) flush() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

func (s *Service) validate(ctx context.Context, category *model.ServiceCategory) error {
	if err := s.validator.Validate(category); err != nil {
		return err
	}

	existing, err := s.GetByName(ctx, category.Name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != category.ID {
		return apperrors.Validation(map[string]string{
			"name": "service category with this name already exists.",
		})
	}
	return nil
}

func (s *Service) view(ctx context.Context, category *model.ServiceCategory) (*model.CategoryView, error) {
	views, err := s.views(ctx, []*model.ServiceCategory{category})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Service) views(ctx context.Context, categories []*model.ServiceCategory) ([]*model.CategoryView, error) {
	ids := make([]int64, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}

	counts, err := s.repo.CountActiveServices(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count services: %w", err)
	}

	views := make([]*model.CategoryView, len(categories))
	for i, c := range categories {
		views[i] = &model.CategoryView{ServiceCategory: *c, ServicesCount: counts[c.ID]}
	}
	return views, nil
}
