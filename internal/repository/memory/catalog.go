package memory

import (
	"context"
	"strings"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
)

type userRepository struct{ db *DB }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == user.Username {
			return apperrors.Conflict("a user with that username already exists.", nil)
		}
	}
	user.ID = r.db.nextID("users")
	user.CreatedAt = r.db.now()
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	cp := *u
	return &cp, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make(map[int64]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := r.db.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

// Delete removes the user and clears creator and assignee references.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[id]; !ok {
		return apperrors.NotFound("user", nil)
	}
	delete(r.db.users, id)
	for _, s := range r.db.services {
		if s.CreatedByID != nil && *s.CreatedByID == id {
			s.CreatedByID = nil
		}
	}
	for _, inq := range r.db.inquiries {
		if inq.AssignedToID != nil && *inq.AssignedToID == id {
			inq.AssignedToID = nil
		}
	}
	return nil
}

type categoryRepository struct{ db *DB }

func (r *categoryRepository) nameTakenLocked(name string, excludeID int64) bool {
	for _, c := range r.db.categories {
		if c.ID != excludeID && c.Name == name {
			return true
		}
	}
	return false
}

func (r *categoryRepository) Create(ctx context.Context, category *model.ServiceCategory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.nameTakenLocked(category.Name, 0) {
		return apperrors.Conflict("service category with this name already exists.", nil)
	}
	category.ID = r.db.nextID("categories")
	now := r.db.now()
	category.CreatedAt = now
	category.UpdatedAt = now
	cp := *category
	r.db.categories[category.ID] = &cp
	return nil
}

func (r *categoryRepository) Get(ctx context.Context, id int64) (*model.ServiceCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.categories[id]
	if !ok {
		return nil, apperrors.NotFound("service category", nil)
	}
	cp := *c
	return &cp, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*model.ServiceCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, c := range r.db.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("service category", nil)
}

func (r *categoryRepository) Update(ctx context.Context, category *model.ServiceCategory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.categories[category.ID]
	if !ok {
		return apperrors.NotFound("service category", nil)
	}
	if r.nameTakenLocked(category.Name, category.ID) {
		return apperrors.Conflict("service category with this name already exists.", nil)
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = r.db.now()
	cp := *category
	r.db.categories[category.ID] = &cp
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.categories[id]; !ok {
		return apperrors.NotFound("service category", nil)
	}
	delete(r.db.categories, id)
	for sid, s := range r.db.services {
		if s.CategoryID == id {
			r.db.deleteServiceLocked(sid)
		}
	}
	return nil
}

func (r *categoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]*model.ServiceCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	ids := idSet(filter.IDs)
	out := make([]*model.ServiceCategory, 0, len(r.db.categories))
	for _, c := range r.db.categories {
		if ids != nil && !ids[c.ID] {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}

	sortRecords(out, filter.Ordering.Or("order", "name"), func(a, b *model.ServiceCategory, field string) int {
		switch field {
		case "name":
			return strings.Compare(a.Name, b.Name)
		case "order":
			return compareInt(int64(a.Order), int64(b.Order))
		case "created_at":
			return compareTime(a.CreatedAt, b.CreatedAt)
		}
		return 0
	}, func(c *model.ServiceCategory) int64 { return c.ID })
	return out, nil
}

func (r *categoryRepository) CountActiveServices(ctx context.Context, categoryIDs []int64) (map[int64]int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	counts := make(map[int64]int, len(categoryIDs))
	for _, id := range categoryIDs {
		counts[id] = 0
	}
	for _, s := range r.db.services {
		if _, wanted := counts[s.CategoryID]; wanted && s.Status == model.ServiceStatusActive {
			counts[s.CategoryID]++
		}
	}
	return counts, nil
}

type serviceRepository struct{ db *DB }

func copyService(s *model.Service) *model.Service {
	cp := *s
	cp.Features = append(model.StringList{}, s.Features...)
	if s.CreatedByID != nil {
		id := *s.CreatedByID
		cp.CreatedByID = &id
	}
	return &cp
}

func (r *serviceRepository) checkLocked(service *model.Service) error {
	if _, ok := r.db.categories[service.CategoryID]; !ok {
		return apperrors.BadRequest("invalid category reference", nil)
	}
	for _, s := range r.db.services {
		if s.ID != service.ID && s.Slug == service.Slug {
			return apperrors.Conflict("service with this slug already exists.", nil)
		}
	}
	return nil
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	service.ID = 0
	if err := r.checkLocked(service); err != nil {
		return err
	}
	service.ID = r.db.nextID("services")
	now := r.db.now()
	service.CreatedAt = now
	service.UpdatedAt = now
	r.db.services[service.ID] = copyService(service)
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, id int64) (*model.Service, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.services[id]
	if !ok {
		return nil, apperrors.NotFound("service", nil)
	}
	return copyService(s), nil
}

func (r *serviceRepository) GetBySlug(ctx context.Context, slug string) (*model.Service, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, s := range r.db.services {
		if s.Slug == slug {
			return copyService(s), nil
		}
	}
	return nil, apperrors.NotFound("service", nil)
}

func (r *serviceRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Service, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make(map[int64]*model.Service, len(ids))
	for _, id := range ids {
		if s, ok := r.db.services[id]; ok {
			out[id] = copyService(s)
		}
	}
	return out, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.services[service.ID]
	if !ok {
		return apperrors.NotFound("service", nil)
	}
	if err := r.checkLocked(service); err != nil {
		return err
	}
	service.CreatedAt = existing.CreatedAt
	service.UpdatedAt = r.db.now()
	r.db.services[service.ID] = copyService(service)
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.services[id]; !ok {
		return apperrors.NotFound("service", nil)
	}
	r.db.deleteServiceLocked(id)
	return nil
}

func (r *serviceRepository) List(ctx context.Context, filter repository.ServiceFilter) ([]*model.Service, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	ids := idSet(filter.IDs)
	out := make([]*model.Service, 0, len(r.db.services))
	for _, s := range r.db.services {
		if ids != nil && !ids[s.ID] {
			continue
		}
		if filter.CategoryID != 0 && s.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Statuses != nil && !hasStatus(filter.Statuses, s.Status) {
			continue
		}
		if filter.Search != "" && !containsFold(s.Title, filter.Search) &&
			!containsFold(s.ShortDescription, filter.Search) &&
			!containsFold(s.FullDescription, filter.Search) {
			continue
		}
		out = append(out, copyService(s))
	}

	sortRecords(out, filter.Ordering.Or("order", "title"), compareServices, func(s *model.Service) int64 { return s.ID })
	return out, nil
}

func (r *serviceRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, s := range r.db.services {
		if s.ID != excludeID && s.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func hasStatus(statuses []model.ServiceStatus, status model.ServiceStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func compareServices(a, b *model.Service, field string) int {
	switch field {
	case "order":
		return compareInt(int64(a.Order), int64(b.Order))
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "created_at":
		return compareTime(a.CreatedAt, b.CreatedAt)
	case "price":
		// NULL prices sort after every value, as in postgres.
		switch {
		case !a.Price.Valid && !b.Price.Valid:
			return 0
		case !a.Price.Valid:
			return 1
		case !b.Price.Valid:
			return -1
		}
		return a.Price.Decimal.Cmp(b.Price.Decimal)
	}
	return 0
}
