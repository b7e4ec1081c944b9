package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
)

const serviceColumns = `id, title, slug, category_id, short_description, full_description, icon, image,
	price, price_unit, duration, status, features, display_order, created_by_id, created_at, updated_at`

var serviceOrderColumns = map[string]string{
	"order":      "display_order",
	"title":      "title",
	"created_at": "created_at",
	"price":      "price",
}

type serviceRepository struct {
	BaseRepository
}

func NewServiceRepository(base BaseRepository) repository.ServiceRepository {
	return &serviceRepository{base}
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	query := `
		INSERT INTO services (
			title, slug, category_id, short_description, full_description, icon, image,
			price, price_unit, duration, status, features, display_order, created_by_id,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		RETURNING id
	`
	service.CreatedAt = time.Now().UTC()
	service.UpdatedAt = service.CreatedAt

	err := r.db.QueryRowxContext(ctx, query,
		service.Title,
		service.Slug,
		service.CategoryID,
		service.ShortDescription,
		service.FullDescription,
		service.Icon,
		service.Image,
		service.Price,
		service.PriceUnit,
		service.Duration,
		service.Status,
		service.Features,
		service.Order,
		service.CreatedByID,
		service.CreatedAt,
		service.UpdatedAt,
	).Scan(&service.ID)
	if err != nil {
		return translateError(err, "service")
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, id int64) (*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	var service model.Service
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		return nil, translateError(err, "service")
	}
	return &service, nil
}

func (r *serviceRepository) GetBySlug(ctx context.Context, slug string) (*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE slug = $1`

	var service model.Service
	if err := r.db.GetContext(ctx, &service, query, slug); err != nil {
		return nil, translateError(err, "service")
	}
	return &service, nil
}

func (r *serviceRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Service, error) {
	out := make(map[int64]*model.Service, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	services, err := r.List(ctx, repository.ServiceFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, s := range services {
		out[s.ID] = s
	}
	return out, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) error {
	query := `
		UPDATE services
		SET title = $1, slug = $2, category_id = $3, short_description = $4,
			full_description = $5, icon = $6, image = $7, price = $8, price_unit = $9,
			duration = $10, status = $11, features = $12, display_order = $13,
			created_by_id = $14, updated_at = $15
		WHERE id = $16
	`
	service.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		service.Title,
		service.Slug,
		service.CategoryID,
		service.ShortDescription,
		service.FullDescription,
		service.Icon,
		service.Image,
		service.Price,
		service.PriceUnit,
		service.Duration,
		service.Status,
		service.Features,
		service.Order,
		service.CreatedByID,
		service.UpdatedAt,
		service.ID,
	)
	if err != nil {
		return translateError(err, "service")
	}
	return checkAffected(result, "service")
}

func (r *serviceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return checkAffected(result, "service")
}

func (r *serviceRepository) List(ctx context.Context, filter repository.ServiceFilter) ([]*model.Service, error) {
	builder := psql().
		Select(serviceColumns).
		From("services").
		OrderBy(orderBy(filter.Ordering.Or("order", "title"), serviceOrderColumns)...)

	if len(filter.IDs) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.IDs})
	}
	if filter.CategoryID != 0 {
		builder = builder.Where(sq.Eq{"category_id": filter.CategoryID})
	}
	if filter.Statuses != nil {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		builder = builder.Where(sq.Eq{"status": statuses})
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"short_description": pattern},
			sq.ILike{"full_description": pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate service query: %w", err)
	}

	services := []*model.Service{}
	if err := r.db.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *serviceRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM services WHERE slug = $1 AND id <> $2)`, slug, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}
