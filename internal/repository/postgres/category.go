package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
)

const categoryColumns = `id, name, description, icon, display_order, created_at, updated_at`

var categoryOrderColumns = map[string]string{
	"order":      "display_order",
	"name":       "name",
	"created_at": "created_at",
}

type categoryRepository struct {
	BaseRepository
}

func NewCategoryRepository(base BaseRepository) repository.CategoryRepository {
	return &categoryRepository{base}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.ServiceCategory) error {
	query := `
		INSERT INTO service_categories (
			name, description, icon, display_order, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING id
	`
	category.CreatedAt = time.Now().UTC()
	category.UpdatedAt = category.CreatedAt

	err := r.db.QueryRowxContext(ctx, query,
		category.Name,
		category.Description,
		category.Icon,
		category.Order,
		category.CreatedAt,
		category.UpdatedAt,
	).Scan(&category.ID)
	if err != nil {
		return translateError(err, "service category")
	}
	return nil
}

func (r *categoryRepository) Get(ctx context.Context, id int64) (*model.ServiceCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM service_categories WHERE id = $1`

	var category model.ServiceCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, translateError(err, "service category")
	}
	return &category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*model.ServiceCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM service_categories WHERE name = $1`

	var category model.ServiceCategory
	if err := r.db.GetContext(ctx, &category, query, name); err != nil {
		return nil, translateError(err, "service category")
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *model.ServiceCategory) error {
	query := `
		UPDATE service_categories
		SET name = $1, description = $2, icon = $3, display_order = $4, updated_at = $5
		WHERE id = $6
	`
	category.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		category.Name,
		category.Description,
		category.Icon,
		category.Order,
		category.UpdatedAt,
		category.ID,
	)
	if err != nil {
		return translateError(err, "service category")
	}
	return checkAffected(result, "service category")
}

// Delete removes the category; services and their dependents go with it via
// ON DELETE CASCADE.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM service_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service category: %w", err)
	}
	return checkAffected(result, "service category")
}

func (r *categoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]*model.ServiceCategory, error) {
	builder := psql().
		Select(categoryColumns).
		From("service_categories").
		OrderBy(orderBy(filter.Ordering.Or("order", "name"), categoryOrderColumns)...)
	if len(filter.IDs) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.IDs})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate category query: %w", err)
	}

	categories := []*model.ServiceCategory{}
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list service categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) CountActiveServices(ctx context.Context, categoryIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return counts, nil
	}
	for _, id := range categoryIDs {
		counts[id] = 0
	}

	query, args, err := psql().
		Select("category_id", "COUNT(*) AS total").
		From("services").
		Where(sq.Eq{"category_id": categoryIDs, "status": string(model.ServiceStatusActive)}).
		GroupBy("category_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate count query: %w", err)
	}

	var rows []struct {
		CategoryID int64 `db:"category_id"`
		Total      int   `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count services: %w", err)
	}
	for _, row := range rows {
		counts[row.CategoryID] = row.Total
	}
	return counts, nil
}
