package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
)

const testimonialColumns = `id, service_id, client_name, client_title, client_company, client_image,
	rating, content, is_featured, is_active, created_at`

type testimonialRepository struct {
	BaseRepository
}

func NewTestimonialRepository(base BaseRepository) repository.TestimonialRepository {
	return &testimonialRepository{base}
}

func (r *testimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	query := `
		INSERT INTO testimonials (
			service_id, client_name, client_title, client_company, client_image,
			rating, content, is_featured, is_active, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING id
	`
	t.CreatedAt = time.Now().UTC()

	err := r.db.QueryRowxContext(ctx, query,
		t.ServiceID,
		t.ClientName,
		t.ClientTitle,
		t.ClientCompany,
		t.ClientImage,
		t.Rating,
		t.Content,
		t.IsFeatured,
		t.IsActive,
		t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return translateError(err, "testimonial")
	}
	return nil
}

func (r *testimonialRepository) Get(ctx context.Context, id int64) (*model.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = $1`

	var t model.Testimonial
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		return nil, translateError(err, "testimonial")
	}
	return &t, nil
}

func (r *testimonialRepository) Update(ctx context.Context, t *model.Testimonial) error {
	query := `
		UPDATE testimonials
		SET service_id = $1, client_name = $2, client_title = $3, client_company = $4,
			client_image = $5, rating = $6, content = $7, is_featured = $8, is_active = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		t.ServiceID,
		t.ClientName,
		t.ClientTitle,
		t.ClientCompany,
		t.ClientImage,
		t.Rating,
		t.Content,
		t.IsFeatured,
		t.IsActive,
		t.ID,
	)
	if err != nil {
		return translateError(err, "testimonial")
	}
	return checkAffected(result, "testimonial")
}

func (r *testimonialRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	return checkAffected(result, "testimonial")
}

func (r *testimonialRepository) List(ctx context.Context, filter repository.TestimonialFilter) ([]*model.Testimonial, error) {
	builder := psql().
		Select(testimonialColumns).
		From("testimonials").
		OrderBy(orderBy(filter.Ordering.Or("-created_at"), map[string]string{
			"created_at": "created_at",
			"rating":     "rating",
		})...)

	if filter.ServiceID != 0 {
		builder = builder.Where(sq.Eq{"service_id": filter.ServiceID})
	}
	if filter.IsFeatured != nil {
		builder = builder.Where(sq.Eq{"is_featured": *filter.IsFeatured})
	}
	if filter.IsActive != nil {
		builder = builder.Where(sq.Eq{"is_active": *filter.IsActive})
	}
	if filter.Rating != 0 {
		builder = builder.Where(sq.Eq{"rating": filter.Rating})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate testimonial query: %w", err)
	}

	testimonials := []*model.Testimonial{}
	if err := r.db.SelectContext(ctx, &testimonials, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return testimonials, nil
}
