package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
)

const inquiryColumns = `id, service_id, name, email, phone, company, message, status, notes,
	assigned_to_id, created_at, updated_at`

type inquiryRepository struct {
	BaseRepository
}

func NewInquiryRepository(base BaseRepository) repository.InquiryRepository {
	return &inquiryRepository{base}
}

func (r *inquiryRepository) Create(ctx context.Context, inquiry *model.ServiceInquiry) error {
	query := `
		INSERT INTO service_inquiries (
			service_id, name, email, phone, company, message, status, notes,
			assigned_to_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING id
	`
	inquiry.CreatedAt = time.Now().UTC()
	inquiry.UpdatedAt = inquiry.CreatedAt

	err := r.db.QueryRowxContext(ctx, query,
		inquiry.ServiceID,
		inquiry.Name,
		inquiry.Email,
		inquiry.Phone,
		inquiry.Company,
		inquiry.Message,
		inquiry.Status,
		inquiry.Notes,
		inquiry.AssignedToID,
		inquiry.CreatedAt,
		inquiry.UpdatedAt,
	).Scan(&inquiry.ID)
	if err != nil {
		return translateError(err, "inquiry")
	}
	return nil
}

func (r *inquiryRepository) Get(ctx context.Context, id int64) (*model.ServiceInquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM service_inquiries WHERE id = $1`

	var inquiry model.ServiceInquiry
	if err := r.db.GetContext(ctx, &inquiry, query, id); err != nil {
		return nil, translateError(err, "inquiry")
	}
	return &inquiry, nil
}

func (r *inquiryRepository) Update(ctx context.Context, inquiry *model.ServiceInquiry) error {
	query := `
		UPDATE service_inquiries
		SET service_id = $1, name = $2, email = $3, phone = $4, company = $5,
			message = $6, status = $7, notes = $8, assigned_to_id = $9, updated_at = $10
		WHERE id = $11
	`
	inquiry.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		inquiry.ServiceID,
		inquiry.Name,
		inquiry.Email,
		inquiry.Phone,
		inquiry.Company,
		inquiry.Message,
		inquiry.Status,
		inquiry.Notes,
		inquiry.AssignedToID,
		inquiry.UpdatedAt,
		inquiry.ID,
	)
	if err != nil {
		return translateError(err, "inquiry")
	}
	return checkAffected(result, "inquiry")
}

func (r *inquiryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM service_inquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inquiry: %w", err)
	}
	return checkAffected(result, "inquiry")
}

func (r *inquiryRepository) List(ctx context.Context, filter repository.InquiryFilter) ([]*model.ServiceInquiry, error) {
	builder := psql().
		Select(inquiryColumns).
		From("service_inquiries").
		OrderBy(orderBy(filter.Ordering.Or("-created_at"), map[string]string{"created_at": "created_at"})...)

	if filter.ServiceID != 0 {
		builder = builder.Where(sq.Eq{"service_id": filter.ServiceID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Email != "" {
		builder = builder.Where(sq.Eq{"email": filter.Email})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate inquiry query: %w", err)
	}

	inquiries := []*model.ServiceInquiry{}
	if err := r.db.SelectContext(ctx, &inquiries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, nil
}
