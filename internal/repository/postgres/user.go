package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, email, is_staff, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	user.CreatedAt = time.Now().UTC()

	err := r.db.QueryRowxContext(ctx, query,
		user.Username,
		user.Email,
		user.IsStaff,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return translateError(err, "user")
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, username, email, is_staff, created_at FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, translateError(err, "user")
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	out := make(map[int64]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := psql().
		Select("id", "username", "email", "is_staff", "created_at").
		From("users").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate users query: %w", err)
	}

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// Delete removes the user, clearing creator and assignee references first.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE services SET created_by_id = NULL WHERE created_by_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear service creator: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE service_inquiries SET assigned_to_id = NULL WHERE assigned_to_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear inquiry assignee: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return checkAffected(result, "user")
	})
}
