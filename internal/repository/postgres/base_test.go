package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/legal-services-api/internal/repository"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
)

func TestOrderBy(t *testing.T) {
	got := orderBy(repository.Ordering{"-price", "bogus", "title"}, serviceOrderColumns)
	assert.Equal(t, []string{"price DESC", "title ASC", "id ASC"}, got)
}

func TestTranslateError(t *testing.T) {
	err := translateError(sql.ErrNoRows, "service")
	assert.True(t, apperrors.IsNotFound(err))

	err = translateError(&pq.Error{Code: "23505", Constraint: "services_slug_key"}, "service")
	appErr, ok := apperrors.As(err)
	if assert.True(t, ok) {
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
		assert.Equal(t, "service with this slug already exists.", appErr.Message)
	}

	plain := fmt.Errorf("boom")
	assert.Equal(t, plain, translateError(plain, "service"))
	assert.NoError(t, translateError(nil, "service"))
}

func TestLikePatternEscapes(t *testing.T) {
	assert.Equal(t, `%50\% off\_now%`, likePattern("50% off_now"))
}
