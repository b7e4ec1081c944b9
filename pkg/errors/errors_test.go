package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NotFound("service", nil), http.StatusNotFound},
		{BadRequest("bad", nil), http.StatusBadRequest},
		{Validation(map[string]string{"name": "required"}), http.StatusBadRequest},
		{Unauthorized(nil), http.StatusUnauthorized},
		{Forbidden("Permission denied"), http.StatusForbidden},
		{Conflict("duplicate", nil), http.StatusConflict},
		{Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	err := Validation(map[string]string{
		"title": "This field is required.",
		"slug":  "service with this slug already exists.",
	})

	assert.Equal(t, "slug: service with this slug already exists.; title: This field is required.", err.Error())
}

func TestAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to get service: %w", NotFound("service", sql.ErrNoRows))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrNotFound, appErr.Code)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.ErrorIs(t, wrapped, sql.ErrNoRows)
}
