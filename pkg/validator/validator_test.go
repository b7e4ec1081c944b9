package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
)

type sample struct {
	Name   string `json:"name" validate:"required,max=5"`
	Email  string `json:"email" validate:"omitempty,email"`
	Slug   string `json:"slug" validate:"omitempty,slug"`
	Status string `json:"status" validate:"oneof=a b"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&sample{Name: "ok", Status: "a", Rating: 3, Slug: "contract-review"}))

	err := v.Validate(&sample{Name: "too long", Email: "nope", Slug: "bad slug", Status: "c", Rating: 9})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Equal(t, "Ensure this field has no more than 5 characters.", appErr.Fields["name"])
	assert.Equal(t, "Enter a valid email address.", appErr.Fields["email"])
	assert.Contains(t, appErr.Fields["slug"], "valid \"slug\"")
	assert.Equal(t, "\"c\" is not a valid choice.", appErr.Fields["status"])
	assert.Equal(t, "Ensure this value is less than or equal to 5.", appErr.Fields["rating"])
}

func TestValidateRequired(t *testing.T) {
	err := New().Validate(&sample{Status: "b", Rating: 1})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "This field is required.", appErr.Fields["name"])
}
