package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrdering(t *testing.T) {
	assert.Equal(t, Ordering{"-price", "title"}, ParseOrdering("-price, title,bogus", "order", "title", "created_at", "price"))
	assert.Nil(t, ParseOrdering("", "order"))
	assert.Equal(t, Ordering{"order"}, ParseOrdering("bogus", "order").Or("order"))
	assert.Equal(t, Ordering{"-rating"}, ParseOrdering("-rating", "rating").Or("-created_at"))
}

func TestTerm(t *testing.T) {
	field, desc := Term("-created_at")
	assert.Equal(t, "created_at", field)
	assert.True(t, desc)

	field, desc = Term("name")
	assert.Equal(t, "name", field)
	assert.False(t, desc)
}
