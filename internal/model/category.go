package model

import (
	"time"
)

// ServiceCategory groups services in the catalog.
type ServiceCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" validate:"required,max=100"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon" validate:"max=50"`
	Order       int       `json:"order" db:"display_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
}

// CategoryView is the read projection of a category.
type CategoryView struct {
	ServiceCategory
	ServicesCount int `json:"services_count"`
}

// CategoryInput carries the writable category fields. Nil fields are left
// untouched.
type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Order       *int    `json:"order"`
}

// Missing lists required fields absent from a full update.
func (in CategoryInput) Missing() map[string]string {
	missing := map[string]string{}
	if in.Name == nil {
		missing["name"] = "This field is required."
	}
	return missing
}

func (in CategoryInput) Apply(c *ServiceCategory) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Icon != nil {
		c.Icon = *in.Icon
	}
	if in.Order != nil {
		c.Order = *in.Order
	}
}
