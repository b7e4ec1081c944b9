package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceStatus string

const (
	ServiceStatusActive   ServiceStatus = "active"
	ServiceStatusInactive ServiceStatus = "inactive"
	ServiceStatusFeatured ServiceStatus = "featured"

	DefaultPriceUnit = "per case"
	SlugMaxLength    = 50
)

// PublicServiceStatuses are the statuses visible to non-staff readers.
var PublicServiceStatuses = []ServiceStatus{ServiceStatusActive, ServiceStatusFeatured}

// Service is a catalog entry addressed externally by its slug.
type Service struct {
	ID               int64               `json:"id" db:"id"`
	Title            string              `json:"title" db:"title" validate:"required,max=200"`
	Slug             string              `json:"slug" db:"slug" validate:"required,max=50,slug"`
	CategoryID       int64               `json:"category_id" db:"category_id" validate:"required"`
	ShortDescription string              `json:"short_description" db:"short_description" validate:"required,max=500"`
	FullDescription  string              `json:"full_description" db:"full_description" validate:"required"`
	Icon             string              `json:"icon" db:"icon" validate:"max=50"`
	Image            string              `json:"image" db:"image" validate:"max=100"`
	Price            decimal.NullDecimal `json:"price" db:"price"`
	PriceUnit        string              `json:"price_unit" db:"price_unit" validate:"max=50"`
	Duration         string              `json:"duration" db:"duration" validate:"max=100"`
	Status           ServiceStatus       `json:"status" db:"status" validate:"required,oneof=active inactive featured"`
	Features         StringList          `json:"features" db:"features"`
	Order            int                 `json:"order" db:"display_order"`
	CreatedByID      *int64              `json:"created_by" db:"created_by_id"`
	Timestamps
}

// NewService returns a service with the column defaults applied.
func NewService() *Service {
	return &Service{
		Status:    ServiceStatusActive,
		PriceUnit: DefaultPriceUnit,
		Features:  StringList{},
	}
}

// ServiceListItem is the summary projection used by list endpoints.
type ServiceListItem struct {
	ID               int64               `json:"id"`
	Title            string              `json:"title"`
	Slug             string              `json:"slug"`
	Category         int64               `json:"category"`
	CategoryName     string              `json:"category_name"`
	ShortDescription string              `json:"short_description"`
	Icon             string              `json:"icon"`
	Image            string              `json:"image"`
	Price            decimal.NullDecimal `json:"price"`
	PriceUnit        string              `json:"price_unit"`
	Status           ServiceStatus       `json:"status"`
	Order            int                 `json:"order"`
	CreatedAt        time.Time           `json:"created_at"`
}

func NewServiceListItem(s *Service, categoryName string) *ServiceListItem {
	return &ServiceListItem{
		ID:               s.ID,
		Title:            s.Title,
		Slug:             s.Slug,
		Category:         s.CategoryID,
		CategoryName:     categoryName,
		ShortDescription: s.ShortDescription,
		Icon:             s.Icon,
		Image:            s.Image,
		Price:            s.Price,
		PriceUnit:        s.PriceUnit,
		Status:           s.Status,
		Order:            s.Order,
		CreatedAt:        s.CreatedAt,
	}
}

// ServiceDetail is the full projection of a single service.
type ServiceDetail struct {
	*Service
	Category      *CategoryView      `json:"category"`
	Testimonials  []*TestimonialView `json:"testimonials"`
	CreatedByName *string            `json:"created_by_name"`
}

// ServiceInput carries writable service fields. Nil fields are left untouched.
type ServiceInput struct {
	Title            *string         `json:"title"`
	Slug             *string         `json:"slug"`
	CategoryID       *int64          `json:"category_id"`
	ShortDescription *string         `json:"short_description"`
	FullDescription  *string         `json:"full_description"`
	Icon             *string         `json:"icon"`
	Image            *string         `json:"image"`
	Price            OptionalDecimal `json:"price"`
	PriceUnit        *string         `json:"price_unit"`
	Duration         *string         `json:"duration"`
	Status           *string         `json:"status"`
	Features         *StringList     `json:"features"`
	Order            *int            `json:"order"`
}

// Missing lists required fields absent from a full update.
func (in ServiceInput) Missing() map[string]string {
	missing := map[string]string{}
	if in.Title == nil {
		missing["title"] = "This field is required."
	}
	if in.CategoryID == nil {
		missing["category_id"] = "This field is required."
	}
	if in.ShortDescription == nil {
		missing["short_description"] = "This field is required."
	}
	if in.FullDescription == nil {
		missing["full_description"] = "This field is required."
	}
	return missing
}

func (in ServiceInput) Apply(s *Service) {
	if in.Title != nil {
		s.Title = *in.Title
	}
	if in.Slug != nil {
		s.Slug = *in.Slug
	}
	if in.CategoryID != nil {
		s.CategoryID = *in.CategoryID
	}
	if in.ShortDescription != nil {
		s.ShortDescription = *in.ShortDescription
	}
	if in.FullDescription != nil {
		s.FullDescription = *in.FullDescription
	}
	if in.Icon != nil {
		s.Icon = *in.Icon
	}
	if in.Image != nil {
		s.Image = *in.Image
	}
	if in.Price.Set {
		s.Price = in.Price.Value
	}
	if in.PriceUnit != nil {
		s.PriceUnit = *in.PriceUnit
	}
	if in.Duration != nil {
		s.Duration = *in.Duration
	}
	if in.Status != nil {
		s.Status = ServiceStatus(*in.Status)
	}
	if in.Features != nil {
		s.Features = *in.Features
	}
	if in.Order != nil {
		s.Order = *in.Order
	}
}
