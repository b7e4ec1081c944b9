package model

import (
	"time"
)

// Testimonial is a client quote, optionally tied to a service.
type Testimonial struct {
	ID            int64     `json:"id" db:"id"`
	ServiceID     *int64    `json:"service" db:"service_id"`
	ClientName    string    `json:"client_name" db:"client_name" validate:"required,max=100"`
	ClientTitle   string    `json:"client_title" db:"client_title" validate:"max=200"`
	ClientCompany string    `json:"client_company" db:"client_company" validate:"max=200"`
	ClientImage   string    `json:"client_image" db:"client_image" validate:"max=100"`
	Rating        int       `json:"rating" db:"rating" validate:"min=1,max=5"`
	Content       string    `json:"content" db:"content" validate:"required"`
	IsFeatured    bool      `json:"is_featured" db:"is_featured"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

func NewTestimonial() *Testimonial {
	return &Testimonial{Rating: 5, IsActive: true}
}

// TestimonialView adds the related service title.
type TestimonialView struct {
	*Testimonial
	ServiceTitle *string `json:"service_title"`
}

// TestimonialInput carries writable testimonial fields. A service of 0 clears
// the service reference.
type TestimonialInput struct {
	ServiceID     *int64  `json:"service"`
	ClientName    *string `json:"client_name"`
	ClientTitle   *string `json:"client_title"`
	ClientCompany *string `json:"client_company"`
	ClientImage   *string `json:"client_image"`
	Rating        *int    `json:"rating"`
	Content       *string `json:"content"`
	IsFeatured    *bool   `json:"is_featured"`
	IsActive      *bool   `json:"is_active"`
}

func (in TestimonialInput) Missing() map[string]string {
	missing := map[string]string{}
	if in.ClientName == nil {
		missing["client_name"] = "This field is required."
	}
	if in.Content == nil {
		missing["content"] = "This field is required."
	}
	return missing
}

func (in TestimonialInput) Apply(t *Testimonial) {
	if in.ServiceID != nil {
		if *in.ServiceID == 0 {
			t.ServiceID = nil
		} else {
			id := *in.ServiceID
			t.ServiceID = &id
		}
	}
	if in.ClientName != nil {
		t.ClientName = *in.ClientName
	}
	if in.ClientTitle != nil {
		t.ClientTitle = *in.ClientTitle
	}
	if in.ClientCompany != nil {
		t.ClientCompany = *in.ClientCompany
	}
	if in.ClientImage != nil {
		t.ClientImage = *in.ClientImage
	}
	if in.Rating != nil {
		t.Rating = *in.Rating
	}
	if in.Content != nil {
		t.Content = *in.Content
	}
	if in.IsFeatured != nil {
		t.IsFeatured = *in.IsFeatured
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
}
