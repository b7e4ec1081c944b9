package repository

import (
	"context"

	"github.com/jwalitptl/legal-services-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error)
		Delete(ctx context.Context, id int64) error
	}

	CategoryRepository interface {
		Create(ctx context.Context, category *model.ServiceCategory) error
		Get(ctx context.Context, id int64) (*model.ServiceCategory, error)
		GetByName(ctx context.Context, name string) (*model.ServiceCategory, error)
		Update(ctx context.Context, category *model.ServiceCategory) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter CategoryFilter) ([]*model.ServiceCategory, error)
		// CountActiveServices returns the number of active services per category id.
		CountActiveServices(ctx context.Context, categoryIDs []int64) (map[int64]int, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, service *model.Service) error
		Get(ctx context.Context, id int64) (*model.Service, error)
		GetBySlug(ctx context.Context, slug string) (*model.Service, error)
		GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Service, error)
		Update(ctx context.Context, service *model.Service) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter ServiceFilter) ([]*model.Service, error)
		SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	}

	InquiryRepository interface {
		Create(ctx context.Context, inquiry *model.ServiceInquiry) error
		Get(ctx context.Context, id int64) (*model.ServiceInquiry, error)
		Update(ctx context.Context, inquiry *model.ServiceInquiry) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter InquiryFilter) ([]*model.ServiceInquiry, error)
	}

	TestimonialRepository interface {
		Create(ctx context.Context, testimonial *model.Testimonial) error
		Get(ctx context.Context, id int64) (*model.Testimonial, error)
		Update(ctx context.Context, testimonial *model.Testimonial) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter TestimonialFilter) ([]*model.Testimonial, error)
	}

	// Pinger reports store liveness for readiness checks.
	Pinger interface {
		PingContext(ctx context.Context) error
	}
)

// Store bundles the repositories of one backend.
type Store struct {
	Users        UserRepository
	Categories   CategoryRepository
	Services     ServiceRepository
	Inquiries    InquiryRepository
	Testimonials TestimonialRepository
	Health       Pinger
}
