package memory

import (
	"context"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
)

type inquiryRepository struct{ db *DB }

func copyInquiry(i *model.ServiceInquiry) *model.ServiceInquiry {
	cp := *i
	if i.AssignedToID != nil {
		id := *i.AssignedToID
		cp.AssignedToID = &id
	}
	return &cp
}

func (r *inquiryRepository) checkLocked(inquiry *model.ServiceInquiry) error {
	if _, ok := r.db.services[inquiry.ServiceID]; !ok {
		return apperrors.BadRequest("invalid service reference", nil)
	}
	if inquiry.AssignedToID != nil {
		if _, ok := r.db.users[*inquiry.AssignedToID]; !ok {
			return apperrors.BadRequest("invalid assignee reference", nil)
		}
	}
	return nil
}

func (r *inquiryRepository) Create(ctx context.Context, inquiry *model.ServiceInquiry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.checkLocked(inquiry); err != nil {
		return err
	}
	inquiry.ID = r.db.nextID("inquiries")
	now := r.db.now()
	inquiry.CreatedAt = now
	inquiry.UpdatedAt = now
	r.db.inquiries[inquiry.ID] = copyInquiry(inquiry)
	return nil
}

func (r *inquiryRepository) Get(ctx context.Context, id int64) (*model.ServiceInquiry, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i, ok := r.db.inquiries[id]
	if !ok {
		return nil, apperrors.NotFound("inquiry", nil)
	}
	return copyInquiry(i), nil
}

func (r *inquiryRepository) Update(ctx context.Context, inquiry *model.ServiceInquiry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.inquiries[inquiry.ID]
	if !ok {
		return apperrors.NotFound("inquiry", nil)
	}
	if err := r.checkLocked(inquiry); err != nil {
		return err
	}
	inquiry.CreatedAt = existing.CreatedAt
	inquiry.UpdatedAt = r.db.now()
	r.db.inquiries[inquiry.ID] = copyInquiry(inquiry)
	return nil
}

func (r *inquiryRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.inquiries[id]; !ok {
		return apperrors.NotFound("inquiry", nil)
	}
	delete(r.db.inquiries, id)
	return nil
}

func (r *inquiryRepository) List(ctx context.Context, filter repository.InquiryFilter) ([]*model.ServiceInquiry, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*model.ServiceInquiry, 0, len(r.db.inquiries))
	for _, i := range r.db.inquiries {
		if filter.ServiceID != 0 && i.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Status != "" && string(i.Status) != filter.Status {
			continue
		}
		if filter.Email != "" && i.Email != filter.Email {
			continue
		}
		out = append(out, copyInquiry(i))
	}

	sortRecords(out, filter.Ordering.Or("-created_at"), func(a, b *model.ServiceInquiry, field string) int {
		if field == "created_at" {
			return compareTime(a.CreatedAt, b.CreatedAt)
		}
		return 0
	}, func(i *model.ServiceInquiry) int64 { return i.ID })
	return out, nil
}

type testimonialRepository struct{ db *DB }

func copyTestimonial(t *model.Testimonial) *model.Testimonial {
	cp := *t
	if t.ServiceID != nil {
		id := *t.ServiceID
		cp.ServiceID = &id
	}
	return &cp
}

func (r *testimonialRepository) checkLocked(t *model.Testimonial) error {
	if t.ServiceID != nil {
		if _, ok := r.db.services[*t.ServiceID]; !ok {
			return apperrors.BadRequest("invalid service reference", nil)
		}
	}
	return nil
}

func (r *testimonialRepository) Create(ctx context.Context, testimonial *model.Testimonial) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.checkLocked(testimonial); err != nil {
		return err
	}
	testimonial.ID = r.db.nextID("testimonials")
	testimonial.CreatedAt = r.db.now()
	r.db.testimonials[testimonial.ID] = copyTestimonial(testimonial)
	return nil
}

func (r *testimonialRepository) Get(ctx context.Context, id int64) (*model.Testimonial, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	t, ok := r.db.testimonials[id]
	if !ok {
		return nil, apperrors.NotFound("testimonial", nil)
	}
	return copyTestimonial(t), nil
}

func (r *testimonialRepository) Update(ctx context.Context, testimonial *model.Testimonial) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.testimonials[testimonial.ID]
	if !ok {
		return apperrors.NotFound("testimonial", nil)
	}
	if err := r.checkLocked(testimonial); err != nil {
		return err
	}
	testimonial.CreatedAt = existing.CreatedAt
	r.db.testimonials[testimonial.ID] = copyTestimonial(testimonial)
	return nil
}

func (r *testimonialRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.testimonials[id]; !ok {
		return apperrors.NotFound("testimonial", nil)
	}
	delete(r.db.testimonials, id)
	return nil
}

func (r *testimonialRepository) List(ctx context.Context, filter repository.TestimonialFilter) ([]*model.Testimonial, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*model.Testimonial, 0, len(r.db.testimonials))
	for _, t := range r.db.testimonials {
		if filter.ServiceID != 0 && (t.ServiceID == nil || *t.ServiceID != filter.ServiceID) {
			continue
		}
		if filter.IsFeatured != nil && t.IsFeatured != *filter.IsFeatured {
			continue
		}
		if filter.IsActive != nil && t.IsActive != *filter.IsActive {
			continue
		}
		if filter.Rating != 0 && t.Rating != filter.Rating {
			continue
		}
		out = append(out, copyTestimonial(t))
	}

	sortRecords(out, filter.Ordering.Or("-created_at"), func(a, b *model.Testimonial, field string) int {
		switch field {
		case "created_at":
			return compareTime(a.CreatedAt, b.CreatedAt)
		case "rating":
			return compareInt(int64(a.Rating), int64(b.Rating))
		}
		return 0
	}, func(t *model.Testimonial) int64 { return t.ID })

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
