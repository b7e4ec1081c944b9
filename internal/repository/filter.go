package repository

import (
	"strings"

	"github.com/jwalitptl/legal-services-api/internal/model"
)

type CategoryFilter struct {
	IDs      []int64
	Ordering Ordering
}

type ServiceFilter struct {
	IDs        []int64
	CategoryID int64
	// Statuses restricts results to any of the listed statuses. An empty,
	// non-nil slice matches nothing.
	Statuses []model.ServiceStatus
	Search   string
	Ordering Ordering
}

type InquiryFilter struct {
	ServiceID int64
	Status    string
	Email     string
	Ordering  Ordering
}

type TestimonialFilter struct {
	ServiceID  int64
	IsFeatured *bool
	IsActive   *bool
	Rating     int
	Ordering   Ordering
	Limit      int
}

// Ordering is a list of field names, each optionally prefixed with '-' for
// descending order.
type Ordering []string

// ParseOrdering reads a comma separated ordering parameter, keeping only
// terms whose field is allowed. Unknown terms are ignored.
func ParseOrdering(raw string, allowed ...string) Ordering {
	var out Ordering
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		field := strings.TrimPrefix(term, "-")
		for _, a := range allowed {
			if field == a {
				out = append(out, term)
				break
			}
		}
	}
	return out
}

// Or returns o, or def when o is empty.
func (o Ordering) Or(def ...string) Ordering {
	if len(o) == 0 {
		return def
	}
	return o
}

// Term splits an ordering term into its field and direction.
func Term(term string) (field string, desc bool) {
	if strings.HasPrefix(term, "-") {
		return term[1:], true
	}
	return term, false
}
