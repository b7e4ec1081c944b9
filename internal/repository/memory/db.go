// Package memory is an in-process store backend with the same constraints and
// cascades as the postgres schema.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
)

type DB struct {
	mu           sync.RWMutex
	seq          map[string]int64
	lastStamp    time.Time
	users        map[int64]*model.User
	categories   map[int64]*model.ServiceCategory
	services     map[int64]*model.Service
	inquiries    map[int64]*model.ServiceInquiry
	testimonials map[int64]*model.Testimonial
}

func NewDB() *DB {
	return &DB{
		seq:          map[string]int64{},
		users:        map[int64]*model.User{},
		categories:   map[int64]*model.ServiceCategory{},
		services:     map[int64]*model.Service{},
		inquiries:    map[int64]*model.ServiceInquiry{},
		testimonials: map[int64]*model.Testimonial{},
	}
}

// NewStore returns every repository backed by a fresh DB.
func NewStore() *repository.Store {
	db := NewDB()
	return &repository.Store{
		Users:        &userRepository{db},
		Categories:   &categoryRepository{db},
		Services:     &serviceRepository{db},
		Inquiries:    &inquiryRepository{db},
		Testimonials: &testimonialRepository{db},
		Health:       db,
	}
}

func (db *DB) PingContext(ctx context.Context) error {
	return ctx.Err()
}

func (db *DB) nextID(table string) int64 {
	db.seq[table]++
	return db.seq[table]
}

// now is strictly increasing so creation order is recoverable from timestamps.
func (db *DB) now() time.Time {
	t := time.Now().UTC()
	if !t.After(db.lastStamp) {
		t = db.lastStamp.Add(time.Microsecond)
	}
	db.lastStamp = t
	return t
}

// deleteServiceLocked removes a service and everything that references it.
func (db *DB) deleteServiceLocked(id int64) {
	delete(db.services, id)
	for iid, inq := range db.inquiries {
		if inq.ServiceID == id {
			delete(db.inquiries, iid)
		}
	}
	for tid, t := range db.testimonials {
		if t.ServiceID != nil && *t.ServiceID == id {
			delete(db.testimonials, tid)
		}
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func idSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// sortRecords orders items by each ordering term in turn, then by id.
func sortRecords[T any](items []*T, ordering repository.Ordering, cmp func(a, b *T, field string) int, id func(*T) int64) {
	sort.SliceStable(items, func(i, j int) bool {
		for _, term := range ordering {
			field, desc := repository.Term(term)
			c := cmp(items[i], items[j], field)
			if desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return id(items[i]) < id(items[j])
	})
}
