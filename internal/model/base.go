package model

import (
	"time"
)

// Timestamps contains the bookkeeping fields shared by catalog records
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Touch stamps UpdatedAt and, for new records, CreatedAt.
func (t *Timestamps) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// Actor is the caller on whose behalf an operation runs. A nil *Actor is an
// anonymous visitor.
type Actor struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

func (a *Actor) IsAuthenticated() bool {
	return a != nil && a.UserID != 0
}

func (a *Actor) Staff() bool {
	return a.IsAuthenticated() && a.IsStaff
}

// ID returns the user id as a nullable reference.
func (a *Actor) ID() *int64 {
	if !a.IsAuthenticated() {
		return nil
	}
	id := a.UserID
	return &id
}

// ImportResult summarises a spreadsheet import.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

func Int64Ptr(v int64) *int64 { return &v }

func StringPtr(v string) *string { return &v }

func IntPtr(v int) *int { return &v }

func BoolPtr(v bool) *bool { return &v }
