package model

import (
	"time"
)

// User is a staff or customer account. Accounts are provisioned outside the
// catalog; only the fields the catalog references are kept here.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username" validate:"required,max=150"`
	Email     string    `json:"email" db:"email" validate:"omitempty,email"`
	IsStaff   bool      `json:"is_staff" db:"is_staff"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Actor returns the acting identity for this user.
func (u *User) Actor() *Actor {
	return &Actor{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsStaff:  u.IsStaff,
	}
}
