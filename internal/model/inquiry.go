package model

import (
	"time"
)

type InquiryStatus string

const (
	InquiryStatusPending    InquiryStatus = "pending"
	InquiryStatusContacted  InquiryStatus = "contacted"
	InquiryStatusInProgress InquiryStatus = "in_progress"
	InquiryStatusCompleted  InquiryStatus = "completed"
	InquiryStatusCancelled  InquiryStatus = "cancelled"
)

var InquiryStatuses = []InquiryStatus{
	InquiryStatusPending,
	InquiryStatusContacted,
	InquiryStatusInProgress,
	InquiryStatusCompleted,
	InquiryStatusCancelled,
}

func (s InquiryStatus) Valid() bool {
	for _, st := range InquiryStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ServiceInquiry is a contact request submitted against a service.
type ServiceInquiry struct {
	ID           int64         `json:"id" db:"id"`
	ServiceID    int64         `json:"service" db:"service_id" validate:"required"`
	Name         string        `json:"name" db:"name" validate:"required,max=100"`
	Email        string        `json:"email" db:"email" validate:"required,email,max=254"`
	Phone        string        `json:"phone" db:"phone" validate:"required,max=20"`
	Company      string        `json:"company" db:"company" validate:"max=200"`
	Message      string        `json:"message" db:"message" validate:"required"`
	Status       InquiryStatus `json:"status" db:"status" validate:"required,oneof=pending contacted in_progress completed cancelled"`
	Notes        string        `json:"notes" db:"notes"`
	AssignedToID *int64        `json:"assigned_to" db:"assigned_to_id"`
	Timestamps
}

// InquiryRecord is an inquiry with its display references resolved.
type InquiryRecord struct {
	*ServiceInquiry
	ServiceTitle   string
	AssignedToName *string
}

// InquiryPublic is the projection shown to non-staff callers.
type InquiryPublic struct {
	ID           int64         `json:"id"`
	Service      int64         `json:"service"`
	ServiceTitle string        `json:"service_title"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Company      string        `json:"company"`
	Message      string        `json:"message"`
	Status       InquiryStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// InquiryAdmin is the projection shown to staff.
type InquiryAdmin struct {
	InquiryPublic
	Notes          string    `json:"notes"`
	AssignedTo     *int64    `json:"assigned_to"`
	AssignedToName *string   `json:"assigned_to_name"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r *InquiryRecord) Public() *InquiryPublic {
	return &InquiryPublic{
		ID:           r.ID,
		Service:      r.ServiceID,
		ServiceTitle: r.ServiceTitle,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Company:      r.Company,
		Message:      r.Message,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}
}

func (r *InquiryRecord) Admin() *InquiryAdmin {
	return &InquiryAdmin{
		InquiryPublic:  *r.Public(),
		Notes:          r.Notes,
		AssignedTo:     r.AssignedToID,
		AssignedToName: r.AssignedToName,
		UpdatedAt:      r.UpdatedAt,
	}
}

// Project picks the projection for the caller.
func (r *InquiryRecord) Project(actor *Actor) interface{} {
	if actor.Staff() {
		return r.Admin()
	}
	return r.Public()
}

// InquiryInput carries the fields a submitter may write. Status, notes and
// assignment are only changed through a status update.
type InquiryInput struct {
	ServiceID *int64  `json:"service"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Company   *string `json:"company"`
	Message   *string `json:"message"`
}

func (in InquiryInput) Missing() map[string]string {
	missing := map[string]string{}
	if in.ServiceID == nil {
		missing["service"] = "This field is required."
	}
	if in.Name == nil {
		missing["name"] = "This field is required."
	}
	if in.Email == nil {
		missing["email"] = "This field is required."
	}
	if in.Phone == nil {
		missing["phone"] = "This field is required."
	}
	if in.Message == nil {
		missing["message"] = "This field is required."
	}
	return missing
}

func (in InquiryInput) Apply(i *ServiceInquiry) {
	if in.ServiceID != nil {
		i.ServiceID = *in.ServiceID
	}
	if in.Name != nil {
		i.Name = *in.Name
	}
	if in.Email != nil {
		i.Email = *in.Email
	}
	if in.Phone != nil {
		i.Phone = *in.Phone
	}
	if in.Company != nil {
		i.Company = *in.Company
	}
	if in.Message != nil {
		i.Message = *in.Message
	}
}

// EventInquiryCreated is the message type of InquiryCreatedEvent.
const EventInquiryCreated = "inquiry.created"

// InquiryCreatedEvent is published after a new inquiry is stored.
type InquiryCreatedEvent struct {
	InquiryID    int64     `json:"inquiry_id"`
	ServiceID    int64     `json:"service_id"`
	ServiceTitle string    `json:"service_title"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Company      string    `json:"company"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}
