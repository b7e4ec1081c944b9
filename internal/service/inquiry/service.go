package inquiry

import (
	"context"
	"fmt"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
	"github.com/jwalitptl/legal-services-api/pkg/logger"
	"github.com/jwalitptl/legal-services-api/pkg/messaging"
	"github.com/jwalitptl/legal-services-api/pkg/validator"
)

type InquiryServicer interface {
	CreateInquiry(ctx context.Context, actor *model.Actor, in model.InquiryInput) (*model.InquiryRecord, error)
	ListInquiries(ctx context.Context, actor *model.Actor, q Query) ([]*model.InquiryRecord, error)
	GetInquiry(ctx context.Context, actor *model.Actor, id int64) (*model.InquiryRecord, error)
	UpdateInquiry(ctx context.Context, actor *model.Actor, id int64, in model.InquiryInput, partial bool) (*model.InquiryRecord, error)
	DeleteInquiry(ctx context.Context, actor *model.Actor, id int64) error
	UpdateStatus(ctx context.Context, actor *model.Actor, id int64, status, notes string) (*model.InquiryRecord, error)
}

type Query struct {
	ServiceID int64
	Status    string
	Ordering  repository.Ordering
}

type Service struct {
	repo      repository.InquiryRepository
	services  repository.ServiceRepository
	users     repository.UserRepository
	validator *validator.Validator
	publisher messaging.Publisher
	logger    *logger.Logger
}

func NewService(store *repository.Store, v *validator.Validator, publisher messaging.Publisher, log *logger.Logger) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      store.Inquiries,
		services:  store.Services,
		users:     store.Users,
		validator: v,
		publisher: publisher,
		logger:    log,
	}
}

// CreateInquiry stores a new inquiry. Anonymous callers are allowed and the
// status always starts as pending.
func (s *Service) CreateInquiry(ctx context.Context, actor *model.Actor, in model.InquiryInput) (*model.InquiryRecord, error) {
	if missing := in.Missing(); len(missing) > 0 {
		return nil, apperrors.Validation(missing)
	}

	inquiry := &model.ServiceInquiry{Status: model.InquiryStatusPending}
	in.Apply(inquiry)
	svc, err := s.validate(ctx, inquiry)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}

	s.notify(ctx, inquiry, svc)
	return &model.InquiryRecord{ServiceInquiry: inquiry, ServiceTitle: svc.Title}, nil
}

func (s *Service) notify(ctx context.Context, inquiry *model.ServiceInquiry, svc *model.Service) {
	event := &model.InquiryCreatedEvent{
		InquiryID:    inquiry.ID,
		ServiceID:    svc.ID,
		ServiceTitle: svc.Title,
		Name:         inquiry.Name,
		Email:        inquiry.Email,
		Phone:        inquiry.Phone,
		Company:      inquiry.Company,
		Message:      inquiry.Message,
		CreatedAt:    inquiry.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, model.EventInquiryCreated, event); err != nil {
		s.logger.Error(err, "failed to publish inquiry event", "inquiry_id", inquiry.ID)
	}
}

func (s *Service) ListInquiries(ctx context.Context, actor *model.Actor, q Query) ([]*model.InquiryRecord, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthorized(nil)
	}
	if q.Status != "" && !model.InquiryStatus(q.Status).Valid() {
		return nil, apperrors.Validation(map[string]string{
			"status": fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", q.Status),
		})
	}

	filter := repository.InquiryFilter{
		ServiceID: q.ServiceID,
		Status:    q.Status,
		Ordering:  q.Ordering,
	}
	if !actor.Staff() {
		if actor.Email == "" {
			return []*model.InquiryRecord{}, nil
		}
		filter.Email = actor.Email
	}

	inquiries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return s.records(ctx, inquiries)
}

func (s *Service) GetInquiry(ctx context.Context, actor *model.Actor, id int64) (*model.InquiryRecord, error) {
	inquiry, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, inquiry)
}

// visible loads an inquiry the actor may see. Inquiries of other submitters
// are reported as missing.
func (s *Service) visible(ctx context.Context, actor *model.Actor, id int64) (*model.ServiceInquiry, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthorized(nil)
	}

	inquiry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	if !actor.Staff() && (actor.Email == "" || inquiry.Email != actor.Email) {
		return nil, apperrors.NotFound("inquiry", nil)
	}
	return inquiry, nil
}

// UpdateInquiry changes submitter fields only; status, notes and assignment
// are left as they are.
func (s *Service) UpdateInquiry(ctx context.Context, actor *model.Actor, id int64, in model.InquiryInput, partial bool) (*model.InquiryRecord, error) {
	inquiry, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !partial {
		if missing := in.Missing(); len(missing) > 0 {
			return nil, apperrors.Validation(missing)
		}
	}

	in.Apply(inquiry)
	if _, err := s.validate(ctx, inquiry); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to update inquiry: %w", err)
	}
	return s.record(ctx, inquiry)
}

func (s *Service) DeleteInquiry(ctx context.Context, actor *model.Actor, id int64) error {
	inquiry, err := s.visible(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, inquiry.ID); err != nil {
		return fmt.Errorf("failed to delete inquiry: %w", err)
	}
	return nil
}

// UpdateStatus moves an inquiry to a new status and assigns it to the acting
// staff member. Notes replace the stored notes only when non-empty.
func (s *Service) UpdateStatus(ctx context.Context, actor *model.Actor, id int64, status, notes string) (*model.InquiryRecord, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthorized(nil)
	}
	if !actor.Staff() {
		return nil, apperrors.Forbidden("Permission denied")
	}

	inquiry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	st := model.InquiryStatus(status)
	if !st.Valid() {
		return nil, apperrors.BadRequest("Invalid status", nil)
	}

	inquiry.Status = st
	if notes != "" {
		inquiry.Notes = notes
	}
	inquiry.AssignedToID = actor.ID()

	if err := s.repo.Update(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to update inquiry status: %w", err)
	}
	return s.record(ctx, inquiry)
}

func (s *Service) validate(ctx context.Context, inquiry *model.ServiceInquiry) (*model.Service, error) {
	if err := s.validator.Validate(inquiry); err != nil {
		return nil, err
	}

	svc, err := s.services.Get(ctx, inquiry.ServiceID)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.Validation(map[string]string{
			"service": fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", inquiry.ServiceID),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return svc, nil
}

func (s *Service) record(ctx context.Context, inquiry *model.ServiceInquiry) (*model.InquiryRecord, error) {
	records, err := s.records(ctx, []*model.ServiceInquiry{inquiry})
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

func (s *Service) records(ctx context.Context, inquiries []*model.ServiceInquiry) ([]*model.InquiryRecord, error) {
	var serviceIDs, userIDs []int64
	for _, i := range inquiries {
		serviceIDs = append(serviceIDs, i.ServiceID)
		if i.AssignedToID != nil {
			userIDs = append(userIDs, *i.AssignedToID)
		}
	}

	services, err := s.services.GetByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	users := map[int64]*model.User{}
	if len(userIDs) > 0 {
		if users, err = s.users.GetByIDs(ctx, userIDs); err != nil {
			return nil, fmt.Errorf("failed to load users: %w", err)
		}
	}

	records := make([]*model.InquiryRecord, len(inquiries))
	for i, inquiry := range inquiries {
		rec := &model.InquiryRecord{ServiceInquiry: inquiry}
		if svc, ok := services[inquiry.ServiceID]; ok {
			rec.ServiceTitle = svc.Title
		}
		if inquiry.AssignedToID != nil {
			if u, ok := users[*inquiry.AssignedToID]; ok {
				name := u.Username
				rec.AssignedToName = &name
			}
		}
		records[i] = rec
	}
	return records, nil
}
