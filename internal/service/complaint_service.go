package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// ComplaintService coordinates the complaint lifecycle.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
}

// ComplaintCreateInput describes a new complaint.
type ComplaintCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.ComplaintPriority
}

// StatusUpdateResult reports the complaint after UpdateStatus and whether a
// write happened.
type StatusUpdateResult struct {
	Complaint *domain.Complaint
	Previous  domain.ComplaintStatus
	Changed   bool
}

// NewComplaintService builds the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create stores a pending complaint owned by userID and announces it.
func (s *ComplaintService) Create(ctx context.Context, userID string, input ComplaintCreateInput) (*domain.Complaint, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	input.Priority = domain.ComplaintPriority(strings.ToLower(strings.TrimSpace(string(input.Priority))))

	missing := []string{}
	for _, field := range []struct{ name, value string }{
		{"title", input.Title},
		{"description", input.Description},
		{"category", input.Category},
		{"priority", string(input.Priority)},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("title, description, category and priority are required",
			map[string]any{"missing": missing})
	}
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("priority must be one of low, medium, high",
			map[string]any{"priority": input.Priority})
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}

	complaint := &domain.Complaint{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.ComplaintStatusPending,
		UserID:      owner.ID,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	complaint.User = &domain.ComplaintOwner{ID: owner.ID, Name: owner.Name, Email: owner.Email}

	s.publish(ctx, events.NewEvent(events.EventComplaintCreated, complaint.ID, owner.ID,
		events.ComplaintCreatedPayload{Complaint: *complaint}))
	return complaint, nil
}

// List returns complaints matching filter, newest first.
func (s *ComplaintService) List(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": filter.Status})
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority filter", map[string]any{"priority": filter.Priority})
	}
	complaints, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return complaints, nil
}

// UpdateStatus moves a complaint to status. Setting the current status again is
// a successful no-op: nothing is written and no event is published.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actorID, id string, status domain.ComplaintStatus) (*StatusUpdateResult, error) {
	status = domain.ComplaintStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if status == "" {
		return nil, apperrors.NewValidationError("status is required", nil)
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status must be one of pending, in-progress, resolved",
			map[string]any{"status": status})
	}

	current, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "complaint")
	}
	if current.Status == status {
		return &StatusUpdateResult{Complaint: current, Previous: current.Status, Changed: false}, nil
	}

	previous := current.Status
	updated, err := s.complaints.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, mapRepoError(err, "complaint")
	}

	s.publish(ctx, events.NewEvent(events.EventComplaintStatusChanged, updated.ID, actorID,
		events.ComplaintStatusChangedPayload{
			Complaint:      *updated,
			PreviousStatus: previous,
			NewStatus:      status,
		}))
	return &StatusUpdateResult{Complaint: updated, Previous: previous, Changed: true}, nil
}

// Delete permanently removes a complaint.
func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	if err := s.complaints.Delete(ctx, id); err != nil {
		return mapRepoError(err, "complaint")
	}
	return nil
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapRepoError(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.NewInternalError(err)
}
