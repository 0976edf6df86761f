package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,max=100"`
	Priority    string `json:"priority" validate:"required"`
}

// UpdateComplaintStatusRequest payload.
type UpdateComplaintStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ComplaintOwnerResponse is the submitter summary embedded in complaints.
type ComplaintOwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ComplaintResponse is the wire form of a complaint.
type ComplaintResponse struct {
	ID            string                   `json:"id"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	Category      string                   `json:"category"`
	Priority      domain.ComplaintPriority `json:"priority"`
	Status        domain.ComplaintStatus   `json:"status"`
	DateSubmitted time.Time                `json:"dateSubmitted"`
	UpdatedAt     time.Time                `json:"updatedAt"`
	UserID        string                   `json:"userId"`
	User          *ComplaintOwnerResponse  `json:"user,omitempty"`
}

// ComplaintMessageResponse wraps a complaint with a human message.
type ComplaintMessageResponse struct {
	Message   string             `json:"message"`
	Complaint *ComplaintResponse `json:"complaint,omitempty"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Category:      c.Category,
		Priority:      c.Priority,
		Status:        c.Status,
		DateSubmitted: c.DateSubmitted,
		UpdatedAt:     c.UpdatedAt,
		UserID:        c.UserID,
	}
	if c.User != nil {
		resp.User = &ComplaintOwnerResponse{ID: c.User.ID, Name: c.User.Name, Email: c.User.Email}
	}
	return resp
}

// NewComplaintList maps a slice, never returning nil.
func NewComplaintList(complaints []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		out = append(out, NewComplaintResponse(&complaints[i]))
	}
	return out
}
