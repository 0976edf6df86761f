package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	ComplaintID string    `json:"complaint_id"`
	ActorID     string    `json:"actor_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     any       `json:"payload"`
}

// NewEvent stamps a fresh ID and timestamp.
func NewEvent(eventType EventType, complaintID, actorID string, payload any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		ComplaintID: complaintID,
		ActorID:     actorID,
		Timestamp:   time.Now().UTC(),
		Payload:     payload,
	}
}

// ComplaintCreatedPayload carries the stored complaint.
type ComplaintCreatedPayload struct {
	Complaint domain.Complaint `json:"complaint"`
}

// ComplaintStatusChangedPayload carries the updated complaint and both statuses.
type ComplaintStatusChangedPayload struct {
	Complaint      domain.Complaint       `json:"complaint"`
	PreviousStatus domain.ComplaintStatus `json:"previous_status"`
	NewStatus      domain.ComplaintStatus `json:"new_status"`
}
