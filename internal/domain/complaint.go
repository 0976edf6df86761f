package domain

import (
	"strings"
	"time"
)

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
)

// Valid reports whether s is one of the three lifecycle states.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

// Label renders the status for humans, e.g. "in progress".
func (s ComplaintStatus) Label() string {
	return strings.ReplaceAll(string(s), "-", " ")
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "low"
	ComplaintPriorityMedium ComplaintPriority = "medium"
	ComplaintPriorityHigh   ComplaintPriority = "high"
)

// Valid reports whether p is a known priority.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh:
		return true
	}
	return false
}

// ComplaintOwner is the read-only view of the submitting user.
type ComplaintOwner struct {
	ID    string
	Name  string
	Email string
}

// Complaint is the aggregate tracked through pending, in-progress and resolved.
type Complaint struct {
	ID            string
	Title         string
	Description   string
	Category      string
	Priority      ComplaintPriority
	Status        ComplaintStatus
	DateSubmitted time.Time
	UpdatedAt     time.Time
	UserID        string
	User          *ComplaintOwner
}

// ShortID returns the last eight characters of the ID in upper case.
func (c *Complaint) ShortID() string {
	id := strings.ReplaceAll(c.ID, "-", "")
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}
