package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "NEW"
	TicketStatusAssigned   TicketStatus = "ASSIGNED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusConfirmed  TicketStatus = "CONFIRMED"
	TicketStatusClosed     TicketStatus = "CLOSED"
	TicketStatusCanceled   TicketStatus = "CANCELED"
)

// AllTicketStatuses lists every lifecycle state in order.
var AllTicketStatuses = []TicketStatus{
	TicketStatusNew,
	TicketStatusAssigned,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusConfirmed,
	TicketStatusClosed,
	TicketStatusCanceled,
}

// ParseTicketStatus validates a status string.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	for _, status := range AllTicketStatuses {
		if TicketStatus(raw) == status {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further mutation is permitted.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusClosed || s == TicketStatusCanceled
}

// Ticket is the aggregate root for support requests. It exclusively owns its
// Comments, Attachments and Details; actors are referenced by id only.
type Ticket struct {
	ID                 string
	CreatedByID        string
	AssignedToID       *string
	ProductID          string
	TicketTypeID       string
	ProblemDescription string
	Status             TicketStatus
	UpdatedByID        string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Comments    []Comment
	Attachments []TicketAttachment
	Details     []TicketDetail
}

// Comment is a ticket-owned discussion entry.
type Comment struct {
	ID          string
	TicketID    string
	CreatedByID string
	UpdatedByID string
	Text        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketAttachment stores metadata for a stored attachment blob.
type TicketAttachment struct {
	ID          string
	TicketID    string
	FilePath    string
	FileName    string
	CreatedByID string
	UpdatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketDetail is an append-only audit record of a lifecycle event. Rows are
// written once per accepted change and never updated or deleted.
type TicketDetail struct {
	ID          string
	TicketID    string
	CreatedByID string
	Status      TicketStatus
	CreatedAt   time.Time
}
