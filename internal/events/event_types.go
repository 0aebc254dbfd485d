package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketUpdated       EventType = "ticket_updated"
	EventCommentAdded        EventType = "comment_added"
	EventCommentUpdated      EventType = "comment_updated"
	EventCommentDeleted      EventType = "comment_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string          `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

// Event represents a domain event emitted by services after commit. Handler
// outcomes are never observed by the emitting operation.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CreatorID       string `json:"creator_id"`
	ProductID       string `json:"product_id"`
	TicketTypeID    string `json:"ticket_type_id"`
	AttachmentCount int    `json:"attachment_count"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID string `json:"assignee_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	Status              domain.TicketStatus `json:"status"`
	AttachmentsReplaced bool                `json:"attachments_replaced"`
}

// CommentPayload payload for comment add/update/delete events.
type CommentPayload struct {
	CommentID string `json:"comment_id"`
}
