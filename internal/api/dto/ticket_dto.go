package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload. Attachments are base64-encoded file contents.
type CreateTicketRequest struct {
	ProductID          string   `json:"product_id"`
	TicketTypeID       string   `json:"ticket_type_id"`
	ProblemDescription string   `json:"problem_description"`
	Attachments        []string `json:"attachments"`
}

// UpdateTicketRequest payload. A non-empty Attachments list replaces the
// current attachment set wholesale.
type UpdateTicketRequest struct {
	ProductID          string   `json:"product_id"`
	TicketTypeID       string   `json:"ticket_type_id"`
	ProblemDescription string   `json:"problem_description"`
	Attachments        []string `json:"attachments"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	EmployeeID string `json:"employee_id"`
}

// CommentRequest payload for adding or editing a comment.
type CommentRequest struct {
	Text string `json:"text"`
}

// TicketSummary response.
type TicketSummary struct {
	ID                 string              `json:"id"`
	CreatedByID        string              `json:"created_by_id"`
	AssignedToID       *string             `json:"assigned_to_id"`
	ProductID          string              `json:"product_id"`
	TicketTypeID       string              `json:"ticket_type_id"`
	ProblemDescription string              `json:"problem_description"`
	Status             domain.TicketStatus `json:"status"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// TicketResponse provides the full ticket aggregate.
type TicketResponse struct {
	TicketSummary
	Comments    []CommentResponse      `json:"comments"`
	Attachments []AttachmentResponse   `json:"attachments"`
	History     []TicketDetailResponse `json:"history"`
}

// CommentResponse represents one discussion entry.
type CommentResponse struct {
	ID          string    `json:"id"`
	CreatedByID string    `json:"created_by_id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AttachmentResponse carries base64-encoded content when resolved.
type AttachmentResponse struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	Content  string `json:"content,omitempty"`
}

// TicketDetailResponse is one audit-trail entry.
type TicketDetailResponse struct {
	ID          string              `json:"id"`
	CreatedByID string              `json:"created_by_id"`
	Status      domain.TicketStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
}
