package domain

import "time"

// Product is a supported product tickets can be filed against.
type Product struct {
	ID          string
	Name        string
	Description string
	CreatedByID string
	UpdatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketType classifies tickets (incident, request, question, ...).
type TicketType struct {
	ID          string
	Name        string
	CategoryID  *string
	CreatedByID string
	UpdatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketCategory groups ticket types.
type TicketCategory struct {
	ID          string
	Name        string
	CreatedByID string
	UpdatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
