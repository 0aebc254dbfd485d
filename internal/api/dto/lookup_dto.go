package dto

import "time"

// ProductRequest payload for create/update.
type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProductResponse response shape.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TicketTypeRequest payload for create/update.
type TicketTypeRequest struct {
	Name       string  `json:"name"`
	CategoryID *string `json:"category_id"`
}

// TicketTypeResponse response shape.
type TicketTypeResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID *string   `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TicketCategoryRequest payload for create/update.
type TicketCategoryRequest struct {
	Name string `json:"name"`
}

// TicketCategoryResponse response shape.
type TicketCategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
