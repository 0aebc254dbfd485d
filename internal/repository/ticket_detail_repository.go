package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketDetailRepository stores append-only audit rows. Entries are written
// once and never updated or deleted.
type TicketDetailRepository interface {
	Create(ctx context.Context, detail *domain.TicketDetail) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketDetail, error)
}

type ticketDetailRepository struct {
	pool *pgxpool.Pool
}

// NewTicketDetailRepository builds repository.
func NewTicketDetailRepository(pool *pgxpool.Pool) TicketDetailRepository {
	return &ticketDetailRepository{pool: pool}
}

func (r *ticketDetailRepository) Create(ctx context.Context, detail *domain.TicketDetail) error {
	const query = `
        INSERT INTO ticket_details (ticket_id, created_by_id, status)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		detail.TicketID,
		detail.CreatedByID,
		detail.Status,
	).Scan(&detail.ID, &detail.CreatedAt)
}

func (r *ticketDetailRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketDetail, error) {
	const query = `
        SELECT id, ticket_id, created_by_id, status, created_at
        FROM ticket_details WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketDetail
	for rows.Next() {
		var detail domain.TicketDetail
		if err := rows.Scan(
			&detail.ID,
			&detail.TicketID,
			&detail.CreatedByID,
			&detail.Status,
			&detail.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, detail)
	}
	return result, rows.Err()
}
