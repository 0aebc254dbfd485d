package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ErrVersionConflict reports that a concurrent writer updated the ticket
// between read and write; the caller's copy is stale.
var ErrVersionConflict = errors.New("ticket version conflict")

// TicketRepository encapsulates ticket persistence. UpdateWithDetail commits
// the row update and the audit insert in one transaction, guarded by the
// ticket's optimistic version column.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	UpdateWithDetail(ctx context.Context, ticket *domain.Ticket, detail *domain.TicketDetail) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetWithDetails(ctx context.Context, id string) (*domain.Ticket, error)
	GetAllWithDetails(ctx context.Context) ([]domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const ticketColumns = `id, created_by_id, assigned_to_id, product_id, ticket_type_id,
               problem_description, status, updated_by_id, version, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (created_by_id, assigned_to_id, product_id, ticket_type_id, problem_description, status, updated_by_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.CreatedByID,
		ticket.AssignedToID,
		ticket.ProductID,
		ticket.TicketTypeID,
		ticket.ProblemDescription,
		ticket.Status,
		ticket.UpdatedByID,
	).Scan(&ticket.ID, &ticket.Version, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update persists ticket fields. The caller's version must match the stored
// row; on success the stored version is bumped and the in-memory copy
// refreshed.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	if err := execUpdate(ctx, r.pool, ticket); err != nil {
		return err
	}
	ticket.Version++
	return nil
}

// UpdateWithDetail commits the ticket mutation and its audit row atomically.
// A lost optimistic-concurrency race rolls back and yields ErrVersionConflict.
func (r *ticketRepository) UpdateWithDetail(ctx context.Context, ticket *domain.Ticket, detail *domain.TicketDetail) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := execUpdate(ctx, tx, ticket); err != nil {
		return err
	}

	const insertDetail = `
        INSERT INTO ticket_details (ticket_id, created_by_id, status)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertDetail,
		detail.TicketID,
		detail.CreatedByID,
		detail.Status,
	).Scan(&detail.ID, &detail.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	ticket.Version++
	return nil
}

func execUpdate(ctx context.Context, db execer, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET assigned_to_id=$1, product_id=$2, ticket_type_id=$3,
            problem_description=$4, status=$5, updated_by_id=$6,
            version=version+1, updated_at=NOW()
        WHERE id=$7 AND version=$8`
	cmd, err := db.Exec(ctx, query,
		ticket.AssignedToID,
		ticket.ProductID,
		ticket.TicketTypeID,
		ticket.ProblemDescription,
		ticket.Status,
		ticket.UpdatedByID,
		ticket.ID,
		ticket.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.CreatedByID,
		&ticket.AssignedToID,
		&ticket.ProductID,
		&ticket.TicketTypeID,
		&ticket.ProblemDescription,
		&ticket.Status,
		&ticket.UpdatedByID,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetWithDetails eagerly loads the ticket's comments, attachments and audit
// rows alongside the aggregate.
func (r *ticketRepository) GetWithDetails(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) GetAllWithDetails(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if err := r.loadChildren(ctx, &tickets[i]); err != nil {
			return nil, err
		}
	}
	return tickets, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) loadChildren(ctx context.Context, ticket *domain.Ticket) error {
	const commentsQuery = `
        SELECT id, ticket_id, created_by_id, updated_by_id, text, created_at, updated_at
        FROM comments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, commentsQuery, ticket.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	ticket.Comments = nil
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.CreatedByID,
			&comment.UpdatedByID,
			&comment.Text,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return err
		}
		ticket.Comments = append(ticket.Comments, comment)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const attachmentsQuery = `
        SELECT id, ticket_id, file_path, file_name, created_by_id, updated_by_id, created_at, updated_at
        FROM ticket_attachments WHERE ticket_id=$1 ORDER BY created_at ASC`
	attRows, err := r.pool.Query(ctx, attachmentsQuery, ticket.ID)
	if err != nil {
		return err
	}
	defer attRows.Close()
	ticket.Attachments = nil
	for attRows.Next() {
		var attachment domain.TicketAttachment
		if err := attRows.Scan(
			&attachment.ID,
			&attachment.TicketID,
			&attachment.FilePath,
			&attachment.FileName,
			&attachment.CreatedByID,
			&attachment.UpdatedByID,
			&attachment.CreatedAt,
			&attachment.UpdatedAt,
		); err != nil {
			return err
		}
		ticket.Attachments = append(ticket.Attachments, attachment)
	}
	if err := attRows.Err(); err != nil {
		return err
	}

	const detailsQuery = `
        SELECT id, ticket_id, created_by_id, status, created_at
        FROM ticket_details WHERE ticket_id=$1 ORDER BY created_at ASC`
	detRows, err := r.pool.Query(ctx, detailsQuery, ticket.ID)
	if err != nil {
		return err
	}
	defer detRows.Close()
	ticket.Details = nil
	for detRows.Next() {
		var detail domain.TicketDetail
		if err := detRows.Scan(
			&detail.ID,
			&detail.TicketID,
			&detail.CreatedByID,
			&detail.Status,
			&detail.CreatedAt,
		); err != nil {
			return err
		}
		ticket.Details = append(ticket.Details, detail)
	}
	return detRows.Err()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.CreatedByID,
			&ticket.AssignedToID,
			&ticket.ProductID,
			&ticket.TicketTypeID,
			&ticket.ProblemDescription,
			&ticket.Status,
			&ticket.UpdatedByID,
			&ticket.Version,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
