package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ProductRepository persists products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository constructs repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (name, description, created_by_id, updated_by_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.CreatedByID,
		product.UpdatedByID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET name=$1, description=$2, updated_by_id=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, product.Name, product.Description, product.UpdatedByID, product.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
        SELECT id, name, description, created_by_id, updated_by_id, created_at, updated_at
        FROM products WHERE id=$1`
	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.CreatedByID,
		&product.UpdatedByID,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	const query = `
        SELECT id, name, description, created_by_id, updated_by_id, created_at, updated_at
        FROM products ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.CreatedByID,
			&product.UpdatedByID,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	return result, rows.Err()
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// TicketTypeRepository persists ticket types.
type TicketTypeRepository interface {
	Create(ctx context.Context, ticketType *domain.TicketType) error
	Update(ctx context.Context, ticketType *domain.TicketType) error
	GetByID(ctx context.Context, id string) (*domain.TicketType, error)
	List(ctx context.Context) ([]domain.TicketType, error)
	Delete(ctx context.Context, id string) error
}

type ticketTypeRepository struct {
	pool *pgxpool.Pool
}

// NewTicketTypeRepository constructs repository.
func NewTicketTypeRepository(pool *pgxpool.Pool) TicketTypeRepository {
	return &ticketTypeRepository{pool: pool}
}

func (r *ticketTypeRepository) Create(ctx context.Context, ticketType *domain.TicketType) error {
	const query = `
        INSERT INTO ticket_types (name, category_id, created_by_id, updated_by_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticketType.Name,
		ticketType.CategoryID,
		ticketType.CreatedByID,
		ticketType.UpdatedByID,
	).Scan(&ticketType.ID, &ticketType.CreatedAt, &ticketType.UpdatedAt)
}

func (r *ticketTypeRepository) Update(ctx context.Context, ticketType *domain.TicketType) error {
	const query = `
        UPDATE ticket_types SET name=$1, category_id=$2, updated_by_id=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, ticketType.Name, ticketType.CategoryID, ticketType.UpdatedByID, ticketType.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	const query = `
        SELECT id, name, category_id, created_by_id, updated_by_id, created_at, updated_at
        FROM ticket_types WHERE id=$1`
	var ticketType domain.TicketType
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticketType.ID,
		&ticketType.Name,
		&ticketType.CategoryID,
		&ticketType.CreatedByID,
		&ticketType.UpdatedByID,
		&ticketType.CreatedAt,
		&ticketType.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticketType, nil
}

func (r *ticketTypeRepository) List(ctx context.Context) ([]domain.TicketType, error) {
	const query = `
        SELECT id, name, category_id, created_by_id, updated_by_id, created_at, updated_at
        FROM ticket_types ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketType
	for rows.Next() {
		var ticketType domain.TicketType
		if err := rows.Scan(
			&ticketType.ID,
			&ticketType.Name,
			&ticketType.CategoryID,
			&ticketType.CreatedByID,
			&ticketType.UpdatedByID,
			&ticketType.CreatedAt,
			&ticketType.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticketType)
	}
	return result, rows.Err()
}

func (r *ticketTypeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ticket_types WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// TicketCategoryRepository persists ticket categories.
type TicketCategoryRepository interface {
	Create(ctx context.Context, category *domain.TicketCategory) error
	Update(ctx context.Context, category *domain.TicketCategory) error
	GetByID(ctx context.Context, id string) (*domain.TicketCategory, error)
	List(ctx context.Context) ([]domain.TicketCategory, error)
	Delete(ctx context.Context, id string) error
}

type ticketCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketCategoryRepository constructs repository.
func NewTicketCategoryRepository(pool *pgxpool.Pool) TicketCategoryRepository {
	return &ticketCategoryRepository{pool: pool}
}

func (r *ticketCategoryRepository) Create(ctx context.Context, category *domain.TicketCategory) error {
	const query = `
        INSERT INTO ticket_categories (name, created_by_id, updated_by_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.CreatedByID,
		category.UpdatedByID,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *ticketCategoryRepository) Update(ctx context.Context, category *domain.TicketCategory) error {
	const query = `
        UPDATE ticket_categories SET name=$1, updated_by_id=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, category.Name, category.UpdatedByID, category.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketCategoryRepository) GetByID(ctx context.Context, id string) (*domain.TicketCategory, error) {
	const query = `
        SELECT id, name, created_by_id, updated_by_id, created_at, updated_at
        FROM ticket_categories WHERE id=$1`
	var category domain.TicketCategory
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.CreatedByID,
		&category.UpdatedByID,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *ticketCategoryRepository) List(ctx context.Context) ([]domain.TicketCategory, error) {
	const query = `
        SELECT id, name, created_by_id, updated_by_id, created_at, updated_at
        FROM ticket_categories ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketCategory
	for rows.Next() {
		var category domain.TicketCategory
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.CreatedByID,
			&category.UpdatedByID,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *ticketCategoryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ticket_categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
