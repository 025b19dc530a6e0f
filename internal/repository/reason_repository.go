package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// ReasonRepository manages incident-reason persistence.
type ReasonRepository interface {
	Create(ctx context.Context, re *domain.Reason) error
	Update(ctx context.Context, re *domain.Reason) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Reason, error)
	List(ctx context.Context) ([]domain.Reason, error)
	CountTickets(ctx context.Context, id int64) (int64, error)
}

type reasonRepository struct {
	pool *pgxpool.Pool
}

// NewReasonRepository builds the repository.
func NewReasonRepository(pool *pgxpool.Pool) ReasonRepository {
	return &reasonRepository{pool: pool}
}

func (r *reasonRepository) Create(ctx context.Context, re *domain.Reason) error {
	if re.Priority <= 0 {
		re.Priority = domain.DefaultReasonPriority
	}
	const query = `
        INSERT INTO reasons (name, priority)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, re.Name, re.Priority).Scan(&re.ID, &re.CreatedAt, &re.UpdatedAt)
}

func (r *reasonRepository) Update(ctx context.Context, re *domain.Reason) error {
	const query = `
        UPDATE reasons SET name=$1, priority=$2, updated_at=NOW()
        WHERE id=$3 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, re.Name, re.Priority, re.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reasonRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE reasons SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reasonRepository) GetByID(ctx context.Context, id int64) (*domain.Reason, error) {
	const query = `
        SELECT id, name, priority, created_at, updated_at
        FROM reasons WHERE id=$1 AND deleted_at IS NULL`
	var re domain.Reason
	if err := r.pool.QueryRow(ctx, query, id).Scan(&re.ID, &re.Name, &re.Priority, &re.CreatedAt, &re.UpdatedAt); err != nil {
		return nil, err
	}
	return &re, nil
}

func (r *reasonRepository) List(ctx context.Context) ([]domain.Reason, error) {
	const query = `
        SELECT id, name, priority, created_at, updated_at
        FROM reasons WHERE deleted_at IS NULL
        ORDER BY priority ASC, name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Reason
	for rows.Next() {
		var re domain.Reason
		if err := rows.Scan(&re.ID, &re.Name, &re.Priority, &re.CreatedAt, &re.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, re)
	}
	return result, rows.Err()
}

func (r *reasonRepository) CountTickets(ctx context.Context, id int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE reason_id=$1 AND deleted_at IS NULL`
	var count int64
	err := r.pool.QueryRow(ctx, query, id).Scan(&count)
	return count, err
}
