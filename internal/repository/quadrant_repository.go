package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// QuadrantRepository manages quadrant persistence.
type QuadrantRepository interface {
	Create(ctx context.Context, q *domain.Quadrant) error
	Update(ctx context.Context, q *domain.Quadrant) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Quadrant, error)
	List(ctx context.Context) ([]domain.Quadrant, error)
	ListByParish(ctx context.Context, parishID int64) ([]domain.Quadrant, error)
}

type quadrantRepository struct {
	pool *pgxpool.Pool
}

// NewQuadrantRepository builds the repository.
func NewQuadrantRepository(pool *pgxpool.Pool) QuadrantRepository {
	return &quadrantRepository{pool: pool}
}

func (r *quadrantRepository) Create(ctx context.Context, q *domain.Quadrant) error {
	const query = `
        INSERT INTO quadrants (name, parish_id)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, q.Name, q.ParishID).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

func (r *quadrantRepository) Update(ctx context.Context, q *domain.Quadrant) error {
	const query = `
        UPDATE quadrants SET name=$1, parish_id=$2, updated_at=NOW()
        WHERE id=$3 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, q.Name, q.ParishID, q.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *quadrantRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE quadrants SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const quadrantSelect = `
        SELECT q.id, q.name, q.parish_id, q.created_at, q.updated_at,
               p.id, p.name, p.municipality_id, p.created_at, p.updated_at
        FROM quadrants q
        JOIN parishes p ON p.id = q.parish_id`

func (r *quadrantRepository) GetByID(ctx context.Context, id int64) (*domain.Quadrant, error) {
	return scanQuadrant(r.pool.QueryRow(ctx, quadrantSelect+` WHERE q.id=$1 AND q.deleted_at IS NULL`, id))
}

func (r *quadrantRepository) List(ctx context.Context) ([]domain.Quadrant, error) {
	return r.list(ctx, quadrantSelect+` WHERE q.deleted_at IS NULL ORDER BY q.name ASC`)
}

func (r *quadrantRepository) ListByParish(ctx context.Context, parishID int64) ([]domain.Quadrant, error) {
	return r.list(ctx, quadrantSelect+` WHERE q.parish_id=$1 AND q.deleted_at IS NULL ORDER BY q.name ASC`, parishID)
}

func (r *quadrantRepository) list(ctx context.Context, query string, args ...any) ([]domain.Quadrant, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Quadrant
	for rows.Next() {
		quadrant, err := scanQuadrant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *quadrant)
	}
	return result, rows.Err()
}

func scanQuadrant(row pgx.Row) (*domain.Quadrant, error) {
	var (
		q domain.Quadrant
		p domain.Parish
	)
	if err := row.Scan(
		&q.ID, &q.Name, &q.ParishID, &q.CreatedAt, &q.UpdatedAt,
		&p.ID, &p.Name, &p.MunicipalityID, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	q.Parish = &p
	return &q, nil
}
