package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// ParishRepository manages parish persistence.
type ParishRepository interface {
	Create(ctx context.Context, p *domain.Parish) error
	Update(ctx context.Context, p *domain.Parish) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Parish, error)
	List(ctx context.Context, name string) ([]domain.Parish, error)
	ListByMunicipality(ctx context.Context, municipalityID int64) ([]domain.Parish, error)
	CountQuadrants(ctx context.Context, id int64) (int64, error)
}

type parishRepository struct {
	pool *pgxpool.Pool
}

// NewParishRepository builds the repository.
func NewParishRepository(pool *pgxpool.Pool) ParishRepository {
	return &parishRepository{pool: pool}
}

func (r *parishRepository) Create(ctx context.Context, p *domain.Parish) error {
	const query = `
        INSERT INTO parishes (name, municipality_id)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, p.Name, p.MunicipalityID).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *parishRepository) Update(ctx context.Context, p *domain.Parish) error {
	const query = `
        UPDATE parishes SET name=$1, municipality_id=$2, updated_at=NOW()
        WHERE id=$3 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, p.Name, p.MunicipalityID, p.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *parishRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE parishes SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const parishSelect = `
        SELECT p.id, p.name, p.municipality_id, p.created_at, p.updated_at,
               m.id, m.name, m.created_at, m.updated_at
        FROM parishes p
        JOIN municipalities m ON m.id = p.municipality_id`

func (r *parishRepository) GetByID(ctx context.Context, id int64) (*domain.Parish, error) {
	parish, err := scanParish(r.pool.QueryRow(ctx, parishSelect+` WHERE p.id=$1 AND p.deleted_at IS NULL`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadQuadrants(ctx, parish); err != nil {
		return nil, err
	}
	return parish, nil
}

func (r *parishRepository) List(ctx context.Context, name string) ([]domain.Parish, error) {
	query := parishSelect + ` WHERE p.deleted_at IS NULL`
	args := []any{}
	if name != "" {
		query += ` AND p.name ILIKE $1`
		args = append(args, name)
	}
	query += ` ORDER BY p.name ASC`
	return r.list(ctx, query, args...)
}

func (r *parishRepository) ListByMunicipality(ctx context.Context, municipalityID int64) ([]domain.Parish, error) {
	query := parishSelect + ` WHERE p.municipality_id=$1 AND p.deleted_at IS NULL ORDER BY p.name ASC`
	return r.list(ctx, query, municipalityID)
}

func (r *parishRepository) list(ctx context.Context, query string, args ...any) ([]domain.Parish, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Parish
	for rows.Next() {
		parish, err := scanParish(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *parish)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.loadQuadrants(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func scanParish(row pgx.Row) (*domain.Parish, error) {
	var (
		p domain.Parish
		m domain.Municipality
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.MunicipalityID, &p.CreatedAt, &p.UpdatedAt,
		&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Municipality = &m
	return &p, nil
}

func (r *parishRepository) CountQuadrants(ctx context.Context, id int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM quadrants WHERE parish_id=$1 AND deleted_at IS NULL`
	var count int64
	err := r.pool.QueryRow(ctx, query, id).Scan(&count)
	return count, err
}

func (r *parishRepository) loadQuadrants(ctx context.Context, p *domain.Parish) error {
	const query = `
        SELECT id, name, parish_id, created_at, updated_at
        FROM quadrants WHERE parish_id=$1 AND deleted_at IS NULL
        ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var q domain.Quadrant
		if err := rows.Scan(&q.ID, &q.Name, &q.ParishID, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return err
		}
		p.Quadrants = append(p.Quadrants, q)
	}
	return rows.Err()
}
