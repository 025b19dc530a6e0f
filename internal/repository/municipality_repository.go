package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// MunicipalityRepository manages municipality persistence.
type MunicipalityRepository interface {
	Create(ctx context.Context, m *domain.Municipality) error
	Update(ctx context.Context, m *domain.Municipality) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Municipality, error)
	List(ctx context.Context, name string) ([]domain.Municipality, error)
	CountParishes(ctx context.Context, id int64) (int64, error)
}

type municipalityRepository struct {
	pool *pgxpool.Pool
}

// NewMunicipalityRepository builds the repository.
func NewMunicipalityRepository(pool *pgxpool.Pool) MunicipalityRepository {
	return &municipalityRepository{pool: pool}
}

func (r *municipalityRepository) Create(ctx context.Context, m *domain.Municipality) error {
	const query = `
        INSERT INTO municipalities (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, m.Name).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *municipalityRepository) Update(ctx context.Context, m *domain.Municipality) error {
	const query = `
        UPDATE municipalities SET name=$1, updated_at=NOW()
        WHERE id=$2 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, m.Name, m.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *municipalityRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE municipalities SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *municipalityRepository) GetByID(ctx context.Context, id int64) (*domain.Municipality, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM municipalities WHERE id=$1 AND deleted_at IS NULL`
	var m domain.Municipality
	if err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if err := r.loadParishes(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *municipalityRepository) List(ctx context.Context, name string) ([]domain.Municipality, error) {
	query := `
        SELECT id, name, created_at, updated_at
        FROM municipalities WHERE deleted_at IS NULL`
	args := []any{}
	if name != "" {
		query += ` AND name ILIKE $1`
		args = append(args, name)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Municipality
	for rows.Next() {
		var m domain.Municipality
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.loadParishes(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *municipalityRepository) CountParishes(ctx context.Context, id int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM parishes WHERE municipality_id=$1 AND deleted_at IS NULL`
	var count int64
	err := r.pool.QueryRow(ctx, query, id).Scan(&count)
	return count, err
}

func (r *municipalityRepository) loadParishes(ctx context.Context, m *domain.Municipality) error {
	const query = `
        SELECT id, name, municipality_id, created_at, updated_at
        FROM parishes WHERE municipality_id=$1 AND deleted_at IS NULL
        ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Parish
		if err := rows.Scan(&p.ID, &p.Name, &p.MunicipalityID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		m.Parishes = append(m.Parishes, p)
	}
	return rows.Err()
}
