package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// OrganismRepository manages responding-agency persistence.
type OrganismRepository interface {
	Create(ctx context.Context, o *domain.Organism) error
	Update(ctx context.Context, o *domain.Organism) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Organism, error)
	List(ctx context.Context) ([]domain.Organism, error)
	ListByGroup(ctx context.Context, groupID int64) ([]domain.Organism, error)
}

type organismRepository struct {
	pool *pgxpool.Pool
}

// NewOrganismRepository builds the repository.
func NewOrganismRepository(pool *pgxpool.Pool) OrganismRepository {
	return &organismRepository{pool: pool}
}

func (r *organismRepository) Create(ctx context.Context, o *domain.Organism) error {
	const query = `
        INSERT INTO organisms (name, organism_group_id)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, o.Name, o.OrganismGroupID).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (r *organismRepository) Update(ctx context.Context, o *domain.Organism) error {
	const query = `
        UPDATE organisms SET name=$1, organism_group_id=$2, updated_at=NOW()
        WHERE id=$3 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, o.Name, o.OrganismGroupID, o.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *organismRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE organisms SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const organismSelect = `
        SELECT o.id, o.name, o.organism_group_id, o.created_at, o.updated_at,
               g.id, g.name, g.created_at, g.updated_at
        FROM organisms o
        JOIN organism_groups g ON g.id = o.organism_group_id`

func (r *organismRepository) GetByID(ctx context.Context, id int64) (*domain.Organism, error) {
	return scanOrganism(r.pool.QueryRow(ctx, organismSelect+` WHERE o.id=$1 AND o.deleted_at IS NULL`, id))
}

func (r *organismRepository) List(ctx context.Context) ([]domain.Organism, error) {
	return r.list(ctx, organismSelect+` WHERE o.deleted_at IS NULL ORDER BY o.name ASC`)
}

func (r *organismRepository) ListByGroup(ctx context.Context, groupID int64) ([]domain.Organism, error) {
	return r.list(ctx, organismSelect+` WHERE o.organism_group_id=$1 AND o.deleted_at IS NULL ORDER BY o.name ASC`, groupID)
}

func (r *organismRepository) list(ctx context.Context, query string, args ...any) ([]domain.Organism, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Organism
	for rows.Next() {
		organism, err := scanOrganism(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *organism)
	}
	return result, rows.Err()
}

func scanOrganism(row pgx.Row) (*domain.Organism, error) {
	var (
		o domain.Organism
		g domain.OrganismGroup
	)
	if err := row.Scan(
		&o.ID, &o.Name, &o.OrganismGroupID, &o.CreatedAt, &o.UpdatedAt,
		&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.OrganismGroup = &g
	return &o, nil
}
