package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// OrganismGroupRepository manages agency-category persistence.
type OrganismGroupRepository interface {
	Create(ctx context.Context, g *domain.OrganismGroup) error
	Update(ctx context.Context, g *domain.OrganismGroup) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.OrganismGroup, error)
	List(ctx context.Context) ([]domain.OrganismGroup, error)
	CountOrganisms(ctx context.Context, id int64) (int64, error)
}

type organismGroupRepository struct {
	pool *pgxpool.Pool
}

// NewOrganismGroupRepository builds the repository.
func NewOrganismGroupRepository(pool *pgxpool.Pool) OrganismGroupRepository {
	return &organismGroupRepository{pool: pool}
}

func (r *organismGroupRepository) Create(ctx context.Context, g *domain.OrganismGroup) error {
	const query = `
        INSERT INTO organism_groups (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, g.Name).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

func (r *organismGroupRepository) Update(ctx context.Context, g *domain.OrganismGroup) error {
	const query = `
        UPDATE organism_groups SET name=$1, updated_at=NOW()
        WHERE id=$2 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, g.Name, g.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *organismGroupRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE organism_groups SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *organismGroupRepository) GetByID(ctx context.Context, id int64) (*domain.OrganismGroup, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM organism_groups WHERE id=$1 AND deleted_at IS NULL`
	var g domain.OrganismGroup
	if err := r.pool.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	if err := r.loadOrganisms(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *organismGroupRepository) List(ctx context.Context) ([]domain.OrganismGroup, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM organism_groups WHERE deleted_at IS NULL
        ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.OrganismGroup
	for rows.Next() {
		var g domain.OrganismGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.loadOrganisms(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *organismGroupRepository) CountOrganisms(ctx context.Context, id int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM organisms WHERE organism_group_id=$1 AND deleted_at IS NULL`
	var count int64
	err := r.pool.QueryRow(ctx, query, id).Scan(&count)
	return count, err
}

func (r *organismGroupRepository) loadOrganisms(ctx context.Context, g *domain.OrganismGroup) error {
	const query = `
        SELECT id, name, organism_group_id, created_at, updated_at
        FROM organisms WHERE organism_group_id=$1 AND deleted_at IS NULL
        ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, g.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var o domain.Organism
		if err := rows.Scan(&o.ID, &o.Name, &o.OrganismGroupID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return err
		}
		g.Organisms = append(g.Organisms, o)
	}
	return rows.Err()
}
