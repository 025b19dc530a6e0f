package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// querier abstracts over a pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TicketRepository encapsulates ticket persistence. Create and Update run the
// field mutation and the actor association in one transaction so a ticket can
// never end up updated without its acting user recorded.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket, actorID string) error
	Update(ctx context.Context, ticket *domain.Ticket, actorID string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListOpen(ctx context.Context) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `
        id, is_open, call_started, call_ended, phone_number, caller_name,
        id_number, id_type, address, reference_point, details,
        dispatch_time, arrival_time, finish_time, dispatch_details,
        reinforcement_units, follow_up, closing_state, closing_details,
        municipality_id, parish_id, reason_id, quadrant_id, organism_id,
        organism_group_id, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket, actorID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO tickets (id, is_open, call_started, call_ended, phone_number, caller_name,
            id_number, id_type, address, reference_point, details, closing_state, closing_details,
            municipality_id, parish_id, reason_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.ID,
		ticket.IsOpen,
		ticket.CallStarted,
		ticket.CallEnded,
		ticket.PhoneNumber,
		ticket.CallerName,
		ticket.IDNumber,
		idTypeValue(ticket.IDType),
		ticket.Address,
		ticket.ReferencePoint,
		ticket.Details,
		closingStateValue(ticket.ClosingState),
		ticket.ClosingDetails,
		ticket.MunicipalityID,
		ticket.ParishID,
		ticket.ReasonID,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	if err := upsertActor(ctx, tx, ticket.ID, actorID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket, actorID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE tickets SET is_open=$1, dispatch_time=$2, arrival_time=$3, finish_time=$4,
            dispatch_details=$5, reinforcement_units=$6, follow_up=$7,
            closing_state=$8, closing_details=$9,
            quadrant_id=$10, organism_id=$11, organism_group_id=$12, updated_at=NOW()
        WHERE id=$13 AND deleted_at IS NULL`
	cmd, err := tx.Exec(ctx, query,
		ticket.IsOpen,
		ticket.DispatchTime,
		ticket.ArrivalTime,
		ticket.FinishTime,
		ticket.DispatchDetails,
		ticket.ReinforcementUnits,
		ticket.FollowUp,
		closingStateValue(ticket.ClosingState),
		ticket.ClosingDetails,
		ticket.QuadrantID,
		ticket.OrganismID,
		ticket.OrganismGroupID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if actorID != "" {
		if err := upsertActor(ctx, tx, ticket.ID, actorID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// upsertActor records the acting user against the ticket. ON CONFLICT keeps
// the association idempotent under concurrent dispatchers.
func upsertActor(ctx context.Context, q querier, ticketID, userID string) error {
	const query = `
        INSERT INTO ticket_users (ticket_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (ticket_id, user_id) DO NOTHING`
	_, err := q.Exec(ctx, query, ticketID, userID)
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT` + ticketColumns + ` FROM tickets WHERE id=$1 AND deleted_at IS NULL`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadAssociations(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListOpen(ctx context.Context) ([]domain.Ticket, error) {
	// Creation order gives dispatchers a stable queue view.
	query := `SELECT` + ticketColumns + `
        FROM tickets WHERE is_open = TRUE AND deleted_at IS NULL
        ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := r.loadAssociations(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket       domain.Ticket
		idType       *string
		closingState *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.IsOpen,
		&ticket.CallStarted,
		&ticket.CallEnded,
		&ticket.PhoneNumber,
		&ticket.CallerName,
		&ticket.IDNumber,
		&idType,
		&ticket.Address,
		&ticket.ReferencePoint,
		&ticket.Details,
		&ticket.DispatchTime,
		&ticket.ArrivalTime,
		&ticket.FinishTime,
		&ticket.DispatchDetails,
		&ticket.ReinforcementUnits,
		&ticket.FollowUp,
		&closingState,
		&ticket.ClosingDetails,
		&ticket.MunicipalityID,
		&ticket.ParishID,
		&ticket.ReasonID,
		&ticket.QuadrantID,
		&ticket.OrganismID,
		&ticket.OrganismGroupID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if idType != nil {
		v := domain.IDType(*idType)
		ticket.IDType = &v
	}
	if closingState != nil {
		v := domain.ClosingState(*closingState)
		ticket.ClosingState = &v
	}
	return &ticket, nil
}

// loadAssociations resolves the referenced entities and the associated users
// for a ticket.
func (r *ticketRepository) loadAssociations(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.MunicipalityID != nil {
		var m domain.Municipality
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, created_at, updated_at FROM municipalities WHERE id=$1`,
			*ticket.MunicipalityID,
		).Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
		if err != nil && err != pgx.ErrNoRows {
			return err
		}
		if err == nil {
			ticket.Municipality = &m
		}
	}
	if ticket.ParishID != nil {
		var p domain.Parish
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, municipality_id, created_at, updated_at FROM parishes WHERE id=$1`,
			*ticket.ParishID,
		).Scan(&p.ID, &p.Name, &p.MunicipalityID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil && err != pgx.ErrNoRows {
			return err
		}
		if err == nil {
			ticket.Parish = &p
		}
	}
	if ticket.ReasonID != nil {
		var re domain.Reason
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, priority, created_at, updated_at FROM reasons WHERE id=$1`,
			*ticket.ReasonID,
		).Scan(&re.ID, &re.Name, &re.Priority, &re.CreatedAt, &re.UpdatedAt)
		if err != nil && err != pgx.ErrNoRows {
			return err
		}
		if err == nil {
			ticket.Reason = &re
		}
	}
	if ticket.QuadrantID != nil {
		var q domain.Quadrant
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, parish_id, created_at, updated_at FROM quadrants WHERE id=$1`,
			*ticket.QuadrantID,
		).Scan(&q.ID, &q.Name, &q.ParishID, &q.CreatedAt, &q.UpdatedAt)
		if err != nil && err != pgx.ErrNoRows {
			return err
		}
		if err == nil {
			ticket.Quadrant = &q
		}
	}
	if ticket.OrganismID != nil {
		var o domain.Organism
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, organism_group_id, created_at, updated_at FROM organisms WHERE id=$1`,
			*ticket.OrganismID,
		).Scan(&o.ID, &o.Name, &o.OrganismGroupID, &o.CreatedAt, &o.UpdatedAt)
		if err != nil && err != pgx.ErrNoRows {
			return err
		}
		if err == nil {
			ticket.Organism = &o
		}
	}
	if ticket.OrganismGroupID != nil {
		var g domain.OrganismGroup
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, created_at, updated_at FROM organism_groups WHERE id=$1`,
			*ticket.OrganismGroupID,
		).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
		if err != nil && err != pgx.ErrNoRows {
			return err
		}
		if err == nil {
			ticket.OrganismGroup = &g
		}
	}
	return r.loadUsers(ctx, ticket)
}

// loadUsers fetches the associated accounts with sensitive fields stripped.
func (r *ticketRepository) loadUsers(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        SELECT u.id, u.username, u.full_name, u.role_id, u.created_at, u.updated_at,
               r.id, r.name, r.created_at, r.updated_at
        FROM ticket_users tu
        JOIN users u ON u.id = tu.user_id
        LEFT JOIN roles r ON r.id = u.role_id
        WHERE tu.ticket_id = $1
        ORDER BY tu.created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticket.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	ticket.Users = nil
	for rows.Next() {
		var (
			user        domain.User
			roleID      *int64
			roleName    *string
			roleCreated *time.Time
			roleUpdated *time.Time
		)
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.FullName,
			&user.RoleID,
			&user.CreatedAt,
			&user.UpdatedAt,
			&roleID,
			&roleName,
			&roleCreated,
			&roleUpdated,
		); err != nil {
			return err
		}
		if roleID != nil && roleName != nil {
			role := domain.RoleRecord{ID: *roleID, Name: *roleName}
			if roleCreated != nil {
				role.CreatedAt = *roleCreated
			}
			if roleUpdated != nil {
				role.UpdatedAt = *roleUpdated
			}
			user.Role = &role
		}
		ticket.Users = append(ticket.Users, user)
	}
	return rows.Err()
}

func idTypeValue(t *domain.IDType) *string {
	if t == nil {
		return nil
	}
	v := string(*t)
	return &v
}

func closingStateValue(c *domain.ClosingState) *string {
	if c == nil {
		return nil
	}
	v := string(*c)
	return &v
}
