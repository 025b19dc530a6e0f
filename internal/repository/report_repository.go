package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// ClosedTicketSummary is the trimmed ticket view used by supervisor reports.
type ClosedTicketSummary struct {
	ID        string
	CreatedAt time.Time
	Reason    *domain.Reason
}

// ReportRepository serves read-only aggregates for the supervisor surface.
type ReportRepository interface {
	OldestNewestClosed(ctx context.Context) (oldest, newest *time.Time, err error)
	ClosedBetween(ctx context.Context, start, end time.Time) ([]ClosedTicketSummary, error)
	CountsByClosingState(ctx context.Context, start, end time.Time) (map[domain.ClosingState]int64, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository builds the repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

// fieldConfirmedStates limits date-index queries to tickets that went
// through a full dispatch cycle.
const fieldConfirmedStates = `('Efectiva', 'No Efectiva', 'Rechazada')`

func (r *reportRepository) OldestNewestClosed(ctx context.Context) (*time.Time, *time.Time, error) {
	const query = `
        SELECT MIN(created_at), MAX(created_at)
        FROM tickets
        WHERE is_open = FALSE
          AND deleted_at IS NULL
          AND closing_state IN ` + fieldConfirmedStates
	var oldest, newest *time.Time
	if err := r.pool.QueryRow(ctx, query).Scan(&oldest, &newest); err != nil {
		return nil, nil, err
	}
	return oldest, newest, nil
}

func (r *reportRepository) ClosedBetween(ctx context.Context, start, end time.Time) ([]ClosedTicketSummary, error) {
	const query = `
        SELECT t.id, t.created_at, re.id, re.name, re.priority, re.created_at, re.updated_at
        FROM tickets t
        LEFT JOIN reasons re ON re.id = t.reason_id
        WHERE t.is_open = FALSE
          AND t.deleted_at IS NULL
          AND t.closing_state IN ` + fieldConfirmedStates + `
          AND t.created_at >= $1
          AND t.created_at < $2
        ORDER BY t.created_at ASC`
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ClosedTicketSummary
	for rows.Next() {
		var (
			summary    ClosedTicketSummary
			reasonID   *int64
			reasonName *string
			priority   *int
			createdAt  *time.Time
			updatedAt  *time.Time
		)
		if err := rows.Scan(&summary.ID, &summary.CreatedAt, &reasonID, &reasonName, &priority, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if reasonID != nil && reasonName != nil {
			reason := &domain.Reason{ID: *reasonID, Name: *reasonName}
			if priority != nil {
				reason.Priority = *priority
			}
			if createdAt != nil {
				reason.CreatedAt = *createdAt
			}
			if updatedAt != nil {
				reason.UpdatedAt = *updatedAt
			}
			summary.Reason = reason
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}

func (r *reportRepository) CountsByClosingState(ctx context.Context, start, end time.Time) (map[domain.ClosingState]int64, error) {
	const query = `
        SELECT closing_state, COUNT(*)
        FROM tickets
        WHERE is_open = FALSE
          AND deleted_at IS NULL
          AND closing_state IN ` + fieldConfirmedStates + `
          AND created_at >= $1
          AND created_at < $2
        GROUP BY closing_state`
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ClosingState]int64)
	for rows.Next() {
		var state string
		var count int64
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		counts[domain.ClosingState(state)] = count
	}
	return counts, rows.Err()
}
