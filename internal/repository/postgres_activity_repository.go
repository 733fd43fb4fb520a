package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
)

// PostgresActivityRepository implements ActivityRepository using PostgreSQL
type PostgresActivityRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresActivityRepository creates a new PostgresActivityRepository
func NewPostgresActivityRepository(pool *pgxpool.Pool) *PostgresActivityRepository {
	return &PostgresActivityRepository{pool: pool}
}

const activityColumns = `id, event_id, guest_id, actor_id, guest_name, kind, status, data, created_at`

func scanActivity(row pgx.Row) (*domain.ActivityLog, error) {
	log := &domain.ActivityLog{}
	err := row.Scan(
		&log.ID,
		&log.EventID,
		&log.GuestID,
		&log.ActorID,
		&log.GuestName,
		&log.Kind,
		&log.Status,
		&log.Data,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return log, nil
}

// Append inserts a new ledger entry and fills its ID and CreatedAt
func (r *PostgresActivityRepository) Append(ctx context.Context, log *domain.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (event_id, guest_id, actor_id, guest_name, kind, status, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		log.EventID,
		log.GuestID,
		log.ActorID,
		log.GuestName,
		log.Kind,
		log.Status,
		log.Data,
		log.CreatedAt,
	).Scan(&log.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrBadReference
		}
		return err
	}
	return nil
}

// LatestForGuest returns the newest attendance entry for a guest. Ties on
// created_at fall to the higher id, the later insert.
func (r *PostgresActivityRepository) LatestForGuest(ctx context.Context, guestID string) (*domain.ActivityLog, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM activity_logs
		WHERE guest_id = $1 AND kind IN ($2, $3) AND status = $4
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, activityColumns)

	log, err := scanActivity(r.pool.QueryRow(ctx, query, guestID, domain.ActivityCheckIn, domain.ActivityCheckOut, domain.ActivityStatusCompleted))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return log, nil
}

// ListByEvent retrieves ledger entries for an event, newest first
func (r *PostgresActivityRepository) ListByEvent(ctx context.Context, eventID string, filter *dto.ActivityLogFilter) ([]*domain.ActivityLog, int, error) {
	whereClause := "WHERE event_id = $1"
	args := []interface{}{eventID}
	argIndex := 2

	if filter.Kind != "" {
		whereClause += fmt.Sprintf(" AND kind = $%d", argIndex)
		args = append(args, filter.Kind)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM activity_logs %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM activity_logs %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, activityColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := []*domain.ActivityLog{}
	for rows.Next() {
		log, err := scanActivity(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, log)
	}
	return logs, total, rows.Err()
}

// FeedByEvent retrieves every ledger entry for an event, newest first
func (r *PostgresActivityRepository) FeedByEvent(ctx context.Context, eventID string) ([]*domain.ActivityLog, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM activity_logs
		WHERE event_id = $1
		ORDER BY created_at DESC, id DESC
	`, activityColumns)

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*domain.ActivityLog{}
	for rows.Next() {
		log, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// AttendanceByEvent retrieves all completed check-in and check-out entries
// for an event in append order, oldest first
func (r *PostgresActivityRepository) AttendanceByEvent(ctx context.Context, eventID string) ([]*domain.ActivityLog, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM activity_logs
		WHERE event_id = $1 AND kind IN ($2, $3) AND status = $4
		ORDER BY created_at, id
	`, activityColumns)

	rows, err := r.pool.Query(ctx, query, eventID, domain.ActivityCheckIn, domain.ActivityCheckOut, domain.ActivityStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*domain.ActivityLog{}
	for rows.Next() {
		log, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
