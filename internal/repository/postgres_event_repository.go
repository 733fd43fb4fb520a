package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
)

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

const eventColumns = `id, name, date, COALESCE(time_of_day, '') as time_of_day, location,
	       expected_guests, status, image_url, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	event := &domain.Event{}
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Date,
		&event.TimeOfDay,
		&event.Location,
		&event.ExpectedGuests,
		&event.Status,
		&event.ImageURL,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Create creates a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, name, date, time_of_day, location, expected_guests, status, image_url, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Name,
		event.Date,
		event.TimeOfDay,
		event.Location,
		event.ExpectedGuests,
		event.Status,
		event.ImageURL,
		event.CreatedBy,
		event.CreatedAt,
		event.UpdatedAt,
	)
	return err
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// List retrieves events matching the filter
func (r *PostgresEventRepository) List(ctx context.Context, filter *dto.EventListFilter) ([]*domain.Event, int, error) {
	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.CreatedBy != "" {
		whereClause += fmt.Sprintf(" AND created_by = $%d", argIndex)
		args = append(args, filter.CreatedBy)
		argIndex++
	}
	if filter.Status != "" {
		whereClause += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, filter.Status)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM events %s ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		eventColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := []*domain.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}
	return events, total, rows.Err()
}

// Update updates an event's mutable fields
func (r *PostgresEventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET name = $2, date = $3, time_of_day = $4, location = $5,
		    expected_guests = $6, image_url = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Name,
		event.Date,
		event.TimeOfDay,
		event.Location,
		event.ExpectedGuests,
		event.ImageURL,
		event.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBadReference
	}
	return nil
}

// UpdateStatus moves an event to a new lifecycle status
func (r *PostgresEventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBadReference
	}
	return nil
}

// DeleteCascade removes the event together with its guests and ledger entries.
// Ledger entries go first, then guests, then the event row, all in one
// transaction so a failure leaves everything in place.
func (r *PostgresEventRepository) DeleteCascade(ctx context.Context, id string) (*CascadeResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin cascade: %w", err)
	}
	defer tx.Rollback(ctx)

	result := &CascadeResult{}

	logsTag, err := tx.Exec(ctx, `DELETE FROM activity_logs WHERE event_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete activity logs: %w", err)
	}
	result.LogsDeleted = logsTag.RowsAffected()

	guestsTag, err := tx.Exec(ctx, `DELETE FROM guests WHERE event_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete guests: %w", err)
	}
	result.GuestsDeleted = guestsTag.RowsAffected()

	eventTag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete event: %w", err)
	}
	if eventTag.RowsAffected() == 0 {
		return nil, ErrBadReference
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit cascade: %w", err)
	}
	return result, nil
}
