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

// PostgresGuestRepository implements GuestRepository using PostgreSQL
type PostgresGuestRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGuestRepository creates a new PostgresGuestRepository
func NewPostgresGuestRepository(pool *pgxpool.Pool) *PostgresGuestRepository {
	return &PostgresGuestRepository{pool: pool}
}

const guestColumns = `id, event_id, name, tags, email, token, qr_path, created_at`

func scanGuest(row pgx.Row) (*domain.Guest, error) {
	guest := &domain.Guest{}
	err := row.Scan(
		&guest.ID,
		&guest.EventID,
		&guest.Name,
		&guest.Tags,
		&guest.Email,
		&guest.Token,
		&guest.QRPath,
		&guest.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return guest, nil
}

// Create creates a new guest
func (r *PostgresGuestRepository) Create(ctx context.Context, guest *domain.Guest) error {
	query := `
		INSERT INTO guests (id, event_id, name, tags, email, token, qr_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		guest.ID,
		guest.EventID,
		guest.Name,
		guest.Tags,
		guest.Email,
		guest.Token,
		guest.QRPath,
		guest.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateToken
			case "23503":
				return ErrBadReference
			}
		}
		return err
	}
	return nil
}

// GetByID retrieves a guest by ID
func (r *PostgresGuestRepository) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE id = $1`, guestColumns)
	guest, err := scanGuest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return guest, nil
}

// GetByToken retrieves a guest by check-in token
func (r *PostgresGuestRepository) GetByToken(ctx context.Context, token string) (*domain.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE token = $1`, guestColumns)
	guest, err := scanGuest(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return guest, nil
}

// ListByEvent retrieves all guests registered to an event
func (r *PostgresGuestRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE event_id = $1 ORDER BY created_at, id`, guestColumns)
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guests := []*domain.Guest{}
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, guest)
	}
	return guests, rows.Err()
}

// CountByEvent counts guests registered to an event
func (r *PostgresGuestRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM guests WHERE event_id = $1`, eventID).Scan(&count)
	return count, err
}

// Search finds guests across the owner's events by name, email, or tags.
// Matching is case-insensitive substring on any of the three fields.
func (r *PostgresGuestRepository) Search(ctx context.Context, ownerID string, filter *dto.GuestSearchFilter) ([]*domain.Guest, int, error) {
	whereClause := `
		FROM guests g
		JOIN events e ON e.id = g.event_id
		WHERE e.created_by = $1
		  AND (g.name ILIKE $2 OR g.email ILIKE $2 OR g.tags ILIKE $2)
	`
	pattern := "%" + filter.Query + "%"

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+whereClause, ownerID, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT g.id, g.event_id, g.name, g.tags, g.email, g.token, g.qr_path, g.created_at
		%s
		ORDER BY g.created_at DESC, g.id DESC
		LIMIT $3 OFFSET $4
	`, whereClause)

	rows, err := r.pool.Query(ctx, query, ownerID, pattern, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	guests := []*domain.Guest{}
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, 0, err
		}
		guests = append(guests, guest)
	}
	return guests, total, rows.Err()
}

// Update updates a guest's mutable fields. Token and event binding are
// immutable after creation.
func (r *PostgresGuestRepository) Update(ctx context.Context, guest *domain.Guest) error {
	query := `UPDATE guests SET name = $2, tags = $3, email = $4, qr_path = $5 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, guest.ID, guest.Name, guest.Tags, guest.Email, guest.QRPath)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBadReference
	}
	return nil
}

// Delete removes a single guest
func (r *PostgresGuestRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
