package repository

import (
	"context"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
)

// ActivityRepository defines the interface for the append-only activity ledger.
// Entries are never updated in place, corrections are recorded as new entries.
type ActivityRepository interface {
	// Append inserts a new ledger entry and fills its ID and CreatedAt
	Append(ctx context.Context, log *domain.ActivityLog) error
	// LatestForGuest returns the newest completed attendance entry for a guest,
	// ordered by created_at then id descending, nil when none exists
	LatestForGuest(ctx context.Context, guestID string) (*domain.ActivityLog, error)
	// ListByEvent retrieves a page of ledger entries for an event, newest first
	ListByEvent(ctx context.Context, eventID string, filter *dto.ActivityLogFilter) ([]*domain.ActivityLog, int, error)
	// FeedByEvent retrieves every ledger entry for an event, newest first
	FeedByEvent(ctx context.Context, eventID string) ([]*domain.ActivityLog, error)
	// AttendanceByEvent retrieves all completed check-in and check-out
	// entries for an event in append order
	AttendanceByEvent(ctx context.Context, eventID string) ([]*domain.ActivityLog, error)
}
