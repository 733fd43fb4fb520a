package repository

import (
	"context"
	"errors"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
)

// ErrBadReference is returned when a write references a missing row
var ErrBadReference = errors.New("referenced row does not exist")

// ErrDuplicateToken is returned when a guest insert collides on the token column
var ErrDuplicateToken = errors.New("token already issued")

// CascadeResult reports what an event cascade removed
type CascadeResult struct {
	LogsDeleted   int64
	GuestsDeleted int64
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *domain.Event) error
	// GetByID retrieves an event by ID, nil when not found
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// List retrieves events matching the filter
	List(ctx context.Context, filter *dto.EventListFilter) ([]*domain.Event, int, error)
	// Update updates an event's mutable fields
	Update(ctx context.Context, event *domain.Event) error
	// UpdateStatus moves an event to a new lifecycle status
	UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error
	// DeleteCascade removes the event together with its guests and ledger
	// entries in a single transaction
	DeleteCascade(ctx context.Context, id string) (*CascadeResult, error)
}
