package repository

import (
	"context"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
)

// GuestRepository defines the interface for guest data access
type GuestRepository interface {
	// Create creates a new guest, ErrDuplicateToken on token collision
	Create(ctx context.Context, guest *domain.Guest) error
	// GetByID retrieves a guest by ID, nil when not found
	GetByID(ctx context.Context, id string) (*domain.Guest, error)
	// GetByToken retrieves a guest by check-in token, nil when not found
	GetByToken(ctx context.Context, token string) (*domain.Guest, error)
	// ListByEvent retrieves all guests registered to an event
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Guest, error)
	// CountByEvent counts guests registered to an event
	CountByEvent(ctx context.Context, eventID string) (int, error)
	// Search finds guests across the owner's events by name, email, or tags
	Search(ctx context.Context, ownerID string, filter *dto.GuestSearchFilter) ([]*domain.Guest, int, error)
	// Update updates a guest's mutable fields
	Update(ctx context.Context, guest *domain.Guest) error
	// Delete removes a single guest, reporting whether a row was removed
	Delete(ctx context.Context, id string) (bool, error)
}
