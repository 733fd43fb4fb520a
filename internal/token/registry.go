package token

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Hardy101/Invix/internal/domain"
)

// ErrTokenNotFound is returned when a token maps to no guest
var ErrTokenNotFound = errors.New("token not found")

// ErrInvalidToken is returned when a token is malformed
var ErrInvalidToken = errors.New("invalid token")

// GuestSource looks up guests by their check-in token
type GuestSource interface {
	GetByToken(ctx context.Context, token string) (*domain.Guest, error)
}

// Issue generates a new opaque check-in token. Tokens are unique per guest
// and carry no embedded meaning.
func Issue() string {
	return uuid.NewString()
}

// Normalize trims surrounding whitespace from a presented token. No other
// transformation is applied, lookups are exact-match.
func Normalize(token string) string {
	return strings.TrimSpace(token)
}

// Registry resolves presented tokens to guest records
type Registry struct {
	guests GuestSource
}

// NewRegistry creates a token registry backed by the given guest source
func NewRegistry(guests GuestSource) *Registry {
	return &Registry{guests: guests}
}

// Resolve maps a presented token to the guest it was issued to. Returns
// ErrInvalidToken for empty tokens and ErrTokenNotFound when no guest
// holds the token.
func (r *Registry) Resolve(ctx context.Context, token string) (*domain.Guest, error) {
	token = Normalize(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	guest, err := r.guests.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	if guest == nil {
		return nil, ErrTokenNotFound
	}
	return guest, nil
}
