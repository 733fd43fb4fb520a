package token

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/repository"
)

type stubGuestSource struct {
	guests map[string]*domain.Guest
	err    error
}

func (s *stubGuestSource) GetByToken(ctx context.Context, token string) (*domain.Guest, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.guests[token], nil
}

func TestIssueUniqueness(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	const events = 4
	const guestsPerEvent = 2500

	for e := 0; e < events; e++ {
		eventID := fmt.Sprintf("e-%d", e)
		err := store.Events().Create(ctx, &domain.Event{
			ID: eventID, Name: fmt.Sprintf("Event %d", e), CreatedBy: "owner-1",
			Status: domain.EventStatusActive,
		})
		if err != nil {
			t.Fatal(err)
		}

		// the store's unique-token constraint is the arbiter here: a
		// colliding Issue() would surface as ErrDuplicateToken
		for g := 0; g < guestsPerEvent; g++ {
			tok := Issue()
			if tok == "" {
				t.Fatal("Issue returned empty token")
			}
			err := store.Guests().Create(ctx, &domain.Guest{
				ID:      fmt.Sprintf("%s-g-%d", eventID, g),
				EventID: eventID,
				Name:    fmt.Sprintf("Guest %d", g),
				Token:   tok,
			})
			if errors.Is(err, repository.ErrDuplicateToken) {
				t.Fatalf("Issue returned duplicate token %s", tok)
			}
			if err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestRegistryResolve(t *testing.T) {
	guest := &domain.Guest{ID: "g-1", EventID: "e-1", Name: "Ada", Token: "tok-ada"}
	source := &stubGuestSource{guests: map[string]*domain.Guest{"tok-ada": guest}}
	registry := NewRegistry(source)

	tests := []struct {
		name    string
		token   string
		wantErr error
		wantID  string
	}{
		{name: "known token", token: "tok-ada", wantID: "g-1"},
		{name: "token with surrounding whitespace", token: "  tok-ada\n", wantID: "g-1"},
		{name: "unknown token", token: "tok-missing", wantErr: ErrTokenNotFound},
		{name: "empty token", token: "", wantErr: ErrInvalidToken},
		{name: "whitespace only", token: "   ", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.Resolve(context.Background(), tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("Resolve() guest ID = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestRegistryResolveSourceError(t *testing.T) {
	source := &stubGuestSource{err: errors.New("connection refused")}
	registry := NewRegistry(source)

	_, err := registry.Resolve(context.Background(), "tok-any")
	if err == nil {
		t.Fatal("Resolve() expected error, got nil")
	}
	if errors.Is(err, ErrTokenNotFound) {
		t.Error("source failures must not be reported as missing tokens")
	}
}
