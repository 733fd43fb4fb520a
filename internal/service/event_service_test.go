package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
	"github.com/Hardy101/Invix/internal/repository"
)

func newEventService(store *repository.MemoryStore, clock *fakeClock) EventService {
	return NewEventService(store.Events(), store.Guests(), store.Activities(), nil, clock.Now)
}

func TestEventCreate(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := newFakeClock(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	svc := newEventService(store, clock)
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateEventRequest{
		Name:      "Launch Party",
		Date:      "2025-06-01",
		Time:      "18:30",
		CreatedBy: "owner-1",
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if resp.Status != string(domain.EventStatusUpcoming) {
		t.Errorf("new event status = %s, want upcoming", resp.Status)
	}
	if resp.Location != "not set" {
		t.Errorf("default location = %q", resp.Location)
	}
	if resp.ImageURL != "default_event.jpg" {
		t.Errorf("default image = %q", resp.ImageURL)
	}

	// creation is recorded in the ledger
	filter := &dto.ActivityLogFilter{Kind: string(domain.ActivityEventCreated)}
	filter.SetDefaults()
	_, total, err := store.Activities().ListByEvent(ctx, resp.ID, filter)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("event_created entries = %d, want 1", total)
	}
}

func TestEventCreateValidation(t *testing.T) {
	svc := newEventService(repository.NewMemoryStore(), newFakeClock(time.Now()))

	tests := []struct {
		name string
		req  dto.CreateEventRequest
	}{
		{name: "missing name", req: dto.CreateEventRequest{Date: "2025-06-01"}},
		{name: "missing date", req: dto.CreateEventRequest{Name: "Party"}},
		{name: "bad date format", req: dto.CreateEventRequest{Name: "Party", Date: "01/06/2025"}},
		{name: "negative expected guests", req: dto.CreateEventRequest{Name: "Party", Date: "2025-06-01", ExpectedGuests: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), &tt.req); err == nil {
				t.Error("Create() accepted an invalid request")
			}
		})
	}
}

func TestEventActivate(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := newFakeClock(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	svc := newEventService(store, clock)
	ctx := context.Background()
	owner := domain.Actor{ID: "owner-1"}

	created, err := svc.Create(ctx, &dto.CreateEventRequest{Name: "Party", Date: "2025-06-01", CreatedBy: owner.ID})
	if err != nil {
		t.Fatal(err)
	}

	activated, err := svc.Activate(ctx, created.ID, owner)
	if err != nil {
		t.Fatalf("Activate(): %v", err)
	}
	if activated.Status != string(domain.EventStatusActive) {
		t.Errorf("status after activation = %s", activated.Status)
	}

	// activation is one-way and not repeatable
	if _, err := svc.Activate(ctx, created.ID, owner); !errors.Is(err, ErrEventNotUpcoming) {
		t.Errorf("second activation: got %v, want ErrEventNotUpcoming", err)
	}

	// another organizer cannot activate
	if _, err := svc.Activate(ctx, created.ID, domain.Actor{ID: "intruder"}); !errors.Is(err, ErrNotEventOwner) {
		t.Errorf("foreign activation: got %v, want ErrNotEventOwner", err)
	}
}

func TestEventUpdate(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := newFakeClock(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	svc := newEventService(store, clock)
	ctx := context.Background()
	owner := domain.Actor{ID: "owner-1"}

	created, err := svc.Create(ctx, &dto.CreateEventRequest{Name: "Party", Date: "2025-06-01", CreatedBy: owner.ID})
	if err != nil {
		t.Fatal(err)
	}

	expected := 120
	updated, err := svc.Update(ctx, created.ID, &dto.UpdateEventRequest{
		Name:           "Bigger Party",
		Location:       "Main Hall",
		ExpectedGuests: &expected,
	}, owner)
	if err != nil {
		t.Fatalf("Update(): %v", err)
	}
	if updated.Name != "Bigger Party" || updated.Location != "Main Hall" || updated.ExpectedGuests != 120 {
		t.Errorf("Update() result = %+v", updated)
	}
	// untouched fields survive
	if updated.Date != "2025-06-01" {
		t.Errorf("date changed to %s", updated.Date)
	}

	if _, err := svc.Update(ctx, created.ID, &dto.UpdateEventRequest{}, owner); err == nil {
		t.Error("empty update must be rejected")
	}
}

func TestEventDeleteCascade(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := newFakeClock(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	eventSvc := newEventService(store, clock)
	guestSvc := NewGuestService(store.Guests(), store.Events(), store.Activities(), nil, clock.Now)
	ctx := context.Background()
	owner := domain.Actor{ID: "owner-1"}

	created, err := eventSvc.Create(ctx, &dto.CreateEventRequest{Name: "Party", Date: "2025-06-01", CreatedBy: owner.ID})
	if err != nil {
		t.Fatal(err)
	}
	guest, err := guestSvc.Create(ctx, &dto.CreateGuestRequest{Name: "Ada", Tags: "vip", EventID: created.ID}, owner)
	if err != nil {
		t.Fatal(err)
	}

	if err := eventSvc.Delete(ctx, created.ID, owner); err != nil {
		t.Fatalf("Delete(): %v", err)
	}

	if _, err := eventSvc.GetByID(ctx, created.ID, owner); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("event after delete: got %v, want ErrEventNotFound", err)
	}
	if _, err := guestSvc.GetByID(ctx, guest.ID); !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("guest after cascade: got %v, want ErrGuestNotFound", err)
	}
	filter := &dto.ActivityLogFilter{}
	filter.SetDefaults()
	_, total, err := store.Activities().ListByEvent(ctx, created.ID, filter)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("%d ledger entries survived the cascade", total)
	}

	// deleting again reports not found
	if err := eventSvc.Delete(ctx, created.ID, owner); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("second delete: got %v, want ErrEventNotFound", err)
	}
}

func TestEventListScopedToOwner(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := newFakeClock(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	svc := newEventService(store, clock)
	ctx := context.Background()

	for _, owner := range []string{"owner-1", "owner-1", "owner-2"} {
		if _, err := svc.Create(ctx, &dto.CreateEventRequest{Name: "Party", Date: "2025-06-01", CreatedBy: owner}); err != nil {
			t.Fatal(err)
		}
	}

	resp, err := svc.List(ctx, &dto.EventListFilter{CreatedBy: "owner-1"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 || len(resp.Events) != 2 {
		t.Errorf("List() returned %d events, want 2", resp.Total)
	}
}
