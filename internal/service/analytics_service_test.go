package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
	"github.com/Hardy101/Invix/internal/repository"
	"github.com/Hardy101/Invix/internal/token"
)

var testWindow = HistogramWindow{StartHour: 9, EndHour: 17}

func seedAnalyticsEvent(t *testing.T, store *repository.MemoryStore, eventID, owner string, guests int) []*domain.Guest {
	t.Helper()
	ctx := context.Background()
	event := &domain.Event{
		ID: eventID, Name: "Conference", Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Status: domain.EventStatusActive, CreatedBy: owner,
	}
	if err := store.Events().Create(ctx, event); err != nil {
		t.Fatal(err)
	}

	out := make([]*domain.Guest, 0, guests)
	for i := 0; i < guests; i++ {
		guest := &domain.Guest{
			ID:      fmt.Sprintf("%s-g-%d", eventID, i),
			EventID: eventID,
			Name:    fmt.Sprintf("Guest %d", i),
			Token:   fmt.Sprintf("%s-tok-%d", eventID, i),
		}
		if err := store.Guests().Create(ctx, guest); err != nil {
			t.Fatal(err)
		}
		out = append(out, guest)
	}
	return out
}

func TestSummarizeHeadcounts(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := newFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	owner := domain.Actor{ID: "owner-1"}
	guests := seedAnalyticsEvent(t, store, "e-1", owner.ID, 10)
	ctx := context.Background()

	registry := token.NewRegistry(store.Guests())
	attendance := NewAttendanceService(registry, store.Guests(), store.Events(), store.Activities(), clock.Now)
	analytics := NewAnalyticsService(store.Events(), store.Guests(), store.Activities(), testWindow, clock.Now)

	// 4 stay checked in, 3 check in and leave again, 3 never arrive
	for i := 0; i < 7; i++ {
		if _, err := attendance.CheckIn(ctx, guests[i].Token, &dto.CheckRequest{}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 4; i < 7; i++ {
		if _, err := attendance.CheckOut(ctx, guests[i].Token, &dto.CheckRequest{}); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := analytics.Summarize(ctx, "e-1", &dto.AnalyticsQuery{}, owner)
	if err != nil {
		t.Fatalf("Summarize(): %v", err)
	}

	if summary.TotalGuests != 10 {
		t.Errorf("TotalGuests = %d, want 10", summary.TotalGuests)
	}
	if summary.CheckedIn != 4 {
		t.Errorf("CheckedIn = %d, want 4", summary.CheckedIn)
	}
	if summary.CheckedOut != 3 {
		t.Errorf("CheckedOut = %d, want 3", summary.CheckedOut)
	}
	if summary.Pending != 3 {
		t.Errorf("Pending = %d, want 3", summary.Pending)
	}

	if len(summary.ActivityFeed) != 10 {
		t.Fatalf("ActivityFeed has %d entries, want 10", len(summary.ActivityFeed))
	}
	if summary.ActivityFeed[0].Kind != string(domain.ActivityCheckOut) {
		t.Errorf("feed is not newest first, head = %s", summary.ActivityFeed[0].Kind)
	}
}

func TestSummarizeHourlyHistogram(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := newFakeClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	owner := domain.Actor{ID: "owner-1"}
	guests := seedAnalyticsEvent(t, store, "e-1", owner.ID, 4)
	ctx := context.Background()

	registry := token.NewRegistry(store.Guests())
	attendance := NewAttendanceService(registry, store.Guests(), store.Events(), store.Activities(), clock.Now)
	analytics := NewAnalyticsService(store.Events(), store.Guests(), store.Activities(), testWindow, clock.Now)

	arrivals := []time.Time{
		time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 9, 40, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 13, 15, 0, 0, time.UTC),
		time.Date(2025, 5, 31, 10, 0, 0, 0, time.UTC), // previous day, outside the reference day
	}
	for i, at := range arrivals {
		clock.Set(at)
		if _, err := attendance.CheckIn(ctx, guests[i].Token, &dto.CheckRequest{}); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := analytics.Summarize(ctx, "e-1", &dto.AnalyticsQuery{Date: "2025-06-01"}, owner)
	if err != nil {
		t.Fatal(err)
	}

	if len(summary.HourlyCheckIns) != 8 {
		t.Fatalf("histogram has %d buckets, want 8 (9 AM through 4 PM)", len(summary.HourlyCheckIns))
	}
	byHour := map[int]dto.HourlyBucket{}
	for _, bucket := range summary.HourlyCheckIns {
		byHour[bucket.Hour] = bucket
	}
	if byHour[9].Count != 2 {
		t.Errorf("9 AM bucket = %d, want 2", byHour[9].Count)
	}
	if byHour[13].Count != 1 {
		t.Errorf("1 PM bucket = %d, want 1", byHour[13].Count)
	}
	if byHour[9].Label != "9 AM" || byHour[13].Label != "1 PM" || byHour[16].Label != "4 PM" {
		t.Errorf("bucket labels wrong: %+v", summary.HourlyCheckIns)
	}

	// the out-of-day arrival still counts toward headcounts
	if summary.CheckedIn != 4 {
		t.Errorf("CheckedIn = %d, want 4", summary.CheckedIn)
	}
}

func TestSummarizeFeedCarriesWholeLedger(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := newFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	owner := domain.Actor{ID: "owner-1"}
	guests := seedAnalyticsEvent(t, store, "e-1", owner.ID, 60)
	ctx := context.Background()

	registry := token.NewRegistry(store.Guests())
	attendance := NewAttendanceService(registry, store.Guests(), store.Events(), store.Activities(), clock.Now)
	analytics := NewAnalyticsService(store.Events(), store.Guests(), store.Activities(), testWindow, clock.Now)

	for _, guest := range guests {
		if _, err := attendance.CheckIn(ctx, guest.Token, &dto.CheckRequest{}); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := analytics.Summarize(ctx, "e-1", &dto.AnalyticsQuery{}, owner)
	if err != nil {
		t.Fatal(err)
	}

	if len(summary.ActivityFeed) != 60 {
		t.Fatalf("ActivityFeed has %d entries, want all 60", len(summary.ActivityFeed))
	}
	first, last := summary.ActivityFeed[0], summary.ActivityFeed[59]
	if first.ID <= last.ID {
		t.Errorf("feed is not newest first: head id %d, tail id %d", first.ID, last.ID)
	}
}

func TestSummarizeInconsistentLedger(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := newFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	owner := domain.Actor{ID: "owner-1"}
	seedAnalyticsEvent(t, store, "e-small", owner.ID, 1)
	others := seedAnalyticsEvent(t, store, "e-other", owner.ID, 2)
	ctx := context.Background()

	// ledger entries for e-small referencing guests it never registered
	for _, guest := range others {
		err := store.Activities().Append(ctx, &domain.ActivityLog{
			EventID: "e-small", GuestID: &guest.ID, GuestName: guest.Name,
			Kind: domain.ActivityCheckIn, Status: domain.ActivityStatusCompleted,
			CreatedAt: clock.Now(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	analytics := NewAnalyticsService(store.Events(), store.Guests(), store.Activities(), testWindow, clock.Now)
	_, err := analytics.Summarize(ctx, "e-small", &dto.AnalyticsQuery{}, owner)
	if !errors.Is(err, ErrInconsistentLedger) {
		t.Fatalf("got %v, want ErrInconsistentLedger", err)
	}
}

func TestSummarizeOwnership(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := newFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	seedAnalyticsEvent(t, store, "e-1", "owner-1", 0)

	analytics := NewAnalyticsService(store.Events(), store.Guests(), store.Activities(), testWindow, clock.Now)

	_, err := analytics.Summarize(context.Background(), "e-1", &dto.AnalyticsQuery{}, domain.Actor{ID: "intruder"})
	if !errors.Is(err, ErrNotEventOwner) {
		t.Fatalf("got %v, want ErrNotEventOwner", err)
	}

	_, err = analytics.Summarize(context.Background(), "e-missing", &dto.AnalyticsQuery{}, domain.Actor{ID: "owner-1"})
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("got %v, want ErrEventNotFound", err)
	}
}

func TestSummarizeEmptyEvent(t *testing.T) {
	store := repository.NewMemoryStore()
	clock := newFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	owner := domain.Actor{ID: "owner-1"}
	seedAnalyticsEvent(t, store, "e-1", owner.ID, 0)

	analytics := NewAnalyticsService(store.Events(), store.Guests(), store.Activities(), testWindow, clock.Now)
	summary, err := analytics.Summarize(context.Background(), "e-1", &dto.AnalyticsQuery{}, owner)
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalGuests != 0 || summary.CheckedIn != 0 || summary.CheckedOut != 0 || summary.Pending != 0 {
		t.Errorf("empty event summary = %+v", summary)
	}
	for _, bucket := range summary.HourlyCheckIns {
		if bucket.Count != 0 {
			t.Errorf("bucket %d = %d, want 0", bucket.Hour, bucket.Count)
		}
	}
}
