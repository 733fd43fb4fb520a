package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
	"github.com/Hardy101/Invix/internal/repository"
)

// AnalyticsService summarizes attendance for an event. Every figure is
// recomputed from the ledger on each call.
type AnalyticsService interface {
	// Summarize reports headcounts and the hourly check-in histogram for
	// the reference day in the query (default: today)
	Summarize(ctx context.Context, eventID string, query *dto.AnalyticsQuery, actor domain.Actor) (*dto.AnalyticsResponse, error)
}

// HistogramWindow bounds the hourly check-in histogram. The window is
// half-open: buckets run from StartHour up to but not including EndHour.
type HistogramWindow struct {
	StartHour int
	EndHour   int
}

// analyticsService implements AnalyticsService
type analyticsService struct {
	eventRepo    repository.EventRepository
	guestRepo    repository.GuestRepository
	activityRepo repository.ActivityRepository
	window       HistogramWindow
	now          func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService. now may be nil and
// defaults to time.Now.
func NewAnalyticsService(
	eventRepo repository.EventRepository,
	guestRepo repository.GuestRepository,
	activityRepo repository.ActivityRepository,
	window HistogramWindow,
	now func() time.Time,
) AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &analyticsService{
		eventRepo:    eventRepo,
		guestRepo:    guestRepo,
		activityRepo: activityRepo,
		window:       window,
		now:          now,
	}
}

// Summarize reports headcounts and the hourly check-in histogram. The ledger
// is scanned once: the per-guest latest entry decides who counts as checked
// in or out, and check-in entries landing on the reference day fill the
// histogram buckets.
func (s *analyticsService) Summarize(ctx context.Context, eventID string, query *dto.AnalyticsQuery, actor domain.Actor) (*dto.AnalyticsResponse, error) {
	if valid, errMsg := query.Validate(); !valid {
		return nil, fmt.Errorf("%s", errMsg)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if !event.IsOwnedBy(actor) {
		return nil, ErrNotEventOwner
	}

	total, err := s.guestRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	entries, err := s.activityRepo.AttendanceByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	refDay := s.now()
	if query.Date != "" {
		refDay, _ = time.Parse("2006-01-02", query.Date)
	}
	refY, refM, refD := refDay.Date()

	hourly := make(map[int]int)
	latestByGuest := make(map[string]domain.ActivityKind)
	for _, entry := range entries {
		// entries arrive oldest first, the newest entry per guest wins
		if entry.GuestID != nil {
			latestByGuest[*entry.GuestID] = entry.Kind
		}

		if entry.Kind == domain.ActivityCheckIn {
			y, m, d := entry.CreatedAt.Date()
			if y == refY && m == refM && d == refD {
				hourly[entry.CreatedAt.Hour()]++
			}
		}
	}

	checkedIn, checkedOut := 0, 0
	for _, kind := range latestByGuest {
		switch kind {
		case domain.ActivityCheckIn:
			checkedIn++
		case domain.ActivityCheckOut:
			checkedOut++
		}
	}

	pending := total - checkedIn - checkedOut
	if pending < 0 {
		return nil, fmt.Errorf("%w: %d guests, %d checked in, %d checked out",
			ErrInconsistentLedger, total, checkedIn, checkedOut)
	}

	buckets := make([]dto.HourlyBucket, 0, s.window.EndHour-s.window.StartHour)
	for hour := s.window.StartHour; hour < s.window.EndHour; hour++ {
		buckets = append(buckets, dto.HourlyBucket{
			Hour:  hour,
			Label: hourLabel(hour),
			Count: hourly[hour],
		})
	}

	logs, err := s.activityRepo.FeedByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	feed := make([]*dto.ActivityLogResponse, 0, len(logs))
	for _, log := range logs {
		feed = append(feed, dto.ToActivityLogResponse(log))
	}

	return &dto.AnalyticsResponse{
		EventID:        eventID,
		TotalGuests:    total,
		CheckedIn:      checkedIn,
		CheckedOut:     checkedOut,
		Pending:        pending,
		HourlyCheckIns: buckets,
		ActivityFeed:   feed,
	}, nil
}

// hourLabel formats an hour of day as "9 AM" / "1 PM" style display text
func hourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}
