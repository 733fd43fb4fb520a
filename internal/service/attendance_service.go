package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
	"github.com/Hardy101/Invix/internal/repository"
	"github.com/Hardy101/Invix/internal/token"
	"github.com/Hardy101/Invix/pkg/logger"
	"github.com/Hardy101/Invix/pkg/telemetry"
)

// AttendanceService defines the check-in / check-out operations. State is
// always derived from the ledger at call time, never cached between calls.
type AttendanceService interface {
	// CheckIn records a check-in for the guest holding the token
	CheckIn(ctx context.Context, presentedToken string, req *dto.CheckRequest) (*dto.CheckResponse, error)
	// CheckOut records a check-out for the guest holding the token
	CheckOut(ctx context.Context, presentedToken string, req *dto.CheckRequest) (*dto.CheckResponse, error)
	// Status reports the guest's current derived attendance state
	Status(ctx context.Context, guestID string) (*dto.AttendanceStatusResponse, error)
	// Resolve maps a token to its guest, event, and current state without
	// recording anything
	Resolve(ctx context.Context, presentedToken string) (*dto.TokenResolutionResponse, error)
}

// attendanceService implements AttendanceService
type attendanceService struct {
	registry     *token.Registry
	guestRepo    repository.GuestRepository
	eventRepo    repository.EventRepository
	activityRepo repository.ActivityRepository
	now          func() time.Time

	// guestLocks serializes attendance writes per guest so two scans of the
	// same token cannot both read the same ledger state
	guestLocks sync.Map // guest id -> *sync.Mutex

	checkIns  *telemetry.Counter
	checkOuts *telemetry.Counter
}

// NewAttendanceService creates a new AttendanceService. now may be nil and
// defaults to time.Now.
func NewAttendanceService(
	registry *token.Registry,
	guestRepo repository.GuestRepository,
	eventRepo repository.EventRepository,
	activityRepo repository.ActivityRepository,
	now func() time.Time,
) AttendanceService {
	if now == nil {
		now = time.Now
	}
	checkIns, _ := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "attendance.check_ins",
		Description: "Number of recorded check-ins",
		Unit:        "{entry}",
	})
	checkOuts, _ := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "attendance.check_outs",
		Description: "Number of recorded check-outs",
		Unit:        "{entry}",
	})
	return &attendanceService{
		registry:     registry,
		guestRepo:    guestRepo,
		eventRepo:    eventRepo,
		activityRepo: activityRepo,
		now:          now,
		checkIns:     checkIns,
		checkOuts:    checkOuts,
	}
}

// CheckIn records a check-in for the guest holding the token
func (s *attendanceService) CheckIn(ctx context.Context, presentedToken string, req *dto.CheckRequest) (*dto.CheckResponse, error) {
	req.SetDefaults()
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	ctx, span := telemetry.StartSpan(ctx, "attendance.check_in")
	defer span.End()

	guest, err := s.registry.Resolve(ctx, presentedToken)
	if err != nil {
		return nil, err
	}

	unlock := s.lockGuest(guest.ID)
	defer unlock()

	latest, err := s.activityRepo.LatestForGuest(ctx, guest.ID)
	if err != nil {
		return nil, err
	}
	state := domain.DeriveAttendanceState(latest)
	if !state.CanCheckIn() {
		return nil, &AlreadyCheckedInError{GuestName: guest.Name, LastCheckInAt: latest.CreatedAt}
	}

	at := s.now()
	entry := &domain.ActivityLog{
		EventID:   guest.EventID,
		GuestID:   &guest.ID,
		GuestName: guest.Name,
		Kind:      domain.ActivityCheckIn,
		Status:    domain.ActivityStatusCompleted,
		Data: domain.ActivityData{
			Method:      req.Method,
			CheckInTime: &at,
		},
		CreatedAt: at,
	}
	if err := s.activityRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	if s.checkIns != nil {
		s.checkIns.Inc(ctx, telemetry.EventIDAttr(guest.EventID), telemetry.CheckMethodAttr(req.Method))
	}
	logger.Get().InfoContext(ctx, "guest checked in",
		zap.String("guest_id", guest.ID),
		zap.String("event_id", guest.EventID),
		zap.String("method", req.Method))

	return &dto.CheckResponse{
		GuestID:   guest.ID,
		GuestName: guest.Name,
		EventID:   guest.EventID,
		State:     string(domain.StateCheckedIn),
		At:        at.Format(time.RFC3339),
	}, nil
}

// CheckOut records a check-out for the guest holding the token. The entry
// pairs the matching check-in time and the visit duration in fractional
// hours.
func (s *attendanceService) CheckOut(ctx context.Context, presentedToken string, req *dto.CheckRequest) (*dto.CheckResponse, error) {
	req.SetDefaults()
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	ctx, span := telemetry.StartSpan(ctx, "attendance.check_out")
	defer span.End()

	guest, err := s.registry.Resolve(ctx, presentedToken)
	if err != nil {
		return nil, err
	}

	unlock := s.lockGuest(guest.ID)
	defer unlock()

	latest, err := s.activityRepo.LatestForGuest(ctx, guest.ID)
	if err != nil {
		return nil, err
	}
	state := domain.DeriveAttendanceState(latest)
	if !state.CanCheckOut() {
		return nil, &NotCheckedInError{GuestName: guest.Name}
	}

	at := s.now()
	checkInAt := latest.CreatedAt
	if latest.Data.CheckInTime != nil {
		checkInAt = *latest.Data.CheckInTime
	}
	duration := at.Sub(checkInAt).Hours()
	if duration < 0 {
		duration = 0
	}

	entry := &domain.ActivityLog{
		EventID:   guest.EventID,
		GuestID:   &guest.ID,
		GuestName: guest.Name,
		Kind:      domain.ActivityCheckOut,
		Status:    domain.ActivityStatusCompleted,
		Data: domain.ActivityData{
			Method:        req.Method,
			CheckInTime:   &checkInAt,
			CheckOutTime:  &at,
			DurationHours: &duration,
		},
		CreatedAt: at,
	}
	if err := s.activityRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	if s.checkOuts != nil {
		s.checkOuts.Inc(ctx, telemetry.EventIDAttr(guest.EventID), telemetry.CheckMethodAttr(req.Method))
	}
	logger.Get().InfoContext(ctx, "guest checked out",
		zap.String("guest_id", guest.ID),
		zap.String("event_id", guest.EventID),
		zap.Float64("duration_hours", duration))

	return &dto.CheckResponse{
		GuestID:       guest.ID,
		GuestName:     guest.Name,
		EventID:       guest.EventID,
		State:         string(domain.StateCheckedOut),
		At:            at.Format(time.RFC3339),
		DurationHours: &duration,
	}, nil
}

// Status reports the guest's current derived attendance state
func (s *attendanceService) Status(ctx context.Context, guestID string) (*dto.AttendanceStatusResponse, error) {
	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}

	latest, err := s.activityRepo.LatestForGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}

	resp := &dto.AttendanceStatusResponse{
		GuestID:   guest.ID,
		GuestName: guest.Name,
		State:     string(domain.DeriveAttendanceState(latest)),
	}
	if latest != nil {
		resp.LastSeen = latest.CreatedAt.Format(time.RFC3339)
	}
	return resp, nil
}

// Resolve maps a token to its guest, event, and current state without
// recording anything
func (s *attendanceService) Resolve(ctx context.Context, presentedToken string) (*dto.TokenResolutionResponse, error) {
	guest, err := s.registry.Resolve(ctx, presentedToken)
	if err != nil {
		return nil, err
	}

	latest, err := s.activityRepo.LatestForGuest(ctx, guest.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TokenResolutionResponse{
		Guest: dto.ToGuestResponse(guest),
		State: string(domain.DeriveAttendanceState(latest)),
	}
	event, err := s.eventRepo.GetByID(ctx, guest.EventID)
	if err != nil {
		return nil, err
	}
	if event != nil {
		resp.Event = dto.ToEventResponse(event)
	}
	return resp, nil
}

// lockGuest takes the per-guest mutex and returns its unlock func. Mutexes
// are created on demand and kept for the process lifetime; the population is
// bounded by the number of distinct guests seen.
func (s *attendanceService) lockGuest(guestID string) func() {
	muIface, _ := s.guestLocks.LoadOrStore(guestID, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
