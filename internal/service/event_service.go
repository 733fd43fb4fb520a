package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
	"github.com/Hardy101/Invix/internal/repository"
	"github.com/Hardy101/Invix/pkg/logger"
)

// EventService defines the interface for event management operations
type EventService interface {
	// Create creates a new event owned by the actor
	Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	// GetByID retrieves an event visible to the actor
	GetByID(ctx context.Context, id string, actor domain.Actor) (*dto.EventResponse, error)
	// List retrieves the actor's events
	List(ctx context.Context, filter *dto.EventListFilter) (*dto.EventListResponse, error)
	// Update updates an event's mutable fields
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest, actor domain.Actor) (*dto.EventResponse, error)
	// Activate moves an upcoming event to active
	Activate(ctx context.Context, id string, actor domain.Actor) (*dto.EventResponse, error)
	// Delete removes the event together with its guests and ledger entries
	Delete(ctx context.Context, id string, actor domain.Actor) error
}

// QRArtifactRemover cleans up rendered QR images for deleted guests
type QRArtifactRemover interface {
	Remove(guestID string) error
}

// eventService implements EventService
type eventService struct {
	eventRepo    repository.EventRepository
	guestRepo    repository.GuestRepository
	activityRepo repository.ActivityRepository
	qrRemover    QRArtifactRemover
	now          func() time.Time
}

// NewEventService creates a new EventService. qrRemover may be nil when QR
// artifacts are not managed. now may be nil and defaults to time.Now.
func NewEventService(
	eventRepo repository.EventRepository,
	guestRepo repository.GuestRepository,
	activityRepo repository.ActivityRepository,
	qrRemover QRArtifactRemover,
	now func() time.Time,
) EventService {
	if now == nil {
		now = time.Now
	}
	return &eventService{
		eventRepo:    eventRepo,
		guestRepo:    guestRepo,
		activityRepo: activityRepo,
		qrRemover:    qrRemover,
		now:          now,
	}
}

// Create creates a new event owned by the actor
func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, errors.New("event date must be in YYYY-MM-DD format")
	}

	now := s.now()
	event := &domain.Event{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Date:           date,
		TimeOfDay:      req.Time,
		Location:       req.Location,
		ExpectedGuests: req.ExpectedGuests,
		Status:         domain.EventStatusUpcoming,
		ImageURL:       req.ImageURL,
		CreatedBy:      req.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if event.Location == "" {
		event.Location = "not set"
	}
	if event.ImageURL == "" {
		event.ImageURL = "default_event.jpg"
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	entry := &domain.ActivityLog{
		EventID:   event.ID,
		ActorID:   &event.CreatedBy,
		Kind:      domain.ActivityEventCreated,
		Status:    domain.ActivityStatusCompleted,
		CreatedAt: now,
	}
	if err := s.activityRepo.Append(ctx, entry); err != nil {
		logger.Get().WarnContext(ctx, "failed to record event creation",
			zap.String("event_id", event.ID), zap.Error(err))
	}

	return dto.ToEventResponse(event), nil
}

// GetByID retrieves an event visible to the actor
func (s *eventService) GetByID(ctx context.Context, id string, actor domain.Actor) (*dto.EventResponse, error) {
	event, err := s.ownedEvent(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return dto.ToEventResponse(event), nil
}

// List retrieves the actor's events
func (s *eventService) List(ctx context.Context, filter *dto.EventListFilter) (*dto.EventListResponse, error) {
	filter.SetDefaults()
	events, total, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, dto.ToEventResponse(event))
	}
	return &dto.EventListResponse{Events: responses, Total: total}, nil
}

// Update updates an event's mutable fields
func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest, actor domain.Actor) (*dto.EventResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	event, err := s.ownedEvent(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		event.Name = req.Name
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, errors.New("event date must be in YYYY-MM-DD format")
		}
		event.Date = date
	}
	if req.Time != "" {
		event.TimeOfDay = req.Time
	}
	if req.Location != "" {
		event.Location = req.Location
	}
	if req.ExpectedGuests != nil {
		event.ExpectedGuests = *req.ExpectedGuests
	}
	if req.ImageURL != "" {
		event.ImageURL = req.ImageURL
	}
	event.UpdatedAt = s.now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return dto.ToEventResponse(event), nil
}

// Activate moves an upcoming event to active. Any other transition is
// rejected, activation is one-way.
func (s *eventService) Activate(ctx context.Context, id string, actor domain.Actor) (*dto.EventResponse, error) {
	event, err := s.ownedEvent(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventStatusUpcoming {
		return nil, ErrEventNotUpcoming
	}

	if err := s.eventRepo.UpdateStatus(ctx, id, domain.EventStatusActive); err != nil {
		return nil, err
	}
	event.Status = domain.EventStatusActive
	event.UpdatedAt = s.now()
	return dto.ToEventResponse(event), nil
}

// Delete removes the event together with its guests and ledger entries. The
// cascade itself is transactional; QR image cleanup happens afterwards and a
// failure there only logs.
func (s *eventService) Delete(ctx context.Context, id string, actor domain.Actor) error {
	event, err := s.ownedEvent(ctx, id, actor)
	if err != nil {
		return err
	}

	guests, err := s.guestRepo.ListByEvent(ctx, id)
	if err != nil {
		return err
	}

	result, err := s.eventRepo.DeleteCascade(ctx, id)
	if err != nil {
		return err
	}

	logger.Get().InfoContext(ctx, "event deleted",
		zap.String("event_id", event.ID),
		zap.String("actor_id", actor.ID),
		zap.Int64("guests_deleted", result.GuestsDeleted),
		zap.Int64("logs_deleted", result.LogsDeleted))

	if s.qrRemover != nil {
		for _, guest := range guests {
			if err := s.qrRemover.Remove(guest.ID); err != nil {
				logger.Get().WarnContext(ctx, "failed to remove qr image",
					zap.String("guest_id", guest.ID), zap.Error(err))
			}
		}
	}
	return nil
}

func (s *eventService) ownedEvent(ctx context.Context, id string, actor domain.Actor) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if !event.IsOwnedBy(actor) {
		return nil, ErrNotEventOwner
	}
	return event, nil
}
