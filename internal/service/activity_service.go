package service

import (
	"context"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
	"github.com/Hardy101/Invix/internal/repository"
)

// ActivityFeedService exposes the event activity feed
type ActivityFeedService interface {
	// ListByEvent retrieves the event's ledger entries, newest first
	ListByEvent(ctx context.Context, eventID string, filter *dto.ActivityLogFilter, actor domain.Actor) (*dto.ActivityLogListResponse, error)
}

// activityFeedService implements ActivityFeedService
type activityFeedService struct {
	eventRepo    repository.EventRepository
	activityRepo repository.ActivityRepository
}

// NewActivityFeedService creates a new ActivityFeedService
func NewActivityFeedService(eventRepo repository.EventRepository, activityRepo repository.ActivityRepository) ActivityFeedService {
	return &activityFeedService{eventRepo: eventRepo, activityRepo: activityRepo}
}

// ListByEvent retrieves the event's ledger entries, newest first
func (s *activityFeedService) ListByEvent(ctx context.Context, eventID string, filter *dto.ActivityLogFilter, actor domain.Actor) (*dto.ActivityLogListResponse, error) {
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

	filter.SetDefaults()
	logs, total, err := s.activityRepo.ListByEvent(ctx, eventID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ActivityLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, dto.ToActivityLogResponse(log))
	}
	return &dto.ActivityLogListResponse{Logs: responses, Total: total}, nil
}
