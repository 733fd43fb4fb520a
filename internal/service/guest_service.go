package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
	"github.com/Hardy101/Invix/internal/repository"
	"github.com/Hardy101/Invix/internal/token"
	"github.com/Hardy101/Invix/pkg/logger"
)

// tokenRetries bounds insert attempts on token collision. Collisions between
// freshly issued UUIDs are effectively impossible, the retry covers them
// anyway rather than surfacing a spurious conflict to the caller.
const tokenRetries = 3

// QRArtifactWriter renders a guest's token as an image on disk
type QRArtifactWriter interface {
	Generate(tok, guestID string) (string, error)
	Remove(guestID string) error
}

// GuestService defines the interface for guest management operations
type GuestService interface {
	// Create registers a guest for an event and issues their token
	Create(ctx context.Context, req *dto.CreateGuestRequest, actor domain.Actor) (*dto.GuestResponse, error)
	// GetByID retrieves a guest by ID
	GetByID(ctx context.Context, id string) (*dto.GuestResponse, error)
	// ListByEvent retrieves all guests registered to an event
	ListByEvent(ctx context.Context, eventID string, actor domain.Actor) (*dto.GuestListResponse, error)
	// Search finds guests across the actor's events
	Search(ctx context.Context, filter *dto.GuestSearchFilter, actor domain.Actor) (*dto.GuestListResponse, error)
	// Update updates a guest's mutable fields
	Update(ctx context.Context, id string, req *dto.UpdateGuestRequest, actor domain.Actor) (*dto.GuestResponse, error)
	// Delete removes a guest, their ledger entries survive detached
	Delete(ctx context.Context, id string, actor domain.Actor) error
	// BulkImport registers guests from an uploaded CSV or XLSX file
	BulkImport(ctx context.Context, eventID, filename string, r io.Reader, actor domain.Actor) (*dto.BulkImportResponse, error)
}

// guestService implements GuestService
type guestService struct {
	guestRepo    repository.GuestRepository
	eventRepo    repository.EventRepository
	activityRepo repository.ActivityRepository
	qrWriter     QRArtifactWriter
	now          func() time.Time
}

// NewGuestService creates a new GuestService. qrWriter may be nil when QR
// artifacts are not managed. now may be nil and defaults to time.Now.
func NewGuestService(
	guestRepo repository.GuestRepository,
	eventRepo repository.EventRepository,
	activityRepo repository.ActivityRepository,
	qrWriter QRArtifactWriter,
	now func() time.Time,
) GuestService {
	if now == nil {
		now = time.Now
	}
	return &guestService{
		guestRepo:    guestRepo,
		eventRepo:    eventRepo,
		activityRepo: activityRepo,
		qrWriter:     qrWriter,
		now:          now,
	}
}

// Create registers a guest for an event and issues their token
func (s *guestService) Create(ctx context.Context, req *dto.CreateGuestRequest, actor domain.Actor) (*dto.GuestResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	event, err := s.ownedEvent(ctx, req.EventID, actor)
	if err != nil {
		return nil, err
	}

	guest, err := s.insertWithFreshToken(ctx, event.ID, req.Name, req.Email, req.Tags)
	if err != nil {
		return nil, err
	}

	if s.qrWriter != nil {
		path, err := s.qrWriter.Generate(guest.Token, guest.ID)
		if err != nil {
			logger.Get().WarnContext(ctx, "failed to render qr image",
				zap.String("guest_id", guest.ID), zap.Error(err))
		} else {
			guest.QRPath = path
			if err := s.guestRepo.Update(ctx, guest); err != nil {
				logger.Get().WarnContext(ctx, "failed to store qr path",
					zap.String("guest_id", guest.ID), zap.Error(err))
			}
		}
	}

	s.appendGuestEntry(ctx, guest, actor, domain.ActivityGuestAdded)
	return dto.ToGuestResponse(guest), nil
}

// GetByID retrieves a guest by ID
func (s *guestService) GetByID(ctx context.Context, id string) (*dto.GuestResponse, error) {
	guest, err := s.guestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}
	return dto.ToGuestResponse(guest), nil
}

// ListByEvent retrieves all guests registered to an event
func (s *guestService) ListByEvent(ctx context.Context, eventID string, actor domain.Actor) (*dto.GuestListResponse, error) {
	if _, err := s.ownedEvent(ctx, eventID, actor); err != nil {
		return nil, err
	}

	guests, err := s.guestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return toGuestListResponse(guests, len(guests)), nil
}

// Search finds guests across the actor's events
func (s *guestService) Search(ctx context.Context, filter *dto.GuestSearchFilter, actor domain.Actor) (*dto.GuestListResponse, error) {
	filter.SetDefaults()
	guests, total, err := s.guestRepo.Search(ctx, actor.ID, filter)
	if err != nil {
		return nil, err
	}
	return toGuestListResponse(guests, total), nil
}

// Update updates a guest's mutable fields
func (s *guestService) Update(ctx context.Context, id string, req *dto.UpdateGuestRequest, actor domain.Actor) (*dto.GuestResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	guest, err := s.ownedGuest(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		guest.Name = req.Name
	}
	if req.Email != "" {
		guest.Email = req.Email
	}
	if req.Tags != "" {
		guest.Tags = req.Tags
	}

	if err := s.guestRepo.Update(ctx, guest); err != nil {
		return nil, err
	}
	return dto.ToGuestResponse(guest), nil
}

// Delete removes a guest. The guest_deleted entry is appended first so the
// ledger keeps the denormalized name after the row's guest reference is
// detached.
func (s *guestService) Delete(ctx context.Context, id string, actor domain.Actor) error {
	guest, err := s.ownedGuest(ctx, id, actor)
	if err != nil {
		return err
	}

	s.appendGuestEntry(ctx, guest, actor, domain.ActivityGuestDeleted)

	removed, err := s.guestRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrGuestNotFound
	}

	if s.qrWriter != nil {
		if err := s.qrWriter.Remove(guest.ID); err != nil {
			logger.Get().WarnContext(ctx, "failed to remove qr image",
				zap.String("guest_id", guest.ID), zap.Error(err))
		}
	}
	return nil
}

// BulkImport registers guests from an uploaded CSV or XLSX file. Rows are
// processed independently, a bad row is reported and skipped rather than
// aborting the import.
func (s *guestService) BulkImport(ctx context.Context, eventID, filename string, r io.Reader, actor domain.Actor) (*dto.BulkImportResponse, error) {
	event, err := s.ownedEvent(ctx, eventID, actor)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		rows, err = readCSVRows(r)
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		rows, err = readXLSXRows(r)
	default:
		return nil, fmt.Errorf("unsupported file type, expected .csv or .xlsx")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read guest list: %w", err)
	}

	result := &dto.BulkImportResponse{}
	for i, row := range rows {
		rowNum := i + 1
		if i == 0 && isHeaderRow(row) {
			continue
		}

		// Spreadsheet rows require only a name; missing tags import as empty.
		name, email, tags := splitImportRow(row)
		if strings.TrimSpace(name) == "" {
			result.Failed++
			result.Errors = append(result.Errors, dto.ImportRowError{Row: rowNum, Reason: "name is required"})
			continue
		}

		guest, err := s.insertWithFreshToken(ctx, event.ID, name, email, tags)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.ImportRowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		if s.qrWriter != nil {
			if path, err := s.qrWriter.Generate(guest.Token, guest.ID); err == nil {
				guest.QRPath = path
				_ = s.guestRepo.Update(ctx, guest)
			}
		}
		result.Imported++
	}

	imported, failed := result.Imported, result.Failed
	entry := &domain.ActivityLog{
		EventID: event.ID,
		ActorID: &actor.ID,
		Kind:    domain.ActivityGuestListUpdated,
		Status:  domain.ActivityStatusCompleted,
		Data: domain.ActivityData{
			ImportedCount: &imported,
			FailedCount:   &failed,
		},
		CreatedAt: s.now(),
	}
	if err := s.activityRepo.Append(ctx, entry); err != nil {
		logger.Get().WarnContext(ctx, "failed to record guest import",
			zap.String("event_id", event.ID), zap.Error(err))
	}

	return result, nil
}

// insertWithFreshToken creates a guest, reissuing the token on the rare
// collision with an existing one.
func (s *guestService) insertWithFreshToken(ctx context.Context, eventID, name, email, tags string) (*domain.Guest, error) {
	var lastErr error
	for attempt := 0; attempt < tokenRetries; attempt++ {
		guest := &domain.Guest{
			ID:        uuid.New().String(),
			EventID:   eventID,
			Name:      strings.TrimSpace(name),
			Email:     strings.TrimSpace(email),
			Tags:      strings.TrimSpace(tags),
			Token:     token.Issue(),
			CreatedAt: s.now(),
		}
		err := s.guestRepo.Create(ctx, guest)
		if err == nil {
			return guest, nil
		}
		if !errors.Is(err, repository.ErrDuplicateToken) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("could not issue a unique token: %w", lastErr)
}

func (s *guestService) appendGuestEntry(ctx context.Context, guest *domain.Guest, actor domain.Actor, kind domain.ActivityKind) {
	entry := &domain.ActivityLog{
		EventID:   guest.EventID,
		GuestID:   &guest.ID,
		ActorID:   &actor.ID,
		GuestName: guest.Name,
		Kind:      kind,
		Status:    domain.ActivityStatusCompleted,
		CreatedAt: s.now(),
	}
	if err := s.activityRepo.Append(ctx, entry); err != nil {
		logger.Get().WarnContext(ctx, "failed to record guest activity",
			zap.String("guest_id", guest.ID), zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (s *guestService) ownedEvent(ctx context.Context, eventID string, actor domain.Actor) (*domain.Event, error) {
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
	return event, nil
}

func (s *guestService) ownedGuest(ctx context.Context, id string, actor domain.Actor) (*domain.Guest, error) {
	guest, err := s.guestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}
	if _, err := s.ownedEvent(ctx, guest.EventID, actor); err != nil {
		return nil, err
	}
	return guest, nil
}

func toGuestListResponse(guests []*domain.Guest, total int) *dto.GuestListResponse {
	responses := make([]*dto.GuestResponse, 0, len(guests))
	for _, guest := range guests {
		responses = append(responses, dto.ToGuestResponse(guest))
	}
	return &dto.GuestListResponse{Guests: responses, Total: total}
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// isHeaderRow detects the conventional "name,email,tags" header line
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(row[0]), "name")
}

func splitImportRow(row []string) (name, email, tags string) {
	if len(row) > 0 {
		name = row[0]
	}
	if len(row) > 1 {
		email = row[1]
	}
	if len(row) > 2 {
		tags = row[2]
	}
	return name, email, tags
}
