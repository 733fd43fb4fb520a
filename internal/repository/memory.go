package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/dto"
)

// MemoryStore is an in-memory implementation of the event, guest, and
// activity repositories. It mirrors the relational semantics of the Postgres
// implementations, including global token uniqueness and the ledger ordering
// rules, and backs the service test suites. The three repository views share
// one store so cross-table semantics (cascade, reference checks) hold.
type MemoryStore struct {
	mu        sync.RWMutex
	events    map[string]*domain.Event
	guests    map[string]*domain.Guest
	byToken   map[string]string // token -> guest id
	logs      []*domain.ActivityLog
	nextLogID int64
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:  make(map[string]*domain.Event),
		guests:  make(map[string]*domain.Guest),
		byToken: make(map[string]string),
	}
}

// Events returns the EventRepository view of the store
func (s *MemoryStore) Events() EventRepository { return &memoryEventRepo{s} }

// Guests returns the GuestRepository view of the store
func (s *MemoryStore) Guests() GuestRepository { return &memoryGuestRepo{s} }

// Activities returns the ActivityRepository view of the store
func (s *MemoryStore) Activities() ActivityRepository { return &memoryActivityRepo{s} }

type memoryEventRepo struct{ s *MemoryStore }
type memoryGuestRepo struct{ s *MemoryStore }
type memoryActivityRepo struct{ s *MemoryStore }

var (
	_ EventRepository    = (*memoryEventRepo)(nil)
	_ GuestRepository    = (*memoryGuestRepo)(nil)
	_ ActivityRepository = (*memoryActivityRepo)(nil)
)

func copyEvent(e *domain.Event) *domain.Event {
	c := *e
	return &c
}

func copyGuest(g *domain.Guest) *domain.Guest {
	c := *g
	return &c
}

func copyLog(l *domain.ActivityLog) *domain.ActivityLog {
	c := *l
	return &c
}

func (r *memoryEventRepo) Create(ctx context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events[event.ID] = copyEvent(event)
	return nil
}

func (r *memoryEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	event, ok := r.s.events[id]
	if !ok {
		return nil, nil
	}
	return copyEvent(event), nil
}

func (r *memoryEventRepo) List(ctx context.Context, filter *dto.EventListFilter) ([]*domain.Event, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*domain.Event{}
	for _, event := range r.s.events {
		if filter.CreatedBy != "" && event.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Status != "" && string(event.Status) != filter.Status {
			continue
		}
		matched = append(matched, copyEvent(event))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	return page(matched, filter.Offset, filter.Limit), total, nil
}

func (r *memoryEventRepo) Update(ctx context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.events[event.ID]
	if !ok {
		return ErrBadReference
	}
	updated := copyEvent(event)
	updated.Status = existing.Status
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	r.s.events[event.ID] = updated
	return nil
}

func (r *memoryEventRepo) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event, ok := r.s.events[id]
	if !ok {
		return ErrBadReference
	}
	event.Status = status
	return nil
}

func (r *memoryEventRepo) DeleteCascade(ctx context.Context, id string) (*CascadeResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return nil, ErrBadReference
	}

	result := &CascadeResult{}

	kept := r.s.logs[:0]
	for _, log := range r.s.logs {
		if log.EventID == id {
			result.LogsDeleted++
			continue
		}
		kept = append(kept, log)
	}
	r.s.logs = kept

	for guestID, guest := range r.s.guests {
		if guest.EventID != id {
			continue
		}
		delete(r.s.byToken, guest.Token)
		delete(r.s.guests, guestID)
		result.GuestsDeleted++
	}

	delete(r.s.events, id)
	return result, nil
}

func (r *memoryGuestRepo) Create(ctx context.Context, guest *domain.Guest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.byToken[guest.Token]; taken {
		return ErrDuplicateToken
	}
	if _, ok := r.s.events[guest.EventID]; !ok {
		return ErrBadReference
	}
	r.s.guests[guest.ID] = copyGuest(guest)
	r.s.byToken[guest.Token] = guest.ID
	return nil
}

func (r *memoryGuestRepo) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	guest, ok := r.s.guests[id]
	if !ok {
		return nil, nil
	}
	return copyGuest(guest), nil
}

func (r *memoryGuestRepo) GetByToken(ctx context.Context, token string) (*domain.Guest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.byToken[token]
	if !ok {
		return nil, nil
	}
	return copyGuest(r.s.guests[id]), nil
}

func (r *memoryGuestRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	guests := []*domain.Guest{}
	for _, guest := range r.s.guests {
		if guest.EventID == eventID {
			guests = append(guests, copyGuest(guest))
		}
	}
	sort.Slice(guests, func(i, j int) bool {
		if !guests[i].CreatedAt.Equal(guests[j].CreatedAt) {
			return guests[i].CreatedAt.Before(guests[j].CreatedAt)
		}
		return guests[i].ID < guests[j].ID
	})
	return guests, nil
}

func (r *memoryGuestRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, guest := range r.s.guests {
		if guest.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (r *memoryGuestRepo) Search(ctx context.Context, ownerID string, filter *dto.GuestSearchFilter) ([]*domain.Guest, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	matched := []*domain.Guest{}
	for _, guest := range r.s.guests {
		event, ok := r.s.events[guest.EventID]
		if !ok || event.CreatedBy != ownerID {
			continue
		}
		if strings.Contains(strings.ToLower(guest.Name), query) ||
			strings.Contains(strings.ToLower(guest.Email), query) ||
			strings.Contains(strings.ToLower(guest.Tags), query) {
			matched = append(matched, copyGuest(guest))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	return page(matched, filter.Offset, filter.Limit), total, nil
}

func (r *memoryGuestRepo) Update(ctx context.Context, guest *domain.Guest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.guests[guest.ID]
	if !ok {
		return ErrBadReference
	}
	existing.Name = guest.Name
	existing.Tags = guest.Tags
	existing.Email = guest.Email
	existing.QRPath = guest.QRPath
	return nil
}

func (r *memoryGuestRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	guest, ok := r.s.guests[id]
	if !ok {
		return false, nil
	}
	delete(r.s.byToken, guest.Token)
	delete(r.s.guests, id)
	// guests cascade with SET NULL on their ledger rows
	for _, log := range r.s.logs {
		if log.GuestID != nil && *log.GuestID == id {
			log.GuestID = nil
		}
	}
	return true, nil
}

func (r *memoryActivityRepo) Append(ctx context.Context, log *domain.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[log.EventID]; !ok {
		return ErrBadReference
	}
	if log.GuestID != nil {
		if _, ok := r.s.guests[*log.GuestID]; !ok {
			return ErrBadReference
		}
	}

	r.s.nextLogID++
	entry := copyLog(log)
	entry.ID = r.s.nextLogID
	r.s.logs = append(r.s.logs, entry)
	log.ID = entry.ID
	return nil
}

func (r *memoryActivityRepo) LatestForGuest(ctx context.Context, guestID string) (*domain.ActivityLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest *domain.ActivityLog
	for _, log := range r.s.logs {
		if log.GuestID == nil || *log.GuestID != guestID {
			continue
		}
		if log.Kind != domain.ActivityCheckIn && log.Kind != domain.ActivityCheckOut {
			continue
		}
		if log.Status != domain.ActivityStatusCompleted {
			continue
		}
		if latest == nil || log.CreatedAt.After(latest.CreatedAt) ||
			(log.CreatedAt.Equal(latest.CreatedAt) && log.ID > latest.ID) {
			latest = log
		}
	}
	if latest == nil {
		return nil, nil
	}
	return copyLog(latest), nil
}

func (r *memoryActivityRepo) ListByEvent(ctx context.Context, eventID string, filter *dto.ActivityLogFilter) ([]*domain.ActivityLog, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*domain.ActivityLog{}
	for _, log := range r.s.logs {
		if log.EventID != eventID {
			continue
		}
		if filter.Kind != "" && string(log.Kind) != filter.Kind {
			continue
		}
		matched = append(matched, copyLog(log))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	return page(matched, filter.Offset, filter.Limit), total, nil
}

func (r *memoryActivityRepo) FeedByEvent(ctx context.Context, eventID string) ([]*domain.ActivityLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*domain.ActivityLog{}
	for _, log := range r.s.logs {
		if log.EventID != eventID {
			continue
		}
		matched = append(matched, copyLog(log))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return matched, nil
}

func (r *memoryActivityRepo) AttendanceByEvent(ctx context.Context, eventID string) ([]*domain.ActivityLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*domain.ActivityLog{}
	for _, log := range r.s.logs {
		if log.EventID != eventID {
			continue
		}
		if log.Kind != domain.ActivityCheckIn && log.Kind != domain.ActivityCheckOut {
			continue
		}
		if log.Status != domain.ActivityStatusCompleted {
			continue
		}
		matched = append(matched, copyLog(log))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
