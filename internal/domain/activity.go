package domain

import "time"

// ActivityKind identifies what an activity log entry records.
type ActivityKind string

const (
	ActivityEventCreated     ActivityKind = "event_created"
	ActivityEventDeleted     ActivityKind = "event_deleted"
	ActivityGuestAdded       ActivityKind = "guest_added"
	ActivityGuestDeleted     ActivityKind = "guest_deleted"
	ActivityCheckIn          ActivityKind = "check_in"
	ActivityCheckOut         ActivityKind = "check_out"
	ActivityGuestListUpdated ActivityKind = "guest_list_updated"
)

// IsValid reports whether the kind is one of the known activity kinds.
func (k ActivityKind) IsValid() bool {
	switch k {
	case ActivityEventCreated, ActivityEventDeleted, ActivityGuestAdded,
		ActivityGuestDeleted, ActivityCheckIn, ActivityCheckOut,
		ActivityGuestListUpdated:
		return true
	}
	return false
}

// ActivityStatus constants
const (
	ActivityStatusCompleted = "completed"
	ActivityStatusPending   = "pending"
	ActivityStatusFailed    = "failed"
)

// ActivityData is the structured payload attached to a ledger entry. Fields
// are optional and populated per kind: check_in sets CheckInTime and Method,
// check_out additionally pairs the check-in time and the computed duration,
// guest_list_updated carries the import counts.
type ActivityData struct {
	Method        string     `json:"method,omitempty"` // qr_code, manual
	CheckInTime   *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime  *time.Time `json:"check_out_time,omitempty"`
	DurationHours *float64   `json:"duration_hours,omitempty"`
	ImportedCount *int       `json:"imported_count,omitempty"`
	FailedCount   *int       `json:"failed_count,omitempty"`
}

// ActivityLog is one immutable entry in the append-only attendance ledger.
// Entries are never edited; the ledger is only appended to and, on event
// deletion, bulk-purged together with the event's guests. GuestName is
// denormalized so the activity feed survives guest deletion.
type ActivityLog struct {
	ID        int64        `json:"id"`
	EventID   string       `json:"event_id"`
	GuestID   *string      `json:"guest_id,omitempty"` // nil for event-level entries
	ActorID   *string      `json:"actor_id,omitempty"`
	GuestName string       `json:"guest_name,omitempty"`
	Kind      ActivityKind `json:"kind"`
	Status    string       `json:"status"`
	Data      ActivityData `json:"data"`
	CreatedAt time.Time    `json:"created_at"`
}

// CheckInMethod constants
const (
	MethodQRCode = "qr_code"
	MethodManual = "manual"
)
