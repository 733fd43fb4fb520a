package dto

import (
	"time"

	"github.com/Hardy101/Invix/internal/domain"
)

// CheckRequest represents the body of a check-in or check-out call
type CheckRequest struct {
	Method string `json:"method"`
}

// SetDefaults fills the scan method when the caller omits it
func (r *CheckRequest) SetDefaults() {
	if r.Method == "" {
		r.Method = domain.MethodQRCode
	}
}

// Validate validates the CheckRequest
func (r *CheckRequest) Validate() (bool, string) {
	if r.Method != domain.MethodQRCode && r.Method != domain.MethodManual {
		return false, "Method must be qr_code or manual"
	}
	return true, ""
}

// CheckResponse represents the outcome of a check-in or check-out
type CheckResponse struct {
	GuestID       string   `json:"guest_id"`
	GuestName     string   `json:"guest_name"`
	EventID       string   `json:"event_id"`
	State         string   `json:"state"`
	At            string   `json:"at"`
	DurationHours *float64 `json:"duration_hours,omitempty"`
}

// TokenResolutionResponse carries everything a scan station needs to show
// after reading a token: the guest, their event, and the current state
type TokenResolutionResponse struct {
	Guest *GuestResponse `json:"guest"`
	Event *EventResponse `json:"event,omitempty"`
	State string         `json:"state"`
}

// AttendanceStatusResponse reports the derived state of a single guest
type AttendanceStatusResponse struct {
	GuestID   string `json:"guest_id"`
	GuestName string `json:"guest_name"`
	State     string `json:"state"`
	LastSeen  string `json:"last_seen,omitempty"`
}

// ActivityLogResponse represents one ledger entry
type ActivityLogResponse struct {
	ID        int64               `json:"id"`
	EventID   string              `json:"event_id"`
	GuestID   *string             `json:"guest_id,omitempty"`
	GuestName string              `json:"guest_name,omitempty"`
	Kind      string              `json:"kind"`
	Status    string              `json:"status"`
	Data      domain.ActivityData `json:"data"`
	CreatedAt string              `json:"created_at"`
}

// ToActivityLogResponse converts a ledger entry to its response form
func ToActivityLogResponse(l *domain.ActivityLog) *ActivityLogResponse {
	return &ActivityLogResponse{
		ID:        l.ID,
		EventID:   l.EventID,
		GuestID:   l.GuestID,
		GuestName: l.GuestName,
		Kind:      string(l.Kind),
		Status:    string(l.Status),
		Data:      l.Data,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
}

// ActivityLogListResponse represents a page of ledger entries
type ActivityLogListResponse struct {
	Logs  []*ActivityLogResponse `json:"logs"`
	Total int                    `json:"total"`
}

// ActivityLogFilter represents filters for listing ledger entries
type ActivityLogFilter struct {
	Kind   string `form:"kind"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// SetDefaults sets default values for pagination
func (f *ActivityLogFilter) SetDefaults() {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
