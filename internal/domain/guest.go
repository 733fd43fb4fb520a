package domain

import "time"

// Guest represents an invited guest. A guest belongs to exactly one event and
// carries a globally unique opaque token embedded in their QR code. The token
// is assigned at creation and never reassigned or reused across guests.
type Guest struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Tags      string    `json:"tags"` // comma-joined free-text tags
	Email     string    `json:"email,omitempty"`
	Token     string    `json:"token"`
	QRPath    string    `json:"qr_path,omitempty"` // render artifact, opaque to the core
	CreatedAt time.Time `json:"created_at"`
}
