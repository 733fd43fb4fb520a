package domain

import "time"

// Event represents an event that guests are invited to
type Event struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Date           time.Time   `json:"date"`
	TimeOfDay      string      `json:"time,omitempty"` // free-form "18:30" style display time
	Location       string      `json:"location"`
	ExpectedGuests int         `json:"expected_guests"`
	Status         EventStatus `json:"status"`
	ImageURL       string      `json:"image_url"`
	CreatedBy      string      `json:"created_by"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// EventStatus is an event's lifecycle phase. It only ever advances
// upcoming -> active.
type EventStatus string

const (
	EventStatusUpcoming EventStatus = "upcoming"
	EventStatusActive   EventStatus = "active"
)

// IsOwnedBy reports whether the given actor created the event.
func (e *Event) IsOwnedBy(actor Actor) bool {
	return e.CreatedBy == actor.ID
}

// Actor is the authenticated identity performing a mutating action. It is
// supplied by the auth collaborator; this service never derives it itself.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}
