package dto

import (
	"time"

	"github.com/Hardy101/Invix/internal/domain"
)

// CreateEventRequest represents the request to create a new event
type CreateEventRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time"`
	Location       string `json:"location" binding:"max=500"`
	ExpectedGuests int    `json:"expected_guests"`
	ImageURL       string `json:"image_url"`
	CreatedBy      string `json:"-"` // Set from context
}

// Validate validates the CreateEventRequest
func (r *CreateEventRequest) Validate() (bool, string) {
	if r.Name == "" {
		return false, "Event name is required"
	}
	if r.Date == "" {
		return false, "Event date is required"
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return false, "Event date must be in YYYY-MM-DD format"
	}
	if r.ExpectedGuests < 0 {
		return false, "Expected guests cannot be negative"
	}
	return true, ""
}

// UpdateEventRequest represents the request to update an event
type UpdateEventRequest struct {
	Name           string `json:"name" binding:"omitempty,min=1,max=200"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Location       string `json:"location" binding:"max=500"`
	ExpectedGuests *int   `json:"expected_guests"`
	ImageURL       string `json:"image_url"`
}

// Validate validates the UpdateEventRequest
func (r *UpdateEventRequest) Validate() (bool, string) {
	if r.Name == "" && r.Date == "" && r.Time == "" && r.Location == "" && r.ExpectedGuests == nil && r.ImageURL == "" {
		return false, "At least one field must be provided for update"
	}
	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			return false, "Event date must be in YYYY-MM-DD format"
		}
	}
	if r.ExpectedGuests != nil && *r.ExpectedGuests < 0 {
		return false, "Expected guests cannot be negative"
	}
	return true, ""
}

// EventResponse represents the response for an event
type EventResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Location       string `json:"location"`
	ExpectedGuests int    `json:"expected_guests"`
	Status         string `json:"status"`
	ImageURL       string `json:"image_url,omitempty"`
	CreatedBy      string `json:"created_by"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// ToEventResponse converts a domain event to its response form
func ToEventResponse(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:             e.ID,
		Name:           e.Name,
		Date:           e.Date.Format("2006-01-02"),
		Time:           e.TimeOfDay,
		Location:       e.Location,
		ExpectedGuests: e.ExpectedGuests,
		Status:         string(e.Status),
		ImageURL:       e.ImageURL,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      e.UpdatedAt.Format(time.RFC3339),
	}
}

// EventListResponse represents a list of events
type EventListResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int              `json:"total"`
}

// EventListFilter represents filters for listing events
type EventListFilter struct {
	Status    string `form:"status"`
	CreatedBy string `form:"-"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}

// SetDefaults sets default values for pagination
func (f *EventListFilter) SetDefaults() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
