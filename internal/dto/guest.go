package dto

import (
	"strings"
	"time"

	"github.com/Hardy101/Invix/internal/domain"
)

// CreateGuestRequest represents the request to register a guest for an event
type CreateGuestRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"omitempty,email"`
	Tags    string `json:"tags" binding:"required,max=500"`
	EventID string `json:"-"` // Set from the route
}

// Validate validates the CreateGuestRequest. Tags are required: every guest
// carries at least one tag for grouping and search.
func (r *CreateGuestRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Name) == "" {
		return false, "Guest name is required"
	}
	if strings.TrimSpace(r.Tags) == "" {
		return false, "Guest tags are required"
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		return false, "Email address is invalid"
	}
	return true, ""
}

// UpdateGuestRequest represents the request to update a guest record
type UpdateGuestRequest struct {
	Name  string `json:"name" binding:"omitempty,min=1,max=200"`
	Email string `json:"email" binding:"omitempty,email"`
	Tags  string `json:"tags" binding:"max=500"`
}

// Validate validates the UpdateGuestRequest
func (r *UpdateGuestRequest) Validate() (bool, string) {
	if r.Name == "" && r.Email == "" && r.Tags == "" {
		return false, "At least one field must be provided for update"
	}
	return true, ""
}

// GuestResponse represents the response for a guest
type GuestResponse struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Tags      string `json:"tags,omitempty"`
	Token     string `json:"qr_token"`
	QRPath    string `json:"qr_path,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ToGuestResponse converts a domain guest to its response form
func ToGuestResponse(g *domain.Guest) *GuestResponse {
	return &GuestResponse{
		ID:        g.ID,
		EventID:   g.EventID,
		Name:      g.Name,
		Email:     g.Email,
		Tags:      g.Tags,
		Token:     g.Token,
		QRPath:    g.QRPath,
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
	}
}

// GuestListResponse represents a list of guests
type GuestListResponse struct {
	Guests []*GuestResponse `json:"guests"`
	Total  int              `json:"total"`
}

// GuestSearchFilter represents filters for searching guests
type GuestSearchFilter struct {
	Query  string `form:"q"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// SetDefaults sets default values for pagination
func (f *GuestSearchFilter) SetDefaults() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ImportRowError describes a single rejected row from a bulk import
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// BulkImportResponse summarizes the outcome of a bulk guest import
type BulkImportResponse struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}
