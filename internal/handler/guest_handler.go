package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hardy101/Invix/internal/dto"
	"github.com/Hardy101/Invix/internal/service"
	"github.com/Hardy101/Invix/pkg/response"
)

// maxImportSize bounds uploaded guest list files
const maxImportSize = 10 << 20 // 10 MiB

// GuestHandler handles guest management HTTP requests
type GuestHandler struct {
	guestService service.GuestService
	qrPath       func(guestID string) string
}

// NewGuestHandler creates a new GuestHandler. qrPath resolves a guest's QR
// image location on disk and may be nil when QR artifacts are not served.
func NewGuestHandler(guestService service.GuestService, qrPath func(guestID string) string) *GuestHandler {
	return &GuestHandler{guestService: guestService, qrPath: qrPath}
}

// Create registers a guest for an event
// POST /api/v1/events/:id/guests
func (h *GuestHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	req.EventID = c.Param("id")

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeValidationFailed, msg))
		return
	}

	result, err := h.guestService.Create(c.Request.Context(), &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(result))
}

// ListByEvent lists all guests registered to an event
// GET /api/v1/events/:id/guests
func (h *GuestHandler) ListByEvent(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.guestService.ListByEvent(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// GetByID retrieves a single guest
// GET /api/v1/guests/:id
func (h *GuestHandler) GetByID(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	result, err := h.guestService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// Search finds guests across the actor's events
// GET /api/v1/guests/search?q=
func (h *GuestHandler) Search(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var filter dto.GuestSearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.guestService.Search(c.Request.Context(), &filter, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// Update updates a guest's details
// PUT /api/v1/guests/:id
func (h *GuestHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeValidationFailed, msg))
		return
	}

	result, err := h.guestService.Update(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// Delete removes a guest
// DELETE /api/v1/guests/:id
func (h *GuestHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.guestService.Delete(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"deleted": true}))
}

// BulkImport registers guests from an uploaded CSV or XLSX file
// POST /api/v1/events/:id/guests/import
func (h *GuestHandler) BulkImport(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("A guest list file is required"))
		return
	}
	if fileHeader.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, response.BadRequest("Guest list file is too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}
	defer file.Close()

	result, err := h.guestService.BulkImport(c.Request.Context(), c.Param("id"), fileHeader.Filename, file, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// QRCode serves the guest's rendered QR image
// GET /api/v1/guests/:id/qrcode
func (h *GuestHandler) QRCode(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	if h.qrPath == nil {
		c.JSON(http.StatusNotFound, response.NotFound("QR images are not enabled"))
		return
	}

	// confirm the guest exists before touching disk
	guest, err := h.guestService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.File(h.qrPath(guest.ID))
}
