package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hardy101/Invix/internal/dto"
	"github.com/Hardy101/Invix/internal/service"
	"github.com/Hardy101/Invix/pkg/response"
)

// AttendanceHandler handles token scans and attendance queries
type AttendanceHandler struct {
	attendanceService service.AttendanceService
	activityService   service.ActivityFeedService
}

// NewAttendanceHandler creates a new AttendanceHandler
func NewAttendanceHandler(attendanceService service.AttendanceService, activityService service.ActivityFeedService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		activityService:   activityService,
	}
}

// bindCheckRequest reads the optional check body. Scanners often POST an
// empty body, which means QR method defaults.
func bindCheckRequest(c *gin.Context) (*dto.CheckRequest, bool) {
	var req dto.CheckRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
			c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
			return nil, false
		}
	}
	req.SetDefaults()
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeValidationFailed, msg))
		return nil, false
	}
	return &req, true
}

// CheckIn records a check-in for the guest holding the token
// POST /api/v1/check-in/:token
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	req, ok := bindCheckRequest(c)
	if !ok {
		return
	}

	result, err := h.attendanceService.CheckIn(c.Request.Context(), c.Param("token"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// CheckOut records a check-out for the guest holding the token
// POST /api/v1/check-out/:token
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	req, ok := bindCheckRequest(c)
	if !ok {
		return
	}

	result, err := h.attendanceService.CheckOut(c.Request.Context(), c.Param("token"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// Resolve maps a token to its guest without recording anything
// GET /api/v1/tokens/:token
func (h *AttendanceHandler) Resolve(c *gin.Context) {
	result, err := h.attendanceService.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// Status reports a guest's derived attendance state
// GET /api/v1/guests/:id/attendance
func (h *AttendanceHandler) Status(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	result, err := h.attendanceService.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// ActivityFeed lists an event's ledger entries, newest first
// GET /api/v1/events/:id/activity
func (h *AttendanceHandler) ActivityFeed(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var filter dto.ActivityLogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.activityService.ListByEvent(c.Request.Context(), c.Param("id"), &filter, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}
