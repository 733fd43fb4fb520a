package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hardy101/Invix/internal/dto"
	"github.com/Hardy101/Invix/internal/service"
	"github.com/Hardy101/Invix/pkg/response"
)

// AnalyticsHandler handles attendance analytics HTTP requests
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Summarize reports headcounts and the hourly check-in histogram
// GET /api/v1/events/:id/analytics
func (h *AnalyticsHandler) Summarize(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var query dto.AnalyticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := query.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeValidationFailed, msg))
		return
	}

	result, err := h.analyticsService.Summarize(c.Request.Context(), c.Param("id"), &query, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}
