package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hardy101/Invix/internal/domain"
	"github.com/Hardy101/Invix/internal/service"
	"github.com/Hardy101/Invix/internal/token"
	"github.com/Hardy101/Invix/pkg/middleware"
	"github.com/Hardy101/Invix/pkg/response"
)

// respondError maps service errors onto the response envelope. Anything not
// recognized becomes a 500.
func respondError(c *gin.Context, err error) {
	var already *service.AlreadyCheckedInError
	var notIn *service.NotCheckedInError

	switch {
	case errors.Is(err, service.ErrEventNotFound):
		c.JSON(response.GetHTTPStatus(response.ErrCodeEventNotFound),
			response.Error(response.ErrCodeEventNotFound, "Event not found"))
	case errors.Is(err, service.ErrGuestNotFound):
		c.JSON(response.GetHTTPStatus(response.ErrCodeGuestNotFound),
			response.Error(response.ErrCodeGuestNotFound, "Guest not found"))
	case errors.Is(err, service.ErrNotEventOwner):
		c.JSON(http.StatusForbidden, response.Forbidden("Event belongs to another organizer"))
	case errors.Is(err, service.ErrEventNotUpcoming):
		c.JSON(http.StatusConflict, response.Error(response.ErrCodeConflict, "Only upcoming events can be activated"))
	case errors.Is(err, service.ErrInconsistentLedger):
		c.JSON(response.GetHTTPStatus(response.ErrCodeLedgerFault),
			response.Error(response.ErrCodeLedgerFault, err.Error()))
	case errors.Is(err, token.ErrTokenNotFound), errors.Is(err, token.ErrInvalidToken):
		c.JSON(response.GetHTTPStatus(response.ErrCodeGuestNotFound),
			response.Error(response.ErrCodeGuestNotFound, "No guest holds this token"))
	case errors.As(err, &already):
		c.JSON(response.GetHTTPStatus(response.ErrCodeAlreadyCheckedIn),
			response.ErrorWithDetails(response.ErrCodeAlreadyCheckedIn, already.Error(), map[string]string{
				"guest_name":       already.GuestName,
				"last_check_in_at": already.LastCheckInAt.Format(time.RFC3339),
			}))
	case errors.As(err, &notIn):
		c.JSON(response.GetHTTPStatus(response.ErrCodeNotCheckedIn),
			response.ErrorWithDetails(response.ErrCodeNotCheckedIn, notIn.Error(), map[string]string{
				"guest_name": notIn.GuestName,
			}))
	default:
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
	}
}

// requireActor pulls the authenticated actor from the request context. The
// auth middleware guarantees it is present on protected routes; a miss means
// the route is misconfigured.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	id, ok := middleware.GetActorID(c)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required"))
		return domain.Actor{}, false
	}
	role, _ := middleware.GetActorRole(c)
	return domain.Actor{ID: id, Role: role}, true
}
