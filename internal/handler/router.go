package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hardy101/Invix/pkg/middleware"
)

// RouterConfig carries the handlers and middleware settings the router wires
// together
type RouterConfig struct {
	Events     *EventHandler
	Guests     *GuestHandler
	Attendance *AttendanceHandler
	Analytics  *AnalyticsHandler
	Health     *HealthHandler

	Auth      *middleware.AuthConfig
	RateLimit *middleware.RateLimitConfig
}

// NewRouter builds the gin engine with all routes registered. Token scan
// endpoints are public so kiosks and phones can hit them without accounts;
// everything touching organizer data sits behind auth.
func NewRouter(cfg *RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	if cfg.RateLimit != nil {
		r.Use(middleware.RateLimiter(*cfg.RateLimit))
	}

	r.GET("/health", cfg.Health.Health)
	r.GET("/ready", cfg.Health.Ready)

	api := r.Group("/api/v1")

	// token scan surface, no auth
	api.POST("/check-in/:token", cfg.Attendance.CheckIn)
	api.POST("/check-out/:token", cfg.Attendance.CheckOut)
	api.GET("/tokens/:token", cfg.Attendance.Resolve)

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.Auth))

	events := authed.Group("/events")
	{
		events.POST("", cfg.Events.Create)
		events.GET("", cfg.Events.List)
		events.GET("/:id", cfg.Events.GetByID)
		events.PUT("/:id", cfg.Events.Update)
		events.POST("/:id/activate", cfg.Events.Activate)
		events.DELETE("/:id", cfg.Events.Delete)

		events.POST("/:id/guests", cfg.Guests.Create)
		events.GET("/:id/guests", cfg.Guests.ListByEvent)
		events.POST("/:id/guests/import", cfg.Guests.BulkImport)

		events.GET("/:id/analytics", cfg.Analytics.Summarize)
		events.GET("/:id/activity", cfg.Attendance.ActivityFeed)
	}

	guests := authed.Group("/guests")
	{
		guests.GET("/search", cfg.Guests.Search)
		guests.GET("/:id", cfg.Guests.GetByID)
		guests.PUT("/:id", cfg.Guests.Update)
		guests.DELETE("/:id", cfg.Guests.Delete)
		guests.GET("/:id/qrcode", cfg.Guests.QRCode)
		guests.GET("/:id/attendance", cfg.Attendance.Status)
	}

	return r
}
