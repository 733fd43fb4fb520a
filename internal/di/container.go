package di

import (
	"github.com/Hardy101/Invix/internal/handler"
	"github.com/Hardy101/Invix/internal/qrcode"
	"github.com/Hardy101/Invix/internal/repository"
	"github.com/Hardy101/Invix/internal/service"
	"github.com/Hardy101/Invix/internal/token"
	"github.com/Hardy101/Invix/pkg/config"
	"github.com/Hardy101/Invix/pkg/database"
)

// Container holds all dependencies for the attendance service
type Container struct {
	// Infrastructure
	DB       *database.PostgresDB
	Registry *token.Registry
	QRCodes  *qrcode.Generator

	// Repositories
	EventRepo    repository.EventRepository
	GuestRepo    repository.GuestRepository
	ActivityRepo repository.ActivityRepository

	// Services
	EventService      service.EventService
	GuestService      service.GuestService
	AttendanceService service.AttendanceService
	AnalyticsService  service.AnalyticsService
	ActivityService   service.ActivityFeedService

	// Handlers
	HealthHandler     *handler.HealthHandler
	EventHandler      *handler.EventHandler
	GuestHandler      *handler.GuestHandler
	AttendanceHandler *handler.AttendanceHandler
	AnalyticsHandler  *handler.AnalyticsHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB  *database.PostgresDB
	Cfg *config.Config
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB: cfg.DB,
	}

	// Initialize repositories
	c.EventRepo = repository.NewPostgresEventRepository(c.DB.Pool())
	c.GuestRepo = repository.NewPostgresGuestRepository(c.DB.Pool())
	c.ActivityRepo = repository.NewPostgresActivityRepository(c.DB.Pool())

	// Initialize infrastructure built on repositories
	c.Registry = token.NewRegistry(c.GuestRepo)
	c.QRCodes = qrcode.NewGenerator(cfg.Cfg.Assets.QRCodeDir)

	// Initialize services
	c.EventService = service.NewEventService(c.EventRepo, c.GuestRepo, c.ActivityRepo, c.QRCodes, nil)
	c.GuestService = service.NewGuestService(c.GuestRepo, c.EventRepo, c.ActivityRepo, c.QRCodes, nil)
	c.AttendanceService = service.NewAttendanceService(c.Registry, c.GuestRepo, c.EventRepo, c.ActivityRepo, nil)
	c.AnalyticsService = service.NewAnalyticsService(c.EventRepo, c.GuestRepo, c.ActivityRepo, service.HistogramWindow{
		StartHour: cfg.Cfg.Attendance.HistogramStartHour,
		EndHour:   cfg.Cfg.Attendance.HistogramEndHour,
	}, nil)
	c.ActivityService = service.NewActivityFeedService(c.EventRepo, c.ActivityRepo)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB)
	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.GuestHandler = handler.NewGuestHandler(c.GuestService, c.QRCodes.Path)
	c.AttendanceHandler = handler.NewAttendanceHandler(c.AttendanceService, c.ActivityService)
	c.AnalyticsHandler = handler.NewAnalyticsHandler(c.AnalyticsService)

	return c
}
