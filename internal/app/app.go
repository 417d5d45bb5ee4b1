// Package app assembles the service: store, caches, guards, services and
// the fiber application.
package app

import (
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/shiftworks/quickjob/internal/api/v1/handlers"
	"github.com/shiftworks/quickjob/internal/api/v1/middleware"
	"github.com/shiftworks/quickjob/internal/api/v1/routes"
	"github.com/shiftworks/quickjob/internal/cache"
	"github.com/shiftworks/quickjob/internal/config"
	"github.com/shiftworks/quickjob/internal/db/repos"
	"github.com/shiftworks/quickjob/internal/guard"
	"github.com/shiftworks/quickjob/internal/otp"
	"github.com/shiftworks/quickjob/internal/services"
	"github.com/shiftworks/quickjob/internal/types"
)

// New builds the fiber application with all services wired against db.
// The guard and cache are constructed here, once per service instance, and
// handed to whoever needs them; nothing in the core holds ambient globals.
func New(cfg *config.Config, db *gorm.DB) *fiber.App {
	jobRepo := repos.NewJobRepository(db)
	appRepo := repos.NewApplicationRepository(db)
	sessionRepo := repos.NewWorkSessionRepository(db)

	opGuard := guard.New(time.Duration(cfg.Workflow.GuardTTLSeconds) * time.Second)
	jobCache := cache.New(time.Duration(cfg.Workflow.JobCacheTTLMinutes)*time.Minute, cfg.Workflow.JobCacheSize)
	issuer := otp.NewIssuer(time.Duration(cfg.Workflow.OTPTTLMinutes) * time.Minute)

	sessionService := services.NewWorkSessionService(appRepo, jobRepo, sessionRepo, opGuard, issuer)
	appService := services.NewApplicationService(appRepo, jobRepo, sessionService, jobCache, opGuard)
	jobService := services.NewJobService(jobRepo, jobCache)

	// Subscribes to the workflow event bus; events start flowing once the
	// caller starts the processing loop.
	services.NewNotifier()

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(middleware.Logger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	routes.Register(app, routes.Handlers{
		Jobs:         handlers.NewJobHandler(jobService, appService),
		Applications: handlers.NewApplicationHandler(appService),
		Sessions:     handlers.NewSessionHandler(sessionService),
	})

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(types.ErrServer(err.Error()))
}
