// Package routes wires the v1 API surface.
package routes

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/shiftworks/quickjob/internal/api/v1/handlers"
	"github.com/shiftworks/quickjob/internal/api/v1/middleware"
)

// Handlers groups the handler sets registered under /api/v1.
type Handlers struct {
	Jobs         *handlers.JobHandler
	Applications *handlers.ApplicationHandler
	Sessions     *handlers.SessionHandler
}

// SetupRoutes configures all the v1 routes
func SetupRoutes(router fiber.Router, h Handlers) {
	router.Use(middleware.Identity())

	jobs := router.Group("/jobs")
	jobs.Post("/", h.Jobs.CreateJob)
	jobs.Get("/", h.Jobs.ListJobs)
	jobs.Get("/:id", h.Jobs.GetJob)
	jobs.Put("/:id", h.Jobs.UpdateJob)
	jobs.Post("/:id/active", h.Jobs.SetJobActive)
	jobs.Post("/:id/approve", h.Jobs.ApproveJob)

	apps := router.Group("/applications")
	apps.Post("/", h.Applications.Apply)
	apps.Get("/", h.Applications.ListApplications)
	apps.Get("/:id", h.Applications.GetApplication)
	apps.Post("/:id/not-interested", h.Applications.NotInterested)
	apps.Post("/:id/reject", h.Applications.Reject)
	apps.Post("/:id/reconsider", h.Applications.Reconsider)

	// OTP-gated work session flow
	apps.Post("/:id/accept", h.Sessions.Accept)
	apps.Post("/:id/start", h.Sessions.StartWork)
	apps.Post("/:id/complete/initiate", h.Sessions.InitiateCompletion)
	apps.Post("/:id/complete/verify", h.Sessions.VerifyCompletion)
	apps.Post("/:id/otp", h.Sessions.RequestNewOtp)
}

// Register registers the v1 routes
func Register(app *fiber.App, h Handlers) {
	v1Group := app.Group("/api/v1")
	SetupRoutes(v1Group, h)
}
