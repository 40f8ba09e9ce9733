package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/accordia/accordia-backend/internal/api/handlers"
	"github.com/accordia/accordia-backend/internal/api/middleware"
	"github.com/accordia/accordia-backend/internal/memory"
	"github.com/accordia/accordia-backend/internal/repository"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	app *fiber.App,
	disputes repository.DisputeRepository,
	messages repository.MessageRepository,
	memoryService *memory.Service,
	serviceSecret string,
	logger *logrus.Logger,
) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "accordia-memory",
		})
	})

	api.Use(middleware.ServiceAuth(serviceSecret))

	disputeHandler := handlers.NewDisputeHandler(disputes, messages, memoryService, logger)
	api.Post("/disputes", disputeHandler.CreateDispute)
	api.Post("/disputes/:id/messages", disputeHandler.PostMessage)

	memoryHandler := handlers.NewMemoryHandler(memoryService)
	api.Get("/disputes/:id/context", memoryHandler.GetContext)
	api.Get("/disputes/:id/summaries", memoryHandler.ListSummaries)
	api.Post("/disputes/:id/summaries", memoryHandler.Summarize)
	api.Post("/disputes/:id/summaries/full", memoryHandler.SummarizeFull)
}
