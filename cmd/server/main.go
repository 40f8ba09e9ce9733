package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/accordia/accordia-backend/internal/api"
	"github.com/accordia/accordia-backend/internal/config"
	"github.com/accordia/accordia-backend/internal/database"
	"github.com/accordia/accordia-backend/internal/llm"
	"github.com/accordia/accordia-backend/internal/memory"
	"github.com/accordia/accordia-backend/internal/repository/postgres"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	oracle, err := llm.NewProvider(cfg.Oracle)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize summarization provider")
	}

	disputeRepo := postgres.NewDisputeRepository(db.DB)
	messageRepo := postgres.NewMessageRepository(db.DB)
	summaryRepo := postgres.NewSummaryRepository(db.DB)

	memoryService := memory.NewService(disputeRepo, messageRepo, summaryRepo, oracle, cfg.Memory, log)

	app := fiber.New(fiber.Config{
		AppName:      "Accordia Memory Service",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	api.SetupRoutes(app, disputeRepo, messageRepo, memoryService, cfg.Auth.ServiceSecret, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.WithField("addr", addr).Info("accordia memory service starting")
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
