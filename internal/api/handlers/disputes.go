package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/accordia/accordia-backend/internal/memory"
	"github.com/accordia/accordia-backend/internal/models"
	"github.com/accordia/accordia-backend/internal/repository"
)

// DisputeHandler feeds disputes and messages into the stores the memory
// pipeline reads from.
type DisputeHandler struct {
	disputes repository.DisputeRepository
	messages repository.MessageRepository
	memory   *memory.Service
	logger   *logrus.Logger
}

func NewDisputeHandler(
	disputes repository.DisputeRepository,
	messages repository.MessageRepository,
	memoryService *memory.Service,
	logger *logrus.Logger,
) *DisputeHandler {
	return &DisputeHandler{
		disputes: disputes,
		messages: messages,
		memory:   memoryService,
		logger:   logger,
	}
}

// CreateDispute handles POST /api/v1/disputes
func (h *DisputeHandler) CreateDispute(c *fiber.Ctx) error {
	var req struct {
		Title         string `json:"title"`
		PlaintiffID   string `json:"plaintiff_id"`
		PlaintiffName string `json:"plaintiff_name"`
		DefendantID   string `json:"defendant_id"`
		DefendantName string `json:"defendant_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" || req.PlaintiffID == "" || req.DefendantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title, plaintiff_id and defendant_id are required",
		})
	}

	id, err := h.disputes.Create(c.Context(), models.Dispute{
		Title:         req.Title,
		PlaintiffID:   req.PlaintiffID,
		PlaintiffName: req.PlaintiffName,
		DefendantID:   req.DefendantID,
		DefendantName: req.DefendantName,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to create dispute",
			"details": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// PostMessage handles POST /api/v1/disputes/:id/messages. After each write
// the summarization trigger is consulted in the background; the oracle call
// takes seconds and must not block the message feed.
func (h *DisputeHandler) PostMessage(c *fiber.Ctx) error {
	disputeID := c.Params("id")

	var req struct {
		SenderID string `json:"sender_id"`
		Content  string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.SenderID == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "sender_id and content are required",
		})
	}

	if _, err := h.disputes.Get(c.Context(), disputeID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Dispute not found",
		})
	}

	id, err := h.messages.Create(c.Context(), models.Message{
		DisputeID: disputeID,
		SenderID:  req.SenderID,
		Content:   req.Content,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to store message",
			"details": err.Error(),
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := h.memory.SummarizeIfNeeded(ctx, disputeID); err != nil {
			h.logger.WithField("dispute_id", disputeID).
				WithError(err).Error("background summarization failed")
		}
	}()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}
