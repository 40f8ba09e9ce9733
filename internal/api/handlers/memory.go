package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/accordia/accordia-backend/internal/memory"
)

// MemoryHandler exposes the conversation-memory operations to the
// AI-analysis orchestration layer.
type MemoryHandler struct {
	memory *memory.Service
}

func NewMemoryHandler(memoryService *memory.Service) *MemoryHandler {
	return &MemoryHandler{memory: memoryService}
}

// GetContext handles GET /api/v1/disputes/:id/context
func (h *MemoryHandler) GetContext(c *fiber.Ctx) error {
	disputeID := c.Params("id")

	result, err := h.memory.BuildContext(c.Context(), disputeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to build context",
			"details": err.Error(),
		})
	}
	if result == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Dispute not found",
		})
	}

	return c.JSON(result)
}

// ListSummaries handles GET /api/v1/disputes/:id/summaries
func (h *MemoryHandler) ListSummaries(c *fiber.Ctx) error {
	disputeID := c.Params("id")

	summaries, err := h.memory.ListSummaries(c.Context(), disputeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to fetch summaries",
			"details": err.Error(),
		})
	}

	return c.JSON(summaries)
}

// Summarize handles POST /api/v1/disputes/:id/summaries. It evaluates the
// trigger on demand; when the threshold has not been reached no summary is
// produced and the batch stays untouched.
func (h *MemoryHandler) Summarize(c *fiber.Ctx) error {
	disputeID := c.Params("id")

	summary, err := h.memory.SummarizeIfNeeded(c.Context(), disputeID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Summarization failed",
			"details": err.Error(),
		})
	}
	if summary == nil {
		return c.JSON(fiber.Map{"summarized": false})
	}

	return c.Status(fiber.StatusCreated).JSON(summary)
}

// SummarizeFull handles POST /api/v1/disputes/:id/summaries/full. It
// produces an on-demand recap of the entire dispute history, independent of
// the incremental chain.
func (h *MemoryHandler) SummarizeFull(c *fiber.Ctx) error {
	disputeID := c.Params("id")

	summary, err := h.memory.SummarizeFull(c.Context(), disputeID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Summarization failed",
			"details": err.Error(),
		})
	}
	if summary == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Dispute not found",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(summary)
}
