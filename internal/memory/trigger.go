package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/accordia/accordia-backend/internal/models"
	"github.com/accordia/accordia-backend/internal/repository"
)

// Evaluation is the trigger's verdict for one dispute.
type Evaluation struct {
	// Needed reports whether enough unsummarized messages have accumulated.
	Needed bool
	// Watermark is the highest message id already covered by an incremental
	// summary; 0 when no incremental summary exists.
	Watermark int64
	// Batch holds every unsummarized message, oldest first, when Needed is
	// true. The threshold is a minimum trigger, not a batch cap: all
	// qualifying messages are summarized in one batch.
	Batch []models.Message
}

// Trigger decides whether accumulated unsummarized messages warrant a new
// incremental summary. It is read-only; summary creation belongs to the
// Generator.
type Trigger struct {
	disputes  repository.DisputeRepository
	messages  repository.MessageRepository
	summaries repository.SummaryRepository
	threshold int
	logger    *logrus.Logger
}

// NewTrigger creates a trigger with an explicit threshold.
func NewTrigger(
	disputes repository.DisputeRepository,
	messages repository.MessageRepository,
	summaries repository.SummaryRepository,
	threshold int,
	logger *logrus.Logger,
) *Trigger {
	return &Trigger{
		disputes:  disputes,
		messages:  messages,
		summaries: summaries,
		threshold: threshold,
		logger:    logger,
	}
}

// Evaluate determines the watermark for a dispute and returns the batch of
// qualifying messages when the threshold is met. A missing dispute is
// non-fatal: the caller may be racing a deletion.
func (t *Trigger) Evaluate(ctx context.Context, disputeID string) (Evaluation, error) {
	if _, err := t.disputes.Get(ctx, disputeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Evaluation{}, nil
		}
		return Evaluation{}, fmt.Errorf("failed to load dispute: %w", err)
	}

	watermark, err := t.watermark(ctx, disputeID)
	if err != nil {
		return Evaluation{}, err
	}

	count, err := t.messages.CountAfter(ctx, disputeID, watermark)
	if err != nil {
		return Evaluation{}, fmt.Errorf("failed to count unsummarized messages: %w", err)
	}
	if count < t.threshold {
		return Evaluation{Watermark: watermark}, nil
	}

	pending, err := t.messages.ListAfter(ctx, disputeID, watermark)
	if err != nil {
		return Evaluation{}, fmt.Errorf("failed to load unsummarized messages: %w", err)
	}

	t.logger.WithFields(logrus.Fields{
		"dispute_id": disputeID,
		"watermark":  watermark,
		"pending":    len(pending),
	}).Debug("summary threshold reached")

	return Evaluation{Needed: true, Watermark: watermark, Batch: pending}, nil
}

func (t *Trigger) watermark(ctx context.Context, disputeID string) (int64, error) {
	latest, err := t.summaries.LatestIncremental(ctx, disputeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load latest summary: %w", err)
	}
	return latest.MessagesTo, nil
}
