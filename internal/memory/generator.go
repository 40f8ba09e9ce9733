package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/accordia/accordia-backend/internal/llm"
	"github.com/accordia/accordia-backend/internal/models"
	"github.com/accordia/accordia-backend/internal/repository"
)

// Generator transforms a batch of messages into a persisted
// ConversationSummary via the summarization oracle.
//
// Generation is not idempotent: summarizing the same batch twice appends two
// rows with different versions. Callers must serialize invocations per
// dispute; Service does so with a keyed lock.
type Generator struct {
	summaries repository.SummaryRepository
	oracle    llm.Provider
	logger    *logrus.Logger
}

// NewGenerator creates a generator backed by the given oracle.
func NewGenerator(summaries repository.SummaryRepository, oracle llm.Provider, logger *logrus.Logger) *Generator {
	return &Generator{
		summaries: summaries,
		oracle:    oracle,
		logger:    logger,
	}
}

// Summarize produces and persists a summary of kind summaryType for an
// ordered batch of messages.
//
// An empty batch is the one case where a canned result is acceptable — there
// is nothing to summarize, the oracle is not invoked and nothing is
// persisted. Every other failure (oracle down, unparseable reply) fails the
// operation as a whole: no row is written and the watermark does not move.
func (g *Generator) Summarize(
	ctx context.Context,
	dispute *models.Dispute,
	batch []models.Message,
	summaryType models.SummaryType,
) (*models.ConversationSummary, error) {
	if len(batch) == 0 {
		return &models.ConversationSummary{
			DisputeID:   dispute.ID,
			SummaryType: summaryType,
			SummaryText: emptyConversationSummary,
			KeyPoints:   models.KeyPoints{},
			OverallTone: models.ToneNeutral,
			CreatedAt:   time.Now(),
		}, nil
	}

	log := g.logger.WithFields(logrus.Fields{
		"dispute_id":   dispute.ID,
		"summary_type": summaryType,
		"batch_size":   len(batch),
	})

	prompt := buildSummaryPrompt(dispute, batch)

	raw, err := g.oracle.Generate(ctx, prompt)
	if err != nil {
		log.WithError(err).Error("oracle call failed")
		return nil, fmt.Errorf("oracle call failed: %w", err)
	}

	parsed, err := parseOracleResponse(raw)
	if err != nil {
		log.WithError(err).Error("oracle response rejected")
		return nil, err
	}

	version := 0
	if summaryType == models.SummaryTypeIncremental {
		version, err = g.nextVersion(ctx, dispute.ID)
		if err != nil {
			return nil, err
		}
	}

	summary := models.ConversationSummary{
		DisputeID:    dispute.ID,
		SummaryType:  summaryType,
		SummaryText:  parsed.Summary,
		KeyPoints:    models.KeyPoints(parsed.KeyPoints),
		MessagesFrom: batch[0].ID,
		MessagesTo:   batch[len(batch)-1].ID,
		MessageCount: len(batch),
		OverallTone:  models.Tone(parsed.Tone),
		Version:      version,
		CreatedAt:    time.Now(),
	}

	if err := g.summaries.Create(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}

	log.WithFields(logrus.Fields{
		"messages_from": summary.MessagesFrom,
		"messages_to":   summary.MessagesTo,
		"version":       summary.Version,
	}).Info("conversation summary created")

	return &summary, nil
}

// nextVersion returns previous incremental version + 1, or 1 when the
// dispute has no incremental summary yet. Full summaries stay at version 0;
// the counter only tracks the incremental chain.
func (g *Generator) nextVersion(ctx context.Context, disputeID string) (int, error) {
	latest, err := g.summaries.LatestIncremental(ctx, disputeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to load latest summary: %w", err)
	}
	return latest.Version + 1, nil
}
