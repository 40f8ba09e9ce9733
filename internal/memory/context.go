package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/accordia/accordia-backend/internal/models"
	"github.com/accordia/accordia-backend/internal/repository"
)

// Assembler produces a single bounded-size textual context plus structured
// metadata for AI consumption: compressed history first, verbatim recent
// messages last.
//
// Assembly is read-only and never advances the watermark, so it may be
// called at arbitrary frequency. Racing a generator it can observe a stale
// watermark and include one extra summary or a few extra recent messages;
// summaries are immutable once written, so that is never a correctness
// problem.
type Assembler struct {
	disputes  repository.DisputeRepository
	messages  repository.MessageRepository
	summaries repository.SummaryRepository
	// recentLimit caps how many unsummarized messages appear verbatim. The
	// contract is "up to recentLimit most recent unsummarized messages".
	recentLimit int
}

// NewAssembler creates an assembler with an explicit recent-message cap.
func NewAssembler(
	disputes repository.DisputeRepository,
	messages repository.MessageRepository,
	summaries repository.SummaryRepository,
	recentLimit int,
) *Assembler {
	return &Assembler{
		disputes:    disputes,
		messages:    messages,
		summaries:   summaries,
		recentLimit: recentLimit,
	}
}

// Build assembles the current ConversationContext for a dispute. A missing
// dispute yields (nil, nil).
func (a *Assembler) Build(ctx context.Context, disputeID string) (*models.ConversationContext, error) {
	dispute, err := a.disputes.Get(ctx, disputeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load dispute: %w", err)
	}

	summaries, err := a.summaries.ListByDispute(ctx, disputeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load summaries: %w", err)
	}

	// Watermark comes from the newest incremental summary; full summaries
	// are point-in-time snapshots and do not participate.
	var watermark int64
	for _, s := range summaries {
		if s.SummaryType == models.SummaryTypeIncremental && s.MessagesTo > watermark {
			watermark = s.MessagesTo
		}
	}

	recent, err := a.messages.ListRecentAfter(ctx, disputeID, watermark, a.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent messages: %w", err)
	}

	result := &models.ConversationContext{
		DisputeID:          disputeID,
		ContextText:        a.render(dispute, summaries, recent),
		Summaries:          summaries,
		RecentMessages:     recent,
		SummaryCount:       len(summaries),
		RecentMessageCount: len(recent),
		LatestTone:         models.ToneUnknown,
		KeyPointsCompiled:  []string{},
	}

	for _, s := range summaries {
		result.TotalMessagesSummarized += s.MessageCount
		result.KeyPointsCompiled = append(result.KeyPointsCompiled, s.KeyPoints...)
	}
	if len(summaries) > 0 {
		result.LatestTone = summaries[len(summaries)-1].OverallTone
	}

	return result, nil
}

func (a *Assembler) render(
	dispute *models.Dispute,
	summaries []models.ConversationSummary,
	recent []models.Message,
) string {
	var b strings.Builder

	if len(summaries) > 0 {
		b.WriteString("=== CONVERSATION HISTORY (SUMMARIZED) ===\n")
		for i, s := range summaries {
			fmt.Fprintf(&b, "\n[Summary %d of %d - covers %d messages]\n", i+1, len(summaries), s.MessageCount)
			b.WriteString(s.SummaryText)
			b.WriteString("\n")
			if len(s.KeyPoints) > 0 {
				b.WriteString("Key points:\n")
				for _, kp := range s.KeyPoints {
					fmt.Fprintf(&b, "- %s\n", kp)
				}
			}
		}
	}

	if len(recent) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("=== RECENT MESSAGES ===\n\n")
		for i, msg := range recent {
			if i > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(renderMessage(dispute, msg))
		}
		b.WriteString("\n")
	}

	return b.String()
}
