package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/accordia/accordia-backend/internal/config"
	"github.com/accordia/accordia-backend/internal/llm"
	"github.com/accordia/accordia-backend/internal/models"
	"github.com/accordia/accordia-backend/internal/repository"
)

// Service composes the trigger, generator and assembler behind one facade
// and owns the per-dispute serialization the generator requires. Unrelated
// disputes share no mutable state and summarize in parallel.
type Service struct {
	disputes  repository.DisputeRepository
	messages  repository.MessageRepository
	summaries repository.SummaryRepository

	trigger   *Trigger
	generator *Generator
	assembler *Assembler

	locks  sync.Map // dispute id -> *sync.Mutex
	logger *logrus.Logger
}

// NewService wires the memory pipeline from its collaborators.
func NewService(
	disputes repository.DisputeRepository,
	messages repository.MessageRepository,
	summaries repository.SummaryRepository,
	oracle llm.Provider,
	cfg config.MemoryConfig,
	logger *logrus.Logger,
) *Service {
	return &Service{
		disputes:  disputes,
		messages:  messages,
		summaries: summaries,
		trigger:   NewTrigger(disputes, messages, summaries, cfg.SummaryThreshold, logger),
		generator: NewGenerator(summaries, oracle, logger),
		assembler: NewAssembler(disputes, messages, summaries, cfg.RecentMessages),
		logger:    logger,
	}
}

// Evaluate runs the trigger without generating anything.
func (s *Service) Evaluate(ctx context.Context, disputeID string) (Evaluation, error) {
	return s.trigger.Evaluate(ctx, disputeID)
}

// SummarizeIfNeeded evaluates the trigger and, when it fires, generates and
// persists one incremental summary. Returns (nil, nil) when no summary was
// needed.
//
// The trigger is re-run while holding the dispute's lock, so two racing
// callers cannot both summarize the same batch: the loser re-reads the
// advanced watermark and finds the batch below threshold.
func (s *Service) SummarizeIfNeeded(ctx context.Context, disputeID string) (*models.ConversationSummary, error) {
	unlock := s.lock(disputeID)
	defer unlock()

	eval, err := s.trigger.Evaluate(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !eval.Needed {
		return nil, nil
	}

	dispute, err := s.disputes.Get(ctx, disputeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load dispute: %w", err)
	}

	return s.generator.Summarize(ctx, dispute, eval.Batch, models.SummaryTypeIncremental)
}

// SummarizeFull summarizes the dispute's entire message history in one call,
// ignoring the watermark, and persists the result as a full summary. Full
// summaries are point-in-time recaps: they never advance the watermark and
// never touch the incremental version counter.
//
// With no messages at all the canned empty-conversation result is returned
// and nothing is persisted.
func (s *Service) SummarizeFull(ctx context.Context, disputeID string) (*models.ConversationSummary, error) {
	dispute, err := s.disputes.Get(ctx, disputeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load dispute: %w", err)
	}

	all, err := s.messages.ListAfter(ctx, disputeID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	return s.generator.Summarize(ctx, dispute, all, models.SummaryTypeFull)
}

// BuildContext assembles the current bounded context for a dispute. A
// missing dispute yields (nil, nil).
func (s *Service) BuildContext(ctx context.Context, disputeID string) (*models.ConversationContext, error) {
	return s.assembler.Build(ctx, disputeID)
}

// ListSummaries returns the dispute's summary history, oldest first.
func (s *Service) ListSummaries(ctx context.Context, disputeID string) ([]models.ConversationSummary, error) {
	return s.summaries.ListByDispute(ctx, disputeID)
}

func (s *Service) lock(disputeID string) func() {
	v, _ := s.locks.LoadOrStore(disputeID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
