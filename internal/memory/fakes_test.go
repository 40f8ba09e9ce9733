package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/accordia/accordia-backend/internal/config"
	"github.com/accordia/accordia-backend/internal/models"
	"github.com/accordia/accordia-backend/internal/repository"
)

// In-memory repository fakes. Message ids are assigned from a single
// counter, mirroring the production BIGSERIAL sequence.

type fakeDisputeRepo struct {
	mu       sync.Mutex
	disputes map[string]models.Dispute
}

func newFakeDisputeRepo() *fakeDisputeRepo {
	return &fakeDisputeRepo{disputes: make(map[string]models.Dispute)}
}

func (f *fakeDisputeRepo) Create(ctx context.Context, d models.Dispute) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == "" {
		d.ID = fmt.Sprintf("dispute-%d", len(f.disputes)+1)
	}
	f.disputes[d.ID] = d
	return d.ID, nil
}

func (f *fakeDisputeRepo) Get(ctx context.Context, id string) (*models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.disputes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	nextID   int64
	messages []models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1}
}

func (f *fakeMessageRepo) Create(ctx context.Context, m models.Message) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.nextID
	f.nextID++
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	f.messages = append(f.messages, m)
	return m.ID, nil
}

func (f *fakeMessageRepo) ListAfter(ctx context.Context, disputeID string, afterID int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.messages {
		if m.DisputeID == disputeID && m.ID > afterID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) ListRecentAfter(ctx context.Context, disputeID string, afterID int64, limit int) ([]models.Message, error) {
	all, _ := f.ListAfter(ctx, disputeID, afterID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (f *fakeMessageRepo) CountAfter(ctx context.Context, disputeID string, afterID int64) (int, error) {
	all, _ := f.ListAfter(ctx, disputeID, afterID)
	return len(all), nil
}

type fakeSummaryRepo struct {
	mu        sync.Mutex
	summaries []models.ConversationSummary
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{}
}

func (f *fakeSummaryRepo) Create(ctx context.Context, s models.ConversationSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		s.ID = fmt.Sprintf("summary-%d", len(f.summaries)+1)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	f.summaries = append(f.summaries, s)
	return nil
}

func (f *fakeSummaryRepo) LatestIncremental(ctx context.Context, disputeID string) (*models.ConversationSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.summaries) - 1; i >= 0; i-- {
		s := f.summaries[i]
		if s.DisputeID == disputeID && s.SummaryType == models.SummaryTypeIncremental {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSummaryRepo) ListByDispute(ctx context.Context, disputeID string) ([]models.ConversationSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ConversationSummary
	for _, s := range f.summaries {
		if s.DisputeID == disputeID {
			out = append(out, s)
		}
	}
	return out, nil
}

// scriptedOracle replays queued responses and records every prompt it saw.
// With an empty queue it keeps returning the last response; with err set it
// always fails.
type scriptedOracle struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func (o *scriptedOracle) Name() string { return "scripted" }

func (o *scriptedOracle) Generate(ctx context.Context, prompt string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prompts = append(o.prompts, prompt)
	if o.err != nil {
		return "", o.err
	}
	if len(o.responses) == 0 {
		return "", fmt.Errorf("scripted oracle exhausted")
	}
	resp := o.responses[0]
	if len(o.responses) > 1 {
		o.responses = o.responses[1:]
	}
	return resp, nil
}

func (o *scriptedOracle) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.prompts)
}

func oracleJSON(summary, tone string, keyPoints ...string) string {
	out := fmt.Sprintf(`{"summary": %q, "keyPoints": [`, summary)
	for i, kp := range keyPoints {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", kp)
	}
	out += fmt.Sprintf(`], "agreements": [], "disagreements": [], "tone": %q, "progress": "ongoing"}`, tone)
	return out
}

type testEnv struct {
	disputes *fakeDisputeRepo
	messages *fakeMessageRepo
	sums     *fakeSummaryRepo
	oracle   *scriptedOracle
	svc      *Service
}

func newTestEnv(cfg config.MemoryConfig) *testEnv {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	env := &testEnv{
		disputes: newFakeDisputeRepo(),
		messages: newFakeMessageRepo(),
		sums:     newFakeSummaryRepo(),
		oracle:   &scriptedOracle{},
	}
	env.svc = NewService(env.disputes, env.messages, env.sums, env.oracle, cfg, logger)
	return env
}

func (e *testEnv) seedDispute() *models.Dispute {
	d := models.Dispute{
		ID:            "dispute-1",
		Title:         "Security deposit refund",
		PlaintiffID:   "user-plaintiff",
		PlaintiffName: "Alice",
		DefendantID:   "user-defendant",
		DefendantName: "Bob",
	}
	_, _ = e.disputes.Create(context.Background(), d)
	return &d
}

func (e *testEnv) seedMessages(disputeID string, n int) {
	for i := 0; i < n; i++ {
		e.messages.mu.Lock()
		num := e.messages.nextID
		e.messages.mu.Unlock()
		sender := "user-plaintiff"
		if num%2 == 0 {
			sender = "user-defendant"
		}
		_, _ = e.messages.Create(context.Background(), models.Message{
			DisputeID: disputeID,
			SenderID:  sender,
			Content:   fmt.Sprintf("message %d", num),
		})
	}
}
