package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accordia/accordia-backend/internal/config"
	"github.com/accordia/accordia-backend/internal/models"
)

func TestBuildContext_EmptyDispute(t *testing.T) {
	env := newTestEnv(config.DefaultMemoryConfig())
	d := env.seedDispute()

	result, err := env.svc.BuildContext(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Zero(t, result.SummaryCount)
	assert.Zero(t, result.RecentMessageCount)
	assert.Zero(t, result.TotalMessagesSummarized)
	assert.Equal(t, models.ToneUnknown, result.LatestTone)
	assert.Empty(t, result.KeyPointsCompiled)
	assert.Empty(t, result.ContextText)
}

func TestBuildContext_MissingDispute(t *testing.T) {
	env := newTestEnv(config.DefaultMemoryConfig())

	result, err := env.svc.BuildContext(context.Background(), "no-such-dispute")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestBuildContext_RecentOnly(t *testing.T) {
	env := newTestEnv(config.DefaultMemoryConfig())
	d := env.seedDispute()
	env.seedMessages(d.ID, 3)

	result, err := env.svc.BuildContext(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Zero(t, result.SummaryCount)
	assert.Equal(t, 3, result.RecentMessageCount)
	assert.NotContains(t, result.ContextText, "CONVERSATION HISTORY")
	assert.Contains(t, result.ContextText, "=== RECENT MESSAGES ===")
	assert.Contains(t, result.ContextText, "[PLAINTIFF] Alice: message 1")
}

func TestBuildContext_SummaryPlusRecentTail(t *testing.T) {
	env := newTestEnv(config.DefaultMemoryConfig())
	d := env.seedDispute()
	env.oracle.responses = []string{oracleJSON("The first ten messages.", "cooperative", "point one", "point two")}

	// Scenario C: one summarized batch, then 7 unsummarized messages.
	env.seedMessages(d.ID, 10)
	_, err := env.svc.SummarizeIfNeeded(context.Background(), d.ID)
	require.NoError(t, err)
	env.seedMessages(d.ID, 7)

	result, err := env.svc.BuildContext(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.SummaryCount)
	assert.Equal(t, 7, result.RecentMessageCount)
	assert.Equal(t, 10, result.TotalMessagesSummarized)
	assert.Equal(t, models.ToneCooperative, result.LatestTone)
	assert.Equal(t, []string{"point one", "point two"}, result.KeyPointsCompiled)

	// Every message id is represented exactly once: 10 summarized + 7 recent.
	assert.Equal(t, int64(11), result.RecentMessages[0].ID)
	assert.Equal(t, int64(17), result.RecentMessages[6].ID)

	assert.Contains(t, result.ContextText, "=== CONVERSATION HISTORY (SUMMARIZED) ===")
	assert.Contains(t, result.ContextText, "[Summary 1 of 1 - covers 10 messages]")
	assert.Contains(t, result.ContextText, "The first ten messages.")
	assert.Contains(t, result.ContextText, "Key points:\n- point one\n- point two")
	assert.Contains(t, result.ContextText, "=== RECENT MESSAGES ===")
	assert.Contains(t, result.ContextText, "[PLAINTIFF] Alice: message 11")
}

func TestBuildContext_RecentWindowCap(t *testing.T) {
	cfg := config.MemoryConfig{SummaryThreshold: 100, RecentMessages: 5}
	env := newTestEnv(cfg)
	d := env.seedDispute()
	env.seedMessages(d.ID, 12)

	result, err := env.svc.BuildContext(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	// Only the newest 5 appear, in chronological order.
	require.Equal(t, 5, result.RecentMessageCount)
	assert.Equal(t, int64(8), result.RecentMessages[0].ID)
	assert.Equal(t, int64(12), result.RecentMessages[4].ID)
}

func TestBuildContext_KeyPointsCompiledInOrder(t *testing.T) {
	env := newTestEnv(config.DefaultMemoryConfig())
	d := env.seedDispute()
	env.oracle.responses = []string{
		oracleJSON("one", "neutral", "alpha", "beta"),
		oracleJSON("two", "improving", "gamma"),
	}

	env.seedMessages(d.ID, 10)
	_, err := env.svc.SummarizeIfNeeded(context.Background(), d.ID)
	require.NoError(t, err)
	env.seedMessages(d.ID, 10)
	_, err = env.svc.SummarizeIfNeeded(context.Background(), d.ID)
	require.NoError(t, err)

	result, err := env.svc.BuildContext(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 2, result.SummaryCount)
	assert.Equal(t, 20, result.TotalMessagesSummarized)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, result.KeyPointsCompiled)
	assert.Equal(t, models.ToneImproving, result.LatestTone)
	assert.Contains(t, result.ContextText, "[Summary 1 of 2 - covers 10 messages]")
	assert.Contains(t, result.ContextText, "[Summary 2 of 2 - covers 10 messages]")
}

func TestBuildContext_FullSummaryDoesNotHideRecentMessages(t *testing.T) {
	env := newTestEnv(config.DefaultMemoryConfig())
	d := env.seedDispute()
	env.oracle.responses = []string{oracleJSON("full recap", "mixed")}

	// A full summary covers ids 1..6 but must not act as a watermark.
	env.seedMessages(d.ID, 6)
	_, err := env.svc.SummarizeFull(context.Background(), d.ID)
	require.NoError(t, err)

	result, err := env.svc.BuildContext(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.SummaryCount)
	assert.Equal(t, 6, result.RecentMessageCount, "messages stay in the recent window until an incremental summary covers them")
	assert.Equal(t, models.ToneMixed, result.LatestTone)
}
