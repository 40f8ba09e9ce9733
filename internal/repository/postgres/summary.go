package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/accordia/accordia-backend/internal/models"
	"github.com/accordia/accordia-backend/internal/repository"
)

// SummaryRepository implements repository.SummaryRepository using PostgreSQL
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository creates a new PostgreSQL summary repository
func NewSummaryRepository(db *sqlx.DB) repository.SummaryRepository {
	return &SummaryRepository{db: db}
}

// Create persists a new conversation summary
func (r *SummaryRepository) Create(ctx context.Context, summary models.ConversationSummary) error {
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO conversation_summaries
		(id, dispute_id, summary_type, summary_text, key_points,
		 messages_from, messages_to, message_count, overall_tone, version, created_at)
		VALUES (:id, :dispute_id, :summary_type, :summary_text, :key_points,
		 :messages_from, :messages_to, :message_count, :overall_tone, :version, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, summary)
	return err
}

// LatestIncremental returns the newest incremental summary for a dispute
func (r *SummaryRepository) LatestIncremental(ctx context.Context, disputeID string) (*models.ConversationSummary, error) {
	var summary models.ConversationSummary
	query := `
		SELECT id, dispute_id, summary_type, summary_text, key_points,
		       messages_from, messages_to, message_count, overall_tone, version, created_at
		FROM conversation_summaries
		WHERE dispute_id = $1 AND summary_type = $2
		ORDER BY created_at DESC, version DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &summary, query, disputeID, models.SummaryTypeIncremental)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &summary, nil
}

// ListByDispute retrieves all summaries for a dispute, oldest first
func (r *SummaryRepository) ListByDispute(ctx context.Context, disputeID string) ([]models.ConversationSummary, error) {
	var summaries []models.ConversationSummary
	query := `
		SELECT id, dispute_id, summary_type, summary_text, key_points,
		       messages_from, messages_to, message_count, overall_tone, version, created_at
		FROM conversation_summaries
		WHERE dispute_id = $1
		ORDER BY created_at ASC
	`

	err := r.db.SelectContext(ctx, &summaries, query, disputeID)
	if err != nil {
		return nil, err
	}

	return summaries, nil
}
