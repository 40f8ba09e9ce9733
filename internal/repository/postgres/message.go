package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/accordia/accordia-backend/internal/models"
	"github.com/accordia/accordia-backend/internal/repository"
)

// MessageRepository implements repository.MessageRepository using PostgreSQL
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new PostgreSQL message repository
func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &MessageRepository{db: db}
}

// Create appends a message and returns its sequence id
func (r *MessageRepository) Create(ctx context.Context, message models.Message) (int64, error) {
	message.CreatedAt = time.Now()

	query := `
		INSERT INTO messages (dispute_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		message.DisputeID, message.SenderID, message.Content, message.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// ListAfter retrieves messages above the watermark, oldest first
func (r *MessageRepository) ListAfter(ctx context.Context, disputeID string, afterID int64) ([]models.Message, error) {
	var messages []models.Message
	query := `
		SELECT id, dispute_id, sender_id, content, created_at
		FROM messages
		WHERE dispute_id = $1 AND id > $2
		ORDER BY id ASC
	`

	err := r.db.SelectContext(ctx, &messages, query, disputeID, afterID)
	if err != nil {
		return nil, err
	}

	return messages, nil
}

// ListRecentAfter retrieves up to limit of the newest messages above the
// watermark, re-ordered to chronological order
func (r *MessageRepository) ListRecentAfter(ctx context.Context, disputeID string, afterID int64, limit int) ([]models.Message, error) {
	var messages []models.Message
	query := `
		SELECT id, dispute_id, sender_id, content, created_at
		FROM messages
		WHERE dispute_id = $1 AND id > $2
		ORDER BY id DESC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &messages, query, disputeID, afterID, limit)
	if err != nil {
		return nil, err
	}

	// Reverse to chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// CountAfter counts messages above the watermark
func (r *MessageRepository) CountAfter(ctx context.Context, disputeID string, afterID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE dispute_id = $1 AND id > $2`

	err := r.db.GetContext(ctx, &count, query, disputeID, afterID)
	if err != nil {
		return 0, err
	}

	return count, nil
}
