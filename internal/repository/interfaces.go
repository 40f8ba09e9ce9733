package repository

import (
	"context"
	"errors"

	"github.com/accordia/accordia-backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DisputeRepository defines dispute metadata access. The memory subsystem
// only ever reads disputes; Create exists for the inbound feed.
type DisputeRepository interface {
	Create(ctx context.Context, dispute models.Dispute) (string, error)
	Get(ctx context.Context, id string) (*models.Dispute, error)
}

// MessageRepository defines message storage operations. Messages are
// append-only; the memory subsystem treats the store as read-only apart
// from the inbound feed's Create.
type MessageRepository interface {
	Create(ctx context.Context, message models.Message) (int64, error)
	// ListAfter returns messages with id strictly greater than afterID,
	// ordered ascending by id.
	ListAfter(ctx context.Context, disputeID string, afterID int64) ([]models.Message, error)
	// ListRecentAfter returns up to limit of the most recent messages with
	// id strictly greater than afterID, re-ordered ascending by id.
	ListRecentAfter(ctx context.Context, disputeID string, afterID int64, limit int) ([]models.Message, error)
	// CountAfter counts messages with id strictly greater than afterID.
	CountAfter(ctx context.Context, disputeID string, afterID int64) (int, error)
}

// SummaryRepository defines conversation summary storage. Summaries are
// append-only and immutable once written.
type SummaryRepository interface {
	Create(ctx context.Context, summary models.ConversationSummary) error
	// LatestIncremental returns the most recently created incremental
	// summary for a dispute, or ErrNotFound if none exists.
	LatestIncremental(ctx context.Context, disputeID string) (*models.ConversationSummary, error)
	// ListByDispute returns every summary for a dispute, oldest first.
	ListByDispute(ctx context.Context, disputeID string) ([]models.ConversationSummary, error)
}
