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

// DisputeRepository implements repository.DisputeRepository using PostgreSQL
type DisputeRepository struct {
	db *sqlx.DB
}

// NewDisputeRepository creates a new PostgreSQL dispute repository
func NewDisputeRepository(db *sqlx.DB) repository.DisputeRepository {
	return &DisputeRepository{db: db}
}

// Create creates a new dispute
func (r *DisputeRepository) Create(ctx context.Context, dispute models.Dispute) (string, error) {
	if dispute.ID == "" {
		dispute.ID = uuid.New().String()
	}
	dispute.CreatedAt = time.Now()

	query := `
		INSERT INTO disputes (id, title, plaintiff_id, plaintiff_name, defendant_id, defendant_name, created_at)
		VALUES (:id, :title, :plaintiff_id, :plaintiff_name, :defendant_id, :defendant_name, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, dispute)
	if err != nil {
		return "", err
	}

	return dispute.ID, nil
}

// Get retrieves a dispute by id
func (r *DisputeRepository) Get(ctx context.Context, id string) (*models.Dispute, error) {
	var dispute models.Dispute
	query := `
		SELECT id, title, plaintiff_id, plaintiff_name, defendant_id, defendant_name, created_at
		FROM disputes
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &dispute, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &dispute, nil
}
