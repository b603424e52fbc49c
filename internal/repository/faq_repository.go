package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iccthub/portal-api/internal/models"
)

// FAQRepository provides persistence for help page entries.
type FAQRepository struct {
	db *sqlx.DB
}

// NewFAQRepository creates the repository.
func NewFAQRepository(db *sqlx.DB) *FAQRepository {
	return &FAQRepository{db: db}
}

// List returns all entries in display order.
func (r *FAQRepository) List(ctx context.Context) ([]models.FAQ, error) {
	const query = `SELECT id, question, answer, display_order, created_at, updated_at FROM faqs ORDER BY display_order ASC`
	var faqs []models.FAQ
	if err := r.db.SelectContext(ctx, &faqs, query); err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	return faqs, nil
}

// Create inserts a new entry.
func (r *FAQRepository) Create(ctx context.Context, faq *models.FAQ) error {
	if faq.ID == "" {
		faq.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if faq.CreatedAt.IsZero() {
		faq.CreatedAt = now
	}
	faq.UpdatedAt = now

	const query = `INSERT INTO faqs (id, question, answer, display_order, created_at, updated_at)
VALUES (:id, :question, :answer, :display_order, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, faq); err != nil {
		return fmt.Errorf("create faq: %w", err)
	}
	return nil
}
