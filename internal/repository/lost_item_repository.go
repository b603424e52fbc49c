package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iccthub/portal-api/internal/models"
)

const lostItemColumns = `id, description, images, date_lost, location_lost, category, owner_name, owner_contact, posted_by, status, is_archived, created_at, updated_at`

// LostItemRepository provides persistence for lost item listings.
type LostItemRepository struct {
	db *sqlx.DB
}

// NewLostItemRepository creates the repository.
func NewLostItemRepository(db *sqlx.DB) *LostItemRepository {
	return &LostItemRepository{db: db}
}

// List returns lost items matching the filter, newest first.
func (r *LostItemRepository) List(ctx context.Context, filter models.ItemFilter) ([]models.LostItem, error) {
	var conditions []string
	var args []interface{}

	if !filter.IncludeArchived {
		conditions = append(conditions, "is_archived = FALSE")
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}

	query := `SELECT ` + lostItemColumns + ` FROM lost_items`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var items []models.LostItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list lost items: %w", err)
	}
	return items, nil
}

// GetByID returns a lost item regardless of archival state.
func (r *LostItemRepository) GetByID(ctx context.Context, id string) (*models.LostItem, error) {
	const query = `SELECT ` + lostItemColumns + ` FROM lost_items WHERE id = $1 LIMIT 1`
	var item models.LostItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get lost item by id: %w", err)
	}
	return &item, nil
}

// Create inserts a new lost item.
func (r *LostItemRepository) Create(ctx context.Context, item *models.LostItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	const query = `INSERT INTO lost_items (id, description, images, date_lost, location_lost, category, owner_name, owner_contact, posted_by, status, is_archived, created_at, updated_at)
VALUES (:id, :description, :images, :date_lost, :location_lost, :category, :owner_name, :owner_contact, :posted_by, :status, :is_archived, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create lost item: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a lost item.
func (r *LostItemRepository) Update(ctx context.Context, item *models.LostItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lost_items SET description = :description, images = :images, date_lost = :date_lost,
location_lost = :location_lost, category = :category, owner_name = :owner_name, owner_contact = :owner_contact,
status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update lost item: %w", err)
	}
	return nil
}

// Archive performs a soft delete of the lost item.
func (r *LostItemRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE lost_items SET is_archived = TRUE, status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.LostStatusArchived, time.Now().UTC()); err != nil {
		return fmt.Errorf("archive lost item: %w", err)
	}
	return nil
}
