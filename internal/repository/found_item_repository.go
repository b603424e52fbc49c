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

const foundItemColumns = `id, description, images, date_found, location_found, category, finder_name, finder_contact, posted_by, status, is_archived, created_at, updated_at`

// FoundItemRepository provides persistence for found item listings.
type FoundItemRepository struct {
	db *sqlx.DB
}

// NewFoundItemRepository creates the repository.
func NewFoundItemRepository(db *sqlx.DB) *FoundItemRepository {
	return &FoundItemRepository{db: db}
}

// List returns found items matching the filter, newest first.
func (r *FoundItemRepository) List(ctx context.Context, filter models.ItemFilter) ([]models.FoundItem, error) {
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

	query := `SELECT ` + foundItemColumns + ` FROM found_items`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var items []models.FoundItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list found items: %w", err)
	}
	return items, nil
}

// GetByID returns a found item regardless of archival state.
func (r *FoundItemRepository) GetByID(ctx context.Context, id string) (*models.FoundItem, error) {
	const query = `SELECT ` + foundItemColumns + ` FROM found_items WHERE id = $1 LIMIT 1`
	var item models.FoundItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get found item by id: %w", err)
	}
	return &item, nil
}

// Create inserts a new found item.
func (r *FoundItemRepository) Create(ctx context.Context, item *models.FoundItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	const query = `INSERT INTO found_items (id, description, images, date_found, location_found, category, finder_name, finder_contact, posted_by, status, is_archived, created_at, updated_at)
VALUES (:id, :description, :images, :date_found, :location_found, :category, :finder_name, :finder_contact, :posted_by, :status, :is_archived, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create found item: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a found item.
func (r *FoundItemRepository) Update(ctx context.Context, item *models.FoundItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE found_items SET description = :description, images = :images, date_found = :date_found,
location_found = :location_found, category = :category, finder_name = :finder_name, finder_contact = :finder_contact,
status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update found item: %w", err)
	}
	return nil
}

// Archive performs a soft delete of the found item.
func (r *FoundItemRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE found_items SET is_archived = TRUE, status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.FoundStatusArchived, time.Now().UTC()); err != nil {
		return fmt.Errorf("archive found item: %w", err)
	}
	return nil
}
