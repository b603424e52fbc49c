package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/iccthub/portal-api/internal/models"
)

const messageColumns = `id, from_id, to_id, subject, body, labels, read, archived_by_sender, archived_by_recipient, created_at, updated_at`

// MessageRepository provides persistence for internal mail.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates the repository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Inbox returns messages received by the user that the recipient has not
// archived, newest first.
func (r *MessageRepository) Inbox(ctx context.Context, userID string, filter models.MessageFilter) ([]models.Message, error) {
	conditions := []string{"to_id = $1", "archived_by_recipient = FALSE"}
	args := []interface{}{userID}
	conditions, args = applyMessageFilter(conditions, args, filter)

	query := `SELECT ` + messageColumns + ` FROM messages WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY created_at DESC`
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	return messages, nil
}

// Sent returns messages sent by the user that the sender has not archived,
// newest first.
func (r *MessageRepository) Sent(ctx context.Context, userID string, filter models.MessageFilter) ([]models.Message, error) {
	conditions := []string{"from_id = $1", "archived_by_sender = FALSE"}
	args := []interface{}{userID}
	conditions, args = applyMessageFilter(conditions, args, filter)

	query := `SELECT ` + messageColumns + ` FROM messages WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY created_at DESC`
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("list sent: %w", err)
	}
	return messages, nil
}

func applyMessageFilter(conditions []string, args []interface{}, filter models.MessageFilter) ([]string, []interface{}) {
	if filter.Label != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(labels)", len(args)+1))
		args = append(args, filter.Label)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(subject ILIKE $%d OR body ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	return conditions, args
}

// GetByID returns a message by identifier.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	const query = `SELECT ` + messageColumns + ` FROM messages WHERE id = $1 LIMIT 1`
	var message models.Message
	if err := r.db.GetContext(ctx, &message, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get message by id: %w", err)
	}
	return &message, nil
}

// Create inserts a new message.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.Labels == nil {
		message.Labels = pq.StringArray{}
	}
	now := time.Now().UTC()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = now
	}
	message.UpdatedAt = now

	const query = `INSERT INTO messages (id, from_id, to_id, subject, body, labels, read, archived_by_sender, archived_by_recipient, created_at, updated_at)
VALUES (:id, :from_id, :to_id, :subject, :body, :labels, :read, :archived_by_sender, :archived_by_recipient, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// MarkRead flags a message as read.
func (r *MessageRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE messages SET read = TRUE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// SetLabels replaces the label set of a message.
func (r *MessageRepository) SetLabels(ctx context.Context, id string, labels []string) error {
	const query = `UPDATE messages SET labels = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, pq.Array(labels), time.Now().UTC()); err != nil {
		return fmt.Errorf("set message labels: %w", err)
	}
	return nil
}

// ArchiveForParty hides the message from one side's listings only. The other
// party's copy is untouched.
func (r *MessageRepository) ArchiveForParty(ctx context.Context, id string, asSender bool) error {
	column := "archived_by_recipient"
	if asSender {
		column = "archived_by_sender"
	}
	query := fmt.Sprintf(`UPDATE messages SET %s = TRUE, updated_at = $2 WHERE id = $1`, column)
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("archive message: %w", err)
	}
	return nil
}
