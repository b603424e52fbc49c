package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iccthub/portal-api/internal/models"
)

func messageRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "from_id", "to_id", "subject", "body", "labels", "read",
		"archived_by_sender", "archived_by_recipient", "created_at", "updated_at",
	})
}

func TestMessageRepositoryInbox(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	rows := messageRows().AddRow(
		"m-1", "u-2", "u-1", "Hello", "Body", "{}", false,
		false, false, time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM messages WHERE to_id").
		WithArgs("u-1").
		WillReturnRows(rows)

	messages, err := repo.Inbox(context.Background(), "u-1", models.MessageFilter{})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Hello", messages[0].Subject)
}

func TestMessageRepositoryInboxWithSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM messages WHERE to_id").
		WithArgs("u-1", "%exam%").
		WillReturnRows(messageRows())

	messages, err := repo.Inbox(context.Background(), "u-1", models.MessageFilter{Search: "exam"})
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMessageRepositorySentWithLabel(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM messages WHERE from_id").
		WithArgs("u-1", "important").
		WillReturnRows(messageRows())

	_, err := repo.Sent(context.Background(), "u-1", models.MessageFilter{Label: "important"})
	require.NoError(t, err)
}

func TestMessageRepositoryCreateDefaultsLabels(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	mock.ExpectExec("INSERT INTO messages").
		WillReturnResult(sqlmock.NewResult(1, 1))

	message := &models.Message{FromID: "u-1", ToID: "u-2", Subject: "Hi", Body: "There"}
	require.NoError(t, repo.Create(context.Background(), message))
	assert.NotEmpty(t, message.ID)
	assert.NotNil(t, message.Labels)
}

func TestMessageRepositoryArchiveForParty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	mock.ExpectExec("UPDATE messages SET archived_by_sender = TRUE").
		WithArgs("m-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE messages SET archived_by_recipient = TRUE").
		WithArgs("m-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ArchiveForParty(context.Background(), "m-1", true))
	require.NoError(t, repo.ArchiveForParty(context.Background(), "m-1", false))
}
