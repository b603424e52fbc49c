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

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "content", "target_audience", "target_courses", "target_years",
		"target_sections", "event_date", "location", "status", "images", "author_id",
		"is_archived", "created_at", "updated_at",
	})
}

func TestEventRepositoryListActiveOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEventRepository(db)
	rows := eventRows().AddRow(
		"e-1", "Orientation", "Welcome week", "All", "{}", "{}",
		"{}", time.Now().Add(24*time.Hour), "Main Hall", "Upcoming", "{}", "u-admin",
		false, time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM events WHERE is_archived = FALSE").
		WillReturnRows(rows)

	events, err := repo.List(context.Background(), models.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Orientation", events[0].Title)
}

func TestEventRepositoryListPublicFeed(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEventRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM events WHERE is_archived = FALSE AND status = ANY(.+) ORDER BY event_date ASC LIMIT 6").
		WillReturnRows(eventRows())

	filter := models.EventFilter{
		Statuses:      []models.EventStatus{models.EventUpcoming, models.EventOngoing},
		SortAscending: true,
		Limit:         6,
	}
	events, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEventRepository(db)
	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{
		Title:          "Sports Fest",
		Content:        "Annual intramurals",
		TargetAudience: models.AudienceAll,
		EventDate:      time.Now().Add(48 * time.Hour),
		Status:         models.EventUpcoming,
		AuthorID:       "u-admin",
	}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEmpty(t, event.ID)
}

func TestEventRepositoryArchive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEventRepository(db)
	mock.ExpectExec("UPDATE events SET is_archived = TRUE").
		WithArgs("e-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Archive(context.Background(), "e-1"))
}
