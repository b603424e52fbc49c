package handler

import (
	"bytes"
	"context"
	"database/sql"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iccthub/portal-api/internal/middleware"
	"github.com/iccthub/portal-api/internal/models"
	"github.com/iccthub/portal-api/internal/service"
	"github.com/iccthub/portal-api/pkg/storage"
)

type eventRepoStub struct {
	created []*models.Event
}

func (s *eventRepoStub) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	return nil, nil
}

func (s *eventRepoStub) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return nil, sql.ErrNoRows
}

func (s *eventRepoStub) Create(ctx context.Context, event *models.Event) error {
	event.ID = "e-new"
	s.created = append(s.created, event)
	return nil
}

func (s *eventRepoStub) Update(ctx context.Context, event *models.Event) error { return nil }

func (s *eventRepoStub) Archive(ctx context.Context, id string) error { return nil }

// pngPayload is the smallest byte sequence that sniffs as image/png.
var pngPayload = []byte("\x89PNG\r\n\x1a\n")

func newEventHandlerFixture(t *testing.T) (*EventHandler, *eventRepoStub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	images, err := storage.NewImageStore(dir, "http://localhost/uploads", 0)
	require.NoError(t, err)
	repo := &eventRepoStub{}
	return NewEventHandler(service.NewEventService(repo, nil, nil, 0, nil, nil), images), repo, dir
}

func newEventForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	if withImage {
		part, err := w.CreateFormFile("images", "poster.png")
		require.NoError(t, err)
		_, err = part.Write(pngPayload)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func countStoredFiles(t *testing.T, dir string) int {
	t.Helper()
	count := 0
	require.NoError(t, filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	}))
	return count
}

func postEventForm(handler *EventHandler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/events", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.User{ID: "u-admin", Role: models.RoleAdmin})
	handler.Create(c)
	return w
}

func TestEventHandlerCreateMultipartStoresImages(t *testing.T) {
	handler, repo, dir := newEventHandlerFixture(t)

	body, contentType := newEventForm(t, map[string]string{
		"title":       "Sports Fest",
		"content":     "Annual intramurals",
		"eventDate":   "2026-09-15",
		"targetYears": `["3rd Year", "4th Year"]`,
	}, true)
	w := postEventForm(handler, body, contentType)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, repo.created, 1)
	assert.Equal(t, []string{"3rd Year", "4th Year"}, []string(repo.created[0].TargetYears))
	assert.Len(t, repo.created[0].Images, 1)
	assert.Equal(t, 1, countStoredFiles(t, dir))
}

func TestEventHandlerCreateRemovesUploadsOnRejectedPayload(t *testing.T) {
	handler, repo, dir := newEventHandlerFixture(t)

	// Missing title fails service validation after the file was stored.
	body, contentType := newEventForm(t, map[string]string{
		"content":   "Annual intramurals",
		"eventDate": "2026-09-15",
	}, true)
	w := postEventForm(handler, body, contentType)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.created)
	assert.Zero(t, countStoredFiles(t, dir))
}

func TestEventHandlerCreateRejectsMalformedTargetList(t *testing.T) {
	handler, repo, dir := newEventHandlerFixture(t)

	// Truncated JSON array must fail the bind before any file is stored.
	body, contentType := newEventForm(t, map[string]string{
		"title":       "Sports Fest",
		"content":     "Annual intramurals",
		"eventDate":   "2026-09-15",
		"targetYears": `["3rd Year", "4th Year"`,
	}, true)
	w := postEventForm(handler, body, contentType)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.created)
	assert.Zero(t, countStoredFiles(t, dir))
}
