package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iccthub/portal-api/internal/middleware"
	"github.com/iccthub/portal-api/internal/models"
	"github.com/iccthub/portal-api/internal/service"
)

type settingsUsersMock struct {
	lastID      string
	lastEnabled bool
}

func (m *settingsUsersMock) SetDarkMode(ctx context.Context, id string, enabled bool) error {
	m.lastID = id
	m.lastEnabled = enabled
	return nil
}

type faqRepoMock struct {
	faqs []models.FAQ
}

func (m *faqRepoMock) List(ctx context.Context) ([]models.FAQ, error) {
	return m.faqs, nil
}

func TestSettingsHandlerSetDarkMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := &settingsUsersMock{}
	handler := NewSettingsHandler(service.NewSettingsService(users, &faqRepoMock{}, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(models.DarkModeRequest{Enabled: true})
	req, _ := http.NewRequest(http.MethodPut, "/settings/dark-mode", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.User{ID: "u1", Role: models.RoleStudent})

	handler.SetDarkMode(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", users.lastID)
	assert.True(t, users.lastEnabled)
}

func TestSettingsHandlerFAQsAlwaysReturnsArray(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSettingsHandler(service.NewSettingsService(&settingsUsersMock{}, &faqRepoMock{}, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/settings/faqs", nil)
	c.Request = req

	handler.FAQs(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.FAQ `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data)
}
