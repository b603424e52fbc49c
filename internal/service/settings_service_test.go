package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iccthub/portal-api/internal/models"
)

type mockSettingsUserRepo struct {
	set map[string]bool
}

func (m *mockSettingsUserRepo) SetDarkMode(ctx context.Context, id string, enabled bool) error {
	if m.set == nil {
		m.set = map[string]bool{}
	}
	m.set[id] = enabled
	return nil
}

type mockFAQRepo struct {
	faqs []models.FAQ
}

func (m *mockFAQRepo) List(ctx context.Context) ([]models.FAQ, error) {
	return m.faqs, nil
}

func TestSettingsServiceSetDarkMode(t *testing.T) {
	repo := &mockSettingsUserRepo{}
	svc := NewSettingsService(repo, &mockFAQRepo{}, nil)

	actor := &models.User{ID: "u-1"}
	user, err := svc.SetDarkMode(context.Background(), actor, true)
	require.NoError(t, err)
	assert.True(t, user.DarkMode)
	assert.True(t, repo.set["u-1"])
}

func TestSettingsServiceFAQsNeverNil(t *testing.T) {
	svc := NewSettingsService(&mockSettingsUserRepo{}, &mockFAQRepo{}, nil)

	faqs, err := svc.FAQs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, faqs)
	assert.Empty(t, faqs)
}
