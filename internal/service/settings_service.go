package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/iccthub/portal-api/internal/models"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
)

type settingsUserRepository interface {
	SetDarkMode(ctx context.Context, id string, enabled bool) error
}

type faqRepository interface {
	List(ctx context.Context) ([]models.FAQ, error)
}

// SettingsService provides the settings page use cases: the per-user display
// preference and the public FAQ list.
type SettingsService struct {
	users  settingsUserRepository
	faqs   faqRepository
	logger *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(users settingsUserRepository, faqs faqRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{users: users, faqs: faqs, logger: logger}
}

// SetDarkMode persists the actor's display preference.
func (s *SettingsService) SetDarkMode(ctx context.Context, actor *models.User, enabled bool) (*models.User, error) {
	if err := s.users.SetDarkMode(ctx, actor.ID, enabled); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update preference")
	}
	actor.DarkMode = enabled
	return actor, nil
}

// FAQs returns the public help entries in display order.
func (s *SettingsService) FAQs(ctx context.Context) ([]models.FAQ, error) {
	faqs, err := s.faqs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list FAQs")
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}
	return faqs, nil
}
