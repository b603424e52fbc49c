package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iccthub/portal-api/internal/models"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
)

type profileUserRepository interface {
	FindActiveByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, course, yearLevel, section string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdatePicture(ctx context.Context, id, pictureURL string) error
}

type imageStore interface {
	Store(data []byte, folder string) (string, error)
	Delete(publicURL string) error
}

// ProfileService provides self-service account use cases.
type ProfileService struct {
	repo      profileUserRepository
	images    imageStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(repo profileUserRepository, images imageStore, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProfileService{repo: repo, images: images, validator: validate, logger: logger}
}

// Get returns the actor's own profile.
func (s *ProfileService) Get(ctx context.Context, actorID string) (*models.User, error) {
	user, err := s.repo.FindActiveByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	return user, nil
}

// UpdateProfile stores the academic profile fields. Values must come from the
// published catalogs.
func (s *ProfileService) UpdateProfile(ctx context.Context, actor *models.User, req models.UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if !contains(models.Courses, req.Course) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown course")
	}
	if !contains(models.YearLevels, req.YearLevel) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown year level")
	}
	if !contains(models.Sections, req.Section) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown section")
	}

	if err := s.repo.UpdateProfile(ctx, actor.ID, req.Course, req.YearLevel, req.Section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}

	actor.Course = req.Course
	actor.YearLevel = req.YearLevel
	actor.Section = req.Section
	return actor, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *ProfileService) ChangePassword(ctx context.Context, actor *models.User, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid password payload")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "current password does not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.repo.UpdatePassword(ctx, actor.ID, string(hash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}
	return nil
}

// UpdatePicture stores a new profile picture and replaces the previous one.
func (s *ProfileService) UpdatePicture(ctx context.Context, actor *models.User, data []byte) (*models.User, error) {
	if s.images == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "image storage is not configured")
	}

	url, err := s.images.Store(data, "profiles")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile picture")
	}

	if err := s.repo.UpdatePicture(ctx, actor.ID, url); err != nil {
		if cleanupErr := s.images.Delete(url); cleanupErr != nil {
			s.logger.Warn("failed to remove orphaned picture", zap.Error(cleanupErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update picture")
	}

	if actor.ProfilePicture != "" && actor.ProfilePicture != url {
		if err := s.images.Delete(actor.ProfilePicture); err != nil {
			s.logger.Warn("failed to remove previous picture", zap.Error(err))
		}
	}

	actor.ProfilePicture = url
	return actor, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
