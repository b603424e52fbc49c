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

type adminUserRepository interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, includeArchived bool) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Archive(ctx context.Context, id string) error
}

// UserService provides the admin account management use cases.
type UserService struct {
	repo      adminUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo adminUserRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns accounts, optionally including archived ones.
func (s *UserService) List(ctx context.Context, includeArchived bool) ([]models.User, error) {
	users, err := s.repo.List(ctx, includeArchived)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// Get returns an account by identifier.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Create inserts an account with an admin-chosen role. A password is
// required on creation.
func (s *UserService) Create(ctx context.Context, req models.AdminUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	if req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
	}

	for _, identifier := range []string{req.Email, req.StudentID} {
		if _, err := s.repo.FindByIdentifier(ctx, identifier); err == nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email or student ID already registered")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing accounts")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	user := &models.User{
		Name:         req.Name,
		StudentID:    req.StudentID,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Course:       req.Course,
		YearLevel:    req.YearLevel,
		Section:      req.Section,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	return user, nil
}

// Update rewrites the administrative fields of an account. Identifier
// uniqueness is re-checked when email or student ID changes.
func (s *UserService) Update(ctx context.Context, id string, req models.AdminUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsArchived {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}

	for _, identifier := range []string{req.Email, req.StudentID} {
		existing, err := s.repo.FindByIdentifier(ctx, identifier)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing accounts")
		}
		if existing.ID != id {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email or student ID already registered")
		}
	}

	user.Name = req.Name
	user.StudentID = req.StudentID
	user.Email = req.Email
	if req.Role != "" {
		user.Role = req.Role
	}
	user.Course = req.Course
	user.YearLevel = req.YearLevel
	user.Section = req.Section

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}
	return user, nil
}

// Archive soft deletes an account. The user's resources stay attributed to
// them and their sessions stop resolving immediately.
func (s *UserService) Archive(ctx context.Context, actor *models.User, id string) error {
	if actor.ID == id {
		return appErrors.Clone(appErrors.ErrValidation, "cannot archive your own account")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive user")
	}
	s.logger.Info("account archived", zap.String("user_id", id), zap.String("by", actor.ID))
	return nil
}

// History returns every account including archived ones, for reporting.
func (s *UserService) History(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list user history")
	}
	return users, nil
}
