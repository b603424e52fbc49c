package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iccthub/portal-api/internal/models"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
)

type lostItemRepository interface {
	List(ctx context.Context, filter models.ItemFilter) ([]models.LostItem, error)
	GetByID(ctx context.Context, id string) (*models.LostItem, error)
	Create(ctx context.Context, item *models.LostItem) error
	Update(ctx context.Context, item *models.LostItem) error
	Archive(ctx context.Context, id string) error
}

// LostItemService provides lost-and-found use cases for lost listings.
// Mutations are limited to the poster or an admin.
type LostItemService struct {
	repo      lostItemRepository
	users     userRefResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLostItemService constructs a LostItemService.
func NewLostItemService(repo lostItemRepository, users userRefResolver, validate *validator.Validate, logger *zap.Logger) *LostItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LostItemService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns active lost items visible to every signed-in user.
func (s *LostItemService) List(ctx context.Context, filter models.ItemFilter) ([]models.LostItem, error) {
	filter.IncludeArchived = false
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lost items")
	}
	if err := s.populatePosters(ctx, items); err != nil {
		s.logger.Warn("failed to resolve lost item posters", zap.Error(err))
	}
	return items, nil
}

// Get returns a single active lost item.
func (s *LostItemService) Get(ctx context.Context, id string) (*models.LostItem, error) {
	item, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsArchived {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lost item not found")
	}
	items := []models.LostItem{*item}
	if err := s.populatePosters(ctx, items); err != nil {
		s.logger.Warn("failed to resolve lost item poster", zap.Error(err))
	}
	return &items[0], nil
}

// Create inserts a new lost item posted by the actor.
func (s *LostItemService) Create(ctx context.Context, actor *models.User, req models.LostItemRequest) (*models.LostItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lost item payload")
	}
	if !models.ValidItemCategory(req.Category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown item category")
	}

	status := req.Status
	if status == "" {
		status = models.LostStatusLost
	}
	item := &models.LostItem{
		Description:  req.Description,
		Images:       req.Images,
		DateLost:     req.DateLost,
		LocationLost: req.LocationLost,
		Category:     req.Category,
		OwnerName:    req.OwnerName,
		OwnerContact: req.OwnerContact,
		PostedByID:   actor.ID,
		Status:       status,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lost item")
	}
	return item, nil
}

// Update rewrites a lost item. Only the poster or an admin may update.
func (s *LostItemService) Update(ctx context.Context, actor *models.User, id string, req models.LostItemRequest) (*models.LostItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lost item payload")
	}
	if !models.ValidItemCategory(req.Category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown item category")
	}

	item, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsArchived {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lost item not found")
	}
	if err := s.authorize(actor, item.PostedByID); err != nil {
		return nil, err
	}

	item.Description = req.Description
	item.Images = req.Images
	item.DateLost = req.DateLost
	item.LocationLost = req.LocationLost
	item.Category = req.Category
	item.OwnerName = req.OwnerName
	item.OwnerContact = req.OwnerContact
	if req.Status != "" {
		item.Status = req.Status
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lost item")
	}
	return item, nil
}

// Archive soft deletes a lost item. Only the poster or an admin may archive.
func (s *LostItemService) Archive(ctx context.Context, actor *models.User, id string) error {
	item, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, item.PostedByID); err != nil {
		return err
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive lost item")
	}
	return nil
}

// History returns every lost item including archived ones, for reporting.
func (s *LostItemService) History(ctx context.Context) ([]models.LostItem, error) {
	items, err := s.repo.List(ctx, models.ItemFilter{IncludeArchived: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lost item history")
	}
	return items, nil
}

func (s *LostItemService) getByID(ctx context.Context, id string) (*models.LostItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lost item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lost item")
	}
	return item, nil
}

func (s *LostItemService) authorize(actor *models.User, posterID string) error {
	if actor.IsAdmin() || actor.ID == posterID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "only the poster or an admin may modify this item")
}

func (s *LostItemService) populatePosters(ctx context.Context, items []models.LostItem) error {
	if s.users == nil || len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, item := range items {
		if item.PostedByID == "" {
			continue
		}
		if _, ok := seen[item.PostedByID]; ok {
			continue
		}
		seen[item.PostedByID] = struct{}{}
		ids = append(ids, item.PostedByID)
	}
	refs, err := s.users.RefsByID(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if ref, ok := refs[items[i].PostedByID]; ok {
			r := ref
			items[i].PostedBy = &r
		}
	}
	return nil
}
