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

type foundItemRepository interface {
	List(ctx context.Context, filter models.ItemFilter) ([]models.FoundItem, error)
	GetByID(ctx context.Context, id string) (*models.FoundItem, error)
	Create(ctx context.Context, item *models.FoundItem) error
	Update(ctx context.Context, item *models.FoundItem) error
	Archive(ctx context.Context, id string) error
}

// FoundItemService provides lost-and-found use cases for found listings.
type FoundItemService struct {
	repo      foundItemRepository
	users     userRefResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFoundItemService constructs a FoundItemService.
func NewFoundItemService(repo foundItemRepository, users userRefResolver, validate *validator.Validate, logger *zap.Logger) *FoundItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FoundItemService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns active found items.
func (s *FoundItemService) List(ctx context.Context, filter models.ItemFilter) ([]models.FoundItem, error) {
	filter.IncludeArchived = false
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list found items")
	}
	if err := s.populatePosters(ctx, items); err != nil {
		s.logger.Warn("failed to resolve found item posters", zap.Error(err))
	}
	return items, nil
}

// Get returns a single active found item.
func (s *FoundItemService) Get(ctx context.Context, id string) (*models.FoundItem, error) {
	item, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsArchived {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "found item not found")
	}
	items := []models.FoundItem{*item}
	if err := s.populatePosters(ctx, items); err != nil {
		s.logger.Warn("failed to resolve found item poster", zap.Error(err))
	}
	return &items[0], nil
}

// Create inserts a new found item posted by the actor.
func (s *FoundItemService) Create(ctx context.Context, actor *models.User, req models.FoundItemRequest) (*models.FoundItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid found item payload")
	}
	if !models.ValidItemCategory(req.Category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown item category")
	}

	status := req.Status
	if status == "" {
		status = models.FoundStatusFound
	}
	item := &models.FoundItem{
		Description:   req.Description,
		Images:        req.Images,
		DateFound:     req.DateFound,
		LocationFound: req.LocationFound,
		Category:      req.Category,
		FinderName:    req.FinderName,
		FinderContact: req.FinderContact,
		PostedByID:    actor.ID,
		Status:        status,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create found item")
	}
	return item, nil
}

// Update rewrites a found item. Only the poster or an admin may update.
func (s *FoundItemService) Update(ctx context.Context, actor *models.User, id string, req models.FoundItemRequest) (*models.FoundItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid found item payload")
	}
	if !models.ValidItemCategory(req.Category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown item category")
	}

	item, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsArchived {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "found item not found")
	}
	if err := s.authorize(actor, item.PostedByID); err != nil {
		return nil, err
	}

	item.Description = req.Description
	item.Images = req.Images
	item.DateFound = req.DateFound
	item.LocationFound = req.LocationFound
	item.Category = req.Category
	item.FinderName = req.FinderName
	item.FinderContact = req.FinderContact
	if req.Status != "" {
		item.Status = req.Status
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update found item")
	}
	return item, nil
}

// Archive soft deletes a found item. Only the poster or an admin may archive.
func (s *FoundItemService) Archive(ctx context.Context, actor *models.User, id string) error {
	item, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, item.PostedByID); err != nil {
		return err
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive found item")
	}
	return nil
}

// History returns every found item including archived ones, for reporting.
func (s *FoundItemService) History(ctx context.Context) ([]models.FoundItem, error) {
	items, err := s.repo.List(ctx, models.ItemFilter{IncludeArchived: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list found item history")
	}
	return items, nil
}

func (s *FoundItemService) getByID(ctx context.Context, id string) (*models.FoundItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "found item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load found item")
	}
	return item, nil
}

func (s *FoundItemService) authorize(actor *models.User, posterID string) error {
	if actor.IsAdmin() || actor.ID == posterID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "only the poster or an admin may modify this item")
}

func (s *FoundItemService) populatePosters(ctx context.Context, items []models.FoundItem) error {
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
