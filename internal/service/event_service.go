package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iccthub/portal-api/internal/models"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
)

const publicEventsCacheKey = "events:public"

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Archive(ctx context.Context, id string) error
}

type userRefResolver interface {
	RefsByID(ctx context.Context, ids []string) (map[string]models.UserRef, error)
}

type eventCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// EventService provides event and announcement use cases.
type EventService struct {
	repo      eventRepository
	users     userRefResolver
	cache     eventCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs an EventService. cache may be nil to disable
// caching of the public feed.
func NewEventService(repo eventRepository, users userRefResolver, cache eventCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EventService{repo: repo, users: users, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// PublicFeed returns up to six upcoming or ongoing events for the landing
// page, soonest first. No audience filtering applies because visitors have no
// profile yet. Served from cache when available.
func (s *EventService) PublicFeed(ctx context.Context) ([]models.Event, error) {
	if s.cache != nil {
		var cached []models.Event
		if err := s.cache.Get(ctx, publicEventsCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("public events cache read failed", zap.Error(err))
		}
	}

	events, err := s.repo.List(ctx, models.EventFilter{
		Statuses:      []models.EventStatus{models.EventUpcoming, models.EventOngoing},
		SortAscending: true,
		Limit:         6,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	if events == nil {
		events = []models.Event{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, publicEventsCacheKey, events, s.cacheTTL); err != nil {
			s.logger.Warn("public events cache write failed", zap.Error(err))
		}
	}
	return events, nil
}

// List returns active events visible to the viewer, newest first, optionally
// narrowed to one status. Admins see every active event regardless of
// targeting.
func (s *EventService) List(ctx context.Context, viewer *models.User, status models.EventStatus) ([]models.Event, error) {
	filter := models.EventFilter{}
	if status != "" {
		filter.Statuses = []models.EventStatus{status}
	}
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	visible := make([]models.Event, 0, len(events))
	for _, event := range events {
		if viewer.IsAdmin() || event.VisibleTo(viewer) {
			visible = append(visible, event)
		}
	}

	if err := s.populateAuthors(ctx, visible); err != nil {
		s.logger.Warn("failed to resolve event authors", zap.Error(err))
	}
	return visible, nil
}

// Get returns a single event. Archived events and events targeted away from
// the viewer both surface as not found, so the response never reveals that a
// hidden event exists.
func (s *EventService) Get(ctx context.Context, viewer *models.User, id string) (*models.Event, error) {
	event, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.IsArchived && !viewer.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	if !viewer.IsAdmin() && !event.VisibleTo(viewer) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}

	events := []models.Event{*event}
	if err := s.populateAuthors(ctx, events); err != nil {
		s.logger.Warn("failed to resolve event author", zap.Error(err))
	}
	return &events[0], nil
}

// Create inserts a new event authored by the actor.
func (s *EventService) Create(ctx context.Context, actor *models.User, req models.EventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if err := validateEventTargets(req); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:          req.Title,
		Content:        req.Content,
		TargetAudience: defaultAudience(req.TargetAudience),
		TargetCourses:  req.TargetCourses,
		TargetYears:    req.TargetYears,
		TargetSections: req.TargetSections,
		EventDate:      req.EventDate,
		Location:       req.Location,
		Status:         defaultStatus(req.Status),
		Images:         req.Images,
		AuthorID:       actor.ID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}

	s.invalidatePublicFeed(ctx)
	return event, nil
}

// Update rewrites an event. Archived events cannot be edited.
func (s *EventService) Update(ctx context.Context, id string, req models.EventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if err := validateEventTargets(req); err != nil {
		return nil, err
	}

	event, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.IsArchived {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}

	event.Title = req.Title
	event.Content = req.Content
	event.TargetAudience = defaultAudience(req.TargetAudience)
	event.TargetCourses = req.TargetCourses
	event.TargetYears = req.TargetYears
	event.TargetSections = req.TargetSections
	event.EventDate = req.EventDate
	event.Location = req.Location
	event.Status = defaultStatus(req.Status)
	event.Images = req.Images

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}

	s.invalidatePublicFeed(ctx)
	return event, nil
}

// Archive soft deletes an event. Archiving twice is a no-op.
func (s *EventService) Archive(ctx context.Context, id string) error {
	if _, err := s.getByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive event")
	}
	s.invalidatePublicFeed(ctx)
	return nil
}

// History returns every event including archived ones, for reporting.
func (s *EventService) History(ctx context.Context) ([]models.Event, error) {
	events, err := s.repo.List(ctx, models.EventFilter{IncludeArchived: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list event history")
	}
	return events, nil
}

func (s *EventService) getByID(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return event, nil
}

func (s *EventService) populateAuthors(ctx context.Context, events []models.Event) error {
	if s.users == nil || len(events) == 0 {
		return nil
	}
	ids := make([]string, 0, len(events))
	seen := map[string]struct{}{}
	for _, event := range events {
		if event.AuthorID == "" {
			continue
		}
		if _, ok := seen[event.AuthorID]; ok {
			continue
		}
		seen[event.AuthorID] = struct{}{}
		ids = append(ids, event.AuthorID)
	}
	refs, err := s.users.RefsByID(ctx, ids)
	if err != nil {
		return err
	}
	for i := range events {
		if ref, ok := refs[events[i].AuthorID]; ok {
			r := ref
			events[i].Author = &r
		}
	}
	return nil
}

func (s *EventService) invalidatePublicFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, publicEventsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate public events cache", zap.Error(err))
	}
}

// validateEventTargets checks every target value against the institute
// catalogs so an announcement can never be aimed at an audience no profile
// can match.
func validateEventTargets(req models.EventRequest) error {
	for _, course := range req.TargetCourses {
		if !contains(models.Courses, course) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown target course: "+course)
		}
	}
	for _, year := range req.TargetYears {
		if !contains(models.YearLevels, year) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown target year level: "+year)
		}
	}
	for _, section := range req.TargetSections {
		if !contains(models.Sections, section) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown target section: "+section)
		}
	}
	return nil
}

func defaultAudience(audience models.EventAudience) models.EventAudience {
	if audience == "" {
		return models.AudienceAll
	}
	return audience
}

func defaultStatus(status models.EventStatus) models.EventStatus {
	if status == "" {
		return models.EventUpcoming
	}
	return status
}
