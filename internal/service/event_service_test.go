package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iccthub/portal-api/internal/models"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
)

type mockEventRepo struct {
	events     map[string]*models.Event
	listResult []models.Event
	lastFilter models.EventFilter
	archived   []string
}

func (m *mockEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	m.lastFilter = filter
	return m.listResult, nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if event, ok := m.events[id]; ok {
		copy := *event
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = "e-new"
	if m.events == nil {
		m.events = map[string]*models.Event{}
	}
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error {
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepo) Archive(ctx context.Context, id string) error {
	m.archived = append(m.archived, id)
	return nil
}

type mockRefResolver struct {
	refs map[string]models.UserRef
}

func (m *mockRefResolver) RefsByID(ctx context.Context, ids []string) (map[string]models.UserRef, error) {
	return m.refs, nil
}

type mockCache struct {
	getCalls   int
	setCalls   int
	deleted    []string
	cachedFeed []models.Event
	hasFeed    bool
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.getCalls++
	if !m.hasFeed {
		return appErrors.ErrCacheMiss
	}
	if events, ok := dest.(*[]models.Event); ok {
		*events = m.cachedFeed
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalls++
	return nil
}

func (m *mockCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	return nil
}

func studentViewer() *models.User {
	return &models.User{
		ID:        "u-student",
		Role:      models.RoleStudent,
		Course:    "BS in Computer Science",
		YearLevel: "3rd Year",
		Section:   "A",
	}
}

func TestEventServicePublicFeedUsesPublicFilter(t *testing.T) {
	repo := &mockEventRepo{listResult: []models.Event{{ID: "e-1", Title: "Orientation"}}}
	svc := NewEventService(repo, nil, nil, 0, nil, nil)

	events, err := svc.PublicFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 6, repo.lastFilter.Limit)
	assert.True(t, repo.lastFilter.SortAscending)
	assert.ElementsMatch(t, []models.EventStatus{models.EventUpcoming, models.EventOngoing}, repo.lastFilter.Statuses)
	assert.False(t, repo.lastFilter.IncludeArchived)
}

func TestEventServicePublicFeedServedFromCache(t *testing.T) {
	repo := &mockEventRepo{}
	cache := &mockCache{hasFeed: true, cachedFeed: []models.Event{{ID: "e-cached"}}}
	svc := NewEventService(repo, nil, cache, 5*time.Minute, nil, nil)

	events, err := svc.PublicFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e-cached", events[0].ID)
	assert.Zero(t, repo.lastFilter.Limit)
}

func TestEventServicePublicFeedPopulatesCacheOnMiss(t *testing.T) {
	repo := &mockEventRepo{listResult: []models.Event{}}
	cache := &mockCache{}
	svc := NewEventService(repo, nil, cache, 5*time.Minute, nil, nil)

	_, err := svc.PublicFeed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.setCalls)
}

func TestEventServiceListFiltersByAudience(t *testing.T) {
	repo := &mockEventRepo{listResult: []models.Event{
		{ID: "e-all", TargetAudience: models.AudienceAll},
		{ID: "e-match", TargetAudience: models.AudienceSpecific, TargetYears: []string{"3rd Year"}},
		{ID: "e-other", TargetAudience: models.AudienceSpecific, TargetYears: []string{"1st Year"}},
	}}
	svc := NewEventService(repo, &mockRefResolver{}, nil, 0, nil, nil)

	events, err := svc.List(context.Background(), studentViewer(), "")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e-all", events[0].ID)
	assert.Equal(t, "e-match", events[1].ID)
}

func TestEventServiceListAdminSeesEverything(t *testing.T) {
	repo := &mockEventRepo{listResult: []models.Event{
		{ID: "e-other", TargetAudience: models.AudienceSpecific, TargetYears: []string{"1st Year"}},
	}}
	svc := NewEventService(repo, &mockRefResolver{}, nil, 0, nil, nil)

	events, err := svc.List(context.Background(), &models.User{ID: "u-admin", Role: models.RoleAdmin}, "")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventServiceGetHidesTargetedEvent(t *testing.T) {
	repo := &mockEventRepo{events: map[string]*models.Event{
		"e-1": {ID: "e-1", TargetAudience: models.AudienceSpecific, TargetYears: []string{"1st Year"}},
	}}
	svc := NewEventService(repo, &mockRefResolver{}, nil, 0, nil, nil)

	_, err := svc.Get(context.Background(), studentViewer(), "e-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestEventServiceGetHidesArchivedFromStudents(t *testing.T) {
	repo := &mockEventRepo{events: map[string]*models.Event{
		"e-1": {ID: "e-1", TargetAudience: models.AudienceAll, IsArchived: true},
	}}
	svc := NewEventService(repo, &mockRefResolver{}, nil, 0, nil, nil)

	_, err := svc.Get(context.Background(), studentViewer(), "e-1")
	require.Error(t, err)

	admin := &models.User{ID: "u-admin", Role: models.RoleAdmin}
	event, err := svc.Get(context.Background(), admin, "e-1")
	require.NoError(t, err)
	assert.True(t, event.IsArchived)
}

func TestEventServiceCreateDefaultsAndInvalidatesCache(t *testing.T) {
	repo := &mockEventRepo{}
	cache := &mockCache{}
	svc := NewEventService(repo, nil, cache, time.Minute, nil, nil)

	event, err := svc.Create(context.Background(), &models.User{ID: "u-admin", Role: models.RoleAdmin}, models.EventRequest{
		Title:     "Sports Fest",
		Content:   "Annual intramurals",
		EventDate: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AudienceAll, event.TargetAudience)
	assert.Equal(t, models.EventUpcoming, event.Status)
	assert.Equal(t, "u-admin", event.AuthorID)
	assert.NotEmpty(t, cache.deleted)
}

func TestEventServiceCreateRejectsUnknownTarget(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewEventService(repo, nil, nil, 0, nil, nil)

	_, err := svc.Create(context.Background(), &models.User{ID: "u-admin", Role: models.RoleAdmin}, models.EventRequest{
		Title:          "Sports Fest",
		Content:        "Annual intramurals",
		EventDate:      time.Now().Add(48 * time.Hour),
		TargetAudience: models.AudienceSpecific,
		TargetYears:    []string{"5th Year"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.events)
}

func TestEventServiceCreateAcceptsCatalogTargets(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewEventService(repo, nil, nil, 0, nil, nil)

	event, err := svc.Create(context.Background(), &models.User{ID: "u-admin", Role: models.RoleAdmin}, models.EventRequest{
		Title:          "CS Week",
		Content:        "Department celebration",
		EventDate:      time.Now().Add(48 * time.Hour),
		TargetAudience: models.AudienceSpecific,
		TargetCourses:  []string{"BS in Computer Science"},
		TargetYears:    []string{"3rd Year", "4th Year"},
		TargetSections: []string{"A"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"3rd Year", "4th Year"}, []string(event.TargetYears))
}

func TestEventServiceUpdateRejectsUnknownTarget(t *testing.T) {
	repo := &mockEventRepo{events: map[string]*models.Event{"e-1": {ID: "e-1"}}}
	svc := NewEventService(repo, nil, nil, 0, nil, nil)

	_, err := svc.Update(context.Background(), "e-1", models.EventRequest{
		Title:          "New Title",
		Content:        "Body",
		EventDate:      time.Now(),
		TargetAudience: models.AudienceSpecific,
		TargetCourses:  []string{"BS in Astrology"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEventServiceUpdateRejectsArchived(t *testing.T) {
	repo := &mockEventRepo{events: map[string]*models.Event{
		"e-1": {ID: "e-1", IsArchived: true},
	}}
	svc := NewEventService(repo, nil, nil, 0, nil, nil)

	_, err := svc.Update(context.Background(), "e-1", models.EventRequest{
		Title:     "New Title",
		Content:   "Body",
		EventDate: time.Now(),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestEventServiceArchive(t *testing.T) {
	repo := &mockEventRepo{events: map[string]*models.Event{"e-1": {ID: "e-1"}}}
	cache := &mockCache{}
	svc := NewEventService(repo, nil, cache, time.Minute, nil, nil)

	require.NoError(t, svc.Archive(context.Background(), "e-1"))
	assert.Contains(t, repo.archived, "e-1")
	assert.NotEmpty(t, cache.deleted)
}

func TestEventServiceHistoryIncludesArchived(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewEventService(repo, nil, nil, 0, nil, nil)

	_, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.True(t, repo.lastFilter.IncludeArchived)
}
