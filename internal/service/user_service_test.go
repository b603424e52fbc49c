package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iccthub/portal-api/internal/models"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
)

type mockAdminUserRepo struct {
	byIdentifier map[string]*models.User
	byID         map[string]*models.User
	listResult   []models.User
	lastListAll  bool
	created      []*models.User
	updated      []*models.User
	archived     []string
}

func (m *mockAdminUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if user, ok := m.byIdentifier[identifier]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdminUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.byID[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdminUserRepo) List(ctx context.Context, includeArchived bool) ([]models.User, error) {
	m.lastListAll = includeArchived
	return m.listResult, nil
}

func (m *mockAdminUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "u-new"
	m.created = append(m.created, user)
	return nil
}

func (m *mockAdminUserRepo) Update(ctx context.Context, user *models.User) error {
	m.updated = append(m.updated, user)
	return nil
}

func (m *mockAdminUserRepo) Archive(ctx context.Context, id string) error {
	m.archived = append(m.archived, id)
	return nil
}

func adminUserRequest() models.AdminUserRequest {
	return models.AdminUserRequest{
		Name:      "Maria Santos",
		StudentID: "2022-00005",
		Email:     "maria@icct.edu.ph",
		Password:  "secret1",
	}
}

func TestUserServiceCreateDefaultsToStudent(t *testing.T) {
	repo := &mockAdminUserRepo{byIdentifier: map[string]*models.User{}}
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Create(context.Background(), adminUserRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestUserServiceCreateRequiresPassword(t *testing.T) {
	svc := NewUserService(&mockAdminUserRepo{}, nil, nil)

	req := adminUserRequest()
	req.Password = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestUserServiceCreateConflictOnTakenIdentifier(t *testing.T) {
	repo := &mockAdminUserRepo{byIdentifier: map[string]*models.User{
		"maria@icct.edu.ph": {ID: "u-existing"},
	}}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), adminUserRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestUserServiceUpdateAllowsKeepingOwnIdentifiers(t *testing.T) {
	existing := &models.User{ID: "u-1", Name: "Maria", StudentID: "2022-00005", Email: "maria@icct.edu.ph", Role: models.RoleStudent}
	repo := &mockAdminUserRepo{
		byID:         map[string]*models.User{"u-1": existing},
		byIdentifier: map[string]*models.User{"maria@icct.edu.ph": existing, "2022-00005": existing},
	}
	svc := NewUserService(repo, nil, nil)

	req := adminUserRequest()
	req.Password = ""
	user, err := svc.Update(context.Background(), "u-1", req)
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", user.Name)
	require.Len(t, repo.updated, 1)
}

func TestUserServiceUpdateConflictOnForeignIdentifier(t *testing.T) {
	repo := &mockAdminUserRepo{
		byID: map[string]*models.User{"u-1": {ID: "u-1"}},
		byIdentifier: map[string]*models.User{
			"maria@icct.edu.ph": {ID: "u-2"},
		},
	}
	svc := NewUserService(repo, nil, nil)

	req := adminUserRequest()
	req.Password = ""
	_, err := svc.Update(context.Background(), "u-1", req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestUserServiceArchiveRejectsSelf(t *testing.T) {
	repo := &mockAdminUserRepo{byID: map[string]*models.User{"u-admin": {ID: "u-admin"}}}
	svc := NewUserService(repo, nil, nil)

	err := svc.Archive(context.Background(), &models.User{ID: "u-admin"}, "u-admin")
	require.Error(t, err)
	assert.Empty(t, repo.archived)
}

func TestUserServiceArchive(t *testing.T) {
	repo := &mockAdminUserRepo{byID: map[string]*models.User{"u-1": {ID: "u-1"}}}
	svc := NewUserService(repo, nil, nil)

	require.NoError(t, svc.Archive(context.Background(), &models.User{ID: "u-admin"}, "u-1"))
	assert.Contains(t, repo.archived, "u-1")
}

func TestUserServiceHistoryIncludesArchived(t *testing.T) {
	repo := &mockAdminUserRepo{}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.True(t, repo.lastListAll)
}
