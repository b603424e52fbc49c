package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iccthub/portal-api/internal/models"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
)

type mockAuthRepo struct {
	usersByIdentifier map[string]*models.User
	userForLogin      *models.User
	activeByID        map[string]*models.User
	created           []*models.User
	createErr         error
}

func (m *mockAuthRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if user, ok := m.usersByIdentifier[identifier]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindForLogin(ctx context.Context, name, studentID, email string) (*models.User, error) {
	if m.userForLogin != nil &&
		m.userForLogin.Name == name &&
		m.userForLogin.StudentID == studentID &&
		m.userForLogin.Email == email {
		return m.userForLogin, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindActiveByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.activeByID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "u-new"
	m.created = append(m.created, user)
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{TokenSecret: "test-secret", TokenExpiry: 7 * 24 * time.Hour, Issuer: "portal-test"}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceRegister(t *testing.T) {
	repo := &mockAuthRepo{usersByIdentifier: map[string]*models.User{}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:      "Juan Dela Cruz",
		StudentID: "2021-00001",
		Email:     "juan@icct.edu.ph",
		Password:  "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	require.Len(t, repo.created, 1)
	assert.NotEqual(t, "secret1", repo.created[0].PasswordHash)
}

func TestAuthServiceRegisterConflict(t *testing.T) {
	existing := &models.User{ID: "u-1", Email: "juan@icct.edu.ph", IsArchived: true}
	repo := &mockAuthRepo{usersByIdentifier: map[string]*models.User{"juan@icct.edu.ph": existing}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:      "Juan Dela Cruz",
		StudentID: "2021-00001",
		Email:     "juan@icct.edu.ph",
		Password:  "secret1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAuthServiceLogin(t *testing.T) {
	user := &models.User{
		ID:           "u-1",
		Name:         "Juan Dela Cruz",
		StudentID:    "2021-00001",
		Email:        "juan@icct.edu.ph",
		PasswordHash: hashPassword(t, "secret1"),
		Role:         models.RoleStudent,
	}
	repo := &mockAuthRepo{userForLogin: user}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Name:      "Juan Dela Cruz",
		StudentID: "2021-00001",
		Email:     "juan@icct.edu.ph",
		Password:  "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.User.ID)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestAuthServiceLoginGenericErrorOnAnyMismatch(t *testing.T) {
	user := &models.User{
		ID:           "u-1",
		Name:         "Juan Dela Cruz",
		StudentID:    "2021-00001",
		Email:        "juan@icct.edu.ph",
		PasswordHash: hashPassword(t, "secret1"),
	}
	repo := &mockAuthRepo{userForLogin: user}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	cases := []models.LoginRequest{
		{Name: "Someone Else", StudentID: "2021-00001", Email: "juan@icct.edu.ph", Password: "secret1"},
		{Name: "Juan Dela Cruz", StudentID: "9999-99999", Email: "juan@icct.edu.ph", Password: "secret1"},
		{Name: "Juan Dela Cruz", StudentID: "2021-00001", Email: "other@icct.edu.ph", Password: "secret1"},
		{Name: "Juan Dela Cruz", StudentID: "2021-00001", Email: "juan@icct.edu.ph", Password: "wrong"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
		assert.Equal(t, "Invalid credentials", appErr.Message)
	}
}

func TestAuthServiceAdminLogin(t *testing.T) {
	admin := &models.User{
		ID:           "u-admin",
		Email:        "admin@icct.edu.ph",
		StudentID:    "0000-00001",
		PasswordHash: hashPassword(t, "adminpass"),
		Role:         models.RoleAdmin,
	}
	repo := &mockAuthRepo{usersByIdentifier: map[string]*models.User{
		"admin@icct.edu.ph": admin,
		"0000-00001":        admin,
	}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{Identifier: "0000-00001", Password: "adminpass"})
	require.NoError(t, err)
	assert.Equal(t, "u-admin", resp.User.ID)
}

func TestAuthServiceAdminLoginRejectsStudents(t *testing.T) {
	student := &models.User{
		ID:           "u-1",
		Email:        "juan@icct.edu.ph",
		PasswordHash: hashPassword(t, "secret1"),
		Role:         models.RoleStudent,
	}
	repo := &mockAuthRepo{usersByIdentifier: map[string]*models.User{"juan@icct.edu.ph": student}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{Identifier: "juan@icct.edu.ph", Password: "secret1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAuthServiceResolveUserRejectsArchived(t *testing.T) {
	repo := &mockAuthRepo{activeByID: map[string]*models.User{}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.ResolveUser(context.Background(), &models.JWTClaims{UserID: "u-gone"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
}
