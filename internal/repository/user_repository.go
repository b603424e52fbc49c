package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iccthub/portal-api/internal/models"
)

const userColumns = `id, name, student_id, email, password_hash, profile_picture, role, course, year_level, section, dark_mode, is_archived, created_at, updated_at`

// UserRepository provides database access for portal accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByIdentifier returns a user whose email or student ID matches, archived
// accounts included. Archiving never releases the identifier for reuse.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) OR student_id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, identifier); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by identifier: %w", err)
	}
	return &user, nil
}

// FindForLogin returns the single active account matching all four supplied
// credentials. Name and email comparisons are case-insensitive.
func (r *UserRepository) FindForLogin(ctx context.Context, name, studentID, email string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users
WHERE LOWER(name) = LOWER($1) AND student_id = $2 AND LOWER(email) = LOWER($3) AND is_archived = FALSE LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, name, studentID, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user for login: %w", err)
	}
	return &user, nil
}

// FindActiveByID returns a non-archived user by identifier.
func (r *UserRepository) FindActiveByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_archived = FALSE LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find active user by id: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier regardless of archival state.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// List returns accounts, newest first.
func (r *UserRepository) List(ctx context.Context, includeArchived bool) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	if !includeArchived {
		query += ` WHERE is_archived = FALSE`
	}
	query += ` ORDER BY created_at DESC`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// RefsByID returns trimmed user projections for the given identifiers,
// archived accounts included so historical resources keep their attribution.
func (r *UserRepository) RefsByID(ctx context.Context, ids []string) (map[string]models.UserRef, error) {
	if len(ids) == 0 {
		return map[string]models.UserRef{}, nil
	}
	query, args, err := sqlx.In(`SELECT id, name, email, student_id FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build user refs query: %w", err)
	}
	query = r.db.Rebind(query)
	var refs []models.UserRef
	if err := r.db.SelectContext(ctx, &refs, query, args...); err != nil {
		return nil, fmt.Errorf("select user refs: %w", err)
	}
	out := make(map[string]models.UserRef, len(refs))
	for _, ref := range refs {
		out[ref.ID] = ref
	}
	return out, nil
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, name, student_id, email, password_hash, profile_picture, role, course, year_level, section, dark_mode, is_archived, created_at, updated_at)
VALUES (:id, :name, :student_id, :email, :password_hash, :profile_picture, :role, :course, :year_level, :section, :dark_mode, :is_archived, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update rewrites the administrative fields of an account.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET name = :name, student_id = :student_id, email = :email, role = :role,
course = :course, year_level = :year_level, section = :section, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Archive performs a soft delete of the account.
func (r *UserRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE users SET is_archived = TRUE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("archive user: %w", err)
	}
	return nil
}

// UpdateProfile stores the academic profile fields chosen by the user.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, course, yearLevel, section string) error {
	const query = `UPDATE users SET course = $2, year_level = $3, section = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, course, yearLevel, section, time.Now().UTC()); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdatePicture stores the public URL of the profile picture.
func (r *UserRepository) UpdatePicture(ctx context.Context, id, pictureURL string) error {
	const query = `UPDATE users SET profile_picture = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, pictureURL, time.Now().UTC()); err != nil {
		return fmt.Errorf("update profile picture: %w", err)
	}
	return nil
}

// SetDarkMode persists the display preference.
func (r *UserRepository) SetDarkMode(ctx context.Context, id string, enabled bool) error {
	const query = `UPDATE users SET dark_mode = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, enabled, time.Now().UTC()); err != nil {
		return fmt.Errorf("set dark mode: %w", err)
	}
	return nil
}
