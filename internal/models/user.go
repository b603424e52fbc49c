package models

import "time"

// UserRole represents the available portal roles.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// Courses offered by the institute. Profile and event targeting values must
// come from this list.
var Courses = []string{
	"BS in Accountancy",
	"BS in Accounting Technology",
	"BS in Business Administration",
	"BS in Computer Engineering",
	"BS in Computer Science",
	"BS in Information Technology",
	"BS in Hotel and Restaurant Management",
	"BS in Tourism",
	"Bachelor of Elementary Education",
	"Bachelor of Secondary Education",
	"BS in Electronics & Communications Engineering",
	"BS in Criminology",
	"BS in Psychology",
}

// YearLevels and Sections are the remaining audience dimensions.
var (
	YearLevels = []string{"1st Year", "2nd Year", "3rd Year", "4th Year"}
	Sections   = []string{"A", "B", "C"}
)

// User represents a portal account stored in the users table.
// PasswordHash never leaves the process.
type User struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	StudentID      string    `db:"student_id" json:"studentId"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	ProfilePicture string    `db:"profile_picture" json:"profilePicture"`
	Role           UserRole  `db:"role" json:"role"`
	Course         string    `db:"course" json:"course"`
	YearLevel      string    `db:"year_level" json:"yearLevel"`
	Section        string    `db:"section" json:"section"`
	DarkMode       bool      `db:"dark_mode" json:"darkMode"`
	IsArchived     bool      `db:"is_archived" json:"isArchived"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserRef is the trimmed projection embedded in resources that reference a
// user (message parties, item posters, event authors).
type UserRef struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	StudentID string `db:"student_id" json:"studentId"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
