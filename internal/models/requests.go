package models

import "time"

// RegisterRequest is the self-service signup payload. Accounts created this
// way always start as students.
type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the student login payload. All four credentials must match
// the same account.
type LoginRequest struct {
	Name      string `json:"name" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// AdminLoginRequest authenticates by email or student ID.
type AdminLoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// EventRequest is the create/update payload for events.
type EventRequest struct {
	Title          string        `json:"title" validate:"required"`
	Content        string        `json:"content" validate:"required"`
	TargetAudience EventAudience `json:"targetAudience" validate:"omitempty,oneof=All Specific"`
	TargetCourses  []string      `json:"targetCourses"`
	TargetYears    []string      `json:"targetYears"`
	TargetSections []string      `json:"targetSections"`
	EventDate      time.Time     `json:"eventDate" validate:"required"`
	Location       string        `json:"location"`
	Status         EventStatus   `json:"status" validate:"omitempty,oneof=Upcoming Ongoing Finished"`
	Images         []string      `json:"images"`
}

// LostItemRequest is the create/update payload for lost item listings.
type LostItemRequest struct {
	Description  string    `json:"description" validate:"required"`
	Images       []string  `json:"images"`
	DateLost     time.Time `json:"dateLost" validate:"required"`
	LocationLost string    `json:"locationLost" validate:"required"`
	Category     string    `json:"category" validate:"required"`
	OwnerName    string    `json:"ownerName" validate:"required"`
	OwnerContact string    `json:"ownerContact" validate:"required"`
	Status       string    `json:"status" validate:"omitempty,oneof=Lost Found Archived"`
}

// FoundItemRequest is the create/update payload for found item listings.
type FoundItemRequest struct {
	Description   string    `json:"description" validate:"required"`
	Images        []string  `json:"images"`
	DateFound     time.Time `json:"dateFound" validate:"required"`
	LocationFound string    `json:"locationFound" validate:"required"`
	Category      string    `json:"category" validate:"required"`
	FinderName    string    `json:"finderName" validate:"required"`
	FinderContact string    `json:"finderContact" validate:"required"`
	Status        string    `json:"status" validate:"omitempty,oneof=Found Returned Archived"`
}

// SendMessageRequest addresses the recipient by email or student ID.
type SendMessageRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Subject   string `json:"subject"`
	Body      string `json:"body" validate:"required"`
}

// MessageLabelsRequest replaces the label set of a message.
type MessageLabelsRequest struct {
	Labels []string `json:"labels" validate:"required"`
}

// UpdateProfileRequest carries the academic profile fields.
type UpdateProfileRequest struct {
	Course    string `json:"course" validate:"required"`
	YearLevel string `json:"yearLevel" validate:"required"`
	Section   string `json:"section" validate:"required"`
}

// ChangePasswordRequest carries a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// AdminUserRequest is the admin create/update payload for accounts.
type AdminUserRequest struct {
	Name      string   `json:"name" validate:"required"`
	StudentID string   `json:"studentId" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"omitempty,min=6"`
	Role      UserRole `json:"role" validate:"omitempty,oneof=student admin"`
	Course    string   `json:"course"`
	YearLevel string   `json:"yearLevel"`
	Section   string   `json:"section"`
}

// DarkModeRequest toggles the display preference.
type DarkModeRequest struct {
	Enabled bool `json:"enabled"`
}
