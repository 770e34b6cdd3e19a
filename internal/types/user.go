package types

import (
	"time"

	"github.com/google/uuid"
)

// Role constants define the allowed user roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole checks whether the given role string is a valid user role.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User represents the core user entity persisted in the credential store.
type User struct {
	ID              uuid.UUID `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"` // Unique identifier (UUID).
	Email           string    `json:"email" example:"jane.doe@example.com"`              // Unique email address used for login.
	PasswordHash    string    `json:"-"`                                                 // Bcrypt hash (never exposed).
	FirstName       string    `json:"first_name" example:"Jane"`
	LastName        string    `json:"last_name" example:"Doe"`
	Role            string    `json:"role" example:"user"` // Either 'user' or 'admin'.
	IsDisabled      bool      `json:"is_disabled"`         // Disabled accounts fail session resolution.
	IsDeleted       bool      `json:"is_deleted"`          // Soft-delete flag; treated as absent for auth.
	IsEmailVerified bool      `json:"is_email_verified"`   // Tracked but not enforced as a login gate.
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UpdateUserParams defines the fields an admin may change on a user.
// Pointers distinguish "not provided" from zero values, allowing
// partial updates.
type UpdateUserParams struct {
	Email           *string `json:"email,omitempty"`
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Password        *string `json:"password,omitempty"` // Re-hashed before persisting.
	Role            *string `json:"role,omitempty"`
	IsDisabled      *bool   `json:"is_disabled,omitempty"`
	IsEmailVerified *bool   `json:"is_email_verified,omitempty"`
}

// Session is the live, request-scoped user record resolved from a
// validated token. The resolver query never selects the password hash;
// the struct is owned by a single request.
type Session struct {
	UserID          uuid.UUID `json:"user_id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
}

// IsAdmin reports whether the session belongs to an admin user.
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
