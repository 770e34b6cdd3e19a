package types

import (
	"time"

	"github.com/google/uuid"
)

// HomeType enumerates the kinds of beneficiary organizations.
type HomeType string

const (
	HomeTypeAnimalCenter HomeType = "Animal Center"
	HomeTypeElderHome    HomeType = "Elder Home"
	HomeTypeChildHome    HomeType = "Child Home"
)

// IsValidHomeType checks whether the given string is a known
// organization type.
func IsValidHomeType(t string) bool {
	switch HomeType(t) {
	case HomeTypeAnimalCenter, HomeTypeElderHome, HomeTypeChildHome:
		return true
	}
	return false
}

// Home represents a beneficiary organization (care home) listed on the
// public site.
type Home struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name" example:"Sunny Meadows"`
	RegistrationNumber string    `json:"registration_number" example:"REG-2024-0042"` // Unique registry identifier.
	Type               HomeType  `json:"type" example:"Elder Home"`
	Location           string    `json:"location"`
	ContactNumber      string    `json:"contact_number"`
	Email              string    `json:"email"` // Unique contact address.
	Picture            string    `json:"picture"`
	Description        string    `json:"description"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UpdateHomeParams defines the fields an admin may change on an
// organization. Pointers allow partial updates.
type UpdateHomeParams struct {
	Name               *string `json:"name,omitempty"`
	RegistrationNumber *string `json:"registration_number,omitempty"`
	Type               *string `json:"type,omitempty"`
	Location           *string `json:"location,omitempty"`
	ContactNumber      *string `json:"contact_number,omitempty"`
	Email              *string `json:"email,omitempty"`
	Picture            *string `json:"picture,omitempty"`
	Description        *string `json:"description,omitempty"`
}
