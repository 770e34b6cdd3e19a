package types

import (
	"time"

	"github.com/google/uuid"
)

// Donation represents a recorded pledge toward an organization. It is
// a bookkeeping record only; no payment processing happens here.
type Donation struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`         // Donor display name.
	Email              string    `json:"email"`        // Donor contact address.
	Amount             float64   `json:"amount"`       // Monetary pledge, >= 0.
	GoodsAmount        string    `json:"goods_amount"` // Free-text description of pledged goods.
	Message            string    `json:"message"`
	RegistrationNumber string    `json:"registration_number"` // Target organization registry id.
	OrganizationName   string    `json:"organization_name"`
	CurrentNeeds       string    `json:"current_needs"`
	ReceivedItems      string    `json:"received_items"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
