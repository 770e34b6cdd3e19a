package home

// CreateHomeRequest is the payload for registering an organization.
type CreateHomeRequest struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	Type               string `json:"type"`
	Location           string `json:"location"`
	ContactNumber      string `json:"contact_number"`
	Email              string `json:"email"`
	Picture            string `json:"picture,omitempty"`
	Description        string `json:"description,omitempty"`
}
