package donation

// CreateDonationRequest is the payload for recording a pledge.
type CreateDonationRequest struct {
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Amount             float64 `json:"amount"`
	GoodsAmount        string  `json:"goods_amount,omitempty"`
	Message            string  `json:"message,omitempty"`
	RegistrationNumber string  `json:"registration_number"`
	OrganizationName   string  `json:"organization_name,omitempty"`
	CurrentNeeds       string  `json:"current_needs,omitempty"`
	ReceivedItems      string  `json:"received_items,omitempty"`
}
