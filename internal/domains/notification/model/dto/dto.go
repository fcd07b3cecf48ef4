package dto

const (
	ErrorNotConfigured  = "EMAIL_NOT_CONFIGURED"
	ErrorDeliveryFailed = "EMAIL_DELIVERY_FAILED"
)

// EmailDeliveryResult reports both legs of a booking confirmation. Success is true when
// at least one email went out; Error is only set when none did.
type EmailDeliveryResult struct {
	Success         bool    `json:"success"`
	CustomerEmailID *string `json:"customerEmailId"`
	BusinessEmailID *string `json:"businessEmailId"`
	Error           string  `json:"error,omitempty"`
}
