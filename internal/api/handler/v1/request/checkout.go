package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CheckoutRequest struct {
	ParticipantID   *uint  `json:"participant_id,omitempty"`
	ContactName     string `json:"contact_name"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone"`
	PaymentMethodID string `json:"payment_method_id"`
	Currency        string `json:"currency"`
}

func (req *CheckoutRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ContactName, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.ContactEmail, validation.Required, is.Email),
		validation.Field(&req.ContactPhone, validation.Length(0, 30)),
		validation.Field(&req.PaymentMethodID, validation.Required),
		validation.Field(&req.Currency, validation.Length(0, 3)),
	)
}
