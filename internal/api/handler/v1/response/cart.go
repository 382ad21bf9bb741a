package response

// CartConflictResponse is returned with 409 Conflict when an add-to-cart
// targets a different fundraiser than the one the cart is bound to. The
// client resolves it by calling the conflict endpoint with one of the listed
// resolutions.
type CartConflictResponse struct {
	ConflictState        string   `json:"conflict_state"`
	CurrentFundraiserID  uint     `json:"current_fundraiser_id"`
	AttemptedFundraiser  uint     `json:"attempted_fundraiser_id"`
	AvailableResolutions []string `json:"available_resolutions"`
}

// CheckoutFailureResponse reports a checkout that charged the buyer but
// failed to record the order. The payment reference lets support reconcile
// the charge.
type CheckoutFailureResponse struct {
	RequestID  string `json:"request_id"`
	ErrorMsg   string `json:"error"`
	PaymentRef string `json:"payment_ref"`
}
