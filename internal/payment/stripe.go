// Package payment wraps the Stripe API behind the checkout service's
// PaymentProcessor interface.
package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// StripeProcessor charges cards through Stripe PaymentIntents. Intents are
// created already confirmed, so a nil error means the charge succeeded.
type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeProcessor{
		api: api,
	}
}

func (p *StripeProcessor) Charge(ctx context.Context, amountCents int64, currency, paymentMethodID, description string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(currency),
		PaymentMethod: stripe.String(paymentMethodID),
		Description:   stripe.String(description),
		Confirm:       stripe.Bool(true),
		ConfirmationMethod: stripe.String(
			string(stripe.PaymentIntentConfirmationMethodAutomatic),
		),
	}

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("p.api.PaymentIntents.New -> %w", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("payment intent %s not succeeded: %s", intent.ID, intent.Status)
	}

	return intent.ID, nil
}
