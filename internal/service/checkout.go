package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/repository"
)

var (
	ErrCartEmpty        = errors.New("cart is empty")
	ErrFundraiserClosed = errors.New("fundraiser is not open")
	ErrPaymentFailed    = errors.New("payment failed")
	ErrOrderNotFound    = repository.ErrOrderNotFound
)

// OrderRecordingError reports that a payment was captured but the order
// could not be recorded. The payment reference is preserved so support can
// reconcile the charge manually.
type OrderRecordingError struct {
	PaymentRef string
	Err        error
}

func (e *OrderRecordingError) Error() string {
	return fmt.Sprintf("payment %s captured but order recording failed: %v", e.PaymentRef, e.Err)
}

func (e *OrderRecordingError) Unwrap() error {
	return e.Err
}

// PaymentProcessor charges the given amount and returns a provider payment
// reference on success.
type PaymentProcessor interface {
	Charge(ctx context.Context, amountCents int64, currency, paymentMethodID, description string) (string, error)
}

type CheckoutCartRepository interface {
	FindByToken(ctx context.Context, token string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) (domain.Cart, error)
}

type CheckoutCatalogRepository interface {
	FindFundraiserByID(ctx context.Context, id uint) (domain.Fundraiser, error)
	FindParticipantByID(ctx context.Context, id uint) (domain.Participant, error)
	FindItemByID(ctx context.Context, id uint) (domain.Item, error)
	DecrementStock(ctx context.Context, item domain.Item, selection domain.SelectionMap, quantity int) error
}

type CheckoutOrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	FindByReference(ctx context.Context, reference string) (domain.Order, error)
	FindByFundraiserID(ctx context.Context, fundraiserID uint) ([]domain.Order, error)
}

type CheckoutService struct {
	carts     CheckoutCartRepository
	catalog   CheckoutCatalogRepository
	orders    CheckoutOrderRepository
	processor PaymentProcessor
	events    EventBroadcaster
}

func NewCheckoutService(
	carts CheckoutCartRepository,
	catalog CheckoutCatalogRepository,
	orders CheckoutOrderRepository,
	processor PaymentProcessor,
	events EventBroadcaster,
) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		catalog:   catalog,
		orders:    orders,
		processor: processor,
		events:    events,
	}
}

// CheckoutInput carries the buyer's contact details and payment method for a
// cart checkout.
type CheckoutInput struct {
	CartToken       string
	ParticipantID   *uint
	ContactName     string
	ContactEmail    string
	ContactPhone    string
	PaymentMethodID string
	Currency        string
}

// Checkout charges the cart total, decrements inventory, records the order
// and clears the cart. Payment confirmation and order recording are two
// separate steps with no compensating transaction: a failure after a
// successful charge returns *OrderRecordingError so the caller can surface
// the payment reference.
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (domain.Order, error) {
	cart, err := s.carts.FindByToken(ctx, input.CartToken)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.carts.FindByToken -> %w", err)
	}

	if cart.IsEmpty() {
		return domain.Order{}, ErrCartEmpty
	}

	fundraiser, err := s.catalog.FindFundraiserByID(ctx, cart.FundraiserID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.catalog.FindFundraiserByID -> %w", err)
	}
	if !fundraiser.IsOpen(time.Now()) {
		return domain.Order{}, ErrFundraiserClosed
	}

	if input.ParticipantID != nil {
		participant, err := s.catalog.FindParticipantByID(ctx, *input.ParticipantID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("s.catalog.FindParticipantByID -> %w", err)
		}
		if participant.FundraiserID != fundraiser.ID {
			return domain.Order{}, ErrParticipantNotFound
		}
	}

	// Re-check availability against live inventory before taking money.
	for _, line := range cart.Items {
		item, err := s.catalog.FindItemByID(ctx, line.ItemID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("s.catalog.FindItemByID -> %w", err)
		}
		if line.Quantity > item.AvailableQuantity(line.Selections) {
			return domain.Order{}, ErrInsufficientStock
		}
	}

	total := cart.TotalCents()
	currency := input.Currency
	if currency == "" {
		currency = "usd"
	}

	description := fmt.Sprintf("%s order for %s", fundraiser.Name, input.ContactName)
	paymentRef, err := s.processor.Charge(ctx, total, currency, input.PaymentMethodID, description)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.processor.Charge -> %w", err)
	}

	order := domain.Order{
		Reference:     uuid.NewString(),
		FundraiserID:  fundraiser.ID,
		ParticipantID: input.ParticipantID,
		ContactName:   input.ContactName,
		ContactEmail:  input.ContactEmail,
		ContactPhone:  input.ContactPhone,
		TotalCents:    total,
		PaymentRef:    paymentRef,
		Status:        domain.OrderPaid,
	}

	for _, line := range cart.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ItemID:         line.ItemID,
			Name:           line.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			Selections:     line.Selections.Clone(),
			SelectionNames: line.SelectionNames,
		})
	}

	// Past this point money has been taken; all failures are recording
	// failures and carry the payment reference.
	for _, line := range cart.Items {
		item, err := s.catalog.FindItemByID(ctx, line.ItemID)
		if err != nil {
			return domain.Order{}, &OrderRecordingError{PaymentRef: paymentRef, Err: err}
		}
		if err := s.catalog.DecrementStock(ctx, item, line.Selections, line.Quantity); err != nil {
			return domain.Order{}, &OrderRecordingError{PaymentRef: paymentRef, Err: err}
		}
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return domain.Order{}, &OrderRecordingError{PaymentRef: paymentRef, Err: err}
	}

	cart.Clear()
	if _, err := s.carts.Save(ctx, cart); err != nil {
		// The order exists; a stale cart is recoverable by the client.
		zap.L().Warn("failed to clear cart after checkout",
			zap.String("cart_token", input.CartToken),
			zap.String("order_reference", created.Reference),
			zap.Error(err))
	}

	s.events.Broadcast(domain.Event{
		Type:         domain.EventOrderCreated,
		FundraiserID: created.FundraiserID,
		OrderRef:     created.Reference,
		Timestamp:    time.Now(),
	})
	s.events.Broadcast(domain.Event{
		Type:         domain.EventInventoryUpdated,
		FundraiserID: created.FundraiserID,
		Timestamp:    time.Now(),
	})

	return created, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, reference string) (domain.Order, error) {
	order, err := s.orders.FindByReference(ctx, reference)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.orders.FindByReference -> %w", err)
	}

	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, fundraiserID uint) ([]domain.Order, error) {
	orders, err := s.orders.FindByFundraiserID(ctx, fundraiserID)
	if err != nil {
		return nil, fmt.Errorf("s.orders.FindByFundraiserID -> %w", err)
	}

	return orders, nil
}
