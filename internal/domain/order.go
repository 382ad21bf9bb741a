package domain

import "time"

type OrderStatus string

const (
	OrderPaid      OrderStatus = "paid"
	OrderFulfilled OrderStatus = "fulfilled"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID            uint        `json:"id"`
	Reference     string      `json:"reference"`
	FundraiserID  uint        `json:"fundraiser_id"`
	ParticipantID *uint       `json:"participant_id,omitempty"`
	ContactName   string      `json:"contact_name"`
	ContactEmail  string      `json:"contact_email"`
	ContactPhone  string      `json:"contact_phone"`
	TotalCents    int64       `json:"total_cents"`
	PaymentRef    string      `json:"payment_ref"`
	Status        OrderStatus `json:"status"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem is an immutable snapshot of a cart line at checkout time.
type OrderItem struct {
	ID             uint                `json:"id"`
	OrderID        uint                `json:"order_id"`
	ItemID         uint                `json:"item_id"`
	Name           string              `json:"name"`
	Quantity       int                 `json:"quantity"`
	UnitPriceCents int64               `json:"unit_price_cents"`
	Selections     SelectionMap        `json:"selections"`
	SelectionNames map[string][]string `json:"selection_names,omitempty"`
}
