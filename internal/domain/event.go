package domain

import "time"

type EventType string

const (
	EventInventoryUpdated   EventType = "inventory.updated"
	EventOrderCreated       EventType = "order.created"
	EventFundraiserUpdated  EventType = "fundraiser.updated"
	EventParticipantUpdated EventType = "participant.updated"
)

// Event is pushed over the WebSocket channel. Delivery is fire-and-forget
// with no ordering guarantee; consumers match by item/fundraiser ID and apply
// last-applied-wins.
type Event struct {
	Type         EventType `json:"type"`
	FundraiserID uint      `json:"fundraiser_id,omitempty"`
	ItemID       uint      `json:"item_id,omitempty"`
	OrderRef     string    `json:"order_ref,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
