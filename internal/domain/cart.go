package domain

import (
	"errors"
	"time"
)

// ErrFundraiserConflict is returned when an add targets a fundraiser other
// than the one the cart is bound to and the caller has not resolved the
// conflict. The cart is left unchanged.
var ErrFundraiserConflict = errors.New("cart already holds items from another fundraiser")

type ConflictState string

const (
	ConflictNone     ConflictState = "no_conflict"
	ConflictDetected ConflictState = "conflict_detected"
)

type ConflictResolution string

const (
	// ResolutionClearAndContinue empties the cart, rebinds it to the new
	// fundraiser and executes the pending add.
	ResolutionClearAndContinue ConflictResolution = "clear_and_continue"
	// ResolutionCancelAndStay discards the pending add and leaves the cart
	// untouched.
	ResolutionCancelAndStay ConflictResolution = "cancel_and_stay"
)

type Cart struct {
	ID           uint       `json:"id"`
	Token        string     `json:"token"`
	FundraiserID uint       `json:"fundraiser_id"` // 0 = unbound
	Items        []CartItem `json:"items"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID             uint         `json:"id"`
	CartID         uint         `json:"cart_id"`
	ItemID         uint         `json:"item_id"`
	Name           string       `json:"name"`
	Quantity       int          `json:"quantity"`
	UnitPriceCents int64        `json:"unit_price_cents"`
	// Selections is the backend representation (group ID -> option IDs);
	// SelectionNames is the display-friendly mirror of the same choice.
	Selections     SelectionMap        `json:"selections"`
	SelectionNames map[string][]string `json:"selection_names,omitempty"`

	// Available is recomputed from current inventory whenever the cart is
	// loaded; it is never persisted.
	Available int `json:"available_quantity"`
}

func (ci *CartItem) TotalCents() int64 {
	return ci.UnitPriceCents * int64(ci.Quantity)
}

// ConflictState reports whether binding the cart to fundraiserID would cross
// the single-fundraiser invariant.
func (c *Cart) ConflictState(fundraiserID uint) ConflictState {
	if len(c.Items) > 0 && c.FundraiserID != 0 && c.FundraiserID != fundraiserID {
		return ConflictDetected
	}
	return ConflictNone
}

// LineFor finds the line holding the same item with a value-equal selection.
func (c *Cart) LineFor(itemID uint, selection SelectionMap) *CartItem {
	for idx := range c.Items {
		line := &c.Items[idx]
		if line.ItemID == itemID && line.Selections.Equal(selection) {
			return line
		}
	}
	return nil
}

// QuantityOf is the quantity already carted for an item+selection, used when
// checking availability for an add.
func (c *Cart) QuantityOf(itemID uint, selection SelectionMap) int {
	if line := c.LineFor(itemID, selection); line != nil {
		return line.Quantity
	}
	return 0
}

// AddLine merges the line into an existing one with identical item and
// selection, or appends it, and binds the cart's fundraiser.
func (c *Cart) AddLine(fundraiserID uint, line CartItem) {
	c.FundraiserID = fundraiserID
	if existing := c.LineFor(line.ItemID, line.Selections); existing != nil {
		existing.Quantity += line.Quantity
		return
	}
	c.Items = append(c.Items, line)
}

// SetLineQuantity updates a line by ID. Quantities at or below zero remove
// the line; removing the last line resets the fundraiser binding.
func (c *Cart) SetLineQuantity(lineID uint, quantity int) bool {
	for idx := range c.Items {
		if c.Items[idx].ID != lineID {
			continue
		}
		if quantity <= 0 {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		} else {
			c.Items[idx].Quantity = quantity
		}
		if len(c.Items) == 0 {
			c.FundraiserID = 0
		}
		return true
	}
	return false
}

// Clear empties the cart and resets the fundraiser binding.
func (c *Cart) Clear() {
	c.Items = nil
	c.FundraiserID = 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) TotalCents() int64 {
	var total int64
	for idx := range c.Items {
		total += c.Items[idx].TotalCents()
	}
	return total
}
