package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
)

func TestCart_ConflictState(t *testing.T) {
	t.Run("empty cart never conflicts", func(t *testing.T) {
		cart := domain.Cart{}
		assert.Equal(t, domain.ConflictNone, cart.ConflictState(5))
	})

	t.Run("same fundraiser does not conflict", func(t *testing.T) {
		cart := domain.Cart{FundraiserID: 5, Items: []domain.CartItem{{ID: 1, ItemID: 1, Quantity: 1}}}
		assert.Equal(t, domain.ConflictNone, cart.ConflictState(5))
	})

	t.Run("other fundraiser conflicts", func(t *testing.T) {
		cart := domain.Cart{FundraiserID: 5, Items: []domain.CartItem{{ID: 1, ItemID: 1, Quantity: 1}}}
		assert.Equal(t, domain.ConflictDetected, cart.ConflictState(6))
	})
}

func TestCart_AddLine(t *testing.T) {
	cart := domain.Cart{}

	cart.AddLine(5, domain.CartItem{ID: 1, ItemID: 1, Quantity: 2, Selections: domain.SelectionMap{10: {100}}})

	assert.Equal(t, uint(5), cart.FundraiserID)
	assert.Len(t, cart.Items, 1)

	t.Run("value-equal selection merges into the existing line", func(t *testing.T) {
		cart.AddLine(5, domain.CartItem{ItemID: 1, Quantity: 3, Selections: domain.SelectionMap{10: {100}}})

		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("different selection appends a new line", func(t *testing.T) {
		cart.AddLine(5, domain.CartItem{ID: 2, ItemID: 1, Quantity: 1, Selections: domain.SelectionMap{10: {101}}})

		assert.Len(t, cart.Items, 2)
	})
}

func TestCart_SetLineQuantity(t *testing.T) {
	newCart := func() domain.Cart {
		return domain.Cart{
			FundraiserID: 5,
			Items: []domain.CartItem{
				{ID: 1, ItemID: 1, Quantity: 2},
				{ID: 2, ItemID: 2, Quantity: 1},
			},
		}
	}

	t.Run("updates quantity", func(t *testing.T) {
		cart := newCart()
		assert.True(t, cart.SetLineQuantity(1, 7))
		assert.Equal(t, 7, cart.Items[0].Quantity)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		cart := newCart()
		assert.True(t, cart.SetLineQuantity(1, 0))
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, uint(2), cart.Items[0].ID)
		assert.Equal(t, uint(5), cart.FundraiserID)
	})

	t.Run("removing the last line resets the fundraiser binding", func(t *testing.T) {
		cart := newCart()
		cart.SetLineQuantity(1, 0)
		cart.SetLineQuantity(2, -1)

		assert.True(t, cart.IsEmpty())
		assert.Zero(t, cart.FundraiserID)
	})

	t.Run("unknown line", func(t *testing.T) {
		cart := newCart()
		assert.False(t, cart.SetLineQuantity(99, 1))
	})
}

func TestCart_Clear(t *testing.T) {
	cart := domain.Cart{FundraiserID: 5, Items: []domain.CartItem{{ID: 1, Quantity: 1}}}

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.FundraiserID)
}

func TestCart_TotalCents(t *testing.T) {
	cart := domain.Cart{
		Items: []domain.CartItem{
			{Quantity: 2, UnitPriceCents: 2500},
			{Quantity: 1, UnitPriceCents: 1000},
		},
	}

	assert.Equal(t, int64(6000), cart.TotalCents())
	assert.Zero(t, (&domain.Cart{}).TotalCents())
}

func TestCart_QuantityOf(t *testing.T) {
	cart := domain.Cart{
		Items: []domain.CartItem{
			{ID: 1, ItemID: 1, Quantity: 3, Selections: domain.SelectionMap{10: {100}}},
		},
	}

	assert.Equal(t, 3, cart.QuantityOf(1, domain.SelectionMap{10: {100}}))
	assert.Zero(t, cart.QuantityOf(1, domain.SelectionMap{10: {101}}))
	assert.Zero(t, cart.QuantityOf(2, domain.SelectionMap{10: {100}}))
}
