package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
)

func testItem() domain.Item {
	return domain.Item{
		ID:           1,
		FundraiserID: 1,
		Name:         "Fundraiser Tee",
		PriceCents:   2500,
		TrackingMode: domain.TrackingNone,
		Active:       true,
		OptionGroups: []domain.OptionGroup{
			{
				ID:        10,
				ItemID:    1,
				Name:      "Size",
				MinSelect: 1,
				MaxSelect: 1,
				Options: []domain.Option{
					{ID: 100, GroupID: 10, Name: "S", Available: true, Stock: 5},
					{ID: 101, GroupID: 10, Name: "M", Available: true, Stock: 8, Damaged: 2},
					{ID: 102, GroupID: 10, Name: "L", Available: false},
				},
			},
			{
				ID:        11,
				ItemID:    1,
				Name:      "Color",
				MinSelect: 1,
				MaxSelect: 1,
				Options: []domain.Option{
					{ID: 110, GroupID: 11, Name: "Red", Available: true, Stock: 3},
					{ID: 111, GroupID: 11, Name: "Blue", Available: true, Stock: 1, Damaged: 4},
				},
			},
		},
	}
}

func TestItem_ValidateSelection(t *testing.T) {
	valid := domain.SelectionMap{10: {100}, 11: {110}}

	tests := []struct {
		name      string
		mutate    func(i *domain.Item)
		selection domain.SelectionMap
		wantErr   error
	}{
		{
			name:      "valid selection",
			selection: valid,
		},
		{
			name:      "inactive item",
			mutate:    func(i *domain.Item) { i.Active = false },
			selection: valid,
			wantErr:   domain.ErrItemInactive,
		},
		{
			name:      "unknown group",
			selection: domain.SelectionMap{99: {100}, 10: {100}, 11: {110}},
			wantErr:   domain.ErrUnknownGroup,
		},
		{
			name:      "unknown option",
			selection: domain.SelectionMap{10: {999}, 11: {110}},
			wantErr:   domain.ErrUnknownOption,
		},
		{
			name:      "manually disabled option",
			selection: domain.SelectionMap{10: {102}, 11: {110}},
			wantErr:   domain.ErrOptionUnavailable,
		},
		{
			name:      "missing required group",
			selection: domain.SelectionMap{10: {100}},
			wantErr:   domain.ErrSelectionTooFew,
		},
		{
			name:      "too many selections in a group",
			selection: domain.SelectionMap{10: {100, 101}, 11: {110}},
			wantErr:   domain.ErrSelectionTooMany,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := testItem()
			if tt.mutate != nil {
				tt.mutate(&item)
			}

			err := item.ValidateSelection(tt.selection)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestItem_AvailableQuantity_NoTracking(t *testing.T) {
	item := testItem()

	assert.Equal(t, domain.UnlimitedQuantity, item.AvailableQuantity(domain.SelectionMap{10: {100}, 11: {110}}))
}

func TestItem_AvailableQuantity_InactiveItem(t *testing.T) {
	item := testItem()
	item.Active = false

	assert.Equal(t, 0, item.AvailableQuantity(nil))
}

func TestItem_AvailableQuantity_ItemTracking(t *testing.T) {
	item := testItem()
	item.TrackingMode = domain.TrackingItem
	item.Stock = 10
	item.Damaged = 3

	assert.Equal(t, 7, item.AvailableQuantity(nil))

	item.Damaged = 15
	assert.Equal(t, 0, item.AvailableQuantity(nil), "damage beyond stock floors at zero")
}

func TestItem_AvailableQuantity_OptionTracking(t *testing.T) {
	item := testItem()
	item.TrackingMode = domain.TrackingOption
	item.OptionGroups[0].TracksInventory = true
	item.OptionGroups[1].TracksInventory = true

	// M has 8-2=6 sellable, Red has 3; the ceiling is the minimum.
	assert.Equal(t, 3, item.AvailableQuantity(domain.SelectionMap{10: {101}, 11: {110}}))

	// Blue is fully damaged.
	assert.Equal(t, 0, item.AvailableQuantity(domain.SelectionMap{10: {100}, 11: {111}}))

	// Untracked groups do not constrain availability.
	item.OptionGroups[1].TracksInventory = false
	assert.Equal(t, 5, item.AvailableQuantity(domain.SelectionMap{10: {100}, 11: {111}}))

	// An option disabled after it was carted sells nothing even with stock
	// remaining.
	item.OptionGroups[0].Options[2].Stock = 5
	assert.Equal(t, 0, item.AvailableQuantity(domain.SelectionMap{10: {102}, 11: {110}}))
}

func TestItem_AvailableQuantity_VariantTracking(t *testing.T) {
	item := testItem()
	item.TrackingMode = domain.TrackingVariant
	item.Variants = []domain.ItemVariant{
		{ID: 1, ItemID: 1, VariantKey: "10:100,11:110", Stock: 4, Damaged: 1, Active: true},
		{ID: 2, ItemID: 1, VariantKey: "10:101,11:110", Stock: 9, Active: false},
	}

	assert.Equal(t, 3, item.AvailableQuantity(domain.SelectionMap{10: {100}, 11: {110}}))
	assert.Equal(t, 3, item.AvailableQuantity(domain.SelectionMap{11: {110}, 10: {100}}), "key derivation is order independent")
	assert.Equal(t, 0, item.AvailableQuantity(domain.SelectionMap{10: {101}, 11: {110}}), "inactive variant sells nothing")
	assert.Equal(t, 0, item.AvailableQuantity(domain.SelectionMap{10: {100}, 11: {111}}), "unknown variant key sells nothing")
}

func TestItem_UnitPriceCents(t *testing.T) {
	item := testItem()
	item.OptionGroups[0].Options[1].AdditionalPriceCents = 200
	item.OptionGroups[1].Options[0].AdditionalPriceCents = 150

	assert.Equal(t, int64(2500), item.UnitPriceCents(nil))
	assert.Equal(t, int64(2850), item.UnitPriceCents(domain.SelectionMap{10: {101}, 11: {110}}))
}

func TestItem_SelectionNames(t *testing.T) {
	item := testItem()

	assert.Nil(t, item.SelectionNames(nil))

	names := item.SelectionNames(domain.SelectionMap{10: {101}, 11: {110}})
	assert.Equal(t, map[string][]string{"Size": {"M"}, "Color": {"Red"}}, names)
}
