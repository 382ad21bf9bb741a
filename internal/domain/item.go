package domain

import "time"

type TrackingMode string

const (
	TrackingNone    TrackingMode = "none"
	TrackingItem    TrackingMode = "item"
	TrackingOption  TrackingMode = "option"
	TrackingVariant TrackingMode = "variant"
)

// UnlimitedQuantity is the availability reported for items without any
// inventory tracking.
const UnlimitedQuantity = 999

type Item struct {
	ID           uint          `json:"id"`
	FundraiserID uint          `json:"fundraiser_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	PriceCents   int64         `json:"price_cents"`
	TrackingMode TrackingMode  `json:"tracking_mode"`
	Stock        int           `json:"stock"`
	Damaged      int           `json:"damaged"`
	Active       bool          `json:"active"`
	OptionGroups []OptionGroup `json:"option_groups,omitempty"`
	Variants     []ItemVariant `json:"variants,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type OptionGroup struct {
	ID              uint     `json:"id"`
	ItemID          uint     `json:"item_id"`
	Name            string   `json:"name"`
	MinSelect       int      `json:"min_select"`
	MaxSelect       int      `json:"max_select"`
	TracksInventory bool     `json:"tracks_inventory"`
	Position        int      `json:"position"`
	Options         []Option `json:"options,omitempty"`
}

type Option struct {
	ID                   uint   `json:"id"`
	GroupID              uint   `json:"group_id"`
	Name                 string `json:"name"`
	AdditionalPriceCents int64  `json:"additional_price_cents"`
	Available            bool   `json:"available"`
	Stock                int    `json:"stock"`
	Damaged              int    `json:"damaged"`
}

// AvailableStock is the sellable quantity of an option-tracked option,
// floored at zero.
func (o *Option) AvailableStock() int {
	if n := o.Stock - o.Damaged; n > 0 {
		return n
	}
	return 0
}

type ItemVariant struct {
	ID         uint   `json:"id"`
	ItemID     uint   `json:"item_id"`
	VariantKey string `json:"variant_key"`
	Stock      int    `json:"stock"`
	Damaged    int    `json:"damaged"`
	Active     bool   `json:"active"`
}

func (v *ItemVariant) AvailableStock() int {
	if !v.Active {
		return 0
	}
	if n := v.Stock - v.Damaged; n > 0 {
		return n
	}
	return 0
}

func (i *Item) optionGroup(groupID uint) (OptionGroup, bool) {
	for _, g := range i.OptionGroups {
		if g.ID == groupID {
			return g, true
		}
	}
	return OptionGroup{}, false
}

func (g *OptionGroup) option(optionID uint) (Option, bool) {
	for _, o := range g.Options {
		if o.ID == optionID {
			return o, true
		}
	}
	return Option{}, false
}

// Variant returns the pre-defined variant matching the given key.
func (i *Item) Variant(key string) (ItemVariant, bool) {
	for _, v := range i.Variants {
		if v.VariantKey == key {
			return v, true
		}
	}
	return ItemVariant{}, false
}
