package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateFundraiserRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartsAt    string `json:"starts_at" format:"RFC3339"`
	EndsAt      string `json:"ends_at" format:"RFC3339"`
	Active      bool   `json:"active"`
	Featured    bool   `json:"featured"`
}

func (req *CreateFundraiserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Slug, validation.Required, validation.Length(2, 80), is.DNSName),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
	)
}

type CreateParticipantRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

func (req *CreateParticipantRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.PhotoURL, is.URL),
	)
}

type CreateOptionRequest struct {
	Name                 string `json:"name"`
	AdditionalPriceCents int64  `json:"additional_price_cents"`
	Available            bool   `json:"available"`
	Stock                int    `json:"stock"`
	Damaged              int    `json:"damaged"`
}

type CreateOptionGroupRequest struct {
	Name            string                `json:"name"`
	MinSelect       int                   `json:"min_select"`
	MaxSelect       int                   `json:"max_select"`
	TracksInventory bool                  `json:"tracks_inventory"`
	Position        int                   `json:"position"`
	Options         []CreateOptionRequest `json:"options"`
}

type CreateVariantRequest struct {
	// Selections maps 1-based option group positions to 1-based option
	// positions within this item, since IDs are not assigned yet.
	Selections map[uint][]uint `json:"selections"`
	Stock      int             `json:"stock"`
	Damaged    int             `json:"damaged"`
	Active     bool            `json:"active"`
}

type CreateItemRequest struct {
	Name         string                     `json:"name"`
	Description  string                     `json:"description"`
	PriceCents   int64                      `json:"price_cents"`
	TrackingMode string                     `json:"tracking_mode"`
	Stock        int                        `json:"stock"`
	Damaged      int                        `json:"damaged"`
	Active       bool                       `json:"active"`
	Position     int                        `json:"position"`
	OptionGroups []CreateOptionGroupRequest `json:"option_groups"`
	Variants     []CreateVariantRequest     `json:"variants"`
}

func (req *CreateItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.PriceCents, validation.Min(0)),
		validation.Field(&req.TrackingMode, validation.Required,
			validation.In("none", "item", "option", "variant")),
		validation.Field(&req.Stock, validation.Min(0)),
		validation.Field(&req.Damaged, validation.Min(0)),
	)
}

type UpdateItemStockRequest struct {
	Stock   int `json:"stock"`
	Damaged int `json:"damaged"`
}

func (req *UpdateItemStockRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Stock, validation.Min(0)),
		validation.Field(&req.Damaged, validation.Min(0)),
	)
}

type UpdateOptionStockRequest struct {
	OptionID  uint `json:"option_id"`
	Stock     int  `json:"stock"`
	Damaged   int  `json:"damaged"`
	Available bool `json:"available"`
}

func (req *UpdateOptionStockRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.OptionID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Stock, validation.Min(0)),
		validation.Field(&req.Damaged, validation.Min(0)),
	)
}

type UpdateVariantStockRequest struct {
	VariantID uint `json:"variant_id"`
	Stock     int  `json:"stock"`
	Damaged   int  `json:"damaged"`
	Active    bool `json:"active"`
}

func (req *UpdateVariantStockRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.VariantID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Stock, validation.Min(0)),
		validation.Field(&req.Damaged, validation.Min(0)),
	)
}
