package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AddCartItemRequest struct {
	ItemID     uint            `json:"item_id"`
	Selections map[uint][]uint `json:"selections"`
	Quantity   int             `json:"quantity"`
}

func (req *AddCartItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ItemID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type UpdateCartItemRequest struct {
	// Zero removes the line, matching quantity steppers that decrement to 0.
	Quantity int `json:"quantity"`
}

func (req *UpdateCartItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantity, validation.Min(0)),
	)
}

type ResolveConflictRequest struct {
	Resolution string              `json:"resolution"`
	Pending    *AddCartItemRequest `json:"pending,omitempty"`
}

func (req *ResolveConflictRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Resolution, validation.Required,
			validation.In("clear_and_continue", "cancel_and_stay")),
	)
	if err != nil {
		return err
	}

	if req.Pending != nil {
		return req.Pending.Validate()
	}

	return nil
}
