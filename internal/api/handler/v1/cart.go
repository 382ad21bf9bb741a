package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/handler/v1/request"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/handler/v1/response"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/service"
)

type CartService interface {
	CreateCart(ctx context.Context) (domain.Cart, error)
	GetCart(ctx context.Context, token string) (domain.Cart, error)
	AddItem(ctx context.Context, token string, input service.AddItemInput) (domain.Cart, error)
	ResolveConflict(ctx context.Context, token string, resolution domain.ConflictResolution, pending *service.AddItemInput) (domain.Cart, error)
	UpdateLineQuantity(ctx context.Context, token string, lineID uint, quantity int) (domain.Cart, error)
	RemoveLine(ctx context.Context, token string, lineID uint) (domain.Cart, error)
	ClearCart(ctx context.Context, token string) (domain.Cart, error)
}

type CartHandler struct {
	svc CartService
}

func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{
		svc: svc,
	}
}

// HandleCreateCart godoc
// @Summary      Create an empty cart
// @Description  Creates a cart and returns its token; the client stores the token and addresses the cart with it
// @Tags         carts
// @Produce      json
// @Success      201  {object}  domain.Cart
// @Failure      500  {object}  response.Err
// @Router       /carts [post]
func (h *CartHandler) HandleCreateCart(ctx *gin.Context) {
	cart, err := h.svc.CreateCart(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateCart -> h.svc.CreateCart -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, cart)
}

// HandleGetCart godoc
// @Summary      Get a cart
// @Description  Returns the cart with per-line availability recomputed from current inventory
// @Tags         carts
// @Produce      json
// @Param        token  path      string  true  "cart token"
// @Success      200  {object}  domain.Cart
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /carts/{token} [get]
func (h *CartHandler) HandleGetCart(ctx *gin.Context) {
	token := ctx.Param("token")

	cart, err := h.svc.GetCart(ctx.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("cart", "token", token))
			return
		}

		err = fmt.Errorf("v1.HandleGetCart -> h.svc.GetCart -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

// HandleAddItem godoc
// @Summary      Add an item to a cart
// @Description  Merges into an existing line when item and selections match. Returns 409 with resolution choices when the item belongs to a different fundraiser than the cart.
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        token  path      string                      true  "cart token"
// @Param        input  body      request.AddCartItemRequest  true  "item, selections and quantity"
// @Success      200  {object}  domain.Cart
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.CartConflictResponse
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /carts/{token}/items [post]
func (h *CartHandler) HandleAddItem(ctx *gin.Context) {
	token := ctx.Param("token")

	var input request.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cart, err := h.svc.AddItem(ctx.Request.Context(), token, service.AddItemInput{
		ItemID:     input.ItemID,
		Selections: input.Selections,
		Quantity:   input.Quantity,
	})
	if err != nil {
		h.renderCartErr(ctx, token, input.ItemID, err)
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

// HandleResolveConflict godoc
// @Summary      Resolve a fundraiser conflict
// @Description  clear_and_continue empties the cart and replays the pending add; cancel_and_stay keeps the cart as is
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        token  path      string                          true  "cart token"
// @Param        input  body      request.ResolveConflictRequest  true  "resolution and optional pending add"
// @Success      200  {object}  domain.Cart
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /carts/{token}/conflict [post]
func (h *CartHandler) HandleResolveConflict(ctx *gin.Context) {
	token := ctx.Param("token")

	var input request.ResolveConflictRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var pending *service.AddItemInput
	if input.Pending != nil {
		pending = &service.AddItemInput{
			ItemID:     input.Pending.ItemID,
			Selections: input.Pending.Selections,
			Quantity:   input.Pending.Quantity,
		}
	}

	cart, err := h.svc.ResolveConflict(ctx.Request.Context(), token, domain.ConflictResolution(input.Resolution), pending)
	if err != nil {
		itemID := uint(0)
		if input.Pending != nil {
			itemID = input.Pending.ItemID
		}
		h.renderCartErr(ctx, token, itemID, err)
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

// HandleUpdateItem godoc
// @Summary      Set a cart line's quantity
// @Description  Quantity zero removes the line; removing the last line unbinds the cart from its fundraiser
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        token   path      string                         true  "cart token"
// @Param        lineID  path      int                            true  "cart line ID"
// @Param        input   body      request.UpdateCartItemRequest  true  "new quantity"
// @Success      200  {object}  domain.Cart
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /carts/{token}/items/{lineID} [put]
func (h *CartHandler) HandleUpdateItem(ctx *gin.Context) {
	token := ctx.Param("token")

	lineID, err := strconv.ParseUint(ctx.Param("lineID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid line ID: %w", err)))
		return
	}

	var input request.UpdateCartItemRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cart, err := h.svc.UpdateLineQuantity(ctx.Request.Context(), token, uint(lineID), input.Quantity)
	if err != nil {
		h.renderCartErr(ctx, token, uint(lineID), err)
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

// HandleRemoveItem godoc
// @Summary      Remove a cart line
// @Tags         carts
// @Produce      json
// @Param        token   path      string  true  "cart token"
// @Param        lineID  path      int     true  "cart line ID"
// @Success      200  {object}  domain.Cart
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /carts/{token}/items/{lineID} [delete]
func (h *CartHandler) HandleRemoveItem(ctx *gin.Context) {
	token := ctx.Param("token")

	lineID, err := strconv.ParseUint(ctx.Param("lineID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid line ID: %w", err)))
		return
	}

	cart, err := h.svc.RemoveLine(ctx.Request.Context(), token, uint(lineID))
	if err != nil {
		h.renderCartErr(ctx, token, uint(lineID), err)
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

// HandleClearCart godoc
// @Summary      Empty a cart
// @Tags         carts
// @Produce      json
// @Param        token  path      string  true  "cart token"
// @Success      200  {object}  domain.Cart
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /carts/{token} [delete]
func (h *CartHandler) HandleClearCart(ctx *gin.Context) {
	token := ctx.Param("token")

	cart, err := h.svc.ClearCart(ctx.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("cart", "token", token))
			return
		}

		err = fmt.Errorf("v1.HandleClearCart -> h.svc.ClearCart -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

func (h *CartHandler) renderCartErr(ctx *gin.Context, token string, id uint, err error) {
	var conflictErr *service.ConflictError

	switch {
	case errors.As(err, &conflictErr):
		ctx.JSON(http.StatusConflict, response.CartConflictResponse{
			ConflictState:       string(domain.ConflictDetected),
			CurrentFundraiserID: conflictErr.CurrentFundraiserID,
			AttemptedFundraiser: conflictErr.AttemptedFundraiserID,
			AvailableResolutions: []string{
				string(domain.ResolutionClearAndContinue),
				string(domain.ResolutionCancelAndStay),
			},
		})
	case errors.Is(err, service.ErrCartNotFound):
		response.RenderErr(ctx, response.ErrNotFound("cart", "token", token))
	case errors.Is(err, service.ErrItemNotFound):
		response.RenderErr(ctx, response.ErrNotFound("item", "ID", id))
	case errors.Is(err, service.ErrCartLineNotFound):
		response.RenderErr(ctx, response.ErrNotFound("cart line", "ID", id))
	case errors.Is(err, service.ErrInsufficientStock):
		response.RenderErr(ctx, response.ErrUnprocessable(err))
	case errors.Is(err, domain.ErrUnknownGroup),
		errors.Is(err, domain.ErrUnknownOption),
		errors.Is(err, domain.ErrOptionUnavailable),
		errors.Is(err, domain.ErrSelectionTooFew),
		errors.Is(err, domain.ErrSelectionTooMany),
		errors.Is(err, domain.ErrItemInactive):
		response.RenderErr(ctx, response.ErrUnprocessable(err))
	default:
		err = fmt.Errorf("v1.renderCartErr -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
