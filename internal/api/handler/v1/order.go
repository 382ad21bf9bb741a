package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/handler/v1/request"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/handler/v1/response"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/service"
)

type CheckoutService interface {
	Checkout(ctx context.Context, input service.CheckoutInput) (domain.Order, error)
	GetOrder(ctx context.Context, reference string) (domain.Order, error)
	ListOrders(ctx context.Context, fundraiserID uint) ([]domain.Order, error)
}

// FundraiserResolver looks fundraisers up by slug for routes that scope
// orders to a fundraiser.
type FundraiserResolver interface {
	GetFundraiserBySlug(ctx context.Context, slug string) (domain.Fundraiser, error)
}

type OrderHandler struct {
	svc         CheckoutService
	uSvc        UserService
	fundraisers FundraiserResolver
}

func NewOrderHandler(svc CheckoutService, uSvc UserService, fundraisers FundraiserResolver) *OrderHandler {
	return &OrderHandler{
		svc:         svc,
		uSvc:        uSvc,
		fundraisers: fundraisers,
	}
}

// HandleCheckout godoc
// @Summary      Check out a cart
// @Description  Charges the cart total, decrements inventory, records the order and empties the cart. If the charge succeeds but recording fails, the response carries the payment reference for manual reconciliation.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        token  path      string                   true  "cart token"
// @Param        input  body      request.CheckoutRequest  true  "contact and payment details"
// @Success      201  {object}  domain.Order
// @Failure      400  {object}  response.Err
// @Failure      402  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.CheckoutFailureResponse
// @Router       /carts/{token}/checkout [post]
func (h *OrderHandler) HandleCheckout(ctx *gin.Context) {
	token := ctx.Param("token")

	var input request.CheckoutRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.Checkout(ctx.Request.Context(), service.CheckoutInput{
		CartToken:       token,
		ParticipantID:   input.ParticipantID,
		ContactName:     input.ContactName,
		ContactEmail:    input.ContactEmail,
		ContactPhone:    input.ContactPhone,
		PaymentMethodID: input.PaymentMethodID,
		Currency:        input.Currency,
	})
	if err != nil {
		var recordingErr *service.OrderRecordingError

		switch {
		case errors.As(err, &recordingErr):
			ctx.JSON(http.StatusInternalServerError, response.CheckoutFailureResponse{
				RequestID:  requestid.Get(ctx),
				ErrorMsg:   "payment succeeded but the order could not be recorded; contact support with the payment reference",
				PaymentRef: recordingErr.PaymentRef,
			})
		case errors.Is(err, service.ErrCartNotFound):
			response.RenderErr(ctx, response.ErrNotFound("cart", "token", token))
		case errors.Is(err, service.ErrCartEmpty):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrCartEmpty))
		case errors.Is(err, service.ErrFundraiserClosed):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrFundraiserClosed))
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrParticipantNotFound))
		case errors.Is(err, service.ErrInsufficientStock):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrInsufficientStock))
		default:
			err = fmt.Errorf("v1.HandleCheckout -> h.svc.Checkout -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// HandleGetOrder godoc
// @Summary      Get an order by reference
// @Tags         orders
// @Produce      json
// @Param        reference  path      string  true  "order reference"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders/{reference} [get]
func (h *OrderHandler) HandleGetOrder(ctx *gin.Context) {
	reference := ctx.Param("reference")

	order, err := h.svc.GetOrder(ctx.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "reference", reference))
			return
		}

		err = fmt.Errorf("v1.HandleGetOrder -> h.svc.GetOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleListOrders godoc
// @Summary      List orders of a fundraiser
// @Tags         orders,fundraisers
// @Produce      json
// @Param        slug  path      string  true  "fundraiser slug"
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /fundraisers/{slug}/orders [get]
// @Security     BearerAuth
func (h *OrderHandler) HandleListOrders(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	slug := ctx.Param("slug")
	fundraiser, err := h.fundraisers.GetFundraiserBySlug(ctx.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrFundraiserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("fundraiser", "slug", slug))
			return
		}

		err = fmt.Errorf("v1.HandleListOrders -> h.fundraisers.GetFundraiserBySlug -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	orders, err := h.svc.ListOrders(ctx.Request.Context(), fundraiser.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListOrders -> h.svc.ListOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}
