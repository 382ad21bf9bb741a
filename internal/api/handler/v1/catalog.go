package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/handler/v1/request"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/handler/v1/response"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/repository"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/service"
)

type CatalogService interface {
	ListFundraisers(ctx context.Context, filter repository.FundraiserFilter) ([]domain.Fundraiser, error)
	GetFundraiserBySlug(ctx context.Context, slug string) (domain.Fundraiser, error)
	GetFundraiserByID(ctx context.Context, id uint) (domain.Fundraiser, error)
	ListItems(ctx context.Context, fundraiserID uint) ([]domain.Item, error)
	ListParticipants(ctx context.Context, fundraiserID uint) ([]domain.Participant, error)
	GetItem(ctx context.Context, itemID uint) (domain.Item, error)
	CreateFundraiser(ctx context.Context, fundraiser domain.Fundraiser) (domain.Fundraiser, error)
	CreateParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	CreateItem(ctx context.Context, item domain.Item, variants []service.VariantInput) (domain.Item, error)
	UpdateItemStock(ctx context.Context, itemID uint, stock, damaged int) error
	UpdateOptionStock(ctx context.Context, itemID, optionID uint, stock, damaged int, available bool) error
	UpdateVariantStock(ctx context.Context, itemID, variantID uint, stock, damaged int, active bool) error
}

type CatalogHandler struct {
	svc  CatalogService
	uSvc UserService
}

func NewCatalogHandler(svc CatalogService, uSvc UserService) *CatalogHandler {
	return &CatalogHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListFundraisers godoc
// @Summary      List fundraisers
// @Description  Lists fundraisers, optionally filtered to active or featured ones, or by a search term
// @Tags         fundraisers
// @Produce      json
// @Param        active    query     bool    false  "only active fundraisers"
// @Param        featured  query     bool    false  "only featured fundraisers"
// @Param        search    query     string  false  "search in name and description"
// @Success      200  {array}   domain.Fundraiser
// @Failure      500  {object}  response.Err
// @Router       /fundraisers [get]
func (h *CatalogHandler) HandleListFundraisers(ctx *gin.Context) {
	filter := repository.FundraiserFilter{
		ActiveOnly:   ctx.Query("active") == "true",
		FeaturedOnly: ctx.Query("featured") == "true",
		Search:       ctx.Query("search"),
	}

	fundraisers, err := h.svc.ListFundraisers(ctx.Request.Context(), filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleListFundraisers -> h.svc.ListFundraisers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, fundraisers)
}

// HandleGetFundraiser godoc
// @Summary      Get a fundraiser by slug
// @Tags         fundraisers
// @Produce      json
// @Param        slug  path      string  true  "fundraiser slug"
// @Success      200  {object}  domain.Fundraiser
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /fundraisers/{slug} [get]
func (h *CatalogHandler) HandleGetFundraiser(ctx *gin.Context) {
	slug := ctx.Param("slug")

	fundraiser, err := h.svc.GetFundraiserBySlug(ctx.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrFundraiserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("fundraiser", "slug", slug))
			return
		}

		err = fmt.Errorf("v1.HandleGetFundraiser -> h.svc.GetFundraiserBySlug -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, fundraiser)
}

// resolveFundraiser turns the slug path parameter into a fundraiser,
// rendering a 404 when it does not exist.
func (h *CatalogHandler) resolveFundraiser(ctx *gin.Context) (domain.Fundraiser, bool) {
	slug := ctx.Param("slug")

	fundraiser, err := h.svc.GetFundraiserBySlug(ctx.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrFundraiserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("fundraiser", "slug", slug))
			return domain.Fundraiser{}, false
		}

		err = fmt.Errorf("v1.resolveFundraiser -> h.svc.GetFundraiserBySlug -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return domain.Fundraiser{}, false
	}

	return fundraiser, true
}

// HandleListItems godoc
// @Summary      List items of a fundraiser
// @Tags         fundraisers,items
// @Produce      json
// @Param        slug  path      string  true  "fundraiser slug"
// @Success      200  {array}   domain.Item
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /fundraisers/{slug}/items [get]
func (h *CatalogHandler) HandleListItems(ctx *gin.Context) {
	fundraiser, ok := h.resolveFundraiser(ctx)
	if !ok {
		return
	}

	items, err := h.svc.ListItems(ctx.Request.Context(), fundraiser.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListItems -> h.svc.ListItems -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleListParticipants godoc
// @Summary      List participants of a fundraiser
// @Tags         fundraisers,participants
// @Produce      json
// @Param        slug  path      string  true  "fundraiser slug"
// @Success      200  {array}   domain.Participant
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /fundraisers/{slug}/participants [get]
func (h *CatalogHandler) HandleListParticipants(ctx *gin.Context) {
	fundraiser, ok := h.resolveFundraiser(ctx)
	if !ok {
		return
	}

	participants, err := h.svc.ListParticipants(ctx.Request.Context(), fundraiser.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListParticipants -> h.svc.ListParticipants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participants)
}

// HandleGetItem godoc
// @Summary      Get an item with options, variants and availability
// @Tags         items
// @Produce      json
// @Param        itemID  path      int  true  "item ID"
// @Success      200  {object}  domain.Item
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /items/{itemID} [get]
func (h *CatalogHandler) HandleGetItem(ctx *gin.Context) {
	itemID, err := strconv.ParseUint(ctx.Param("itemID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid item ID: %w", err)))
		return
	}

	item, err := h.svc.GetItem(ctx.Request.Context(), uint(itemID))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("item", "ID", itemID))
			return
		}

		err = fmt.Errorf("v1.HandleGetItem -> h.svc.GetItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleCreateFundraiser godoc
// @Summary      Create a fundraiser
// @Tags         fundraisers
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateFundraiserRequest  true  "fundraiser details"
// @Success      201  {object}  domain.Fundraiser
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /fundraisers [post]
// @Security     BearerAuth
func (h *CatalogHandler) HandleCreateFundraiser(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	var input request.CreateFundraiserRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	startsAt, endsAt, err := parseFundraiserWindow(input.StartsAt, input.EndsAt)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	fundraiser, err := h.svc.CreateFundraiser(ctx.Request.Context(), domain.Fundraiser{
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Active:      input.Active,
		Featured:    input.Featured,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateFundraiser -> h.svc.CreateFundraiser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, fundraiser)
}

func parseFundraiserWindow(startsAt, endsAt string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startsAt != "" {
		if start, err = time.Parse(time.RFC3339, startsAt); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid starts_at: %w", err)
		}
	}
	if endsAt != "" {
		if end, err = time.Parse(time.RFC3339, endsAt); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid ends_at: %w", err)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("ends_at must be after starts_at")
	}

	return start, end, nil
}

// HandleCreateParticipant godoc
// @Summary      Add a participant to a fundraiser
// @Tags         fundraisers,participants
// @Accept       json
// @Produce      json
// @Param        slug   path      string                           true  "fundraiser slug"
// @Param        input  body      request.CreateParticipantRequest true  "participant details"
// @Success      201  {object}  domain.Participant
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /fundraisers/{slug}/participants [post]
// @Security     BearerAuth
func (h *CatalogHandler) HandleCreateParticipant(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	fundraiser, ok := h.resolveFundraiser(ctx)
	if !ok {
		return
	}

	var input request.CreateParticipantRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participant, err := h.svc.CreateParticipant(ctx.Request.Context(), domain.Participant{
		FundraiserID: fundraiser.ID,
		Name:         input.Name,
		PhotoURL:     input.PhotoURL,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateParticipant -> h.svc.CreateParticipant -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, participant)
}

// HandleCreateItem godoc
// @Summary      Add an item to a fundraiser
// @Tags         fundraisers,items
// @Accept       json
// @Produce      json
// @Param        slug   path      string                     true  "fundraiser slug"
// @Param        input  body      request.CreateItemRequest  true  "item details"
// @Success      201  {object}  domain.Item
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /fundraisers/{slug}/items [post]
// @Security     BearerAuth
func (h *CatalogHandler) HandleCreateItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	fundraiser, ok := h.resolveFundraiser(ctx)
	if !ok {
		return
	}

	var input request.CreateItemRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item := domain.Item{
		FundraiserID: fundraiser.ID,
		Name:         input.Name,
		Description:  input.Description,
		PriceCents:   input.PriceCents,
		TrackingMode: domain.TrackingMode(input.TrackingMode),
		Stock:        input.Stock,
		Damaged:      input.Damaged,
		Active:       input.Active,
	}

	for _, group := range input.OptionGroups {
		domainGroup := domain.OptionGroup{
			Name:            group.Name,
			MinSelect:       group.MinSelect,
			MaxSelect:       group.MaxSelect,
			TracksInventory: group.TracksInventory,
			Position:        group.Position,
		}
		for _, option := range group.Options {
			domainGroup.Options = append(domainGroup.Options, domain.Option{
				Name:                 option.Name,
				AdditionalPriceCents: option.AdditionalPriceCents,
				Available:            option.Available,
				Stock:                option.Stock,
				Damaged:              option.Damaged,
			})
		}
		item.OptionGroups = append(item.OptionGroups, domainGroup)
	}

	variants := make([]service.VariantInput, 0, len(input.Variants))
	for _, variant := range input.Variants {
		variants = append(variants, service.VariantInput{
			Selections: variant.Selections,
			Stock:      variant.Stock,
			Damaged:    variant.Damaged,
			Active:     variant.Active,
		})
	}

	created, err := h.svc.CreateItem(ctx.Request.Context(), item, variants)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownGroup) || errors.Is(err, domain.ErrUnknownOption):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateItem -> h.svc.CreateItem -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateItemStock godoc
// @Summary      Update item-level stock counts
// @Tags         items,inventory
// @Accept       json
// @Produce      json
// @Param        itemID  path      int                             true  "item ID"
// @Param        input   body      request.UpdateItemStockRequest  true  "stock counts"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /items/{itemID}/stock [put]
// @Security     BearerAuth
func (h *CatalogHandler) HandleUpdateItemStock(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	itemID, err := strconv.ParseUint(ctx.Param("itemID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid item ID: %w", err)))
		return
	}

	var input request.UpdateItemStockRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.UpdateItemStock(ctx.Request.Context(), uint(itemID), input.Stock, input.Damaged); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("item", "ID", itemID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateItemStock -> h.svc.UpdateItemStock -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusOK)
}

// HandleUpdateOptionStock godoc
// @Summary      Update option-level stock counts
// @Tags         items,inventory
// @Accept       json
// @Produce      json
// @Param        itemID  path      int                               true  "item ID"
// @Param        input   body      request.UpdateOptionStockRequest  true  "stock counts"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /items/{itemID}/options/stock [put]
// @Security     BearerAuth
func (h *CatalogHandler) HandleUpdateOptionStock(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	itemID, err := strconv.ParseUint(ctx.Param("itemID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid item ID: %w", err)))
		return
	}

	var input request.UpdateOptionStockRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err = h.svc.UpdateOptionStock(ctx.Request.Context(), uint(itemID), input.OptionID, input.Stock, input.Damaged, input.Available)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			response.RenderErr(ctx, response.ErrNotFound("item", "ID", itemID))
		case errors.Is(err, service.ErrOptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("option", "ID", input.OptionID))
		default:
			err = fmt.Errorf("v1.HandleUpdateOptionStock -> h.svc.UpdateOptionStock -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusOK)
}

// HandleUpdateVariantStock godoc
// @Summary      Update variant-level stock counts
// @Tags         items,inventory
// @Accept       json
// @Produce      json
// @Param        itemID  path      int                                true  "item ID"
// @Param        input   body      request.UpdateVariantStockRequest  true  "stock counts"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /items/{itemID}/variants/stock [put]
// @Security     BearerAuth
func (h *CatalogHandler) HandleUpdateVariantStock(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	itemID, err := strconv.ParseUint(ctx.Param("itemID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid item ID: %w", err)))
		return
	}

	var input request.UpdateVariantStockRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err = h.svc.UpdateVariantStock(ctx.Request.Context(), uint(itemID), input.VariantID, input.Stock, input.Damaged, input.Active)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			response.RenderErr(ctx, response.ErrNotFound("item", "ID", itemID))
		case errors.Is(err, service.ErrVariantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("variant", "ID", input.VariantID))
		default:
			err = fmt.Errorf("v1.HandleUpdateVariantStock -> h.svc.UpdateVariantStock -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusOK)
}
