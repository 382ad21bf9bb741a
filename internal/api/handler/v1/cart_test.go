package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/handler/v1"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/handler/v1/response"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/service"
)

type stubCartService struct {
	cart       domain.Cart
	addErr     error
	resolveErr error

	resolution domain.ConflictResolution
	pending    *service.AddItemInput
}

func (s *stubCartService) CreateCart(context.Context) (domain.Cart, error) {
	return s.cart, nil
}

func (s *stubCartService) GetCart(_ context.Context, token string) (domain.Cart, error) {
	if token != s.cart.Token {
		return domain.Cart{}, service.ErrCartNotFound
	}
	return s.cart, nil
}

func (s *stubCartService) AddItem(_ context.Context, _ string, _ service.AddItemInput) (domain.Cart, error) {
	if s.addErr != nil {
		return domain.Cart{}, s.addErr
	}
	return s.cart, nil
}

func (s *stubCartService) ResolveConflict(_ context.Context, _ string, resolution domain.ConflictResolution, pending *service.AddItemInput) (domain.Cart, error) {
	s.resolution = resolution
	s.pending = pending
	if s.resolveErr != nil {
		return domain.Cart{}, s.resolveErr
	}
	return s.cart, nil
}

func (s *stubCartService) UpdateLineQuantity(_ context.Context, _ string, _ uint, _ int) (domain.Cart, error) {
	return s.cart, nil
}

func (s *stubCartService) RemoveLine(_ context.Context, _ string, _ uint) (domain.Cart, error) {
	return s.cart, nil
}

func (s *stubCartService) ClearCart(_ context.Context, _ string) (domain.Cart, error) {
	return s.cart, nil
}

func newCartRouter(svc v1.CartService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := v1.NewCartHandler(svc)

	router.POST("/carts", handler.HandleCreateCart)
	router.GET("/carts/:token", handler.HandleGetCart)
	router.POST("/carts/:token/items", handler.HandleAddItem)
	router.POST("/carts/:token/conflict", handler.HandleResolveConflict)

	return router
}

func TestCartHandler_HandleAddItem_Conflict(t *testing.T) {
	svc := &stubCartService{
		cart:   domain.Cart{Token: "tok"},
		addErr: &service.ConflictError{CurrentFundraiserID: 5, AttemptedFundraiserID: 9},
	}
	router := newCartRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/carts/tok/items",
		strings.NewReader(`{"item_id": 3, "quantity": 1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body response.CartConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(domain.ConflictDetected), body.ConflictState)
	assert.Equal(t, uint(5), body.CurrentFundraiserID)
	assert.Equal(t, uint(9), body.AttemptedFundraiser)
	assert.Equal(t, []string{
		string(domain.ResolutionClearAndContinue),
		string(domain.ResolutionCancelAndStay),
	}, body.AvailableResolutions)
}

func TestCartHandler_HandleAddItem_Unprocessable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "insufficient stock", err: service.ErrInsufficientStock},
		{name: "unknown option", err: domain.ErrUnknownOption},
		{name: "inactive item", err: domain.ErrItemInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubCartService{cart: domain.Cart{Token: "tok"}, addErr: tt.err}
			router := newCartRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/carts/tok/items",
				strings.NewReader(`{"item_id": 3, "quantity": 1}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestCartHandler_HandleAddItem_BadRequest(t *testing.T) {
	svc := &stubCartService{cart: domain.Cart{Token: "tok"}}
	router := newCartRouter(svc)

	// Quantity below the minimum fails request validation.
	req := httptest.NewRequest(http.MethodPost, "/carts/tok/items",
		strings.NewReader(`{"item_id": 3, "quantity": 0}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_HandleGetCart_NotFound(t *testing.T) {
	svc := &stubCartService{cart: domain.Cart{Token: "tok"}}
	router := newCartRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/carts/other", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_HandleResolveConflict(t *testing.T) {
	svc := &stubCartService{cart: domain.Cart{Token: "tok"}}
	router := newCartRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/carts/tok/conflict",
		strings.NewReader(`{"resolution": "clear_and_continue", "pending": {"item_id": 3, "quantity": 2}}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ResolutionClearAndContinue, svc.resolution)
	require.NotNil(t, svc.pending)
	assert.Equal(t, uint(3), svc.pending.ItemID)
	assert.Equal(t, 2, svc.pending.Quantity)

	t.Run("unknown resolution fails validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/carts/tok/conflict",
			strings.NewReader(`{"resolution": "merge"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
