package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/service"
)

// stubCartRepository keeps a single cart in memory keyed by token.
type stubCartRepository struct {
	carts   map[string]domain.Cart
	saveErr error
	nextID  uint
}

func newStubCartRepository() *stubCartRepository {
	return &stubCartRepository{carts: make(map[string]domain.Cart)}
}

func (r *stubCartRepository) Create(_ context.Context, cart domain.Cart) (domain.Cart, error) {
	r.nextID++
	cart.ID = r.nextID
	r.carts[cart.Token] = cart
	return cart, nil
}

func (r *stubCartRepository) FindByToken(_ context.Context, token string) (domain.Cart, error) {
	cart, ok := r.carts[token]
	if !ok {
		return domain.Cart{}, service.ErrCartNotFound
	}
	return cart, nil
}

func (r *stubCartRepository) Save(_ context.Context, cart domain.Cart) (domain.Cart, error) {
	if r.saveErr != nil {
		return domain.Cart{}, r.saveErr
	}
	for idx := range cart.Items {
		if cart.Items[idx].ID == 0 {
			r.nextID++
			cart.Items[idx].ID = r.nextID
		}
	}
	r.carts[cart.Token] = cart
	return cart, nil
}

type stubItemReader struct {
	items map[uint]domain.Item
}

func (r *stubItemReader) FindItemByID(_ context.Context, id uint) (domain.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return domain.Item{}, service.ErrItemNotFound
	}
	return item, nil
}

func cartTestCatalog() *stubItemReader {
	return &stubItemReader{items: map[uint]domain.Item{
		1: {
			ID:           1,
			FundraiserID: 5,
			Name:         "Fundraiser Tee",
			PriceCents:   2500,
			TrackingMode: domain.TrackingItem,
			Stock:        10,
			Active:       true,
		},
		2: {
			ID:           2,
			FundraiserID: 5,
			Name:         "Sticker Pack",
			PriceCents:   500,
			TrackingMode: domain.TrackingNone,
			Active:       true,
		},
		3: {
			ID:           3,
			FundraiserID: 9,
			Name:         "Other Team Hat",
			PriceCents:   1500,
			TrackingMode: domain.TrackingNone,
			Active:       true,
		},
	}}
}

func seedCart(t *testing.T, repo *stubCartRepository) string {
	t.Helper()
	svc := service.NewCartService(repo, cartTestCatalog())
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	return cart.Token
}

func TestCartService_CreateCart(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())

	cart, err := svc.CreateCart(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, cart.Token)
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.FundraiserID)
}

func TestCartService_GetCart_NotFound(t *testing.T) {
	svc := service.NewCartService(newStubCartRepository(), cartTestCatalog())

	_, err := svc.GetCart(context.Background(), "no-such-token")

	assert.ErrorIs(t, err, service.ErrCartNotFound)
}

func TestCartService_AddItem(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())
	token := seedCart(t, repo)

	cart, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 2})

	require.NoError(t, err)
	assert.Equal(t, uint(5), cart.FundraiserID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Fundraiser Tee", cart.Items[0].Name)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, int64(2500), cart.Items[0].UnitPriceCents)
	assert.Equal(t, 10, cart.Items[0].Available)

	t.Run("same item and selection merges", func(t *testing.T) {
		cart, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 3})

		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("second item from the same fundraiser appends", func(t *testing.T) {
		cart, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 2, Quantity: 1})

		require.NoError(t, err)
		assert.Len(t, cart.Items, 2)
	})
}

func TestCartService_AddItem_InsufficientStock(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())
	token := seedCart(t, repo)

	_, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 8})
	require.NoError(t, err)

	// 8 already carted, 10 sellable: 3 more crosses the ceiling.
	_, err = svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 3})

	assert.ErrorIs(t, err, service.ErrInsufficientStock)
}

func TestCartService_AddItem_FundraiserConflict(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())
	token := seedCart(t, repo)

	_, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 3, Quantity: 1})

	assert.ErrorIs(t, err, service.ErrFundraiserConflict)

	var conflictErr *service.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, uint(5), conflictErr.CurrentFundraiserID)
	assert.Equal(t, uint(9), conflictErr.AttemptedFundraiserID)

	// The cart must be left unchanged.
	cart, err := svc.GetCart(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(5), cart.FundraiserID)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_ResolveConflict_ClearAndContinue(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())
	token := seedCart(t, repo)

	_, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 1})
	require.NoError(t, err)

	pending := &service.AddItemInput{ItemID: 3, Quantity: 2}
	cart, err := svc.ResolveConflict(context.Background(), token, domain.ResolutionClearAndContinue, pending)

	require.NoError(t, err)
	assert.Equal(t, uint(9), cart.FundraiserID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(3), cart.Items[0].ItemID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartService_ResolveConflict_ClearAndContinue_NoPending(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())
	token := seedCart(t, repo)

	_, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 1})
	require.NoError(t, err)

	cart, err := svc.ResolveConflict(context.Background(), token, domain.ResolutionClearAndContinue, nil)

	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.FundraiserID)
}

func TestCartService_ResolveConflict_CancelAndStay(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())
	token := seedCart(t, repo)

	_, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 2})
	require.NoError(t, err)

	cart, err := svc.ResolveConflict(context.Background(), token, domain.ResolutionCancelAndStay, &service.AddItemInput{ItemID: 3, Quantity: 1})

	require.NoError(t, err)
	assert.Equal(t, uint(5), cart.FundraiserID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(1), cart.Items[0].ItemID)
}

func TestCartService_ResolveConflict_UnknownResolution(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())
	token := seedCart(t, repo)

	_, err := svc.ResolveConflict(context.Background(), token, domain.ConflictResolution("merge"), nil)

	assert.Error(t, err)
}

func TestCartService_UpdateLineQuantity(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())
	token := seedCart(t, repo)

	cart, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 2})
	require.NoError(t, err)
	lineID := cart.Items[0].ID

	t.Run("increase within stock", func(t *testing.T) {
		cart, err := svc.UpdateLineQuantity(context.Background(), token, lineID, 10)

		require.NoError(t, err)
		assert.Equal(t, 10, cart.Items[0].Quantity)
	})

	t.Run("increase beyond stock", func(t *testing.T) {
		_, err := svc.UpdateLineQuantity(context.Background(), token, lineID, 11)

		assert.ErrorIs(t, err, service.ErrInsufficientStock)
	})

	t.Run("decrease skips the stock check", func(t *testing.T) {
		cart, err := svc.UpdateLineQuantity(context.Background(), token, lineID, 1)

		require.NoError(t, err)
		assert.Equal(t, 1, cart.Items[0].Quantity)
	})

	t.Run("zero removes the line and unbinds the fundraiser", func(t *testing.T) {
		cart, err := svc.UpdateLineQuantity(context.Background(), token, lineID, 0)

		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
		assert.Zero(t, cart.FundraiserID)
	})

	t.Run("unknown line", func(t *testing.T) {
		_, err := svc.UpdateLineQuantity(context.Background(), token, 999, 1)

		assert.ErrorIs(t, err, service.ErrCartLineNotFound)
	})
}

func TestCartService_RemoveLine(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())
	token := seedCart(t, repo)

	cart, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 2})
	require.NoError(t, err)

	cart, err = svc.RemoveLine(context.Background(), token, cart.Items[0].ID)

	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_ClearCart(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())
	token := seedCart(t, repo)

	_, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 2})
	require.NoError(t, err)

	cart, err := svc.ClearCart(context.Background(), token)

	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.FundraiserID)
}

func TestCartService_GetCart_ReconcilesAvailability(t *testing.T) {
	repo := newStubCartRepository()
	catalog := cartTestCatalog()
	svc := service.NewCartService(repo, catalog)
	token := seedCart(t, repo)

	_, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 2})
	require.NoError(t, err)

	// Inventory moved after the line was carted.
	item := catalog.items[1]
	item.Stock = 4
	catalog.items[1] = item

	cart, err := svc.GetCart(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Available)

	t.Run("vanished item reports zero", func(t *testing.T) {
		delete(catalog.items, 1)

		cart, err := svc.GetCart(context.Background(), token)

		require.NoError(t, err)
		assert.Zero(t, cart.Items[0].Available)
	})
}

func TestCartService_AddItem_PersistErr(t *testing.T) {
	repo := newStubCartRepository()
	svc := service.NewCartService(repo, cartTestCatalog())
	token := seedCart(t, repo)

	repo.saveErr = errors.New("connection reset")

	_, err := svc.AddItem(context.Background(), token, service.AddItemInput{ItemID: 1, Quantity: 1})

	assert.ErrorContains(t, err, "connection reset")
}
