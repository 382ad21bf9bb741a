package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/repository"
)

var (
	ErrCartNotFound       = repository.ErrCartNotFound
	ErrCartLineNotFound   = errors.New("cart line not found")
	ErrFundraiserConflict = domain.ErrFundraiserConflict
	ErrInsufficientStock  = repository.ErrInsufficientStock
)

// ConflictError reports a cross-fundraiser add. It unwraps to
// ErrFundraiserConflict so callers can match with errors.Is.
type ConflictError struct {
	CurrentFundraiserID   uint
	AttemptedFundraiserID uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cart is bound to fundraiser %d, cannot add items from fundraiser %d",
		e.CurrentFundraiserID, e.AttemptedFundraiserID)
}

func (e *ConflictError) Unwrap() error {
	return ErrFundraiserConflict
}

type CartRepository interface {
	Create(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	FindByToken(ctx context.Context, token string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) (domain.Cart, error)
}

// CartItemReader is the slice of the catalog the cart needs: current item
// state for validation, pricing and availability.
type CartItemReader interface {
	FindItemByID(ctx context.Context, id uint) (domain.Item, error)
}

type CartService struct {
	repo    CartRepository
	catalog CartItemReader
}

func NewCartService(repo CartRepository, catalog CartItemReader) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
	}
}

// AddItemInput is a pending add-to-cart action. It is carried through
// conflict resolution so clear-and-continue can replay it.
type AddItemInput struct {
	ItemID     uint
	Selections domain.SelectionMap
	Quantity   int
}

func (s *CartService) CreateCart(ctx context.Context) (domain.Cart, error) {
	cart, err := s.repo.Create(ctx, domain.Cart{Token: uuid.NewString()})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return cart, nil
}

// GetCart loads a cart and reconciles every line's availability against
// current inventory. The recompute is idempotent and matches by item id, so
// replays and out-of-order inventory updates converge on the latest state.
func (s *CartService) GetCart(ctx context.Context, token string) (domain.Cart, error) {
	cart, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.FindByToken -> %w", err)
	}

	s.reconcileAvailability(ctx, &cart)

	return cart, nil
}

// AddItem validates the selection, enforces the single-fundraiser invariant
// and stock ceilings, then merges the line into the cart. On a fundraiser
// conflict the cart is left unchanged and the caller must resolve via
// ResolveConflict.
func (s *CartService) AddItem(ctx context.Context, token string, input AddItemInput) (domain.Cart, error) {
	cart, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.FindByToken -> %w", err)
	}

	return s.addItem(ctx, cart, input)
}

func (s *CartService) addItem(ctx context.Context, cart domain.Cart, input AddItemInput) (domain.Cart, error) {
	if input.Quantity <= 0 {
		return domain.Cart{}, fmt.Errorf("quantity must be positive")
	}

	item, err := s.catalog.FindItemByID(ctx, input.ItemID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.catalog.FindItemByID -> %w", err)
	}

	if cart.ConflictState(item.FundraiserID) == domain.ConflictDetected {
		return domain.Cart{}, &ConflictError{
			CurrentFundraiserID:   cart.FundraiserID,
			AttemptedFundraiserID: item.FundraiserID,
		}
	}

	if err := item.ValidateSelection(input.Selections); err != nil {
		return domain.Cart{}, err
	}

	carted := cart.QuantityOf(item.ID, input.Selections)
	if carted+input.Quantity > item.AvailableQuantity(input.Selections) {
		return domain.Cart{}, ErrInsufficientStock
	}

	cart.AddLine(item.FundraiserID, domain.CartItem{
		CartID:         cart.ID,
		ItemID:         item.ID,
		Name:           item.Name,
		Quantity:       input.Quantity,
		UnitPriceCents: item.UnitPriceCents(input.Selections),
		Selections:     input.Selections.Clone(),
		SelectionNames: item.SelectionNames(input.Selections),
	})

	saved, err := s.repo.Save(ctx, cart)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	s.reconcileAvailability(ctx, &saved)

	return saved, nil
}

// ResolveConflict terminates a detected cross-fundraiser conflict.
// Clear-and-continue empties the cart and replays the pending add against the
// new fundraiser; cancel-and-stay discards the pending add and changes
// nothing.
func (s *CartService) ResolveConflict(ctx context.Context, token string, resolution domain.ConflictResolution, pending *AddItemInput) (domain.Cart, error) {
	cart, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.FindByToken -> %w", err)
	}

	switch resolution {
	case domain.ResolutionClearAndContinue:
		cart.Clear()
		if pending != nil {
			return s.addItem(ctx, cart, *pending)
		}

		saved, err := s.repo.Save(ctx, cart)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("s.repo.Save -> %w", err)
		}
		return saved, nil

	case domain.ResolutionCancelAndStay:
		s.reconcileAvailability(ctx, &cart)
		return cart, nil

	default:
		return domain.Cart{}, fmt.Errorf("unknown conflict resolution %q", resolution)
	}
}

// UpdateLineQuantity sets a line's quantity. Quantities at or below zero
// remove the line; removing the last line unbinds the fundraiser.
func (s *CartService) UpdateLineQuantity(ctx context.Context, token string, lineID uint, quantity int) (domain.Cart, error) {
	cart, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.FindByToken -> %w", err)
	}

	if quantity > 0 {
		line := s.lineByID(&cart, lineID)
		if line == nil {
			return domain.Cart{}, ErrCartLineNotFound
		}
		if quantity > line.Quantity {
			item, err := s.catalog.FindItemByID(ctx, line.ItemID)
			if err != nil {
				return domain.Cart{}, fmt.Errorf("s.catalog.FindItemByID -> %w", err)
			}
			if quantity > item.AvailableQuantity(line.Selections) {
				return domain.Cart{}, ErrInsufficientStock
			}
		}
	}

	if !cart.SetLineQuantity(lineID, quantity) {
		return domain.Cart{}, ErrCartLineNotFound
	}

	saved, err := s.repo.Save(ctx, cart)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	s.reconcileAvailability(ctx, &saved)

	return saved, nil
}

func (s *CartService) RemoveLine(ctx context.Context, token string, lineID uint) (domain.Cart, error) {
	return s.UpdateLineQuantity(ctx, token, lineID, 0)
}

func (s *CartService) ClearCart(ctx context.Context, token string) (domain.Cart, error) {
	cart, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.FindByToken -> %w", err)
	}

	cart.Clear()

	saved, err := s.repo.Save(ctx, cart)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return saved, nil
}

func (s *CartService) lineByID(cart *domain.Cart, lineID uint) *domain.CartItem {
	for idx := range cart.Items {
		if cart.Items[idx].ID == lineID {
			return &cart.Items[idx]
		}
	}
	return nil
}

// reconcileAvailability refreshes the per-line availability snapshot from
// current inventory. Lines whose item has vanished report zero.
func (s *CartService) reconcileAvailability(ctx context.Context, cart *domain.Cart) {
	for idx := range cart.Items {
		line := &cart.Items[idx]
		item, err := s.catalog.FindItemByID(ctx, line.ItemID)
		if err != nil {
			line.Available = 0
			continue
		}
		line.Available = item.AvailableQuantity(line.Selections)
	}
}
