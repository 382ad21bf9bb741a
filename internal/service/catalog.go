package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/repository"
)

var (
	ErrFundraiserNotFound  = repository.ErrFundraiserNotFound
	ErrItemNotFound        = repository.ErrItemNotFound
	ErrParticipantNotFound = repository.ErrParticipantNotFound
	ErrVariantNotFound     = repository.ErrVariantNotFound
	ErrOptionNotFound      = repository.ErrOptionNotFound
)

// EventBroadcaster pushes domain events to connected WebSocket clients.
// Delivery is fire-and-forget.
type EventBroadcaster interface {
	Broadcast(event domain.Event)
}

// NopBroadcaster satisfies EventBroadcaster when no realtime channel is
// wired, e.g. in tests.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(domain.Event) {}

type CatalogRepository interface {
	FindFundraisers(ctx context.Context, filter repository.FundraiserFilter) ([]domain.Fundraiser, error)
	FindFundraiserByID(ctx context.Context, id uint) (domain.Fundraiser, error)
	FindFundraiserBySlug(ctx context.Context, slug string) (domain.Fundraiser, error)
	CreateFundraiser(ctx context.Context, fundraiser domain.Fundraiser) (domain.Fundraiser, error)
	CreateParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	FindParticipantsByFundraiserID(ctx context.Context, fundraiserID uint) ([]domain.Participant, error)
	FindParticipantByID(ctx context.Context, id uint) (domain.Participant, error)
	FindItemsByFundraiserID(ctx context.Context, fundraiserID uint) ([]domain.Item, error)
	FindItemByID(ctx context.Context, id uint) (domain.Item, error)
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	CreateVariants(ctx context.Context, variants []domain.ItemVariant) ([]domain.ItemVariant, error)
	SetItemStock(ctx context.Context, itemID uint, stock, damaged int) error
	SetOptionStock(ctx context.Context, optionID uint, stock, damaged int, available bool) error
	SetVariantStock(ctx context.Context, variantID uint, stock, damaged int, active bool) error
}

type CatalogService struct {
	repo   CatalogRepository
	events EventBroadcaster
}

func NewCatalogService(repo CatalogRepository, events EventBroadcaster) *CatalogService {
	return &CatalogService{
		repo:   repo,
		events: events,
	}
}

func (s *CatalogService) ListFundraisers(ctx context.Context, filter repository.FundraiserFilter) ([]domain.Fundraiser, error) {
	fundraisers, err := s.repo.FindFundraisers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindFundraisers -> %w", err)
	}

	return fundraisers, nil
}

func (s *CatalogService) GetFundraiserBySlug(ctx context.Context, slug string) (domain.Fundraiser, error) {
	fundraiser, err := s.repo.FindFundraiserBySlug(ctx, slug)
	if err != nil {
		return domain.Fundraiser{}, fmt.Errorf("s.repo.FindFundraiserBySlug -> %w", err)
	}

	return fundraiser, nil
}

func (s *CatalogService) GetFundraiserByID(ctx context.Context, id uint) (domain.Fundraiser, error) {
	fundraiser, err := s.repo.FindFundraiserByID(ctx, id)
	if err != nil {
		return domain.Fundraiser{}, fmt.Errorf("s.repo.FindFundraiserByID -> %w", err)
	}

	return fundraiser, nil
}

func (s *CatalogService) ListItems(ctx context.Context, fundraiserID uint) ([]domain.Item, error) {
	if _, err := s.repo.FindFundraiserByID(ctx, fundraiserID); err != nil {
		return nil, fmt.Errorf("s.repo.FindFundraiserByID -> %w", err)
	}

	items, err := s.repo.FindItemsByFundraiserID(ctx, fundraiserID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindItemsByFundraiserID -> %w", err)
	}

	return items, nil
}

func (s *CatalogService) ListParticipants(ctx context.Context, fundraiserID uint) ([]domain.Participant, error) {
	if _, err := s.repo.FindFundraiserByID(ctx, fundraiserID); err != nil {
		return nil, fmt.Errorf("s.repo.FindFundraiserByID -> %w", err)
	}

	participants, err := s.repo.FindParticipantsByFundraiserID(ctx, fundraiserID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindParticipantsByFundraiserID -> %w", err)
	}

	return participants, nil
}

func (s *CatalogService) CreateFundraiser(ctx context.Context, fundraiser domain.Fundraiser) (domain.Fundraiser, error) {
	created, err := s.repo.CreateFundraiser(ctx, fundraiser)
	if err != nil {
		return domain.Fundraiser{}, fmt.Errorf("s.repo.CreateFundraiser -> %w", err)
	}

	s.events.Broadcast(domain.Event{
		Type:         domain.EventFundraiserUpdated,
		FundraiserID: created.ID,
		Timestamp:    time.Now(),
	})

	return created, nil
}

func (s *CatalogService) CreateParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	if _, err := s.repo.FindFundraiserByID(ctx, participant.FundraiserID); err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.FindFundraiserByID -> %w", err)
	}

	created, err := s.repo.CreateParticipant(ctx, participant)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.CreateParticipant -> %w", err)
	}

	s.events.Broadcast(domain.Event{
		Type:         domain.EventParticipantUpdated,
		FundraiserID: created.FundraiserID,
		Timestamp:    time.Now(),
	})

	return created, nil
}

// VariantInput declares a variant by position: group and option IDs do not
// exist until the item is inserted, so selections reference the 1-based
// position of each group and option within the item being created.
type VariantInput struct {
	Selections map[uint][]uint
	Stock      int
	Damaged    int
	Active     bool
}

// CreateItem persists a new item with its option groups and options, then
// resolves positional variant selections against the assigned IDs and
// derives canonical variant keys.
func (s *CatalogService) CreateItem(ctx context.Context, item domain.Item, variants []VariantInput) (domain.Item, error) {
	if _, err := s.repo.FindFundraiserByID(ctx, item.FundraiserID); err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.FindFundraiserByID -> %w", err)
	}

	item.Variants = nil
	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.CreateItem -> %w", err)
	}

	if len(variants) > 0 {
		toInsert := make([]domain.ItemVariant, 0, len(variants))
		for _, input := range variants {
			selection, err := s.resolvePositionalSelection(created, input.Selections)
			if err != nil {
				return domain.Item{}, err
			}
			toInsert = append(toInsert, domain.ItemVariant{
				ItemID:     created.ID,
				VariantKey: selection.VariantKey(),
				Stock:      input.Stock,
				Damaged:    input.Damaged,
				Active:     input.Active,
			})
		}

		created.Variants, err = s.repo.CreateVariants(ctx, toInsert)
		if err != nil {
			return domain.Item{}, fmt.Errorf("s.repo.CreateVariants -> %w", err)
		}
	}

	s.events.Broadcast(domain.Event{
		Type:         domain.EventInventoryUpdated,
		FundraiserID: created.FundraiserID,
		ItemID:       created.ID,
		Timestamp:    time.Now(),
	})

	return created, nil
}

func (s *CatalogService) resolvePositionalSelection(item domain.Item, positions map[uint][]uint) (domain.SelectionMap, error) {
	selection := domain.SelectionMap{}
	for groupPos, optionPositions := range positions {
		if groupPos == 0 || int(groupPos) > len(item.OptionGroups) {
			return nil, domain.ErrUnknownGroup
		}
		group := item.OptionGroups[groupPos-1]
		for _, optionPos := range optionPositions {
			if optionPos == 0 || int(optionPos) > len(group.Options) {
				return nil, domain.ErrUnknownOption
			}
			selection[group.ID] = append(selection[group.ID], group.Options[optionPos-1].ID)
		}
	}
	return selection, nil
}

func (s *CatalogService) GetItem(ctx context.Context, itemID uint) (domain.Item, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.FindItemByID -> %w", err)
	}

	return item, nil
}

func (s *CatalogService) UpdateItemStock(ctx context.Context, itemID uint, stock, damaged int) error {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("s.repo.FindItemByID -> %w", err)
	}

	if err := s.repo.SetItemStock(ctx, itemID, stock, damaged); err != nil {
		return fmt.Errorf("s.repo.SetItemStock -> %w", err)
	}

	s.events.Broadcast(domain.Event{
		Type:         domain.EventInventoryUpdated,
		FundraiserID: item.FundraiserID,
		ItemID:       item.ID,
		Timestamp:    time.Now(),
	})

	return nil
}

func (s *CatalogService) UpdateOptionStock(ctx context.Context, itemID, optionID uint, stock, damaged int, available bool) error {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("s.repo.FindItemByID -> %w", err)
	}

	if err := s.repo.SetOptionStock(ctx, optionID, stock, damaged, available); err != nil {
		return fmt.Errorf("s.repo.SetOptionStock -> %w", err)
	}

	s.events.Broadcast(domain.Event{
		Type:         domain.EventInventoryUpdated,
		FundraiserID: item.FundraiserID,
		ItemID:       item.ID,
		Timestamp:    time.Now(),
	})

	return nil
}

func (s *CatalogService) UpdateVariantStock(ctx context.Context, itemID, variantID uint, stock, damaged int, active bool) error {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("s.repo.FindItemByID -> %w", err)
	}

	if err := s.repo.SetVariantStock(ctx, variantID, stock, damaged, active); err != nil {
		return fmt.Errorf("s.repo.SetVariantStock -> %w", err)
	}

	s.events.Broadcast(domain.Event{
		Type:         domain.EventInventoryUpdated,
		FundraiserID: item.FundraiserID,
		ItemID:       item.ID,
		Timestamp:    time.Now(),
	})

	return nil
}
