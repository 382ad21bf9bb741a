package repository

import (
	"context"
	"fmt"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/repository/dao"
)

var (
	ErrFundraiserNotFound  = dao.ErrFundraiserNotFound
	ErrItemNotFound        = dao.ErrItemNotFound
	ErrParticipantNotFound = dao.ErrParticipantNotFound
	ErrVariantNotFound     = dao.ErrVariantNotFound
	ErrOptionNotFound      = dao.ErrOptionNotFound
	ErrInsufficientStock   = dao.ErrInsufficientStock
)

type CatalogDAO interface {
	FindFundraisers(ctx context.Context, filter dao.FundraiserFilter) ([]dao.Fundraiser, error)
	FindFundraiserByID(ctx context.Context, id uint) (dao.Fundraiser, error)
	FindFundraiserBySlug(ctx context.Context, slug string) (dao.Fundraiser, error)
	InsertFundraiser(ctx context.Context, fundraiser dao.Fundraiser) (dao.Fundraiser, error)
	InsertParticipant(ctx context.Context, participant dao.Participant) (dao.Participant, error)
	FindParticipantsByFundraiserID(ctx context.Context, fundraiserID uint) ([]dao.Participant, error)
	FindParticipantByID(ctx context.Context, id uint) (dao.Participant, error)
	FindItemsByFundraiserID(ctx context.Context, fundraiserID uint) ([]dao.Item, error)
	FindItemByID(ctx context.Context, id uint) (dao.Item, error)
	InsertItem(ctx context.Context, item dao.Item) (dao.Item, error)
	InsertVariants(ctx context.Context, variants []dao.ItemVariant) ([]dao.ItemVariant, error)
	SetItemStock(ctx context.Context, itemID uint, stock, damaged int) error
	SetOptionStock(ctx context.Context, optionID uint, stock, damaged int, available bool) error
	SetVariantStock(ctx context.Context, variantID uint, stock, damaged int, active bool) error
	DecrementItemStock(ctx context.Context, itemID uint, quantity int) error
	DecrementOptionStock(ctx context.Context, optionID uint, quantity int) error
	DecrementVariantStock(ctx context.Context, itemID uint, variantKey string, quantity int) error
}

type CatalogRepository struct {
	dao CatalogDAO
}

func NewCatalogRepository(dao CatalogDAO) *CatalogRepository {
	return &CatalogRepository{
		dao: dao,
	}
}

// FundraiserFilter mirrors the DAO filter at the domain boundary.
type FundraiserFilter struct {
	ActiveOnly   bool
	FeaturedOnly bool
	Search       string
}

func (r *CatalogRepository) FindFundraisers(ctx context.Context, filter FundraiserFilter) ([]domain.Fundraiser, error) {
	found, err := r.dao.FindFundraisers(ctx, dao.FundraiserFilter{
		ActiveOnly:   filter.ActiveOnly,
		FeaturedOnly: filter.FeaturedOnly,
		Search:       filter.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindFundraisers -> %w", err)
	}

	fundraisers := make([]domain.Fundraiser, len(found))
	for i, f := range found {
		fundraisers[i] = r.fundraiserDaoToDomain(f)
	}

	return fundraisers, nil
}

func (r *CatalogRepository) FindFundraiserByID(ctx context.Context, id uint) (domain.Fundraiser, error) {
	found, err := r.dao.FindFundraiserByID(ctx, id)
	if err != nil {
		return domain.Fundraiser{}, fmt.Errorf("r.dao.FindFundraiserByID -> %w", err)
	}

	return r.fundraiserDaoToDomain(found), nil
}

func (r *CatalogRepository) FindFundraiserBySlug(ctx context.Context, slug string) (domain.Fundraiser, error) {
	found, err := r.dao.FindFundraiserBySlug(ctx, slug)
	if err != nil {
		return domain.Fundraiser{}, fmt.Errorf("r.dao.FindFundraiserBySlug -> %w", err)
	}

	return r.fundraiserDaoToDomain(found), nil
}

func (r *CatalogRepository) CreateFundraiser(ctx context.Context, fundraiser domain.Fundraiser) (domain.Fundraiser, error) {
	created, err := r.dao.InsertFundraiser(ctx, r.fundraiserDomainToDao(fundraiser))
	if err != nil {
		return domain.Fundraiser{}, fmt.Errorf("r.dao.InsertFundraiser -> %w", err)
	}

	return r.fundraiserDaoToDomain(created), nil
}

func (r *CatalogRepository) CreateParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	created, err := r.dao.InsertParticipant(ctx, dao.Participant{
		FundraiserID: participant.FundraiserID,
		Name:         participant.Name,
		PhotoURL:     participant.PhotoURL,
	})
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.InsertParticipant -> %w", err)
	}

	return r.participantDaoToDomain(created), nil
}

func (r *CatalogRepository) FindParticipantsByFundraiserID(ctx context.Context, fundraiserID uint) ([]domain.Participant, error) {
	found, err := r.dao.FindParticipantsByFundraiserID(ctx, fundraiserID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindParticipantsByFundraiserID -> %w", err)
	}

	participants := make([]domain.Participant, len(found))
	for i, p := range found {
		participants[i] = r.participantDaoToDomain(p)
	}

	return participants, nil
}

func (r *CatalogRepository) FindParticipantByID(ctx context.Context, id uint) (domain.Participant, error) {
	found, err := r.dao.FindParticipantByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.FindParticipantByID -> %w", err)
	}

	return r.participantDaoToDomain(found), nil
}

func (r *CatalogRepository) FindItemsByFundraiserID(ctx context.Context, fundraiserID uint) ([]domain.Item, error) {
	found, err := r.dao.FindItemsByFundraiserID(ctx, fundraiserID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindItemsByFundraiserID -> %w", err)
	}

	items := make([]domain.Item, len(found))
	for i, item := range found {
		items[i] = r.itemDaoToDomain(item)
	}

	return items, nil
}

func (r *CatalogRepository) FindItemByID(ctx context.Context, id uint) (domain.Item, error) {
	found, err := r.dao.FindItemByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.FindItemByID -> %w", err)
	}

	return r.itemDaoToDomain(found), nil
}

func (r *CatalogRepository) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	created, err := r.dao.InsertItem(ctx, r.itemDomainToDao(item))
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.InsertItem -> %w", err)
	}

	return r.itemDaoToDomain(created), nil
}

func (r *CatalogRepository) CreateVariants(ctx context.Context, variants []domain.ItemVariant) ([]domain.ItemVariant, error) {
	daoVariants := make([]dao.ItemVariant, len(variants))
	for i, v := range variants {
		daoVariants[i] = dao.ItemVariant{
			ItemID:     v.ItemID,
			VariantKey: v.VariantKey,
			Stock:      v.Stock,
			Damaged:    v.Damaged,
			Active:     v.Active,
		}
	}

	created, err := r.dao.InsertVariants(ctx, daoVariants)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertVariants -> %w", err)
	}

	variants = make([]domain.ItemVariant, len(created))
	for i, v := range created {
		variants[i] = domain.ItemVariant{
			ID:         v.ID,
			ItemID:     v.ItemID,
			VariantKey: v.VariantKey,
			Stock:      v.Stock,
			Damaged:    v.Damaged,
			Active:     v.Active,
		}
	}

	return variants, nil
}

func (r *CatalogRepository) SetItemStock(ctx context.Context, itemID uint, stock, damaged int) error {
	if err := r.dao.SetItemStock(ctx, itemID, stock, damaged); err != nil {
		return fmt.Errorf("r.dao.SetItemStock -> %w", err)
	}
	return nil
}

func (r *CatalogRepository) SetOptionStock(ctx context.Context, optionID uint, stock, damaged int, available bool) error {
	if err := r.dao.SetOptionStock(ctx, optionID, stock, damaged, available); err != nil {
		return fmt.Errorf("r.dao.SetOptionStock -> %w", err)
	}
	return nil
}

func (r *CatalogRepository) SetVariantStock(ctx context.Context, variantID uint, stock, damaged int, active bool) error {
	if err := r.dao.SetVariantStock(ctx, variantID, stock, damaged, active); err != nil {
		return fmt.Errorf("r.dao.SetVariantStock -> %w", err)
	}
	return nil
}

// DecrementStock applies a checkout-time decrement according to the item's
// tracking mode: the matched variant, the item itself, or every selected
// option in a tracked group.
func (r *CatalogRepository) DecrementStock(ctx context.Context, item domain.Item, selection domain.SelectionMap, quantity int) error {
	switch item.TrackingMode {
	case domain.TrackingVariant:
		if err := r.dao.DecrementVariantStock(ctx, item.ID, selection.VariantKey(), quantity); err != nil {
			return fmt.Errorf("r.dao.DecrementVariantStock -> %w", err)
		}
	case domain.TrackingItem:
		if err := r.dao.DecrementItemStock(ctx, item.ID, quantity); err != nil {
			return fmt.Errorf("r.dao.DecrementItemStock -> %w", err)
		}
	case domain.TrackingOption:
		for _, group := range item.OptionGroups {
			if !group.TracksInventory {
				continue
			}
			for _, optionID := range selection[group.ID] {
				if err := r.dao.DecrementOptionStock(ctx, optionID, quantity); err != nil {
					return fmt.Errorf("r.dao.DecrementOptionStock -> %w", err)
				}
			}
		}
	}
	return nil
}

func (r *CatalogRepository) fundraiserDomainToDao(f domain.Fundraiser) dao.Fundraiser {
	return dao.Fundraiser{
		ID:          f.ID,
		Slug:        f.Slug,
		Name:        f.Name,
		Description: f.Description,
		StartsAt:    f.StartsAt,
		EndsAt:      f.EndsAt,
		Active:      f.Active,
		Featured:    f.Featured,
	}
}

func (r *CatalogRepository) fundraiserDaoToDomain(f dao.Fundraiser) domain.Fundraiser {
	fundraiser := domain.Fundraiser{
		ID:          f.ID,
		Slug:        f.Slug,
		Name:        f.Name,
		Description: f.Description,
		StartsAt:    f.StartsAt,
		EndsAt:      f.EndsAt,
		Active:      f.Active,
		Featured:    f.Featured,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}

	for _, p := range f.Participants {
		fundraiser.Participants = append(fundraiser.Participants, r.participantDaoToDomain(p))
	}
	for _, item := range f.Items {
		fundraiser.Items = append(fundraiser.Items, r.itemDaoToDomain(item))
	}

	return fundraiser
}

func (r *CatalogRepository) participantDaoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:           p.ID,
		FundraiserID: p.FundraiserID,
		Name:         p.Name,
		PhotoURL:     p.PhotoURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r *CatalogRepository) itemDomainToDao(item domain.Item) dao.Item {
	daoItem := dao.Item{
		ID:           item.ID,
		FundraiserID: item.FundraiserID,
		Name:         item.Name,
		Description:  item.Description,
		PriceCents:   item.PriceCents,
		TrackingMode: string(item.TrackingMode),
		Stock:        item.Stock,
		Damaged:      item.Damaged,
		Active:       item.Active,
	}

	for _, group := range item.OptionGroups {
		daoGroup := dao.OptionGroup{
			ID:              group.ID,
			ItemID:          group.ItemID,
			Name:            group.Name,
			MinSelect:       group.MinSelect,
			MaxSelect:       group.MaxSelect,
			TracksInventory: group.TracksInventory,
			Position:        group.Position,
		}
		for _, option := range group.Options {
			daoGroup.Options = append(daoGroup.Options, dao.Option{
				ID:                   option.ID,
				GroupID:              option.GroupID,
				Name:                 option.Name,
				AdditionalPriceCents: option.AdditionalPriceCents,
				Available:            option.Available,
				Stock:                option.Stock,
				Damaged:              option.Damaged,
			})
		}
		daoItem.OptionGroups = append(daoItem.OptionGroups, daoGroup)
	}

	for _, variant := range item.Variants {
		daoItem.Variants = append(daoItem.Variants, dao.ItemVariant{
			ID:         variant.ID,
			ItemID:     variant.ItemID,
			VariantKey: variant.VariantKey,
			Stock:      variant.Stock,
			Damaged:    variant.Damaged,
			Active:     variant.Active,
		})
	}

	return daoItem
}

func (r *CatalogRepository) itemDaoToDomain(item dao.Item) domain.Item {
	domainItem := domain.Item{
		ID:           item.ID,
		FundraiserID: item.FundraiserID,
		Name:         item.Name,
		Description:  item.Description,
		PriceCents:   item.PriceCents,
		TrackingMode: domain.TrackingMode(item.TrackingMode),
		Stock:        item.Stock,
		Damaged:      item.Damaged,
		Active:       item.Active,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}

	for _, group := range item.OptionGroups {
		domainGroup := domain.OptionGroup{
			ID:              group.ID,
			ItemID:          group.ItemID,
			Name:            group.Name,
			MinSelect:       group.MinSelect,
			MaxSelect:       group.MaxSelect,
			TracksInventory: group.TracksInventory,
			Position:        group.Position,
		}
		for _, option := range group.Options {
			domainGroup.Options = append(domainGroup.Options, domain.Option{
				ID:                   option.ID,
				GroupID:              option.GroupID,
				Name:                 option.Name,
				AdditionalPriceCents: option.AdditionalPriceCents,
				Available:            option.Available,
				Stock:                option.Stock,
				Damaged:              option.Damaged,
			})
		}
		domainItem.OptionGroups = append(domainItem.OptionGroups, domainGroup)
	}

	for _, variant := range item.Variants {
		domainItem.Variants = append(domainItem.Variants, domain.ItemVariant{
			ID:         variant.ID,
			ItemID:     variant.ItemID,
			VariantKey: variant.VariantKey,
			Stock:      variant.Stock,
			Damaged:    variant.Damaged,
			Active:     variant.Active,
		})
	}

	return domainItem
}
