package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/repository"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/service"
)

// stubCatalogRepository assigns incrementing IDs on create, mimicking the
// database behavior positional variant resolution depends on.
type stubCatalogRepository struct {
	fundraisers map[uint]domain.Fundraiser
	items       map[uint]domain.Item
	variants    []domain.ItemVariant
	nextID      uint
}

func newStubCatalogRepository() *stubCatalogRepository {
	return &stubCatalogRepository{
		fundraisers: map[uint]domain.Fundraiser{
			5: {ID: 5, Slug: "team-hafaloha", Name: "Team Hafaloha", Active: true},
		},
		items: make(map[uint]domain.Item),
	}
}

func (r *stubCatalogRepository) id() uint {
	r.nextID++
	return r.nextID
}

func (r *stubCatalogRepository) FindFundraisers(_ context.Context, _ repository.FundraiserFilter) ([]domain.Fundraiser, error) {
	var out []domain.Fundraiser
	for _, f := range r.fundraisers {
		out = append(out, f)
	}
	return out, nil
}

func (r *stubCatalogRepository) FindFundraiserByID(_ context.Context, id uint) (domain.Fundraiser, error) {
	f, ok := r.fundraisers[id]
	if !ok {
		return domain.Fundraiser{}, service.ErrFundraiserNotFound
	}
	return f, nil
}

func (r *stubCatalogRepository) FindFundraiserBySlug(_ context.Context, slug string) (domain.Fundraiser, error) {
	for _, f := range r.fundraisers {
		if f.Slug == slug {
			return f, nil
		}
	}
	return domain.Fundraiser{}, service.ErrFundraiserNotFound
}

func (r *stubCatalogRepository) CreateFundraiser(_ context.Context, fundraiser domain.Fundraiser) (domain.Fundraiser, error) {
	fundraiser.ID = r.id()
	r.fundraisers[fundraiser.ID] = fundraiser
	return fundraiser, nil
}

func (r *stubCatalogRepository) CreateParticipant(_ context.Context, participant domain.Participant) (domain.Participant, error) {
	participant.ID = r.id()
	return participant, nil
}

func (r *stubCatalogRepository) FindParticipantsByFundraiserID(_ context.Context, _ uint) ([]domain.Participant, error) {
	return nil, nil
}

func (r *stubCatalogRepository) FindParticipantByID(_ context.Context, _ uint) (domain.Participant, error) {
	return domain.Participant{}, service.ErrParticipantNotFound
}

func (r *stubCatalogRepository) FindItemsByFundraiserID(_ context.Context, fundraiserID uint) ([]domain.Item, error) {
	var out []domain.Item
	for _, item := range r.items {
		if item.FundraiserID == fundraiserID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubCatalogRepository) FindItemByID(_ context.Context, id uint) (domain.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return domain.Item{}, service.ErrItemNotFound
	}
	return item, nil
}

func (r *stubCatalogRepository) CreateItem(_ context.Context, item domain.Item) (domain.Item, error) {
	item.ID = r.id()
	for g := range item.OptionGroups {
		item.OptionGroups[g].ID = r.id()
		item.OptionGroups[g].ItemID = item.ID
		for o := range item.OptionGroups[g].Options {
			item.OptionGroups[g].Options[o].ID = r.id()
			item.OptionGroups[g].Options[o].GroupID = item.OptionGroups[g].ID
		}
	}
	r.items[item.ID] = item
	return item, nil
}

func (r *stubCatalogRepository) CreateVariants(_ context.Context, variants []domain.ItemVariant) ([]domain.ItemVariant, error) {
	for idx := range variants {
		variants[idx].ID = r.id()
	}
	r.variants = append(r.variants, variants...)
	return variants, nil
}

func (r *stubCatalogRepository) SetItemStock(_ context.Context, itemID uint, stock, damaged int) error {
	item := r.items[itemID]
	item.Stock = stock
	item.Damaged = damaged
	r.items[itemID] = item
	return nil
}

func (r *stubCatalogRepository) SetOptionStock(_ context.Context, _ uint, _, _ int, _ bool) error {
	return nil
}

func (r *stubCatalogRepository) SetVariantStock(_ context.Context, _ uint, _, _ int, _ bool) error {
	return nil
}

func TestCatalogService_CreateItem_ResolvesPositionalVariants(t *testing.T) {
	repo := newStubCatalogRepository()
	events := &recordingBroadcaster{}
	svc := service.NewCatalogService(repo, events)

	item := domain.Item{
		FundraiserID: 5,
		Name:         "Fundraiser Tee",
		PriceCents:   2500,
		TrackingMode: domain.TrackingVariant,
		Active:       true,
		OptionGroups: []domain.OptionGroup{
			{
				Name:      "Size",
				MinSelect: 1,
				MaxSelect: 1,
				Options: []domain.Option{
					{Name: "S", Available: true},
					{Name: "M", Available: true},
				},
			},
			{
				Name:      "Color",
				MinSelect: 1,
				MaxSelect: 1,
				Options: []domain.Option{
					{Name: "Red", Available: true},
				},
			},
		},
	}

	variants := []service.VariantInput{
		{Selections: map[uint][]uint{1: {1}, 2: {1}}, Stock: 4, Active: true},
		{Selections: map[uint][]uint{1: {2}, 2: {1}}, Stock: 6, Damaged: 1, Active: true},
	}

	created, err := svc.CreateItem(context.Background(), item, variants)

	require.NoError(t, err)
	require.Len(t, created.Variants, 2)

	// The stub assigns item=1, Size group=2 with S=3/M=4, Color group=5
	// with Red=6; the derived keys must use the assigned IDs.
	sizeGroup := created.OptionGroups[0]
	colorGroup := created.OptionGroups[1]
	wantFirst := domain.SelectionMap{sizeGroup.ID: {sizeGroup.Options[0].ID}, colorGroup.ID: {colorGroup.Options[0].ID}}.VariantKey()
	wantSecond := domain.SelectionMap{sizeGroup.ID: {sizeGroup.Options[1].ID}, colorGroup.ID: {colorGroup.Options[0].ID}}.VariantKey()

	assert.Equal(t, wantFirst, created.Variants[0].VariantKey)
	assert.Equal(t, wantSecond, created.Variants[1].VariantKey)
	assert.Equal(t, created.ID, created.Variants[0].ItemID)
	assert.Equal(t, 4, created.Variants[0].Stock)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventInventoryUpdated, events.events[0].Type)
	assert.Equal(t, created.ID, events.events[0].ItemID)
}

func TestCatalogService_CreateItem_BadPositions(t *testing.T) {
	repo := newStubCatalogRepository()
	svc := service.NewCatalogService(repo, service.NopBroadcaster{})

	item := domain.Item{
		FundraiserID: 5,
		Name:         "Fundraiser Tee",
		TrackingMode: domain.TrackingVariant,
		Active:       true,
		OptionGroups: []domain.OptionGroup{
			{Name: "Size", Options: []domain.Option{{Name: "S", Available: true}}},
		},
	}

	t.Run("group position out of range", func(t *testing.T) {
		_, err := svc.CreateItem(context.Background(), item, []service.VariantInput{
			{Selections: map[uint][]uint{2: {1}}, Active: true},
		})
		assert.ErrorIs(t, err, domain.ErrUnknownGroup)
	})

	t.Run("option position out of range", func(t *testing.T) {
		_, err := svc.CreateItem(context.Background(), item, []service.VariantInput{
			{Selections: map[uint][]uint{1: {2}}, Active: true},
		})
		assert.ErrorIs(t, err, domain.ErrUnknownOption)
	})

	t.Run("positions are 1-based", func(t *testing.T) {
		_, err := svc.CreateItem(context.Background(), item, []service.VariantInput{
			{Selections: map[uint][]uint{0: {1}}, Active: true},
		})
		assert.ErrorIs(t, err, domain.ErrUnknownGroup)
	})
}

func TestCatalogService_CreateItem_UnknownFundraiser(t *testing.T) {
	repo := newStubCatalogRepository()
	svc := service.NewCatalogService(repo, service.NopBroadcaster{})

	_, err := svc.CreateItem(context.Background(), domain.Item{FundraiserID: 99, Name: "Tee"}, nil)

	assert.ErrorIs(t, err, service.ErrFundraiserNotFound)
}

func TestCatalogService_UpdateItemStock(t *testing.T) {
	repo := newStubCatalogRepository()
	events := &recordingBroadcaster{}
	svc := service.NewCatalogService(repo, events)

	created, err := svc.CreateItem(context.Background(), domain.Item{
		FundraiserID: 5,
		Name:         "Sticker Pack",
		TrackingMode: domain.TrackingItem,
		Stock:        10,
		Active:       true,
	}, nil)
	require.NoError(t, err)
	events.events = nil

	require.NoError(t, svc.UpdateItemStock(context.Background(), created.ID, 25, 2))

	item, err := svc.GetItem(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, item.Stock)
	assert.Equal(t, 2, item.Damaged)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventInventoryUpdated, events.events[0].Type)

	assert.ErrorIs(t, svc.UpdateItemStock(context.Background(), 999, 1, 0), service.ErrItemNotFound)
}
