package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrFundraiserNotFound  = errors.New("fundraiser not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrOptionNotFound      = errors.New("option not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
)

type Fundraiser struct {
	ID           uint          `gorm:"primaryKey"`
	Slug         string        `gorm:"uniqueIndex;not null"`
	Name         string        `gorm:"not null"`
	Description  string
	StartsAt     time.Time
	EndsAt       time.Time
	Active       bool          `gorm:"default:true"`
	Featured     bool          `gorm:"default:false"`
	Participants []Participant `gorm:"foreignKey:FundraiserID"`
	Items        []Item        `gorm:"foreignKey:FundraiserID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Participant struct {
	ID           uint   `gorm:"primaryKey"`
	FundraiserID uint   `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	PhotoURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Item struct {
	ID           uint          `gorm:"primaryKey"`
	FundraiserID uint          `gorm:"index;not null"`
	Name         string        `gorm:"not null"`
	Description  string
	PriceCents   int64         `gorm:"not null"`
	TrackingMode string        `gorm:"not null;default:none"` // "none", "item", "option" or "variant"
	Stock        int           `gorm:"default:0"`
	Damaged      int           `gorm:"default:0"`
	Active       bool          `gorm:"default:true"`
	OptionGroups []OptionGroup `gorm:"foreignKey:ItemID"`
	Variants     []ItemVariant `gorm:"foreignKey:ItemID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OptionGroup struct {
	ID              uint     `gorm:"primaryKey"`
	ItemID          uint     `gorm:"index;not null"`
	Name            string   `gorm:"not null"`
	MinSelect       int      `gorm:"default:0"`
	MaxSelect       int      `gorm:"default:0"` // 0 = no upper bound
	TracksInventory bool     `gorm:"default:false"`
	Position        int      `gorm:"default:0"`
	Options         []Option `gorm:"foreignKey:GroupID"`
}

type Option struct {
	ID                   uint   `gorm:"primaryKey"`
	GroupID              uint   `gorm:"index;not null"`
	Name                 string `gorm:"not null"`
	AdditionalPriceCents int64  `gorm:"default:0"`
	Available            bool   `gorm:"default:true"`
	Stock                int    `gorm:"default:0"`
	Damaged              int    `gorm:"default:0"`
}

type ItemVariant struct {
	ID         uint   `gorm:"primaryKey"`
	ItemID     uint   `gorm:"index:idx_item_variant_key,unique;not null"`
	VariantKey string `gorm:"index:idx_item_variant_key,unique;not null"`
	Stock      int    `gorm:"default:0"`
	Damaged    int    `gorm:"default:0"`
	Active     bool   `gorm:"default:true"`
}

type CatalogDAO struct {
	db *gorm.DB
}

func NewCatalogDAO(db *gorm.DB) *CatalogDAO {
	return &CatalogDAO{
		db: db,
	}
}

// FundraiserFilter narrows FindFundraisers; zero value lists everything.
type FundraiserFilter struct {
	ActiveOnly   bool
	FeaturedOnly bool
	Search       string
}

func (d *CatalogDAO) FindFundraisers(ctx context.Context, filter FundraiserFilter) ([]Fundraiser, error) {
	query := d.db.WithContext(ctx).Model(&Fundraiser{})

	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var fundraisers []Fundraiser
	if err := query.Order("starts_at DESC").Find(&fundraisers).Error; err != nil {
		return nil, err
	}

	return fundraisers, nil
}

func (d *CatalogDAO) FindFundraiserByID(ctx context.Context, id uint) (Fundraiser, error) {
	var fundraiser Fundraiser

	result := d.db.WithContext(ctx).Preload("Participants").First(&fundraiser, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Fundraiser{}, ErrFundraiserNotFound
		}
		return Fundraiser{}, result.Error
	}

	return fundraiser, nil
}

func (d *CatalogDAO) FindFundraiserBySlug(ctx context.Context, slug string) (Fundraiser, error) {
	var fundraiser Fundraiser

	result := d.db.WithContext(ctx).Preload("Participants").First(&fundraiser, "slug = ?", slug)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Fundraiser{}, ErrFundraiserNotFound
		}
		return Fundraiser{}, result.Error
	}

	return fundraiser, nil
}

func (d *CatalogDAO) InsertFundraiser(ctx context.Context, fundraiser Fundraiser) (Fundraiser, error) {
	if err := d.db.WithContext(ctx).Create(&fundraiser).Error; err != nil {
		return Fundraiser{}, err
	}
	return fundraiser, nil
}

func (d *CatalogDAO) InsertParticipant(ctx context.Context, participant Participant) (Participant, error) {
	if err := d.db.WithContext(ctx).Create(&participant).Error; err != nil {
		return Participant{}, err
	}
	return participant, nil
}

func (d *CatalogDAO) FindParticipantsByFundraiserID(ctx context.Context, fundraiserID uint) ([]Participant, error) {
	var participants []Participant

	result := d.db.WithContext(ctx).
		Where("fundraiser_id = ?", fundraiserID).
		Order("name").
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

func (d *CatalogDAO) FindParticipantByID(ctx context.Context, id uint) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).First(&participant, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}
		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *CatalogDAO) FindItemsByFundraiserID(ctx context.Context, fundraiserID uint) ([]Item, error) {
	var items []Item

	result := d.db.WithContext(ctx).
		Preload("OptionGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_groups.position")
		}).
		Preload("OptionGroups.Options").
		Preload("Variants").
		Where("fundraiser_id = ?", fundraiserID).
		Order("id").
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

func (d *CatalogDAO) FindItemByID(ctx context.Context, id uint) (Item, error) {
	var item Item

	result := d.db.WithContext(ctx).
		Preload("OptionGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_groups.position")
		}).
		Preload("OptionGroups.Options").
		Preload("Variants").
		First(&item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, result.Error
	}

	return item, nil
}

func (d *CatalogDAO) InsertItem(ctx context.Context, item Item) (Item, error) {
	if err := d.db.WithContext(ctx).Create(&item).Error; err != nil {
		return Item{}, err
	}
	return item, nil
}

func (d *CatalogDAO) InsertVariants(ctx context.Context, variants []ItemVariant) ([]ItemVariant, error) {
	if err := d.db.WithContext(ctx).Create(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

func (d *CatalogDAO) SetItemStock(ctx context.Context, itemID uint, stock, damaged int) error {
	result := d.db.WithContext(ctx).Model(&Item{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{"stock": stock, "damaged": damaged})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (d *CatalogDAO) SetOptionStock(ctx context.Context, optionID uint, stock, damaged int, available bool) error {
	result := d.db.WithContext(ctx).Model(&Option{}).
		Where("id = ?", optionID).
		Updates(map[string]interface{}{"stock": stock, "damaged": damaged, "available": available})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOptionNotFound
	}
	return nil
}

func (d *CatalogDAO) SetVariantStock(ctx context.Context, variantID uint, stock, damaged int, active bool) error {
	result := d.db.WithContext(ctx).Model(&ItemVariant{}).
		Where("id = ?", variantID).
		Updates(map[string]interface{}{"stock": stock, "damaged": damaged, "active": active})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVariantNotFound
	}
	return nil
}

// DecrementItemStock reduces item-level stock, guarding against overselling
// at the database level.
func (d *CatalogDAO) DecrementItemStock(ctx context.Context, itemID uint, quantity int) error {
	result := d.db.WithContext(ctx).Model(&Item{}).
		Where("id = ? AND stock - damaged >= ?", itemID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (d *CatalogDAO) DecrementOptionStock(ctx context.Context, optionID uint, quantity int) error {
	result := d.db.WithContext(ctx).Model(&Option{}).
		Where("id = ? AND stock - damaged >= ?", optionID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (d *CatalogDAO) DecrementVariantStock(ctx context.Context, itemID uint, variantKey string, quantity int) error {
	result := d.db.WithContext(ctx).Model(&ItemVariant{}).
		Where("item_id = ? AND variant_key = ? AND active = ? AND stock - damaged >= ?", itemID, variantKey, true, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}
