package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrCartNotFound = errors.New("cart not found")

type Cart struct {
	ID           uint       `gorm:"primaryKey"`
	Token        string     `gorm:"uniqueIndex;not null"`
	FundraiserID uint       `gorm:"default:0"` // 0 = unbound
	Items        []CartItem `gorm:"foreignKey:CartID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CartItem struct {
	ID             uint          `gorm:"primaryKey"`
	CartID         uint          `gorm:"index;not null"`
	ItemID         uint          `gorm:"not null"`
	Name           string        `gorm:"not null"`
	Quantity       int           `gorm:"not null"`
	UnitPriceCents int64         `gorm:"not null"`
	Selections     SelectionJSON `gorm:"type:jsonb"`
	SelectionNames NamesJSON     `gorm:"type:jsonb"`
}

type CartDAO struct {
	db *gorm.DB
}

func NewCartDAO(db *gorm.DB) *CartDAO {
	return &CartDAO{
		db: db,
	}
}

func (d *CartDAO) Insert(ctx context.Context, cart Cart) (Cart, error) {
	if err := d.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return Cart{}, err
	}
	return cart, nil
}

func (d *CartDAO) FindByToken(ctx context.Context, token string) (Cart, error) {
	var cart Cart

	result := d.db.WithContext(ctx).Preload("Items").First(&cart, "token = ?", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Cart{}, ErrCartNotFound
		}
		return Cart{}, result.Error
	}

	return cart, nil
}

// Save persists the cart and its lines as held in memory: changed lines are
// upserted and lines removed from the struct are deleted.
func (d *CartDAO) Save(ctx context.Context, cart Cart) (Cart, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&cart).Error; err != nil {
			return err
		}

		keep := make([]uint, 0, len(cart.Items))
		for _, line := range cart.Items {
			keep = append(keep, line.ID)
		}

		query := tx.Where("cart_id = ?", cart.ID)
		if len(keep) > 0 {
			query = query.Where("id NOT IN ?", keep)
		}

		return query.Delete(&CartItem{}).Error
	})
	if err != nil {
		return Cart{}, err
	}

	return cart, nil
}
