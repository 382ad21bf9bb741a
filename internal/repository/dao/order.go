package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

type Order struct {
	ID            uint        `gorm:"primaryKey"`
	Reference     string      `gorm:"uniqueIndex;not null"`
	FundraiserID  uint        `gorm:"index;not null"`
	ParticipantID *uint
	ContactName   string      `gorm:"not null"`
	ContactEmail  string      `gorm:"not null"`
	ContactPhone  string
	TotalCents    int64       `gorm:"not null"`
	PaymentRef    string      `gorm:"not null"`
	Status        string      `gorm:"not null"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderItem struct {
	ID             uint          `gorm:"primaryKey"`
	OrderID        uint          `gorm:"index;not null"`
	ItemID         uint          `gorm:"not null"`
	Name           string        `gorm:"not null"`
	Quantity       int           `gorm:"not null"`
	UnitPriceCents int64         `gorm:"not null"`
	Selections     SelectionJSON `gorm:"type:jsonb"`
	SelectionNames NamesJSON     `gorm:"type:jsonb"`
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

func (d *OrderDAO) Insert(ctx context.Context, order Order) (Order, error) {
	if err := d.db.WithContext(ctx).Create(&order).Error; err != nil {
		return Order{}, err
	}
	return order, nil
}

func (d *OrderDAO) FindByReference(ctx context.Context, reference string) (Order, error) {
	var order Order

	result := d.db.WithContext(ctx).Preload("Items").First(&order, "reference = ?", reference)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, result.Error
	}

	return order, nil
}

func (d *OrderDAO) FindByFundraiserID(ctx context.Context, fundraiserID uint) ([]Order, error) {
	var orders []Order

	result := d.db.WithContext(ctx).
		Preload("Items").
		Where("fundraiser_id = ?", fundraiserID).
		Order("created_at DESC").
		Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}
