package repository

import (
	"context"
	"fmt"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/repository/dao"
)

var ErrOrderNotFound = dao.ErrOrderNotFound

type OrderDAO interface {
	Insert(ctx context.Context, order dao.Order) (dao.Order, error)
	FindByReference(ctx context.Context, reference string) (dao.Order, error)
	FindByFundraiserID(ctx context.Context, fundraiserID uint) ([]dao.Order, error)
}

type OrderRepository struct {
	dao OrderDAO
}

func NewOrderRepository(dao OrderDAO) *OrderRepository {
	return &OrderRepository{
		dao: dao,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(order))
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OrderRepository) FindByReference(ctx context.Context, reference string) (domain.Order, error) {
	found, err := r.dao.FindByReference(ctx, reference)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindByReference -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *OrderRepository) FindByFundraiserID(ctx context.Context, fundraiserID uint) ([]domain.Order, error) {
	found, err := r.dao.FindByFundraiserID(ctx, fundraiserID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByFundraiserID -> %w", err)
	}

	orders := make([]domain.Order, len(found))
	for i, o := range found {
		orders[i] = r.daoToDomain(o)
	}

	return orders, nil
}

func (r *OrderRepository) domainToDao(order domain.Order) dao.Order {
	daoOrder := dao.Order{
		ID:            order.ID,
		Reference:     order.Reference,
		FundraiserID:  order.FundraiserID,
		ParticipantID: order.ParticipantID,
		ContactName:   order.ContactName,
		ContactEmail:  order.ContactEmail,
		ContactPhone:  order.ContactPhone,
		TotalCents:    order.TotalCents,
		PaymentRef:    order.PaymentRef,
		Status:        string(order.Status),
	}

	for _, line := range order.Items {
		daoOrder.Items = append(daoOrder.Items, dao.OrderItem{
			ID:             line.ID,
			OrderID:        line.OrderID,
			ItemID:         line.ItemID,
			Name:           line.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			Selections:     dao.SelectionJSON(line.Selections),
			SelectionNames: dao.NamesJSON(line.SelectionNames),
		})
	}

	return daoOrder
}

func (r *OrderRepository) daoToDomain(order dao.Order) domain.Order {
	domainOrder := domain.Order{
		ID:            order.ID,
		Reference:     order.Reference,
		FundraiserID:  order.FundraiserID,
		ParticipantID: order.ParticipantID,
		ContactName:   order.ContactName,
		ContactEmail:  order.ContactEmail,
		ContactPhone:  order.ContactPhone,
		TotalCents:    order.TotalCents,
		PaymentRef:    order.PaymentRef,
		Status:        domain.OrderStatus(order.Status),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}

	for _, line := range order.Items {
		domainOrder.Items = append(domainOrder.Items, domain.OrderItem{
			ID:             line.ID,
			OrderID:        line.OrderID,
			ItemID:         line.ItemID,
			Name:           line.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			Selections:     domain.SelectionMap(line.Selections),
			SelectionNames: map[string][]string(line.SelectionNames),
		})
	}

	return domainOrder
}
