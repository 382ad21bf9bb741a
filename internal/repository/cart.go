package repository

import (
	"context"
	"fmt"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/repository/dao"
)

var ErrCartNotFound = dao.ErrCartNotFound

type CartDAO interface {
	Insert(ctx context.Context, cart dao.Cart) (dao.Cart, error)
	FindByToken(ctx context.Context, token string) (dao.Cart, error)
	Save(ctx context.Context, cart dao.Cart) (dao.Cart, error)
}

type CartRepository struct {
	dao CartDAO
}

func NewCartRepository(dao CartDAO) *CartRepository {
	return &CartRepository{
		dao: dao,
	}
}

func (r *CartRepository) Create(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(cart))
	if err != nil {
		return domain.Cart{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CartRepository) FindByToken(ctx context.Context, token string) (domain.Cart, error) {
	found, err := r.dao.FindByToken(ctx, token)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("r.dao.FindByToken -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CartRepository) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	saved, err := r.dao.Save(ctx, r.domainToDao(cart))
	if err != nil {
		return domain.Cart{}, fmt.Errorf("r.dao.Save -> %w", err)
	}

	return r.daoToDomain(saved), nil
}

func (r *CartRepository) domainToDao(cart domain.Cart) dao.Cart {
	daoCart := dao.Cart{
		ID:           cart.ID,
		Token:        cart.Token,
		FundraiserID: cart.FundraiserID,
		CreatedAt:    cart.CreatedAt,
		UpdatedAt:    cart.UpdatedAt,
	}

	for _, line := range cart.Items {
		daoCart.Items = append(daoCart.Items, dao.CartItem{
			ID:             line.ID,
			CartID:         line.CartID,
			ItemID:         line.ItemID,
			Name:           line.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			Selections:     dao.SelectionJSON(line.Selections),
			SelectionNames: dao.NamesJSON(line.SelectionNames),
		})
	}

	return daoCart
}

func (r *CartRepository) daoToDomain(cart dao.Cart) domain.Cart {
	domainCart := domain.Cart{
		ID:           cart.ID,
		Token:        cart.Token,
		FundraiserID: cart.FundraiserID,
		CreatedAt:    cart.CreatedAt,
		UpdatedAt:    cart.UpdatedAt,
	}

	for _, line := range cart.Items {
		domainCart.Items = append(domainCart.Items, domain.CartItem{
			ID:             line.ID,
			CartID:         line.CartID,
			ItemID:         line.ItemID,
			Name:           line.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			Selections:     domain.SelectionMap(line.Selections),
			SelectionNames: map[string][]string(line.SelectionNames),
		})
	}

	return domainCart
}
