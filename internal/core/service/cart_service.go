package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mercadito/ecommerce-api/internal/api/metrics"
	"github.com/mercadito/ecommerce-api/internal/core/domain"
	"github.com/mercadito/ecommerce-api/internal/core/ports"
)

// CartService merges requested quantities into the per-user cart against live
// product stock. Line name and price are snapshotted from the product at
// add-time and never refreshed afterwards.
type CartService struct {
	carts    ports.CartRepository
	products ports.ProductRepository
	log      zerolog.Logger
}

func NewCartService(carts ports.CartRepository, products ports.ProductRepository, log zerolog.Logger) *CartService {
	return &CartService{carts: carts, products: products, log: log}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.carts.GetOrCreate(ctx, userID)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if productID == "" || quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if err == domain.ErrProductNotFound {
			return nil, domain.ErrProductUnavailable
		}
		return nil, err
	}
	if !product.Available() {
		return nil, domain.ErrProductUnavailable
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing := cart.FindItem(productID)
	desired := quantity
	if existing != nil {
		desired = existing.Quantity + quantity
	}

	if desired > product.Stock {
		metrics.StockRejectionsTotal.Inc()
		stockErr := &domain.StockError{Stock: product.Stock, MaxAdditional: product.Stock, NewLine: existing == nil}
		if existing != nil {
			stockErr.MaxAdditional = product.Stock - existing.Quantity
		}
		return nil, stockErr
	}

	// Conditional update: the filter re-checks the state we based the
	// decision on, so an interleaved request surfaces as a conflict instead
	// of a lost update.
	if existing != nil {
		err = s.carts.SetItemQuantity(ctx, userID, productID, existing.Quantity, desired)
	} else {
		err = s.carts.PushItem(ctx, userID, domain.CartItem{
			ProductID: productID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  quantity,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	metrics.CartItemsAddedTotal.Inc()
	s.log.Debug().Str("uid", userID).Str("product", productID).Int("quantity", desired).Msg("cart item merged")
	return s.carts.RecomputeTotal(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if err := s.carts.PullItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.carts.RecomputeTotal(ctx, userID)
}
