package ports

import (
	"context"

	"github.com/mercadito/ecommerce-api/internal/core/domain"
)

// CartService implements stock-aware cart reconciliation.
type CartService interface {
	// GetCart returns the user's cart, creating an empty one on first access.
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem merges quantity units of a product into the cart, enforcing the
	// product's stock as a ceiling on the resulting line quantity. Exceeding
	// the ceiling yields a *domain.StockError stating how many more units are
	// allowed; an unavailable product yields ErrProductUnavailable.
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	// RemoveItem drops the line for productID. ErrItemNotFound when absent.
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
}

// ProductService is catalog CRUD.
type ProductService interface {
	Create(ctx context.Context, name, description string, price float64, stock int) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error)
	// Delete soft-deletes the product and returns it with activo=false.
	Delete(ctx context.Context, id string) (*domain.Product, error)
}
