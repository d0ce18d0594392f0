package ports

import (
	"context"

	"github.com/mercadito/ecommerce-api/internal/core/domain"
)

// CartRepository defines persistence for per-user carts. Every mutation is a
// conditional update that matches the expected current state and is applied
// atomically by the storage engine; a mismatch (another request interleaved)
// yields ErrCartConflict instead of silently losing an update.
type CartRepository interface {
	// GetOrCreate returns the user's cart, creating an empty one (items=[],
	// total=0) on first access. Implemented as an upsert so concurrent first
	// accesses cannot create two carts.
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	// SetItemQuantity sets the quantity of an existing line, conditional on
	// the line currently holding expectedQty units.
	SetItemQuantity(ctx context.Context, userID, productID string, expectedQty, newQty int) error
	// PushItem appends a new line, conditional on no line existing yet for
	// the product.
	PushItem(ctx context.Context, userID string, item domain.CartItem) error
	// PullItem removes the line for productID. ErrItemNotFound when the cart
	// holds no such line.
	PullItem(ctx context.Context, userID, productID string) error
	// RecomputeTotal re-derives total = Σ(precio×cantidad) server-side from
	// the current items and returns the updated cart.
	RecomputeTotal(ctx context.Context, userID string) (*domain.Cart, error)
}
