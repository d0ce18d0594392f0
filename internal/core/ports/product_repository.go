package ports

import (
	"context"

	"github.com/mercadito/ecommerce-api/internal/core/domain"
)

// UpdateProductInput is a full replace of the mutable product fields.
type UpdateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Active      bool
}

// ProductRepository defines persistence for the catalog.
type ProductRepository interface {
	// Create inserts a product. A duplicate name yields ErrProductExists.
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// List returns all products, newest first. Soft-deleted products are
	// included; filtering on activo is the caller's business.
	List(ctx context.Context) ([]*domain.Product, error)
	// FindByID yields ErrInvalidProductID on a malformed identifier and
	// ErrProductNotFound when no document matches.
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error)
	// Deactivate soft-deletes: sets activo=false and returns the updated document.
	Deactivate(ctx context.Context, id string) (*domain.Product, error)
}
