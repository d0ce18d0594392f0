package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email or username already registered")
	ErrAccountInactive    = errors.New("account not activated")
	ErrCodeInvalid        = errors.New("invalid or expired code")
	ErrCodeRequestLimit   = errors.New("too many code requests, try again later")

	ErrProductNotFound    = errors.New("product not found")
	ErrProductExists      = errors.New("product name already exists")
	ErrProductUnavailable = errors.New("product not available")
	ErrInvalidProductID   = errors.New("invalid product id")
	ErrInvalidProduct     = errors.New("invalid product data")

	ErrItemNotFound    = errors.New("product not found in cart")
	ErrInvalidQuantity = errors.New("missing product or invalid quantity")
	ErrCartConflict    = errors.New("cart was modified concurrently, retry")
)

// StockError is returned when a requested cart quantity would exceed the
// product's available stock. MaxAdditional is how many more units the caller
// could still add given what is already in the cart.
type StockError struct {
	Stock         int
	MaxAdditional int
	// NewLine marks a request that would exceed stock with no pre-existing
	// cart line for the product.
	NewLine bool
}

func (e *StockError) Error() string {
	if e.Stock == 0 {
		return "product out of stock"
	}
	if e.NewLine {
		return fmt.Sprintf("cannot add: only %d units left in stock", e.Stock)
	}
	return fmt.Sprintf("only %d more units can be added, current stock is %d", e.MaxAdditional, e.Stock)
}
