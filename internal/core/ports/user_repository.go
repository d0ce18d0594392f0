package ports

import (
	"context"
	"time"

	"github.com/mercadito/ecommerce-api/internal/core/domain"
)

// UserRepository defines persistence for store accounts. Code consumption is
// expressed as conditional single-document updates so that match-and-clear
// happens atomically in the storage engine instead of read-then-write.
type UserRepository interface {
	// Create inserts a new user. Duplicate email or username yields ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetVerificationCode attaches a fresh activation/2FA code, superseding
	// any previous one.
	SetVerificationCode(ctx context.Context, email, code string, expires time.Time) error
	// ClearVerificationCode removes the stored code fields, if any.
	ClearVerificationCode(ctx context.Context, email string) error
	// ActivateAccount consumes an activation code on an inactive account:
	// in one conditional update it checks code equality and expiry, flips the
	// two-factor flag on, and clears the code fields. No match yields
	// ErrCodeInvalid.
	ActivateAccount(ctx context.Context, email, code string, now time.Time) (*domain.User, error)
	// ConsumeVerificationCode consumes a 2FA login code on an active account
	// with the same conditional-update semantics as ActivateAccount.
	ConsumeVerificationCode(ctx context.Context, email, code string, now time.Time) (*domain.User, error)

	// SetResetCode attaches a fresh password-reset code.
	SetResetCode(ctx context.Context, email, code string, expires time.Time) error
	ClearResetCode(ctx context.Context, email string) error
	// ResetPassword matches (email, reset code, unexpired) in a single
	// conditional update that swaps in the new password hash and clears the
	// reset fields. No match yields ErrCodeInvalid.
	ResetPassword(ctx context.Context, email, code string, now time.Time, passwordHash string) error
}
