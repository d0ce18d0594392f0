package ports

import "context"

// VerifyAccountResult is returned by account activation.
type VerifyAccountResult struct {
	Token string
	// AlreadyActive is true when the account was activated before this call;
	// the operation is then a no-op and no token is issued.
	AlreadyActive bool
}

// AuthService orchestrates the registration → activation → login → 2FA state
// machine and the forgot/reset-password flow.
type AuthService interface {
	// Register creates an inactive account, issues an activation code and
	// emails it. Returns the new user id.
	Register(ctx context.Context, username, email, password string) (string, error)
	// Login checks credentials. It never returns a session token: on success
	// it issues a fresh 2FA code, emails it, and returns the user id so the
	// client can continue with VerifyTwoFactor. An inactive account yields
	// ErrAccountInactive.
	Login(ctx context.Context, email, password string) (string, error)
	// VerifyAccount consumes an activation code and issues a session token.
	VerifyAccount(ctx context.Context, email, code string) (*VerifyAccountResult, error)
	// VerifyTwoFactor consumes a login 2FA code and issues a session token.
	VerifyTwoFactor(ctx context.Context, email, code string) (string, error)
	// RequestTwoFactor re-issues a 2FA code for an active account.
	RequestTwoFactor(ctx context.Context, email string) error
	// ForgotPassword issues a password-reset code and emails it.
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword replaces the password when (email, code) matches an
	// unexpired reset code.
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}
