package domain

import "time"

// User models a store account. TwoFactorEnabled doubles as the activation
// flag: a freshly registered account stays inactive until the first emailed
// verification code is confirmed, and once active every login requires a
// fresh 2FA code.
type User struct {
	ID           string `json:"uid"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	TwoFactorEnabled bool `json:"twoFactorEnabled"`

	// One-time activation/2FA code and its expiry. Cleared atomically when
	// the code is consumed or superseded by a new issuance.
	VerificationCode string    `json:"-"`
	CodeExpires      time.Time `json:"-"`

	// Password-reset code and its expiry. Same lifecycle as above.
	ResetCode    string    `json:"-"`
	ResetExpires time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// CodeValid reports whether a supplied activation/2FA code matches the stored
// one and the stored expiry is strictly in the future.
func (u *User) CodeValid(code string, now time.Time) bool {
	return u.VerificationCode != "" && u.VerificationCode == code && now.Before(u.CodeExpires)
}
