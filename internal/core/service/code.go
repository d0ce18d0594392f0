package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// codeTTL is how long an emailed one-time code stays valid.
const codeTTL = 10 * time.Minute

// newVerificationCode returns a 6-digit numeric one-time code in [100000, 999999].
func newVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// fallback: derive from the clock
		return fmt.Sprintf("%06d", 100000+time.Now().UnixNano()%900000)
	}
	return fmt.Sprintf("%d", 100000+n.Int64())
}
