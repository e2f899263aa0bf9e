package faucet

import (
	"context"
	"time"

	"github.com/weilchain/bondmarket/internal/token"
)

const (
	// DefaultCooldown is the rolling window during which an address may
	// receive at most one grant.
	DefaultCooldown = 24 * time.Hour

	grantWeil = 10
)

// GrantAmount is the fixed number of WEIL tokens dispensed per grant.
func GrantAmount() token.Amount {
	return token.MustFromInt(grantWeil)
}

// Grant is the outcome of a faucet request. A denial is a normal negative
// result, not an error: RetryAfter carries the remaining cooldown.
type Grant struct {
	Granted    bool
	Amount     token.Amount
	RetryAfter time.Duration
}

// Limiter enforces the one-grant-per-cooldown rule per address. The
// check-then-write for a given address is atomic, so two concurrent
// requests never both observe "not yet granted".
type Limiter interface {
	TryGrant(ctx context.Context, address string) (Grant, error)
}
