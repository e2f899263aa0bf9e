package ledger

import "github.com/weilchain/bondmarket/internal/token"

// SeedBalance is a test helper that sets an account balance directly,
// bypassing the Credit/Debit mutators.
func SeedBalance(a *Account, amount token.Amount) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = amount
}
