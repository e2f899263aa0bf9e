package ledger

import (
	"errors"
	"sync"

	"github.com/weilchain/bondmarket/internal/token"
)

var (
	// ErrInsufficientFunds occurs when a debit exceeds the available balance.
	// The balance is left untouched.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount indicates a zero or otherwise unusable amount passed
	// to a balance mutation.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Account holds the token balance bound to one wallet address. The balance
// never goes negative; Credit and Debit are the only mutators and the
// check-then-debit pair is atomic under the account lock.
type Account struct {
	mu      sync.Mutex
	address string
	balance token.Amount
}

// NewAccount creates an account with a zero starting balance.
func NewAccount(address string) *Account {
	return &Account{address: address}
}

// Address returns the wallet address the account is bound to.
func (a *Account) Address() string {
	return a.address
}

// Balance returns the current balance.
func (a *Account) Balance() token.Amount {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Credit increases the balance by amount.
func (a *Account) Credit(amount token.Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = a.balance.Add(amount)
	return nil
}

// Debit decreases the balance by amount. When amount exceeds the balance it
// returns ErrInsufficientFunds without mutating anything.
func (a *Account) Debit(amount token.Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	next, ok := a.balance.Sub(amount)
	if !ok {
		return ErrInsufficientFunds
	}
	a.balance = next
	return nil
}
