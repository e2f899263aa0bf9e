package ledger

import (
	"errors"
	"sync"
	"testing"

	"github.com/weilchain/bondmarket/internal/token"
)

func TestDebitInsufficientFundsLeavesBalance(t *testing.T) {
	acct := NewAccount("weil1test")
	SeedBalance(acct, token.MustFromInt(10))

	if err := acct.Debit(token.MustFromInt(11)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if !acct.Balance().Equal(token.MustFromInt(10)) {
		t.Fatalf("balance mutated on failed debit: %s", acct.Balance())
	}
}

func TestCreditDebitRejectZero(t *testing.T) {
	acct := NewAccount("weil1test")

	if err := acct.Credit(token.Zero()); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount on zero credit, got %v", err)
	}
	if err := acct.Debit(token.Zero()); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount on zero debit, got %v", err)
	}
}

func TestDebitsConserveCredits(t *testing.T) {
	acct := NewAccount("weil1test")
	credited := token.MustFromInt(100)
	if err := acct.Credit(credited); err != nil {
		t.Fatalf("credit: %v", err)
	}

	debited := token.Zero()
	step := token.MustFromInt(7)
	for {
		if err := acct.Debit(step); err != nil {
			if !errors.Is(err, ErrInsufficientFunds) {
				t.Fatalf("unexpected debit error: %v", err)
			}
			break
		}
		debited = debited.Add(step)
	}

	if !debited.Add(acct.Balance()).Equal(credited) {
		t.Fatalf("conservation violated: debited %s + remaining %s != %s",
			debited, acct.Balance(), credited)
	}
}

func TestConcurrentDebitsNeverOversell(t *testing.T) {
	acct := NewAccount("weil1test")
	SeedBalance(acct, token.MustFromInt(50))

	const workers = 20
	amount := token.MustFromInt(10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := acct.Debit(amount); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 5 {
		t.Fatalf("expected exactly 5 successful debits, got %d", succeeded)
	}
	if !acct.Balance().IsZero() {
		t.Fatalf("expected zero balance, got %s", acct.Balance())
	}
}
