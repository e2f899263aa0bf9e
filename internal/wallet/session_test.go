package wallet

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/weilchain/bondmarket/internal/chain"
	"github.com/weilchain/bondmarket/internal/faucet"
	"github.com/weilchain/bondmarket/internal/token"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(faucet.NewMemoryLimiter(faucet.DefaultCooldown), chain.NewExecutor())
}

func TestConnectAllocatesFreshAccount(t *testing.T) {
	s := newTestSession(t)

	address, err := s.Connect()
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !strings.HasPrefix(address, "weil1") || len(address) != 69 {
		t.Fatalf("unexpected address shape: %q (len %d)", address, len(address))
	}
	if s.State() != StateConnected {
		t.Fatalf("expected connected state, got %s", s.State())
	}

	balance, err := s.Balance()
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero starting balance, got %s", balance)
	}
}

func TestConnectWhileConnectedIsRefused(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := s.Connect(); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("expected ErrAlreadyConnected, got %v", err)
	}
}

func TestOperationsRequireConnection(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Balance(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected from Balance, got %v", err)
	}
	if _, err := s.RequestFaucet(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected from RequestFaucet, got %v", err)
	}
	if _, err := s.SendPayment(chain.TreasuryAddress, token.MustFromInt(1)); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected from SendPayment, got %v", err)
	}
}

func TestFaucetGrantThenDeny(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	ctx := context.Background()

	grant, err := s.RequestFaucet(ctx)
	if err != nil {
		t.Fatalf("request faucet: %v", err)
	}
	if !grant.Granted || !grant.Amount.Equal(token.MustFromInt(10)) {
		t.Fatalf("expected grant of 10 WEIL, got %+v", grant)
	}

	balance, _ := s.Balance()
	if !balance.Equal(token.MustFromInt(10)) {
		t.Fatalf("expected balance 10 after grant, got %s", balance)
	}

	denied, err := s.RequestFaucet(ctx)
	if err != nil {
		t.Fatalf("request faucet: %v", err)
	}
	if denied.Granted {
		t.Fatalf("expected denial within cooldown")
	}
	balance, _ = s.Balance()
	if !balance.Equal(token.MustFromInt(10)) {
		t.Fatalf("balance changed on denial: %s", balance)
	}
}

func TestDisconnectDiscardsBalance(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := s.RequestFaucet(context.Background()); err != nil {
		t.Fatalf("request faucet: %v", err)
	}

	s.Disconnect()
	if s.State() != StateDisconnected {
		t.Fatalf("expected disconnected, got %s", s.State())
	}
	if _, err := s.Balance(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected after disconnect, got %v", err)
	}
}

func TestManagerConnectAndLookup(t *testing.T) {
	m := NewManager(faucet.NewMemoryLimiter(faucet.DefaultCooldown), chain.NewExecutor())

	session, address, err := m.Connect()
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	found, err := m.Get(address)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found != session {
		t.Fatalf("lookup returned a different session")
	}

	if err := m.Disconnect(address); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if _, err := m.Get(address); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := m.Disconnect(address); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on double disconnect, got %v", err)
	}
}

func TestManagerConcurrentConnects(t *testing.T) {
	m := NewManager(faucet.NewMemoryLimiter(faucet.DefaultCooldown), chain.NewExecutor())

	const n = 16
	addresses := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, addr, err := m.Connect()
			if err != nil {
				t.Errorf("connect %d: %v", i, err)
				return
			}
			addresses[i] = addr
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, addr := range addresses {
		if addr == "" {
			continue
		}
		if _, dup := seen[addr]; dup {
			t.Fatalf("duplicate address allocated: %s", addr)
		}
		seen[addr] = struct{}{}
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct sessions, got %d", n, len(seen))
	}
}
