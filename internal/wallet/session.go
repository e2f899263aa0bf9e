package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/weilchain/bondmarket/internal/chain"
	"github.com/weilchain/bondmarket/internal/faucet"
	"github.com/weilchain/bondmarket/internal/ledger"
	"github.com/weilchain/bondmarket/internal/token"
)

// Network is the chain identifier reported for every session.
const Network = "EIBS-2.0-Testnet"

var (
	// ErrNotConnected occurs when a balance-bearing operation is invoked
	// outside the Connected state.
	ErrNotConnected = errors.New("wallet not connected")

	// ErrAlreadyConnected occurs when Connect is called on a live session.
	// Reconnecting silently would orphan the prior account balance.
	ErrAlreadyConnected = errors.New("wallet already connected")
)

// State is the session lifecycle state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// Session binds one address to one ledger account for its connected
// lifetime. The account and any unspent balance are discarded on disconnect.
type Session struct {
	mu          sync.Mutex
	state       State
	account     *ledger.Account
	connectedAt time.Time

	limiter  faucet.Limiter
	executor *chain.Executor
}

// NewSession creates a disconnected session using the provided faucet
// limiter and transaction executor.
func NewSession(limiter faucet.Limiter, executor *chain.Executor) *Session {
	return &Session{
		state:    StateDisconnected,
		limiter:  limiter,
		executor: executor,
	}
}

// Connect allocates a fresh address with a zero-balance account and moves
// the session to Connected. Connecting twice is a caller error.
func (s *Session) Connect() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateConnected {
		return "", ErrAlreadyConnected
	}
	s.state = StateConnecting

	address, err := newAddress()
	if err != nil {
		s.state = StateDisconnected
		return "", err
	}

	s.account = ledger.NewAccount(address)
	s.connectedAt = time.Now().UTC()
	s.state = StateConnected
	return address, nil
}

// Disconnect tears the session down and discards the account reference. Any
// unspent balance is lost by design; faucet cooldowns outlive the session
// when the limiter is persistent.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDisconnected
	s.account = nil
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Address returns the session address, or empty when disconnected.
func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == nil {
		return ""
	}
	return s.account.Address()
}

// Account exposes the live ledger account for the purchase pipeline.
func (s *Session) Account() (*ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnected {
		return nil, ErrNotConnected
	}
	return s.account, nil
}

// Balance returns the current token balance.
func (s *Session) Balance() (token.Amount, error) {
	account, err := s.Account()
	if err != nil {
		return token.Amount{}, err
	}
	return account.Balance(), nil
}

// RequestFaucet asks the rate limiter for a grant and credits the account
// when granted. A denial passes through unchanged.
func (s *Session) RequestFaucet(ctx context.Context) (faucet.Grant, error) {
	account, err := s.Account()
	if err != nil {
		return faucet.Grant{}, err
	}

	grant, err := s.limiter.TryGrant(ctx, account.Address())
	if err != nil {
		return faucet.Grant{}, err
	}
	if !grant.Granted {
		return grant, nil
	}

	if err := account.Credit(grant.Amount); err != nil {
		return faucet.Grant{}, err
	}
	return grant, nil
}

// SendPayment moves amount from the session account to the destination
// address via the executor.
func (s *Session) SendPayment(to string, amount token.Amount) (chain.Transaction, error) {
	account, err := s.Account()
	if err != nil {
		return chain.Transaction{}, err
	}
	return s.executor.Send(account, to, amount)
}

// newAddress produces a weil1-prefixed address from 32 random bytes.
func newAddress() (string, error) {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate address: %w", err)
	}
	return "weil1" + hex.EncodeToString(raw[:]), nil
}
