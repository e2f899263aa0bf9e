package wallet

import (
	"errors"
	"sync"

	"github.com/weilchain/bondmarket/internal/chain"
	"github.com/weilchain/bondmarket/internal/faucet"
)

// ErrSessionNotFound occurs when no live session exists for an address.
var ErrSessionNotFound = errors.New("session not found")

// Manager owns the live sessions keyed by address. It replaces the
// module-level singleton wallet of earlier iterations with explicit,
// caller-controlled lifetimes.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	limiter  faucet.Limiter
	executor *chain.Executor
}

// NewManager builds a session manager.
func NewManager(limiter faucet.Limiter, executor *chain.Executor) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		limiter:  limiter,
		executor: executor,
	}
}

// Connect creates and connects a new session, returning its address.
func (m *Manager) Connect() (*Session, string, error) {
	session := NewSession(m.limiter, m.executor)
	address, err := session.Connect()
	if err != nil {
		return nil, "", err
	}

	m.mu.Lock()
	m.sessions[address] = session
	m.mu.Unlock()
	return session, address, nil
}

// Get returns the live session for an address.
func (m *Manager) Get(address string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[address]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Disconnect tears down the session for an address and forgets it.
func (m *Manager) Disconnect(address string) error {
	m.mu.Lock()
	session, ok := m.sessions[address]
	if ok {
		delete(m.sessions, address)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.Disconnect()
	return nil
}
