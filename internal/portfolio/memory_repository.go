package portfolio

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.RWMutex
	holdings map[string]Holding
	receipts map[string]Receipt
}

// NewMemoryRepository constructs an in-memory repository for development and
// tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		holdings: make(map[string]Holding),
		receipts: make(map[string]Receipt),
	}
}

func (r *memoryRepository) SaveHolding(_ context.Context, h Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.holdings[h.ID]; exists {
		return ErrDuplicateHolding
	}
	r.holdings[h.ID] = h
	return nil
}

func (r *memoryRepository) ListHoldings(_ context.Context, walletAddress string) ([]Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Holding
	for _, h := range r.holdings {
		if h.WalletAddress == walletAddress {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PurchaseDate.After(out[j].PurchaseDate)
	})
	return out, nil
}

func (r *memoryRepository) SaveReceipt(_ context.Context, rec Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts[rec.ReceiptID] = rec
	return nil
}

func (r *memoryRepository) AttachSettlement(_ context.Context, receiptID string, s Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.receipts[receiptID]
	if !ok {
		return ErrReceiptNotFound
	}
	rec.TxHash = s.TxHash
	rec.TxConfirmed = s.Confirmed
	rec.ExecutionStatus = s.Status
	rec.UpdatedAt = time.Now().UTC()
	r.receipts[receiptID] = rec
	return nil
}

func (r *memoryRepository) GetReceipt(_ context.Context, receiptID string) (Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.receipts[receiptID]
	if !ok {
		return Receipt{}, ErrReceiptNotFound
	}
	return rec, nil
}
