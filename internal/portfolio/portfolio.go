package portfolio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrReceiptNotFound occurs when no receipt exists for the given id.
	ErrReceiptNotFound = errors.New("execution receipt not found")

	// ErrDuplicateHolding indicates the holding id was already persisted.
	ErrDuplicateHolding = errors.New("duplicate holding")
)

// Receipt execution statuses. A receipt is written once at verification
// time and updated at most once afterward to attach settlement fields.
const (
	StatusRejected      = "rejected"
	StatusVerified      = "verified"
	StatusSettled       = "settled"
	StatusPaymentFailed = "payment_failed"
)

// Holding is the durable record of a settled purchase. It is never mutated
// after creation; corrections require a new holding.
type Holding struct {
	ID             string    `json:"id"`
	WalletAddress  string    `json:"wallet_address"`
	BondID         string    `json:"bond_id"`
	BondName       string    `json:"bond_name"`
	Units          float64   `json:"units"`
	InvestedAmount float64   `json:"invested_amount"`
	PurchaseDate   time.Time `json:"purchase_date"`
	APY            float64   `json:"apy"`
	MaturityDate   string    `json:"maturity_date"`
	TxHash         string    `json:"tx_hash"`
}

// Receipt is the durable record of a verification outcome, optionally
// linked to a settlement transaction. The settlement fields are the only
// post-creation mutation.
type Receipt struct {
	ReceiptID          string          `json:"receipt_id"`
	WalletAddress      string          `json:"wallet_address"`
	BondID             string          `json:"bond_id"`
	BondName           string          `json:"bond_name"`
	Units              float64         `json:"units"`
	InvestedAmount     float64         `json:"invested_amount"`
	RulesVerified      map[string]bool `json:"rules_verified"`
	ReceiptHash        string          `json:"receipt_hash"`
	ExecutionStatus    string          `json:"execution_status"`
	VerificationErrors []string        `json:"verification_errors"`
	ChainBlock         string          `json:"chain_block,omitempty"`
	TxHash             string          `json:"tx_hash,omitempty"`
	TxConfirmed        bool            `json:"tx_confirmed"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Settlement carries the narrow post-creation receipt update.
type Settlement struct {
	TxHash    string
	Confirmed bool
	Status    string
}

// Repository is the persistence collaborator for holdings and receipts.
type Repository interface {
	SaveHolding(ctx context.Context, h Holding) error
	// ListHoldings returns the holdings for an address, most recent
	// purchase first.
	ListHoldings(ctx context.Context, walletAddress string) ([]Holding, error)
	SaveReceipt(ctx context.Context, r Receipt) error
	AttachSettlement(ctx context.Context, receiptID string, s Settlement) error
	GetReceipt(ctx context.Context, receiptID string) (Receipt, error)
}

// ReceiptHash fingerprints the receipt's identifying fields.
func ReceiptHash(r Receipt) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%v|%v|%s",
		r.ReceiptID, r.WalletAddress, r.BondID, r.Units, r.InvestedAmount,
		r.CreatedAt.UTC().Format(time.RFC3339Nano))))
	return hex.EncodeToString(sum[:])
}
