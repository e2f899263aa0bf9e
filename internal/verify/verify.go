package verify

import (
	"context"
	"errors"
)

// ErrUnreachable indicates the verifier could not produce an outcome at all
// (transport failure, timeout, non-2xx). A verified=false outcome is not an
// error; it is a normal negative result carried in Outcome.
var ErrUnreachable = errors.New("verifier unreachable")

// BondMetadata is the instrument snapshot sent with a verification request.
// APY is expressed in basis points on the wire.
type BondMetadata struct {
	ActiveStatus bool    `json:"active_status"`
	TotalSupply  float64 `json:"total_supply"`
	IssuedSupply float64 `json:"issued_supply"`
	APY          float64 `json:"apy"`
	MaturityDate string  `json:"maturity_date"`
}

// Request carries one purchase attempt to the verifier.
type Request struct {
	WalletAddress  string       `json:"wallet_address"`
	BondID         string       `json:"bond_id"`
	BondName       string       `json:"bond_name"`
	Units          float64      `json:"units"`
	InvestedAmount float64      `json:"invested_amount"`
	BondMetadata   BondMetadata `json:"bond_metadata"`
}

// Outcome is the immutable result of one verification attempt.
type Outcome struct {
	Verified       bool
	ReceiptID      string
	Errors         []string
	RulesEvaluated map[string]bool
}

// Client evaluates purchase-eligibility rules for an instrument. The
// orchestrator treats it as a black box and never proceeds to payment on
// Verified=false.
type Client interface {
	Verify(ctx context.Context, req Request) (Outcome, error)
}
