package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/weilchain/bondmarket/internal/bond"
	"github.com/weilchain/bondmarket/internal/chain"
	"github.com/weilchain/bondmarket/internal/notification"
	"github.com/weilchain/bondmarket/internal/portfolio"
	"github.com/weilchain/bondmarket/internal/token"
	"github.com/weilchain/bondmarket/internal/verify"
	"github.com/weilchain/bondmarket/internal/wallet"
)

var (
	// ErrVerificationRejected indicates the verifier returned verified=false.
	// The rule errors are carried in Result.VerificationErrors verbatim.
	ErrVerificationRejected = errors.New("verification rejected")

	// ErrReceiptNotPersisted aborts a verified purchase before payment when
	// the receipt row could not be written. No funds have moved.
	ErrReceiptNotPersisted = errors.New("receipt not persisted")
)

// Phase is the terminal state of a purchase attempt.
type Phase string

const (
	PhaseRejected      Phase = "rejected"
	PhasePaymentFailed Phase = "payment_failed"
	PhaseSettled       Phase = "settled"
)

// Result describes the outcome of one purchase attempt. PersistenceFailed
// is only meaningful on PhaseSettled: the payment is final, but the holding
// or receipt record may be missing and needs manual reconciliation.
type Result struct {
	Phase              Phase
	BondID             string
	BondName           string
	Units              float64
	InvestedAmount     float64
	TokenAmount        token.Amount
	TxHash             string
	HoldingID          string
	ReceiptID          string
	VerificationErrors []string
	PersistenceFailed  bool
}

// Orchestrator coordinates verification, payment and persistence for bond
// purchases. Each attempt walks Verifying -> {Rejected | Paying} ->
// {Settled | PaymentFailed}; phases never run speculatively and a confirmed
// debit is never rolled back.
type Orchestrator struct {
	verifier verify.Client
	repo     portfolio.Repository
	catalog  *bond.Catalog
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewOrchestrator builds a purchase orchestrator. notifier may be nil.
func NewOrchestrator(verifier verify.Client, repo portfolio.Repository, catalog *bond.Catalog, notifier notification.Notifier, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{verifier: verifier, repo: repo, catalog: catalog, notifier: notifier, logger: logger}
}

// Execute runs one purchase attempt of investedINR against bondID for the
// given session. Fractional units are permitted.
func (o *Orchestrator) Execute(ctx context.Context, session *wallet.Session, bondID string, investedINR token.Amount) (Result, error) {
	if !investedINR.IsPositive() {
		return Result{}, token.ErrInvalidAmount
	}

	b, err := o.catalog.Get(bondID)
	if err != nil {
		return Result{}, err
	}

	address := session.Address()
	if address == "" {
		return Result{}, wallet.ErrNotConnected
	}

	price, err := token.FromFloat(b.PricePerUnit)
	if err != nil || !price.IsPositive() {
		return Result{}, fmt.Errorf("bond %s has no usable price", bondID)
	}
	unitsAmount, err := investedINR.Div(price)
	if err != nil {
		return Result{}, err
	}
	units := unitsAmount.Float64()
	invested := investedINR.Float64()

	result := Result{
		BondID:         b.ID,
		BondName:       b.Name,
		Units:          units,
		InvestedAmount: invested,
	}

	// Verifying.
	outcome, err := o.verifier.Verify(ctx, verify.Request{
		WalletAddress:  address,
		BondID:         b.ID,
		BondName:       b.Name,
		Units:          units,
		InvestedAmount: invested,
		BondMetadata: verify.BondMetadata{
			ActiveStatus: b.Active,
			TotalSupply:  b.TotalSupply,
			IssuedSupply: b.IssuedSupply(),
			APY:          b.APY * 100,
			MaturityDate: b.MaturityDate,
		},
	})
	if err != nil {
		// Transport failure: terminal, no funds moved, nothing persisted.
		result.Phase = PhaseRejected
		return result, err
	}

	result.ReceiptID = outcome.ReceiptID

	if !outcome.Verified {
		result.Phase = PhaseRejected
		result.VerificationErrors = outcome.Errors
		if saveErr := o.writeReceipt(ctx, address, b, units, invested, outcome, portfolio.StatusRejected); saveErr != nil {
			result.PersistenceFailed = true
			o.logger.Warn("rejected receipt not persisted", "receipt_id", outcome.ReceiptID, "error", saveErr)
		}
		return result, ErrVerificationRejected
	}

	if saveErr := o.writeReceipt(ctx, address, b, units, invested, outcome, portfolio.StatusVerified); saveErr != nil {
		// Funds have not moved yet, so refusing to pay is still safe.
		result.Phase = PhaseRejected
		return result, fmt.Errorf("%w: %v", ErrReceiptNotPersisted, saveErr)
	}

	// Paying.
	weilAmount := token.FiatToWeil(investedINR)
	result.TokenAmount = weilAmount

	tx, err := session.SendPayment(chain.TreasuryAddress, weilAmount)
	if err != nil {
		result.Phase = PhasePaymentFailed
		if settleErr := o.repo.AttachSettlement(ctx, outcome.ReceiptID, portfolio.Settlement{
			Status: portfolio.StatusPaymentFailed,
		}); settleErr != nil {
			result.PersistenceFailed = true
			o.logger.Warn("payment failure not recorded on receipt", "receipt_id", outcome.ReceiptID, "error", settleErr)
		}
		return result, err
	}

	// Settled. The debit is final from here on; persistence failures are
	// surfaced for reconciliation, never undone.
	result.Phase = PhaseSettled
	result.TxHash = tx.Hash

	holding := portfolio.Holding{
		ID:             holdingID(tx.Hash),
		WalletAddress:  address,
		BondID:         b.ID,
		BondName:       b.Name,
		Units:          units,
		InvestedAmount: invested,
		PurchaseDate:   time.Now().UTC(),
		APY:            b.APY,
		MaturityDate:   b.MaturityDate,
		TxHash:         tx.Hash,
	}
	result.HoldingID = holding.ID

	if err := o.repo.SaveHolding(ctx, holding); err != nil {
		result.PersistenceFailed = true
		o.logger.Error("holding not persisted after settlement", "holding_id", holding.ID, "tx_hash", tx.Hash, "error", err)
	}
	if err := o.repo.AttachSettlement(ctx, outcome.ReceiptID, portfolio.Settlement{
		TxHash:    tx.Hash,
		Confirmed: true,
		Status:    portfolio.StatusSettled,
	}); err != nil {
		result.PersistenceFailed = true
		o.logger.Error("settlement not attached to receipt", "receipt_id", outcome.ReceiptID, "error", err)
	}
	if err := o.catalog.ReserveSupply(b.ID, units); err != nil {
		o.logger.Warn("supply reservation failed", "bond_id", b.ID, "units", units, "error", err)
	}

	if o.notifier != nil {
		_ = o.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPurchaseSettled,
			Destination: address,
			Body:        fmt.Sprintf("Purchased %v units of %s for %v INR", units, b.Name, invested),
		})
	}

	return result, nil
}

func (o *Orchestrator) writeReceipt(ctx context.Context, address string, b bond.Bond, units, invested float64, outcome verify.Outcome, status string) error {
	now := time.Now().UTC()
	rec := portfolio.Receipt{
		ReceiptID:          outcome.ReceiptID,
		WalletAddress:      address,
		BondID:             b.ID,
		BondName:           b.Name,
		Units:              units,
		InvestedAmount:     invested,
		RulesVerified:      outcome.RulesEvaluated,
		ExecutionStatus:    status,
		VerificationErrors: outcome.Errors,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	rec.ReceiptHash = portfolio.ReceiptHash(rec)
	return o.repo.SaveReceipt(ctx, rec)
}

func holdingID(txHash string) string {
	suffix := strings.TrimPrefix(txHash, "weil_tx_")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return "BOND-" + strings.ToUpper(suffix)
}
