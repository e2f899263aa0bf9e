package chain

import (
	"time"

	"github.com/weilchain/bondmarket/internal/ledger"
	"github.com/weilchain/bondmarket/internal/token"
)

// Executor turns debits against a ledger account into confirmed chain
// transactions. Once a transaction is returned Confirmed the debit is final:
// there is no rollback for downstream failures, callers must sequence
// verification before payment.
type Executor struct{}

// NewExecutor builds a transaction executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Send debits account by amount and returns the confirmed transaction. The
// balance check and debit are atomic under the account lock, so two
// concurrent sends never both succeed when only one fits.
func (e *Executor) Send(account *ledger.Account, to string, amount token.Amount) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ledger.ErrInvalidAmount
	}
	if err := account.Debit(amount); err != nil {
		return Transaction{}, err
	}

	return Transaction{
		Hash:      newTxHash(),
		From:      account.Address(),
		To:        to,
		Amount:    amount,
		Status:    TxConfirmed,
		Timestamp: time.Now().UTC(),
	}, nil
}
