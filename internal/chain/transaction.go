package chain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/weilchain/bondmarket/internal/token"
)

// TxStatus is the lifecycle state of a chain transaction. The Pending state
// never escapes Send: callers only observe Confirmed or Failed.
type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxConfirmed TxStatus = "confirmed"
	TxFailed    TxStatus = "failed"
)

// TreasuryAddress receives bond settlement payments on the testnet.
const TreasuryAddress = "weil1treasury000000000000000000000000000000000000000000000000000000000"

// Transaction is an immutable record of a confirmed token movement.
type Transaction struct {
	Hash      string
	From      string
	To        string
	Amount    token.Amount
	Status    TxStatus
	Timestamp time.Time
}

var txCounter atomic.Uint64

// newTxHash derives a process-unique hash from a monotonic counter plus
// random bytes. Wall-clock alone would collide under rapid repeated calls
// within the same millisecond.
func newTxHash() string {
	var entropy [8]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		// crypto/rand failure is unrecoverable for unique-id generation.
		panic(fmt.Sprintf("chain: read entropy: %v", err))
	}
	return fmt.Sprintf("weil_tx_%016x_%s", txCounter.Add(1), hex.EncodeToString(entropy[:]))
}
