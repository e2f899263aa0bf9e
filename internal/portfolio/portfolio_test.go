package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSaveAndListHoldingsMostRecentFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"BOND-AAA", "BOND-BBB", "BOND-CCC"} {
		h := Holding{
			ID:            id,
			WalletAddress: "weil1abc",
			BondID:        "in-gs-2030",
			PurchaseDate:  base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.SaveHolding(ctx, h); err != nil {
			t.Fatalf("save holding %s: %v", id, err)
		}
	}
	if err := repo.SaveHolding(ctx, Holding{ID: "OTHER", WalletAddress: "weil1zzz", PurchaseDate: base}); err != nil {
		t.Fatalf("save holding: %v", err)
	}

	holdings, err := repo.ListHoldings(ctx, "weil1abc")
	if err != nil {
		t.Fatalf("list holdings: %v", err)
	}
	if len(holdings) != 3 {
		t.Fatalf("expected 3 holdings, got %d", len(holdings))
	}
	if holdings[0].ID != "BOND-CCC" || holdings[2].ID != "BOND-AAA" {
		t.Fatalf("holdings not ordered most recent first: %+v", holdings)
	}
}

func TestSaveHoldingDuplicate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	h := Holding{ID: "BOND-AAA", WalletAddress: "weil1abc"}
	if err := repo.SaveHolding(ctx, h); err != nil {
		t.Fatalf("save holding: %v", err)
	}
	if err := repo.SaveHolding(ctx, h); !errors.Is(err, ErrDuplicateHolding) {
		t.Fatalf("expected ErrDuplicateHolding, got %v", err)
	}
}

func TestReceiptSettlementUpdate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	rec := Receipt{
		ReceiptID:       "WEIL-RCPT-1",
		WalletAddress:   "weil1abc",
		BondID:          "in-gs-2030",
		Units:           100,
		InvestedAmount:  10_000,
		RulesVerified:   map[string]bool{"active_status": true},
		ExecutionStatus: StatusVerified,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	rec.ReceiptHash = ReceiptHash(rec)
	if err := repo.SaveReceipt(ctx, rec); err != nil {
		t.Fatalf("save receipt: %v", err)
	}

	if err := repo.AttachSettlement(ctx, "WEIL-RCPT-1", Settlement{
		TxHash:    "weil_tx_0001",
		Confirmed: true,
		Status:    StatusSettled,
	}); err != nil {
		t.Fatalf("attach settlement: %v", err)
	}

	got, err := repo.GetReceipt(ctx, "WEIL-RCPT-1")
	if err != nil {
		t.Fatalf("get receipt: %v", err)
	}
	if got.ExecutionStatus != StatusSettled || got.TxHash != "weil_tx_0001" || !got.TxConfirmed {
		t.Fatalf("settlement fields not attached: %+v", got)
	}
	if got.ReceiptHash != rec.ReceiptHash {
		t.Fatalf("receipt hash must not change on settlement update")
	}
}

func TestAttachSettlementUnknownReceipt(t *testing.T) {
	repo := NewMemoryRepository()
	err := repo.AttachSettlement(context.Background(), "missing", Settlement{Status: StatusSettled})
	if !errors.Is(err, ErrReceiptNotFound) {
		t.Fatalf("expected ErrReceiptNotFound, got %v", err)
	}
}

func TestReceiptHashDeterministic(t *testing.T) {
	rec := Receipt{ReceiptID: "WEIL-RCPT-1", WalletAddress: "weil1abc", Units: 1, CreatedAt: time.Unix(0, 0)}
	if ReceiptHash(rec) != ReceiptHash(rec) {
		t.Fatalf("hash not deterministic")
	}
	other := rec
	other.Units = 2
	if ReceiptHash(rec) == ReceiptHash(other) {
		t.Fatalf("hash should differ for different receipts")
	}
}
