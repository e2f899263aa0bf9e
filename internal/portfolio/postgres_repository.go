package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores holdings and execution receipts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SaveHolding inserts a holding record. Holdings are append-only.
func (r *PostgresRepository) SaveHolding(ctx context.Context, h Holding) error {
	_, err := r.db.Exec(ctx, `INSERT INTO holdings
        (id, wallet_address, bond_id, bond_name, units, invested_amount, purchase_date, apy, maturity_date, tx_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		h.ID, h.WalletAddress, h.BondID, h.BondName, h.Units, h.InvestedAmount,
		h.PurchaseDate.UTC(), h.APY, h.MaturityDate, h.TxHash)
	if err != nil {
		return fmt.Errorf("save holding %s: %w", h.ID, err)
	}
	return nil
}

// ListHoldings fetches the holdings for a wallet, most recent purchase first.
func (r *PostgresRepository) ListHoldings(ctx context.Context, walletAddress string) ([]Holding, error) {
	rows, err := r.db.Query(ctx, `SELECT id, wallet_address, bond_id, bond_name, units, invested_amount, purchase_date, apy, maturity_date, tx_hash
        FROM holdings WHERE wallet_address = $1 ORDER BY purchase_date DESC`, walletAddress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Holding
	for rows.Next() {
		var h Holding
		var purchaseDate time.Time
		if err := rows.Scan(&h.ID, &h.WalletAddress, &h.BondID, &h.BondName, &h.Units,
			&h.InvestedAmount, &purchaseDate, &h.APY, &h.MaturityDate, &h.TxHash); err != nil {
			return nil, err
		}
		h.PurchaseDate = purchaseDate.UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

// SaveReceipt inserts an execution receipt row.
func (r *PostgresRepository) SaveReceipt(ctx context.Context, rec Receipt) error {
	rules, err := json.Marshal(rec.RulesVerified)
	if err != nil {
		return err
	}
	verrs, err := json.Marshal(rec.VerificationErrors)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO execution_receipts
        (receipt_id, wallet_address, bond_id, bond_name, units, invested_amount, rules_verified,
         receipt_hash, execution_status, verification_errors, chain_block, tx_hash, tx_confirmed,
         created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rec.ReceiptID, rec.WalletAddress, rec.BondID, rec.BondName, rec.Units, rec.InvestedAmount,
		rules, rec.ReceiptHash, rec.ExecutionStatus, verrs, nullable(rec.ChainBlock),
		nullable(rec.TxHash), rec.TxConfirmed, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save receipt %s: %w", rec.ReceiptID, err)
	}
	return nil
}

// AttachSettlement performs the single permitted post-creation update on a
// receipt: settlement tx hash, confirmation and final status.
func (r *PostgresRepository) AttachSettlement(ctx context.Context, receiptID string, s Settlement) error {
	tag, err := r.db.Exec(ctx, `UPDATE execution_receipts
        SET tx_hash = $2, tx_confirmed = $3, execution_status = $4, updated_at = $5
        WHERE receipt_id = $1`,
		receiptID, s.TxHash, s.Confirmed, s.Status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("attach settlement %s: %w", receiptID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReceiptNotFound
	}
	return nil
}

// GetReceipt fetches a receipt by id.
func (r *PostgresRepository) GetReceipt(ctx context.Context, receiptID string) (Receipt, error) {
	row := r.db.QueryRow(ctx, `SELECT receipt_id, wallet_address, bond_id, bond_name, units, invested_amount,
        rules_verified, receipt_hash, execution_status, verification_errors, chain_block, tx_hash, tx_confirmed,
        created_at, updated_at
        FROM execution_receipts WHERE receipt_id = $1`, receiptID)

	var rec Receipt
	var rules, verrs []byte
	var chainBlock, txHash *string
	var createdAt, updatedAt time.Time
	if err := row.Scan(&rec.ReceiptID, &rec.WalletAddress, &rec.BondID, &rec.BondName, &rec.Units,
		&rec.InvestedAmount, &rules, &rec.ReceiptHash, &rec.ExecutionStatus, &verrs,
		&chainBlock, &txHash, &rec.TxConfirmed, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Receipt{}, ErrReceiptNotFound
		}
		return Receipt{}, err
	}
	if err := json.Unmarshal(rules, &rec.RulesVerified); err != nil {
		return Receipt{}, err
	}
	if err := json.Unmarshal(verrs, &rec.VerificationErrors); err != nil {
		return Receipt{}, err
	}
	if chainBlock != nil {
		rec.ChainBlock = *chainBlock
	}
	if txHash != nil {
		rec.TxHash = *txHash
	}
	rec.CreatedAt = createdAt.UTC()
	rec.UpdatedAt = updatedAt.UTC()
	return rec, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
