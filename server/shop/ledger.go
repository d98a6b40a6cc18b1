package shop

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Receipt is one processed store transaction.
type Receipt struct {
	ID            string
	TransactionID string
	PlayerID      string
	SKU           string
	Outcome       string
	RecordedAt    time.Time
}

// Ledger is the persistent record of processed IAP transactions. A
// transaction ID appears at most once; replayed receipts resolve to the
// recorded outcome instead of granting again.
type Ledger struct {
	sqlDB *sql.DB
}

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS receipts (
	id             TEXT PRIMARY KEY,
	transaction_id TEXT NOT NULL UNIQUE,
	player_id      TEXT NOT NULL,
	sku            TEXT NOT NULL,
	outcome        TEXT NOT NULL,
	recorded_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS receipts_player ON receipts(player_id);
`

// OpenLedger opens (and migrates) the receipt ledger at the given path.
func OpenLedger(path string) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}

	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(ledgerSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate ledger: %w", err)
	}

	return &Ledger{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	if l == nil || l.sqlDB == nil {
		return nil
	}
	return l.sqlDB.Close()
}

// Lookup returns the recorded receipt for a transaction ID, or nil when the
// transaction has not been processed.
func (l *Ledger) Lookup(transactionID string) (*Receipt, error) {
	row := l.sqlDB.QueryRow(
		`SELECT id, transaction_id, player_id, sku, outcome, recorded_at
		 FROM receipts WHERE transaction_id = ?`, transactionID)

	var r Receipt
	var recordedAt int64
	err := row.Scan(&r.ID, &r.TransactionID, &r.PlayerID, &r.SKU, &r.Outcome, &recordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query receipt: %w", err)
	}
	r.RecordedAt = time.UnixMilli(recordedAt).UTC()
	return &r, nil
}

// Record inserts a processed transaction. Returns the stored receipt, or an
// error if the transaction ID was already recorded.
func (l *Ledger) Record(transactionID, playerID, sku, outcome string) (*Receipt, error) {
	r := &Receipt{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		PlayerID:      playerID,
		SKU:           sku,
		Outcome:       outcome,
		RecordedAt:    time.Now().UTC(),
	}

	_, err := l.sqlDB.Exec(
		`INSERT INTO receipts (id, transaction_id, player_id, sku, outcome, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.TransactionID, r.PlayerID, r.SKU, r.Outcome, r.RecordedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("record receipt: %w", err)
	}
	return r, nil
}

// Claim atomically reserves a transaction ID for processing. Returns false
// when the transaction was already claimed or recorded, which marks the
// delivery as a replay. The row is written with the given provisional
// outcome; UpdateOutcome settles it once the grant is persisted.
func (l *Ledger) Claim(transactionID, playerID, sku, outcome string) (bool, error) {
	res, err := l.sqlDB.Exec(
		`INSERT INTO receipts (id, transaction_id, player_id, sku, outcome, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(transaction_id) DO NOTHING`,
		uuid.NewString(), transactionID, playerID, sku, outcome, time.Now().UTC().UnixMilli())
	if err != nil {
		return false, fmt.Errorf("claim transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim transaction: %w", err)
	}
	return n == 1, nil
}

// UpdateOutcome settles a claimed transaction's outcome.
func (l *Ledger) UpdateOutcome(transactionID, outcome string) error {
	if _, err := l.sqlDB.Exec(
		`UPDATE receipts SET outcome = ? WHERE transaction_id = ?`, outcome, transactionID); err != nil {
		return fmt.Errorf("update outcome: %w", err)
	}
	return nil
}

// Release drops a claimed transaction so a later delivery can retry it.
// Used when processing fails between the claim and the account save.
func (l *Ledger) Release(transactionID string) error {
	if _, err := l.sqlDB.Exec(
		`DELETE FROM receipts WHERE transaction_id = ?`, transactionID); err != nil {
		return fmt.Errorf("release transaction: %w", err)
	}
	return nil
}

// PlayerReceipts lists receipts for a player, newest first.
func (l *Ledger) PlayerReceipts(playerID string) ([]Receipt, error) {
	rows, err := l.sqlDB.Query(
		`SELECT id, transaction_id, player_id, sku, outcome, recorded_at
		 FROM receipts WHERE player_id = ? ORDER BY recorded_at DESC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	var out []Receipt
	for rows.Next() {
		var r Receipt
		var recordedAt int64
		if err := rows.Scan(&r.ID, &r.TransactionID, &r.PlayerID, &r.SKU, &r.Outcome, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		r.RecordedAt = time.UnixMilli(recordedAt).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}
