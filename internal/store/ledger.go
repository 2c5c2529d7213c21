package store

import (
	"fmt"

	"github.com/theirongolddev/billu/internal/model"
)

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (s *Store) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := s.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFile replaces the cached transactions of one ledger file and updates
// its tracking info.
func (s *Store) SaveFile(path string, txs []model.Transaction, mtimeNs, sizeBytes int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(s.rebind("DELETE FROM transactions WHERE file_path = ?"), path); err != nil {
		return err
	}

	insert := s.rebind(`INSERT INTO transactions
		(id, file_path, tx_date, amount, kind, category, merchant, notes, recurring)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (file_path, id) DO UPDATE SET
			tx_date = excluded.tx_date,
			amount = excluded.amount,
			kind = excluded.kind,
			category = excluded.category,
			merchant = excluded.merchant,
			notes = excluded.notes,
			recurring = excluded.recurring`)
	for _, t := range txs {
		recurring := 0
		if t.Recurring {
			recurring = 1
		}
		_, err = tx.Exec(insert,
			t.ID, path, t.Date.UTC().Format(timeLayout), t.Amount, string(t.Kind),
			t.Category, t.Merchant, t.Notes, recurring,
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(s.rebind(`INSERT INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)
		ON CONFLICT (file_path) DO UPDATE SET
			mtime_ns = excluded.mtime_ns,
			size_bytes = excluded.size_bytes`), path, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadAllTransactions reads every cached transaction.
func (s *Store) LoadAllTransactions() ([]model.Transaction, error) {
	rows, err := s.db.Query(`SELECT
		id, file_path, tx_date, amount, kind, category, merchant, notes, recurring
		FROM transactions ORDER BY tx_date, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var txs []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var dateStr, kind string
		var notes *string
		var recurring int
		err := rows.Scan(&t.ID, &t.FilePath, &dateStr, &t.Amount, &kind,
			&t.Category, &t.Merchant, &notes, &recurring)
		if err != nil {
			return nil, err
		}
		if t.Date, err = parseTime("tx_date", dateStr); err != nil {
			return nil, fmt.Errorf("transaction %s in %s: %w", t.ID, t.FilePath, err)
		}
		t.Kind = model.TxKind(kind)
		if notes != nil {
			t.Notes = *notes
		}
		t.Recurring = recurring != 0
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// DeleteFile removes a ledger file's cached transactions and tracking entry.
func (s *Store) DeleteFile(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(s.rebind("DELETE FROM transactions WHERE file_path = ?"), path); err != nil {
		return err
	}
	if _, err := tx.Exec(s.rebind("DELETE FROM file_tracker WHERE file_path = ?"), path); err != nil {
		return err
	}
	return tx.Commit()
}

// TransactionCount returns the number of cached transactions.
func (s *Store) TransactionCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count)
	return count, err
}
