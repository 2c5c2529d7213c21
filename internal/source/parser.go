// Package source discovers, parses and appends to JSONL ledger files.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/billu/internal/model"
)

// ErrInvalidEntry is returned by Validate for unusable ledger entries.
var ErrInvalidEntry = errors.New("invalid ledger entry")

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseResult holds the output of parsing a single ledger file.
type ParseResult struct {
	File         DiscoveredFile
	Transactions []model.Transaction
	ParseErrors  int
	Err          error
}

// ParseFile reads a JSONL ledger file. Malformed lines are counted in
// ParseErrors and skipped; only I/O failures set Err.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{File: df, Err: err}
	}
	defer func() { _ = f.Close() }()

	result := ParseResult{File: df}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry RawEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			result.ParseErrors++
			continue
		}

		tx, err := entry.Transaction()
		if err != nil {
			result.ParseErrors++
			continue
		}
		if tx.ID == "" {
			tx.ID = fmt.Sprintf("%s:%d", filepath.Base(df.Path), lineNo)
		}
		tx.FilePath = df.Path
		result.Transactions = append(result.Transactions, tx)
	}
	if err := scanner.Err(); err != nil {
		result.Err = err
	}

	return result
}

// Transaction validates the raw entry and converts it.
func (e RawEntry) Transaction() (model.Transaction, error) {
	date, err := parseDate(e.Date)
	if err != nil {
		return model.Transaction{}, err
	}
	if e.Amount <= 0 {
		return model.Transaction{}, fmt.Errorf("%w: amount %v must be > 0", ErrInvalidEntry, e.Amount)
	}

	kind := model.KindExpense
	switch strings.ToLower(strings.TrimSpace(e.Kind)) {
	case "", "expense":
	case "income":
		kind = model.KindIncome
	default:
		return model.Transaction{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidEntry, e.Kind)
	}

	merchant := strings.TrimSpace(e.Merchant)
	if merchant == "" {
		merchant = "Unknown"
	}

	return model.Transaction{
		ID:        e.ID,
		Date:      date,
		Amount:    e.Amount,
		Kind:      kind,
		Category:  NormalizeCategory(e.Category),
		Merchant:  merchant,
		Notes:     e.Notes,
		Recurring: e.Recurring,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrInvalidEntry, s)
}

// AppendTransaction writes tx as one JSON line at the end of the ledger
// file at path, creating the file and its directory when needed.
func AppendTransaction(path string, tx model.Transaction) error {
	entry := RawEntry{
		ID:        tx.ID,
		Date:      tx.Date.Format(time.RFC3339),
		Amount:    tx.Amount,
		Kind:      string(tx.Kind),
		Category:  tx.Category,
		Merchant:  tx.Merchant,
		Notes:     tx.Notes,
		Recurring: tx.Recurring,
	}
	if _, err := entry.Transaction(); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding ledger entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600) //nolint:gosec // path is the configured ledger file
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending to ledger: %w", err)
	}
	return nil
}
