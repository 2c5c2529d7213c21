// Package model defines domain types for billu ledgers, forecasts and goals.
package model

import "time"

// TxKind distinguishes money going out from money coming in.
type TxKind string

const (
	KindExpense TxKind = "expense"
	KindIncome  TxKind = "income"
)

// Transaction is one ledger entry.
type Transaction struct {
	ID        string
	Date      time.Time
	Amount    float64 // always positive; Kind carries the direction
	Kind      TxKind
	Category  string
	Merchant  string
	Notes     string
	Recurring bool
	FilePath  string // ledger file the entry was read from
}
