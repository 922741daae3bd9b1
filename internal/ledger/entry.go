package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Polarity says which side of the ledger an entry falls on.
type Polarity string

const (
	Revenue Polarity = "revenue"
	Expense Polarity = "expense"
)

// EntrySource tags which of the three underlying record sources an entry
// came from.
type EntrySource string

const (
	SourceTransaction   EntrySource = "transaction"
	SourceManualRevenue EntrySource = "manual_revenue"
	SourceExpense       EntrySource = "expense"
)

// Entry is a single dated monetary record drawn from one of the three
// financial record sources. Entries are derived transiently for a month
// window and never persisted.
type Entry struct {
	Amount     decimal.Decimal
	OccurredAt time.Time
	Polarity   Polarity
	Source     EntrySource
}
