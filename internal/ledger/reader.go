package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
	"github.com/jorellortega/covionpartners-sub003/internal/model"
)

// Source is the ledger data source: the three underlying financial
// record stores plus the project index needed to scope transactions.
// All methods are read-only.
type Source interface {
	ListProjectIDs(ctx context.Context, organizationID uint) ([]uint, error)
	ListTransactions(ctx context.Context, projectIDs []uint, status string, from, to time.Time) ([]model.Transaction, error)
	ListManualRevenue(ctx context.Context, organizationID uint, from, to time.Time) ([]model.RevenueRecord, error)
	ListExpenses(ctx context.Context, organizationID uint, statuses []string, from, to time.Time) ([]model.Expense, error)
}

// Reader assembles the ledger entries for an organization and month.
type Reader struct {
	src Source
}

// NewReader creates a Reader over the given source.
func NewReader(src Source) *Reader {
	return &Reader{src: src}
}

// Read returns every ledger entry for the organization in the month
// window. A failure reading any of the three sources fails the whole
// read: a missing expense set must never silently become "no expenses".
func (r *Reader) Read(ctx context.Context, organizationID uint, month Month) ([]Entry, error) {
	from, to := month.Start(), month.End()
	var entries []Entry

	projectIDs, err := r.src.ListProjectIDs(ctx, organizationID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, "listing organization projects", err)
	}

	// An organization with no projects has no transactions by
	// definition. Skip the query instead of issuing it with an empty id
	// list, which some stores would read as "no filter".
	if len(projectIDs) > 0 {
		txns, err := r.src.ListTransactions(ctx, projectIDs, model.TransactionStatusCompleted, from, to)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, "listing completed transactions", err)
		}
		for _, t := range txns {
			if !t.Amount.IsPositive() {
				continue
			}
			entries = append(entries, Entry{
				Amount:     t.Amount,
				OccurredAt: t.CreatedAt,
				Polarity:   Revenue,
				Source:     SourceTransaction,
			})
		}
	}

	revs, err := r.src.ListManualRevenue(ctx, organizationID, from, to)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, "listing manual revenue", err)
	}
	for _, rec := range revs {
		entries = append(entries, Entry{
			Amount:     parseAmount(rec.Amount),
			OccurredAt: rec.CreatedAt,
			Polarity:   Revenue,
			Source:     SourceManualRevenue,
		})
	}

	exps, err := r.src.ListExpenses(ctx, organizationID,
		[]string{model.ExpenseStatusApproved, model.ExpenseStatusPaid}, from, to)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, "listing expenses", err)
	}
	for _, e := range exps {
		entries = append(entries, Entry{
			Amount:     e.Amount,
			OccurredAt: e.CreatedAt,
			Polarity:   Expense,
			Source:     SourceExpense,
		})
	}

	return entries, nil
}

// parseAmount parses a manually entered amount. The upstream app stores
// these as free text; anything unparseable counts as zero, never as an
// error.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
