package report

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jorellortega/covionpartners-sub003/internal/ledger"
	"github.com/jorellortega/covionpartners-sub003/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Breakdown is the per-source detail that goes into the report's
// report_data snapshot.
type Breakdown struct {
	TransactionRevenue decimal.Decimal `json:"transaction_revenue"`
	ManualRevenue      decimal.Decimal `json:"manual_revenue"`
	ExpenseTotal       decimal.Decimal `json:"expense_total"`
	TransactionCount   int             `json:"transaction_count"`
	ManualRevenueCount int             `json:"manual_revenue_count"`
	ExpenseCount       int             `json:"expense_count"`
}

// Computation is the aggregate of one month's ledger for one partner's
// terms: organization-wide totals plus the partner's derived share.
type Computation struct {
	TotalRevenue  decimal.Decimal
	TotalExpenses decimal.Decimal
	NetProfit     decimal.Decimal
	// ROIPercentage is invalid (null) when the month had no expenses:
	// with no cost base the ratio is undefined rather than zero.
	ROIPercentage decimal.NullDecimal

	PartnerInvestmentAmount decimal.Decimal
	PartnerSharePercentage  decimal.Decimal
	// PartnerProfitShare and PartnerROIPercentage are invalid (null) when
	// the partner has no recorded investment.
	PartnerProfitShare   decimal.NullDecimal
	PartnerROIPercentage decimal.NullDecimal

	Breakdown Breakdown
}

// Aggregate reduces ledger entries and partner terms into a report
// computation. It is a pure function: no I/O, and identical inputs
// always yield identical outputs, which is what makes regeneration an
// idempotent upsert.
func Aggregate(entries []ledger.Entry, terms model.Terms) Computation {
	c := Computation{
		TotalRevenue:            decimal.Zero,
		TotalExpenses:           decimal.Zero,
		PartnerInvestmentAmount: terms.InvestmentAmount,
		PartnerSharePercentage:  terms.SharePercentage,
	}

	for _, e := range entries {
		switch e.Polarity {
		case ledger.Revenue:
			c.TotalRevenue = c.TotalRevenue.Add(e.Amount)
		case ledger.Expense:
			c.TotalExpenses = c.TotalExpenses.Add(e.Amount)
		}
		switch e.Source {
		case ledger.SourceTransaction:
			c.Breakdown.TransactionRevenue = c.Breakdown.TransactionRevenue.Add(e.Amount)
			c.Breakdown.TransactionCount++
		case ledger.SourceManualRevenue:
			c.Breakdown.ManualRevenue = c.Breakdown.ManualRevenue.Add(e.Amount)
			c.Breakdown.ManualRevenueCount++
		case ledger.SourceExpense:
			c.Breakdown.ExpenseTotal = c.Breakdown.ExpenseTotal.Add(e.Amount)
			c.Breakdown.ExpenseCount++
		}
	}

	c.NetProfit = c.TotalRevenue.Sub(c.TotalExpenses)

	if c.TotalExpenses.IsPositive() {
		c.ROIPercentage = decimal.NullDecimal{
			Decimal: c.NetProfit.Div(c.TotalExpenses).Mul(hundred),
			Valid:   true,
		}
	}

	if terms.InvestmentAmount.IsPositive() {
		share := c.NetProfit.Mul(terms.SharePercentage).Div(hundred)
		c.PartnerProfitShare = decimal.NullDecimal{Decimal: share, Valid: true}
		c.PartnerROIPercentage = decimal.NullDecimal{
			Decimal: share.Div(terms.InvestmentAmount).Mul(hundred),
			Valid:   true,
		}
	}

	return c
}

// ReportData renders the breakdown snapshot as the JSON stored in
// financial_reports.report_data.
func (c *Computation) ReportData() (string, error) {
	b, err := json.Marshal(c.Breakdown)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WithdrawableBalance is the balance snapshot stored on the report: the
// partner's profit share, or zero when the share is not applicable.
func (c *Computation) WithdrawableBalance() decimal.Decimal {
	if c.PartnerProfitShare.Valid {
		return c.PartnerProfitShare.Decimal
	}
	return decimal.Zero
}
