package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jorellortega/covionpartners-sub003/internal/ledger"
	"github.com/jorellortega/covionpartners-sub003/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleEntries() []ledger.Entry {
	return []ledger.Entry{
		{Amount: dec("10000"), Polarity: ledger.Revenue, Source: ledger.SourceTransaction},
		{Amount: dec("2000"), Polarity: ledger.Revenue, Source: ledger.SourceManualRevenue},
		{Amount: dec("4000"), Polarity: ledger.Expense, Source: ledger.SourceExpense},
	}
}

func TestAggregateTotals(t *testing.T) {
	c := Aggregate(sampleEntries(), model.Terms{})

	if !c.TotalRevenue.Equal(dec("12000")) {
		t.Errorf("TotalRevenue = %s, want 12000", c.TotalRevenue)
	}
	if !c.TotalExpenses.Equal(dec("4000")) {
		t.Errorf("TotalExpenses = %s, want 4000", c.TotalExpenses)
	}
	if !c.NetProfit.Equal(dec("8000")) {
		t.Errorf("NetProfit = %s, want 8000", c.NetProfit)
	}
	if !c.ROIPercentage.Valid || !c.ROIPercentage.Decimal.Equal(dec("200")) {
		t.Errorf("ROIPercentage = %+v, want 200", c.ROIPercentage)
	}
}

func TestAggregateNetProfitIdentity(t *testing.T) {
	entries := []ledger.Entry{
		{Amount: dec("0.10"), Polarity: ledger.Revenue, Source: ledger.SourceManualRevenue},
		{Amount: dec("0.20"), Polarity: ledger.Revenue, Source: ledger.SourceManualRevenue},
		{Amount: dec("0.30"), Polarity: ledger.Expense, Source: ledger.SourceExpense},
	}
	c := Aggregate(entries, model.Terms{})

	// Exactly zero, not a float residue.
	if !c.TotalRevenue.Sub(c.TotalExpenses).Equal(c.NetProfit) {
		t.Errorf("revenue - expenses = %s, net profit = %s",
			c.TotalRevenue.Sub(c.TotalExpenses), c.NetProfit)
	}
	if !c.NetProfit.Equal(decimal.Zero) {
		t.Errorf("NetProfit = %s, want exactly 0", c.NetProfit)
	}
}

func TestAggregateROIUndefinedWithoutExpenses(t *testing.T) {
	entries := []ledger.Entry{
		{Amount: dec("5000"), Polarity: ledger.Revenue, Source: ledger.SourceTransaction},
	}
	c := Aggregate(entries, model.Terms{})

	if c.ROIPercentage.Valid {
		t.Errorf("ROIPercentage = %s, want null when there are no expenses", c.ROIPercentage.Decimal)
	}
}

func TestAggregatePartnerShare(t *testing.T) {
	terms := model.Terms{
		InvestmentAmount: dec("50000"),
		SharePercentage:  dec("25"),
	}
	c := Aggregate(sampleEntries(), terms)

	if !c.PartnerProfitShare.Valid || !c.PartnerProfitShare.Decimal.Equal(dec("2000")) {
		t.Errorf("PartnerProfitShare = %+v, want 2000", c.PartnerProfitShare)
	}
	if !c.PartnerROIPercentage.Valid || !c.PartnerROIPercentage.Decimal.Equal(dec("4")) {
		t.Errorf("PartnerROIPercentage = %+v, want 4", c.PartnerROIPercentage)
	}
	if !c.WithdrawableBalance().Equal(dec("2000")) {
		t.Errorf("WithdrawableBalance = %s, want 2000", c.WithdrawableBalance())
	}
}

func TestAggregatePartnerShareNotApplicableWithoutInvestment(t *testing.T) {
	terms := model.Terms{
		InvestmentAmount: decimal.Zero,
		SharePercentage:  dec("25"),
	}
	c := Aggregate(sampleEntries(), terms)

	if c.PartnerProfitShare.Valid {
		t.Errorf("PartnerProfitShare = %s, want null without an investment", c.PartnerProfitShare.Decimal)
	}
	if c.PartnerROIPercentage.Valid {
		t.Errorf("PartnerROIPercentage = %s, want null without an investment", c.PartnerROIPercentage.Decimal)
	}
	if !c.WithdrawableBalance().Equal(decimal.Zero) {
		t.Errorf("WithdrawableBalance = %s, want 0", c.WithdrawableBalance())
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	terms := model.Terms{InvestmentAmount: dec("50000"), SharePercentage: dec("25")}

	a := Aggregate(sampleEntries(), terms)
	b := Aggregate(sampleEntries(), terms)

	da, err := a.ReportData()
	if err != nil {
		t.Fatalf("ReportData: %v", err)
	}
	db, err := b.ReportData()
	if err != nil {
		t.Fatalf("ReportData: %v", err)
	}
	if da != db {
		t.Errorf("identical inputs produced different snapshots:\n%s\n%s", da, db)
	}
	if !a.NetProfit.Equal(b.NetProfit) || !a.PartnerProfitShare.Decimal.Equal(b.PartnerProfitShare.Decimal) {
		t.Error("identical inputs produced different aggregates")
	}
}

func TestAggregateBreakdown(t *testing.T) {
	c := Aggregate(sampleEntries(), model.Terms{})

	b := c.Breakdown
	if !b.TransactionRevenue.Equal(dec("10000")) || b.TransactionCount != 1 {
		t.Errorf("transaction breakdown = %+v", b)
	}
	if !b.ManualRevenue.Equal(dec("2000")) || b.ManualRevenueCount != 1 {
		t.Errorf("manual revenue breakdown = %+v", b)
	}
	if !b.ExpenseTotal.Equal(dec("4000")) || b.ExpenseCount != 1 {
		t.Errorf("expense breakdown = %+v", b)
	}
}
