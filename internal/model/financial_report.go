package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportTypeMonthly is the only report type generated today. The column
// is part of the uniqueness key so other cadences can be added without a
// migration.
const ReportTypeMonthly = "monthly"

// FinancialReport is the canonical monthly report for one partner of one
// organization. At most one row exists per (organization, partner,
// month, type); generation upserts on that key.
type FinancialReport struct {
	ID                  uint `json:"id" gorm:"primaryKey"`
	OrganizationID      uint `json:"organization_id" gorm:"uniqueIndex:idx_report_key;not null"`
	PartnerInvitationID uint `json:"partner_invitation_id" gorm:"uniqueIndex:idx_report_key;not null"`
	// ReportMonth is the first day of the reported month, UTC. Immutable
	// once the row exists.
	ReportMonth time.Time `json:"report_month" gorm:"uniqueIndex:idx_report_key;type:date;not null"`
	ReportType  string    `json:"report_type" gorm:"uniqueIndex:idx_report_key;type:varchar(20);not null;default:monthly"`

	TotalRevenue  decimal.Decimal `json:"total_revenue" gorm:"type:numeric(20,4);not null"`
	TotalExpenses decimal.Decimal `json:"total_expenses" gorm:"type:numeric(20,4);not null"`
	NetProfit     decimal.Decimal `json:"net_profit" gorm:"type:numeric(20,4);not null"`
	// ROIPercentage is null when the month had no expenses: with no cost
	// base the ratio is undefined, not zero.
	ROIPercentage decimal.NullDecimal `json:"roi_percentage" gorm:"type:numeric(12,4)"`

	PartnerInvestmentAmount decimal.Decimal `json:"partner_investment_amount" gorm:"type:numeric(20,4);not null"`
	PartnerSharePercentage  decimal.Decimal `json:"partner_share_percentage" gorm:"type:numeric(7,4);not null"`
	// PartnerProfitShare and PartnerROIPercentage are null when the
	// partner has no recorded investment ("not applicable", not zero).
	PartnerProfitShare   decimal.NullDecimal `json:"partner_profit_share" gorm:"type:numeric(20,4)"`
	PartnerROIPercentage decimal.NullDecimal `json:"partner_roi_percentage" gorm:"type:numeric(12,4)"`

	// Balance is the withdrawable snapshot, equal to the profit share at
	// generation time (zero when the share is not applicable).
	Balance decimal.Decimal `json:"balance" gorm:"type:numeric(20,4);not null"`

	// ReportData is the full breakdown snapshot, stored as JSON.
	ReportData string `json:"report_data" gorm:"type:jsonb"`

	// SentAt is set the first time the report is transmitted to the
	// partner. Re-sending never overwrites it.
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedBy uint       `json:"created_by" gorm:"not null"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName keeps the table name aligned with the upstream schema.
func (FinancialReport) TableName() string { return "financial_reports" }
