package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction status values relevant to reporting. Only completed
// transactions count as revenue.
const TransactionStatusCompleted = "completed"

// Expense status values. Only approved or already-paid expenses count
// against the month.
const (
	ExpenseStatusApproved = "Approved"
	ExpenseStatusPaid     = "Paid"
)

// Transaction is a completed (or in-flight) payment tied to a project.
// Written by the payments side of the platform; read-only here.
type Transaction struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	ProjectID uint            `json:"project_id" gorm:"index;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(20,4);not null"`
	Status    string          `json:"status" gorm:"type:varchar(30);index"`
	CreatedAt time.Time       `json:"created_at"`
}

// RevenueRecord is manually entered revenue. The upstream app stores the
// amount as free text, so it is kept as a string here and parsed by the
// ledger reader (unparseable amounts count as zero).
type RevenueRecord struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organization_id" gorm:"index;not null"`
	Amount         string    `json:"amount" gorm:"type:varchar(50)"`
	Description    string    `json:"description" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
}

// Expense is an organization expense. Only rows in Approved or Paid
// status are counted by the ledger reader.
type Expense struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	OrganizationID uint            `json:"organization_id" gorm:"index;not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:numeric(20,4);not null"`
	Status         string          `json:"status" gorm:"type:varchar(30);index"`
	Description    string          `json:"description" gorm:"type:text"`
	CreatedAt      time.Time       `json:"created_at"`
}
