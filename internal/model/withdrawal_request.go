package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus is the state of a withdrawal request. Requests only
// move forward: pending → approved → processing → completed, with
// rejection possible from pending or approved.
type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalApproved   WithdrawalStatus = "approved"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalRejected   WithdrawalStatus = "rejected"
)

// withdrawalTransitions is the full transition table. Anything not
// listed here is illegal, including every move out of a terminal state.
var withdrawalTransitions = map[WithdrawalStatus][]WithdrawalStatus{
	WithdrawalPending:    {WithdrawalApproved, WithdrawalRejected},
	WithdrawalApproved:   {WithdrawalProcessing, WithdrawalRejected},
	WithdrawalProcessing: {WithdrawalCompleted, WithdrawalApproved},
}

// CanTransition reports whether moving from one status to another is a
// legal step of the state machine.
func CanTransition(from, to WithdrawalStatus) bool {
	for _, next := range withdrawalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a status admits no further transitions.
func (s WithdrawalStatus) Terminal() bool {
	return len(withdrawalTransitions[s]) == 0
}

// WithdrawalRequest is a partner's claim against their accrued profit
// share, subject to administrator approval before any funds move.
type WithdrawalRequest struct {
	ID                  uint             `json:"id" gorm:"primaryKey"`
	OrganizationID      uint             `json:"organization_id" gorm:"index;not null"`
	FinancialReportID   *uint            `json:"financial_report_id,omitempty" gorm:"index"`
	PartnerInvitationID uint             `json:"partner_invitation_id" gorm:"index;not null"`
	Amount              decimal.Decimal  `json:"amount" gorm:"type:numeric(20,4);not null"`
	Status              WithdrawalStatus `json:"status" gorm:"type:varchar(20);index;not null;default:pending"`
	Notes               string           `json:"notes,omitempty" gorm:"type:text"`
	RejectionReason     string           `json:"rejection_reason,omitempty" gorm:"type:text"`
	ProcessedAt         *time.Time       `json:"processed_at,omitempty"`
	// StripeTransferID is recorded on successful processing. A non-empty
	// value means funds have already moved for this request.
	StripeTransferID string    `json:"stripe_transfer_id,omitempty" gorm:"type:varchar(255)"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName keeps the table name aligned with the upstream schema.
func (WithdrawalRequest) TableName() string { return "withdrawal_requests" }
