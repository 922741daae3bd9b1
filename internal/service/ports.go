package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jorellortega/covionpartners-sub003/internal/ledger"
	"github.com/jorellortega/covionpartners-sub003/internal/model"
)

// LedgerReader assembles the month's ledger entries for an organization.
type LedgerReader interface {
	Read(ctx context.Context, organizationID uint, month ledger.Month) ([]ledger.Entry, error)
}

// ReportStore persists financial reports.
type ReportStore interface {
	Upsert(ctx context.Context, rep *model.FinancialReport) (*model.FinancialReport, error)
	Get(ctx context.Context, organizationID, id uint) (*model.FinancialReport, error)
	List(ctx context.Context, organizationID, partnerInvitationID uint) ([]model.FinancialReport, error)
	MarkSent(ctx context.Context, organizationID, id uint, at time.Time) (*model.FinancialReport, error)
}

// WithdrawalStore persists withdrawal requests. Transition is a
// compare-and-swap on the status column.
type WithdrawalStore interface {
	Create(ctx context.Context, req *model.WithdrawalRequest) error
	Get(ctx context.Context, organizationID, id uint) (*model.WithdrawalRequest, error)
	List(ctx context.Context, organizationID, partnerInvitationID uint) ([]model.WithdrawalRequest, error)
	Transition(ctx context.Context, id uint, from, to model.WithdrawalStatus, updates map[string]interface{}) (bool, error)
}

// InvitationStore reads partner invitations.
type InvitationStore interface {
	Get(ctx context.Context, organizationID, id uint) (*model.PartnerInvitation, error)
}

// Transferer moves funds to a partner's payout destination. The returned
// id identifies the transfer at the payment provider.
type Transferer interface {
	Transfer(ctx context.Context, destinationAccountID string, amount decimal.Decimal) (string, error)
}

// Notifier alerts a platform user. Fire-and-forget: a notification
// failure never rolls back a financial state change.
type Notifier interface {
	Notify(ctx context.Context, userID uint, eventType string, payload map[string]interface{}) error
}
