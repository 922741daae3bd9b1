package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
	"github.com/jorellortega/covionpartners-sub003/internal/model"
	"github.com/jorellortega/covionpartners-sub003/pkg/logger"
)

// WithdrawalService runs the withdrawal request state machine:
// pending → approved → processing → completed, with rejection possible
// from pending or approved. Every transition is a compare-and-swap on
// the stored status, so rapid repeated administrator clicks cannot
// double-fire a transfer.
type WithdrawalService struct {
	withdrawals WithdrawalStore
	reports     ReportStore
	invitations InvitationStore
	transferer  Transferer
	notifier    Notifier
	now         func() time.Time
}

// NewWithdrawalService wires a WithdrawalService.
func NewWithdrawalService(withdrawals WithdrawalStore, reports ReportStore, invitations InvitationStore, transferer Transferer, notifier Notifier) *WithdrawalService {
	return &WithdrawalService{
		withdrawals: withdrawals,
		reports:     reports,
		invitations: invitations,
		transferer:  transferer,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Create validates and records a new pending withdrawal request against
// a report's profit share.
func (s *WithdrawalService) Create(ctx context.Context, organizationID, reportID, partnerInvitationID uint, amount decimal.Decimal, notes string) (*model.WithdrawalRequest, error) {
	if !amount.IsPositive() {
		return nil, apperr.New(apperr.KindValidation, "withdrawal amount must be positive")
	}

	if _, err := s.invitations.Get(ctx, organizationID, partnerInvitationID); err != nil {
		return nil, err
	}

	rep, err := s.reports.Get(ctx, organizationID, reportID)
	if err != nil {
		return nil, err
	}
	if rep.PartnerInvitationID != partnerInvitationID {
		return nil, apperr.New(apperr.KindValidation, "report does not belong to this partner")
	}
	if err := checkAgainstShare(amount, rep); err != nil {
		return nil, err
	}

	req := &model.WithdrawalRequest{
		OrganizationID:      organizationID,
		FinancialReportID:   &rep.ID,
		PartnerInvitationID: partnerInvitationID,
		Amount:              amount,
		Status:              model.WithdrawalPending,
		Notes:               notes,
	}
	if err := s.withdrawals.Create(ctx, req); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Withdrawal request created",
		zap.Uint("request_id", req.ID),
		zap.Uint("organization_id", organizationID),
		zap.Uint("partner_invitation_id", partnerInvitationID),
		zap.String("amount", amount.String()))

	return req, nil
}

// Approve moves a pending request to approved. The amount is
// re-validated against the report's current profit share, since the
// report may have been regenerated since the request was raised.
func (s *WithdrawalService) Approve(ctx context.Context, organizationID, requestID uint) (*model.WithdrawalRequest, error) {
	req, err := s.withdrawals.Get(ctx, organizationID, requestID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(req.Status, model.WithdrawalApproved) {
		return nil, apperr.Newf(apperr.KindInvalidTransition, "cannot approve a %s request", req.Status)
	}

	if req.FinancialReportID != nil {
		rep, err := s.reports.Get(ctx, organizationID, *req.FinancialReportID)
		if err != nil {
			return nil, err
		}
		if err := checkAgainstShare(req.Amount, rep); err != nil {
			return nil, err
		}
	}

	ok, err := s.withdrawals.Transition(ctx, requestID, model.WithdrawalPending, model.WithdrawalApproved, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.KindInvalidTransition, "request is no longer pending")
	}

	s.notifyPartner(ctx, organizationID, req, "withdrawal_approved", nil)
	return s.withdrawals.Get(ctx, organizationID, requestID)
}

// Reject moves a pending or approved request to rejected, recording the
// optional reason. A request whose transfer has started (processing, or
// carrying a transfer id) can no longer be rejected.
func (s *WithdrawalService) Reject(ctx context.Context, organizationID, requestID uint, reason string) (*model.WithdrawalRequest, error) {
	req, err := s.withdrawals.Get(ctx, organizationID, requestID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(req.Status, model.WithdrawalRejected) {
		return nil, apperr.Newf(apperr.KindInvalidTransition, "cannot reject a %s request", req.Status)
	}
	if req.StripeTransferID != "" {
		return nil, apperr.New(apperr.KindInvalidTransition, "cannot reject a request whose transfer has started")
	}

	ok, err := s.withdrawals.Transition(ctx, requestID, req.Status, model.WithdrawalRejected,
		map[string]interface{}{"rejection_reason": reason})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.KindInvalidTransition, "request status changed concurrently")
	}

	s.notifyPartner(ctx, organizationID, req, "withdrawal_rejected",
		map[string]interface{}{"reason": reason})
	return s.withdrawals.Get(ctx, organizationID, requestID)
}

// Process executes an approved request: it claims the row by moving it
// to processing, invokes the transfer provider, and records the outcome.
// On any transfer failure the request drops back to approved, so the
// administrator can retry; on success it is completed with the
// provider's transfer id. Two concurrent Process calls cannot both
// reach the provider because only one wins the approved → processing
// swap.
func (s *WithdrawalService) Process(ctx context.Context, organizationID, requestID uint) (*model.WithdrawalRequest, error) {
	log := logger.FromContext(ctx)

	req, err := s.withdrawals.Get(ctx, organizationID, requestID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(req.Status, model.WithdrawalProcessing) {
		return nil, apperr.Newf(apperr.KindInvalidTransition, "cannot process a %s request", req.Status)
	}

	inv, err := s.invitations.Get(ctx, organizationID, req.PartnerInvitationID)
	if err != nil {
		return nil, err
	}
	if inv.PayoutAccountID == "" {
		return nil, apperr.New(apperr.KindValidation, "partner has no payout destination configured")
	}

	ok, err := s.withdrawals.Transition(ctx, requestID, model.WithdrawalApproved, model.WithdrawalProcessing, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.KindInvalidTransition, "request is no longer approved")
	}

	// A transfer id already on the row means funds moved on an earlier
	// attempt whose completion write was lost. Finish the bookkeeping
	// without transferring again.
	if req.StripeTransferID != "" {
		log.Warn("Request already carries a transfer id, completing without a new transfer",
			zap.Uint("request_id", requestID),
			zap.String("stripe_transfer_id", req.StripeTransferID))
		return s.complete(ctx, organizationID, req, req.StripeTransferID)
	}

	transferID, err := s.transferer.Transfer(ctx, inv.PayoutAccountID, req.Amount)
	if err != nil {
		// Funds did not move (or provably may not have: the caller is
		// told the outcome is unknown for timeouts). Either way the
		// request returns to approved rather than sticking in an
		// ambiguous processing state.
		if _, revertErr := s.withdrawals.Transition(ctx, requestID, model.WithdrawalProcessing, model.WithdrawalApproved, nil); revertErr != nil {
			log.Error("Failed to revert request to approved after transfer failure",
				zap.Uint("request_id", requestID), zap.Error(revertErr))
		}
		return nil, err
	}

	rep, err := s.complete(ctx, organizationID, req, transferID)
	if err != nil {
		return nil, err
	}

	log.Info("Withdrawal processed",
		zap.Uint("request_id", requestID),
		zap.String("amount", req.Amount.String()),
		zap.String("stripe_transfer_id", transferID))

	s.notifyPartner(ctx, organizationID, req, "withdrawal_processed",
		map[string]interface{}{"stripe_transfer_id": transferID})
	return rep, nil
}

// List returns the organization's withdrawal requests, optionally
// filtered to one partner invitation (0 means all partners).
func (s *WithdrawalService) List(ctx context.Context, organizationID, partnerInvitationID uint) ([]model.WithdrawalRequest, error) {
	return s.withdrawals.List(ctx, organizationID, partnerInvitationID)
}

// complete records a successful transfer: processing → completed with
// processed_at and the provider transfer id.
func (s *WithdrawalService) complete(ctx context.Context, organizationID uint, req *model.WithdrawalRequest, transferID string) (*model.WithdrawalRequest, error) {
	ok, err := s.withdrawals.Transition(ctx, req.ID, model.WithdrawalProcessing, model.WithdrawalCompleted,
		map[string]interface{}{
			"processed_at":       s.now(),
			"stripe_transfer_id": transferID,
		})
	if err != nil {
		return nil, err
	}
	if !ok {
		// The transfer went through but the row left processing under
		// us. Surface loudly instead of guessing.
		return nil, apperr.Newf(apperr.KindInternal,
			"transfer %s succeeded but request %d was no longer processing", transferID, req.ID)
	}
	return s.withdrawals.Get(ctx, organizationID, req.ID)
}

// checkAgainstShare enforces the withdrawal bound: the amount may not
// exceed the report's partner profit share, and a report with no
// applicable share admits no withdrawals at all.
func checkAgainstShare(amount decimal.Decimal, rep *model.FinancialReport) error {
	if !rep.PartnerProfitShare.Valid {
		return apperr.New(apperr.KindValidation, "report has no withdrawable profit share")
	}
	if amount.GreaterThan(rep.PartnerProfitShare.Decimal) {
		return apperr.Newf(apperr.KindValidation,
			"amount %s exceeds available profit share %s",
			amount.String(), rep.PartnerProfitShare.Decimal.String())
	}
	return nil
}

// notifyPartner looks up the partner's linked user and sends one event.
// Absence of a linked account, and delivery failure, are both non-fatal.
func (s *WithdrawalService) notifyPartner(ctx context.Context, organizationID uint, req *model.WithdrawalRequest, eventType string, extra map[string]interface{}) {
	log := logger.FromContext(ctx)

	inv, err := s.invitations.Get(ctx, organizationID, req.PartnerInvitationID)
	if err != nil {
		log.Warn("Failed to load invitation for notification",
			zap.Uint("request_id", req.ID), zap.Error(err))
		return
	}
	if inv.PartnerUserID == nil {
		return
	}

	payload := map[string]interface{}{
		"request_id": req.ID,
		"amount":     req.Amount.String(),
	}
	for k, v := range extra {
		payload[k] = v
	}
	if err := s.notifier.Notify(ctx, *inv.PartnerUserID, eventType, payload); err != nil {
		log.Warn("Failed to notify partner",
			zap.Uint("request_id", req.ID),
			zap.String("event", eventType),
			zap.Error(err))
	}
}
