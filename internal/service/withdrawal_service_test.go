package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
	"github.com/jorellortega/covionpartners-sub003/internal/model"
)

type withdrawalFixture struct {
	svc         *WithdrawalService
	withdrawals *memWithdrawalStore
	reports     *memReportStore
	invitations *memInvitationStore
	transferer  *countingTransferer
	notifier    *recordingNotifier
	report      *model.FinancialReport
}

func newWithdrawalFixture(t *testing.T) *withdrawalFixture {
	t.Helper()

	reports := newMemReportStore()
	rep, err := reports.Upsert(context.Background(), &model.FinancialReport{
		OrganizationID:      testOrg,
		PartnerInvitationID: testPartner,
		ReportMonth:         time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		ReportType:          model.ReportTypeMonthly,
		TotalRevenue:        dec("12000"),
		TotalExpenses:       dec("4000"),
		NetProfit:           dec("8000"),
		PartnerProfitShare:  decimal.NullDecimal{Decimal: dec("2000"), Valid: true},
		Balance:             dec("2000"),
		CreatedBy:           testActor,
	})
	if err != nil {
		t.Fatalf("seeding report: %v", err)
	}

	invitations := &memInvitationStore{invs: map[uint]*model.PartnerInvitation{
		testPartner: {
			ID:               testPartner,
			OrganizationID:   testOrg,
			PartnerUserID:    uintPtr(42),
			InvestmentAmount: dec("50000"),
			SharePercentage:  dec("25"),
			PayoutAccountID:  "acct_partner",
		},
	}}
	withdrawals := newMemWithdrawalStore()
	transferer := &countingTransferer{}
	notifier := &recordingNotifier{}

	return &withdrawalFixture{
		svc:         NewWithdrawalService(withdrawals, reports, invitations, transferer, notifier),
		withdrawals: withdrawals,
		reports:     reports,
		invitations: invitations,
		transferer:  transferer,
		notifier:    notifier,
		report:      rep,
	}
}

func (f *withdrawalFixture) createPending(t *testing.T, amount string) *model.WithdrawalRequest {
	t.Helper()
	req, err := f.svc.Create(context.Background(), testOrg, f.report.ID, testPartner, dec(amount), "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return req
}

func TestCreateWithdrawal(t *testing.T) {
	f := newWithdrawalFixture(t)

	req := f.createPending(t, "1500")
	if req.Status != model.WithdrawalPending {
		t.Errorf("Status = %s, want pending", req.Status)
	}
	if req.FinancialReportID == nil || *req.FinancialReportID != f.report.ID {
		t.Errorf("FinancialReportID = %v, want %d", req.FinancialReportID, f.report.ID)
	}
}

func TestCreateWithdrawalExceedingShare(t *testing.T) {
	f := newWithdrawalFixture(t)

	_, err := f.svc.Create(context.Background(), testOrg, f.report.ID, testPartner, dec("2500"), "")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestCreateWithdrawalRejectsNonPositiveAmount(t *testing.T) {
	f := newWithdrawalFixture(t)

	for _, amount := range []string{"0", "-10"} {
		if _, err := f.svc.Create(context.Background(), testOrg, f.report.ID, testPartner, dec(amount), ""); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Create(%s) error = %v, want validation", amount, err)
		}
	}
}

func TestCreateWithdrawalPartnerMismatch(t *testing.T) {
	f := newWithdrawalFixture(t)
	f.invitations.invs[8] = &model.PartnerInvitation{
		ID:             8,
		OrganizationID: testOrg,
	}

	_, err := f.svc.Create(context.Background(), testOrg, f.report.ID, 8, dec("100"), "")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation for cross-partner report", err)
	}
}

func TestCreateWithdrawalNoApplicableShare(t *testing.T) {
	f := newWithdrawalFixture(t)
	stored := f.reports.reports[f.report.ID]
	stored.PartnerProfitShare = decimal.NullDecimal{}

	_, err := f.svc.Create(context.Background(), testOrg, f.report.ID, testPartner, dec("100"), "")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation when share is not applicable", err)
	}
}

func TestHappyPathToCompleted(t *testing.T) {
	f := newWithdrawalFixture(t)
	ctx := context.Background()
	req := f.createPending(t, "1500")

	approved, err := f.svc.Approve(ctx, testOrg, req.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != model.WithdrawalApproved {
		t.Errorf("Status = %s, want approved", approved.Status)
	}

	done, err := f.svc.Process(ctx, testOrg, req.ID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if done.Status != model.WithdrawalCompleted {
		t.Errorf("Status = %s, want completed", done.Status)
	}
	if done.ProcessedAt == nil {
		t.Error("ProcessedAt not set")
	}
	if done.StripeTransferID != "tr_test_1" {
		t.Errorf("StripeTransferID = %q", done.StripeTransferID)
	}
	if f.transferer.calls != 1 {
		t.Errorf("transfer called %d times, want 1", f.transferer.calls)
	}
	if len(f.notifier.events) != 2 || f.notifier.events[0] != "withdrawal_approved" || f.notifier.events[1] != "withdrawal_processed" {
		t.Errorf("events = %v", f.notifier.events)
	}
}

func TestCannotSkipStates(t *testing.T) {
	f := newWithdrawalFixture(t)
	ctx := context.Background()
	req := f.createPending(t, "1000")

	// pending → completed directly via Process is illegal.
	if _, err := f.svc.Process(ctx, testOrg, req.ID); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Errorf("Process on pending: error = %v, want invalid_transition", err)
	}
	if f.transferer.calls != 0 {
		t.Errorf("transfer called %d times from pending, want 0", f.transferer.calls)
	}
}

func TestDoubleApprove(t *testing.T) {
	f := newWithdrawalFixture(t)
	ctx := context.Background()
	req := f.createPending(t, "1000")

	if _, err := f.svc.Approve(ctx, testOrg, req.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := f.svc.Approve(ctx, testOrg, req.ID); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Errorf("second Approve: error = %v, want invalid_transition", err)
	}
}

func TestDoubleProcessTransfersOnce(t *testing.T) {
	f := newWithdrawalFixture(t)
	ctx := context.Background()
	req := f.createPending(t, "1000")

	if _, err := f.svc.Approve(ctx, testOrg, req.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := f.svc.Process(ctx, testOrg, req.ID); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := f.svc.Process(ctx, testOrg, req.ID); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Errorf("second Process: error = %v, want invalid_transition", err)
	}
	if f.transferer.calls != 1 {
		t.Errorf("transfer called %d times, want exactly 1", f.transferer.calls)
	}
}

func TestProcessDeclinedLeavesApproved(t *testing.T) {
	f := newWithdrawalFixture(t)
	ctx := context.Background()
	req := f.createPending(t, "1000")
	if _, err := f.svc.Approve(ctx, testOrg, req.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	f.transferer.err = apperr.New(apperr.KindTransferDeclined, "insufficient funds")

	_, err := f.svc.Process(ctx, testOrg, req.ID)
	if !apperr.Is(err, apperr.KindTransferDeclined) {
		t.Fatalf("error = %v, want transfer_declined", err)
	}

	cur, err := f.withdrawals.Get(ctx, testOrg, req.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cur.Status != model.WithdrawalApproved {
		t.Errorf("Status = %s after declined transfer, want approved (retryable)", cur.Status)
	}
	if cur.StripeTransferID != "" {
		t.Errorf("StripeTransferID = %q after failure, want empty", cur.StripeTransferID)
	}

	// Retry succeeds once the provider recovers.
	f.transferer.err = nil
	done, err := f.svc.Process(ctx, testOrg, req.ID)
	if err != nil {
		t.Fatalf("retry Process: %v", err)
	}
	if done.Status != model.WithdrawalCompleted {
		t.Errorf("Status = %s after retry, want completed", done.Status)
	}
}

func TestProcessUpstreamUnavailableLeavesApproved(t *testing.T) {
	f := newWithdrawalFixture(t)
	ctx := context.Background()
	req := f.createPending(t, "1000")
	if _, err := f.svc.Approve(ctx, testOrg, req.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	f.transferer.err = apperr.Wrap(apperr.KindUpstreamUnavailable, "calling transfer provider", errBoom)

	_, err := f.svc.Process(ctx, testOrg, req.ID)
	if !apperr.Is(err, apperr.KindUpstreamUnavailable) {
		t.Fatalf("error = %v, want upstream_unavailable", err)
	}
	cur, _ := f.withdrawals.Get(ctx, testOrg, req.ID)
	if cur.Status != model.WithdrawalCompleted && cur.Status != model.WithdrawalApproved {
		t.Errorf("Status = %s, must not be stuck in an intermediate state", cur.Status)
	}
	if cur.Status == model.WithdrawalCompleted {
		t.Error("request completed despite transfer failure")
	}
}

func TestRejectFromPendingAndApproved(t *testing.T) {
	f := newWithdrawalFixture(t)
	ctx := context.Background()

	// pending → rejected
	first := f.createPending(t, "500")
	rejected, err := f.svc.Reject(ctx, testOrg, first.ID, "numbers look off")
	if err != nil {
		t.Fatalf("Reject pending: %v", err)
	}
	if rejected.Status != model.WithdrawalRejected || rejected.RejectionReason != "numbers look off" {
		t.Errorf("rejected = %+v", rejected)
	}

	// approved → rejected
	second := f.createPending(t, "500")
	if _, err := f.svc.Approve(ctx, testOrg, second.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := f.svc.Reject(ctx, testOrg, second.ID, ""); err != nil {
		t.Fatalf("Reject approved: %v", err)
	}
}

func TestRejectAfterTransferIsIllegal(t *testing.T) {
	f := newWithdrawalFixture(t)
	ctx := context.Background()
	req := f.createPending(t, "1000")
	if _, err := f.svc.Approve(ctx, testOrg, req.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := f.svc.Process(ctx, testOrg, req.ID); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if _, err := f.svc.Reject(ctx, testOrg, req.ID, "too late"); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Errorf("Reject after completion: error = %v, want invalid_transition", err)
	}
}

func TestProcessWithoutPayoutDestination(t *testing.T) {
	f := newWithdrawalFixture(t)
	ctx := context.Background()
	f.invitations.invs[testPartner].PayoutAccountID = ""

	req := f.createPending(t, "1000")
	if _, err := f.svc.Approve(ctx, testOrg, req.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := f.svc.Process(ctx, testOrg, req.ID); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("error = %v, want validation for missing payout destination", err)
	}
	if f.transferer.calls != 0 {
		t.Errorf("transfer called %d times, want 0", f.transferer.calls)
	}
}

func TestApproveRevalidatesAgainstRegeneratedReport(t *testing.T) {
	f := newWithdrawalFixture(t)
	ctx := context.Background()
	req := f.createPending(t, "1800")

	// The report is regenerated and the share shrinks below the request.
	stored := f.reports.reports[f.report.ID]
	stored.PartnerProfitShare = decimal.NullDecimal{Decimal: dec("1000"), Valid: true}

	if _, err := f.svc.Approve(ctx, testOrg, req.ID); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("error = %v, want validation when share shrank", err)
	}
}

func TestOperationsAreOrganizationScoped(t *testing.T) {
	f := newWithdrawalFixture(t)
	ctx := context.Background()
	req := f.createPending(t, "500")

	otherOrg := uint(1234)
	if _, err := f.svc.Approve(ctx, otherOrg, req.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("cross-organization Approve: error = %v, want not_found", err)
	}
}
