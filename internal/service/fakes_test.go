package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
	"github.com/jorellortega/covionpartners-sub003/internal/ledger"
	"github.com/jorellortega/covionpartners-sub003/internal/model"
)

// In-memory test doubles for the service ports. They mirror the store
// semantics the real implementations get from Postgres: upsert keyed on
// the report uniqueness tuple, first-send-wins, CAS transitions.

type memReportStore struct {
	nextID  uint
	reports map[uint]*model.FinancialReport
}

func newMemReportStore() *memReportStore {
	return &memReportStore{reports: map[uint]*model.FinancialReport{}}
}

func (s *memReportStore) findByKey(rep *model.FinancialReport) *model.FinancialReport {
	for _, existing := range s.reports {
		if existing.OrganizationID == rep.OrganizationID &&
			existing.PartnerInvitationID == rep.PartnerInvitationID &&
			existing.ReportMonth.Equal(rep.ReportMonth) &&
			existing.ReportType == rep.ReportType {
			return existing
		}
	}
	return nil
}

func (s *memReportStore) Upsert(ctx context.Context, rep *model.FinancialReport) (*model.FinancialReport, error) {
	if existing := s.findByKey(rep); existing != nil {
		existing.TotalRevenue = rep.TotalRevenue
		existing.TotalExpenses = rep.TotalExpenses
		existing.NetProfit = rep.NetProfit
		existing.ROIPercentage = rep.ROIPercentage
		existing.PartnerInvestmentAmount = rep.PartnerInvestmentAmount
		existing.PartnerSharePercentage = rep.PartnerSharePercentage
		existing.PartnerProfitShare = rep.PartnerProfitShare
		existing.PartnerROIPercentage = rep.PartnerROIPercentage
		existing.Balance = rep.Balance
		existing.ReportData = rep.ReportData
		existing.UpdatedAt = time.Now()
		out := *existing
		return &out, nil
	}
	s.nextID++
	stored := *rep
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.reports[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (s *memReportStore) Get(ctx context.Context, organizationID, id uint) (*model.FinancialReport, error) {
	rep, ok := s.reports[id]
	if !ok || rep.OrganizationID != organizationID {
		return nil, apperr.Newf(apperr.KindNotFound, "financial report %d not found", id)
	}
	out := *rep
	return &out, nil
}

func (s *memReportStore) List(ctx context.Context, organizationID, partnerInvitationID uint) ([]model.FinancialReport, error) {
	var out []model.FinancialReport
	for _, rep := range s.reports {
		if rep.OrganizationID != organizationID {
			continue
		}
		if partnerInvitationID != 0 && rep.PartnerInvitationID != partnerInvitationID {
			continue
		}
		out = append(out, *rep)
	}
	return out, nil
}

func (s *memReportStore) MarkSent(ctx context.Context, organizationID, id uint, at time.Time) (*model.FinancialReport, error) {
	rep, ok := s.reports[id]
	if !ok || rep.OrganizationID != organizationID {
		return nil, apperr.Newf(apperr.KindNotFound, "financial report %d not found", id)
	}
	if rep.SentAt == nil {
		sent := at
		rep.SentAt = &sent
	}
	out := *rep
	return &out, nil
}

type memWithdrawalStore struct {
	nextID uint
	reqs   map[uint]*model.WithdrawalRequest
}

func newMemWithdrawalStore() *memWithdrawalStore {
	return &memWithdrawalStore{reqs: map[uint]*model.WithdrawalRequest{}}
}

func (s *memWithdrawalStore) Create(ctx context.Context, req *model.WithdrawalRequest) error {
	s.nextID++
	req.ID = s.nextID
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	stored := *req
	s.reqs[req.ID] = &stored
	return nil
}

func (s *memWithdrawalStore) Get(ctx context.Context, organizationID, id uint) (*model.WithdrawalRequest, error) {
	req, ok := s.reqs[id]
	if !ok || req.OrganizationID != organizationID {
		return nil, apperr.Newf(apperr.KindNotFound, "withdrawal request %d not found", id)
	}
	out := *req
	return &out, nil
}

func (s *memWithdrawalStore) List(ctx context.Context, organizationID, partnerInvitationID uint) ([]model.WithdrawalRequest, error) {
	var out []model.WithdrawalRequest
	for _, req := range s.reqs {
		if req.OrganizationID != organizationID {
			continue
		}
		if partnerInvitationID != 0 && req.PartnerInvitationID != partnerInvitationID {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (s *memWithdrawalStore) Transition(ctx context.Context, id uint, from, to model.WithdrawalStatus, updates map[string]interface{}) (bool, error) {
	req, ok := s.reqs[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	req.UpdatedAt = time.Now()
	for k, v := range updates {
		switch k {
		case "rejection_reason":
			req.RejectionReason = v.(string)
		case "processed_at":
			at := v.(time.Time)
			req.ProcessedAt = &at
		case "stripe_transfer_id":
			req.StripeTransferID = v.(string)
		}
	}
	return true, nil
}

type memInvitationStore struct {
	invs map[uint]*model.PartnerInvitation
}

func (s *memInvitationStore) Get(ctx context.Context, organizationID, id uint) (*model.PartnerInvitation, error) {
	inv, ok := s.invs[id]
	if !ok || inv.OrganizationID != organizationID {
		return nil, apperr.Newf(apperr.KindNotFound, "partner invitation %d not found", id)
	}
	out := *inv
	return &out, nil
}

type fakeLedger struct {
	entries []ledger.Entry
	err     error
	reads   int
}

func (f *fakeLedger) Read(ctx context.Context, organizationID uint, month ledger.Month) ([]ledger.Entry, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

// countingTransferer counts provider calls; the double-transfer tests
// hinge on this counter.
type countingTransferer struct {
	calls      int
	transferID string
	err        error
}

func (t *countingTransferer) Transfer(ctx context.Context, destinationAccountID string, amount decimal.Decimal) (string, error) {
	t.calls++
	if t.err != nil {
		return "", t.err
	}
	if t.transferID == "" {
		return "tr_test_1", nil
	}
	return t.transferID, nil
}

type recordingNotifier struct {
	events []string
	err    error
}

func (n *recordingNotifier) Notify(ctx context.Context, userID uint, eventType string, payload map[string]interface{}) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, eventType)
	return nil
}

var errBoom = errors.New("boom")

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func uintPtr(v uint) *uint { return &v }
