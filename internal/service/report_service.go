package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
	"github.com/jorellortega/covionpartners-sub003/internal/ledger"
	"github.com/jorellortega/covionpartners-sub003/internal/model"
	"github.com/jorellortega/covionpartners-sub003/internal/report"
	"github.com/jorellortega/covionpartners-sub003/pkg/logger"
)

// ReportService generates, sends and lists monthly partner financial
// reports. Generation is deterministic over the ledger state at read
// time, so regenerating a month is a safe idempotent upsert.
type ReportService struct {
	reader      LedgerReader
	reports     ReportStore
	invitations InvitationStore
	notifier    Notifier
	now         func() time.Time
}

// NewReportService wires a ReportService.
func NewReportService(reader LedgerReader, reports ReportStore, invitations InvitationStore, notifier Notifier) *ReportService {
	return &ReportService{
		reader:      reader,
		reports:     reports,
		invitations: invitations,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Generate reads the month's ledger, aggregates it against the
// partner's investment terms and upserts the canonical report row.
// Either all three record sources are read successfully or the whole
// call fails; a failed read never becomes a zero total.
func (s *ReportService) Generate(ctx context.Context, organizationID, partnerInvitationID uint, month ledger.Month, actorID uint) (*model.FinancialReport, error) {
	log := logger.FromContext(ctx)

	inv, err := s.invitations.Get(ctx, organizationID, partnerInvitationID)
	if err != nil {
		return nil, err
	}

	entries, err := s.reader.Read(ctx, organizationID, month)
	if err != nil {
		return nil, err
	}

	comp := report.Aggregate(entries, inv.Terms())
	data, err := comp.ReportData()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "encoding report breakdown", err)
	}

	rep := &model.FinancialReport{
		OrganizationID:          organizationID,
		PartnerInvitationID:     partnerInvitationID,
		ReportMonth:             month.Start(),
		ReportType:              model.ReportTypeMonthly,
		TotalRevenue:            comp.TotalRevenue,
		TotalExpenses:           comp.TotalExpenses,
		NetProfit:               comp.NetProfit,
		ROIPercentage:           comp.ROIPercentage,
		PartnerInvestmentAmount: comp.PartnerInvestmentAmount,
		PartnerSharePercentage:  comp.PartnerSharePercentage,
		PartnerProfitShare:      comp.PartnerProfitShare,
		PartnerROIPercentage:    comp.PartnerROIPercentage,
		Balance:                 comp.WithdrawableBalance(),
		ReportData:              data,
		CreatedBy:               actorID,
	}

	stored, err := s.reports.Upsert(ctx, rep)
	if err != nil {
		return nil, err
	}

	log.Info("Financial report generated",
		zap.Uint("report_id", stored.ID),
		zap.Uint("organization_id", organizationID),
		zap.Uint("partner_invitation_id", partnerInvitationID),
		zap.String("month", month.String()),
		zap.String("net_profit", stored.NetProfit.String()))

	return stored, nil
}

// Send marks the report as transmitted to the partner and notifies the
// partner's linked user account if one exists. The first send timestamp
// wins; re-sending re-notifies but never rewrites sent_at.
func (s *ReportService) Send(ctx context.Context, organizationID, reportID uint) (*model.FinancialReport, error) {
	log := logger.FromContext(ctx)

	rep, err := s.reports.MarkSent(ctx, organizationID, reportID, s.now())
	if err != nil {
		return nil, err
	}

	inv, err := s.invitations.Get(ctx, organizationID, rep.PartnerInvitationID)
	if err != nil {
		return nil, err
	}

	// A partner without a linked account simply is not notified.
	if inv.PartnerUserID != nil {
		payload := map[string]interface{}{
			"report_id":    rep.ID,
			"report_month": ledger.MonthOf(rep.ReportMonth).String(),
			"net_profit":   rep.NetProfit.String(),
		}
		if err := s.notifier.Notify(ctx, *inv.PartnerUserID, "financial_report_sent", payload); err != nil {
			log.Warn("Failed to notify partner of sent report",
				zap.Uint("report_id", rep.ID),
				zap.Uint("user_id", *inv.PartnerUserID),
				zap.Error(err))
		}
	}

	return rep, nil
}

// List returns the organization's reports, optionally filtered to one
// partner invitation (0 means all partners).
func (s *ReportService) List(ctx context.Context, organizationID, partnerInvitationID uint) ([]model.FinancialReport, error) {
	return s.reports.List(ctx, organizationID, partnerInvitationID)
}
