package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
	"github.com/jorellortega/covionpartners-sub003/internal/model"
)

// reportAggregateColumns are the fields regeneration is allowed to
// touch. sent_at, created_by and report_month stay as first written.
var reportAggregateColumns = []string{
	"total_revenue",
	"total_expenses",
	"net_profit",
	"roi_percentage",
	"partner_investment_amount",
	"partner_share_percentage",
	"partner_profit_share",
	"partner_roi_percentage",
	"balance",
	"report_data",
	"updated_at",
}

// ReportStore persists financial reports. One row exists per
// (organization, partner, month, type); Upsert relies on the unique
// index so concurrent regenerations serialize in the database.
type ReportStore struct {
	db *gorm.DB
}

// NewReportStore creates a ReportStore.
func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Upsert inserts the report or, when the key already exists, updates
// only the aggregate fields in place. The returned row is re-read so
// the caller sees the stored identity (id, created_by, sent_at) rather
// than the incoming computation.
func (s *ReportStore) Upsert(ctx context.Context, rep *model.FinancialReport) (*model.FinancialReport, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "organization_id"},
				{Name: "partner_invitation_id"},
				{Name: "report_month"},
				{Name: "report_type"},
			},
			DoUpdates: clause.AssignmentColumns(reportAggregateColumns),
		}).
		Create(rep).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "upserting financial report", err)
	}

	var stored model.FinancialReport
	err = s.db.WithContext(ctx).
		Where("organization_id = ? AND partner_invitation_id = ? AND report_month = ? AND report_type = ?",
			rep.OrganizationID, rep.PartnerInvitationID, rep.ReportMonth, rep.ReportType).
		First(&stored).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "reading back financial report", err)
	}
	return &stored, nil
}

// Get returns a report by id, scoped to the organization.
func (s *ReportStore) Get(ctx context.Context, organizationID, id uint) (*model.FinancialReport, error) {
	var rep model.FinancialReport
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Newf(apperr.KindNotFound, "financial report %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "loading financial report", err)
	}
	return &rep, nil
}

// List returns the organization's reports, newest month first,
// optionally filtered to one partner invitation.
func (s *ReportStore) List(ctx context.Context, organizationID, partnerInvitationID uint) ([]model.FinancialReport, error) {
	q := s.db.WithContext(ctx).Where("organization_id = ?", organizationID)
	if partnerInvitationID != 0 {
		q = q.Where("partner_invitation_id = ?", partnerInvitationID)
	}
	var reps []model.FinancialReport
	if err := q.Order("report_month DESC").Find(&reps).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "listing financial reports", err)
	}
	return reps, nil
}

// MarkSent sets sent_at exactly once. A second call is a no-op that
// still returns the current row: the first send timestamp wins.
func (s *ReportStore) MarkSent(ctx context.Context, organizationID, id uint, at time.Time) (*model.FinancialReport, error) {
	res := s.db.WithContext(ctx).
		Model(&model.FinancialReport{}).
		Where("id = ? AND organization_id = ? AND sent_at IS NULL", id, organizationID).
		Update("sent_at", at)
	if res.Error != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "marking report sent", res.Error)
	}
	return s.Get(ctx, organizationID, id)
}
