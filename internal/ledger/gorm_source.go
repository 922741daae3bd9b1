package ledger

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jorellortega/covionpartners-sub003/internal/model"
)

// GormSource reads the ledger record tables through GORM. It satisfies
// Source and performs no writes.
type GormSource struct {
	db *gorm.DB
}

// NewGormSource creates a GormSource over the given database handle.
func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

func (s *GormSource) ListProjectIDs(ctx context.Context, organizationID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("organization_id = ?", organizationID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *GormSource) ListTransactions(ctx context.Context, projectIDs []uint, status string, from, to time.Time) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := s.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Where("status = ?", status).
		Where("amount > 0").
		Where("created_at >= ? AND created_at < ?", from, to).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *GormSource) ListManualRevenue(ctx context.Context, organizationID uint, from, to time.Time) ([]model.RevenueRecord, error) {
	var recs []model.RevenueRecord
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Where("created_at >= ? AND created_at < ?", from, to).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *GormSource) ListExpenses(ctx context.Context, organizationID uint, statuses []string, from, to time.Time) ([]model.Expense, error) {
	var exps []model.Expense
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Where("status IN ?", statuses).
		Where("created_at >= ? AND created_at < ?", from, to).
		Find(&exps).Error
	if err != nil {
		return nil, err
	}
	return exps, nil
}
