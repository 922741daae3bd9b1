package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
	"github.com/jorellortega/covionpartners-sub003/internal/model"
)

// WithdrawalStore persists withdrawal requests. Status changes go
// through Transition, a conditional write guarded on the expected
// source status, so two concurrent calls cannot both win.
type WithdrawalStore struct {
	db *gorm.DB
}

// NewWithdrawalStore creates a WithdrawalStore.
func NewWithdrawalStore(db *gorm.DB) *WithdrawalStore {
	return &WithdrawalStore{db: db}
}

// Create inserts a new request.
func (s *WithdrawalStore) Create(ctx context.Context, req *model.WithdrawalRequest) error {
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "creating withdrawal request", err)
	}
	return nil
}

// Get returns a request by id, scoped to the organization.
func (s *WithdrawalStore) Get(ctx context.Context, organizationID, id uint) (*model.WithdrawalRequest, error) {
	var req model.WithdrawalRequest
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Newf(apperr.KindNotFound, "withdrawal request %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "loading withdrawal request", err)
	}
	return &req, nil
}

// List returns the organization's requests, newest first, optionally
// filtered to one partner invitation.
func (s *WithdrawalStore) List(ctx context.Context, organizationID, partnerInvitationID uint) ([]model.WithdrawalRequest, error) {
	q := s.db.WithContext(ctx).Where("organization_id = ?", organizationID)
	if partnerInvitationID != 0 {
		q = q.Where("partner_invitation_id = ?", partnerInvitationID)
	}
	var reqs []model.WithdrawalRequest
	if err := q.Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "listing withdrawal requests", err)
	}
	return reqs, nil
}

// Transition moves a request from one status to another with an atomic
// compare-and-swap: the UPDATE only matches while the row is still in
// the expected source status. It returns false when the row was not in
// that status (someone else transitioned it first, or it never was).
// Extra column updates ride along with the status change.
func (s *WithdrawalStore) Transition(ctx context.Context, id uint, from, to model.WithdrawalStatus, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{"status": to}
	for k, v := range updates {
		values[k] = v
	}
	res := s.db.WithContext(ctx).
		Model(&model.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if res.Error != nil {
		return false, apperr.Wrap(apperr.KindInternal, "transitioning withdrawal request", res.Error)
	}
	return res.RowsAffected == 1, nil
}
