package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
	"github.com/jorellortega/covionpartners-sub003/internal/model"
)

// InvitationStore reads partner invitations. The engine never writes
// them; invitations are created and accepted elsewhere in the platform.
type InvitationStore struct {
	db *gorm.DB
}

// NewInvitationStore creates an InvitationStore.
func NewInvitationStore(db *gorm.DB) *InvitationStore {
	return &InvitationStore{db: db}
}

// Get returns an invitation by id, scoped to the organization.
func (s *InvitationStore) Get(ctx context.Context, organizationID, id uint) (*model.PartnerInvitation, error) {
	var inv model.PartnerInvitation
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Newf(apperr.KindNotFound, "partner invitation %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "loading partner invitation", err)
	}
	return &inv, nil
}
