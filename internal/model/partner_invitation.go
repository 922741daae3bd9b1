package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartnerInvitation represents one partner relationship within an
// organization: the capital the partner contributed and the fraction of
// net profit owed to them. Created and accepted elsewhere in the
// platform; read-only here.
type PartnerInvitation struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	OrganizationID uint   `json:"organization_id" gorm:"index;not null"`
	Email          string `json:"email" gorm:"type:varchar(255);not null"`
	// PartnerUserID is set once the invitation is accepted and links the
	// partner to a platform user account. Nil means no linked account yet;
	// notifications are simply skipped in that case.
	PartnerUserID    *uint           `json:"partner_user_id,omitempty" gorm:"index"`
	Status           string          `json:"status" gorm:"type:varchar(20);default:pending"`
	InvestmentAmount decimal.Decimal `json:"investment_amount" gorm:"type:numeric(20,4);default:0"`
	SharePercentage  decimal.Decimal `json:"share_percentage" gorm:"type:numeric(7,4);default:0"`
	// PayoutAccountID is the partner's connected account at the payment
	// provider, the destination for withdrawal transfers.
	PayoutAccountID string    `json:"payout_account_id,omitempty" gorm:"type:varchar(255)"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Terms are the two numbers the aggregator needs from an invitation.
type Terms struct {
	InvestmentAmount decimal.Decimal
	SharePercentage  decimal.Decimal
}

// Terms extracts the partner's investment terms.
func (p *PartnerInvitation) Terms() Terms {
	return Terms{
		InvestmentAmount: p.InvestmentAmount,
		SharePercentage:  p.SharePercentage,
	}
}
