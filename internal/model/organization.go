package model

import (
	"time"
)

// Organization is the tenant boundary. It is owned by the rest of the
// platform; this service only reads it.
type Organization struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	OwnerID   uint      `json:"owner_id" gorm:"index;not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project belongs to an organization. Completed transactions hang off
// projects, which is why the ledger reader resolves project ids first.
type Project struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organization_id" gorm:"index;not null"`
	Name           string    `json:"name" gorm:"type:varchar(100);not null"`
	Status         string    `json:"status" gorm:"type:varchar(30)"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
