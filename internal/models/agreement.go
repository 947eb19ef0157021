package models

import (
	"time"

	"gorm.io/gorm"
)

type AgreementStatus string

const (
	AgreementStatusPending    AgreementStatus = "pending"
	AgreementStatusActive     AgreementStatus = "active"
	AgreementStatusSuspended  AgreementStatus = "suspended"
	AgreementStatusTerminated AgreementStatus = "terminated"
)

// OwnerAgreement is a negotiated per-owner commission rate that overrides the
// platform base rate while active.
type OwnerAgreement struct {
	gorm.Model
	OwnerID        uint            `json:"ownerId" gorm:"not null;index"`
	CommissionRate float64         `json:"commissionRate" gorm:"not null"`
	Status         AgreementStatus `json:"status" gorm:"not null;default:'pending'"`
	EffectiveDate  time.Time       `json:"effectiveDate" gorm:"not null"`
}

// TableName specifies the table name
func (OwnerAgreement) TableName() string {
	return "owner_agreements"
}

// MembershipTier carries the commission discount applied against the platform
// base rate for owners without a negotiated agreement.
type MembershipTier struct {
	gorm.Model
	Name                  string  `json:"name" gorm:"not null;unique"`
	CommissionDiscountPct float64 `json:"commissionDiscountPct" gorm:"not null;default:0"`
}

// TableName specifies the table name
func (MembershipTier) TableName() string {
	return "membership_tiers"
}

type MembershipStatus string

const (
	MembershipStatusActive  MembershipStatus = "active"
	MembershipStatusExpired MembershipStatus = "expired"
	MembershipStatusRevoked MembershipStatus = "revoked"
)

// UserMembership links an owner to a membership tier.
type UserMembership struct {
	gorm.Model
	UserID uint             `json:"userId" gorm:"not null;index"`
	TierID uint             `json:"tierId" gorm:"not null"`
	Tier   *MembershipTier  `json:"tier,omitempty" gorm:"foreignKey:TierID"`
	Status MembershipStatus `json:"status" gorm:"not null;default:'active'"`
}

// TableName specifies the table name
func (UserMembership) TableName() string {
	return "user_memberships"
}
