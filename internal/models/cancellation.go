package models

import (
	"time"

	"gorm.io/gorm"
)

// CancellationRequest is an append-only audit record, one per cancellation
// attempt whether or not the provider refund succeeded.
type CancellationRequest struct {
	gorm.Model
	BookingID             uint       `json:"bookingId" gorm:"not null;index"`
	RequesterID           uint       `json:"requesterId" gorm:"not null"`
	Status                string     `json:"status" gorm:"not null;default:'completed'"`
	Reason                string     `json:"reason" gorm:"not null"`
	CancelledBy           string     `json:"cancelledBy" gorm:"not null"`
	RequestedRefundAmount float64    `json:"requestedRefundAmount" gorm:"not null"`
	PolicyRefundAmount    float64    `json:"policyRefundAmount" gorm:"not null"`
	DaysUntilCheckin      int        `json:"daysUntilCheckin" gorm:"not null"`
	FinalRefundAmount     float64    `json:"finalRefundAmount" gorm:"not null"`
	RefundReference       *string    `json:"refundReference"`
	RefundProcessedAt     *time.Time `json:"refundProcessedAt"`
}

// TableName specifies the table name
func (CancellationRequest) TableName() string {
	return "cancellation_requests"
}

type EscrowStatus string

const (
	EscrowStatusHeld     EscrowStatus = "held"
	EscrowStatusRefunded EscrowStatus = "refunded"
	EscrowStatusReleased EscrowStatus = "released"
)

// BookingConfirmation tracks the escrow held for a confirmed booking,
// one-to-one with the booking.
type BookingConfirmation struct {
	gorm.Model
	BookingID        uint         `json:"bookingId" gorm:"not null;uniqueIndex"`
	EscrowStatus     EscrowStatus `json:"escrowStatus" gorm:"not null;default:'held'"`
	EscrowRefundedAt *time.Time   `json:"escrowRefundedAt"`
	EscrowReleasedAt *time.Time   `json:"escrowReleasedAt"`
}

// TableName specifies the table name
func (BookingConfirmation) TableName() string {
	return "booking_confirmations"
}

// OwnerVerification carries the owner's lifetime cancellation counter used by
// trust scoring.
type OwnerVerification struct {
	gorm.Model
	OwnerID           uint `json:"ownerId" gorm:"not null;uniqueIndex"`
	CancellationCount int  `json:"cancellationCount" gorm:"not null;default:0"`
}

// TableName specifies the table name
func (OwnerVerification) TableName() string {
	return "owner_verifications"
}
