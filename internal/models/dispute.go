package models

import (
	"time"

	"gorm.io/gorm"
)

type DisputeStatus string

const (
	DisputeStatusOpen             DisputeStatus = "open"
	DisputeStatusUnderReview      DisputeStatus = "under_review"
	DisputeStatusResolvedRefunded DisputeStatus = "resolved_refunded"
	DisputeStatusResolvedDenied   DisputeStatus = "resolved_denied"
)

// Dispute is an admin-mediated disagreement over a booking.
type Dispute struct {
	gorm.Model
	BookingID       uint          `json:"bookingId" gorm:"not null;index"`
	Booking         *Booking      `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	RaisedByID      uint          `json:"raisedById" gorm:"not null"`
	Status          DisputeStatus `json:"status" gorm:"not null;default:'open'"`
	Subject         string        `json:"subject"`
	ResolutionNotes string        `json:"resolutionNotes"`
	ResolvedByID    *uint         `json:"resolvedById"`
	ResolvedAt      *time.Time    `json:"resolvedAt"`
	RefundAmount    float64       `json:"refundAmount" gorm:"not null;default:0"`
	RefundReference *string       `json:"refundReference"`
}

// TableName specifies the table name
func (Dispute) TableName() string {
	return "disputes"
}

// DisputeMessage is one entry in a dispute's message thread.
type DisputeMessage struct {
	gorm.Model
	DisputeID  uint   `json:"disputeId" gorm:"not null;index"`
	SenderID   uint   `json:"senderId" gorm:"not null"`
	Message    string `json:"message" gorm:"not null"`
	IsInternal bool   `json:"isInternal" gorm:"not null;default:false"`
}

// TableName specifies the table name
func (DisputeMessage) TableName() string {
	return "dispute_messages"
}
