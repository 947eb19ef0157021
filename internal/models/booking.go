package models

import (
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is the central settlement record. Status only moves forward:
// pending -> confirmed -> completed | cancelled.
type Booking struct {
	gorm.Model
	ListingID       uint          `json:"listingId" gorm:"not null;index"`
	Listing         *Listing      `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	RenterID        uint          `json:"renterId" gorm:"not null;index"`
	Renter          *User         `json:"renter,omitempty" gorm:"foreignKey:RenterID"`
	Status          BookingStatus `json:"status" gorm:"not null;default:'pending'"`
	BaseAmount      float64       `json:"baseAmount" gorm:"not null"`
	ServiceFee      float64       `json:"serviceFee" gorm:"not null"`
	CleaningFee     float64       `json:"cleaningFee" gorm:"not null;default:0"`
	TotalAmount     float64       `json:"totalAmount" gorm:"not null"`
	RavCommission   float64       `json:"ravCommission" gorm:"not null"`
	OwnerPayout     float64       `json:"ownerPayout" gorm:"not null"`
	PaymentIntentID string        `json:"paymentIntentId" gorm:"column:payment_intent_id"`
	GuestCount      int           `json:"guestCount" gorm:"not null;default:1"`
	SpecialRequests string        `json:"specialRequests,omitempty"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}
