package models

import (
	"time"

	"gorm.io/gorm"
)

type ListingStatus string

const (
	ListingStatusDraft           ListingStatus = "draft"
	ListingStatusPendingApproval ListingStatus = "pending_approval"
	ListingStatusActive          ListingStatus = "active"
	ListingStatusBooked          ListingStatus = "booked"
	ListingStatusCompleted       ListingStatus = "completed"
	ListingStatusCancelled       ListingStatus = "cancelled"
)

type CancellationPolicy string

const (
	PolicyFlexible    CancellationPolicy = "flexible"
	PolicyModerate    CancellationPolicy = "moderate"
	PolicyStrict      CancellationPolicy = "strict"
	PolicySuperStrict CancellationPolicy = "super_strict"
)

// Listing is a bookable stay. Check-in/out dates are fixed per listing version
// and must not change once a booking references it.
type Listing struct {
	gorm.Model
	OwnerID            uint               `json:"ownerId" gorm:"not null;index"`
	Owner              *User              `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Title              string             `json:"title" gorm:"not null"`
	Location           string             `json:"location"`
	NightlyRate        float64            `json:"nightlyRate" gorm:"not null"`
	CleaningFee        float64            `json:"cleaningFee" gorm:"not null;default:0"`
	CheckInDate        time.Time          `json:"checkInDate" gorm:"not null"`
	CheckOutDate       time.Time          `json:"checkOutDate" gorm:"not null"`
	CancellationPolicy CancellationPolicy `json:"cancellationPolicy" gorm:"not null;default:'moderate'"`
	Status             ListingStatus      `json:"status" gorm:"not null;default:'draft'"`
}

// TableName specifies the table name
func (Listing) TableName() string {
	return "listings"
}
