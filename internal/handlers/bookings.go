package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/ravstays/rav-backend/internal/models"
	"gorm.io/gorm"
)

// GetBooking retrieves detailed booking information for the renter or the
// listing owner.
func GetBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")
		userId := c.GetUint("userId")

		var booking models.Booking
		if err := db.Preload("Listing").
			Preload("Renter").
			First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if booking.RenterID != userId && (booking.Listing == nil || booking.Listing.OwnerID != userId) {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		response := gin.H{
			"id":              booking.ID,
			"status":          booking.Status,
			"baseAmount":      booking.BaseAmount,
			"serviceFee":      booking.ServiceFee,
			"cleaningFee":     booking.CleaningFee,
			"totalAmount":     booking.TotalAmount,
			"ownerPayout":     booking.OwnerPayout,
			"guestCount":      booking.GuestCount,
			"paymentIntentId": booking.PaymentIntentID,
		}

		if booking.Listing != nil {
			response["listing"] = gin.H{
				"id":                 booking.Listing.ID,
				"title":              booking.Listing.Title,
				"location":           booking.Listing.Location,
				"checkInDate":        booking.Listing.CheckInDate,
				"checkOutDate":       booking.Listing.CheckOutDate,
				"cancellationPolicy": booking.Listing.CancellationPolicy,
			}
		}

		c.JSON(200, response)
	}
}

// GetRenterBookings retrieves all bookings made by the caller
func GetRenterBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Where("renter_id = ?", userId).
			Preload("Listing").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetOwnerBookings retrieves all bookings on the caller's listings
func GetOwnerBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Joins("Listing").
			Where("\"Listing\".owner_id = ?", userId).
			Preload("Renter").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}
