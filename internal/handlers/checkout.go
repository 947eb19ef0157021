package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ravstays/rav-backend/internal/config"
	"github.com/ravstays/rav-backend/internal/services"
	"gorm.io/gorm"
)

type CheckoutInput struct {
	ListingID       uint   `json:"listingId" binding:"required"`
	GuestCount      int    `json:"guestCount"`
	SpecialRequests string `json:"specialRequests"`
}

// CreateCheckout opens a payment session for a listing and creates the
// pending booking behind it.
func CreateCheckout(db *gorm.DB, checkout *services.CheckoutService, limiter *services.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !checkRateLimit(c, limiter, services.RateLimitCheckout) {
			return
		}

		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		settings := config.LoadSettings(db)
		result, err := checkout.CreateCheckout(c.Request.Context(), services.CheckoutInput{
			UserID:          c.GetUint("userId"),
			UserEmail:       c.GetString("userEmail"),
			ListingID:       input.ListingID,
			GuestCount:      input.GuestCount,
			SpecialRequests: input.SpecialRequests,
		}, settings)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrListingNotFound):
				c.JSON(404, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrPaymentProvider):
				c.JSON(502, gin.H{"error": "Payment provider unavailable, please retry checkout"})
			default:
				c.JSON(500, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(200, gin.H{
			"url":        result.SessionURL,
			"booking_id": result.BookingID,
			"session_id": result.SessionID,
		})
	}
}
