package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ravstays/rav-backend/internal/models"
	"github.com/ravstays/rav-backend/internal/services"
	"github.com/ravstays/rav-backend/pkg/utils"
	"gorm.io/gorm"
)

type CancellationInput struct {
	Reason      string `json:"reason" binding:"required"`
	CancelledBy string `json:"cancelledBy" binding:"required,oneof=renter owner"`
}

// ProcessCancellation cancels a confirmed booking and settles the refund.
func ProcessCancellation(refunds *services.RefundService, limiter *services.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !checkRateLimit(c, limiter, services.RateLimitCancellation) {
			return
		}

		bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		var input CancellationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		result, err := refunds.Cancel(c.Request.Context(), services.CancellationInput{
			UserID:      c.GetUint("userId"),
			BookingID:   uint(bookingID),
			Reason:      input.Reason,
			CancelledBy: input.CancelledBy,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrBookingNotFound), errors.Is(err, services.ErrListingNotFound):
				c.JSON(404, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrNotCancellable):
				c.JSON(400, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrUnauthorized):
				c.JSON(403, gin.H{"error": err.Error()})
			default:
				c.JSON(500, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(200, gin.H{
			"success":            true,
			"refund_amount":      result.RefundAmount,
			"refund_reference":   result.RefundReference,
			"policy":             result.Policy,
			"days_until_checkin": result.DaysUntilCheckin,
			"cancelled_by":       result.CancelledBy,
		})
	}
}

// GetRefundPreview describes the refund the renter would receive if they
// cancelled the booking right now.
func GetRefundPreview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var booking models.Booking
		if err := db.Preload("Listing").First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}
		if booking.RenterID != userId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}
		if booking.Listing == nil {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}

		policy := booking.Listing.CancellationPolicy
		if policy == "" {
			policy = models.PolicyModerate
		}
		days := utils.DaysUntilCheckin(booking.Listing.CheckInDate, time.Now())
		description := utils.DescribeRefund(policy, days)

		c.JSON(200, gin.H{
			"policy":             policy,
			"days_until_checkin": days,
			"percentage":         description.Percentage,
			"description":        description.Description,
			"refund_amount":      utils.PolicyRefundAmount(booking.TotalAmount, policy, days),
		})
	}
}
