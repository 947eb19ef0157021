package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ravstays/rav-backend/internal/models"
	"github.com/ravstays/rav-backend/internal/services"
)

type DisputeRefundInput struct {
	RefundAmount    *float64 `json:"refundAmount" binding:"required"`
	Status          string   `json:"status" binding:"required"`
	ResolutionNotes string   `json:"resolutionNotes"`
}

// ProcessDisputeRefund resolves a dispute with an admin-adjudicated refund.
func ProcessDisputeRefund(disputes *services.DisputeService, limiter *services.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !checkRateLimit(c, limiter, services.RateLimitDisputeRefund) {
			return
		}

		disputeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid dispute id"})
			return
		}

		var input DisputeRefundInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Refund amount and status are required (use 0 for no refund)"})
			return
		}

		result, err := disputes.Resolve(c.Request.Context(), services.DisputeInput{
			AdminID:      c.GetUint("userId"),
			DisputeID:    uint(disputeID),
			RefundAmount: *input.RefundAmount,
			Status:       models.DisputeStatus(input.Status),
			Notes:        input.ResolutionNotes,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrDisputeNotFound), errors.Is(err, services.ErrBookingNotFound):
				c.JSON(404, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrPaymentProvider):
				c.JSON(502, gin.H{"error": err.Error()})
			default:
				c.JSON(500, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(200, gin.H{
			"success":         true,
			"disputeId":       result.DisputeID,
			"status":          result.Status,
			"refundAmount":    result.RefundAmount,
			"refundReference": result.RefundReference,
		})
	}
}
