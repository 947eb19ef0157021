package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/ravstays/rav-backend/internal/models"
)

// DisputeInput is an adjudicated resolution supplied by an admin. The refund
// amount is whatever the admin decided, not a policy computation, and may be
// zero.
type DisputeInput struct {
	AdminID      uint
	DisputeID    uint
	RefundAmount float64
	Status       models.DisputeStatus
	Notes        string
}

// DisputeResult reports the provider refund reference, if one was issued.
type DisputeResult struct {
	DisputeID       uint                 `json:"disputeId"`
	Status          models.DisputeStatus `json:"status"`
	RefundAmount    float64              `json:"refundAmount"`
	RefundReference *string              `json:"refundReference"`
}

// DisputeService resolves disputes. Unlike cancellation, a failed provider
// refund aborts the resolution: this is a one-shot admin action, not a
// user-facing flow that must always complete.
type DisputeService struct {
	Disputes DisputeStore
	Bookings BookingStore
	Escrow   EscrowStore
	Payments PaymentProvider
}

func (s *DisputeService) Resolve(ctx context.Context, in DisputeInput) (*DisputeResult, error) {
	if in.RefundAmount < 0 {
		return nil, fmt.Errorf("refund amount cannot be negative")
	}
	if in.Status == "" {
		return nil, fmt.Errorf("resolution status is required")
	}

	dispute, err := s.Disputes.FindWithBooking(ctx, in.DisputeID)
	if err != nil {
		return nil, err
	}
	booking := dispute.Booking
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	var refundReference *string
	if in.RefundAmount > 0 && booking.PaymentIntentID != "" {
		refundID, err := s.Payments.CreateRefund(ctx, RefundRequest{
			PaymentReference: booking.PaymentIntentID,
			AmountCents:      int64(math.Round(in.RefundAmount * 100)),
			Metadata: map[string]string{
				"dispute_id":  fmt.Sprintf("%d", in.DisputeID),
				"resolved_by": fmt.Sprintf("%d", in.AdminID),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
		}
		refundReference = &refundID
	} else if in.RefundAmount > 0 {
		log.Printf("[DISPUTE-REFUND] No payment reference on booking %d, refund recorded without provider processing", booking.ID)
	}

	steps := []flowStep{
		{name: "resolve-dispute", kind: stepCommit, run: func() error {
			return s.Disputes.Resolve(ctx, in.DisputeID, in.AdminID, in.Status, in.Notes, in.RefundAmount, refundReference)
		}},
	}
	if in.RefundAmount > 0 {
		steps = append(steps, flowStep{name: "escrow-refund", kind: stepBestEffort, run: func() error {
			return s.Escrow.MarkRefunded(ctx, booking.ID)
		}})
		if in.RefundAmount >= booking.TotalAmount {
			steps = append(steps, flowStep{name: "cancel-booking", kind: stepBestEffort, run: func() error {
				return s.Bookings.MarkCancelled(ctx, booking.ID)
			}})
		}
	}
	steps = append(steps, flowStep{name: "resolution-message", kind: stepBestEffort, run: func() error {
		return s.Disputes.AddMessage(ctx, &models.DisputeMessage{
			DisputeID: in.DisputeID,
			SenderID:  in.AdminID,
			Message:   resolutionMessage(in.Status, in.RefundAmount, in.Notes),
		})
	}})

	if _, err := runSteps("DISPUTE-REFUND", steps); err != nil {
		return nil, fmt.Errorf("failed to update dispute: %w", err)
	}

	return &DisputeResult{
		DisputeID:       in.DisputeID,
		Status:          in.Status,
		RefundAmount:    in.RefundAmount,
		RefundReference: refundReference,
	}, nil
}

func resolutionMessage(status models.DisputeStatus, refundAmount float64, notes string) string {
	refundPart := "No refund issued."
	if refundAmount > 0 {
		refundPart = fmt.Sprintf("Refund of $%.2f issued.", refundAmount)
	}
	msg := fmt.Sprintf("Dispute resolved: %s. %s %s",
		strings.ReplaceAll(string(status), "_", " "), refundPart, notes)
	return strings.TrimSpace(msg)
}
