package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/ravstays/rav-backend/internal/models"
	"github.com/ravstays/rav-backend/pkg/utils"
)

var ErrUnauthorized = errors.New("unauthorized")

const (
	CancelledByRenter = "renter"
	CancelledByOwner  = "owner"
)

// CancellationInput identifies the caller and the booking being cancelled.
type CancellationInput struct {
	UserID      uint
	BookingID   uint
	Reason      string
	CancelledBy string
}

// CancellationResult reports the settled refund back to the caller.
type CancellationResult struct {
	RefundAmount     float64                   `json:"refundAmount"`
	RefundReference  *string                   `json:"refundReference"`
	Policy           models.CancellationPolicy `json:"policy"`
	DaysUntilCheckin int                       `json:"daysUntilCheckin"`
	CancelledBy      string                    `json:"cancelledBy"`
}

// RefundService drives booking cancellation: policy refund computation, the
// provider refund call, the audit row, and the state transitions. Only the
// booking status transition is a hard commit point; a failed provider refund
// or any later step is logged and reconciled out-of-band, because freeing an
// already-paid booking must never be blocked by a flaky refund call.
type RefundService struct {
	Bookings      BookingStore
	Listings      ListingStore
	Cancellations CancellationStore
	Escrow        EscrowStore
	OwnerStats    OwnerStatsStore
	Payments      PaymentProvider
	Notifier      Notifier
	Now           func() time.Time
}

func (s *RefundService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *RefundService) Cancel(ctx context.Context, in CancellationInput) (*CancellationResult, error) {
	if in.CancelledBy != CancelledByRenter && in.CancelledBy != CancelledByOwner {
		return nil, fmt.Errorf("cancelledBy must be 'renter' or 'owner'")
	}

	booking, err := s.Bookings.FindWithListing(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Listing == nil {
		return nil, ErrListingNotFound
	}

	if booking.Status != models.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: cannot cancel a booking with status: %s", ErrNotCancellable, booking.Status)
	}

	if in.CancelledBy == CancelledByRenter && booking.RenterID != in.UserID {
		return nil, fmt.Errorf("%w: you can only cancel your own bookings", ErrUnauthorized)
	}
	if in.CancelledBy == CancelledByOwner && booking.Listing.OwnerID != in.UserID {
		return nil, fmt.Errorf("%w: you can only cancel bookings on your own listings", ErrUnauthorized)
	}

	policy := booking.Listing.CancellationPolicy
	if policy == "" {
		policy = models.PolicyModerate
	}
	daysUntilCheckin := utils.DaysUntilCheckin(booking.Listing.CheckInDate, s.now())
	policyRefund := utils.PolicyRefundAmount(booking.TotalAmount, policy, daysUntilCheckin)

	// Owner cancellations always make the renter whole, policy aside
	refundAmount := policyRefund
	if in.CancelledBy == CancelledByOwner {
		refundAmount = booking.TotalAmount
	}
	log.Printf("[CANCELLATION] Refund calculated for booking %d: policy=%s days=%d refund=%.2f total=%.2f",
		booking.ID, policy, daysUntilCheckin, refundAmount, booking.TotalAmount)

	// The provider refund runs before any state transition and never blocks
	// cancellation; a failure leaves the reference nil for reconciliation.
	var refundReference *string
	if refundAmount > 0 && booking.PaymentIntentID != "" {
		callExternal("CANCELLATION", FailLogAndContinue, func() error {
			reason := in.Reason
			if len(reason) > 500 {
				reason = reason[:500]
			}
			refundID, refundErr := s.Payments.CreateRefund(ctx, RefundRequest{
				PaymentReference: booking.PaymentIntentID,
				AmountCents:      int64(math.Round(refundAmount * 100)),
				Metadata: map[string]string{
					"booking_id":   fmt.Sprintf("%d", booking.ID),
					"cancelled_by": in.CancelledBy,
					"reason":       reason,
				},
			})
			if refundErr != nil {
				return refundErr
			}
			refundReference = &refundID
			return nil
		})
	}

	var auditRow *models.CancellationRequest
	steps := []flowStep{
		{name: "cancellation-audit-row", kind: stepBestEffort, run: func() error {
			request := models.CancellationRequest{
				BookingID:             booking.ID,
				RequesterID:           in.UserID,
				Status:                "completed",
				Reason:                in.Reason,
				CancelledBy:           in.CancelledBy,
				RequestedRefundAmount: refundAmount,
				PolicyRefundAmount:    policyRefund,
				DaysUntilCheckin:      daysUntilCheckin,
				FinalRefundAmount:     refundAmount,
				RefundReference:       refundReference,
			}
			if refundReference != nil {
				processedAt := s.now()
				request.RefundProcessedAt = &processedAt
			}
			if err := s.Cancellations.Create(ctx, &request); err != nil {
				return err
			}
			auditRow = &request
			return nil
		}},
		{name: "booking-status", kind: stepCommit, run: func() error {
			return s.Bookings.MarkCancelled(ctx, booking.ID)
		}},
		{name: "reactivate-listing", kind: stepBestEffort, run: func() error {
			return s.Listings.SetStatus(ctx, booking.ListingID, models.ListingStatusActive)
		}},
		{name: "escrow-refund", kind: stepBestEffort, run: func() error {
			return s.Escrow.MarkRefunded(ctx, booking.ID)
		}},
	}
	if in.CancelledBy == CancelledByOwner {
		steps = append(steps, flowStep{name: "owner-cancellation-counter", kind: stepBestEffort, run: func() error {
			return s.OwnerStats.IncrementCancellationCount(ctx, in.UserID)
		}})
	}
	steps = append(steps, flowStep{name: "cancellation-email", kind: stepBestEffort, run: func() error {
		if auditRow == nil {
			return nil
		}
		return s.Notifier.SendCancellationEmail(ctx, auditRow.ID)
	}})

	if _, err := runSteps("CANCELLATION", steps); err != nil {
		if errors.Is(err, ErrNotCancellable) {
			// Lost the race to another cancellation of the same booking
			return nil, fmt.Errorf("%w: cannot cancel a booking with status: %s", ErrNotCancellable, models.BookingStatusCancelled)
		}
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	return &CancellationResult{
		RefundAmount:     refundAmount,
		RefundReference:  refundReference,
		Policy:           policy,
		DaysUntilCheckin: daysUntilCheckin,
		CancelledBy:      in.CancelledBy,
	}, nil
}
