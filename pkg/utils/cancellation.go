package utils

import (
	"math"
	"time"

	"github.com/ravstays/rav-backend/internal/models"
)

// RefundFraction returns the fraction of the total a renter-initiated
// cancellation is entitled to under the listing's policy. Total over all
// inputs; any unknown policy value refunds nothing.
func RefundFraction(policy models.CancellationPolicy, daysUntilCheckin int) float64 {
	switch policy {
	case models.PolicyFlexible:
		if daysUntilCheckin >= 1 {
			return 1.0
		}
		return 0
	case models.PolicyModerate:
		if daysUntilCheckin >= 5 {
			return 1.0
		}
		if daysUntilCheckin >= 1 {
			return 0.5
		}
		return 0
	case models.PolicyStrict:
		if daysUntilCheckin >= 7 {
			return 0.5
		}
		return 0
	case models.PolicySuperStrict:
		return 0
	default:
		return 0
	}
}

// PolicyRefundAmount computes the policy-entitled refund for a booking total.
func PolicyRefundAmount(totalAmount float64, policy models.CancellationPolicy, daysUntilCheckin int) float64 {
	return Round2(totalAmount * RefundFraction(policy, daysUntilCheckin))
}

// DaysUntilCheckin returns whole days from now until check-in, rounded up and
// never negative; same-day or past check-in counts as 0 days out.
func DaysUntilCheckin(checkIn, now time.Time) int {
	days := int(math.Ceil(checkIn.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// RefundDescription describes the refund a renter would receive if they
// cancelled now, for display ahead of a cancellation.
type RefundDescription struct {
	Percentage  int    `json:"percentage"`
	Description string `json:"description"`
}

// DescribeRefund returns the refund percentage and a human-readable summary
// for the given policy and timing.
func DescribeRefund(policy models.CancellationPolicy, daysUntilCheckin int) RefundDescription {
	switch policy {
	case models.PolicyFlexible:
		if daysUntilCheckin >= 1 {
			return RefundDescription{100, "Full refund available"}
		}
		return RefundDescription{0, "No refund - less than 24 hours before check-in"}
	case models.PolicyModerate:
		if daysUntilCheckin >= 5 {
			return RefundDescription{100, "Full refund available (5+ days before)"}
		}
		if daysUntilCheckin >= 1 {
			return RefundDescription{50, "50% refund available (1-4 days before)"}
		}
		return RefundDescription{0, "No refund - less than 24 hours before check-in"}
	case models.PolicyStrict:
		if daysUntilCheckin >= 7 {
			return RefundDescription{50, "50% refund available (7+ days before)"}
		}
		return RefundDescription{0, "No refund - less than 7 days before check-in"}
	case models.PolicySuperStrict:
		return RefundDescription{0, "This booking is non-refundable"}
	default:
		return RefundDescription{0, "Refund policy not available"}
	}
}
