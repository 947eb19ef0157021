package utils

import (
	"math"
	"time"
)

// FeeBreakdown contains the itemized settlement amounts for a booking.
type FeeBreakdown struct {
	Nights        int     `json:"nights"`
	BaseAmount    float64 `json:"baseAmount"`
	ServiceFee    float64 `json:"serviceFee"`
	CleaningFee   float64 `json:"cleaningFee"`
	TotalAmount   float64 `json:"totalAmount"`
	RavCommission float64 `json:"ravCommission"`
	OwnerPayout   float64 `json:"ownerPayout"`
}

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// CalculateNights returns the number of nights between check-in and check-out,
// rounded up and never negative.
func CalculateNights(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn).Hours() / 24
	nights := int(math.Ceil(diff))
	if nights < 0 {
		return 0
	}
	return nights
}

// CalculateFees computes the settlement breakdown for a stay. Each multiplied
// component is rounded independently so the stored amounts match the payment
// provider's per-line-item cents exactly; the total is a plain sum of the
// already-rounded parts.
func CalculateFees(nightlyRate float64, checkIn, checkOut time.Time, cleaningFee, commissionRatePct float64) FeeBreakdown {
	nights := CalculateNights(checkIn, checkOut)
	baseAmount := Round2(nightlyRate * float64(nights))
	serviceFee := Round2(baseAmount * commissionRatePct / 100)
	totalAmount := baseAmount + serviceFee + cleaningFee

	return FeeBreakdown{
		Nights:        nights,
		BaseAmount:    baseAmount,
		ServiceFee:    serviceFee,
		CleaningFee:   cleaningFee,
		TotalAmount:   totalAmount,
		RavCommission: serviceFee,
		OwnerPayout:   baseAmount + cleaningFee,
	}
}
