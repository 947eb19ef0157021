package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/ravstays/rav-backend/internal/config"
	"github.com/ravstays/rav-backend/internal/models"
	"github.com/ravstays/rav-backend/pkg/utils"
)

// ErrPaymentProvider marks a failed payment-provider call so handlers can
// surface it as a dependency failure rather than a client error.
var ErrPaymentProvider = errors.New("payment provider error")

// Stripe tax codes: general lodging for the stay and cleaning, non-taxable
// service charge for the platform fee.
const (
	taxCodeLodging = "txcd_99999999"
	taxCodeService = "txcd_10000000"
)

// CheckoutInput identifies the renter and the listing being booked.
type CheckoutInput struct {
	UserID          uint
	UserEmail       string
	ListingID       uint
	GuestCount      int
	SpecialRequests string
}

// CheckoutResult links the created booking to its payment session.
type CheckoutResult struct {
	BookingID  uint              `json:"bookingId"`
	SessionID  string            `json:"sessionId"`
	SessionURL string            `json:"url"`
	Fees       utils.FeeBreakdown `json:"fees"`
}

// CheckoutService creates pending bookings and opens payment sessions for
// them. The flow fails closed: nothing before the booking insert leaves a row
// behind, and a provider failure leaves the booking pending with no session
// reference so the renter retries checkout from scratch.
type CheckoutService struct {
	Listings    ListingStore
	Bookings    BookingStore
	Commission  *CommissionResolver
	Payments    PaymentProvider
	FrontendURL string
}

func (s *CheckoutService) CreateCheckout(ctx context.Context, in CheckoutInput, settings config.Settings) (*CheckoutResult, error) {
	listing, err := s.Listings.FindActive(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}

	commissionRate, err := s.Commission.Resolve(ctx, listing.OwnerID, settings)
	if err != nil {
		return nil, err
	}

	fees := utils.CalculateFees(listing.NightlyRate, listing.CheckInDate, listing.CheckOutDate, listing.CleaningFee, commissionRate)
	log.Printf("[CHECKOUT] Fee breakdown for listing %d: base=%.2f service=%.2f cleaning=%.2f total=%.2f rate=%.2f",
		listing.ID, fees.BaseAmount, fees.ServiceFee, fees.CleaningFee, fees.TotalAmount, commissionRate)

	guestCount := in.GuestCount
	if guestCount < 1 {
		guestCount = 1
	}

	booking := models.Booking{
		ListingID:       listing.ID,
		RenterID:        in.UserID,
		Status:          models.BookingStatusPending,
		BaseAmount:      fees.BaseAmount,
		ServiceFee:      fees.ServiceFee,
		CleaningFee:     fees.CleaningFee,
		TotalAmount:     fees.TotalAmount,
		RavCommission:   fees.RavCommission,
		OwnerPayout:     fees.OwnerPayout,
		GuestCount:      guestCount,
		SpecialRequests: in.SpecialRequests,
	}
	if err := s.Bookings.Create(ctx, &booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	sessionReq := CheckoutSessionRequest{
		CustomerEmail: in.UserEmail,
		LineItems:     buildLineItems(listing, fees),
		SuccessURL:    fmt.Sprintf("%s/booking-success?booking_id=%d", s.FrontendURL, booking.ID),
		CancelURL:     fmt.Sprintf("%s/listing/%d?cancelled=true", s.FrontendURL, listing.ID),
		Metadata: map[string]string{
			"booking_id": fmt.Sprintf("%d", booking.ID),
			"listing_id": fmt.Sprintf("%d", listing.ID),
			"renter_id":  fmt.Sprintf("%d", in.UserID),
		},
	}

	var session *CheckoutSession
	err = callExternal("CHECKOUT", FailAbort, func() error {
		var callErr error
		session, callErr = s.Payments.CreateCheckoutSession(ctx, sessionReq)
		return callErr
	})
	if err != nil {
		// The pending booking stays behind with no session reference; the
		// renter must retry checkout rather than resume a half-created session.
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if err := s.Bookings.SetPaymentIntent(ctx, booking.ID, session.ID); err != nil {
		return nil, fmt.Errorf("failed to link session to booking: %w", err)
	}

	return &CheckoutResult{
		BookingID:  booking.ID,
		SessionID:  session.ID,
		SessionURL: session.URL,
		Fees:       fees,
	}, nil
}

// buildLineItems itemizes the fee breakdown, one line per component. The
// cleaning fee only appears when charged.
func buildLineItems(listing *models.Listing, fees utils.FeeBreakdown) []CheckoutLineItem {
	stayName := listing.Title
	if stayName == "" {
		stayName = "Vacation Rental"
	}

	items := []CheckoutLineItem{
		{
			Name: stayName,
			Description: fmt.Sprintf("%d nights • %s - %s • %s",
				fees.Nights,
				listing.CheckInDate.Format("Jan 2, 2006"),
				listing.CheckOutDate.Format("Jan 2, 2006"),
				listing.Location),
			TaxCode:     taxCodeLodging,
			AmountCents: toCents(fees.BaseAmount),
		},
		{
			Name:        "RAV Service Fee",
			TaxCode:     taxCodeService,
			AmountCents: toCents(fees.ServiceFee),
		},
	}

	if fees.CleaningFee > 0 {
		items = append(items, CheckoutLineItem{
			Name:        "Cleaning Fee",
			TaxCode:     taxCodeLodging,
			AmountCents: toCents(fees.CleaningFee),
		})
	}

	return items
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
