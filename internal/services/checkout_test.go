package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ravstays/rav-backend/internal/config"
	"github.com/ravstays/rav-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeListing() *models.Listing {
	listing := &models.Listing{
		OwnerID:            200,
		Title:              "Beach House",
		Location:           "Tofino, BC",
		NightlyRate:        189.99,
		CleaningFee:        75,
		CheckInDate:        time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate:       time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
		CancellationPolicy: models.PolicyModerate,
		Status:             models.ListingStatusActive,
	}
	listing.ID = 10
	return listing
}

func newCheckoutService(listing *models.Listing) (*CheckoutService, *mockBookingStore, *mockPaymentProvider) {
	listings := &mockListingStore{
		findActiveFn: func(ctx context.Context, id uint) (*models.Listing, error) {
			if listing == nil {
				return nil, ErrListingNotFound
			}
			return listing, nil
		},
	}
	bookings := &mockBookingStore{}
	payments := &mockPaymentProvider{}

	agreements := &mockAgreementStore{
		activeFn: func(ctx context.Context, ownerID uint) (*models.OwnerAgreement, error) {
			return nil, nil
		},
	}
	memberships := &mockMembershipStore{
		discountFn: func(ctx context.Context, ownerID uint) (float64, error) {
			return 0, nil
		},
	}

	svc := &CheckoutService{
		Listings:    listings,
		Bookings:    bookings,
		Commission:  NewCommissionResolver(agreements, memberships),
		Payments:    payments,
		FrontendURL: "https://app.ravstays.test",
	}
	return svc, bookings, payments
}

func TestCreateCheckout_HappyPath(t *testing.T) {
	svc, bookings, payments := newCheckoutService(activeListing())

	var pending *models.Booking
	bookings.createFn = func(ctx context.Context, booking *models.Booking) error {
		booking.ID = 42
		pending = booking
		return nil
	}

	var sessionReq CheckoutSessionRequest
	payments.sessionFn = func(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
		sessionReq = req
		return &CheckoutSession{ID: "cs_test_abc", URL: "https://checkout.example/cs_test_abc"}, nil
	}

	result, err := svc.CreateCheckout(context.Background(), CheckoutInput{
		UserID:    100,
		UserEmail: "renter@example.com",
		ListingID: 10,
	}, config.Settings{PlatformCommissionRate: 15})

	require.NoError(t, err)
	assert.Equal(t, uint(42), result.BookingID)
	assert.Equal(t, "cs_test_abc", result.SessionID)
	assert.Equal(t, "https://checkout.example/cs_test_abc", result.SessionURL)

	// 189.99 x 7 nights at 15% commission plus the 75 cleaning fee
	require.NotNil(t, pending)
	assert.Equal(t, models.BookingStatusPending, pending.Status)
	assert.Equal(t, 1329.93, pending.BaseAmount)
	assert.Equal(t, 199.49, pending.ServiceFee)
	assert.Equal(t, 75.0, pending.CleaningFee)
	assert.InDelta(t, 1604.42, pending.TotalAmount, 1e-9)
	assert.Equal(t, 1404.93, pending.OwnerPayout)
	assert.Equal(t, 1, pending.GuestCount)

	assert.Equal(t, []string{"cs_test_abc"}, bookings.intents)

	assert.Equal(t, "renter@example.com", sessionReq.CustomerEmail)
	assert.Equal(t, "https://app.ravstays.test/booking-success?booking_id=42", sessionReq.SuccessURL)
	assert.Equal(t, "https://app.ravstays.test/listing/10?cancelled=true", sessionReq.CancelURL)
	assert.Equal(t, "42", sessionReq.Metadata["booking_id"])
	assert.Equal(t, "10", sessionReq.Metadata["listing_id"])
	assert.Equal(t, "100", sessionReq.Metadata["renter_id"])

	require.Len(t, sessionReq.LineItems, 3)
	assert.Equal(t, "Beach House", sessionReq.LineItems[0].Name)
	assert.Equal(t, "txcd_99999999", sessionReq.LineItems[0].TaxCode)
	assert.Equal(t, int64(132993), sessionReq.LineItems[0].AmountCents)
	assert.Equal(t, "RAV Service Fee", sessionReq.LineItems[1].Name)
	assert.Equal(t, "txcd_10000000", sessionReq.LineItems[1].TaxCode)
	assert.Equal(t, int64(19949), sessionReq.LineItems[1].AmountCents)
	assert.Equal(t, "Cleaning Fee", sessionReq.LineItems[2].Name)
	assert.Equal(t, int64(7500), sessionReq.LineItems[2].AmountCents)
}

func TestCreateCheckout_NoCleaningFeeOmitsLineItem(t *testing.T) {
	listing := activeListing()
	listing.CleaningFee = 0
	svc, _, payments := newCheckoutService(listing)

	var sessionReq CheckoutSessionRequest
	payments.sessionFn = func(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
		sessionReq = req
		return &CheckoutSession{ID: "cs_test_abc", URL: "https://checkout.example/cs_test_abc"}, nil
	}

	_, err := svc.CreateCheckout(context.Background(), CheckoutInput{
		UserID:    100,
		UserEmail: "renter@example.com",
		ListingID: 10,
	}, config.Settings{PlatformCommissionRate: 15})

	require.NoError(t, err)
	assert.Len(t, sessionReq.LineItems, 2)
}

func TestCreateCheckout_ProviderFailureLeavesPendingBooking(t *testing.T) {
	svc, bookings, payments := newCheckoutService(activeListing())

	created := false
	bookings.createFn = func(ctx context.Context, booking *models.Booking) error {
		booking.ID = 42
		created = true
		return nil
	}
	payments.sessionFn = func(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
		return nil, errors.New("provider unavailable")
	}

	_, err := svc.CreateCheckout(context.Background(), CheckoutInput{
		UserID:    100,
		UserEmail: "renter@example.com",
		ListingID: 10,
	}, config.Settings{PlatformCommissionRate: 15})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentProvider)
	// The pending booking stays behind but never gets a session reference
	assert.True(t, created)
	assert.Empty(t, bookings.intents)
}

func TestCreateCheckout_InactiveListing(t *testing.T) {
	svc, bookings, _ := newCheckoutService(nil)

	_, err := svc.CreateCheckout(context.Background(), CheckoutInput{
		UserID:    100,
		ListingID: 10,
	}, config.Settings{PlatformCommissionRate: 15})

	assert.ErrorIs(t, err, ErrListingNotFound)
	assert.Empty(t, bookings.intents)
}

func TestCreateCheckout_GuestCountDefaultsToOne(t *testing.T) {
	svc, bookings, _ := newCheckoutService(activeListing())

	var pending *models.Booking
	bookings.createFn = func(ctx context.Context, booking *models.Booking) error {
		booking.ID = 42
		pending = booking
		return nil
	}

	_, err := svc.CreateCheckout(context.Background(), CheckoutInput{
		UserID:     100,
		UserEmail:  "renter@example.com",
		ListingID:  10,
		GuestCount: 0,
	}, config.Settings{PlatformCommissionRate: 15})

	require.NoError(t, err)
	assert.Equal(t, 1, pending.GuestCount)
}
