package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ravstays/rav-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDisputeStore struct {
	findFn   func(ctx context.Context, id uint) (*models.Dispute, error)
	resolved []models.DisputeStatus
	messages []*models.DisputeMessage
}

func (m *mockDisputeStore) FindWithBooking(ctx context.Context, id uint) (*models.Dispute, error) {
	return m.findFn(ctx, id)
}

func (m *mockDisputeStore) Resolve(ctx context.Context, id uint, resolvedBy uint, status models.DisputeStatus, notes string, refundAmount float64, refundReference *string) error {
	m.resolved = append(m.resolved, status)
	return nil
}

func (m *mockDisputeStore) AddMessage(ctx context.Context, message *models.DisputeMessage) error {
	m.messages = append(m.messages, message)
	return nil
}

func openDispute(total float64) *models.Dispute {
	booking := &models.Booking{
		Status:          models.BookingStatusConfirmed,
		TotalAmount:     total,
		PaymentIntentID: "pi_test_789",
	}
	booking.ID = 7
	dispute := &models.Dispute{
		BookingID: 7,
		Booking:   booking,
		Status:    models.DisputeStatusUnderReview,
	}
	dispute.ID = 3
	return dispute
}

func newDisputeService(dispute *models.Dispute) (*DisputeService, *mockDisputeStore, *mockBookingStore, *mockEscrowStore, *mockPaymentProvider) {
	disputes := &mockDisputeStore{
		findFn: func(ctx context.Context, id uint) (*models.Dispute, error) {
			return dispute, nil
		},
	}
	bookings := &mockBookingStore{}
	escrow := &mockEscrowStore{}
	payments := &mockPaymentProvider{}

	svc := &DisputeService{
		Disputes: disputes,
		Bookings: bookings,
		Escrow:   escrow,
		Payments: payments,
	}
	return svc, disputes, bookings, escrow, payments
}

func TestResolveDispute_PartialRefund(t *testing.T) {
	svc, disputes, bookings, escrow, payments := newDisputeService(openDispute(500))

	result, err := svc.Resolve(context.Background(), DisputeInput{
		AdminID:      1,
		DisputeID:    3,
		RefundAmount: 120.50,
		Status:       models.DisputeStatusResolvedRefunded,
		Notes:        "cleaning issue confirmed",
	})

	require.NoError(t, err)
	assert.Equal(t, 120.50, result.RefundAmount)
	require.NotNil(t, result.RefundReference)
	assert.Equal(t, "re_test_123", *result.RefundReference)

	require.Len(t, payments.refunds, 1)
	assert.Equal(t, int64(12050), payments.refunds[0].AmountCents)
	assert.Equal(t, "pi_test_789", payments.refunds[0].PaymentReference)

	assert.Equal(t, []models.DisputeStatus{models.DisputeStatusResolvedRefunded}, disputes.resolved)
	assert.Equal(t, []uint{7}, escrow.refunded)
	// A partial refund leaves the booking alive
	assert.Empty(t, bookings.cancelled)

	require.Len(t, disputes.messages, 1)
	assert.Equal(t, "Dispute resolved: resolved refunded. Refund of $120.50 issued. cleaning issue confirmed",
		disputes.messages[0].Message)
}

func TestResolveDispute_FullRefundCancelsBooking(t *testing.T) {
	svc, _, bookings, escrow, _ := newDisputeService(openDispute(500))

	_, err := svc.Resolve(context.Background(), DisputeInput{
		AdminID:      1,
		DisputeID:    3,
		RefundAmount: 500,
		Status:       models.DisputeStatusResolvedRefunded,
	})

	require.NoError(t, err)
	assert.Equal(t, []uint{7}, escrow.refunded)
	assert.Equal(t, []uint{7}, bookings.cancelled)
}

func TestResolveDispute_DeniedWithoutRefund(t *testing.T) {
	svc, disputes, bookings, escrow, payments := newDisputeService(openDispute(500))

	result, err := svc.Resolve(context.Background(), DisputeInput{
		AdminID:      1,
		DisputeID:    3,
		RefundAmount: 0,
		Status:       models.DisputeStatusResolvedDenied,
		Notes:        "no evidence of the claimed damage",
	})

	require.NoError(t, err)
	assert.Nil(t, result.RefundReference)
	assert.Empty(t, payments.refunds)
	assert.Empty(t, escrow.refunded)
	assert.Empty(t, bookings.cancelled)

	require.Len(t, disputes.messages, 1)
	assert.Equal(t, "Dispute resolved: resolved denied. No refund issued. no evidence of the claimed damage",
		disputes.messages[0].Message)
}

func TestResolveDispute_ProviderFailureAborts(t *testing.T) {
	// Unlike cancellation, a failed provider refund stops the resolution cold
	svc, disputes, _, _, payments := newDisputeService(openDispute(500))
	payments.refundFn = func(ctx context.Context, req RefundRequest) (string, error) {
		return "", errors.New("provider timeout")
	}

	_, err := svc.Resolve(context.Background(), DisputeInput{
		AdminID:      1,
		DisputeID:    3,
		RefundAmount: 100,
		Status:       models.DisputeStatusResolvedRefunded,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentProvider)
	assert.Empty(t, disputes.resolved)
	assert.Empty(t, disputes.messages)
}

func TestResolveDispute_NegativeRefundRejected(t *testing.T) {
	svc, _, _, _, _ := newDisputeService(openDispute(500))

	_, err := svc.Resolve(context.Background(), DisputeInput{
		AdminID:      1,
		DisputeID:    3,
		RefundAmount: -10,
		Status:       models.DisputeStatusResolvedDenied,
	})

	assert.Error(t, err)
}

func TestResolveDispute_MissingStatusRejected(t *testing.T) {
	svc, _, _, _, _ := newDisputeService(openDispute(500))

	_, err := svc.Resolve(context.Background(), DisputeInput{
		AdminID:      1,
		DisputeID:    3,
		RefundAmount: 50,
	})

	assert.Error(t, err)
}

func TestResolveDispute_RefundWithoutPaymentReference(t *testing.T) {
	// The resolution is recorded even when there is nothing to refund against
	dispute := openDispute(500)
	dispute.Booking.PaymentIntentID = ""
	svc, disputes, _, escrow, payments := newDisputeService(dispute)

	result, err := svc.Resolve(context.Background(), DisputeInput{
		AdminID:      1,
		DisputeID:    3,
		RefundAmount: 50,
		Status:       models.DisputeStatusResolvedRefunded,
	})

	require.NoError(t, err)
	assert.Nil(t, result.RefundReference)
	assert.Empty(t, payments.refunds)
	assert.Len(t, disputes.resolved, 1)
	assert.Equal(t, []uint{7}, escrow.refunded)
}

func TestResolutionMessage_TrimsWhenNotesEmpty(t *testing.T) {
	msg := resolutionMessage(models.DisputeStatusResolvedDenied, 0, "")
	assert.Equal(t, "Dispute resolved: resolved denied. No refund issued.", msg)
}
