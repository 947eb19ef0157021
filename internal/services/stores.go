package services

import (
	"context"
	"errors"
	"time"

	"github.com/ravstays/rav-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("listing not found or not available")
	ErrBookingNotFound = errors.New("booking not found")
	ErrDisputeNotFound = errors.New("dispute not found")
	ErrNotCancellable  = errors.New("booking is not cancellable")
)

// Narrow persistence interfaces per orchestrator, mirrored by gorm
// implementations below so the flows stay unit-testable.

type ListingStore interface {
	FindActive(ctx context.Context, id uint) (*models.Listing, error)
	SetStatus(ctx context.Context, id uint, status models.ListingStatus) error
}

type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindWithListing(ctx context.Context, id uint) (*models.Booking, error)
	SetPaymentIntent(ctx context.Context, id uint, reference string) error
	// MarkCancelled transitions a confirmed booking to cancelled with a
	// conditional update; it returns ErrNotCancellable when the row was no
	// longer confirmed, closing the concurrent double-cancel window.
	MarkCancelled(ctx context.Context, id uint) error
}

type AgreementStore interface {
	// ActiveAgreement returns (nil, nil) when the owner has none.
	ActiveAgreement(ctx context.Context, ownerID uint) (*models.OwnerAgreement, error)
}

type MembershipStore interface {
	// ActiveTierDiscount returns 0 when the owner has no active membership.
	ActiveTierDiscount(ctx context.Context, ownerID uint) (float64, error)
}

type CancellationStore interface {
	Create(ctx context.Context, request *models.CancellationRequest) error
}

type EscrowStore interface {
	MarkRefunded(ctx context.Context, bookingID uint) error
}

type OwnerStatsStore interface {
	IncrementCancellationCount(ctx context.Context, ownerID uint) error
}

type DisputeStore interface {
	FindWithBooking(ctx context.Context, id uint) (*models.Dispute, error)
	Resolve(ctx context.Context, id uint, resolvedBy uint, status models.DisputeStatus, notes string, refundAmount float64, refundReference *string) error
	AddMessage(ctx context.Context, message *models.DisputeMessage) error
}

// --- gorm implementations ---

type GormListingStore struct{ DB *gorm.DB }

func (s *GormListingStore) FindActive(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := s.DB.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.ListingStatusActive).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (s *GormListingStore) SetStatus(ctx context.Context, id uint, status models.ListingStatus) error {
	return s.DB.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ?", id).
		Update("status", status).Error
}

type GormBookingStore struct{ DB *gorm.DB }

func (s *GormBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	return s.DB.WithContext(ctx).Create(booking).Error
}

func (s *GormBookingStore) FindWithListing(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).Preload("Listing").First(&booking, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (s *GormBookingStore) SetPaymentIntent(ctx context.Context, id uint, reference string) error {
	return s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Update("payment_intent_id", reference).Error
}

func (s *GormBookingStore) MarkCancelled(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, models.BookingStatusConfirmed).
		Update("status", models.BookingStatusCancelled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotCancellable
	}
	return nil
}

type GormAgreementStore struct{ DB *gorm.DB }

func (s *GormAgreementStore) ActiveAgreement(ctx context.Context, ownerID uint) (*models.OwnerAgreement, error) {
	var agreement models.OwnerAgreement
	// Deterministic tie-break when more than one agreement is active: the most
	// recently effective one wins, then the newest row.
	err := s.DB.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, models.AgreementStatusActive).
		Order("effective_date DESC, id DESC").
		First(&agreement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &agreement, nil
}

type GormMembershipStore struct{ DB *gorm.DB }

func (s *GormMembershipStore) ActiveTierDiscount(ctx context.Context, ownerID uint) (float64, error) {
	var membership models.UserMembership
	err := s.DB.WithContext(ctx).Preload("Tier").
		Where("user_id = ? AND status = ?", ownerID, models.MembershipStatusActive).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if membership.Tier == nil {
		return 0, nil
	}
	return membership.Tier.CommissionDiscountPct, nil
}

type GormCancellationStore struct{ DB *gorm.DB }

func (s *GormCancellationStore) Create(ctx context.Context, request *models.CancellationRequest) error {
	return s.DB.WithContext(ctx).Create(request).Error
}

type GormEscrowStore struct{ DB *gorm.DB }

func (s *GormEscrowStore) MarkRefunded(ctx context.Context, bookingID uint) error {
	now := time.Now()
	return s.DB.WithContext(ctx).Model(&models.BookingConfirmation{}).
		Where("booking_id = ?", bookingID).
		Updates(map[string]interface{}{
			"escrow_status":      models.EscrowStatusRefunded,
			"escrow_refunded_at": &now,
		}).Error
}

type GormOwnerStatsStore struct{ DB *gorm.DB }

func (s *GormOwnerStatsStore) IncrementCancellationCount(ctx context.Context, ownerID uint) error {
	var verification models.OwnerVerification
	err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			verification = models.OwnerVerification{OwnerID: ownerID, CancellationCount: 1}
			return s.DB.WithContext(ctx).Create(&verification).Error
		}
		return err
	}
	return s.DB.WithContext(ctx).Model(&verification).
		Update("cancellation_count", gorm.Expr("cancellation_count + 1")).Error
}

type GormDisputeStore struct{ DB *gorm.DB }

func (s *GormDisputeStore) FindWithBooking(ctx context.Context, id uint) (*models.Dispute, error) {
	var dispute models.Dispute
	err := s.DB.WithContext(ctx).Preload("Booking").First(&dispute, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return &dispute, nil
}

func (s *GormDisputeStore) Resolve(ctx context.Context, id uint, resolvedBy uint, status models.DisputeStatus, notes string, refundAmount float64, refundReference *string) error {
	now := time.Now()
	return s.DB.WithContext(ctx).Model(&models.Dispute{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"resolution_notes": notes,
			"resolved_by_id":   resolvedBy,
			"resolved_at":      &now,
			"refund_amount":    refundAmount,
			"refund_reference": refundReference,
		}).Error
}

func (s *GormDisputeStore) AddMessage(ctx context.Context, message *models.DisputeMessage) error {
	return s.DB.WithContext(ctx).Create(message).Error
}
