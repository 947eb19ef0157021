package services

import (
	"context"
	"log"

	"github.com/ravstays/rav-backend/internal/config"
)

// CommissionResolver determines the effective commission percentage for an
// owner. A negotiated agreement takes absolute precedence; otherwise the
// platform base rate is reduced by the owner's membership-tier discount.
type CommissionResolver struct {
	Agreements  AgreementStore
	Memberships MembershipStore
}

func NewCommissionResolver(agreements AgreementStore, memberships MembershipStore) *CommissionResolver {
	return &CommissionResolver{Agreements: agreements, Memberships: memberships}
}

// Resolve returns the commission rate percent for the owner. The tier path
// returns baseRate - discount without clamping, matching the platform's
// agreement terms; out-of-range results are logged so pricing ops can catch a
// misconfigured tier.
func (r *CommissionResolver) Resolve(ctx context.Context, ownerID uint, settings config.Settings) (float64, error) {
	agreement, err := r.Agreements.ActiveAgreement(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if agreement != nil {
		return agreement.CommissionRate, nil
	}

	discount, err := r.Memberships.ActiveTierDiscount(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	rate := settings.PlatformCommissionRate - discount
	if rate < 0 || rate > 100 {
		log.Printf("[COMMISSION] Resolved rate %.2f for owner %d is outside [0, 100]", rate, ownerID)
	}
	return rate, nil
}
