package utils

import (
	"testing"
	"time"

	"github.com/ravstays/rav-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRefundFraction(t *testing.T) {
	tests := []struct {
		name   string
		policy models.CancellationPolicy
		days   int
		want   float64
	}{
		{"flexible one day out", models.PolicyFlexible, 1, 1.0},
		{"flexible far out", models.PolicyFlexible, 30, 1.0},
		{"flexible same day", models.PolicyFlexible, 0, 0},
		{"moderate five days out", models.PolicyModerate, 5, 1.0},
		{"moderate four days out", models.PolicyModerate, 4, 0.5},
		{"moderate one day out", models.PolicyModerate, 1, 0.5},
		{"moderate same day", models.PolicyModerate, 0, 0},
		{"strict at seven days", models.PolicyStrict, 7, 0.5},
		{"strict at six days", models.PolicyStrict, 6, 0},
		{"strict far out", models.PolicyStrict, 60, 0.5},
		{"super strict far out", models.PolicySuperStrict, 365, 0},
		{"super strict same day", models.PolicySuperStrict, 0, 0},
		{"unknown policy", models.CancellationPolicy("whatever"), 30, 0},
		{"empty policy", models.CancellationPolicy(""), 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RefundFraction(tt.policy, tt.days))
		})
	}
}

func TestPolicyRefundAmount(t *testing.T) {
	// Half refunds are rounded to cents
	assert.Equal(t, 50.28, PolicyRefundAmount(100.55, models.PolicyStrict, 7))
	assert.Equal(t, 0.0, PolicyRefundAmount(100.55, models.PolicyStrict, 6))
	assert.Equal(t, 1584.47, PolicyRefundAmount(1584.47, models.PolicyModerate, 5))
}

func TestDaysUntilCheckin(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 7, DaysUntilCheckin(now.Add(7*24*time.Hour), now))
	// Partial days round up
	assert.Equal(t, 4, DaysUntilCheckin(now.Add(3*24*time.Hour+6*time.Hour), now))
	// Same instant and past check-ins count as 0 days out
	assert.Equal(t, 0, DaysUntilCheckin(now, now))
	assert.Equal(t, 0, DaysUntilCheckin(now.Add(-48*time.Hour), now))
}

func TestDescribeRefund(t *testing.T) {
	desc := DescribeRefund(models.PolicyModerate, 3)
	assert.Equal(t, 50, desc.Percentage)
	assert.Equal(t, "50% refund available (1-4 days before)", desc.Description)

	desc = DescribeRefund(models.PolicySuperStrict, 30)
	assert.Equal(t, 0, desc.Percentage)
	assert.Equal(t, "This booking is non-refundable", desc.Description)

	desc = DescribeRefund(models.CancellationPolicy("bogus"), 10)
	assert.Equal(t, 0, desc.Percentage)
}
