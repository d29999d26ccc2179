package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
)

func TestRiskTier_FirstMatchWins(t *testing.T) {
	tests := []struct {
		name      string
		recency   int
		frequency int
		want      string
	}{
		{"very stale one-timer", 200, 1, TierCritical},
		{"very stale but repeat", 200, 2, TierHigh},
		{"very stale and frequent", 200, 5, TierMedium},
		{"stale and frequent", 100, 5, TierMedium},
		{"recent one-timer", 70, 1, TierMedium},
		{"cooling off", 70, 3, TierLow},
		{"active regular", 30, 3, TierStable},
		{"boundary 180 days", 180, 1, TierHigh},
		{"boundary 90 days", 90, 3, TierStable},
		{"boundary 61 days", 61, 3, TierLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, riskTier(tt.recency, tt.frequency))
		})
	}
}

func TestChurnRisk(t *testing.T) {
	asOf := day("2024-07-01")
	snap := &dataset.Snapshot{
		Customers: []dataset.Customer{
			{ID: "c1", SignupDate: day("2023-01-01")},
			{ID: "c2", SignupDate: day("2023-01-01")},
			{ID: "c3", SignupDate: day("2023-01-01")}, // never ordered
		},
		Orders: []dataset.Order{
			{ID: "o1", CustomerID: "c1", OrderDate: day("2023-11-01"), TotalAmount: 10}, // 243 days ago
			{ID: "o2", CustomerID: "c2", OrderDate: day("2024-06-01"), TotalAmount: 10}, // 30 days ago
			{ID: "o3", CustomerID: "c2", OrderDate: day("2024-06-15"), TotalAmount: 10},
			{ID: "o4", CustomerID: "c2", OrderDate: day("2024-05-01"), TotalAmount: 10},
		},
	}

	set, err := ChurnRisk(snap, asOf)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len(), "customers without orders are excluded")

	c1, ok := rowByCustomer(set, "c1")
	require.True(t, ok)
	assert.Equal(t, 243.0, mustNum(t, c1, "recency_days"))
	assert.Equal(t, TierCritical, c1.Dim("risk_tier"))
	assert.Equal(t, 5.0, mustNum(t, c1, "risk_score"))

	// Recency uses the most recent order, not insertion order.
	c2, ok := rowByCustomer(set, "c2")
	require.True(t, ok)
	assert.Equal(t, 16.0, mustNum(t, c2, "recency_days"))
	assert.Equal(t, 3.0, mustNum(t, c2, "frequency"))
	assert.Equal(t, TierStable, c2.Dim("risk_tier"))
	assert.Equal(t, 1.0, mustNum(t, c2, "risk_score"))
}
