package analytics

import (
	"time"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
	"github.com/Pedro24681/sql-ecommerce-case-study/engine"
)

// ============================================================================
// CHURN RISK — recency/frequency tier ladder
// ============================================================================

// Risk tiers, evaluated first-match-wins in this order.
const (
	TierCritical = "Critical Risk"
	TierHigh     = "High Risk"
	TierMedium   = "Medium Risk"
	TierLow      = "Low Risk"
	TierStable   = "Stable"
)

// riskScores maps each tier to its numeric score. The score is part of the
// output contract: 5 is the highest risk, 1 the lowest.
var riskScores = map[string]int{
	TierCritical: 5,
	TierHigh:     4,
	TierMedium:   3,
	TierLow:      2,
	TierStable:   1,
}

// ChurnRisk tiers every customer with at least one order, as of the
// reference time. Output columns: customer_id, recency_days, frequency,
// risk_tier, risk_score.
func ChurnRisk(snap *dataset.Snapshot, asOf time.Time) (*engine.Recordset, error) {
	set := engine.NewRecordset("churn_risk",
		engine.Dim("customer_id"),
		engine.Num("recency_days"),
		engine.Num("frequency"),
		engine.Dim("risk_tier"),
		engine.Num("risk_score"),
	)

	byCustomer := snap.OrdersByCustomer()
	for _, c := range snap.Customers {
		orders := byCustomer[c.ID]
		last, ok := lastOrderDate(orders)
		if !ok {
			continue
		}
		recency := daysBetween(last, asOf)
		frequency := len(orders)
		tier := riskTier(recency, frequency)

		r := engine.NewRecord()
		r.SetDim("customer_id", c.ID)
		r.SetNum("recency_days", float64(recency))
		r.SetNum("frequency", float64(frequency))
		r.SetDim("risk_tier", tier)
		r.SetNum("risk_score", float64(riskScores[tier]))
		set.Append(r)
	}
	return set, nil
}

// riskTier walks the ladder top-down; the first satisfied rule wins.
func riskTier(recencyDays, frequency int) string {
	switch {
	case recencyDays > 180 && frequency < 2:
		return TierCritical
	case recencyDays > 120 && frequency < 3:
		return TierHigh
	case recencyDays > 90 || frequency < 2:
		return TierMedium
	case recencyDays > 60:
		return TierLow
	default:
		return TierStable
	}
}
