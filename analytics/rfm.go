package analytics

import (
	"context"
	"time"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
	"github.com/Pedro24681/sql-ecommerce-case-study/engine"
)

// ============================================================================
// RFM SCORER — recency / frequency / monetary segmentation
// ============================================================================
// Staged like the original computation: base metrics → ntile scoring →
// segment classification. Each metric becomes a 1..N score via ntile over
// the whole customer population, oriented so N is "best": recency buckets
// on descending recency_days (fewest days last, highest bucket), frequency
// and monetary on ascending raw value.
//
// Customers with no orders have no recency and are not scored.
// ============================================================================

// Segment labels, evaluated first-match-wins in this order.
const (
	SegmentChampions = "Champions"
	SegmentLoyal     = "Loyal Customers"
	SegmentAtRisk    = "At Risk"
	SegmentCantLose  = "Can't Lose Them"
	SegmentPotential = "Potential Loyalists"
	SegmentNewOrLost = "New/Lost"
)

// RFM scores every customer with at least one order, as of the reference
// time. Output columns: customer_id, recency_days, frequency, monetary,
// recency_score, frequency_score, monetary_score, segment_label.
func RFM(ctx context.Context, snap *dataset.Snapshot, asOf time.Time, opts ...Option) (*engine.Recordset, error) {
	cfg := applyOptions(opts)

	pipe, err := engine.NewPipeline(
		engine.Stage{
			Name: "rfm_base",
			Run: func(ctx context.Context, _ map[string]*engine.Recordset) (*engine.Recordset, error) {
				return rfmBase(snap, asOf), nil
			},
		},
		engine.Stage{
			Name:  "rfm_scores",
			Needs: []string{"rfm_base"},
			Run: func(ctx context.Context, in map[string]*engine.Recordset) (*engine.Recordset, error) {
				return rfmScores(in["rfm_base"], cfg.ScoreBuckets), nil
			},
		},
		engine.Stage{
			Name:  "rfm_segments",
			Needs: []string{"rfm_scores"},
			Run: func(ctx context.Context, in map[string]*engine.Recordset) (*engine.Recordset, error) {
				return rfmSegments(in["rfm_scores"]), nil
			},
		},
	)
	if err != nil {
		return nil, err
	}
	return pipe.RunInto(ctx, "rfm_segments")
}

// rfmBase computes per-customer raw metrics in snapshot customer order, so
// downstream tie-breaking is deterministic for identical input ordering.
func rfmBase(snap *dataset.Snapshot, asOf time.Time) *engine.Recordset {
	set := engine.NewRecordset("rfm_base",
		engine.Dim("customer_id"),
		engine.Num("recency_days"),
		engine.Num("frequency"),
		engine.Num("monetary"),
	)

	byCustomer := snap.OrdersByCustomer()
	for _, c := range snap.Customers {
		orders := byCustomer[c.ID]
		last, ok := lastOrderDate(orders)
		if !ok {
			continue
		}
		distinct := make(map[string]bool, len(orders))
		var monetary float64
		for _, o := range orders {
			distinct[o.ID] = true
			monetary += o.TotalAmount
		}

		r := engine.NewRecord()
		r.SetDim("customer_id", c.ID)
		r.SetNum("recency_days", float64(daysBetween(last, asOf)))
		r.SetNum("frequency", float64(len(distinct)))
		r.SetNum("monetary", monetary)
		set.Append(r)
	}
	return set
}

func rfmScores(base *engine.Recordset, buckets int) *engine.Recordset {
	set := engine.NewRecordset("rfm_scores",
		engine.Dim("customer_id"),
		engine.Num("recency_days"),
		engine.Num("frequency"),
		engine.Num("monetary"),
		engine.Num("recency_score"),
		engine.Num("frequency_score"),
		engine.Num("monetary_score"),
	)
	for _, r := range base.Rows {
		set.Append(r.Clone())
	}

	// One population-wide partition per metric; the ntile bucket is the
	// score directly.
	score := func(field, scoreField string, desc bool) {
		key := engine.AscNum(field)
		if desc {
			key = engine.DescNum(field)
		}
		parts := engine.PartitionSort(set, nil, []engine.SortKey{key})
		for _, p := range parts {
			ntiles := engine.Ntile(p, buckets)
			for i := 0; i < p.Len(); i++ {
				set.Rows[p.SourceIndex(i)].SetNum(scoreField, float64(ntiles[i]))
			}
		}
	}
	score("recency_days", "recency_score", true)
	score("frequency", "frequency_score", false)
	score("monetary", "monetary_score", false)
	return set
}

func rfmSegments(scored *engine.Recordset) *engine.Recordset {
	set := engine.NewRecordset("rfm",
		engine.Dim("customer_id"),
		engine.Num("recency_days"),
		engine.Num("frequency"),
		engine.Num("monetary"),
		engine.Num("recency_score"),
		engine.Num("frequency_score"),
		engine.Num("monetary_score"),
		engine.Dim("segment_label"),
	)
	for _, r := range scored.Rows {
		out := r.Clone()
		rec, _ := r.Num("recency_score")
		freq, _ := r.Num("frequency_score")
		mon, _ := r.Num("monetary_score")
		out.SetDim("segment_label", segmentLabel(int(rec), int(freq), int(mon)))
		set.Append(out)
	}
	return set
}

// segmentLabel applies the classification ladder; the first satisfied rule
// wins.
func segmentLabel(r, f, m int) string {
	switch {
	case r >= 4 && f >= 4 && m >= 4:
		return SegmentChampions
	case r >= 3 && f >= 3 && m >= 3:
		return SegmentLoyal
	case r >= 3 && f <= 2:
		return SegmentAtRisk
	case r <= 2 && f >= 3:
		return SegmentCantLose
	case r >= 3:
		return SegmentPotential
	default:
		return SegmentNewOrLost
	}
}
