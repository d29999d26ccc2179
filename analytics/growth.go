package analytics

import (
	"sort"
	"time"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
	"github.com/Pedro24681/sql-ecommerce-case-study/engine"
)

// ============================================================================
// GROWTH RATES — period-over-period change with an absent-value policy
// ============================================================================
// growth = (current - previous) / previous * 100, rounded to 2 decimals.
// Growth is absent (not zero, not an error) when there is no previous
// period or the previous value is exactly 0. The same policy applies to
// every growth computation: MoM, YoY, per-product.
// ============================================================================

// SeriesPoint is one ordered observation of a time series.
type SeriesPoint struct {
	Period string
	Value  float64
}

// MonthlyRevenue sums order revenue per calendar month, ascending.
func MonthlyRevenue(snap *dataset.Snapshot) []SeriesPoint {
	byMonth := make(map[string]float64)
	for _, o := range snap.Orders {
		byMonth[monthKey(o.OrderDate)] += o.TotalAmount
	}
	return sortedSeries(byMonth)
}

// GrowthRates computes period-over-period growth for an ordered series.
// Output columns: period_key, value, previous_value (optional), growth_pct
// (optional).
func GrowthRates(name string, series []SeriesPoint) *engine.Recordset {
	set := engine.NewRecordset(name,
		engine.Dim("period_key"),
		engine.Num("value"),
		engine.OptNum("previous_value"),
		engine.OptNum("growth_pct"),
	)
	for _, pt := range series {
		r := engine.NewRecord()
		r.SetDim("period_key", pt.Period)
		r.SetNum("value", pt.Value)
		set.Append(r)
	}

	parts := engine.PartitionSort(set, nil, nil) // series arrives ordered
	for _, p := range parts {
		prev := engine.Lag(p, "value", 1)
		for i := 0; i < p.Len(); i++ {
			if !prev[i].Valid {
				continue
			}
			row := &set.Rows[p.SourceIndex(i)]
			row.SetNum("previous_value", prev[i].Value)
			if prev[i].Value == 0 {
				continue // undefined growth stays absent
			}
			cur, _ := row.Num("value")
			row.SetNum("growth_pct", engine.Round2((cur-prev[i].Value)/prev[i].Value*100))
		}
	}
	return set
}

// MonthOverMonth is monthly revenue growth for the whole snapshot.
func MonthOverMonth(snap *dataset.Snapshot) (*engine.Recordset, error) {
	return GrowthRates("revenue_growth_mom", MonthlyRevenue(snap)), nil
}

// YearOverYear compares each month's revenue to the same calendar month one
// year earlier. Months missing from the data yield absent growth, never an
// assumed zero. Output columns match GrowthRates.
func YearOverYear(snap *dataset.Snapshot) (*engine.Recordset, error) {
	series := MonthlyRevenue(snap)
	byPeriod := make(map[string]float64, len(series))
	for _, pt := range series {
		byPeriod[pt.Period] = pt.Value
	}

	set := engine.NewRecordset("revenue_growth_yoy",
		engine.Dim("period_key"),
		engine.Num("value"),
		engine.OptNum("previous_value"),
		engine.OptNum("growth_pct"),
	)
	for _, pt := range series {
		r := engine.NewRecord()
		r.SetDim("period_key", pt.Period)
		r.SetNum("value", pt.Value)
		if prev, ok := byPeriod[shiftYear(pt.Period)]; ok {
			r.SetNum("previous_value", prev)
			if prev != 0 {
				r.SetNum("growth_pct", engine.Round2((pt.Value-prev)/prev*100))
			}
		}
		set.Append(r)
	}
	return set, nil
}

// ProductMonthOverMonth computes monthly line-item revenue growth per
// product, each product its own partition. Output columns: product_id,
// period_key, value, previous_value (optional), growth_pct (optional).
func ProductMonthOverMonth(snap *dataset.Snapshot) (*engine.Recordset, error) {
	orderDates := make(map[string]string, len(snap.Orders))
	for _, o := range snap.Orders {
		orderDates[o.ID] = monthKey(o.OrderDate)
	}

	type key struct{ product, period string }
	byKey := make(map[key]float64)
	for _, it := range snap.Items {
		period, ok := orderDates[it.OrderID]
		if !ok {
			continue
		}
		byKey[key{it.ProductID, period}] += float64(it.Quantity) * it.UnitPrice
	}

	set := engine.NewRecordset("product_growth_mom",
		engine.Dim("product_id"),
		engine.Dim("period_key"),
		engine.Num("value"),
		engine.OptNum("previous_value"),
		engine.OptNum("growth_pct"),
	)
	keys := make([]key, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].product != keys[j].product {
			return keys[i].product < keys[j].product
		}
		return keys[i].period < keys[j].period
	})
	for _, k := range keys {
		r := engine.NewRecord()
		r.SetDim("product_id", k.product)
		r.SetDim("period_key", k.period)
		r.SetNum("value", byKey[k])
		set.Append(r)
	}

	parts := engine.PartitionSort(set, []string{"product_id"}, []engine.SortKey{engine.Asc("period_key")})
	for _, p := range parts {
		prev := engine.Lag(p, "value", 1)
		for i := 0; i < p.Len(); i++ {
			if !prev[i].Valid {
				continue
			}
			row := &set.Rows[p.SourceIndex(i)]
			row.SetNum("previous_value", prev[i].Value)
			if prev[i].Value != 0 {
				cur, _ := row.Num("value")
				row.SetNum("growth_pct", engine.Round2((cur-prev[i].Value)/prev[i].Value*100))
			}
		}
	}
	return set, nil
}

func sortedSeries(byPeriod map[string]float64) []SeriesPoint {
	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	out := make([]SeriesPoint, len(periods))
	for i, p := range periods {
		out[i] = SeriesPoint{Period: p, Value: byPeriod[p]}
	}
	return out
}

// shiftYear maps "2025-03" → "2024-03".
func shiftYear(period string) string {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return ""
	}
	return t.AddDate(-1, 0, 0).Format("2006-01")
}
