package analytics

import (
	"sort"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
	"github.com/Pedro24681/sql-ecommerce-case-study/engine"
)

// ============================================================================
// COHORT RETENTION — monthly acquisition cohorts
// ============================================================================
// A customer's cohort month is the calendar month of their earliest order
// and never changes as later orders arrive. months_since_cohort is a plain
// month-count difference, so retention at month 0 is exactly 100%.
// ============================================================================

// CohortRetention builds the (cohort_month, months_since_cohort) grid.
// Output columns: cohort_month, months_since_cohort, cohort_size,
// active_customers, retention_rate_pct, revenue.
func CohortRetention(snap *dataset.Snapshot) (*engine.Recordset, error) {
	cohorts := cohortByCustomer(snap)

	// cohort month → size
	sizes := make(map[int]int)
	for _, cohortIdx := range cohorts {
		sizes[cohortIdx]++
	}

	type cell struct {
		active  map[string]bool
		revenue float64
	}
	grid := make(map[int]map[int]*cell)
	for _, o := range snap.Orders {
		cohortIdx, ok := cohorts[o.CustomerID]
		if !ok {
			continue
		}
		since := monthIndex(o.OrderDate) - cohortIdx
		if grid[cohortIdx] == nil {
			grid[cohortIdx] = make(map[int]*cell)
		}
		c := grid[cohortIdx][since]
		if c == nil {
			c = &cell{active: make(map[string]bool)}
			grid[cohortIdx][since] = c
		}
		c.active[o.CustomerID] = true
		c.revenue += o.TotalAmount
	}

	set := engine.NewRecordset("cohort_retention",
		engine.Dim("cohort_month"),
		engine.Num("months_since_cohort"),
		engine.Num("cohort_size"),
		engine.Num("active_customers"),
		engine.Num("retention_rate_pct"),
		engine.Num("revenue"),
	)

	cohortOrder := make([]int, 0, len(grid))
	for k := range grid {
		cohortOrder = append(cohortOrder, k)
	}
	sort.Ints(cohortOrder)

	for _, cohortIdx := range cohortOrder {
		cells := grid[cohortIdx]
		months := make([]int, 0, len(cells))
		for m := range cells {
			months = append(months, m)
		}
		sort.Ints(months)
		for _, m := range months {
			c := cells[m]
			size := sizes[cohortIdx]
			r := engine.NewRecord()
			r.SetDim("cohort_month", monthKeyFromIndex(cohortIdx))
			r.SetNum("months_since_cohort", float64(m))
			r.SetNum("cohort_size", float64(size))
			r.SetNum("active_customers", float64(len(c.active)))
			r.SetNum("retention_rate_pct", engine.Round2(float64(len(c.active))/float64(size)*100))
			r.SetNum("revenue", c.revenue)
			set.Append(r)
		}
	}
	return set, nil
}

// CohortSummary reports one row per cohort month: acquisition count,
// first-month revenue, a running total of customers acquired so far, and
// next-month retention. Output columns: cohort_month, new_customers,
// first_month_revenue, running_total_customers, next_month_retention_pct.
func CohortSummary(snap *dataset.Snapshot) (*engine.Recordset, error) {
	grid, err := CohortRetention(snap)
	if err != nil {
		return nil, err
	}

	set := engine.NewRecordset("cohort_summary",
		engine.Dim("cohort_month"),
		engine.Num("new_customers"),
		engine.Num("first_month_revenue"),
		engine.Num("running_total_customers"),
		engine.Num("next_month_retention_pct"),
	)

	for _, r := range grid.Rows {
		since, _ := r.Num("months_since_cohort")
		if since != 0 {
			continue
		}
		size, _ := r.Num("cohort_size")
		revenue, _ := r.Num("revenue")
		row := engine.NewRecord()
		row.SetDim("cohort_month", r.Dim("cohort_month"))
		row.SetNum("new_customers", size)
		row.SetNum("first_month_revenue", revenue)
		row.SetNum("next_month_retention_pct", nextMonthRetention(grid, r.Dim("cohort_month"), size))
		set.Append(row)
	}

	// Cumulative acquisition across cohorts in chronological order.
	parts := engine.PartitionSort(set, nil, []engine.SortKey{engine.Asc("cohort_month")})
	for _, p := range parts {
		running := engine.Running(p, "new_customers", engine.AggSum)
		for i := 0; i < p.Len(); i++ {
			if running[i].Valid {
				set.Rows[p.SourceIndex(i)].SetNum("running_total_customers", running[i].Value)
			}
		}
	}
	return set, nil
}

func nextMonthRetention(grid *engine.Recordset, cohortMonth string, size float64) float64 {
	for _, r := range grid.Rows {
		if r.Dim("cohort_month") != cohortMonth {
			continue
		}
		if since, _ := r.Num("months_since_cohort"); since == 1 {
			active, _ := r.Num("active_customers")
			return engine.Round2(active / size * 100)
		}
	}
	return 0
}

// cohortByCustomer maps customer id → linear month index of earliest order.
func cohortByCustomer(snap *dataset.Snapshot) map[string]int {
	out := make(map[string]int, len(snap.Customers))
	first := make(map[string]bool, len(snap.Customers))
	for _, o := range snap.Orders {
		idx := monthIndex(o.OrderDate)
		if !first[o.CustomerID] || idx < out[o.CustomerID] {
			out[o.CustomerID] = idx
			first[o.CustomerID] = true
		}
	}
	return out
}
