package analytics

import (
	"time"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
	"github.com/Pedro24681/sql-ecommerce-case-study/engine"
)

// ============================================================================
// DAILY SALES SUMMARY
// ============================================================================

// DailySalesSummary aggregates one calendar day: total revenue, order
// count, average order value and the top category by line-item revenue.
// Output columns: date, total_revenue, total_orders, avg_order_value,
// top_category. avg_order_value is absent on a day with no orders; a day
// with no categorized items reports top_category "N/A".
func DailySalesSummary(snap *dataset.Snapshot, day time.Time) (*engine.Recordset, error) {
	y, m, d := day.Date()

	var revenue float64
	count := 0
	dayOrders := make(map[string]bool)
	for _, o := range snap.Orders {
		oy, om, od := o.OrderDate.Date()
		if oy == y && om == m && od == d {
			revenue += o.TotalAmount
			count++
			dayOrders[o.ID] = true
		}
	}

	products := snap.ProductByID()
	categories := snap.CategoryByID()
	byCategory := make(map[string]float64)
	for _, it := range snap.Items {
		if !dayOrders[it.OrderID] {
			continue
		}
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		label := p.CategoryID
		if c, ok := categories[p.CategoryID]; ok {
			label = c.Name
		}
		if label == "" {
			continue
		}
		byCategory[label] += float64(it.Quantity) * it.UnitPrice
	}

	top := "N/A"
	var best float64
	for label, rev := range byCategory {
		if rev > best || (rev == best && top != "N/A" && label < top) {
			top = label
			best = rev
		}
	}

	set := engine.NewRecordset("daily_sales_summary",
		engine.Dim("date"),
		engine.Num("total_revenue"),
		engine.Num("total_orders"),
		engine.OptNum("avg_order_value"),
		engine.Dim("top_category"),
	)
	r := engine.NewRecord()
	r.SetDim("date", day.Format("2006-01-02"))
	r.SetNum("total_revenue", revenue)
	r.SetNum("total_orders", float64(count))
	if count > 0 {
		r.SetNum("avg_order_value", engine.Round2(revenue/float64(count)))
	}
	r.SetDim("top_category", top)
	set.Append(r)
	return set, nil
}
