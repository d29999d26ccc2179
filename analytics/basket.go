package analytics

import (
	"sort"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
	"github.com/Pedro24681/sql-ecommerce-case-study/engine"
)

// ============================================================================
// MARKET BASKET — product pair co-occurrence per distinct order
// ============================================================================
// Pairs are canonicalized as (lower id, higher id) so (A,B) and (B,A) are
// one pair, and each pair counts once per order no matter how many line
// items repeat it. Orders whose distinct-product count exceeds the cap are
// skipped for basket analysis only and reported in SkippedOrders; they
// still count in the pct_of_all_orders denominator.
// ============================================================================

// BasketResult carries the pair recordset plus the resource-policy counts.
type BasketResult struct {
	Set           *engine.Recordset
	TotalOrders   int
	SkippedOrders int
}

// MarketBasket counts canonical product pairs across all orders and keeps
// pairs meeting the minimum support. Output columns: product_id_low,
// product_id_high, co_occurrence_count, pct_of_all_orders. Rows are ordered
// by count descending, then pair ids ascending.
func MarketBasket(snap *dataset.Snapshot, opts ...Option) (*BasketResult, error) {
	cfg := applyOptions(opts)

	type pair struct{ low, high string }
	counts := make(map[pair]int)
	skipped := 0

	itemsByOrder := snap.ItemsByOrder()
	for _, o := range snap.Orders {
		distinct := make(map[string]bool)
		for _, it := range itemsByOrder[o.ID] {
			distinct[it.ProductID] = true
		}
		if len(distinct) < 2 {
			continue
		}
		if len(distinct) > cfg.MaxLineItems {
			skipped++
			continue
		}

		products := make([]string, 0, len(distinct))
		for p := range distinct {
			products = append(products, p)
		}
		sort.Strings(products)
		for i := 0; i < len(products); i++ {
			for j := i + 1; j < len(products); j++ {
				counts[pair{products[i], products[j]}]++
			}
		}
	}

	total := len(snap.Orders)
	pairs := make([]pair, 0, len(counts))
	for p, c := range counts {
		if c >= cfg.MinSupport {
			pairs = append(pairs, p)
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if counts[pairs[a]] != counts[pairs[b]] {
			return counts[pairs[a]] > counts[pairs[b]]
		}
		if pairs[a].low != pairs[b].low {
			return pairs[a].low < pairs[b].low
		}
		return pairs[a].high < pairs[b].high
	})

	set := engine.NewRecordset("market_basket",
		engine.Dim("product_id_low"),
		engine.Dim("product_id_high"),
		engine.Num("co_occurrence_count"),
		engine.Num("pct_of_all_orders"),
	)
	for _, p := range pairs {
		r := engine.NewRecord()
		r.SetDim("product_id_low", p.low)
		r.SetDim("product_id_high", p.high)
		r.SetNum("co_occurrence_count", float64(counts[p]))
		r.SetNum("pct_of_all_orders", engine.Round2(float64(counts[p])/float64(total)*100))
		set.Append(r)
	}

	return &BasketResult{Set: set, TotalOrders: total, SkippedOrders: skipped}, nil
}
