package analytics

import (
	"context"
	"sort"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
	"github.com/Pedro24681/sql-ecommerce-case-study/engine"
)

// ============================================================================
// PRODUCT RANKINGS — per-category revenue leaderboards
// ============================================================================
// Each category is a partition ranked by line-item revenue descending.
// Rank columns come from the window operators; revenue_share_pct is the
// cross-partition grand-total reduction, so it is computed after the
// partition-sum barrier.
// ============================================================================

// ProductRevenueRank ranks products by revenue within their category.
// Output columns: category, product_id, product_name, revenue, rank,
// dense_rank, percent_rank, revenue_share_pct.
func ProductRevenueRank(ctx context.Context, snap *dataset.Snapshot, opts ...Option) (*engine.Recordset, error) {
	cfg := applyOptions(opts)

	revenue := make(map[string]float64)
	for _, it := range snap.Items {
		revenue[it.ProductID] += float64(it.Quantity) * it.UnitPrice
	}

	products := snap.ProductByID()
	categories := snap.CategoryByID()

	set := engine.NewRecordset("product_revenue_rank",
		engine.Dim("category"),
		engine.Dim("product_id"),
		engine.Dim("product_name"),
		engine.Num("revenue"),
		engine.Num("rank"),
		engine.Num("dense_rank"),
		engine.Num("percent_rank"),
		engine.OptNum("revenue_share_pct"),
	)

	ids := make([]string, 0, len(revenue))
	for id := range revenue {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		name, category := id, "uncategorized"
		if p, ok := products[id]; ok {
			name = p.Name
			if c, ok := categories[p.CategoryID]; ok {
				category = c.Name
			} else if p.CategoryID != "" {
				category = p.CategoryID
			}
		}
		r := engine.NewRecord()
		r.SetDim("category", category)
		r.SetDim("product_id", id)
		r.SetDim("product_name", name)
		r.SetNum("revenue", revenue[id])
		set.Append(r)
	}

	parts := engine.PartitionSort(set, []string{"category"}, []engine.SortKey{engine.DescNum("revenue")})

	// Rank family per partition — partitions are independent, fan out.
	err := engine.ForEachPartition(ctx, parts, cfg.Workers, func(p engine.Partition) error {
		ranks := engine.Rank(p)
		dense := engine.DenseRank(p)
		pct := engine.PercentRank(p)
		for i := 0; i < p.Len(); i++ {
			row := &set.Rows[p.SourceIndex(i)]
			row.SetNum("rank", float64(ranks[i]))
			row.SetNum("dense_rank", float64(dense[i]))
			row.SetNum("percent_rank", pct[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	shares, err := engine.PercentOfTotal(ctx, parts, "revenue", cfg.Workers)
	if err != nil {
		return nil, err
	}
	for n, p := range parts {
		for i := 0; i < p.Len(); i++ {
			if shares[n][i].Valid {
				set.Rows[p.SourceIndex(i)].SetNum("revenue_share_pct", shares[n][i].Value)
			}
		}
	}

	// Present rows grouped by category, best sellers first.
	ordered := engine.NewRecordset(set.Name, set.Columns...)
	for _, p := range parts {
		for i := 0; i < p.Len(); i++ {
			ordered.Append(p.Row(i))
		}
	}
	return ordered, nil
}
