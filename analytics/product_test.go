package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
)

func productSnapshot() *dataset.Snapshot {
	return &dataset.Snapshot{
		Orders: []dataset.Order{
			{ID: "o1", CustomerID: "c1", OrderDate: day("2024-01-01"), TotalAmount: 0},
		},
		Items: []dataset.OrderItem{
			{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 2, UnitPrice: 50}, // 100
			{ID: "i2", OrderID: "o1", ProductID: "p2", Quantity: 1, UnitPrice: 100},
			{ID: "i3", OrderID: "o1", ProductID: "p3", Quantity: 1, UnitPrice: 40},
			{ID: "i4", OrderID: "o1", ProductID: "p4", Quantity: 1, UnitPrice: 160},
		},
		Products: []dataset.Product{
			{ID: "p1", Name: "Keyboard", CategoryID: "cat1"},
			{ID: "p2", Name: "Mouse", CategoryID: "cat1"},
			{ID: "p3", Name: "Cable", CategoryID: "cat1"},
			{ID: "p4", Name: "Desk", CategoryID: "cat2"},
		},
		Categories: []dataset.Category{
			{ID: "cat1", Name: "Electronics"},
			{ID: "cat2", Name: "Furniture"},
		},
	}
}

func TestProductRevenueRank(t *testing.T) {
	set, err := ProductRevenueRank(context.Background(), productSnapshot())
	require.NoError(t, err)
	require.Equal(t, 4, set.Len())

	byProduct := make(map[string]int)
	for i, r := range set.Rows {
		byProduct[r.Dim("product_id")] = i
	}

	// Electronics: p1 and p2 tie at 100, p3 trails.
	p1 := set.Rows[byProduct["p1"]]
	p2 := set.Rows[byProduct["p2"]]
	p3 := set.Rows[byProduct["p3"]]
	assert.Equal(t, "Electronics", p1.Dim("category"))
	assert.Equal(t, 1.0, mustNum(t, p1, "rank"))
	assert.Equal(t, 1.0, mustNum(t, p2, "rank"))
	assert.Equal(t, 3.0, mustNum(t, p3, "rank"))
	assert.Equal(t, 2.0, mustNum(t, p3, "dense_rank"))
	assert.Equal(t, 1.0, mustNum(t, p3, "percent_rank"))

	// Furniture has one product: percent_rank defined as 0, rank 1.
	p4 := set.Rows[byProduct["p4"]]
	assert.Equal(t, "Furniture", p4.Dim("category"))
	assert.Equal(t, 1.0, mustNum(t, p4, "rank"))
	assert.Equal(t, 0.0, mustNum(t, p4, "percent_rank"))

	// Shares are against the grand total (400), independent of category.
	assert.Equal(t, 25.0, mustNum(t, p1, "revenue_share_pct"))
	assert.Equal(t, 40.0, mustNum(t, p4, "revenue_share_pct"))

	var total float64
	for _, r := range set.Rows {
		total += mustNum(t, r, "revenue_share_pct")
	}
	assert.InDelta(t, 100.0, total, 0.05)
}

func TestProductRevenueRank_RowsGroupedByCategory(t *testing.T) {
	set, err := ProductRevenueRank(context.Background(), productSnapshot())
	require.NoError(t, err)

	// Within a category, best sellers come first.
	var last string
	seen := make(map[string]bool)
	for _, r := range set.Rows {
		cat := r.Dim("category")
		if cat != last {
			assert.False(t, seen[cat], "category %s split across the output", cat)
			seen[cat] = true
			last = cat
		}
	}
}

func TestProductRevenueRank_UnknownProductFallsBack(t *testing.T) {
	snap := productSnapshot()
	snap.Items = append(snap.Items, dataset.OrderItem{ID: "i5", OrderID: "o1", ProductID: "ghost", Quantity: 1, UnitPrice: 10})

	set, err := ProductRevenueRank(context.Background(), snap)
	require.NoError(t, err)

	found := false
	for _, r := range set.Rows {
		if r.Dim("product_id") == "ghost" {
			found = true
			assert.Equal(t, "uncategorized", r.Dim("category"))
			assert.Equal(t, "ghost", r.Dim("product_name"))
		}
	}
	assert.True(t, found)
}
