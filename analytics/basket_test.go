package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
)

func basketSnapshot() *dataset.Snapshot {
	return &dataset.Snapshot{
		Orders: []dataset.Order{
			{ID: "o1", CustomerID: "c1", OrderDate: day("2024-01-01"), TotalAmount: 10},
			{ID: "o2", CustomerID: "c1", OrderDate: day("2024-01-02"), TotalAmount: 10},
			{ID: "o3", CustomerID: "c2", OrderDate: day("2024-01-03"), TotalAmount: 10},
			{ID: "o4", CustomerID: "c2", OrderDate: day("2024-01-04"), TotalAmount: 10},
		},
		Items: []dataset.OrderItem{
			// o1 has p1 twice; the pair still counts once for this order.
			{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 1, UnitPrice: 1},
			{ID: "i2", OrderID: "o1", ProductID: "p1", Quantity: 2, UnitPrice: 1},
			{ID: "i3", OrderID: "o1", ProductID: "p2", Quantity: 1, UnitPrice: 1},
			// o2 lists the pair in the opposite order.
			{ID: "i4", OrderID: "o2", ProductID: "p2", Quantity: 1, UnitPrice: 1},
			{ID: "i5", OrderID: "o2", ProductID: "p1", Quantity: 1, UnitPrice: 1},
			{ID: "i6", OrderID: "o3", ProductID: "p1", Quantity: 1, UnitPrice: 1},
			{ID: "i7", OrderID: "o3", ProductID: "p2", Quantity: 1, UnitPrice: 1},
			// (p1,p3) appears once, below the default support of 3.
			{ID: "i8", OrderID: "o4", ProductID: "p3", Quantity: 1, UnitPrice: 1},
			{ID: "i9", OrderID: "o4", ProductID: "p1", Quantity: 1, UnitPrice: 1},
		},
	}
}

func TestMarketBasket_CanonicalPairsAndSupport(t *testing.T) {
	res, err := MarketBasket(basketSnapshot())
	require.NoError(t, err)

	require.Equal(t, 1, res.Set.Len(), "pairs below min support are dropped")
	r := res.Set.Rows[0]
	assert.Equal(t, "p1", r.Dim("product_id_low"))
	assert.Equal(t, "p2", r.Dim("product_id_high"))
	assert.Equal(t, 3.0, mustNum(t, r, "co_occurrence_count"))
	assert.Equal(t, 75.0, mustNum(t, r, "pct_of_all_orders"))
	assert.Equal(t, 4, res.TotalOrders)
	assert.Equal(t, 0, res.SkippedOrders)
}

func TestMarketBasket_MinSupportOption(t *testing.T) {
	res, err := MarketBasket(basketSnapshot(), WithMinSupport(1))
	require.NoError(t, err)
	require.Equal(t, 2, res.Set.Len())

	// Ordered by count desc, then pair ids asc.
	assert.Equal(t, "p2", res.Set.Rows[0].Dim("product_id_high"))
	assert.Equal(t, "p3", res.Set.Rows[1].Dim("product_id_high"))
	assert.Equal(t, 25.0, mustNum(t, res.Set.Rows[1], "pct_of_all_orders"))
}

func TestMarketBasket_OversizedOrdersSkipped(t *testing.T) {
	snap := basketSnapshot()
	// A fifth order with more distinct products than the cap allows.
	snap.Orders = append(snap.Orders, dataset.Order{ID: "o5", CustomerID: "c3", OrderDate: day("2024-01-05"), TotalAmount: 10})
	for i := 0; i < 4; i++ {
		snap.Items = append(snap.Items, dataset.OrderItem{
			ID:        fmt.Sprintf("big%d", i),
			OrderID:   "o5",
			ProductID: fmt.Sprintf("bulk-p%d", i),
			Quantity:  1,
			UnitPrice: 1,
		})
	}

	res, err := MarketBasket(snap, WithMaxLineItems(3))
	require.NoError(t, err)
	assert.Equal(t, 1, res.SkippedOrders)
	assert.Equal(t, 5, res.TotalOrders)

	// The skipped order contributes no pairs but stays in the denominator.
	require.Equal(t, 1, res.Set.Len())
	assert.Equal(t, 60.0, mustNum(t, res.Set.Rows[0], "pct_of_all_orders"))
}

func TestMarketBasket_SingleProductOrdersIgnored(t *testing.T) {
	snap := &dataset.Snapshot{
		Orders: []dataset.Order{{ID: "o1", CustomerID: "c1", OrderDate: day("2024-01-01"), TotalAmount: 5}},
		Items:  []dataset.OrderItem{{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 1, UnitPrice: 5}},
	}
	res, err := MarketBasket(snap, WithMinSupport(1))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Set.Len())
	assert.Equal(t, 0, res.SkippedOrders)
}
