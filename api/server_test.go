package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pedro24681/sql-ecommerce-case-study/analytics"
	"github.com/Pedro24681/sql-ecommerce-case-study/config"
	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
	"github.com/Pedro24681/sql-ecommerce-case-study/report"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}
	snap := &dataset.Snapshot{
		Customers: []dataset.Customer{
			{ID: "c1", SignupDate: day("2024-01-01")},
			{ID: "c2", SignupDate: day("2024-01-01")},
		},
		Orders: []dataset.Order{
			{ID: "o1", CustomerID: "c1", OrderDate: day("2024-01-01"), TotalAmount: 100},
			{ID: "o2", CustomerID: "c1", OrderDate: day("2024-02-09"), TotalAmount: 50},
			{ID: "o3", CustomerID: "c2", OrderDate: day("2024-01-01"), TotalAmount: 500},
		},
		Items: []dataset.OrderItem{
			{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 1, UnitPrice: 100},
			{ID: "i2", OrderID: "o2", ProductID: "p2", Quantity: 1, UnitPrice: 50},
			{ID: "i3", OrderID: "o3", ProductID: "p1", Quantity: 5, UnitPrice: 100},
		},
	}
	clock := analytics.FixedClock(day("2024-04-09"))
	return NewServer(config.Default(), snap, clock)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) report.Envelope {
	t.Helper()
	var env report.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealthz(t *testing.T) {
	rec := get(t, testServer(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReportEndpoints(t *testing.T) {
	s := testServer(t)
	tests := []struct {
		path       string
		reportType string
	}{
		{"/api/reports/rfm", "rfm"},
		{"/api/reports/cohorts", "cohort_retention"},
		{"/api/reports/cohort-summary", "cohort_summary"},
		{"/api/reports/growth/mom", "revenue_growth_mom"},
		{"/api/reports/growth/yoy", "revenue_growth_yoy"},
		{"/api/reports/growth/products", "product_growth_mom"},
		{"/api/reports/churn", "churn_risk"},
		{"/api/reports/products", "product_revenue_rank"},
		{"/api/summary/daily", "daily_sales_summary"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, s, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			env := decodeEnvelope(t, rec)
			assert.Equal(t, tt.reportType, env.ReportType)
			assert.NotEmpty(t, env.RunID)
		})
	}
}

func TestBasketEndpointShape(t *testing.T) {
	rec := get(t, testServer(t), "/api/reports/basket")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Report        report.Envelope `json:"report"`
		TotalOrders   int             `json:"total_orders"`
		SkippedOrders int             `json:"skipped_orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "market_basket", body.Report.ReportType)
	assert.Equal(t, 3, body.TotalOrders)
	assert.Equal(t, 0, body.SkippedOrders)
}

func TestChurnHonorsAsOfParam(t *testing.T) {
	s := testServer(t)

	// With the pinned clock c1 last ordered 60 days ago.
	rec := get(t, s, "/api/reports/churn")
	env := decodeEnvelope(t, rec)
	recency := rowNum(t, env, "c1", "recency_days")
	assert.Equal(t, 60.0, recency)

	// An explicit as_of moves the reference point.
	rec = get(t, s, "/api/reports/churn?as_of=2024-02-10")
	env = decodeEnvelope(t, rec)
	assert.Equal(t, 1.0, rowNum(t, env, "c1", "recency_days"))
}

func TestDailySummaryDateParam(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/summary/daily?date=2024-01-01")
	env := decodeEnvelope(t, rec)
	require.Len(t, env.Rows, 1)
	assert.Equal(t, 600.0, env.Rows[0]["total_revenue"])

	rec = get(t, s, "/api/summary/daily?date=01/01/2024")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func rowNum(t *testing.T, env report.Envelope, customerID, field string) float64 {
	t.Helper()
	for _, row := range env.Rows {
		if row["customer_id"] == customerID {
			v, ok := row[field].(float64)
			require.True(t, ok, "field %s missing for %s", field, customerID)
			return v
		}
	}
	t.Fatalf("no row for customer %s", customerID)
	return 0
}
