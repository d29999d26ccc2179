package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Pedro24681/sql-ecommerce-case-study/analytics"
	"github.com/Pedro24681/sql-ecommerce-case-study/engine"
	"github.com/Pedro24681/sql-ecommerce-case-study/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRFM(w http.ResponseWriter, r *http.Request) {
	set, err := analytics.RFM(r.Context(), s.snap, s.asOf(r),
		analytics.WithWorkers(s.cfg.Engine.Workers),
		analytics.WithScoreBuckets(s.cfg.RFM.ScoreBuckets),
	)
	s.respond(w, set, err)
}

func (s *Server) handleCohorts(w http.ResponseWriter, r *http.Request) {
	set, err := analytics.CohortRetention(s.snap)
	s.respond(w, set, err)
}

func (s *Server) handleCohortSummary(w http.ResponseWriter, r *http.Request) {
	set, err := analytics.CohortSummary(s.snap)
	s.respond(w, set, err)
}

func (s *Server) handleGrowthMoM(w http.ResponseWriter, r *http.Request) {
	set, err := analytics.MonthOverMonth(s.snap)
	s.respond(w, set, err)
}

func (s *Server) handleGrowthYoY(w http.ResponseWriter, r *http.Request) {
	set, err := analytics.YearOverYear(s.snap)
	s.respond(w, set, err)
}

func (s *Server) handleProductGrowth(w http.ResponseWriter, r *http.Request) {
	set, err := analytics.ProductMonthOverMonth(s.snap)
	s.respond(w, set, err)
}

func (s *Server) handleBasket(w http.ResponseWriter, r *http.Request) {
	result, err := analytics.MarketBasket(s.snap,
		analytics.WithMinSupport(s.cfg.Basket.MinSupport),
		analytics.WithMaxLineItems(s.cfg.Basket.MaxLineItems),
	)
	if err != nil {
		s.fail(w, err)
		return
	}
	env := report.NewEnvelope(result.Set, s.clock.Now())
	writeJSON(w, http.StatusOK, map[string]any{
		"report":         env,
		"total_orders":   result.TotalOrders,
		"skipped_orders": result.SkippedOrders,
	})
}

func (s *Server) handleChurn(w http.ResponseWriter, r *http.Request) {
	set, err := analytics.ChurnRisk(s.snap, s.asOf(r))
	s.respond(w, set, err)
}

func (s *Server) handleProductRank(w http.ResponseWriter, r *http.Request) {
	set, err := analytics.ProductRevenueRank(r.Context(), s.snap,
		analytics.WithWorkers(s.cfg.Engine.Workers))
	s.respond(w, set, err)
}

func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	day := s.asOf(r)
	if raw := r.URL.Query().Get("date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = t
	}
	set, err := analytics.DailySalesSummary(s.snap, day)
	s.respond(w, set, err)
}

// asOf resolves the reference time: an explicit as_of query parameter wins,
// otherwise the injected clock.
func (s *Server) asOf(r *http.Request) time.Time {
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return s.clock.Now()
}

func (s *Server) respond(w http.ResponseWriter, set *engine.Recordset, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.NewEnvelope(set, s.clock.Now()))
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	slog.Error("report computation failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
