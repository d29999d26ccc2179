package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Pedro24681/sql-ecommerce-case-study/analytics"
	"github.com/Pedro24681/sql-ecommerce-case-study/config"
	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
)

// Server exposes the computed reports over HTTP. It serves a single
// immutable snapshot; there is no mutation surface.
type Server struct {
	cfg    config.Config
	snap   *dataset.Snapshot
	clock  analytics.ReferenceClock
	router *chi.Mux
	srv    *http.Server
}

// NewServer wires the routes for a snapshot.
func NewServer(cfg config.Config, snap *dataset.Snapshot, clock analytics.ReferenceClock) *Server {
	s := &Server{cfg: cfg, snap: snap, clock: clock, router: chi.NewRouter()}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api/reports", func(r chi.Router) {
		r.Get("/rfm", s.handleRFM)
		r.Get("/cohorts", s.handleCohorts)
		r.Get("/cohort-summary", s.handleCohortSummary)
		r.Get("/growth/mom", s.handleGrowthMoM)
		r.Get("/growth/yoy", s.handleGrowthYoY)
		r.Get("/growth/products", s.handleProductGrowth)
		r.Get("/basket", s.handleBasket)
		r.Get("/churn", s.handleChurn)
		r.Get("/products", s.handleProductRank)
	})
	s.router.Get("/api/summary/daily", s.handleDailySummary)

	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start runs the server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.cfg.API.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("report API listening", "addr", s.cfg.API.ListenAddr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
