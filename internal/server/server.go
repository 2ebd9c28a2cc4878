// Package server exposes login, order fetching and dashboard computation
// over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/foodspend/internal/aggregator"
	"github.com/chrisdamba/foodspend/internal/swiggy"
)

// Upstream is the delivery platform as seen by the handlers.
type Upstream interface {
	SendOTP(ctx context.Context, mobile string) (string, error)
	VerifyOTP(ctx context.Context, mobile, otp, deviceID string) (string, error)
	FetchOrders(ctx context.Context, token string, onPage swiggy.PageFunc) (*swiggy.FetchResult, error)
}

type Server struct {
	upstream   Upstream
	aggregator *aggregator.Aggregator
	logger     logrus.FieldLogger
	router     *chi.Mux
}

func New(upstream Upstream, agg *aggregator.Aggregator, logger logrus.FieldLogger) *Server {
	s := &Server{
		upstream:   upstream,
		aggregator: agg,
		logger:     logger,
		router:     chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(5 * time.Minute))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/send-otp", s.handleSendOTP)
		r.Post("/auth/verify-otp", s.handleVerifyOTP)
		r.Post("/orders", s.handleOrders)
		r.Post("/dashboard", s.handleDashboard)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
