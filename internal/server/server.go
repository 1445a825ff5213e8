// Package server exposes the ordering service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/dretree/internal/service"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Options configures a Server. Zero values fall back to sensible defaults.
type Options struct {
	Logger      *slog.Logger
	CORSOrigins []string
	MetricsPath string
	// Registry receives the server metrics and backs the metrics endpoint.
	// A fresh registry is created when nil.
	Registry *prometheus.Registry
}

// Server is the reference ordering backend.
type Server struct {
	svc     service.OrderService
	logger  *slog.Logger
	metrics *metrics
	handler http.Handler
}

func New(svc service.OrderService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	s := &Server{
		svc:     svc,
		logger:  opts.Logger,
		metrics: newMetrics(opts.Registry),
	}

	r := mux.NewRouter()
	r.Use(s.withRequestID, s.withLogging, s.withMetrics)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/order/children", s.handleChildren).Methods(http.MethodGet)
	api.HandleFunc("/order/tree", s.handleOrderedTree).Methods(http.MethodGet)
	api.HandleFunc("/order/batch", s.handleBatch).Methods(http.MethodPost)
	api.HandleFunc("/order/normalize", s.handleNormalize).Methods(http.MethodPost)
	api.HandleFunc("/order/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/tree", s.handleTree).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle(opts.MetricsPath, promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, fmt.Errorf("%w: no route for %s", errRouteNotFound, r.URL.Path))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	s.handler = c.Handler(r)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. ready, when non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}
	s.logger.Info("server_listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		s.logger.Info("server_stopped")
		return nil
	}
}
