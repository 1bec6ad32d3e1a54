// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package observability serves Prometheus metrics, health probes and a JSON
// status snapshot for a running bridge.
package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// Endpoint paths.
const (
	PathMetrics   = "/metrics"
	PathLiveness  = "/healthz/liveness"
	PathReadiness = "/healthz/readiness"
	PathStatus    = "/status"
)

// Replay outcome label values.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Registrar registers a package's collectors, e.g. bridge.RegisterMetrics.
type Registrar func(prometheus.Registerer)

// Metrics contains process-level npcbridge metrics.
type Metrics struct {
	ReplaysTotal    *prometheus.CounterVec
	StatementsTotal prometheus.Counter
}

// NewMetrics creates and registers the process-level metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReplaysTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "npcbridge_replays_total",
			Help: "Total number of trace replays by outcome",
		}, []string{"outcome"}),
		StatementsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "npcbridge_replay_statements_total",
			Help: "Total number of trace statements applied",
		}),
	}
	reg.MustRegister(m.ReplaysTotal, m.StatementsTotal)
	return m
}

// RecordReplay counts one replay and the statements it applied.
func (m *Metrics) RecordReplay(statements int, err error) {
	outcome := OutcomeSucceeded
	if err != nil {
		outcome = OutcomeFailed
	}
	m.ReplaysTotal.WithLabelValues(outcome).Inc()
	m.StatementsTotal.Add(float64(statements))
}

// Option configures a Server.
type Option func(*Server)

// WithReadiness sets the readiness probe. Without one the server always
// reports ready.
func WithReadiness(ready func() bool) Option {
	return func(s *Server) { s.ready = ready }
}

// WithCollectors registers each package's collectors on the server registry.
func WithCollectors(registrars ...Registrar) Option {
	return func(s *Server) {
		for _, register := range registrars {
			register(s.registry)
		}
	}
}

// WithStatus serves the JSON encoding of snapshot() on /status.
func WithStatus(snapshot func() any) Option {
	return func(s *Server) { s.status = snapshot }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server serves the observability endpoints on its own registry.
type Server struct {
	addr     string
	registry *prometheus.Registry
	metrics  *Metrics
	ready    func() bool
	status   func() any
	logger   *slog.Logger

	listener net.Listener
	http     *http.Server
	running  atomic.Bool
}

// NewServer creates a server that will listen on addr, e.g. "127.0.0.1:9100"
// or ":0" for an ephemeral port.
func NewServer(addr string, opts ...Option) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		addr:     addr,
		registry: registry,
		metrics:  NewMetrics(registry),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the process-level metrics.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Registry returns the server's registry.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

// Handler returns the endpoint mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(PathMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.HandleFunc(PathLiveness, func(w http.ResponseWriter, _ *http.Request) {
		probe(w, true)
	})
	mux.HandleFunc(PathReadiness, func(w http.ResponseWriter, _ *http.Request) {
		probe(w, s.ready == nil || s.ready())
	})
	mux.HandleFunc(PathStatus, s.handleStatus)
	return mux
}

// Start listens and serves in the background. Serve errors are delivered on
// the returned channel, which is closed once serving ends.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.In("observability").Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.In("observability").With("addr", s.addr).Wrap(err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	s.listener, s.http = listener, srv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("observability server error", "error", err)
			errCh <- err
		}
	}()

	s.logger.Info("observability server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop shuts the server down. Stopping a server that is not running is a
// no-op.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if err := s.http.Shutdown(ctx); err != nil {
		s.running.Store(true)
		return oops.In("observability").With("addr", s.Addr()).Wrap(err)
	}
	s.logger.Info("observability server stopped")
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func probe(w http.ResponseWriter, ok bool) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		//nolint:errcheck // client may have gone away
		w.Write([]byte("not ready\n"))
		return
	}
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // client may have gone away
	w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.status == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.status()); err != nil {
		s.logger.WarnContext(r.Context(), "failed to encode status", "error", err)
	}
}
