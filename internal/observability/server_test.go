// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var client = &http.Client{
	Transport: &http.Transport{DisableKeepAlives: true},
	Timeout:   5 * time.Second,
}

// startServer starts s and stops it when the test ends.
func startServer(t *testing.T, s *Server) <-chan error {
	t.Helper()
	errCh, err := s.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return errCh
}

func get(t *testing.T, s *Server, path string) (int, string) {
	t.Helper()
	resp, err := client.Get("http://" + s.Addr() + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_Metrics(t *testing.T) {
	events := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_events_total", Help: "test"})
	server := NewServer("127.0.0.1:0", WithCollectors(func(reg prometheus.Registerer) {
		reg.MustRegister(events)
	}))
	startServer(t, server)
	require.NotEmpty(t, server.Addr())

	events.Add(3)
	server.Metrics().RecordReplay(5, nil)
	server.Metrics().RecordReplay(2, errors.New("boom"))

	status, body := get(t, server, PathMetrics)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "# HELP")
	assert.Contains(t, body, "go_")
	assert.Contains(t, body, "process_")
	assert.Contains(t, body, "test_events_total 3")
	assert.Contains(t, body, `npcbridge_replays_total{outcome="succeeded"} 1`)
	assert.Contains(t, body, `npcbridge_replays_total{outcome="failed"} 1`)
	assert.Contains(t, body, "npcbridge_replay_statements_total 7")
}

func TestServer_Health(t *testing.T) {
	tests := []struct {
		name       string
		ready      func() bool
		path       string
		wantStatus int
		wantBody   string
	}{
		{"liveness", nil, PathLiveness, http.StatusOK, "ok"},
		{"ready", func() bool { return true }, PathReadiness, http.StatusOK, "ok"},
		{"not ready", func() bool { return false }, PathReadiness, http.StatusServiceUnavailable, "not ready"},
		{"nil checker", nil, PathReadiness, http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer("127.0.0.1:0", WithReadiness(tt.ready))
			startServer(t, server)

			status, body := get(t, server, tt.path)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(body))
		})
	}
}

func TestServer_Status(t *testing.T) {
	type snapshot struct {
		NPCs int `json:"npcs"`
	}
	var live atomic.Int32
	live.Store(2)
	server := NewServer("127.0.0.1:0", WithStatus(func() any { return snapshot{NPCs: int(live.Load())} }))
	startServer(t, server)

	status, body := get(t, server, PathStatus)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"npcs":2}`, body)

	live.Store(0)
	_, body = get(t, server, PathStatus)
	assert.JSONEq(t, `{"npcs":0}`, body)
}

func TestServer_StatusNotConfigured(t *testing.T) {
	server := NewServer("127.0.0.1:0")
	startServer(t, server)

	status, _ := get(t, server, PathStatus)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestServer_Handler(t *testing.T) {
	server := NewServer("unused", WithReadiness(func() bool { return false }))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PathReadiness, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_DoubleStartFails(t *testing.T) {
	server := NewServer("127.0.0.1:0")
	startServer(t, server)

	_, err := server.Start()
	assert.Error(t, err)
}

func TestServer_StartFailsOnBadAddress(t *testing.T) {
	server := NewServer("not-an-address")
	_, err := server.Start()
	require.Error(t, err)

	_, err = server.Start()
	assert.Error(t, err, "failed start leaves the server stopped")
}

func TestServer_StopIdempotent(t *testing.T) {
	server := NewServer("127.0.0.1:0")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, server.Stop(ctx))
	assert.Empty(t, server.Addr())
}

func TestServer_ErrorChannelReportsServeErrors(t *testing.T) {
	server := NewServer("127.0.0.1:0")
	errCh := startServer(t, server)

	// Closing the listener makes Serve fail.
	require.NotNil(t, server.listener)
	_ = server.listener.Close()

	select {
	case serveErr := <-errCh:
		assert.Error(t, serveErr)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error on error channel")
	}
}

func TestServer_StopLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	server := NewServer("127.0.0.1:0")
	errCh, err := server.Start()
	require.NoError(t, err)

	status, _ := get(t, server, PathLiveness)
	assert.Equal(t, http.StatusOK, status)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))

	select {
	case err, ok := <-errCh:
		assert.False(t, ok && err != nil, "unexpected error on normal shutdown: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error channel to close")
	}
}
