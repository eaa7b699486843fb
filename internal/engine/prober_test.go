package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestProbeOnceSentinelStatus(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   bool
	}{
		{"not found sentinel", http.StatusNotFound, true},
		{"ok", http.StatusOK, false},
		{"server error", http.StatusInternalServerError, false},
		{"service unavailable", http.StatusServiceUnavailable, false},
		{"forbidden", http.StatusForbidden, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			p := NewProber(srv.URL, 1, time.Millisecond)
			if got := p.ProbeOnce(context.Background()); got != tc.want {
				t.Errorf("ProbeOnce with status %d: got %v, want %v", tc.status, got, tc.want)
			}
		})
	}
}

func TestProbeOnceTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	p := NewProber(url, 1, time.Millisecond)
	if p.ProbeOnce(context.Background()) {
		t.Error("ProbeOnce should report false on transport failure, got true")
	}
}

func TestRunShortCircuitsOnFirstSuccess(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewProber(srv.URL, 3, time.Millisecond)
	sleeps := 0
	p.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}

	if state := p.Run(context.Background()); state != ReadinessReady {
		t.Fatalf("Run: got %v, want ready", state)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("probe attempts: got %d, want 3", got)
	}
	if sleeps != 2 {
		t.Errorf("inter-attempt sleeps: got %d, want 2", sleeps)
	}
}

func TestRunExhaustsBudget(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProber(srv.URL, 4, time.Millisecond)
	sleeps := 0
	p.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}

	if state := p.Run(context.Background()); state != ReadinessUnavailable {
		t.Fatalf("Run: got %v, want unavailable", state)
	}
	if got := atomic.LoadInt32(&attempts); got != 4 {
		t.Errorf("probe attempts: got %d, want exactly 4", got)
	}
	if sleeps != 3 {
		t.Errorf("inter-attempt sleeps: got %d, want 3", sleeps)
	}
}

func TestRunCancelledDuringSleep(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	p := NewProber(srv.URL, 10, time.Hour)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	if state := p.Run(ctx); state != ReadinessUnavailable {
		t.Errorf("Run after cancellation: got %v, want unavailable", state)
	}
}

func TestReadinessString(t *testing.T) {
	cases := map[Readiness]string{
		ReadinessChecking:    "checking",
		ReadinessReady:       "ready",
		ReadinessUnavailable: "unavailable",
		Readiness(42):        "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("Readiness(%d).String(): got %q, want %q", state, got, want)
		}
	}
}
