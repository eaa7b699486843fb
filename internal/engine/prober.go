// Package engine talks to the remote Vibe agent engine: startup
// readiness probing and the streaming query transport.
// This file implements the readiness probe loop that gates queries.
package engine

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Readiness is the outcome of the startup probe loop. It starts at
// Checking and settles exactly once, on either Ready or Unavailable.
type Readiness int

const (
	ReadinessChecking Readiness = iota
	ReadinessReady
	ReadinessUnavailable
)

// String returns a display-friendly label for the readiness state.
func (r Readiness) String() string {
	switch r {
	case ReadinessChecking:
		return "checking"
	case ReadinessReady:
		return "ready"
	case ReadinessUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Default probe budget: 60 attempts, 2 s apart, i.e. about two minutes
// for a cold engine to come up.
const (
	DefaultProbeAttempts = 60
	DefaultProbeInterval = 2 * time.Second

	probeRequestTimeout = 5 * time.Second
)

// Prober decides whether the engine is up before any query is allowed.
//
// The engine deliberately serves no handler at its root path, so a 404
// from the base URL is the one status that proves the process is up and
// routing requests. Any other status, and any transport-level failure,
// counts as "not yet ready".
type Prober struct {
	baseURL     string
	client      *http.Client
	maxAttempts int
	interval    time.Duration

	// sleep waits between attempts; swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewProber creates a Prober for the engine at baseURL. Non-positive
// maxAttempts or interval fall back to the defaults.
func NewProber(baseURL string, maxAttempts int, interval time.Duration) *Prober {
	if maxAttempts <= 0 {
		maxAttempts = DefaultProbeAttempts
	}
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Prober{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: probeRequestTimeout},
		maxAttempts: maxAttempts,
		interval:    interval,
		sleep:       sleepCtx,
	}
}

// ProbeOnce performs a single GET against the engine root and reports
// whether it answered with the 404 sentinel. Failures of any kind are
// swallowed and logged for diagnostics only; they never propagate.
func (p *Prober) ProbeOnce(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		log.Debug().Err(err).Str("url", p.baseURL).Msg("building probe request failed")
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("probe attempt failed")
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusNotFound
}

// Run probes until the first success or until the attempt budget runs
// out, sleeping between attempts. It runs once per session, before any
// query is submitted; a settled outcome is never revisited, so the only
// recovery from Unavailable is a full console restart.
func (p *Prober) Run(ctx context.Context) Readiness {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if p.ProbeOnce(ctx) {
			log.Info().Int("attempt", attempt).Msg("engine ready")
			return ReadinessReady
		}
		if attempt < p.maxAttempts {
			if err := p.sleep(ctx, p.interval); err != nil {
				log.Debug().Err(err).Msg("probe loop cancelled")
				return ReadinessUnavailable
			}
		}
	}

	log.Warn().
		Int("attempts", p.maxAttempts).
		Str("url", p.baseURL).
		Msg("engine unavailable, probe budget exhausted")
	return ReadinessUnavailable
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
