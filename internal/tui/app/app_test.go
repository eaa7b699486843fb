package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ftorstensson/vibe-console/internal/config"
	"github.com/ftorstensson/vibe-console/internal/engine"
	"github.com/ftorstensson/vibe-console/internal/session"
	"github.com/ftorstensson/vibe-console/internal/tui"
)

func testConfig(baseURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Service.BaseURL = baseURL
	cfg.Probe.MaxAttempts = 1
	cfg.Probe.IntervalMS = 1
	return cfg
}

// A rebuild leaves the old model's probe command pending in the
// program. Its outcome arrives carrying the old generation and must
// not move the fresh model off its own probe phase.
func TestRebuildDropsStaleReadiness(t *testing.T) {
	old := New(testConfig("http://localhost:0"))

	next, _ := old.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	nm, ok := next.(*Model)
	if !ok || nm == old {
		t.Fatal("ctrl+n must build a fresh model")
	}
	if nm.phase != phaseProbing {
		t.Fatalf("fresh model phase: got %v, want probing", nm.phase)
	}

	// The torn-down model's probe loop settles unavailable once its
	// context is cancelled.
	res, _ := nm.Update(tui.ReadinessMsg{Gen: old.gen, State: engine.ReadinessUnavailable})
	if res.(*Model).phase != phaseProbing {
		t.Error("stale readiness outcome changed the fresh model's phase")
	}

	// The fresh model's own outcome still lands.
	res2, _ := res.(*Model).Update(tui.ReadinessMsg{Gen: nm.gen, State: engine.ReadinessReady})
	if res2.(*Model).phase != phaseChat {
		t.Errorf("own readiness outcome: phase got %v, want chat", res2.(*Model).phase)
	}
}

// Snapshot messages from a previous generation, or arriving when no
// query is in flight, must be dropped without scheduling another wait.
func TestSnapshotGuards(t *testing.T) {
	m := New(testConfig("http://localhost:0"))
	m.phase = phaseChat

	res, cmd := m.Update(tui.SnapshotMsg{Gen: m.gen - 1, Snap: session.Snapshot{Content: "ghost"}})
	if cmd != nil {
		t.Error("stale snapshot must not schedule another wait")
	}

	_, cmd = res.(*Model).Update(tui.SnapshotMsg{Gen: m.gen, Snap: session.Snapshot{Content: "late"}})
	if cmd != nil {
		t.Error("snapshot without an in-flight query must not schedule a wait")
	}
}

func TestRebuildClearsOutgoingSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "{\"output\":\"answer\"}\n")
	}))
	defer srv.Close()

	m := New(testConfig(srv.URL))
	m.phase = phaseChat

	for range m.sess.Submit(m.ctx, "question") {
	}
	if len(m.sess.Messages()) == 0 {
		t.Fatal("fixture should have produced transcript state")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	nm := next.(*Model)

	if got := len(m.sess.Messages()); got != 0 {
		t.Errorf("outgoing session messages after rebuild: got %d, want 0", got)
	}
	if got := len(nm.sess.Messages()); got != 0 {
		t.Errorf("fresh session messages: got %d, want 0", got)
	}
}
