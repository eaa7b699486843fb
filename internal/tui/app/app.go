// Package app wires the console phases together: the startup probe,
// the chat transcript, and the unavailable screen.
package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ftorstensson/vibe-console/internal/config"
	"github.com/ftorstensson/vibe-console/internal/engine"
	"github.com/ftorstensson/vibe-console/internal/session"
	"github.com/ftorstensson/vibe-console/internal/tui"
	"github.com/ftorstensson/vibe-console/internal/tui/views"
)

// phase is the console's top-level screen. It follows the probe
// outcome: probing until the prober settles, then chat or unavailable
// for the rest of the session.
type phase int

const (
	phaseProbing phase = iota
	phaseChat
	phaseUnavailable
)

// nextGen numbers model generations across rebuilds.
var nextGen atomic.Int64

// Model is the root Bubble Tea model for the console.
type Model struct {
	cfg *config.Config

	// gen stamps every command this model starts. A rebuild leaves the
	// old model's commands pending in the program; their messages carry
	// the old generation and are dropped on arrival.
	gen tui.Gen

	// ctx is cancelled when this model is torn down, which aborts the
	// probe loop and any in-flight query stream.
	ctx    context.Context
	cancel context.CancelFunc

	phase   phase
	prober  *engine.Prober
	sess    *session.Session
	updates <-chan session.Snapshot

	chat views.ChatModel
	spin spinner.Model

	width  int
	height int
}

// New creates a fresh console model: new generation, new context, new
// session, probe not yet started. Ctrl+N and retry both build one of
// these from scratch, so every recovery path goes back through the
// probe.
func New(cfg *config.Config) *Model {
	ctx, cancel := context.WithCancel(context.Background())

	interval := time.Duration(cfg.Probe.IntervalMS) * time.Millisecond
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tui.AgentStyle

	return &Model{
		cfg:    cfg,
		gen:    tui.Gen(nextGen.Add(1)),
		ctx:    ctx,
		cancel: cancel,
		phase:  phaseProbing,
		prober: engine.NewProber(cfg.Service.BaseURL, cfg.Probe.MaxAttempts, interval),
		sess:   session.New(engine.NewClient(cfg.Service.BaseURL)),
		chat:   views.NewChat(80, 24),
		spin:   sp,
		width:  80,
		height: 24,
	}
}

// Init starts the probe loop in the background.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.chat.Init(), m.probeCmd())
}

// probeCmd runs the full probe loop and delivers its settled outcome.
func (m *Model) probeCmd() tea.Cmd {
	gen, prober, ctx := m.gen, m.prober, m.ctx
	return func() tea.Msg {
		return tui.ReadinessMsg{Gen: gen, State: prober.Run(ctx)}
	}
}

// waitSnapshot delivers the next transcript update from the in-flight
// query, or StreamDoneMsg once the stream is finished.
func waitSnapshot(gen tui.Gen, updates <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return tui.StreamDoneMsg{Gen: gen}
		}
		return tui.SnapshotMsg{Gen: gen, Snap: snap}
	}
}

// Update handles messages for the console.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyCtrlC:
			m.cancel()
			return m, tea.Quit
		case tui.KeyCtrlN:
			return m.rebuild()
		case tui.KeyRetry:
			if m.phase == phaseUnavailable {
				return m.rebuild()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tui.ReadinessMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		if msg.State == engine.ReadinessReady {
			m.phase = phaseChat
		} else {
			m.phase = phaseUnavailable
		}
		return m, nil

	case tui.SnapshotMsg:
		if msg.Gen != m.gen || m.updates == nil {
			return m, nil
		}
		m.chat = m.chat.SetTranscript(m.sess.Messages())
		return m, waitSnapshot(m.gen, m.updates)

	case tui.StreamDoneMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.updates = nil
		m.chat = m.chat.StopLoading().SetTranscript(m.sess.Messages())
		return m, nil

	case views.SubmitMsg:
		updates := m.sess.Submit(m.ctx, msg.Content)
		if updates == nil {
			return m, nil
		}
		m.updates = updates

		var cmd tea.Cmd
		m.chat, cmd = m.chat.StartLoading()
		m.chat = m.chat.SetTranscript(m.sess.Messages())
		return m, tea.Batch(cmd, waitSnapshot(m.gen, updates))

	case spinner.TickMsg:
		if m.phase == phaseProbing {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

// rebuild tears this model down and starts a fresh one: transcript
// cleared, context cancelled, new session, probe from scratch.
func (m *Model) rebuild() (tea.Model, tea.Cmd) {
	m.sess.Reset()
	m.cancel()

	nm := New(m.cfg)
	nm.width = m.width
	nm.height = m.height
	nm.chat, _ = nm.chat.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	return nm, nm.Init()
}

// View renders the screen for the current phase.
func (m *Model) View() string {
	switch m.phase {
	case phaseProbing:
		body := fmt.Sprintf("%s Waiting for the agent engine at %s ...",
			m.spin.View(), m.cfg.Service.BaseURL)
		return tui.BoxStyle.Width(m.width - 4).Render(
			tui.TitleStyle.Render("Vibe Console") + "\n\n" + body)

	case phaseUnavailable:
		body := tui.ErrorStyle.Render("The agent engine did not come up.") + "\n\n" +
			tui.DimStyle.Render(fmt.Sprintf("Checked %s without success.", m.cfg.Service.BaseURL)) + "\n\n" +
			tui.DimStyle.Render("r: Retry · Ctrl+C: Quit")
		return tui.BoxStyle.Width(m.width - 4).Render(
			tui.TitleStyle.Render("Vibe Console") + "\n\n" + body)

	default:
		return m.chat.View()
	}
}
