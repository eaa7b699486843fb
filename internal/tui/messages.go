package tui

import (
	"github.com/ftorstensson/vibe-console/internal/engine"
	"github.com/ftorstensson/vibe-console/internal/session"
)

// Gen identifies which console model a message belongs to. Commands
// started by a torn-down model keep running inside the same program,
// so their messages carry the generation that issued them and are
// dropped when they reach a newer model.
type Gen int64

// ReadinessMsg carries the settled outcome of the startup probe loop.
type ReadinessMsg struct {
	Gen   Gen
	State engine.Readiness
}

// SnapshotMsg carries one committed transcript update from an in-flight
// query.
type SnapshotMsg struct {
	Gen  Gen
	Snap session.Snapshot
}

// StreamDoneMsg signals that the current query's update channel closed.
type StreamDoneMsg struct {
	Gen Gen
}
