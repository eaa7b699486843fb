// Package session owns the in-memory chat transcript for one console
// session and drives the streaming query pipeline against the engine.
package session

// Role identifies who a transcript message belongs to.
type Role string

const (
	RoleHuman Role = "human"
	RoleAgent Role = "agent"
)

// Author labels applied to agent messages.
const (
	// PendingAuthor marks the placeholder before the first fragment
	// arrives.
	PendingAuthor = "Thinking…"

	// DefaultAuthor is used while no stream record has carried an
	// author label. Once a record names an author, that name sticks
	// until a later record replaces it.
	DefaultAuthor = "Agent"

	// ErrorAuthor marks an agent message whose query failed.
	ErrorAuthor = "Error"
)

// Message is one entry of the transcript. IDs are unique within a
// session; content only grows while streaming, or is replaced wholesale
// with error text when the query fails.
type Message struct {
	ID      string
	Role    Role
	Content string
	Author  string
}

// Snapshot is the committed (content, author) state of the in-flight
// agent message after one stream record. Err is set on the final
// snapshot of a failed query.
type Snapshot struct {
	Content string
	Author  string
	Err     error
}
