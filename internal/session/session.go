package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ftorstensson/vibe-console/internal/engine"
)

// errText is shown in place of the answer when a query fails. Failures
// surface as ordinary chat content, never as a separate alert channel.
const errText = "Something went wrong while talking to the agent engine. Please try again."

// Session holds the transcript and the display snapshot for one
// console session. At most one query runs at a time by convention (the
// UI disables submission while loading); the mutex makes each
// (content, author) commit atomic with respect to readers.
type Session struct {
	client *engine.Client

	mu       sync.Mutex
	messages []Message
	display  string
}

// New creates an empty Session backed by the given engine client.
func New(client *engine.Client) *Session {
	return &Session{client: client}
}

// Submit runs one query. The human message and the agent placeholder
// are appended before any network activity, so the transcript reflects
// the pending state immediately. The returned channel yields a
// Snapshot after every committed update and is closed when the query
// completes or fails. A whitespace-only query returns nil with no
// state change and no request.
func (s *Session) Submit(ctx context.Context, text string) <-chan Snapshot {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	humanID := uuid.New().String()
	agentID := uuid.New().String()

	s.mu.Lock()
	s.messages = append(s.messages,
		Message{ID: humanID, Role: RoleHuman, Content: text},
		Message{ID: agentID, Role: RoleAgent, Author: PendingAuthor},
	)
	s.mu.Unlock()

	updates := make(chan Snapshot, 1)
	go s.stream(ctx, text, agentID, updates)
	return updates
}

// stream consumes one query's response, appending each fragment to the
// accumulator and committing the running (content, author) pair to the
// placeholder message. The accumulator is owned by this flow alone;
// readers only ever see committed transcript state.
func (s *Session) stream(ctx context.Context, text, agentID string, updates chan<- Snapshot) {
	defer close(updates)

	log.Info().Str("message", agentID).Int("query_chars", len(text)).Msg("query started")

	st, err := s.client.Ask(ctx, text)
	if err != nil {
		updates <- s.fail(agentID, err)
		return
	}
	defer func() { _ = st.Close() }()

	var acc strings.Builder
	author := ""

	for {
		rec, err := st.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			updates <- s.fail(agentID, err)
			return
		}

		acc.WriteString(rec.Output)
		if rec.Author != "" {
			author = rec.Author
		}
		label := author
		if label == "" {
			label = DefaultAuthor
		}
		updates <- s.commit(agentID, acc.String(), label)
	}

	log.Info().
		Str("message", agentID).
		Int("answer_chars", acc.Len()).
		Int("dropped_records", st.Dropped()).
		Msg("query completed")
}

// commit atomically updates the placeholder's content and author and
// refreshes the display snapshot.
func (s *Session) commit(agentID, content, author string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if s.messages[i].ID == agentID {
			s.messages[i].Content = content
			s.messages[i].Author = author
			break
		}
	}
	s.display = content

	return Snapshot{Content: content, Author: author}
}

// fail rewrites the placeholder to the user-visible error text. Prior
// messages are untouched; no error escapes the pipeline.
func (s *Session) fail(agentID string, err error) Snapshot {
	log.Error().Err(err).Str("message", agentID).Msg("query failed")

	snap := s.commit(agentID, errText, ErrorAuthor)
	snap.Err = err
	return snap
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Display returns the answer accumulated so far for the in-flight
// query, or the last completed answer when nothing is running.
func (s *Session) Display() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// Reset clears the transcript and the display snapshot. It does not
// stop an in-flight stream: the console guarantees that by tearing
// down and rebuilding the whole UI, probe phase included.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.display = ""
}
