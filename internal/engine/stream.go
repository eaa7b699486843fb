// stream.go reads the engine's newline-delimited JSON response stream.
package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// Record is one line of the response stream parsed as a JSON object.
// Only the output fragment and the author label are consumed; all
// other fields the engine emits are ignored.
type Record struct {
	Output string `json:"output"`
	Author string `json:"author"`
}

// Stream iterates over the records of one query's chunked response.
//
// Lines are buffered until their terminating newline arrives, so a
// record split across two transport chunks parses as one object once
// complete, and multi-byte characters are never broken at chunk
// boundaries. A line is a candidate record iff its trimmed form starts
// with '{'; other lines are discarded as framing noise. Candidate
// lines that fail to parse are dropped and counted, and iteration
// continues with the next line.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	dropped int
}

func newStream(body io.ReadCloser) *Stream {
	scanner := bufio.NewScanner(body)
	// Fragments are small, but nothing stops the engine from sending a
	// whole answer as one record. Allow up to 10 MB per line.
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	return &Stream{body: body, scanner: scanner}
}

// Next returns the next record that carries a non-empty output
// fragment. It returns io.EOF when the engine ends the stream. No
// duration or record-count cap is enforced; the engine owns stream
// termination.
func (s *Stream) Next() (Record, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "{") {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			s.dropped++
			log.Debug().Err(err).Msg("dropping unparseable stream record")
			continue
		}

		if rec.Output == "" {
			continue
		}
		return rec, nil
	}

	if err := s.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("engine: reading stream: %w", err)
	}
	return Record{}, io.EOF
}

// Dropped reports how many candidate records failed to parse and were
// discarded. Dropping is deliberate: one malformed record must not
// abort the rest of the answer.
func (s *Stream) Dropped() int {
	return s.dropped
}

// Close releases the underlying response body.
func (s *Stream) Close() error {
	return s.body.Close()
}
