package engine

import (
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, s *Stream) []Record {
	t.Helper()
	var recs []Record
	for {
		rec, err := s.Next()
		if err == io.EOF {
			return recs
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		recs = append(recs, rec)
	}
}

func streamOf(body string) *Stream {
	return newStream(io.NopCloser(strings.NewReader(body)))
}

func TestNextReturnsRecordsInOrder(t *testing.T) {
	s := streamOf("{\"output\":\"Hi\",\"author\":\"Bot\"}\n{\"output\":\" there\"}\n")

	recs := readAll(t, s)
	if len(recs) != 2 {
		t.Fatalf("records: got %d, want 2", len(recs))
	}
	if recs[0].Output != "Hi" || recs[0].Author != "Bot" {
		t.Errorf("first record: got %+v", recs[0])
	}
	if recs[1].Output != " there" || recs[1].Author != "" {
		t.Errorf("second record: got %+v", recs[1])
	}
}

func TestNextDiscardsNoiseLines(t *testing.T) {
	body := "event: ping\n" +
		"\n" +
		"  {\"output\":\"Hi\"}\n" +
		"data stream heartbeat\n"
	s := streamOf(body)

	recs := readAll(t, s)
	if len(recs) != 1 || recs[0].Output != "Hi" {
		t.Fatalf("records: got %+v, want single Hi", recs)
	}
	if s.Dropped() != 0 {
		t.Errorf("noise lines must not count as dropped records, got %d", s.Dropped())
	}
}

func TestNextDropsUnparseableCandidates(t *testing.T) {
	body := "{\"output\":\"one\"}\n" +
		"{\"output\": truncated\n" +
		"{\"output\":\"two\"}\n"
	s := streamOf(body)

	recs := readAll(t, s)
	if len(recs) != 2 {
		t.Fatalf("records: got %d, want 2 (bad line swallowed)", len(recs))
	}
	if recs[0].Output != "one" || recs[1].Output != "two" {
		t.Errorf("records: got %+v", recs)
	}
	if s.Dropped() != 1 {
		t.Errorf("Dropped: got %d, want 1", s.Dropped())
	}
}

func TestNextSkipsRecordsWithoutOutput(t *testing.T) {
	body := "{\"author\":\"Bot\"}\n" +
		"{\"status\":\"thinking\"}\n" +
		"{\"output\":\"ok\",\"author\":\"Bot\"}\n"
	s := streamOf(body)

	recs := readAll(t, s)
	if len(recs) != 1 || recs[0].Output != "ok" {
		t.Fatalf("records: got %+v, want single ok", recs)
	}
}

func TestNextIgnoresUnknownFields(t *testing.T) {
	s := streamOf("{\"output\":\"x\",\"author\":\"Bot\",\"usage\":{\"tokens\":12},\"id\":\"e1\"}\n")

	recs := readAll(t, s)
	if len(recs) != 1 || recs[0].Output != "x" || recs[0].Author != "Bot" {
		t.Fatalf("records: got %+v", recs)
	}
}

func TestNextHandlesMissingTrailingNewline(t *testing.T) {
	s := streamOf("{\"output\":\"tail\"}")

	recs := readAll(t, s)
	if len(recs) != 1 || recs[0].Output != "tail" {
		t.Fatalf("records: got %+v, want single tail", recs)
	}
}

func TestNextMultiByteContent(t *testing.T) {
	s := streamOf("{\"output\":\"héllo — 世界\"}\n")

	recs := readAll(t, s)
	if len(recs) != 1 {
		t.Fatalf("records: got %d, want 1", len(recs))
	}
	if recs[0].Output != "héllo — 世界" {
		t.Errorf("multi-byte output mangled: got %q", recs[0].Output)
	}
}
