// client.go issues streaming queries against the agent engine.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// queryPath is the engine's single query endpoint, relative to the
// base URL.
const queryPath = "/run"

// Client issues queries to the agent engine and opens their response
// streams. It is safe for sequential reuse across queries; the console
// runs at most one query at a time by convention.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the engine at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client timeout: the response stream is open-ended and the
		// engine terminates it when the answer is complete.
		httpClient: &http.Client{},
	}
}

// queryRequest is the fixed request envelope.
type queryRequest struct {
	Input string `json:"input"`
}

// Ask posts the query and opens the engine's newline-delimited JSON
// response stream. The caller owns the returned Stream and must Close
// it. A connection failure, or a response without a readable body, is
// fatal for this query only.
func (c *Client) Ask(ctx context.Context, input string) (*Stream, error) {
	body, err := json.Marshal(queryRequest{Input: input})
	if err != nil {
		return nil, fmt.Errorf("engine: marshalling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+queryPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("engine: building query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine: sending query: %w", err)
	}
	if resp.Body == nil {
		return nil, fmt.Errorf("engine: response has no body")
	}

	// Non-200 responses still stream: their lines are not records and
	// fall out in the reader, which matches the engine's error framing.
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("engine answered query with non-OK status")
	}

	return newStream(resp.Body), nil
}
