package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the external model-serving process that hosts the
// trained classifier. The model never runs in this repo; the client only
// ships an encoded vector and reads back the raw fake-probability.
type Client struct {
	baseURL string
	http    *http.Client
}

type scoreRequest struct {
	Tokens []int `json:"tokens"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

// New creates a scoring client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Score submits an encoded vector and returns the raw probability exactly
// as the service produced it. Range validation is the interpreter's job;
// transport and non-200 responses surface as errors with no retry.
func (c *Client) Score(ctx context.Context, encoded []int) (float64, error) {
	payload, err := json.Marshal(scoreRequest{Tokens: encoded})
	if err != nil {
		return 0, fmt.Errorf("marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("score request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return 0, fmt.Errorf("score request failed: %s: %s", res.Status, strings.TrimSpace(string(body)))
	}

	var parsed scoreResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode score response: %w", err)
	}

	return parsed.Score, nil
}
