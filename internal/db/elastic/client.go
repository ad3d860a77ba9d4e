// Package elastic implements db.DocStore over the search engine's HTTP JSON
// API. Only document lookup and request-body execution are exposed; query
// ranking stays engine-side.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/clearfact/artidex/internal/db"
)

// Compile-time check: Client implements db.DocStore.
var _ db.DocStore = (*Client)(nil)

// Config holds connection parameters for the search engine.
type Config struct {
	Addr    string
	Timeout time.Duration
}

// Client talks to the search engine over HTTP.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a search engine client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("addr is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		base: cfg.Addr,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Ping checks engine connectivity.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/", http.NoBody)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}

// GetSource fetches a document's source fields by id.
// Missing documents yield db.ErrDocNotFound.
func (c *Client) GetSource(ctx context.Context, collection, id string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/%s/_source/%s",
		c.base, url.PathEscape(collection), url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, &db.Error{Op: db.OpDoc, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &db.Error{Op: db.OpDoc, Err: err}
	}
	defer drain(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, db.ErrDocNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &db.Error{Op: db.OpDoc, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var source map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&source); err != nil {
		return nil, &db.Error{Op: db.OpDoc, Err: fmt.Errorf("decode source: %w", err)}
	}
	return source, nil
}

// searchResponse mirrors the engine's search response envelope.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID        string              `json:"_id"`
			Score     float64             `json:"_score"`
			Source    map[string]any      `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search executes a compiled request body against a collection.
func (c *Client) Search(ctx context.Context, collection string, body map[string]any) (*db.SearchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("encode body: %w", err)}
	}

	endpoint := fmt.Sprintf("%s/%s/_search", c.base, url.PathEscape(collection))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("status %d: %s", resp.StatusCode, msg)}
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("decode response: %w", err)}
	}

	out := &db.SearchResponse{Total: sr.Hits.Total.Value}
	for _, h := range sr.Hits.Hits {
		out.Hits = append(out.Hits, db.SearchHit{
			ID:         h.ID,
			Score:      h.Score,
			Source:     h.Source,
			Highlights: h.Highlight,
		})
	}
	return out, nil
}

// drain discards and closes a response body so the connection can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
