// Package media fetches attachment URLs and derives their content-address
// hash for exact-match filtering.
package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clearfact/artidex/internal/domain"
	"github.com/clearfact/artidex/internal/usecase/listarticles"
)

// Config holds media fetcher settings.
type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Fetcher implements listarticles.MediaResolver over plain HTTP.
type Fetcher struct {
	http    *http.Client
	maxBody int64
}

// New creates a media fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 20 << 20
	}
	return &Fetcher{
		http:    &http.Client{Timeout: cfg.Timeout},
		maxBody: cfg.MaxBodyBytes,
	}
}

// Resolve fetches the resource and hashes its raw bytes. The media kind is
// declared, not sniffed: everything is treated as an image for now. Fetch
// failures propagate; there are no retries.
func (f *Fetcher) Resolve(ctx context.Context, url string) (listarticles.Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return listarticles.Media{}, fmt.Errorf("%w: %s: %w", domain.ErrMediaFetch, url, err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return listarticles.Media{}, fmt.Errorf("%w: %s: %w", domain.ErrMediaFetch, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return listarticles.Media{}, fmt.Errorf("%w: %s: status %d", domain.ErrMediaFetch, url, resp.StatusCode)
	}

	// Read one byte past the cap so an oversized body fails instead of
	// silently hashing a truncated prefix.
	h := sha256.New()
	n, err := io.Copy(h, io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return listarticles.Media{}, fmt.Errorf("%w: %s: %w", domain.ErrMediaFetch, url, err)
	}
	if n > f.maxBody {
		return listarticles.Media{}, fmt.Errorf("%w: %s: body exceeds %d bytes", domain.ErrMediaFetch, url, f.maxBody)
	}

	return listarticles.Media{
		Kind: domain.MediaImage,
		Hash: hex.EncodeToString(h.Sum(nil)),
	}, nil
}
