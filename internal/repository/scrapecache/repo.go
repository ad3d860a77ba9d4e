// Package scrapecache wraps the URL scraper with a key-value cache so one
// enrichment never fetches the same URL twice across requests.
package scrapecache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/clearfact/artidex/internal/db"
	"github.com/clearfact/artidex/internal/logger"
	"github.com/clearfact/artidex/internal/metrics"
	"github.com/clearfact/artidex/internal/usecase/listarticles"
)

const keyPrefix = "artidex:scrape:"

// fetcher is the consumer interface over the raw scraper (ISP).
type fetcher interface {
	ExtractURLs(text string) []string
	Fetch(ctx context.Context, url string) (listarticles.ScrapeResult, error)
}

// kv is the consumer interface over the cache store (ISP).
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Repo implements listarticles.Scraper with a cache in front of the
// fetcher. Per-URL failures are tolerated: the URL is skipped and the rest
// of the scrape proceeds.
type Repo struct {
	fetcher fetcher
	cache   kv
	ttl     time.Duration
}

// New creates a caching scraper with the given entry TTL.
func New(f fetcher, cache kv, ttl time.Duration) *Repo {
	return &Repo{fetcher: f, cache: cache, ttl: ttl}
}

// Scrape extracts every URL from the inputs and resolves each one, cache
// first. The returned slice holds successful scrapes only, in URL order.
func (r *Repo) Scrape(ctx context.Context, inputs []string) ([]listarticles.ScrapeResult, error) {
	log := logger.FromContext(ctx)

	var urls []string
	seen := map[string]struct{}{}
	for _, input := range inputs {
		for _, u := range r.fetcher.ExtractURLs(input) {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
		}
	}

	var results []listarticles.ScrapeResult
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if cached, ok := r.lookup(ctx, u); ok {
			metrics.CountScrapeCache(true)
			results = append(results, cached)
			continue
		}
		metrics.CountScrapeCache(false)

		res, err := r.fetcher.Fetch(ctx, u)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			// Tolerated partial failure: this URL contributes nothing.
			log.Debug("scrape failed, skipping url", zap.String("url", u), zap.Error(err))
			continue
		}

		r.remember(ctx, u, res)
		results = append(results, res)
	}

	return results, nil
}

// lookup reads one cached scrape result.
func (r *Repo) lookup(ctx context.Context, url string) (listarticles.ScrapeResult, bool) {
	data, err := r.cache.Get(ctx, keyPrefix+url)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			logger.FromContext(ctx).Warn("scrape cache read failed", zap.Error(err))
		}
		return listarticles.ScrapeResult{}, false
	}

	var res listarticles.ScrapeResult
	if err := json.Unmarshal(data, &res); err != nil {
		return listarticles.ScrapeResult{}, false
	}
	return res, true
}

// remember writes one scrape result to the cache. Cache write failures are
// logged, never fatal.
func (r *Repo) remember(ctx context.Context, url string, res listarticles.ScrapeResult) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.cache.SetWithTTL(ctx, keyPrefix+url, data, r.ttl); err != nil {
		logger.FromContext(ctx).Warn("scrape cache write failed", zap.Error(err))
	}
}
