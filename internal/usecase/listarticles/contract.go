package listarticles

import (
	"context"

	"github.com/clearfact/artidex/internal/domain"
	"github.com/clearfact/artidex/internal/domain/search/listfilter"
	"github.com/clearfact/artidex/internal/domain/search/query"
	"github.com/clearfact/artidex/internal/domain/search/request"
)

// Hit is a single article returned by the executor.
type Hit struct {
	ID         string
	Score      float64
	Source     map[string]any
	Highlights map[string][]string
}

// SearchResult is the executor's answer to a compiled request.
type SearchResult struct {
	Total int64
	Hits  []Hit
}

// ArticleStore is the document store contract: fetch a referenced article
// and execute a compiled search request.
type ArticleStore interface {
	// GetByID returns the referenced article's identity fields.
	// Missing documents yield domain.ErrArticleNotFound.
	GetByID(ctx context.Context, collection, id string) (domain.Article, error)

	// Search executes a compiled request against the engine.
	Search(ctx context.Context, req request.SearchRequest) (SearchResult, error)
}

// ScrapeResult is the semantic text extracted from one URL.
type ScrapeResult struct {
	Title     string
	Summary   string
	URL       string
	Canonical string
}

// Scraper resolves free-text/URL inputs into scrape results. Per-URL
// failures are dropped from the returned slice, not reported: an error is
// only returned when the whole operation cannot proceed (e.g. cancellation).
type Scraper interface {
	Scrape(ctx context.Context, inputs []string) ([]ScrapeResult, error)
}

// Media is a fetched resource's declared kind and content-address hash.
type Media struct {
	Kind domain.MediaKind
	Hash string
}

// MediaResolver fetches a media URL and hashes its raw bytes. Fetch
// failures propagate unchanged; there are no retries.
type MediaResolver interface {
	Resolve(ctx context.Context, url string) (Media, error)
}

// BaselineFilter produces the baseline filtering clauses every list query
// carries (status scoping, caller scoping). Opaque to the compiler: its
// clauses are prepended to the filter bucket as-is.
type BaselineFilter interface {
	Clauses(ctx context.Context, f listfilter.Filter, caller domain.Caller) []query.Clause
}
