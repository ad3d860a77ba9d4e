// Package listarticles compiles a typed filter/sort specification into one
// boolean search-engine query, resolving the external enrichment some
// filter clauses depend on, and hands the result to the executor.
package listarticles

import (
	"context"
	"fmt"
	"time"

	"github.com/clearfact/artidex/internal/domain"
	"github.com/clearfact/artidex/internal/domain/search/listfilter"
	"github.com/clearfact/artidex/internal/domain/search/query"
	"github.com/clearfact/artidex/internal/domain/search/request"
	"github.com/clearfact/artidex/internal/metrics"
)

// TypePolicy controls the fallback restriction applied when a request names
// neither article types nor a media URL.
type TypePolicy struct {
	Restrict bool
	Types    []domain.ArticleType
}

// DefaultTypePolicy restricts untyped requests to textual articles.
func DefaultTypePolicy() TypePolicy {
	return TypePolicy{Restrict: true, Types: []domain.ArticleType{domain.ArticleText}}
}

// DefaultHighlight is the inner-hit snippet configuration for hyperlink
// similarity matches.
func DefaultHighlight() query.Highlight {
	return query.Highlight{
		Fields:            []string{fieldHyperlinkTitle, fieldHyperlinkSummary},
		FragmentSize:      200,
		NumberOfFragments: 1,
		Order:             "score",
		PreTag:            "<HIGHLIGHT>",
		PostTag:           "</HIGHLIGHT>",
	}
}

// Service compiles filter/sort specifications and lists articles through
// the document store. Each call owns its own clause buckets; no state is
// shared across compilations.
type Service struct {
	store      ArticleStore
	scraper    Scraper
	media      MediaResolver
	baseline   BaselineFilter
	collection string
	policy     TypePolicy
	highlight  query.Highlight
}

// New creates a list-articles service targeting the given collection.
func New(store ArticleStore, scraper Scraper, media MediaResolver, collection string) *Service {
	return &Service{
		store:      store,
		scraper:    scraper,
		media:      media,
		collection: collection,
		policy:     DefaultTypePolicy(),
		highlight:  DefaultHighlight(),
	}
}

// WithBaseline attaches the common-filter clause generator.
func (s *Service) WithBaseline(b BaselineFilter) *Service {
	s.baseline = b
	return s
}

// WithTypePolicy overrides the default article-type restriction policy.
func (s *Service) WithTypePolicy(p TypePolicy) *Service {
	s.policy = p
	return s
}

// WithHighlight overrides the hyperlink highlight configuration.
func (s *Service) WithHighlight(hl query.Highlight) *Service {
	s.highlight = hl
	return s
}

// Compile turns a filter/sort specification into a search request. It
// validates the input, resolves enrichment concurrently, compiles every
// clause into its bucket, and assembles the boolean query. The returned
// request is complete: on any error nothing is produced.
func (s *Service) Compile(
	ctx context.Context,
	caller domain.Caller,
	f listfilter.Filter,
	sorts []listfilter.Sort,
	paging request.Paging,
) (request.SearchRequest, error) {
	start := time.Now()

	if err := f.Validate(); err != nil {
		return request.SearchRequest{}, err
	}
	if err := listfilter.ValidateSorts(sorts); err != nil {
		return request.SearchRequest{}, err
	}

	e, err := s.enrich(ctx, f)
	if err != nil {
		return request.SearchRequest{}, err
	}

	b := query.NewBuilder()
	if s.baseline != nil {
		b.Filter(s.baseline.Clauses(ctx, f, caller)...)
	}
	s.compileClauses(b, f, e)
	compileSorts(b, sorts)

	req, err := request.New(s.collection, b.Compile(), paging)
	if err != nil {
		return request.SearchRequest{}, fmt.Errorf("build search request: %w", err)
	}

	metrics.ObserveCompile(time.Since(start))
	return req, nil
}

// List compiles the specification and executes it through the store.
func (s *Service) List(
	ctx context.Context,
	caller domain.Caller,
	f listfilter.Filter,
	sorts []listfilter.Sort,
	paging request.Paging,
) (SearchResult, error) {
	req, err := s.Compile(ctx, caller, f, sorts, paging)
	if err != nil {
		return SearchResult{}, err
	}

	res, err := s.store.Search(ctx, req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search %s: %w", s.collection, err)
	}
	return res, nil
}
