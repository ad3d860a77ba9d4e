package listarticles

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/clearfact/artidex/internal/domain"
	"github.com/clearfact/artidex/internal/domain/search/listfilter"
	"github.com/clearfact/artidex/internal/metrics"
)

// enrichment carries the external data some filters depend on. Fields are
// only set for the filters present in the request.
type enrichment struct {
	refArticle *domain.Article
	scrapes    []ScrapeResult
	media      *Media
}

// enrich resolves the external data the given filter needs. The resolvers
// are independent, so they run concurrently; the first error cancels the
// rest and aborts the compilation — a partial request never reaches the
// executor.
func (s *Service) enrich(ctx context.Context, f listfilter.Filter) (enrichment, error) {
	var e enrichment

	g, ctx := errgroup.WithContext(ctx)

	if f.NeedsArticleLookup() {
		id := f.FromUserOfArticleID
		g.Go(func() error {
			article, err := s.store.GetByID(ctx, s.collection, id)
			if errors.Is(err, domain.ErrArticleNotFound) {
				metrics.CountEnrichment(metrics.EnrichArticleLookup, false)
				return domain.NewReferenceNotFound(id)
			}
			if err != nil {
				metrics.CountEnrichment(metrics.EnrichArticleLookup, false)
				return err
			}
			metrics.CountEnrichment(metrics.EnrichArticleLookup, true)
			e.refArticle = &article
			return nil
		})
	}

	if f.NeedsScrape() {
		like := f.MoreLikeThis.Like
		g.Go(func() error {
			scrapes, err := s.scraper.Scrape(ctx, []string{like})
			if err != nil {
				metrics.CountEnrichment(metrics.EnrichScrape, false)
				return fmt.Errorf("scrape urls: %w", err)
			}
			metrics.CountEnrichment(metrics.EnrichScrape, true)
			e.scrapes = scrapes
			return nil
		})
	}

	if f.NeedsMediaHash() {
		url := f.MediaURL
		g.Go(func() error {
			media, err := s.media.Resolve(ctx, url)
			if err != nil {
				metrics.CountEnrichment(metrics.EnrichMedia, false)
				return err
			}
			metrics.CountEnrichment(metrics.EnrichMedia, true)
			e.media = &media
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return enrichment{}, err
	}
	return e, nil
}
