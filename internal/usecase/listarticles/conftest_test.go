package listarticles

import (
	"context"

	"github.com/clearfact/artidex/internal/domain"
	"github.com/clearfact/artidex/internal/domain/search/request"
)

// mockStore implements ArticleStore with configurable functions.
type mockStore struct {
	getByIDFunc func(ctx context.Context, collection, id string) (domain.Article, error)
	searchFunc  func(ctx context.Context, req request.SearchRequest) (SearchResult, error)
}

func (m *mockStore) GetByID(ctx context.Context, collection, id string) (domain.Article, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, collection, id)
	}
	return domain.Article{}, domain.ErrArticleNotFound
}

func (m *mockStore) Search(ctx context.Context, req request.SearchRequest) (SearchResult, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, req)
	}
	return SearchResult{}, nil
}

// mockScraper implements Scraper with a configurable function.
type mockScraper struct {
	scrapeFunc func(ctx context.Context, inputs []string) ([]ScrapeResult, error)
}

func (m *mockScraper) Scrape(ctx context.Context, inputs []string) ([]ScrapeResult, error) {
	if m.scrapeFunc != nil {
		return m.scrapeFunc(ctx, inputs)
	}
	return nil, nil
}

// mockMedia implements MediaResolver with a configurable function.
type mockMedia struct {
	resolveFunc func(ctx context.Context, url string) (Media, error)
}

func (m *mockMedia) Resolve(ctx context.Context, url string) (Media, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, url)
	}
	return Media{}, nil
}

func newTestService() *Service {
	return New(&mockStore{}, &mockScraper{}, &mockMedia{}, "articles")
}
