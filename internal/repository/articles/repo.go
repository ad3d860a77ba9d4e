// Package articles adapts the search engine document store to the
// list-articles contract.
package articles

import (
	"context"
	"errors"
	"fmt"

	"github.com/clearfact/artidex/internal/db"
	"github.com/clearfact/artidex/internal/domain"
	"github.com/clearfact/artidex/internal/domain/search/request"
	"github.com/clearfact/artidex/internal/usecase/listarticles"
)

// store is the consumer interface for article operations (ISP).
type store interface {
	GetSource(ctx context.Context, collection, id string) (map[string]any, error)
	Search(ctx context.Context, collection string, body map[string]any) (*db.SearchResponse, error)
}

// Repo implements listarticles.ArticleStore.
type Repo struct {
	store store
}

// New creates an article repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// GetByID fetches a referenced article's identity fields. A missing
// document maps to domain.ErrArticleNotFound; any other failure propagates
// unchanged.
func (r *Repo) GetByID(ctx context.Context, collection, id string) (domain.Article, error) {
	source, err := r.store.GetSource(ctx, collection, id)
	if errors.Is(err, db.ErrDocNotFound) {
		return domain.Article{}, domain.ErrArticleNotFound
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article %s: %w", id, err)
	}

	return domain.Article{
		ID:     id,
		UserID: stringField(source, "userId"),
		AppID:  stringField(source, "appId"),
	}, nil
}

// Search executes a compiled request and converts the engine hits.
func (r *Repo) Search(ctx context.Context, req request.SearchRequest) (listarticles.SearchResult, error) {
	resp, err := r.store.Search(ctx, req.Collection(), req.Body())
	if err != nil {
		return listarticles.SearchResult{}, fmt.Errorf("search %s: %w", req.Collection(), err)
	}

	result := listarticles.SearchResult{Total: resp.Total}
	for _, h := range resp.Hits {
		result.Hits = append(result.Hits, listarticles.Hit{
			ID:         h.ID,
			Score:      h.Score,
			Source:     h.Source,
			Highlights: h.Highlights,
		})
	}
	return result, nil
}

// stringField reads a string field from a document source, tolerating
// missing or mistyped values.
func stringField(source map[string]any, key string) string {
	if v, ok := source[key].(string); ok {
		return v
	}
	return ""
}
