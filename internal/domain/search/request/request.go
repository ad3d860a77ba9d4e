// Package request holds the terminal artifact of a compilation: the search
// request handed to the engine executor. It is never mutated after
// construction.
package request

import (
	"fmt"

	"github.com/clearfact/artidex/internal/domain/search/query"
)

// DefaultSize is the page size used when the caller supplies none. The
// upper bound is a transport concern and is enforced there.
const DefaultSize = 20

// Paging is the pass-through paging window. The compiler does not interpret
// it beyond clamping; cursor mechanics live with the executor.
type Paging struct {
	From int
	Size int
}

// SearchRequest packages a compiled query with its target collection and
// paging window.
type SearchRequest struct {
	collection string
	query      query.CompiledQuery
	paging     Paging
}

// New validates and creates a SearchRequest.
// Defaults: size=20; negative from is rejected.
func New(collection string, q query.CompiledQuery, p Paging) (SearchRequest, error) {
	if collection == "" {
		return SearchRequest{}, fmt.Errorf("collection is required")
	}
	if p.From < 0 {
		return SearchRequest{}, fmt.Errorf("paging offset must not be negative, got %d", p.From)
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	return SearchRequest{collection: collection, query: q, paging: p}, nil
}

// Collection returns the target collection identifier.
func (r SearchRequest) Collection() string { return r.collection }

// Query returns the compiled boolean query.
func (r SearchRequest) Query() query.CompiledQuery { return r.query }

// Paging returns the paging window.
func (r SearchRequest) Paging() Paging { return r.paging }

// Body renders the full engine request body: compiled query plus paging.
func (r SearchRequest) Body() map[string]any {
	body := r.query.Body()
	body["from"] = r.paging.From
	body["size"] = r.paging.Size
	return body
}
