package listarticles

import (
	"context"

	"github.com/clearfact/artidex/internal/domain"
	"github.com/clearfact/artidex/internal/domain/search/listfilter"
	"github.com/clearfact/artidex/internal/domain/search/query"
)

const fieldStatus = "status"

// StatusBaseline is the default common-filter generator: every list query
// is scoped to normal-status articles, and to the caller's application when
// the caller carries one.
type StatusBaseline struct{}

// Clauses returns the baseline filtering clauses for one request.
func (StatusBaseline) Clauses(_ context.Context, _ listfilter.Filter, caller domain.Caller) []query.Clause {
	clauses := []query.Clause{query.Term(fieldStatus, domain.StatusNormal)}
	if caller.AppID != "" {
		clauses = append(clauses, query.Term(fieldAppID, caller.AppID))
	}
	return clauses
}
