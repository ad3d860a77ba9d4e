// Package query models the boolean query sent to the nested-document search
// engine. Clauses are built through typed constructors and rendered as the
// engine's JSON object form; no call site ever assembles raw query JSON.
package query

import "fmt"

// Clause is a single query clause in the engine's JSON object form.
type Clause map[string]any

// Term creates an exact-match clause on a single field.
func Term(field string, value any) Clause {
	return Clause{"term": map[string]any{field: value}}
}

// Terms creates a set-membership clause: the field must match any of values.
func Terms[T any](field string, values []T) Clause {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return Clause{"terms": map[string]any{field: vs}}
}

// MatchAll creates a clause matching every document.
func MatchAll() Clause {
	return Clause{"match_all": map[string]any{}}
}

// RangeBounds holds optional range boundaries. A nil boundary is omitted.
type RangeBounds struct {
	GT  any
	GTE any
	LT  any
	LTE any
}

// Range creates a range clause over a numeric or date field.
func Range(field string, b RangeBounds) Clause {
	bounds := map[string]any{}
	if b.GT != nil {
		bounds["gt"] = b.GT
	}
	if b.GTE != nil {
		bounds["gte"] = b.GTE
	}
	if b.LT != nil {
		bounds["lt"] = b.LT
	}
	if b.LTE != nil {
		bounds["lte"] = b.LTE
	}
	return Clause{"range": map[string]any{field: bounds}}
}

// Or creates a bool clause matching when at least one branch matches.
func Or(branches ...Clause) Clause {
	bs := make([]any, len(branches))
	for i, b := range branches {
		bs[i] = b
	}
	return Clause{"bool": map[string]any{
		"should":               bs,
		"minimum_should_match": 1,
	}}
}

// Cmp is a comparison between two numeric document fields.
type Cmp string

// Supported field comparisons.
const (
	CmpGT  Cmp = "GT"
	CmpGTE Cmp = "GTE"
)

// FieldComparison creates a computed-expression clause asserting
// `left <cmp> right` over two numeric fields of the matched (sub-)document.
// An unknown cmp is a programming error and panics.
func FieldComparison(left string, cmp Cmp, right string) Clause {
	var op string
	switch cmp {
	case CmpGT:
		op = ">"
	case CmpGTE:
		op = ">="
	default:
		panic(fmt.Sprintf("query: unknown field comparison %q", cmp))
	}
	return Clause{"script": map[string]any{
		"script": map[string]any{
			"source": fmt.Sprintf("doc['%s'].value %s doc['%s'].value", left, op, right),
			"lang":   "painless",
		},
	}}
}

// MoreLikeThis creates a similarity clause scoring documents whose listed
// fields resemble the given comparison texts. Term-frequency and
// document-frequency floors are pinned to 1 so short inputs still match.
func MoreLikeThis(fields, like []string, minimumShouldMatch string) Clause {
	fs := make([]any, len(fields))
	for i, f := range fields {
		fs[i] = f
	}
	ls := make([]any, len(like))
	for i, l := range like {
		ls[i] = l
	}
	return Clause{"more_like_this": map[string]any{
		"fields":               fs,
		"like":                 ls,
		"min_term_freq":        1,
		"min_doc_freq":         1,
		"minimum_should_match": minimumShouldMatch,
	}}
}

// Highlight configures inner-hit snippet extraction on nested matches.
type Highlight struct {
	Fields            []string
	FragmentSize      int
	NumberOfFragments int
	Order             string
	PreTag            string
	PostTag           string
}

// NestedOption customizes a nested clause.
type NestedOption func(nested map[string]any)

// WithScoreMode sets how sub-document scores aggregate into the parent score.
func WithScoreMode(mode string) NestedOption {
	return func(nested map[string]any) {
		nested["score_mode"] = mode
	}
}

// WithInnerHitsHighlight requests highlighted snippets from matched
// sub-documents.
func WithInnerHitsHighlight(hl Highlight) NestedOption {
	return func(nested map[string]any) {
		fields := map[string]any{}
		for _, f := range hl.Fields {
			fields[f] = map[string]any{}
		}
		nested["inner_hits"] = map[string]any{
			"highlight": map[string]any{
				"order":               hl.Order,
				"fields":              fields,
				"fragment_size":       hl.FragmentSize,
				"number_of_fragments": hl.NumberOfFragments,
				"pre_tags":            []any{hl.PreTag},
				"post_tags":           []any{hl.PostTag},
			},
		}
	}
}

// Nested creates a clause scoped to a nested sub-document path. The inner
// clause matches within a single sub-document, never across siblings.
func Nested(path string, inner Clause, opts ...NestedOption) Clause {
	nested := map[string]any{
		"path":  path,
		"query": inner,
	}
	for _, o := range opts {
		o(nested)
	}
	return Clause{"nested": nested}
}

// NestedMust creates a nested clause whose sub-document must satisfy all of
// the given conditions.
func NestedMust(path string, conditions []Clause, opts ...NestedOption) Clause {
	ms := make([]any, len(conditions))
	for i, c := range conditions {
		ms[i] = c
	}
	return Nested(path, Clause{"bool": map[string]any{"must": ms}}, opts...)
}
