package query

// Builder accumulates clauses into their buckets during one compilation.
// Bucket order is insertion order; the compiled query shape is reproducible
// for identical inputs. A Builder is owned by a single compilation and is
// not safe for concurrent use.
type Builder struct {
	should  []Clause
	filter  []Clause
	mustNot []Clause
	sort    []SortClause
}

// NewBuilder creates an empty clause builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Should appends relevance-contributing clauses.
func (b *Builder) Should(cs ...Clause) *Builder {
	b.should = append(b.should, cs...)
	return b
}

// Filter appends must-match clauses that do not affect scoring.
func (b *Builder) Filter(cs ...Clause) *Builder {
	b.filter = append(b.filter, cs...)
	return b
}

// MustNot appends exclusion clauses.
func (b *Builder) MustNot(cs ...Clause) *Builder {
	b.mustNot = append(b.mustNot, cs...)
	return b
}

// Sort appends physical sort clauses.
func (b *Builder) Sort(ss ...SortClause) *Builder {
	b.sort = append(b.sort, ss...)
	return b
}

// Compile merges the buckets into the final boolean query. An empty should
// bucket is substituted with match-all so minimum_should_match stays
// non-constraining; a non-empty one requires at least one should match.
func (b *Builder) Compile() CompiledQuery {
	should := b.should
	if len(should) == 0 {
		should = []Clause{MatchAll()}
	}
	return CompiledQuery{
		should:      should,
		filter:      b.filter,
		mustNot:     b.mustNot,
		sort:        b.sort,
		trackScores: true,
	}
}

// CompiledQuery is the assembled boolean query plus sort clauses. It is
// immutable once compiled.
type CompiledQuery struct {
	should      []Clause
	filter      []Clause
	mustNot     []Clause
	sort        []SortClause
	trackScores bool
}

// Should returns the relevance bucket.
func (q CompiledQuery) Should() []Clause { return q.should }

// Filter returns the filtering bucket.
func (q CompiledQuery) Filter() []Clause { return q.filter }

// MustNot returns the exclusion bucket.
func (q CompiledQuery) MustNot() []Clause { return q.mustNot }

// Sort returns the physical sort clauses.
func (q CompiledQuery) Sort() []SortClause { return q.sort }

// TrackScores reports whether relevance scores are computed regardless of
// sort order. Always true: score ordering must stay available even when the
// caller sorts by a field.
func (q CompiledQuery) TrackScores() bool { return q.trackScores }

// Body renders the query as the engine's request-body JSON object.
func (q CompiledQuery) Body() map[string]any {
	should := make([]any, len(q.should))
	for i, c := range q.should {
		should[i] = c
	}
	filter := make([]any, len(q.filter))
	for i, c := range q.filter {
		filter[i] = c
	}
	mustNot := make([]any, len(q.mustNot))
	for i, c := range q.mustNot {
		mustNot[i] = c
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should":               should,
				"filter":               filter,
				"must_not":             mustNot,
				"minimum_should_match": 1,
			},
		},
		"track_scores": q.trackScores,
	}

	if len(q.sort) > 0 {
		sort := make([]any, len(q.sort))
		for i, s := range q.sort {
			sort[i] = s
		}
		body["sort"] = sort
	}

	return body
}
