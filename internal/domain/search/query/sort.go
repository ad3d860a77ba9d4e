package query

// Direction orders a sort clause.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == Asc || d == Desc
}

// SortClause is a single physical sort entry in the engine's JSON form.
type SortClause map[string]any

// FieldSort sorts by a top-level document field.
func FieldSort(field string, dir Direction) SortClause {
	return SortClause{field: map[string]any{"order": string(dir)}}
}

// ScoreSort sorts by relevance score.
func ScoreSort(dir Direction) SortClause {
	return SortClause{"_score": map[string]any{"order": string(dir)}}
}

// NestedMaxSort sorts by the maximum value of a nested field, considering
// only sub-documents matching the inner filter.
func NestedMaxSort(path, field string, dir Direction, innerFilter Clause) SortClause {
	return SortClause{field: map[string]any{
		"order": string(dir),
		"mode":  "max",
		"nested": map[string]any{
			"path":   path,
			"filter": innerFilter,
		},
	}}
}
