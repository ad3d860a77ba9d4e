package listfilter

// TriState routes a filter clause into its boolean query bucket: include the
// matching documents, exclude them, or skip the clause entirely. It replaces
// per-filter ternary bucket selection with one explicit variant.
type TriState int

// Tri-state values.
const (
	Omitted TriState = iota
	Inclusion
	Exclusion
)

// TriStateOf maps an optional boolean filter value to its routing state:
// nil is Omitted, true Inclusion, false Exclusion.
func TriStateOf(v *bool) TriState {
	switch {
	case v == nil:
		return Omitted
	case *v:
		return Inclusion
	default:
		return Exclusion
	}
}
