package listarticles

import (
	"fmt"
	"time"

	"github.com/clearfact/artidex/internal/domain/search/listfilter"
	"github.com/clearfact/artidex/internal/domain/search/query"
)

// rangeBounds translates an arithmetic-expression operator into range
// boundaries. EQ collapses to a fully bounded range; the rest are
// half-bounded. An unknown operator is a programming error and panics:
// user input is validated before compilation.
func rangeBounds(op listfilter.Operator, value any) query.RangeBounds {
	switch op {
	case listfilter.OpEQ:
		return query.RangeBounds{GTE: value, LTE: value}
	case listfilter.OpGT:
		return query.RangeBounds{GT: value}
	case listfilter.OpGTE:
		return query.RangeBounds{GTE: value}
	case listfilter.OpLT:
		return query.RangeBounds{LT: value}
	case listfilter.OpLTE:
		return query.RangeBounds{LTE: value}
	default:
		panic(fmt.Sprintf("listarticles: unknown range operator %q", op))
	}
}

// numberRange translates a numeric arithmetic expression to a range clause.
func numberRange(field string, e listfilter.RangeExpression) query.Clause {
	return query.Range(field, rangeBounds(e.Op, e.Value))
}

// timeRange translates a timestamp arithmetic expression to a range clause.
func timeRange(field string, e listfilter.TimeRangeExpression) query.Clause {
	return query.Range(field, rangeBounds(e.Op, e.Value.UTC().Format(time.RFC3339)))
}
