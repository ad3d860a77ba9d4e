package listarticles

import (
	"fmt"

	"github.com/clearfact/artidex/internal/domain/search/listfilter"
	"github.com/clearfact/artidex/internal/domain/search/query"
)

// compileSorts maps abstract sort keys to physical sort clauses, in the
// order given. Plain timestamp keys map 1:1, replyCount maps to its backing
// counter field, and lastRepliedAt aggregates the newest normal-status reply
// timestamp. An unknown key panics: sort input is validated upstream.
func compileSorts(b *query.Builder, sorts []listfilter.Sort) {
	for _, s := range sorts {
		dir := query.Desc
		if s.Order == listfilter.OrderAsc {
			dir = query.Asc
		}

		switch s.Key {
		case listfilter.SortRelevance:
			b.Sort(query.ScoreSort(dir))
		case listfilter.SortCreatedAt:
			b.Sort(query.FieldSort(fieldCreatedAt, dir))
		case listfilter.SortUpdatedAt:
			b.Sort(query.FieldSort(fieldUpdatedAt, dir))
		case listfilter.SortLastRequestedAt:
			b.Sort(query.FieldSort(fieldLastRequestedAt, dir))
		case listfilter.SortReplyCount:
			b.Sort(query.FieldSort(fieldReplyCount, dir))
		case listfilter.SortReplyRequestCount:
			b.Sort(query.FieldSort(fieldReplyRequestCount, dir))
		case listfilter.SortLastRepliedAt:
			b.Sort(query.NestedMaxSort(pathReplies, fieldReplyCreatedAt, dir, normalReply()))
		default:
			panic(fmt.Sprintf("listarticles: unknown sort key %q", s.Key))
		}
	}
}
