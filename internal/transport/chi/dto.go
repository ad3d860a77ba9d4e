package chi

import (
	"fmt"
	"time"

	"github.com/clearfact/artidex/internal/domain"
	"github.com/clearfact/artidex/internal/domain/search/listfilter"
	"github.com/clearfact/artidex/internal/domain/search/request"
	"github.com/clearfact/artidex/internal/usecase/listarticles"
)

// rangeExprDTO is an arithmetic-expression filter in the wire format.
type rangeExprDTO struct {
	Op    string  `json:"op"`
	Value float64 `json:"value"`
}

// timeExprDTO is a timestamp arithmetic-expression filter.
type timeExprDTO struct {
	Op    string    `json:"op"`
	Value time.Time `json:"value"`
}

type userInvolvementDTO struct {
	UserID string `json:"userId"`
	Exists *bool  `json:"exists,omitempty"`
}

type moreLikeThisDTO struct {
	Like               string `json:"like"`
	MinimumShouldMatch string `json:"minimumShouldMatch,omitempty"`
}

// filterDTO is the wire form of the article filter specification.
type filterDTO struct {
	ReplyCount                              *rangeExprDTO       `json:"replyCount,omitempty"`
	ReplyRequestCount                       *rangeExprDTO       `json:"replyRequestCount,omitempty"`
	RepliedAt                               *timeExprDTO        `json:"repliedAt,omitempty"`
	CategoryIDs                             []string            `json:"categoryIds,omitempty"`
	HasArticleReplyWithMorePositiveFeedback *bool               `json:"hasArticleReplyWithMorePositiveFeedback,omitempty"`
	ArticleRepliesFrom                      *userInvolvementDTO `json:"articleRepliesFrom,omitempty"`
	ReplyTypes                              []string            `json:"replyTypes,omitempty"`
	ArticleTypes                            []string            `json:"articleTypes,omitempty"`
	MediaURL                                string              `json:"mediaUrl,omitempty"`
	FromUserOfArticleID                     string              `json:"fromUserOfArticleId,omitempty"`
	MoreLikeThis                            *moreLikeThisDTO    `json:"moreLikeThis,omitempty"`
}

type sortDTO struct {
	By    string `json:"by"`
	Order string `json:"order,omitempty"`
}

// listArticlesRequest is the request body of POST /articles/search.
type listArticlesRequest struct {
	Filter filterDTO `json:"filter"`
	Sort   []sortDTO `json:"sort,omitempty"`
	From   int       `json:"from,omitempty"`
	Size   int       `json:"size,omitempty"`
}

// hitDTO is one article in the response.
type hitDTO struct {
	ID         string              `json:"id"`
	Score      float64             `json:"score"`
	Source     map[string]any      `json:"source,omitempty"`
	Highlights map[string][]string `json:"highlights,omitempty"`
}

// listArticlesResponse is the response body of POST /articles/search.
type listArticlesResponse struct {
	Items []hitDTO `json:"items"`
	Total int64    `json:"total"`
	From  int      `json:"from"`
	Size  int      `json:"size"`
}

func filterFromDTO(d filterDTO) listfilter.Filter {
	f := listfilter.Filter{
		CategoryIDs:                             d.CategoryIDs,
		HasArticleReplyWithMorePositiveFeedback: d.HasArticleReplyWithMorePositiveFeedback,
		MediaURL:                                d.MediaURL,
		FromUserOfArticleID:                     d.FromUserOfArticleID,
	}

	if d.ReplyCount != nil {
		f.ReplyCount = &listfilter.RangeExpression{
			Op:    listfilter.Operator(d.ReplyCount.Op),
			Value: d.ReplyCount.Value,
		}
	}
	if d.ReplyRequestCount != nil {
		f.ReplyRequestCount = &listfilter.RangeExpression{
			Op:    listfilter.Operator(d.ReplyRequestCount.Op),
			Value: d.ReplyRequestCount.Value,
		}
	}
	if d.RepliedAt != nil {
		f.RepliedAt = &listfilter.TimeRangeExpression{
			Op:    listfilter.Operator(d.RepliedAt.Op),
			Value: d.RepliedAt.Value,
		}
	}
	if d.ArticleRepliesFrom != nil {
		f.ArticleRepliesFrom = &listfilter.UserInvolvement{
			UserID: d.ArticleRepliesFrom.UserID,
			Exists: d.ArticleRepliesFrom.Exists,
		}
	}
	for _, t := range d.ReplyTypes {
		f.ReplyTypes = append(f.ReplyTypes, domain.ReplyType(t))
	}
	for _, t := range d.ArticleTypes {
		f.ArticleTypes = append(f.ArticleTypes, domain.ArticleType(t))
	}
	if d.MoreLikeThis != nil {
		f.MoreLikeThis = &listfilter.MoreLikeThis{
			Like:               d.MoreLikeThis.Like,
			MinimumShouldMatch: d.MoreLikeThis.MinimumShouldMatch,
		}
	}

	return f
}

func sortsFromDTO(ds []sortDTO) []listfilter.Sort {
	sorts := make([]listfilter.Sort, 0, len(ds))
	for _, d := range ds {
		sorts = append(sorts, listfilter.Sort{
			Key:   listfilter.SortKey(d.By),
			Order: listfilter.Order(d.Order),
		})
	}
	return sorts
}

// pagingFromRequest clamps the paging window against the configured limits.
func pagingFromRequest(req listArticlesRequest, defaultSize, maxSize int) (request.Paging, error) {
	if req.From < 0 {
		return request.Paging{}, fmt.Errorf("from must not be negative")
	}
	size := req.Size
	if size < 0 {
		return request.Paging{}, fmt.Errorf("size must not be negative")
	}
	if size == 0 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	return request.Paging{From: req.From, Size: size}, nil
}

func hitToDTO(h listarticles.Hit) hitDTO {
	return hitDTO{
		ID:         h.ID,
		Score:      h.Score,
		Source:     h.Source,
		Highlights: h.Highlights,
	}
}
