// Package listfilter models the typed filter and sort specification a client
// submits when listing articles. It is pure input vocabulary: compiling it
// into an engine query is the usecase layer's job.
package listfilter

import (
	"fmt"
	"time"

	"github.com/clearfact/artidex/internal/domain"
)

// Operator is a comparison operator of an arithmetic-expression filter.
type Operator string

// Supported operators.
const (
	OpEQ  Operator = "EQ"
	OpGT  Operator = "GT"
	OpGTE Operator = "GTE"
	OpLT  Operator = "LT"
	OpLTE Operator = "LTE"
)

// IsValid reports whether op is a known operator.
func (op Operator) IsValid() bool {
	switch op {
	case OpEQ, OpGT, OpGTE, OpLT, OpLTE:
		return true
	}
	return false
}

// RangeExpression is an arithmetic-expression filter over a numeric counter,
// e.g. "at least 5 replies".
type RangeExpression struct {
	Op    Operator
	Value float64
}

// TimeRangeExpression is an arithmetic-expression filter over a timestamp.
type TimeRangeExpression struct {
	Op    Operator
	Value time.Time
}

// UserInvolvement filters on a user's participation in article replies.
// Exists defaults to true when nil: the article must have a reply from the
// user. False flips the same clause into an exclusion.
type UserInvolvement struct {
	UserID string
	Exists *bool
}

// State returns the tri-state routing for this involvement filter.
func (u UserInvolvement) State() TriState {
	if u.Exists == nil || *u.Exists {
		return Inclusion
	}
	return Exclusion
}

// MoreLikeThis requests articles textually similar to Like.
type MoreLikeThis struct {
	Like string
	// MinimumShouldMatch overrides the default match proportion when non-empty.
	MinimumShouldMatch string
}

// Filter is the full filter specification for listing articles. Every field
// is optional; absent fields contribute no clause. Fields are mutually
// independent.
type Filter struct {
	ReplyCount        *RangeExpression
	ReplyRequestCount *RangeExpression
	RepliedAt         *TimeRangeExpression

	CategoryIDs []string

	HasArticleReplyWithMorePositiveFeedback *bool
	ArticleRepliesFrom                      *UserInvolvement
	ReplyTypes                              []domain.ReplyType
	ArticleTypes                            []domain.ArticleType

	MediaURL            string
	FromUserOfArticleID string
	MoreLikeThis        *MoreLikeThis
}

// Validate checks the filter for well-formed values.
func (f Filter) Validate() error {
	if f.ReplyCount != nil && !f.ReplyCount.Op.IsValid() {
		return fmt.Errorf("%w: replyCount operator %q", domain.ErrInvalidFilter, f.ReplyCount.Op)
	}
	if f.ReplyRequestCount != nil && !f.ReplyRequestCount.Op.IsValid() {
		return fmt.Errorf("%w: replyRequestCount operator %q", domain.ErrInvalidFilter, f.ReplyRequestCount.Op)
	}
	if f.RepliedAt != nil {
		if !f.RepliedAt.Op.IsValid() {
			return fmt.Errorf("%w: repliedAt operator %q", domain.ErrInvalidFilter, f.RepliedAt.Op)
		}
		if f.RepliedAt.Value.IsZero() {
			return fmt.Errorf("%w: repliedAt value is required", domain.ErrInvalidFilter)
		}
	}
	if f.ArticleRepliesFrom != nil && f.ArticleRepliesFrom.UserID == "" {
		return fmt.Errorf("%w: articleRepliesFrom.userId is required", domain.ErrInvalidFilter)
	}
	for _, t := range f.ReplyTypes {
		if !t.IsValid() {
			return fmt.Errorf("%w: unknown reply type %q", domain.ErrInvalidFilter, t)
		}
	}
	for _, t := range f.ArticleTypes {
		if !t.IsValid() {
			return fmt.Errorf("%w: unknown article type %q", domain.ErrInvalidFilter, t)
		}
	}
	if f.MoreLikeThis != nil && f.MoreLikeThis.Like == "" {
		return fmt.Errorf("%w: moreLikeThis.like is required", domain.ErrInvalidFilter)
	}
	return nil
}

// NeedsArticleLookup reports whether compilation requires resolving a
// referenced article first.
func (f Filter) NeedsArticleLookup() bool {
	return f.FromUserOfArticleID != ""
}

// NeedsScrape reports whether compilation requires scraping URLs for
// semantic text.
func (f Filter) NeedsScrape() bool {
	return f.MoreLikeThis != nil
}

// NeedsMediaHash reports whether compilation requires fetching and hashing
// media content.
func (f Filter) NeedsMediaHash() bool {
	return f.MediaURL != ""
}
