package listarticles

import (
	"github.com/samber/lo"

	"github.com/clearfact/artidex/internal/domain"
	"github.com/clearfact/artidex/internal/domain/search/listfilter"
	"github.com/clearfact/artidex/internal/domain/search/query"
)

// defaultMinimumShouldMatch is the similarity match proportion used when the
// caller does not override it: at least 10 terms, or 70% of them.
const defaultMinimumShouldMatch = "10<70%"

// route places a clause according to its tri-state: Inclusion filters on it,
// Exclusion forbids it, Omitted drops it.
func route(b *query.Builder, state listfilter.TriState, c query.Clause) {
	switch state {
	case listfilter.Inclusion:
		b.Filter(c)
	case listfilter.Exclusion:
		b.MustNot(c)
	case listfilter.Omitted:
	}
}

// normalReply is the inner condition every reply sub-document clause starts
// from: only replies in normal status count.
func normalReply() query.Clause {
	return query.Term(fieldReplyStatus, domain.StatusNormal)
}

// compileClauses appends one clause set per present filter, in a fixed
// order, so identical inputs always produce an identical query shape.
func (s *Service) compileClauses(b *query.Builder, f listfilter.Filter, e enrichment) {
	if f.ReplyCount != nil {
		b.Filter(numberRange(fieldReplyCount, *f.ReplyCount))
	}

	if f.ReplyRequestCount != nil {
		b.Filter(numberRange(fieldReplyRequestCount, *f.ReplyRequestCount))
	}

	if f.RepliedAt != nil {
		b.Filter(query.NestedMust(pathReplies, []query.Clause{
			normalReply(),
			timeRange(fieldReplyCreatedAt, *f.RepliedAt),
		}))
	}

	if len(f.CategoryIDs) > 0 {
		branches := lo.Map(f.CategoryIDs, func(id string, _ int) query.Clause {
			return query.NestedMust(pathCategories, []query.Clause{
				query.Term(fieldCategoryStatus, domain.StatusNormal),
				query.Term(fieldCategoryID, id),
				query.FieldComparison(fieldCategoryPositive, query.CmpGTE, fieldCategoryNegative),
			})
		})
		b.Filter(query.Or(branches...))
	}

	route(b,
		listfilter.TriStateOf(f.HasArticleReplyWithMorePositiveFeedback),
		query.NestedMust(pathReplies, []query.Clause{
			normalReply(),
			query.FieldComparison(fieldReplyPositive, query.CmpGT, fieldReplyNegative),
		}))

	if f.ArticleRepliesFrom != nil {
		route(b,
			f.ArticleRepliesFrom.State(),
			query.NestedMust(pathReplies, []query.Clause{
				normalReply(),
				query.Term(fieldReplyUserID, f.ArticleRepliesFrom.UserID),
			}))
	}

	if len(f.ReplyTypes) > 0 {
		b.Filter(query.NestedMust(pathReplies, []query.Clause{
			normalReply(),
			query.Terms(fieldReplyType, f.ReplyTypes),
		}))
	}

	if len(f.ArticleTypes) > 0 {
		b.Filter(query.Terms(fieldArticleType, f.ArticleTypes))
	}

	// Restrict to the default textual types when the request neither names
	// article types nor matches on media. Policy-controlled: downstream
	// support for non-text articles is still partial.
	if len(f.ArticleTypes) == 0 && f.MediaURL == "" && s.policy.Restrict {
		b.Filter(query.Terms(fieldArticleType, s.policy.Types))
	}

	if f.MediaURL != "" && e.media != nil {
		b.Filter(query.Nested(pathAttachments, query.Term(fieldAttachmentHash, e.media.Hash)))
	}

	if f.FromUserOfArticleID != "" && e.refArticle != nil {
		b.Filter(
			query.Term(fieldUserID, e.refArticle.UserID),
			query.Term(fieldAppID, e.refArticle.AppID),
		)
	}

	if f.MoreLikeThis != nil {
		s.compileMoreLikeThis(b, *f.MoreLikeThis, e.scrapes)
	}
}

// compileMoreLikeThis builds the relevance bucket: similarity against the
// article text, a score-summed similarity against hyperlink titles and
// summaries, and an exact URL boost when scraping surfaced resolvable URLs.
// Compilation degrades gracefully with zero scrape results: the comparison
// set is then just the literal input text.
func (s *Service) compileMoreLikeThis(b *query.Builder, mlt listfilter.MoreLikeThis, scrapes []ScrapeResult) {
	msm := mlt.MinimumShouldMatch
	if msm == "" {
		msm = defaultMinimumShouldMatch
	}

	like := append([]string{mlt.Like},
		lo.FilterMap(scrapes, func(r ScrapeResult, _ int) (string, bool) {
			return r.Summary, r.Summary != ""
		})...)

	b.Should(
		query.MoreLikeThis([]string{fieldText}, like, msm),
		query.Nested(pathHyperlinks,
			query.MoreLikeThis([]string{fieldHyperlinkTitle, fieldHyperlinkSummary}, like, msm),
			query.WithScoreMode("sum"),
			query.WithInnerHitsHighlight(s.highlight),
		),
	)

	urls := scrapedURLs(scrapes)
	if len(urls) > 0 {
		b.Should(query.Nested(pathHyperlinks, query.Terms(fieldHyperlinkURL, urls)))
	}
}

// scrapedURLs collects every resolved and canonical URL from the scrape
// results, preserving scrape order.
func scrapedURLs(scrapes []ScrapeResult) []string {
	var urls []string
	for _, r := range scrapes {
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
		if r.Canonical != "" {
			urls = append(urls, r.Canonical)
		}
	}
	return urls
}
