package listarticles

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/clearfact/artidex/internal/domain"
	"github.com/clearfact/artidex/internal/domain/search/listfilter"
	"github.com/clearfact/artidex/internal/domain/search/query"
	"github.com/clearfact/artidex/internal/domain/search/request"
)

func compile(t *testing.T, s *Service, f listfilter.Filter, sorts ...listfilter.Sort) request.SearchRequest {
	t.Helper()
	req, err := s.Compile(context.Background(), domain.Caller{}, f, sorts, request.Paging{})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return req
}

// clausesWithKey returns the clauses in cs whose top-level key is key.
func clausesWithKey(cs []query.Clause, key string) []query.Clause {
	var out []query.Clause
	for _, c := range cs {
		if _, ok := c[key]; ok {
			out = append(out, c)
		}
	}
	return out
}

func TestCompile_EmptyFilter(t *testing.T) {
	req := compile(t, newTestService(), listfilter.Filter{})
	q := req.Query()

	should := q.Should()
	if len(should) != 1 {
		t.Fatalf("expected 1 should clause, got %d", len(should))
	}
	if _, ok := should[0]["match_all"]; !ok {
		t.Errorf("expected match_all substitution, got %v", should[0])
	}
	if len(q.MustNot()) != 0 {
		t.Errorf("expected empty must_not, got %v", q.MustNot())
	}
	// Untyped request with no media match falls under the default type policy.
	terms := clausesWithKey(q.Filter(), "terms")
	if len(terms) != 1 {
		t.Fatalf("expected exactly the type restriction in filter, got %v", q.Filter())
	}
}

func TestCompile_ReplyCountEQ(t *testing.T) {
	req := compile(t, newTestService(), listfilter.Filter{
		ReplyCount: &listfilter.RangeExpression{Op: listfilter.OpEQ, Value: 2},
	})

	ranges := clausesWithKey(req.Query().Filter(), "range")
	if len(ranges) != 1 {
		t.Fatalf("expected 1 range clause, got %d", len(ranges))
	}
	bounds := ranges[0]["range"].(map[string]any)["normalArticleReplyCount"].(map[string]any)
	if bounds["gte"] != 2.0 || bounds["lte"] != 2.0 {
		t.Errorf("EQ must compile to a closed range, got %v", bounds)
	}
}

func TestCompile_RepliedAtScopedToNormalReplies(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	req := compile(t, newTestService(), listfilter.Filter{
		RepliedAt: &listfilter.TimeRangeExpression{Op: listfilter.OpGTE, Value: at},
	})

	nested := clausesWithKey(req.Query().Filter(), "nested")
	if len(nested) != 1 {
		t.Fatalf("expected 1 nested clause, got %d", len(nested))
	}
	inner := nested[0]["nested"].(map[string]any)
	if inner["path"] != "articleReplies" {
		t.Errorf("unexpected path: %v", inner["path"])
	}
	must := inner["query"].(query.Clause)["bool"].(map[string]any)["must"].([]any)
	if len(must) != 2 {
		t.Fatalf("expected status scope plus time range, got %v", must)
	}
	status := must[0].(query.Clause)["term"].(map[string]any)
	if status["articleReplies.status"] != "NORMAL" {
		t.Errorf("expected normal-status scope, got %v", status)
	}
}

func TestCompile_CategoryBranches(t *testing.T) {
	req := compile(t, newTestService(), listfilter.Filter{
		CategoryIDs: []string{"c1", "c2"},
	})

	ors := clausesWithKey(req.Query().Filter(), "bool")
	if len(ors) != 1 {
		t.Fatalf("expected 1 or clause, got %d", len(ors))
	}
	branches := ors[0]["bool"].(map[string]any)["should"].([]any)
	if len(branches) != 2 {
		t.Fatalf("expected a branch per category, got %d", len(branches))
	}
}

func TestCompile_PositiveFeedbackTriState(t *testing.T) {
	yes, no := true, false

	req := compile(t, newTestService(), listfilter.Filter{HasArticleReplyWithMorePositiveFeedback: &yes})
	if len(clausesWithKey(req.Query().Filter(), "nested")) != 1 {
		t.Error("true: expected nested clause in filter")
	}
	if len(req.Query().MustNot()) != 0 {
		t.Error("true: expected empty must_not")
	}

	req = compile(t, newTestService(), listfilter.Filter{HasArticleReplyWithMorePositiveFeedback: &no})
	if len(req.Query().MustNot()) != 1 {
		t.Error("false: expected nested clause in must_not")
	}
	if len(clausesWithKey(req.Query().Filter(), "nested")) != 0 {
		t.Error("false: expected no nested clause in filter")
	}

	req = compile(t, newTestService(), listfilter.Filter{})
	if len(clausesWithKey(req.Query().Filter(), "nested")) != 0 || len(req.Query().MustNot()) != 0 {
		t.Error("absent: expected no clause in either bucket")
	}
}

func TestCompile_ArticleRepliesFrom(t *testing.T) {
	no := false

	req := compile(t, newTestService(), listfilter.Filter{
		ArticleRepliesFrom: &listfilter.UserInvolvement{UserID: "u1"},
	})
	nested := clausesWithKey(req.Query().Filter(), "nested")
	if len(nested) != 1 {
		t.Fatal("nil exists: expected inclusion clause")
	}
	must := nested[0]["nested"].(map[string]any)["query"].(query.Clause)["bool"].(map[string]any)["must"].([]any)
	user := must[1].(query.Clause)["term"].(map[string]any)
	if user["articleReplies.userId"] != "u1" {
		t.Errorf("unexpected user scope: %v", user)
	}

	req = compile(t, newTestService(), listfilter.Filter{
		ArticleRepliesFrom: &listfilter.UserInvolvement{UserID: "u1", Exists: &no},
	})
	if len(req.Query().MustNot()) != 1 {
		t.Error("exists=false: expected exclusion clause")
	}
}

func TestCompile_TypeRestrictionSuppression(t *testing.T) {
	// Explicit article types replace the default restriction.
	req := compile(t, newTestService(), listfilter.Filter{
		ArticleTypes: []domain.ArticleType{domain.ArticleVideo},
	})
	terms := clausesWithKey(req.Query().Filter(), "terms")
	if len(terms) != 1 {
		t.Fatalf("expected only the explicit types clause, got %v", req.Query().Filter())
	}
	values := terms[0]["terms"].(map[string]any)["articleType"].([]any)
	if !reflect.DeepEqual(values, []any{domain.ArticleVideo}) {
		t.Errorf("unexpected type values: %v", values)
	}

	// A media match lifts the restriction too.
	svc := newTestService()
	svc.media = &mockMedia{resolveFunc: func(context.Context, string) (Media, error) {
		return Media{Kind: domain.MediaImage, Hash: "abc"}, nil
	}}
	req = compile(t, svc, listfilter.Filter{MediaURL: "http://example.com/a.png"})
	if len(clausesWithKey(req.Query().Filter(), "terms")) != 0 {
		t.Error("media match: expected no type restriction")
	}

	// Policy can disable the restriction outright.
	svc = newTestService().WithTypePolicy(TypePolicy{Restrict: false})
	req = compile(t, svc, listfilter.Filter{})
	if len(clausesWithKey(req.Query().Filter(), "terms")) != 0 {
		t.Error("restrict=false: expected no type restriction")
	}
}

func TestCompile_MediaHashClause(t *testing.T) {
	var resolved string
	svc := newTestService()
	svc.media = &mockMedia{resolveFunc: func(_ context.Context, url string) (Media, error) {
		resolved = url
		return Media{Kind: domain.MediaImage, Hash: "deadbeef"}, nil
	}}

	req := compile(t, svc, listfilter.Filter{MediaURL: "http://example.com/a.png"})

	if resolved != "http://example.com/a.png" {
		t.Fatalf("expected media resolver called with the url, got %q", resolved)
	}
	nested := clausesWithKey(req.Query().Filter(), "nested")
	if len(nested) != 1 {
		t.Fatalf("expected 1 nested attachment clause, got %d", len(nested))
	}
	inner := nested[0]["nested"].(map[string]any)
	if inner["path"] != "attachments" {
		t.Errorf("unexpected path: %v", inner["path"])
	}
	term := inner["query"].(query.Clause)["term"].(map[string]any)
	if term["attachments.hash"] != "deadbeef" {
		t.Errorf("expected hash clause, got %v", term)
	}
}

func TestCompile_MediaResolveErrorAborts(t *testing.T) {
	svc := newTestService()
	svc.media = &mockMedia{resolveFunc: func(context.Context, string) (Media, error) {
		return Media{}, fmt.Errorf("fetch media: %w", domain.ErrMediaFetch)
	}}

	_, err := svc.Compile(context.Background(), domain.Caller{}, listfilter.Filter{
		MediaURL: "http://example.com/a.png",
	}, nil, request.Paging{})
	if !errors.Is(err, domain.ErrMediaFetch) {
		t.Fatalf("expected ErrMediaFetch, got %v", err)
	}
}

func TestCompile_FromUserOfArticle(t *testing.T) {
	svc := newTestService()
	svc.store = &mockStore{getByIDFunc: func(_ context.Context, collection, id string) (domain.Article, error) {
		if collection != "articles" || id != "a1" {
			t.Errorf("unexpected lookup: %s/%s", collection, id)
		}
		return domain.Article{ID: "a1", UserID: "author", AppID: "app"}, nil
	}}

	req := compile(t, svc, listfilter.Filter{FromUserOfArticleID: "a1"})

	terms := clausesWithKey(req.Query().Filter(), "term")
	if len(terms) != 2 {
		t.Fatalf("expected userId and appId terms, got %v", req.Query().Filter())
	}
	if terms[0]["term"].(map[string]any)["userId"] != "author" {
		t.Errorf("unexpected userId clause: %v", terms[0])
	}
	if terms[1]["term"].(map[string]any)["appId"] != "app" {
		t.Errorf("unexpected appId clause: %v", terms[1])
	}
}

func TestCompile_FromUserOfArticle_ReferenceNotFound(t *testing.T) {
	svc := newTestService() // default mock store returns ErrArticleNotFound

	_, err := svc.Compile(context.Background(), domain.Caller{}, listfilter.Filter{
		FromUserOfArticleID: "missing",
	}, nil, request.Paging{})

	if !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
	var refErr *domain.ReferenceNotFoundError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferenceNotFoundError, got %T", err)
	}
	if refErr.ArticleID != "missing" {
		t.Errorf("expected offending id preserved, got %q", refErr.ArticleID)
	}
}

func TestCompile_MoreLikeThis_NoScrapes(t *testing.T) {
	req := compile(t, newTestService(), listfilter.Filter{
		MoreLikeThis: &listfilter.MoreLikeThis{Like: "hello"},
	})

	should := req.Query().Should()
	if len(should) != 2 {
		t.Fatalf("expected text and hyperlink clauses only, got %d", len(should))
	}
	if _, ok := should[0]["match_all"]; ok {
		t.Fatal("match_all must not be substituted when should is populated")
	}

	mlt := should[0]["more_like_this"].(map[string]any)
	if !reflect.DeepEqual(mlt["like"], []any{"hello"}) {
		t.Errorf("zero scrapes: like must be just the input, got %v", mlt["like"])
	}
	if mlt["minimum_should_match"] != "10<70%" {
		t.Errorf("expected default minimum_should_match, got %v", mlt["minimum_should_match"])
	}

	nested := should[1]["nested"].(map[string]any)
	if nested["path"] != "hyperlinks" || nested["score_mode"] != "sum" {
		t.Errorf("unexpected hyperlink clause: %v", nested)
	}
	if _, ok := nested["inner_hits"]; !ok {
		t.Error("expected inner-hit highlighting on the hyperlink clause")
	}
}

func TestCompile_MoreLikeThis_WithScrapes(t *testing.T) {
	svc := newTestService()
	svc.scraper = &mockScraper{scrapeFunc: func(context.Context, []string) ([]ScrapeResult, error) {
		return []ScrapeResult{
			{Title: "T", Summary: "scraped summary", URL: "http://a", Canonical: "http://a/canon"},
			{Title: "", Summary: "", URL: "http://b"},
		}, nil
	}}

	req := compile(t, svc, listfilter.Filter{
		MoreLikeThis: &listfilter.MoreLikeThis{Like: "check this http://a", MinimumShouldMatch: "30%"},
	})

	should := req.Query().Should()
	if len(should) != 3 {
		t.Fatalf("expected text, hyperlink and url-boost clauses, got %d", len(should))
	}

	mlt := should[0]["more_like_this"].(map[string]any)
	want := []any{"check this http://a", "scraped summary"}
	if !reflect.DeepEqual(mlt["like"], want) {
		t.Errorf("expected scraped summaries appended, got %v", mlt["like"])
	}
	if mlt["minimum_should_match"] != "30%" {
		t.Errorf("expected override kept, got %v", mlt["minimum_should_match"])
	}

	urls := should[2]["nested"].(map[string]any)["query"].(query.Clause)["terms"].(map[string]any)["hyperlinks.url"].([]any)
	if !reflect.DeepEqual(urls, []any{"http://a", "http://a/canon", "http://b"}) {
		t.Errorf("unexpected url boost values: %v", urls)
	}
}

func TestCompile_ScrapeErrorAborts(t *testing.T) {
	svc := newTestService()
	svc.scraper = &mockScraper{scrapeFunc: func(context.Context, []string) ([]ScrapeResult, error) {
		return nil, context.Canceled
	}}

	_, err := svc.Compile(context.Background(), domain.Caller{}, listfilter.Filter{
		MoreLikeThis: &listfilter.MoreLikeThis{Like: "hello"},
	}, nil, request.Paging{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCompile_Sorts(t *testing.T) {
	req := compile(t, newTestService(), listfilter.Filter{},
		listfilter.Sort{Key: listfilter.SortLastRepliedAt},
		listfilter.Sort{Key: listfilter.SortReplyCount, Order: listfilter.OrderAsc},
		listfilter.Sort{Key: listfilter.SortRelevance},
	)

	sorts := req.Query().Sort()
	if len(sorts) != 3 {
		t.Fatalf("expected 3 sort clauses, got %d", len(sorts))
	}

	replied := sorts[0]["articleReplies.createdAt"].(map[string]any)
	if replied["mode"] != "max" {
		t.Errorf("lastRepliedAt must aggregate with max, got %v", replied)
	}
	if replied["order"] != "desc" {
		t.Errorf("expected default direction desc, got %v", replied["order"])
	}
	nested := replied["nested"].(map[string]any)
	if nested["path"] != "articleReplies" {
		t.Errorf("unexpected nested sort path: %v", nested["path"])
	}

	count := sorts[1]["normalArticleReplyCount"].(map[string]any)
	if count["order"] != "asc" {
		t.Errorf("expected asc honored, got %v", count["order"])
	}

	if _, ok := sorts[2]["_score"]; !ok {
		t.Errorf("expected relevance sort, got %v", sorts[2])
	}
}

func TestCompile_InvalidInputRejected(t *testing.T) {
	svc := newTestService()

	_, err := svc.Compile(context.Background(), domain.Caller{}, listfilter.Filter{
		ReplyCount: &listfilter.RangeExpression{Op: "BETWEEN", Value: 1},
	}, nil, request.Paging{})
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}

	_, err = svc.Compile(context.Background(), domain.Caller{}, listfilter.Filter{},
		[]listfilter.Sort{{Key: "popularity"}}, request.Paging{})
	if !errors.Is(err, domain.ErrInvalidSort) {
		t.Errorf("expected ErrInvalidSort, got %v", err)
	}
}

func TestCompile_Idempotent(t *testing.T) {
	yes := true
	f := listfilter.Filter{
		ReplyCount:                              &listfilter.RangeExpression{Op: listfilter.OpGTE, Value: 3},
		CategoryIDs:                             []string{"c1"},
		HasArticleReplyWithMorePositiveFeedback: &yes,
		MoreLikeThis:                            &listfilter.MoreLikeThis{Like: "hello"},
	}
	sorts := []listfilter.Sort{{Key: listfilter.SortLastRepliedAt}}

	a := compile(t, newTestService(), f, sorts...).Body()
	b := compile(t, newTestService(), f, sorts...).Body()
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs must compile to identical bodies")
	}
}

func TestList_ExecutesCompiledRequest(t *testing.T) {
	var gotBody map[string]any
	svc := newTestService()
	svc.store = &mockStore{searchFunc: func(_ context.Context, req request.SearchRequest) (SearchResult, error) {
		gotBody = req.Body()
		return SearchResult{Total: 1, Hits: []Hit{{ID: "a1", Score: 2.5}}}, nil
	}}

	res, err := svc.List(context.Background(), domain.Caller{}, listfilter.Filter{}, nil, request.Paging{From: 20, Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Hits[0].ID != "a1" {
		t.Errorf("unexpected result: %+v", res)
	}
	if gotBody["from"] != 20 || gotBody["size"] != 10 {
		t.Errorf("expected paging forwarded, got from=%v size=%v", gotBody["from"], gotBody["size"])
	}
}

func TestCompile_Baseline(t *testing.T) {
	svc := newTestService().WithBaseline(StatusBaseline{})

	req, err := svc.Compile(context.Background(), domain.Caller{AppID: "app1"},
		listfilter.Filter{}, nil, request.Paging{})
	if err != nil {
		t.Fatal(err)
	}

	terms := clausesWithKey(req.Query().Filter(), "term")
	if len(terms) != 2 {
		t.Fatalf("expected status and app scoping, got %v", req.Query().Filter())
	}
	if terms[0]["term"].(map[string]any)["status"] != domain.StatusNormal {
		t.Errorf("expected status scope first, got %v", terms[0])
	}
	if terms[1]["term"].(map[string]any)["appId"] != "app1" {
		t.Errorf("expected app scope, got %v", terms[1])
	}
}
