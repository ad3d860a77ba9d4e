package query

import (
	"reflect"
	"testing"
)

func TestTerm(t *testing.T) {
	c := Term("status", "NORMAL")
	want := Clause{"term": map[string]any{"status": "NORMAL"}}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("expected %v, got %v", want, c)
	}
}

func TestTerms(t *testing.T) {
	c := Terms("articleType", []string{"TEXT", "VIDEO"})
	want := Clause{"terms": map[string]any{"articleType": []any{"TEXT", "VIDEO"}}}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("expected %v, got %v", want, c)
	}
}

func TestRange_OmitsNilBounds(t *testing.T) {
	c := Range("replyCount", RangeBounds{GTE: 2.0, LTE: 2.0})
	bounds := c["range"].(map[string]any)["replyCount"].(map[string]any)

	if len(bounds) != 2 {
		t.Fatalf("expected exactly gte and lte, got %v", bounds)
	}
	if bounds["gte"] != 2.0 || bounds["lte"] != 2.0 {
		t.Errorf("unexpected bounds: %v", bounds)
	}
}

func TestOr(t *testing.T) {
	c := Or(Term("a", 1), Term("b", 2))
	inner := c["bool"].(map[string]any)

	if inner["minimum_should_match"] != 1 {
		t.Errorf("expected minimum_should_match 1, got %v", inner["minimum_should_match"])
	}
	if branches := inner["should"].([]any); len(branches) != 2 {
		t.Errorf("expected 2 branches, got %d", len(branches))
	}
}

func TestFieldComparison(t *testing.T) {
	c := FieldComparison("articleReplies.positiveFeedbackCount", CmpGT, "articleReplies.negativeFeedbackCount")
	script := c["script"].(map[string]any)["script"].(map[string]any)

	wantSource := "doc['articleReplies.positiveFeedbackCount'].value > doc['articleReplies.negativeFeedbackCount'].value"
	if script["source"] != wantSource {
		t.Errorf("expected %q, got %q", wantSource, script["source"])
	}
	if script["lang"] != "painless" {
		t.Errorf("expected painless, got %v", script["lang"])
	}
}

func TestFieldComparison_UnknownCmpPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown comparison")
		}
	}()
	FieldComparison("a", Cmp("NEQ"), "b")
}

func TestMoreLikeThis(t *testing.T) {
	c := MoreLikeThis([]string{"text"}, []string{"hello"}, "10<70%")
	mlt := c["more_like_this"].(map[string]any)

	if mlt["min_term_freq"] != 1 || mlt["min_doc_freq"] != 1 {
		t.Errorf("expected frequency floors of 1, got %v / %v", mlt["min_term_freq"], mlt["min_doc_freq"])
	}
	if mlt["minimum_should_match"] != "10<70%" {
		t.Errorf("unexpected minimum_should_match: %v", mlt["minimum_should_match"])
	}
	if !reflect.DeepEqual(mlt["like"], []any{"hello"}) {
		t.Errorf("unexpected like: %v", mlt["like"])
	}
}

func TestNested(t *testing.T) {
	c := Nested("hyperlinks", Term("hyperlinks.url", "http://example.com"), WithScoreMode("sum"))
	nested := c["nested"].(map[string]any)

	if nested["path"] != "hyperlinks" {
		t.Errorf("unexpected path: %v", nested["path"])
	}
	if nested["score_mode"] != "sum" {
		t.Errorf("expected score_mode sum, got %v", nested["score_mode"])
	}
}

func TestNestedMust(t *testing.T) {
	c := NestedMust("articleReplies", []Clause{
		Term("articleReplies.status", "NORMAL"),
		Term("articleReplies.userId", "u1"),
	})
	nested := c["nested"].(map[string]any)
	must := nested["query"].(Clause)["bool"].(map[string]any)["must"].([]any)

	if len(must) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(must))
	}
}

func TestWithInnerHitsHighlight(t *testing.T) {
	hl := Highlight{
		Fields:            []string{"hyperlinks.title", "hyperlinks.summary"},
		FragmentSize:      200,
		NumberOfFragments: 1,
		Order:             "score",
		PreTag:            "<HIGHLIGHT>",
		PostTag:           "</HIGHLIGHT>",
	}
	c := Nested("hyperlinks", MatchAll(), WithInnerHitsHighlight(hl))
	got := c["nested"].(map[string]any)["inner_hits"].(map[string]any)["highlight"].(map[string]any)

	if got["fragment_size"] != 200 || got["number_of_fragments"] != 1 {
		t.Errorf("unexpected fragment settings: %v", got)
	}
	if got["order"] != "score" {
		t.Errorf("expected order score, got %v", got["order"])
	}
	if !reflect.DeepEqual(got["pre_tags"], []any{"<HIGHLIGHT>"}) {
		t.Errorf("unexpected pre_tags: %v", got["pre_tags"])
	}
	fields := got["fields"].(map[string]any)
	if _, ok := fields["hyperlinks.title"]; !ok {
		t.Error("expected hyperlinks.title in highlight fields")
	}
}
