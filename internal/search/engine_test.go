package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1ou/danton/internal/index"
	"github.com/1ou/danton/internal/tokenizer"
	apperrors "github.com/1ou/danton/pkg/errors"
)

func buildEngine(t testing.TB, docs []index.Document) *Engine {
	t.Helper()
	seg, err := index.Build(docs, tokenizer.Whitespace{})
	if err != nil {
		t.Fatal(err)
	}
	e := NewEngine(tokenizer.Whitespace{}, 0)
	e.Swap(seg)
	return e
}

func resultIDs(result *Result) []int64 {
	ids := make([]int64, len(result.Results))
	for i, doc := range result.Results {
		ids[i] = doc.ID
	}
	return ids
}

func TestSearchSingleTermRankedByFrequency(t *testing.T) {
	e := buildEngine(t, []index.Document{
		{ID: 1, Text: "hello this is test"},
		{ID: 2, Text: "hello second test test"},
		{ID: 3, Text: "hello"},
	})

	result, err := e.Search(context.Background(), "test", 10)
	if err != nil {
		t.Fatal(err)
	}
	ids := resultIDs(result)
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 1 {
		t.Fatalf("got %v, want [2 1]", ids)
	}
	if result.Results[0].Score <= result.Results[1].Score {
		t.Fatalf("doc 2 (freq 2) must outrank doc 1 (freq 1): %+v", result.Results)
	}
	if result.TotalHits != 2 {
		t.Fatalf("total hits = %d, want 2", result.TotalHits)
	}
}

func TestSearchConjunctionRequiresEveryTerm(t *testing.T) {
	e := buildEngine(t, []index.Document{
		{ID: 1, Text: "hello this is test"},
		{ID: 2, Text: "hello second test test there"},
		{ID: 3, Text: "hello"},
		{ID: 4, Text: "tablecloth is on there"},
	})

	result, err := e.Search(context.Background(), "hello there", 2)
	if err != nil {
		t.Fatal(err)
	}
	ids := resultIDs(result)
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("got %v, want [2]", ids)
	}
}

func TestSearchUnknownTermYieldsEmptyResult(t *testing.T) {
	e := buildEngine(t, []index.Document{
		{ID: 1, Text: "hello this is test"},
	})

	for _, query := range []string{"xyz", "hello xyz"} {
		result, err := e.Search(context.Background(), query, 10)
		if err != nil {
			t.Fatalf("query %q: %v", query, err)
		}
		if len(result.Results) != 0 || result.TotalHits != 0 {
			t.Fatalf("query %q: expected empty result, got %+v", query, result)
		}
	}
}

func TestSearchEmptyQueryYieldsEmptyResult(t *testing.T) {
	e := buildEngine(t, []index.Document{
		{ID: 1, Text: "hello"},
	})

	for _, query := range []string{"", "   "} {
		result, err := e.Search(context.Background(), query, 10)
		if err != nil {
			t.Fatalf("query %q: %v", query, err)
		}
		if len(result.Results) != 0 {
			t.Fatalf("query %q: expected empty result, got %+v", query, result)
		}
	}
}

func TestSearchWithoutSegmentFails(t *testing.T) {
	e := NewEngine(tokenizer.Whitespace{}, 0)
	_, err := e.Search(context.Background(), "hello", 10)
	if !errors.Is(err, apperrors.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

// TestSearchMatchesBruteForceIntersection cross-checks the merge against a
// naive per-term set intersection over a synthetic collection.
func TestSearchMatchesBruteForceIntersection(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta"}
	var docs []index.Document
	for id := int64(1); id <= 40; id++ {
		var text []string
		for w, word := range words {
			// Deterministic, uneven spread across the collection.
			if id%int64(w+2) == 0 {
				text = append(text, word)
			}
		}
		docs = append(docs, index.Document{ID: id, Text: strings.Join(text, " ")})
	}
	e := buildEngine(t, docs)

	queries := []string{
		"alpha",
		"alpha beta",
		"beta gamma",
		"alpha beta gamma delta",
	}
	for _, query := range queries {
		result, err := e.Search(context.Background(), query, len(docs))
		if err != nil {
			t.Fatalf("query %q: %v", query, err)
		}

		want := make(map[int64]bool)
		for _, doc := range docs {
			matchesAll := true
			for _, term := range strings.Fields(query) {
				if !strings.Contains(" "+doc.Text+" ", " "+term+" ") {
					matchesAll = false
					break
				}
			}
			if matchesAll {
				want[doc.ID] = true
			}
		}

		if result.TotalHits != len(want) {
			t.Fatalf("query %q: %d hits, want %d", query, result.TotalHits, len(want))
		}
		for _, id := range resultIDs(result) {
			if !want[id] {
				t.Fatalf("query %q: doc %d returned but does not match", query, id)
			}
		}
	}
}

func TestSearchScansToExhaustionBeforeTruncating(t *testing.T) {
	// The best-scoring document has the highest id, so it is discovered
	// last; a scan that stopped at k matches would miss it.
	docs := []index.Document{
		{ID: 1, Text: "needle filler"},
		{ID: 2, Text: "needle filler"},
		{ID: 3, Text: "needle needle needle needle"},
		{ID: 4, Text: "filler only"},
	}
	e := buildEngine(t, docs)

	result, err := e.Search(context.Background(), "needle", 1)
	if err != nil {
		t.Fatal(err)
	}
	ids := resultIDs(result)
	if len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("got %v, want [3]", ids)
	}
	if result.TotalHits != 3 {
		t.Fatalf("total hits = %d, want 3", result.TotalHits)
	}
}

func TestSearchDuplicateQueryTermsCountOnce(t *testing.T) {
	e := buildEngine(t, []index.Document{
		{ID: 1, Text: "hello world"},
		{ID: 2, Text: "hello"},
	})

	once, err := e.Search(context.Background(), "hello", 10)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := e.Search(context.Background(), "hello hello", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(once.Results) != len(twice.Results) {
		t.Fatalf("duplicate term changed hit count: %d vs %d",
			len(once.Results), len(twice.Results))
	}
	for i := range once.Results {
		if once.Results[i] != twice.Results[i] {
			t.Fatalf("duplicate term changed scores: %+v vs %+v",
				once.Results, twice.Results)
		}
	}
}

func TestSearchStepBudget(t *testing.T) {
	var docs []index.Document
	for id := int64(1); id <= 100; id++ {
		docs = append(docs, index.Document{ID: id, Text: "common"})
	}
	seg, err := index.Build(docs, tokenizer.Whitespace{})
	if err != nil {
		t.Fatal(err)
	}
	e := NewEngine(tokenizer.Whitespace{}, 5)
	e.Swap(seg)

	_, err = e.Search(context.Background(), "common", 10)
	if !errors.Is(err, ErrStepBudgetExceeded) {
		t.Fatalf("expected ErrStepBudgetExceeded, got %v", err)
	}
}

func BenchmarkSearchTwoTerms(b *testing.B) {
	var docs []index.Document
	for id := int64(1); id <= 10000; id++ {
		text := "filler terms for padding"
		if id%3 == 0 {
			text += " alpha"
		}
		if id%5 == 0 {
			text += " beta"
		}
		docs = append(docs, index.Document{ID: id, Text: text})
	}
	e := buildEngine(b, docs)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Search(context.Background(), "alpha beta", 10); err != nil {
			b.Fatal(err)
		}
	}
}
