package index

import (
	"fmt"
	"sort"
	"testing"
)

func TestTermDictLookupUnseen(t *testing.T) {
	d := NewTermDict()
	if _, ok := d.Lookup("missing"); ok {
		t.Fatal("expected miss for unseen term")
	}
}

func TestTermDictUpsertThenLookup(t *testing.T) {
	d := NewTermDict()
	d.Upsert("hello", func(pl *PostingList) { pl.Add(1) })
	d.Upsert("hello", func(pl *PostingList) { pl.Add(2) })

	pl, ok := d.Lookup("hello")
	if !ok {
		t.Fatal("expected hit after upsert")
	}
	if len(pl) != 2 || pl[0].DocID != 1 || pl[1].DocID != 2 {
		t.Fatalf("unexpected postings: %+v", pl)
	}
}

func TestTermDictPrefixPathIsNotATerm(t *testing.T) {
	d := NewTermDict()
	d.Upsert("testing", func(pl *PostingList) { pl.Add(1) })

	if _, ok := d.Lookup("test"); ok {
		t.Fatal("prefix-only path must not match")
	}
	if _, ok := d.Lookup("testingly"); ok {
		t.Fatal("extension of a term must not match")
	}

	// A term that is also a prefix of another term is independent.
	d.Upsert("test", func(pl *PostingList) { pl.Add(7) })
	pl, ok := d.Lookup("test")
	if !ok || len(pl) != 1 || pl[0].DocID != 7 {
		t.Fatalf("unexpected postings for embedded term: %+v", pl)
	}
	if d.Terms() != 2 {
		t.Fatalf("expected 2 terms, got %d", d.Terms())
	}
}

func TestTermDictWalkLexicographic(t *testing.T) {
	d := NewTermDict()
	terms := []string{"zebra", "apple", "applet", "app", "banana"}
	for i, term := range terms {
		docID := int64(i + 1)
		d.Upsert(term, func(pl *PostingList) { pl.Add(docID) })
	}

	var walked []string
	d.Walk(func(term string, postings PostingList) {
		walked = append(walked, term)
		if len(postings) != 1 {
			t.Fatalf("term %q: unexpected postings %+v", term, postings)
		}
	})

	want := append([]string(nil), terms...)
	sort.Strings(want)
	if len(walked) != len(want) {
		t.Fatalf("walked %d terms, want %d", len(walked), len(want))
	}
	for i := range want {
		if walked[i] != want[i] {
			t.Fatalf("walk order %v, want %v", walked, want)
		}
	}
}

func TestPostingListSortedUnderAnyIngestionOrder(t *testing.T) {
	var pl PostingList
	for _, docID := range []int64{5, 1, 9, 3, 1, 5, 5} {
		pl.Add(docID)
	}

	want := []PostingNode{{1, 2}, {3, 1}, {5, 3}, {9, 1}}
	if len(pl) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(pl), len(want))
	}
	for i, node := range want {
		if pl[i] != node {
			t.Fatalf("node %d = %+v, want %+v", i, pl[i], node)
		}
	}
	for i := 1; i < len(pl); i++ {
		if pl[i-1].DocID >= pl[i].DocID {
			t.Fatalf("postings not strictly ascending: %+v", pl)
		}
	}
}

func BenchmarkTermDictUpsert(b *testing.B) {
	d := NewTermDict()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		term := fmt.Sprintf("term-%d", i%5000)
		d.Upsert(term, func(pl *PostingList) { pl.Add(int64(i%100 + 1)) })
	}
}

func BenchmarkTermDictLookup(b *testing.B) {
	d := NewTermDict()
	for i := 0; i < 5000; i++ {
		d.Upsert(fmt.Sprintf("term-%d", i), func(pl *PostingList) { pl.Add(1) })
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Lookup(fmt.Sprintf("term-%d", i%5000))
	}
}
