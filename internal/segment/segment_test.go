package segment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/1ou/danton/internal/index"
	"github.com/1ou/danton/internal/search"
	"github.com/1ou/danton/internal/tokenizer"
	apperrors "github.com/1ou/danton/pkg/errors"
)

func buildSegment(t *testing.T) *index.Segment {
	t.Helper()
	seg, err := index.Build([]index.Document{
		{ID: 1, Text: "hello this is test"},
		{ID: 2, Text: "hello second test test"},
		{ID: 3, Text: "hello"},
	}, tokenizer.Whitespace{})
	if err != nil {
		t.Fatal(err)
	}
	return seg
}

func TestWriteThenOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	orig := buildSegment(t)

	if err := NewWriter(dir).Write(orig); err != nil {
		t.Fatal(err)
	}
	restored, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	if restored.DocCount() != orig.DocCount() {
		t.Fatalf("doc count = %d, want %d", restored.DocCount(), orig.DocCount())
	}
	if restored.TermCount() != orig.TermCount() {
		t.Fatalf("term count = %d, want %d", restored.TermCount(), orig.TermCount())
	}

	// The same query must return identical ids and scores.
	run := func(seg *index.Segment) *search.Result {
		e := search.NewEngine(tokenizer.Whitespace{}, 0)
		e.Swap(seg)
		result, err := e.Search(context.Background(), "test", 10)
		if err != nil {
			t.Fatal(err)
		}
		return result
	}
	before, after := run(orig), run(restored)
	if len(before.Results) != len(after.Results) {
		t.Fatalf("result count changed: %d vs %d", len(before.Results), len(after.Results))
	}
	for i := range before.Results {
		if before.Results[i] != after.Results[i] {
			t.Fatalf("result %d changed across round trip: %+v vs %+v",
				i, before.Results[i], after.Results[i])
		}
	}
}

func TestOpenMissingIndex(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nonexistent"))
	if !errors.Is(err, apperrors.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestOpenDetectsCorruptDictionary(t *testing.T) {
	dir := t.TempDir()
	if err := NewWriter(dir).Write(buildSegment(t)); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, TermDictFile)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Flip a byte inside the entry table; the CRC must catch it.
	data[headerSize+1] ^= 0xFF
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(dir); !errors.Is(err, apperrors.ErrCorruptSegment) {
		t.Fatalf("expected ErrCorruptSegment, got %v", err)
	}
}

func TestOpenDetectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	if err := NewWriter(dir).Write(buildSegment(t)); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, TermDictFile)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[0] ^= 0xFF
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(dir); !errors.Is(err, apperrors.ErrCorruptSegment) {
		t.Fatalf("expected ErrCorruptSegment, got %v", err)
	}
}
