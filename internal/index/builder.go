package index

import (
	"fmt"
	"log/slog"

	"github.com/1ou/danton/internal/tokenizer"
	apperrors "github.com/1ou/danton/pkg/errors"
)

// Builder accumulates documents into a new Segment. Building is a
// single-writer phase: Add calls must not be interleaved with each other or
// with queries, and Seal freezes the result for concurrent reading.
//
// Duplicate document ids are rejected outright. Silently replacing the
// stored document would leave the old instance's postings in the
// dictionary, so the index and the store could disagree; refusing the
// second Add keeps them consistent.
type Builder struct {
	dict   *TermDict
	docs   *DocumentStore
	tok    tokenizer.Tokenizer
	sealed bool
	logger *slog.Logger
}

// NewBuilder creates an empty Builder using tok for text analysis.
func NewBuilder(tok tokenizer.Tokenizer) *Builder {
	return &Builder{
		dict:   NewTermDict(),
		docs:   NewDocumentStore(),
		tok:    tok,
		logger: slog.Default().With("component", "index-builder"),
	}
}

// Add stores the document and indexes every token occurrence.
func (b *Builder) Add(doc Document) error {
	if b.sealed {
		return fmt.Errorf("adding document %d: %w", doc.ID, apperrors.ErrSegmentSealed)
	}
	if doc.ID <= 0 {
		return fmt.Errorf("document id %d: %w", doc.ID, apperrors.ErrInvalidInput)
	}
	if _, exists := b.docs.Get(doc.ID); exists {
		return fmt.Errorf("document %d: %w", doc.ID, apperrors.ErrDocumentExists)
	}

	b.docs.put(doc)
	tokens := b.tok.Tokenize(doc.Text)
	for _, token := range tokens {
		b.dict.Upsert(token.Term, func(pl *PostingList) {
			pl.Add(doc.ID)
		})
	}
	b.logger.Debug("document indexed",
		"doc_id", doc.ID,
		"token_count", len(tokens),
	)
	return nil
}

// Seal freezes the builder's state into an immutable Segment. Further Add
// calls fail with ErrSegmentSealed.
func (b *Builder) Seal() *Segment {
	b.sealed = true
	return &Segment{
		dict:     b.dict,
		docs:     b.docs,
		docCount: b.docs.Len(),
	}
}

// Build indexes a whole collection and seals the segment.
func Build(docs []Document, tok tokenizer.Tokenizer) (*Segment, error) {
	b := NewBuilder(tok)
	for _, doc := range docs {
		if err := b.Add(doc); err != nil {
			return nil, err
		}
	}
	return b.Seal(), nil
}
