// Package search implements the query side: term lookup, the
// document-at-a-time merge across sorted posting lists, TF-IDF scoring, and
// bounded top-K selection.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/1ou/danton/internal/index"
	"github.com/1ou/danton/internal/tokenizer"
	apperrors "github.com/1ou/danton/pkg/errors"
)

// Result is a ranked query response.
type Result struct {
	Query     string      `json:"query"`
	TotalHits int         `json:"total_hits"`
	Results   []ScoredDoc `json:"results"`
}

// Engine evaluates conjunctive queries against the live segment. The
// segment is frozen, so reads need no locking; rebuilds swap in a fresh
// segment atomically and in-flight queries keep the one they loaded.
type Engine struct {
	seg        atomic.Pointer[index.Segment]
	tok        tokenizer.Tokenizer
	stepBudget int
	logger     *slog.Logger
}

// NewEngine creates an Engine with no segment loaded. stepBudget bounds the
// merge loop per query; 0 disables the bound.
func NewEngine(tok tokenizer.Tokenizer, stepBudget int) *Engine {
	return &Engine{
		tok:        tok,
		stepBudget: stepBudget,
		logger:     slog.Default().With("component", "query-engine"),
	}
}

// Swap atomically replaces the live segment.
func (e *Engine) Swap(seg *index.Segment) {
	e.seg.Store(seg)
}

// Segment returns the live segment, or nil before the first build.
func (e *Engine) Segment() *index.Segment {
	return e.seg.Load()
}

// Search tokenizes the query, intersects the postings of every distinct
// term, and returns the k best matches ranked by summed TF-IDF (ties broken
// by ascending id).
//
// An empty query and a query containing a term with no postings both yield
// an empty result, not an error: conjunctive semantics make an absent term
// unsatisfiable.
func (e *Engine) Search(ctx context.Context, query string, k int) (*Result, error) {
	seg := e.seg.Load()
	if seg == nil {
		return nil, fmt.Errorf("no segment loaded: %w", apperrors.ErrIndexNotFound)
	}

	result := &Result{Query: query, Results: []ScoredDoc{}}

	terms := distinctTerms(e.tok.Tokenize(query))
	if len(terms) == 0 {
		return result, nil
	}

	cursors := make([]*cursor, 0, len(terms))
	for _, term := range terms {
		postings, ok := seg.Postings(term)
		if !ok || len(postings) == 0 {
			e.logger.Debug("unknown term short-circuits query", "term", term)
			return result, nil
		}
		cursors = append(cursors, newCursor(postings))
	}

	selector := newTopK(k)
	err := intersect(ctx, cursors, seg.DocCount(), e.stepBudget, func(id int64, score float64) {
		result.TotalHits++
		selector.Offer(id, score)
	})
	if err != nil {
		return nil, fmt.Errorf("intersecting %d terms: %w", len(terms), err)
	}

	result.Results = selector.Ranked()
	return result, nil
}

// distinctTerms keeps the first occurrence of each term, preserving order.
func distinctTerms(tokens []tokenizer.Token) []string {
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, dup := seen[t.Term]; dup {
			continue
		}
		seen[t.Term] = struct{}{}
		terms = append(terms, t.Term)
	}
	return terms
}
