package search

import (
	"context"
	"errors"
	"sort"

	"github.com/1ou/danton/internal/index"
)

// ErrStepBudgetExceeded is returned when a query's merge loop runs past the
// configured iteration budget.
var ErrStepBudgetExceeded = errors.New("merge step budget exceeded")

// cursor walks one term's posting list during the document-at-a-time merge.
type cursor struct {
	list    index.PostingList
	docFreq int
	pos     int
}

func newCursor(list index.PostingList) *cursor {
	return &cursor{list: list, docFreq: list.DocFreq()}
}

func (c *cursor) exhausted() bool { return c.pos >= len(c.list) }

func (c *cursor) docID() int64 { return c.list[c.pos].DocID }

func (c *cursor) freq() int32 { return c.list[c.pos].Freq }

// seek advances to the first node with doc id >= target. Binary search over
// the remaining suffix keeps skips cheap on long lists.
func (c *cursor) seek(target int64) {
	rest := c.list[c.pos:]
	c.pos += sort.Search(len(rest), func(i int) bool { return rest[i].DocID >= target })
}

func (c *cursor) advance() { c.pos++ }

// intersect runs the k-way sorted merge over all cursors and calls emit for
// every document present in every list, with its summed TF-IDF score.
//
// Matches surface in ascending doc-id order, not score order, so the scan
// always runs to exhaustion; bounding the result set is the caller's top-K
// selector's job, never the merge's. The loop stops as soon as any single
// list is exhausted: every further match would need an entry in that list.
//
// stepBudget > 0 caps the number of loop iterations for pathological
// queries; 0 means unbounded.
func intersect(ctx context.Context, cursors []*cursor, totalDocs int, stepBudget int, emit func(id int64, score float64)) error {
	if len(cursors) == 0 {
		return nil
	}
	steps := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if stepBudget > 0 {
			steps++
			if steps > stepBudget {
				return ErrStepBudgetExceeded
			}
		}

		maxDoc := cursors[0].docID()
		for _, c := range cursors[1:] {
			if c.docID() > maxDoc {
				maxDoc = c.docID()
			}
		}

		aligned := true
		for _, c := range cursors {
			if c.docID() < maxDoc {
				c.seek(maxDoc)
				if c.exhausted() {
					return nil
				}
				if c.docID() != maxDoc {
					aligned = false
				}
			}
		}
		if !aligned {
			continue
		}

		var score float64
		for _, c := range cursors {
			score += TFIDF(c.freq(), c.docFreq, totalDocs)
		}
		emit(maxDoc, score)

		for _, c := range cursors {
			c.advance()
			if c.exhausted() {
				return nil
			}
		}
	}
}
