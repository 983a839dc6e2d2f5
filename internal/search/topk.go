package search

import (
	"container/heap"
	"sort"
)

// ScoredDoc is one ranked search hit.
type ScoredDoc struct {
	ID    int64   `json:"id"`
	Score float64 `json:"score"`
}

// topK is a bounded min-heap holding the k strongest candidates seen so
// far. The heap minimum is the weakest held entry, so a new candidate only
// displaces it when its score is strictly higher. Candidates arrive in
// ascending doc-id order, which makes ties at the boundary deterministic:
// the earlier (smaller) id is kept.
type topK struct {
	k     int
	items []ScoredDoc
}

func newTopK(k int) *topK {
	return &topK{k: k, items: make([]ScoredDoc, 0, k)}
}

func (t *topK) Len() int { return len(t.items) }

func (t *topK) Less(i, j int) bool {
	if t.items[i].Score != t.items[j].Score {
		return t.items[i].Score < t.items[j].Score
	}
	return t.items[i].ID > t.items[j].ID
}

func (t *topK) Swap(i, j int) { t.items[i], t.items[j] = t.items[j], t.items[i] }

func (t *topK) Push(x any) { t.items = append(t.items, x.(ScoredDoc)) }

func (t *topK) Pop() any {
	old := t.items
	n := len(old)
	item := old[n-1]
	t.items = old[:n-1]
	return item
}

// Offer considers one candidate.
func (t *topK) Offer(id int64, score float64) {
	if t.k <= 0 {
		return
	}
	if len(t.items) < t.k {
		heap.Push(t, ScoredDoc{ID: id, Score: score})
		return
	}
	if score > t.items[0].Score {
		t.items[0] = ScoredDoc{ID: id, Score: score}
		heap.Fix(t, 0)
	}
}

// Ranked drains the selector into a slice ordered by score descending, ties
// broken by id ascending.
func (t *topK) Ranked() []ScoredDoc {
	result := make([]ScoredDoc, len(t.items))
	copy(result, t.items)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].ID < result[j].ID
	})
	return result
}
