package index

import "sort"

// PostingNode records one (term, document) pair: the document id and how
// often the term occurs in that document.
type PostingNode struct {
	DocID int64 `json:"doc_id"`
	Freq  int32 `json:"freq"`
}

// PostingList is the per-term postings. Invariant: strictly ascending by
// DocID, at most one node per document. The merge in internal/search relies
// on this ordering.
type PostingList []PostingNode

// Add records one occurrence of the term in docID. If the document already
// has a node its frequency is incremented; otherwise a new node is inserted
// at its sorted position, so the invariant holds for any ingestion order.
func (pl *PostingList) Add(docID int64) {
	list := *pl
	i := sort.Search(len(list), func(i int) bool { return list[i].DocID >= docID })
	if i < len(list) && list[i].DocID == docID {
		list[i].Freq++
		return
	}
	list = append(list, PostingNode{})
	copy(list[i+1:], list[i:])
	list[i] = PostingNode{DocID: docID, Freq: 1}
	*pl = list
}

// DocFreq returns the number of documents containing the term.
func (pl PostingList) DocFreq() int {
	return len(pl)
}
