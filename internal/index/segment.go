package index

// Segment owns one TermDict and one DocumentStore. It is built once by a
// Builder (or restored by the persistence reader) and is immutable
// afterwards, so any number of queries may read it concurrently without
// locking.
type Segment struct {
	dict     *TermDict
	docs     *DocumentStore
	docCount int
}

// Postings returns the posting list for an exact term match.
func (s *Segment) Postings(term string) (PostingList, bool) {
	return s.dict.Lookup(term)
}

// Document returns a copy of the stored document. Restored segments carry
// postings only, so Document may miss even for indexed ids.
func (s *Segment) Document(id int64) (Document, bool) {
	return s.docs.Get(id)
}

// DocCount returns the number of documents indexed at build time. The
// TF-IDF scorer uses this as the collection size.
func (s *Segment) DocCount() int {
	return s.docCount
}

// TermCount returns the number of distinct terms.
func (s *Segment) TermCount() int {
	return s.dict.Terms()
}

// WalkTerms visits every (term, postings) pair in lexicographic order.
func (s *Segment) WalkTerms(fn func(term string, postings PostingList)) {
	s.dict.Walk(fn)
}

// RestoreSegment assembles a frozen Segment from already-built parts. It is
// intended for the persistence reader; docCount is the build-time total, so
// scores match the original segment even when documents are not restored.
func RestoreSegment(dict *TermDict, docs *DocumentStore, docCount int) *Segment {
	return &Segment{dict: dict, docs: docs, docCount: docCount}
}
