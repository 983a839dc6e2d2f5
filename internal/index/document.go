// Package index holds the core data model of a segment: documents, posting
// lists, the arena-allocated term dictionary, and the single-writer builder
// that turns a document collection into a frozen Segment.
package index

// Document is one indexed record. IDs are caller-assigned and must be
// positive.
type Document struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// DocumentStore owns the document records of a segment. Callers receive
// value copies, never long-lived mutable access.
type DocumentStore struct {
	docs map[int64]Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[int64]Document)}
}

func (s *DocumentStore) put(doc Document) {
	s.docs[doc.ID] = doc
}

// Get returns the document stored under id.
func (s *DocumentStore) Get(id int64) (Document, bool) {
	doc, ok := s.docs[id]
	return doc, ok
}

// Len returns the number of stored documents.
func (s *DocumentStore) Len() int {
	return len(s.docs)
}
