package search

import "math"

// TFIDF weights a term occurrence by its rarity across the collection:
// termFreq × log2(totalDocs / docFreq). A term present in every document
// scores zero, and docFreq == 0 scores zero rather than dividing by it.
// A document's query score is the sum over all matched query terms.
func TFIDF(termFreq int32, docFreq, totalDocs int) float64 {
	if docFreq == 0 {
		return 0
	}
	return float64(termFreq) * math.Log2(float64(totalDocs)/float64(docFreq))
}
