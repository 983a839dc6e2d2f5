package search

import (
	"math"
	"testing"
)

func TestTFIDF(t *testing.T) {
	tests := []struct {
		name      string
		termFreq  int32
		docFreq   int
		totalDocs int
		want      float64
	}{
		{"zero doc freq", 5, 0, 10, 0},
		{"term in every document", 3, 10, 10, 0},
		{"half the collection", 1, 5, 10, 1},
		{"frequency scales linearly", 4, 5, 10, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TFIDF(tt.termFreq, tt.docFreq, tt.totalDocs)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("TFIDF(%d,%d,%d) = %v, want %v",
					tt.termFreq, tt.docFreq, tt.totalDocs, got, tt.want)
			}
		})
	}
}

func TestTFIDFNonNegativeAndMonotonic(t *testing.T) {
	for totalDocs := 1; totalDocs <= 8; totalDocs++ {
		for docFreq := 1; docFreq <= totalDocs; docFreq++ {
			prev := -1.0
			for tf := int32(1); tf <= 4; tf++ {
				score := TFIDF(tf, docFreq, totalDocs)
				if score < 0 {
					t.Fatalf("negative score for tf=%d df=%d n=%d", tf, docFreq, totalDocs)
				}
				if docFreq < totalDocs && score <= prev {
					t.Fatalf("score not strictly increasing in tf for df=%d n=%d", docFreq, totalDocs)
				}
				if docFreq == totalDocs && score != 0 {
					t.Fatalf("df == n must score zero, got %v", score)
				}
				prev = score
			}
		}
	}
}
