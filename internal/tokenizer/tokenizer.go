// Package tokenizer defines the tokenization capability consumed by the
// index builder and the query engine. Tokenizers are plain values behind a
// small interface; the engine only depends on token identity and order.
package tokenizer

import (
	"fmt"
	"strings"
	"unicode"
)

// Token is a single term together with its position in the source text. The
// position is carried for future use (phrase queries, highlighting) and is
// ignored by indexing and scoring.
type Token struct {
	Term     string
	Position int
}

// Tokenizer converts raw text into an ordered token sequence.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// New returns the tokenizer registered under name. The index and the query
// side must use the same tokenizer for lookups to line up.
func New(name string) (Tokenizer, error) {
	switch name {
	case "", "whitespace":
		return Whitespace{}, nil
	case "normalizing":
		return Normalizing{}, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", name)
	}
}

// Whitespace is the reference tokenizer: split on whitespace, case
// preserved, no normalization.
type Whitespace struct{}

func (Whitespace) Tokenize(text string) []Token {
	words := strings.Fields(text)
	tokens := make([]Token, 0, len(words))
	for i, word := range words {
		tokens = append(tokens, Token{Term: word, Position: i})
	}
	return tokens
}

// Normalizing lower-cases input and splits on non-alphanumeric boundaries.
// Single-rune fragments are dropped as noise.
type Normalizing struct{}

func (Normalizing) Tokenize(text string) []Token {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]Token, 0, len(words))
	pos := 0
	for _, word := range words {
		if len(word) < 2 {
			continue
		}
		tokens = append(tokens, Token{Term: word, Position: pos})
		pos++
	}
	return tokens
}
