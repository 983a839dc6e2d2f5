package tokenizer

import "testing"

func TestWhitespacePreservesCaseAndOrder(t *testing.T) {
	tokens := Whitespace{}.Tokenize("Hello this  is\ta Text")

	want := []string{"Hello", "this", "is", "a", "Text"}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, term := range want {
		if tokens[i].Term != term {
			t.Fatalf("token %d = %q, want %q", i, tokens[i].Term, term)
		}
		if tokens[i].Position != i {
			t.Fatalf("token %d position = %d, want %d", i, tokens[i].Position, i)
		}
	}
}

func TestWhitespaceEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		if tokens := (Whitespace{}).Tokenize(text); len(tokens) != 0 {
			t.Fatalf("input %q: expected no tokens, got %v", text, tokens)
		}
	}
}

func TestNormalizingLowercasesAndSplitsPunctuation(t *testing.T) {
	tokens := Normalizing{}.Tokenize("Hello, World! x 42")

	want := []string{"hello", "world", "42"}
	if len(tokens) != len(want) {
		t.Fatalf("got %v, want %v", tokens, want)
	}
	for i, term := range want {
		if tokens[i].Term != term {
			t.Fatalf("token %d = %q, want %q", i, tokens[i].Term, term)
		}
	}
}

func TestNewTokenizer(t *testing.T) {
	if _, err := New(""); err != nil {
		t.Fatal(err)
	}
	if _, err := New("whitespace"); err != nil {
		t.Fatal(err)
	}
	if _, err := New("normalizing"); err != nil {
		t.Fatal(err)
	}
	if _, err := New("porter"); err == nil {
		t.Fatal("expected error for unknown tokenizer")
	}
}
