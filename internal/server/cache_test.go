package server

import "testing"

func TestNormalizeQueryIsOrderIndependent(t *testing.T) {
	a := normalizeQuery("hello there test")
	b := normalizeQuery("test  hello there")
	if a != b {
		t.Fatalf("normalized forms differ: %q vs %q", a, b)
	}
}

func TestNormalizeQueryPreservesCase(t *testing.T) {
	// The whitespace tokenizer is case-sensitive, so the cache key must be
	// too: "Hello" and "hello" are different terms.
	if normalizeQuery("Hello") == normalizeQuery("hello") {
		t.Fatal("cache key must not conflate case-distinct queries")
	}
}

func TestBuildKeyDistinguishesLimit(t *testing.T) {
	c := &QueryCache{}
	if c.buildKey("hello", 5) == c.buildKey("hello", 10) {
		t.Fatal("cache key must include the result limit")
	}
}
