package analyzer

import (
	"testing"

	"textguard/internal/domain"
)

func toks(words ...string) []domain.Token {
	tokens := make([]domain.Token, len(words))
	for i, w := range words {
		tokens[i] = domain.Token{Text: w}
	}
	return tokens
}

func TestShingles_WindowCount(t *testing.T) {
	tokens := toks("a", "b", "c", "d", "e", "f", "g")

	shingles := Shingles(tokens, 5, 1)
	if len(shingles) != 3 {
		t.Errorf("expected 3 shingles for 7 tokens with k=5, got %d", len(shingles))
	}
}

func TestShingles_ShortInput(t *testing.T) {
	tokens := toks("a", "b")

	shingles := Shingles(tokens, 5, 1)
	if len(shingles) != 1 {
		t.Fatalf("expected 1 shingle for short input, got %d", len(shingles))
	}

	same := Shingles(toks("a", "b"), 5, 1)
	if shingles[0] != same[0] {
		t.Error("short-input shingle is not deterministic")
	}
}

func TestShingles_Deterministic(t *testing.T) {
	tokens := toks("research", "methods", "in", "modern", "technology", "are", "evolving")

	first := Shingles(tokens, 5, 1)
	second := Shingles(tokens, 5, 1)
	if len(first) != len(second) {
		t.Fatalf("shingle counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("shingle %d differs", i)
		}
	}
}

func TestShingles_Stride(t *testing.T) {
	tokens := toks("a", "b", "c", "d", "e", "f", "g", "h", "i")

	full := Shingles(tokens, 5, 1)
	sampled := Shingles(tokens, 5, 2)
	if len(sampled) >= len(full) {
		t.Errorf("stride 2 should produce fewer shingles: %d vs %d", len(sampled), len(full))
	}
	if sampled[0] != full[0] {
		t.Error("first shingle should match regardless of stride")
	}
}

func TestShingles_OrderSensitive(t *testing.T) {
	a := Shingles(toks("one", "two", "three", "four", "five"), 5, 1)
	b := Shingles(toks("five", "four", "three", "two", "one"), 5, 1)
	if a[0] == b[0] {
		t.Error("reversed token order should hash differently")
	}
}

func TestShingles_Empty(t *testing.T) {
	if got := Shingles(nil, 5, 1); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
