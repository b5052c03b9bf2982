package analyzer

import (
	"errors"
	"strings"
	"testing"

	"textguard/internal/domain"
)

func TestNormalizer_Clean_ForbiddenSymbols(t *testing.T) {
	n := NewNormalizer(10000, "", true)

	got, err := n.Clean("Research shows; however, it's important--to verify sources")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Research shows however it s important to verify sources"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalizer_Clean_Idempotent(t *testing.T) {
	n := NewNormalizer(10000, "", true)

	inputs := []string{
		"Research shows; however, it's important--to verify sources",
		"plain words only",
		"  spaced   out\ttext\nwith  breaks ",
		"symbols: a_b c-d e/f g|h",
	}
	for _, input := range inputs {
		once, err := n.Clean(input)
		if err != nil {
			t.Fatalf("Clean(%q) failed: %v", input, err)
		}
		twice, err := n.Clean(once)
		if err != nil {
			t.Fatalf("Clean(Clean(%q)) failed: %v", input, err)
		}
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalizer_Normalize_Offsets(t *testing.T) {
	n := NewNormalizer(0, "", true)

	raw := "Hello, World"
	tokens, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0].Text != "hello" || raw[tokens[0].Start:tokens[0].End] != "Hello" {
		t.Errorf("bad first token: %+v", tokens[0])
	}
	if tokens[1].Text != "world" || raw[tokens[1].Start:tokens[1].End] != "World" {
		t.Errorf("bad second token: %+v", tokens[1])
	}
}

func TestNormalizer_Normalize_InputTooLarge(t *testing.T) {
	n := NewNormalizer(100, "", true)

	_, err := n.Normalize(strings.Repeat("a", 101))
	if !errors.Is(err, domain.ErrInputTooLarge) {
		t.Errorf("expected ErrInputTooLarge, got %v", err)
	}
}

func TestNormalizer_Normalize_EmptyInput(t *testing.T) {
	n := NewNormalizer(100, "", true)

	for _, input := range []string{"", "   ", "\t\n", "--;;--"} {
		_, err := n.Normalize(input)
		if !errors.Is(err, domain.ErrInputEmpty) {
			t.Errorf("Normalize(%q): expected ErrInputEmpty, got %v", input, err)
		}
	}
}

func TestNormalizer_Normalize_Deterministic(t *testing.T) {
	n := NewNormalizer(10000, "", true)

	raw := "The same input; always-yields the same tokens"
	first, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("token counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestNormalizer_StripEmoji(t *testing.T) {
	strip := NewNormalizer(0, "", true)
	keep := NewNormalizer(0, "", false)

	raw := "great work \U0001F600 indeed"

	got, err := strip.Clean(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "great work indeed" {
		t.Errorf("expected emoji stripped, got %q", got)
	}

	got, err = keep.Clean(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "\U0001F600") {
		t.Errorf("expected emoji kept, got %q", got)
	}
}

func TestNormalizer_CustomForbiddenSymbols(t *testing.T) {
	n := NewNormalizer(0, "@#", true)

	got, err := n.Clean("user@example or thing#tag")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "user example or thing tag" {
		t.Errorf("unexpected clean output: %q", got)
	}
}
