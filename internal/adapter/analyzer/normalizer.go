package analyzer

import (
	"strings"
	"unicode"

	"textguard/internal/domain"
)

// DefaultForbiddenSymbols is the symbol set stripped during humanization:
// underscores, hyphens, colons, semicolons, slashes, pipes and quotes.
const DefaultForbiddenSymbols = "_-':;/\\|\""

// Normalizer turns raw text into a normalized token stream, preserving the
// original byte offsets of every token for later highlighting. It is pure:
// the same input always yields the same token sequence.
type Normalizer struct {
	maxLength  int
	forbidden  map[rune]struct{}
	stripEmoji bool
}

// NewNormalizer creates a Normalizer. maxLength <= 0 disables the length
// check. forbiddenSymbols defaults to DefaultForbiddenSymbols when empty.
func NewNormalizer(maxLength int, forbiddenSymbols string, stripEmoji bool) *Normalizer {
	if forbiddenSymbols == "" {
		forbiddenSymbols = DefaultForbiddenSymbols
	}
	forbidden := make(map[rune]struct{}, len(forbiddenSymbols))
	for _, r := range forbiddenSymbols {
		forbidden[r] = struct{}{}
	}
	return &Normalizer{
		maxLength:  maxLength,
		forbidden:  forbidden,
		stripEmoji: stripEmoji,
	}
}

// Normalize validates and tokenizes text. Tokens are lowercased; any rune
// that is not part of a word acts as a separator, which covers whitespace
// runs, punctuation and the forbidden symbol set alike.
func (n *Normalizer) Normalize(text string) ([]domain.Token, error) {
	if n.maxLength > 0 && len(text) > n.maxLength {
		return nil, domain.ErrInputTooLarge
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInputEmpty
	}

	var tokens []domain.Token
	start := -1
	for i, r := range text {
		if n.isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, makeToken(text, start, i))
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, makeToken(text, start, len(text)))
	}

	if len(tokens) == 0 {
		return nil, domain.ErrInputEmpty
	}
	return tokens, nil
}

// Clean returns the humanized form of text: the original token substrings
// joined by single spaces. Case is preserved, punctuation and forbidden
// symbols are gone, whitespace runs are collapsed. Idempotent.
func (n *Normalizer) Clean(text string) (string, error) {
	tokens, err := n.Normalize(text)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = text[t.Start:t.End]
	}
	return strings.Join(parts, " "), nil
}

// MaxLength returns the configured input limit in bytes.
func (n *Normalizer) MaxLength() int {
	return n.maxLength
}

func (n *Normalizer) isWordRune(r rune) bool {
	if _, bad := n.forbidden[r]; bad {
		return false
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	if !n.stripEmoji && isEmoji(r) {
		return true
	}
	return false
}

// isEmoji covers the common pictographic blocks. It does not try to be
// exhaustive over every Unicode emoji sequence.
func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r == 0x200D:
		return true
	}
	return false
}

func makeToken(text string, start, end int) domain.Token {
	return domain.Token{
		Text:  strings.ToLower(text[start:end]),
		Start: start,
		End:   end,
	}
}
