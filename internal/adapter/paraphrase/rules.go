package paraphrase

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"textguard/internal/domain"
)

// Rules is the deterministic fallback strategy: synonym substitution,
// phrase simplification and a passive-to-active heuristic. It needs no
// network, credentials or randomness, so the same input always produces
// the same rewrite.
type Rules struct{}

// NewRules creates the rule-based strategy.
func NewRules() *Rules {
	return &Rules{}
}

// primarySynonyms is the first-choice substitution table.
var primarySynonyms = map[string]string{
	"however":     "nevertheless",
	"important":   "significant",
	"shows":       "demonstrates",
	"show":        "demonstrate",
	"showed":      "demonstrated",
	"use":         "employ",
	"uses":        "employs",
	"used":        "employed",
	"big":         "large",
	"many":        "numerous",
	"helps":       "assists",
	"help":        "assist",
	"quickly":     "rapidly",
	"also":        "additionally",
	"because":     "since",
	"begin":       "commence",
	"began":       "commenced",
	"improve":     "enhance",
	"improves":    "enhances",
	"method":      "approach",
	"methods":     "approaches",
	"result":      "outcome",
	"results":     "outcomes",
	"study":       "investigation",
	"studies":     "investigations",
	"verify":      "confirm",
	"evolving":    "developing",
	"modern":      "contemporary",
	"research":    "scholarship",
	"technology":  "technological tools",
	"understand":  "comprehend",
	"understands": "comprehends",
}

// alternateSynonyms is the second-choice table used for one alternative.
var alternateSynonyms = map[string]string{
	"however":    "yet",
	"important":  "essential",
	"shows":      "indicates",
	"show":       "indicate",
	"showed":     "indicated",
	"use":        "utilize",
	"uses":       "utilizes",
	"used":       "utilized",
	"many":       "a great number of",
	"quickly":    "swiftly",
	"also":       "moreover",
	"because":    "as",
	"improve":    "refine",
	"improves":   "refines",
	"method":     "technique",
	"methods":    "techniques",
	"result":     "finding",
	"results":    "findings",
	"study":      "analysis",
	"studies":    "analyses",
	"verify":     "validate",
	"evolving":   "advancing",
	"modern":     "present-day",
	"research":   "academic work",
	"understand": "grasp",
}

// phraseRewrites simplifies wordy connectors, matched case-insensitively.
// Order matters; longer phrases go first so they are not partially
// rewritten by shorter ones.
var phraseRewrites = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)due to the fact that`), "because"},
	{regexp.MustCompile(`(?i)it is important to note that`), "notably,"},
	{regexp.MustCompile(`(?i)in order to`), "to"},
	{regexp.MustCompile(`(?i)a number of`), "several"},
	{regexp.MustCompile(`(?i)in the event that`), "if"},
	{regexp.MustCompile(`(?i)with regard to`), "regarding"},
	{regexp.MustCompile(`(?i)at this point in time`), "currently"},
}

// passivePattern matches a simple "<subject> was/were <verb>ed by <agent>"
// construction. The rewrite is a heuristic, not a grammar transform.
var passivePattern = regexp.MustCompile(`\b([\w ]+?) (?:was|were) (\w+ed) by (the \w+|[\w]+)`)

// Paraphrase rewrites the text deterministically. The context is unused:
// there is no external I/O to cancel.
func (r *Rules) Paraphrase(_ context.Context, text string, opts domain.ParaphraseOptions) (domain.ParaphraseResult, error) {
	maxAlts := opts.MaxAlternatives
	if maxAlts <= 0 || maxAlts > 3 {
		maxAlts = 3
	}

	full := applyPassive(applyPhrases(applySynonyms(text, primarySynonyms)))
	primary := full
	if opts.Strength == domain.MeaningStrict && !withinLengthBudget(text, primary) {
		// Phrase shortening can overshoot the budget; synonym swaps are 1:1.
		primary = applySynonyms(text, primarySynonyms)
	}

	if primary == text {
		return domain.ParaphraseResult{}, domain.ErrParaphraseUnavailable
	}

	candidates := []string{
		applySynonyms(text, alternateSynonyms),
		applyPassive(applyPhrases(text)),
		applyPhrases(applySynonyms(text, alternateSynonyms)),
	}
	alternatives := make([]string, 0, maxAlts)
	seen := map[string]struct{}{text: {}, primary: {}}
	for _, c := range candidates {
		if len(alternatives) == maxAlts {
			break
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		alternatives = append(alternatives, c)
	}

	return domain.ParaphraseResult{
		Primary:      primary,
		Alternatives: alternatives,
		Reduction:    estimateReduction(text, primary),
	}, nil
}

// Name identifies the strategy.
func (r *Rules) Name() string {
	return "rules"
}

// estimateReduction derives a similarity-reduction range from word-level
// Jaccard similarity between input and rewrite.
func estimateReduction(input, rewrite string) domain.ReductionBounds {
	sim := float64(edlib.JaccardSimilarity(input, rewrite, 0))
	reduction := int((1 - sim) * 100)
	low := reduction - 10
	if low < 5 {
		low = 5
	}
	high := reduction + 10
	if high > 95 {
		high = 95
	}
	if high < low {
		high = low
	}
	return domain.ReductionBounds{Low: low, High: high}
}

// withinLengthBudget reports whether the rewrite stays within 20% of the
// input word count.
func withinLengthBudget(input, rewrite string) bool {
	in := len(strings.Fields(input))
	out := len(strings.Fields(rewrite))
	if in == 0 {
		return out == 0
	}
	lower := float64(in) * 0.8
	upper := float64(in) * 1.2
	return float64(out) >= lower && float64(out) <= upper
}

// applySynonyms swaps whole words through the table, preserving leading
// capitalization.
func applySynonyms(text string, table map[string]string) string {
	var b strings.Builder
	b.Grow(len(text))

	flush := func(word string) {
		replacement, ok := table[strings.ToLower(word)]
		if !ok {
			b.WriteString(word)
			return
		}
		b.WriteString(matchCase(word, replacement))
	}

	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			flush(text[start:i])
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		flush(text[start:])
	}
	return b.String()
}

func matchCase(original, replacement string) string {
	if original == strings.ToUpper(original) && len(original) > 1 {
		return strings.ToUpper(replacement)
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(replacement)
		return string(unicode.ToUpper(r)) + replacement[size:]
	}
	return replacement
}

func applyPhrases(text string) string {
	for _, pr := range phraseRewrites {
		text = pr.pattern.ReplaceAllLiteralString(text, pr.replacement)
	}
	return text
}

// applyPassive flips simple passive constructions to an active ordering.
func applyPassive(text string) string {
	return passivePattern.ReplaceAllString(text, "$3 $2 $1")
}
