package citation

import (
	"strconv"
	"strings"
	"testing"

	"textguard/internal/domain"
)

var meta = domain.SourceMeta{
	Author: "Jordan Smith",
	Title:  "Research Methods in Modern Technology",
	Venue:  "Journal of Applied Computing",
	Year:   2021,
}

func TestResolver_AttachesAboveThreshold(t *testing.T) {
	r := NewResolver(0.5)

	c := r.Resolve(domain.MatchedSegment{LocalScore: 0.8}, meta)
	if c == nil {
		t.Fatal("expected a citation for a high-scoring segment")
	}
	if c.MLA == "" || c.APA == "" {
		t.Errorf("both renderings must be populated: %+v", c)
	}
}

func TestResolver_BelowThreshold(t *testing.T) {
	r := NewResolver(0.5)

	if c := r.Resolve(domain.MatchedSegment{LocalScore: 0.49}, meta); c != nil {
		t.Errorf("expected no citation below threshold, got %+v", c)
	}
}

func TestResolver_ExactThreshold(t *testing.T) {
	r := NewResolver(0.5)

	if c := r.Resolve(domain.MatchedSegment{LocalScore: 0.5}, meta); c == nil {
		t.Error("a segment at exactly the threshold should receive a citation")
	}
}

func TestResolver_MissingMetadata(t *testing.T) {
	r := NewResolver(0.5)

	if c := r.Resolve(domain.MatchedSegment{LocalScore: 0.99}, domain.SourceMeta{}); c != nil {
		t.Errorf("absent metadata must yield no citation regardless of score, got %+v", c)
	}
}

func TestResolver_FormatsAgree(t *testing.T) {
	r := NewResolver(0.5)

	c := r.Resolve(domain.MatchedSegment{LocalScore: 0.9}, meta)
	if c == nil {
		t.Fatal("expected a citation")
	}
	for _, rendering := range []string{c.MLA, c.APA} {
		if !strings.Contains(rendering, meta.Author) {
			t.Errorf("rendering missing author: %q", rendering)
		}
		if !strings.Contains(rendering, meta.Title) {
			t.Errorf("rendering missing title: %q", rendering)
		}
		if !strings.Contains(rendering, strconv.Itoa(meta.Year)) {
			t.Errorf("rendering missing year: %q", rendering)
		}
	}
}

func TestResolver_NoVenue(t *testing.T) {
	r := NewResolver(0.5)

	thin := domain.SourceMeta{Author: "Kim Lee", Title: "Notes", Year: 2019}
	c := r.Resolve(domain.MatchedSegment{LocalScore: 0.7}, thin)
	if c == nil {
		t.Fatal("expected a citation without a venue")
	}
	if strings.Contains(c.MLA, ", .") || strings.Contains(c.APA, ". .") {
		t.Errorf("venue-less rendering is malformed: %+v", c)
	}
}
