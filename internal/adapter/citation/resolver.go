package citation

import (
	"fmt"

	"textguard/internal/domain"
)

// DefaultThreshold is the minimum segment score before bibliographic
// metadata is attached to a match.
const DefaultThreshold = 0.5

// Resolver renders citations from the canonical metadata registered with a
// corpus document. Both formats derive from the same record, so author,
// year and title can never drift between renderings.
type Resolver struct {
	threshold float64
}

// NewResolver creates a Resolver. threshold <= 0 falls back to
// DefaultThreshold.
func NewResolver(threshold float64) *Resolver {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Resolver{threshold: threshold}
}

// Resolve returns a citation for the segment, or nil when the segment
// scores below the threshold or the source has no registered metadata.
func (r *Resolver) Resolve(seg domain.MatchedSegment, meta domain.SourceMeta) *domain.Citation {
	if seg.LocalScore < r.threshold || meta.IsZero() {
		return nil
	}
	return &domain.Citation{
		MLA: formatMLA(meta),
		APA: formatAPA(meta),
	}
}

func formatMLA(m domain.SourceMeta) string {
	if m.Venue != "" {
		return fmt.Sprintf("%s. %q %s, %d.", m.Author, m.Title+".", m.Venue, m.Year)
	}
	return fmt.Sprintf("%s. %q %d.", m.Author, m.Title+".", m.Year)
}

func formatAPA(m domain.SourceMeta) string {
	if m.Venue != "" {
		return fmt.Sprintf("%s (%d). %s. %s.", m.Author, m.Year, m.Title, m.Venue)
	}
	return fmt.Sprintf("%s (%d). %s.", m.Author, m.Year, m.Title)
}
