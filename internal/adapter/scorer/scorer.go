package scorer

import (
	"math"
	"sort"

	"textguard/internal/adapter/analyzer"
	"textguard/internal/adapter/index"
	"textguard/internal/domain"
)

// Scorer computes TF-IDF weighted cosine similarity over shingles between
// a query and candidate corpus documents, and extracts matched segments
// with original character offsets. All arithmetic iterates shingles in
// sorted order, so identical inputs against an identical corpus snapshot
// produce bit-identical results.
type Scorer struct {
	minOverlap       float64
	segmentThreshold float64
	windowTokens     int
	shingleK         int
}

// New creates a Scorer. minOverlap is the per-candidate score below which
// a candidate does not contribute to the aggregate; segmentThreshold is
// the local window score below which no segment is reported.
func New(minOverlap, segmentThreshold float64, windowTokens, shingleK int) *Scorer {
	if windowTokens <= 0 {
		windowTokens = 16
	}
	if shingleK <= 0 {
		shingleK = analyzer.DefaultShingleK
	}
	return &Scorer{
		minOverlap:       minOverlap,
		segmentThreshold: segmentThreshold,
		windowTokens:     windowTokens,
		shingleK:         shingleK,
	}
}

// Score compares the query against the candidate documents.
//
// The overall score is the noisy-or aggregate 1 - prod(1-s_i) over the
// candidates scoring at least minOverlap, which equals the best candidate
// score when exactly one qualifies and is monotonically non-decreasing as
// qualifying matches are added. When no candidate qualifies it degrades to
// the best raw candidate score.
func (sc *Scorer) Score(raw string, tokens []domain.Token, shingles []uint64, candidateIDs []string, snap *index.Snapshot) domain.SimilarityResult {
	result := domain.SimilarityResult{Segments: []domain.MatchedSegment{}}
	if len(shingles) == 0 || len(candidateIDs) == 0 || snap.TotalDocs() == 0 {
		return result
	}

	queryVec := newVector(shingles, snap)

	type candidate struct {
		id    string
		vec   vector
		score float64
	}
	candidates := make([]candidate, 0, len(candidateIDs))
	bestScore := 0.0
	missing := 1.0
	qualifying := 0
	for _, id := range candidateIDs {
		doc, ok := snap.Doc(id)
		if !ok {
			continue
		}
		vec := newVector(doc.Shingles, snap)
		s := cosine(queryVec, vec)
		candidates = append(candidates, candidate{id: id, vec: vec, score: s})
		if s > bestScore {
			bestScore = s
		}
		if s >= sc.minOverlap {
			qualifying++
			missing *= 1 - s
		}
	}

	if qualifying > 0 {
		result.OverallScore = 1 - missing
	} else {
		result.OverallScore = bestScore
	}
	// Guard against float drift at the boundaries.
	if result.OverallScore > 1 {
		result.OverallScore = 1
	}
	if result.OverallScore < 0 {
		result.OverallScore = 0
	}

	if len(candidates) > 0 {
		vecs := make(map[string]vector, len(candidates))
		order := make([]string, 0, len(candidates))
		for _, c := range candidates {
			vecs[c.id] = c.vec
			order = append(order, c.id)
		}
		result.Segments = sc.segments(raw, tokens, vecs, order, snap)
	}

	return result
}

// segments slides a token window over the query, scores each window against
// every candidate, and merges consecutive windows that clear the threshold
// and attribute to the same source into one segment. The merged segment
// keeps the maximum window score.
func (sc *Scorer) segments(raw string, tokens []domain.Token, vecs map[string]vector, order []string, snap *index.Snapshot) []domain.MatchedSegment {
	segments := []domain.MatchedSegment{}
	if len(tokens) == 0 {
		return segments
	}

	w := sc.windowTokens
	if w > len(tokens) {
		w = len(tokens)
	}
	step := w / 2
	if step < 1 {
		step = 1
	}

	type window struct {
		startTok, endTok int
		source           string
		score            float64
	}
	var hits []window

	for i := 0; ; i += step {
		end := i + w
		last := false
		if end >= len(tokens) {
			end = len(tokens)
			i = end - w
			last = true
		}
		winShingles := analyzer.Shingles(tokens[i:end], sc.shingleK, 1)
		winVec := newVector(winShingles, snap)

		bestSource := ""
		bestScore := 0.0
		for _, id := range order {
			s := cosine(winVec, vecs[id])
			if s > bestScore {
				bestScore = s
				bestSource = id
			}
		}
		if bestScore >= sc.segmentThreshold {
			hits = append(hits, window{startTok: i, endTok: end, source: bestSource, score: bestScore})
		}
		if last {
			break
		}
	}

	for _, h := range hits {
		n := len(segments)
		if n > 0 && segments[n-1].SourceID == h.source && tokens[h.startTok].Start <= segments[n-1].End {
			// Overlapping or adjacent window against the same source:
			// extend the previous segment.
			if tokens[h.endTok-1].End > segments[n-1].End {
				segments[n-1].End = tokens[h.endTok-1].End
			}
			if h.score > segments[n-1].LocalScore {
				segments[n-1].LocalScore = h.score
			}
			segments[n-1].Text = raw[segments[n-1].Start:segments[n-1].End]
			continue
		}
		start := tokens[h.startTok].Start
		end := tokens[h.endTok-1].End
		segments = append(segments, domain.MatchedSegment{
			Text:       raw[start:end],
			SourceID:   h.source,
			Start:      start,
			End:        end,
			LocalScore: h.score,
		})
	}

	return segments
}

// vector is a sparse TF-IDF vector with shingles in ascending order, so
// dot products accumulate in a fixed order.
type vector struct {
	keys    []uint64
	weights []float64
	norm    float64
}

func newVector(shingles []uint64, snap *index.Snapshot) vector {
	counts := make(map[uint64]int, len(shingles))
	for _, sh := range shingles {
		counts[sh]++
	}
	keys := make([]uint64, 0, len(counts))
	for sh := range counts {
		keys = append(keys, sh)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	weights := make([]float64, len(keys))
	norm := 0.0
	for i, sh := range keys {
		w := float64(counts[sh]) * idf(snap, sh)
		weights[i] = w
		norm += w * w
	}
	return vector{keys: keys, weights: weights, norm: math.Sqrt(norm)}
}

// idf down-weights shingles common across the corpus. Smoothed so shingles
// absent from the corpus still carry weight in the query norm.
func idf(snap *index.Snapshot, sh uint64) float64 {
	n := snap.TotalDocs()
	if n == 0 {
		return 1
	}
	return math.Log(1 + float64(n)/float64(1+snap.DocFreq(sh)))
}

func cosine(a, b vector) float64 {
	if a.norm == 0 || b.norm == 0 {
		return 0
	}
	dot := 0.0
	i, j := 0, 0
	for i < len(a.keys) && j < len(b.keys) {
		switch {
		case a.keys[i] == b.keys[j]:
			dot += a.weights[i] * b.weights[j]
			i++
			j++
		case a.keys[i] < b.keys[j]:
			i++
		default:
			j++
		}
	}
	s := dot / (a.norm * b.norm)
	if s > 1 {
		s = 1
	}
	return s
}
