package usecase

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"textguard/internal/adapter/analyzer"
	"textguard/internal/adapter/citation"
	"textguard/internal/adapter/index"
	"textguard/internal/adapter/scorer"
	"textguard/internal/domain"
	"textguard/internal/port"
)

// Pipeline composes the analyzer, fingerprint index, scorer, citation
// resolver and paraphraser into the three product operations. Each call is
// stateless aside from the shared read-mostly index snapshot; every
// request-scoped value is freshly allocated.
type Pipeline struct {
	normalizer     *analyzer.Normalizer // enforces the input limit
	docNormalizer  *analyzer.Normalizer // no limit; corpus documents can be long
	index          *index.Index
	scorer         *scorer.Scorer
	citations      *citation.Resolver
	paraphraser    port.ParaphraseStrategy
	authorizer     port.Authorizer
	store          port.CorpusStore // optional write-through persistence
	log            zerolog.Logger
	shingleK       int
	stride         int
	candidateLimit int
	paraphraseOpts domain.ParaphraseOptions
}

// PipelineDeps carries the collaborators for NewPipeline.
type PipelineDeps struct {
	Normalizer    *analyzer.Normalizer
	DocNormalizer *analyzer.Normalizer
	Index         *index.Index
	Scorer        *scorer.Scorer
	Citations     *citation.Resolver
	Paraphraser   port.ParaphraseStrategy
	Authorizer    port.Authorizer
	Store         port.CorpusStore
	Log           zerolog.Logger

	ShingleK       int
	Stride         int
	CandidateLimit int
	ParaphraseOpts domain.ParaphraseOptions
}

// NewPipeline creates the orchestrator.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.CandidateLimit <= 0 {
		deps.CandidateLimit = 10
	}
	if deps.DocNormalizer == nil {
		deps.DocNormalizer = deps.Normalizer
	}
	return &Pipeline{
		normalizer:     deps.Normalizer,
		docNormalizer:  deps.DocNormalizer,
		index:          deps.Index,
		scorer:         deps.Scorer,
		citations:      deps.Citations,
		paraphraser:    deps.Paraphraser,
		authorizer:     deps.Authorizer,
		store:          deps.Store,
		log:            deps.Log,
		shingleK:       deps.ShingleK,
		stride:         deps.Stride,
		candidateLimit: deps.CandidateLimit,
		paraphraseOpts: deps.ParaphraseOpts,
	}
}

// Humanize strips formatting artifacts from the text. It never assigns a
// similarity score.
func (p *Pipeline) Humanize(text string) (string, error) {
	return p.normalizer.Clean(text)
}

// Detect scores the text against the indexed corpus. Candidate lookup,
// scoring and citation resolution all read one index snapshot, so a
// concurrent corpus addition cannot produce a torn result.
func (p *Pipeline) Detect(text string) (domain.SimilarityResult, error) {
	tokens, err := p.normalizer.Normalize(text)
	if err != nil {
		return domain.SimilarityResult{}, err
	}
	shingles := analyzer.Shingles(tokens, p.shingleK, p.stride)

	snap := p.index.Snapshot()
	ids := snap.Candidates(shingles, p.candidateLimit)
	result := p.scorer.Score(text, tokens, shingles, ids, snap)

	for i := range result.Segments {
		doc, ok := snap.Doc(result.Segments[i].SourceID)
		if !ok {
			continue
		}
		result.Segments[i].Citation = p.citations.Resolve(result.Segments[i], doc.Meta)
	}

	return result, nil
}

// Remove paraphrases the text and verifies the reduction by re-scoring
// every rewrite against the same corpus. The recomputed delta is the
// authoritative estimate; the paraphraser's self-reported number is only
// checked against it for logging.
func (p *Pipeline) Remove(ctx context.Context, text string) (domain.RemovalResult, error) {
	baseline, err := p.Detect(text)
	if err != nil {
		return domain.RemovalResult{}, err
	}

	pr, err := p.paraphraser.Paraphrase(ctx, text, p.paraphraseOpts)
	if err != nil {
		return domain.RemovalResult{}, err
	}

	rewrites := append([]string{pr.Primary}, pr.Alternatives...)
	best := ""
	bestScore := math.Inf(1)
	for _, rw := range rewrites {
		re, err := p.Detect(rw)
		if err != nil {
			p.log.Debug().Err(err).Msg("rewrite failed re-detection, skipping")
			continue
		}
		if re.OverallScore < bestScore {
			bestScore = re.OverallScore
			best = rw
		}
	}
	if best == "" {
		return domain.RemovalResult{}, domain.ErrParaphraseUnavailable
	}
	if baseline.OverallScore > 0 && bestScore > baseline.OverallScore {
		// Every rewrite measured worse than the original; shipping one
		// would raise the score the caller is trying to lower.
		return domain.RemovalResult{}, domain.ErrParaphraseUnavailable
	}

	alternatives := make([]string, 0, len(rewrites)-1)
	for _, rw := range rewrites {
		if rw != best {
			alternatives = append(alternatives, rw)
		}
	}
	if max := p.paraphraseOpts.MaxAlternatives; max > 0 && len(alternatives) > max {
		alternatives = alternatives[:max]
	}

	measured := 0
	if baseline.OverallScore > 0 {
		measured = int(math.Round((baseline.OverallScore - bestScore) / baseline.OverallScore * 100))
	}
	if measured < pr.Reduction.Low || measured > pr.Reduction.High {
		p.log.Debug().
			Int("measured_pct", measured).
			Int("reported_low", pr.Reduction.Low).
			Int("reported_high", pr.Reduction.High).
			Msg("self-reported reduction disagrees with recomputed delta")
	}
	low := measured - 5
	if low < 0 {
		low = 0
	}
	high := measured + 5
	if high > 100 {
		high = 100
	}

	return domain.RemovalResult{
		ParaphraseResult: domain.ParaphraseResult{
			Primary:      best,
			Alternatives: alternatives,
			Reduction:    domain.ReductionBounds{Low: low, High: high},
		},
		BaselineScore: baseline.OverallScore,
		RewriteScore:  bestScore,
	}, nil
}

// Stats reports the current corpus snapshot.
func (p *Pipeline) Stats() domain.Stats {
	return p.index.Snapshot().Stats()
}
