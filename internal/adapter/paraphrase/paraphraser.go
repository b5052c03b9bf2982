package paraphrase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"textguard/internal/domain"
	"textguard/internal/port"
)

// Paraphraser selects between the oracle and the rule-based strategy.
// Quota exhaustion surfaces to the caller; every other oracle failure —
// timeout, rate limiting after its retry, malformed output — degrades
// silently to the deterministic fallback.
type Paraphraser struct {
	oracle   port.ParaphraseStrategy // nil when no gateway is configured
	fallback port.ParaphraseStrategy
	log      zerolog.Logger
}

// NewParaphraser wires the strategies together. oracle may be nil.
func NewParaphraser(oracle, fallback port.ParaphraseStrategy, log zerolog.Logger) *Paraphraser {
	return &Paraphraser{
		oracle:   oracle,
		fallback: fallback,
		log:      log,
	}
}

// Paraphrase implements port.ParaphraseStrategy.
func (p *Paraphraser) Paraphrase(ctx context.Context, text string, opts domain.ParaphraseOptions) (domain.ParaphraseResult, error) {
	if p.oracle != nil {
		result, err := p.oracle.Paraphrase(ctx, text, opts)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, domain.ErrOracleQuotaExhausted) {
			return domain.ParaphraseResult{}, err
		}
		p.log.Warn().Err(err).Str("strategy", p.oracle.Name()).Msg("oracle paraphrase failed, falling back")
	}

	result, err := p.fallback.Paraphrase(ctx, text, opts)
	if err != nil {
		if errors.Is(err, domain.ErrParaphraseUnavailable) {
			return domain.ParaphraseResult{}, err
		}
		return domain.ParaphraseResult{}, errors.Join(domain.ErrParaphraseUnavailable, err)
	}
	return result, nil
}

// Name identifies the composite strategy.
func (p *Paraphraser) Name() string {
	return "auto"
}
