package port

import (
	"context"

	"textguard/internal/domain"
)

// ParaphraseStrategy rewrites text to reduce overlap with the corpus while
// preserving meaning. Implementations must be safe for concurrent use.
type ParaphraseStrategy interface {
	// Paraphrase produces a primary rewrite plus alternatives. The context
	// bounds any external I/O; implementations without I/O ignore it.
	Paraphrase(ctx context.Context, text string, opts domain.ParaphraseOptions) (domain.ParaphraseResult, error)

	// Name identifies the strategy for logging.
	Name() string
}
