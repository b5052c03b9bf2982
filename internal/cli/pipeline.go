package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"textguard/config"
	"textguard/internal/adapter/analyzer"
	"textguard/internal/adapter/auth"
	"textguard/internal/adapter/citation"
	"textguard/internal/adapter/index"
	"textguard/internal/adapter/paraphrase"
	"textguard/internal/adapter/scorer"
	"textguard/internal/adapter/store"
	"textguard/internal/domain"
	"textguard/internal/port"
	"textguard/internal/usecase"
)

// buildPipeline wires the full pipeline from the loaded config. With
// persist set, the corpus database under .textguard/ is opened and the
// index is rebuilt from it; the returned closer must be deferred.
func buildPipeline(persist bool) (*usecase.Pipeline, io.Closer, error) {
	cfg := GetConfig()

	var oracle port.ParaphraseStrategy
	if cfg.Paraphrase.OracleEnabled {
		o, err := paraphrase.NewOracle(cfg.Paraphrase.APIKeyEnv, cfg.Paraphrase.Model, cfg.Paraphrase.OracleURL, cfg.Paraphrase.RateLimitRPS)
		if err != nil {
			logger.Warn().Err(err).Msg("oracle unavailable, using rule fallback only")
		} else {
			oracle = o
		}
	}

	var st port.CorpusStore
	if persist {
		if err := config.EnsureDataDir(GetRootDir()); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		bolt, err := store.NewBoltStore(config.CorpusDBPath(GetRootDir()))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open corpus store: %w", err)
		}
		st = bolt
	}

	p := usecase.NewPipeline(usecase.PipelineDeps{
		Normalizer:     analyzer.NewNormalizer(cfg.Analyzer.MaxLength, cfg.Analyzer.ForbiddenSymbols, cfg.Analyzer.StripEmoji),
		DocNormalizer:  analyzer.NewNormalizer(0, cfg.Analyzer.ForbiddenSymbols, cfg.Analyzer.StripEmoji),
		Index:          index.New(),
		Scorer:         scorer.New(cfg.Scorer.MinOverlap, cfg.Scorer.SegmentThreshold, cfg.Scorer.WindowTokens, cfg.Index.ShingleK),
		Citations:      citation.NewResolver(cfg.Scorer.CitationThreshold),
		Paraphraser:    paraphrase.NewParaphraser(oracle, paraphrase.NewRules(), logger),
		Authorizer:     auth.NewTokenAuthorizer(os.Getenv(cfg.Server.AdminTokenEnv)),
		Store:          st,
		Log:            logger,
		ShingleK:       cfg.Index.ShingleK,
		Stride:         cfg.Index.Stride,
		CandidateLimit: cfg.Index.CandidateLimit,
		ParaphraseOpts: domain.ParaphraseOptions{
			MaxAlternatives: cfg.Paraphrase.MaxAlternatives,
			Strength:        domain.MeaningStrength(cfg.Paraphrase.Strength),
			TimeoutMs:       cfg.Paraphrase.TimeoutMs,
		},
	})

	if st != nil {
		loaded, err := p.LoadFromStore()
		if err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("failed to load corpus: %w", err)
		}
		logger.Debug().Int("docs", loaded).Msg("corpus loaded from store")
	}

	return p, st, nil
}

// readInput resolves the text argument for a command: an inline argument,
// a file via -f, or stdin when neither is given.
func readInput(args []string, filePath string) (string, error) {
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
