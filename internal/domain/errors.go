package domain

import "errors"

// Error kinds surfaced by the pipeline. Callers match them with errors.Is;
// everything else is absorbed by a strategy fallback and logged.
var (
	ErrInputEmpty            = errors.New("input text is empty")
	ErrInputTooLarge         = errors.New("input text exceeds maximum length")
	ErrOracleRateLimited     = errors.New("paraphrase oracle rate limited")
	ErrOracleQuotaExhausted  = errors.New("paraphrase oracle quota exhausted")
	ErrOracleMalformed       = errors.New("paraphrase oracle returned a malformed response")
	ErrParaphraseUnavailable = errors.New("no paraphrase strategy could rewrite the text")
	ErrUnauthorized          = errors.New("corpus mutation not authorized")
)
