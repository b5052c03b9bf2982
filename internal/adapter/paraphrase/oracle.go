package paraphrase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"textguard/internal/domain"
)

const defaultOracleURL = "https://ai.gateway.lovable.dev/v1"

// Oracle delegates paraphrasing to an OpenAI-compatible chat-completions
// gateway. The instruction contract demands one primary rewrite, up to
// three alternatives and a self-reported reduction range, returned through
// a forced tool call so the shape can be validated.
type Oracle struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewOracle creates an Oracle. The API key is read from the named
// environment variable; a missing key is an error so the caller can fall
// back to the rule-based strategy at construction time.
func NewOracle(apiKeyEnv, model, baseURL string, rps float64) (*Oracle, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	if baseURL == "" {
		baseURL = defaultOracleURL
	}
	if rps <= 0 {
		rps = 1
	}
	return &Oracle{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

const systemPrompt = `You are an expert paraphrasing assistant. Your task is to:
1. Rewrite the given text to reduce similarity while PRESERVING THE EXACT MEANING
2. Provide 3 different paraphrasing options with varying styles
3. Use synonyms, restructure sentences, and change sentence order
4. Ensure each version maintains the original intent and key information
5. Make the text natural and human-like`

type chatRequest struct {
	Model      string     `json:"model"`
	Messages   []message  `json:"messages"`
	Tools      []tool     `json:"tools"`
	ToolChoice toolChoice `json:"tool_choice"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type tool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type toolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

// paraphraseSchema is the structured-output contract enforced on the
// gateway response.
var paraphraseSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"paraphrased": {"type": "string", "description": "The best paraphrased version"},
		"suggestions": {"type": "array", "items": {"type": "string"}, "description": "Up to 3 alternative paraphrasing options"},
		"similarity_reduction": {"type": "string", "description": "Estimated percentage range of similarity reduction, e.g. '60-70%'"}
	},
	"required": ["paraphrased", "suggestions", "similarity_reduction"],
	"additionalProperties": false
}`)

type chatResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Function struct {
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

type oracleResult struct {
	Paraphrased         string   `json:"paraphrased"`
	Suggestions         []string `json:"suggestions"`
	SimilarityReduction string   `json:"similarity_reduction"`
}

// statusError carries the gateway HTTP status for retry classification.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("oracle returned status %d: %s", e.code, e.body)
}

// Paraphrase calls the gateway under the per-call timeout. Transient
// failures (429 and 5xx) get exactly one retry with jitter, bounded by the
// same timeout; everything else maps to the pipeline error kinds.
func (o *Oracle) Paraphrase(ctx context.Context, text string, opts domain.ParaphraseOptions) (domain.ParaphraseResult, error) {
	timeout := time.Duration(opts.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := o.limiter.Wait(ctx); err != nil {
		return domain.ParaphraseResult{}, err
	}

	result, err := o.call(ctx, text, opts)
	if err != nil && isTransient(err) {
		select {
		case <-ctx.Done():
			return domain.ParaphraseResult{}, ctx.Err()
		case <-time.After(retryJitter()):
		}
		result, err = o.call(ctx, text, opts)
	}
	if err != nil {
		return domain.ParaphraseResult{}, err
	}
	return result, nil
}

// Name identifies the strategy.
func (o *Oracle) Name() string {
	return "oracle"
}

func retryJitter() time.Duration {
	return 250*time.Millisecond + time.Duration(rand.Intn(250))*time.Millisecond
}

func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return false
}

func (o *Oracle) call(ctx context.Context, text string, opts domain.ParaphraseOptions) (domain.ParaphraseResult, error) {
	reqBody := chatRequest{
		Model: o.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Please paraphrase this text:\n\n" + text},
		},
		Tools: []tool{{
			Type: "function",
			Function: toolFunction{
				Name:        "paraphrase_text",
				Description: "Return paraphrased versions of the text with meaning preservation",
				Parameters:  paraphraseSchema,
			},
		}},
	}
	reqBody.ToolChoice.Type = "function"
	reqBody.ToolChoice.Function.Name = "paraphrase_text"

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return domain.ParaphraseResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return domain.ParaphraseResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return domain.ParaphraseResult{}, fmt.Errorf("oracle request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ParaphraseResult{}, fmt.Errorf("failed to read oracle response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.ParaphraseResult{}, errors.Join(domain.ErrOracleRateLimited, &statusError{code: resp.StatusCode, body: preview(body)})
	case resp.StatusCode == http.StatusPaymentRequired:
		return domain.ParaphraseResult{}, domain.ErrOracleQuotaExhausted
	case resp.StatusCode != http.StatusOK:
		return domain.ParaphraseResult{}, &statusError{code: resp.StatusCode, body: preview(body)}
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return domain.ParaphraseResult{}, fmt.Errorf("%w: %v", domain.ErrOracleMalformed, err)
	}
	if len(chat.Choices) == 0 || len(chat.Choices[0].Message.ToolCalls) == 0 {
		return domain.ParaphraseResult{}, fmt.Errorf("%w: no tool call in response", domain.ErrOracleMalformed)
	}

	var parsed oracleResult
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.ToolCalls[0].Function.Arguments), &parsed); err != nil {
		return domain.ParaphraseResult{}, fmt.Errorf("%w: bad tool arguments: %v", domain.ErrOracleMalformed, err)
	}

	return validateResult(text, parsed, opts)
}

// reductionPattern accepts "60-70%", "60–70 %" or a bare "65%".
var reductionPattern = regexp.MustCompile(`(\d{1,3})\s*(?:[-–]\s*(\d{1,3}))?\s*%`)

// validateResult enforces the declared result shape. Anything off-contract
// is malformed and triggers the fallback upstream.
func validateResult(input string, parsed oracleResult, opts domain.ParaphraseOptions) (domain.ParaphraseResult, error) {
	primary := strings.TrimSpace(parsed.Paraphrased)
	if primary == "" {
		return domain.ParaphraseResult{}, fmt.Errorf("%w: empty primary rewrite", domain.ErrOracleMalformed)
	}
	if opts.Strength == domain.MeaningStrict && !withinLengthBudget(input, primary) {
		return domain.ParaphraseResult{}, fmt.Errorf("%w: rewrite length outside budget", domain.ErrOracleMalformed)
	}

	m := reductionPattern.FindStringSubmatch(parsed.SimilarityReduction)
	if m == nil {
		return domain.ParaphraseResult{}, fmt.Errorf("%w: unparseable reduction %q", domain.ErrOracleMalformed, parsed.SimilarityReduction)
	}
	low, _ := strconv.Atoi(m[1])
	high := low
	if m[2] != "" {
		high, _ = strconv.Atoi(m[2])
	}
	if low > high || high > 100 {
		return domain.ParaphraseResult{}, fmt.Errorf("%w: invalid reduction range %q", domain.ErrOracleMalformed, parsed.SimilarityReduction)
	}

	maxAlts := opts.MaxAlternatives
	if maxAlts <= 0 || maxAlts > 3 {
		maxAlts = 3
	}
	alternatives := make([]string, 0, maxAlts)
	for _, s := range parsed.Suggestions {
		s = strings.TrimSpace(s)
		if s == "" || s == primary {
			continue
		}
		alternatives = append(alternatives, s)
		if len(alternatives) == maxAlts {
			break
		}
	}

	return domain.ParaphraseResult{
		Primary:      primary,
		Alternatives: alternatives,
		Reduction:    domain.ReductionBounds{Low: low, High: high},
	}, nil
}

func preview(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
