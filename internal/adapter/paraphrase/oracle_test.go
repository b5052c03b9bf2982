package paraphrase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"textguard/internal/domain"
)

func oracleFor(t *testing.T, srv *httptest.Server) *Oracle {
	t.Helper()
	t.Setenv("TEST_ORACLE_KEY", "test-key")
	o, err := NewOracle("TEST_ORACLE_KEY", "test-model", srv.URL, 100)
	if err != nil {
		t.Fatalf("failed to create oracle: %v", err)
	}
	o.client = srv.Client()
	return o
}

func toolCallBody(args string) string {
	payload := map[string]any{
		"choices": []map[string]any{{
			"message": map[string]any{
				"tool_calls": []map[string]any{{
					"function": map[string]any{"arguments": args},
				}},
			},
		}},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func TestOracle_HappyPath(t *testing.T) {
	args, _ := json.Marshal(oracleResult{
		Paraphrased:         "Studies indicate the approach matters greatly",
		Suggestions:         []string{"alt one", "alt two", "alt three", "alt four"},
		SimilarityReduction: "60-70%",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(toolCallBody(string(args))))
	}))
	defer srv.Close()

	o := oracleFor(t, srv)
	res, err := o.Paraphrase(context.Background(), "Research shows the method matters a lot", domain.ParaphraseOptions{MaxAlternatives: 3, TimeoutMs: 5000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Primary != "Studies indicate the approach matters greatly" {
		t.Errorf("unexpected primary: %q", res.Primary)
	}
	if len(res.Alternatives) != 3 {
		t.Errorf("expected suggestions capped at 3, got %d", len(res.Alternatives))
	}
	if res.Reduction.Low != 60 || res.Reduction.High != 70 {
		t.Errorf("unexpected reduction bounds: %+v", res.Reduction)
	}
}

func TestOracle_RateLimitedThenSuccess(t *testing.T) {
	args, _ := json.Marshal(oracleResult{
		Paraphrased:         "a successful rewrite on the second attempt",
		Suggestions:         []string{"alt"},
		SimilarityReduction: "40%",
	})
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(toolCallBody(string(args))))
	}))
	defer srv.Close()

	o := oracleFor(t, srv)
	res, err := o.Paraphrase(context.Background(), "original text to rewrite once more", domain.ParaphraseOptions{TimeoutMs: 5000})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected exactly 2 calls, got %d", calls)
	}
	if res.Reduction.Low != 40 || res.Reduction.High != 40 {
		t.Errorf("bare percentage should collapse to a point range: %+v", res.Reduction)
	}
}

func TestOracle_RateLimitedTwice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	o := oracleFor(t, srv)
	_, err := o.Paraphrase(context.Background(), "text", domain.ParaphraseOptions{TimeoutMs: 5000})
	if !errors.Is(err, domain.ErrOracleRateLimited) {
		t.Errorf("expected ErrOracleRateLimited after bounded retry, got %v", err)
	}
}

func TestOracle_QuotaExhausted(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	o := oracleFor(t, srv)
	_, err := o.Paraphrase(context.Background(), "text", domain.ParaphraseOptions{TimeoutMs: 5000})
	if !errors.Is(err, domain.ErrOracleQuotaExhausted) {
		t.Errorf("expected ErrOracleQuotaExhausted, got %v", err)
	}
	if calls != 1 {
		t.Errorf("quota exhaustion must not be retried, got %d calls", calls)
	}
}

func TestOracle_MalformedResponses(t *testing.T) {
	cases := map[string]string{
		"not json":           "{{{",
		"no tool call":       `{"choices":[{"message":{}}]}`,
		"bad arguments":      toolCallBody("not json either"),
		"empty primary":      toolCallBody(`{"paraphrased":"","suggestions":[],"similarity_reduction":"50%"}`),
		"unparseable bounds": toolCallBody(`{"paraphrased":"fine rewrite","suggestions":[],"similarity_reduction":"a lot"}`),
		"inverted bounds":    toolCallBody(`{"paraphrased":"fine rewrite","suggestions":[],"similarity_reduction":"70-60%"}`),
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			o := oracleFor(t, srv)
			_, err := o.Paraphrase(context.Background(), "text to rewrite", domain.ParaphraseOptions{TimeoutMs: 5000})
			if !errors.Is(err, domain.ErrOracleMalformed) {
				t.Errorf("expected ErrOracleMalformed, got %v", err)
			}
		})
	}
}

func TestOracle_StrictLengthBudget(t *testing.T) {
	args, _ := json.Marshal(oracleResult{
		Paraphrased:         "way too short",
		Suggestions:         []string{},
		SimilarityReduction: "50%",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(toolCallBody(string(args))))
	}))
	defer srv.Close()

	o := oracleFor(t, srv)
	long := "this is a much longer input sentence that the oracle compressed far beyond the permitted budget for strict meaning preservation"
	_, err := o.Paraphrase(context.Background(), long, domain.ParaphraseOptions{Strength: domain.MeaningStrict, TimeoutMs: 5000})
	if !errors.Is(err, domain.ErrOracleMalformed) {
		t.Errorf("expected length violation to be malformed under strict strength, got %v", err)
	}
}

func TestOracle_MissingAPIKey(t *testing.T) {
	t.Setenv("TEST_ORACLE_KEY_ABSENT", "")
	if _, err := NewOracle("TEST_ORACLE_KEY_ABSENT", "m", "http://example.invalid", 1); err == nil {
		t.Error("expected an error when the API key env var is unset")
	}
}
