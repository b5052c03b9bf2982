package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"textguard/internal/domain"
	"textguard/internal/usecase"
)

// Server exposes the pipeline over HTTP. All endpoints speak JSON; corpus
// mutation additionally requires the admin bearer token.
type Server struct {
	pipeline *usecase.Pipeline
	log      zerolog.Logger
}

// New creates an HTTP server around the pipeline.
func New(p *usecase.Pipeline, log zerolog.Logger) *Server {
	return &Server{pipeline: p, log: log}
}

// maxBodyBytes caps request bodies before JSON decoding. The pipeline's
// own input limit sits far below this; the cap only stops oversized
// payloads from being buffered in full.
const maxBodyBytes = 1 << 20

type textRequest struct {
	Text string `json:"text"`
}

type documentRequest struct {
	ID   string            `json:"id"`
	Text string            `json:"text"`
	Meta domain.SourceMeta `json:"meta"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the routed handler with request logging attached.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/humanize", s.handleHumanize)
	mux.HandleFunc("POST /v1/detect", s.handleDetect)
	mux.HandleFunc("POST /v1/remove", s.handleRemove)
	mux.HandleFunc("POST /v1/corpus/documents", s.handleAddDocument)
	mux.HandleFunc("GET /v1/corpus/stats", s.handleStats)
	return s.logRequests(mux)
}

// decodeBody decodes the JSON request body with the size cap applied.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleHumanize(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	out, err := s.pipeline.Humanize(req.Text)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"text": out})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	result, err := s.pipeline.Detect(req.Text)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	result, err := s.pipeline.Remove(r.Context(), req.Text)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	id, err := s.pipeline.AddDocument(bearerToken(r), req.ID, req.Text, req.Meta)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.pipeline.Stats())
}

// writeDomainError maps pipeline sentinel errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInputEmpty), errors.Is(err, domain.ErrInputTooLarge):
		s.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrUnauthorized):
		s.writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domain.ErrOracleQuotaExhausted):
		s.writeError(w, http.StatusPaymentRequired, err)
	case errors.Is(err, domain.ErrParaphraseUnavailable):
		s.writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domain.ErrOracleRateLimited):
		s.writeError(w, http.StatusTooManyRequests, err)
	default:
		s.log.Error().Err(err).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return token
	}
	return ""
}
