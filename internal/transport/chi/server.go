// Package chi exposes the question answering API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/podiumlabs/podium/internal/domain"
	answeruc "github.com/podiumlabs/podium/internal/usecase/answer"
	embeduc "github.com/podiumlabs/podium/internal/usecase/embedquestion"
	healthuc "github.com/podiumlabs/podium/internal/usecase/health"
)

// Server holds the HTTP handlers for the API.
type Server struct {
	embed  *embeduc.Service
	answer *answeruc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	embed *embeduc.Service,
	answer *answeruc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		embed:  embed,
		answer: answer,
		health: health,
		logger: logger,
	}
}

type embedRequest struct {
	Question   string `json:"question"`
	SearchType string `json:"search_type"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type answerRequest struct {
	Question     string               `json:"question"`
	ContextTalks []domain.ContextTalk `json:"context_talks"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// EmbedQuestion handles POST /embed-question.
func (s *Server) EmbedQuestion(w http.ResponseWriter, r *http.Request) {
	var req embedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, err)
		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, domain.ErrMissingQuestion.Error())
		return
	}

	embedding, err := s.embed.Embed(r.Context(), req.Question, req.SearchType)
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, embedResponse{Embedding: embedding})
}

// GenerateAnswer handles POST /generate-answer.
func (s *Server) GenerateAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, err)
		return
	}

	if req.Question == "" || len(req.ContextTalks) == 0 {
		writeError(w, http.StatusBadRequest, domain.ErrMissingContext.Error())
		return
	}

	answer, err := s.answer.Answer(r.Context(), req.Question, req.ContextTalks)
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{Answer: answer})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// handleError maps domain sentinels to their status codes. Anything else,
// including malformed request bodies and provider failures, surfaces as a 500
// carrying the error's own message.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingQuestion):
		writeError(w, http.StatusBadRequest, domain.ErrMissingQuestion.Error())
	case errors.Is(err, domain.ErrMissingContext):
		writeError(w, http.StatusBadRequest, domain.ErrMissingContext.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
