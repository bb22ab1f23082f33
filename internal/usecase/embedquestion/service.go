// Package embedquestion vectorizes a caller's question and records its usage.
package embedquestion

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/podiumlabs/podium/internal/domain"
)

// Service embeds questions.
type Service struct {
	embedder Embedder
	recorder Recorder
	logger   *zap.Logger
}

// NewService creates the embedding service.
func NewService(embedder Embedder, recorder Recorder, logger *zap.Logger) *Service {
	return &Service{embedder: embedder, recorder: recorder, logger: logger}
}

// Embed vectorizes the question and records a usage event. The analytics
// write is best-effort: its failure is logged and never surfaces to the
// caller.
func (s *Service) Embed(ctx context.Context, question, searchType string) ([]float32, error) {
	if searchType == "" {
		searchType = domain.DefaultSearchType
	}

	embedding, err := s.embedder.EmbedQuestion(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	s.record(ctx, searchType, question)

	return embedding, nil
}

func (s *Service) record(ctx context.Context, searchType, question string) {
	event := domain.QuestionEvent{SearchType: searchType, Question: question}
	if err := s.recorder.InsertQuestion(ctx, event); err != nil {
		s.logger.Error("analytics write failed",
			zap.String("search_type", searchType),
			zap.Error(err),
		)
	}
}
