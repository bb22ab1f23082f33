// Package answer generates grounded answers from retrieved conference talks.
package answer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/podiumlabs/podium/internal/domain"
)

// Service answers questions against supplied talk context.
type Service struct {
	completer Completer
	recorder  Recorder
	logger    *zap.Logger
}

// NewService creates the answer service.
func NewService(completer Completer, recorder Recorder, logger *zap.Logger) *Service {
	return &Service{completer: completer, recorder: recorder, logger: logger}
}

// Answer composes the prompt, generates the completion, and records usage.
// Analytics writes are best-effort: both are always attempted, and their
// failure is logged and never surfaces to the caller.
func (s *Service) Answer(ctx context.Context, question string, talks []domain.ContextTalk) (string, error) {
	prompt := BuildPrompt(question, talks)

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	s.record(ctx, question, talks)

	return text, nil
}

func (s *Service) record(ctx context.Context, question string, talks []domain.ContextTalk) {
	events := make([]domain.CitationEvent, len(talks))
	for i, talk := range talks {
		events[i] = domain.NewCitationEvent(talk)
	}

	// Plain errgroup, no WithContext: one write failing must not cancel
	// the other.
	var g errgroup.Group
	g.Go(func() error {
		return s.recorder.InsertCitations(ctx, events)
	})
	g.Go(func() error {
		return s.recorder.InsertQuestion(ctx, domain.QuestionEvent{
			SearchType: domain.SearchTypeRAG,
			Question:   question,
		})
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("analytics write failed", zap.Error(err))
	}
}
