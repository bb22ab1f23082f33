package answer

import (
	"context"

	"github.com/podiumlabs/podium/internal/domain"
)

// Completer generates a chat completion for a composed prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Recorder persists question and citation analytics.
type Recorder interface {
	InsertQuestion(ctx context.Context, e domain.QuestionEvent) error
	InsertCitations(ctx context.Context, events []domain.CitationEvent) error
}
