package embedquestion

import (
	"context"

	"github.com/podiumlabs/podium/internal/domain"
)

// Embedder turns a question into a vector.
type Embedder interface {
	EmbedQuestion(ctx context.Context, question string) ([]float32, error)
}

// Recorder persists question analytics.
type Recorder interface {
	InsertQuestion(ctx context.Context, e domain.QuestionEvent) error
}
