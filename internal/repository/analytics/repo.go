// Package analytics persists append-only usage rows through the
// elevated-privilege Supabase client, so row-level policies on the analytics
// tables never need to trust the caller's own credential.
package analytics

import (
	"context"
	"fmt"

	"github.com/podiumlabs/podium/internal/domain"
	"github.com/podiumlabs/podium/internal/metrics"
)

const (
	questionTable = "question_analytics"
	citationTable = "citation_analytics"
)

// Inserter appends rows to a named table.
type Inserter interface {
	Insert(ctx context.Context, table string, rows any) error
}

// Repo writes analytics events.
type Repo struct {
	store Inserter
}

// New creates an analytics repository.
func New(store Inserter) *Repo {
	return &Repo{store: store}
}

// InsertQuestion appends one question event row.
func (r *Repo) InsertQuestion(ctx context.Context, e domain.QuestionEvent) error {
	if err := r.store.Insert(ctx, questionTable, e); err != nil {
		metrics.AnalyticsWritesTotal.WithLabelValues(questionTable, "error").Inc()
		return fmt.Errorf("insert question event: %w", err)
	}
	metrics.AnalyticsWritesTotal.WithLabelValues(questionTable, "success").Inc()
	return nil
}

// InsertCitations appends one citation event row per retrieved talk.
func (r *Repo) InsertCitations(ctx context.Context, events []domain.CitationEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := r.store.Insert(ctx, citationTable, events); err != nil {
		metrics.AnalyticsWritesTotal.WithLabelValues(citationTable, "error").Inc()
		return fmt.Errorf("insert citation events: %w", err)
	}
	metrics.AnalyticsWritesTotal.WithLabelValues(citationTable, "success").Inc()
	return nil
}
