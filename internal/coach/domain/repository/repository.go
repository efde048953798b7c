package repository

import (
	"context"

	"calisthenics-ai/internal/coach/domain/model"
)

// Generator produces text from a prompt. Implementations wrap one model
// provider and are asked for JSON output.
type Generator interface {
	Name() string
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// SummaryMemory keeps the most recent workout summaries of each user.
type SummaryMemory interface {
	Append(ctx context.Context, userID string, summary model.WorkoutSummary) error

	// Latest returns the newest summary, or nil when there is none.
	Latest(ctx context.Context, userID string) (*model.WorkoutSummary, error)
}
