package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"calisthenics-ai/internal/coach/adapter/prompt"
	"calisthenics-ai/internal/coach/domain/model"
	"calisthenics-ai/internal/coach/domain/repository"
	apperrors "calisthenics-ai/internal/shared/errors"
	"calisthenics-ai/internal/shared/logger"
)

// CoachUsecaseInterface defines the generative coaching operations.
type CoachUsecaseInterface interface {
	Enabled() bool
	SummarizeWorkout(ctx context.Context, userID string, req model.SummaryRequest) (*model.WorkoutSummary, error)
	Suggest(ctx context.Context, req model.SuggestionsRequest) (*model.Suggestions, error)
	Recommend(ctx context.Context, req model.RecommendationsRequest) (*model.Recommendations, error)
	GeneratePlan(ctx context.Context, req model.PlanRequest) (*model.GeneratedPlan, error)
	LatestSummary(ctx context.Context, userID string) (*model.WorkoutSummary, error)
}

// CoachUsecase renders prompts, calls the generator and decodes its answers.
type CoachUsecase struct {
	generator repository.Generator
	memory    repository.SummaryMemory
	timeout   time.Duration
	logger    logger.Logger
}

// NewCoachUsecase creates a coach. A nil generator disables every operation
// with model.ErrCoachDisabled; a nil memory skips summary history.
func NewCoachUsecase(
	generator repository.Generator,
	memory repository.SummaryMemory,
	timeout time.Duration,
	log logger.Logger,
) *CoachUsecase {
	if log == nil {
		log = logger.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CoachUsecase{
		generator: generator,
		memory:    memory,
		timeout:   timeout,
		logger:    log.WithComponent("coach_usecase"),
	}
}

func (uc *CoachUsecase) Enabled() bool {
	return uc.generator != nil
}

// SummarizeWorkout summarizes a session. When no previous summary is given
// the user's latest stored summary is used, and the new summary is stored
// afterwards. Memory failures are logged and never fail the call.
func (uc *CoachUsecase) SummarizeWorkout(ctx context.Context, userID string, req model.SummaryRequest) (*model.WorkoutSummary, error) {
	if !uc.Enabled() {
		return nil, model.ErrCoachDisabled
	}
	log := uc.logger.WithContext(ctx)

	if req.PreviousSummary == "" && uc.memory != nil && userID != "" {
		prev, err := uc.memory.Latest(ctx, userID)
		if err != nil {
			log.WithFields(map[string]interface{}{"error": err.Error()}).Warn("Failed to load previous summary")
		} else if prev != nil {
			req.PreviousSummary = prev.Summary
		}
	}

	var out model.WorkoutSummary
	if err := uc.ask(ctx, prompt.Summary, req, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Summary) == "" {
		return nil, fmt.Errorf("%w: summary is empty", model.ErrMalformedResponse)
	}

	if uc.memory != nil && userID != "" {
		if err := uc.memory.Append(ctx, userID, out); err != nil {
			log.WithFields(map[string]interface{}{"error": err.Error()}).Warn("Failed to store summary")
		}
	}
	return &out, nil
}

func (uc *CoachUsecase) Suggest(ctx context.Context, req model.SuggestionsRequest) (*model.Suggestions, error) {
	if !uc.Enabled() {
		return nil, model.ErrCoachDisabled
	}
	var out model.Suggestions
	if err := uc.ask(ctx, prompt.Suggestions, req, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Suggestions) == "" {
		return nil, fmt.Errorf("%w: suggestions are empty", model.ErrMalformedResponse)
	}
	return &out, nil
}

func (uc *CoachUsecase) Recommend(ctx context.Context, req model.RecommendationsRequest) (*model.Recommendations, error) {
	if !uc.Enabled() {
		return nil, model.ErrCoachDisabled
	}
	var out model.Recommendations
	if err := uc.ask(ctx, prompt.Recommendations, req, &out); err != nil {
		return nil, err
	}
	if out.RoutineAdaptation == "" && len(out.ExerciseProgressions) == 0 {
		return nil, fmt.Errorf("%w: recommendations are empty", model.ErrMalformedResponse)
	}
	if out.ExerciseProgressions == nil {
		out.ExerciseProgressions = []string{}
	}
	return &out, nil
}

func (uc *CoachUsecase) GeneratePlan(ctx context.Context, req model.PlanRequest) (*model.GeneratedPlan, error) {
	if !uc.Enabled() {
		return nil, model.ErrCoachDisabled
	}
	var out model.GeneratedPlan
	if err := uc.ask(ctx, prompt.TrainingPlan, req, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.TrainingPlan) == "" {
		return nil, fmt.Errorf("%w: training plan is empty", model.ErrMalformedResponse)
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	return &out, nil
}

// LatestSummary returns the user's newest stored summary, or nil. It works
// without a configured provider.
func (uc *CoachUsecase) LatestSummary(ctx context.Context, userID string) (*model.WorkoutSummary, error) {
	if uc.memory == nil {
		return nil, nil
	}
	return uc.memory.Latest(ctx, userID)
}

// ask runs one prompt through the generator and decodes the JSON answer.
func (uc *CoachUsecase) ask(ctx context.Context, name string, data interface{}, out interface{}) error {
	text, err := prompt.Render(name, data)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	start := time.Now()
	raw, err := uc.generator.Generate(ctx, prompt.System, text)
	log := uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"prompt":   name,
		"provider": uc.generator.Name(),
		"duration": time.Since(start).String(),
	})
	if err != nil {
		log.WithFields(map[string]interface{}{"error": err.Error()}).Error("Generation failed")
		return apperrors.NewUpstreamError("generate " + name).WithCause(err)
	}

	if err := prompt.Decode(raw, out); err != nil {
		log.WithFields(map[string]interface{}{"error": err.Error()}).Warn("Could not decode model answer")
		return err
	}
	log.Debug("Generation succeeded")
	return nil
}

var _ CoachUsecaseInterface = (*CoachUsecase)(nil)
