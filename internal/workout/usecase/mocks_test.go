package usecase_test

import (
	"context"

	coachmodel "calisthenics-ai/internal/coach/domain/model"
	"calisthenics-ai/internal/workout/domain/model"

	"github.com/stretchr/testify/mock"
)

type mockCoach struct {
	mock.Mock
	disabled bool
}

func (m *mockCoach) Enabled() bool { return !m.disabled }

func (m *mockCoach) SummarizeWorkout(ctx context.Context, userID string, req coachmodel.SummaryRequest) (*coachmodel.WorkoutSummary, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coachmodel.WorkoutSummary), args.Error(1)
}

func (m *mockCoach) Suggest(ctx context.Context, req coachmodel.SuggestionsRequest) (*coachmodel.Suggestions, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coachmodel.Suggestions), args.Error(1)
}

func (m *mockCoach) Recommend(ctx context.Context, req coachmodel.RecommendationsRequest) (*coachmodel.Recommendations, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coachmodel.Recommendations), args.Error(1)
}

func (m *mockCoach) GeneratePlan(ctx context.Context, req coachmodel.PlanRequest) (*coachmodel.GeneratedPlan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coachmodel.GeneratedPlan), args.Error(1)
}

func (m *mockCoach) LatestSummary(ctx context.Context, userID string) (*coachmodel.WorkoutSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coachmodel.WorkoutSummary), args.Error(1)
}

func validWorkout() model.WorkoutInput {
	return model.WorkoutInput{
		WorkoutType: "Push",
		Exercises: []model.ExerciseInput{
			{Name: "Push-ups", Sets: "3", Reps: "12"},
			{Name: "Dips", Sets: "4", Reps: "8"},
		},
		DifficultyRating: "7",
		Fatigue:          "Medium",
		Soreness:         "Mild",
		Mood:             "Good",
		Energy:           "High",
		Notes:            "Felt strong",
	}
}
