package model

import apperrors "calisthenics-ai/internal/shared/errors"

var (
	// ErrCoachDisabled is returned when no generative provider is configured.
	ErrCoachDisabled = apperrors.NewUnavailableError("AI coach is not configured")

	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = apperrors.NewUpstreamError("model returned an empty response")

	// ErrMalformedResponse is returned when the model output does not match
	// the expected JSON shape.
	ErrMalformedResponse = apperrors.NewUpstreamError("model returned a malformed response")
)

// SummaryRequest asks for a summary of one logged session.
type SummaryRequest struct {
	WorkoutLog      string `json:"workoutLog"`
	UserNotes       string `json:"userNotes,omitempty"`
	PreviousSummary string `json:"previousSummary,omitempty"`
}

// WorkoutSummary is the coach's feedback on a session.
type WorkoutSummary struct {
	Summary            string `json:"summary"`
	Trends             string `json:"trends"`
	ProgressHighlights string `json:"progressHighlights"`
}

// SuggestionsRequest asks for next-step suggestions from recent history.
type SuggestionsRequest struct {
	WorkoutLog          string `json:"workoutLog"`
	UserNotes           string `json:"userNotes"`
	PreviousWeekSummary string `json:"previousWeekSummary,omitempty"`
}

type Suggestions struct {
	Suggestions string `json:"suggestions"`
}

// RecommendationsRequest describes the user's current condition.
type RecommendationsRequest struct {
	SorenessLevel      string   `json:"sorenessLevel"`
	SkippedDays        int      `json:"skippedDays"`
	SleepQuality       string   `json:"sleepQuality"`
	CurrentExercises   []string `json:"currentExercises"`
	PerformanceHistory string   `json:"performanceHistory"`
	TrainingGoals      string   `json:"trainingGoals"`
	UserNotes          string   `json:"userNotes"`
}

// Recommendations adapt the routine to the user's condition.
type Recommendations struct {
	RoutineAdaptation    string   `json:"routineAdaptation"`
	ExerciseProgressions []string `json:"exerciseProgressions"`
	AdditionalTips       string   `json:"additionalTips"`
}

// PlanRequest lists the exercises available per category and the context the
// plan is tailored to.
type PlanRequest struct {
	PushExercises             []string `json:"pushExercises"`
	PullExercises             []string `json:"pullExercises"`
	CoreLegsExercises         []string `json:"coreLegsExercises"`
	MobilityRecoveryExercises []string `json:"mobilityRecoveryExercises"`
	UserPreferences           string   `json:"userPreferences"`
	WorkoutHistory            string   `json:"workoutHistory"`
}

// GeneratedPlan is a personalized plan with warnings about undertrained
// muscle groups.
type GeneratedPlan struct {
	TrainingPlan string   `json:"trainingPlan"`
	Warnings     []string `json:"warnings"`
}
