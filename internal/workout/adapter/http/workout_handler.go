package http

import (
	"errors"
	"strings"

	coachmodel "calisthenics-ai/internal/coach/domain/model"
	apperrors "calisthenics-ai/internal/shared/errors"
	"calisthenics-ai/internal/shared/form"
	"calisthenics-ai/internal/shared/logger"
	"calisthenics-ai/internal/shared/utils"
	"calisthenics-ai/internal/workout/domain/model"
	"calisthenics-ai/internal/workout/domain/repository"
	"calisthenics-ai/internal/workout/usecase"

	"github.com/gofiber/fiber/v2"
)

const (
	msgAuthFailed = "Authentication failed."

	msgWorkoutInvalid    = "Invalid workout data. Please check your entries."
	msgWorkoutLogged     = "Workout logged successfully and summarized by AI!"
	msgWorkoutNoSummary  = "Workout logged successfully, but the AI summary is unavailable right now."
	msgWorkoutFailed     = "Failed to log workout."
	msgWorkoutNoSession  = "You must be logged in to log a workout."
	msgWorkoutSaveFailed = "Could not save your workout. Please try again."

	msgPlanInvalid    = "Invalid plan data. Please check your entries."
	msgPlanSaved      = "Your new training plan has been saved successfully!"
	msgPlanFailed     = "Failed to save training plan."
	msgPlanNoSession  = "You must be logged in to save a plan."
	msgPlanGenerated  = "Your personalized training plan is ready."
	msgPlanGenFailed  = "Could not generate a training plan. Try again later."
	msgPlanSaveFailed = "Could not save your plan. Please try again."

	msgRecommendInvalid = "Invalid fields. Please check your entries."
	msgRecommendReady   = "Here are your coach's recommendations."
	msgRecommendFailed  = "Could not generate recommendations. Try again later."
	msgCoachNoSession   = "You must be logged in to ask the coach."

	msgSuggestionsFailed = "Could not generate training suggestions. Try again later."
	msgCoachDisabled     = "The AI coach is not configured."
	msgUnexpected        = "An unexpected error occurred. Please try again."
)

type logWorkoutState struct {
	form.State
	LogID   string                     `json:"logId,omitempty"`
	Summary *coachmodel.WorkoutSummary `json:"summary"`
}

type planState struct {
	form.State
	Plan *model.TrainingPlan `json:"plan,omitempty"`
}

type generatedPlanState struct {
	form.State
	Generated *coachmodel.GeneratedPlan `json:"generated,omitempty"`
	Saved     *model.TrainingPlan       `json:"saved,omitempty"`
}

type recommendationsState struct {
	form.State
	Recommendations *coachmodel.Recommendations `json:"recommendations,omitempty"`
}

// WorkoutHTTPHandler serves the workout actions and pages.
type WorkoutHTTPHandler struct {
	workouts usecase.WorkoutUsecaseInterface
	plans    usecase.PlanUsecaseInterface
	logger   logger.Logger
}

// NewWorkoutHTTPHandler creates a new workout HTTP handler
func NewWorkoutHTTPHandler(workouts usecase.WorkoutUsecaseInterface, plans usecase.PlanUsecaseInterface, log logger.Logger) *WorkoutHTTPHandler {
	if log == nil {
		log = logger.Default()
	}
	return &WorkoutHTTPHandler{
		workouts: workouts,
		plans:    plans,
		logger:   log.WithComponent("workout_handler"),
	}
}

// RegisterRoutes mounts the pages behind requireSession. Actions check the
// session themselves so they can answer with a form state.
func (h *WorkoutHTTPHandler) RegisterRoutes(router fiber.Router, requireSession fiber.Handler) {
	router.Get("/dashboard", requireSession, h.Dashboard)
	router.Get("/dashboard/next-goal", requireSession, h.NextGoal)
	router.Get("/training-plan", requireSession, h.Plans)
	router.Get("/journal", requireSession, h.Journal)
	router.Get("/progress", requireSession, h.Progress)

	router.Post("/log-workout", h.LogWorkout)
	router.Post("/training-plan", h.SavePlan)
	router.Post("/training-plan/generate", h.GeneratePlan)
	router.Post("/recommendations", h.Recommendations)
}

// LogWorkout handles the log-workout form.
func (h *WorkoutHTTPHandler) LogWorkout(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(logWorkoutState{State: form.Failed(msgAuthFailed, msgWorkoutNoSession)})
	}

	values, err := form.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(logWorkoutState{State: form.Failed(msgWorkoutFailed, "Invalid request body.")})
	}
	rows, err := values.Indexed("exercises", "name", "sets", "reps")
	if err != nil {
		ve := apperrors.NewValidationErrors().Add("exercises", err.Error(), nil)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(logWorkoutState{State: form.Invalid(ve, msgWorkoutInvalid)})
	}

	in := model.WorkoutInput{
		WorkoutType:      values.Get("workoutType"),
		DifficultyRating: values.Get("difficultyRating"),
		Fatigue:          values.Get("fatigue"),
		Soreness:         values.Get("soreness"),
		Mood:             values.Get("mood"),
		Energy:           values.Get("energy"),
		Notes:            values.Get("notes"),
		DurationMinutes:  values.Get("durationMinutes"),
	}
	for _, row := range rows {
		in.Exercises = append(in.Exercises, model.ExerciseInput{Name: row["name"], Sets: row["sets"], Reps: row["reps"]})
	}

	res, err := h.workouts.LogWorkout(c.UserContext(), userID, in)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		var ve *apperrors.ValidationErrors
		if errors.As(err, &ve) {
			return c.Status(status).JSON(logWorkoutState{State: form.Invalid(ve, msgWorkoutInvalid)})
		}
		return c.Status(status).JSON(logWorkoutState{State: form.Failed(msgWorkoutFailed, storeReason(err, msgWorkoutSaveFailed))})
	}

	st := logWorkoutState{LogID: res.LogID, Summary: res.Summary}
	if res.Summary != nil {
		st.State = form.Succeeded(msgWorkoutLogged)
	} else {
		st.State = form.Succeeded(msgWorkoutNoSummary)
	}
	return c.JSON(st)
}

// SavePlan handles the training plan form.
func (h *WorkoutHTTPHandler) SavePlan(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(form.Failed(msgAuthFailed, msgPlanNoSession))
	}

	values, err := form.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(form.Failed(msgPlanFailed, "Invalid request body."))
	}
	rows, err := values.Indexed("schedule", "day", "exercises")
	if err != nil {
		ve := apperrors.NewValidationErrors().Add("schedule", err.Error(), nil)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(form.Invalid(ve, msgPlanInvalid))
	}

	days := make([]model.DaySchedule, 0, len(rows))
	for _, row := range rows {
		days = append(days, model.DaySchedule{Day: row["day"], Exercises: row["exercises"]})
	}

	plan, err := h.plans.SavePlan(c.UserContext(), userID, values.Get("planName"), days)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		var ve *apperrors.ValidationErrors
		if errors.As(err, &ve) {
			return c.Status(status).JSON(form.Invalid(ve, msgPlanInvalid))
		}
		return c.Status(status).JSON(form.Failed(msgPlanFailed, storeReason(err, msgPlanSaveFailed)))
	}
	return c.JSON(planState{State: form.Succeeded(msgPlanSaved), Plan: plan})
}

// GeneratePlan asks the coach for a personalized plan and optionally saves it.
func (h *WorkoutHTTPHandler) GeneratePlan(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(form.Failed(msgAuthFailed, msgCoachNoSession))
	}

	values, err := form.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(form.Failed(msgPlanGenFailed, "Invalid request body."))
	}

	res, err := h.plans.GeneratePlan(c.UserContext(), userID, usecase.GeneratePlanInput{
		PushExercises:             values["pushExercises"],
		PullExercises:             values["pullExercises"],
		CoreLegsExercises:         values["coreLegsExercises"],
		MobilityRecoveryExercises: values["mobilityRecoveryExercises"],
		UserPreferences:           values.Get("userPreferences"),
		Save:                      truthy(values.Get("save")),
		PlanName:                  values.Get("planName"),
	})
	if err != nil {
		var ve *apperrors.ValidationErrors
		if errors.As(err, &ve) {
			return c.Status(apperrors.HTTPStatus(err)).JSON(form.Invalid(ve, msgPlanInvalid))
		}
		if apperrors.IsStore(err) {
			return c.Status(apperrors.HTTPStatus(err)).JSON(form.Failed(msgPlanFailed, storeReason(err, msgPlanSaveFailed)))
		}
		return h.coachError(c, err, msgPlanGenFailed)
	}

	msg := msgPlanGenerated
	if res.Saved != nil {
		msg = msgPlanSaved
	}
	return c.JSON(generatedPlanState{State: form.Succeeded(msg), Generated: &res.Plan, Saved: res.Saved})
}

// Recommendations handles the recommendations form.
func (h *WorkoutHTTPHandler) Recommendations(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(form.Failed(msgAuthFailed, msgCoachNoSession))
	}

	values, err := form.FromFiber(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(form.Failed(msgRecommendFailed, "Invalid request body."))
	}

	out, err := h.plans.Recommend(c.UserContext(), userID, usecase.RecommendationsInput{
		SorenessLevel:      values.Get("sorenessLevel"),
		SkippedDays:        values.Get("skippedDays"),
		SleepQuality:       values.Get("sleepQuality"),
		CurrentExercises:   values["currentExercises"],
		PerformanceHistory: values.Get("performanceHistory"),
		TrainingGoals:      values.Get("trainingGoals"),
		UserNotes:          values.Get("userNotes"),
	})
	if err != nil {
		var ve *apperrors.ValidationErrors
		if errors.As(err, &ve) {
			return c.Status(apperrors.HTTPStatus(err)).JSON(form.Invalid(ve, msgRecommendInvalid))
		}
		return h.coachError(c, err, msgRecommendFailed)
	}
	return c.JSON(recommendationsState{State: form.Succeeded(msgRecommendReady), Recommendations: out})
}

// Dashboard renders the dashboard payload. Store failures are reported in
// the payload status, not as an HTTP error.
func (h *WorkoutHTTPHandler) Dashboard(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	return c.JSON(h.workouts.Dashboard(c.UserContext(), userID))
}

// NextGoal returns the coach's suggestion for the next session.
func (h *WorkoutHTTPHandler) NextGoal(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	goal, err := h.workouts.NextGoal(c.UserContext(), userID)
	if err != nil {
		if apperrors.IsStore(err) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(form.Failed(msgSuggestionsFailed, storeReason(err, msgUnexpected)))
		}
		return h.coachError(c, err, msgSuggestionsFailed)
	}
	return c.JSON(goal)
}

func (h *WorkoutHTTPHandler) Plans(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	return c.JSON(h.plans.Plans(c.UserContext(), userID))
}

func (h *WorkoutHTTPHandler) Journal(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	return c.JSON(h.workouts.Journal(c.UserContext(), userID))
}

func (h *WorkoutHTTPHandler) Progress(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	return c.JSON(h.workouts.Progress(c.UserContext(), userID))
}

func (h *WorkoutHTTPHandler) coachError(c *fiber.Ctx, err error, failedMsg string) error {
	status := apperrors.HTTPStatus(err)
	if errors.Is(err, coachmodel.ErrCoachDisabled) {
		return c.Status(status).JSON(form.Failed(failedMsg, msgCoachDisabled))
	}
	h.logger.WithContext(c.UserContext()).WithFields(map[string]interface{}{
		"error":  err.Error(),
		"status": status,
	}).Error("Coach request failed")
	return c.Status(status).JSON(form.Failed(failedMsg))
}

func currentUser(c *fiber.Ctx) (string, bool) {
	id, err := utils.GetUserIDFromContext(c.UserContext())
	return id, err == nil && id != ""
}

func storeReason(err error, fallback string) string {
	if errors.Is(err, repository.ErrStoreUnavailable) {
		return "The data store is unavailable. Please try again later."
	}
	if apperrors.IsStore(err) {
		return fallback
	}
	return msgUnexpected
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
