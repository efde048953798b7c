package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	coachmodel "calisthenics-ai/internal/coach/domain/model"
	apperrors "calisthenics-ai/internal/shared/errors"
	"calisthenics-ai/internal/shared/logger"
	"calisthenics-ai/internal/workout/domain/model"
	"calisthenics-ai/internal/workout/domain/repository"
)

// Validation messages of the coaching forms.
const (
	MsgNoExercisesListed = "List at least one exercise."
	MsgSoreness          = "Please describe your soreness level."
	MsgSleepQuality      = "Please describe your sleep quality."
	MsgSkippedDays       = "Skipped days must be a number between 0 and 7."
)

// PlanUsecaseInterface defines the training plan and coaching operations.
type PlanUsecaseInterface interface {
	SavePlan(ctx context.Context, userID, name string, days []model.DaySchedule) (*model.TrainingPlan, error)
	Plans(ctx context.Context, userID string) PlansPage
	GeneratePlan(ctx context.Context, userID string, in GeneratePlanInput) (*GeneratePlanResult, error)
	Recommend(ctx context.Context, userID string, in RecommendationsInput) (*coachmodel.Recommendations, error)
}

// PlansPage is the payload of the training plan page.
type PlansPage struct {
	Status PageStatus           `json:"status"`
	Plans  []model.TrainingPlan `json:"plans"`
}

// GeneratePlanInput is the submission of the plan generator form. Exercise
// lists hold one exercise per entry.
type GeneratePlanInput struct {
	PushExercises             []string
	PullExercises             []string
	CoreLegsExercises         []string
	MobilityRecoveryExercises []string
	UserPreferences           string

	// Save stores the generated plan under PlanName.
	Save     bool
	PlanName string
}

// GeneratePlanResult carries the generated plan and, when saved, the stored
// record.
type GeneratePlanResult struct {
	Plan  coachmodel.GeneratedPlan
	Saved *model.TrainingPlan
}

// RecommendationsInput is the submission of the recommendations form. An
// empty PerformanceHistory is filled from the user's recent logs.
type RecommendationsInput struct {
	SorenessLevel      string
	SkippedDays        string
	SleepQuality       string
	CurrentExercises   []string
	PerformanceHistory string
	TrainingGoals      string
	UserNotes          string
}

// PlanUsecase implements training plan storage and the plan-related coaching.
type PlanUsecase struct {
	plans         repository.Store[model.TrainingPlan]
	logs          repository.Store[model.WorkoutLog]
	coach         Coach
	historyLength int
	logger        logger.Logger
}

// NewPlanUsecase creates a new instance of PlanUsecase. logs is read to give
// the coach the user's history and may be nil.
func NewPlanUsecase(
	plans repository.Store[model.TrainingPlan],
	logs repository.Store[model.WorkoutLog],
	coach Coach,
	historyLength int,
	log logger.Logger,
) *PlanUsecase {
	if log == nil {
		log = logger.Default()
	}
	if historyLength <= 0 {
		historyLength = 5
	}
	return &PlanUsecase{
		plans:         plans,
		logs:          logs,
		coach:         coach,
		historyLength: historyLength,
		logger:        log.WithComponent("plan_usecase"),
	}
}

// SavePlan validates and stores a user-authored plan.
func (uc *PlanUsecase) SavePlan(ctx context.Context, userID, name string, days []model.DaySchedule) (*model.TrainingPlan, error) {
	if userID == "" {
		return nil, ErrNoSession
	}

	plan, ve := model.ParsePlan(name, days)
	if ve != nil {
		return nil, ve
	}
	return uc.store(ctx, userID, plan)
}

// Plans lists the user's plans, newest first.
func (uc *PlanUsecase) Plans(ctx context.Context, userID string) PlansPage {
	res := uc.plans.List(ctx, userID)
	if res.Err != nil {
		fields := map[string]interface{}{"error": res.Err.Error()}
		if errors.Is(res.Err, repository.ErrStoreUnavailable) {
			uc.logger.WithContext(ctx).WithFields(fields).Error("Plan store is unavailable")
		} else {
			uc.logger.WithContext(ctx).WithFields(fields).Error("Failed to list training plans")
		}
	}
	return PlansPage{Status: StatusOf(res.Err), Plans: res.Records}
}

// GeneratePlan asks the coach for a personalized weekly plan built from the
// listed exercises and the user's history, and stores it when requested.
func (uc *PlanUsecase) GeneratePlan(ctx context.Context, userID string, in GeneratePlanInput) (*GeneratePlanResult, error) {
	if userID == "" {
		return nil, ErrNoSession
	}

	req := coachmodel.PlanRequest{
		PushExercises:             cleanList(in.PushExercises),
		PullExercises:             cleanList(in.PullExercises),
		CoreLegsExercises:         cleanList(in.CoreLegsExercises),
		MobilityRecoveryExercises: cleanList(in.MobilityRecoveryExercises),
		UserPreferences:           strings.TrimSpace(in.UserPreferences),
	}

	ve := apperrors.NewValidationErrors()
	if len(req.PushExercises)+len(req.PullExercises)+len(req.CoreLegsExercises)+len(req.MobilityRecoveryExercises) == 0 {
		ve.Add("pushExercises", MsgNoExercisesListed, nil)
	}
	name := strings.TrimSpace(in.PlanName)
	if in.Save && name == "" {
		ve.Add("planName", model.MsgPlanName, in.PlanName)
	}
	if ve.HasErrors() {
		return nil, ve
	}

	if uc.coach == nil {
		return nil, coachmodel.ErrCoachDisabled
	}
	req.WorkoutHistory = uc.history(ctx, userID)

	generated, err := uc.coach.GeneratePlan(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &GeneratePlanResult{Plan: *generated}
	if !in.Save {
		return result, nil
	}

	plan := model.TrainingPlan{
		PlanName: name,
		Schedule: ScheduleFromText(generated.TrainingPlan),
		Warnings: generated.Warnings,
	}
	saved, err := uc.store(ctx, userID, plan)
	if err != nil {
		return nil, err
	}
	result.Saved = saved
	return result, nil
}

// Recommend asks the coach how to adapt the routine to the user's condition.
func (uc *PlanUsecase) Recommend(ctx context.Context, userID string, in RecommendationsInput) (*coachmodel.Recommendations, error) {
	if userID == "" {
		return nil, ErrNoSession
	}

	req := coachmodel.RecommendationsRequest{
		SorenessLevel:      strings.TrimSpace(in.SorenessLevel),
		SleepQuality:       strings.TrimSpace(in.SleepQuality),
		CurrentExercises:   cleanList(in.CurrentExercises),
		PerformanceHistory: strings.TrimSpace(in.PerformanceHistory),
		TrainingGoals:      strings.TrimSpace(in.TrainingGoals),
		UserNotes:          strings.TrimSpace(in.UserNotes),
	}

	ve := apperrors.NewValidationErrors()
	if req.SorenessLevel == "" {
		ve.Add("sorenessLevel", MsgSoreness, in.SorenessLevel)
	}
	if req.SleepQuality == "" {
		ve.Add("sleepQuality", MsgSleepQuality, in.SleepQuality)
	}
	skipped, err := strconv.Atoi(strings.TrimSpace(in.SkippedDays))
	if strings.TrimSpace(in.SkippedDays) == "" {
		skipped, err = 0, nil
	}
	if err != nil || skipped < 0 || skipped > 7 {
		ve.Add("skippedDays", MsgSkippedDays, in.SkippedDays)
	}
	if len(req.CurrentExercises) == 0 {
		ve.Add("currentExercises", MsgNoExercisesListed, nil)
	}
	if ve.HasErrors() {
		return nil, ve
	}
	req.SkippedDays = skipped

	if uc.coach == nil {
		return nil, coachmodel.ErrCoachDisabled
	}

	if req.PerformanceHistory == "" {
		req.PerformanceHistory = uc.history(ctx, userID)
	}
	return uc.coach.Recommend(ctx, req)
}

func (uc *PlanUsecase) store(ctx context.Context, userID string, plan model.TrainingPlan) (*model.TrainingPlan, error) {
	id, err := uc.plans.Create(ctx, userID, plan)
	if err != nil {
		fields := map[string]interface{}{"error": err.Error()}
		if errors.Is(err, repository.ErrStoreUnavailable) {
			uc.logger.WithContext(ctx).WithFields(fields).Error("Plan store is unavailable")
		} else {
			uc.logger.WithContext(ctx).WithFields(fields).Error("Failed to save training plan")
		}
		return nil, err
	}
	plan.ID, plan.UserID = id, userID
	return &plan, nil
}

// history describes the user's recent sessions for the coach. A failed
// listing yields an empty history.
func (uc *PlanUsecase) history(ctx context.Context, userID string) string {
	if uc.logs == nil {
		return ""
	}
	res := uc.logs.List(ctx, userID)
	if !res.Ok() {
		uc.logger.WithContext(ctx).WithFields(map[string]interface{}{"error": res.Err.Error()}).Warn("Coaching without workout history")
		return ""
	}

	logs := res.Records
	if len(logs) > uc.historyLength {
		logs = logs[:uc.historyLength]
	}
	blocks := make([]string, len(logs))
	for i, l := range logs {
		block := "Date: " + l.CreatedAt.Format("2006-01-02") + "\n" + l.Describe()
		if l.Notes != "" {
			block += "\nNotes: " + l.Notes
		}
		blocks[i] = block
	}
	return strings.Join(blocks, "\n\n")
}

// ScheduleFromText splits a generated plan into days. Lines of the form
// "Day: exercises" start a day; other lines continue the current one. Text
// without such lines becomes a single "Week" entry.
func ScheduleFromText(text string) []model.DaySchedule {
	var days []model.DaySchedule
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*# "))
		if line == "" {
			continue
		}
		if day, exercises, ok := strings.Cut(line, ":"); ok && strings.TrimSpace(day) != "" && len(day) <= 40 {
			days = append(days, model.DaySchedule{
				Day:       strings.Trim(strings.TrimSpace(day), "*"),
				Exercises: strings.TrimSpace(exercises),
			})
			continue
		}
		if len(days) == 0 {
			days = append(days, model.DaySchedule{Day: "Week"})
		}
		last := &days[len(days)-1]
		if last.Exercises == "" {
			last.Exercises = line
		} else {
			last.Exercises += "\n" + line
		}
	}
	if len(days) == 0 {
		return []model.DaySchedule{{Day: "Week", Exercises: strings.TrimSpace(text)}}
	}
	return days
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == '\n' }) {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

var _ PlanUsecaseInterface = (*PlanUsecase)(nil)
