package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	coachmodel "calisthenics-ai/internal/coach/domain/model"
	"calisthenics-ai/internal/shared/logger"
	"calisthenics-ai/internal/workout/domain/model"
	"calisthenics-ai/internal/workout/domain/repository"
)

// ErrNoSession is returned when an operation is called without a user.
var ErrNoSession = errors.New("no authenticated user")

// Coach is the part of the generative coach the workout actions rely on.
type Coach interface {
	Enabled() bool
	SummarizeWorkout(ctx context.Context, userID string, req coachmodel.SummaryRequest) (*coachmodel.WorkoutSummary, error)
	Suggest(ctx context.Context, req coachmodel.SuggestionsRequest) (*coachmodel.Suggestions, error)
	Recommend(ctx context.Context, req coachmodel.RecommendationsRequest) (*coachmodel.Recommendations, error)
	GeneratePlan(ctx context.Context, req coachmodel.PlanRequest) (*coachmodel.GeneratedPlan, error)
	LatestSummary(ctx context.Context, userID string) (*coachmodel.WorkoutSummary, error)
}

// PageStatus tells a page how its data was loaded.
type PageStatus string

const (
	StatusReady            PageStatus = "ready"
	StatusStoreUnavailable PageStatus = "store_unavailable"
	StatusError            PageStatus = "error"
)

// StatusOf maps a listing error to the page status.
func StatusOf(err error) PageStatus {
	switch {
	case err == nil:
		return StatusReady
	case errors.Is(err, repository.ErrStoreUnavailable):
		return StatusStoreUnavailable
	default:
		return StatusError
	}
}

// Messages shown on the dashboard goal card.
const (
	MsgFirstGoal = "Log your first workout to get a personalized goal!"
	MsgNoNotes   = "No notes provided."
)

// WorkoutUsecaseInterface defines the workout log operations and pages.
type WorkoutUsecaseInterface interface {
	LogWorkout(ctx context.Context, userID string, in model.WorkoutInput) (*LogWorkoutResult, error)
	Dashboard(ctx context.Context, userID string) Dashboard
	NextGoal(ctx context.Context, userID string) (*NextGoal, error)
	Journal(ctx context.Context, userID string) Journal
	Progress(ctx context.Context, userID string) ProgressPage
}

// LogWorkoutResult reports the saved log and the coach's summary. A failed
// summary leaves the log saved; SummaryErr then tells why Summary is nil.
type LogWorkoutResult struct {
	LogID      string
	Log        model.WorkoutLog
	Summary    *coachmodel.WorkoutSummary
	SummaryErr error
}

// Dashboard is the payload of the dashboard page.
type Dashboard struct {
	Status           PageStatus         `json:"status"`
	Logs             []model.WorkoutLog `json:"logs"`
	Streak           int                `json:"streak"`
	WorkoutsThisWeek int                `json:"workoutsThisWeek"`
}

// NextGoal is the coach's suggestion for the next session.
type NextGoal struct {
	Goal      string `json:"goal"`
	Generated bool   `json:"generated"`
}

// JournalEntry is one logged session with the user's own notes.
type JournalEntry struct {
	ID          string            `json:"id"`
	CreatedAt   time.Time         `json:"createdAt"`
	WorkoutType model.WorkoutType `json:"workoutType"`
	Notes       string            `json:"notes"`
}

// Journal pairs the user's notes with the coach's latest summary.
type Journal struct {
	Status        PageStatus                 `json:"status"`
	LatestSummary *coachmodel.WorkoutSummary `json:"latestSummary"`
	Entries       []JournalEntry             `json:"entries"`
}

type ProgressPage struct {
	Status PageStatus `json:"status"`
	model.Progress
}

// WorkoutUsecase implements the workout log operations.
type WorkoutUsecase struct {
	logs          repository.Store[model.WorkoutLog]
	coach         Coach
	historyLength int
	now           func() time.Time
	logger        logger.Logger
}

// NewWorkoutUsecase creates a new instance of WorkoutUsecase.
func NewWorkoutUsecase(
	logs repository.Store[model.WorkoutLog],
	coach Coach,
	historyLength int,
	log logger.Logger,
) *WorkoutUsecase {
	if log == nil {
		log = logger.Default()
	}
	if historyLength <= 0 {
		historyLength = 5
	}
	return &WorkoutUsecase{
		logs:          logs,
		coach:         coach,
		historyLength: historyLength,
		now:           time.Now,
		logger:        log.WithComponent("workout_usecase"),
	}
}

// SetClock replaces the clock used for streaks and weekly counts.
func (uc *WorkoutUsecase) SetClock(now func() time.Time) {
	uc.now = now
}

// LogWorkout validates and stores a session, then asks the coach for a
// summary. Validation failures are returned as *apperrors.ValidationErrors
// before any store call.
func (uc *WorkoutUsecase) LogWorkout(ctx context.Context, userID string, in model.WorkoutInput) (*LogWorkoutResult, error) {
	if userID == "" {
		return nil, ErrNoSession
	}

	entry, ve := model.ParseWorkout(in)
	if ve != nil {
		return nil, ve
	}

	log := uc.logger.WithContext(ctx)
	id, err := uc.logs.Create(ctx, userID, entry)
	if err != nil {
		fields := map[string]interface{}{"error": err.Error()}
		if errors.Is(err, repository.ErrStoreUnavailable) {
			log.WithFields(fields).Error("Workout store is unavailable")
		} else {
			log.WithFields(fields).Error("Failed to save workout log")
		}
		return nil, err
	}
	entry.ID, entry.UserID = id, userID

	result := &LogWorkoutResult{LogID: id, Log: entry}
	if uc.coach == nil || !uc.coach.Enabled() {
		result.SummaryErr = coachmodel.ErrCoachDisabled
		return result, nil
	}

	summary, err := uc.coach.SummarizeWorkout(ctx, userID, coachmodel.SummaryRequest{
		WorkoutLog: entry.Describe(),
		UserNotes:  entry.Notes,
	})
	if err != nil {
		log.WithFields(map[string]interface{}{
			"log_id": id,
			"error":  err.Error(),
		}).Warn("Workout saved without summary")
		result.SummaryErr = err
		return result, nil
	}
	result.Summary = summary
	return result, nil
}

// Dashboard lists the user's logs with streak and weekly count.
func (uc *WorkoutUsecase) Dashboard(ctx context.Context, userID string) Dashboard {
	res := uc.logs.List(ctx, userID)
	uc.logListFailure(ctx, "dashboard", res.Err)

	now := uc.now()
	return Dashboard{
		Status:           StatusOf(res.Err),
		Logs:             res.Records,
		Streak:           model.Streak(res.Records, now),
		WorkoutsThisWeek: model.WorkoutsThisWeek(res.Records, now),
	}
}

// NextGoal asks the coach for suggestions based on the latest log and the
// most recent sessions. Without logs it returns the first-goal prompt.
func (uc *WorkoutUsecase) NextGoal(ctx context.Context, userID string) (*NextGoal, error) {
	res := uc.logs.List(ctx, userID)
	if !res.Ok() {
		uc.logListFailure(ctx, "next_goal", res.Err)
		return nil, res.Err
	}
	if len(res.Records) == 0 {
		return &NextGoal{Goal: MsgFirstGoal}, nil
	}
	if uc.coach == nil {
		return nil, coachmodel.ErrCoachDisabled
	}

	latest := res.Records[0]
	notes := latest.Notes
	if notes == "" {
		notes = MsgNoNotes
	}

	out, err := uc.coach.Suggest(ctx, coachmodel.SuggestionsRequest{
		WorkoutLog:          latest.Describe(),
		UserNotes:           notes,
		PreviousWeekSummary: RecentSessions(res.Records, uc.historyLength),
	})
	if err != nil {
		return nil, err
	}
	return &NextGoal{Goal: out.Suggestions, Generated: true}, nil
}

// Journal returns the sessions that carry notes, newest first, and the
// coach's latest summary.
func (uc *WorkoutUsecase) Journal(ctx context.Context, userID string) Journal {
	res := uc.logs.List(ctx, userID)
	uc.logListFailure(ctx, "journal", res.Err)

	j := Journal{Status: StatusOf(res.Err), Entries: []JournalEntry{}}
	for _, l := range res.Records {
		if l.Notes == "" {
			continue
		}
		j.Entries = append(j.Entries, JournalEntry{
			ID:          l.ID,
			CreatedAt:   l.CreatedAt,
			WorkoutType: l.WorkoutType,
			Notes:       l.Notes,
		})
	}

	if uc.coach != nil {
		summary, err := uc.coach.LatestSummary(ctx, userID)
		if err != nil {
			uc.logger.WithContext(ctx).WithFields(map[string]interface{}{"error": err.Error()}).Warn("Failed to load latest summary")
		}
		j.LatestSummary = summary
	}
	return j
}

// Progress aggregates the user's full history.
func (uc *WorkoutUsecase) Progress(ctx context.Context, userID string) ProgressPage {
	res := uc.logs.List(ctx, userID)
	uc.logListFailure(ctx, "progress", res.Err)
	return ProgressPage{Status: StatusOf(res.Err), Progress: model.ProgressOf(res.Records, uc.now())}
}

func (uc *WorkoutUsecase) logListFailure(ctx context.Context, page string, err error) {
	if err == nil {
		return
	}
	fields := map[string]interface{}{"page": page, "error": err.Error()}
	if errors.Is(err, repository.ErrStoreUnavailable) {
		uc.logger.WithContext(ctx).WithFields(fields).Error("Workout store is unavailable")
		return
	}
	uc.logger.WithContext(ctx).WithFields(fields).Error("Failed to list workout logs")
}

// RecentSessions formats up to n logs, one line each, e.g.
// "Date: 2026-03-10, Type: Push, Difficulty: 7/10".
func RecentSessions(logs []model.WorkoutLog, n int) string {
	if len(logs) > n {
		logs = logs[:n]
	}
	lines := make([]string, len(logs))
	for i, l := range logs {
		lines[i] = fmt.Sprintf("Date: %s, Type: %s, Difficulty: %d/10",
			l.CreatedAt.Format("2006-01-02"), l.WorkoutType, l.DifficultyRating)
	}
	return strings.Join(lines, "\n")
}

var _ WorkoutUsecaseInterface = (*WorkoutUsecase)(nil)
