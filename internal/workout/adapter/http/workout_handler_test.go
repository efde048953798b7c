package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	coachmodel "calisthenics-ai/internal/coach/domain/model"
	coachusecase "calisthenics-ai/internal/coach/usecase"
	"calisthenics-ai/internal/shared/utils"
	"calisthenics-ai/internal/workout/adapter/persistence/memory"
	"calisthenics-ai/internal/workout/domain/model"
	"calisthenics-ai/internal/workout/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cannedGenerator answers each prompt kind with a fixed JSON document,
// chosen by a marker the prompt contains.
type cannedGenerator struct {
	err error
}

var cannedAnswers = map[string]string{
	`"progressHighlights"`: `{"summary":"Great push session","trends":"More volume","progressHighlights":"New dip max"}`,
	`"suggestions"`:        `{"suggestions":"Try ring dips next week."}`,
	`"routineAdaptation"`:  `{"routineAdaptation":"Take an active recovery day","exerciseProgressions":["Archer push-ups"],"additionalTips":"Sleep 8h"}`,
	`"trainingPlan"`:       `{"trainingPlan":"Monday: Push-ups\nWednesday: Pull-ups","warnings":["Add leg work"]}`,
}

func (g *cannedGenerator) Name() string { return "canned" }

func (g *cannedGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	for marker, answer := range cannedAnswers {
		if strings.Contains(prompt, marker) {
			return answer, nil
		}
	}
	return "", coachmodel.ErrEmptyResponse
}

type testEnv struct {
	app   *fiber.App
	logs  *memory.Store[model.WorkoutLog]
	plans *memory.Store[model.TrainingPlan]
}

func newTestEnv(gen *cannedGenerator) *testEnv {
	logs := memory.NewStore[model.WorkoutLog]()
	plans := memory.NewStore[model.TrainingPlan]()

	var coach *coachusecase.CoachUsecase
	if gen != nil {
		coach = coachusecase.NewCoachUsecase(gen, nil, time.Second, nil)
	} else {
		coach = coachusecase.NewCoachUsecase(nil, nil, time.Second, nil)
	}

	handler := NewWorkoutHTTPHandler(
		usecase.NewWorkoutUsecase(logs, coach, 5, nil),
		usecase.NewPlanUsecase(plans, logs, coach, 5, nil),
		nil,
	)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if user := c.Get("X-Test-User"); user != "" {
			c.SetUserContext(utils.WithUserID(c.UserContext(), user))
		}
		return c.Next()
	})
	requireSession := func(c *fiber.Ctx) error {
		if _, ok := currentUser(c); !ok {
			return c.Redirect("/login?redirect_to="+url.QueryEscape(c.Path()), fiber.StatusSeeOther)
		}
		return c.Next()
	}
	handler.RegisterRoutes(app, requireSession)

	return &testEnv{app: app, logs: logs, plans: plans}
}

func (e *testEnv) do(t *testing.T, method, path, user string, values url.Values) *http.Response {
	t.Helper()
	var req *http.Request
	if values != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func workoutForm() url.Values {
	return url.Values{
		"workoutType":       {"Push"},
		"exercises[0].name": {"Push-ups"},
		"exercises[0].sets": {"3"},
		"exercises[0].reps": {"15"},
		"exercises[1].name": {"Dips"},
		"exercises[1].sets": {"4"},
		"exercises[1].reps": {"8"},
		"difficultyRating":  {"7"},
		"fatigue":           {"Medium"},
		"soreness":          {"Mild"},
		"mood":              {"Great"},
		"energy":            {"High"},
		"notes":             {"Elbows felt fine"},
	}
}

func fieldErrors(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok, "expected errors in %v", body)
	return errs
}

func TestLogWorkout_SavesAndSummarizes(t *testing.T) {
	env := newTestEnv(&cannedGenerator{})

	resp := env.do(t, fiber.MethodPost, "/log-workout", "user-1", workoutForm())
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, msgWorkoutLogged, body["message"])
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["logId"])
	summary, ok := body["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Great push session", summary["summary"])

	resp = env.do(t, fiber.MethodGet, "/dashboard", "user-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	dash := decode(t, resp)
	assert.Equal(t, "ready", dash["status"])
	assert.Len(t, dash["logs"], 1)
	assert.EqualValues(t, 1, dash["streak"])
	assert.EqualValues(t, 1, dash["workoutsThisWeek"])

	logs := dash["logs"].([]interface{})
	first := logs[0].(map[string]interface{})
	assert.Equal(t, "Push", first["workoutType"])
	assert.Equal(t, "Elbows felt fine", first["notes"])
	assert.Len(t, first["exercises"], 2)
}

func TestLogWorkout_RequiresSession(t *testing.T) {
	env := newTestEnv(&cannedGenerator{})

	resp := env.do(t, fiber.MethodPost, "/log-workout", "", workoutForm())
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, msgAuthFailed, body["message"])
	assert.Equal(t, []interface{}{msgWorkoutNoSession}, fieldErrors(t, body)["form"])
}

func TestLogWorkout_Validation(t *testing.T) {
	env := newTestEnv(&cannedGenerator{})

	values := workoutForm()
	values.Set("workoutType", "Cardio")
	values.Set("exercises[0].sets", "0")
	resp := env.do(t, fiber.MethodPost, "/log-workout", "user-1", values)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, msgWorkoutInvalid, body["message"])
	errs := fieldErrors(t, body)
	assert.Contains(t, errs, "workoutType")
	assert.Contains(t, errs, "exercises[0].sets")
	assert.Nil(t, body["summary"])

	gap := workoutForm()
	gap.Del("exercises[0].name")
	gap.Del("exercises[0].sets")
	gap.Del("exercises[0].reps")
	resp = env.do(t, fiber.MethodPost, "/log-workout", "user-1", gap)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, fieldErrors(t, decode(t, resp)), "exercises")

	assert.Empty(t, env.logs.List(context.Background(), "user-1").Records)
}

func TestLogWorkout_SummaryFailureKeepsLog(t *testing.T) {
	env := newTestEnv(&cannedGenerator{err: errors.New("upstream timeout")})

	resp := env.do(t, fiber.MethodPost, "/log-workout", "user-1", workoutForm())
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, msgWorkoutNoSummary, body["message"])
	assert.Contains(t, body, "summary")
	assert.Nil(t, body["summary"])
	assert.Len(t, env.logs.List(context.Background(), "user-1").Records, 1)
}

func TestLogWorkout_StoreUnavailable(t *testing.T) {
	env := newTestEnv(&cannedGenerator{})
	env.logs.SetUnavailable(true)

	resp := env.do(t, fiber.MethodPost, "/log-workout", "user-1", workoutForm())
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, msgWorkoutFailed, body["message"])

	resp = env.do(t, fiber.MethodGet, "/dashboard", "user-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	dash := decode(t, resp)
	assert.Equal(t, "store_unavailable", dash["status"])
	assert.Equal(t, []interface{}{}, dash["logs"])
}

func TestPages_RequireSession(t *testing.T) {
	env := newTestEnv(nil)

	for _, path := range []string{"/dashboard", "/training-plan", "/journal", "/progress", "/dashboard/next-goal"} {
		resp := env.do(t, fiber.MethodGet, path, "", nil)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login?redirect_to="+url.QueryEscape(path), resp.Header.Get("Location"), path)
	}
}

func TestSavePlan(t *testing.T) {
	env := newTestEnv(nil)

	resp := env.do(t, fiber.MethodPost, "/training-plan", "user-1", url.Values{
		"planName":              {"Beginner split"},
		"schedule[0].day":       {"Monday"},
		"schedule[0].exercises": {"Push-ups, Squats"},
		"schedule[1].day":       {"Thursday"},
		"schedule[1].exercises": {"Rows"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, msgPlanSaved, body["message"])

	resp = env.do(t, fiber.MethodGet, "/training-plan", "user-1", nil)
	page := decode(t, resp)
	assert.Equal(t, "ready", page["status"])
	plans := page["plans"].([]interface{})
	require.Len(t, plans, 1)
	assert.Equal(t, "Beginner split", plans[0].(map[string]interface{})["planName"])

	// Other users see nothing.
	other := decode(t, env.do(t, fiber.MethodGet, "/training-plan", "user-2", nil))
	assert.Equal(t, []interface{}{}, other["plans"])
}

func TestSavePlan_Errors(t *testing.T) {
	env := newTestEnv(nil)

	resp := env.do(t, fiber.MethodPost, "/training-plan", "", url.Values{"planName": {"x"}})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, msgAuthFailed, body["message"])
	assert.Equal(t, []interface{}{msgPlanNoSession}, fieldErrors(t, body)["form"])

	resp = env.do(t, fiber.MethodPost, "/training-plan", "user-1", url.Values{"planName": {"Empty"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body = decode(t, resp)
	assert.Equal(t, msgPlanInvalid, body["message"])
	assert.Equal(t, []interface{}{model.MsgPlanNoDays}, fieldErrors(t, body)["schedule"])
}

func TestGeneratePlan(t *testing.T) {
	env := newTestEnv(&cannedGenerator{})

	resp := env.do(t, fiber.MethodPost, "/training-plan/generate", "user-1", url.Values{
		"pushExercises":   {"Push-ups", "Dips"},
		"pullExercises":   {"Pull-ups"},
		"userPreferences": {"3 days a week"},
		"save":            {"on"},
		"planName":        {"Coach plan"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, msgPlanSaved, body["message"])
	generated := body["generated"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Add leg work"}, generated["warnings"])
	saved := body["saved"].(map[string]interface{})
	assert.Len(t, saved["schedule"], 2)

	assert.Len(t, env.plans.List(context.Background(), "user-1").Records, 1)
}

func TestGeneratePlan_CoachDisabled(t *testing.T) {
	env := newTestEnv(nil)

	resp := env.do(t, fiber.MethodPost, "/training-plan/generate", "user-1", url.Values{"pushExercises": {"Push-ups"}})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, msgPlanGenFailed, body["message"])
	assert.Equal(t, []interface{}{msgCoachDisabled}, fieldErrors(t, body)["form"])
}

func TestRecommendations(t *testing.T) {
	env := newTestEnv(&cannedGenerator{})

	resp := env.do(t, fiber.MethodPost, "/recommendations", "user-1", url.Values{
		"sorenessLevel":    {"severe"},
		"skippedDays":      {"1"},
		"sleepQuality":     {"poor"},
		"currentExercises": {"Pull-ups, Pistol squats"},
		"trainingGoals":    {"First muscle-up"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	recs := body["recommendations"].(map[string]interface{})
	assert.Equal(t, "Take an active recovery day", recs["routineAdaptation"])

	resp = env.do(t, fiber.MethodPost, "/recommendations", "user-1", url.Values{"skippedDays": {"-1"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	errs := fieldErrors(t, decode(t, resp))
	assert.Contains(t, errs, "skippedDays")
	assert.Contains(t, errs, "sorenessLevel")
}

func TestRecommendations_UpstreamFailure(t *testing.T) {
	env := newTestEnv(&cannedGenerator{err: errors.New("503 from provider")})

	resp := env.do(t, fiber.MethodPost, "/recommendations", "user-1", url.Values{
		"sorenessLevel":    {"mild"},
		"sleepQuality":     {"good"},
		"currentExercises": {"Rows"},
	})
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, msgRecommendFailed, decode(t, resp)["message"])
}

func TestNextGoal(t *testing.T) {
	env := newTestEnv(&cannedGenerator{})

	goal := decode(t, env.do(t, fiber.MethodGet, "/dashboard/next-goal", "user-1", nil))
	assert.Equal(t, usecase.MsgFirstGoal, goal["goal"])
	assert.Equal(t, false, goal["generated"])

	require.Equal(t, fiber.StatusOK, env.do(t, fiber.MethodPost, "/log-workout", "user-1", workoutForm()).StatusCode)

	goal = decode(t, env.do(t, fiber.MethodGet, "/dashboard/next-goal", "user-1", nil))
	assert.Equal(t, "Try ring dips next week.", goal["goal"])
	assert.Equal(t, true, goal["generated"])
}

func TestNextGoal_StoreUnavailable(t *testing.T) {
	env := newTestEnv(&cannedGenerator{})
	env.logs.SetUnavailable(true)

	resp := env.do(t, fiber.MethodGet, "/dashboard/next-goal", "user-1", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, msgSuggestionsFailed, decode(t, resp)["message"])
}

func TestJournalAndProgress(t *testing.T) {
	env := newTestEnv(&cannedGenerator{})
	require.Equal(t, fiber.StatusOK, env.do(t, fiber.MethodPost, "/log-workout", "user-1", workoutForm()).StatusCode)

	journal := decode(t, env.do(t, fiber.MethodGet, "/journal", "user-1", nil))
	assert.Equal(t, "ready", journal["status"])
	entries := journal["entries"].([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, "Elbows felt fine", entries[0].(map[string]interface{})["notes"])

	progress := decode(t, env.do(t, fiber.MethodGet, "/progress", "user-1", nil))
	assert.EqualValues(t, 1, progress["totalWorkouts"])
	assert.EqualValues(t, 7, progress["averageDifficulty"])
	byType := progress["byType"].(map[string]interface{})
	assert.EqualValues(t, 1, byType["Push"])
}
