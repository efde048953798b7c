// Package prompt renders the coach prompts and decodes the JSON the model
// answers with.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"calisthenics-ai/internal/coach/domain/model"
)

// System is sent as the system instruction with every prompt.
const System = "You are an experienced calisthenics coach. Answer with a single JSON object " +
	"containing exactly the requested fields and no other text."

const (
	Summary         = "summary"
	Suggestions     = "suggestions"
	Recommendations = "recommendations"
	TrainingPlan    = "training_plan"
)

var funcs = template.FuncMap{
	"join": strings.Join,
	"orNone": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "None provided."
		}
		return s
	},
}

var templates = template.Must(template.New("coach").Funcs(funcs).Parse(`
{{define "summary"}}Summarize this calisthenics session, update the user's trends and highlight progress.
Use the notes and the previous summary for context. Keep it short and motivating.

Workout log:
{{.WorkoutLog}}

User notes: {{orNone .UserNotes}}
Previous summary: {{orNone .PreviousSummary}}

Fields: "summary" (string), "trends" (string), "progressHighlights" (string).{{end}}

{{define "suggestions"}}Suggest how the user should adjust their training. Look for overtraining and
propose progressions where they fit.

Latest workout:
{{.WorkoutLog}}

User notes: {{orNone .UserNotes}}
Recent sessions:
{{orNone .PreviousWeekSummary}}

Fields: "suggestions" (string).{{end}}

{{define "recommendations"}}Recommend how to adapt the user's routine and which progressions to work on.
Lower intensity for high soreness or poor sleep, offer rest or alternatives after skipped days,
and keep advice specific.

Soreness: {{.SorenessLevel}}
Skipped days this week: {{.SkippedDays}}
Sleep quality: {{.SleepQuality}}
Current exercises: {{join .CurrentExercises ", "}}
Performance history: {{orNone .PerformanceHistory}}
Goals: {{orNone .TrainingGoals}}
User notes: {{orNone .UserNotes}}

Fields: "routineAdaptation" (string), "exerciseProgressions" (array of strings), "additionalTips" (string).{{end}}

{{define "training_plan"}}Build a personalized weekly plan split across Push, Pull, Core & Legs and
Mobility/Recovery days, using only the exercises listed. Warn about muscle groups the user undertrains.

Push: {{join .PushExercises ", "}}
Pull: {{join .PullExercises ", "}}
Core & Legs: {{join .CoreLegsExercises ", "}}
Mobility/Recovery: {{join .MobilityRecoveryExercises ", "}}

Preferences: {{orNone .UserPreferences}}
Workout history:
{{orNone .WorkoutHistory}}

Fields: "trainingPlan" (string), "warnings" (array of strings).{{end}}
`))

// Render executes the named prompt with data.
func Render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Decode parses the model answer into v. Markdown code fences and text around
// the outermost JSON object are ignored.
func Decode(raw string, v interface{}) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return model.ErrEmptyResponse
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return fmt.Errorf("%w: no JSON object found", model.ErrMalformedResponse)
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", model.ErrMalformedResponse, err)
	}
	return nil
}
