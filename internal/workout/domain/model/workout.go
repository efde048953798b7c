package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "calisthenics-ai/internal/shared/errors"
)

// WorkoutType is the training focus of a session.
type WorkoutType string

const (
	WorkoutPush     WorkoutType = "Push"
	WorkoutPull     WorkoutType = "Pull"
	WorkoutCoreLegs WorkoutType = "Core & Legs"
	WorkoutMobility WorkoutType = "Mobility/Recovery"
)

type FatigueLevel string

const (
	FatigueLow    FatigueLevel = "Low"
	FatigueMedium FatigueLevel = "Medium"
	FatigueHigh   FatigueLevel = "High"
)

type SorenessLevel string

const (
	SorenessNone     SorenessLevel = "None"
	SorenessMild     SorenessLevel = "Mild"
	SorenessModerate SorenessLevel = "Moderate"
	SorenessSevere   SorenessLevel = "Severe"
)

type Mood string

const (
	MoodGreat Mood = "Great"
	MoodGood  Mood = "Good"
	MoodOkay  Mood = "Okay"
	MoodBad   Mood = "Bad"
	MoodAwful Mood = "Awful"
)

type EnergyLevel string

const (
	EnergyHigh   EnergyLevel = "High"
	EnergyMedium EnergyLevel = "Medium"
	EnergyLow    EnergyLevel = "Low"
)

var (
	workoutTypes = []WorkoutType{WorkoutPush, WorkoutPull, WorkoutCoreLegs, WorkoutMobility}
	fatigues     = []FatigueLevel{FatigueLow, FatigueMedium, FatigueHigh}
	sorenesses   = []SorenessLevel{SorenessNone, SorenessMild, SorenessModerate, SorenessSevere}
	moods        = []Mood{MoodGreat, MoodGood, MoodOkay, MoodBad, MoodAwful}
	energies     = []EnergyLevel{EnergyHigh, EnergyMedium, EnergyLow}
)

// WorkoutTypes lists the accepted workout types in display order.
func WorkoutTypes() []WorkoutType { return append([]WorkoutType(nil), workoutTypes...) }

func (t WorkoutType) Valid() bool   { return oneOf(t, workoutTypes) }
func (f FatigueLevel) Valid() bool  { return oneOf(f, fatigues) }
func (s SorenessLevel) Valid() bool { return oneOf(s, sorenesses) }
func (m Mood) Valid() bool          { return oneOf(m, moods) }
func (e EnergyLevel) Valid() bool   { return oneOf(e, energies) }

func oneOf[T comparable](v T, set []T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Exercise is one movement within a logged session. Reps is free text so
// that timed holds such as "3:00" fit.
type Exercise struct {
	Name string `json:"name" bson:"name"`
	Sets int    `json:"sets" bson:"sets"`
	Reps string `json:"reps" bson:"reps"`
}

// WorkoutLog is an immutable record of one training session.
type WorkoutLog struct {
	ID               string        `json:"id" bson:"_id"`
	UserID           string        `json:"userId" bson:"userId"`
	CreatedAt        time.Time     `json:"createdAt" bson:"createdAt"`
	WorkoutType      WorkoutType   `json:"workoutType" bson:"workoutType"`
	Exercises        []Exercise    `json:"exercises" bson:"exercises"`
	DifficultyRating int           `json:"difficultyRating" bson:"difficultyRating"`
	Fatigue          FatigueLevel  `json:"fatigue" bson:"fatigue"`
	Soreness         SorenessLevel `json:"soreness" bson:"soreness"`
	Mood             Mood          `json:"mood" bson:"mood"`
	Energy           EnergyLevel   `json:"energy" bson:"energy"`
	Notes            string        `json:"notes,omitempty" bson:"notes,omitempty"`
	DurationMinutes  int           `json:"durationMinutes,omitempty" bson:"durationMinutes,omitempty"`
}

// WithMeta returns a copy carrying the store-assigned identity and timestamp.
func (w WorkoutLog) WithMeta(id, userID string, createdAt time.Time) WorkoutLog {
	w.ID, w.UserID, w.CreatedAt = id, userID, createdAt
	return w
}

// Validation messages for the workout form.
const (
	MsgInvalidWorkoutType = "Please select a valid workout type."
	MsgNoExercises        = "Add at least one exercise."
	MsgExerciseName       = "Exercise name is required."
	MsgExerciseSets       = "Sets must be at least 1."
	MsgExerciseReps       = "Reps or duration is required."
	MsgDifficulty         = "Difficulty must be between 1 and 10."
	MsgFatigue            = "Please select a fatigue level."
	MsgSoreness           = "Please select a soreness level."
	MsgMood               = "Please select a mood."
	MsgEnergy             = "Please select an energy level."
	MsgDuration           = "Duration must be a positive number of minutes."
)

// WorkoutInput is the raw submission of the log-workout form.
type WorkoutInput struct {
	WorkoutType      string
	Exercises        []ExerciseInput
	DifficultyRating string
	Fatigue          string
	Soreness         string
	Mood             string
	Energy           string
	Notes            string
	DurationMinutes  string
}

// ExerciseInput is one exercises[i] row as submitted.
type ExerciseInput struct {
	Name string
	Sets string
	Reps string
}

// ExerciseField names the form field of exercise i, e.g. exercises[0].sets.
func ExerciseField(i int, field string) string {
	return fmt.Sprintf("exercises[%d].%s", i, field)
}

// ParseWorkout validates a submission and converts it into a WorkoutLog
// without identity or timestamp. It returns nil errors when the form is valid.
func ParseWorkout(in WorkoutInput) (WorkoutLog, *apperrors.ValidationErrors) {
	ve := apperrors.NewValidationErrors()
	log := WorkoutLog{
		WorkoutType: WorkoutType(in.WorkoutType),
		Fatigue:     FatigueLevel(in.Fatigue),
		Soreness:    SorenessLevel(in.Soreness),
		Mood:        Mood(in.Mood),
		Energy:      EnergyLevel(in.Energy),
		Notes:       strings.TrimSpace(in.Notes),
	}

	if !log.WorkoutType.Valid() {
		ve.Add("workoutType", MsgInvalidWorkoutType, in.WorkoutType)
	}

	if len(in.Exercises) == 0 {
		ve.Add("exercises", MsgNoExercises, nil)
	}
	log.Exercises = make([]Exercise, 0, len(in.Exercises))
	for i, ex := range in.Exercises {
		name := strings.TrimSpace(ex.Name)
		reps := strings.TrimSpace(ex.Reps)
		sets, err := strconv.Atoi(strings.TrimSpace(ex.Sets))
		if name == "" {
			ve.Add(ExerciseField(i, "name"), MsgExerciseName, ex.Name)
		}
		if err != nil || sets < 1 {
			ve.Add(ExerciseField(i, "sets"), MsgExerciseSets, ex.Sets)
		}
		if reps == "" {
			ve.Add(ExerciseField(i, "reps"), MsgExerciseReps, ex.Reps)
		}
		log.Exercises = append(log.Exercises, Exercise{Name: name, Sets: sets, Reps: reps})
	}

	difficulty, err := strconv.Atoi(strings.TrimSpace(in.DifficultyRating))
	if err != nil || difficulty < 1 || difficulty > 10 {
		ve.Add("difficultyRating", MsgDifficulty, in.DifficultyRating)
	}
	log.DifficultyRating = difficulty

	if !log.Fatigue.Valid() {
		ve.Add("fatigue", MsgFatigue, in.Fatigue)
	}
	if !log.Soreness.Valid() {
		ve.Add("soreness", MsgSoreness, in.Soreness)
	}
	if !log.Mood.Valid() {
		ve.Add("mood", MsgMood, in.Mood)
	}
	if !log.Energy.Valid() {
		ve.Add("energy", MsgEnergy, in.Energy)
	}

	if d := strings.TrimSpace(in.DurationMinutes); d != "" {
		minutes, err := strconv.Atoi(d)
		if err != nil || minutes <= 0 {
			ve.Add("durationMinutes", MsgDuration, in.DurationMinutes)
		}
		log.DurationMinutes = minutes
	}

	if ve.HasErrors() {
		return WorkoutLog{}, ve
	}
	return log, nil
}

// Describe renders the log as the plain-text block the coach reads.
func (w WorkoutLog) Describe() string {
	exercises := make([]string, len(w.Exercises))
	for i, ex := range w.Exercises {
		exercises[i] = fmt.Sprintf("%s - %d sets of %s", ex.Name, ex.Sets, ex.Reps)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Type: %s\n", w.WorkoutType)
	fmt.Fprintf(&b, "Exercises: %s\n", strings.Join(exercises, ", "))
	fmt.Fprintf(&b, "Difficulty: %d/10\n", w.DifficultyRating)
	fmt.Fprintf(&b, "Fatigue: %s, Soreness: %s, Mood: %s, Energy: %s", w.Fatigue, w.Soreness, w.Mood, w.Energy)
	if w.DurationMinutes > 0 {
		fmt.Fprintf(&b, "\nDuration: %d minutes", w.DurationMinutes)
	}
	return b.String()
}
