package model

import (
	"fmt"
	"strings"
	"time"

	apperrors "calisthenics-ai/internal/shared/errors"
)

// DaySchedule is one day of a training plan. Exercises is free text.
type DaySchedule struct {
	Day       string `json:"day" bson:"day"`
	Exercises string `json:"exercises" bson:"exercises"`
}

// TrainingPlan is an immutable, user-authored or generated weekly plan.
type TrainingPlan struct {
	ID        string        `json:"id" bson:"_id"`
	UserID    string        `json:"userId" bson:"userId"`
	PlanName  string        `json:"planName" bson:"planName"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	Schedule  []DaySchedule `json:"schedule" bson:"schedule"`
	Warnings  []string      `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

func (p TrainingPlan) WithMeta(id, userID string, createdAt time.Time) TrainingPlan {
	p.ID, p.UserID, p.CreatedAt = id, userID, createdAt
	return p
}

const (
	MsgPlanName     = "Plan name is required."
	MsgPlanNoDays   = "You must have at least one day in your schedule."
	MsgDayName      = "Day name cannot be empty."
	MsgDayExercises = "Exercises cannot be empty."
)

// ScheduleField names the form field of schedule day i.
func ScheduleField(i int, field string) string {
	return fmt.Sprintf("schedule[%d].%s", i, field)
}

// ParsePlan validates a plan submission.
func ParsePlan(name string, days []DaySchedule) (TrainingPlan, *apperrors.ValidationErrors) {
	ve := apperrors.NewValidationErrors()
	plan := TrainingPlan{PlanName: strings.TrimSpace(name)}

	if plan.PlanName == "" {
		ve.Add("planName", MsgPlanName, name)
	}
	if len(days) == 0 {
		ve.Add("schedule", MsgPlanNoDays, nil)
	}
	plan.Schedule = make([]DaySchedule, 0, len(days))
	for i, d := range days {
		day := DaySchedule{Day: strings.TrimSpace(d.Day), Exercises: strings.TrimSpace(d.Exercises)}
		if day.Day == "" {
			ve.Add(ScheduleField(i, "day"), MsgDayName, d.Day)
		}
		if day.Exercises == "" {
			ve.Add(ScheduleField(i, "exercises"), MsgDayExercises, d.Exercises)
		}
		plan.Schedule = append(plan.Schedule, day)
	}

	if ve.HasErrors() {
		return TrainingPlan{}, ve
	}
	return plan, nil
}
