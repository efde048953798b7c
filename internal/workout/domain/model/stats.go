package model

import (
	"math"
	"time"
)

// Streak counts consecutive calendar days with at least one workout, ending
// today or yesterday. logs must be sorted newest first. Days are taken in the
// location of now.
func Streak(logs []WorkoutLog, now time.Time) int {
	if len(logs) == 0 {
		return 0
	}

	last := logs[0].CreatedAt.In(now.Location())
	if gap := calendarDaysBetween(now, last); gap != 0 && gap != 1 {
		return 0
	}

	streak := 1
	for _, l := range logs[1:] {
		current := l.CreatedAt.In(now.Location())
		switch calendarDaysBetween(last, current) {
		case 0:
			// same day
		case 1:
			streak++
			last = current
		default:
			return streak
		}
	}
	return streak
}

// WorkoutsThisWeek counts the logs no more than seven calendar days old.
func WorkoutsThisWeek(logs []WorkoutLog, now time.Time) int {
	count := 0
	for _, l := range logs {
		if d := calendarDaysBetween(now, l.CreatedAt.In(now.Location())); d >= 0 && d <= 7 {
			count++
		}
	}
	return count
}

// Progress aggregates a user's history for the progress page.
type Progress struct {
	TotalWorkouts     int                 `json:"totalWorkouts"`
	ByType            map[WorkoutType]int `json:"byType"`
	AverageDifficulty float64             `json:"averageDifficulty"`
	TotalMinutes      int                 `json:"totalMinutes"`
	Streak            int                 `json:"streak"`
	WorkoutsThisWeek  int                 `json:"workoutsThisWeek"`
}

// ProgressOf computes the progress figures. Every workout type is present in
// ByType, with zero for types never logged.
func ProgressOf(logs []WorkoutLog, now time.Time) Progress {
	p := Progress{
		TotalWorkouts:    len(logs),
		ByType:           make(map[WorkoutType]int, len(workoutTypes)),
		Streak:           Streak(logs, now),
		WorkoutsThisWeek: WorkoutsThisWeek(logs, now),
	}
	for _, t := range workoutTypes {
		p.ByType[t] = 0
	}

	difficulty := 0
	for _, l := range logs {
		p.ByType[l.WorkoutType]++
		difficulty += l.DifficultyRating
		p.TotalMinutes += l.DurationMinutes
	}
	if len(logs) > 0 {
		p.AverageDifficulty = math.Round(float64(difficulty)/float64(len(logs))*10) / 10
	}
	return p
}

// calendarDaysBetween returns the number of midnights between b and a.
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(da.Sub(db).Hours() / 24)
}
