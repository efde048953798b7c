package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func logsAt(times ...time.Time) []WorkoutLog {
	logs := make([]WorkoutLog, len(times))
	for i, t := range times {
		logs[i] = WorkoutLog{CreatedAt: t}
	}
	return logs
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2026, 3, 10+offset, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		logs []WorkoutLog
		want int
	}{
		{"no logs", nil, 0},
		{"today only", logsAt(day(0, 9)), 1},
		{"yesterday only", logsAt(day(-1, 9)), 1},
		{"two days ago breaks", logsAt(day(-2, 9)), 0},
		{"three consecutive", logsAt(day(0, 9), day(-1, 9), day(-2, 9)), 3},
		{"same day entries", logsAt(day(0, 17), day(0, 8), day(-1, 9)), 2},
		{"gap stops the count", logsAt(day(-1, 9), day(-2, 9), day(-4, 9), day(-5, 9)), 2},
		{"late night to early morning", logsAt(day(0, 0), day(-1, 23)), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.logs, now))
		})
	}
}

func TestWorkoutsThisWeek(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	logs := logsAt(
		now,
		now.AddDate(0, 0, -3),
		now.AddDate(0, 0, -7),
		now.AddDate(0, 0, -8),
		now.AddDate(0, -1, 0),
	)
	assert.Equal(t, 3, WorkoutsThisWeek(logs, now))
	assert.Zero(t, WorkoutsThisWeek(nil, now))
}

func TestProgressOf(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	logs := []WorkoutLog{
		{WorkoutType: WorkoutPush, DifficultyRating: 7, DurationMinutes: 45, CreatedAt: now.Add(-time.Hour)},
		{WorkoutType: WorkoutPull, DifficultyRating: 6, CreatedAt: now.Add(-24 * time.Hour)},
		{WorkoutType: WorkoutPush, DifficultyRating: 8, DurationMinutes: 30, CreatedAt: now.Add(-20 * 24 * time.Hour)},
	}

	p := ProgressOf(logs, now)
	assert.Equal(t, 3, p.TotalWorkouts)
	assert.Equal(t, 2, p.ByType[WorkoutPush])
	assert.Equal(t, 1, p.ByType[WorkoutPull])
	assert.Contains(t, p.ByType, WorkoutMobility)
	assert.Equal(t, 0, p.ByType[WorkoutMobility])
	assert.Equal(t, 7.0, p.AverageDifficulty)
	assert.Equal(t, 75, p.TotalMinutes)
	assert.Equal(t, 2, p.Streak)
	assert.Equal(t, 2, p.WorkoutsThisWeek)

	empty := ProgressOf(nil, now)
	assert.Zero(t, empty.AverageDifficulty)
	assert.Len(t, empty.ByType, 4)
}
