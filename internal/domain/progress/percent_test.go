package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		num, den, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{3, 10, 30},
		{1, 3, 33},
		{2, 3, 67},
		{10, 10, 100},
		{12, 10, 100},
		{-1, 10, 0},
		{1, -4, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.num, tt.den), "%d/%d", tt.num, tt.den)
	}
}

func TestQuizAverage(t *testing.T) {
	assert.Equal(t, 0, QuizAverage(nil))

	got := QuizAverage([]QuizResult{
		{LessonID: "a", Score: 5, TotalQuestions: 5},
		{LessonID: "b", Score: 1, TotalQuestions: 2},
		{LessonID: "c", Score: 0, TotalQuestions: 0},
	})
	assert.Equal(t, 75, got)
}

func TestWeeklyProgress(t *testing.T) {
	assert.Equal(t, 0, WeeklyProgress(4, 0))
	assert.Equal(t, 2, WeeklyProgress(2, 3))
	assert.Equal(t, 3, WeeklyProgress(9, 3))

	assert.Equal(t, 67, WeeklyPercent(2, 3))
	assert.Equal(t, 100, WeeklyPercent(9, 3))
	assert.Equal(t, 0, WeeklyPercent(9, 0))
}

func TestLessonAndProjectPercent(t *testing.T) {
	assert.Equal(t, 0, LessonPercent(0, 0))
	assert.Equal(t, 25, LessonPercent(3, 12))
	assert.Equal(t, 40, ProjectPercent(2, 5))
}
