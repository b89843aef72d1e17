package progress

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

func TestIDSet_Toggle(t *testing.T) {
	var s IDSet

	assert.True(t, s.Toggle("intro"))
	assert.True(t, s.Add("state"))
	assert.False(t, s.Add("state"))
	assert.Equal(t, 2, s.Len())

	assert.False(t, s.Toggle("intro"))
	assert.Equal(t, IDSet{"state"}, s)
	assert.False(t, s.Remove("intro"))
}

func TestIDSet_Dedup(t *testing.T) {
	s := IDSet{"a", "b", "a", "c", "b"}
	assert.Equal(t, IDSet{"a", "b", "c"}, s.Dedup())
	assert.Equal(t, 2, s.Dedup().CountIn([]string{"a", "c", "z"}))
}

func TestProjectProgress_ToggleStep(t *testing.T) {
	p := ProjectProgress{}

	assert.True(t, p.ToggleStep("todo-app", "setup"))
	assert.True(t, p.ToggleStep("todo-app", "list"))
	assert.Equal(t, 2, p.Steps("todo-app").Len())

	assert.False(t, p.ToggleStep("todo-app", "setup"))
	assert.False(t, p.ToggleStep("todo-app", "list"))
	_, ok := p["todo-app"]
	assert.False(t, ok)
	assert.Nil(t, ProjectProgress(nil).Steps("x"))
}

func TestQuizResults_Upsert(t *testing.T) {
	at := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	var rs QuizResults

	first, err := NewQuizResult("hooks", 3, 5, at)
	require.NoError(t, err)
	assert.False(t, rs.Upsert(first))

	retake, err := NewQuizResult("hooks", 5, 5, at.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, rs.Upsert(retake))

	require.Len(t, rs, 1)
	got, ok := rs.Find("hooks")
	require.True(t, ok)
	assert.Equal(t, 5, got.Score)
	assert.True(t, rs.HasPerfect())
}

func TestQuizResult_Validate(t *testing.T) {
	at := time.Now()

	_, err := NewQuizResult("hooks", 6, 5, at)
	assert.True(t, errors.Is(err, shared.ErrScoreOutOfRange))

	_, err = NewQuizResult("hooks", -1, 5, at)
	assert.True(t, shared.IsValidation(err))

	_, err = NewQuizResult("hooks", 0, 0, at)
	assert.True(t, errors.Is(err, shared.ErrNoQuestions))
}

func TestLearningPlan_Validate(t *testing.T) {
	assert.NoError(t, DefaultPlan().Validate())

	plan := DefaultPlan()
	plan.Level = "expert"
	assert.ErrorIs(t, plan.Validate(), shared.ErrInvalidLevel)

	plan = DefaultPlan()
	plan.StudyDays = []int{1, 7}
	assert.ErrorIs(t, plan.Validate(), shared.ErrInvalidStudyDay)

	plan = DefaultPlan()
	plan.WeeklyGoal = -1
	assert.ErrorIs(t, plan.Validate(), shared.ErrNegativeGoal)
}

func TestLearningPlan_WithSchedule(t *testing.T) {
	plan := DefaultPlan()
	plan.StreakDays = 4

	got := plan.WithSchedule(LevelIntermediate, 5, []int{5, 1, 5, 0})

	assert.Equal(t, []int{0, 1, 5}, got.StudyDays)
	assert.Equal(t, 4, got.StreakDays)
	assert.True(t, got.IsStudyDay(time.Friday))
	assert.False(t, got.IsStudyDay(time.Tuesday))
}

func TestLearningPlan_JSON(t *testing.T) {
	raw := `{"level":"beginner","weekly_goal":3,"study_days":[1,3],"streak_days":2,"last_study_date":"2025-02-03"}`

	var plan LearningPlan
	require.NoError(t, json.Unmarshal([]byte(raw), &plan))
	assert.Equal(t, shared.Date{Year: 2025, Month: time.February, Day: 3}, plan.LastStudyDate)

	plan = DefaultPlan()
	out, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"last_study_date":null`)
}
