package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rn-academy/progress-hub/internal/domain/planner"
	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/keys"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/ledger"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/memory"
	"github.com/rn-academy/progress-hub/pkg/timeutil"
)

// 2025-03-12 is a Wednesday.
var today = time.Date(2025, time.March, 12, 18, 30, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	keys    keys.Builder
	repo    *ledger.ProgressRepository
	planner *ledger.PlannerRepository
	handler *Handler
}

func newFixture() *fixture {
	store := memory.NewStore()
	kb := keys.NewBuilder(keys.DefaultNamespace)
	repo := ledger.NewProgressRepository(store, kb)
	pr := ledger.NewPlannerRepository(store, kb)
	return &fixture{
		store:   store,
		keys:    kb,
		repo:    repo,
		planner: pr,
		handler: NewHandler(Dependencies{
			Progress: repo,
			Planner:  pr,
			Clock:    timeutil.NewFixedClock(today),
		}),
	}
}

func TestGetOverview_Empty(t *testing.T) {
	f := newFixture()

	ov, err := f.handler.GetOverview(context.Background(), GetOverviewQuery{})
	require.NoError(t, err)

	assert.Equal(t, "default", ov.Profile)
	assert.Equal(t, 0, ov.CompletedLessons)
	assert.Equal(t, 12, ov.TotalLessons)
	assert.Equal(t, 0, ov.LessonPercent)
	assert.Equal(t, 0, ov.QuizAverage)
	assert.Equal(t, "beginner", ov.Level)
	assert.Equal(t, 3, ov.WeeklyGoal)
	assert.True(t, ov.StudyToday)
	assert.Equal(t, 10, ov.AchievementsTotal)
	assert.Len(t, ov.Projects, 3)
	assert.False(t, ov.Degraded)
}

func TestGetOverview_Populated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := shared.DefaultProfile

	require.NoError(t, f.repo.SaveLessonProgress(ctx, p, progress.IDSet{"navigation", "networking", "animations"}))
	require.NoError(t, f.repo.SaveQuizResults(ctx, p, progress.QuizResults{
		{LessonID: "navigation", Score: 3, TotalQuestions: 4, Completed: true},
		{LessonID: "networking", Score: 1, TotalQuestions: 2, Completed: true},
	}))
	require.NoError(t, f.repo.SaveProjectProgress(ctx, p, progress.ProjectProgress{"todo-app": {"setup", "task-input"}}))

	plan := progress.DefaultPlan()
	plan.WeeklyGoal = 2
	plan.StreakDays = 4
	plan.LastStudyDate = shared.Date{Year: 2025, Month: time.March, Day: 11}
	require.NoError(t, f.repo.SavePlan(ctx, p, plan))

	ov, err := f.handler.GetOverview(ctx, GetOverviewQuery{})
	require.NoError(t, err)

	assert.Equal(t, 3, ov.CompletedLessons)
	assert.Equal(t, 25, ov.LessonPercent)
	assert.Equal(t, 63, ov.QuizAverage)
	assert.Equal(t, 2, ov.WeeklyProgress)
	assert.Equal(t, 100, ov.WeeklyPercent)
	assert.Equal(t, 4, ov.StreakDays)
	assert.True(t, ov.StreakAtRisk)
	assert.Equal(t, "2025-03-11", ov.LastStudyDate)
	assert.Equal(t, ProjectSummary{ID: "todo-app", Title: ov.Projects[0].Title, CompletedSteps: 2, TotalSteps: 5, Percent: 40}, ov.Projects[0])
}

func TestGetOverview_LapsedStreakShowsZero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	plan := progress.DefaultPlan()
	plan.StreakDays = 9
	plan.LastStudyDate = shared.Date{Year: 2025, Month: time.March, Day: 1}
	require.NoError(t, f.repo.SavePlan(ctx, shared.DefaultProfile, plan))

	ov, err := f.handler.GetOverview(ctx, GetOverviewQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, ov.StreakDays)
	assert.False(t, ov.StreakAtRisk)
}

func TestGetOverview_StorageFailureDegrades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.repo.SaveLessonProgress(ctx, shared.DefaultProfile, progress.IDSet{"navigation"}))
	quizKey := f.keys.Key(shared.DefaultProfile, keys.SuffixQuizzes)
	f.store.SetFault(func(op, key string) error {
		if key == quizKey {
			return errors.New("disk unplugged")
		}
		return nil
	})

	ov, err := f.handler.GetOverview(ctx, GetOverviewQuery{})
	require.NoError(t, err)
	assert.True(t, ov.Degraded)
	assert.Equal(t, 1, ov.CompletedLessons)
	assert.Equal(t, 0, ov.QuizzesTaken)
}

func TestGetOverview_DecodeErrorIsReturned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.store.Set(ctx, f.keys.Key(shared.DefaultProfile, keys.SuffixPlan), `{"level":`))

	_, err := f.handler.GetOverview(ctx, GetOverviewQuery{})
	require.Error(t, err)
	assert.True(t, shared.IsDecode(err))

	var decodeErr *shared.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, f.keys.Key(shared.DefaultProfile, keys.SuffixPlan), decodeErr.Key)
}

func TestGetOverview_CountsOnlyCatalogLessons(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.repo.SaveLessonProgress(ctx, shared.DefaultProfile,
		progress.IDSet{"navigation", "removed-lesson", "networking"}))

	ov, err := f.handler.GetOverview(ctx, GetOverviewQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, ov.CompletedLessons)
	assert.Equal(t, 17, ov.LessonPercent)
	assert.Equal(t, 2, ov.WeeklyProgress)
}

func TestGetOverview_InvalidQuizRecordIsDecodeError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.store.Set(ctx, f.keys.Key(shared.DefaultProfile, keys.SuffixQuizzes),
		`[{"lesson_id":"navigation","score":12,"total_questions":10}]`))

	_, err := f.handler.GetOverview(ctx, GetOverviewQuery{})
	require.Error(t, err)
	assert.True(t, shared.IsDecode(err))
}

func TestListAchievements(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	earnedAt := today.Add(-time.Hour)
	require.NoError(t, f.repo.SaveAchievements(ctx, shared.DefaultProfile, []progress.UserAchievement{
		{ID: "first_lesson", DateEarned: earnedAt},
		{ID: "retired_badge", DateEarned: earnedAt},
	}))

	all, err := f.handler.ListAchievements(ctx, ListAchievementsQuery{})
	require.NoError(t, err)
	require.Len(t, all, 10)
	assert.Equal(t, "first_lesson", all[0].ID)
	assert.True(t, all[0].Earned)
	assert.Equal(t, earnedAt, *all[0].DateEarned)
	assert.False(t, all[1].Earned)
	assert.Nil(t, all[1].DateEarned)

	earned, err := f.handler.ListAchievements(ctx, ListAchievementsQuery{EarnedOnly: true})
	require.NoError(t, err)
	assert.Len(t, earned, 1)
}

func TestPlannerLists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := shared.DefaultProfile

	overdue, err := planner.NewGoal("g1", "Finish navigation", "", shared.Date{Year: 2025, Month: time.March, Day: 1}, nil, today)
	require.NoError(t, err)
	done, err := planner.NewGoal("g2", "Hooks", "", shared.Date{}, []string{"useState"}, today)
	require.NoError(t, err)
	done.Toggle()
	require.NoError(t, f.planner.SaveGoals(ctx, p, planner.Goals{overdue, done}))

	goals, err := f.handler.ListGoals(ctx, ListGoalsQuery{})
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.True(t, goals[0].Overdue)
	assert.Equal(t, 1, goals[1].MilestonesDone)

	open, err := f.handler.ListGoals(ctx, ListGoalsQuery{HideCompleted: true})
	require.NoError(t, err)
	assert.Len(t, open, 1)

	n1, _ := planner.NewNote("n1", "navigation", "stack", today)
	n2, _ := planner.NewNote("n2", "", "general", today)
	require.NoError(t, f.planner.SaveNotes(ctx, p, planner.Notes{n1, n2}))

	notes, err := f.handler.ListNotes(ctx, ListNotesQuery{LessonID: "navigation"})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)

	notes, err = f.handler.ListNotes(ctx, ListNotesQuery{LessonID: "animations"})
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)

	s1, _ := planner.NewSnippet("s1", "fetch", "TypeScript", "await fetch(url)", today)
	s2, _ := planner.NewSnippet("s2", "map", "", "list.map(f)", today)
	require.NoError(t, f.planner.SaveSnippets(ctx, p, planner.Snippets{s1, s2}))

	snippets, err := f.handler.ListSnippets(ctx, ListSnippetsQuery{Language: "typescript"})
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, "s1", snippets[0].ID)
}
