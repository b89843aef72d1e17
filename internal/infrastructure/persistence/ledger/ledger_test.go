package ledger

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
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/memory"
)

func newRepos() (*memory.Store, *ProgressRepository, *PlannerRepository) {
	store := memory.NewStore()
	kb := keys.NewBuilder("")
	return store, NewProgressRepository(store, kb), NewPlannerRepository(store, kb)
}

func TestProgressRepository_MissingKeysAreEmpty(t *testing.T) {
	ctx := context.Background()
	_, repo, _ := newRepos()

	lessons, err := repo.LessonProgress(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, lessons)

	plan, err := repo.Plan(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, progress.DefaultPlan(), plan)

	pp, err := repo.ProjectProgress(ctx, "default")
	require.NoError(t, err)
	assert.NotNil(t, pp)
}

func TestProgressRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, repo, _ := newRepos()
	profile := shared.ProfileID("alice")

	plan := progress.DefaultPlan()
	plan.StreakDays = 4
	plan.LastStudyDate = shared.Date{Year: 2025, Month: time.May, Day: 1}
	require.NoError(t, repo.SavePlan(ctx, profile, plan))

	raw, found, err := store.Get(ctx, "rnacademy:alice:plan")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"level":"beginner","weekly_goal":3,"study_days":[1,3,5],"streak_days":4,"last_study_date":"2025-05-01"}`, raw)

	got, err := repo.Plan(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, plan, got)

	require.NoError(t, repo.SaveLessonProgress(ctx, profile, nil))
	raw, _, _ = store.Get(ctx, "rnacademy:alice:progress:lessons")
	assert.Equal(t, "[]", raw)
}

func TestProgressRepository_DecodeError(t *testing.T) {
	ctx := context.Background()
	store, repo, _ := newRepos()
	require.NoError(t, store.Set(ctx, "rnacademy:default:progress:quizzes", `{"not":"a list"`))

	_, err := repo.QuizResults(ctx, "default")
	require.Error(t, err)
	assert.True(t, shared.IsDecode(err))

	var de *shared.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "rnacademy:default:progress:quizzes", de.Key)

	raw, _, _ := store.Get(ctx, "rnacademy:default:progress:quizzes")
	assert.Equal(t, `{"not":"a list"`, raw, "malformed record must not be overwritten")
}

func TestProgressRepository_RejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	store, repo, _ := newRepos()
	quizKey := "rnacademy:default:progress:quizzes"
	planKey := "rnacademy:default:plan"

	require.NoError(t, store.Set(ctx, quizKey, `[{"lesson_id":"navigation","score":12,"total_questions":10}]`))
	_, err := repo.QuizResults(ctx, "default")
	require.Error(t, err)
	assert.True(t, shared.IsDecode(err))
	var de *shared.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, quizKey, de.Key)

	plans := []string{
		`{"level":"expert"}`,
		`{"level":"beginner","weekly_goal":-4}`,
		`{"level":"beginner","study_days":[9]}`,
		`{"level":"beginner","streak_days":-3}`,
	}
	for _, raw := range plans {
		require.NoError(t, store.Set(ctx, planKey, raw))
		_, err := repo.Plan(ctx, "default")
		assert.True(t, shared.IsDecode(err), raw)

		stored, _, _ := store.Get(ctx, planKey)
		assert.Equal(t, raw, stored)
	}
}

func TestProgressRepository_StorageError(t *testing.T) {
	ctx := context.Background()
	store, repo, _ := newRepos()
	store.SetFault(func(op, key string) error { return errors.New("io") })

	_, err := repo.Achievements(ctx, "default")
	assert.True(t, shared.IsStorage(err))

	err = repo.SaveWatchedVideos(ctx, "default", progress.IDSet{"v"})
	assert.True(t, shared.IsStorage(err))
}

func TestProgressRepository_CleansLegacyData(t *testing.T) {
	ctx := context.Background()
	store, repo, _ := newRepos()
	require.NoError(t, store.Set(ctx, "rnacademy:default:progress:lessons", `["a","b","a"]`))
	require.NoError(t, store.Set(ctx, "rnacademy:default:achievements",
		`[{"id":"first_lesson","date_earned":"2025-01-02T00:00:00Z"},{"id":"first_lesson","date_earned":"2025-01-01T00:00:00Z"}]`))
	require.NoError(t, store.Set(ctx, "rnacademy:default:plan", `{"level":"advanced","last_study_date":null}`))

	lessons, err := repo.LessonProgress(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, progress.IDSet{"a", "b"}, lessons)

	earned, err := repo.Achievements(ctx, "default")
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, 1, earned[0].DateEarned.Day())

	plan, err := repo.Plan(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, progress.LevelAdvanced, plan.Level)
	assert.Equal(t, progress.DefaultWeeklyGoal, plan.WeeklyGoal)
}

func TestPlannerRepository_Goals(t *testing.T) {
	ctx := context.Background()
	store, _, repo := newRepos()

	// stored flag disagrees with milestones
	require.NoError(t, store.Set(ctx, "rnacademy:default:goals",
		`[{"id":"g1","title":"Ship","milestones":[{"id":"m1","title":"a","completed":true}],"completed":false,"deadline":"2025-12-01"}]`))

	goals, err := repo.Goals(ctx, "default")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Completed)
	assert.Equal(t, shared.Date{Year: 2025, Month: time.December, Day: 1}, goals[0].Deadline)
}

func TestPlannerRepository_NotesAndSnippets(t *testing.T) {
	ctx := context.Background()
	_, _, repo := newRepos()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	n, err := planner.NewNote("n1", "navigation", "stack vs tabs", now)
	require.NoError(t, err)
	require.NoError(t, repo.SaveNotes(ctx, "default", planner.Notes{n}))

	notes, err := repo.Notes(ctx, "default")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "stack vs tabs", notes[0].Text)

	s, err := planner.NewSnippet("s1", "Hello", "tsx", "<Text>Hi</Text>", now)
	require.NoError(t, err)
	require.NoError(t, repo.SaveSnippets(ctx, "default", planner.Snippets{s}))

	snippets, err := repo.Snippets(ctx, "default")
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, "tsx", snippets[0].Language)

	other, err := repo.Snippets(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}
