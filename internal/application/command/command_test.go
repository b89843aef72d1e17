package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/keys"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/ledger"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/memory"
	"github.com/rn-academy/progress-hub/pkg/timeutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *recordingPublisher) Publish(e shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	p.events = nil
	p.mu.Unlock()
}

type fixture struct {
	store    *memory.Store
	keys     keys.Builder
	clock    *timeutil.FixedClock
	pub      *recordingPublisher
	repo     *ledger.ProgressRepository
	progress *ProgressHandler
	planner  *PlannerHandler
}

func newFixture() *fixture {
	store := memory.NewStore()
	kb := keys.NewBuilder(keys.DefaultNamespace)
	clock := timeutil.NewFixedClock(time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))
	pub := &recordingPublisher{}
	repo := ledger.NewProgressRepository(store, kb)

	deps := Dependencies{
		Progress:  repo,
		Planner:   ledger.NewPlannerRepository(store, kb),
		Clock:     clock,
		Publisher: pub,
	}
	return &fixture{
		store:    store,
		keys:     kb,
		clock:    clock,
		pub:      pub,
		repo:     repo,
		progress: NewProgressHandler(deps),
		planner:  NewPlannerHandler(deps),
	}
}

func unlockedIDs(defs []progress.AchievementDefinition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.ID
	}
	return out
}

func TestCompleteLesson_FirstLesson(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.progress.CompleteLesson(ctx, CompleteLessonCommand{LessonID: "intro-to-react-native"})
	require.NoError(t, err)

	assert.True(t, res.Completed)
	assert.Equal(t, 1, res.CompletedLessons)
	assert.Equal(t, 12, res.TotalLessons)
	assert.Equal(t, 1, res.StreakDays)
	assert.Equal(t, progress.StreakStarted, res.Streak)
	assert.Equal(t, []string{"first_lesson"}, unlockedIDs(res.Unlocked))
	assert.Equal(t, []shared.EventType{
		shared.EventLessonCompleted,
		shared.EventStreakUpdated,
		shared.EventAchievementUnlocked,
	}, f.pub.types())

	earned, err := f.repo.Achievements(ctx, shared.DefaultProfile)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, "first_lesson", earned[0].ID)
	assert.Equal(t, f.clock.Now(), earned[0].DateEarned)
}

func TestCompleteLesson_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.progress.CompleteLesson(ctx, CompleteLessonCommand{LessonID: "navigation"})
	require.NoError(t, err)
	f.pub.reset()

	res, err := f.progress.CompleteLesson(ctx, CompleteLessonCommand{LessonID: "navigation"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.CompletedLessons)
	assert.Equal(t, progress.StreakUnchanged, res.Streak)
	assert.Empty(t, res.Unlocked)
	assert.Empty(t, f.pub.types())
}

func TestCompleteLesson_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.progress.CompleteLesson(ctx, CompleteLessonCommand{})
	assert.True(t, shared.IsValidation(err))

	_, err = f.progress.CompleteLesson(ctx, CompleteLessonCommand{LessonID: "cobol-basics"})
	assert.True(t, shared.IsNotFound(err))

	_, err = f.progress.CompleteLesson(ctx, CompleteLessonCommand{Profile: "Bad:Profile", LessonID: "navigation"})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestCompleteLesson_DecodeErrorAborts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	key := f.keys.Key(shared.DefaultProfile, keys.SuffixLessons)
	require.NoError(t, f.store.Set(ctx, key, "{not json"))

	_, err := f.progress.CompleteLesson(ctx, CompleteLessonCommand{LessonID: "navigation"})
	require.Error(t, err)
	assert.True(t, shared.IsDecode(err))

	raw, _, _ := f.store.Get(ctx, key)
	assert.Equal(t, "{not json", raw)
	assert.Empty(t, f.pub.types())
}

func TestCompleteLesson_AllLessons(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var all []string
	for _, id := range f.progress.catalog.LessonIDs() {
		res, err := f.progress.CompleteLesson(ctx, CompleteLessonCommand{LessonID: id})
		require.NoError(t, err)
		all = append(all, unlockedIDs(res.Unlocked)...)
	}

	assert.Equal(t, []string{"first_lesson", "lessons_5", "lessons_10", "all_lessons"}, all)
}

func TestToggleLesson(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.progress.ToggleLesson(ctx, ToggleLessonCommand{LessonID: "styling-basics"})
	require.NoError(t, err)
	assert.True(t, res.Completed)

	res, err = f.progress.ToggleLesson(ctx, ToggleLessonCommand{LessonID: "styling-basics"})
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, 0, res.CompletedLessons)
	assert.Equal(t, 1, res.StreakDays)

	// achievements are never revoked
	earned, err := f.repo.Achievements(ctx, shared.DefaultProfile)
	require.NoError(t, err)
	assert.Len(t, earned, 1)

	_, err = f.progress.ToggleLesson(ctx, ToggleLessonCommand{LessonID: "unknown-lesson"})
	assert.True(t, shared.IsNotFound(err))
}

func TestRecordStudy_StreakAcrossDays(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.progress.RecordStudy(ctx, RecordStudyCommand{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.StreakDays)

	f.clock.AddDays(1)
	out, err = f.progress.RecordStudy(ctx, RecordStudyCommand{})
	require.NoError(t, err)
	assert.Equal(t, progress.StreakExtended, out.Streak)
	assert.Equal(t, 2, out.StreakDays)

	f.clock.AddDays(1)
	out, err = f.progress.RecordStudy(ctx, RecordStudyCommand{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.StreakDays)
	assert.Equal(t, []string{"streak_3"}, unlockedIDs(out.Unlocked))

	f.pub.reset()
	f.clock.AddDays(3)
	out, err = f.progress.RecordStudy(ctx, RecordStudyCommand{})
	require.NoError(t, err)
	assert.Equal(t, progress.StreakReset, out.Streak)
	assert.Equal(t, 1, out.StreakDays)
	assert.Equal(t, []shared.EventType{shared.EventStreakBroken, shared.EventStreakUpdated}, f.pub.types())

	broken := f.pub.events[0].(*shared.StreakBrokenEvent)
	assert.Equal(t, 3, broken.PreviousStreak)
	assert.Equal(t, 2, broken.DaysMissed)
}

func TestSubmitQuiz(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.progress.SubmitQuiz(ctx, SubmitQuizCommand{LessonID: "props-and-state", Score: 5, TotalQuestions: 5})
	require.NoError(t, err)
	assert.False(t, res.Retake)
	assert.Equal(t, 100, res.Average)
	assert.Equal(t, []string{"first_quiz", "perfect_quiz"}, unlockedIDs(res.Unlocked))

	res, err = f.progress.SubmitQuiz(ctx, SubmitQuizCommand{LessonID: "props-and-state", Score: 2, TotalQuestions: 4})
	require.NoError(t, err)
	assert.True(t, res.Retake)
	assert.Equal(t, 50, res.Average)
	assert.Empty(t, res.Unlocked)

	results, err := f.repo.QuizResults(ctx, shared.DefaultProfile)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Score)
}

func TestSubmitQuiz_Invalid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.progress.SubmitQuiz(ctx, SubmitQuizCommand{LessonID: "props-and-state", Score: 6, TotalQuestions: 5})
	assert.True(t, shared.IsValidation(err))

	_, err = f.progress.SubmitQuiz(ctx, SubmitQuizCommand{LessonID: "props-and-state", Score: 0, TotalQuestions: 0})
	assert.True(t, shared.IsValidation(err))

	_, err = f.progress.SubmitQuiz(ctx, SubmitQuizCommand{LessonID: "props-and-state", Score: -1, TotalQuestions: 3})
	assert.True(t, shared.IsValidation(err))

	results, err := f.repo.QuizResults(ctx, shared.DefaultProfile)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestToggleProjectStep(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.progress.ToggleProjectStep(ctx, ToggleProjectStepCommand{ProjectID: "todo-app", StepID: "setup"})
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 1, res.CompletedSteps)
	assert.Equal(t, 5, res.TotalSteps)
	assert.Equal(t, 20, res.Percent)
	assert.Equal(t, 1, res.StreakDays)

	res, err = f.progress.ToggleProjectStep(ctx, ToggleProjectStepCommand{ProjectID: "todo-app", StepID: "setup"})
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, 0, res.Percent)

	_, err = f.progress.ToggleProjectStep(ctx, ToggleProjectStepCommand{ProjectID: "todo-app", StepID: "deploy"})
	assert.ErrorIs(t, err, shared.ErrStepNotFound)

	_, err = f.progress.ToggleProjectStep(ctx, ToggleProjectStepCommand{ProjectID: "chat-app", StepID: "setup"})
	assert.ErrorIs(t, err, shared.ErrProjectNotFound)
}

func TestToggleVideoWatched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.progress.ToggleVideoWatched(ctx, ToggleVideoWatchedCommand{VideoID: "vid-hooks"})
	require.NoError(t, err)
	assert.True(t, res.Watched)
	assert.Equal(t, 1, res.WatchedVideos)

	res, err = f.progress.ToggleVideoWatched(ctx, ToggleVideoWatchedCommand{VideoID: "vid-hooks"})
	require.NoError(t, err)
	assert.False(t, res.Watched)

	_, err = f.progress.ToggleVideoWatched(ctx, ToggleVideoWatchedCommand{VideoID: "vid-missing"})
	assert.True(t, shared.IsNotFound(err))
}

func TestUpdatePlan_KeepsStreak(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.progress.RecordStudy(ctx, RecordStudyCommand{})
	require.NoError(t, err)

	plan, err := f.progress.UpdatePlan(ctx, UpdatePlanCommand{
		Level:      "advanced",
		WeeklyGoal: 5,
		StudyDays:  []int{5, 1, 1, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, progress.LevelAdvanced, plan.Level)
	assert.Equal(t, []int{1, 3, 5}, plan.StudyDays)
	assert.Equal(t, 1, plan.StreakDays)
	assert.False(t, plan.LastStudyDate.IsZero())

	_, err = f.progress.UpdatePlan(ctx, UpdatePlanCommand{Level: "expert", WeeklyGoal: 3})
	assert.True(t, shared.IsValidation(err))

	_, err = f.progress.UpdatePlan(ctx, UpdatePlanCommand{Level: "beginner", StudyDays: []int{7}})
	assert.True(t, shared.IsValidation(err))
}

func TestCheckAchievements_BackfillsImportedState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.repo.SaveLessonProgress(ctx, shared.DefaultProfile,
		progress.IDSet{"navigation", "networking", "animations", "styling-basics", "flexbox-layout"}))

	out, err := f.progress.CheckAchievements(ctx, CheckAchievementsCommand{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first_lesson", "lessons_5"}, unlockedIDs(out.Unlocked))

	out, err = f.progress.CheckAchievements(ctx, CheckAchievementsCommand{})
	require.NoError(t, err)
	assert.Empty(t, out.Unlocked)
}

func TestCheckAchievements_IgnoresLessonsMissingFromCatalog(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ids := f.progress.catalog.LessonIDs()
	stale := append(progress.IDSet{"removed-lesson"}, ids[:len(ids)-1]...)
	require.NoError(t, f.repo.SaveLessonProgress(ctx, shared.DefaultProfile, stale))

	out, err := f.progress.CheckAchievements(ctx, CheckAchievementsCommand{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first_lesson", "lessons_5", "lessons_10"}, unlockedIDs(out.Unlocked))

	res, err := f.progress.CompleteLesson(ctx, CompleteLessonCommand{LessonID: ids[len(ids)-1]})
	require.NoError(t, err)
	assert.Equal(t, len(ids), res.CompletedLessons)
	assert.Equal(t, []string{"all_lessons"}, unlockedIDs(res.Unlocked))
}
