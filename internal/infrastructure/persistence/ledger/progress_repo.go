package ledger

import (
	"context"

	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/keys"
)

// ProgressRepository implements progress.Repository.
type ProgressRepository struct {
	codec codec
}

var _ progress.Repository = (*ProgressRepository)(nil)

// NewProgressRepository creates a repository over store.
func NewProgressRepository(store shared.Store, kb keys.Builder) *ProgressRepository {
	return &ProgressRepository{codec: newCodec(store, kb)}
}

// LessonProgress returns completed lessons, deduplicated.
func (r *ProgressRepository) LessonProgress(ctx context.Context, profile shared.ProfileID) (progress.IDSet, error) {
	var set progress.IDSet
	if _, err := r.codec.load(ctx, profile, keys.SuffixLessons, &set); err != nil {
		return nil, err
	}
	return set.Dedup(), nil
}

// SaveLessonProgress writes completed lessons.
func (r *ProgressRepository) SaveLessonProgress(ctx context.Context, profile shared.ProfileID, lessons progress.IDSet) error {
	return r.codec.save(ctx, profile, keys.SuffixLessons, nonNilSet(lessons))
}

// QuizResults returns quiz results.
func (r *ProgressRepository) QuizResults(ctx context.Context, profile shared.ProfileID) (progress.QuizResults, error) {
	var results progress.QuizResults
	check := func() error { return checkQuizResults(results) }
	if _, err := r.codec.loadValid(ctx, profile, keys.SuffixQuizzes, &results, check); err != nil {
		return nil, err
	}
	return results, nil
}

// SaveQuizResults writes quiz results.
func (r *ProgressRepository) SaveQuizResults(ctx context.Context, profile shared.ProfileID, results progress.QuizResults) error {
	if results == nil {
		results = progress.QuizResults{}
	}
	return r.codec.save(ctx, profile, keys.SuffixQuizzes, results)
}

// Plan returns the learning plan, or DefaultPlan when none is stored.
// Fields missing from the stored record keep their defaults.
func (r *ProgressRepository) Plan(ctx context.Context, profile shared.ProfileID) (progress.LearningPlan, error) {
	plan := progress.DefaultPlan()
	check := func() error { return plan.Validate() }
	if _, err := r.codec.loadValid(ctx, profile, keys.SuffixPlan, &plan, check); err != nil {
		return progress.LearningPlan{}, err
	}
	return plan, nil
}

// SavePlan writes the learning plan.
func (r *ProgressRepository) SavePlan(ctx context.Context, profile shared.ProfileID, plan progress.LearningPlan) error {
	if plan.StudyDays == nil {
		plan.StudyDays = []int{}
	}
	return r.codec.save(ctx, profile, keys.SuffixPlan, plan)
}

// Achievements returns earned achievements with duplicate ids collapsed.
func (r *ProgressRepository) Achievements(ctx context.Context, profile shared.ProfileID) ([]progress.UserAchievement, error) {
	var list []progress.UserAchievement
	if _, err := r.codec.load(ctx, profile, keys.SuffixAchievements, &list); err != nil {
		return nil, err
	}
	return progress.DedupEarned(list), nil
}

// SaveAchievements writes earned achievements.
func (r *ProgressRepository) SaveAchievements(ctx context.Context, profile shared.ProfileID, list []progress.UserAchievement) error {
	if list == nil {
		list = []progress.UserAchievement{}
	}
	return r.codec.save(ctx, profile, keys.SuffixAchievements, list)
}

// ProjectProgress returns completed steps per project; never nil.
func (r *ProgressRepository) ProjectProgress(ctx context.Context, profile shared.ProfileID) (progress.ProjectProgress, error) {
	pp := progress.ProjectProgress{}
	if _, err := r.codec.load(ctx, profile, keys.SuffixProjects, &pp); err != nil {
		return nil, err
	}
	if pp == nil {
		pp = progress.ProjectProgress{}
	}
	for id, steps := range pp {
		pp[id] = steps.Dedup()
	}
	return pp, nil
}

// SaveProjectProgress writes project step progress.
func (r *ProgressRepository) SaveProjectProgress(ctx context.Context, profile shared.ProfileID, pp progress.ProjectProgress) error {
	if pp == nil {
		pp = progress.ProjectProgress{}
	}
	return r.codec.save(ctx, profile, keys.SuffixProjects, pp)
}

// WatchedVideos returns watched video ids.
func (r *ProgressRepository) WatchedVideos(ctx context.Context, profile shared.ProfileID) (progress.IDSet, error) {
	var set progress.IDSet
	if _, err := r.codec.load(ctx, profile, keys.SuffixVideos, &set); err != nil {
		return nil, err
	}
	return set.Dedup(), nil
}

// SaveWatchedVideos writes watched video ids.
func (r *ProgressRepository) SaveWatchedVideos(ctx context.Context, profile shared.ProfileID, videos progress.IDSet) error {
	return r.codec.save(ctx, profile, keys.SuffixVideos, nonNilSet(videos))
}

func nonNilSet(s progress.IDSet) progress.IDSet {
	if s == nil {
		return progress.IDSet{}
	}
	return s
}
