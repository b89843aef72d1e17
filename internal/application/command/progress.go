package command

import (
	"context"
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/curriculum"
	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS HANDLER
// Lessons, quizzes, project steps, videos, the learning plan and streak.
// ══════════════════════════════════════════════════════════════════════════════

// ProgressHandler handles the progress commands of one store.
type ProgressHandler struct {
	repo      progress.Repository
	catalog   *curriculum.Catalog
	checker   *progress.AchievementChecker
	clock     shared.Clock
	publisher shared.EventPublisher
	logger    *logger.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(deps Dependencies) *ProgressHandler {
	deps = deps.withDefaults()
	return &ProgressHandler{
		repo:      deps.Progress,
		catalog:   deps.Catalog,
		checker:   deps.Checker,
		clock:     deps.Clock,
		publisher: deps.Publisher,
		logger:    deps.Logger.With(logger.Component("progress_commands")),
	}
}

// Outcome is the part of every progress result that reports the streak
// and the achievements unlocked by the call.
type Outcome struct {
	// StreakDays is the stored streak after the call.
	StreakDays int `json:"streak_days"`

	// Streak tells what the call did to the streak.
	Streak progress.StreakOutcome `json:"streak"`

	// Unlocked lists achievements earned by this call, in catalog order.
	Unlocked []progress.AchievementDefinition `json:"unlocked"`

	// Events contains the domain events published by the call.
	Events []shared.Event `json:"-"`
}

// touchStreak applies study activity at now to the stored plan.
func (h *ProgressHandler) touchStreak(ctx context.Context, profile shared.ProfileID, now time.Time, out *Outcome) (progress.LearningPlan, error) {
	plan, err := h.repo.Plan(ctx, profile)
	if err != nil {
		return plan, err
	}

	previous := plan.StreakDays
	missed := progress.DaysMissed(plan, now)
	next, result := progress.StreakTransition(plan, now)
	out.Streak = result
	out.StreakDays = next.StreakDays
	if result == progress.StreakUnchanged {
		return next, nil
	}

	if err := h.repo.SavePlan(ctx, profile, next); err != nil {
		return plan, err
	}

	if result == progress.StreakReset && previous > 1 {
		out.Events = append(out.Events, shared.NewStreakBrokenEvent(profile.String(), previous, missed, now))
		h.logger.Info("streak broken",
			logger.Profile(profile.String()),
			logger.Int("previous_streak", previous),
			logger.Int("days_missed", missed),
		)
	}
	out.Events = append(out.Events, shared.NewStreakUpdatedEvent(profile.String(), next.StreakDays, now))
	return next, nil
}

// award evaluates the catalog against the given state and appends new
// achievements to the stored list.
func (h *ProgressHandler) award(
	ctx context.Context,
	profile shared.ProfileID,
	streakDays int,
	lessons progress.IDSet,
	quizzes progress.QuizResults,
	now time.Time,
	out *Outcome,
) error {
	earned, err := h.repo.Achievements(ctx, profile)
	if err != nil {
		return err
	}

	unlocked := h.checker.Check(progress.Snapshot{
		StreakDays:       streakDays,
		CompletedLessons: lessons.Within(h.catalog.LessonIDs()),
		QuizResults:      quizzes,
		TotalLessons:     h.catalog.TotalLessons(),
	}, progress.EarnedIDs(earned))
	if len(unlocked) == 0 {
		return nil
	}

	if err := h.repo.SaveAchievements(ctx, profile, progress.AppendEarned(earned, unlocked, now)); err != nil {
		return err
	}

	out.Unlocked = unlocked
	for _, def := range unlocked {
		out.Events = append(out.Events,
			shared.NewAchievementUnlockedEvent(profile.String(), def.ID, def.Title, string(def.Kind), now))
		h.logger.Info("achievement unlocked",
			logger.Profile(profile.String()),
			logger.AchievementID(def.ID),
		)
	}
	return nil
}

// studied runs the common tail of study commands: streak, then achievements.
// lessons and quizzes may be nil, in which case they are read from the store.
func (h *ProgressHandler) studied(
	ctx context.Context,
	profile shared.ProfileID,
	now time.Time,
	lessons progress.IDSet,
	quizzes progress.QuizResults,
	out *Outcome,
) error {
	plan, err := h.touchStreak(ctx, profile, now, out)
	if err != nil {
		return err
	}
	return h.awardFor(ctx, profile, plan.StreakDays, lessons, quizzes, now, out)
}

func (h *ProgressHandler) awardFor(
	ctx context.Context,
	profile shared.ProfileID,
	streakDays int,
	lessons progress.IDSet,
	quizzes progress.QuizResults,
	now time.Time,
	out *Outcome,
) error {
	var err error
	if lessons == nil {
		if lessons, err = h.repo.LessonProgress(ctx, profile); err != nil {
			return err
		}
	}
	if quizzes == nil {
		if quizzes, err = h.repo.QuizResults(ctx, profile); err != nil {
			return err
		}
	}
	return h.award(ctx, profile, streakDays, lessons, quizzes, now, out)
}

func (h *ProgressHandler) finish(op string, profile shared.ProfileID, out *Outcome, start time.Time) {
	publishAll(h.publisher, h.logger, out.Events)
	h.logger.Debug("command handled",
		logger.Operation(op),
		logger.Profile(profile.String()),
		logger.StreakDays(out.StreakDays),
		logger.Int("unlocked", len(out.Unlocked)),
		logger.Latency(time.Since(start)),
	)
}
