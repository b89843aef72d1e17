package query

import (
	"context"

	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET OVERVIEW QUERY
// Сводка прогресса для главного экрана: уроки, тесты, проекты, недельная
// цель, серия и достижения.
//
// Ошибки хранилища не роняют экран: недоступный ключ читается как пустое
// состояние, а в ответе выставляется Degraded. Повреждённые данные
// (DecodeError) возвращаются вызывающему, чтобы их не затёрли нулями.
// ══════════════════════════════════════════════════════════════════════════════

// GetOverviewQuery - параметры сводки.
type GetOverviewQuery struct {
	Profile string
}

// ProjectSummary - прогресс по одному проекту.
type ProjectSummary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	CompletedSteps int    `json:"completed_steps"`
	TotalSteps     int    `json:"total_steps"`
	Percent        int    `json:"percent"`
}

// Overview - результат запроса.
type Overview struct {
	Profile string `json:"profile"`

	// ─────────────────────────────────────────────────────────────────────────
	// Уроки и тесты
	// ─────────────────────────────────────────────────────────────────────────

	CompletedLessons int `json:"completed_lessons"`
	TotalLessons     int `json:"total_lessons"`
	LessonPercent    int `json:"lesson_percent"`
	QuizzesTaken     int `json:"quizzes_taken"`
	QuizAverage      int `json:"quiz_average"`
	WatchedVideos    int `json:"watched_videos"`

	// ─────────────────────────────────────────────────────────────────────────
	// Проекты
	// ─────────────────────────────────────────────────────────────────────────

	Projects []ProjectSummary `json:"projects"`

	// ─────────────────────────────────────────────────────────────────────────
	// План и серия
	// ─────────────────────────────────────────────────────────────────────────

	Level          string `json:"level"`
	WeeklyGoal     int    `json:"weekly_goal"`
	WeeklyProgress int    `json:"weekly_progress"`
	WeeklyPercent  int    `json:"weekly_percent"`
	StudyDays      []int  `json:"study_days"`
	StudyToday     bool   `json:"study_today"`

	// StreakDays - серия с учётом пропуска (0, если серия уже прервана).
	StreakDays    int    `json:"streak_days"`
	StreakAtRisk  bool   `json:"streak_at_risk"`
	LastStudyDate string `json:"last_study_date,omitempty"`

	// ─────────────────────────────────────────────────────────────────────────
	// Достижения
	// ─────────────────────────────────────────────────────────────────────────

	AchievementsEarned int `json:"achievements_earned"`
	AchievementsTotal  int `json:"achievements_total"`

	// Degraded - часть данных не прочиталась из хранилища.
	Degraded bool `json:"degraded"`
}

// GetOverview собирает сводку.
func (h *Handler) GetOverview(ctx context.Context, q GetOverviewQuery) (*Overview, error) {
	profile, err := shared.NewProfileID(q.Profile)
	if err != nil {
		return nil, err
	}

	out := &Overview{Profile: profile.String()}
	log := h.logger.With(logger.Profile(profile.String()), logger.Operation("GetOverview"))

	// degrade решает судьбу ошибки чтения: DecodeError наверх, остальное - в лог.
	degrade := func(what string, err error) error {
		if err == nil {
			return nil
		}
		if shared.IsDecode(err) {
			return err
		}
		log.Warn("storage read failed, showing empty state", logger.String("record", what), logger.Err(err))
		out.Degraded = true
		return nil
	}

	lessons, err := h.progress.LessonProgress(ctx, profile)
	if err := degrade("lessons", err); err != nil {
		return nil, err
	}
	quizzes, err := h.progress.QuizResults(ctx, profile)
	if err := degrade("quizzes", err); err != nil {
		return nil, err
	}
	plan, err := h.progress.Plan(ctx, profile)
	if err := degrade("plan", err); err != nil {
		return nil, err
	}
	if err != nil {
		plan = progress.DefaultPlan()
	}
	earned, err := h.progress.Achievements(ctx, profile)
	if err := degrade("achievements", err); err != nil {
		return nil, err
	}
	projects, err := h.progress.ProjectProgress(ctx, profile)
	if err := degrade("projects", err); err != nil {
		return nil, err
	}
	videos, err := h.progress.WatchedVideos(ctx, profile)
	if err := degrade("videos", err); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	total := h.catalog.TotalLessons()

	completed := lessons.CountIn(h.catalog.LessonIDs())
	out.CompletedLessons = completed
	out.TotalLessons = total
	out.LessonPercent = progress.LessonPercent(completed, total)
	out.QuizzesTaken = len(quizzes)
	out.QuizAverage = progress.QuizAverage(quizzes)
	out.WatchedVideos = videos.Len()

	out.Projects = make([]ProjectSummary, 0, len(h.catalog.Projects))
	for _, p := range h.catalog.Projects {
		done := projects.Steps(p.ID).CountIn(p.StepIDs())
		out.Projects = append(out.Projects, ProjectSummary{
			ID:             p.ID,
			Title:          p.Title,
			CompletedSteps: done,
			TotalSteps:     len(p.Steps),
			Percent:        progress.ProjectPercent(done, len(p.Steps)),
		})
	}

	out.Level = string(plan.Level)
	out.WeeklyGoal = plan.WeeklyGoal
	out.WeeklyProgress = progress.WeeklyProgress(completed, plan.WeeklyGoal)
	out.WeeklyPercent = progress.WeeklyPercent(completed, plan.WeeklyGoal)
	out.StudyDays = plan.StudyDays
	if out.StudyDays == nil {
		out.StudyDays = []int{}
	}
	out.StudyToday = plan.IsStudyDay(now.Weekday())
	out.StreakDays = progress.CurrentStreak(plan, now)
	out.StreakAtRisk = progress.IsStreakAtRisk(plan, now)
	out.LastStudyDate = plan.LastStudyDate.String()

	out.AchievementsEarned = len(earned)
	out.AchievementsTotal = len(h.checker.Catalog())

	return out, nil
}
