package progress

import (
	"context"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Каждая запись хранится целиком под своим ключом; реализации находятся в
// infrastructure/persistence/ledger.
// Отсутствующий ключ - это пустое значение (или DefaultPlan), а не ошибка.
// Повреждённый JSON возвращает *shared.DecodeError.
// ══════════════════════════════════════════════════════════════════════════════

// Repository - учебный прогресс одного профиля.
type Repository interface {
	// LessonProgress возвращает пройденные уроки.
	LessonProgress(ctx context.Context, profile shared.ProfileID) (IDSet, error)
	SaveLessonProgress(ctx context.Context, profile shared.ProfileID, lessons IDSet) error

	// QuizResults возвращает результаты тестов.
	QuizResults(ctx context.Context, profile shared.ProfileID) (QuizResults, error)
	SaveQuizResults(ctx context.Context, profile shared.ProfileID, results QuizResults) error

	// Plan возвращает план; DefaultPlan, если он ещё не сохранён.
	Plan(ctx context.Context, profile shared.ProfileID) (LearningPlan, error)
	SavePlan(ctx context.Context, profile shared.ProfileID, plan LearningPlan) error

	// Achievements возвращает полученные достижения.
	Achievements(ctx context.Context, profile shared.ProfileID) ([]UserAchievement, error)
	SaveAchievements(ctx context.Context, profile shared.ProfileID, list []UserAchievement) error

	// ProjectProgress возвращает выполненные шаги проектов.
	ProjectProgress(ctx context.Context, profile shared.ProfileID) (ProjectProgress, error)
	SaveProjectProgress(ctx context.Context, profile shared.ProfileID, progress ProjectProgress) error

	// WatchedVideos возвращает просмотренные видео.
	WatchedVideos(ctx context.Context, profile shared.ProfileID) (IDSet, error)
	SaveWatchedVideos(ctx context.Context, profile shared.ProfileID, videos IDSet) error
}
