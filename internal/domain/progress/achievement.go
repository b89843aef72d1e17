package progress

import (
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENTS (Достижения)
// ══════════════════════════════════════════════════════════════════════════════

// AchievementKind - по какому счётчику проверяется достижение.
type AchievementKind string

const (
	KindStreak  AchievementKind = "streak"
	KindLessons AchievementKind = "lessons"
	KindQuizzes AchievementKind = "quizzes"
)

// Идентификаторы достижений со специальными правилами.
const (
	// AchievementAllLessons - пройдены все уроки курса.
	AchievementAllLessons = "all_lessons"
	// AchievementPerfectQuiz - хотя бы один тест без ошибок.
	AchievementPerfectQuiz = "perfect_quiz"
)

// AchievementDefinition описывает достижение из статического каталога.
type AchievementDefinition struct {
	ID            string          `json:"id" yaml:"id"`
	Kind          AchievementKind `json:"type" yaml:"type"`
	RequiredValue int             `json:"required_value" yaml:"required_value"`
	Title         string          `json:"title" yaml:"title"`
	Description   string          `json:"description" yaml:"description"`
	Color         string          `json:"color" yaml:"color"`
}

// UserAchievement - полученное достижение. Список только дополняется.
type UserAchievement struct {
	ID         string    `json:"id"`
	DateEarned time.Time `json:"date_earned"`
}

// DefaultCatalog возвращает каталог достижений в порядке проверки.
// RequiredValue = 0 отключает пороговое правило: такие достижения
// открываются только своим специальным правилом.
func DefaultCatalog() []AchievementDefinition {
	return []AchievementDefinition{
		{"first_lesson", KindLessons, 1, "First Steps", "Complete your first lesson", "#4CAF50"},
		{"lessons_5", KindLessons, 5, "Getting the Hang of It", "Complete 5 lessons", "#8BC34A"},
		{"lessons_10", KindLessons, 10, "Component Crafter", "Complete 10 lessons", "#CDDC39"},
		{AchievementAllLessons, KindLessons, 0, "Curriculum Complete", "Complete every lesson in the course", "#FFC107"},
		{"first_quiz", KindQuizzes, 1, "Quiz Taker", "Finish your first quiz", "#03A9F4"},
		{"quizzes_5", KindQuizzes, 5, "Quiz Enthusiast", "Finish 5 quizzes", "#2196F3"},
		{AchievementPerfectQuiz, KindQuizzes, 0, "Perfectionist", "Answer every question of a quiz correctly", "#9C27B0"},
		{"streak_3", KindStreak, 3, "On a Roll", "Study 3 days in a row", "#FF9800"},
		{"streak_7", KindStreak, 7, "Week Warrior", "Study 7 days in a row", "#FF5722"},
		{"streak_30", KindStreak, 30, "Monthly Master", "Study 30 days in a row", "#F44336"},
	}
}

// FindDefinition ищет определение по id.
func FindDefinition(catalog []AchievementDefinition, id string) (AchievementDefinition, bool) {
	for _, def := range catalog {
		if def.ID == id {
			return def, true
		}
	}
	return AchievementDefinition{}, false
}

// Snapshot - счётчики, по которым проверяются достижения.
type Snapshot struct {
	StreakDays       int
	CompletedLessons []string
	QuizResults      []QuizResult
	TotalLessons     int
}

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT CHECKER
// ══════════════════════════════════════════════════════════════════════════════

// AchievementChecker проверяет условия для разблокировки достижений.
// Чистая функция над каталогом: сохранение и уведомления делает вызывающий.
type AchievementChecker struct {
	catalog []AchievementDefinition
}

// NewAchievementChecker создаёт проверщик; nil-каталог означает DefaultCatalog.
func NewAchievementChecker(catalog []AchievementDefinition) *AchievementChecker {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &AchievementChecker{catalog: catalog}
}

// Catalog возвращает каталог проверщика.
func (ac *AchievementChecker) Catalog() []AchievementDefinition {
	return ac.catalog
}

// Check возвращает определения, которые выполнены сейчас и которых нет в
// alreadyEarned. Порядок - порядок каталога; повторов нет.
func (ac *AchievementChecker) Check(s Snapshot, alreadyEarned []string) []AchievementDefinition {
	earned := make(map[string]bool, len(alreadyEarned))
	for _, id := range alreadyEarned {
		earned[id] = true
	}

	var unlocked []AchievementDefinition
	for _, def := range ac.catalog {
		if earned[def.ID] {
			continue
		}
		if !satisfied(def, s) {
			continue
		}
		earned[def.ID] = true
		unlocked = append(unlocked, def)
	}
	return unlocked
}

func satisfied(def AchievementDefinition, s Snapshot) bool {
	meets := func(n int) bool { return def.RequiredValue > 0 && n >= def.RequiredValue }

	switch def.Kind {
	case KindStreak:
		return meets(s.StreakDays)
	case KindLessons:
		n := len(s.CompletedLessons)
		if def.ID == AchievementAllLessons && s.TotalLessons > 0 && n >= s.TotalLessons {
			return true
		}
		return meets(n)
	case KindQuizzes:
		if def.ID == AchievementPerfectQuiz && QuizResults(s.QuizResults).HasPerfect() {
			return true
		}
		return meets(len(s.QuizResults))
	default:
		return false
	}
}

// Evaluate проверяет достижения по каталогу по умолчанию.
func Evaluate(
	streakDays int,
	completedLessons []string,
	quizResults []QuizResult,
	totalLessons int,
	alreadyEarned []string,
) []AchievementDefinition {
	return NewAchievementChecker(nil).Check(Snapshot{
		StreakDays:       streakDays,
		CompletedLessons: completedLessons,
		QuizResults:      quizResults,
		TotalLessons:     totalLessons,
	}, alreadyEarned)
}

// EarnedIDs возвращает идентификаторы полученных достижений.
func EarnedIDs(list []UserAchievement) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

// AppendEarned добавляет новые достижения, пропуская уже имеющиеся id.
func AppendEarned(list []UserAchievement, defs []AchievementDefinition, at time.Time) []UserAchievement {
	have := make(map[string]bool, len(list))
	for _, a := range list {
		have[a.ID] = true
	}
	for _, def := range defs {
		if have[def.ID] {
			continue
		}
		have[def.ID] = true
		list = append(list, UserAchievement{ID: def.ID, DateEarned: at})
	}
	return list
}

// DedupEarned убирает повторные записи, оставляя самую раннюю.
func DedupEarned(list []UserAchievement) []UserAchievement {
	idx := make(map[string]int, len(list))
	out := make([]UserAchievement, 0, len(list))
	for _, a := range list {
		if i, ok := idx[a.ID]; ok {
			if a.DateEarned.Before(out[i].DateEarned) {
				out[i].DateEarned = a.DateEarned
			}
			continue
		}
		idx[a.ID] = len(out)
		out = append(out, a)
	}
	return out
}
