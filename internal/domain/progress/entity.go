package progress

import (
	"slices"
	"sort"
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ID SET (пройденные уроки, просмотренные видео, шаги проекта)
// ══════════════════════════════════════════════════════════════════════════════

// IDSet - упорядоченное по вставке множество идентификаторов.
// Хранится как JSON-массив строк.
type IDSet []string

// Contains проверяет наличие идентификатора.
func (s IDSet) Contains(id string) bool {
	return slices.Contains(s, id)
}

// Len возвращает размер множества.
func (s IDSet) Len() int {
	return len(s)
}

// Add добавляет идентификатор. Возвращает false, если он уже был.
func (s *IDSet) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Remove удаляет идентификатор. Возвращает false, если его не было.
func (s *IDSet) Remove(id string) bool {
	idx := slices.Index(*s, id)
	if idx < 0 {
		return false
	}
	*s = slices.Delete(*s, idx, idx+1)
	return true
}

// Toggle переключает наличие идентификатора и возвращает новое состояние.
func (s *IDSet) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

// Dedup убирает повторы, сохраняя первое вхождение.
// Нужен при чтении данных, записанных старыми версиями приложения.
func (s IDSet) Dedup() IDSet {
	seen := make(map[string]struct{}, len(s))
	out := make(IDSet, 0, len(s))
	for _, id := range s {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// CountIn возвращает, сколько идентификаторов множества входят в allowed.
func (s IDSet) CountIn(allowed []string) int {
	return s.Within(allowed).Len()
}

// Within возвращает только идентификаторы из allowed, в исходном порядке.
// Устаревшие id (урок убран из каталога) в подсчёты прогресса не входят.
func (s IDSet) Within(allowed []string) IDSet {
	out := make(IDSet, 0, len(s))
	for _, id := range s {
		if slices.Contains(allowed, id) {
			out = append(out, id)
		}
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// PROJECT PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

// ProjectProgress - projectID → выполненные шаги.
type ProjectProgress map[string]IDSet

// Steps возвращает выполненные шаги проекта (nil, если нет).
func (p ProjectProgress) Steps(projectID string) IDSet {
	if p == nil {
		return nil
	}
	return p[projectID]
}

// ToggleStep переключает шаг и возвращает новое состояние шага.
func (p ProjectProgress) ToggleStep(projectID, stepID string) bool {
	steps := p[projectID]
	done := steps.Toggle(stepID)
	if len(steps) == 0 {
		delete(p, projectID)
	} else {
		p[projectID] = steps
	}
	return done
}

// ══════════════════════════════════════════════════════════════════════════════
// QUIZ RESULTS
// ══════════════════════════════════════════════════════════════════════════════

// QuizResult - результат прохождения теста по уроку.
type QuizResult struct {
	// LessonID - урок, к которому относится тест.
	LessonID string `json:"lesson_id"`

	// Score - количество правильных ответов.
	Score int `json:"score"`

	// TotalQuestions - количество вопросов в тесте.
	TotalQuestions int `json:"total_questions"`

	// Completed - тест пройден до конца.
	Completed bool `json:"completed"`

	// Date - когда тест был сдан.
	Date time.Time `json:"date"`
}

// NewQuizResult создаёт результат с проверкой инвариантов.
func NewQuizResult(lessonID string, score, total int, at time.Time) (QuizResult, error) {
	r := QuizResult{
		LessonID:       lessonID,
		Score:          score,
		TotalQuestions: total,
		Completed:      true,
		Date:           at,
	}
	if err := r.Validate(); err != nil {
		return QuizResult{}, err
	}
	return r, nil
}

// Validate проверяет 0 ≤ score ≤ total и total > 0.
func (r QuizResult) Validate() error {
	if r.LessonID == "" {
		return shared.ErrLessonNotFound
	}
	if r.TotalQuestions <= 0 {
		return shared.ErrNoQuestions
	}
	if r.Score < 0 || r.Score > r.TotalQuestions {
		return shared.ErrScoreOutOfRange
	}
	return nil
}

// IsPerfect - все ответы верны.
func (r QuizResult) IsPerfect() bool {
	return r.TotalQuestions > 0 && r.Score == r.TotalQuestions
}

// Percent - процент правильных ответов.
func (r QuizResult) Percent() int {
	return Percent(r.Score, r.TotalQuestions)
}

// QuizResults - список результатов, не более одного на урок.
type QuizResults []QuizResult

// Upsert вставляет или заменяет результат по LessonID.
// Возвращает true, если это пересдача.
func (rs *QuizResults) Upsert(r QuizResult) bool {
	for i := range *rs {
		if (*rs)[i].LessonID == r.LessonID {
			(*rs)[i] = r
			return true
		}
	}
	*rs = append(*rs, r)
	return false
}

// Find возвращает результат по уроку.
func (rs QuizResults) Find(lessonID string) (QuizResult, bool) {
	for _, r := range rs {
		if r.LessonID == lessonID {
			return r, true
		}
	}
	return QuizResult{}, false
}

// HasPerfect - есть хотя бы один идеальный результат.
func (rs QuizResults) HasPerfect() bool {
	for _, r := range rs {
		if r.IsPerfect() {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// LEARNING PLAN
// ══════════════════════════════════════════════════════════════════════════════

// Level - уровень подготовки, выбранный в плане.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// IsValid проверяет, что уровень известен.
func (l Level) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// DefaultWeeklyGoal - цель по урокам в неделю для нового плана.
const DefaultWeeklyGoal = 3

// LearningPlan - план обучения пользователя и состояние серии.
type LearningPlan struct {
	// Level - уровень подготовки.
	Level Level `json:"level"`

	// WeeklyGoal - сколько уроков в неделю.
	WeeklyGoal int `json:"weekly_goal"`

	// StudyDays - дни недели для занятий (0 = воскресенье .. 6 = суббота).
	StudyDays []int `json:"study_days"`

	// StreakDays - текущая серия дней подряд.
	StreakDays int `json:"streak_days"`

	// LastStudyDate - последний день с учебной активностью.
	LastStudyDate shared.Date `json:"last_study_date"`
}

// DefaultPlan возвращает план для нового пользователя.
func DefaultPlan() LearningPlan {
	return LearningPlan{
		Level:      LevelBeginner,
		WeeklyGoal: DefaultWeeklyGoal,
		StudyDays:  []int{1, 3, 5},
	}
}

// Validate проверяет инварианты плана.
func (p LearningPlan) Validate() error {
	if !p.Level.IsValid() {
		return shared.ErrInvalidLevel
	}
	if p.WeeklyGoal < 0 {
		return shared.ErrNegativeGoal
	}
	for _, d := range p.StudyDays {
		if d < 0 || d > 6 {
			return shared.ErrInvalidStudyDay
		}
	}
	if p.StreakDays < 0 {
		return shared.ErrNegativeStreak
	}
	return nil
}

// WithSchedule возвращает копию плана с новыми настройками; серия не трогается.
func (p LearningPlan) WithSchedule(level Level, weeklyGoal int, studyDays []int) LearningPlan {
	p.Level = level
	p.WeeklyGoal = weeklyGoal
	p.StudyDays = NormalizeStudyDays(studyDays)
	return p
}

// IsStudyDay - входит ли день недели в план.
func (p LearningPlan) IsStudyDay(day time.Weekday) bool {
	return slices.Contains(p.StudyDays, int(day))
}

// NormalizeStudyDays сортирует и убирает повторы.
func NormalizeStudyDays(days []int) []int {
	out := make([]int, 0, len(days))
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
