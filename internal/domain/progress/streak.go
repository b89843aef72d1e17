package progress

import (
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK (Серия активных дней)
// ══════════════════════════════════════════════════════════════════════════════

// StreakOutcome описывает, что произошло с серией.
type StreakOutcome int

const (
	// StreakUnchanged - уже занимались сегодня.
	StreakUnchanged StreakOutcome = iota
	// StreakStarted - первая активность (даты ещё не было).
	StreakStarted
	// StreakExtended - занимались вчера, серия +1.
	StreakExtended
	// StreakReset - был пропуск, серия начинается заново.
	StreakReset
)

// String returns the outcome name for logs.
func (o StreakOutcome) String() string {
	switch o {
	case StreakUnchanged:
		return "unchanged"
	case StreakStarted:
		return "started"
	case StreakExtended:
		return "extended"
	case StreakReset:
		return "reset"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name.
func (o StreakOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UpdateStreak применяет учебную активность "сегодня" к плану.
//
//   - тот же календарный день: без изменений (повторный вызов идемпотентен);
//   - ровно на день позже: StreakDays+1, LastStudyDate = today;
//   - иначе (пропуск ≥ 2 дней, дата не задана или в будущем): StreakDays = 1.
//
// Календарный день берётся в локации today; часы стоит передавать уже в
// часовом поясе пользователя.
func UpdateStreak(plan LearningPlan, today time.Time) LearningPlan {
	updated, _ := StreakTransition(plan, today)
	return updated
}

// StreakTransition делает то же, что UpdateStreak, и сообщает исход.
func StreakTransition(plan LearningPlan, today time.Time) (LearningPlan, StreakOutcome) {
	day := shared.DateOf(today)

	if plan.LastStudyDate.IsZero() {
		plan.StreakDays = 1
		plan.LastStudyDate = day
		return plan, StreakStarted
	}

	switch plan.LastStudyDate.DaysUntil(day) {
	case 0:
		return plan, StreakUnchanged
	case 1:
		plan.StreakDays++
		plan.LastStudyDate = day
		return plan, StreakExtended
	default:
		plan.StreakDays = 1
		plan.LastStudyDate = day
		return plan, StreakReset
	}
}

// DaysMissed - сколько календарных дней пропущено до today (0, если пропуска нет).
func DaysMissed(plan LearningPlan, today time.Time) int {
	if plan.LastStudyDate.IsZero() {
		return 0
	}
	gap := plan.LastStudyDate.DaysUntil(shared.DateOf(today)) - 1
	if gap < 0 {
		return 0
	}
	return gap
}

// IsStreakAtRisk - серия есть, но сегодня ещё не занимались.
func IsStreakAtRisk(plan LearningPlan, today time.Time) bool {
	if plan.LastStudyDate.IsZero() || plan.StreakDays == 0 {
		return false
	}
	return plan.LastStudyDate.DaysUntil(shared.DateOf(today)) == 1
}

// CurrentStreak - серия с учётом прошедшего времени: если пропуск уже
// случился, отображаем 0, хотя в хранилище число обновится только при
// следующей активности.
func CurrentStreak(plan LearningPlan, today time.Time) int {
	if plan.LastStudyDate.IsZero() {
		return 0
	}
	if plan.LastStudyDate.DaysUntil(shared.DateOf(today)) > 1 {
		return 0
	}
	return plan.StreakDays
}
