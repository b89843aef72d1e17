package progress

import "math"

// ══════════════════════════════════════════════════════════════════════════════
// PERCENTAGES
// Все функции возвращают целое в [0, 100] и 0 при нулевом знаменателе.
// ══════════════════════════════════════════════════════════════════════════════

// Percent округляет num/den*100 до ближайшего целого.
func Percent(num, den int) int {
	if den <= 0 || num <= 0 {
		return 0
	}
	p := int(math.Round(float64(num) * 100 / float64(den)))
	if p > 100 {
		return 100
	}
	return p
}

// LessonPercent - доля пройденных уроков курса.
func LessonPercent(completed, totalLessons int) int {
	return Percent(completed, totalLessons)
}

// QuizAverage - средний процент правильных ответов по всем тестам.
// Результаты без вопросов не учитываются.
func QuizAverage(results []QuizResult) int {
	sum, n := 0, 0
	for _, r := range results {
		if r.TotalQuestions <= 0 {
			continue
		}
		sum += r.Percent()
		n++
	}
	if n == 0 {
		return 0
	}
	return Percent(sum, n*100)
}

// ProjectPercent - доля выполненных шагов проекта.
func ProjectPercent(doneSteps, totalSteps int) int {
	return Percent(doneSteps, totalSteps)
}

// WeeklyProgress - уроки, засчитанные в недельную цель.
// Считается как min(completedLessons, weeklyGoal), без окна по неделе.
func WeeklyProgress(completedLessons, weeklyGoal int) int {
	if weeklyGoal <= 0 || completedLessons <= 0 {
		return 0
	}
	return min(completedLessons, weeklyGoal)
}

// WeeklyPercent - выполнение недельной цели в процентах.
func WeeklyPercent(completedLessons, weeklyGoal int) int {
	return Percent(WeeklyProgress(completedLessons, weeklyGoal), weeklyGoal)
}
