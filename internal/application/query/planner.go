package query

import (
	"context"
	"strings"

	"github.com/rn-academy/progress-hub/internal/domain/planner"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLANNER LISTS
// Списки возвращаются в порядке создания.
// ══════════════════════════════════════════════════════════════════════════════

// ListGoalsQuery - параметры списка целей.
type ListGoalsQuery struct {
	Profile string

	// HideCompleted скрывает выполненные цели.
	HideCompleted bool
}

// GoalView - цель с вычисленными полями.
type GoalView struct {
	*planner.Goal

	MilestonesDone  int  `json:"milestones_done"`
	MilestonesTotal int  `json:"milestones_total"`
	Overdue         bool `json:"overdue"`
}

// ListGoals возвращает цели профиля.
func (h *Handler) ListGoals(ctx context.Context, q ListGoalsQuery) ([]GoalView, error) {
	profile, err := shared.NewProfileID(q.Profile)
	if err != nil {
		return nil, err
	}
	goals, err := h.planner.Goals(ctx, profile)
	if err != nil {
		return nil, err
	}

	today := shared.DateOf(h.clock.Now())
	out := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		if q.HideCompleted && g.Completed {
			continue
		}
		out = append(out, GoalView{
			Goal:            g,
			MilestonesDone:  g.MilestonesDone(),
			MilestonesTotal: len(g.Milestones),
			Overdue:         g.IsOverdue(today),
		})
	}
	return out, nil
}

// ListNotesQuery - параметры списка заметок.
type ListNotesQuery struct {
	Profile string

	// LessonID - только заметки урока (пусто - все).
	LessonID string
}

// ListNotes возвращает заметки профиля.
func (h *Handler) ListNotes(ctx context.Context, q ListNotesQuery) (planner.Notes, error) {
	profile, err := shared.NewProfileID(q.Profile)
	if err != nil {
		return nil, err
	}
	notes, err := h.planner.Notes(ctx, profile)
	if err != nil {
		return nil, err
	}
	out := notes.ForLesson(strings.TrimSpace(q.LessonID))
	if out == nil {
		out = planner.Notes{}
	}
	return out, nil
}

// ListSnippetsQuery - параметры списка сниппетов.
type ListSnippetsQuery struct {
	Profile string

	// Language - фильтр по языку (без учёта регистра).
	Language string
}

// ListSnippets возвращает сниппеты профиля.
func (h *Handler) ListSnippets(ctx context.Context, q ListSnippetsQuery) (planner.Snippets, error) {
	profile, err := shared.NewProfileID(q.Profile)
	if err != nil {
		return nil, err
	}
	snippets, err := h.planner.Snippets(ctx, profile)
	if err != nil {
		return nil, err
	}

	out := make(planner.Snippets, 0, len(snippets))
	for _, s := range snippets {
		if q.Language != "" && !strings.EqualFold(s.Language, q.Language) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
