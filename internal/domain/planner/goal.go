// Package planner содержит пользовательские цели, заметки и сниппеты.
// Все записи создаёт сам пользователь; хранятся списками под ключами профиля.
package planner

import (
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GOAL
// ══════════════════════════════════════════════════════════════════════════════

// Milestone - промежуточный шаг цели.
type Milestone struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Goal - учебная цель пользователя.
type Goal struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Deadline    shared.Date `json:"deadline"`
	Milestones  []Milestone `json:"milestones"`
	Completed   bool        `json:"completed"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewGoal создаёт цель. Пустые названия вех отбрасываются.
func NewGoal(id, title, description string, deadline shared.Date, milestones []string, now time.Time) (*Goal, error) {
	g := &Goal{
		ID:          id,
		Title:       shared.NormalizeText(title),
		Description: shared.NormalizeText(description),
		Deadline:    deadline,
		CreatedAt:   now,
	}
	if g.Title == "" {
		return nil, shared.ErrEmptyTitle
	}
	for _, m := range milestones {
		g.AddMilestone(shared.NewID(), m)
	}
	g.recompute()
	return g, nil
}

// AddMilestone добавляет веху; пустое название игнорируется.
func (g *Goal) AddMilestone(id, title string) bool {
	title = shared.NormalizeText(title)
	if title == "" {
		return false
	}
	g.Milestones = append(g.Milestones, Milestone{ID: id, Title: title})
	g.recompute()
	return true
}

// Rename меняет название, описание и срок.
func (g *Goal) Rename(title, description string, deadline shared.Date) error {
	title = shared.NormalizeText(title)
	if title == "" {
		return shared.ErrEmptyTitle
	}
	g.Title = title
	g.Description = shared.NormalizeText(description)
	g.Deadline = deadline
	return nil
}

// ToggleMilestone переключает веху и пересчитывает Completed.
// Возвращает true, если цель стала выполненной этим вызовом.
func (g *Goal) ToggleMilestone(milestoneID string) (bool, error) {
	for i := range g.Milestones {
		if g.Milestones[i].ID != milestoneID {
			continue
		}
		was := g.Completed
		g.Milestones[i].Completed = !g.Milestones[i].Completed
		g.recompute()
		return !was && g.Completed, nil
	}
	return false, shared.ErrMilestoneNotFound
}

// Toggle переключает цель целиком.
// С вехами: отмечает все выполненными или снимает отметки со всех.
// Без вех: просто переключает флаг.
func (g *Goal) Toggle() bool {
	target := !g.Completed
	for i := range g.Milestones {
		g.Milestones[i].Completed = target
	}
	g.Completed = target
	return target
}

// recompute: Completed ⇔ все вехи выполнены (когда вехи есть).
func (g *Goal) recompute() {
	if len(g.Milestones) == 0 {
		return
	}
	for _, m := range g.Milestones {
		if !m.Completed {
			g.Completed = false
			return
		}
	}
	g.Completed = true
}

// Normalize восстанавливает инвариант для записей, прочитанных из хранилища.
func (g *Goal) Normalize() {
	g.recompute()
}

// MilestonesDone - число выполненных вех.
func (g *Goal) MilestonesDone() int {
	n := 0
	for _, m := range g.Milestones {
		if m.Completed {
			n++
		}
	}
	return n
}

// IsOverdue - срок прошёл, а цель не выполнена.
func (g *Goal) IsOverdue(today shared.Date) bool {
	if g.Completed || g.Deadline.IsZero() {
		return false
	}
	return g.Deadline.Before(today)
}

// Goals - список целей.
type Goals []*Goal

// Find возвращает цель по id.
func (gs Goals) Find(id string) (*Goal, bool) {
	for _, g := range gs {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// Remove удаляет цель по id.
func (gs Goals) Remove(id string) (Goals, bool) {
	for i, g := range gs {
		if g.ID == id {
			return append(gs[:i:i], gs[i+1:]...), true
		}
	}
	return gs, false
}
