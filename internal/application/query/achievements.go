package query

import (
	"context"
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// ListAchievementsQuery - параметры списка достижений.
type ListAchievementsQuery struct {
	Profile string

	// EarnedOnly - только полученные.
	EarnedOnly bool
}

// AchievementView - определение из каталога вместе с датой получения.
type AchievementView struct {
	progress.AchievementDefinition

	Earned     bool       `json:"earned"`
	DateEarned *time.Time `json:"date_earned,omitempty"`
}

// ListAchievements возвращает каталог в порядке проверки с отметками.
// Полученные достижения, которых уже нет в каталоге, не показываются.
func (h *Handler) ListAchievements(ctx context.Context, q ListAchievementsQuery) ([]AchievementView, error) {
	profile, err := shared.NewProfileID(q.Profile)
	if err != nil {
		return nil, err
	}

	earned, err := h.progress.Achievements(ctx, profile)
	if err != nil {
		return nil, err
	}
	dates := make(map[string]time.Time, len(earned))
	for _, a := range earned {
		dates[a.ID] = a.DateEarned
	}

	catalog := h.checker.Catalog()
	out := make([]AchievementView, 0, len(catalog))
	for _, def := range catalog {
		view := AchievementView{AchievementDefinition: def}
		if at, ok := dates[def.ID]; ok {
			view.Earned = true
			view.DateEarned = &at
		}
		if q.EarnedOnly && !view.Earned {
			continue
		}
		out = append(out, view)
	}
	return out, nil
}
