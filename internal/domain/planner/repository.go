package planner

import (
	"context"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// Repository хранит списки целей, заметок и сниппетов профиля.
// Отсутствующий ключ - пустой список. Повреждённый JSON - *shared.DecodeError.
type Repository interface {
	Goals(ctx context.Context, profile shared.ProfileID) (Goals, error)
	SaveGoals(ctx context.Context, profile shared.ProfileID, goals Goals) error

	Notes(ctx context.Context, profile shared.ProfileID) (Notes, error)
	SaveNotes(ctx context.Context, profile shared.ProfileID, notes Notes) error

	Snippets(ctx context.Context, profile shared.ProfileID) (Snippets, error)
	SaveSnippets(ctx context.Context, profile shared.ProfileID, snippets Snippets) error
}
