// Package query contains read operations (CQRS - Queries).
package query

import (
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/curriculum"
	"github.com/rn-academy/progress-hub/internal/domain/planner"
	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

// Dependencies - порты, которые нужны запросам.
type Dependencies struct {
	Progress progress.Repository
	Planner  planner.Repository
	Catalog  *curriculum.Catalog
	Checker  *progress.AchievementChecker
	Clock    shared.Clock
	Logger   *logger.Logger
}

// Handler обслуживает все запросы чтения.
type Handler struct {
	progress progress.Repository
	planner  planner.Repository
	catalog  *curriculum.Catalog
	checker  *progress.AchievementChecker
	clock    shared.Clock
	logger   *logger.Logger
}

// NewHandler создаёт обработчик запросов.
func NewHandler(deps Dependencies) *Handler {
	if deps.Catalog == nil {
		deps.Catalog = curriculum.MustDefault()
	}
	if deps.Checker == nil {
		deps.Checker = progress.NewAchievementChecker(nil)
	}
	if deps.Clock == nil {
		deps.Clock = wallClock{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Handler{
		progress: deps.Progress,
		planner:  deps.Planner,
		catalog:  deps.Catalog,
		checker:  deps.Checker,
		clock:    deps.Clock,
		logger:   deps.Logger.With(logger.Component("queries")),
	}
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }
