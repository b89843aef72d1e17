// Package command contains write operations (CQRS - Commands).
//
// Every handler follows the same shape: validate the command, read the
// affected keys through the repositories, apply a pure domain transition,
// write the result back, evaluate achievements and publish events.
// There is no locking; two concurrent writers on the same key resolve as
// last write wins.
package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rn-academy/progress-hub/internal/domain/curriculum"
	"github.com/rn-academy/progress-hub/internal/domain/planner"
	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies are the ports every handler is wired with.
type Dependencies struct {
	Progress  progress.Repository
	Planner   planner.Repository
	Catalog   *curriculum.Catalog
	Checker   *progress.AchievementChecker
	Clock     shared.Clock
	Publisher shared.EventPublisher
	Logger    *logger.Logger
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Catalog == nil {
		d.Catalog = curriculum.MustDefault()
	}
	if d.Checker == nil {
		d.Checker = progress.NewAchievementChecker(nil)
	}
	if d.Clock == nil {
		d.Clock = systemClock{}
	}
	if d.Publisher == nil {
		d.Publisher = shared.NopPublisher{}
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	return d
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ══════════════════════════════════════════════════════════════════════════════
// VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateCommand runs struct-tag validation and converts failures into a
// DomainError of kind ErrValidation.
func validateCommand(domain, op string, cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return shared.WrapError(domain, op, shared.ErrValidation, "invalid command", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return shared.WrapError(domain, op, shared.ErrValidation, strings.Join(msgs, "; "), err)
}

func fieldMessage(fe validator.FieldError) string {
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "datetime":
		return field + " must be a YYYY-MM-DD date"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// resolveProfile maps an empty profile to the default one.
func resolveProfile(raw string) (shared.ProfileID, error) {
	return shared.NewProfileID(raw)
}

// publishAll publishes events in order. Publish failures are logged only:
// the write already happened and cannot be rolled back.
func publishAll(pub shared.EventPublisher, log *logger.Logger, events []shared.Event) {
	for _, e := range events {
		if err := pub.Publish(e); err != nil {
			log.Warn("failed to publish event",
				logger.String("event_type", string(e.EventType())),
				logger.Err(err),
			)
		}
	}
}
