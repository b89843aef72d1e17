package eventhandler

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/notification"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON STREAK CHANGED
// Круглые числа серии поздравляем, сорванную серию встречаем мягко:
// не упрекаем, а приглашаем продолжить.
// ═══════════════════════════════════════════════════════════════════════════

// StreakConfig - настройки обработчика серии.
type StreakConfig struct {
	// Milestones - длины серии, о которых сообщаем.
	Milestones []int

	// MinBrokenStreak - сорванные серии короче не заслуживают уведомления.
	MinBrokenStreak int

	// CooldownPeriod - минимальный интервал между уведомлениями о срыве
	// серии для одного профиля.
	CooldownPeriod time.Duration
}

// DefaultStreakConfig возвращает конфигурацию по умолчанию.
func DefaultStreakConfig() StreakConfig {
	return StreakConfig{
		Milestones:      []int{3, 7, 14, 30, 100},
		MinBrokenStreak: 3,
		CooldownPeriod:  24 * time.Hour,
	}
}

// OnStreakChangedHandler обрабатывает StreakUpdated и StreakBroken.
type OnStreakChangedHandler struct {
	sender notification.Sender
	logger *logger.Logger
	config StreakConfig

	mu         sync.Mutex
	lastBroken map[string]time.Time
}

// NewOnStreakChangedHandler создаёт обработчик.
func NewOnStreakChangedHandler(sender notification.Sender, log *logger.Logger, cfg StreakConfig) *OnStreakChangedHandler {
	return &OnStreakChangedHandler{
		sender:     sender,
		logger:     log.With(logger.F("handler", "on_streak_changed")),
		config:     cfg,
		lastBroken: make(map[string]time.Time),
	}
}

// Handle реализует shared.EventHandler.
func (h *OnStreakChangedHandler) Handle(event shared.Event) error {
	switch e := event.(type) {
	case *shared.StreakUpdatedEvent:
		return h.onUpdated(e)
	case *shared.StreakBrokenEvent:
		return h.onBroken(e)
	default:
		h.logger.Warn("unexpected event", logger.String("event_type", string(event.EventType())))
		return nil
	}
}

func (h *OnStreakChangedHandler) onUpdated(e *shared.StreakUpdatedEvent) error {
	if !slices.Contains(h.config.Milestones, e.StreakDays) {
		return nil
	}

	n, err := notification.New(e.AggregateID(), notification.TypeStreakMilestone,
		fmt.Sprintf("%d-day streak", e.StreakDays), "Keep the rhythm going", e.OccurredAt())
	if err != nil {
		return err
	}
	n.WithMetadata("streak_days", fmt.Sprint(e.StreakDays))

	deliver(h.sender, h.logger, n)
	return nil
}

func (h *OnStreakChangedHandler) onBroken(e *shared.StreakBrokenEvent) error {
	if e.PreviousStreak < h.config.MinBrokenStreak {
		return nil
	}
	if !h.allow(e.AggregateID(), e.OccurredAt()) {
		h.logger.Debug("streak broken notification in cooldown", logger.Profile(e.AggregateID()))
		return nil
	}

	body := fmt.Sprintf("Your %d-day streak ended after %d missed days. Today is a fine day to start a new one",
		e.PreviousStreak, e.DaysMissed)
	n, err := notification.New(e.AggregateID(), notification.TypeStreakBroken, "Welcome back", body, e.OccurredAt())
	if err != nil {
		return err
	}

	deliver(h.sender, h.logger, n)
	return nil
}

// allow применяет CooldownPeriod и запоминает момент отправки.
func (h *OnStreakChangedHandler) allow(profile string, at time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if last, ok := h.lastBroken[profile]; ok && at.Sub(last) < h.config.CooldownPeriod {
		return false
	}
	h.lastBroken[profile] = at
	return true
}
