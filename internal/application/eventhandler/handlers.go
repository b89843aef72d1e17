// Package eventhandler содержит обработчики доменных событий.
// Обработчики превращают события прогресса в уведомления и отдают их
// notification.Sender. Ошибка доставки логируется и не влияет на команду,
// которая опубликовала событие.
package eventhandler

import (
	"context"
	"fmt"

	"github.com/rn-academy/progress-hub/internal/domain/notification"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// REGISTRATION
// ═══════════════════════════════════════════════════════════════════════════

// Config - настройки всех обработчиков.
type Config struct {
	Streak StreakConfig
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{Streak: DefaultStreakConfig()}
}

// Register подписывает обработчики уведомлений на шину.
func Register(bus shared.EventSubscriber, sender notification.Sender, log *logger.Logger, cfg Config) error {
	if log == nil {
		log = logger.Nop()
	}

	achievements := NewOnAchievementUnlockedHandler(sender, log)
	streaks := NewOnStreakChangedHandler(sender, log, cfg.Streak)
	goals := NewOnGoalCompletedHandler(sender, log)

	subs := []struct {
		t shared.EventType
		h shared.EventHandler
	}{
		{shared.EventAchievementUnlocked, achievements.Handle},
		{shared.EventStreakUpdated, streaks.Handle},
		{shared.EventStreakBroken, streaks.Handle},
		{shared.EventGoalCompleted, goals.Handle},
	}
	for _, s := range subs {
		if err := bus.Subscribe(s.t, s.h); err != nil {
			return fmt.Errorf("subscribe %s: %w", s.t, err)
		}
	}
	return nil
}

// deliver отправляет уведомление; ошибка только логируется.
func deliver(sender notification.Sender, log *logger.Logger, n *notification.Notification) {
	if err := sender.Send(context.Background(), n); err != nil {
		log.Warn("notification not delivered",
			logger.Profile(n.Profile),
			logger.String("type", string(n.Type)),
			logger.Err(err),
		)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// ON ACHIEVEMENT UNLOCKED
// ═══════════════════════════════════════════════════════════════════════════

// OnAchievementUnlockedHandler поздравляет с новым достижением.
type OnAchievementUnlockedHandler struct {
	sender notification.Sender
	logger *logger.Logger
}

// NewOnAchievementUnlockedHandler создаёт обработчик.
func NewOnAchievementUnlockedHandler(sender notification.Sender, log *logger.Logger) *OnAchievementUnlockedHandler {
	return &OnAchievementUnlockedHandler{
		sender: sender,
		logger: log.With(logger.F("handler", "on_achievement_unlocked")),
	}
}

// Handle реализует shared.EventHandler.
func (h *OnAchievementUnlockedHandler) Handle(event shared.Event) error {
	e, ok := event.(*shared.AchievementUnlockedEvent)
	if !ok {
		h.logger.Warn("unexpected event", logger.String("event_type", string(event.EventType())))
		return nil
	}

	n, err := notification.New(e.AggregateID(), notification.TypeAchievement,
		"Achievement unlocked", e.Title, e.OccurredAt())
	if err != nil {
		return err
	}
	n.WithMetadata("achievement_id", e.AchievementID)

	deliver(h.sender, h.logger, n)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// ON GOAL COMPLETED
// ═══════════════════════════════════════════════════════════════════════════

// OnGoalCompletedHandler сообщает о выполненной цели.
type OnGoalCompletedHandler struct {
	sender notification.Sender
	logger *logger.Logger
}

// NewOnGoalCompletedHandler создаёт обработчик.
func NewOnGoalCompletedHandler(sender notification.Sender, log *logger.Logger) *OnGoalCompletedHandler {
	return &OnGoalCompletedHandler{
		sender: sender,
		logger: log.With(logger.F("handler", "on_goal_completed")),
	}
}

// Handle реализует shared.EventHandler.
func (h *OnGoalCompletedHandler) Handle(event shared.Event) error {
	e, ok := event.(*shared.GoalCompletedEvent)
	if !ok {
		h.logger.Warn("unexpected event", logger.String("event_type", string(event.EventType())))
		return nil
	}

	n, err := notification.New(e.AggregateID(), notification.TypeGoalCompleted,
		"Goal completed", e.Title, e.OccurredAt())
	if err != nil {
		return err
	}
	n.WithMetadata("goal_id", e.GoalID)

	deliver(h.sender, h.logger, n)
	return nil
}
