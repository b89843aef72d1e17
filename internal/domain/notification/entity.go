// Package notification содержит модель внутренних уведомлений: поздравления
// с достижениями, напоминания о сорванной серии, выполненные цели.
// Доставка (push, локальные уведомления платформы) вне этого пакета.
package notification

import (
	"errors"
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidType - неизвестный тип уведомления.
	ErrInvalidType = errors.New("notification: invalid type")

	// ErrEmptyRecipient - не указан профиль получателя.
	ErrEmptyRecipient = errors.New("notification: empty recipient")

	// ErrEmptyTitle - заголовок обязателен.
	ErrEmptyTitle = errors.New("notification: empty title")
)

// ══════════════════════════════════════════════════════════════════════════════
// TYPE
// ══════════════════════════════════════════════════════════════════════════════

// Type - тип уведомления.
type Type string

const (
	// TypeAchievement - открыто новое достижение.
	TypeAchievement Type = "achievement"

	// TypeStreakMilestone - серия достигла круглого числа.
	TypeStreakMilestone Type = "streak_milestone"

	// TypeStreakBroken - серия прервалась, мягкое приглашение вернуться.
	TypeStreakBroken Type = "streak_broken"

	// TypeGoalCompleted - цель планировщика выполнена.
	TypeGoalCompleted Type = "goal_completed"
)

// IsValid проверяет, что тип известен.
func (t Type) IsValid() bool {
	switch t {
	case TypeAchievement, TypeStreakMilestone, TypeStreakBroken, TypeGoalCompleted:
		return true
	}
	return false
}

// Priority - приоритет уведомления.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

// String returns the priority name for logs.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	default:
		return "normal"
	}
}

// DefaultPriority возвращает приоритет по умолчанию для типа.
func (t Type) DefaultPriority() Priority {
	switch t {
	case TypeAchievement, TypeGoalCompleted:
		return PriorityHigh
	case TypeStreakMilestone:
		return PriorityNormal
	default:
		return PriorityLow
	}
}

// Emoji возвращает эмодзи для типа.
func (t Type) Emoji() string {
	switch t {
	case TypeAchievement:
		return "🏆"
	case TypeStreakMilestone:
		return "🔥"
	case TypeStreakBroken:
		return "👋"
	case TypeGoalCompleted:
		return "🎯"
	default:
		return "📢"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// Notification - одно уведомление для профиля.
type Notification struct {
	Profile   string            `json:"profile"`
	Type      Type              `json:"type"`
	Priority  Priority          `json:"priority"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// New создаёт уведомление с приоритетом по умолчанию для типа.
func New(profile string, t Type, title, body string, at time.Time) (*Notification, error) {
	n := &Notification{
		Profile:   profile,
		Type:      t,
		Priority:  t.DefaultPriority(),
		Title:     title,
		Body:      body,
		CreatedAt: at,
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate проверяет инварианты уведомления.
func (n *Notification) Validate() error {
	if !n.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, n.Type)
	}
	if n.Profile == "" {
		return ErrEmptyRecipient
	}
	if n.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// WithMetadata добавляет пару ключ-значение и возвращает уведомление.
func (n *Notification) WithMetadata(key, value string) *Notification {
	if n.Metadata == nil {
		n.Metadata = make(map[string]string)
	}
	n.Metadata[key] = value
	return n
}

// Text - заголовок с эмодзи и тело одной строкой.
func (n *Notification) Text() string {
	if n.Body == "" {
		return n.Type.Emoji() + " " + n.Title
	}
	return n.Type.Emoji() + " " + n.Title + ": " + n.Body
}
