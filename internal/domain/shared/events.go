package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. The aggregate of every event is the learner profile.
const (
	// Progress events
	EventLessonCompleted EventType = "progress.lesson_completed"
	EventQuizSubmitted   EventType = "progress.quiz_submitted"
	EventStepCompleted   EventType = "progress.step_completed"
	EventStreakUpdated   EventType = "progress.streak_updated"
	EventStreakBroken    EventType = "progress.streak_broken"

	// Achievement events
	EventAchievementUnlocked EventType = "achievement.unlocked"

	// Planner events
	EventGoalCompleted EventType = "planner.goal_completed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   at,
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Progress Events
// ═══════════════════════════════════════════════════════════════════════════

// LessonCompletedEvent is emitted when a lesson enters the completed set.
type LessonCompletedEvent struct {
	BaseEvent
	LessonID         string `json:"lesson_id"`
	CompletedLessons int    `json:"completed_lessons"`
	TotalLessons     int    `json:"total_lessons"`
}

// NewLessonCompletedEvent creates a new LessonCompletedEvent.
func NewLessonCompletedEvent(profile, lessonID string, completed, total int, at time.Time) *LessonCompletedEvent {
	return &LessonCompletedEvent{
		BaseEvent:        NewBaseEvent(EventLessonCompleted, profile, at),
		LessonID:         lessonID,
		CompletedLessons: completed,
		TotalLessons:     total,
	}
}

// Payload implements Event interface.
func (e *LessonCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"lesson_id":         e.LessonID,
		"completed_lessons": e.CompletedLessons,
		"total_lessons":     e.TotalLessons,
	}
}

// QuizSubmittedEvent is emitted when a quiz result is stored.
type QuizSubmittedEvent struct {
	BaseEvent
	LessonID       string `json:"lesson_id"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	Retake         bool   `json:"retake"`
}

// NewQuizSubmittedEvent creates a new QuizSubmittedEvent.
func NewQuizSubmittedEvent(profile, lessonID string, score, total int, retake bool, at time.Time) *QuizSubmittedEvent {
	return &QuizSubmittedEvent{
		BaseEvent:      NewBaseEvent(EventQuizSubmitted, profile, at),
		LessonID:       lessonID,
		Score:          score,
		TotalQuestions: total,
		Retake:         retake,
	}
}

// Payload implements Event interface.
func (e *QuizSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"lesson_id":       e.LessonID,
		"score":           e.Score,
		"total_questions": e.TotalQuestions,
		"retake":          e.Retake,
	}
}

// StepCompletedEvent is emitted when a project step is marked complete.
type StepCompletedEvent struct {
	BaseEvent
	ProjectID      string `json:"project_id"`
	StepID         string `json:"step_id"`
	CompletedSteps int    `json:"completed_steps"`
	TotalSteps     int    `json:"total_steps"`
}

// NewStepCompletedEvent creates a new StepCompletedEvent.
func NewStepCompletedEvent(profile, projectID, stepID string, completed, total int, at time.Time) *StepCompletedEvent {
	return &StepCompletedEvent{
		BaseEvent:      NewBaseEvent(EventStepCompleted, profile, at),
		ProjectID:      projectID,
		StepID:         stepID,
		CompletedSteps: completed,
		TotalSteps:     total,
	}
}

// Payload implements Event interface.
func (e *StepCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"project_id":      e.ProjectID,
		"step_id":         e.StepID,
		"completed_steps": e.CompletedSteps,
		"total_steps":     e.TotalSteps,
	}
}

// StreakUpdatedEvent is emitted when the streak counter grows.
type StreakUpdatedEvent struct {
	BaseEvent
	StreakDays int `json:"streak_days"`
}

// NewStreakUpdatedEvent creates a new StreakUpdatedEvent.
func NewStreakUpdatedEvent(profile string, streakDays int, at time.Time) *StreakUpdatedEvent {
	return &StreakUpdatedEvent{
		BaseEvent:  NewBaseEvent(EventStreakUpdated, profile, at),
		StreakDays: streakDays,
	}
}

// Payload implements Event interface.
func (e *StreakUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"streak_days": e.StreakDays,
	}
}

// StreakBrokenEvent is emitted when a gap resets a streak longer than one day.
type StreakBrokenEvent struct {
	BaseEvent
	PreviousStreak int `json:"previous_streak"`
	DaysMissed     int `json:"days_missed"`
}

// NewStreakBrokenEvent creates a new StreakBrokenEvent.
func NewStreakBrokenEvent(profile string, previousStreak, daysMissed int, at time.Time) *StreakBrokenEvent {
	return &StreakBrokenEvent{
		BaseEvent:      NewBaseEvent(EventStreakBroken, profile, at),
		PreviousStreak: previousStreak,
		DaysMissed:     daysMissed,
	}
}

// Payload implements Event interface.
func (e *StreakBrokenEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"previous_streak": e.PreviousStreak,
		"days_missed":     e.DaysMissed,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Achievement Events
// ═══════════════════════════════════════════════════════════════════════════

// AchievementUnlockedEvent is emitted once per newly earned achievement.
type AchievementUnlockedEvent struct {
	BaseEvent
	AchievementID string `json:"achievement_id"`
	Title         string `json:"title"`
	Kind          string `json:"kind"`
}

// NewAchievementUnlockedEvent creates a new AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(profile, achievementID, title, kind string, at time.Time) *AchievementUnlockedEvent {
	return &AchievementUnlockedEvent{
		BaseEvent:     NewBaseEvent(EventAchievementUnlocked, profile, at),
		AchievementID: achievementID,
		Title:         title,
		Kind:          kind,
	}
}

// Payload implements Event interface.
func (e *AchievementUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"achievement_id": e.AchievementID,
		"title":          e.Title,
		"kind":           e.Kind,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Planner Events
// ═══════════════════════════════════════════════════════════════════════════

// GoalCompletedEvent is emitted when a goal flips to completed.
type GoalCompletedEvent struct {
	BaseEvent
	GoalID string `json:"goal_id"`
	Title  string `json:"title"`
}

// NewGoalCompletedEvent creates a new GoalCompletedEvent.
func NewGoalCompletedEvent(profile, goalID, title string, at time.Time) *GoalCompletedEvent {
	return &GoalCompletedEvent{
		BaseEvent: NewBaseEvent(EventGoalCompleted, profile, at),
		GoalID:    goalID,
		Title:     title,
	}
}

// Payload implements Event interface.
func (e *GoalCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"goal_id": e.GoalID,
		"title":   e.Title,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Ports
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// NopPublisher discards events.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(Event) error { return nil }
