// Package shared contains common domain types, errors, events, and ports
// that are used across all domain packages.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Storage errors
	ErrStorage = errors.New("storage failure")
	ErrDecode  = errors.New("stored data is malformed")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "progress", "planner", "curriculum"
	Op      string // Operation that failed, e.g., "SubmitQuiz", "CreateGoal"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// DecodeError is returned when a stored blob cannot be parsed into its typed record.
// Callers must not silently replace the stored value with defaults.
type DecodeError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// StorageError is returned when the key-value store itself fails.
type StorageError struct {
	Op  string // "get" or "set"
	Key string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying store error.
func (e *StorageError) Unwrap() error { return e.Err }

// Is matches ErrStorage.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Progress domain errors
var (
	ErrLessonNotFound     = NewDomainError("progress", "FindLesson", ErrNotFound, "lesson not found")
	ErrProjectNotFound    = NewDomainError("progress", "FindProject", ErrNotFound, "project not found")
	ErrStepNotFound       = NewDomainError("progress", "FindStep", ErrNotFound, "project step not found")
	ErrScoreOutOfRange    = NewDomainError("progress", "SubmitQuiz", ErrValueOutOfRange, "score must be between 0 and total questions")
	ErrNoQuestions        = NewDomainError("progress", "SubmitQuiz", ErrValueOutOfRange, "quiz must have at least one question")
	ErrInvalidLevel       = NewDomainError("progress", "UpdatePlan", ErrInvalidInput, "unknown learning level")
	ErrInvalidStudyDay    = NewDomainError("progress", "UpdatePlan", ErrValueOutOfRange, "study day must be 0-6")
	ErrNegativeGoal       = NewDomainError("progress", "UpdatePlan", ErrNegativeValue, "weekly goal cannot be negative")
	ErrNegativeStreak     = NewDomainError("progress", "Validate", ErrNegativeValue, "streak cannot be negative")
	ErrUnknownAchievement = NewDomainError("progress", "FindAchievement", ErrNotFound, "achievement not found")
)

// Planner domain errors
var (
	ErrGoalNotFound      = NewDomainError("planner", "FindGoal", ErrNotFound, "goal not found")
	ErrMilestoneNotFound = NewDomainError("planner", "FindMilestone", ErrNotFound, "milestone not found")
	ErrNoteNotFound      = NewDomainError("planner", "FindNote", ErrNotFound, "note not found")
	ErrSnippetNotFound   = NewDomainError("planner", "FindSnippet", ErrNotFound, "snippet not found")
	ErrEmptyTitle        = NewDomainError("planner", "Validate", ErrEmptyValue, "title cannot be empty")
	ErrEmptyText         = NewDomainError("planner", "Validate", ErrEmptyValue, "text cannot be empty")
	ErrEmptyCode         = NewDomainError("planner", "Validate", ErrEmptyValue, "code cannot be empty")
	ErrInvalidDeadline   = NewDomainError("planner", "Validate", ErrInvalidFormat, "deadline must be a YYYY-MM-DD date")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsDecode checks if the error came from a malformed stored blob.
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsStorage checks if the error came from the key-value store.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
