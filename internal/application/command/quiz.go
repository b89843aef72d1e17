package command

import (
	"context"
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// SubmitQuizCommand stores the result of a finished quiz.
type SubmitQuizCommand struct {
	Profile        string
	LessonID       string `validate:"required"`
	Score          int    `validate:"gte=0"`
	TotalQuestions int    `validate:"gte=1"`
}

// QuizResult is returned by SubmitQuiz.
type QuizResult struct {
	Outcome

	Result progress.QuizResult `json:"result"`

	// Retake is true when an earlier result for the lesson was replaced.
	Retake bool `json:"retake"`

	// Average is the quiz average over all stored results.
	Average int `json:"average"`
}

// SubmitQuiz upserts the result by lesson id and counts as study activity.
func (h *ProgressHandler) SubmitQuiz(ctx context.Context, cmd SubmitQuizCommand) (*QuizResult, error) {
	if err := validateCommand("progress", "SubmitQuiz", cmd); err != nil {
		return nil, err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}
	if !h.catalog.HasLesson(cmd.LessonID) {
		return nil, shared.ErrLessonNotFound
	}

	start := time.Now()
	now := h.clock.Now()

	entry, err := progress.NewQuizResult(cmd.LessonID, cmd.Score, cmd.TotalQuestions, now)
	if err != nil {
		return nil, err
	}

	results, err := h.repo.QuizResults(ctx, profile)
	if err != nil {
		return nil, err
	}
	retake := results.Upsert(entry)
	if err := h.repo.SaveQuizResults(ctx, profile, results); err != nil {
		return nil, err
	}

	out := &QuizResult{
		Result:  entry,
		Retake:  retake,
		Average: progress.QuizAverage(results),
	}
	out.Events = append(out.Events, shared.NewQuizSubmittedEvent(
		profile.String(), cmd.LessonID, cmd.Score, cmd.TotalQuestions, retake, now))

	if err := h.studied(ctx, profile, now, nil, results, &out.Outcome); err != nil {
		return nil, err
	}

	h.finish("SubmitQuiz", profile, &out.Outcome, start)
	return out, nil
}
